// Package matches implements the match lifecycle: creation, joining, hole by
// hole scoring and settlement. Every transition runs in one database
// transaction under the match row lock; events go out after commit.
package matches

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/fastprodman/golfwager/internal/events"
	"github.com/fastprodman/golfwager/internal/repos/matches"
	pgmatches "github.com/fastprodman/golfwager/internal/repos/matches/postgres"
	"github.com/fastprodman/golfwager/internal/repos/users"
	pgusers "github.com/fastprodman/golfwager/internal/repos/users/postgres"
	"github.com/fastprodman/golfwager/internal/services/ledger"
)

const (
	DefaultTTL = 24 * time.Hour
	MinStrokes = 1
	MaxStrokes = 20

	expireBatch = 100
)

type Service struct {
	db      *sql.DB
	matches matches.Matches
	users   users.Users
	ledger  *ledger.Ledger
	pub     events.Publisher
	now     func() time.Time
	ttl     time.Duration
}

type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithTTL sets how long a match stays joinable.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.pub = p
		}
	}
}

func New(db *sql.DB, l *ledger.Ledger, opts ...Option) *Service {
	s := &Service{
		db:      db,
		matches: pgmatches.New(db),
		users:   pgusers.New(db),
		ledger:  l,
		pub:     events.Nop{},
		now:     time.Now,
		ttl:     DefaultTTL,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// publish runs after commit; a failed delivery never undoes committed state.
func (s *Service) publish(ctx context.Context, evs ...events.Event) {
	for _, e := range evs {
		if e.At.IsZero() {
			e.At = s.now().UTC()
		}

		err := s.pub.Publish(ctx, e)
		if err != nil {
			slog.WarnContext(ctx, "publish event", "event", e.Type, "match_id", e.MatchID, "error", err)
		}
	}
}
