package matches

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fastprodman/golfwager/internal/domain"
)

var (
	ErrMatchNotFound     = errors.New("match not found")
	ErrParticipantExists = errors.New("participant already in match")
	ErrScoreNotFound     = errors.New("score not found")
)

// JoinableFilter narrows ListJoinable. Zero values disable a criterion.
type JoinableFilter struct {
	GameType    domain.GameType
	Format      domain.Format
	MaxWager    domain.Money
	ExcludeUser string
	Limit       int
	Now         time.Time
}

// Record is the per-user outcome summary across finished matches.
type Record struct {
	Played int
	Won    int
}

type Matches interface {
	Insert(tx *sql.Tx, m *domain.Match) error
	LockAndGet(tx *sql.Tx, matchID string) (*domain.Match, error)
	Get(ctx context.Context, matchID string) (*domain.Match, error)
	AddParticipant(tx *sql.Tx, matchID, userID string, seat int) error
	UpsertScore(tx *sql.Tx, matchID string, hole int, userID string, strokes int) error
	ConfirmScore(tx *sql.Tx, matchID string, hole int, userID string) error
	MarkHoleCompleted(tx *sql.Tx, matchID string, hole int) error
	UpdateState(tx *sql.Tx, m *domain.Match) error
	ListJoinable(ctx context.Context, f JoinableFilter) ([]*domain.Match, error)
	ListForUser(ctx context.Context, userID string, limit int) ([]*domain.Match, error)
	ListExpiredWaitingIDs(ctx context.Context, now time.Time, limit int) ([]string, error)
	RecordForUser(ctx context.Context, userID string) (Record, error)
}
