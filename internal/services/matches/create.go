package matches

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fastprodman/golfwager/internal/domain"
	"github.com/fastprodman/golfwager/internal/events"
	"github.com/fastprodman/golfwager/internal/infra/pgutils"
	"github.com/fastprodman/golfwager/internal/services/ledger"
)

type CreateParams struct {
	CreatorID  string
	GameType   domain.GameType
	Format     domain.Format
	CourseName string
	Pars       []int
	Wager      domain.Money
}

// Create opens a match with the creator in seat 0 and takes the creator's
// wager. A format that seats a single player starts immediately.
func (s *Service) Create(ctx context.Context, p CreateParams) (*domain.Match, error) {
	gameType, err := domain.ParseGameType(string(p.GameType))
	if err != nil {
		return nil, err
	}

	format, err := domain.ParseFormat(string(p.Format))
	if err != nil {
		return nil, err
	}

	course, err := domain.NewCourse(p.CourseName, p.Pars)
	if err != nil {
		return nil, err
	}

	if p.Wager < 0 {
		return nil, fmt.Errorf("%w: wager must not be negative", ErrInvalidAmount)
	}

	now := s.now().UTC()

	m := &domain.Match{
		ID:           uuid.NewString(),
		CreatorID:    p.CreatorID,
		GameType:     gameType,
		Format:       format,
		MaxPlayers:   format.MaxPlayers(),
		Wager:        p.Wager,
		Course:       course,
		Status:       domain.StatusWaiting,
		CurrentHole:  1,
		Participants: []string{p.CreatorID},
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.ttl),
	}

	for i, par := range course.Pars {
		m.Holes = append(m.Holes, domain.Hole{Number: i + 1, Par: par, Scores: map[string]domain.Score{}})
	}

	if m.IsFull() {
		m.Status = domain.StatusInProgress
	}

	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		// Lock the creator before the match insert references the row.
		_, err := s.users.LockAndGetBalance(tx, p.CreatorID)
		if err != nil {
			return err
		}

		err = s.matches.Insert(tx, m)
		if err != nil {
			return fmt.Errorf("insert match: %w", err)
		}

		return s.takeWager(tx, m, p.CreatorID)
	})
	if err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}

	slog.InfoContext(ctx, "match created",
		"match_id", m.ID, "user_id", m.CreatorID, "game_type", m.GameType,
		"format", m.Format, "wager", m.Wager.String(), "status", m.Status)

	evs := []events.Event{{Type: events.MatchCreated, MatchID: m.ID, UserID: m.CreatorID}}
	if m.Status == domain.StatusInProgress {
		evs = append(evs, events.Event{Type: events.MatchStarted, MatchID: m.ID})
	}

	s.publish(ctx, evs...)

	return m, nil
}

func (s *Service) takeWager(tx *sql.Tx, m *domain.Match, userID string) error {
	if m.Wager == 0 {
		return nil
	}

	_, err := s.ledger.DebitTx(tx, ledger.Entry{
		UserID:      userID,
		MatchID:     m.ID,
		Amount:      m.Wager,
		Type:        domain.TxWager,
		Description: fmt.Sprintf("Wager for %s match at %s", m.GameType, m.Course.Name),
	})
	if err != nil {
		return fmt.Errorf("take wager: %w", err)
	}

	return nil
}
