package matches

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/fastprodman/golfwager/internal/domain"
	"github.com/fastprodman/golfwager/internal/events"
	"github.com/fastprodman/golfwager/internal/infra/pgutils"
)

// Join seats userID in the next free seat and takes their wager. The match
// starts when the last seat fills.
func (s *Service) Join(ctx context.Context, matchID, userID string) (*domain.Match, error) {
	now := s.now().UTC()

	m, err := pgutils.WithTxResult(ctx, s.db, func(tx *sql.Tx) (*domain.Match, error) {
		m, err := s.matches.LockAndGet(tx, matchID)
		if err != nil {
			return nil, err
		}

		switch {
		case m.IsParticipant(userID):
			return nil, ErrAlreadyJoined
		case m.IsFull():
			return nil, ErrMatchFull
		case m.Status != domain.StatusWaiting, m.IsExpired(now):
			return nil, ErrNotJoinable
		}

		err = s.users.Exists(tx, userID)
		if err != nil {
			return nil, err
		}

		// The wager debit locks the user row before the participant insert
		// takes its foreign key lock on it.
		err = s.takeWager(tx, m, userID)
		if err != nil {
			return nil, err
		}

		err = s.matches.AddParticipant(tx, m.ID, userID, len(m.Participants))
		if err != nil {
			return nil, fmt.Errorf("add participant: %w", err)
		}

		m.Participants = append(m.Participants, userID)

		if m.IsFull() {
			m.Status = domain.StatusInProgress

			err = s.matches.UpdateState(tx, m)
			if err != nil {
				return nil, fmt.Errorf("start match: %w", err)
			}
		}

		return m, nil
	})
	if err != nil {
		return nil, fmt.Errorf("join match: %w", err)
	}

	slog.InfoContext(ctx, "match joined",
		"match_id", m.ID, "user_id", userID, "seat", m.Seat(userID), "status", m.Status)

	evs := []events.Event{{Type: events.MatchJoined, MatchID: m.ID, UserID: userID}}
	if m.Status == domain.StatusInProgress {
		evs = append(evs, events.Event{Type: events.MatchStarted, MatchID: m.ID})
	}

	s.publish(ctx, evs...)

	return m, nil
}
