package matches

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/fastprodman/golfwager/internal/domain"
	"github.com/fastprodman/golfwager/internal/events"
	"github.com/fastprodman/golfwager/internal/infra/pgutils"
	"github.com/fastprodman/golfwager/internal/scoring"
)

// ConfirmResult reports what a confirmation changed.
type ConfirmResult struct {
	// HoleCompleted is true when this confirmation finished the hole.
	HoleCompleted bool `json:"holeCompleted"`
	// Advanced is true when the current hole pointer moved.
	Advanced    bool   `json:"advanced"`
	Completed   bool   `json:"completed"`
	WinnerID    string `json:"winnerId,omitempty"`
	CurrentHole int    `json:"currentHole"`
}

// SubmitScore records userID's strokes for a hole. A score may be corrected
// until its owner confirms it.
func (s *Service) SubmitScore(ctx context.Context, matchID, userID string, hole, strokes int) error {
	if strokes < MinStrokes || strokes > MaxStrokes {
		return fmt.Errorf("%w: %d not in %d..%d", ErrInvalidStrokes, strokes, MinStrokes, MaxStrokes)
	}

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		m, err := s.matches.LockAndGet(tx, matchID)
		if err != nil {
			return err
		}

		h, err := scorableHole(m, userID, hole)
		if err != nil {
			return err
		}

		if h.Completed {
			return ErrHoleCompleted
		}

		if h.Scores[userID].Confirmed {
			return ErrScoreConfirmed
		}

		return s.matches.UpsertScore(tx, m.ID, hole, userID, strokes)
	})
	if err != nil {
		return fmt.Errorf("submit score: %w", err)
	}

	slog.DebugContext(ctx, "score submitted", "match_id", matchID, "user_id", userID, "hole", hole, "strokes", strokes)

	s.publish(ctx, events.Event{
		Type: events.ScoreSubmitted, MatchID: matchID, UserID: userID, Hole: hole, Strokes: strokes,
	})

	return nil
}

// ConfirmScore locks in userID's score for a hole. The confirmation that
// completes the last open hole also completes the match and settles the pot,
// all in the same transaction. Confirming twice is a no-op.
func (s *Service) ConfirmScore(ctx context.Context, matchID, userID string, hole int) (ConfirmResult, error) {
	var (
		res     ConfirmResult
		changed bool
	)

	m, err := pgutils.WithTxResult(ctx, s.db, func(tx *sql.Tx) (*domain.Match, error) {
		m, err := s.matches.LockAndGet(tx, matchID)
		if err != nil {
			return nil, err
		}

		if !m.IsParticipant(userID) {
			return nil, ErrNotParticipant
		}

		h := m.Hole(hole)
		if h == nil {
			return nil, fmt.Errorf("%w: %d not in 1..%d", ErrInvalidHole, hole, m.HoleCount())
		}

		score, ok := h.Scores[userID]
		if ok && score.Confirmed {
			res = resultOf(m)
			return m, nil
		}

		if m.Status != domain.StatusInProgress {
			return nil, ErrMatchNotInProgress
		}

		if !ok {
			return nil, ErrScoreMissing
		}

		err = s.matches.ConfirmScore(tx, m.ID, hole, userID)
		if err != nil {
			return nil, fmt.Errorf("confirm: %w", err)
		}

		score.Confirmed = true
		h.Scores[userID] = score
		changed = true

		if !h.ConfirmedBy(m.Participants) {
			res = resultOf(m)
			return m, nil
		}

		err = s.matches.MarkHoleCompleted(tx, m.ID, hole)
		if err != nil {
			return nil, fmt.Errorf("complete hole: %w", err)
		}

		h.Completed = true
		prevHole := m.CurrentHole
		m.CurrentHole = max(m.CurrentHole, m.NextHole())

		if m.AllHolesCompleted() {
			err = s.complete(tx, m)
			if err != nil {
				return nil, err
			}
		}

		err = s.matches.UpdateState(tx, m)
		if err != nil {
			return nil, fmt.Errorf("update match: %w", err)
		}

		res = resultOf(m)
		res.HoleCompleted = true
		res.Advanced = m.CurrentHole != prevHole

		return m, nil
	})
	if err != nil {
		return ConfirmResult{}, fmt.Errorf("confirm score: %w", err)
	}

	if !changed {
		return res, nil
	}

	evs := []events.Event{{Type: events.ScoreConfirmed, MatchID: m.ID, UserID: userID, Hole: hole}}

	if res.HoleCompleted {
		slog.InfoContext(ctx, "hole completed", "match_id", m.ID, "hole", hole, "current_hole", m.CurrentHole)
		evs = append(evs, events.Event{Type: events.HoleCompleted, MatchID: m.ID, Hole: hole})
	}

	if res.Completed {
		slog.InfoContext(ctx, "match completed",
			"match_id", m.ID, "winner_id", m.WinnerID, "pot", m.TotalPrize().String())
		evs = append(evs, events.Event{Type: events.MatchCompleted, MatchID: m.ID, WinnerID: m.WinnerID})
	}

	s.publish(ctx, evs...)

	return res, nil
}

// complete declares the winner and pays out the pot exactly once.
func (s *Service) complete(tx *sql.Tx, m *domain.Match) error {
	winner, err := scoring.Winner(m.GameType, m.Holes, m.Participants)
	if err != nil {
		return fmt.Errorf("score match: %w", err)
	}

	now := s.now().UTC()
	m.Status = domain.StatusCompleted
	m.WinnerID = winner
	m.CompletedAt = &now

	if m.Wager == 0 || m.PrizeDistributed {
		return nil
	}

	if m.GameType == domain.Skins {
		_, err = s.ledger.DistributeSkins(tx, m)
	} else {
		_, err = s.ledger.DistributeWinnerTakeAll(tx, m, winner)
	}

	if err != nil {
		return fmt.Errorf("distribute prize: %w", err)
	}

	m.PrizeDistributed = true

	return nil
}

func scorableHole(m *domain.Match, userID string, hole int) (*domain.Hole, error) {
	if m.Status != domain.StatusInProgress {
		return nil, ErrMatchNotInProgress
	}

	if !m.IsParticipant(userID) {
		return nil, ErrNotParticipant
	}

	h := m.Hole(hole)
	if h == nil {
		return nil, fmt.Errorf("%w: %d not in 1..%d", ErrInvalidHole, hole, m.HoleCount())
	}

	return h, nil
}

func resultOf(m *domain.Match) ConfirmResult {
	return ConfirmResult{
		Completed:   m.Status == domain.StatusCompleted,
		WinnerID:    m.WinnerID,
		CurrentHole: m.CurrentHole,
	}
}
