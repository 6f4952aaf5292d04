package matches

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fastprodman/golfwager/internal/domain"
	"github.com/fastprodman/golfwager/internal/events"
	"github.com/fastprodman/golfwager/internal/infra/pgutils"
)

// ExpireStale closes every waiting match whose join window has passed and
// refunds the stakes taken so far. It returns how many matches it expired.
func (s *Service) ExpireStale(ctx context.Context) (int, error) {
	now := s.now().UTC()

	ids, err := s.matches.ListExpiredWaitingIDs(ctx, now, expireBatch)
	if err != nil {
		return 0, fmt.Errorf("expire stale: %w", err)
	}

	var (
		expired int
		errs    []error
	)

	for _, id := range ids {
		ok, err := s.expire(ctx, id)
		if err != nil {
			slog.ErrorContext(ctx, "expire match", "match_id", id, "error", err)
			errs = append(errs, fmt.Errorf("expire %s: %w", id, err))

			continue
		}

		if ok {
			expired++
		}
	}

	return expired, errors.Join(errs...)
}

func (s *Service) expire(ctx context.Context, matchID string) (bool, error) {
	now := s.now().UTC()

	m, err := pgutils.WithTxResult(ctx, s.db, func(tx *sql.Tx) (*domain.Match, error) {
		m, err := s.matches.LockAndGet(tx, matchID)
		if err != nil {
			return nil, err
		}

		// Filled or already closed since it was listed.
		if !m.IsExpired(now) {
			return nil, nil
		}

		m.Status = domain.StatusExpired
		m.CompletedAt = &now

		if m.Wager > 0 && !m.PrizeDistributed {
			_, err = s.ledger.RefundWagers(tx, m, "Refund for expired match")
			if err != nil {
				return nil, fmt.Errorf("refund: %w", err)
			}

			m.PrizeDistributed = true
		}

		err = s.matches.UpdateState(tx, m)
		if err != nil {
			return nil, fmt.Errorf("update match: %w", err)
		}

		return m, nil
	})
	if err != nil || m == nil {
		return false, err
	}

	slog.InfoContext(ctx, "match expired",
		"match_id", m.ID, "participants", len(m.Participants), "refunded", m.Wager.String())

	s.publish(ctx, events.Event{Type: events.MatchExpired, MatchID: m.ID})

	return true, nil
}
