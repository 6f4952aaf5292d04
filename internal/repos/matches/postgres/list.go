package matches

import (
	"context"
	"fmt"
	"time"

	"github.com/fastprodman/golfwager/internal/domain"
	"github.com/fastprodman/golfwager/internal/repos/matches"
)

const defaultListLimit = 50

// ListJoinable returns open, unexpired, non-full matches, newest first.
func (r *matchesRepo) ListJoinable(ctx context.Context, f matches.JoinableFilter) ([]*domain.Match, error) {
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}

	if f.Now.IsZero() {
		f.Now = time.Now()
	}

	ids, err := r.queryIDs(ctx, `
		SELECT m.id
		FROM matches m
		WHERE m.status = 'waiting'
		  AND m.expires_at > $1
		  AND (SELECT COUNT(*) FROM match_participants p WHERE p.match_id = m.id) < m.max_players
		  AND ($2::TEXT = '' OR m.game_type = $2::TEXT)
		  AND ($3::TEXT = '' OR m.format = $3::TEXT)
		  AND ($4::BIGINT = 0 OR m.wager <= $4::BIGINT)
		  AND NOT EXISTS (
		      SELECT 1 FROM match_participants p WHERE p.match_id = m.id AND p.user_id = $5::TEXT
		  )
		ORDER BY m.created_at DESC, m.id
		LIMIT $6
	`, f.Now, string(f.GameType), string(f.Format), f.MaxWager, f.ExcludeUser, f.Limit)
	if err != nil {
		return nil, fmt.Errorf("list joinable: %w", err)
	}

	return r.loadAll(ctx, ids)
}

// ListForUser returns matches userID takes part in, newest first.
func (r *matchesRepo) ListForUser(ctx context.Context, userID string, limit int) ([]*domain.Match, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	ids, err := r.queryIDs(ctx, `
		SELECT m.id
		FROM matches m
		JOIN match_participants p ON p.match_id = m.id
		WHERE p.user_id = $1
		ORDER BY m.created_at DESC, m.id
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list for user: %w", err)
	}

	return r.loadAll(ctx, ids)
}

// ListExpiredWaitingIDs returns ids of waiting matches whose join window closed at or before now.
func (r *matchesRepo) ListExpiredWaitingIDs(ctx context.Context, now time.Time, limit int) ([]string, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	ids, err := r.queryIDs(ctx, `
		SELECT id FROM matches
		WHERE status = 'waiting' AND expires_at <= $1
		ORDER BY expires_at
		LIMIT $2
	`, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list expired: %w", err)
	}

	return ids, nil
}

func (r *matchesRepo) RecordForUser(ctx context.Context, userID string) (matches.Record, error) {
	var rec matches.Record

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE m.winner_id = $1)
		FROM matches m
		JOIN match_participants p ON p.match_id = m.id
		WHERE p.user_id = $1 AND m.status = 'completed'
	`, userID).Scan(&rec.Played, &rec.Won)
	if err != nil {
		return matches.Record{}, fmt.Errorf("record for user: %w", err)
	}

	return rec, nil
}

func (r *matchesRepo) queryIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string

	for rows.Next() {
		var id string

		err = rows.Scan(&id)
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *matchesRepo) loadAll(ctx context.Context, ids []string) ([]*domain.Match, error) {
	out := make([]*domain.Match, 0, len(ids))

	for _, id := range ids {
		m, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		out = append(out, m)
	}

	return out, nil
}
