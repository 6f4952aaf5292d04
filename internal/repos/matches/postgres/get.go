package matches

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fastprodman/golfwager/internal/domain"
	"github.com/fastprodman/golfwager/internal/repos/matches"
)

// LockAndGet loads the match holding its row lock until tx ends.
func (r *matchesRepo) LockAndGet(tx *sql.Tx, matchID string) (*domain.Match, error) {
	return load(context.Background(), tx, matchID, true)
}

func (r *matchesRepo) Get(ctx context.Context, matchID string) (*domain.Match, error) {
	return load(ctx, r.db, matchID, false)
}

func load(ctx context.Context, q querier, matchID string, forUpdate bool) (*domain.Match, error) {
	_, err := uuid.Parse(matchID)
	if err != nil {
		return nil, matches.ErrMatchNotFound
	}

	query := `
		SELECT id, creator_id, game_type, format, max_players, wager, course_id, course_name,
		       status, current_hole, winner_id, prize_distributed, created_at, expires_at, completed_at
		FROM matches
		WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var (
		m                        domain.Match
		gameType, format, status string
		winnerID                 sql.NullString
		completedAt              sql.NullTime
	)

	err = q.QueryRowContext(ctx, query, matchID).Scan(
		&m.ID, &m.CreatorID, &gameType, &format, &m.MaxPlayers, &m.Wager, &m.Course.ID, &m.Course.Name,
		&status, &m.CurrentHole, &winnerID, &m.PrizeDistributed, &m.CreatedAt, &m.ExpiresAt, &completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, matches.ErrMatchNotFound
		}

		return nil, fmt.Errorf("get match: %w", err)
	}

	m.GameType = domain.GameType(gameType)
	m.Format = domain.Format(format)
	m.Status = domain.Status(status)
	m.WinnerID = winnerID.String

	if completedAt.Valid {
		at := completedAt.Time
		m.CompletedAt = &at
	}

	err = loadParticipants(ctx, q, &m)
	if err != nil {
		return nil, err
	}

	err = loadHoles(ctx, q, &m)
	if err != nil {
		return nil, err
	}

	err = loadScores(ctx, q, &m)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func loadParticipants(ctx context.Context, q querier, m *domain.Match) error {
	rows, err := q.QueryContext(ctx, `
		SELECT user_id FROM match_participants WHERE match_id = $1 ORDER BY seat
	`, m.ID)
	if err != nil {
		return fmt.Errorf("query participants: %w", err)
	}
	defer rows.Close()

	m.Participants = make([]string, 0, m.MaxPlayers)

	for rows.Next() {
		var userID string

		err = rows.Scan(&userID)
		if err != nil {
			return fmt.Errorf("scan participant: %w", err)
		}

		m.Participants = append(m.Participants, userID)
	}

	return rows.Err()
}

func loadHoles(ctx context.Context, q querier, m *domain.Match) error {
	rows, err := q.QueryContext(ctx, `
		SELECT hole, par, completed FROM match_holes WHERE match_id = $1 ORDER BY hole
	`, m.ID)
	if err != nil {
		return fmt.Errorf("query holes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		h := domain.Hole{Scores: map[string]domain.Score{}}

		err = rows.Scan(&h.Number, &h.Par, &h.Completed)
		if err != nil {
			return fmt.Errorf("scan hole: %w", err)
		}

		m.Holes = append(m.Holes, h)
		m.Course.Pars = append(m.Course.Pars, h.Par)
	}

	return rows.Err()
}

func loadScores(ctx context.Context, q querier, m *domain.Match) error {
	rows, err := q.QueryContext(ctx, `
		SELECT hole, user_id, strokes, confirmed FROM hole_scores WHERE match_id = $1
	`, m.ID)
	if err != nil {
		return fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			hole   int
			userID string
			s      domain.Score
		)

		err = rows.Scan(&hole, &userID, &s.Strokes, &s.Confirmed)
		if err != nil {
			return fmt.Errorf("scan score: %w", err)
		}

		h := m.Hole(hole)
		if h == nil {
			return fmt.Errorf("score for unknown hole %d", hole)
		}

		h.Scores[userID] = s
	}

	return rows.Err()
}
