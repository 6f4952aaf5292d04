package matches

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/golfwager/internal/repos/matches"
)

// UpsertScore records strokes for a player on a hole, clearing any confirmation.
func (r *matchesRepo) UpsertScore(tx *sql.Tx, matchID string, hole int, userID string, strokes int) error {
	_, err := tx.Exec(`
		INSERT INTO hole_scores (match_id, hole, user_id, strokes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (match_id, hole, user_id)
		DO UPDATE SET strokes = EXCLUDED.strokes, confirmed = FALSE, updated_at = now()
	`, matchID, hole, userID, strokes)
	if err != nil {
		return fmt.Errorf("upsert score: %w", err)
	}

	return nil
}

func (r *matchesRepo) ConfirmScore(tx *sql.Tx, matchID string, hole int, userID string) error {
	res, err := tx.Exec(`
		UPDATE hole_scores
		SET confirmed = TRUE, updated_at = now()
		WHERE match_id = $1 AND hole = $2 AND user_id = $3
	`, matchID, hole, userID)
	if err != nil {
		return fmt.Errorf("confirm score: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return matches.ErrScoreNotFound
	}

	return nil
}

func (r *matchesRepo) MarkHoleCompleted(tx *sql.Tx, matchID string, hole int) error {
	_, err := tx.Exec(`
		UPDATE match_holes SET completed = TRUE WHERE match_id = $1 AND hole = $2
	`, matchID, hole)
	if err != nil {
		return fmt.Errorf("complete hole: %w", err)
	}

	return nil
}
