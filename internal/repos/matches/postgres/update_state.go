package matches

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/golfwager/internal/domain"
	"github.com/fastprodman/golfwager/internal/repos/matches"
)

// UpdateState writes the mutable lifecycle columns of m.
func (r *matchesRepo) UpdateState(tx *sql.Tx, m *domain.Match) error {
	res, err := tx.Exec(`
		UPDATE matches
		SET status = $2,
		    current_hole = $3,
		    winner_id = $4,
		    prize_distributed = $5,
		    completed_at = $6
		WHERE id = $1
	`, m.ID, string(m.Status), m.CurrentHole, nullable(m.WinnerID), m.PrizeDistributed, m.CompletedAt)
	if err != nil {
		return fmt.Errorf("update match state: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return matches.ErrMatchNotFound
	}

	return nil
}
