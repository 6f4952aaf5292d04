package matches

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/golfwager/internal/infra/pgutils"
	"github.com/fastprodman/golfwager/internal/repos/matches"
)

// AddParticipant seats userID; seat is the join order used for tie-breaks.
func (r *matchesRepo) AddParticipant(tx *sql.Tx, matchID, userID string, seat int) error {
	_, err := tx.Exec(`
		INSERT INTO match_participants (match_id, user_id, seat) VALUES ($1, $2, $3)
	`, matchID, userID, seat)
	if err != nil {
		if pgutils.IsUniqueViolation(err) {
			return matches.ErrParticipantExists
		}

		return fmt.Errorf("insert participant: %w", err)
	}

	return nil
}
