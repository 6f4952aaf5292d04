package matches

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/golfwager/internal/domain"
)

// Insert persists a new match with its hole layout and initial participants.
func (r *matchesRepo) Insert(tx *sql.Tx, m *domain.Match) error {
	_, err := tx.Exec(`
		INSERT INTO matches (id, creator_id, game_type, format, max_players, wager,
		                     course_id, course_name, status, current_hole, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, m.ID, m.CreatorID, string(m.GameType), string(m.Format), m.MaxPlayers, m.Wager,
		m.Course.ID, m.Course.Name, string(m.Status), m.CurrentHole, m.CreatedAt, m.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert match: %w", err)
	}

	for _, h := range m.Holes {
		_, err = tx.Exec(`
			INSERT INTO match_holes (match_id, hole, par) VALUES ($1, $2, $3)
		`, m.ID, h.Number, h.Par)
		if err != nil {
			return fmt.Errorf("insert hole %d: %w", h.Number, err)
		}
	}

	for seat, userID := range m.Participants {
		err = r.AddParticipant(tx, m.ID, userID, seat)
		if err != nil {
			return err
		}
	}

	return nil
}
