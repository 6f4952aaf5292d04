package transactions

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/golfwager/internal/domain"
	"github.com/fastprodman/golfwager/internal/infra/pgutils"
	"github.com/fastprodman/golfwager/internal/repos/transactions"
)

// Insert appends an immutable history entry. A second wager, settlement or
// refund for the same (match, user, type) fails with ErrDuplicateTransaction.
func (r *transactionsRepo) Insert(tx *sql.Tx, t domain.Transaction) error {
	_, err := tx.Exec(`
		INSERT INTO transactions (id, user_id, match_id, amount, type, description)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, t.ID, t.UserID, nullable(t.MatchID), t.Amount, string(t.Type), t.Description)
	if err != nil {
		if pgutils.IsUniqueViolation(err) {
			return transactions.ErrDuplicateTransaction
		}

		return fmt.Errorf("insert transaction: %w", err)
	}

	return nil
}
