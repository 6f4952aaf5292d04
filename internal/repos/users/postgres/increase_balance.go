package users

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/golfwager/internal/domain"
	"github.com/fastprodman/golfwager/internal/repos/users"
)

func (r *usersRepo) IncreaseBalance(tx *sql.Tx, userID string, amount domain.Money) error {
	res, err := tx.Exec(`
		UPDATE users
		SET balance = balance + $2,
		    updated_at = now()
		WHERE id = $1
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("increase balance: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return users.ErrUserNotFound
	}

	return nil
}
