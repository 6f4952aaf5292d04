package users

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/golfwager/internal/domain"
	"github.com/fastprodman/golfwager/internal/repos/users"
)

// LockAndGetBalance takes the row lock that serializes every balance
// mutation of the user until tx ends.
func (r *usersRepo) LockAndGetBalance(tx *sql.Tx, userID string) (domain.Money, error) {
	var balance domain.Money

	err := tx.QueryRow(`
		SELECT balance
		FROM users
		WHERE id = $1
		FOR UPDATE
	`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("lock/get balance: %w", users.ErrUserNotFound)
		}

		return 0, fmt.Errorf("lock/get balance: %w", err)
	}

	return balance, nil
}
