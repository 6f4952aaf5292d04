package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/golfwager/internal/domain"
	"github.com/fastprodman/golfwager/internal/infra/pgutils"
	"github.com/fastprodman/golfwager/internal/repos/users"
)

func (r *usersRepo) Exists(tx *sql.Tx, userID string) error {
	var exists bool

	err := tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)
	`, userID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}

	if !exists {
		return users.ErrUserNotFound
	}

	return nil
}

// Create inserts the account row with a zero balance; funding goes through the ledger.
func (r *usersRepo) Create(tx *sql.Tx, user domain.User) error {
	_, err := tx.Exec(`
		INSERT INTO users (id, display_name, handicap, home_course)
		VALUES ($1, $2, $3, $4)
	`, user.ID, user.DisplayName, user.Handicap, user.HomeCourse)
	if err != nil {
		if pgutils.IsUniqueViolation(err) {
			return users.ErrUserExists
		}

		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *usersRepo) Get(ctx context.Context, userID string) (domain.User, error) {
	var u domain.User

	err := r.db.QueryRowContext(ctx, `
		SELECT id, display_name, balance, handicap, home_course, created_at, updated_at
		FROM users
		WHERE id = $1
	`, userID).Scan(&u.ID, &u.DisplayName, &u.Balance, &u.Handicap, &u.HomeCourse, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, users.ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}

func (r *usersRepo) UpdateProfile(tx *sql.Tx, userID string, upd users.ProfileUpdate) error {
	res, err := tx.Exec(`
		UPDATE users
		SET display_name = COALESCE($2, display_name),
		    handicap     = COALESCE($3, handicap),
		    home_course  = COALESCE($4, home_course),
		    updated_at   = now()
		WHERE id = $1
	`, userID, upd.DisplayName, upd.Handicap, upd.HomeCourse)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
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
