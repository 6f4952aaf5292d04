package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fastprodman/golfwager/internal/domain"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUserNotFound      = errors.New("user not found")
	ErrUserExists        = errors.New("user already exists")
)

// ProfileUpdate carries optional profile fields; nil leaves a field unchanged.
type ProfileUpdate struct {
	DisplayName *string
	Handicap    *float64
	HomeCourse  *string
}

type Users interface {
	Create(tx *sql.Tx, user domain.User) error
	Get(ctx context.Context, userID string) (domain.User, error)
	UpdateProfile(tx *sql.Tx, userID string, upd ProfileUpdate) error
	Exists(tx *sql.Tx, userID string) error
	GetBalance(ctx context.Context, userID string) (domain.Money, error)
	LockAndGetBalance(tx *sql.Tx, userID string) (domain.Money, error)
	IncreaseBalance(tx *sql.Tx, userID string, amount domain.Money) error
	DecreaseBalance(tx *sql.Tx, userID string, amount domain.Money) error
}
