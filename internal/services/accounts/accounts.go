// Package accounts provisions player accounts and reports on their wallets.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fastprodman/golfwager/internal/domain"
	"github.com/fastprodman/golfwager/internal/infra/pgutils"
	"github.com/fastprodman/golfwager/internal/repos/matches"
	pgmatches "github.com/fastprodman/golfwager/internal/repos/matches/postgres"
	"github.com/fastprodman/golfwager/internal/repos/users"
	pgusers "github.com/fastprodman/golfwager/internal/repos/users/postgres"
	"github.com/fastprodman/golfwager/internal/services/ledger"
)

// DefaultStartingBalance is $1000.
const DefaultStartingBalance domain.Money = 100_000

var (
	ErrUserExists   = users.ErrUserExists
	ErrUserNotFound = users.ErrUserNotFound
	ErrInvalidUser  = errors.New("invalid user")
)

type Service struct {
	db              *sql.DB
	users           users.Users
	matches         matches.Matches
	ledger          *ledger.Ledger
	startingBalance domain.Money
}

func New(db *sql.DB, l *ledger.Ledger, startingBalance domain.Money) *Service {
	return &Service{
		db:              db,
		users:           pgusers.New(db),
		matches:         pgmatches.New(db),
		ledger:          l,
		startingBalance: startingBalance,
	}
}

// Register creates the account for an authenticated identity and funds it
// with the starting balance, both in one transaction.
func (s *Service) Register(ctx context.Context, userID, displayName string) (domain.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.User{}, ErrInvalidUser
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = userID
	}

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		err := s.users.Create(tx, domain.User{ID: userID, DisplayName: displayName})
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		if s.startingBalance <= 0 {
			return nil
		}

		_, err = s.ledger.CreditTx(tx, ledger.Entry{
			UserID:      userID,
			Amount:      s.startingBalance,
			Type:        domain.TxDeposit,
			Description: "Starting balance",
		})
		if err != nil {
			return fmt.Errorf("fund account: %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("register: %w", err)
	}

	slog.InfoContext(ctx, "account registered", "user_id", userID, "balance", s.startingBalance.String())

	return s.Get(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, upd users.ProfileUpdate) (domain.User, error) {
	if upd.DisplayName != nil {
		name := strings.TrimSpace(*upd.DisplayName)
		if name == "" {
			return domain.User{}, fmt.Errorf("%w: display name must not be empty", ErrInvalidUser)
		}

		upd.DisplayName = &name
	}

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.users.UpdateProfile(tx, userID, upd)
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("update profile: %w", err)
	}

	return s.Get(ctx, userID)
}
