package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/fastprodman/golfwager/internal/domain"
	"github.com/fastprodman/golfwager/internal/infra/pgtestutil"
	"github.com/fastprodman/golfwager/internal/repos/users"
)

func TestUsers_IncreaseBalance_Basic(t *testing.T) {
	t.Parallel()

	type tc struct {
		name        string
		seed        func(db *sql.DB, t *testing.T)
		userID      string
		amount      domain.Money
		wantBalance domain.Money
	}

	tests := []tc{
		{
			name:        "increase_from_zero",
			seed:        func(db *sql.DB, t *testing.T) { upsert(t, db, "u101", 0) },
			userID:      "u101",
			amount:      250,
			wantBalance: 250,
		},
		{
			name:        "increase_from_positive",
			seed:        func(db *sql.DB, t *testing.T) { upsert(t, db, "u102", 1_000) },
			userID:      "u102",
			amount:      500,
			wantBalance: 1_500,
		},
		{
			name:        "increase_large_balance",
			seed:        func(db *sql.DB, t *testing.T) { upsert(t, db, "u103", 900_000_000_000_000) },
			userID:      "u103",
			amount:      123,
			wantBalance: 900_000_000_000_123,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, cleanup := pgtestutil.NewTestDB(t)
			defer cleanup()

			tt.seed(db, t)

			repo := New(db)

			ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
			defer cancel()

			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				t.Fatalf("begin tx: %v", err)
			}
			defer func() { _ = tx.Rollback() }()

			err = repo.IncreaseBalance(tx, tt.userID, tt.amount)
			if err != nil {
				t.Fatalf("increase balance: %v", err)
			}

			err = tx.Commit()
			if err != nil {
				t.Fatalf("commit: %v", err)
			}

			got, err := repo.GetBalance(ctx, tt.userID)
			if err != nil {
				t.Fatalf("get balance: %v", err)
			}

			if got != tt.wantBalance {
				t.Fatalf("balance mismatch: want %d, got %d", tt.wantBalance, got)
			}
		})
	}
}

func TestUsers_IncreaseBalance_ConcurrentAdds(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	upsert(t, db, "u777", 0)

	repo := New(db)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	errCh := make(chan error, 2)

	worker := func(amount domain.Money) {
		errCh <- func() error {
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				return err
			}
			defer func() { _ = tx.Rollback() }()

			err = repo.IncreaseBalance(tx, "u777", amount)
			if err != nil {
				return err
			}

			return tx.Commit()
		}()
	}

	go worker(1_000)
	go worker(2_500)

	for range 2 {
		select {
		case e := <-errCh:
			if e != nil {
				t.Fatalf("worker error: %v", e)
			}
		case <-ctx.Done():
			t.Fatalf("timeout waiting for workers")
		}
	}

	got, err := repo.GetBalance(ctx, "u777")
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}

	if got != 3_500 {
		t.Fatalf("final balance mismatch: want 3500, got %d", got)
	}
}

func TestUsers_IncreaseBalance_UserNotFound(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)

	tx, err := db.BeginTx(t.Context(), nil)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = repo.IncreaseBalance(tx, "ghost", 100)
	if !errors.Is(err, users.ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}
}
