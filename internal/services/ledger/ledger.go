// Package ledger owns every balance mutation. Each change is applied under the
// user's row lock together with its immutable history entry, in one transaction.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/fastprodman/golfwager/internal/domain"
	"github.com/fastprodman/golfwager/internal/infra/pgutils"
	"github.com/fastprodman/golfwager/internal/repos/transactions"
	pgtransactions "github.com/fastprodman/golfwager/internal/repos/transactions/postgres"
	"github.com/fastprodman/golfwager/internal/repos/users"
	pgusers "github.com/fastprodman/golfwager/internal/repos/users/postgres"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

type Ledger struct {
	db    *sql.DB
	users users.Users
	txns  transactions.Transactions
}

func New(dbx *sql.DB) *Ledger {
	return &Ledger{
		db:    dbx,
		users: pgusers.New(dbx),
		txns:  pgtransactions.New(dbx),
	}
}

// Entry is a requested ledger movement. Amount is always positive; the sign
// stored in history follows the type.
type Entry struct {
	UserID      string
	MatchID     string
	Amount      domain.Money
	Type        domain.TxType
	Description string
}

// DebitTx removes Amount from the user's balance within tx:
//
// 1) Ensure user exists.
// 2) Lock user row (FOR UPDATE).
// 3) Decrease balance, refusing to go below zero.
// 4) Insert the history entry.
func (l *Ledger) DebitTx(tx *sql.Tx, e Entry) (domain.Transaction, error) {
	if e.Amount <= 0 {
		return domain.Transaction{}, fmt.Errorf("%w: debit must be positive", domain.ErrInvalidAmount)
	}

	err := l.users.Exists(tx, e.UserID)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("check user exists: %w", err)
	}

	balance, err := l.users.LockAndGetBalance(tx, e.UserID)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("lock and get balance: %w", err)
	}

	if balance < e.Amount {
		return domain.Transaction{}, fmt.Errorf("pre-check decrease: %w", ErrInsufficientFunds)
	}

	err = l.users.DecreaseBalance(tx, e.UserID, e.Amount)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("decrease balance: %w", err)
	}

	return l.insert(tx, e, -e.Amount)
}

// CreditTx adds Amount to the user's balance within tx.
func (l *Ledger) CreditTx(tx *sql.Tx, e Entry) (domain.Transaction, error) {
	if e.Amount < 0 {
		return domain.Transaction{}, fmt.Errorf("%w: credit must not be negative", domain.ErrInvalidAmount)
	}

	_, err := l.users.LockAndGetBalance(tx, e.UserID)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("lock and get balance: %w", err)
	}

	err = l.users.IncreaseBalance(tx, e.UserID, e.Amount)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("increase balance: %w", err)
	}

	return l.insert(tx, e, e.Amount)
}

// RecordTx writes a history entry without touching the balance.
// The stored amount is negative: record-only entries describe stakes already taken.
func (l *Ledger) RecordTx(tx *sql.Tx, e Entry) (domain.Transaction, error) {
	return l.insert(tx, e, -e.Amount)
}

// ApplyTx dispatches each entry by type, locking users in id order.
func (l *Ledger) ApplyTx(tx *sql.Tx, entries []Entry) ([]domain.Transaction, error) {
	ordered := slices.Clone(entries)
	slices.SortStableFunc(ordered, func(a, b Entry) int {
		return strings.Compare(a.UserID, b.UserID)
	})

	out := make([]domain.Transaction, 0, len(ordered))

	for _, e := range ordered {
		var (
			t   domain.Transaction
			err error
		)

		switch {
		case e.Amount == 0:
			continue
		case !e.Type.MovesBalance():
			t, err = l.RecordTx(tx, e)
		case e.Type == domain.TxWager || e.Type == domain.TxWithdrawal:
			t, err = l.DebitTx(tx, e)
		default:
			t, err = l.CreditTx(tx, e)
		}

		if err != nil {
			return nil, fmt.Errorf("apply %s for %s: %w", e.Type, e.UserID, err)
		}

		out = append(out, t)
	}

	return out, nil
}

func (l *Ledger) insert(tx *sql.Tx, e Entry, signed domain.Money) (domain.Transaction, error) {
	t := domain.Transaction{
		ID:          uuid.NewString(),
		UserID:      e.UserID,
		MatchID:     e.MatchID,
		Amount:      signed,
		Type:        e.Type,
		Description: e.Description,
	}

	err := l.txns.Insert(tx, t)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	return t, nil
}

// Deposit credits a positive amount to the user's wallet.
func (l *Ledger) Deposit(ctx context.Context, userID string, amount domain.Money) (domain.Transaction, error) {
	if amount <= 0 {
		return domain.Transaction{}, fmt.Errorf("deposit: %w: amount must be positive", domain.ErrInvalidAmount)
	}

	t, err := pgutils.WithTxResult(ctx, l.db, func(tx *sql.Tx) (domain.Transaction, error) {
		return l.CreditTx(tx, Entry{
			UserID:      userID,
			Amount:      amount,
			Type:        domain.TxDeposit,
			Description: "Wallet deposit",
		})
	})
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("deposit: %w", err)
	}

	return t, nil
}

func (l *Ledger) Withdraw(ctx context.Context, userID string, amount domain.Money) (domain.Transaction, error) {
	t, err := pgutils.WithTxResult(ctx, l.db, func(tx *sql.Tx) (domain.Transaction, error) {
		return l.DebitTx(tx, Entry{
			UserID:      userID,
			Amount:      amount,
			Type:        domain.TxWithdrawal,
			Description: "Wallet withdrawal",
		})
	})
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("withdraw: %w", err)
	}

	return t, nil
}

// GetBalance returns the user's balance (no locks; suitable for the GET endpoint).
func (l *Ledger) GetBalance(ctx context.Context, userID string) (domain.Money, error) {
	balance, err := l.users.GetBalance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

// History returns the newest entries first; limit is clamped to [1, MaxHistoryLimit].
func (l *Ledger) History(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	limit = min(limit, MaxHistoryLimit)

	list, err := l.txns.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	return list, nil
}

func (l *Ledger) Totals(ctx context.Context, userID string) (transactions.Totals, error) {
	totals, err := l.txns.TotalsByType(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("totals: %w", err)
	}

	return totals, nil
}
