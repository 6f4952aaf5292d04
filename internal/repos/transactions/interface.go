package transactions

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fastprodman/golfwager/internal/domain"
)

var ErrDuplicateTransaction = errors.New("duplicate transaction")

// Totals is the signed sum of a user's history per transaction type.
type Totals map[domain.TxType]domain.Money

type Transactions interface {
	Insert(tx *sql.Tx, t domain.Transaction) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Transaction, error)
	TotalsByType(ctx context.Context, userID string) (Totals, error)
}
