package transactions

import (
	"context"
	"fmt"

	"github.com/fastprodman/golfwager/internal/domain"
	"github.com/fastprodman/golfwager/internal/repos/transactions"
)

func (r *transactionsRepo) TotalsByType(ctx context.Context, userID string) (transactions.Totals, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT type, COALESCE(SUM(amount), 0)::BIGINT
		FROM transactions
		WHERE user_id = $1
		GROUP BY type
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query totals: %w", err)
	}
	defer rows.Close()

	totals := transactions.Totals{}

	for rows.Next() {
		var (
			typ   string
			total domain.Money
		)

		err = rows.Scan(&typ, &total)
		if err != nil {
			return nil, fmt.Errorf("scan totals: %w", err)
		}

		totals[domain.TxType(typ)] = total
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate totals: %w", err)
	}

	return totals, nil
}
