package transactions

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/golfwager/internal/domain"
)

// ListByUser returns the newest entries first.
func (r *transactionsRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, match_id, amount, type, description, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Transaction, 0, limit)

	for rows.Next() {
		var (
			t       domain.Transaction
			matchID sql.NullString
			typ     string
		)

		err = rows.Scan(&t.ID, &t.UserID, &matchID, &t.Amount, &typ, &t.Description, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}

		t.MatchID = matchID.String
		t.Type = domain.TxType(typ)
		out = append(out, t)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return out, nil
}
