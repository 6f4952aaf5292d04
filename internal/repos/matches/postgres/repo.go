package matches

import (
	"context"
	"database/sql"

	"github.com/fastprodman/golfwager/internal/repos/matches"
)

var _ matches.Matches = (*matchesRepo)(nil)

type matchesRepo struct{ db *sql.DB }

func New(db *sql.DB) *matchesRepo {
	return &matchesRepo{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
