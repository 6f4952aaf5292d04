package ledger

import (
	"github.com/fastprodman/golfwager/internal/repos/transactions"
	"github.com/fastprodman/golfwager/internal/repos/users"
)

var (
	ErrInsufficientFunds    = users.ErrInsufficientFunds
	ErrUserNotFound         = users.ErrUserNotFound
	ErrDuplicateTransaction = transactions.ErrDuplicateTransaction
)
