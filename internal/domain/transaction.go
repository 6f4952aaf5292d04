package domain

import (
	"fmt"
	"time"
)

type TxType string

const (
	TxWager      TxType = "wager"
	TxDeposit    TxType = "deposit"
	TxWithdrawal TxType = "withdrawal"
	TxMatchWin   TxType = "match-win"
	// TxMatchLoss is informational: the stake was already taken by the wager debit.
	TxMatchLoss TxType = "match-loss"
	TxWinnings  TxType = "winnings"
	TxRefund    TxType = "refund"
)

func ParseTxType(s string) (TxType, error) {
	switch t := TxType(s); t {
	case TxWager, TxDeposit, TxWithdrawal, TxMatchWin, TxMatchLoss, TxWinnings, TxRefund:
		return t, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// MovesBalance is false for record-only entries.
func (t TxType) MovesBalance() bool {
	return t != TxMatchLoss
}

type Transaction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	MatchID     string    `json:"matchId,omitempty"`
	Amount      Money     `json:"amount"`
	Type        TxType    `json:"type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Balance     Money     `json:"balance"`
	Handicap    float64   `json:"handicap"`
	HomeCourse  string    `json:"homeCourse"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
