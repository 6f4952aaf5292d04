package accounts

import (
	"context"
	"fmt"

	"github.com/fastprodman/golfwager/internal/domain"
)

// Stats summarizes a wallet. Amounts are magnitudes, not signed ledger values.
type Stats struct {
	Balance     domain.Money `json:"balance"`
	Deposits    domain.Money `json:"deposits"`
	Withdrawals domain.Money `json:"withdrawals"`
	Wagers      domain.Money `json:"wagers"`
	Winnings    domain.Money `json:"winnings"`
	Refunds     domain.Money `json:"refunds"`
	NetProfit   domain.Money `json:"netProfit"`
	Played      int          `json:"played"`
	Won         int          `json:"won"`
	WinRate     float64      `json:"winRate"`
}

func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	balance, err := s.ledger.GetBalance(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}

	totals, err := s.ledger.Totals(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}

	rec, err := s.matches.RecordForUser(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}

	st := Stats{
		Balance:     balance,
		Deposits:    abs(totals[domain.TxDeposit]),
		Withdrawals: abs(totals[domain.TxWithdrawal]),
		Wagers:      abs(totals[domain.TxWager]),
		Winnings:    abs(totals[domain.TxMatchWin]) + abs(totals[domain.TxWinnings]),
		Refunds:     abs(totals[domain.TxRefund]),
		Played:      rec.Played,
		Won:         rec.Won,
	}

	st.NetProfit = st.Winnings - st.Wagers + st.Refunds

	if st.Played > 0 {
		st.WinRate = float64(st.Won) / float64(st.Played)
	}

	return st, nil
}

func abs(m domain.Money) domain.Money {
	if m < 0 {
		return -m
	}

	return m
}
