package ledger

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/golfwager/internal/domain"
	"github.com/fastprodman/golfwager/internal/scoring"
)

// WinnerTakeAll pays the whole pot to the winner and records a loss for
// every other participant. Losses are record-only: their stake left the
// balance at join time.
func WinnerTakeAll(m *domain.Match, winnerID string) []Entry {
	entries := make([]Entry, 0, len(m.Participants))

	entries = append(entries, Entry{
		UserID:      winnerID,
		MatchID:     m.ID,
		Amount:      m.TotalPrize(),
		Type:        domain.TxMatchWin,
		Description: fmt.Sprintf("Won match against %d opponent(s)", len(m.Participants)-1),
	})

	for _, p := range m.Participants {
		if p == winnerID {
			continue
		}

		entries = append(entries, Entry{
			UserID:      p,
			MatchID:     m.ID,
			Amount:      m.Wager,
			Type:        domain.TxMatchLoss,
			Description: "Lost match wager",
		})
	}

	return entries
}

// SkinsPayouts splits the pot hole by hole. Each hole is worth an equal share
// of the pot, with leftover cents going to the earliest holes. A hole won
// outright pays its value plus everything carried into it; a tied hole carries
// its value forward. Carry left after the last hole is shared by all
// participants, leftover cents going to the earliest seats.
func SkinsPayouts(m *domain.Match) []Entry {
	holes := len(m.Holes)
	players := len(m.Participants)

	if holes == 0 || players == 0 {
		return nil
	}

	total := m.TotalPrize()
	base := total / domain.Money(holes)
	extra := int(total % domain.Money(holes))

	var (
		entries []Entry
		carry   domain.Money
	)

	for i, h := range m.Holes {
		value := base
		if i < extra {
			value++
		}

		winner, ok := scoring.SkinWinner(h, m.Participants)
		if !ok {
			carry += value
			continue
		}

		entries = append(entries, Entry{
			UserID:      winner,
			MatchID:     m.ID,
			Amount:      value + carry,
			Type:        domain.TxWinnings,
			Description: fmt.Sprintf("Skin on hole %d", h.Number),
		})
		carry = 0
	}

	if carry > 0 {
		share := carry / domain.Money(players)
		rest := int(carry % domain.Money(players))

		for seat, p := range m.Participants {
			amount := share
			if seat < rest {
				amount++
			}

			if amount == 0 {
				continue
			}

			entries = append(entries, Entry{
				UserID:      p,
				MatchID:     m.ID,
				Amount:      amount,
				Type:        domain.TxWinnings,
				Description: "Split of unclaimed skins",
			})
		}
	}

	return entries
}

// Refunds returns every participant's stake.
func Refunds(m *domain.Match, reason string) []Entry {
	entries := make([]Entry, 0, len(m.Participants))

	for _, p := range m.Participants {
		entries = append(entries, Entry{
			UserID:      p,
			MatchID:     m.ID,
			Amount:      m.Wager,
			Type:        domain.TxRefund,
			Description: reason,
		})
	}

	return entries
}

// DistributeWinnerTakeAll settles a stroke-play or match-play pot within tx.
func (l *Ledger) DistributeWinnerTakeAll(tx *sql.Tx, m *domain.Match, winnerID string) ([]domain.Transaction, error) {
	if !m.IsParticipant(winnerID) {
		return nil, fmt.Errorf("winner %q is not a participant", winnerID)
	}

	return l.ApplyTx(tx, WinnerTakeAll(m, winnerID))
}

// DistributeSkins settles a skins pot within tx.
func (l *Ledger) DistributeSkins(tx *sql.Tx, m *domain.Match) ([]domain.Transaction, error) {
	return l.ApplyTx(tx, SkinsPayouts(m))
}

// RefundWagers credits every participant their stake back within tx.
func (l *Ledger) RefundWagers(tx *sql.Tx, m *domain.Match, reason string) ([]domain.Transaction, error) {
	return l.ApplyTx(tx, Refunds(m, reason))
}
