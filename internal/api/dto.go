package api

import (
	"time"

	"github.com/fastprodman/golfwager/internal/domain"
	"github.com/fastprodman/golfwager/internal/services/accounts"
)

// Amounts leave the API as two-decimal strings, never as raw cents.

type userResponse struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Balance     string    `json:"balance"`
	Handicap    float64   `json:"handicap"`
	HomeCourse  string    `json:"homeCourse"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Balance:     u.Balance.String(),
		Handicap:    u.Handicap,
		HomeCourse:  u.HomeCourse,
		CreatedAt:   u.CreatedAt,
	}
}

type transactionResponse struct {
	ID          string    `json:"id"`
	MatchID     string    `json:"matchId,omitempty"`
	Amount      string    `json:"amount"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toTransactionResponse(t domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		MatchID:     t.MatchID,
		Amount:      t.Amount.String(),
		Type:        string(t.Type),
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}

type statsResponse struct {
	Balance     string  `json:"balance"`
	Deposits    string  `json:"deposits"`
	Withdrawals string  `json:"withdrawals"`
	Wagers      string  `json:"wagers"`
	Winnings    string  `json:"winnings"`
	Refunds     string  `json:"refunds"`
	NetProfit   string  `json:"netProfit"`
	Played      int     `json:"played"`
	Won         int     `json:"won"`
	WinRate     float64 `json:"winRate"`
}

func toStatsResponse(s accounts.Stats) statsResponse {
	return statsResponse{
		Balance:     s.Balance.String(),
		Deposits:    s.Deposits.String(),
		Withdrawals: s.Withdrawals.String(),
		Wagers:      s.Wagers.String(),
		Winnings:    s.Winnings.String(),
		Refunds:     s.Refunds.String(),
		NetProfit:   s.NetProfit.String(),
		Played:      s.Played,
		Won:         s.Won,
		WinRate:     s.WinRate,
	}
}

type matchResponse struct {
	ID               string        `json:"id"`
	CreatorID        string        `json:"creatorId"`
	GameType         string        `json:"gameType"`
	Format           string        `json:"format"`
	MaxPlayers       int           `json:"maxPlayers"`
	Wager            string        `json:"wager"`
	TotalPrize       string        `json:"totalPrize"`
	Course           domain.Course `json:"course"`
	Status           string        `json:"status"`
	CurrentHole      int           `json:"currentHole"`
	Participants     []string      `json:"participants"`
	Holes            []domain.Hole `json:"holes"`
	WinnerID         string        `json:"winnerId,omitempty"`
	PrizeDistributed bool          `json:"prizeDistributed"`
	CreatedAt        time.Time     `json:"createdAt"`
	ExpiresAt        time.Time     `json:"expiresAt"`
	CompletedAt      *time.Time    `json:"completedAt,omitempty"`
}

func toMatchResponse(m *domain.Match) matchResponse {
	return matchResponse{
		ID:               m.ID,
		CreatorID:        m.CreatorID,
		GameType:         string(m.GameType),
		Format:           string(m.Format),
		MaxPlayers:       m.MaxPlayers,
		Wager:            m.Wager.String(),
		TotalPrize:       m.TotalPrize().String(),
		Course:           m.Course,
		Status:           string(m.Status),
		CurrentHole:      m.CurrentHole,
		Participants:     m.Participants,
		Holes:            m.Holes,
		WinnerID:         m.WinnerID,
		PrizeDistributed: m.PrizeDistributed,
		CreatedAt:        m.CreatedAt,
		ExpiresAt:        m.ExpiresAt,
		CompletedAt:      m.CompletedAt,
	}
}

func toMatchList(ms []*domain.Match) []matchResponse {
	out := make([]matchResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMatchResponse(m))
	}

	return out
}

type registerRequest struct {
	DisplayName string `json:"displayName"`
}

type profileRequest struct {
	DisplayName *string  `json:"displayName"`
	Handicap    *float64 `json:"handicap"`
	HomeCourse  *string  `json:"homeCourse"`
}

type amountRequest struct {
	Amount string `json:"amount"`
}

type createMatchRequest struct {
	GameType   string `json:"gameType"`
	Format     string `json:"format"`
	CourseName string `json:"courseName"`
	Pars       []int  `json:"pars"`
	Wager      string `json:"wager"`
}

type scoreRequest struct {
	Strokes int `json:"strokes"`
}
