package api

import (
	"context"

	"github.com/gorilla/websocket"

	"github.com/fastprodman/golfwager/internal/domain"
	"github.com/fastprodman/golfwager/internal/events"
	"github.com/fastprodman/golfwager/internal/repos/users"
	"github.com/fastprodman/golfwager/internal/scoring"
	"github.com/fastprodman/golfwager/internal/services/accounts"
	"github.com/fastprodman/golfwager/internal/services/matches"
)

type AccountService interface {
	Register(ctx context.Context, userID, displayName string) (domain.User, error)
	Get(ctx context.Context, userID string) (domain.User, error)
	UpdateProfile(ctx context.Context, userID string, upd users.ProfileUpdate) (domain.User, error)
	Stats(ctx context.Context, userID string) (accounts.Stats, error)
}

type WalletService interface {
	Deposit(ctx context.Context, userID string, amount domain.Money) (domain.Transaction, error)
	Withdraw(ctx context.Context, userID string, amount domain.Money) (domain.Transaction, error)
	GetBalance(ctx context.Context, userID string) (domain.Money, error)
	History(ctx context.Context, userID string, limit int) ([]domain.Transaction, error)
}

type MatchService interface {
	Create(ctx context.Context, p matches.CreateParams) (*domain.Match, error)
	Join(ctx context.Context, matchID, userID string) (*domain.Match, error)
	Get(ctx context.Context, matchID string) (*domain.Match, error)
	ListJoinable(ctx context.Context, f matches.ListFilter) ([]*domain.Match, error)
	ListForUser(ctx context.Context, userID string, limit int) ([]*domain.Match, error)
	SubmitScore(ctx context.Context, matchID, userID string, hole, strokes int) error
	ConfirmScore(ctx context.Context, matchID, userID string, hole int) (matches.ConfirmResult, error)
	Standings(ctx context.Context, matchID string) ([]scoring.Standing, error)
}

// LiveFeed hands out per-match event streams.
type LiveFeed interface {
	Subscribe(matchID string) (<-chan events.Event, func())
}

// Services groups what the handlers depend on.
type Services struct {
	Accounts AccountService
	Wallet   WalletService
	Matches  MatchService
	Live     LiveFeed
}

// HandlerProvider exposes the account, wallet and match operations over HTTP.
type HandlerProvider struct {
	accounts AccountService
	wallet   WalletService
	matches  MatchService
	live     LiveFeed
	upgrader websocket.Upgrader
}

func NewHandler(svc Services) *HandlerProvider {
	return &HandlerProvider{
		accounts: svc.Accounts,
		wallet:   svc.Wallet,
		matches:  svc.Matches,
		live:     svc.Live,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}
