package matches

import (
	"context"
	"fmt"

	"github.com/fastprodman/golfwager/internal/domain"
	"github.com/fastprodman/golfwager/internal/repos/matches"
	"github.com/fastprodman/golfwager/internal/scoring"
)

// ListFilter narrows ListJoinable; zero values match everything.
type ListFilter struct {
	GameType    domain.GameType
	Format      domain.Format
	MaxWager    domain.Money
	ExcludeUser string
	Limit       int
}

func (s *Service) Get(ctx context.Context, matchID string) (*domain.Match, error) {
	m, err := s.matches.Get(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("get match: %w", err)
	}

	return m, nil
}

// ListJoinable returns waiting matches that still have a free seat and have not expired.
func (s *Service) ListJoinable(ctx context.Context, f ListFilter) ([]*domain.Match, error) {
	if f.GameType != "" {
		_, err := domain.ParseGameType(string(f.GameType))
		if err != nil {
			return nil, err
		}
	}

	if f.Format != "" {
		_, err := domain.ParseFormat(string(f.Format))
		if err != nil {
			return nil, err
		}
	}

	list, err := s.matches.ListJoinable(ctx, matches.JoinableFilter{
		GameType:    f.GameType,
		Format:      f.Format,
		MaxWager:    f.MaxWager,
		ExcludeUser: f.ExcludeUser,
		Limit:       f.Limit,
		Now:         s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("list joinable: %w", err)
	}

	return list, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string, limit int) ([]*domain.Match, error) {
	list, err := s.matches.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	return list, nil
}

// Standings ranks participants over the holes completed so far.
func (s *Service) Standings(ctx context.Context, matchID string) ([]scoring.Standing, error) {
	m, err := s.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}

	return scoring.Standings(m.GameType, m.Holes, m.Participants), nil
}
