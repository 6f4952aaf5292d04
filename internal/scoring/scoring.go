// Package scoring computes match standings and winners. Every function is pure:
// the same game type, holes and participants always yield the same result.
//
// Ties are broken by join order: the participant who joined earlier ranks first.
package scoring

import (
	"errors"
	"fmt"
	"sort"

	"github.com/fastprodman/golfwager/internal/domain"
)

var ErrNoParticipants = errors.New("no participants")

type Standing struct {
	UserID      string `json:"userId"`
	Seat        int    `json:"seat"`
	Strokes     int    `json:"strokes"`
	ToPar       int    `json:"toPar"`
	HolesPlayed int    `json:"holesPlayed"`
	HolesWon    int    `json:"holesWon"`
	Skins       int    `json:"skins"`
	Rank        int    `json:"rank"`
}

// Standings aggregates the completed holes only and orders participants by
// the game type's ranking metric.
func Standings(gameType domain.GameType, holes []domain.Hole, participants []string) []Standing {
	out := make([]Standing, len(participants))
	for i, p := range participants {
		out[i] = Standing{UserID: p, Seat: i}
	}

	for _, h := range holes {
		if !h.Completed {
			continue
		}

		for i := range out {
			s, ok := h.Scores[out[i].UserID]
			if !ok {
				continue
			}

			out[i].Strokes += s.Strokes
			out[i].ToPar += s.Strokes - h.Par
			out[i].HolesPlayed++
		}

		if w, ok := MatchPlayHoleWinner(h, participants); ok {
			out[seatOf(out, w)].HolesWon++
		}

		if w, ok := SkinWinner(h, participants); ok {
			out[seatOf(out, w)].Skins++
		}
	}

	less := metric(gameType)
	sort.SliceStable(out, func(i, j int) bool {
		if c := less(out[i], out[j]); c != 0 {
			return c < 0
		}

		return out[i].Seat < out[j].Seat
	})

	for i := range out {
		if i > 0 && less(out[i-1], out[i]) == 0 {
			out[i].Rank = out[i-1].Rank
			continue
		}

		out[i].Rank = i + 1
	}

	return out
}

// Winner declares the match winner over the given holes. All holes are
// considered, completed or not; callers pass a finished grid.
func Winner(gameType domain.GameType, holes []domain.Hole, participants []string) (string, error) {
	if len(participants) == 0 {
		return "", ErrNoParticipants
	}

	switch gameType {
	case domain.StrokePlay, domain.MatchPlay, domain.Skins:
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidGameType, gameType)
	}

	finished := make([]domain.Hole, len(holes))
	for i, h := range holes {
		finished[i] = h
		finished[i].Completed = true
	}

	return Standings(gameType, finished, participants)[0].UserID, nil
}

// MatchPlayHoleWinner returns the participant whose strokes are strictly
// lower than the best score among all other participants on the hole.
func MatchPlayHoleWinner(h domain.Hole, participants []string) (string, bool) {
	return uniqueLowest(h, participants)
}

// SkinWinner returns the sole holder of the minimum score on the hole.
// A tied minimum awards no skin.
func SkinWinner(h domain.Hole, participants []string) (string, bool) {
	return uniqueLowest(h, participants)
}

// uniqueLowest requires every participant to have a score on the hole.
func uniqueLowest(h domain.Hole, participants []string) (string, bool) {
	if len(participants) < 2 {
		return "", false
	}

	best, bestID, count := 0, "", 0
	for _, p := range participants {
		s, ok := h.Scores[p]
		if !ok {
			return "", false
		}

		switch {
		case bestID == "" || s.Strokes < best:
			best, bestID, count = s.Strokes, p, 1
		case s.Strokes == best:
			count++
		}
	}

	if count != 1 {
		return "", false
	}

	return bestID, true
}

// metric returns a comparator: negative when a ranks ahead of b.
func metric(gameType domain.GameType) func(a, b Standing) int {
	switch gameType {
	case domain.MatchPlay:
		return func(a, b Standing) int { return b.HolesWon - a.HolesWon }
	case domain.Skins:
		return func(a, b Standing) int { return b.Skins - a.Skins }
	default:
		return func(a, b Standing) int { return a.Strokes - b.Strokes }
	}
}

func seatOf(standings []Standing, userID string) int {
	for i, s := range standings {
		if s.UserID == userID {
			return i
		}
	}

	return -1
}
