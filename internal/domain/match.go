package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/gosimple/slug"
)

var (
	ErrInvalidGameType = errors.New("invalid game type")
	ErrInvalidFormat   = errors.New("invalid format")
	ErrInvalidCourse   = errors.New("invalid course")
)

type GameType string

const (
	StrokePlay GameType = "stroke-play"
	MatchPlay  GameType = "match-play"
	Skins      GameType = "skins"
)

func ParseGameType(s string) (GameType, error) {
	switch g := GameType(s); g {
	case StrokePlay, MatchPlay, Skins:
		return g, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidGameType, s)
	}
}

// Format determines how many players a match seats.
type Format string

const (
	Solo    Format = "solo"
	OneVOne Format = "1v1"
	TwoVOne Format = "2v1"
	TwoVTwo Format = "2v2"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case Solo, OneVOne, TwoVOne, TwoVTwo:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
}

func (f Format) MaxPlayers() int {
	switch f {
	case Solo:
		return 1
	case OneVOne:
		return 2
	case TwoVOne:
		return 3
	case TwoVTwo:
		return 4
	default:
		return 0
	}
}

type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	// StatusExpired is terminal: the match was never filled and wagers were refunded.
	StatusExpired Status = "expired"
)

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusExpired
}

const (
	MinPar = 3
	MaxPar = 6
)

type Course struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Pars []int  `json:"pars"`
}

// NewCourse builds a course whose id is derived from its name.
func NewCourse(name string, pars []int) (Course, error) {
	c := Course{
		ID:   slug.Make(name),
		Name: name,
		Pars: append([]int(nil), pars...),
	}

	err := c.Validate()
	if err != nil {
		return Course{}, err
	}

	return c, nil
}

func (c Course) Validate() error {
	if c.Name == "" || c.ID == "" {
		return fmt.Errorf("%w: name required", ErrInvalidCourse)
	}

	if len(c.Pars) != 9 && len(c.Pars) != 18 {
		return fmt.Errorf("%w: %d holes, want 9 or 18", ErrInvalidCourse, len(c.Pars))
	}

	for i, p := range c.Pars {
		if p < MinPar || p > MaxPar {
			return fmt.Errorf("%w: hole %d has par %d", ErrInvalidCourse, i+1, p)
		}
	}

	return nil
}

func (c Course) TotalPar() int {
	total := 0
	for _, p := range c.Pars {
		total += p
	}

	return total
}

type Score struct {
	Strokes   int  `json:"strokes"`
	Confirmed bool `json:"confirmed"`
}

type Hole struct {
	Number    int              `json:"number"`
	Par       int              `json:"par"`
	Completed bool             `json:"completed"`
	Scores    map[string]Score `json:"scores"`
}

// ConfirmedBy reports whether every listed participant has a confirmed score.
func (h Hole) ConfirmedBy(participants []string) bool {
	for _, p := range participants {
		s, ok := h.Scores[p]
		if !ok || !s.Confirmed {
			return false
		}
	}

	return true
}

type Match struct {
	ID               string     `json:"id"`
	CreatorID        string     `json:"creatorId"`
	GameType         GameType   `json:"gameType"`
	Format           Format     `json:"format"`
	MaxPlayers       int        `json:"maxPlayers"`
	Wager            Money      `json:"wager"`
	Course           Course     `json:"course"`
	Status           Status     `json:"status"`
	CurrentHole      int        `json:"currentHole"`
	Participants     []string   `json:"participants"`
	Holes            []Hole     `json:"holes"`
	WinnerID         string     `json:"winnerId,omitempty"`
	PrizeDistributed bool       `json:"prizeDistributed"`
	CreatedAt        time.Time  `json:"createdAt"`
	ExpiresAt        time.Time  `json:"expiresAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
}

func (m *Match) HoleCount() int {
	return len(m.Holes)
}

func (m *Match) IsParticipant(userID string) bool {
	return m.Seat(userID) >= 0
}

// Seat returns the join-order index of userID, or -1.
func (m *Match) Seat(userID string) int {
	for i, p := range m.Participants {
		if p == userID {
			return i
		}
	}

	return -1
}

func (m *Match) IsFull() bool {
	return len(m.Participants) >= m.MaxPlayers
}

func (m *Match) IsExpired(now time.Time) bool {
	return m.Status == StatusWaiting && !now.Before(m.ExpiresAt)
}

func (m *Match) Joinable(now time.Time) bool {
	return m.Status == StatusWaiting && !m.IsExpired(now) && !m.IsFull()
}

// TotalPrize is the pot: every participant staked the wager once.
func (m *Match) TotalPrize() Money {
	return m.Wager * Money(len(m.Participants))
}

// Hole returns the 1-based hole, or nil when out of range.
func (m *Match) Hole(number int) *Hole {
	if number < 1 || number > len(m.Holes) {
		return nil
	}

	return &m.Holes[number-1]
}

// CompletedHoles returns the holes finalized so far, in order.
func (m *Match) CompletedHoles() []Hole {
	out := make([]Hole, 0, len(m.Holes))
	for _, h := range m.Holes {
		if h.Completed {
			out = append(out, h)
		}
	}

	return out
}

func (m *Match) AllHolesCompleted() bool {
	for _, h := range m.Holes {
		if !h.Completed {
			return false
		}
	}

	return len(m.Holes) > 0
}

// NextHole is the lowest hole not yet completed, capped at the hole count.
func (m *Match) NextHole() int {
	for _, h := range m.Holes {
		if !h.Completed {
			return h.Number
		}
	}

	return len(m.Holes)
}
