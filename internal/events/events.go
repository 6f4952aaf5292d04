// Package events fans match lifecycle notifications out to NATS and to live
// in-process subscribers.
package events

import (
	"context"
	"errors"
	"time"
)

type Type string

const (
	MatchCreated   Type = "match.created"
	MatchJoined    Type = "match.joined"
	MatchStarted   Type = "match.started"
	ScoreSubmitted Type = "score.submitted"
	ScoreConfirmed Type = "score.confirmed"
	HoleCompleted  Type = "hole.completed"
	MatchCompleted Type = "match.completed"
	MatchExpired   Type = "match.expired"
)

type Event struct {
	Type     Type      `json:"type"`
	MatchID  string    `json:"matchId"`
	UserID   string    `json:"userId,omitempty"`
	Hole     int       `json:"hole,omitempty"`
	Strokes  int       `json:"strokes,omitempty"`
	WinnerID string    `json:"winnerId,omitempty"`
	At       time.Time `json:"at"`
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Multi publishes to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error

	for _, p := range m {
		err := p.Publish(ctx, e)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
