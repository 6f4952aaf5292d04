package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/fastprodman/golfwager/internal/config"
)

// SubjectPrefix is prepended to the event type, e.g. "golf.match.completed".
const SubjectPrefix = "golf."

// ConnectNATS dials the configured server.
func ConnectNATS(cfg config.NATSConfig) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name(cfg.ClientName),
		nats.MaxReconnects(-1),
	}

	if cfg.Token != "" {
		opts = append(opts, nats.Token(cfg.Token))
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", cfg.URL, err)
	}

	return conn, nil
}

type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(conn *nats.Conn) *NATSPublisher {
	return &NATSPublisher{conn: conn}
}

func (p *NATSPublisher) Publish(_ context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.conn.Publish(Subject(e.Type), payload)
	if err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}

	return nil
}

func Subject(t Type) string {
	return SubjectPrefix + string(t)
}
