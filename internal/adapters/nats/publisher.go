package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/polylayer/internal/core/domain"
	"github.com/samirrijal/polylayer/internal/core/ports"
)

// StreamName is the JetStream stream holding layer state messages.
const StreamName = "POLYLINE_STATE"

// Publisher implements ports.StatePublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	// Only the newest message per subject is kept, so a late consumer can
	// read the current state of every layer.
	cfg := nats.StreamConfig{
		Name:              StreamName,
		Subjects:          []string{ports.StreamSubjects},
		Retention:         nats.LimitsPolicy,
		MaxMsgsPerSubject: 1,
		MaxAge:            24 * time.Hour,
		Storage:           nats.FileStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist — try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishState publishes a committed layer state. The message ID makes
// redelivery of the same version idempotent.
func (p *Publisher) PublishState(ctx context.Context, state domain.WidgetState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(ports.StateSubject(state.ID), data,
		nats.Context(ctx),
		nats.MsgId(fmt.Sprintf("%s-%d", state.ID, state.Version)),
	)
	return err
}

// RemovedMessage announces that a layer no longer exists.
type RemovedMessage struct {
	ID      string `json:"id"`
	Removed bool   `json:"removed"`
}

func (p *Publisher) PublishRemoved(ctx context.Context, id string) error {
	data, err := json.Marshal(RemovedMessage{ID: id, Removed: true})
	if err != nil {
		return err
	}
	_, err = p.js.Publish(ports.RemovedSubject(id), data, nats.Context(ctx))
	return err
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

func connect(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
