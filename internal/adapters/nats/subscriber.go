package natsadapter

import (
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
)

// Subscriber implements ports.StateFeed on a plain NATS connection. Each
// WebSocket client gets its own subscriptions on the shared connection.
type Subscriber struct {
	conn *nats.Conn

	mu   sync.Mutex
	subs map[*nats.Subscription]struct{}
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &Subscriber{conn: conn, subs: make(map[*nats.Subscription]struct{})}, nil
}

// Subscribe delivers the payload of every message on subject to handler
// until the returned func is called.
func (s *Subscriber) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	sub, err := s.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", subject, err)
	}

	s.mu.Lock()
	s.subs[sub] = struct{}{}
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, sub)
		s.mu.Unlock()
		_ = sub.Unsubscribe()
	}, nil
}

// IsConnected reports the connection status for readiness checks.
func (s *Subscriber) IsConnected() bool { return s.conn.IsConnected() }

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	s.mu.Lock()
	for sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	s.subs = nil
	s.mu.Unlock()
	_ = s.conn.Drain()
}
