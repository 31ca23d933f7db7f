package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/polylayer/internal/core/domain"
	"github.com/samirrijal/polylayer/internal/core/ports"
	"github.com/samirrijal/polylayer/internal/core/usecases"
	"github.com/samirrijal/polylayer/internal/pkg/metrics"
)

// wsMessage is sent from a view to the server.
type wsMessage struct {
	Action string          `json:"action"` // "subscribe" | "unsubscribe" | "set_data"
	Layer  string          `json:"layer"`  // polyline ID, "" = every layer (subscribe only)
	Data   json.RawMessage `json:"data"`   // point sequence for set_data
}

const wsOpTimeout = 10 * time.Second

// WebSocketHandler returns a handler that keeps front-end views in sync with
// committed layer state. Clients send
//
//	{"action":"subscribe","layer":"<id>"}
//
// and receive the current state followed by every later commit. A view may
// push edits with {"action":"set_data","layer":"<id>","data":[[lat,lng],...]};
// the new state reaches it through its subscription like any other commit.
// Connecting with ?layer=<id> subscribes immediately.
func WebSocketHandler(svc *usecases.PolylineService, feed ports.StateFeed) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		remoteAddr := c.RemoteAddr().String()
		logger := slog.Default().With("remote_addr", remoteAddr)
		logger.Info("ws client connected")
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		var mu sync.Mutex
		subs := make(map[string]func()) // subject -> unsubscribe

		// Helper: thread-safe write
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		gate := newVersionGate()
		write := func(data []byte) {
			mu.Lock()
			defer mu.Unlock()
			_ = c.WriteMessage(websocket.TextMessage, data)
		}
		relayed := func(data []byte) {
			if gate.admit(data, false) {
				write(data)
			}
		}

		// The feed subscription is opened before the snapshot is read so a
		// commit landing in between is held and delivered after it.
		subscribe := func(layer string) {
			subject := ports.StreamSubjects
			if layer != "" {
				subject = ports.LayerSubjects(layer)
			}
			if _, exists := subs[subject]; exists {
				_ = writeJSON(map[string]string{"status": "already subscribed", "layer": layer})
				return
			}

			relay := &heldRelay{out: relayed}
			unsub := func() {}
			if feed != nil {
				u, err := feed.Subscribe(subject, relay.push)
				if err != nil {
					_ = writeJSON(map[string]string{"error": "subscribe failed: " + err.Error(), "layer": layer})
					return
				}
				unsub = u
			}

			var snapshot []byte
			if layer != "" {
				ctx, cancel := context.WithTimeout(context.Background(), wsOpTimeout)
				p, err := svc.Get(ctx, layer)
				cancel()
				if err != nil {
					unsub()
					_ = writeJSON(wsError(layer, err))
					return
				}
				if snapshot, err = json.Marshal(p.State()); err != nil {
					unsub()
					_ = writeJSON(wsError(layer, err))
					return
				}
			}

			relay.release(func() {
				if snapshot != nil && gate.admit(snapshot, true) {
					write(snapshot)
				}
			})
			if feed == nil {
				_ = writeJSON(map[string]string{"error": "live updates unavailable", "layer": layer})
				return
			}
			subs[subject] = unsub
			_ = writeJSON(map[string]string{"status": "subscribed", "layer": layer})
		}

		// Keep-alive ping
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		if layer := c.Query("layer"); layer != "" {
			subscribe(layer)
		}

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}

			switch m.Action {
			case "subscribe":
				subscribe(m.Layer)

			case "unsubscribe":
				subject := ports.StreamSubjects
				if m.Layer != "" {
					subject = ports.LayerSubjects(m.Layer)
				}
				if unsub, exists := subs[subject]; exists {
					unsub()
					delete(subs, subject)
					_ = writeJSON(map[string]string{"status": "unsubscribed", "layer": m.Layer})
				} else {
					_ = writeJSON(map[string]string{"error": "not subscribed", "layer": m.Layer})
				}

			case "set_data":
				if m.Layer == "" {
					_ = writeJSON(map[string]string{"error": "layer is required"})
					continue
				}
				points, err := domain.ParseLocations(m.Data)
				if err != nil {
					_ = writeJSON(wsError(m.Layer, err))
					continue
				}
				ctx, cancel := context.WithTimeout(context.Background(), wsOpTimeout)
				p, err := svc.SetData(ctx, m.Layer, points)
				cancel()
				if err != nil {
					_ = writeJSON(wsError(m.Layer, err))
					continue
				}
				_ = writeJSON(map[string]interface{}{"status": "committed", "layer": p.ID, "version": p.Version})

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		// Cleanup
		close(done)
		for _, unsub := range subs {
			unsub()
		}
		logger.Info("ws client disconnected")
	}
}

func wsError(layer string, err error) map[string]string {
	code := "internal_error"
	switch {
	case domain.IsValidation(err):
		code = usecases.RejectionReason(err)
	case errors.Is(err, domain.ErrNotFound):
		code = "not_found"
	case errors.Is(err, domain.ErrConflict):
		code = "conflict"
	}
	return map[string]string{"error": err.Error(), "code": code, "layer": layer}
}

// heldRelay queues feed messages until release is called, then forwards them
// in arrival order after whatever release writes first.
type heldRelay struct {
	mu   sync.Mutex
	open bool
	held [][]byte
	out  func([]byte)
}

func (r *heldRelay) push(data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.open {
		r.held = append(r.held, data)
		return
	}
	r.out(data)
}

func (r *heldRelay) release(first func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	first()
	for _, data := range r.held {
		r.out(data)
	}
	r.held = nil
	r.open = true
}

// versionGate remembers the newest version sent per layer. Relayed states at
// or below it are dropped; a snapshot at the same version is let through so a
// fresh subscription always opens with the current state. Messages without a
// version (removals) pass.
type versionGate struct {
	mu   sync.Mutex
	seen map[string]int64
}

func newVersionGate() *versionGate {
	return &versionGate{seen: make(map[string]int64)}
}

func (g *versionGate) admit(data []byte, snapshot bool) bool {
	var head struct {
		ID      string `json:"id"`
		Version int64  `json:"version"`
	}
	if err := json.Unmarshal(data, &head); err != nil || head.ID == "" || head.Version == 0 {
		return true
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	last := g.seen[head.ID]
	if head.Version < last || (head.Version == last && !snapshot) {
		return false
	}
	g.seen[head.ID] = head.Version
	return true
}
