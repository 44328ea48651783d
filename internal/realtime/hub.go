// Package realtime pushes row change events to connected clients over websockets.
// It uses github.com/coder/websocket for the transport.
package realtime

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/relayvision/visionlog/internal/metrics"
	"github.com/relayvision/visionlog/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Send pings to peer with this period
	pingPeriod = 30 * time.Second

	// Send buffer size per connection
	sendBufferSize = 64
)

// Filter narrows a subscription by table and event type. Empty fields match everything.
type Filter struct {
	Table string
	Type  model.EventType
}

func (f Filter) allows(ev model.ChangeEvent) bool {
	return ev.Matches(f.Table, f.Type)
}

// Client is one websocket subscription.
type Client struct {
	UserID      string
	ConnectedAt time.Time

	filter Filter
	send   chan model.ChangeEvent
	done   chan struct{}
	once   sync.Once
}

func newClient(userID string, filter Filter) *Client {
	return &Client{
		UserID:      userID,
		ConnectedAt: time.Now(),
		filter:      filter,
		send:        make(chan model.ChangeEvent, sendBufferSize),
		done:        make(chan struct{}),
	}
}

// kick disconnects a client that cannot keep up.
func (c *Client) kick() {
	c.once.Do(func() { close(c.done) })
}

// Hub maintains the set of active clients keyed by user ID.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}

	originPatterns []string
}

// NewHub creates a hub. originPatterns are passed to websocket.Accept; empty
// means same-origin only.
func NewHub(originPatterns ...string) *Hub {
	return &Hub{
		clients:        make(map[string]map[*Client]struct{}),
		originPatterns: originPatterns,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*Client]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	metrics.Get().RealtimeConnections.Inc()
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.UserID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.UserID)
	}
	metrics.Get().RealtimeConnections.Dec()
}

// Connections returns the number of open subscriptions for userID, or all when userID is empty.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if userID != "" {
		return len(h.clients[userID])
	}
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

// Deliver queues ev for every local subscription of the given users whose
// filter accepts it. It never blocks: a full buffer disconnects that client,
// which refetches on reconnect.
func (h *Hub) Deliver(userIDs []string, ev model.ChangeEvent) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, id := range userIDs {
		for c := range h.clients[id] {
			if !c.filter.allows(ev) {
				continue
			}
			select {
			case c.send <- ev:
				delivered++
			default:
				metrics.Get().RealtimeEventsDropped.Inc()
				slog.Warn("realtime client too slow, disconnecting", "user_id", c.UserID)
				c.kick()
			}
		}
	}
	return delivered
}

// Serve upgrades the request and streams matching events until the peer
// goes away or the request context ends.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID string, filter Filter) error {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		return err
	}
	defer conn.CloseNow()

	c := newClient(userID, filter)
	h.register(c)
	defer h.unregister(c)

	slog.Debug("realtime client connected", "user_id", userID, "table", filter.Table, "type", filter.Type)

	// CloseRead handles control frames; ctx ends when the peer closes
	ctx := conn.CloseRead(r.Context())

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-c.done:
			conn.Close(websocket.StatusPolicyViolation, "client too slow")
			return nil

		case ev := <-c.send:
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := wsjson.Write(writeCtx, conn, ev)
			cancel()
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					slog.Debug("realtime write failed", "user_id", userID, "error", err)
				}
				return nil
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return nil
			}
		}
	}
}
