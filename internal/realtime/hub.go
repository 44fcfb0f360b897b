// Package realtime delivers "something changed" notifications to subscribed
// clients. Consumers re-fetch the affected list on every notification rather
// than applying diffs, so events carry only the scope of the change.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const channelPrefix = "localloop:changes:"

// ScopeTips is the scope of changes to the global tip list.
const ScopeTips = "tips"

// ScopeTip is the per-tip scope used for comment thread subscriptions.
func ScopeTip(tipID uuid.UUID) string {
	return "tip:" + tipID.String()
}

// Change notifies subscribers that a row in Table changed.
type Change struct {
	Table string `json:"table"`
	Event string `json:"event"`
	TipID string `json:"tip_id,omitempty"`
}

// Hub fans changes out to in-process subscribers, and through Redis pub/sub
// to other instances when a client is configured. A nil Redis client keeps
// the hub fully functional within a single process.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan Change]struct{}
	rdb  *redis.Client
}

func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		subs: make(map[string]map[chan Change]struct{}),
		rdb:  rdb,
	}
}

// Run relays cross-instance changes from Redis until ctx is cancelled.
// It is a no-op without a Redis client.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb == nil {
		return
	}

	sub := h.rdb.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			scope := strings.TrimPrefix(msg.Channel, channelPrefix)
			var change Change
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				slog.Error("realtime: bad change payload", "error", err)
				continue
			}
			h.deliver(scope, change)
		}
	}
}

// Subscribe registers a listener on scope. The returned cancel func must be
// called when the consumer goes away.
func (h *Hub) Subscribe(scope string) (<-chan Change, func()) {
	ch := make(chan Change, 8)

	h.mu.Lock()
	if h.subs[scope] == nil {
		h.subs[scope] = make(map[chan Change]struct{})
	}
	h.subs[scope][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[scope]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, scope)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish sends a change to every subscriber of scope. With Redis configured
// the change travels through pub/sub so all instances (this one included)
// deliver it; otherwise delivery is local only.
func (h *Hub) Publish(ctx context.Context, scope string, change Change) {
	if h.rdb != nil {
		payload, err := json.Marshal(change)
		if err == nil {
			if err := h.rdb.Publish(ctx, channelPrefix+scope, payload).Err(); err == nil {
				return
			}
			slog.Error("realtime: redis publish failed, delivering locally")
		}
	}
	h.deliver(scope, change)
}

func (h *Hub) deliver(scope string, change Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[scope] {
		select {
		case ch <- change:
		default:
			// Slow subscriber; it will re-fetch on the next event anyway.
		}
	}
}
