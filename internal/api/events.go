package api

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"statkit/domain/core"
	"statkit/domain/stats"
	"statkit/internal"

	"github.com/gin-gonic/gin"
)

// ResultEvent announces a result that was just stored
type ResultEvent struct {
	ID        core.ID    `json:"id"`
	Kind      stats.Kind `json:"kind"`
	CreatedAt time.Time  `json:"created_at"`
}

// EventHub fans stored-result events out to Server-Sent Events clients.
// Slow clients miss events rather than block the publisher.
type EventHub struct {
	mu          sync.RWMutex
	subscribers map[chan ResultEvent]stats.Kind
	broadcast   chan ResultEvent
	done        chan struct{}
	closeOnce   sync.Once
	keepAlive   time.Duration
	logger      *internal.Logger
}

// NewEventHub creates a hub and starts its dispatch loop
func NewEventHub() *EventHub {
	h := &EventHub{
		subscribers: make(map[chan ResultEvent]stats.Kind),
		broadcast:   make(chan ResultEvent, 100),
		done:        make(chan struct{}),
		keepAlive:   30 * time.Second,
		logger:      internal.DefaultLogger.Named("events"),
	}
	go h.run()
	return h
}

func (h *EventHub) run() {
	for {
		select {
		case event := <-h.broadcast:
			h.mu.RLock()
			for ch, kind := range h.subscribers {
				if kind != "" && kind != event.Kind {
					continue
				}
				select {
				case ch <- event:
				default:
					h.logger.Warn("client channel full, skipping event %s", event.ID)
				}
			}
			h.mu.RUnlock()
		case <-h.done:
			return
		}
	}
}

// Close stops the dispatch loop and ends open streams. It is safe to call
// more than once.
func (h *EventHub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}

// Publish queues an event for every subscriber interested in its kind
func (h *EventHub) Publish(res *stats.Result) {
	event := ResultEvent{ID: res.ID(), Kind: res.Kind(), CreatedAt: res.CreatedAt()}
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("broadcast channel full, dropping event %s", event.ID)
	}
}

// Subscribe registers a listener for results of kind, or of every kind when
// kind is empty. The returned function unregisters it and closes the channel.
func (h *EventHub) Subscribe(kind stats.Kind) (<-chan ResultEvent, func()) {
	ch := make(chan ResultEvent, 10)
	h.mu.Lock()
	h.subscribers[ch] = kind
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// ClientCount returns the number of connected subscribers
func (h *EventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// HandleSSE streams stored-result events; ?kind= narrows them to one kind
func (h *EventHub) HandleSSE(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	events, unsubscribe := h.Subscribe(stats.Kind(c.Query("kind")))
	defer unsubscribe()

	ctx := c.Request.Context()
	c.Status(http.StatusOK)
	c.Stream(func(w io.Writer) bool {
		select {
		case event := <-events:
			payload, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("failed to marshal event: %v", err)
				return true
			}
			c.SSEvent("result", string(payload))
			return true
		case <-time.After(h.keepAlive):
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		case <-ctx.Done():
			return false
		case <-h.done:
			return false
		}
	})
}
