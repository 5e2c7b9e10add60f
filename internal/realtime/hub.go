package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

const (
	// PingInterval and PongWait are used for heartbeat.
	PingInterval = 30
	PongWait     = 60

	// EventState carries a full console state view.
	EventState = "state"

	queueSize = 256
)

// Publisher forwards console events to other processes.
type Publisher interface {
	PublishConsoleEvent(event string, payload []byte) error
}

type outbound struct {
	event   string
	payload interface{}
}

// Hub fans console events out to every connected view, in the order they were notified.
// The latest state event is replayed to views as they connect.
type Hub struct {
	clients   map[string]*Client
	lastState *WSMessage
	mu        sync.RWMutex
	events    chan outbound
	logger    *zap.Logger
	publisher Publisher
}

// NewHub creates a hub. publisher may be nil.
func NewHub(logger *zap.Logger, publisher Publisher) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:   make(map[string]*Client),
		events:    make(chan outbound, queueSize),
		logger:    logger,
		publisher: publisher,
	}
}

// Notify queues an event for delivery. It never blocks; when the queue is full the oldest
// queued event is dropped so the newest state always gets through.
func (h *Hub) Notify(event string, payload interface{}) {
	ev := outbound{event: event, payload: payload}
	for {
		select {
		case h.events <- ev:
			return
		default:
		}
		select {
		case old := <-h.events:
			h.logger.Warn("hub queue full, dropping oldest event", zap.String("event", old.event))
		default:
		}
	}
}

// Run delivers queued events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case ev := <-h.events:
			h.dispatch(ev)
		}
	}
}

func (h *Hub) dispatch(ev outbound) {
	data, err := json.Marshal(ev.payload)
	if err != nil {
		h.logger.Error("marshal hub event", zap.String("event", ev.event), zap.Error(err))
		return
	}
	msg := WSMessage{Event: ev.event, Data: data}

	// sends happen under the lock so Unregister cannot close a channel mid-send
	h.mu.Lock()
	if ev.event == EventState {
		h.lastState = &msg
	}
	for _, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// buffer full, skip
		}
	}
	h.mu.Unlock()

	if h.publisher != nil {
		if err := h.publisher.PublishConsoleEvent(ev.event, data); err != nil {
			h.logger.Warn("publish console event", zap.String("event", ev.event), zap.Error(err))
		}
	}
}

// Register adds a view and sends it the latest state.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	if h.lastState != nil {
		select {
		case c.send <- *h.lastState:
		default:
		}
	}
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("view connected", zap.String("client_id", c.ID), zap.Int("views", count))
}

// Unregister removes a view.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.ID]; ok {
		delete(h.clients, c.ID)
		close(c.send)
	}
	h.mu.Unlock()
	h.logger.Debug("view disconnected", zap.String("client_id", c.ID))
}

// ViewCount returns the number of connected views.
func (h *Hub) ViewCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		close(c.send)
		delete(h.clients, id)
	}
}
