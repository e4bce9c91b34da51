package ws

import (
	"context"
	"encoding/json"
	"sync"

	"ecr/internal/domain"
	"ecr/internal/events"
)

// Client represents a single WebSocket connection with user context.
type Client struct {
	UserID uint
	Role   domain.Role
	Send   chan []byte
	hub    *Hub
	mu     sync.Mutex
	closed bool
	topics map[uint]struct{}
}

func NewClient(userID uint, role domain.Role, buffer int) *Client {
	return &Client{
		UserID: userID,
		Role:   role,
		Send:   make(chan []byte, buffer),
		topics: make(map[uint]struct{}),
	}
}

// deliver never blocks: a full buffer drops the message.
func (c *Client) deliver(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.Send)
	c.mu.Unlock()
	if c.hub != nil {
		c.hub.unregister(c)
	}
}

// Hub routes property events to the clients subscribed to that property.
// Delivery is at-most-once and nothing is replayed.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	topics  map[uint]map[*Client]struct{}
	dropped uint64
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		topics:  make(map[uint]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	for id := range c.topics {
		h.removeFromTopic(id, c)
	}
	c.topics = make(map[uint]struct{})
}

func (h *Hub) Subscribe(c *Client, propertyID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	if h.topics[propertyID] == nil {
		h.topics[propertyID] = make(map[*Client]struct{})
	}
	h.topics[propertyID][c] = struct{}{}
	c.topics[propertyID] = struct{}{}
}

func (h *Hub) Unsubscribe(c *Client, propertyID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeFromTopic(propertyID, c)
	delete(c.topics, propertyID)
}

func (h *Hub) removeFromTopic(propertyID uint, c *Client) {
	if m := h.topics[propertyID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.topics, propertyID)
		}
	}
}

// Publish implements events.Sink.
func (h *Hub) Publish(_ context.Context, e events.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	h.mu.RLock()
	m := h.topics[e.PropertyID]
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	var dropped uint64
	for _, c := range clients {
		if !c.deliver(data) {
			dropped++
		}
	}
	if dropped > 0 {
		h.mu.Lock()
		h.dropped += dropped
		h.mu.Unlock()
	}
	return nil
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) SubscriberCount(propertyID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[propertyID])
}

// Dropped counts deliveries skipped because a client buffer was full.
func (h *Hub) Dropped() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}
