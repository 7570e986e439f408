package ws

import (
	"encoding/json"
	"sync"
	"time"

	"dripfit/internal/models"
)

// Client is one staff dashboard connection, scoped to a gym.
type Client struct {
	UserID uint
	GymID  uint
	Send   chan []byte
	hub    *FeedHub
	mu     sync.Mutex
	closed bool
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.hub != nil {
		c.hub.unregister(c)
	}
}

// FeedHub fans redemption lifecycle events out to the staff dashboards
// watching each gym.
type FeedHub struct {
	mu    sync.RWMutex
	byGym map[uint]map[*Client]struct{}
}

func NewFeedHub() *FeedHub {
	return &FeedHub{byGym: make(map[uint]map[*Client]struct{})}
}

func (h *FeedHub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	if h.byGym[c.GymID] == nil {
		h.byGym[c.GymID] = make(map[*Client]struct{})
	}
	h.byGym[c.GymID][c] = struct{}{}
}

func (h *FeedHub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m := h.byGym[c.GymID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byGym, c.GymID)
		}
	}
}

// BroadcastToGym sends a JSON event to every dashboard watching gymID.
// Slow consumers are skipped, never blocked on.
func (h *FeedHub) BroadcastToGym(gymID uint, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.mu.RLock()
	m := h.byGym[gymID]
	if m == nil {
		h.mu.RUnlock()
		return
	}
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		select {
		case c.Send <- data:
		default:
		}
	}
}

func (h *FeedHub) WatcherCount(gymID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byGym[gymID])
}

// RedemptionEvent implements service.RedemptionFeed.
func (h *FeedHub) RedemptionEvent(gymID uint, event string, rd *models.Redemption) {
	h.BroadcastToGym(gymID, map[string]interface{}{
		"type":          "redemption",
		"event":         event,
		"redemption_id": rd.ID,
		"code":          rd.Code,
		"status":        rd.Status,
		"reward_id":     rd.RewardID,
		"at":            time.Now().UTC(),
	})
}
