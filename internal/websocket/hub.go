package websocket

import (
	"encoding/json"
	"sync"

	"banktech/internal/metrics"
)

// BalanceUpdate is pushed to subscribers of an account after a committed change.
type BalanceUpdate struct {
	AccountNumber string `json:"account_number"`
	Balance       string `json:"balance"`
	Currency      string `json:"currency"`
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(accountNumber string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[accountNumber] == nil {
		h.clients[accountNumber] = make(map[*Client]struct{})
	}
	if _, ok := h.clients[accountNumber][client]; !ok {
		h.clients[accountNumber][client] = struct{}{}
		metrics.WebsocketSubscribers.Inc()
	}
}

// Unregister is safe to call more than once for the same client.
func (h *Hub) Unregister(accountNumber string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[accountNumber][client]; !ok {
		return
	}
	delete(h.clients[accountNumber], client)
	metrics.WebsocketSubscribers.Dec()
	if len(h.clients[accountNumber]) == 0 {
		delete(h.clients, accountNumber)
	}
}

func (h *Hub) Subscribers(accountNumber string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[accountNumber])
}

// BroadcastBalance never blocks; slow clients miss updates.
func (h *Hub) BroadcastBalance(update BalanceUpdate) {
	payload, _ := json.Marshal(update)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[update.AccountNumber] {
		select {
		case client.send <- payload:
		default:
		}
	}
}
