package websocket

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/league-stats/internal/domain"
)

// Message types
const (
	MessageTypeGameImported = "game_imported"
	MessageTypeAccountGame  = "account_game"
	MessageTypeSubscribe    = "subscribe"
	MessageTypeUnsubscribe  = "unsubscribe"
	MessageTypePing         = "ping"
	MessageTypePong         = "pong"
	MessageTypeError        = "error"
)

// Message represents a WebSocket message
type Message struct {
	Type      string    `json:"type"`
	AccountID string    `json:"account_id,omitempty"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// GameImported announces a newly imported game to every client
type GameImported struct {
	GameID          int64       `json:"game_id"`
	VendorMatchID   string      `json:"vendor_match_id"`
	WinningSide     domain.Side `json:"winning_side"`
	DurationSeconds int         `json:"duration_seconds"`
	AccountIDs      []string    `json:"account_ids"`
}

// AccountGame is one account's line from an imported game, sent to that account's subscribers
type AccountGame struct {
	GameID       int64       `json:"game_id"`
	ChampionName string      `json:"champion_name"`
	Role         domain.Role `json:"player_role"`
	Win          bool        `json:"win"`
	Kills        int         `json:"kills"`
	Deaths       int         `json:"deaths"`
	Assists      int         `json:"assists"`
	KDA          float64     `json:"kda"`
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	// Subscribed clients by account ID
	clients map[string]map[*Client]bool

	// All connected clients
	allClients map[*Client]bool

	register    chan *Client
	unregister  chan *Client
	broadcast   chan *Message
	subscribe   chan *subscriptionRequest
	unsubscribe chan *subscriptionRequest

	mu     sync.RWMutex
	logger *slog.Logger

	// Context for shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

type subscriptionRequest struct {
	client    *Client
	accountID string
}

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[string]map[*Client]bool),
		allClients:  make(map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *Message, 256),
		subscribe:   make(chan *subscriptionRequest, 64),
		unsubscribe: make(chan *subscriptionRequest, 64),
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	h.logger.Info("WebSocket hub started")
	for {
		select {
		case <-h.ctx.Done():
			h.logger.Info("WebSocket hub stopping")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.allClients[client] = true
			h.mu.Unlock()
			h.logger.Debug("client registered", "client_id", client.id)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.allClients[client]; ok {
				delete(h.allClients, client)
				for accountID, clients := range h.clients {
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.clients, accountID)
					}
				}
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Debug("client unregistered", "client_id", client.id)

		case req := <-h.subscribe:
			h.mu.Lock()
			if _, ok := h.clients[req.accountID]; !ok {
				h.clients[req.accountID] = make(map[*Client]bool)
			}
			h.clients[req.accountID][req.client] = true
			h.mu.Unlock()
			h.logger.Debug("client subscribed", "client_id", req.client.id, "account_id", req.accountID)

		case req := <-h.unsubscribe:
			h.mu.Lock()
			if clients, ok := h.clients[req.accountID]; ok {
				delete(clients, req.client)
				if len(clients) == 0 {
					delete(h.clients, req.accountID)
				}
			}
			h.mu.Unlock()
			h.logger.Debug("client unsubscribed", "client_id", req.client.id, "account_id", req.accountID)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// Stop stops the hub
func (h *Hub) Stop() {
	h.cancel()
}

// broadcastMessage sends an account message to that account's subscribers
// and any other message to every client
func (h *Hub) broadcastMessage(message *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal message", "error", err)
		return
	}

	targets := h.allClients
	if message.AccountID != "" {
		targets = h.clients[message.AccountID]
	}
	for client := range targets {
		select {
		case client.send <- data:
		default:
			// Client's buffer is full, skip
			h.logger.Warn("client buffer full, skipping", "client_id", client.id)
		}
	}
}

func (h *Hub) enqueue(message *Message) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("broadcast channel full, dropping message", "type", message.Type)
	}
}

// BroadcastGameImported notifies every client of an import and each
// participant's subscribers of their own line
func (h *Hub) BroadcastGameImported(result *domain.ImportResult) {
	now := time.Now()
	accountIDs := make([]string, 0, len(result.Players))
	for _, ps := range result.Players {
		accountIDs = append(accountIDs, ps.AccountID)
	}

	h.enqueue(&Message{
		Type: MessageTypeGameImported,
		Data: GameImported{
			GameID:          result.Game.ID,
			VendorMatchID:   result.Game.VendorMatchID,
			WinningSide:     result.Game.WinningSide,
			DurationSeconds: result.Game.DurationSeconds,
			AccountIDs:      accountIDs,
		},
		Timestamp: now,
	})

	for _, ps := range result.Players {
		if h.GetSubscriberCount(ps.AccountID) == 0 {
			continue
		}
		h.enqueue(&Message{
			Type:      MessageTypeAccountGame,
			AccountID: ps.AccountID,
			Data: AccountGame{
				GameID:       ps.GameID,
				ChampionName: ps.ChampionName,
				Role:         ps.Role,
				Win:          ps.Win,
				Kills:        ps.Kills,
				Deaths:       ps.Deaths,
				Assists:      ps.Assists,
				KDA:          ps.KDA,
			},
			Timestamp: now,
		})
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Subscribe adds a client to an account's updates
func (h *Hub) Subscribe(client *Client, accountID string) {
	h.subscribe <- &subscriptionRequest{client: client, accountID: accountID}
}

// Unsubscribe removes a client from an account's updates
func (h *Hub) Unsubscribe(client *Client, accountID string) {
	h.unsubscribe <- &subscriptionRequest{client: client, accountID: accountID}
}

// GetSubscriberCount returns the number of subscribers for an account
func (h *Hub) GetSubscriberCount(accountID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[accountID])
}

// GetTotalConnections returns the total number of connected clients
func (h *Hub) GetTotalConnections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.allClients)
}
