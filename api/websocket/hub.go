package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sustainers/sustain-chain/metrics"
)

// Hub maintains the set of active clients and broadcasts pool updates
type Hub struct {
	// Registered clients by channel
	clients  map[*Client]bool
	channels map[string]map[*Client]bool // channel -> clients

	// Inbound messages from clients
	broadcast chan []byte

	// Register/unregister requests
	register   chan *Client
	unregister chan *Client

	// Channel subscription requests
	subscribe   chan *SubscriptionRequest
	unsubscribe chan *SubscriptionRequest

	// Pool snapshots buffered between broadcast ticks, keyed by owner
	poolBuffer map[string]*PoolMessage

	mu sync.RWMutex

	config *HubConfig
}

// HubConfig contains hub configuration
type HubConfig struct {
	// Buffered pool snapshots flush at this interval
	PoolInterval time.Duration

	// Connection limits
	MaxSubscriptions int

	// Messages per second per client
	MessageRateLimit int
}

// DefaultHubConfig returns default hub configuration
func DefaultHubConfig() *HubConfig {
	return &HubConfig{
		PoolInterval:     500 * time.Millisecond,
		MaxSubscriptions: 50,
		MessageRateLimit: 100,
	}
}

// SubscriptionRequest represents a subscription request
type SubscriptionRequest struct {
	Client  *Client
	Channel string
	Action  string // "subscribe" or "unsubscribe"
}

// NewHub creates a new Hub
func NewHub(config *HubConfig) *Hub {
	if config == nil {
		config = DefaultHubConfig()
	}

	return &Hub{
		clients:     make(map[*Client]bool),
		channels:    make(map[string]map[*Client]bool),
		broadcast:   make(chan []byte, 256),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan *SubscriptionRequest, 256),
		unsubscribe: make(chan *SubscriptionRequest, 256),
		poolBuffer:  make(map[string]*PoolMessage),
		config:      config,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	poolTicker := time.NewTicker(h.config.PoolInterval)
	defer poolTicker.Stop()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case req := <-h.subscribe:
			h.handleSubscription(req)

		case req := <-h.unsubscribe:
			h.handleUnsubscription(req)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case <-poolTicker.C:
			h.broadcastPools()
		}
	}
}

// registerClient adds a new client
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	metrics.GetCollector().RecordWSConnection(1)
}

// unregisterClient removes a client
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)

		// Remove from all channels
		for channel, clients := range h.channels {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.channels, channel)
			}
		}

		close(client.send)
		metrics.GetCollector().RecordWSConnection(-1)
	}
}

// handleSubscription handles a subscription request
func (h *Hub) handleSubscription(req *SubscriptionRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	channel := req.Channel
	client := req.Client

	if _, ok := h.channels[channel]; !ok {
		h.channels[channel] = make(map[*Client]bool)
	}
	h.channels[channel][client] = true

	// Send subscription confirmation
	confirmation := &WSMessage{
		Type:    "subscribed",
		Channel: channel,
		Data:    nil,
	}
	data, _ := json.Marshal(confirmation)
	client.send <- data
}

// handleUnsubscription handles an unsubscription request
func (h *Hub) handleUnsubscription(req *SubscriptionRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	channel := req.Channel
	client := req.Client

	if clients, ok := h.channels[channel]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.channels, channel)
		}
	}

	confirmation := &WSMessage{
		Type:    "unsubscribed",
		Channel: channel,
		Data:    nil,
	}
	data, _ := json.Marshal(confirmation)
	client.send <- data
}

// broadcastMessage sends a message to all connected clients
func (h *Hub) broadcastMessage(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			// Client buffer is full, skip
		}
	}
}

// BroadcastToChannel sends a message to all clients subscribed to a channel
func (h *Hub) BroadcastToChannel(channel string, message interface{}) {
	h.mu.RLock()
	clients, ok := h.channels[channel]
	if !ok {
		h.mu.RUnlock()
		return
	}

	// Copy so the lock is not held during send
	clientList := make([]*Client, 0, len(clients))
	for client := range clients {
		clientList = append(clientList, client)
	}
	h.mu.RUnlock()

	data, err := json.Marshal(message)
	if err != nil {
		return
	}

	metrics.GetCollector().RecordWSMessage(channel)

	for _, client := range clientList {
		select {
		case client.send <- data:
		default:
			// Client buffer is full, skip
		}
	}
}

// ============ Channel-specific broadcasts ============

// UpdatePool buffers a pool snapshot for the owner's next broadcast tick
func (h *Hub) UpdatePool(owner string, pool *PoolMessage) {
	h.mu.Lock()
	h.poolBuffer[owner] = pool
	h.mu.Unlock()
}

// broadcastPools flushes buffered pool snapshots
func (h *Hub) broadcastPools() {
	h.mu.RLock()
	pools := make(map[string]*PoolMessage, len(h.poolBuffer))
	for k, v := range h.poolBuffer {
		pools[k] = v
	}
	h.mu.RUnlock()

	for owner, pool := range pools {
		msg := &WSMessage{
			Type:    "pool",
			Channel: "owner:" + owner,
			Data:    pool,
		}
		h.BroadcastToChannel("owner:"+owner, msg)

		// The firehose channel carries every pool update
		all := &WSMessage{
			Type:    "pool",
			Channel: "pools",
			Data:    pool,
		}
		h.BroadcastToChannel("pools", all)
	}
}

// BroadcastSustainment broadcasts a contribution to the owner's subscribers
func (h *Hub) BroadcastSustainment(owner string, sustainment *SustainmentMessage) {
	channel := "owner:" + owner
	msg := &WSMessage{
		Type:    "sustainment",
		Channel: channel,
		Data:    sustainment,
	}
	h.BroadcastToChannel(channel, msg)
}

// BroadcastRedistribution notifies a sustainer of a surplus payout
func (h *Hub) BroadcastRedistribution(sustainer string, redistribution *RedistributionMessage) {
	channel := "sustainer:" + sustainer
	msg := &WSMessage{
		Type:    "redistribution",
		Channel: channel,
		Data:    redistribution,
	}
	h.BroadcastToChannel(channel, msg)
}

// BroadcastTap broadcasts an owner withdrawal to the owner's subscribers
func (h *Hub) BroadcastTap(owner string, tap *TapMessage) {
	channel := "owner:" + owner
	msg := &WSMessage{
		Type:    "tap",
		Channel: channel,
		Data:    tap,
	}
	h.BroadcastToChannel(channel, msg)
}

// ============ Message Types ============

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Channel string      `json:"channel"`
	Data    interface{} `json:"data,omitempty"`
}

// PoolMessage represents a pool snapshot
type PoolMessage struct {
	PoolID    uint64 `json:"pool_id"`
	Owner     string `json:"owner"`
	WantDenom string `json:"want_denom"`
	Target    string `json:"target"`
	Total     string `json:"total"`
	Tapped    string `json:"tapped"`
	State     string `json:"state"`
	Start     int64  `json:"start"`
	Duration  int64  `json:"duration"`
	Timestamp int64  `json:"timestamp"`
}

// SustainmentMessage represents a contribution event
type SustainmentMessage struct {
	PoolID      uint64 `json:"pool_id"`
	Owner       string `json:"owner"`
	Sustainer   string `json:"sustainer"`
	Beneficiary string `json:"beneficiary"`
	Amount      string `json:"amount"`
	Total       string `json:"total"`
	Timestamp   int64  `json:"timestamp"`
}

// RedistributionMessage represents a surplus payout event
type RedistributionMessage struct {
	Sustainer string `json:"sustainer"`
	Amount    string `json:"amount"`
	Denom     string `json:"denom"`
	Timestamp int64  `json:"timestamp"`
}

// TapMessage represents an owner withdrawal event
type TapMessage struct {
	PoolID    uint64 `json:"pool_id"`
	Owner     string `json:"owner"`
	Amount    string `json:"amount"`
	Tapped    string `json:"tapped"`
	Timestamp int64  `json:"timestamp"`
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetChannelCount returns the number of active channels
func (h *Hub) GetChannelCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels)
}

// GetChannelClientCount returns the number of clients in a channel
func (h *Hub) GetChannelClientCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if clients, ok := h.channels[channel]; ok {
		return len(clients)
	}
	return 0
}

// ServeWS handles WebSocket upgrade requests
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		clientID = uuid.NewString()
	}

	// Sustainer address is trusted from the query string; private channel
	// payloads carry only what the chain already exposes via queries.
	sustainer := r.URL.Query().Get("sustainer")
	ip := getClientIPFromRequest(r)

	client := NewClient(h, conn, clientID, sustainer, ip)

	h.register <- client

	go client.writePump()
	go client.readPump()
}

// Helper function to get client IP
func getClientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == ':' {
			return ip[:i]
		}
	}
	return ip
}
