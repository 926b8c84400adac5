package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
)

const redisPubSubChannel = "chat"

// Event is a frame pushed to connected chat clients
type Event struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

// Hub manages WebSocket clients and routes frames to a user's
// connections. With Redis configured, frames published by other
// instances are fanned out too.
type Hub struct {
	clients map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	reassign   chan *reassignRequest
	direct     chan *targetedFrame

	mu          sync.RWMutex
	redisClient *redis.Client
	ctx         context.Context
	cancel      context.CancelFunc
}

type targetedFrame struct {
	UserID string
	Data   []byte
}

// reassignRequest moves a live connection from one user identity to
// another, keeping its send channel open.
type reassignRequest struct {
	Client *Client
	OldID  string
}

// NewHub creates a new Hub. redisClient may be nil.
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[string]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		reassign:    make(chan *reassignRequest),
		direct:      make(chan *targetedFrame, 256),
		redisClient: redisClient,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Register adds an authenticated client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Reassign moves a client that re-authenticated as another user out of
// its old identity's connection map. Call with the previous user id;
// the client's current user id is where it ends up.
func (h *Hub) Reassign(client *Client, oldID string) {
	h.reassign <- &reassignRequest{Client: client, OldID: oldID}
}

// SendToUser delivers a frame to every connection of one user. With
// Redis configured the frame goes through pub/sub so every instance,
// this one included, delivers it exactly once.
func (h *Hub) SendToUser(userID string, data []byte) {
	if h.redisClient != nil {
		envelope, err := json.Marshal(map[string]string{
			"user_id": userID,
			"data":    string(data),
		})
		if err == nil {
			h.redisClient.Publish(h.ctx, redisPubSubChannel, envelope)
			return
		}
	}
	h.direct <- &targetedFrame{UserID: userID, Data: data}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	if h.redisClient != nil {
		go h.subscribeRedis()
	}

	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.clients[client.userID]; ok {
				if conns[client] {
					delete(conns, client)
					close(client.send)
					if len(conns) == 0 {
						delete(h.clients, client.userID)
					}
				}
			}
			h.mu.Unlock()

		case req := <-h.reassign:
			h.mu.Lock()
			if conns, ok := h.clients[req.OldID]; ok {
				delete(conns, req.Client)
				if len(conns) == 0 {
					delete(h.clients, req.OldID)
				}
			}
			newID := req.Client.userID
			if h.clients[newID] == nil {
				h.clients[newID] = make(map[*Client]bool)
			}
			h.clients[newID][req.Client] = true
			h.mu.Unlock()

		case frame := <-h.direct:
			h.mu.RLock()
			for client := range h.clients[frame.UserID] {
				client.Send(frame.Data)
			}
			h.mu.RUnlock()
		}
	}
}

// Stop shuts down the hub loop
func (h *Hub) Stop() {
	h.cancel()
}

// subscribeRedis fans out frames published by other instances
func (h *Hub) subscribeRedis() {
	sub := h.redisClient.Subscribe(h.ctx, redisPubSubChannel)
	defer sub.Close()

	for {
		msg, err := sub.ReceiveMessage(h.ctx)
		if err != nil {
			return
		}

		var envelope struct {
			UserID string `json:"user_id"`
			Data   string `json:"data"`
		}
		if json.Unmarshal([]byte(msg.Payload), &envelope) != nil {
			continue
		}

		h.mu.RLock()
		for client := range h.clients[envelope.UserID] {
			client.Send([]byte(envelope.Data))
		}
		h.mu.RUnlock()
	}
}
