package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"member-access-be/internal/model"
	"member-access-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "admin_feed_events"

// Hub fans the admin activity feed out to every connected back-office
// session. The feed is shared, so there is no per-user routing, only
// broadcast. Redis relays messages between instances.
type Hub struct {
	// AdminID -> open connections (multi-device)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.AdminID] = append(h.clients[client.AdminID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Admin session registered", map[string]interface{}{"admin_id": client.AdminID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.AdminID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.AdminID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.AdminID]) == 0 {
					delete(h.clients, client.AdminID)
					h.logger.Info("Hub", "Admin session unregistered", map[string]interface{}{"admin_id": client.AdminID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast pushes one feed row to every connected session and relays it
// to the other instances through Redis.
func (h *Hub) Broadcast(notification model.Notification) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})

	h.broadcastLocal(data)

	if h.rdb != nil {
		h.rdb.Publish(context.Background(), clusterChannel, data)
	}
}

func (h *Hub) broadcastLocal(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, clients := range h.clients {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				close(client.Send)
				h.unregister <- client
			}
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		if !json.Valid([]byte(msg.Payload)) {
			log.Printf("Redis msg parse error: invalid payload")
			continue
		}
		h.broadcastLocal([]byte(msg.Payload))
	}
}
