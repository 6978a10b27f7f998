package socket

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MessageNotification      MessageType = "notification"
	MessageNotificationCount MessageType = "notification_count"

	MessageLeadCreated   MessageType = "lead_created"
	MessageLeadUpdated   MessageType = "lead_updated"
	MessageLeadDeleted   MessageType = "lead_deleted"
	MessageLeadConverted MessageType = "lead_converted"

	MessageClientUpdated MessageType = "client_updated"
	MessageCommentAdded  MessageType = "comment_added"

	MessagePermissionRequested MessageType = "permission_requested"
	MessagePermissionApproved  MessageType = "permission_approved"
	MessagePermissionRevoked   MessageType = "permission_revoked"

	MessagePing MessageType = "ping"
	MessagePong MessageType = "pong"
)

// Message is the envelope every hub payload travels in.
type Message struct {
	Type      MessageType            `json:"type"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func NewMessage(msgType MessageType, payload map[string]interface{}) []byte {
	data, err := json.Marshal(Message{Type: msgType, Payload: payload, Timestamp: time.Now()})
	if err != nil {
		log.Printf("[Hub] Failed to marshal message: %v", err)
		return nil
	}
	return data
}

// DirectMessage targets all connections of one user.
type DirectMessage struct {
	UserID  string
	Message []byte
}

// Hub maintains the set of active clients and routes messages to them.
type Hub struct {
	clients     map[*Client]bool
	userClients map[string]map[*Client]bool

	register      chan *Client
	unregister    chan *Client
	broadcast     chan []byte
	directMessage chan *DirectMessage

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		userClients:   make(map[string]map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		broadcast:     make(chan []byte, 256),
		directMessage: make(chan *DirectMessage, 256),
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	log.Println("[Hub] WebSocket hub started")
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case message := <-h.broadcast:
			h.broadcastToAll(message)
		case dm := <-h.directMessage:
			h.sendToUser(dm)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	if h.userClients[client.UserID] == nil {
		h.userClients[client.UserID] = make(map[*Client]bool)
	}
	h.userClients[client.UserID][client] = true

	log.Printf("[Hub] Client registered: user=%s total=%d", client.UserID, len(h.clients))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	if clients, ok := h.userClients[client.UserID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.userClients, client.UserID)
		}
	}
	close(client.Send)
	log.Printf("[Hub] Client unregistered: user=%s total=%d", client.UserID, len(h.clients))
}

func (h *Hub) broadcastToAll(message []byte) {
	if message == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.Send <- message:
		default:
			// Slow consumer; drop the message rather than block the hub.
		}
	}
}

func (h *Hub) sendToUser(dm *DirectMessage) {
	if dm.Message == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.userClients[dm.UserID] {
		select {
		case client.Send <- dm.Message:
		default:
		}
	}
}

// Broadcast sends a message to every connected client.
func (h *Hub) Broadcast(message []byte) {
	h.broadcast <- message
}

// SendToUser sends a message to all of a user's connections.
func (h *Hub) SendToUser(userID string, message []byte) {
	h.directMessage <- &DirectMessage{UserID: userID, Message: message}
}

// GetConnectedClientsCount reports the number of live connections.
func (h *Hub) GetConnectedClientsCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
