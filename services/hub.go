package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client is one connected websocket consumer of change events.
type Client struct {
	UserID uint
	Send   chan []byte
	Conn   *websocket.Conn
}

// Hub fans change events out to connected websocket clients so the mobile
// app can refresh without waiting for its poll timer.
type Hub struct {
	Clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan []byte
	mu         sync.RWMutex
}

type ChangeEvent struct {
	Table string    `json:"table"`
	At    time.Time `json:"at"`
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan []byte),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.Clients[client] = true
			h.mu.Unlock()
		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
		case msg := <-h.Broadcast:
			h.mu.Lock()
			for client := range h.Clients {
				select {
				case client.Send <- msg:
				default:
					close(client.Send)
					delete(h.Clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// RelayChanges forwards notifier signals to all connected clients as JSON
// change events. Runs until the subscription channel is closed.
func (h *Hub) RelayChanges(sub <-chan string) {
	for topic := range sub {
		event, err := json.Marshal(ChangeEvent{Table: topic, At: time.Now()})
		if err != nil {
			log.Printf("[Hub] Failed to encode change event: %v", err)
			continue
		}
		h.Broadcast <- event
	}
}
