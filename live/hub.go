// Package live pushes content and analytics events to admin dashboards over
// websockets.
package live

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/surafelx/portfolio26/logx"
	"github.com/surafelx/portfolio26/mq"
)

const (
	RoomContent   = "content"
	RoomAnalytics = "analytics"
)

var Rooms = []string{RoomContent, RoomAnalytics}

type Client struct {
	Send   chan []byte
	Room   string
	UserID string
	conn   wsConn
}

type broadcastMsg struct {
	Room string
	Data []byte
}

type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMsg
	quit       chan struct{}
	stopOnce   sync.Once
	mu         sync.Mutex
	log        *logx.Logger
}

func NewHub(log *logx.Logger) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMsg, 64),
		quit:       make(chan struct{}),
		log:        logx.OrNop(log),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.rooms[c.Room] == nil {
				h.rooms[c.Room] = make(map[*Client]bool)
			}
			h.rooms[c.Room][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if conns := h.rooms[c.Room]; conns != nil && conns[c] {
				delete(conns, c)
				close(c.Send)
			}
			h.mu.Unlock()

		case m := <-h.broadcast:
			h.mu.Lock()
			for c := range h.rooms[m.Room] {
				select {
				case c.Send <- m.Data:
				default:
					// slow consumer
					close(c.Send)
					delete(h.rooms[m.Room], c)
				}
			}
			h.mu.Unlock()

		case <-h.quit:
			h.mu.Lock()
			for _, conns := range h.rooms {
				for c := range conns {
					close(c.Send)
					delete(conns, c)
				}
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop closes every client and ends Run.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}

// Register adds c to its room. It returns false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.quit:
		return false
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.quit:
	}
}

// Broadcast encodes v and queues it for every client in room.
func (h *Hub) Broadcast(room string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		h.log.Warn("live: encode failed", "room", room, "error", err)
		return
	}
	select {
	case h.broadcast <- broadcastMsg{Room: room, Data: data}:
	case <-h.quit:
	}
}

// Relay forwards bus events: views to the analytics room, everything else
// to the content room.
func (h *Hub) Relay(bus *mq.Bus) {
	bus.Subscribe(func(_ context.Context, ev mq.Event) {
		room := RoomContent
		if ev.Type == "view" {
			room = RoomAnalytics
		}
		h.Broadcast(room, ev)
	})
}

// Clients returns the number of clients in room.
func (h *Hub) Clients(room string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[room])
}
