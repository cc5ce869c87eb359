package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type EventMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Conn is the subset of *websocket.Conn the hub writes to. A test can plug
// in a fake.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one authenticated websocket connection.
type Client struct {
	conn          Conn
	UserID        uint
	Name          string
	Role          string
	StudentNumber string
	rooms         map[uint]bool
}

// Hub keeps one room per poll id. It is process-local state shared by all
// request goroutines, so every access goes through the mutex.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[uint]map[*Client]bool
	clients map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{
		rooms:   make(map[uint]map[*Client]bool),
		clients: make(map[*Client]bool),
	}
}

func (h *Hub) Register(conn Conn, userID uint, name, role, studentNumber string) *Client {
	client := &Client{
		conn:          conn,
		UserID:        userID,
		Name:          name,
		Role:          role,
		StudentNumber: studentNumber,
		rooms:         make(map[uint]bool),
	}

	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()

	log.Printf("ws: client connected (user %d)", userID)
	return client
}

// Unregister removes the client from every room it joined, broadcasting
// user-left to each, then drops the connection.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	pollIDs := make([]uint, 0, len(client.rooms))
	for pollID := range client.rooms {
		pollIDs = append(pollIDs, pollID)
		h.removeFromRoomLocked(client, pollID)
	}
	delete(h.clients, client)
	h.mu.Unlock()

	for _, pollID := range pollIDs {
		h.BroadcastToRoom(pollID, EventMessage{
			Event: "user-left",
			Data:  map[string]interface{}{"poll_id": pollID, "user_id": client.UserID, "name": client.Name},
		}, nil)
	}

	client.conn.Close()
	log.Printf("ws: client disconnected (user %d)", client.UserID)
}

func (h *Hub) JoinRoom(client *Client, pollID uint) {
	h.mu.Lock()
	if h.rooms[pollID] == nil {
		h.rooms[pollID] = make(map[*Client]bool)
	}
	h.rooms[pollID][client] = true
	client.rooms[pollID] = true
	size := len(h.rooms[pollID])
	h.mu.Unlock()

	log.Printf("ws: user %d joined poll %d room (total: %d)", client.UserID, pollID, size)
	h.BroadcastToRoom(pollID, EventMessage{
		Event: "user-joined",
		Data:  map[string]interface{}{"poll_id": pollID, "user_id": client.UserID, "name": client.Name},
	}, client)
}

func (h *Hub) LeaveRoom(client *Client, pollID uint) {
	h.mu.Lock()
	h.removeFromRoomLocked(client, pollID)
	h.mu.Unlock()

	h.BroadcastToRoom(pollID, EventMessage{
		Event: "user-left",
		Data:  map[string]interface{}{"poll_id": pollID, "user_id": client.UserID, "name": client.Name},
	}, nil)
}

func (h *Hub) removeFromRoomLocked(client *Client, pollID uint) {
	if conns, ok := h.rooms[pollID]; ok {
		delete(conns, client)
		if len(conns) == 0 {
			delete(h.rooms, pollID)
		}
	}
	delete(client.rooms, pollID)
}

// RelayAnswerSelected fans a participant's in-progress selection out to the
// rest of the room for live tally UIs. This is presentation only; the
// authoritative vote write goes over the HTTP choice endpoint.
func (h *Hub) RelayAnswerSelected(client *Client, pollID, questionID uint, optionIndex int) {
	h.BroadcastToRoom(pollID, EventMessage{
		Event: "answer-selected",
		Data: map[string]interface{}{
			"poll_id":      pollID,
			"question_id":  questionID,
			"option_index": optionIndex,
			"user_id":      client.UserID,
		},
	}, client)
}

func (h *Hub) BroadcastPollStatusChange(pollID uint, status string, poll interface{}) {
	h.BroadcastToRoom(pollID, EventMessage{
		Event: "poll-status-changed",
		Data:  map[string]interface{}{"poll_id": pollID, "status": status, "poll": poll},
	}, nil)
}

func (h *Hub) BroadcastPollStats(pollID uint, stats interface{}) {
	h.BroadcastToRoom(pollID, EventMessage{
		Event: "poll-stats",
		Data:  stats,
	}, nil)
}

// NotifyUserKicked finds the kicked user's connections, removes them from
// the poll's room and sends each a direct kick notice.
func (h *Hub) NotifyUserKicked(pollID, userID uint) {
	h.mu.Lock()
	var kicked []*Client
	for client := range h.clients {
		if client.UserID == userID {
			h.removeFromRoomLocked(client, pollID)
			kicked = append(kicked, client)
		}
	}
	h.mu.Unlock()

	notice, err := json.Marshal(EventMessage{
		Event: "kicked",
		Data:  map[string]interface{}{"poll_id": pollID},
	})
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}
	for _, client := range kicked {
		if err := client.conn.WriteMessage(websocket.TextMessage, notice); err != nil {
			log.Printf("ws: write error: %v", err)
		}
	}
}

// BroadcastToRoom sends the message to every member of the poll's room,
// except the given client when set.
func (h *Hub) BroadcastToRoom(pollID uint, message EventMessage, except *Client) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	h.mu.RLock()
	conns := make([]*Client, 0, len(h.rooms[pollID]))
	for client := range h.rooms[pollID] {
		if client != except {
			conns = append(conns, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range conns {
		if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("ws: write error: %v", err)
		}
	}
}

// RoomSize reports current room membership, mainly for logging and tests.
func (h *Hub) RoomSize(pollID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[pollID])
}
