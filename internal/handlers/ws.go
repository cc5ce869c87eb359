package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"classroom-poll-backend/internal/services"
	"classroom-poll-backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	hub         *ws.Hub
	authService *services.AuthService
}

func NewWSHandler(hub *ws.Hub, authService *services.AuthService) *WSHandler {
	return &WSHandler{hub: hub, authService: authService}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type inboundEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type selectAnswerPayload struct {
	PollID      uint `json:"poll_id"`
	QuestionID  uint `json:"question_id"`
	OptionIndex int  `json:"option_index"`
}

// HandleWebSocket authenticates the handshake, then serves the connection's
// event loop: join-poll, leave-poll and select-answer relays. The connection
// leaves all its rooms on disconnect.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	identity, err := h.authService.Verify(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, Response{Success: false, Error: "invalid or missing token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	client := h.hub.Register(conn, identity.UserID, identity.Name, identity.Role, identity.StudentNumber)
	defer h.hub.Unregister(client)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var msg inboundEvent
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}

		switch msg.Event {
		case "join-poll":
			var pollID uint
			if err := json.Unmarshal(msg.Data, &pollID); err == nil {
				h.hub.JoinRoom(client, pollID)
			}
		case "leave-poll":
			var pollID uint
			if err := json.Unmarshal(msg.Data, &pollID); err == nil {
				h.hub.LeaveRoom(client, pollID)
			}
		case "select-answer":
			var payload selectAnswerPayload
			if err := json.Unmarshal(msg.Data, &payload); err == nil {
				h.hub.RelayAnswerSelected(client, payload.PollID, payload.QuestionID, payload.OptionIndex)
			}
		}
	}
}
