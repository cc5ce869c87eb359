package handlers

import (
	"net/http"

	"classroom-poll-backend/internal/services"
	"classroom-poll-backend/internal/ws"

	"github.com/gin-gonic/gin"
)

type LobbyHandler struct {
	lobbyService *services.LobbyService
	pollService  *services.PollService
	hub          *ws.Hub
}

func NewLobbyHandler(lobbyService *services.LobbyService, pollService *services.PollService, hub *ws.Hub) *LobbyHandler {
	return &LobbyHandler{lobbyService: lobbyService, pollService: pollService, hub: hub}
}

func (h *LobbyHandler) ListLobby(c *gin.Context) {
	identity := identityFrom(c)
	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	// Ownership gate; reads as not-found for anyone else's poll.
	if _, err := h.pollService.GetPoll(pollID, identity.UserID); err != nil {
		respondError(c, err)
		return
	}

	members, err := h.lobbyService.ListLobby(pollID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, members)
}

func (h *LobbyHandler) Kick(c *gin.Context) {
	identity := identityFrom(c)
	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}
	studentNumber := c.Param("studentNumber")

	if _, err := h.pollService.GetPoll(pollID, identity.UserID); err != nil {
		respondError(c, err)
		return
	}

	userID, err := h.lobbyService.Kick(pollID, studentNumber)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.NotifyUserKicked(pollID, userID)

	respondOK(c, http.StatusOK, gin.H{"kicked": true})
}
