package handlers

import (
	"net/http"
	"strconv"

	"classroom-poll-backend/internal/services"
	"classroom-poll-backend/internal/ws"

	"github.com/gin-gonic/gin"
)

type PollHandler struct {
	pollService *services.PollService
	hub         *ws.Hub
}

func NewPollHandler(pollService *services.PollService, hub *ws.Hub) *PollHandler {
	return &PollHandler{pollService: pollService, hub: hub}
}

func pollIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "invalid poll id")
		return 0, false
	}
	return uint(id), true
}

func (h *PollHandler) ListPolls(c *gin.Context) {
	identity := identityFrom(c)

	polls, err := h.pollService.GetPollsByOwner(identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, polls)
}

func (h *PollHandler) CreatePoll(c *gin.Context) {
	identity := identityFrom(c)

	var input services.CreatePollInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	poll, err := h.pollService.CreatePoll(identity.UserID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, poll)
}

func (h *PollHandler) GetPoll(c *gin.Context) {
	identity := identityFrom(c)
	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	poll, err := h.pollService.GetPoll(pollID, identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, poll)
}

func (h *PollHandler) UpdatePoll(c *gin.Context) {
	identity := identityFrom(c)
	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	var input services.UpdatePollInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	poll, err := h.pollService.UpdatePoll(pollID, identity.UserID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, poll)
}

func (h *PollHandler) DeletePoll(c *gin.Context) {
	identity := identityFrom(c)
	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	if err := h.pollService.DeletePoll(pollID, identity.UserID); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{"deleted": true})
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetStatus drives the poll lifecycle (open, start, close) and fans the
// transition out to the poll's room.
func (h *PollHandler) SetStatus(c *gin.Context) {
	identity := identityFrom(c)
	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	poll, err := h.pollService.SetStatus(pollID, req.Status, identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.BroadcastPollStatusChange(poll.ID, poll.Status, services.NewParticipantView(poll))

	respondOK(c, http.StatusOK, poll)
}
