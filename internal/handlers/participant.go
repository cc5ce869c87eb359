package handlers

import (
	"net/http"

	"classroom-poll-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ParticipantHandler struct {
	lobbyService      *services.LobbyService
	voteService       *services.VoteService
	submissionService *services.SubmissionService
}

func NewParticipantHandler(lobbyService *services.LobbyService, voteService *services.VoteService, submissionService *services.SubmissionService) *ParticipantHandler {
	return &ParticipantHandler{
		lobbyService:      lobbyService,
		voteService:       voteService,
		submissionService: submissionService,
	}
}

type JoinRequest struct {
	Code         string `json:"code" binding:"required,len=6"`
	SecurityCode string `json:"security_code"`
}

func (h *ParticipantHandler) Join(c *gin.Context) {
	identity := identityFrom(c)

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	view, err := h.lobbyService.Join(req.Code, identity.UserID, req.SecurityCode)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, view)
}

type ChoiceRequest struct {
	QuestionID  uint `json:"question_id" binding:"required"`
	OptionIndex *int `json:"option_index" binding:"required"`
}

// Choice records (or clears, with a negative index) the caller's live
// answer for one question.
func (h *ParticipantHandler) Choice(c *gin.Context) {
	identity := identityFrom(c)
	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	var req ChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.voteService.RecordChoice(pollID, identity.UserID, req.QuestionID, *req.OptionIndex); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{"recorded": true})
}

type SubmitRequest struct {
	Answers []services.SubmittedAnswer `json:"answers" binding:"required"`
}

func (h *ParticipantHandler) Submit(c *gin.Context) {
	identity := identityFrom(c)
	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	result, err := h.submissionService.Submit(pollID, identity.UserID, req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, result)
}
