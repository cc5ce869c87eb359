package handlers

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"classroom-poll-backend/internal/models"
	"classroom-poll-backend/internal/services"
	"classroom-poll-backend/internal/ws"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsService      *services.StatsService
	submissionService *services.SubmissionService
	pollService       *services.PollService
	hub               *ws.Hub
}

func NewStatsHandler(statsService *services.StatsService, submissionService *services.SubmissionService, pollService *services.PollService, hub *ws.Hub) *StatsHandler {
	return &StatsHandler{
		statsService:      statsService,
		submissionService: submissionService,
		pollService:       pollService,
		hub:               hub,
	}
}

// GetStats returns live statistics for the owner and fans the same snapshot
// out to the poll's room so connected views refresh together.
func (h *StatsHandler) GetStats(c *gin.Context) {
	identity := identityFrom(c)
	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	if _, err := h.pollService.GetPoll(pollID, identity.UserID); err != nil {
		respondError(c, err)
		return
	}

	stats, err := h.statsService.GetStats(pollID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.BroadcastPollStats(pollID, stats)

	respondOK(c, http.StatusOK, stats)
}

var filenameUnsafe = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

func exportFilename(title string) string {
	sanitized := filenameUnsafe.ReplaceAllString(title, "_")
	timestamp := strings.ReplaceAll(time.Now().UTC().Format(time.RFC3339), ":", "-")
	return fmt.Sprintf("%s_%s.csv", sanitized, timestamp)
}

func (h *StatsHandler) ExportCSV(c *gin.Context) {
	identity := identityFrom(c)
	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	if _, err := h.pollService.GetPoll(pollID, identity.UserID); err != nil {
		respondError(c, err)
		return
	}

	export, err := h.statsService.GetExport(pollID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(export.Stats.Title)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", services.BuildStatsCSV(export))
}

// GetStudentHistory returns per-question feedback for each of the student's
// finalized submissions. Lecturers can look up any student; a student can
// only read their own history.
func (h *StatsHandler) GetStudentHistory(c *gin.Context) {
	identity := identityFrom(c)
	studentNumber := c.Param("studentNumber")

	if identity.Role != models.RoleLecturer && identity.StudentNumber != studentNumber {
		respondError(c, services.ErrNotFound)
		return
	}

	history, err := h.submissionService.GetStudentHistory(studentNumber)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, history)
}
