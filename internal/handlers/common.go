package handlers

import (
	"errors"
	"log"
	"net/http"

	"classroom-poll-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrNotFoundOrForbidden):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrInvalidSecurityCode):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, services.ErrAlreadyExists):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, services.ErrQuestionsLocked):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, services.ErrUnauthenticated):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, services.ErrNotJoinable),
		errors.Is(err, services.ErrNotAcceptingSubmissions),
		errors.Is(err, services.ErrInvalidQuestion),
		errors.Is(err, services.ErrInvalidOption),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrBadInput):
		status, message = http.StatusBadRequest, err.Error()
	default:
		log.Printf("internal error: %v", err)
	}

	c.JSON(status, Response{Success: false, Error: message})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: message})
}

func identityFrom(c *gin.Context) *services.Identity {
	identity, _ := c.Get("identity")
	return identity.(*services.Identity)
}
