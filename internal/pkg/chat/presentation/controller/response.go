package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"chatline/internal/pkg/chat/application/usecase"
	chat "chatline/internal/pkg/chat/domain"
)

// apiResponse is the uniform HTTP envelope.
type apiResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func respondOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, apiResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

// respondError maps the failure taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, chat.ErrNotPermitted):
		status = http.StatusForbidden
	case errors.Is(err, chat.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, chat.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, usecase.ErrPersistence):
		status = http.StatusInternalServerError
	}
	c.JSON(status, apiResponse{
		Success:   false,
		Message:   err.Error(),
		Timestamp: time.Now().UTC(),
	})
}

// pageQuery parses page/size query params with defaults.
func pageQuery(c *gin.Context, defaultSize int) (int, int) {
	page := intQuery(c, "page", 0)
	size := intQuery(c, "size", defaultSize)
	return page, size
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v := c.Query(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
