package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"chatline/internal/auth"
	"chatline/internal/pkg/chat/application/usecase"
)

// UnreadCountController handles the global unread-count endpoint.
type UnreadCountController struct {
	UC      *usecase.UnreadCountUseCase
	Timeout time.Duration
}

func NewUnreadCountController(uc *usecase.UnreadCountUseCase, timeout time.Duration) *UnreadCountController {
	return &UnreadCountController{UC: uc, Timeout: timeout}
}

func (h *UnreadCountController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
		defer cancel()

		count, err := h.UC.Execute(ctx, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "Unread count retrieved", count)
	}
}
