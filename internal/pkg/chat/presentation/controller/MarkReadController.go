package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"chatline/internal/auth"
	"chatline/internal/pkg/chat/application/usecase"
)

// MarkReadController handles the mark-conversation-read endpoint.
type MarkReadController struct {
	UC      *usecase.MarkReadUseCase
	Timeout time.Duration
}

func NewMarkReadController(uc *usecase.MarkReadUseCase, timeout time.Duration) *MarkReadController {
	return &MarkReadController{UC: uc, Timeout: timeout}
}

func (h *MarkReadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		conversationID, err := strconv.ParseInt(c.Param("conversationId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "conversationId must be numeric"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
		defer cancel()

		if err := h.UC.Execute(ctx, conversationID, userID); err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "Messages marked as read", nil)
	}
}
