package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"chatline/internal/auth"
	"chatline/internal/pkg/chat/application/usecase"
)

// GetConversationsController handles the conversation-inbox endpoint (one
// controller per endpoint).
type GetConversationsController struct {
	UC      *usecase.GetConversationsUseCase
	Timeout time.Duration
}

func NewGetConversationsController(uc *usecase.GetConversationsUseCase, timeout time.Duration) *GetConversationsController {
	return &GetConversationsController{UC: uc, Timeout: timeout}
}

func (h *GetConversationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		page, size := pageQuery(c, 20)

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
		defer cancel()

		data, err := h.UC.Execute(ctx, userID, page, size)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "Conversations retrieved successfully", data)
	}
}
