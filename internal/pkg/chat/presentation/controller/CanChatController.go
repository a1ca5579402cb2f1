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

// CanChatController answers whether the current user may message another.
type CanChatController struct {
	UC      *usecase.CanChatUseCase
	Timeout time.Duration
}

func NewCanChatController(uc *usecase.CanChatUseCase, timeout time.Duration) *CanChatController {
	return &CanChatController{UC: uc, Timeout: timeout}
}

func (h *CanChatController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		otherID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId must be numeric"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
		defer cancel()

		canChat, err := h.UC.Execute(ctx, userID, otherID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "Chat permission check", canChat)
	}
}
