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

// GetMessagesController handles fetching a conversation's messages.
type GetMessagesController struct {
	UC      *usecase.GetMessagesUseCase
	Timeout time.Duration
}

func NewGetMessagesController(uc *usecase.GetMessagesUseCase, timeout time.Duration) *GetMessagesController {
	return &GetMessagesController{UC: uc, Timeout: timeout}
}

func (h *GetMessagesController) Handle() gin.HandlerFunc {
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
		page, size := pageQuery(c, 50)

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
		defer cancel()

		data, err := h.UC.Execute(ctx, conversationID, userID, page, size)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "Messages retrieved successfully", data)
	}
}
