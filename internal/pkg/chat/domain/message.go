package chat

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxContentRunes bounds a message body. Counted in runes, not bytes.
const MaxContentRunes = 5000

// Message is an immutable chat line; only ReadStatus ever changes, and only
// from false to true.
type Message struct {
	ID             int64     `json:"id"`
	SenderID       int64     `json:"senderId"`
	ReceiverID     int64     `json:"receiverId"`
	ConversationID int64     `json:"conversationId"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
	ReadStatus     bool      `json:"readStatus"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ValidateContent trims the body and enforces the length bounds, returning
// the cleaned content.
func ValidateContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", fmt.Errorf("%w: content must not be empty", ErrValidation)
	}
	if n := utf8.RuneCountInString(trimmed); n > MaxContentRunes {
		return "", fmt.Errorf("%w: content exceeds %d characters (%d)", ErrValidation, MaxContentRunes, n)
	}
	return trimmed, nil
}
