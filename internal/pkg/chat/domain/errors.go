package chat

import "errors"

// Failure taxonomy for the chat subsystem. Callers dispatch with errors.Is;
// wrapping adds detail without changing the kind.
var (
	// ErrValidation covers empty, oversized or otherwise malformed content.
	ErrValidation = errors.New("chat: invalid message")

	// ErrNotPermitted covers both the mutual-follow gate and conversation
	// membership checks. The message deliberately does not say which.
	ErrNotPermitted = errors.New("chat: not permitted")

	// ErrNotFound marks a missing conversation or identity.
	ErrNotFound = errors.New("chat: not found")

	// ErrDelivery marks a failed best-effort push. Logged, never returned to
	// the caller that triggered the push.
	ErrDelivery = errors.New("chat: delivery failed")
)
