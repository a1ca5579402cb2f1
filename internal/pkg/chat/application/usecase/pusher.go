package usecase

// Pusher delivers a payload on a topic to every live session registered
// under an identity address, reporting how many sessions accepted it. Zero
// is valid: the identity is offline.
type Pusher interface {
	Push(address string, topic string, payload any) int
}
