package port

import (
	"context"
	"errors"
)

// ErrUnknownIdentity is returned when an identity id resolves to nothing.
var ErrUnknownIdentity = errors.New("identity: unknown identity")

// Profile is the public projection of an identity owned by the profile
// subsystem. Address is the routable contact handle used to target pushes.
type Profile struct {
	ID          int64  `json:"id"`
	Address     string `json:"address"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar"`
}

// Directory resolves identity ids to profiles.
type Directory interface {
	Lookup(ctx context.Context, id int64) (Profile, error)
}

// Graph answers relationship questions owned by the social-graph subsystem.
type Graph interface {
	// MutualFollowers reports whether a and b follow each other.
	MutualFollowers(ctx context.Context, a, b int64) (bool, error)
}
