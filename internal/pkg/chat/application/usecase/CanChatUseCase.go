package usecase

import (
	"context"
	"fmt"

	identity "chatline/internal/pkg/identity/port"
)

// CanChatUseCase answers whether two identities may message each other.
// Pure query against the social-graph collaborator, no side effects.
type CanChatUseCase struct {
	Graph identity.Graph
}

func NewCanChatUseCase(graph identity.Graph) *CanChatUseCase {
	return &CanChatUseCase{Graph: graph}
}

func (uc *CanChatUseCase) Execute(ctx context.Context, idA, idB int64) (bool, error) {
	ok, err := uc.Graph.MutualFollowers(ctx, idA, idB)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return ok, nil
}
