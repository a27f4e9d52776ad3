package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// MessageStore persists the append-only chat history.
type MessageStore interface {
	// Append persists msg and assigns its ID and CreatedAt.
	Append(ctx context.Context, msg *domain.Message) error

	// List returns the user's messages in append order.
	List(ctx context.Context, userID string) ([]domain.Message, error)

	// Clear removes all of the user's messages.
	Clear(ctx context.Context, userID string) error
}
