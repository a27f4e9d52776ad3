package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ChatService answers messages and keeps the conversation history.
type ChatService interface {
	// Send records the user's message, produces a reply in the given mode,
	// records the reply and returns it. Generation failures produce
	// domain.FallbackReply rather than an error.
	Send(ctx context.Context, userID string, mode domain.ChatMode, message string) (string, error)

	// History returns the user's messages in order.
	History(ctx context.Context, userID string) ([]domain.Message, error)

	// ClearHistory removes the user's messages.
	ClearHistory(ctx context.Context, userID string) error
}
