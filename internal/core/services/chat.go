package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ChatService answers messages in plain or document-grounded mode and
// records both sides of the conversation.
type ChatService struct {
	retrieval driving.RetrievalService
	llm       driven.LLMService
	messages  driven.MessageStore
}

// NewChatService creates a chat service.
// retrieval and llm may be nil; missing generation yields the fallback reply.
func NewChatService(
	retrieval driving.RetrievalService,
	llm driven.LLMService,
	messages driven.MessageStore,
) *ChatService {
	return &ChatService{
		retrieval: retrieval,
		llm:       llm,
		messages:  messages,
	}
}

// Send records message, generates a reply and records the reply.
func (s *ChatService) Send(
	ctx context.Context,
	userID string,
	mode domain.ChatMode,
	message string,
) (string, error) {
	if userID == "" {
		return "", domain.ErrAuthRequired
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return "", domain.ErrEmptyMessage
	}
	if !mode.IsValid() {
		return "", domain.ErrInvalidMode
	}

	logger.Section("Chat")
	logger.Debug("Mode: %s", mode)

	if err := s.messages.Append(ctx, &domain.Message{
		UserID: userID,
		Text:   message,
		Sender: domain.SenderUser,
	}); err != nil {
		return "", fmt.Errorf("save message: %w", err)
	}

	prompt := message
	if mode == domain.ChatModeRAG {
		prompt = BuildRAGPrompt(s.retrieveContext(ctx, userID, message), message)
	}

	reply := s.generate(ctx, prompt)

	if err := s.messages.Append(ctx, &domain.Message{
		UserID: userID,
		Text:   reply,
		Sender: domain.SenderBot,
	}); err != nil {
		return "", fmt.Errorf("save reply: %w", err)
	}

	return reply, nil
}

// retrieveContext returns the chunks to ground message in. Retrieval
// failures degrade to no context.
func (s *ChatService) retrieveContext(ctx context.Context, userID, message string) []string {
	if s.retrieval == nil {
		return nil
	}
	chunks, err := s.retrieval.Retrieve(ctx, userID, message)
	if err != nil {
		logger.Warn("Retrieval failed, answering without context: %v", err)
		return nil
	}
	logger.Debug("Context chunks: %d", len(chunks))
	return chunks
}

// generate calls the LLM, substituting the fallback reply for any failure.
func (s *ChatService) generate(ctx context.Context, prompt string) string {
	if s.llm == nil {
		logger.Warn("%v", domain.ErrGenerationUnavailable)
		return domain.FallbackReply
	}

	defer logger.Timed("generate")()
	reply, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		logger.Warn("Generation failed: %v", err)
		return domain.FallbackReply
	}
	if strings.TrimSpace(reply) == "" {
		logger.Warn("Generation returned an empty reply")
		return domain.FallbackReply
	}
	return reply
}

// History returns the user's messages in order.
func (s *ChatService) History(ctx context.Context, userID string) ([]domain.Message, error) {
	if userID == "" {
		return nil, domain.ErrAuthRequired
	}
	return s.messages.List(ctx, userID)
}

// ClearHistory removes the user's messages.
func (s *ChatService) ClearHistory(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.ErrAuthRequired
	}
	return s.messages.Clear(ctx, userID)
}
