package domain

import "time"

// Sender identifies who wrote a chat message.
type Sender string

// Message senders.
const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// IsValid returns true if the sender is recognised.
func (s Sender) IsValid() bool {
	return s == SenderUser || s == SenderBot
}

// String returns the string representation.
func (s Sender) String() string {
	return string(s)
}

// Message is one entry in a user's chat history.
// History is append-only and is removed only by an explicit clear.
type Message struct {
	ID        int64
	UserID    string
	Text      string
	Sender    Sender
	CreatedAt time.Time
}

// FallbackReply is returned to the user whenever generation fails.
const FallbackReply = "Sorry, I couldn't process your request right now."

// ChatMode selects whether a message is answered directly or grounded in
// the user's documents.
type ChatMode string

// Available chat modes.
const (
	// ChatModePlain sends the raw message to the generation service.
	ChatModePlain ChatMode = "chat"

	// ChatModeRAG retrieves relevant chunks and answers from them.
	ChatModeRAG ChatMode = "rag"
)

// ParseChatMode parses a mode name, returning ErrInvalidMode for unknown names.
func ParseChatMode(s string) (ChatMode, error) {
	m := ChatMode(s)
	if !m.IsValid() {
		return "", ErrInvalidMode
	}
	return m, nil
}

// IsValid returns true if the chat mode is recognised.
func (m ChatMode) IsValid() bool {
	return m == ChatModePlain || m == ChatModeRAG
}

// String returns the string representation.
func (m ChatMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m ChatMode) Description() string {
	switch m {
	case ChatModePlain:
		return "Chat (direct answers)"
	case ChatModeRAG:
		return "Document Q&A (answers grounded in your uploads)"
	default:
		return unknownDescription
	}
}
