package memory

import (
	"context"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// ==================== Message Store ====================

// Ensure messageStore implements the interface.
var _ driven.MessageStore = (*messageStore)(nil)

type messageStore struct {
	store *Store
}

func (m *messageStore) Append(_ context.Context, msg *domain.Message) error {
	if !msg.Sender.IsValid() {
		return domain.ErrInvalidInput
	}

	s := m.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextMsgID++
	msg.ID = s.nextMsgID
	msg.CreatedAt = time.Now()
	s.messages = append(s.messages, *msg)
	return nil
}

func (m *messageStore) List(_ context.Context, userID string) ([]domain.Message, error) {
	s := m.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Message, 0)
	for _, msg := range s.messages {
		if msg.UserID == userID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *messageStore) Clear(_ context.Context, userID string) error {
	s := m.store
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.messages[:0]
	for _, msg := range s.messages {
		if msg.UserID != userID {
			kept = append(kept, msg)
		}
	}
	s.messages = kept
	return nil
}
