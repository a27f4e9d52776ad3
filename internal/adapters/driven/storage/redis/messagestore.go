package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

var _ driven.MessageStore = (*messageStore)(nil)

type messageStore struct {
	store *Store
}

// storedMessage is the JSON form of a message in the user's list.
type storedMessage struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	CreatedAt time.Time `json:"created_at"`
}

func (m *messageStore) Append(ctx context.Context, msg *domain.Message) error {
	if !msg.Sender.IsValid() {
		return fmt.Errorf("%w: sender %q", domain.ErrInvalidInput, msg.Sender)
	}

	s := m.store
	id, err := s.client.Incr(ctx, s.seqKey("msg")).Result()
	if err != nil {
		return fmt.Errorf("allocating message id: %w", err)
	}

	now := time.Now().UTC()
	payload, err := json.Marshal(storedMessage{
		ID:        id,
		Text:      msg.Text,
		Sender:    string(msg.Sender),
		CreatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}

	if err := s.client.RPush(ctx, s.userMessagesKey(msg.UserID), payload).Err(); err != nil {
		return fmt.Errorf("saving message: %w", err)
	}

	msg.ID = id
	msg.CreatedAt = now
	return nil
}

func (m *messageStore) List(ctx context.Context, userID string) ([]domain.Message, error) {
	raw, err := m.store.client.LRange(ctx, m.store.userMessagesKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	msgs := make([]domain.Message, 0, len(raw))
	for _, item := range raw {
		var sm storedMessage
		if err := json.Unmarshal([]byte(item), &sm); err != nil {
			return nil, fmt.Errorf("decoding message: %w", err)
		}
		msgs = append(msgs, domain.Message{
			ID:        sm.ID,
			UserID:    userID,
			Text:      sm.Text,
			Sender:    domain.Sender(sm.Sender),
			CreatedAt: sm.CreatedAt,
		})
	}
	return msgs, nil
}

func (m *messageStore) Clear(ctx context.Context, userID string) error {
	if err := m.store.client.Del(ctx, m.store.userMessagesKey(userID)).Err(); err != nil {
		return fmt.Errorf("deleting messages: %w", err)
	}
	return nil
}
