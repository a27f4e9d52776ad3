package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSender_IsValid(t *testing.T) {
	assert.True(t, SenderUser.IsValid())
	assert.True(t, SenderBot.IsValid())
	assert.False(t, Sender("system").IsValid())
	assert.Equal(t, "bot", SenderBot.String())
}

func TestParseChatMode(t *testing.T) {
	tests := []struct {
		input   string
		want    ChatMode
		wantErr bool
	}{
		{"chat", ChatModePlain, false},
		{"rag", ChatModeRAG, false},
		{"RAG", "", true},
		{"", "", true},
		{"search", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseChatMode(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidMode)
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChatMode_Description(t *testing.T) {
	assert.Contains(t, ChatModeRAG.Description(), "Document Q&A")
	assert.Contains(t, ChatModePlain.Description(), "Chat")
	assert.Equal(t, "Unknown", ChatMode("x").Description())
}

func TestSession_IsAuthenticated(t *testing.T) {
	assert.False(t, Session{}.IsAuthenticated())
	assert.True(t, Session{UserID: "abc"}.IsAuthenticated())
}
