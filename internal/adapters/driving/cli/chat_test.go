package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestAskCommand_UsesPersistedMode(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.settings.Mode = domain.ChatModeRAG
	ts.chat.reply = "The report covers Q3."

	out, err := executeCommand("", "ask", "what", "is", "in", "the", "report?")
	require.NoError(t, err)

	assert.Equal(t, "user-a", ts.chat.gotUser)
	assert.Equal(t, domain.ChatModeRAG, ts.chat.gotMode)
	assert.Equal(t, "what is in the report?", ts.chat.gotInput)
	assert.Contains(t, out, "The report covers Q3.")
}

func TestAskCommand_ModeFlag(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.chat.reply = "hi"

	_, err := executeCommand("", "ask", "--mode", "rag", "hello")
	require.NoError(t, err)
	assert.Equal(t, domain.ChatModeRAG, ts.chat.gotMode)
	assert.Equal(t, domain.ChatModePlain, ts.settings.Mode(), "flag must not persist the mode")
}

func TestAskCommand_InvalidMode(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("", "ask", "-m", "search", "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidMode)
}

func TestAskCommand_EmptyMessage(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.chat.err = domain.ErrEmptyMessage

	_, err := executeCommand("", "ask", "   ")
	assert.EqualError(t, err, "message is empty")
}

func TestAskCommand_Raw(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.chat.reply = "**bold** answer"

	out, err := executeCommand("", "ask", "--raw", "hello")
	require.NoError(t, err)
	assert.Contains(t, out, "**bold** answer")
}

func TestResolveMode(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.settings.Mode = domain.ChatModeRAG

	mode, err := resolveMode("")
	require.NoError(t, err)
	assert.Equal(t, domain.ChatModeRAG, mode)

	mode, err = resolveMode("chat")
	require.NoError(t, err)
	assert.Equal(t, domain.ChatModePlain, mode)

	settingsService = nil
	mode, err = resolveMode("")
	require.NoError(t, err)
	assert.Equal(t, domain.ChatModePlain, mode)
}

func TestHistoryCommand_Empty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No messages yet.")
}

func TestHistoryCommand(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	at := time.Date(2026, 5, 1, 8, 15, 0, 0, time.UTC)
	ts.chat.history = []domain.Message{
		{ID: 1, UserID: "user-a", Text: "hello", Sender: domain.SenderUser, CreatedAt: at},
		{ID: 2, UserID: "user-a", Text: "hi there", Sender: domain.SenderBot, CreatedAt: at},
	}

	out, err := executeCommand("", "history")
	require.NoError(t, err)

	assert.Contains(t, out, "You [2026-05-01 08:15]:\nhello")
	assert.Contains(t, out, "Bot [2026-05-01 08:15]:\nhi there")
}

func TestHistoryClearCommand(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("", "history", "clear")
	require.NoError(t, err)

	assert.True(t, ts.chat.cleared)
	assert.Contains(t, out, "Chat history cleared.")
}

func TestHistoryClearCommand_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.chat.err = errors.New("locked")

	_, err := executeCommand("", "history", "clear")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to clear history")
}

func TestModeCommand_Show(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("", "mode")
	require.NoError(t, err)
	assert.Contains(t, out, "Mode: chat - Chat (direct answers)")
}

func TestModeCommand_Set(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("", "mode", "rag")
	require.NoError(t, err)

	assert.Equal(t, domain.ChatModeRAG, ts.settings.settings.Mode)
	assert.Contains(t, out, "Switched to Document Q&A")
}

func TestModeCommand_Invalid(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("", "mode", "both")
	require.Error(t, err)
	assert.Equal(t, domain.ChatModePlain, ts.settings.settings.Mode)
}
