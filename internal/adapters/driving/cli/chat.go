package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Ask a question",
	Long: `Send a message and print the reply.

In "chat" mode the message goes straight to the language model. In "rag" mode
the most relevant chunks of your documents are retrieved first and the answer
is based on them. The mode defaults to the one set with 'docchat mode'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show your chat history",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete your chat history",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

var modeCmd = &cobra.Command{
	Use:   "mode [chat|rag]",
	Short: "Show or set the chat mode",
	Long: `Show or set the chat mode used by 'docchat ask' and the TUI.

Available modes:
  chat - answer directly with the language model
  rag  - answer from your uploaded documents`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(domain.ChatModePlain), string(domain.ChatModeRAG)},
	RunE:      runMode,
}

var (
	askMode string
	askRaw  bool
)

func init() {
	askCmd.Flags().StringVarP(&askMode, "mode", "m", "", "chat mode for this message (chat|rag)")
	askCmd.Flags().BoolVar(&askRaw, "raw", false, "print the reply without markdown rendering")

	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(modeCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}
	userID, err := currentUser()
	if err != nil {
		return err
	}

	mode, err := resolveMode(askMode)
	if err != nil {
		return err
	}

	message := strings.Join(args, " ")
	reply, err := chatService.Send(context.Background(), userID, mode, message)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyMessage) {
			return errors.New("message is empty")
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	if askRaw {
		cmd.Println(reply)
		return nil
	}
	cmd.Println(renderMarkdown(cmd.OutOrStdout(), reply))
	return nil
}

// resolveMode returns the flag's mode, or the persisted one when the flag is empty.
func resolveMode(flag string) (domain.ChatMode, error) {
	if flag != "" {
		mode, err := domain.ParseChatMode(flag)
		if err != nil {
			return "", fmt.Errorf("%w: %q (use chat or rag)", err, flag)
		}
		return mode, nil
	}
	if settingsService == nil {
		return domain.ChatModePlain, nil
	}
	return settingsService.Mode(), nil
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}
	userID, err := currentUser()
	if err != nil {
		return err
	}

	messages, err := chatService.History(context.Background(), userID)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if len(messages) == 0 {
		cmd.Println("No messages yet.")
		return nil
	}

	for i := range messages {
		who := "You"
		if messages[i].Sender == domain.SenderBot {
			who = "Bot"
		}
		cmd.Printf("%s [%s]:\n%s\n\n", who, messages[i].CreatedAt.Format("2006-01-02 15:04"), messages[i].Text)
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}
	userID, err := currentUser()
	if err != nil {
		return err
	}

	if err := chatService.ClearHistory(context.Background(), userID); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	cmd.Println("Chat history cleared.")
	return nil
}

func runMode(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if len(args) == 0 {
		mode := settingsService.Mode()
		cmd.Printf("Mode: %s - %s\n", mode, mode.Description())
		return nil
	}

	mode, err := domain.ParseChatMode(args[0])
	if err != nil {
		return fmt.Errorf("%w: %q (use chat or rag)", err, args[0])
	}
	if err := settingsService.SetMode(mode); err != nil {
		return fmt.Errorf("failed to set mode: %w", err)
	}

	cmd.Printf("Switched to %s\n", mode.Description())
	return nil
}
