package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive chat",
	Long: `Launch the interactive terminal chat for the logged-in user.

Controls:
  Enter    - Send message / Select
  Ctrl+R   - Switch between chat and rag mode
  Ctrl+L   - Clear chat history
  PgUp/Dn  - Scroll the conversation
  d        - Delete the selected document
  Esc      - Back
  Ctrl+C   - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	// Bubbletea restores the terminal on panic; keep the stack for bug reports
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI crashed: %v", r)
		}
	}()

	app, err := newTUIApp()
	if err != nil {
		return err
	}
	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// newTUIApp builds the app from the installed services.
func newTUIApp() (*tui.App, error) {
	app, err := tui.NewApp(&tui.Ports{
		Auth:     authService,
		Chat:     chatService,
		Document: documentService,
		Settings: settingsService,
	})
	if errors.Is(err, domain.ErrAuthRequired) {
		return nil, errors.New("not logged in: run 'docchat login' first")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create TUI: %w", err)
	}
	return app, nil
}
