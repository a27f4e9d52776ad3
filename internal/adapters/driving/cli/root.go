// Package cli implements the docchat command tree with cobra.
//
// Commands talk to the core only through driving ports. main wires the
// concrete services in with SetServices before calling Execute.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

var verbose bool

var (
	authService      driving.AuthService
	chatService      driving.ChatService
	documentService  driving.DocumentService
	ingestionService driving.IngestionService
	retrievalService driving.RetrievalService
	settingsService  driving.SettingsService
	aiValidator      driven.AIConfigValidator
)

// Services holds everything the commands need.
type Services struct {
	Auth        driving.AuthService
	Chat        driving.ChatService
	Document    driving.DocumentService
	Ingestion   driving.IngestionService
	Retrieval   driving.RetrievalService
	Settings    driving.SettingsService
	AIValidator driven.AIConfigValidator
}

// SetServices installs the services used by all commands.
func SetServices(s Services) {
	authService = s.Auth
	chatService = s.Chat
	documentService = s.Document
	ingestionService = s.Ingestion
	retrievalService = s.Retrieval
	settingsService = s.Settings
	aiValidator = s.AIValidator
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your documents",
	Long: `docchat answers questions about the documents you upload.

Uploaded files are split into chunks and embedded. In "rag" mode each question
retrieves the most relevant chunks and the answer is grounded in them; in
"chat" mode questions go straight to the language model.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print diagnostic output to stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// currentUser returns the logged-in user's id.
func currentUser() (string, error) {
	if authService == nil {
		return "", errors.New("auth service not configured")
	}
	session, err := authService.Current()
	if err != nil {
		if errors.Is(err, domain.ErrAuthRequired) {
			return "", errors.New("not logged in: run 'docchat login' first")
		}
		return "", err
	}
	return session.UserID, nil
}
