package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change docchat settings.

Settings live in config.toml in the docchat home directory (~/.docchat, or
$DOCCHAT_HOME). API keys fall back to GOOGLE_API_KEY, OPENAI_API_KEY,
ANTHROPIC_API_KEY and FIREBASE_API_KEY, which may also be set in a .env file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change a single setting, for example:
  docchat settings set embedding.provider ollama
  docchat settings set retrieval.top_k 5

Run 'docchat settings keys' for the full list.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check connectivity to the AI providers",
	Args:  cobra.NoArgs,
	RunE:  runSettingsValidate,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings := settingsService.Get()

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("Config file: %s\n\n", settingsService.ConfigPath())

	cmd.Println("[Chat]")
	cmd.Printf("  Mode: %s\n", settings.Mode.Description())
	cmd.Println()

	cmd.Println("[Embedding]")
	printProvider(cmd, settings.Embedding.Provider, settings.Embedding.Model,
		settings.Embedding.BaseURL, settings.Embedding.APIKey, settings.Embedding.IsConfigured())
	cmd.Printf("  Timeout: %ds\n", settings.Embedding.TimeoutSeconds)
	if settings.Embedding.RateLimit > 0 {
		cmd.Printf("  Rate limit: %g req/s\n", settings.Embedding.RateLimit)
	}
	cmd.Println()

	cmd.Println("[LLM]")
	printProvider(cmd, settings.LLM.Provider, settings.LLM.Model,
		settings.LLM.BaseURL, settings.LLM.APIKey, settings.LLM.IsConfigured())
	cmd.Printf("  Timeout: %ds\n", settings.LLM.TimeoutSeconds)
	cmd.Println()

	cmd.Println("[Identity]")
	cmd.Printf("  Provider: %s\n", settings.Identity.Provider)
	if settings.Identity.Provider == domain.IdentityFirebase {
		cmd.Printf("  API Key: %s\n", keyStatus(settings.Identity.APIKey))
	}
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend)
	if settings.Storage.Backend == domain.StorageRedis {
		cmd.Printf("  Redis: %s (db %d)\n", settings.Storage.RedisAddr, settings.Storage.RedisDB)
	}
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Top K: %d\n", settings.Retrieval.TopK)
	cmd.Printf("  Chunk size: %d characters\n", settings.Retrieval.ChunkSize)
	cmd.Printf("  Ingest workers: %d\n", settings.Ingest.Workers)

	return nil
}

func printProvider(cmd *cobra.Command, provider domain.AIProvider, model, baseURL, apiKey string, configured bool) {
	cmd.Printf("  Provider: %s\n", provider.Description())
	cmd.Printf("  Model: %s\n", model)
	if baseURL != "" {
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
	if provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", keyStatus(apiKey))
	}
	status := "configured"
	if !configured {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
}

func keyStatus(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s\n", key)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func runSettingsValidate(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if aiValidator == nil {
		return errors.New("validator not configured")
	}

	settings := settingsService.Get()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var failed bool

	cmd.Printf("Embedding (%s)... ", settings.Embedding.Provider)
	if !settings.Embedding.IsConfigured() {
		cmd.Println("not configured")
		failed = true
	} else if err := aiValidator.ValidateEmbedding(ctx, &settings.Embedding); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		failed = true
	} else {
		cmd.Println("OK")
	}

	cmd.Printf("LLM (%s)... ", settings.LLM.Provider)
	if !settings.LLM.IsConfigured() {
		cmd.Println("not configured")
		failed = true
	} else if err := aiValidator.ValidateLLM(ctx, &settings.LLM); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		failed = true
	} else {
		cmd.Println("OK")
	}

	if failed {
		return errors.New("configuration validation failed")
	}
	return nil
}
