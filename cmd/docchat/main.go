// Command docchat is a terminal assistant that answers questions about your documents.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/docchat/internal/adapters/driven/ai"
	"github.com/custodia-labs/docchat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docchat/internal/adapters/driven/identity/firebase"
	"github.com/custodia-labs/docchat/internal/adapters/driven/identity/local"
	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/redis"
	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docchat/internal/adapters/driving/cli"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/services"
	"github.com/custodia-labs/docchat/internal/logger"
	"github.com/custodia-labs/docchat/internal/normalisers"
	"github.com/custodia-labs/docchat/internal/postprocessors/chunker"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// storage is what every backend exposes.
type storage interface {
	DocumentStore() driven.DocumentStore
	VectorStore() driven.VectorStore
	MessageStore() driven.MessageStore
	Close() error
}

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal; keys may come from the environment or config.toml.
	_ = godotenv.Load()

	home, err := file.HomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: resolving home directory: %v\n", err)
		return err
	}

	configStore, err := file.NewConfigStore(home)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening config: %v\n", err)
		return err
	}
	settingsService := services.NewSettingsService(configStore)
	settings := settingsService.Get()

	ctx := context.Background()

	store, err := openStorage(ctx, home, settings.Storage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	defer store.Close() //nolint:errcheck // process is exiting

	identity, err := openIdentity(home, settings.Identity)
	if err != nil {
		// Commands that need no login still work; auth reports the problem.
		logger.Warn("identity provider disabled: %v", err)
	}

	aiServices := ai.Init(ctx, settings)
	defer aiServices.Close()

	retrieval := services.NewRetrievalService(
		aiServices.EmbeddingService,
		store.VectorStore(),
		settings.Retrieval.TopK,
	)
	ingestion := services.NewIngestionService(
		normalisers.NewDefaultRegistry(),
		store.DocumentStore(),
		store.VectorStore(),
		aiServices.EmbeddingService,
		chunker.New(chunker.WithChunkSize(settings.Retrieval.ChunkSize)),
		settings.Ingest.Workers,
	)

	cli.SetServices(cli.Services{
		Auth:        services.NewAuthService(identity, configStore),
		Chat:        services.NewChatService(retrieval, aiServices.LLMService, store.MessageStore()),
		Document:    services.NewDocumentService(store.DocumentStore(), store.VectorStore()),
		Ingestion:   ingestion,
		Retrieval:   retrieval,
		Settings:    settingsService,
		AIValidator: ai.NewConfigValidator(),
	})
	cli.SetVersion(version)

	return cli.Execute()
}

func openStorage(ctx context.Context, home string, cfg domain.StorageSettings) (storage, error) {
	switch cfg.Backend {
	case domain.StorageMemory:
		return memory.NewStore(), nil
	case domain.StorageRedis:
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return redis.NewStore(ctx, redis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	default:
		return sqlite.NewStore(filepath.Join(home, "data"))
	}
}

func openIdentity(home string, cfg domain.IdentitySettings) (driven.IdentityProvider, error) {
	if cfg.Provider == domain.IdentityLocal {
		provider, err := local.NewProvider(filepath.Join(home, "users.json"))
		if err != nil {
			return nil, err
		}
		return provider, nil
	}

	provider, err := firebase.NewProvider(firebase.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Timeout: time.Duration(domain.DefaultIdentityTimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, err
	}
	return provider, nil
}
