// Command curricula builds and queries the curriculum vector corpus.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/curricula/internal/adapters/driven/ai"
	"github.com/custodia-labs/curricula/internal/adapters/driven/config/file"
	"github.com/custodia-labs/curricula/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/curricula/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/curricula/internal/adapters/driven/vector/chromem"
	"github.com/custodia-labs/curricula/internal/adapters/driving/cli"
	"github.com/custodia-labs/curricula/internal/core/domain"
	"github.com/custodia-labs/curricula/internal/core/ports/driven"
	"github.com/custodia-labs/curricula/internal/core/services"
	"github.com/custodia-labs/curricula/internal/logger"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	if os.Getenv("CURRICULA_VERBOSE") != "" {
		logger.SetVerbose(true)
	}

	home, err := appHome()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// CURRICULA_EPHEMERAL keeps config, run history and vectors in memory
	// and leaves the home directory untouched apart from prompts.
	ephemeral := os.Getenv("CURRICULA_EPHEMERAL") != ""

	var configStore driven.ConfigStore = memory.NewConfigStore()
	if !ephemeral {
		fileStore, err := file.NewConfigStore(home)
		if err != nil {
			return fmt.Errorf("open config: %w", err)
		}
		configStore = fileStore
	}
	prompts, err := file.NewPromptStore(filepath.Join(home, "prompts"))
	if err != nil {
		return fmt.Errorf("open prompts: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, home)

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if ephemeral {
		settings.Vector.Path = ""
	}

	// Without the database, history lasts for this process only.
	var runs driven.RunStore = memory.NewRunStore()
	if !ephemeral {
		db, err := sqlite.NewStore(filepath.Join(home, "data"))
		if err != nil {
			logger.Warn("run history kept in memory: %v", err)
		} else {
			defer db.Close()
			runs = db.RunStore()
		}
	}

	var vectors driven.VectorStore
	store, err := chromem.New(settings.Vector.Path, settings.Vector.Collection, settings.Vector.Compress)
	if err != nil {
		logger.Warn("%v: %v", domain.ErrVectorStoreUnavailable, err)
	} else {
		defer store.Close()
		vectors = store
	}

	aiServices := ai.Initialise(ctx, settings)
	defer aiServices.Close()

	ingestService := services.NewIngestService(aiServices.EmbeddingService, vectors, runs, nil, settings.Chunking)
	ingestService.SetPromptStore(prompts)
	if aiServices.LLMService != nil {
		ingestService.SetLLMService(aiServices.LLMService)
	}

	searchService := services.NewSearchService(aiServices.EmbeddingService, vectors, *settings)
	if aiServices.LLMService != nil {
		searchService.SetLLMService(aiServices.LLMService)
	}
	searchService.SetRunStore(runs)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Ingest:   ingestService,
		Search:   searchService,
		Settings: settingsService,
		Check:    checkProviders,
	})

	return cli.Execute(ctx)
}

// appHome returns CURRICULA_HOME or ~/.curricula.
func appHome() (string, error) {
	if home := os.Getenv("CURRICULA_HOME"); home != "" {
		return home, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(userHome, ".curricula"), nil
}

func checkProviders(ctx context.Context, settings *domain.AppSettings) (embedding, llm error) {
	embedding = ai.ValidateEmbeddingConfig(ctx, &settings.Embedding)
	if settings.LLM.Provider != "" {
		llm = ai.ValidateLLMConfig(ctx, &settings.LLM)
	}
	return embedding, llm
}
