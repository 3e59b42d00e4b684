// Command asked is the AskEd CLI: a retrieval pipeline over UK childcare
// compliance documents, exposed as a command line and an MCP server.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/earlyed-hq/asked/internal/adapters/driven/embedding/ollama"
	"github.com/earlyed-hq/asked/internal/adapters/driven/embedding/openai"
	"github.com/earlyed-hq/asked/internal/adapters/driven/store/memory"
	"github.com/earlyed-hq/asked/internal/adapters/driven/store/sqlite"
	"github.com/earlyed-hq/asked/internal/adapters/driving/cli"
	"github.com/earlyed-hq/asked/internal/cache"
	"github.com/earlyed-hq/asked/internal/config"
	"github.com/earlyed-hq/asked/internal/core/ports/driven"
	"github.com/earlyed-hq/asked/internal/core/services"
	"github.com/earlyed-hq/asked/internal/knowledge"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

// documentStore aggregates the store-side ports one backend provides.
type documentStore interface {
	driven.VectorSearcher
	driven.KeywordSearcher
	driven.SubstringSearcher
	driven.ChunkWriter
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine; real environment variables still apply.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("ASKED_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	embedder, err := newEmbedder(cfg.Embedding)
	if err != nil {
		return err
	}
	defer embedder.Close()

	store, closeStore, err := newStore(cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	caches := cache.NewService(secondsOr(cfg.Cache.SweepIntervalSeconds, cache.DefaultSweepInterval))
	caches.Start()
	defer caches.Stop()

	retrieval := services.NewRetrievalService(
		embedder, store, store, store, caches, retrievalConfig(cfg))

	contextService := services.NewContextService(
		services.NewScopeDetector(),
		services.NewQueryEnhancer(),
		retrieval,
		services.NewScorer(services.DefaultBands()),
		services.NewAssembler(services.DefaultAssemblerConfig()),
		knowledge.NewMatcher(),
		caches,
		contextConfig(cfg),
	)

	loader := services.NewLoaderService(embedder, store)

	cli.SetVersion(version)
	cli.SetServices(contextService, loader)
	return cli.Execute()
}

func newEmbedder(cfg config.EmbeddingConfig) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		}), nil
	default:
		svc, err := openai.NewEmbeddingService(openai.Config{
			APIKey:            cfg.APIKey,
			BaseURL:           cfg.BaseURL,
			Model:             cfg.Model,
			Dimensions:        cfg.Dimensions,
			RequestsPerMinute: cfg.RequestsPerMinute,
		})
		if err != nil {
			return nil, fmt.Errorf("init openai embedder: %w", err)
		}
		return svc, nil
	}
}

func newStore(cfg config.StoreConfig) (documentStore, func() error, error) {
	if cfg.Driver == "memory" {
		return memory.NewStore(), func() error { return nil }, nil
	}

	store, err := sqlite.Open(cfg.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return store, store.Close, nil
}

func retrievalConfig(cfg config.Config) services.RetrievalConfig {
	rcfg := services.DefaultRetrievalConfig()
	rcfg.MatchCount = cfg.Retrieval.MatchCount
	rcfg.DefaultThreshold = cfg.Retrieval.DefaultThreshold
	rcfg.RecallThreshold = cfg.Retrieval.RecallThreshold
	rcfg.PrecisionThreshold = cfg.Retrieval.PrecisionThreshold
	rcfg.RelaxedThreshold = cfg.Retrieval.RelaxedThreshold
	rcfg.MaxVariationRetries = cfg.Retrieval.MaxVariationRetries
	rcfg.EmbeddingTTL = secondsOr(cfg.Cache.EmbeddingTTLSeconds, rcfg.EmbeddingTTL)
	rcfg.ResultsTTL = secondsOr(cfg.Cache.ResultsTTLSeconds, rcfg.ResultsTTL)
	return rcfg
}

func contextConfig(cfg config.Config) services.ContextConfig {
	ccfg := services.DefaultContextConfig()
	ccfg.OffTopicTTL = secondsOr(cfg.Cache.OffTopicTTLSeconds, ccfg.OffTopicTTL)
	ccfg.EmptyTTL = secondsOr(cfg.Cache.EmptyTTLSeconds, ccfg.EmptyTTL)
	ccfg.HighConfidenceTTL = secondsOr(cfg.Cache.HighConfidenceTTLSeconds, ccfg.HighConfidenceTTL)
	ccfg.LowConfidenceTTL = secondsOr(cfg.Cache.LowConfidenceTTLSeconds, ccfg.LowConfidenceTTL)
	return ccfg
}

func secondsOr(seconds int, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
