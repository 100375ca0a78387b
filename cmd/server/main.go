// Package main provides the giftwise HTTP server entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm/logger"

	"github.com/giftwise/giftwise/internal/cache"
	"github.com/giftwise/giftwise/internal/clients/openai"
	"github.com/giftwise/giftwise/internal/config"
	"github.com/giftwise/giftwise/internal/db"
	gormstore "github.com/giftwise/giftwise/internal/db/gorm"
	"github.com/giftwise/giftwise/internal/db/memory"
	"github.com/giftwise/giftwise/internal/recommend"
	"github.com/giftwise/giftwise/internal/server"
	"github.com/giftwise/giftwise/internal/tagging"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "Path to settings file (YAML)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	setupLogging(cfg.LogLevel, *debug)

	store, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("Failed to initialize store")
	}
	log.Info().Str("backend", cfg.StoreBackend).Msg("Store initialized")

	var simCache *cache.SimilarityCache
	if cfg.RedisAddr != "" {
		simCache = cache.New(cfg.RedisAddr, cfg.CacheTTL.Std())
		log.Info().Str("addr", cfg.RedisAddr).Msg("Similarity cache enabled")
	}

	content := recommend.NewContentScorer(store, cfg.ScoringWeights)
	collaborative := recommend.NewCollaborativeScorer(store, simCache)
	adjuster := recommend.NewAdjuster(store)

	deps := server.Deps{
		Store:         store,
		Content:       content,
		Collaborative: collaborative,
		Adjuster:      adjuster,
	}

	// The AI scorer and auto-tagger only exist when an LLM key is
	// configured; the hybrid blender degrades without them.
	var ai recommend.Scorer
	if cfg.AIEnabled() {
		llm, err := openai.New(openai.Config{
			BaseURL: cfg.OpenAIBaseURL,
			APIKey:  cfg.OpenAIKey,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.AITimeout.Std(),
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize OpenAI client")
		}
		aiScorer := recommend.NewAIScorer(store, llm)
		deps.AI = aiScorer
		deps.Tagger = tagging.New(store, llm)
		ai = aiScorer
		log.Info().Str("model", llm.Model()).Msg("AI scoring enabled")
	} else {
		log.Info().Msg("No OpenAI key configured, AI scoring disabled")
	}
	deps.Hybrid = recommend.NewHybridScorer(ai, content, collaborative, adjuster)

	svc, err := server.NewService(cfg, deps, Version)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize service")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Port).Str("version", Version).Msg("Starting giftwise server")
		errCh <- svc.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := svc.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown error")
	}
	if simCache != nil {
		if err := simCache.Close(); err != nil {
			log.Warn().Err(err).Msg("Cache close error")
		}
	}
}

func setupLogging(level string, debug bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	if debug {
		parsed = zerolog.DebugLevel
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	zerolog.SetGlobalLevel(parsed)
}

func openStore(cfg *config.Config) (db.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		return gormstore.NewStore(gormstore.Config{
			DSN:      cfg.DatabaseDSN,
			MaxConns: cfg.MaxConns,
			LogLevel: logger.Silent,
		})
	default:
		return memory.NewStore(), nil
	}
}
