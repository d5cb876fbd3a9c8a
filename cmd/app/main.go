// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"roast-panel-service/internal/config"
	"roast-panel-service/internal/domain/ports/adapter"
	"roast-panel-service/internal/domain/ports/repository"
	"roast-panel-service/internal/infra/adapters/completion"
	"roast-panel-service/internal/infra/adapters/hosting"
	"roast-panel-service/internal/infra/adapters/speech"
	"roast-panel-service/internal/infra/adapters/transcription"
	"roast-panel-service/internal/infra/api"
	pg "roast-panel-service/internal/infra/db/postgres"
	"roast-panel-service/internal/infra/logging"
	"roast-panel-service/internal/infra/metrics"
	red "roast-panel-service/internal/infra/redis"
	"roast-panel-service/internal/infra/sched"
	"roast-panel-service/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()

	// ---- Completion service ----
	azure, err := completion.NewAzureAdapter(cfg.Completion.Endpoint, cfg.Completion.APIKey, cfg.Completion.APIVersion)
	if err != nil {
		log.Fatalf("completion adapter: %v", err)
	}
	completionAdapter := completion.NewLimitedCompletion(azure, cfg.Completion.ConcurrentLimit)
	logger.Info().Str("endpoint", cfg.Completion.Endpoint).Int("concurrent_limit", cfg.Completion.ConcurrentLimit).Msg("completion adapter ready")

	// ---- Speech + hosting ----
	synth, err := speech.NewElevenLabsAdapter(cfg.Speech)
	if err != nil {
		log.Fatalf("speech adapter: %v", err)
	}
	host, err := hosting.NewCloudinaryAdapter(cfg.Hosting)
	if err != nil {
		log.Fatalf("hosting adapter: %v", err)
	}

	// ---- Transcription (OpenAI Whisper or Gemini) ----
	var transcriber adapter.Transcriber
	switch strings.ToLower(cfg.Transcription.Provider) {
	case "gemini":
		transcriber, err = transcription.NewGeminiAdapter(ctx, cfg.Transcription.GeminiKey, cfg.Transcription.Model, cfg.Transcription.ScratchDir)
		if err != nil {
			log.Fatalf("gemini transcriber: %v", err)
		}
		logger.Info().Str("model", cfg.Transcription.Model).Msg("transcription: Gemini")
	default:
		transcriber, err = transcription.NewWhisperAdapter(cfg.Transcription.OpenAIKey, cfg.Transcription.Model, cfg.Transcription.ScratchDir)
		if err != nil {
			log.Fatalf("whisper transcriber: %v", err)
		}
		logger.Info().Str("model", cfg.Transcription.Model).Msg("transcription: Whisper")
	}

	// ---- Transcript cache (optional redis) ----
	var cache repository.TranscriptCache = red.NewNoopTranscriptCache()
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
		cache = red.NewTranscriptCache(redisClient, cfg.Redis.TTL)
		logger.Info().Msg("transcript cache: redis")
	}

	// ---- Run history (optional postgres) ----
	runs := pg.NewNoopRunRepo()
	if cfg.Database.URL != "" {
		pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer pool.Close()
		runs = pg.NewRoastRunRepo(pool)
		logger.Info().Msg("run history: postgres")
	}

	// ---- Use case ----
	trimmer := usecase.NewPromptTrimmer(cfg.Completion.TokenizerModel, cfg.Completion.MaxPromptTokens)
	runner := usecase.NewGenerationRunner(completionAdapter, trimmer, cfg.Completion.PollInterval, logger)
	roastUC := usecase.NewRoastUseCase(
		cfg.Panel, runner, synth, host, transcriber, cache, runs,
		cfg.Completion.PersonaDeadline, logger,
	)
	logger.Info().Int("panel_size", len(cfg.Panel)).Msg("roast panel loaded")

	// ---- Artifact janitor ----
	janitor := sched.NewArtifactJanitor(cfg.Speech.OutputDir, cfg.Speech.RetainFor, time.Hour, logger)
	go func() { _ = janitor.Run(ctx) }()

	// ---- HTTP server ----
	auth := api.NewAuthManager(cfg.Server.JWTSecret, 30*time.Minute)
	srv := api.NewServer(roastUC, runs, auth, cfg.Server.AdminKey, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
}
