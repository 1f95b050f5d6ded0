package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prepdeck/backend/internal/api"
	"github.com/prepdeck/backend/internal/domain/interview"
	"github.com/prepdeck/backend/internal/infrastructure/config"
	"github.com/prepdeck/backend/internal/metrics"
	"github.com/prepdeck/backend/internal/provider"
	"github.com/prepdeck/backend/internal/service"
	"github.com/prepdeck/backend/internal/store"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.NewSQLite(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	m := metrics.New()

	// Provider chain: limiter → retry → telemetry → OpenAI client.
	llm, err := provider.NewOpenAI(provider.OpenAIConfig{
		APIKey:  cfg.ProviderAPIKey,
		Model:   cfg.ProviderModel,
		BaseURL: cfg.ProviderBaseURL,
	})
	if err != nil {
		logger.Error("failed to configure provider", "error", err)
		os.Exit(1)
	}
	wrapped := provider.WithTelemetry(llm, logger, m)
	wrapped = provider.WithRetry(wrapped, provider.RetryConfig{
		MaxAttempts: cfg.ProviderMaxAttempts,
		InitialWait: cfg.ProviderBackoffBase,
		MaxWait:     10 * cfg.ProviderBackoffBase,
		Multiplier:  2.0,
	})
	wrapped = provider.WithLimiter(wrapped, provider.LimiterConfig{
		MaxConcurrent: cfg.ProviderMaxConcurrent,
		FailFast:      cfg.ProviderFailFast,
	})

	questionSvc := service.NewQuestionService(wrapped, db, m, logger, service.GenerationConfig{
		MaxRegenRounds: cfg.MaxRegenRounds,
		CallTimeout:    cfg.ProviderTimeout,
		MaxTokens:      service.DefaultGenerationConfig().MaxTokens,
		Temperature:    service.DefaultGenerationConfig().Temperature,
	})
	orchestrator := service.NewOrchestrator(db, questionSvc, m, logger, service.OrchestratorConfig{
		LockWait: cfg.SessionLockTimeout,
	})
	handler := api.NewHandler(orchestrator, questionSvc, m, logger)

	// ── Prewarming ──────────────────────────────────────────────────
	prewarmCtx, cancelPrewarm := context.WithCancel(context.Background())
	defer cancelPrewarm()

	var prewarmer *service.Prewarmer
	if cfg.InterviewProfile != "" {
		profile, err := config.LoadProfile(cfg.InterviewProfile)
		if err != nil {
			logger.Error("failed to load interview profile", "error", err)
			os.Exit(1)
		}
		prewarmer = service.NewPrewarmer(prewarmCtx, questionSvc, db, logger, 2)
		prewarmer.Warm(prewarmSpecs(profile, logger))
	}

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(mux))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		if prewarmer != nil {
			prewarmer.Stop()
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress, "model", llm.ModelID())
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}

// prewarmSpecs converts profile entries, skipping ones that fail
// category or difficulty parsing so a bad entry cannot take the server
// down after startup validation.
func prewarmSpecs(profile *config.Profile, logger *slog.Logger) []service.PrewarmSpec {
	specs := make([]service.PrewarmSpec, 0, len(profile.Prewarm))
	for _, entry := range profile.Prewarm {
		category, err := interview.ParseCategory(entry.Category)
		if err != nil {
			logger.Warn("skipping prewarm entry", "error", err)
			continue
		}
		difficulty, err := interview.ParseDifficulty(entry.Difficulty)
		if err != nil {
			logger.Warn("skipping prewarm entry", "error", err)
			continue
		}
		specs = append(specs, service.PrewarmSpec{
			Role:       entry.Role,
			Category:   category,
			Difficulty: difficulty,
			Count:      entry.Count,
		})
	}
	return specs
}
