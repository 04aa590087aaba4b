package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/talentdex/ormgen/internal/config"
	"github.com/talentdex/ormgen/internal/db"
	dbRedis "github.com/talentdex/ormgen/internal/db/redis"
	"github.com/talentdex/ormgen/internal/domain"
	logpkg "github.com/talentdex/ormgen/internal/logger"
	"github.com/talentdex/ormgen/internal/metrics"
	budgetrepo "github.com/talentdex/ormgen/internal/repository/budget"
	"github.com/talentdex/ormgen/internal/repository/gencache"
	chiTransport "github.com/talentdex/ormgen/internal/transport/chi"
	openaiGen "github.com/talentdex/ormgen/internal/transport/openai"
	generationuc "github.com/talentdex/ormgen/internal/usecase/generation"
	healthuc "github.com/talentdex/ormgen/internal/usecase/health"
	usageuc "github.com/talentdex/ormgen/internal/usecase/usage"
	"github.com/talentdex/ormgen/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting ormgen API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("model", cfg.Model.Name),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// Create database store
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register generation metrics explicitly (no init())
	metrics.RegisterGenerationMetrics()

	// Single BudgetTracker shared between the generator chain and usage service.
	var budget *generationuc.BudgetTracker
	budgetCfg := cfg.Model.Budget
	if budgetCfg.DailyTokenLimit > 0 || budgetCfg.MonthlyTokenLimit > 0 {
		action := generationuc.BudgetActionWarn
		if budgetCfg.Action == "reject" {
			action = generationuc.BudgetActionReject
		}
		budget = generationuc.NewBudgetTracker(
			budgetCfg.DailyTokenLimit, budgetCfg.MonthlyTokenLimit, action, logger,
		)
		// Connect persistence store — loads current counters from DB.
		budgetStore := budgetrepo.New(store, 48*time.Hour, 62*24*time.Hour)
		budget.WithStore(ctx, budgetStore)
	}

	// Pass nil interface (not typed nil pointer!) if budget is not configured.
	// Go gotcha: (*BudgetTracker)(nil) wrapped in BudgetChecker != nil.
	var budgetChecker generationuc.BudgetChecker
	if budget != nil {
		budgetChecker = budget
	}

	generator := buildGenerator(cfg, store, budgetChecker, logger)
	logger.Info("Generator created",
		zap.String("model", cfg.Model.Name),
		zap.Bool("cache_enabled", !cfg.Cache.Disabled),
	)

	// Create use case services
	genSvc := generationuc.New(generator)

	// Usage service — reads from shared BudgetTracker
	var budgetReader usageuc.BudgetReader
	if budget != nil {
		budgetReader = budget
	}
	usageSvc := usageuc.New(budgetReader)

	// Health service
	healthSvc := healthuc.New(store, newModelHealthChecker(generator))

	// Create chi server
	server := chiTransport.NewServer(genSvc, usageSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.SecretAuthMiddleware(cfg.Auth.BackendSecrets))
	r.Use(chiTransport.RateLimitMiddleware(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// modelHealthChecker wraps domain.Generator to implement health.ModelChecker.
type modelHealthChecker struct {
	gen domain.Generator
}

func newModelHealthChecker(gen domain.Generator) *modelHealthChecker {
	return &modelHealthChecker{gen: gen}
}

func (h *modelHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.gen.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("model health check: %w", err)
		}
	}
	return nil
}

// buildGenerator assembles the decorator chain: OpenAI -> Cached -> Instrumented
func buildGenerator(
	cfg config.Config,
	store db.Store,
	budget generationuc.BudgetChecker,
	logger *zap.Logger,
) domain.Generator {
	// Base provider (with transport metrics built-in)
	base := openaiGen.NewGenerator(&openaiGen.Config{
		APIKey:      cfg.Model.APIKey,
		BaseURL:     cfg.Model.BaseURL,
		Model:       cfg.Model.Name,
		MaxTokens:   cfg.Model.MaxTokens,
		Temperature: cfg.Model.Temperature,
		Logger:      logger,
	})

	// Cached
	var generator domain.Generator = base
	if store != nil && !cfg.Cache.Disabled {
		ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
		generator = gencache.New(base, store, cfg.Model.Name, ttl, metrics.GenerationCacheTotal, logger)
	}

	// Instrumented (budget + metrics)
	return generationuc.NewInstrumentedGenerator(generator, cfg.Model.Name, budget, logger)
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
