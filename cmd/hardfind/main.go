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

	"github.com/mattsmit4/hardfind/internal/config"
	"github.com/mattsmit4/hardfind/internal/db"
	dbRedis "github.com/mattsmit4/hardfind/internal/db/redis"
	"github.com/mattsmit4/hardfind/internal/domain"
	logpkg "github.com/mattsmit4/hardfind/internal/logger"
	"github.com/mattsmit4/hardfind/internal/metrics"
	budgetrepo "github.com/mattsmit4/hardfind/internal/repository/budget"
	catalogrepo "github.com/mattsmit4/hardfind/internal/repository/catalog"
	"github.com/mattsmit4/hardfind/internal/repository/embcache"
	chiTransport "github.com/mattsmit4/hardfind/internal/transport/chi"
	openaiEmb "github.com/mattsmit4/hardfind/internal/transport/openai"
	"github.com/mattsmit4/hardfind/internal/usecase/cascade"
	embeddinguc "github.com/mattsmit4/hardfind/internal/usecase/embedding"
	"github.com/mattsmit4/hardfind/internal/usecase/extract"
	healthuc "github.com/mattsmit4/hardfind/internal/usecase/health"
	itemuc "github.com/mattsmit4/hardfind/internal/usecase/item"
	"github.com/mattsmit4/hardfind/internal/version"
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

	logger.Info("Starting hardfind API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

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

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	// Build the embedder decorator chain.
	// Take the first vectorizer config; none configured means keyword-only mode.
	var vecCfg config.VectorizerConfig
	var provName string
	for _, vc := range cfg.Embedding.Vectorizers {
		vecCfg = vc
		provName = vc.Provider
		break
	}

	var queryEmbedder domain.Embedder
	if provName != "" {
		provCfg := cfg.Embedding.Providers[provName]

		// Single BudgetTracker shared across embedders.
		var budget *embeddinguc.BudgetTracker
		budgetCfg := provCfg.Budget
		if budgetCfg.DailyTokenLimit > 0 || budgetCfg.MonthlyTokenLimit > 0 {
			action := embeddinguc.BudgetActionWarn
			if budgetCfg.Action == "reject" {
				action = embeddinguc.BudgetActionReject
			}
			budget = embeddinguc.NewBudgetTracker(
				provName, budgetCfg.DailyTokenLimit, budgetCfg.MonthlyTokenLimit, action, logger,
			)
			// Connect the persistence store and load current counters.
			budgetStore := budgetrepo.New(store, 48*time.Hour, 62*24*time.Hour)
			budget.WithStore(ctx, budgetStore)
		}

		// Pass nil interface (not typed nil pointer!) if budget is not configured.
		// Go gotcha: (*BudgetTracker)(nil) wrapped in BudgetChecker != nil.
		var budgetChecker embeddinguc.BudgetChecker
		if budget != nil {
			budgetChecker = budget
		}

		instruction := vecCfg.QueryInstruction
		if instruction == "" {
			instruction = domain.DefaultVectorConfig().QueryInstruction
		}
		cacheTTL := time.Duration(cfg.Embedding.CacheTTLHours) * time.Hour
		queryEmbedder = buildEmbedder(provName, provCfg, vecCfg, instruction, store, cacheTTL, budgetChecker, logger)
		logger.Info("Query embedder created",
			zap.String("provider", provName),
			zap.String("model", vecCfg.Model),
			zap.Int("dimensions", vecCfg.Dimensions),
		)
	} else {
		logger.Warn("No embedding vectorizer configured, running in keyword-only mode")
	}

	// Catalog repository feeds both the cascade engine and SKU lookups.
	catalog := catalogrepo.New(store, queryEmbedder, catalogrepo.Config{
		KeyPrefix:          cfg.Storage.KeyPrefix,
		MinScoreFiltered:   cfg.Search.MinScoreFiltered,
		MinScoreUnfiltered: cfg.Search.MinScoreUnfiltered,
	})

	engine := cascade.NewService(catalog, metrics.NewSearchRecorder(), logger, cascade.Config{
		Tier1MinResults: cfg.Search.Tier1MinResults,
		Tier2MinResults: cfg.Search.Tier2MinResults,
		MaxResults:      cfg.Search.MaxResults,
		CandidateLimit:  cfg.Search.CandidateLimit,
		DisableDedupe:   cfg.Search.DisableDedupe,
	})
	extractor := extract.NewExtractor(logger)
	itemSvc := itemuc.NewService(catalog, logger)

	var embChecker healthuc.EmbeddingChecker
	if queryEmbedder != nil {
		embChecker = newEmbeddingHealthChecker(queryEmbedder)
	}
	healthSvc := healthuc.New(store, embChecker)

	server := chiTransport.NewServer(engine, extractor, itemSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

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

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented -> Instruction
func buildEmbedder(
	provName string,
	provCfg config.ProviderConfig,
	vecCfg config.VectorizerConfig,
	instruction string,
	store db.Store,
	cacheTTL time.Duration,
	budget embeddinguc.BudgetChecker,
	logger *zap.Logger,
) domain.Embedder {
	// Base provider (with transport metrics built-in)
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     provCfg.APIKey,
		BaseURL:    provCfg.BaseURL,
		Model:      vecCfg.Model,
		Dimensions: vecCfg.Dimensions,
		Provider:   provName,
		Logger:     logger,
	})

	// Cached
	var embedder domain.Embedder = base
	if store != nil {
		embedder = embcache.New(base, store, cacheTTL, metrics.EmbeddingCacheTotal, logger)
	}

	// Instrumented (budget + metrics)
	embedder = embeddinguc.NewInstrumentedEmbedder(
		embedder, provName, vecCfg.Model, budget, logger,
	)

	// Instruction prefix goes outermost so the cache key includes it.
	if instruction != "" {
		return domain.NewInstructionEmbedder(embedder, instruction)
	}

	return embedder
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

			// Canonical log line, one per request
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
