// hardfind-loader ingests product sheets (CSV or parquet) into the catalog:
// rows are mapped to catalog items, content text is rendered and batch
// embedded, and hashes are written through the catalog repository.
//
// Usage:
//
//	hardfind-loader -input products.csv -workers 4 -batch-size 64
//
// Connection and embedding settings come from the same config files as the
// API server (ENV selects the file); loader-specific knobs are flags.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/mattsmit4/hardfind/internal/config"
	"github.com/mattsmit4/hardfind/internal/db"
	dbRedis "github.com/mattsmit4/hardfind/internal/db/redis"
	"github.com/mattsmit4/hardfind/internal/domain"
	logpkg "github.com/mattsmit4/hardfind/internal/logger"
	budgetrepo "github.com/mattsmit4/hardfind/internal/repository/budget"
	catalogrepo "github.com/mattsmit4/hardfind/internal/repository/catalog"
	openaiEmb "github.com/mattsmit4/hardfind/internal/transport/openai"
	embeddinguc "github.com/mattsmit4/hardfind/internal/usecase/embedding"
	"github.com/mattsmit4/hardfind/internal/version"
)

type loaderConfig struct {
	input         string
	batchSize     int
	workers       int
	maxRows       int
	metricsPort   string
	recreateIndex bool
	purge         bool
	skipExisting  bool
}

func parseFlags() loaderConfig {
	cfg := loaderConfig{}
	flag.StringVar(&cfg.input, "input", "", "product sheet path (.csv or .parquet)")
	flag.IntVar(&cfg.batchSize, "batch-size", 64, "items per embed+upsert batch")
	flag.IntVar(&cfg.workers, "workers", 4, "parallel upsert workers")
	flag.IntVar(&cfg.maxRows, "max-rows", 0, "max rows to load (0=unlimited)")
	flag.StringVar(&cfg.metricsPort, "metrics-port", "9091", "Prometheus metrics port")
	flag.BoolVar(&cfg.recreateIndex, "recreate-index", false, "drop and re-create the FT index before loading")
	flag.BoolVar(&cfg.purge, "purge", false, "delete stored items before loading (combine with -recreate-index for a clean rebuild)")
	flag.BoolVar(&cfg.skipExisting, "skip-existing", false, "skip rows whose SKU is already stored, avoiding re-embedding on incremental loads")
	flag.Parse()
	return cfg
}

func main() {
	loaderCfg := parseFlags()
	if loaderCfg.input == "" {
		fmt.Fprintln(os.Stderr, "missing -input")
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(
		context.Background(), syscall.SIGTERM, syscall.SIGINT,
	)
	defer cancel()

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

	logger = logger.With(zap.String("run_id", uuid.NewString()))

	if err := run(ctx, loaderCfg, &cfg, logger); err != nil {
		logger.Fatal("Load failed", zap.Error(err))
	}
}

func run(ctx context.Context, loaderCfg loaderConfig, cfg *config.Config, logger *zap.Logger) error {
	start := time.Now()

	logger.Info("Starting catalog loader",
		zap.String("version", version.Version),
		zap.String("input", loaderCfg.input),
		zap.Int("batch_size", loaderCfg.batchSize),
		zap.Int("workers", loaderCfg.workers),
	)

	reg := prometheus.NewRegistry()
	m := newLoaderMetrics(reg)
	metricsSrv := serveMetrics(loaderCfg.metricsPort, reg, logger)
	defer func() {
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutCancel()
		_ = metricsSrv.Shutdown(shutCtx)
	}()

	reader, err := newSheetReader(loaderCfg.input)
	if err != nil {
		return err
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	embedder, dims := buildDocumentEmbedder(ctx, cfg, store, logger)
	if embedder == nil {
		logger.Warn("No embedding vectorizer configured, loading without vectors")
	}

	repo := catalogrepo.New(store, nil, catalogrepo.Config{
		KeyPrefix: cfg.Storage.KeyPrefix,
	})

	if loaderCfg.purge {
		removed, err := repo.Purge(ctx)
		if err != nil {
			return fmt.Errorf("purge: %w", err)
		}
		logger.Info("Purged stored items", zap.Int("removed", removed))
	}

	hnsw := catalogrepo.HNSWConfig{
		M:           cfg.Index.HNSWM,
		EFConstruct: cfg.Index.HNSWEFConstruct,
	}
	if err := repo.EnsureIndex(ctx, dims, hnsw, loaderCfg.recreateIndex); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}

	ing := &ingester{
		repo:         repo,
		embedder:     embedder,
		batchSize:    loaderCfg.batchSize,
		workers:      loaderCfg.workers,
		skipExisting: loaderCfg.skipExisting,
		metrics:      m,
		logger:       logger,
	}

	result, err := ing.Run(ctx, reader, loaderCfg.maxRows)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	elapsed := time.Since(start)
	rate := float64(result.Processed) / result.Duration.Seconds()
	fields := []zap.Field{
		zap.Int64("processed", result.Processed),
		zap.Int64("skipped", result.Skipped),
		zap.Int64("failed", result.Failed),
		zap.Duration("elapsed", elapsed.Round(time.Second)),
		zap.Float64("rows_per_sec", rate),
	}
	if count, err := repo.Count(ctx); err == nil {
		fields = append(fields, zap.Int("index_count", count))
	}
	logger.Info("Load complete", fields...)

	return nil
}

// buildDocumentEmbedder assembles the document-side embedder chain
// (OpenAI -> Cached -> Instrumented -> Instruction) and returns it with the
// vector dimensionality for the index. Returns nil when no vectorizer is
// configured; the index still gets created with the default dimensionality so
// a later embedding-enabled run can fill vectors in.
func buildDocumentEmbedder(
	ctx context.Context,
	cfg *config.Config,
	store db.Store,
	logger *zap.Logger,
) (domain.Embedder, int) {
	defaults := domain.DefaultVectorConfig()

	var vecCfg config.VectorizerConfig
	var provName string
	for _, vc := range cfg.Embedding.Vectorizers {
		vecCfg = vc
		provName = vc.Provider
		break
	}
	if provName == "" {
		return nil, defaults.Dimensions
	}

	provCfg := cfg.Embedding.Providers[provName]

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
		budget.WithStore(ctx, budgetrepo.New(store, 48*time.Hour, 62*24*time.Hour))
	}
	var budgetChecker embeddinguc.BudgetChecker
	if budget != nil {
		budgetChecker = budget
	}

	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     provCfg.APIKey,
		BaseURL:    provCfg.BaseURL,
		Model:      vecCfg.Model,
		Dimensions: vecCfg.Dimensions,
		Provider:   provName,
		Logger:     logger,
	})

	// No cache layer here: document texts are embedded once per load, so
	// cache lookups would only miss.
	var embedder domain.Embedder = embeddinguc.NewInstrumentedEmbedder(base, provName, vecCfg.Model, budgetChecker, logger)

	instruction := vecCfg.DocumentInstruction
	if instruction == "" {
		instruction = defaults.DocumentInstruction
	}
	embedder = domain.NewInstructionEmbedder(embedder, instruction)

	dims := vecCfg.Dimensions
	if dims <= 0 {
		dims = defaults.Dimensions
	}

	logger.Info("Document embedder created",
		zap.String("provider", provName),
		zap.String("model", vecCfg.Model),
		zap.Int("dimensions", dims),
	)
	return embedder, dims
}
