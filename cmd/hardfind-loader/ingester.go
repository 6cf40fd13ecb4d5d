// Ingest pipeline: sheet reader -> batches -> ants pool -> embed + upsert.
package main

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/mattsmit4/hardfind/internal/domain"
	"github.com/mattsmit4/hardfind/internal/repository/catalog"
)

// ingester batches mapped items and upserts them in parallel. embedder may be
// nil for keyword-only deployments; vectors are skipped entirely then.
type ingester struct {
	repo         *catalog.Repo
	embedder     domain.Embedder
	batchSize    int
	workers      int
	skipExisting bool
	metrics      *loaderMetrics
	logger       *zap.Logger
}

// ingestResult is the run summary.
type ingestResult struct {
	Processed int64
	Skipped   int64
	Failed    int64
	Duration  time.Duration
}

// Run streams the sheet through the pool. Blank and duplicate SKUs are
// skipped at the producer; batch failures are counted, not fatal: a bad
// batch should not kill a multi-hour load.
func (ing *ingester) Run(ctx context.Context, reader *sheetReader, maxRows int) (ingestResult, error) {
	pool, err := ants.NewPool(ing.workers)
	if err != nil {
		return ingestResult{}, err
	}
	defer pool.Release()

	var wg sync.WaitGroup
	var processed, skipped, failed atomic.Int64
	start := time.Now()

	submit := func(items []domain.Item, texts []string) {
		wg.Add(1)
		batch, batchTexts := items, texts
		if err := pool.Submit(func() {
			defer wg.Done()
			ing.processBatch(ctx, batch, batchTexts, &processed, &failed)
		}); err != nil {
			wg.Done()
			failed.Add(int64(len(batch)))
			ing.metrics.rowsFailed.WithLabelValues("pool_error").Add(float64(len(batch)))
			ing.logger.Error("Pool submit failed", zap.Error(err))
		}
	}

	seen := make(map[string]bool)
	items := make([]domain.Item, 0, ing.batchSize)
	texts := make([]string, 0, ing.batchSize)

	readErr := reader.Read(maxRows, func(rec record, seq int) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}

		it, ok := mapRow(rec)
		if !ok {
			skipped.Add(1)
			ing.metrics.rowsFailed.WithLabelValues("no_sku").Inc()
			return true
		}
		if seen[it.SKU] {
			skipped.Add(1)
			ing.metrics.rowsFailed.WithLabelValues("duplicate_sku").Inc()
			return true
		}
		seen[it.SKU] = true

		if ing.skipExisting {
			stored, err := ing.repo.Exists(ctx, it.SKU)
			if err != nil {
				// Check failed; load the row rather than silently drop it.
				ing.logger.Warn("Exists check failed", zap.String("sku", it.SKU), zap.Error(err))
			} else if stored {
				skipped.Add(1)
				ing.metrics.rowsFailed.WithLabelValues("already_stored").Inc()
				return true
			}
		}

		it.Content = buildContent(&it, rec)

		items = append(items, it)
		texts = append(texts, it.Content)
		if len(items) >= ing.batchSize {
			submit(items, texts)
			items = make([]domain.Item, 0, ing.batchSize)
			texts = make([]string, 0, ing.batchSize)
		}
		return true
	})

	if len(items) > 0 {
		submit(items, texts)
	}

	wg.Wait()

	result := ingestResult{
		Processed: processed.Load(),
		Skipped:   skipped.Load(),
		Failed:    failed.Load(),
		Duration:  time.Since(start),
	}
	return result, readErr
}

func (ing *ingester) processBatch(
	ctx context.Context,
	items []domain.Item,
	texts []string,
	processed, failed *atomic.Int64,
) {
	start := time.Now()

	var vectors [][]float32
	if ing.embedder != nil {
		res, err := ing.embedBatch(ctx, texts)
		if err != nil {
			failed.Add(int64(len(items)))
			ing.metrics.rowsFailed.WithLabelValues("embed_error").Add(float64(len(items)))
			ing.logger.Error("Batch embed failed",
				zap.Int("batch_size", len(items)),
				zap.Error(err),
			)
			return
		}
		vectors = res.Embeddings
		ing.metrics.embedTokens.Add(float64(res.TotalTokens))
	}

	err := ing.repo.UpsertBatch(ctx, items, vectors)

	ing.metrics.batchDuration.Observe(time.Since(start).Seconds())
	ing.metrics.batchesTotal.Inc()

	if err != nil {
		failed.Add(int64(len(items)))
		ing.metrics.rowsFailed.WithLabelValues("upsert_error").Add(float64(len(items)))
		ing.logger.Error("Batch upsert failed",
			zap.Int("batch_size", len(items)),
			zap.Error(err),
		)
		return
	}

	total := processed.Add(int64(len(items)))
	ing.metrics.rowsProcessed.Add(float64(len(items)))

	if total%10000 < int64(ing.batchSize) {
		ing.logger.Info("Progress",
			zap.Int64("processed", total),
			zap.Int64("failed", failed.Load()),
		)
	}
}

func (ing *ingester) embedBatch(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if be, ok := ing.embedder.(domain.BatchEmbedder); ok {
		return be.BatchEmbed(ctx, texts)
	}
	return domain.BatchFallback(ctx, ing.embedder, texts)
}
