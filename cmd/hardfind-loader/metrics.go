// Loader-local Prometheus metrics. The loader is a short-lived batch job, so
// it runs its own registry and scrape endpoint instead of registering into
// the server's default registry.
package main

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type loaderMetrics struct {
	rowsProcessed prometheus.Counter
	rowsFailed    *prometheus.CounterVec
	batchesTotal  prometheus.Counter
	batchDuration prometheus.Histogram
	embedTokens   prometheus.Counter
}

func newLoaderMetrics(reg prometheus.Registerer) *loaderMetrics {
	m := &loaderMetrics{
		rowsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hardfind_loader",
			Name:      "rows_processed_total",
			Help:      "Rows successfully upserted into the catalog",
		}),

		rowsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hardfind_loader",
			Name:      "rows_failed_total",
			Help:      "Rows skipped or failed",
		}, []string{"reason"}),

		batchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hardfind_loader",
			Name:      "batches_total",
			Help:      "Batches sent to the catalog store",
		}),

		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hardfind_loader",
			Name:      "batch_duration_seconds",
			Help:      "Embed plus upsert duration per batch",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		embedTokens: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hardfind_loader",
			Name:      "embedding_tokens_total",
			Help:      "Embedding tokens consumed by the run",
		}),
	}

	reg.MustRegister(
		m.rowsProcessed, m.rowsFailed,
		m.batchesTotal, m.batchDuration,
		m.embedTokens,
	)

	return m
}

// serveMetrics exposes reg on :port/metrics in a background goroutine.
func serveMetrics(port string, reg *prometheus.Registry, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Metrics server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server error", zap.Error(err))
		}
	}()

	return srv
}
