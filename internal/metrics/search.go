package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	searchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hardfind",
			Name:      "search_requests_total",
			Help:      "Searches resolved, by terminal tier",
		},
		[]string{"tier", "relaxed"},
	)

	searchBackendFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hardfind",
			Name:      "search_backend_failures_total",
			Help:      "Retrieval backend failures absorbed by the cascade",
		},
		[]string{"tier"},
	)

	searchDroppedFacetsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hardfind",
			Name:      "search_dropped_facets_total",
			Help:      "Constraints dropped during relaxation, by facet",
		},
		[]string{"facet"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(searchRequestsTotal)
	prometheus.MustRegister(searchBackendFailuresTotal)
	prometheus.MustRegister(searchDroppedFacetsTotal)
	searchMetricsRegistered = true
}

// SearchRecorder implements the engine's metrics contract over Prometheus.
type SearchRecorder struct{}

// NewSearchRecorder returns a recorder backed by the package-level counters.
func NewSearchRecorder() *SearchRecorder { return &SearchRecorder{} }

// ObserveSearch counts one resolved search at the given tier.
func (SearchRecorder) ObserveSearch(tier string, relaxed bool) {
	label := "false"
	if relaxed {
		label = "true"
	}
	searchRequestsTotal.WithLabelValues(tier, label).Inc()
}

// ObserveBackendFailure counts a retrieval failure the cascade recovered from.
func (SearchRecorder) ObserveBackendFailure(tier string) {
	searchBackendFailuresTotal.WithLabelValues(tier).Inc()
}

// ObserveDroppedFacet counts a constraint the relaxation gave up on.
func (SearchRecorder) ObserveDroppedFacet(facet string) {
	searchDroppedFacetsTotal.WithLabelValues(facet).Inc()
}
