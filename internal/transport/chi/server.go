package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mattsmit4/hardfind/internal/domain"
	"github.com/mattsmit4/hardfind/internal/domain/constraint"
	"github.com/mattsmit4/hardfind/internal/usecase/cascade"
	"github.com/mattsmit4/hardfind/internal/usecase/extract"
	healthuc "github.com/mattsmit4/hardfind/internal/usecase/health"
	itemuc "github.com/mattsmit4/hardfind/internal/usecase/item"
)

// errorCode is the machine-readable code in error responses.
type errorCode string

const (
	codeBadRequest                errorCode = "bad_request"
	codeUnauthorized              errorCode = "unauthorized"
	codeItemNotFound              errorCode = "item_not_found"
	codeInvalidQuery              errorCode = "invalid_query"
	codeInvalidFilters            errorCode = "invalid_filters"
	codeBackendUnavailable        errorCode = "backend_unavailable"
	codeEmbeddingProviderError    errorCode = "embedding_provider_error"
	codeKeywordSearchNotSupported errorCode = "keyword_search_not_supported"
	codeInternalError             errorCode = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API for the catalog search engine.
type Server struct {
	engine        *cascade.Service
	extractor     *extract.Extractor
	items         *itemuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	engine *cascade.Service,
	extractor *extract.Extractor,
	items *itemuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		engine:    engine,
		extractor: extractor,
		items:     items,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		ambiguousSKUHandler,
		sentinelHandler(domain.ErrItemNotFound, http.StatusNotFound, codeItemNotFound),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeInvalidQuery),
		sentinelHandler(domain.ErrInvalidFilters, http.StatusBadRequest, codeInvalidFilters),
		sentinelHandler(domain.ErrBackendUnavailable, http.StatusServiceUnavailable, codeBackendUnavailable),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderError),
		sentinelHandler(domain.ErrKeywordSearchNotSupported,
			http.StatusNotImplemented, codeKeywordSearchNotSupported),
	}
	return s
}

// Register mounts the API routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/api/v1/search", s.Search)
	r.Get("/api/v1/items/{sku}", s.GetItem)
	r.Get("/health", s.Health)
	r.Get("/metrics", s.Metrics)
}

// Search handles POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Limit < 0 {
		writeError(w, http.StatusBadRequest, codeBadRequest, "limit must be non-negative")
		return
	}

	set, err := s.constraintsFrom(&req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	env, err := s.engine.Search(r.Context(), set)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponseFrom(env, req.Limit))
}

// constraintsFrom resolves the request into a constraint set: pre-extracted
// structured constraints when present, otherwise free-text extraction.
func (s *Server) constraintsFrom(req *SearchRequest) (*constraint.Set, error) {
	if req.Constraints != nil {
		set, err := req.Constraints.toDomain()
		if err != nil {
			return nil, errors.Join(domain.ErrInvalidFilters, err)
		}
		if set.IsEmpty() {
			return nil, domain.ErrInvalidFilters
		}
		return set, nil
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, domain.ErrInvalidQuery
	}
	return s.extractor.Extract(req.Query)
}

// GetItem handles GET /api/v1/items/{sku}.
func (s *Server) GetItem(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")

	it, err := s.items.Lookup(r.Context(), sku)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, itemDTOFrom(it))
}

// Health handles GET /health. Degraded (keyword-only mode) still reports 200;
// only a failed catalog check produces 503.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for name, res := range report.Checks {
		checks[name] = string(res)
	}

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrItemNotFound,
		domain.ErrInvalidQuery,
		domain.ErrInvalidFilters,
		domain.ErrBackendUnavailable,
		domain.ErrEmbeddingProviderError,
		domain.ErrKeywordSearchNotSupported,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// ambiguousSKUHandler handles prefix lookups that match several SKUs, adding
// the suggestion list to the 404 body.
func ambiguousSKUHandler(w http.ResponseWriter, err error, msg string) bool {
	var amb *domain.AmbiguousSKUError
	if !errors.As(err, &amb) {
		return false
	}
	writeJSON(w, http.StatusNotFound, ErrorResponse{
		Code:        codeItemNotFound,
		Message:     msg,
		Suggestions: amb.Suggestions,
	})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
