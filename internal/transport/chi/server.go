// Package chi exposes the search service over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hibik17/ais-search/internal/domain"
	logpkg "github.com/hibik17/ais-search/internal/logger"
	"github.com/hibik17/ais-search/internal/metrics"
	"github.com/hibik17/ais-search/internal/usecase/query"
)

// SearchService is the slice of the query service the HTTP layer needs.
type SearchService interface {
	Search(ctx context.Context, req query.SearchRequest) (*domain.Envelope, error)
	SearchByDocument(ctx context.Context, key string) (*domain.Envelope, error)
	SearchByText(ctx context.Context, text string) (*domain.Envelope, error)
	CurrentModel() string
	SelectModel(variant string) error
}

// Pinger reports backend liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server routes HTTP requests to the search service.
type Server struct {
	search        SearchService
	metaPing      Pinger
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. metaPing may be nil when the
// metadata backend has no liveness probe.
func NewServer(search SearchService, metaPing Pinger, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search:   search,
		metaPing: metaPing,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrModelNotFound, http.StatusNotFound, codeModelNotFound),
		sentinelHandler(domain.ErrModelCorrupt, http.StatusInternalServerError, codeModelCorrupt),
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrUnknownCategory, http.StatusBadRequest, codeValidationFailed),
	}
	return s
}

// Routes builds the router with the standard middleware stack.
func (s *Server) Routes(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.recoverer)
	r.Use(s.wideEvent)
	r.Use(metrics.Middleware())
	r.Use(BearerAuthMiddleware(apiKeys))

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.Search)
		r.Post("/search/document", s.SearchByDocument)
		r.Post("/search/text", s.SearchByText)
		r.Get("/model", s.GetModel)
		r.Put("/model", s.PutModel)
	})
	return r
}

// Search handles POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	env, err := s.search.Search(r.Context(), query.SearchRequest{
		Positive:     req.Positive,
		Negative:     req.Negative,
		Outline:      req.Outline,
		Categories:   req.Categories,
		ModelVariant: req.Model,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, env)
}

// SearchByDocument handles POST /api/v1/search/document.
func (s *Server) SearchByDocument(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	env, err := s.search.SearchByDocument(r.Context(), req.Key)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, env)
}

// SearchByText handles POST /api/v1/search/text.
func (s *Server) SearchByText(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	env, err := s.search.SearchByText(r.Context(), req.Text)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, env)
}

// GetModel handles GET /api/v1/model.
func (s *Server) GetModel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, modelResponse{Variant: s.search.CurrentModel()})
}

// PutModel handles PUT /api/v1/model.
func (s *Server) PutModel(w http.ResponseWriter, r *http.Request) {
	var req modelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Variant == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Model variant is required")
		return
	}

	if err := s.search.SelectModel(req.Variant); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, modelResponse{Variant: s.search.CurrentModel()})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}
	status := "healthy"

	if s.metaPing != nil {
		if err := s.metaPing.Ping(r.Context()); err != nil {
			checks["metadata"] = "failed"
			status = "unhealthy"
		} else {
			checks["metadata"] = "ok"
		}
	}

	httpStatus := http.StatusOK
	if status != "healthy" {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthResponse{Status: status, Model: s.search.CurrentModel(), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// recoverer converts panics into JSON 500 responses.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic in handler", zap.Any("panic", rec), zap.String("path", r.URL.Path))
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// wideEvent emits a canonical log line per request and propagates
// X-Request-ID.
func (s *Server) wideEvent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := middleware.GetReqID(r.Context())
		if requestID != "" {
			w.Header().Set("X-Request-ID", requestID)
		}

		reqLogger := s.logger.With(zap.String("request_id", requestID))
		ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		reqLogger.Info("http_request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", r.RemoteAddr),
			zap.Int("response_bytes", ww.BytesWritten()),
		)
	})
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrModelNotFound,
		domain.ErrModelCorrupt,
		domain.ErrEmptyQuery,
		domain.ErrUnknownCategory,
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
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, safeDomainMessage(err))
		return true
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
