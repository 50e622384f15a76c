// Package chi is the HTTP surface: the streaming ask endpoint plus models,
// health and metrics.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/searchlight-ai/searchlight/internal/domain"
	logpkg "github.com/searchlight-ai/searchlight/internal/logger"
	"github.com/searchlight-ai/searchlight/internal/metrics"
	"github.com/searchlight-ai/searchlight/internal/usecase/answer"
	healthuc "github.com/searchlight-ai/searchlight/internal/usecase/health"
)

// Asker runs the answer pipeline (ISP: the transport needs only Answer).
type Asker interface {
	Answer(ctx context.Context, req answer.Request, emit answer.EmitFunc) error
}

// RateLimiter admits anonymous requests.
type RateLimiter interface {
	Allow(ctx context.Context, identity string) error
}

// Server handles the HTTP API.
type Server struct {
	asker        Asker
	limiter      RateLimiter
	health       *healthuc.Service
	models       []string
	defaultModel string
	apiKeys      map[string]string
	logger       *zap.Logger
}

// NewServer creates the HTTP API server.
func NewServer(
	asker Asker, limiter RateLimiter, health *healthuc.Service,
	models []string, defaultModel string, apiKeys map[string]string,
	logger *zap.Logger,
) *Server {
	return &Server{
		asker:        asker,
		limiter:      limiter,
		health:       health,
		models:       models,
		defaultModel: defaultModel,
		apiKeys:      apiKeys,
		logger:       logger,
	}
}

// Routes registers all endpoints on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/api/ask", s.handleAsk)
	r.Get("/api/models", s.handleModels)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
}

// askRequest is the wire shape of POST /api/ask.
type askRequest struct {
	Query    string `json:"query"`
	UseCache *bool  `json:"use_cache"`
	Mode     string `json:"mode"`
	Model    string `json:"model"`
	Source   string `json:"source"`
}

// handleAsk validates admission, then streams the pipeline as server-sent
// events. Admission failures produce a single JSON error with no stream.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}

	query := domain.NormalizeQuery(req.Query)
	if query == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "query is required")
		return
	}

	category := domain.CategoryAll
	if req.Source != "" {
		category = domain.Category(req.Source)
		if !category.IsValid() {
			writeError(w, http.StatusBadRequest, "validation_failed", "unknown source category: "+req.Source)
			return
		}
	}

	mode := domain.ModeSimple
	if req.Mode != "" {
		mode = domain.AnswerMode(req.Mode)
		if !mode.IsValid() {
			writeError(w, http.StatusBadRequest, "validation_failed", "unknown mode: "+req.Mode)
			return
		}
	}

	model := req.Model
	if model == "" {
		model = s.defaultModel
	}
	if !s.allowsModel(model) {
		writeError(w, http.StatusBadRequest, "unknown_model", "model is not available: "+model)
		return
	}

	useCache := true
	if req.UseCache != nil {
		useCache = *req.UseCache
	}

	identity, authenticated := s.identityFromRequest(r)
	if !authenticated {
		if err := s.limiter.Allow(r.Context(), identity); err != nil {
			if errors.Is(err, domain.ErrRateLimited) {
				metrics.RateLimitRejectedTotal.Inc()
				writeError(w, http.StatusTooManyRequests, "rate_limited", "request limit reached, try again later")
				return
			}
			// Admission must not depend on the counter store being up.
			logpkg.FromContext(r.Context()).Warn("rate limit check failed", zap.Error(err))
		}
	}

	pipelineReq := answer.Request{
		Query:    query,
		UseCache: useCache,
		Mode:     mode,
		Model:    model,
		Category: category,
	}
	if authenticated {
		pipelineReq.Identity = identity
	}

	emitter := newSSEEmitter(w)
	if err := s.asker.Answer(r.Context(), pipelineReq, emitter.Emit); err != nil {
		// Emit failures mean the caller went away mid-stream; nothing to send.
		logpkg.FromContext(r.Context()).Debug("ask stream ended early", zap.Error(err))
	}
}

// handleModels returns the configured model allow-list.
func (s *Server) handleModels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"models":  s.models,
		"default": s.defaultModel,
	})
}

// handleHealth returns the aggregated health report.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())
	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

func (s *Server) allowsModel(model string) bool {
	for _, m := range s.models {
		if m == model {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}
