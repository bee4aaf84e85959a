package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/culinara-ai/culinara/internal/domain"
	healthuc "github.com/culinara-ai/culinara/internal/usecase/health"
)

const (
	defaultTopK = 5
	maxTopK     = 50
	maxQueryLen = 500
)

// Server exposes the recipe answer API over HTTP.
type Server struct {
	answers AnswerService
	corpus  CorpusReader
	health  HealthService
	logger  *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(answers AnswerService, corpus CorpusReader, health HealthService, logger *zap.Logger) *Server {
	return &Server{
		answers: answers,
		corpus:  corpus,
		health:  health,
		logger:  logger,
	}
}

// Routes registers all handlers on the given router.
func (s *Server) Routes(r gochi.Router) {
	r.Route("/v1", func(r gochi.Router) {
		r.Post("/answer", s.handleAnswer)
		r.Post("/search", s.handleSearch)
		r.Get("/stats", s.handleStats)
		r.Get("/recipes/{id}", s.handleGetRecipe)
		r.Get("/similar/{id}", s.handleSimilar)
	})
	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// handleAnswer handles POST /v1/answer.
func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query is required")
		return
	}
	if len(req.Query) > maxQueryLen {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"query must be at most "+strconv.Itoa(maxQueryLen)+" characters")
		return
	}

	answer, err := s.answers.Answer(r.Context(), req.Query, preferencesFromDTO(req.Preferences))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, answerToDTO(answer))
}

// handleSearch handles POST /v1/search: raw retrieval, no re-ranking.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query is required")
		return
	}
	if req.TopK == 0 {
		req.TopK = defaultTopK
	}
	if req.TopK < 0 || req.TopK > maxTopK {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"top_k must be between 1 and "+strconv.Itoa(maxTopK))
		return
	}
	if req.MinScore < 0 || req.MinScore > 1 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "min_score must be between 0 and 1")
		return
	}

	candidates, err := s.answers.Search(r.Context(), req.Query, req.TopK, req.MinScore)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, candidatesToDTO(candidates))
}

// handleStats handles GET /v1/stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.corpus.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleGetRecipe handles GET /v1/recipes/{id}.
func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	id := gochi.URLParam(r, "id")

	recipe, err := s.corpus.GetRecipe(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recipeToDTO(recipe))
}

// handleSimilar handles GET /v1/similar/{id}.
func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	id := gochi.URLParam(r, "id")

	k := defaultTopK
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxTopK {
			writeError(w, http.StatusBadRequest, codeValidationFailed,
				"k must be between 1 and "+strconv.Itoa(maxTopK))
			return
		}
		k = parsed
	}

	candidates, err := s.corpus.SimilarByID(r.Context(), id, k)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, candidatesToDTO(candidates))
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrRecipeNotFound):
		writeError(w, http.StatusNotFound, codeRecipeNotFound, domain.ErrRecipeNotFound.Error())
	case errors.Is(err, domain.ErrEmbeddingProviderError),
		errors.Is(err, domain.ErrSearchProviderError),
		errors.Is(err, domain.ErrGenerationProviderError):
		s.logger.Warn("provider error", zap.Error(err))
		writeError(w, http.StatusBadGateway, codeProviderError, safeDomainMessage(err))
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrRecipeNotFound,
		domain.ErrEmbeddingProviderError,
		domain.ErrGenerationProviderError,
		domain.ErrSearchProviderError,
		domain.ErrNoResults,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
