package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/prepdeck/backend/internal/domain/interview"
	"github.com/prepdeck/backend/internal/metrics"
	"github.com/prepdeck/backend/internal/prompt"
	"github.com/prepdeck/backend/internal/provider"
	"github.com/prepdeck/backend/internal/service"
	"github.com/prepdeck/backend/internal/store"
	"github.com/prepdeck/backend/internal/validate"
)

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	orchestrator *service.Orchestrator
	questions    *service.QuestionService
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(o *service.Orchestrator, q *service.QuestionService, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		orchestrator: o,
		questions:    q,
		metrics:      m,
		logger:       logger,
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes the request body into v. Returns false (and writes
// a 400) when the body is not valid JSON; caller should return.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return false
	}
	return true
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleError maps known error kinds to HTTP statuses and writes the
// response. Returns true if an error was handled (caller should return).
func (h *Handler) handleError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}

	var (
		paramErr     *prompt.InvalidParameterError
		validErr     *validate.ValidationError
		closedErr    *interview.ClosedError
		transErr     *interview.TransitionError
		busyErr      *service.SessionBusyError
		exhaustedErr *service.ValidationExhaustedError
		capacityErr  *provider.ErrCapacityExceeded
		rateErr      *provider.ErrRateLimit
		downErr      *provider.ErrProviderUnavailable
		rejectedErr  *provider.ErrProviderRejected
	)

	// The exhausted case must run before the validation case: a
	// ValidationExhaustedError unwraps to the last ValidationError, and
	// exhausted regeneration is the provider's fault, not the client's.
	switch {
	case errors.As(err, &exhaustedErr), errors.As(err, &downErr), errors.As(err, &rejectedErr):
		h.logger.Error("upstream generation failed", "error", err)
		respondJSON(w, http.StatusBadGateway, errorResponse{Error: "generation failed"})
	case errors.As(err, &paramErr), errors.As(err, &validErr):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, store.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.As(err, &closedErr), errors.As(err, &transErr), errors.As(err, &busyErr):
		respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.As(err, &capacityErr), errors.As(err, &rateErr):
		respondJSON(w, http.StatusTooManyRequests, errorResponse{Error: "service is at capacity, try again later"})
	case errors.Is(err, context.DeadlineExceeded):
		respondJSON(w, http.StatusGatewayTimeout, errorResponse{Error: "generation timed out"})
	default:
		h.logger.Error("internal error", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
	return true
}
