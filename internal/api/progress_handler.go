package api

import (
	"net/http"
	"time"
)

// ── Response types ──────────────────────────────────────────────────────────

type ProgressResponse struct {
	UserID         string         `json:"user_id"`
	TotalAttempted int            `json:"total_attempted"`
	ByCategory     map[string]int `json:"by_category"`
	AverageScore   float64        `json:"average_score"`
	Strengths      []string       `json:"strengths"`
	Weaknesses     []string       `json:"weaknesses"`
	Trend          []float64      `json:"trend"`
}

type MetricsResponse struct {
	ProviderCalls      int64     `json:"provider_calls"`
	ProviderFailures   int64     `json:"provider_failures"`
	QuestionsGenerated int64     `json:"questions_generated"`
	AnswersEvaluated   int64     `json:"answers_evaluated"`
	ValidationFailures int64     `json:"validation_failures"`
	SessionsStarted    int64     `json:"sessions_started"`
	SessionsCompleted  int64     `json:"sessions_completed"`
	SessionsAbandoned  int64     `json:"sessions_abandoned"`
	LastUpdate         time.Time `json:"last_update"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /progress/{userID}
func (h *Handler) getProgress(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	progress, err := h.orchestrator.Progress(r.Context(), userID)
	if h.handleError(w, err) {
		return
	}

	byCategory := make(map[string]int, len(progress.ByCategory))
	for category, n := range progress.ByCategory {
		byCategory[string(category)] = n
	}

	respondJSON(w, http.StatusOK, ProgressResponse{
		UserID:         progress.UserID,
		TotalAttempted: progress.TotalAttempted,
		ByCategory:     byCategory,
		AverageScore:   progress.AverageScore,
		Strengths:      progress.Strengths,
		Weaknesses:     progress.Weaknesses,
		Trend:          progress.Trend,
	})
}

// GET /metrics
func (h *Handler) getMetrics(w http.ResponseWriter, r *http.Request) {
	snap := h.metrics.Snapshot()

	respondJSON(w, http.StatusOK, MetricsResponse{
		ProviderCalls:      snap.ProviderCalls,
		ProviderFailures:   snap.ProviderFailures,
		QuestionsGenerated: snap.QuestionsGenerated,
		AnswersEvaluated:   snap.AnswersEvaluated,
		ValidationFailures: snap.ValidationFailures,
		SessionsStarted:    snap.SessionsStarted,
		SessionsCompleted:  snap.SessionsCompleted,
		SessionsAbandoned:  snap.SessionsAbandoned,
		LastUpdate:         snap.LastUpdate,
	})
}
