package api

import (
	"net/http"
	"time"

	"github.com/prepdeck/backend/internal/domain/interview"
	"github.com/prepdeck/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type StartInterviewRequest struct {
	UserID               string   `json:"user_id"`
	Role                 string   `json:"role"`
	Categories           []string `json:"categories"`
	Difficulty           string   `json:"difficulty,omitempty"`
	QuestionsPerCategory int      `json:"questions_per_category"`
}

type InterviewResponse struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Role           string     `json:"role"`
	Difficulty     string     `json:"difficulty"`
	State          string     `json:"state"`
	TotalQuestions int        `json:"total_questions"`
	Answered       int        `json:"answered"`
	CreatedAt      time.Time  `json:"created_at"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
}

type FeedbackResponse struct {
	Score              float64  `json:"score"`
	Strengths          []string `json:"strengths"`
	Improvements       []string `json:"areas_for_improvement"`
	DetailedFeedback   string   `json:"detailed_feedback"`
	ModelAnswer        string   `json:"model_answer,omitempty"`
	SuggestedResources []string `json:"suggested_resources,omitempty"`
}

type AnswerRequest struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

type AnswerResponse struct {
	Feedback *FeedbackResponse `json:"feedback"`
	Next     *QuestionResponse `json:"next_question,omitempty"`
	State    string            `json:"state"`
	Summary  *SummaryResponse  `json:"summary,omitempty"`
}

type SummaryResponse struct {
	InterviewID       string  `json:"interview_id"`
	State             string  `json:"state"`
	QuestionsAnswered int     `json:"questions_answered"`
	TotalQuestions    int     `json:"total_questions"`
	AverageScore      float64 `json:"average_score"`
	HighestScore      float64 `json:"highest_score"`
	LowestScore       float64 `json:"lowest_score"`
}

func toInterviewResponse(s *interview.Session) InterviewResponse {
	answered := 0
	for _, a := range s.Attempts {
		if a.Answered() {
			answered++
		}
	}
	return InterviewResponse{
		ID:             s.ID,
		UserID:         s.UserID,
		Role:           s.Role,
		Difficulty:     string(s.Difficulty),
		State:          string(s.State),
		TotalQuestions: len(s.Attempts),
		Answered:       answered,
		CreatedAt:      s.CreatedAt,
		StartedAt:      s.StartedAt,
		EndedAt:        s.EndedAt,
	}
}

func toFeedbackResponse(f *interview.FeedbackResult) *FeedbackResponse {
	if f == nil {
		return nil
	}
	return &FeedbackResponse{
		Score:              f.Score,
		Strengths:          f.Strengths,
		Improvements:       f.Improvements,
		DetailedFeedback:   f.Detail,
		ModelAnswer:        f.ModelAnswer,
		SuggestedResources: f.Resources,
	}
}

func toSummaryResponse(s interview.Summary) *SummaryResponse {
	return &SummaryResponse{
		InterviewID:       s.SessionID,
		State:             string(s.State),
		QuestionsAnswered: s.QuestionsAnswered,
		TotalQuestions:    s.TotalQuestions,
		AverageScore:      s.AverageScore,
		HighestScore:      s.HighestScore,
		LowestScore:       s.LowestScore,
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /interviews
func (h *Handler) startInterview(w http.ResponseWriter, r *http.Request) {
	var req StartInterviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}
	if req.Role == "" {
		http.Error(w, "role is required", http.StatusBadRequest)
		return
	}
	if len(req.Categories) == 0 {
		http.Error(w, "at least one category is required", http.StatusBadRequest)
		return
	}

	categories := make([]interview.Category, len(req.Categories))
	for i, c := range req.Categories {
		category, err := interview.ParseCategory(c)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		categories[i] = category
	}
	difficulty, err := interview.ParseDifficulty(req.Difficulty)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.orchestrator.Start(r.Context(), service.StartRequest{
		UserID:               req.UserID,
		Role:                 req.Role,
		Categories:           categories,
		Difficulty:           difficulty,
		QuestionsPerCategory: req.QuestionsPerCategory,
	})
	if h.handleError(w, err) {
		return
	}

	respondJSON(w, http.StatusCreated, toInterviewResponse(session))
}

// POST /interviews/{interviewID}/begin
func (h *Handler) beginInterview(w http.ResponseWriter, r *http.Request) {
	interviewID := r.PathValue("interviewID")

	question, err := h.orchestrator.Begin(r.Context(), interviewID)
	if h.handleError(w, err) {
		return
	}

	respondJSON(w, http.StatusOK, toQuestionResponse(*question))
}

// POST /interviews/{interviewID}/answers
func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	interviewID := r.PathValue("interviewID")

	var req AnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.QuestionID == "" {
		http.Error(w, "question_id is required", http.StatusBadRequest)
		return
	}

	result, err := h.orchestrator.SubmitAnswer(r.Context(), interviewID, req.QuestionID, req.Answer)
	if h.handleError(w, err) {
		return
	}

	resp := AnswerResponse{
		Feedback: toFeedbackResponse(result.Feedback),
		State:    string(result.State),
	}
	if result.Next != nil {
		next := toQuestionResponse(*result.Next)
		resp.Next = &next
	}
	if result.Summary != nil {
		resp.Summary = toSummaryResponse(*result.Summary)
	}
	respondJSON(w, http.StatusOK, resp)
}

// POST /interviews/{interviewID}/abandon
func (h *Handler) abandonInterview(w http.ResponseWriter, r *http.Request) {
	interviewID := r.PathValue("interviewID")

	if err := h.orchestrator.Abandon(r.Context(), interviewID); h.handleError(w, err) {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GET /interviews/{interviewID}
func (h *Handler) getInterview(w http.ResponseWriter, r *http.Request) {
	interviewID := r.PathValue("interviewID")

	session, err := h.orchestrator.Get(r.Context(), interviewID)
	if h.handleError(w, err) {
		return
	}

	respondJSON(w, http.StatusOK, toInterviewResponse(session))
}

// GET /interviews/{interviewID}/summary
func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	interviewID := r.PathValue("interviewID")

	session, err := h.orchestrator.Get(r.Context(), interviewID)
	if h.handleError(w, err) {
		return
	}

	respondJSON(w, http.StatusOK, toSummaryResponse(session.Summarize()))
}
