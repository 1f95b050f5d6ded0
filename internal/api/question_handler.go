package api

import (
	"net/http"

	"github.com/prepdeck/backend/internal/domain/interview"
)

// ── Request / Response types ────────────────────────────────────────────────

type GenerateQuestionsRequest struct {
	Role       string   `json:"role"`
	Category   string   `json:"category"`
	Difficulty string   `json:"difficulty,omitempty"`
	Count      int      `json:"count"`
	Topics     []string `json:"topics,omitempty"`
}

type QuestionResponse struct {
	ID             string   `json:"id"`
	Question       string   `json:"question"`
	Category       string   `json:"category"`
	Difficulty     string   `json:"difficulty"`
	Topics         []string `json:"topics,omitempty"`
	ExpectedPoints []string `json:"expected_answer_points,omitempty"`
	FollowUps      []string `json:"follow_up_questions,omitempty"`
}

type GenerateQuestionsResponse struct {
	Questions []QuestionResponse `json:"questions"`
}

type TipsResponse struct {
	Category string `json:"category"`
	Tips     string `json:"tips"`
}

type EvaluateAnswerRequest struct {
	Question       string   `json:"question"`
	ExpectedPoints []string `json:"expected_answer_points,omitempty"`
	Category       string   `json:"category,omitempty"`
	Difficulty     string   `json:"difficulty,omitempty"`
	Answer         string   `json:"answer"`
}

func toQuestionResponse(q interview.Question) QuestionResponse {
	return QuestionResponse{
		ID:             q.ID,
		Question:       q.Text,
		Category:       string(q.Category),
		Difficulty:     string(q.Difficulty),
		Topics:         q.Topics,
		ExpectedPoints: q.ExpectedPoints,
		FollowUps:      q.FollowUps,
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /questions
func (h *Handler) generateQuestions(w http.ResponseWriter, r *http.Request) {
	var req GenerateQuestionsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := interview.ParseCategory(req.Category)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	difficulty, err := interview.ParseDifficulty(req.Difficulty)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	questions, err := h.questions.Generate(r.Context(), req.Role, category, difficulty, req.Count, req.Topics)
	if h.handleError(w, err) {
		return
	}

	out := make([]QuestionResponse, len(questions))
	for i, q := range questions {
		out[i] = toQuestionResponse(q)
	}
	respondJSON(w, http.StatusOK, GenerateQuestionsResponse{Questions: out})
}

// POST /answers
//
// Evaluates a one-off answer outside any interview, for callers who
// generated questions through /questions and grade them separately.
func (h *Handler) evaluateAnswer(w http.ResponseWriter, r *http.Request) {
	var req EvaluateAnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Question == "" {
		http.Error(w, "question is required", http.StatusBadRequest)
		return
	}

	category := interview.CategoryTechnical
	if req.Category != "" {
		parsed, err := interview.ParseCategory(req.Category)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		category = parsed
	}
	difficulty, err := interview.ParseDifficulty(req.Difficulty)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	question := interview.NewQuestion(req.Question, category, difficulty, nil, req.ExpectedPoints, nil)

	feedback, err := h.questions.Evaluate(r.Context(), question, req.Answer)
	if h.handleError(w, err) {
		return
	}

	respondJSON(w, http.StatusOK, toFeedbackResponse(feedback))
}

// GET /tips/{category}
func (h *Handler) getTips(w http.ResponseWriter, r *http.Request) {
	category, err := interview.ParseCategory(r.PathValue("category"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tips, err := h.questions.Tips(r.Context(), category)
	if h.handleError(w, err) {
		return
	}

	respondJSON(w, http.StatusOK, TipsResponse{
		Category: string(category),
		Tips:     tips,
	})
}
