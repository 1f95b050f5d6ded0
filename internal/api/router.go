package api

import "net/http"

func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Questions
	mux.HandleFunc("POST /questions", h.generateQuestions)
	mux.HandleFunc("POST /answers", h.evaluateAnswer)
	mux.HandleFunc("GET /tips/{category}", h.getTips)

	// Interviews
	mux.HandleFunc("POST /interviews", h.startInterview)
	mux.HandleFunc("POST /interviews/{interviewID}/begin", h.beginInterview)
	mux.HandleFunc("POST /interviews/{interviewID}/answers", h.submitAnswer)
	mux.HandleFunc("POST /interviews/{interviewID}/abandon", h.abandonInterview)
	mux.HandleFunc("GET /interviews/{interviewID}", h.getInterview)
	mux.HandleFunc("GET /interviews/{interviewID}/summary", h.getSummary)

	// Progress
	mux.HandleFunc("GET /progress/{userID}", h.getProgress)
	mux.HandleFunc("GET /metrics", h.getMetrics)
}
