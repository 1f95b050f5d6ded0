package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prepdeck/backend/internal/domain/interview"
	"github.com/prepdeck/backend/internal/metrics"
	"github.com/prepdeck/backend/internal/store"
)

// OrchestratorConfig bounds session-level coordination.
type OrchestratorConfig struct {
	// LockWait is how long a mutation waits for the per-session lock
	// before being rejected as busy.
	LockWait time.Duration
}

// Orchestrator sequences mock interviews: issuing questions, accepting
// answers, requesting feedback, and advancing session state. It owns
// each session for the duration of one operation, serialized per
// session ID.
type Orchestrator struct {
	store     store.Store
	questions *QuestionService
	locks     *sessionLocks
	metrics   *metrics.Metrics
	logger    *slog.Logger
	cfg       OrchestratorConfig
}

func NewOrchestrator(st store.Store, qs *QuestionService, m *metrics.Metrics, logger *slog.Logger, cfg OrchestratorConfig) *Orchestrator {
	if cfg.LockWait <= 0 {
		cfg.LockWait = 5 * time.Second
	}
	return &Orchestrator{
		store:     st,
		questions: qs,
		locks:     newSessionLocks(),
		metrics:   m,
		logger:    logger,
		cfg:       cfg,
	}
}

// StartRequest describes a new mock interview.
type StartRequest struct {
	UserID               string
	Role                 string
	Categories           []interview.Category
	Difficulty           interview.Difficulty
	QuestionsPerCategory int
}

// Start creates a session in the Created state with questions generated
// for every requested category, and persists it.
func (o *Orchestrator) Start(ctx context.Context, req StartRequest) (*interview.Session, error) {
	if len(req.Categories) == 0 {
		return nil, fmt.Errorf("at least one category is required")
	}

	var questions []interview.Question
	for _, category := range req.Categories {
		batch, err := o.questions.Generate(ctx, req.Role, category, req.Difficulty, req.QuestionsPerCategory, nil)
		if err != nil {
			return nil, err
		}
		questions = append(questions, batch...)
	}

	session, err := interview.NewSession(req.UserID, req.Role, req.Difficulty, questions)
	if err != nil {
		return nil, err
	}

	if err := o.store.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	o.metrics.IncrementSessionsStarted()
	o.logger.Info("session started",
		"session_id", session.ID, "user_id", req.UserID,
		"role", req.Role, "questions", len(questions))
	return session, nil
}

// Begin delivers the first question and moves the session to InProgress.
func (o *Orchestrator) Begin(ctx context.Context, sessionID string) (*interview.Question, error) {
	release, err := o.locks.acquire(ctx, sessionID, o.cfg.LockWait)
	if err != nil {
		return nil, err
	}
	defer release()

	session, err := o.store.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	question, err := session.Begin()
	if err != nil {
		return nil, err
	}

	if err := o.store.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return question, nil
}

// SubmitResult is the outcome of one answered question.
type SubmitResult struct {
	Feedback *interview.FeedbackResult
	Next     *interview.Question
	State    interview.State
	// Summary is set once the session completes.
	Summary *interview.Summary
}

// SubmitAnswer evaluates the answer to the session's current question
// and advances the session. Concurrent submissions to the same session
// are serialized; a caller that cannot take the lock in time gets a
// SessionBusyError instead of an interleaved write.
func (o *Orchestrator) SubmitAnswer(ctx context.Context, sessionID, questionID, answer string) (*SubmitResult, error) {
	release, err := o.locks.acquire(ctx, sessionID, o.cfg.LockWait)
	if err != nil {
		return nil, err
	}
	defer release()

	session, err := o.store.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	current, err := session.CurrentQuestion()
	if err != nil {
		return nil, err
	}
	if current.ID != questionID {
		return nil, fmt.Errorf("question %s is not the current question of session %s", questionID, sessionID)
	}

	feedback, err := o.questions.Evaluate(ctx, *current, answer)
	if err != nil {
		return nil, err
	}

	next, err := session.RecordAnswer(questionID, answer, feedback)
	if err != nil {
		return nil, err
	}

	// Checkpoint write; on completion this is the final durable save.
	if err := o.store.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	result := &SubmitResult{
		Feedback: feedback,
		Next:     next,
		State:    session.State,
	}
	if session.State == interview.StateCompleted {
		o.metrics.IncrementSessionsCompleted()
		summary := session.Summarize()
		result.Summary = &summary
		o.logger.Info("session completed",
			"session_id", session.ID, "average_score", summary.AverageScore)
	}
	return result, nil
}

// Abandon terminates an in-progress session early and persists the
// terminal state.
func (o *Orchestrator) Abandon(ctx context.Context, sessionID string) error {
	release, err := o.locks.acquire(ctx, sessionID, o.cfg.LockWait)
	if err != nil {
		return err
	}
	defer release()

	session, err := o.store.LoadSession(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := session.Abandon(); err != nil {
		return err
	}

	if err := o.store.SaveSession(ctx, session); err != nil {
		return err
	}

	o.metrics.IncrementSessionsAbandoned()
	o.logger.Info("session abandoned", "session_id", sessionID)
	return nil
}

// Get returns the session as last persisted.
func (o *Orchestrator) Get(ctx context.Context, sessionID string) (*interview.Session, error) {
	return o.store.LoadSession(ctx, sessionID)
}

// Progress builds the cross-session progress report for a user.
func (o *Orchestrator) Progress(ctx context.Context, userID string) (*store.Progress, error) {
	return store.UserProgress(ctx, o.store, userID)
}
