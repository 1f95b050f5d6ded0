// Package service holds the orchestration layer: question generation,
// answer evaluation, and the mock-interview session lifecycle.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/prepdeck/backend/internal/domain/interview"
	"github.com/prepdeck/backend/internal/metrics"
	"github.com/prepdeck/backend/internal/prompt"
	"github.com/prepdeck/backend/internal/provider"
	"github.com/prepdeck/backend/internal/store"
	"github.com/prepdeck/backend/internal/validate"
)

// GenerationConfig bounds the generation pipeline.
type GenerationConfig struct {
	// MaxRegenRounds is how many times malformed provider output may be
	// regenerated after the initial attempt.
	MaxRegenRounds int

	// CallTimeout is the hard deadline for a single provider call,
	// including its internal retries.
	CallTimeout time.Duration

	MaxTokens   int
	Temperature float64
}

// DefaultGenerationConfig returns the defaults used when configuration
// leaves values unset.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		MaxRegenRounds: 2,
		CallTimeout:    60 * time.Second,
		MaxTokens:      4096,
		Temperature:    0.7,
	}
}

// QuestionService produces questions and feedback through the
// prompt → provider → validate pipeline.
type QuestionService struct {
	provider provider.Provider
	prompts  prompt.Builder
	store    store.Store
	metrics  *metrics.Metrics
	logger   *slog.Logger
	cfg      GenerationConfig
}

func NewQuestionService(p provider.Provider, st store.Store, m *metrics.Metrics, logger *slog.Logger, cfg GenerationConfig) *QuestionService {
	if cfg.MaxRegenRounds < 0 {
		cfg.MaxRegenRounds = 0
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultGenerationConfig().CallTimeout
	}
	return &QuestionService{
		provider: p,
		store:    st,
		metrics:  m,
		logger:   logger,
		cfg:      cfg,
	}
}

// Generate returns count questions for the given role and category.
// Pregenerated questions are served first; the remainder is generated
// live with bounded regeneration on validation failure.
func (s *QuestionService) Generate(ctx context.Context, role string, category interview.Category, difficulty interview.Difficulty, count int, topics []string) ([]interview.Question, error) {
	// Build the prompt up front so parameter errors surface before any
	// store or provider work.
	userPrompt, err := s.prompts.Questions(role, category, difficulty, count, topics)
	if err != nil {
		return nil, err
	}

	var questions []interview.Question

	// Topic-scoped requests bypass the pregenerated bank; banked batches
	// are generated without topic focus.
	if len(topics) == 0 {
		banked, err := s.store.TakePregenerated(ctx, role, category, difficulty, count)
		if err != nil {
			s.logger.Warn("pregenerated lookup failed, generating live", "error", err)
		} else {
			questions = banked
		}
	}

	missing := count - len(questions)
	if missing > 0 {
		if missing != count {
			userPrompt, err = s.prompts.Questions(role, category, difficulty, missing, topics)
			if err != nil {
				return nil, err
			}
		}

		generated, err := s.generateBatch(ctx, userPrompt, role, category, difficulty, missing)
		if err != nil {
			// The banked questions were already claimed; put them back so
			// a failed top-up does not drain the bank.
			if len(questions) > 0 {
				if saveErr := s.store.SavePregenerated(ctx, role, category, difficulty, questions); saveErr != nil {
					s.logger.Warn("failed to return claimed questions to the bank",
						"role", role, "category", category, "count", len(questions), "error", saveErr)
				}
			}
			return nil, err
		}
		questions = append(questions, generated...)
	}

	s.metrics.AddQuestionsGenerated(len(questions))
	return questions, nil
}

// generateBatch runs the generation pipeline for one batch, regenerating
// on validation failure up to the configured bound.
func (s *QuestionService) generateBatch(ctx context.Context, userPrompt, role string, category interview.Category, difficulty interview.Difficulty, count int) ([]interview.Question, error) {
	req := provider.Request{
		System:      prompt.SystemInterviewer,
		Prompt:      userPrompt,
		Schema:      validate.QuestionsSchema(count),
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	var lastErr error
	rounds := s.cfg.MaxRegenRounds + 1

	for round := 1; round <= rounds; round++ {
		resp, err := s.generate(ctx, req)
		if err != nil {
			return nil, err
		}

		batch, verr := validate.Questions(resp.Content, count)
		if verr == nil {
			out := make([]interview.Question, len(batch))
			for i, q := range batch {
				out[i] = interview.NewQuestion(q.Question, category, difficulty, q.Topics, q.ExpectedAnswerPoints, q.FollowUpQuestions)
			}
			return out, nil
		}

		lastErr = verr
		s.metrics.IncrementValidationFailures()
		s.logger.Warn("question batch failed validation",
			"role", role, "category", category, "round", round, "error", verr)
	}

	return nil, &ValidationExhaustedError{Rounds: rounds, Last: lastErr}
}

// Evaluate scores a candidate answer against the question's expected
// points. The whitespace check runs before any provider call.
func (s *QuestionService) Evaluate(ctx context.Context, q interview.Question, answer string) (*interview.FeedbackResult, error) {
	if verr := validate.Answer(answer); verr != nil {
		return nil, verr
	}

	userPrompt, err := s.prompts.Feedback(q, answer)
	if err != nil {
		return nil, err
	}

	req := provider.Request{
		System:      prompt.SystemEvaluator,
		Prompt:      userPrompt,
		Schema:      validate.FeedbackSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: 0.5,
	}

	var lastErr error
	rounds := s.cfg.MaxRegenRounds + 1

	for round := 1; round <= rounds; round++ {
		resp, err := s.generate(ctx, req)
		if err != nil {
			return nil, err
		}

		fb, verr := validate.Feedback(resp.Content)
		if verr == nil {
			s.metrics.IncrementAnswersEvaluated()
			return fb, nil
		}

		lastErr = verr
		s.metrics.IncrementValidationFailures()
		s.logger.Warn("feedback failed validation",
			"question_id", q.ID, "round", round, "error", verr)
	}

	return nil, &ValidationExhaustedError{Rounds: rounds, Last: lastErr}
}

// Tips returns free-text advice for a question category. No schema is
// requested, so the raw provider text is passed through.
func (s *QuestionService) Tips(ctx context.Context, category interview.Category) (string, error) {
	userPrompt, err := s.prompts.Tips(category)
	if err != nil {
		return "", err
	}

	resp, err := s.generate(ctx, provider.Request{
		System:      prompt.SystemCoach,
		Prompt:      userPrompt,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	return string(resp.Content), nil
}

// generate performs one provider call under the per-call deadline.
func (s *QuestionService) generate(ctx context.Context, req provider.Request) (*provider.Response, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()
	return s.provider.Generate(callCtx, req)
}
