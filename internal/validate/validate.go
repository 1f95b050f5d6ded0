// Package validate parses and verifies raw provider output against the
// expected structured shapes. Validation is pure: the same raw input
// always yields the same result.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prepdeck/backend/internal/domain/interview"
)

// ValidationError describes why provider output was rejected.
type ValidationError struct {
	Rule    string // which check failed, e.g. "schema", "count", "duplicate"
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%s): %s", e.Rule, e.Message)
}

// GeneratedQuestion is the provider's wire shape for one question.
type GeneratedQuestion struct {
	Question             string   `json:"question"`
	ExpectedAnswerPoints []string `json:"expected_answer_points"`
	Topics               []string `json:"topics"`
	FollowUpQuestions    []string `json:"follow_up_questions"`
}

type questionBatch struct {
	Questions []GeneratedQuestion `json:"questions"`
}

// Questions checks a generated batch: schema conformance, exactly want
// items, non-empty text, and no duplicates (case-insensitive exact match).
func Questions(raw json.RawMessage, want int) ([]GeneratedQuestion, *ValidationError) {
	if verr := checkSchema(QuestionsSchema(want), raw); verr != nil {
		return nil, verr
	}

	var batch questionBatch
	if err := json.Unmarshal(raw, &batch); err != nil {
		return nil, &ValidationError{Rule: "json", Message: err.Error()}
	}

	if len(batch.Questions) != want {
		return nil, &ValidationError{
			Rule:    "count",
			Message: fmt.Sprintf("expected %d questions, got %d", want, len(batch.Questions)),
		}
	}

	seen := make(map[string]int, want)
	for i, q := range batch.Questions {
		text := strings.TrimSpace(q.Question)
		if text == "" {
			return nil, &ValidationError{
				Rule:    "empty",
				Message: fmt.Sprintf("question %d is empty", i+1),
			}
		}
		key := strings.ToLower(text)
		if prev, dup := seen[key]; dup {
			return nil, &ValidationError{
				Rule:    "duplicate",
				Message: fmt.Sprintf("question %d duplicates question %d: %q", i+1, prev+1, text),
			}
		}
		seen[key] = i
	}

	return batch.Questions, nil
}

type feedbackWire struct {
	Score               float64  `json:"score"`
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areas_for_improvement"`
	DetailedFeedback    string   `json:"detailed_feedback"`
	SuggestedResources  []string `json:"suggested_resources"`
	ModelAnswer         string   `json:"model_answer"`
}

// Feedback checks an evaluation result: schema conformance plus the
// score bound, then maps it to the domain type.
func Feedback(raw json.RawMessage) (*interview.FeedbackResult, *ValidationError) {
	if verr := checkSchema(FeedbackSchema, raw); verr != nil {
		return nil, verr
	}

	var wire feedbackWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, &ValidationError{Rule: "json", Message: err.Error()}
	}

	// The schema already bounds the score; keep the explicit check so a
	// relaxed schema cannot silently admit out-of-range values.
	if wire.Score < 0 || wire.Score > 100 {
		return nil, &ValidationError{
			Rule:    "score",
			Message: fmt.Sprintf("score %.1f out of range [0,100]", wire.Score),
		}
	}

	return &interview.FeedbackResult{
		Score:        wire.Score,
		Strengths:    wire.Strengths,
		Improvements: wire.AreasForImprovement,
		Detail:       wire.DetailedFeedback,
		ModelAnswer:  wire.ModelAnswer,
		Resources:    wire.SuggestedResources,
	}, nil
}

// Answer rejects candidate answers containing only whitespace. Runs
// before any provider call is made.
func Answer(text string) *ValidationError {
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Rule: "answer", Message: "answer contains only whitespace"}
	}
	return nil
}
