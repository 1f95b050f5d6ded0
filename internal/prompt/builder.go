// Package prompt builds the textual prompts sent to the generative
// provider. Building is deterministic: the same inputs always produce the
// same string, so provider-level caching stays effective.
package prompt

import (
	"fmt"
	"strings"

	"github.com/prepdeck/backend/internal/domain/interview"
)

// System prompts set the provider's role for each call type.
const (
	SystemInterviewer = "You are an expert technical interviewer and career coach."
	SystemEvaluator   = "You are an expert interview evaluator providing constructive feedback."
	SystemCoach       = "You are a career coach specializing in interview preparation."
)

// MaxQuestionCount bounds a single generation batch.
const MaxQuestionCount = 20

// InvalidParameterError reports a caller input the builder rejected.
// It is never retried.
type InvalidParameterError struct {
	Param  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Param, e.Reason)
}

// Builder produces prompts for question generation, answer evaluation,
// and interview tips. It is stateless and safe for concurrent use.
type Builder struct{}

// Questions builds the prompt for generating count questions for a role.
// Topics, when present, are included in caller order.
func (Builder) Questions(role string, category interview.Category, difficulty interview.Difficulty, count int, topics []string) (string, error) {
	if strings.TrimSpace(role) == "" {
		return "", &InvalidParameterError{Param: "role", Reason: "must not be empty"}
	}
	if _, err := interview.ParseCategory(string(category)); err != nil {
		return "", &InvalidParameterError{Param: "category", Reason: err.Error()}
	}
	if _, err := interview.ParseDifficulty(string(difficulty)); err != nil {
		return "", &InvalidParameterError{Param: "difficulty", Reason: err.Error()}
	}
	if count <= 0 {
		return "", &InvalidParameterError{Param: "count", Reason: "must be positive"}
	}
	if count > MaxQuestionCount {
		return "", &InvalidParameterError{Param: "count", Reason: fmt.Sprintf("must be at most %d", MaxQuestionCount)}
	}

	topicsClause := ""
	if len(topics) > 0 {
		topicsClause = fmt.Sprintf(" focusing on %s", strings.Join(topics, ", "))
	}

	return fmt.Sprintf(`Generate %d %s %s interview questions for a %s position%s.

For each question, provide:
1. The question itself
2. 3-5 key points that should be in a good answer
3. 2-3 relevant topics/skills tested
4. 2 follow-up questions

Return the response as a JSON object with this structure:
{
  "questions": [
    {
      "question": "...",
      "expected_answer_points": ["point1", "point2"],
      "topics": ["topic1", "topic2"],
      "follow_up_questions": ["followup1", "followup2"]
    }
  ]
}`, count, difficulty, category, role, topicsClause), nil
}

// Feedback builds the prompt for evaluating a candidate answer against
// the question's expected key points.
func (Builder) Feedback(q interview.Question, answer string) (string, error) {
	if strings.TrimSpace(answer) == "" {
		return "", &InvalidParameterError{Param: "answer", Reason: "must not be empty"}
	}

	return fmt.Sprintf(`Evaluate this interview answer:

Question: %s
Expected key points: %s
Candidate's answer: %s

Provide a detailed evaluation with:
1. Score (0-100)
2. 2-3 specific strengths
3. 2-3 areas for improvement
4. Detailed feedback paragraph
5. 2-3 suggested learning resources
6. A model answer

Return as JSON:
{
  "score": 85,
  "strengths": ["...", "..."],
  "areas_for_improvement": ["...", "..."],
  "detailed_feedback": "...",
  "suggested_resources": ["...", "..."],
  "model_answer": "..."
}`, q.Text, strings.Join(q.ExpectedPoints, ", "), answer), nil
}

// Tips builds the prompt for category-specific interview advice.
func (Builder) Tips(category interview.Category) (string, error) {
	if _, err := interview.ParseCategory(string(category)); err != nil {
		return "", &InvalidParameterError{Param: "category", Reason: err.Error()}
	}

	return fmt.Sprintf("Provide 5 expert tips for answering %s interview questions effectively. Make them actionable and specific.", category), nil
}
