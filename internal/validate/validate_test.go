package validate

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func questionJSON(texts ...string) json.RawMessage {
	items := make([]string, len(texts))
	for i, text := range texts {
		items[i] = fmt.Sprintf(`{
			"question": %q,
			"expected_answer_points": ["point one", "point two"],
			"topics": ["general"],
			"follow_up_questions": ["why?"]
		}`, text)
	}
	return json.RawMessage(`{"questions":[` + strings.Join(items, ",") + `]}`)
}

func TestQuestions_Valid(t *testing.T) {
	raw := questionJSON("What is a goroutine?", "What is a channel?", "What is a mutex?")

	qs, verr := Questions(raw, 3)
	if verr != nil {
		t.Fatalf("unexpected error: %v", verr)
	}
	if len(qs) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(qs))
	}
	if qs[0].Question != "What is a goroutine?" {
		t.Errorf("unexpected first question: %q", qs[0].Question)
	}
	if len(qs[0].ExpectedAnswerPoints) != 2 {
		t.Errorf("expected answer points to be preserved")
	}
}

func TestQuestions_CountMismatch(t *testing.T) {
	raw := questionJSON("Q1", "Q2", "Q3")

	_, verr := Questions(raw, 5)
	if verr == nil {
		t.Fatal("expected error for 3 questions when 5 were requested")
	}
	// The schema pass catches the count first; the rule name depends on
	// which layer rejects, but an error must surface either way.
}

func TestQuestions_DuplicateCaseInsensitive(t *testing.T) {
	raw := questionJSON("What is a goroutine?", "WHAT IS A GOROUTINE?")

	_, verr := Questions(raw, 2)
	if verr == nil {
		t.Fatal("expected duplicate rejection")
	}
	if verr.Rule != "duplicate" {
		t.Errorf("expected duplicate rule, got %q", verr.Rule)
	}
}

func TestQuestions_EmptyText(t *testing.T) {
	raw := json.RawMessage(`{"questions":[{
		"question": "   ",
		"expected_answer_points": [],
		"topics": [],
		"follow_up_questions": []
	}]}`)

	if _, verr := Questions(raw, 1); verr == nil {
		t.Fatal("expected rejection of whitespace-only question")
	}
}

func TestQuestions_MalformedJSON(t *testing.T) {
	if _, verr := Questions(json.RawMessage(`Sure! Here are your questions: 1) ...`), 3); verr == nil {
		t.Fatal("expected rejection of non-JSON free text")
	}
}

func TestQuestions_Idempotent(t *testing.T) {
	raw := questionJSON("Q1", "q1")

	_, first := Questions(raw, 2)
	_, second := Questions(raw, 2)
	if first == nil || second == nil {
		t.Fatal("expected errors on both runs")
	}
	if first.Rule != second.Rule || first.Message != second.Message {
		t.Errorf("validation not idempotent: %v vs %v", first, second)
	}
}

func validFeedbackJSON(score float64) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{
		"score": %.1f,
		"strengths": ["clear structure"],
		"areas_for_improvement": ["add examples"],
		"detailed_feedback": "Good answer overall.",
		"suggested_resources": ["STAR method guide"],
		"model_answer": "A model answer."
	}`, score))
}

func TestFeedback_Valid(t *testing.T) {
	fb, verr := Feedback(validFeedbackJSON(85))
	if verr != nil {
		t.Fatalf("unexpected error: %v", verr)
	}
	if fb.Score != 85 {
		t.Errorf("expected score 85, got %.1f", fb.Score)
	}
	if len(fb.Strengths) != 1 || fb.Strengths[0] != "clear structure" {
		t.Errorf("strengths not preserved: %v", fb.Strengths)
	}
	if len(fb.Improvements) != 1 {
		t.Errorf("improvements not preserved: %v", fb.Improvements)
	}
}

func TestFeedback_ScoreBounds(t *testing.T) {
	for _, score := range []float64{-1, 101, 250} {
		if _, verr := Feedback(validFeedbackJSON(score)); verr == nil {
			t.Errorf("expected rejection of score %.1f", score)
		}
	}
	for _, score := range []float64{0, 100} {
		if _, verr := Feedback(validFeedbackJSON(score)); verr != nil {
			t.Errorf("expected score %.1f to pass, got %v", score, verr)
		}
	}
}

func TestFeedback_MissingScore(t *testing.T) {
	raw := json.RawMessage(`{"strengths": [], "areas_for_improvement": [], "detailed_feedback": "x"}`)
	if _, verr := Feedback(raw); verr == nil {
		t.Fatal("expected rejection when score is missing")
	}
}

func TestAnswer_Whitespace(t *testing.T) {
	for _, bad := range []string{"", "   ", "\t\n  \t"} {
		if verr := Answer(bad); verr == nil {
			t.Errorf("expected rejection of %q", bad)
		}
	}
	if verr := Answer("a real answer"); verr != nil {
		t.Errorf("unexpected rejection: %v", verr)
	}
}
