package interview_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/prepdeck/backend/internal/domain/interview"
)

func testQuestions(n int) []interview.Question {
	qs := make([]interview.Question, n)
	for i := range qs {
		qs[i] = interview.NewQuestion(
			fmt.Sprintf("Question %d", i+1),
			interview.CategoryTechnical,
			interview.DifficultyMedium,
			[]string{"general"},
			[]string{"point"},
			nil,
		)
	}
	return qs
}

func goodFeedback(score float64) *interview.FeedbackResult {
	return &interview.FeedbackResult{
		Score:        score,
		Strengths:    []string{"clear"},
		Improvements: []string{"more detail"},
	}
}

func TestNewSession_StartsCreated(t *testing.T) {
	s, err := interview.NewSession("user-1", "backend engineer", interview.DifficultyMedium, testQuestions(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.State != interview.StateCreated {
		t.Errorf("expected state created, got %s", s.State)
	}
	if s.ID == "" {
		t.Error("expected non-empty ID")
	}
	if len(s.Attempts) != 3 {
		t.Errorf("expected 3 attempts, got %d", len(s.Attempts))
	}
}

func TestNewSession_RequiresQuestions(t *testing.T) {
	if _, err := interview.NewSession("user-1", "backend engineer", interview.DifficultyMedium, nil); err == nil {
		t.Fatal("expected error for empty question list")
	}
}

func TestBegin_MovesToInProgress(t *testing.T) {
	s, _ := interview.NewSession("user-1", "backend engineer", interview.DifficultyMedium, testQuestions(2))

	q, err := s.Begin()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.State != interview.StateInProgress {
		t.Errorf("expected in_progress, got %s", s.State)
	}
	if q.ID != s.Attempts[0].Question.ID {
		t.Error("expected first question to be delivered")
	}
	if s.StartedAt == nil {
		t.Error("expected StartedAt to be set")
	}
}

func TestRecordAnswer_RequiresBegin(t *testing.T) {
	// A session cannot go straight from Created to Completed.
	s, _ := interview.NewSession("user-1", "backend engineer", interview.DifficultyMedium, testQuestions(1))

	_, err := s.RecordAnswer(s.Attempts[0].Question.ID, "my answer", goodFeedback(80))
	var terr *interview.TransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransitionError, got %T (%v)", err, err)
	}
	if s.State != interview.StateCreated {
		t.Errorf("state must not change on rejected operation, got %s", s.State)
	}
}

func TestRecordAnswer_AdvancesAndCompletes(t *testing.T) {
	s, _ := interview.NewSession("user-1", "backend engineer", interview.DifficultyMedium, testQuestions(2))
	first, _ := s.Begin()

	next, err := s.RecordAnswer(first.ID, "answer one", goodFeedback(70))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next == nil {
		t.Fatal("expected a next question")
	}
	if s.State != interview.StateInProgress {
		t.Errorf("expected in_progress after first answer, got %s", s.State)
	}

	last, err := s.RecordAnswer(next.ID, "answer two", goodFeedback(90))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if last != nil {
		t.Error("expected no next question after the last answer")
	}
	if s.State != interview.StateCompleted {
		t.Errorf("expected completed, got %s", s.State)
	}
	if s.EndedAt == nil {
		t.Error("expected EndedAt to be set")
	}
}

func TestRecordAnswer_RejectsWrongQuestion(t *testing.T) {
	s, _ := interview.NewSession("user-1", "backend engineer", interview.DifficultyMedium, testQuestions(2))
	s.Begin()

	// Second question is not current yet.
	if _, err := s.RecordAnswer(s.Attempts[1].Question.ID, "answer", goodFeedback(50)); err == nil {
		t.Fatal("expected error for out-of-order answer")
	}
}

func TestRecordAnswer_FeedbackInvariants(t *testing.T) {
	s, _ := interview.NewSession("user-1", "backend engineer", interview.DifficultyMedium, testQuestions(1))
	q, _ := s.Begin()

	if _, err := s.RecordAnswer(q.ID, "answer", nil); err == nil {
		t.Error("expected error when feedback is missing")
	}
	if _, err := s.RecordAnswer(q.ID, "answer", goodFeedback(120)); err == nil {
		t.Error("expected error for out-of-range score")
	}
	if _, err := s.RecordAnswer(q.ID, "   ", goodFeedback(50)); err == nil {
		t.Error("expected error for blank answer")
	}
	if s.Attempts[0].Feedback != nil {
		t.Error("feedback must not be set when recording fails")
	}
}

func TestTerminalStates_RejectAllOperations(t *testing.T) {
	completed, _ := interview.NewSession("user-1", "backend engineer", interview.DifficultyMedium, testQuestions(1))
	q, _ := completed.Begin()
	completed.RecordAnswer(q.ID, "answer", goodFeedback(80))

	abandoned, _ := interview.NewSession("user-1", "backend engineer", interview.DifficultyMedium, testQuestions(1))
	abandoned.Begin()
	abandoned.Abandon()

	for _, s := range []*interview.Session{completed, abandoned} {
		var closed *interview.ClosedError

		if _, err := s.Begin(); !errors.As(err, &closed) {
			t.Errorf("Begin on %s: expected ClosedError, got %v", s.State, err)
		}
		if _, err := s.RecordAnswer(s.Attempts[0].Question.ID, "late", goodFeedback(10)); !errors.As(err, &closed) {
			t.Errorf("RecordAnswer on %s: expected ClosedError, got %v", s.State, err)
		}
		if err := s.Abandon(); !errors.As(err, &closed) {
			t.Errorf("Abandon on %s: expected ClosedError, got %v", s.State, err)
		}
	}
}

func TestAbandon_OnlyFromInProgress(t *testing.T) {
	s, _ := interview.NewSession("user-1", "backend engineer", interview.DifficultyMedium, testQuestions(1))

	var terr *interview.TransitionError
	if err := s.Abandon(); !errors.As(err, &terr) {
		t.Fatalf("expected TransitionError for abandon before begin, got %v", err)
	}

	s.Begin()
	if err := s.Abandon(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.State != interview.StateAbandoned {
		t.Errorf("expected abandoned, got %s", s.State)
	}
}

func TestSummarize(t *testing.T) {
	s, _ := interview.NewSession("user-1", "backend engineer", interview.DifficultyMedium, testQuestions(3))
	q, _ := s.Begin()
	q, _ = s.RecordAnswer(q.ID, "a", goodFeedback(60))
	s.RecordAnswer(q.ID, "b", goodFeedback(90))
	s.Abandon()

	sum := s.Summarize()
	if sum.QuestionsAnswered != 2 {
		t.Errorf("expected 2 answered, got %d", sum.QuestionsAnswered)
	}
	if sum.AverageScore != 75 {
		t.Errorf("expected average 75, got %.1f", sum.AverageScore)
	}
	if sum.HighestScore != 90 || sum.LowestScore != 60 {
		t.Errorf("unexpected high/low: %.1f/%.1f", sum.HighestScore, sum.LowestScore)
	}
}

func TestParseCategory(t *testing.T) {
	for _, valid := range []string{"technical", "behavioral", "hr"} {
		if _, err := interview.ParseCategory(valid); err != nil {
			t.Errorf("expected %q to parse, got %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "system_design", "Technical"} {
		if _, err := interview.ParseCategory(invalid); err == nil {
			t.Errorf("expected %q to be rejected", invalid)
		}
	}
}
