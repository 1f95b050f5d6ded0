package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/prepdeck/backend/internal/domain/interview"
)

func TestQuestions_Deterministic(t *testing.T) {
	var b Builder

	first, err := b.Questions("backend engineer", interview.CategoryTechnical, interview.DifficultyMedium, 5, []string{"Go", "databases"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 10; i++ {
		again, err := b.Questions("backend engineer", interview.CategoryTechnical, interview.DifficultyMedium, 5, []string{"Go", "databases"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again != first {
			t.Fatal("expected identical prompt for identical inputs")
		}
	}
}

func TestQuestions_MentionsAllParameters(t *testing.T) {
	var b Builder

	p, err := b.Questions("backend engineer", interview.CategoryTechnical, interview.DifficultyMedium, 5, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"backend engineer", "technical", "medium", "5"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt does not mention %q", want)
		}
	}
}

func TestQuestions_InvalidParameters(t *testing.T) {
	var b Builder

	cases := []struct {
		name       string
		role       string
		category   interview.Category
		difficulty interview.Difficulty
		count      int
	}{
		{"zero count", "engineer", interview.CategoryTechnical, interview.DifficultyMedium, 0},
		{"negative count", "engineer", interview.CategoryTechnical, interview.DifficultyMedium, -3},
		{"count over limit", "engineer", interview.CategoryTechnical, interview.DifficultyMedium, 21},
		{"unknown category", "engineer", interview.Category("quantum"), interview.DifficultyMedium, 5},
		{"unknown difficulty", "engineer", interview.CategoryTechnical, interview.Difficulty("brutal"), 5},
		{"blank role", "   ", interview.CategoryTechnical, interview.DifficultyMedium, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := b.Questions(tc.role, tc.category, tc.difficulty, tc.count, nil)
			var perr *InvalidParameterError
			if !errors.As(err, &perr) {
				t.Fatalf("expected InvalidParameterError, got %T (%v)", err, err)
			}
		})
	}
}

func TestQuestions_TopicsIncluded(t *testing.T) {
	var b Builder

	p, err := b.Questions("data scientist", interview.CategoryTechnical, interview.DifficultyHard, 3, []string{"statistics", "Python"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(p, "statistics, Python") {
		t.Error("expected topics clause in prompt")
	}
}

func TestFeedback_IncludesQuestionAndAnswer(t *testing.T) {
	var b Builder
	q := interview.NewQuestion("What is a goroutine?", interview.CategoryTechnical, interview.DifficultyEasy, nil,
		[]string{"lightweight thread", "managed by the runtime"}, nil)

	p, err := b.Feedback(q, "A goroutine is a lightweight thread.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(p, "What is a goroutine?") {
		t.Error("expected question text in prompt")
	}
	if !strings.Contains(p, "lightweight thread, managed by the runtime") {
		t.Error("expected key points in prompt")
	}
	if !strings.Contains(p, "A goroutine is a lightweight thread.") {
		t.Error("expected answer in prompt")
	}
}

func TestFeedback_RejectsBlankAnswer(t *testing.T) {
	var b Builder
	q := interview.NewQuestion("Q", interview.CategoryHR, interview.DifficultyEasy, nil, nil, nil)

	var perr *InvalidParameterError
	if _, err := b.Feedback(q, " \t\n "); !errors.As(err, &perr) {
		t.Fatalf("expected InvalidParameterError, got %v", err)
	}
}

func TestTips(t *testing.T) {
	var b Builder

	p, err := b.Tips(interview.CategoryBehavioral)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(p, "behavioral") {
		t.Error("expected category in tips prompt")
	}

	if _, err := b.Tips(interview.Category("nope")); err == nil {
		t.Error("expected error for unknown category")
	}
}
