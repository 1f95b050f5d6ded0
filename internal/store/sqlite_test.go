package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/prepdeck/backend/internal/domain/interview"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSession(t *testing.T, userID string) *interview.Session {
	t.Helper()
	questions := []interview.Question{
		interview.NewQuestion("What is a goroutine?", interview.CategoryTechnical, interview.DifficultyMedium,
			[]string{"concurrency"}, []string{"lightweight thread"}, []string{"How are they scheduled?"}),
		interview.NewQuestion("Tell me about a conflict.", interview.CategoryBehavioral, interview.DifficultyMedium,
			[]string{"teamwork"}, []string{"specific example"}, nil),
	}
	s, err := interview.NewSession(userID, "backend engineer", interview.DifficultyMedium, questions)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func TestSaveLoadSession_Roundtrip(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)

	s := sampleSession(t, "user-1")
	q, _ := s.Begin()
	s.RecordAnswer(q.ID, "A goroutine is a lightweight thread.", &interview.FeedbackResult{
		Score:        82,
		Strengths:    []string{"accurate"},
		Improvements: []string{"mention the scheduler"},
		Detail:       "Good answer.",
	})

	if err := db.SaveSession(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := db.LoadSession(ctx, s.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.State != interview.StateInProgress {
		t.Errorf("expected in_progress, got %s", loaded.State)
	}
	if loaded.Current != 1 {
		t.Errorf("expected current 1, got %d", loaded.Current)
	}
	if len(loaded.Attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(loaded.Attempts))
	}
	first := loaded.Attempts[0]
	if first.Answer != "A goroutine is a lightweight thread." {
		t.Errorf("answer not preserved: %q", first.Answer)
	}
	if first.Feedback == nil || first.Feedback.Score != 82 {
		t.Errorf("feedback not preserved: %+v", first.Feedback)
	}
	if first.Question.Text != "What is a goroutine?" {
		t.Errorf("question not preserved: %q", first.Question.Text)
	}
	if loaded.StartedAt == nil {
		t.Error("expected StartedAt to roundtrip")
	}
	if loaded.Attempts[1].Feedback != nil {
		t.Error("unanswered attempt must have no feedback")
	}
}

func TestSaveSession_CheckpointOverwrites(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)

	s := sampleSession(t, "user-1")
	if err := db.SaveSession(ctx, s); err != nil {
		t.Fatalf("save created: %v", err)
	}

	q, _ := s.Begin()
	s.RecordAnswer(q.ID, "answer", &interview.FeedbackResult{Score: 50})
	if err := db.SaveSession(ctx, s); err != nil {
		t.Fatalf("save checkpoint: %v", err)
	}

	loaded, err := db.LoadSession(ctx, s.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.State != interview.StateInProgress || loaded.Current != 1 {
		t.Errorf("checkpoint not applied: state=%s current=%d", loaded.State, loaded.Current)
	}
}

func TestLoadSession_NotFound(t *testing.T) {
	db := newTestStore(t)

	_, err := db.LoadSession(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListUserSessions_OrderAndIsolation(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)

	first := sampleSession(t, "user-1")
	second := sampleSession(t, "user-1")
	second.CreatedAt = first.CreatedAt.Add(1) // force distinct ordering
	other := sampleSession(t, "user-2")

	for _, s := range []*interview.Session{first, second, other} {
		if err := db.SaveSession(ctx, s); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	sessions, err := db.ListUserSessions(ctx, "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != first.ID {
		t.Error("expected oldest session first")
	}
}

func TestPregenerated_TakeClaimsExclusively(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)

	qs := []interview.Question{
		interview.NewQuestion("Q1", interview.CategoryTechnical, interview.DifficultyEasy, nil, nil, nil),
		interview.NewQuestion("Q2", interview.CategoryTechnical, interview.DifficultyEasy, nil, nil, nil),
		interview.NewQuestion("Q3", interview.CategoryTechnical, interview.DifficultyEasy, nil, nil, nil),
	}
	if err := db.SavePregenerated(ctx, "backend engineer", interview.CategoryTechnical, interview.DifficultyEasy, qs); err != nil {
		t.Fatalf("save pregenerated: %v", err)
	}

	taken, err := db.TakePregenerated(ctx, "backend engineer", interview.CategoryTechnical, interview.DifficultyEasy, 2)
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if len(taken) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(taken))
	}

	rest, err := db.TakePregenerated(ctx, "backend engineer", interview.CategoryTechnical, interview.DifficultyEasy, 5)
	if err != nil {
		t.Fatalf("take rest: %v", err)
	}
	if len(rest) != 1 {
		t.Errorf("expected 1 remaining question, got %d", len(rest))
	}

	// Different tuple sees nothing.
	none, err := db.TakePregenerated(ctx, "data scientist", interview.CategoryTechnical, interview.DifficultyEasy, 5)
	if err != nil {
		t.Fatalf("take other tuple: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no questions for other tuple, got %d", len(none))
	}
}

func TestBuildProgress(t *testing.T) {
	s1 := sampleSession(t, "user-1")
	q, _ := s1.Begin()
	q, _ = s1.RecordAnswer(q.ID, "a", &interview.FeedbackResult{
		Score: 60, Strengths: []string{"clarity"}, Improvements: []string{"depth"},
	})
	s1.RecordAnswer(q.ID, "b", &interview.FeedbackResult{
		Score: 80, Strengths: []string{"clarity"}, Improvements: []string{"examples"},
	})

	s2 := sampleSession(t, "user-1")
	q2, _ := s2.Begin()
	s2.RecordAnswer(q2.ID, "c", &interview.FeedbackResult{
		Score: 90, Strengths: []string{"depth"}, Improvements: []string{"depth"},
	})

	p := BuildProgress("user-1", []*interview.Session{s1, s2})

	if p.TotalAttempted != 3 {
		t.Errorf("expected 3 attempted, got %d", p.TotalAttempted)
	}
	if p.ByCategory[interview.CategoryTechnical] != 2 {
		t.Errorf("expected 2 technical, got %d", p.ByCategory[interview.CategoryTechnical])
	}
	if p.ByCategory[interview.CategoryBehavioral] != 1 {
		t.Errorf("expected 1 behavioral, got %d", p.ByCategory[interview.CategoryBehavioral])
	}
	if want := (60.0 + 80.0 + 90.0) / 3.0; p.AverageScore != want {
		t.Errorf("expected average %.2f, got %.2f", want, p.AverageScore)
	}
	if len(p.Trend) != 2 || p.Trend[0] != 70 || p.Trend[1] != 90 {
		t.Errorf("unexpected trend: %v", p.Trend)
	}
	if len(p.Strengths) == 0 || p.Strengths[0] != "clarity" {
		t.Errorf("expected clarity as top strength, got %v", p.Strengths)
	}
	if len(p.Weaknesses) == 0 || p.Weaknesses[0] != "depth" {
		t.Errorf("expected depth as top weakness, got %v", p.Weaknesses)
	}
}
