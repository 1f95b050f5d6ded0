package store

import (
	"context"
	"sync"

	"github.com/prepdeck/backend/internal/domain/interview"
)

// MemoryStore is an in-memory Store for tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*interview.Session
	order    []string // session IDs in save order
	pregen   map[pregenKey][]interview.Question
}

type pregenKey struct {
	role       string
	category   interview.Category
	difficulty interview.Difficulty
}

var _ Store = (*MemoryStore)(nil)

func NewMemory() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*interview.Session),
		pregen:   make(map[pregenKey][]interview.Question),
	}
}

func (m *MemoryStore) SaveSession(_ context.Context, s *interview.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[s.ID]; !exists {
		m.order = append(m.order, s.ID)
	}
	m.sessions[s.ID] = cloneSession(s)
	return nil
}

func (m *MemoryStore) LoadSession(_ context.Context, id string) (*interview.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneSession(s), nil
}

func (m *MemoryStore) ListUserSessions(_ context.Context, userID string) ([]*interview.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*interview.Session
	for _, id := range m.order {
		if s := m.sessions[id]; s.UserID == userID {
			out = append(out, cloneSession(s))
		}
	}
	return out, nil
}

func (m *MemoryStore) SavePregenerated(_ context.Context, role string, category interview.Category, difficulty interview.Difficulty, qs []interview.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := pregenKey{role, category, difficulty}
	m.pregen[key] = append(m.pregen[key], qs...)
	return nil
}

func (m *MemoryStore) TakePregenerated(_ context.Context, role string, category interview.Category, difficulty interview.Difficulty, count int) ([]interview.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := pregenKey{role, category, difficulty}
	available := m.pregen[key]
	if count > len(available) {
		count = len(available)
	}

	taken := make([]interview.Question, count)
	copy(taken, available[:count])
	m.pregen[key] = available[count:]
	return taken, nil
}

func (m *MemoryStore) Close() error { return nil }

// cloneSession deep-copies a session so callers and the store never
// share mutable state.
func cloneSession(s *interview.Session) *interview.Session {
	out := *s
	out.Attempts = make([]interview.QuestionAttempt, len(s.Attempts))
	for i, a := range s.Attempts {
		attempt := a
		attempt.Question.Topics = append([]string(nil), a.Question.Topics...)
		attempt.Question.ExpectedPoints = append([]string(nil), a.Question.ExpectedPoints...)
		attempt.Question.FollowUps = append([]string(nil), a.Question.FollowUps...)
		if a.Feedback != nil {
			fb := *a.Feedback
			fb.Strengths = append([]string(nil), a.Feedback.Strengths...)
			fb.Improvements = append([]string(nil), a.Feedback.Improvements...)
			fb.Resources = append([]string(nil), a.Feedback.Resources...)
			attempt.Feedback = &fb
		}
		if a.AnsweredAt != nil {
			t := *a.AnsweredAt
			attempt.AnsweredAt = &t
		}
		out.Attempts[i] = attempt
	}
	if s.StartedAt != nil {
		t := *s.StartedAt
		out.StartedAt = &t
	}
	if s.EndedAt != nil {
		t := *s.EndedAt
		out.EndedAt = &t
	}
	return &out
}
