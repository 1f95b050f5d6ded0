// Package store is the persistence boundary. The core only requires the
// Store contract; SQLite is one collaborator behind it.
package store

import (
	"context"
	"errors"
	"sort"

	"github.com/prepdeck/backend/internal/domain/interview"
)

var ErrNotFound = errors.New("not found")

// Store persists interview sessions and pregenerated question batches.
// SaveSession must provide at-least-once durability: callers save at
// checkpoints and re-save on completion.
type Store interface {
	SaveSession(ctx context.Context, s *interview.Session) error
	LoadSession(ctx context.Context, id string) (*interview.Session, error)
	// ListUserSessions returns a user's sessions ordered oldest first.
	ListUserSessions(ctx context.Context, userID string) ([]*interview.Session, error)

	SavePregenerated(ctx context.Context, role string, category interview.Category, difficulty interview.Difficulty, qs []interview.Question) error
	// TakePregenerated removes and returns up to count questions matching
	// the tuple. Fewer than count may be returned.
	TakePregenerated(ctx context.Context, role string, category interview.Category, difficulty interview.Difficulty, count int) ([]interview.Question, error)

	Close() error
}

// Progress aggregates a user's history across sessions.
type Progress struct {
	UserID         string
	TotalAttempted int
	ByCategory     map[interview.Category]int
	AverageScore   float64
	Strengths      []string
	Weaknesses     []string
	// Trend holds per-session average scores, oldest first.
	Trend []float64
}

// maxProgressHighlights caps the aggregated strength/weakness lists.
const maxProgressHighlights = 3

// BuildProgress computes a Progress report from a user's sessions,
// ordered oldest first.
func BuildProgress(userID string, sessions []*interview.Session) *Progress {
	p := &Progress{
		UserID:     userID,
		ByCategory: make(map[interview.Category]int),
	}

	var total float64
	strengthCount := make(map[string]int)
	weaknessCount := make(map[string]int)

	for _, s := range sessions {
		var sessionTotal float64
		var sessionAnswered int

		for _, a := range s.Attempts {
			if !a.Answered() {
				continue
			}
			p.TotalAttempted++
			p.ByCategory[a.Question.Category]++
			total += a.Feedback.Score
			sessionTotal += a.Feedback.Score
			sessionAnswered++

			for _, st := range a.Feedback.Strengths {
				strengthCount[st]++
			}
			for _, w := range a.Feedback.Improvements {
				weaknessCount[w]++
			}
		}

		if sessionAnswered > 0 {
			p.Trend = append(p.Trend, sessionTotal/float64(sessionAnswered))
		}
	}

	if p.TotalAttempted > 0 {
		p.AverageScore = total / float64(p.TotalAttempted)
	}
	p.Strengths = topByCount(strengthCount, maxProgressHighlights)
	p.Weaknesses = topByCount(weaknessCount, maxProgressHighlights)
	return p
}

// topByCount returns the n most frequent keys, ties broken alphabetically
// so the result is stable.
func topByCount(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

// UserProgress builds the progress report for a user from any Store.
func UserProgress(ctx context.Context, s Store, userID string) (*Progress, error) {
	sessions, err := s.ListUserSessions(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BuildProgress(userID, sessions), nil
}
