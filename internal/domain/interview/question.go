package interview

import (
	"fmt"

	"github.com/google/uuid"
)

// Category is the kind of interview question.
type Category string

const (
	CategoryTechnical  Category = "technical"
	CategoryBehavioral Category = "behavioral"
	CategoryHR         Category = "hr"
)

// Categories lists every recognized category in canonical order.
var Categories = []Category{CategoryTechnical, CategoryBehavioral, CategoryHR}

// ParseCategory validates a caller-supplied category string.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryTechnical, CategoryBehavioral, CategoryHR:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Difficulty is the requested question difficulty.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty validates a caller-supplied difficulty string.
// An empty string defaults to medium.
func ParseDifficulty(s string) (Difficulty, error) {
	if s == "" {
		return DifficultyMedium, nil
	}
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s), nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// Question is a single generated interview question.
type Question struct {
	ID             string
	Text           string
	Category       Category
	Difficulty     Difficulty
	Topics         []string
	ExpectedPoints []string
	FollowUps      []string
}

// NewQuestion assigns a fresh ID to generated question content.
func NewQuestion(text string, category Category, difficulty Difficulty, topics, expectedPoints, followUps []string) Question {
	return Question{
		ID:             uuid.NewString(),
		Text:           text,
		Category:       category,
		Difficulty:     difficulty,
		Topics:         topics,
		ExpectedPoints: expectedPoints,
		FollowUps:      followUps,
	}
}
