package interview

import "fmt"

// FeedbackResult is the evaluation of one answered question.
// Score is always present and bounded to [0,100]; the list fields keep
// the order the evaluator produced them in.
type FeedbackResult struct {
	Score        float64
	Strengths    []string
	Improvements []string
	Detail       string
	ModelAnswer  string
	Resources    []string
}

// Validate checks the structural invariants of a feedback result.
func (f *FeedbackResult) Validate() error {
	if f.Score < 0 || f.Score > 100 {
		return fmt.Errorf("score %.1f out of range [0,100]", f.Score)
	}
	return nil
}
