package interview

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle state of an interview session.
type State string

const (
	StateCreated    State = "created"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateAbandoned  State = "abandoned"
)

// Terminal reports whether no further mutation is allowed.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateAbandoned
}

// ClosedError is returned when an operation targets a session in a
// terminal state.
type ClosedError struct {
	SessionID string
	State     State
}

func (e *ClosedError) Error() string {
	return fmt.Sprintf("session %s is %s and cannot be modified", e.SessionID, e.State)
}

// TransitionError is returned when an operation is not valid for the
// session's current (non-terminal) state.
type TransitionError struct {
	SessionID string
	State     State
	Op        string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s session %s in state %s", e.Op, e.SessionID, e.State)
}

// QuestionAttempt pairs a planned question with the candidate's answer
// and its evaluation. Feedback is only ever set together with an answer.
type QuestionAttempt struct {
	Question   Question
	Answer     string
	Feedback   *FeedbackResult
	AnsweredAt *time.Time
}

// Answered reports whether the attempt has been completed.
func (a *QuestionAttempt) Answered() bool {
	return a.Feedback != nil
}

// Session is one end-to-end mock interview for a single candidate.
// It is mutated by exactly one caller at a time; serialization is the
// orchestrator's responsibility.
type Session struct {
	ID         string
	UserID     string
	Role       string
	Difficulty Difficulty
	State      State
	Attempts   []QuestionAttempt
	Current    int
	CreatedAt  time.Time
	StartedAt  *time.Time
	EndedAt    *time.Time
}

// NewSession creates a session in the Created state with its full list
// of planned questions.
func NewSession(userID, role string, difficulty Difficulty, questions []Question) (*Session, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("session requires at least one question")
	}

	attempts := make([]QuestionAttempt, len(questions))
	for i, q := range questions {
		attempts[i] = QuestionAttempt{Question: q}
	}

	return &Session{
		ID:         uuid.NewString(),
		UserID:     userID,
		Role:       role,
		Difficulty: difficulty,
		State:      StateCreated,
		Attempts:   attempts,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Begin delivers the first question and moves the session to InProgress.
func (s *Session) Begin() (*Question, error) {
	if s.State.Terminal() {
		return nil, &ClosedError{SessionID: s.ID, State: s.State}
	}
	if s.State != StateCreated {
		return nil, &TransitionError{SessionID: s.ID, State: s.State, Op: "begin"}
	}

	now := time.Now().UTC()
	s.State = StateInProgress
	s.StartedAt = &now
	return &s.Attempts[s.Current].Question, nil
}

// CurrentQuestion returns the question awaiting an answer.
func (s *Session) CurrentQuestion() (*Question, error) {
	if s.State.Terminal() {
		return nil, &ClosedError{SessionID: s.ID, State: s.State}
	}
	if s.State != StateInProgress {
		return nil, &TransitionError{SessionID: s.ID, State: s.State, Op: "ask"}
	}
	return &s.Attempts[s.Current].Question, nil
}

// RecordAnswer stores the answer and its feedback for the current question
// and advances the session. When the last planned question is answered the
// session becomes Completed. Returns the next question, or nil when the
// session is done.
func (s *Session) RecordAnswer(questionID, answer string, feedback *FeedbackResult) (*Question, error) {
	if s.State.Terminal() {
		return nil, &ClosedError{SessionID: s.ID, State: s.State}
	}
	if s.State != StateInProgress {
		return nil, &TransitionError{SessionID: s.ID, State: s.State, Op: "answer"}
	}

	current := &s.Attempts[s.Current]
	if questionID != current.Question.ID {
		return nil, fmt.Errorf("question %s is not the current question of session %s", questionID, s.ID)
	}
	if strings.TrimSpace(answer) == "" {
		return nil, fmt.Errorf("answer must not be empty")
	}
	if feedback == nil {
		return nil, fmt.Errorf("feedback is required to record an answer")
	}
	if err := feedback.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	current.Answer = answer
	current.Feedback = feedback
	current.AnsweredAt = &now

	s.Current++
	if s.Current >= len(s.Attempts) {
		s.State = StateCompleted
		s.EndedAt = &now
		return nil, nil
	}
	return &s.Attempts[s.Current].Question, nil
}

// Abandon terminates an in-progress session early. Terminal.
func (s *Session) Abandon() error {
	if s.State.Terminal() {
		return &ClosedError{SessionID: s.ID, State: s.State}
	}
	if s.State != StateInProgress {
		return &TransitionError{SessionID: s.ID, State: s.State, Op: "abandon"}
	}

	now := time.Now().UTC()
	s.State = StateAbandoned
	s.EndedAt = &now
	return nil
}

// Summary aggregates the session's scores.
type Summary struct {
	SessionID         string
	State             State
	QuestionsAnswered int
	TotalQuestions    int
	AverageScore      float64
	HighestScore      float64
	LowestScore       float64
}

// Summarize computes the performance summary over answered attempts.
func (s *Session) Summarize() Summary {
	sum := Summary{
		SessionID:      s.ID,
		State:          s.State,
		TotalQuestions: len(s.Attempts),
	}

	var total float64
	for _, a := range s.Attempts {
		if !a.Answered() {
			continue
		}
		score := a.Feedback.Score
		if sum.QuestionsAnswered == 0 || score > sum.HighestScore {
			sum.HighestScore = score
		}
		if sum.QuestionsAnswered == 0 || score < sum.LowestScore {
			sum.LowestScore = score
		}
		total += score
		sum.QuestionsAnswered++
	}

	if sum.QuestionsAnswered > 0 {
		sum.AverageScore = total / float64(sum.QuestionsAnswered)
	}
	return sum
}
