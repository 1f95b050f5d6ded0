package service

import "fmt"

// ValidationExhaustedError is surfaced when provider output never
// conformed to the expected shape within the configured number of
// regeneration rounds.
type ValidationExhaustedError struct {
	Rounds int
	Last   error
}

func (e *ValidationExhaustedError) Error() string {
	return fmt.Sprintf("provider output failed validation after %d rounds: %v", e.Rounds, e.Last)
}

func (e *ValidationExhaustedError) Unwrap() error { return e.Last }

// SessionBusyError rejects a mutation because another operation on the
// same session is already in flight.
type SessionBusyError struct {
	SessionID string
}

func (e *SessionBusyError) Error() string {
	return fmt.Sprintf("session %s has another operation in flight", e.SessionID)
}
