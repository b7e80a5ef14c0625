package planner

import (
	"errors"
	"fmt"
)

// Sentinel errors for classifying service failures with errors.Is.
var (
	// ErrRulesNotFound marks a request that named a rules document that does
	// not exist. It is an invalid-argument failure.
	ErrRulesNotFound = errors.New("rules not found")
	// ErrUnavailable marks a failure of the generation API.
	ErrUnavailable = errors.New("generation unavailable")
)

// NotFoundError reports a missing rules document.
type NotFoundError struct {
	RulesID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("rules not found: %s", e.RulesID)
}

// Is matches ErrRulesNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrRulesNotFound
}

// UnavailableError reports a failed generation call. Op names what was being
// generated ("RFC" or "tasks").
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("failed to generate %s from Gemini: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Is matches ErrUnavailable.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}
