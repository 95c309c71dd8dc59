package prompts

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrDuplicateID indicates two catalog entries share an id.
	ErrDuplicateID = errors.New("duplicate prompt id")

	// ErrInvalidSpec indicates a catalog entry is malformed.
	ErrInvalidSpec = errors.New("invalid prompt spec")

	// ErrAmbiguousActive indicates two active entries of one intent have
	// equal versions.
	ErrAmbiguousActive = errors.New("ambiguous active prompt")

	// ErrPromptNotFound indicates no entry has the requested id.
	ErrPromptNotFound = errors.New("prompt not found")

	// ErrNoActivePrompt indicates no active entry exists for an intent.
	ErrNoActivePrompt = errors.New("no active prompt for intent")
)

// DuplicateIDError reports the positions of two entries sharing an id.
type DuplicateIDError struct {
	ID     string
	First  int
	Second int
}

// Error returns the error message.
func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate prompt id %q at entries %d and %d", e.ID, e.First, e.Second)
}

// Unwrap returns ErrDuplicateID.
func (e *DuplicateIDError) Unwrap() error {
	return ErrDuplicateID
}

// SpecError describes why a single catalog entry was rejected.
type SpecError struct {
	Index   int
	ID      string
	Message string
	Cause   error
}

// Error returns the error message.
func (e *SpecError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("prompt %d (%s): %s", e.Index, e.ID, e.Message)
	}
	return fmt.Sprintf("prompt %d: %s", e.Index, e.Message)
}

// Unwrap returns the sentinel classifying the error.
func (e *SpecError) Unwrap() error {
	return e.Cause
}
