package services

import (
	"errors"
	"fmt"
)

// ErrUnparsable marks a collaborator reply that could not be turned into
// the expected structure. Wrapped by the typed errors below.
var ErrUnparsable = errors.New("reply could not be parsed into the expected structure")

// GenerationError is returned when note, flashcard or quiz generation
// fails. Message is safe to show to the user.
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *GenerationError) Unwrap() error { return e.Err }

// GradingError is returned when the collaborator could not grade an
// attempt. The attempt is still recorded with a nil score.
type GradingError struct {
	Message string
	Err     error
}

func (e *GradingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *GradingError) Unwrap() error { return e.Err }

// ReportError is returned when document rendering fails; partial output is
// never handed to the caller.
type ReportError struct {
	Message string
	Err     error
}

func (e *ReportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ReportError) Unwrap() error { return e.Err }

// ValidationError carries per-field messages for bad request input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}
