package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain layer.
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrUnknownProcess      = errors.New("unknown process")
	ErrUnknownState        = errors.New("unknown state")
)

// InvalidTransitionError is returned when a transition is not an outgoing
// edge of the given state. It means either a client/backend version mismatch
// or a bug, and must never be ignored.
type InvalidTransitionError struct {
	State      State
	Transition Transition
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s from state %s", e.Transition, e.State)
}

// NewInvalidTransitionError creates a new InvalidTransitionError.
func NewInvalidTransitionError(state State, transition Transition) *InvalidTransitionError {
	return &InvalidTransitionError{State: state, Transition: transition}
}

// UnknownTransitionError is returned when a transition is not part of a
// process vocabulary, typically after a backend upgrade.
type UnknownTransitionError struct {
	Transition Transition
	Process    ProcessAlias
}

func (e *UnknownTransitionError) Error() string {
	return fmt.Sprintf("unknown transition %q for process %s", e.Transition, e.Process)
}

// NewUnknownTransitionError creates a new UnknownTransitionError.
func NewUnknownTransitionError(transition Transition, process ProcessAlias) *UnknownTransitionError {
	return &UnknownTransitionError{Transition: transition, Process: process}
}

// ParseError represents a parsing error.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

// NewParseError creates a new ParseError.
func NewParseError(msg string) *ParseError {
	return &ParseError{Message: msg}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
