package screening

import (
	"fmt"
	"strings"

	"github.com/jonathan/candidate-screener/internal/types"
	"github.com/jonathan/candidate-screener/internal/validation"
)

// NotFoundError indicates a role or session id is unknown. No partial
// mutation occurs on this path.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// InvalidInputError carries field-level validation messages.
type InvalidInputError struct {
	Fields validation.FieldErrors
}

func (e *InvalidInputError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// DecisionError indicates a decision target outside the allowed set. It is
// raised before any store write.
type DecisionError struct {
	Target  types.SessionStatus
	Allowed []types.SessionStatus
}

func (e *DecisionError) Error() string {
	allowed := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		allowed[i] = string(s)
	}
	return fmt.Sprintf("invalid decision %q: allowed values are %s", e.Target, strings.Join(allowed, ", "))
}

// StateError indicates the operation is not valid for the record's current
// state (archived role, non-decidable session, duplicate feedback).
type StateError struct {
	Message string
}

func (e *StateError) Error() string {
	return e.Message
}

// CollaboratorError wraps a blocking external-collaborator failure.
type CollaboratorError struct {
	Op    string
	Cause error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Cause)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Cause
}
