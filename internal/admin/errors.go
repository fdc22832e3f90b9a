// Package admin holds the taxonomy editor core: the owned state store, the
// coordinator that keeps groups and categories consistent, the generic entity
// form controller and the delete confirmation workflow.
package admin

import (
	"errors"
	"fmt"
)

// Form and workflow errors.
var (
	ErrSubmitInFlight = errors.New("a submit is already in flight")
	ErrDetached       = errors.New("controller is detached")
	ErrFieldDisabled  = errors.New("field is disabled")
	ErrUnknownField   = errors.New("unknown field")
	ErrFormClosed     = errors.New("form is not open")
	ErrNothingPending = errors.New("no delete is pending")
	ErrUnknownKind    = errors.New("unknown entity kind")
)

// ValidationError is a local, pre-submission rejection. No collaborator call
// was made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// CollaboratorError is a failed collaborator operation. Subtypes are not
// distinguished by the editor; Err keeps the cause for logging.
type CollaboratorError struct {
	Err  error
	Op   string
	Kind EntityKind
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Kind, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

func collaboratorError(op string, kind EntityKind, err error) error {
	if err == nil {
		return nil
	}
	return &CollaboratorError{Op: op, Kind: kind, Err: err}
}

// reloadError reports a failed post-write reload under the "reload" operation.
func reloadError(kind EntityKind, err error) error {
	if err == nil || errors.Is(err, ErrDetached) {
		return err
	}
	var collabErr *CollaboratorError
	if errors.As(err, &collabErr) {
		err = collabErr.Err
	}
	return &CollaboratorError{Op: "reload", Kind: kind, Err: err}
}
