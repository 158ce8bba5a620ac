package domain

import (
	"errors"
	"fmt"
)

// ErrCollaboratorFailure signals that an embedding, index or language model
// call failed: network error, timeout, bad credentials or a malformed response.
var ErrCollaboratorFailure = errors.New("collaborator failure")

// ErrMalformedMetadata signals index metadata that cannot be read as a Book.
var ErrMalformedMetadata = errors.New("malformed metadata")

// CollaboratorError records which external call failed.
type CollaboratorError struct {
	Collaborator string
	Op           string
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Collaborator, e.Op, ErrCollaboratorFailure, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

// Is reports ErrCollaboratorFailure for every CollaboratorError.
func (e *CollaboratorError) Is(target error) bool { return target == ErrCollaboratorFailure }

// NewCollaboratorError wraps err as a CollaboratorFailure of the named collaborator.
func NewCollaboratorError(collaborator, op string, err error) error {
	return &CollaboratorError{Collaborator: collaborator, Op: op, Err: err}
}
