package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the registration workflow and admin operations.
// Handlers map these onto HTTP statuses; everything else is treated as a
// persistence failure.
var (
	ErrNoSession   = errors.New("no session")
	ErrUnknownSlot = errors.New("unknown slot")
	ErrQuotaFull   = errors.New("quota full")
	ErrNotFound    = errors.New("not found")
)

// ValidationError lists every violated field of a submission. It is surfaced
// to the submitter before any write happens.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// PersistenceError wraps a failed store write. No automatic retry; the
// caller shows a generic failure and allows resubmission.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
