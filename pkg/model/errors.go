package model

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps exactly one of
// these, so callers classify with errors.Is.
var (
	ErrContractViolation = errors.New("contract violation")
	ErrNotInitialized    = errors.New("record is not initialized")
	ErrNoLoadStrategy    = errors.New("ghost record has no loader")
	ErrRecordGone        = errors.New("record is dead")
	ErrNotFound          = errors.New("uid is not in the identity map")
	ErrTypeMismatch      = errors.New("type mismatch")
)

// Contract violations.
var (
	ErrAlreadyLoaded     = fmt.Errorf("%w: data has already been set", ErrContractViolation)
	ErrUidImmutable      = fmt.Errorf("%w: uid has already been set", ErrContractViolation)
	ErrInvalidUid        = fmt.Errorf("%w: uid must be positive", ErrContractViolation)
	ErrMissingUid        = fmt.Errorf("%w: record has no uid", ErrContractViolation)
	ErrReservedKey       = fmt.Errorf("%w: reserved key", ErrContractViolation)
	ErrEmptyKey          = fmt.Errorf("%w: key must not be empty", ErrContractViolation)
	ErrReadOnly          = fmt.Errorf("%w: record is read-only", ErrContractViolation)
	ErrCloneForbidden    = fmt.Errorf("%w: record cannot be cloned", ErrContractViolation)
	ErrLoaderContract    = fmt.Errorf("%w: loader left the record loading", ErrContractViolation)
	ErrInvalidTransition = fmt.Errorf("%w: invalid load state transition", ErrContractViolation)
)

// RecordError describes a failed operation on a record.
type RecordError struct {
	UID int
	Op  string
	Key string
	Err error
}

func recordErr(r *Record, op, key string, err error) error {
	uid := 0
	if r != nil {
		uid = r.uid
	}
	return &RecordError{UID: uid, Op: op, Key: key, Err: err}
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

func (e *RecordError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("record#%d: %s %q: %v", e.UID, e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("record#%d: %s: %v", e.UID, e.Op, e.Err)
}
