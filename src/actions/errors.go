package actions

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindInvalidInput Kind = "invalid_input"
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindAmbiguous    Kind = "ambiguous"
	KindAggregator   Kind = "aggregator_failure"
	KindProcessor    Kind = "processor_failure"
	KindStore        Kind = "store_failure"
	KindInternal     Kind = "internal"
)

// Error is the tagged result every action returns on failure. The HTTP layer
// branches on Kind; nothing is swallowed into a bare nil. Compensation lists
// the reverse steps that were attempted and failed, leaving external state
// for manual cleanup.
type Error struct {
	Kind         Kind
	Op           string
	Err          error
	Compensation []string
}

func (e *Error) Error() string {
	if len(e.Compensation) > 0 {
		return fmt.Sprintf("%s: %s: %v (uncompensated: %v)", e.Op, e.Kind, e.Err, e.Compensation)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func E(op string, kind Kind, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf extracts the failure kind, defaulting to internal for untagged
// errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
