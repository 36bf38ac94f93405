package feed

import (
	"errors"
	"fmt"
)

type FailureKind string

const (
	FailureNoStatus       FailureKind = "no_status"
	FailureFallbackFailed FailureKind = "fallback_failed"
	FailureServerError    FailureKind = "server_error"
	FailureMalformed      FailureKind = "malformed"
	FailureEmpty          FailureKind = "empty"
)

// FetchError is a per-source failure: the source is skipped for this run.
type FetchError struct {
	Kind   FailureKind
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	msg := "fetch failed: " + string(e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// FailureKindOf reports the failure kind carried by err, if any.
func FailureKindOf(err error) (FailureKind, bool) {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Kind, true
	}
	return "", false
}
