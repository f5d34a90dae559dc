package summary

import (
	"errors"
	"fmt"
)

// Reason classifies why the remote stage did not produce a summary.
type Reason string

const (
	ReasonTimeout     Reason = "timeout"
	ReasonUnavailable Reason = "unavailable"
	ReasonStatus      Reason = "status"
	ReasonMalformed   Reason = "malformed"
	ReasonEmpty       Reason = "empty"
	ReasonCircuitOpen Reason = "circuit_open"
	ReasonBusy        Reason = "busy"
)

// FailureError is returned by providers and by the resilience wrappers. The
// summarizer never surfaces it to callers; it only drives the fallback.
type FailureError struct {
	Reason Reason
	// Status is the upstream HTTP status for ReasonStatus.
	Status int
	Err    error
}

func (e *FailureError) Error() string {
	msg := "summary provider: " + string(e.Reason)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FailureError) Unwrap() error {
	return e.Err
}

func fail(reason Reason, err error) *FailureError {
	return &FailureError{Reason: reason, Err: err}
}

// ReasonOf returns the failure reason carried by err, or ReasonUnavailable
// for errors that did not come from a provider.
func ReasonOf(err error) Reason {
	var fe *FailureError
	if errors.As(err, &fe) {
		return fe.Reason
	}
	return ReasonUnavailable
}
