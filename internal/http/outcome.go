package http

import (
	"fmt"
	"time"
)

// OutcomeKind classifies the result of one request attempt.
type OutcomeKind int

const (
	// Success is a response with a 2xx status code.
	Success OutcomeKind = iota
	// FailureStatus is a response with any other status code.
	FailureStatus
	// FailureTransport means no response was obtained: the request could not be
	// built, or DNS, connect, TLS or timeout failed.
	FailureTransport
)

func (k OutcomeKind) String() string {
	switch k {
	case Success:
		return "success"
	case FailureStatus:
		return "status_failure"
	case FailureTransport:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// Outcome is produced exactly once per dispatched request.
type Outcome struct {
	Kind       OutcomeKind
	StatusCode int
	Duration   time.Duration
	Err        error
}

// Succeeded reports whether the outcome counts as a success.
func (o Outcome) Succeeded() bool {
	return o.Kind == Success
}

// Classify maps a response status code to an outcome kind.
func Classify(statusCode int) OutcomeKind {
	if statusCode >= 200 && statusCode < 300 {
		return Success
	}
	return FailureStatus
}

// InvalidHeaderError is returned when a configured header name or value is not
// valid on the wire. It fails only the request being built.
type InvalidHeaderError struct {
	Name  string
	Value string
	// Part is "name" or "value"
	Part string
}

func (e *InvalidHeaderError) Error() string {
	return fmt.Sprintf("invalid header %s for %q", e.Part, e.Name)
}
