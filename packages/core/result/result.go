// Package result defines the outcome model for executed specification
// fragments and the classifier that maps a result onto a status tag.
package result

import "fmt"

// Status is the classification of a single executed test result.
type Status string

const (
	// StatusSuccess indicates the test passed.
	StatusSuccess Status = "success"
	// StatusFailure indicates an assertion failed.
	StatusFailure Status = "failure"
	// StatusError indicates the test raised an unexpected error.
	StatusError Status = "error"
	// StatusSkipped indicates the test was not executed.
	StatusSkipped Status = "skipped"
	// StatusPending indicates the test body is not written yet.
	StatusPending Status = "pending"
)

// Kind tags a Result variant. The set is closed: the five terminal
// statuses plus Decorated, which wraps another result without changing
// its classification.
type Kind string

const (
	KindSuccess   Kind = "success"
	KindFailure   Kind = "failure"
	KindError     Kind = "error"
	KindSkipped   Kind = "skipped"
	KindPending   Kind = "pending"
	KindDecorated Kind = "decorated"
)

// Result is one executed test outcome. Cause is set for failures and
// errors; Inner is set only when Kind is KindDecorated.
type Result struct {
	Kind  Kind
	Cause error
	Inner *Result
}

// Success returns a passing result.
func Success() *Result { return &Result{Kind: KindSuccess} }

// Failure returns a failed result carrying the assertion failure.
func Failure(cause error) *Result { return &Result{Kind: KindFailure, Cause: cause} }

// Error returns an errored result carrying the raised error.
func Error(cause error) *Result { return &Result{Kind: KindError, Cause: cause} }

// Skipped returns a skipped result.
func Skipped() *Result { return &Result{Kind: KindSkipped} }

// Pending returns a pending result.
func Pending() *Result { return &Result{Kind: KindPending} }

// Decorated wraps another result. Classification unwraps decorations
// transparently; they exist so engines can attach presentation details
// to an outcome without disturbing its status.
func Decorated(inner *Result) *Result { return &Result{Kind: KindDecorated, Inner: inner} }

// Classify maps a result to exactly one status tag, recursing through
// decorated wrappers. An unrecognized kind is returned as an error and
// is expected to propagate to the caller unhandled.
func Classify(r *Result) (Status, error) {
	if r == nil {
		return "", fmt.Errorf("classify: nil result")
	}
	switch r.Kind {
	case KindSuccess:
		return StatusSuccess, nil
	case KindFailure:
		return StatusFailure, nil
	case KindError:
		return StatusError, nil
	case KindSkipped:
		return StatusSkipped, nil
	case KindPending:
		return StatusPending, nil
	case KindDecorated:
		return Classify(r.Inner)
	default:
		return "", fmt.Errorf("classify: unrecognized result kind %q", r.Kind)
	}
}

// CauseOf returns the failure or error carried by a result, unwrapping
// decorations. Nil for results without a cause.
func CauseOf(r *Result) error {
	for r != nil {
		if r.Cause != nil {
			return r.Cause
		}
		r = r.Inner
	}
	return nil
}
