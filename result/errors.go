package result

import (
	"errors"
	"strings"

	"github.com/joeycumines/go-shadowdroid/intent"
)

var (
	// ErrNoMatchingRequest indicates a delivered result matched no pending
	// request. See also NoMatchError.
	ErrNoMatchingRequest = errors.New("result: no matching request")

	// ErrNilMatcher is returned by Router.Issue for a nil matcher.
	ErrNilMatcher = errors.New("result: nil matcher")

	// ErrNilCallback is returned by Router.Issue for a nil callback.
	ErrNilCallback = errors.New("result: nil callback")

	// ErrInvalidOwner is returned by Router.Issue for an owner whose type is
	// not comparable.
	ErrInvalidOwner = errors.New("result: owner is not comparable")
)

// NoMatchError is returned when a delivered result matched no pending
// request. Its message always starts with "No intent matches ", followed by
// the delivered intent's string form.
type NoMatchError struct {
	Intent *intent.Intent
	// Pending are the requests that were considered.
	Pending []*Request
}

// Error implements the error interface.
func (e *NoMatchError) Error() string {
	var b strings.Builder
	b.WriteString("No intent matches ")
	b.WriteString(e.Intent.String())
	b.WriteString(" among [")
	for i, req := range e.Pending {
		if i != 0 {
			b.WriteString(", ")
		}
		b.WriteString(req.String())
	}
	b.WriteString("]")
	return b.String()
}

// Unwrap returns ErrNoMatchingRequest.
func (e *NoMatchError) Unwrap() error {
	return ErrNoMatchingRequest
}
