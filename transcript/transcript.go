// Package transcript records the order in which events happen during a test,
// so that the sequence can be asserted in one step.
//
//	tr := transcript.New()
//	_ = l.Post(func() { tr.Add(`A`) })
//	_ = l.Post(func() { tr.Add(`B`) })
//	tr.AssertEventsSoFar(t, `A`, `B`)
package transcript

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
)

// Transcript is an append-only event log, safe for concurrent use. The zero
// value is ready to use.
type Transcript struct {
	events []string
	mu     sync.Mutex
}

// New returns an empty Transcript.
func New() *Transcript { return new(Transcript) }

// Add appends event.
func (x *Transcript) Add(event string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.events = append(x.events, event)
}

// Addf appends an event formatted per fmt.Sprintf.
func (x *Transcript) Addf(format string, args ...any) {
	x.Add(fmt.Sprintf(format, args...))
}

// Events returns a copy of the events recorded since the last Clear.
func (x *Transcript) Events() []string {
	x.mu.Lock()
	defer x.mu.Unlock()
	return slices.Clone(x.events)
}

// Clear discards every recorded event.
func (x *Transcript) Clear() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.events = nil
}

// AssertEventsSoFar asserts that exactly the expected events have been
// recorded, in order, then clears the transcript (regardless of outcome).
func (x *Transcript) AssertEventsSoFar(t assert.TestingT, expected ...string) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}

	x.mu.Lock()
	actual := x.events
	x.events = nil
	x.mu.Unlock()

	if diff := cmp.Diff(expected, actual, cmpopts.EquateEmpty()); diff != "" {
		return assert.Fail(t, `unexpected transcript events`, "diff (-want +got):\n%s", diff)
	}
	return true
}

// AssertNoEventsSoFar asserts that nothing has been recorded since the last
// Clear.
func (x *Transcript) AssertNoEventsSoFar(t assert.TestingT) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	return x.AssertEventsSoFar(t)
}
