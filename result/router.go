package result

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/joeycumines/go-shadowdroid/intent"
	"github.com/joeycumines/logiface"
)

type (
	// Callback receives a delivered result, e.g. an activity's
	// OnActivityResult.
	Callback func(requestCode, resultCode int, data *intent.Intent)

	// Request is a pending result request, as returned by Router.Issue.
	Request struct {
		// Owner identifies the issuer, and must be comparable (typically a
		// pointer), see Router.DeliverFor.
		Owner any
		// Match decides which delivered intents satisfy this request.
		Match intent.Matcher
		// Callback is invoked exactly once, on delivery.
		Callback    Callback
		RequestCode int
		seq         uint64
	}

	// Router correlates delivered results with pending requests.
	//
	// A Router is safe for concurrent use, though callbacks are always
	// invoked synchronously, on the goroutine performing the delivery.
	Router struct {
		logger  *logiface.Logger[logiface.Event]
		pending []*Request
		mu      sync.Mutex
		seq     uint64
	}

	// Option configures a Router.
	Option func(r *Router)
)

// WithLogger sets the structured logger. A nil logger disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// New constructs a Router with no pending requests.
func New(opts ...Option) *Router {
	r := &Router{}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Seq returns the issue order of the request, starting at 1.
func (x *Request) Seq() uint64 { return x.seq }

// String describes the request, for error messages and logging.
func (x *Request) String() string {
	if x == nil {
		return `<nil>`
	}
	return fmt.Sprintf(`%s (requestCode=%d)`, describeMatcher(x.Match), x.RequestCode)
}

// Issue registers a pending request. Request codes need not be unique.
func (x *Router) Issue(owner any, requestCode int, match intent.Matcher, callback Callback) (*Request, error) {
	if match == nil {
		return nil, ErrNilMatcher
	}
	if callback == nil {
		return nil, ErrNilCallback
	}
	if t := reflect.TypeOf(owner); t != nil && !t.Comparable() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOwner, t)
	}

	x.mu.Lock()
	x.seq++
	req := &Request{
		Owner:       owner,
		Match:       match,
		Callback:    callback,
		RequestCode: requestCode,
		seq:         x.seq,
	}
	x.pending = append(x.pending, req)
	x.mu.Unlock()

	x.logger.Debug().
		Int(`requestCode`, requestCode).
		Uint64(`seq`, req.seq).
		Str(`match`, describeMatcher(match)).
		Log(`result: request issued`)

	return req, nil
}

// Deliver finds the best pending request accepting delivered, removes it, and
// invokes its callback with (requestCode, resultCode, data).
//
// The best request is the one whose matcher is most specific (see
// intent.Specific), and amongst equally specific matches, the most recently
// issued. If no request matches, a *NoMatchError is returned, wrapping
// ErrNoMatchingRequest.
func (x *Router) Deliver(delivered *intent.Intent, resultCode int, data *intent.Intent) error {
	return x.deliver(false, nil, delivered, resultCode, data)
}

// DeliverFor is like Deliver, but only considers requests issued by owner.
func (x *Router) DeliverFor(owner any, delivered *intent.Intent, resultCode int, data *intent.Intent) error {
	return x.deliver(true, owner, delivered, resultCode, data)
}

func (x *Router) deliver(scoped bool, owner any, delivered *intent.Intent, resultCode int, data *intent.Intent) error {
	x.mu.Lock()
	index := -1
	var best *Request
	var bestScore int
	var candidates []*Request
	for i, req := range x.pending {
		if scoped && req.Owner != owner {
			continue
		}
		candidates = append(candidates, req)
		if !req.Match.Match(delivered) {
			continue
		}
		score := specificity(req.Match)
		if best == nil || score > bestScore || (score == bestScore && req.seq > best.seq) {
			index, best, bestScore = i, req, score
		}
	}
	if best == nil {
		x.mu.Unlock()
		err := &NoMatchError{Intent: delivered, Pending: candidates}
		x.logger.Warning().
			Err(err).
			Log(`result: delivery failed`)
		return err
	}
	x.pending = slices.Delete(x.pending, index, index+1)
	x.mu.Unlock()

	x.logger.Debug().
		Int(`requestCode`, best.RequestCode).
		Int(`resultCode`, resultCode).
		Uint64(`seq`, best.seq).
		Stringer(`delivered`, delivered).
		Log(`result: delivering`)

	best.Callback(best.RequestCode, resultCode, data)
	return nil
}

// Cancel removes a pending request, reporting whether it was pending.
func (x *Router) Cancel(req *Request) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	if i := slices.Index(x.pending, req); i >= 0 {
		x.pending = slices.Delete(x.pending, i, i+1)
		return true
	}
	return false
}

// Pending returns a snapshot of every pending request, in issue order.
func (x *Router) Pending() []*Request {
	x.mu.Lock()
	defer x.mu.Unlock()
	return slices.Clone(x.pending)
}

// PendingFor returns a snapshot of the pending requests issued by owner.
func (x *Router) PendingFor(owner any) []*Request {
	x.mu.Lock()
	defer x.mu.Unlock()
	var out []*Request
	for _, req := range x.pending {
		if req.Owner == owner {
			out = append(out, req)
		}
	}
	return out
}

// Len returns the number of pending requests.
func (x *Router) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.pending)
}

// Reset drops every pending request.
func (x *Router) Reset() {
	x.mu.Lock()
	defer x.mu.Unlock()
	clear(x.pending)
	x.pending = x.pending[:0]
}

func specificity(m intent.Matcher) int {
	if s, ok := m.(intent.Specific); ok {
		return s.Specificity()
	}
	return 0
}

func describeMatcher(m intent.Matcher) string {
	if s, ok := m.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf(`%T`, m)
}
