package receiver

import (
	"cmp"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/joeycumines/go-shadowdroid/intent"
	"github.com/joeycumines/logiface"
)

// Standard errors.
var (
	// ErrNilReceiver is returned when registering a nil receiver.
	ErrNilReceiver = errors.New("receiver: nil receiver")

	// ErrNotRegistered is returned when unregistering a receiver that has no
	// live registration for the given owner.
	ErrNotRegistered = errors.New("receiver: receiver not registered")

	// ErrInvalidOwner is returned when registering with an owner whose type
	// is not comparable.
	ErrInvalidOwner = errors.New("receiver: owner is not comparable")
)

type (
	// Receiver handles broadcast intents.
	Receiver interface {
		OnReceive(in *intent.Intent)
	}

	// Func adapts a function to Receiver. Func values are not comparable, so
	// they can only be removed via Registry.Remove.
	Func func(in *intent.Intent)

	// Poster schedules work on the UI thread, see looper.Looper.
	Poster interface {
		Post(fn func()) error
	}

	// Registration is a live receiver registration.
	Registration struct {
		Receiver Receiver
		Filter   *intent.Filter
		// Owner is the component that registered the receiver, and must be
		// comparable (typically a pointer).
		Owner any
		seq   uint64
	}

	// Registry tracks receiver registrations, and dispatches broadcasts to
	// them.
	Registry struct {
		logger *logiface.Logger[logiface.Event]
		poster Poster
		regs   []*Registration
		mu     sync.Mutex
		seq    uint64
	}

	// Option configures a Registry.
	Option func(r *Registry)
)

var _ Receiver = Func(nil)

// OnReceive implements Receiver.
func (f Func) OnReceive(in *intent.Intent) { f(in) }

// WithLogger sets the structured logger. A nil logger disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// New constructs a Registry. Broadcasts are dispatched via poster, or
// synchronously if poster is nil.
func New(poster Poster, opts ...Option) *Registry {
	r := &Registry{poster: poster}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Register adds a registration of receiver, with filter, owned by owner.
// A nil filter accepts nothing, though the registration still counts as live.
func (x *Registry) Register(owner any, receiver Receiver, filter *intent.Filter) (*Registration, error) {
	if receiver == nil {
		return nil, ErrNilReceiver
	}
	if t := reflect.TypeOf(owner); t != nil && !t.Comparable() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOwner, t)
	}
	if filter == nil {
		filter = &intent.Filter{}
	}

	x.mu.Lock()
	x.seq++
	reg := &Registration{
		Receiver: receiver,
		Filter:   filter,
		Owner:    owner,
		seq:      x.seq,
	}
	x.regs = append(x.regs, reg)
	x.mu.Unlock()

	x.logger.Debug().
		Uint64(`seq`, reg.seq).
		Stringer(`filter`, filter).
		Log(`receiver: registered`)

	return reg, nil
}

// Unregister removes every registration of receiver owned by owner, returning
// ErrNotRegistered if there were none.
func (x *Registry) Unregister(owner any, receiver Receiver) error {
	x.mu.Lock()
	before := len(x.regs)
	x.regs = slices.DeleteFunc(x.regs, func(reg *Registration) bool {
		return reg.Owner == owner && sameReceiver(reg.Receiver, receiver)
	})
	removed := before - len(x.regs)
	x.mu.Unlock()

	if removed == 0 {
		return ErrNotRegistered
	}
	x.logger.Debug().
		Int(`removed`, removed).
		Log(`receiver: unregistered`)
	return nil
}

// Remove removes a single registration, reporting whether it was live.
func (x *Registry) Remove(reg *Registration) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	if i := slices.Index(x.regs, reg); i >= 0 {
		x.regs = slices.Delete(x.regs, i, i+1)
		return true
	}
	return false
}

// For returns a snapshot of the live registrations owned by owner.
func (x *Registry) For(owner any) []*Registration {
	x.mu.Lock()
	defer x.mu.Unlock()
	var out []*Registration
	for _, reg := range x.regs {
		if reg.Owner == owner {
			out = append(out, reg)
		}
	}
	return out
}

// All returns a snapshot of every live registration, in registration order.
func (x *Registry) All() []*Registration {
	x.mu.Lock()
	defer x.mu.Unlock()
	return slices.Clone(x.regs)
}

// Count returns the number of live registrations owned by owner.
func (x *Registry) Count(owner any) int {
	x.mu.Lock()
	defer x.mu.Unlock()
	var n int
	for _, reg := range x.regs {
		if reg.Owner == owner {
			n++
		}
	}
	return n
}

// Len returns the total number of live registrations.
func (x *Registry) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.regs)
}

// Reset drops every registration.
func (x *Registry) Reset() {
	x.mu.Lock()
	defer x.mu.Unlock()
	clear(x.regs)
	x.regs = x.regs[:0]
}

// Broadcast dispatches in to every registration whose filter matches it,
// ordered by filter priority (highest first), then registration order. Each
// delivery is posted separately, so a paused poster defers all of them. It
// returns the number of deliveries attempted.
//
// Every delivery is posted even if posting (or, with a running looper,
// running) an earlier one fails; the first such error is returned. Without a
// poster, deliveries run synchronously and a panic propagates.
func (x *Registry) Broadcast(in *intent.Intent) (int, error) {
	x.mu.Lock()
	var targets []*Registration
	for _, reg := range x.regs {
		if reg.Filter.Match(in) {
			targets = append(targets, reg)
		}
	}
	x.mu.Unlock()

	slices.SortStableFunc(targets, func(a, b *Registration) int {
		return cmp.Compare(b.Filter.Priority, a.Filter.Priority)
	})

	x.logger.Debug().
		Stringer(`intent`, in).
		Int(`receivers`, len(targets)).
		Log(`receiver: broadcast`)

	var first error
	for _, reg := range targets {
		deliver := func() { reg.Receiver.OnReceive(in) }
		if x.poster == nil {
			deliver()
			continue
		}
		if err := x.poster.Post(deliver); err != nil {
			x.logger.Warning().
				Err(err).
				Stringer(`intent`, in).
				Log(`receiver: delivery failed`)
			if first == nil {
				first = err
			}
		}
	}
	return len(targets), first
}

// sameReceiver compares receivers by identity, treating values of
// non-comparable types as distinct.
func sameReceiver(a, b Receiver) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}
