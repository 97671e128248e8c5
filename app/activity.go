package app

import (
	"errors"
	"fmt"
	"sync"

	"github.com/joeycumines/go-shadowdroid/intent"
	"github.com/joeycumines/go-shadowdroid/receiver"
)

// Result codes, as passed to result callbacks.
const (
	ResultCanceled  = 0
	ResultOK        = -1
	ResultFirstUser = 1
)

// LifecycleState is the lifecycle state of an Activity.
//
//	StateCreated → StateDestroyed  [OnDestroy(), requires no live receivers]
type LifecycleState uint8

const (
	// StateCreated indicates the activity is alive.
	StateCreated LifecycleState = iota
	// StateDestroyed indicates OnDestroy completed.
	StateDestroyed
)

// String returns a human-readable representation of the state.
func (s LifecycleState) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateDestroyed:
		return "Destroyed"
	default:
		return "Unknown"
	}
}

// Activity is the test double of a single activity instance.
//
// Behavior that would be supplied by overriding methods on the platform
// class (e.g. onActivityResult) is supplied via ActivityOption hooks.
type Activity struct {
	app              *Application
	onActivityResult func(requestCode, resultCode int, data *intent.Intent)
	onDestroy        func()
	intent           *intent.Intent
	resultIntent     *intent.Intent
	name             string
	mu               sync.Mutex
	resultCode       int
	state            LifecycleState
	finishing        bool
}

// Application returns the owning application.
func (x *Activity) Application() *Application { return x.app }

// PackageName returns the owning application's package name.
func (x *Activity) PackageName() string { return x.app.PackageName() }

// Name returns the activity class name.
func (x *Activity) Name() string { return x.name }

// String implements fmt.Stringer.
func (x *Activity) String() string { return fmt.Sprintf("%s@%p", x.name, x) }

// Intent returns the intent that launched the activity, which may be nil.
func (x *Activity) Intent() *intent.Intent {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.intent
}

// SetIntent replaces the launching intent.
func (x *Activity) SetIntent(in *intent.Intent) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.intent = in
}

// State returns the lifecycle state.
func (x *Activity) State() LifecycleState {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.state
}

// RegisterReceiver registers rx, owned by this activity. The registration
// must be removed before OnDestroy.
func (x *Activity) RegisterReceiver(rx receiver.Receiver, filter *intent.Filter) (*receiver.Registration, error) {
	if err := x.requireCreated(`registerReceiver`); err != nil {
		return nil, err
	}
	return x.app.receivers.Register(x, rx, filter)
}

// UnregisterReceiver removes every registration of rx owned by this
// activity.
func (x *Activity) UnregisterReceiver(rx receiver.Receiver) error {
	if err := x.app.receivers.Unregister(x, rx); err != nil {
		return errors.Join(ErrReceiverNotRegistered, err)
	}
	return nil
}

// OnDestroy transitions the activity to StateDestroyed.
//
// The WithOnDestroy hook runs first, so it may unregister the activity's
// receivers. OnDestroy then fails with a *LifecycleError if the activity
// still owns live receiver registrations (including any the hook added),
// leaving the activity in StateCreated; the registrations are not touched.
// Registrations owned by other activities (or the application) do not block
// it. Any of the activity's own pending result requests are cancelled.
func (x *Activity) OnDestroy() error {
	if err := x.requireCreated(`onDestroy`); err != nil {
		return err
	}

	if x.onDestroy != nil {
		x.onDestroy()
	}

	if live := x.app.receivers.Count(x); live != 0 {
		err := &LifecycleError{
			Activity: x.name,
			Op:       `onDestroy`,
			State:    x.State(),
			Reason:   fmt.Sprintf(`%d broadcast receiver registration(s) still registered`, live),
		}
		x.app.logger.Warning().
			Err(err).
			Log(`app: destroy rejected`)
		return err
	}

	var cancelled int
	for _, req := range x.app.router.PendingFor(x) {
		if x.app.router.Cancel(req) {
			cancelled++
		}
	}

	x.mu.Lock()
	x.state = StateDestroyed
	x.mu.Unlock()

	x.app.logger.Debug().
		Str(`activity`, x.name).
		Int(`cancelledRequests`, cancelled).
		Log(`app: activity destroyed`)
	return nil
}

// StartActivity records a request to start another activity.
func (x *Activity) StartActivity(in *intent.Intent) {
	x.app.StartActivity(in)
}

// StartActivityForResult records a request to start another activity, and
// registers a pending result request matching in, under requestCode. The
// result is delivered to the WithOnActivityResult hook, see
// ShadowActivity.ReceiveResult.
func (x *Activity) StartActivityForResult(in *intent.Intent, requestCode int) error {
	if in == nil {
		return errors.New(`app: nil intent`)
	}
	if err := x.requireCreated(`startActivityForResult`); err != nil {
		return err
	}
	x.app.StartActivity(in)
	_, err := x.app.router.Issue(x, requestCode, in.Clone(), x.dispatchActivityResult)
	return err
}

// RunOnUIThread runs fn on the main looper: immediately if already on the UI
// thread, otherwise by posting it (so it is deferred while the looper is
// paused).
func (x *Activity) RunOnUIThread(fn func()) error {
	if fn == nil {
		return errors.New(`app: nil runnable`)
	}
	if x.app.looper.IsMainThread() {
		fn()
		return nil
	}
	return x.app.looper.Post(fn)
}

// SetResult sets the result to be returned to the caller of this activity.
func (x *Activity) SetResult(resultCode int, data *intent.Intent) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.resultCode = resultCode
	x.resultIntent = data
}

// Finish marks the activity as finishing.
func (x *Activity) Finish() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.finishing = true
}

// IsFinishing reports whether Finish has been called.
func (x *Activity) IsFinishing() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.finishing
}

func (x *Activity) dispatchActivityResult(requestCode, resultCode int, data *intent.Intent) {
	if x.onActivityResult != nil {
		x.onActivityResult(requestCode, resultCode, data)
	}
}

func (x *Activity) requireCreated(op string) error {
	x.mu.Lock()
	state := x.state
	x.mu.Unlock()
	if state == StateCreated {
		return nil
	}
	return &LifecycleError{
		Activity: x.name,
		Op:       op,
		State:    state,
		Reason:   `activity is not alive`,
	}
}
