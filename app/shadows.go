package app

import (
	"slices"

	"github.com/joeycumines/go-shadowdroid/intent"
	"github.com/joeycumines/go-shadowdroid/receiver"
	"github.com/joeycumines/go-shadowdroid/result"
	"github.com/joeycumines/go-shadowdroid/shadow"
)

// ShadowActivity exposes test-only inspection and control of an Activity.
type ShadowActivity struct {
	activity *Activity
}

// ShadowApplication exposes test-only inspection of an Application.
type ShadowApplication struct {
	app *Application
}

// BindShadows registers the shadows of this package's types with registry.
func BindShadows(registry *shadow.Registry) {
	shadow.Bind(registry, NewShadowActivity)
	shadow.Bind(registry, NewShadowApplication)
}

// NewShadowActivity constructs the shadow of activity.
func NewShadowActivity(activity *Activity) (*ShadowActivity, error) {
	return &ShadowActivity{activity: activity}, nil
}

// NewShadowApplication constructs the shadow of app.
func NewShadowApplication(app *Application) (*ShadowApplication, error) {
	return &ShadowApplication{app: app}, nil
}

// Activity returns the real activity.
func (x *ShadowActivity) Activity() *Activity { return x.activity }

// ReceiveResult simulates the activity started for requestIntent returning
// a result. The pending request of this activity that best matches
// requestIntent is consumed, and its result delivered synchronously.
//
// If none match, a *result.NoMatchError is returned, with a message starting
// "No intent matches " followed by requestIntent's string form.
func (x *ShadowActivity) ReceiveResult(requestIntent *intent.Intent, resultCode int, data *intent.Intent) error {
	return x.activity.app.router.DeliverFor(x.activity, requestIntent, resultCode, data)
}

// PendingResultRequests returns the activity's outstanding result requests.
func (x *ShadowActivity) PendingResultRequests() []*result.Request {
	return x.activity.app.router.PendingFor(x.activity)
}

// RegisteredReceivers returns the activity's live receiver registrations.
func (x *ShadowActivity) RegisteredReceivers() []*receiver.Registration {
	return x.activity.app.receivers.For(x.activity)
}

// ResultCode returns the code passed to Activity.SetResult.
func (x *ShadowActivity) ResultCode() int {
	x.activity.mu.Lock()
	defer x.activity.mu.Unlock()
	return x.activity.resultCode
}

// ResultIntent returns the data passed to Activity.SetResult.
func (x *ShadowActivity) ResultIntent() *intent.Intent {
	x.activity.mu.Lock()
	defer x.activity.mu.Unlock()
	return x.activity.resultIntent
}

// IsDestroyed reports whether OnDestroy has completed.
func (x *ShadowActivity) IsDestroyed() bool {
	return x.activity.State() == StateDestroyed
}

// NextStartedActivity pops the oldest started activity intent, see
// ShadowApplication.NextStartedActivity.
func (x *ShadowActivity) NextStartedActivity() *intent.Intent {
	return (&ShadowApplication{app: x.activity.app}).NextStartedActivity()
}

// Application returns the real application.
func (x *ShadowApplication) Application() *Application { return x.app }

// NextStartedActivity pops the oldest recorded start request, or returns nil.
func (x *ShadowApplication) NextStartedActivity() *intent.Intent {
	x.app.mu.Lock()
	defer x.app.mu.Unlock()
	if len(x.app.started) == 0 {
		return nil
	}
	in := x.app.started[0]
	x.app.started[0] = nil
	x.app.started = x.app.started[1:]
	return in
}

// PeekNextStartedActivity returns the oldest recorded start request without
// removing it, or nil.
func (x *ShadowApplication) PeekNextStartedActivity() *intent.Intent {
	x.app.mu.Lock()
	defer x.app.mu.Unlock()
	if len(x.app.started) == 0 {
		return nil
	}
	return x.app.started[0]
}

// SentBroadcasts returns every intent passed to SendBroadcast, in order.
func (x *ShadowApplication) SentBroadcasts() []*intent.Intent {
	x.app.mu.Lock()
	defer x.app.mu.Unlock()
	return slices.Clone(x.app.broadcasts)
}

// HasReceiverForIntent reports whether any live registration, of any owner,
// would receive in.
func (x *ShadowApplication) HasReceiverForIntent(in *intent.Intent) bool {
	for _, reg := range x.app.receivers.All() {
		if reg.Filter.Match(in) {
			return true
		}
	}
	return false
}

// RegisteredReceivers returns the application-scoped registrations, e.g.
// those declared by the manifest.
func (x *ShadowApplication) RegisteredReceivers() []*receiver.Registration {
	return x.app.receivers.For(x.app)
}
