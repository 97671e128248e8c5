package app

import (
	"errors"
	"sync"

	"github.com/joeycumines/go-shadowdroid/intent"
	"github.com/joeycumines/go-shadowdroid/looper"
	"github.com/joeycumines/go-shadowdroid/manifest"
	"github.com/joeycumines/go-shadowdroid/receiver"
	"github.com/joeycumines/go-shadowdroid/result"
	"github.com/joeycumines/logiface"
)

// Application is the process-level context shared by every activity of a
// test: the main looper, the result router and the receiver registry.
type Application struct {
	logger    *logiface.Logger[logiface.Event]
	looper    *looper.Looper
	router    *result.Router
	receivers *receiver.Registry

	started    []*intent.Intent
	broadcasts []*intent.Intent

	packageName string
	name        string
	mu          sync.Mutex
}

// NewApplication wires an Application around the given collaborators, none of
// which may be nil.
func NewApplication(l *looper.Looper, router *result.Router, receivers *receiver.Registry, opts ...ApplicationOption) (*Application, error) {
	if l == nil || router == nil || receivers == nil {
		return nil, errors.New("app: looper, router and receivers are required")
	}
	cfg, err := resolveApplicationOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Application{
		logger:      cfg.logger,
		looper:      l,
		router:      router,
		receivers:   receivers,
		packageName: cfg.packageName,
		name:        cfg.name,
	}, nil
}

// PackageName returns the application's package name.
func (x *Application) PackageName() string {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.packageName
}

// Name returns the fully qualified application class name, if known.
func (x *Application) Name() string {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.name
}

// Looper returns the main looper.
func (x *Application) Looper() *looper.Looper { return x.looper }

// Router returns the activity result router.
func (x *Application) Router() *result.Router { return x.router }

// Receivers returns the broadcast receiver registry.
func (x *Application) Receivers() *receiver.Registry { return x.receivers }

// ApplyManifest adopts the package and application name from m, and registers
// each declared receiver that has an instance in instances (keyed by fully
// qualified class name), owned by the application. Declared receivers
// without an instance are skipped.
func (x *Application) ApplyManifest(m *manifest.Manifest, instances map[string]receiver.Receiver) error {
	x.mu.Lock()
	x.packageName = m.Package
	if m.ApplicationName != "" {
		x.name = m.ApplicationName
	}
	x.mu.Unlock()

	for _, decl := range m.Receivers {
		rx, ok := instances[decl.Name]
		if !ok {
			x.logger.Debug().
				Str(`receiver`, decl.Name).
				Log(`app: no instance for declared receiver`)
			continue
		}
		for _, f := range decl.Filters {
			if _, err := x.receivers.Register(x, rx, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// RegisterReceiver registers an application-scoped receiver. Such
// registrations never block an activity's destruction.
func (x *Application) RegisterReceiver(rx receiver.Receiver, filter *intent.Filter) (*receiver.Registration, error) {
	return x.receivers.Register(x, rx, filter)
}

// UnregisterReceiver removes an application-scoped receiver.
func (x *Application) UnregisterReceiver(rx receiver.Receiver) error {
	if err := x.receivers.Unregister(x, rx); err != nil {
		return errors.Join(ErrReceiverNotRegistered, err)
	}
	return nil
}

// SendBroadcast records in, then dispatches it to every matching receiver
// via the main looper.
func (x *Application) SendBroadcast(in *intent.Intent) error {
	x.mu.Lock()
	x.broadcasts = append(x.broadcasts, in)
	x.mu.Unlock()
	_, err := x.receivers.Broadcast(in)
	return err
}

// StartActivity records a request to start an activity. Nothing is launched;
// tests inspect the queue via ShadowApplication.NextStartedActivity.
func (x *Application) StartActivity(in *intent.Intent) {
	x.mu.Lock()
	x.started = append(x.started, in)
	x.mu.Unlock()

	x.logger.Debug().
		Stringer(`intent`, in).
		Log(`app: activity started`)
}

// NewActivity constructs a created activity belonging to x.
func (x *Application) NewActivity(opts ...ActivityOption) *Activity {
	var cfg activityOptions
	for _, opt := range opts {
		if opt != nil {
			opt.applyActivity(&cfg)
		}
	}
	if cfg.name == "" {
		cfg.name = "Activity"
	}
	return &Activity{
		app:              x,
		onActivityResult: cfg.onActivityResult,
		onDestroy:        cfg.onDestroy,
		intent:           cfg.intent,
		name:             cfg.name,
		state:            StateCreated,
	}
}
