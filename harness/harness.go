// Package harness assembles a complete, isolated test context: a main
// looper, an activity result router, a receiver registry, the application,
// and the shadow registry binding components to their test doubles.
//
// Construct one Harness per test. There is no global state, so tests may run
// in parallel.
package harness

import (
	"github.com/joeycumines/go-shadowdroid/app"
	"github.com/joeycumines/go-shadowdroid/looper"
	"github.com/joeycumines/go-shadowdroid/receiver"
	"github.com/joeycumines/go-shadowdroid/result"
	"github.com/joeycumines/go-shadowdroid/shadow"
	"github.com/joeycumines/logiface"
)

// Harness is the per-test context.
type Harness struct {
	// Prevent copying
	_ [0]func()

	logger    *logiface.Logger[logiface.Event]
	looper    *looper.Looper
	router    *result.Router
	receivers *receiver.Registry
	app       *app.Application
	shadows   *shadow.Registry
}

// New constructs a Harness.
func New(opts ...Option) (*Harness, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}

	l, err := looper.New(looper.WithLogger(cfg.logger), looper.WithPaused(cfg.paused))
	if err != nil {
		return nil, err
	}
	router := result.New(result.WithLogger(cfg.logger))
	receivers := receiver.New(l, receiver.WithLogger(cfg.logger))

	application, err := app.NewApplication(l, router, receivers,
		app.WithLogger(cfg.logger),
		app.WithPackageName(cfg.packageName),
	)
	if err != nil {
		return nil, err
	}
	if cfg.manifest != nil {
		if err := application.ApplyManifest(cfg.manifest, cfg.receivers); err != nil {
			return nil, err
		}
	}

	shadows := shadow.NewRegistry()
	app.BindShadows(shadows)

	h := &Harness{
		logger:    cfg.logger,
		looper:    l,
		router:    router,
		receivers: receivers,
		app:       application,
		shadows:   shadows,
	}

	h.logger.Debug().
		Str(`package`, application.PackageName()).
		Bool(`paused`, cfg.paused).
		Log(`harness: created`)

	return h, nil
}

// PauseMainLooper stops posted tasks from running until UnPauseMainLooper.
func (x *Harness) PauseMainLooper() { x.looper.Pause() }

// UnPauseMainLooper resumes the main looper, running the backlog before
// returning.
func (x *Harness) UnPauseMainLooper() error { return x.looper.Resume() }

// NewActivity constructs an activity of the harness application.
func (x *Harness) NewActivity(opts ...app.ActivityOption) *app.Activity {
	return x.app.NewActivity(opts...)
}

// ShadowOf returns the shadow of real, which must be a bound type.
func (x *Harness) ShadowOf(real any) (any, error) { return x.shadows.Of(real) }

// ShadowOfActivity returns the shadow of activity.
func (x *Harness) ShadowOfActivity(activity *app.Activity) (*app.ShadowActivity, error) {
	return shadow.Of[*app.ShadowActivity](x.shadows, activity)
}

// ShadowOfApplication returns the shadow of the harness application.
func (x *Harness) ShadowOfApplication() (*app.ShadowApplication, error) {
	return shadow.Of[*app.ShadowApplication](x.shadows, x.app)
}

// Application returns the application.
func (x *Harness) Application() *app.Application { return x.app }

// Looper returns the main looper.
func (x *Harness) Looper() *looper.Looper { return x.looper }

// Router returns the activity result router.
func (x *Harness) Router() *result.Router { return x.router }

// Receivers returns the receiver registry.
func (x *Harness) Receivers() *receiver.Registry { return x.receivers }

// Shadows returns the shadow registry, e.g. to bind additional shadows.
func (x *Harness) Shadows() *shadow.Registry { return x.shadows }

// Reset clears all pending tasks, result requests, receiver registrations,
// and cached shadows, returning the looper to running. Bindings and the
// application metadata are kept.
func (x *Harness) Reset() {
	x.looper.Reset()
	x.router.Reset()
	x.receivers.Reset()
	x.shadows.Reset()
	x.logger.Debug().Log(`harness: reset`)
}
