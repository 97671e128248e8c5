// Package app provides test doubles of the application and activity
// components, wired around a shared main [looper.Looper], [result.Router] and
// [receiver.Registry].
//
// Test-only inspection and control (delivering results, reading the
// started-activity queue) lives on the shadow types, [ShadowActivity] and
// [ShadowApplication], rather than on the components themselves.
//
// # Lifecycle
//
// An [Activity] starts in [StateCreated]. [Activity.OnDestroy] moves it to
// [StateDestroyed], but is rejected with a [*LifecycleError] (wrapping
// [ErrIllegalLifecycleState]) while the activity still owns receiver
// registrations. Registrations of other activities never block it.
package app
