// Package receiver tracks broadcast receiver registrations per owning
// component, and dispatches broadcasts to them through the UI thread.
package receiver
