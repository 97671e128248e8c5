// Package result correlates activity results with the requests that asked
// for them.
//
// A [Router] indexes pending requests, each pairing a request code with an
// [intent.Matcher] and a [Callback]. Delivering a result consumes at most one
// request: the most specific match, then the most recently issued. Delivery
// is synchronous, on the caller's goroutine.
package result
