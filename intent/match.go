package intent

import (
	"slices"
	"strings"
)

type (
	// Matcher is a predicate over delivered intents.
	//
	// Implementations may additionally implement Specific, which is used to
	// rank multiple matching predicates.
	Matcher interface {
		Match(delivered *Intent) bool
	}

	// Specific is an optional extension of Matcher. Higher values are more
	// specific.
	Specific interface {
		Specificity() int
	}

	// MatcherFunc adapts a plain function to Matcher.
	MatcherFunc func(delivered *Intent) bool
)

var (
	_ Matcher  = (*Intent)(nil)
	_ Specific = (*Intent)(nil)
	_ Matcher  = MatcherFunc(nil)
	_ Matcher  = (*Filter)(nil)
)

// Match implements Matcher.
func (f MatcherFunc) Match(delivered *Intent) bool { return f(delivered) }

// Match treats x as a request template: every discriminating field that is
// set on x must be satisfied by delivered. Types are compared with MIME
// wildcard rules, see MatchMIME. An empty template matches any intent.
func (x *Intent) Match(delivered *Intent) bool {
	if x == nil || delivered == nil {
		return false
	}
	if x.Action != "" && x.Action != delivered.Action {
		return false
	}
	if x.Type != "" && !MatchMIME(x.Type, delivered.Type) {
		return false
	}
	if x.Data != nil && x.Data.String() != delivered.DataString() {
		return false
	}
	if x.Component != "" && x.Component != delivered.Component {
		return false
	}
	for _, c := range x.Categories {
		if !slices.Contains(delivered.Categories, c) {
			return false
		}
	}
	return true
}

// Specificity scores how narrowly x constrains a match. An exact MIME type
// counts for more than a "major/*" wildcard, which counts for more than "*/*".
func (x *Intent) Specificity() int {
	if x == nil {
		return 0
	}
	var n int
	if x.Action != "" {
		n++
	}
	if x.Data != nil {
		n++
	}
	if x.Component != "" {
		n++
	}
	n += len(x.Categories)
	if x.Type != "" {
		major, minor := splitMIME(x.Type)
		switch {
		case major == "*":
		case minor == "*":
			n++
		default:
			n += 2
		}
	}
	return n
}

// MatchMIME reports whether two MIME types are compatible, where either side
// may use a "*" subtype, and "*" or "*/*" matches anything. Comparison is
// case-insensitive. An empty type never matches.
func MatchMIME(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	aMajor, aMinor := splitMIME(a)
	bMajor, bMinor := splitMIME(b)
	if aMajor == "*" || bMajor == "*" {
		return true
	}
	if aMajor != bMajor {
		return false
	}
	return aMinor == "*" || bMinor == "*" || aMinor == bMinor
}

func splitMIME(s string) (major, minor string) {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	major, minor, ok := strings.Cut(s, "/")
	if !ok {
		if major == "*" {
			return "*", "*"
		}
		return major, ""
	}
	return major, minor
}
