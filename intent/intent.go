package intent

import (
	"fmt"
	"net/url"
	"slices"
	"sort"
	"strings"
)

// Intent is a structured description of an operation, used both to launch
// components and to correlate results with the request that started them.
//
// The zero value is an empty intent. Setters return the receiver, so calls
// may be chained, e.g. New().SetType("image/*").
type Intent struct {
	Data       *url.URL
	Extras     map[string]any
	Action     string
	Type       string
	Component  string
	Categories []string
}

// New returns an empty Intent.
func New() *Intent { return &Intent{} }

// SetAction sets the action, e.g. "android.intent.action.VIEW".
func (x *Intent) SetAction(action string) *Intent {
	x.Action = action
	return x
}

// SetType sets the MIME type and clears any data URI, matching the behavior
// of the platform's Intent.setType.
func (x *Intent) SetType(mimeType string) *Intent {
	x.Type = mimeType
	x.Data = nil
	return x
}

// SetData sets the data URI and clears any MIME type.
func (x *Intent) SetData(data *url.URL) *Intent {
	x.Data = data
	x.Type = ""
	return x
}

// SetDataAndType sets both the data URI and the MIME type.
func (x *Intent) SetDataAndType(data *url.URL, mimeType string) *Intent {
	x.Data = data
	x.Type = mimeType
	return x
}

// SetComponent sets the explicit target component, e.g. "com.example/.Main".
func (x *Intent) SetComponent(component string) *Intent {
	x.Component = component
	return x
}

// AddCategory adds a category, ignoring duplicates.
func (x *Intent) AddCategory(category string) *Intent {
	if !slices.Contains(x.Categories, category) {
		x.Categories = append(x.Categories, category)
	}
	return x
}

// PutExtra stores an extra value under key.
func (x *Intent) PutExtra(key string, val any) *Intent {
	if x.Extras == nil {
		x.Extras = make(map[string]any)
	}
	x.Extras[key] = val
	return x
}

// Extra returns the extra stored under key.
func (x *Intent) Extra(key string) (any, bool) {
	if x == nil || x.Extras == nil {
		return nil, false
	}
	v, ok := x.Extras[key]
	return v, ok
}

// DataString returns the data URI as a string, or "" if unset.
func (x *Intent) DataString() string {
	if x == nil || x.Data == nil {
		return ""
	}
	return x.Data.String()
}

// Clone returns a deep copy of the intent (extras are copied shallowly).
func (x *Intent) Clone() *Intent {
	if x == nil {
		return nil
	}
	c := *x
	if x.Data != nil {
		u := *x.Data
		c.Data = &u
	}
	c.Categories = slices.Clone(x.Categories)
	if x.Extras != nil {
		c.Extras = make(map[string]any, len(x.Extras))
		for k, v := range x.Extras {
			c.Extras[k] = v
		}
	}
	return &c
}

// FilterEquals reports whether two intents are the same for the purposes of
// intent resolution: action, type, data, component and categories. Extras
// are not compared.
func (x *Intent) FilterEquals(other *Intent) bool {
	if x == nil || other == nil {
		return x == other
	}
	if x.Action != other.Action ||
		!strings.EqualFold(x.Type, other.Type) ||
		x.Component != other.Component ||
		x.DataString() != other.DataString() ||
		len(x.Categories) != len(other.Categories) {
		return false
	}
	for _, c := range x.Categories {
		if !slices.Contains(other.Categories, c) {
			return false
		}
	}
	return true
}

// String returns the canonical string form, in the same shape the platform
// uses, e.g. "Intent { act=android.intent.action.VIEW typ=image/* }".
func (x *Intent) String() string {
	if x == nil {
		return "null"
	}
	var parts []string
	if x.Action != "" {
		parts = append(parts, "act="+x.Action)
	}
	if len(x.Categories) != 0 {
		parts = append(parts, "cat=["+strings.Join(x.Categories, ",")+"]")
	}
	if x.Data != nil {
		parts = append(parts, "dat="+x.Data.String())
	}
	if x.Type != "" {
		parts = append(parts, "typ="+x.Type)
	}
	if x.Component != "" {
		parts = append(parts, "cmp="+x.Component)
	}
	if len(x.Extras) != 0 {
		keys := make([]string, 0, len(x.Extras))
		for k := range x.Extras {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts = append(parts, fmt.Sprintf("(has extras %v)", keys))
	}
	if len(parts) == 0 {
		return "Intent { }"
	}
	return "Intent { " + strings.Join(parts, " ") + " }"
}

// ParseURI parses a URI such as "content:foo" or "http://example.com/a".
func ParseURI(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("intent: invalid uri %q: %w", s, err)
	}
	return u, nil
}

// MustParseURI is like ParseURI but panics on error.
func MustParseURI(s string) *url.URL {
	u, err := ParseURI(s)
	if err != nil {
		panic(err)
	}
	return u
}
