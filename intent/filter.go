package intent

import (
	"slices"
	"strings"
)

// Filter describes the intents a broadcast receiver accepts, modelled on the
// platform IntentFilter. The zero value accepts nothing.
type Filter struct {
	Actions     []string
	Categories  []string
	DataTypes   []string
	DataSchemes []string
	Priority    int
}

// NewFilter returns a Filter accepting the given actions.
func NewFilter(actions ...string) *Filter {
	f := &Filter{}
	for _, a := range actions {
		f.AddAction(a)
	}
	return f
}

// AddAction adds an accepted action.
func (f *Filter) AddAction(action string) *Filter {
	if !slices.Contains(f.Actions, action) {
		f.Actions = append(f.Actions, action)
	}
	return f
}

// AddCategory adds an accepted category.
func (f *Filter) AddCategory(category string) *Filter {
	if !slices.Contains(f.Categories, category) {
		f.Categories = append(f.Categories, category)
	}
	return f
}

// AddDataType adds an accepted MIME type, which may use wildcards.
func (f *Filter) AddDataType(mimeType string) *Filter {
	f.DataTypes = append(f.DataTypes, mimeType)
	return f
}

// AddDataScheme adds an accepted data URI scheme.
func (f *Filter) AddDataScheme(scheme string) *Filter {
	f.DataSchemes = append(f.DataSchemes, strings.ToLower(scheme))
	return f
}

// Match implements Matcher using the platform's resolution rules:
//   - action: the filter must list the intent's action; an intent without an
//     action passes if the filter lists at least one
//   - categories: every intent category must be listed by the filter
//   - data: see matchData
func (f *Filter) Match(delivered *Intent) bool {
	if f == nil || delivered == nil {
		return false
	}
	if delivered.Action == "" {
		if len(f.Actions) == 0 {
			return false
		}
	} else if !slices.Contains(f.Actions, delivered.Action) {
		return false
	}
	for _, c := range delivered.Categories {
		if !slices.Contains(f.Categories, c) {
			return false
		}
	}
	return f.matchData(delivered)
}

// matchData applies the data rules: a filter with neither types nor schemes
// only accepts intents without data and type; a filter with types requires a
// compatible type; a filter with schemes requires the data URI scheme to be
// listed, while a type-only filter implicitly accepts content: and file: data.
func (f *Filter) matchData(delivered *Intent) bool {
	scheme := ""
	if delivered.Data != nil {
		scheme = strings.ToLower(delivered.Data.Scheme)
	}

	if len(f.DataTypes) == 0 && len(f.DataSchemes) == 0 {
		return delivered.Type == "" && delivered.Data == nil
	}

	if len(f.DataSchemes) != 0 {
		if !slices.Contains(f.DataSchemes, scheme) {
			return false
		}
	} else if scheme != "" && scheme != "content" && scheme != "file" {
		return false
	}

	if len(f.DataTypes) == 0 {
		return delivered.Type == ""
	}
	if delivered.Type == "" {
		return false
	}
	for _, t := range f.DataTypes {
		if MatchMIME(t, delivered.Type) {
			return true
		}
	}
	return false
}

// String returns a compact description of the filter, for logging.
func (f *Filter) String() string {
	if f == nil {
		return "IntentFilter{}"
	}
	var b strings.Builder
	b.WriteString("IntentFilter{")
	sep := ""
	write := func(name string, vals []string) {
		if len(vals) == 0 {
			return
		}
		b.WriteString(sep)
		b.WriteString(name)
		b.WriteString("=[")
		b.WriteString(strings.Join(vals, ","))
		b.WriteString("]")
		sep = " "
	}
	write("act", f.Actions)
	write("cat", f.Categories)
	write("typ", f.DataTypes)
	write("sch", f.DataSchemes)
	b.WriteString("}")
	return b.String()
}
