package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchMIME(t *testing.T) {
	for _, tc := range [...]struct {
		a, b     string
		expected bool
	}{
		{`image/*`, `image/*`, true},
		{`image/*`, `image/png`, true},
		{`image/png`, `image/*`, true},
		{`image/png`, `IMAGE/PNG`, true},
		{`image/png`, `image/jpeg`, false},
		{`audio/*`, `image/*`, false},
		{`audio/*`, `video/*`, false},
		{`*/*`, `video/mp4`, true},
		{`*`, `text/plain`, true},
		{`text/plain; charset=utf-8`, `text/plain`, true},
		{``, `text/plain`, false},
		{`text/plain`, ``, false},
	} {
		assert.Equalf(t, tc.expected, MatchMIME(tc.a, tc.b), "MatchMIME(%q, %q)", tc.a, tc.b)
	}
}

func TestIntent_Match(t *testing.T) {
	delivered := New().
		SetAction(`pick`).
		AddCategory(`c1`).
		AddCategory(`c2`).
		SetDataAndType(MustParseURI(`content:foo`), `image/png`).
		SetComponent(`pkg/.A`)

	for _, tc := range [...]struct {
		name     string
		template *Intent
		expected bool
	}{
		{`empty template`, New(), true},
		{`type wildcard`, New().SetType(`image/*`), true},
		{`type mismatch`, New().SetType(`audio/*`), false},
		{`action`, New().SetAction(`pick`), true},
		{`action mismatch`, New().SetAction(`view`), false},
		{`data`, New().SetData(MustParseURI(`content:foo`)), true},
		{`data mismatch`, New().SetData(MustParseURI(`content:bar`)), false},
		{`component`, New().SetComponent(`pkg/.A`), true},
		{`component mismatch`, New().SetComponent(`pkg/.B`), false},
		{`category subset`, New().AddCategory(`c2`), true},
		{`category missing`, New().AddCategory(`c3`), false},
		{`nil template`, nil, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.template.Match(delivered))
		})
	}

	assert.False(t, New().Match(nil))
}

func TestIntent_Specificity(t *testing.T) {
	assert.Equal(t, 0, New().Specificity())
	assert.Equal(t, 0, New().SetType(`*/*`).Specificity())
	assert.Equal(t, 1, New().SetType(`image/*`).Specificity())
	assert.Equal(t, 2, New().SetType(`image/png`).Specificity())
	assert.Equal(t, 4, New().SetAction(`a`).AddCategory(`c`).SetType(`image/*`).SetComponent(``).AddCategory(`d`).Specificity())
	assert.Equal(t, 0, (*Intent)(nil).Specificity())
}

func TestMatcherFunc(t *testing.T) {
	var m Matcher = MatcherFunc(func(delivered *Intent) bool { return delivered.Action == `x` })
	assert.True(t, m.Match(New().SetAction(`x`)))
	assert.False(t, m.Match(New()))
}
