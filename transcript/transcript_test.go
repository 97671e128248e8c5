package transcript

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockT struct {
	errors []string
}

func (m *mockT) Errorf(format string, args ...any) {
	m.errors = append(m.errors, fmt.Sprintf(format, args...))
}

func TestTranscript_AssertEventsSoFar(t *testing.T) {
	tr := New()
	tr.Add(`one`)
	tr.Addf(`two %d`, 2)
	assert.Equal(t, []string{`one`, `two 2`}, tr.Events())

	assert.True(t, tr.AssertEventsSoFar(t, `one`, `two 2`))
	assert.Empty(t, tr.Events())
	assert.True(t, tr.AssertNoEventsSoFar(t))
}

func TestTranscript_AssertEventsSoFarMismatch(t *testing.T) {
	tr := New()
	tr.Add(`b`)
	tr.Add(`a`)

	m := new(mockT)
	assert.False(t, tr.AssertEventsSoFar(m, `a`, `b`))
	if assert.Len(t, m.errors, 1) {
		assert.Contains(t, m.errors[0], `unexpected transcript events`)
		assert.Contains(t, m.errors[0], `-want +got`)
	}
	// cleared even on failure
	assert.Empty(t, tr.Events())
}

func TestTranscript_AssertNoEventsSoFarMismatch(t *testing.T) {
	var tr Transcript
	tr.Add(`surprise`)
	m := new(mockT)
	assert.False(t, tr.AssertNoEventsSoFar(m))
	if assert.Len(t, m.errors, 1) {
		assert.True(t, strings.Contains(m.errors[0], `surprise`), m.errors[0])
	}
}

func TestTranscript_Clear(t *testing.T) {
	tr := New()
	tr.Add(`x`)
	tr.Clear()
	assert.Nil(t, tr.Events())
}

func TestTranscript_Concurrent(t *testing.T) {
	tr := New()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Addf(`%d`, i)
		}()
	}
	wg.Wait()
	assert.Len(t, tr.Events(), 50)
}
