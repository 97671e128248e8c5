package result

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/joeycumines/go-shadowdroid/intent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultOK = -1

type delivery struct {
	data        string
	requestCode int
	resultCode  int
}

func recorder(out *[]delivery) Callback {
	return func(requestCode, resultCode int, data *intent.Intent) {
		*out = append(*out, delivery{requestCode: requestCode, resultCode: resultCode, data: data.DataString()})
	}
}

func TestRouter_DeliversToMatchingRequest(t *testing.T) {
	r := New()
	var got []delivery
	_, err := r.Issue(nil, 123, intent.New().SetType(`audio/*`), recorder(&got))
	require.NoError(t, err)
	_, err = r.Issue(nil, 456, intent.New().SetType(`image/*`), recorder(&got))
	require.NoError(t, err)

	require.NoError(t, r.Deliver(
		intent.New().SetType(`image/*`),
		resultOK,
		intent.New().SetData(intent.MustParseURI(`content:foo`)),
	))

	assert.Equal(t, []delivery{{requestCode: 456, resultCode: -1, data: `content:foo`}}, got)
	require.Equal(t, 1, r.Len())
	assert.Equal(t, 123, r.Pending()[0].RequestCode)
}

func TestRouter_NoMatch(t *testing.T) {
	r := New()
	cb := func(int, int, *intent.Intent) { t.Fatal(`should not be called`) }
	_, err := r.Issue(nil, 123, intent.New().SetType(`audio/*`), cb)
	require.NoError(t, err)
	_, err = r.Issue(nil, 456, intent.New().SetType(`image/*`), cb)
	require.NoError(t, err)

	requested := intent.New().SetType(`video/*`)
	err = r.Deliver(requested, resultOK, intent.New().SetData(intent.MustParseURI(`content:foo`)))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), `No intent matches `+requested.String()), err.Error())
	assert.Equal(t,
		`No intent matches Intent { typ=video/* } among [Intent { typ=audio/* } (requestCode=123), Intent { typ=image/* } (requestCode=456)]`,
		err.Error(),
	)
	assert.ErrorIs(t, err, ErrNoMatchingRequest)
	var noMatch *NoMatchError
	require.ErrorAs(t, err, &noMatch)
	assert.Same(t, requested, noMatch.Intent)
	assert.Len(t, noMatch.Pending, 2)
	assert.Equal(t, 2, r.Len())
}

func TestRouter_NoMatchEmpty(t *testing.T) {
	err := New().Deliver(intent.New(), resultOK, nil)
	assert.ErrorIs(t, err, ErrNoMatchingRequest)
	assert.Equal(t, `No intent matches Intent { } among []`, err.Error())
}

func TestRouter_IdenticalMatchersMostRecentWins(t *testing.T) {
	r := New()
	var got []delivery
	for _, code := range []int{1, 2, 3} {
		_, err := r.Issue(nil, code, intent.New().SetType(`image/*`), recorder(&got))
		require.NoError(t, err)
	}

	for range 3 {
		require.NoError(t, r.Deliver(intent.New().SetType(`image/png`), resultOK, nil))
	}
	assert.Equal(t, []delivery{{requestCode: 3, resultCode: -1}, {requestCode: 2, resultCode: -1}, {requestCode: 1, resultCode: -1}}, got)
	assert.Equal(t, 0, r.Len())
	assert.ErrorIs(t, r.Deliver(intent.New().SetType(`image/png`), resultOK, nil), ErrNoMatchingRequest)
}

func TestRouter_MostSpecificWins(t *testing.T) {
	r := New()
	var got []delivery
	_, err := r.Issue(nil, 1, intent.New().SetType(`image/png`), recorder(&got))
	require.NoError(t, err)
	_, err = r.Issue(nil, 2, intent.New().SetType(`image/*`), recorder(&got))
	require.NoError(t, err)
	_, err = r.Issue(nil, 3, intent.New(), recorder(&got))
	require.NoError(t, err)

	require.NoError(t, r.Deliver(intent.New().SetType(`image/png`), 0, nil))
	require.NoError(t, r.Deliver(intent.New().SetType(`image/png`), 0, nil))
	require.NoError(t, r.Deliver(intent.New().SetType(`image/png`), 0, nil))
	assert.Equal(t, []delivery{{requestCode: 1}, {requestCode: 2}, {requestCode: 3}}, got)
}

func TestRouter_DeliverFor(t *testing.T) {
	r := New()
	ownerA, ownerB := new(int), new(int)
	var got []delivery
	_, err := r.Issue(ownerA, 1, intent.New().SetType(`image/*`), recorder(&got))
	require.NoError(t, err)
	_, err = r.Issue(ownerB, 2, intent.New().SetType(`image/*`), recorder(&got))
	require.NoError(t, err)

	require.NoError(t, r.DeliverFor(ownerA, intent.New().SetType(`image/*`), 5, nil))
	assert.Equal(t, []delivery{{requestCode: 1, resultCode: 5}}, got)

	err = r.DeliverFor(ownerA, intent.New().SetType(`image/*`), 5, nil)
	var noMatch *NoMatchError
	require.ErrorAs(t, err, &noMatch)
	assert.Empty(t, noMatch.Pending)

	assert.Len(t, r.PendingFor(ownerB), 1)
	assert.Empty(t, r.PendingFor(ownerA))
}

func TestRouter_CallbackMayIssue(t *testing.T) {
	r := New()
	var codes []int
	var cb Callback
	cb = func(requestCode, _ int, _ *intent.Intent) {
		codes = append(codes, requestCode)
		if requestCode < 3 {
			_, err := r.Issue(nil, requestCode+1, intent.New(), cb)
			require.NoError(t, err)
		}
	}
	_, err := r.Issue(nil, 1, intent.New(), cb)
	require.NoError(t, err)
	for range 3 {
		require.NoError(t, r.Deliver(intent.New(), 0, nil))
	}
	assert.Equal(t, []int{1, 2, 3}, codes)
}

func TestRouter_CustomMatcher(t *testing.T) {
	r := New()
	var got []delivery
	req, err := r.Issue(nil, 9, intent.MatcherFunc(func(delivered *intent.Intent) bool {
		return delivered.Action == `x`
	}), recorder(&got))
	require.NoError(t, err)
	assert.Equal(t, `intent.MatcherFunc (requestCode=9)`, req.String())
	assert.Equal(t, uint64(1), req.Seq())

	assert.Error(t, r.Deliver(intent.New(), 0, nil))
	require.NoError(t, r.Deliver(intent.New().SetAction(`x`), 0, nil))
	assert.Len(t, got, 1)
}

func TestRouter_Cancel(t *testing.T) {
	r := New()
	req, err := r.Issue(nil, 1, intent.New(), func(int, int, *intent.Intent) {})
	require.NoError(t, err)
	assert.True(t, r.Cancel(req))
	assert.False(t, r.Cancel(req))
	assert.ErrorIs(t, r.Deliver(intent.New(), 0, nil), ErrNoMatchingRequest)
}

func TestRouter_Reset(t *testing.T) {
	r := New()
	for i := range 5 {
		_, err := r.Issue(nil, i, intent.New(), func(int, int, *intent.Intent) {})
		require.NoError(t, err)
	}
	r.Reset()
	assert.Equal(t, 0, r.Len())
}

func TestRouter_IssueErrors(t *testing.T) {
	r := New(nil, WithLogger(nil))
	_, err := r.Issue(nil, 1, nil, func(int, int, *intent.Intent) {})
	assert.ErrorIs(t, err, ErrNilMatcher)
	_, err = r.Issue(nil, 1, intent.New(), nil)
	assert.ErrorIs(t, err, ErrNilCallback)
	_, err = r.Issue([]string{`not comparable`}, 1, intent.New(), func(int, int, *intent.Intent) {})
	assert.ErrorIs(t, err, ErrInvalidOwner)
	assert.Equal(t, `result: owner is not comparable: []string`, err.Error())
	_, err = r.Issue(map[string]int{}, 1, intent.New(), func(int, int, *intent.Intent) {})
	assert.ErrorIs(t, err, ErrInvalidOwner)
	assert.Equal(t, 0, r.Len())
}

func TestRouter_NonComparableQueryOwner(t *testing.T) {
	r := New()
	_, err := r.Issue(&struct{}{}, 1, intent.New(), func(int, int, *intent.Intent) {})
	require.NoError(t, err)
	assert.Empty(t, r.PendingFor([]int{1}))
	assert.ErrorIs(t, r.DeliverFor([]int{1}, intent.New(), resultOK, nil), ErrNoMatchingRequest)
	assert.Equal(t, 1, r.Len())
}

func TestRequest_StringNil(t *testing.T) {
	assert.Equal(t, `<nil>`, (*Request)(nil).String())
}

func ExampleRouter_Deliver() {
	r := New()
	onResult := func(requestCode, resultCode int, data *intent.Intent) {
		fmt.Println(`requestCode`, requestCode, `resultCode`, resultCode, `data`, data.DataString())
	}
	_, _ = r.Issue(nil, 123, intent.New().SetType(`audio/*`), onResult)
	_, _ = r.Issue(nil, 456, intent.New().SetType(`image/*`), onResult)

	_ = r.Deliver(intent.New().SetType(`image/*`), -1, intent.New().SetData(intent.MustParseURI(`content:foo`)))

	err := r.Deliver(intent.New().SetType(`video/*`), -1, nil)
	fmt.Println(errors.Is(err, ErrNoMatchingRequest))

	//output:
	//requestCode 456 resultCode -1 data content:foo
	//true
}
