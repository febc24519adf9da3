package pagination

import (
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-portal/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type queryLog struct {
	mu      sync.Mutex
	queries []Query
}

func (l *queryLog) add(q Query) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.queries = append(l.queries, q)
}

func (l *queryLog) all() []Query {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Query(nil), l.queries...)
}

func TestNewController_RejectsNonPositivePageSize(t *testing.T) {
	_, err := NewController(0)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("page_size"))
}

func TestController_DerivedValues(t *testing.T) {
	c, err := NewController(10)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.SetPage(3))
	assert.Equal(t, 3, c.PageIndex())
	assert.Equal(t, 30, c.Skip())
	assert.Equal(t, 10, c.Limit())
}

func TestController_SetPageSizeResetsPage(t *testing.T) {
	c, err := NewController(10)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.SetPage(3))
	require.NoError(t, c.SetPageSize(20))

	assert.Equal(t, 0, c.PageIndex())
	assert.Equal(t, 0, c.Skip())
	assert.Equal(t, 20, c.Limit())
	assert.Equal(t, 20, c.PageSize())
}

func TestController_RejectsInvalidMutations(t *testing.T) {
	c, err := NewController(10)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.SetPage(2))

	err = c.SetPage(-1)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("page_index"))

	err = c.SetPageSize(0)
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("page_size"))

	// Rejected calls leave state alone.
	assert.Equal(t, 2, c.PageIndex())
	assert.Equal(t, 10, c.PageSize())
}

func TestController_SetSearchResetsPageOnKeystroke(t *testing.T) {
	c, err := NewController(10, WithDebounceDelay(time.Hour))
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.SetPage(4))
	c.SetSearch("jo")

	assert.Equal(t, "jo", c.RawSearch())
	assert.Equal(t, "", c.DebouncedSearch())
	assert.Equal(t, 0, c.PageIndex())
}

func TestController_SetSearchSameTermKeepsPage(t *testing.T) {
	log := &queryLog{}
	c, err := NewController(10, WithDebounceDelay(time.Hour), WithOnChange(log.add))
	require.NoError(t, err)
	defer c.Close()

	c.SetSearch("eid")
	c.FlushSearch()
	require.NoError(t, c.SetPage(2))
	before := len(log.all())

	c.SetSearch("eid")

	assert.Equal(t, 2, c.PageIndex())
	assert.Equal(t, 20, c.Skip())
	c.FlushSearch()
	assert.Equal(t, 2, c.PageIndex(), "no search was re-armed")
	assert.Len(t, log.all(), before)
}

func TestController_DebouncedSearchSettlesOnceToLastTerm(t *testing.T) {
	log := &queryLog{}
	settled := make(chan Query, 8)
	c, err := NewController(10,
		WithDebounceDelay(300*time.Millisecond),
		WithOnChange(func(q Query) {
			log.add(q)
			if q.Search != "" {
				settled <- q
			}
		}),
	)
	require.NoError(t, err)
	defer c.Close()

	c.SetSearch("a")
	time.Sleep(100 * time.Millisecond)
	c.SetSearch("ab")
	time.Sleep(100 * time.Millisecond)
	last := time.Now()
	c.SetSearch("abc")

	select {
	case q := <-settled:
		assert.Equal(t, "abc", q.Search)
		assert.GreaterOrEqual(t, time.Since(last), 300*time.Millisecond)
	case <-time.After(3 * time.Second):
		t.Fatal("search never settled")
	}

	select {
	case q := <-settled:
		t.Fatalf("unexpected extra settle %+v", q)
	case <-time.After(400 * time.Millisecond):
	}

	assert.Equal(t, "abc", c.DebouncedSearch())
	searches := 0
	for _, q := range log.all() {
		if q.Search != "" {
			searches++
		}
	}
	assert.Equal(t, 1, searches)
}

func TestController_SettleResetsPageChosenDuringQuietPeriod(t *testing.T) {
	c, err := NewController(10, WithDebounceDelay(time.Hour))
	require.NoError(t, err)
	defer c.Close()

	c.SetSearch("ann")
	require.NoError(t, c.SetPage(2))
	c.FlushSearch()

	assert.Equal(t, "ann", c.DebouncedSearch())
	assert.Equal(t, 0, c.PageIndex())
}

func TestController_OnChangeOnlyWhenQueryChanges(t *testing.T) {
	log := &queryLog{}
	c, err := NewController(10, WithDebounceDelay(time.Hour), WithOnChange(log.add))
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.SetPage(0)) // unchanged
	require.NoError(t, c.SetPage(1))
	require.NoError(t, c.SetPage(1)) // unchanged
	require.NoError(t, c.SetPageSize(25))
	c.SetSearch("x") // page already 0, search not settled yet

	assert.Equal(t, []Query{
		{Skip: 10, Limit: 10},
		{Skip: 0, Limit: 25},
	}, log.all())

	c.FlushSearch()
	assert.Equal(t, Query{Skip: 0, Limit: 25, Search: "x"}, log.all()[2])
}

func TestController_NextPrevPage(t *testing.T) {
	c, err := NewController(5)
	require.NoError(t, err)
	defer c.Close()

	c.PrevPage()
	assert.Equal(t, 0, c.PageIndex())
	c.NextPage()
	c.NextPage()
	assert.Equal(t, 10, c.Skip())
	c.PrevPage()
	assert.Equal(t, 5, c.Skip())
}

func TestController_CloseCancelsPendingSearch(t *testing.T) {
	log := &queryLog{}
	c, err := NewController(10, WithDebounceDelay(50*time.Millisecond), WithOnChange(log.add))
	require.NoError(t, err)

	c.SetSearch("late")
	c.Close()
	time.Sleep(150 * time.Millisecond)

	assert.Equal(t, "", c.DebouncedSearch())
	assert.Empty(t, log.all())

	// Mutations after Close are dropped.
	require.NoError(t, c.SetPage(3))
	assert.Equal(t, 0, c.PageIndex())
}

func TestState_Query(t *testing.T) {
	s := State{PageIndex: 2, PageSize: 15, RawSearch: "abc", DebouncedSearch: "ab"}
	assert.Equal(t, Query{Skip: 30, Limit: 15, Search: "ab"}, s.Query())
}
