package pagination

import (
	"sync"
	"time"

	"github.com/cmlabs-hris/hrms-portal/internal/pkg/debounce"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/validator"
)

// State is a snapshot of a Controller.
type State struct {
	PageIndex       int
	PageSize        int
	RawSearch       string
	DebouncedSearch string
}

func (s State) Skip() int  { return s.PageIndex * s.PageSize }
func (s State) Limit() int { return s.PageSize }

// Query is what a list fetch is built from.
func (s State) Query() Query {
	return Query{Skip: s.Skip(), Limit: s.Limit(), Search: s.DebouncedSearch}
}

type Option func(*Controller)

// WithDebounceDelay sets the quiet period applied to SetSearch.
func WithDebounceDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.delay = d
	}
}

// WithOnChange registers a callback invoked with the new query every time
// the derived query changes. It may run on the debounce timer goroutine.
func WithOnChange(fn func(Query)) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// Controller tracks page index, page size and a debounced search term for a
// server-paginated list. Skip and limit are always derived from the page
// index and size.
type Controller struct {
	delay    time.Duration
	onChange func(Query)

	mu        sync.RWMutex
	state     State
	lastQuery Query
	closed    bool

	search *debounce.Debouncer[string]
}

func NewController(pageSize int, opts ...Option) (*Controller, error) {
	if pageSize <= 0 {
		return nil, validator.Single("page_size", "page_size must be a positive number")
	}

	c := &Controller{
		delay: debounce.DefaultDelay,
		state: State{PageSize: pageSize},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.lastQuery = c.state.Query()
	c.search = debounce.New(c.delay, c.settleSearch)
	return c, nil
}

// SetPage moves to a page. Other fields are untouched.
func (c *Controller) SetPage(index int) error {
	if index < 0 {
		return validator.Single("page_index", "page_index must not be negative")
	}
	c.update(func(s *State) {
		s.PageIndex = index
	})
	return nil
}

// SetPageSize changes the page size and goes back to the first page.
func (c *Controller) SetPageSize(size int) error {
	if size <= 0 {
		return validator.Single("page_size", "page_size must be a positive number")
	}
	c.update(func(s *State) {
		s.PageSize = size
		s.PageIndex = 0
	})
	return nil
}

// SetSearch records the raw term right away and resets to the first page.
// The term used for queries follows after the quiet period. Repeating the
// current raw term changes nothing.
func (c *Controller) SetSearch(term string) {
	changed := false
	applied := c.update(func(s *State) {
		if s.RawSearch == term {
			return
		}
		changed = true
		s.RawSearch = term
		s.PageIndex = 0
	})
	if applied && changed {
		c.search.Push(term)
	}
}

// NextPage and PrevPage are conveniences for keyboard-driven views.
func (c *Controller) NextPage() {
	c.update(func(s *State) {
		s.PageIndex++
	})
}

func (c *Controller) PrevPage() {
	c.update(func(s *State) {
		if s.PageIndex > 0 {
			s.PageIndex--
		}
	})
}

func (c *Controller) PageIndex() int {
	return c.State().PageIndex
}

func (c *Controller) PageSize() int {
	return c.State().PageSize
}

func (c *Controller) RawSearch() string {
	return c.State().RawSearch
}

func (c *Controller) DebouncedSearch() string {
	return c.State().DebouncedSearch
}

func (c *Controller) Skip() int {
	return c.State().Skip()
}

func (c *Controller) Limit() int {
	return c.State().Limit()
}

func (c *Controller) Query() Query {
	return c.State().Query()
}

func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// FlushSearch applies the pending search term without waiting.
func (c *Controller) FlushSearch() {
	c.search.Flush()
}

// Close cancels the pending search. After Close returns the state no longer
// changes and the change callback is not called again.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.search.Stop()
}

func (c *Controller) settleSearch(term string) {
	c.update(func(s *State) {
		if s.DebouncedSearch != term {
			s.PageIndex = 0
		}
		s.DebouncedSearch = term
	})
}

// update applies fn under the lock and notifies outside of it. It returns
// false when the controller is closed.
func (c *Controller) update(fn func(*State)) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	fn(&c.state)
	q := c.state.Query()
	changed := q != c.lastQuery
	if changed {
		c.lastQuery = q
	}
	onChange := c.onChange
	c.mu.Unlock()

	if changed && onChange != nil {
		onChange(q)
	}
	return true
}
