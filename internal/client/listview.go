package client

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/hrms-portal/internal/pkg/pagination"
)

// FetchFunc loads one page for a query. It must honour ctx cancellation.
type FetchFunc[T any] func(ctx context.Context, q pagination.Query) (Page[T], error)

// ListView drives a paginated list from a pagination.Controller. Every query
// change cancels the fetch in flight and starts a new one; only the result
// of the latest query reaches OnResult.
type ListView[T any] struct {
	fetch    FetchFunc[T]
	onResult func(Page[T], error)

	controller *pagination.Controller

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	closed bool
	wg     sync.WaitGroup

	// deliverMu lets Close wait for a delivery that already started.
	deliverMu sync.Mutex
}

// NewListView builds a view with the given page size. onResult runs on a
// fetch goroutine and must not call Close.
func NewListView[T any](pageSize int, fetch FetchFunc[T], onResult func(Page[T], error), opts ...pagination.Option) (*ListView[T], error) {
	v := &ListView[T]{
		fetch:    fetch,
		onResult: onResult,
	}

	opts = append(opts, pagination.WithOnChange(v.load))
	controller, err := pagination.NewController(pageSize, opts...)
	if err != nil {
		return nil, err
	}
	v.controller = controller
	return v, nil
}

func (v *ListView[T]) Controller() *pagination.Controller {
	return v.controller
}

// Refresh fetches the current query again.
func (v *ListView[T]) Refresh() {
	v.load(v.controller.Query())
}

// Close cancels the pending search and the fetch in flight. No result is
// delivered once Close has returned.
func (v *ListView[T]) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	if v.cancel != nil {
		v.cancel()
	}
	v.mu.Unlock()

	v.controller.Close()

	v.deliverMu.Lock()
	//nolint:staticcheck // empty critical section waits for an in-flight delivery
	v.deliverMu.Unlock()
}

// Wait blocks until every started fetch has returned.
func (v *ListView[T]) Wait() {
	v.wg.Wait()
}

func (v *ListView[T]) load(q pagination.Query) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	if v.cancel != nil {
		v.cancel()
	}
	v.seq++
	seq := v.seq
	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	v.wg.Add(1)
	v.mu.Unlock()

	go func() {
		defer v.wg.Done()
		defer cancel()

		page, err := v.fetch(ctx, q)
		page.Query = q

		v.deliverMu.Lock()
		defer v.deliverMu.Unlock()

		v.mu.Lock()
		current := !v.closed && seq == v.seq
		v.mu.Unlock()
		if !current || v.onResult == nil {
			return
		}
		v.onResult(page, err)
	}()
}
