package sse

import (
	"sync"
	"sync/atomic"
)

// Event names published by the portal.
const (
	EventHolidayCreated  = "holiday.created"
	EventHolidayDeleted  = "holiday.deleted"
	EventHolidayImported = "holiday.imported"
)

// subscriberBuffer is how many events a slow subscriber may lag behind
// before new events are dropped for it.
const subscriberBuffer = 16

// Event is one message delivered to the subscribers of a company.
type Event struct {
	ID        uint64      `json:"id"`
	CompanyID string      `json:"company_id"`
	Name      string      `json:"event"`
	Data      interface{} `json:"data"`
}

// Hub fans events out to the open streams of each company.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
	seq         atomic.Uint64
	dropped     atomic.Uint64
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a stream for companyID. The returned cleanup closes the
// channel and must be called exactly once.
func (h *Hub) Subscribe(companyID string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)

	if h.subscribers[companyID] == nil {
		h.subscribers[companyID] = make(map[chan Event]struct{})
	}
	h.subscribers[companyID][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[companyID], ch)
			close(ch)
			if len(h.subscribers[companyID]) == 0 {
				delete(h.subscribers, companyID)
			}
		})
	}

	return ch, cleanup
}

// Publish delivers an event to every stream of companyID without blocking.
// It returns the number of streams that received it.
func (h *Hub) Publish(companyID, name string, data interface{}) int {
	event := Event{
		ID:        h.seq.Add(1),
		CompanyID: companyID,
		Name:      name,
		Data:      data,
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for ch := range h.subscribers[companyID] {
		select {
		case ch <- event:
			delivered++
		default:
			h.dropped.Add(1)
		}
	}
	return delivered
}

func (h *Hub) SubscriberCount(companyID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[companyID])
}

// TotalSubscribers returns the number of open streams across all companies.
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}

// Dropped counts events skipped because a subscriber buffer was full.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}
