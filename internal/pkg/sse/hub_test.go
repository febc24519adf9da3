package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesOnlyCompanySubscribers(t *testing.T) {
	hub := NewHub()

	acme, cleanupAcme := hub.Subscribe("acme")
	defer cleanupAcme()
	other, cleanupOther := hub.Subscribe("globex")
	defer cleanupOther()

	delivered := hub.Publish("acme", EventHolidayCreated, map[string]string{"date": "2024-01-01"})
	assert.Equal(t, 1, delivered)

	select {
	case ev := <-acme:
		assert.Equal(t, EventHolidayCreated, ev.Name)
		assert.Equal(t, "acme", ev.CompanyID)
		assert.Equal(t, uint64(1), ev.ID)
	default:
		t.Fatal("expected an event for acme")
	}

	select {
	case ev := <-other:
		t.Fatalf("unexpected event for globex: %+v", ev)
	default:
	}
}

func TestHub_CleanupClosesChannel(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe("acme")
	require.Equal(t, 1, hub.SubscriberCount("acme"))

	cleanup()
	cleanup()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.SubscriberCount("acme"))
	assert.Equal(t, 0, hub.TotalSubscribers())
	assert.Equal(t, 0, hub.Publish("acme", EventHolidayDeleted, nil))
}

func TestHub_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()

	_, cleanup := hub.Subscribe("acme")
	defer cleanup()

	for i := 0; i < subscriberBuffer; i++ {
		require.Equal(t, 1, hub.Publish("acme", EventHolidayImported, i))
	}

	assert.Equal(t, 0, hub.Publish("acme", EventHolidayImported, "overflow"))
	assert.Equal(t, uint64(1), hub.Dropped())
}
