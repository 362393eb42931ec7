package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/horizonenergysouth/horizon-crm/internal/entity"
)

func snapshot(names ...string) []entity.Lead {
	leads := make([]entity.Lead, len(names))
	for i, n := range names {
		leads[i] = entity.Lead{Name: n}
	}
	return leads
}

func TestSubscribeReceivesPublishedSnapshot(t *testing.T) {
	hub := NewHub()
	ch := hub.Subscribe()

	hub.Publish(snapshot("alice"))

	leads := <-ch
	assert.Len(t, leads, 1)
	assert.Equal(t, "alice", leads[0].Name)
}

func TestLateSubscriberGetsCurrentSnapshotImmediately(t *testing.T) {
	hub := NewHub()
	hub.Publish(snapshot("alice", "bob"))

	ch := hub.Subscribe()

	leads := <-ch
	assert.Len(t, leads, 2)
}

func TestSubscribeBeforeFirstSnapshotGetsNothing(t *testing.T) {
	hub := NewHub()
	ch := hub.Subscribe()

	select {
	case <-ch:
		t.Fatal("no snapshot should be pending")
	default:
	}
}

func TestSlowSubscriberSkipsToNewest(t *testing.T) {
	hub := NewHub()
	ch := hub.Subscribe()

	// Two publishes without a read in between: only the newest survives.
	hub.Publish(snapshot("stale"))
	hub.Publish(snapshot("fresh-1", "fresh-2"))

	leads := <-ch
	assert.Len(t, leads, 2)
	assert.Equal(t, "fresh-1", leads[0].Name)

	select {
	case <-ch:
		t.Fatal("stale snapshot should have been dropped")
	default:
	}
}

func TestPublishReachesEverySubscriber(t *testing.T) {
	hub := NewHub()
	a := hub.Subscribe()
	b := hub.Subscribe()

	hub.Publish(snapshot("alice"))

	assert.Len(t, <-a, 1)
	assert.Len(t, <-b, 1)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub()
	ch := hub.Subscribe()
	assert.Equal(t, 1, hub.SubscriberCount())

	hub.Unsubscribe(ch)
	assert.Equal(t, 0, hub.SubscriberCount())

	hub.Publish(snapshot("alice"))

	select {
	case <-ch:
		t.Fatal("unsubscribed channel should not receive")
	default:
	}
}

func TestLastTracksNewestSnapshot(t *testing.T) {
	hub := NewHub()

	_, ok := hub.Last()
	assert.False(t, ok)

	hub.Publish(snapshot("alice"))
	hub.Publish(snapshot("alice", "bob"))

	leads, ok := hub.Last()
	assert.True(t, ok)
	assert.Len(t, leads, 2)
}
