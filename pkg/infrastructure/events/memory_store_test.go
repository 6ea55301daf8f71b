package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2025, 11, 20, 14, 30, 0, 0, time.UTC)

func TestInMemoryEventStore_VersionsPerStream(t *testing.T) {
	store := NewInMemoryEventStore()

	require.NoError(t, store.AppendEvent("p1", NewEvent(ProjectCreatedEvent, "p1", ProjectChanged{OPNumber: "OP-1"}, at)))
	require.NoError(t, store.AppendEvent("p2", NewEvent(ProjectCreatedEvent, "p2", ProjectChanged{OPNumber: "OP-2"}, at)))
	require.NoError(t, store.AppendEvent("p1", NewEvent(MaterialStockSetEvent, "p1", MaterialStockSet{MaterialID: "m1"}, at)))

	p1, err := store.ReadEvents("p1", 0)
	require.NoError(t, err)
	require.Len(t, p1, 2)
	assert.Equal(t, 1, p1[0].Version())
	assert.Equal(t, 2, p1[1].Version())
	assert.Equal(t, MaterialStockSetEvent, p1[1].Type())

	later, err := store.ReadEvents("p1", 2)
	require.NoError(t, err)
	assert.Len(t, later, 1)

	all, err := store.ReadAllEvents(1)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 3, store.Len())

	missing, err := store.ReadEvents("nope", 0)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestInMemoryEventStore_Subscribers(t *testing.T) {
	store := NewInMemoryEventStore()
	received := make(chan Event, 4)
	handler := NewFuncHandler(func(e Event) error {
		received <- e
		return nil
	})

	require.NoError(t, store.Subscribe([]string{ProjectStatusChangedEvent}, handler))
	require.NoError(t, store.AppendEvent("p1", NewEvent(ProjectStatusChangedEvent, "p1", ProjectStatusChanged{Transition: "complete"}, at)))

	select {
	case e := <-received:
		assert.Equal(t, "p1", e.StreamID())
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not notified")
	}

	require.NoError(t, store.Unsubscribe(handler))
	require.NoError(t, store.AppendEvent("p1", NewEvent(ProjectStatusChangedEvent, "p1", nil, at)))

	select {
	case <-received:
		t.Fatal("unsubscribed handler was notified")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestInMemoryEventStore_Bounded(t *testing.T) {
	store := NewBoundedEventStore(2)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.AppendEvent("p1", NewEvent(MaterialStockSetEvent, "p1", nil, at)))
	}

	assert.Equal(t, 5, store.Len())
	retained, err := store.ReadEvents("p1", 0)
	require.NoError(t, err)
	require.Len(t, retained, 2)
	assert.Equal(t, 4, retained[0].Version())
	assert.Equal(t, 5, retained[1].Version())

	tail, err := store.ReadAllEvents(4)
	require.NoError(t, err)
	require.Len(t, tail, 1)
	assert.Equal(t, 5, tail[0].Version())

	all, err := store.ReadAllEvents(0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestInMemoryEventStore_WildcardSubscriber(t *testing.T) {
	store := NewInMemoryEventStore()
	received := make(chan string, 4)
	require.NoError(t, store.Subscribe([]string{AnyType}, NewFuncHandler(func(e Event) error {
		received <- e.Type()
		return nil
	})))

	require.NoError(t, store.AppendEvent(TimesheetStream, NewEvent(JobStartedEvent, TimesheetStream, nil, at)))

	select {
	case typ := <-received:
		assert.Equal(t, JobStartedEvent, typ)
	case <-time.After(2 * time.Second):
		t.Fatal("wildcard handler was not notified")
	}
}
