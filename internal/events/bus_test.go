package events

import (
	"context"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBusDelivers(t *testing.T) {
	bus := NewMemoryBus(hclog.NewNullLogger())
	ch, cancel := bus.Subscribe(4)
	defer cancel()

	bus.Publish(context.Background(), NewEntityEvent(EventCreated, EntityAsset, "a1"))

	ev := <-ch
	assert.Equal(t, EventCreated, ev.Type)
	assert.Equal(t, EntityAsset, ev.Entity)
	assert.Equal(t, "a1", ev.ID)
	assert.False(t, ev.At.IsZero())
}

func TestMemoryBusDropsForSlowSubscriber(t *testing.T) {
	bus := NewMemoryBus(hclog.NewNullLogger())
	ch, cancel := bus.Subscribe(1)
	defer cancel()

	bus.Publish(context.Background(), NewEntityEvent(EventCreated, EntityAsset, "a1"))
	bus.Publish(context.Background(), NewEntityEvent(EventCreated, EntityAsset, "a2"))

	require.Len(t, ch, 1)
	assert.Equal(t, "a1", (<-ch).ID)
}

func TestMemoryBusUnsubscribeAndClose(t *testing.T) {
	bus := NewMemoryBus(hclog.NewNullLogger())
	ch, cancel := bus.Subscribe(1)
	assert.Equal(t, 1, bus.SubscriberCount())

	cancel()
	cancel()
	assert.Equal(t, 0, bus.SubscriberCount())
	_, open := <-ch
	assert.False(t, open)

	other, _ := bus.Subscribe(1)
	bus.Close()
	_, open = <-other
	assert.False(t, open)

	late, _ := bus.Subscribe(1)
	_, open = <-late
	assert.False(t, open)
}
