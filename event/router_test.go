package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/orbit-runner/parameter"
)

func TestQueueFIFOAndReuse(t *testing.T) {
	q := NewEventQueue()
	q.Push(GameEvent{Type: EventNearMiss, Tick: 1})
	q.Push(GameEvent{Type: EventGameOver, Tick: 2})
	require.Equal(t, 2, q.Len())

	got := q.Consume()
	require.Len(t, got, 2)
	assert.Equal(t, EventNearMiss, got[0].Type)
	assert.Equal(t, EventGameOver, got[1].Type)
	assert.Equal(t, 0, q.Len())
	assert.Nil(t, q.Consume())
}

func TestQueueOverflowDropsOldest(t *testing.T) {
	q := NewEventQueue()
	for i := 0; i < parameter.EventQueueSize+3; i++ {
		q.Push(GameEvent{Type: EventObstacleSpawned, Tick: int64(i)})
	}
	assert.Equal(t, parameter.EventQueueSize, q.Len())
	assert.Equal(t, uint64(3), q.Dropped())

	got := q.Consume()
	require.Len(t, got, parameter.EventQueueSize)
	assert.Equal(t, int64(3), got[0].Tick)
}

func TestRouterOrderAndReentrantPublish(t *testing.T) {
	r := NewRouter(NewEventQueue())
	var seen []string

	r.Subscribe(func(ev GameEvent) {
		seen = append(seen, "first:"+ev.Type.String())
		if ev.Type == EventNearMiss {
			r.Publish(EventBreathingRoomStarted, &BreathingRoomPayload{Duration: 1})
		}
	}, EventNearMiss, EventBreathingRoomStarted)
	r.Subscribe(func(ev GameEvent) {
		seen = append(seen, "second:"+ev.Type.String())
	}, EventNearMiss)

	r.SetTick(7)
	r.Publish(EventNearMiss, &NearMissPayload{})
	n := r.DispatchAll()

	assert.Equal(t, 2, n)
	assert.Equal(t, []string{
		"first:NearMiss",
		"second:NearMiss",
		"first:BreathingRoomStarted",
	}, seen)
	assert.Equal(t, 2, r.HandlerCount(EventNearMiss))
	assert.False(t, r.HasHandlers(EventWaveEnded))
}

func TestSubscribeAllCoversEveryType(t *testing.T) {
	r := NewRouter(NewEventQueue())
	count := 0
	r.Subscribe(func(GameEvent) { count++ })
	for _, typ := range AllTypes() {
		r.Publish(typ, nil)
	}
	r.DispatchAll()
	assert.Equal(t, len(AllTypes()), count)
	assert.Equal(t, "Unknown", EventType(999).String())
	assert.Equal(t, "force_cleared", ClearForced.String())
}
