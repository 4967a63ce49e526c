package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueBasic(t *testing.T) {
	q := NewQueue[PlayerEvent]()
	assert.True(t, q.IsEmpty())
	assert.Equal(t, 0, q.Len())

	q.Push(PlayerEvent{Kind: PlayerLoad})
	assert.Equal(t, 1, q.Len())

	e, ok := q.Poll()
	require.True(t, ok)
	assert.Equal(t, PlayerLoad, e.Kind)
	assert.True(t, q.IsEmpty())

	_, ok = q.Poll()
	assert.False(t, ok)
}

func TestFrameCoalescing(t *testing.T) {
	q := NewQueue[PlayerEvent]()

	q.Push(PlayerEvent{Kind: PlayerFrame, Frame: 10})
	q.Push(PlayerEvent{Kind: PlayerFrame, Frame: 11})
	q.Push(PlayerEvent{Kind: PlayerFrame, Frame: 12})

	require.Equal(t, 1, q.Len())

	e, ok := q.Poll()
	require.True(t, ok)
	assert.Equal(t, float32(12), e.Frame)
}

func TestRenderCoalescing(t *testing.T) {
	q := NewQueue[PlayerEvent]()

	q.Push(PlayerEvent{Kind: PlayerRender, Frame: 5})
	q.Push(PlayerEvent{Kind: PlayerRender, Frame: 6})

	require.Equal(t, 1, q.Len())

	e, ok := q.Poll()
	require.True(t, ok)
	assert.Equal(t, float32(6), e.Frame)
}

func TestNoCoalescingAcrossKinds(t *testing.T) {
	q := NewQueue[PlayerEvent]()

	q.Push(PlayerEvent{Kind: PlayerLoad})
	q.Push(PlayerEvent{Kind: PlayerPlay})
	q.Push(PlayerEvent{Kind: PlayerFrame, Frame: 10})
	q.Push(PlayerEvent{Kind: PlayerRender, Frame: 10})
	q.Push(PlayerEvent{Kind: PlayerFrame, Frame: 11})

	// Frame-Render-Frame never collapses across the Render in between.
	assert.Equal(t, 5, q.Len())
}

func TestQueueOverflowDropsOldest(t *testing.T) {
	q := NewQueue[PlayerEvent]()

	for i := 0; i < 300; i++ {
		q.Push(PlayerEvent{Kind: PlayerLoop, LoopCount: uint32(i)})
	}

	require.Equal(t, MaxEvents, q.Len())

	e, ok := q.Poll()
	require.True(t, ok)
	assert.Equal(t, uint32(300-MaxEvents), e.LoopCount)
}

func TestStateMachineEventsNeverCoalesce(t *testing.T) {
	q := NewQueue[StateMachineEvent]()

	q.Push(StateMachineEvent{Kind: StateMachineNumericInputChange, InputName: "r", NewNumeric: 1})
	q.Push(StateMachineEvent{Kind: StateMachineNumericInputChange, InputName: "r", NewNumeric: 2})

	assert.Equal(t, 2, q.Len())
}

func TestClear(t *testing.T) {
	q := NewQueue[PlayerEvent]()
	q.Push(PlayerEvent{Kind: PlayerLoad})
	q.Push(PlayerEvent{Kind: PlayerPlay})
	require.Equal(t, 2, q.Len())

	q.Clear()
	assert.True(t, q.IsEmpty())
}
