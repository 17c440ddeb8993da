package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceCapturesTimerLifecycle(t *testing.T) {
	k := New()
	var vt VTimer
	k.SetTimer(&vt, 3, func(any) {}, nil)
	tickN(k, 3)

	events, dropped := k.TraceDrain()
	assert.Zero(t, dropped)

	var types []TraceEventType
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	assert.Contains(t, types, EvtTimerArm)
	assert.Contains(t, types, EvtTimerFire)

	// Drain clears the ring.
	events, dropped = k.TraceDrain()
	assert.Empty(t, events)
	assert.Zero(t, dropped)
}

func TestTraceRingOverflowKeepsNewest(t *testing.T) {
	k := New()
	k.mu.Lock()
	for i := 0; i < traceRingSize+6; i++ {
		k.record(EvtReady, traceNoSlot, uint32(i))
	}
	k.mu.Unlock()

	events, dropped := k.TraceDrain()
	require.Len(t, events, traceRingSize)
	assert.Equal(t, uint32(6), dropped)

	// Oldest-first, with the six oldest overwritten.
	assert.Equal(t, uint32(6), events[0].Value)
	assert.Equal(t, uint32(traceRingSize+5), events[len(events)-1].Value)
}

func TestTraceEventTypeString(t *testing.T) {
	assert.Equal(t, "boot", EvtBoot.String())
	assert.Equal(t, "timer_fire", EvtTimerFire.String())
	assert.Equal(t, "unknown", TraceEventType(0xEE).String())
}
