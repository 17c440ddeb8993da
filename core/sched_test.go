package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stateOf reads a thread's scheduler state under the system lock.
func stateOf(k *Kernel, t *Thread) uint32 {
	k.mu.Lock()
	s := t.state
	k.mu.Unlock()
	return s
}

func TestHigherPriorityPreemptsOnCreate(t *testing.T) {
	k := New()
	require.NotNil(t, k.Boot(10))

	ran := false
	th := k.CreateThread(make([]byte, MinWorkspaceSize), 20, func(any) {
		ran = true
	}, nil)
	require.NotNil(t, th)

	// The new thread outranks us, so it ran to completion before
	// CreateThread returned.
	assert.True(t, ran)
	assert.Equal(t, MsgOK, k.WaitThread(th))
}

func TestLowerPriorityWaitsForBlock(t *testing.T) {
	k := New()
	require.NotNil(t, k.Boot(10))

	ran := false
	th := k.CreateThread(make([]byte, MinWorkspaceSize), 5, func(any) {
		ran = true
	}, nil)
	require.NotNil(t, th)
	assert.False(t, ran, "lower-priority thread ran without being scheduled")

	assert.Equal(t, MsgOK, k.WaitThread(th))
	assert.True(t, ran)
}

func TestReadyOrderFollowsPriority(t *testing.T) {
	k := New()
	require.NotNil(t, k.Boot(16))

	var order []string
	low := k.CreateThread(make([]byte, MinWorkspaceSize), 5, func(any) {
		order = append(order, "low")
	}, nil)
	mid := k.CreateThread(make([]byte, MinWorkspaceSize), 8, func(any) {
		order = append(order, "mid")
	}, nil)
	require.NotNil(t, low)
	require.NotNil(t, mid)

	k.WaitThread(mid)
	k.WaitThread(low)
	assert.Equal(t, []string{"mid", "low"}, order)
}

func TestEqualPriorityYieldInterleaves(t *testing.T) {
	k := New()
	require.NotNil(t, k.Boot(10))

	var order []string
	spin := func(name string) ThreadFunc {
		return func(any) {
			for i := 0; i < 3; i++ {
				order = append(order, name)
				k.YieldThread()
			}
		}
	}
	a := k.CreateThread(make([]byte, MinWorkspaceSize), 10, spin("a"), nil)
	b := k.CreateThread(make([]byte, MinWorkspaceSize), 10, spin("b"), nil)
	require.NotNil(t, a)
	require.NotNil(t, b)
	require.Empty(t, order, "equal priority must not preempt the creator")

	k.YieldThread()
	assert.Equal(t, MsgOK, k.WaitThread(a))
	assert.Equal(t, MsgOK, k.WaitThread(b))
	assert.Equal(t, []string{"a", "b", "a", "b", "a", "b"}, order)
}

func TestYieldWithOnlyLowerPriorityReady(t *testing.T) {
	k := New()
	require.NotNil(t, k.Boot(10))

	ran := false
	th := k.CreateThread(make([]byte, MinWorkspaceSize), 5, func(any) {
		ran = true
	}, nil)
	require.NotNil(t, th)

	k.YieldThread()
	assert.False(t, ran, "yield must not donate the CPU downwards")
}

func TestQuantumExpiryRotatesEqualPriority(t *testing.T) {
	k := New()
	require.NotNil(t, k.Boot(10))

	ran := false
	th := k.CreateThread(make([]byte, MinWorkspaceSize), 10, func(any) {
		ran = true
	}, nil)
	require.NotNil(t, th)

	// One tick leaves quantum on the clock: releasing the lock is not a
	// reschedule yet.
	k.Tick()
	k.LockSystem()
	k.UnlockSystem()
	assert.False(t, ran)

	// The second tick expires the quantum; the next lock release hands
	// the CPU to the equal-priority peer.
	k.Tick()
	k.LockSystem()
	k.UnlockSystem()
	assert.True(t, ran)
	assert.Equal(t, MsgOK, k.WaitThread(th))
}

func TestQuantumExpiryIgnoredWhenAlone(t *testing.T) {
	k := New()
	require.NotNil(t, k.Boot(10))

	tickN(k, 5)
	k.LockSystem()
	k.UnlockSystem()

	// Still running: nothing else is ready, so expiry is absorbed.
	assert.Equal(t, Systime(5), k.Ticks())
}
