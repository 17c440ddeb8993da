package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tickN(k *Kernel, n int) {
	for i := 0; i < n; i++ {
		k.Tick()
	}
}

// Concrete scenario from the contract: at 100 Hz, MS2ST(15) is 2 ticks;
// the callback fires with the original parameter after exactly 2 ticks.
func TestTimerFiresAtExactDeadline(t *testing.T) {
	k := New()
	var vt VTimer
	fired := 0
	var got any
	k.SetTimer(&vt, MS2ST(15), func(arg any) {
		fired++
		got = arg
	}, "param")
	require.True(t, vt.Armed())

	k.Tick()
	assert.Equal(t, 0, fired, "fired one tick early")
	k.Tick()
	assert.Equal(t, 1, fired)
	assert.Equal(t, "param", got)
	assert.False(t, vt.Armed())

	tickN(k, 10)
	assert.Equal(t, 1, fired, "fired more than once")
}

func TestTimersFireInDeadlineOrder(t *testing.T) {
	k := New()
	var order []int
	arm := func(vt *VTimer, id int, delay Systime) {
		k.SetTimer(vt, delay, func(arg any) {
			order = append(order, arg.(int))
		}, id)
	}
	var a, b, c VTimer
	arm(&a, 30, 30)
	arm(&b, 10, 10)
	arm(&c, 20, 20)

	tickN(k, 30)
	assert.Equal(t, []int{10, 20, 30}, order)
}

func TestEqualDeadlinesFireFIFO(t *testing.T) {
	k := New()
	var order []string
	var a, b, c VTimer
	k.SetTimer(&a, 5, func(any) { order = append(order, "a") }, nil)
	k.SetTimer(&b, 5, func(any) { order = append(order, "b") }, nil)
	k.SetTimer(&c, 5, func(any) { order = append(order, "c") }, nil)

	tickN(k, 4)
	require.Empty(t, order)
	k.Tick()
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestResetTimerCancelsBeforeExpiry(t *testing.T) {
	k := New()
	var vt VTimer
	fired := false
	k.SetTimer(&vt, 10, func(any) { fired = true }, nil)

	tickN(k, 5)
	k.ResetTimer(&vt)
	assert.False(t, vt.Armed())

	tickN(k, 95)
	assert.False(t, fired, "canceled timer fired")
}

// Removing a node must propagate its delta so later deadlines hold.
func TestResetPreservesSuccessorDeadline(t *testing.T) {
	k := New()
	var a, b VTimer
	firedAt := Systime(0)
	k.SetTimer(&a, 5, func(any) { t.Fatal("canceled timer fired") }, nil)
	k.SetTimer(&b, 10, func(any) { firedAt = k.ticks }, nil)

	tickN(k, 2)
	k.ResetTimer(&a)
	tickN(k, 7)
	assert.Equal(t, Systime(0), firedAt, "fired early")
	k.Tick()
	assert.Equal(t, Systime(10), firedAt)
}

func TestReArmingDetachesFirst(t *testing.T) {
	k := New()
	var vt VTimer
	fired := 0
	fn := func(any) { fired++ }
	k.SetTimer(&vt, 5, fn, nil)
	tickN(k, 2)
	k.SetTimer(&vt, 10, fn, nil) // re-arm: old deadline must vanish

	tickN(k, 9)
	assert.Equal(t, 0, fired)
	k.Tick()
	assert.Equal(t, 1, fired)
	tickN(k, 20)
	assert.Equal(t, 1, fired)
}

// A callback may re-arm its own timer from inside the tick walk.
func TestCallbackReArmsItself(t *testing.T) {
	k := New()
	var vt VTimer
	var fires []Systime
	var fn TimerFunc
	fn = func(any) {
		fires = append(fires, k.ticks)
		if len(fires) < 3 {
			k.SetTimerI(&vt, 3, fn, nil)
		}
	}
	k.SetTimer(&vt, 3, fn, nil)

	tickN(k, 12)
	assert.Equal(t, []Systime{3, 6, 9}, fires)
}

func TestZeroDelayFiresOnNextTick(t *testing.T) {
	k := New()
	var vt VTimer
	fired := false
	k.SetTimer(&vt, 0, func(any) { fired = true }, nil)
	assert.True(t, vt.Armed())
	k.Tick()
	assert.True(t, fired)
}

func TestResetDisarmedTimerIsNoop(t *testing.T) {
	k := New()
	var vt VTimer
	k.ResetTimer(&vt)
	assert.False(t, vt.Armed())
}
