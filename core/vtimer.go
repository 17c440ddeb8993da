package core

// Virtual timer delta queue. Pending timers form a doubly linked list
// around a sentinel header, ordered by absolute deadline. Each node stores
// the tick delta to its predecessor, so advancing time is O(1) when
// nothing expires: only the head delta is decremented. Timers with equal
// deadlines carry a zero delta and fire in insertion order.
//
// Timer storage is caller-owned: the queue holds links into the caller's
// struct, and the struct must outlive its armed state.

// TimerFunc is a virtual timer callback. It runs in interrupt context with
// the system lock held, so it must confine itself to I-class operations
// (SetTimerI, ResetTimerI, ResumeThreadI).
type TimerFunc func(arg any)

// VTimer is one pending deferred callback. The zero value is a disarmed
// timer ready for SetTimer.
type VTimer struct {
	next  *VTimer
	prev  *VTimer
	delta Systime // ticks beyond the predecessor's deadline
	fn    TimerFunc
	arg   any
}

// Armed reports whether the timer is currently linked into a queue.
// Reliable only under the system lock or from the owning context.
func (t *VTimer) Armed() bool {
	return t.next != nil
}

// SetTimer arms a timer from thread context: after delay ticks the
// callback fires with arg, in interrupt context. A zero delay is rounded
// up to one tick, keeping every callback on the tick path. Arming an
// already-armed timer detaches it first.
func (k *Kernel) SetTimer(t *VTimer, delay Systime, fn TimerFunc, arg any) {
	k.LockSystem()
	k.SetTimerI(t, delay, fn, arg)
	k.UnlockSystem()
}

// SetTimerI is the I-class variant of SetTimer. Requires the system lock.
func (k *Kernel) SetTimerI(t *VTimer, delay Systime, fn TimerFunc, arg any) {
	if t.next != nil {
		k.ResetTimerI(t)
	}
	if delay == 0 {
		delay = 1
	}
	t.fn = fn
	t.arg = arg

	// Walk until the remaining delay no longer covers the next node.
	// <= keeps equal deadlines FIFO: the new node lands after them.
	p := k.vtHead.next
	for p != &k.vtHead && p.delta <= delay {
		delay -= p.delta
		p = p.next
	}
	t.delta = delay
	t.prev = p.prev
	t.next = p
	p.prev.next = t
	p.prev = t
	if p != &k.vtHead {
		p.delta -= delay
	}
	k.record(EvtTimerArm, traceNoSlot, uint32(t.delta))
}

// ResetTimer cancels an armed timer from thread context. No callback is
// invoked. A disarmed timer is a no-op, which is the defined behavior for
// losing the cancel-vs-expiry race.
func (k *Kernel) ResetTimer(t *VTimer) {
	k.LockSystem()
	k.ResetTimerI(t)
	k.UnlockSystem()
}

// ResetTimerI is the I-class variant of ResetTimer. The removed node's
// delta is propagated onto its successor so later deadlines are preserved.
// Requires the system lock.
func (k *Kernel) ResetTimerI(t *VTimer) {
	if t.next == nil {
		return
	}
	if t.next != &k.vtHead {
		t.next.delta += t.delta
	}
	t.prev.next = t.next
	t.next.prev = t.prev
	t.next = nil
	t.prev = nil
	t.fn = nil
	t.arg = nil
	k.record(EvtTimerReset, traceNoSlot, 0)
}

// vtAdvanceI moves virtual time forward by one tick and fires every timer
// that reaches its deadline, in order. Each expired node is fully detached
// before its callback runs, so callbacks may re-arm themselves or other
// timers. Requires the system lock, interrupt context.
func (k *Kernel) vtAdvanceI() {
	first := k.vtHead.next
	if first == &k.vtHead {
		return
	}
	first.delta--
	for {
		first = k.vtHead.next
		if first == &k.vtHead || first.delta != 0 {
			return
		}
		fn := first.fn
		arg := first.arg
		first.prev.next = first.next
		first.next.prev = first.prev
		first.next = nil
		first.prev = nil
		first.fn = nil
		first.arg = nil
		k.record(EvtTimerFire, traceNoSlot, uint32(k.ticks))
		fn(arg)
	}
}
