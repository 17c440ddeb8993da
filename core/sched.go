package core

// Scheduler core. The ready list is a priority-ordered singly linked list
// threaded through the descriptor arena by slot index, highest priority at
// the head, FIFO within a priority class. Exactly one thread goroutine runs
// at a time; ownership of the CPU is handed over through the per-thread
// gate channel.
//
// A running thread is descheduled only at kernel entry points (lock
// release, blocking calls, yield): the periodic tick marks a pending
// reschedule and the hand-off happens at the next opportunity. When the CPU
// is idle, a wake dispatches its thread directly.

// readyInsertBehind links t into the ready list behind every thread of
// equal or higher priority (tail of its priority class).
func (k *Kernel) readyInsertBehind(t *Thread) {
	prev := noThread
	idx := k.readyHead
	for idx != noThread && k.threads[idx].prio >= t.prio {
		prev = idx
		idx = k.threads[idx].nextReady
	}
	t.nextReady = idx
	if prev == noThread {
		k.readyHead = t.slot
	} else {
		k.threads[prev].nextReady = t.slot
	}
}

// readyInsertAhead links t into the ready list ahead of its priority class
// (behind strictly higher priorities). Used when a thread is preempted
// with quantum remaining.
func (k *Kernel) readyInsertAhead(t *Thread) {
	prev := noThread
	idx := k.readyHead
	for idx != noThread && k.threads[idx].prio > t.prio {
		prev = idx
		idx = k.threads[idx].nextReady
	}
	t.nextReady = idx
	if prev == noThread {
		k.readyHead = t.slot
	} else {
		k.threads[prev].nextReady = t.slot
	}
}

// popReady unlinks and returns the highest-priority ready thread, or nil.
func (k *Kernel) popReady() *Thread {
	if k.readyHead == noThread {
		return nil
	}
	t := &k.threads[k.readyHead]
	k.readyHead = t.nextReady
	t.nextReady = noThread
	return t
}

// readyI transitions t to READY with the given wake message and inserts it
// at the tail of its priority class. If the CPU is idle the thread is
// dispatched immediately; if it outranks the running thread a reschedule
// is marked for the next preemption point. Requires the system lock.
func (k *Kernel) readyI(t *Thread, msg Msg) {
	t.wakeMsg = msg
	t.state = stateReady
	k.readyInsertBehind(t)
	k.record(EvtReady, t.slot, uint32(msg))
	if k.current == nil {
		k.dispatchNext()
	} else if t.prio > k.current.prio {
		k.needResched = true
	}
}

// dispatchNext hands the CPU to the highest-priority ready thread, or
// idles when none is ready. The previous current thread must already be
// parked, blocked, or terminated. Requires the system lock.
func (k *Kernel) dispatchNext() {
	next := k.popReady()
	k.current = next
	k.needResched = false
	k.quantum = quantumTicks
	k.quantumExpired = false
	if next != nil {
		next.state = stateRunning
		k.record(EvtSwitch, next.slot, uint32(next.prio))
		next.gate <- struct{}{}
	}
}

// sleepCurrentLocked blocks the running thread in the given state,
// dispatches a successor, and returns the wake message once this thread is
// scheduled again. Called with the system lock held; returns without it.
func (k *Kernel) sleepCurrentLocked(newState uint32) Msg {
	t := k.current
	t.state = newState
	k.dispatchNext()
	k.mu.Unlock()
	<-t.gate
	return t.wakeMsg
}

// unlockAndPreempt releases the system lock from thread context,
// delivering any pending preemption first. Quantum expiry rotates the
// thread to the tail of its priority class; losing to a higher priority
// re-queues it at the front.
func (k *Kernel) unlockAndPreempt() {
	if !k.needResched || k.current == nil || k.readyHead == noThread {
		k.needResched = false
		k.mu.Unlock()
		return
	}
	t := k.current
	best := k.threads[k.readyHead].prio
	switch {
	case best > t.prio:
		t.state = stateReady
		k.readyInsertAhead(t)
	case best == t.prio && k.quantumExpired:
		t.state = stateReady
		k.readyInsertBehind(t)
	default:
		k.needResched = false
		if k.quantumExpired {
			k.quantum = quantumTicks
			k.quantumExpired = false
		}
		k.mu.Unlock()
		return
	}
	k.dispatchNext()
	k.mu.Unlock()
	<-t.gate
}

// YieldThread voluntarily gives up the rest of the scheduling quantum. The
// caller re-enters the ready list at the tail of its priority class and
// runs again once equal-priority peers have had their turn. A no-op when
// no thread of equal or higher priority is ready.
func (k *Kernel) YieldThread() {
	k.LockSystem()
	t := k.current
	if t == nil || k.readyHead == noThread || k.threads[k.readyHead].prio < t.prio {
		k.mu.Unlock()
		return
	}
	t.state = stateReady
	k.readyInsertBehind(t)
	k.dispatchNext()
	k.mu.Unlock()
	<-t.gate
}
