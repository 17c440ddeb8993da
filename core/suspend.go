package core

// Suspend/resume synchronization. A ThreadRef is a single-slot mailbox
// pairing one suspending thread with one eventual resumer or timeout: the
// suspender writes its own identity into the cell and blocks, the first of
// {explicit resume, timeout expiry} consumes the cell and delivers the
// wake. Both paths run under the system lock, so exactly one wins and the
// loser degrades to a no-op.

// ThreadRef is the handshake cell shared by a suspending thread and its
// resumer. The zero value is an empty cell.
type ThreadRef struct {
	tp *Thread
}

// maxSleepDelta bounds a wrap-safe "ticks until deadline" computation:
// anything beyond the half-range is interpreted as a deadline already
// passed rather than a near-full-period sleep.
const maxSleepDelta = Systime(1) << 31

// SuspendThread atomically publishes the calling thread in ref and blocks
// until someone resumes it. Returns the message passed to ResumeThread.
// The cell must be empty on entry; sharing one cell between two
// simultaneous suspenders is a precondition violation.
func (k *Kernel) SuspendThread(ref *ThreadRef) Msg {
	k.LockSystem()
	t := k.current
	if t == nil {
		k.mu.Unlock()
		return MsgReset
	}
	ref.tp = t
	k.record(EvtSuspend, t.slot, 0)
	return k.sleepCurrentLocked(stateSuspended)
}

// SuspendThreadTimeout is SuspendThread with an upper bound: a private
// timer armed for timeout ticks delivers MsgTimeout and empties the cell
// if no explicit resume arrives first. Whichever path runs first wins; the
// timer is canceled on explicit resume, and a resume after the timeout
// finds an empty cell. A zero timeout returns MsgTimeout immediately.
func (k *Kernel) SuspendThreadTimeout(ref *ThreadRef, timeout Systime) Msg {
	if timeout == 0 {
		return MsgTimeout
	}
	k.LockSystem()
	t := k.current
	if t == nil {
		k.mu.Unlock()
		return MsgReset
	}
	ref.tp = t
	var vt VTimer
	k.SetTimerI(&vt, timeout, func(any) {
		if ref.tp != t {
			return
		}
		ref.tp = nil
		k.record(EvtTimeout, t.slot, 0)
		k.readyI(t, MsgTimeout)
	}, nil)
	k.record(EvtSuspend, t.slot, uint32(timeout))
	msg := k.sleepCurrentLocked(stateSuspended)

	k.LockSystem()
	k.ResetTimerI(&vt)
	k.UnlockSystem()
	return msg
}

// ResumeThread wakes the thread published in ref with the given message
// and empties the cell. An empty cell is a no-op: the thread was already
// resumed or timed out. Thread context; preemption applies if the resumed
// thread outranks the caller.
func (k *Kernel) ResumeThread(ref *ThreadRef, msg Msg) {
	k.LockSystem()
	k.ResumeThreadI(ref, msg)
	k.UnlockSystem()
}

// ResumeThreadI is the I-class variant of ResumeThread, for timer
// callbacks and interrupt handlers. Requires the system lock.
func (k *Kernel) ResumeThreadI(ref *ThreadRef, msg Msg) {
	t := ref.tp
	if t == nil {
		return
	}
	ref.tp = nil
	k.readyI(t, msg)
}

// ThreadSleep blocks the calling thread for the given number of ticks via
// the timer queue. A zero duration degrades to YieldThread.
func (k *Kernel) ThreadSleep(ticks Systime) {
	if ticks == 0 {
		k.YieldThread()
		return
	}
	k.LockSystem()
	t := k.current
	if t == nil {
		k.mu.Unlock()
		return
	}
	var vt VTimer
	k.SetTimerI(&vt, ticks, func(any) {
		k.readyI(t, MsgOK)
	}, nil)
	k.record(EvtSleep, t.slot, uint32(ticks))
	k.sleepCurrentLocked(stateSleeping)
}

// ThreadSleepUntil blocks the calling thread until the system tick counter
// reaches the given absolute value. Deadlines at or behind the current
// tick (wrap-safe, half-range window) return immediately.
func (k *Kernel) ThreadSleepUntil(deadline Systime) {
	k.LockSystem()
	t := k.current
	delta := deadline - k.ticks
	if t == nil || delta == 0 || delta >= maxSleepDelta {
		k.mu.Unlock()
		return
	}
	var vt VTimer
	k.SetTimerI(&vt, delta, func(any) {
		k.readyI(t, MsgOK)
	}, nil)
	k.record(EvtSleep, t.slot, uint32(delta))
	k.sleepCurrentLocked(stateSleeping)
}
