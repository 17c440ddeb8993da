package core

import (
	"runtime"

	"github.com/sirupsen/logrus"
)

// Thread states.
const (
	stateFree uint32 = iota // unused descriptor slot
	stateReady
	stateRunning
	stateSleeping   // blocked on the timer queue only
	stateSuspended  // blocked on a ThreadRef, timeout optional
	stateWaiting    // blocked in WaitThread
	stateTerminated // exit message retained for WaitThread
)

// ThreadFunc is a thread entry function.
type ThreadFunc func(arg any)

// Thread is an opaque fixed-size thread descriptor. Descriptors live in the
// kernel arena; callers hold only the reference returned by CreateThread.
// All fields are owned by the scheduler and mutated under the system lock.
type Thread struct {
	state     uint32
	prio      Prio
	slot      uint32 // arena index, stable for the descriptor's lifetime
	nextReady uint32 // ready list link (arena index), noThread when unlinked
	wakeMsg   Msg    // written by the waker before dispatch
	exitMsg   Msg    // retained after termination for WaitThread

	gate   chan struct{} // dispatch baton; receiving it means RUNNING
	entry  ThreadFunc
	arg    any
	joiner *Thread // at most one thread blocked in WaitThread on us
}

const (
	// threadDescSize is the descriptor footprint the external contract
	// fixes for inline thread storage.
	threadDescSize = 64

	// minStackSize is the minimum working area beyond the descriptor.
	minStackSize = 448

	// MinWorkspaceSize is the smallest workspace CreateThread accepts.
	MinWorkspaceSize = threadDescSize + minStackSize
)

// CreateThread initializes a thread over the caller-provided workspace and
// makes it ready at the given priority. It returns nil if the workspace is
// smaller than MinWorkspaceSize, the entry function is nil, or the
// descriptor arena is exhausted.
//
// The workspace models the thread's working memory; its length is
// validated up front rather than silently overrun. A higher-priority new
// thread preempts the caller before CreateThread returns.
func (k *Kernel) CreateThread(workspace []byte, prio Prio, entry ThreadFunc, arg any) *Thread {
	if entry == nil || len(workspace) < MinWorkspaceSize {
		return nil
	}

	k.LockSystem()
	t := k.allocThread()
	if t == nil {
		k.UnlockSystem()
		return nil
	}
	t.prio = prio
	t.entry = entry
	t.arg = arg
	t.gate = make(chan struct{}, 1)
	t.joiner = nil
	t.exitMsg = MsgOK
	k.record(EvtCreate, t.slot, uint32(prio))
	go k.threadMain(t)
	k.readyI(t, MsgOK)
	k.UnlockSystem()

	k.log.WithFields(logrus.Fields{
		"slot": t.slot,
		"prio": prio,
	}).Debug("thread created")
	return t
}

// ExitThread terminates the calling thread with the given exit message and
// never returns. The message is retained for WaitThread. A thread entry
// function returning normally exits with MsgOK.
func (k *Kernel) ExitThread(msg Msg) {
	k.finishCurrent(msg)
	runtime.Goexit()
}

// WaitThread blocks the caller until the named thread terminates and
// returns its exit message. Waiting on an already-terminated thread returns
// the retained message immediately; repeated waits return the same message.
func (k *Kernel) WaitThread(t *Thread) Msg {
	if t == nil {
		return MsgReset
	}
	k.LockSystem()
	if t.state == stateTerminated {
		msg := t.exitMsg
		k.UnlockSystem()
		return msg
	}
	if k.current == nil {
		k.mu.Unlock()
		return MsgReset
	}
	t.joiner = k.current
	return k.sleepCurrentLocked(stateWaiting)
}

// threadMain is the goroutine trampoline backing one thread. It parks on
// the gate until first dispatched, runs the entry function, and converts a
// normal return into ExitThread(MsgOK). A panicking thread is contained:
// the panic is logged and the thread terminates with MsgReset.
func (k *Kernel) threadMain(t *Thread) {
	<-t.gate
	defer func() {
		if r := recover(); r != nil {
			k.log.WithFields(logrus.Fields{
				"slot":  t.slot,
				"panic": r,
			}).Error("thread panicked")
			k.finishCurrent(MsgReset)
		}
	}()
	t.entry(t.arg)
	k.ExitThread(MsgOK)
}

// finishCurrent terminates the running thread: it stores the exit message,
// wakes the joiner if one is parked, and dispatches the next ready thread.
// The calling goroutine must not touch kernel state afterwards.
func (k *Kernel) finishCurrent(msg Msg) {
	k.mu.Lock()
	t := k.current
	if t == nil || t.state == stateTerminated {
		k.mu.Unlock()
		return
	}
	t.exitMsg = msg
	t.state = stateTerminated
	k.record(EvtExit, t.slot, uint32(msg))
	if t.joiner != nil {
		joiner := t.joiner
		t.joiner = nil
		k.readyI(joiner, msg)
	}
	k.dispatchNext()
	k.mu.Unlock()

	k.log.WithFields(logrus.Fields{
		"slot": t.slot,
		"msg":  msg,
	}).Debug("thread exited")
}

// allocThread claims a free arena slot. Terminated descriptors are not
// recycled; their exit messages stay observable for the kernel's lifetime.
func (k *Kernel) allocThread() *Thread {
	for i := uint32(0); i < maxThreads; i++ {
		t := &k.threads[i]
		if t.state == stateFree {
			t.state = stateReady
			t.slot = i
			t.nextReady = noThread
			return t
		}
	}
	return nil
}
