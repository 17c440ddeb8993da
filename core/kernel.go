// Package core implements a tick-driven virtual timer subsystem and a
// cooperative priority scheduler with suspend/resume synchronization.
//
// All scheduler and timer state lives in a Kernel context object guarded by
// a single non-reentrant system lock. Thread-context entry points acquire
// the lock themselves; I-suffixed variants assume the caller already holds
// it (timer callbacks and interrupt handlers).
package core

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// maxThreads is the size of the thread descriptor arena.
	maxThreads = 32

	// quantumTicks is the round-robin time slice for equal-priority threads.
	quantumTicks = 2

	// noThread marks an empty slot index in the ready list.
	noThread = ^uint32(0)
)

// Kernel is the process-wide scheduler and timer context.
//
// The zero value is not usable; create instances with New. One Kernel
// models one single-core CPU: at most one thread executes at a time, and
// the tick handler plays the part of the periodic interrupt.
type Kernel struct {
	mu sync.Mutex // the system lock

	threads   [maxThreads]Thread
	readyHead uint32  // priority-ordered list, linked through Thread.nextReady
	current   *Thread // the RUNNING thread, nil when the CPU is idle

	needResched    bool
	quantum        uint32
	quantumExpired bool

	vtHead VTimer // sentinel of the virtual timer delta queue
	ticks  Systime

	trace traceRing
	log   *logrus.Logger

	booted bool
}

// New creates an initialized kernel instance.
func New() *Kernel {
	k := &Kernel{
		readyHead: noThread,
		log:       logrus.New(),
	}
	k.log.SetLevel(logrus.WarnLevel)
	k.vtHead.next = &k.vtHead
	k.vtHead.prev = &k.vtHead
	k.vtHead.delta = Systime(^uint32(0))
	return k
}

// SetLogger replaces the kernel's lifecycle logger. The tick path never
// logs; only boot, creation, exit and panic events reach the logger.
func (k *Kernel) SetLogger(log *logrus.Logger) {
	if log != nil {
		k.log = log
	}
}

// Boot registers the calling goroutine as the initial thread at the given
// priority and marks the kernel as running. It must be called exactly once,
// before any thread-context operation.
func (k *Kernel) Boot(prio Prio) *Thread {
	k.mu.Lock()
	if k.booted {
		t := k.current
		k.mu.Unlock()
		return t
	}
	t := k.allocThread()
	if t == nil {
		k.mu.Unlock()
		return nil
	}
	t.prio = prio
	t.state = stateRunning
	t.gate = make(chan struct{}, 1)
	k.current = t
	k.quantum = quantumTicks
	k.booted = true
	k.record(EvtBoot, t.slot, uint32(prio))
	k.mu.Unlock()

	k.log.WithFields(logrus.Fields{
		"slot": t.slot,
		"prio": prio,
		"freq": Frequency,
	}).Info("kernel booted")
	return t
}

// StartTick drives the kernel from a real-time ticker at Frequency Hz.
// The returned function stops the tick source. Tests and simulations call
// Tick directly instead.
func (k *Kernel) StartTick() func() {
	ticker := time.NewTicker(time.Second / Frequency)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				k.Tick()
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}

// Ticks returns the current system tick counter.
func (k *Kernel) Ticks() Systime {
	k.mu.Lock()
	n := k.ticks
	k.mu.Unlock()
	return n
}
