package core

// Critical section guard. Scheduler and timer state may only be mutated
// while the system lock is held. The lock is not reentrant: a second
// acquisition from the same context is a caller error and deadlocks, as in
// the original discipline.
//
// Thread context pairs LockSystem with UnlockSystem; interrupt context
// (the tick source, or any goroutine standing in for an ISR) pairs
// LockSystemFromISR with UnlockSystemFromISR. The ISR variants never
// deschedule the caller; the thread variant treats lock release as a
// preemption point.

// LockSystem enters a critical section from thread context.
func (k *Kernel) LockSystem() {
	k.mu.Lock()
}

// UnlockSystem leaves a thread-context critical section. If the tick
// handler or a wake marked a pending reschedule, the calling thread hands
// the CPU over before returning.
func (k *Kernel) UnlockSystem() {
	k.unlockAndPreempt()
}

// LockSystemFromISR enters a critical section from interrupt context.
func (k *Kernel) LockSystemFromISR() {
	k.mu.Lock()
}

// UnlockSystemFromISR leaves an interrupt-context critical section.
// No reschedule is attempted here; a pending preemption is delivered at
// the running thread's next kernel entry.
func (k *Kernel) UnlockSystemFromISR() {
	k.mu.Unlock()
}

// SyscallABI identifies the calling convention of the kernel boundary.
type SyscallABI uint32

const (
	// ABINone is the fail-closed probe result: no supported ABI.
	ABINone SyscallABI = 0

	// ABIRev1 covers the surface implemented by this kernel.
	ABIRev1 SyscallABI = 1
)

// GetSyscallABI probes the kernel boundary calling convention. It has no
// state effect and fails closed: a nil or unbooted kernel reports ABINone.
func (k *Kernel) GetSyscallABI() SyscallABI {
	if k == nil {
		return ABINone
	}
	k.mu.Lock()
	booted := k.booted
	k.mu.Unlock()
	if !booted {
		return ABINone
	}
	return ABIRev1
}
