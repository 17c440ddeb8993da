package core

// Tick is the periodic interrupt entry point, invoked once per tick period
// by the tick source (StartTick, or a test driving time by hand). It
// advances the system tick counter, charges the running thread's quantum,
// and walks the virtual timer queue. Interrupt context: safe to call from
// any goroutine, never reschedules the caller.
func (k *Kernel) Tick() {
	k.LockSystemFromISR()
	k.ticks++
	if k.current != nil && k.quantum > 0 {
		k.quantum--
		if k.quantum == 0 {
			k.quantumExpired = true
			k.needResched = true
		}
	}
	k.vtAdvanceI()
	k.UnlockSystemFromISR()
}
