package core

// Trace ring. Scheduler and timer events are captured in a fixed ring
// inside the guard for post-mortem analysis or live streaming to a host
// monitor. Recording is allocation-free and always on; draining happens
// outside the guard via TraceDrain.

// TraceEventType identifies a recorded kernel event.
type TraceEventType uint8

// Event type codes.
const (
	EvtNone       TraceEventType = iota
	EvtBoot                      // kernel booted; value = priority
	EvtCreate                    // thread created; value = priority
	EvtReady                     // thread made ready; value = wake message
	EvtSwitch                    // thread dispatched; value = priority
	EvtSuspend                   // thread suspended; value = timeout or 0
	EvtSleep                     // thread sleeping; value = tick delta
	EvtExit                      // thread terminated; value = exit message
	EvtTimeout                   // suspend timeout delivered
	EvtTimerArm                  // timer inserted; value = queue delta
	EvtTimerFire                 // timer expired; value = current tick
	EvtTimerReset                // timer canceled
)

// String returns the wire/display name of the event type.
func (t TraceEventType) String() string {
	switch t {
	case EvtBoot:
		return "boot"
	case EvtCreate:
		return "create"
	case EvtReady:
		return "ready"
	case EvtSwitch:
		return "switch"
	case EvtSuspend:
		return "suspend"
	case EvtSleep:
		return "sleep"
	case EvtExit:
		return "exit"
	case EvtTimeout:
		return "timeout"
	case EvtTimerArm:
		return "timer_arm"
	case EvtTimerFire:
		return "timer_fire"
	case EvtTimerReset:
		return "timer_reset"
	default:
		return "unknown"
	}
}

// traceNoSlot marks events not tied to a thread slot.
const traceNoSlot = 0xFF

// TraceEvent is one captured kernel event.
type TraceEvent struct {
	Type  TraceEventType
	Slot  uint8 // thread arena slot, traceNoSlot for timer events
	Clock Systime
	Value uint32 // context-dependent, see the event type codes
}

const traceRingSize = 64

type traceRing struct {
	events  [traceRingSize]TraceEvent
	head    uint32 // next write position
	dropped uint32
	count   uint32 // valid entries, saturates at traceRingSize
}

// record captures one event. Requires the system lock; overwrites the
// oldest entry when the ring is full.
func (k *Kernel) record(typ TraceEventType, slot uint32, value uint32) {
	r := &k.trace
	if r.count == traceRingSize {
		r.dropped++
	} else {
		r.count++
	}
	r.events[r.head] = TraceEvent{
		Type:  typ,
		Slot:  uint8(slot),
		Clock: k.ticks,
		Value: value,
	}
	r.head = (r.head + 1) % traceRingSize
}

// TraceDrain returns the captured events oldest-first and clears the ring.
// The second result counts events overwritten before this drain.
func (k *Kernel) TraceDrain() ([]TraceEvent, uint32) {
	k.mu.Lock()
	r := &k.trace
	n := r.count
	out := make([]TraceEvent, 0, n)
	start := (r.head + traceRingSize - n) % traceRingSize
	for i := uint32(0); i < n; i++ {
		out = append(out, r.events[(start+i)%traceRingSize])
	}
	dropped := r.dropped
	r.count = 0
	r.dropped = 0
	k.mu.Unlock()
	return out, dropped
}
