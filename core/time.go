package core

// Frequency is the system tick frequency in Hz.
// All time conversions and the tick source are derived from this value.
const Frequency = 100

// Systime is a count of system ticks. It wraps modulo 2^32; interval math
// must go through Elapsed/IsWithin rather than direct comparison.
type Systime uint32

// Prio is a thread priority. Numerically larger values are higher priority.
type Prio uint32

// Msg is a message value carried by suspend/resume, exit and wait.
type Msg uint32

// Distinguished message values.
const (
	MsgOK      Msg = 0          // Normal wakeup / normal exit
	MsgTimeout Msg = 0xFFFFFFFF // Wakeup caused by a timeout
	MsgReset   Msg = 0xFFFFFFFE // Wakeup caused by a forced reset
)

// S2ST converts seconds to system ticks.
func S2ST(sec uint32) Systime {
	return Systime(sec * Frequency)
}

// MS2ST converts milliseconds to system ticks.
// The result is rounded up to the next tick boundary, so a requested
// delay is never under-delivered.
func MS2ST(msec uint32) Systime {
	return Systime((msec*Frequency + 999) / 1000)
}

// US2ST converts microseconds to system ticks.
// The result is rounded up to the next tick boundary.
func US2ST(usec uint32) Systime {
	return Systime((usec*Frequency + 999999) / 1000000)
}

// ST2S converts system ticks to seconds, rounded up to the next
// second boundary.
func ST2S(n Systime) uint32 {
	return (uint32(n) + Frequency - 1) / Frequency
}

// ST2MS converts system ticks to milliseconds, rounded up to the next
// millisecond boundary.
func ST2MS(n Systime) uint32 {
	return (uint32(n)*1000 + Frequency - 1) / Frequency
}

// ST2US converts system ticks to microseconds, rounded up to the next
// microsecond boundary.
func ST2US(n Systime) uint32 {
	return (uint32(n)*1000000 + Frequency - 1) / Frequency
}

// Elapsed returns the number of ticks from since to now.
// Computed by subtraction so it stays correct across counter wrap.
func Elapsed(since, now Systime) Systime {
	return now - since
}

// IsWithin reports whether now falls in the half-open interval
// [start, end), evaluated wrap-safely.
func IsWithin(now, start, end Systime) bool {
	return now-start < end-start
}
