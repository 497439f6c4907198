package fiber

import "time"

// MilliClock and MicroClock are the wraparound-correct, free-running tick
// counters the spec's sleep/poll family is built on. They mirror the
// bare-metal target's 32-bit millisecond/microsecond hardware timers: a
// modm::chrono::milli_clock wraps every ~49.7 days, and
// micro_clock every ~71.5 minutes. Comparisons between two counts must
// therefore use signed-difference arithmetic, never a plain `<`, or a
// clock that has wrapped looks like it went backwards.
type MilliClock = uint32
type MicroClock = uint32

// NowMilli and NowMicro are overridable so hosted tests can drive the clock
// explicitly instead of depending on wall time, and so a bare-metal
// embedder can wire in its own hardware tick source. The defaults derive
// ticks from time.Now, truncated to the target width.
var (
	epoch    = time.Now()
	NowMilli = func() MilliClock { return MilliClock(time.Since(epoch).Milliseconds()) }
	NowMicro = func() MicroClock { return MicroClock(time.Since(epoch).Microseconds()) }
)

// milliBefore reports whether a precedes b on a wrapping 32-bit millisecond
// clock, i.e. whether the signed difference a-b is negative. This is the
// only correct way to order two raw tick counts once wraparound is
// possible; see spec scenario S2.
func milliBefore(a, b MilliClock) bool { return int32(a-b) < 0 }

func microBefore(a, b MicroClock) bool { return int32(a-b) < 0 }

// milliDeadline returns the tick at which a sleep of d starting now would
// end, rounding d up to whole milliseconds (a sleep may only ever run
// long, never short).
func milliDeadline(now MilliClock, d time.Duration) MilliClock {
	ms := d.Milliseconds()
	if d > 0 && d%time.Millisecond != 0 {
		ms++
	}
	return now + MilliClock(ms)
}

func microDeadline(now MicroClock, d time.Duration) MicroClock {
	us := d.Microseconds()
	if d > 0 && d%time.Microsecond != 0 {
		us++
	}
	return now + MicroClock(us)
}

// useMilli reports whether d should be timed on the coarser millisecond
// clock. The original scheduler prefers whichever clock can represent the
// whole duration without wrapping around itself multiple times; this port
// keeps it simple and matches d to millisecond resolution whenever d is an
// exact multiple of a millisecond, falling back to microseconds otherwise
// (e.g. sub-millisecond poll intervals used by spin-wait primitives).
func useMilli(d time.Duration) bool {
	return d >= time.Millisecond && d%time.Millisecond == 0
}
