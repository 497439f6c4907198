package fiber

import "time"

// Yield cooperatively relinquishes t's turn, giving every other ready Task
// in the same Scheduler a chance to run before t resumes. A no-op if t is
// not currently scheduled (t.scheduler == nil), which happens when this_fiber
// functions are exercised outside of any Scheduler.Run loop, e.g. in a unit
// test driving a primitive directly.
func Yield(t *Task) {
	if t == nil {
		return
	}
	s := t.scheduler
	if s == nil {
		return
	}
	s.Yield(t)
}

// GetID returns t's address-based identifier, or 0 for a nil Task.
func GetID(t *Task) uintptr {
	if t == nil {
		return 0
	}
	return t.ID()
}

// Poll yields t repeatedly until cond reports true. This is the spin-wait
// building block every blocking primitive in this package (Mutex,
// Semaphore, Latch, Barrier, CondVarAny, Task.Join) is built on: the spec's
// fiber primitives stay enqueued and keep taking turns while blocked,
// rather than detaching from the scheduler, so a single CPU core can still
// make progress on every other ready fiber.
func Poll(t *Task, cond func() bool) {
	for !cond() {
		Yield(t)
	}
}

// PollFor polls cond, yielding t between attempts, until cond reports true
// or d elapses. It reports whether cond became true.
func PollFor(t *Task, d time.Duration, cond func() bool) bool {
	if useMilli(d) {
		return PollUntilMilli(t, NowMilli()+milliDeadline(0, d), cond)
	}
	return pollUntilMicro(t, NowMicro()+microDeadline(0, d), cond)
}

// PollUntilMilli polls cond, yielding t between attempts, until cond
// reports true or the millisecond clock reaches deadline. It reports
// whether cond became true. Comparisons are wraparound-correct (spec
// scenario S2): a deadline computed before a clock wrap is still honored
// correctly after the wrap.
func PollUntilMilli(t *Task, deadline MilliClock, cond func() bool) bool {
	for {
		if cond() {
			return true
		}
		if !milliBefore(NowMilli(), deadline) {
			return cond()
		}
		Yield(t)
	}
}

func pollUntilMicro(t *Task, deadline MicroClock, cond func() bool) bool {
	for {
		if cond() {
			return true
		}
		if !microBefore(NowMicro(), deadline) {
			return cond()
		}
		Yield(t)
	}
}

// SleepFor yields t until at least d has elapsed.
func SleepFor(t *Task, d time.Duration) {
	if useMilli(d) {
		deadline := milliDeadline(NowMilli(), d)
		Poll(t, func() bool { return !milliBefore(NowMilli(), deadline) })
		return
	}
	deadline := microDeadline(NowMicro(), d)
	Poll(t, func() bool { return !microBefore(NowMicro(), deadline) })
}

// SleepUntilMilli yields t until the millisecond clock reaches deadline.
func SleepUntilMilli(t *Task, deadline MilliClock) {
	Poll(t, func() bool { return !milliBefore(NowMilli(), deadline) })
}
