package fiber

import (
	"sync/atomic"
	"time"
)

// CondVarAny is a condition_variable_any: it works with any Locker, not
// just this package's own Mutex, by snapshotting a bare sequence counter
// before releasing the caller's lock and polling for it to change. Only
// the "_any" flavor is provided; condition_variable is just an alias.
//
// notify_one and notify_any/notify_all are identical under cooperative
// scheduling — there's only one "thread" of readiness to wake, the run
// queue itself — so both collapse to a single atomic increment here.
type CondVarAny struct {
	sequence atomic.Uint32
}

// ConditionVariable is an alias: the spec's condition_variable is just
// condition_variable_any restricted to this package's own Mutex, and since
// CondVarAny already accepts any Locker, there is nothing narrower to add.
type ConditionVariable = CondVarAny

// NotifyOne wakes (eventually; see Wait's poll loop) one waiter.
// Interrupt-safe.
func (c *CondVarAny) NotifyOne() { c.sequence.Add(1) }

// NotifyAll wakes every waiter. Identical to NotifyOne under cooperative
// scheduling. Interrupt-safe.
func (c *CondVarAny) NotifyAll() { c.sequence.Add(1) }

// waitOnce snapshots the sequence, unlocks, polls until it changes or stop
// fires (if stop.StopPossible), then relocks. A notify racing between the
// snapshot and the unlock is still observed, since the counter has already
// moved by the time the poll loop starts (spec §9).
func (c *CondVarAny) waitOnce(self *Task, lock Locker, stop StopToken) {
	seq0 := c.sequence.Load()
	lock.Unlock(self)
	Poll(self, func() bool {
		return c.sequence.Load() != seq0 || stop.StopRequested()
	})
	lock.Lock(self)
}

// Wait releases lock, waits for a notification, and reacquires lock.
func (c *CondVarAny) Wait(self *Task, lock Locker) {
	c.waitOnce(self, lock, StopToken{})
}

// WaitPred loops Wait until pred reports true.
func (c *CondVarAny) WaitPred(self *Task, lock Locker, pred func() bool) {
	for !pred() {
		c.Wait(self, lock)
	}
}

// WaitStop loops Wait until pred reports true or stop fires, returning
// pred's final value either way.
func (c *CondVarAny) WaitStop(self *Task, lock Locker, stop StopToken, pred func() bool) bool {
	for !pred() {
		if stop.StopRequested() {
			break
		}
		c.waitOnce(self, lock, stop)
	}
	return pred()
}

// WaitFor loops Wait, bounded by d overall, until pred reports true or the
// deadline passes. Returns pred's final value.
func (c *CondVarAny) WaitFor(self *Task, lock Locker, d time.Duration, pred func() bool) bool {
	if useMilli(d) {
		return c.waitUntilMilli(self, lock, NowMilli()+milliDeadline(0, d), StopToken{}, pred)
	}
	return c.waitUntilMicro(self, lock, NowMicro()+microDeadline(0, d), StopToken{}, pred)
}

// WaitForStop is WaitFor with an additional stop token that ends the wait
// early.
func (c *CondVarAny) WaitForStop(self *Task, lock Locker, d time.Duration, stop StopToken, pred func() bool) bool {
	if useMilli(d) {
		return c.waitUntilMilli(self, lock, NowMilli()+milliDeadline(0, d), stop, pred)
	}
	return c.waitUntilMicro(self, lock, NowMicro()+microDeadline(0, d), stop, pred)
}

// WaitUntilMilli is WaitFor with an absolute millisecond deadline.
func (c *CondVarAny) WaitUntilMilli(self *Task, lock Locker, deadline MilliClock, pred func() bool) bool {
	return c.waitUntilMilli(self, lock, deadline, StopToken{}, pred)
}

// WaitUntilMilliStop is WaitUntilMilli with an additional stop token that
// ends the wait early.
func (c *CondVarAny) WaitUntilMilliStop(self *Task, lock Locker, deadline MilliClock, stop StopToken, pred func() bool) bool {
	return c.waitUntilMilli(self, lock, deadline, stop, pred)
}

func (c *CondVarAny) waitUntilMilli(self *Task, lock Locker, deadline MilliClock, stop StopToken, pred func() bool) bool {
	for !pred() {
		if stop.StopRequested() || !milliBefore(NowMilli(), deadline) {
			return pred()
		}
		c.waitDeadlineMilli(self, lock, deadline, stop)
	}
	return true
}

func (c *CondVarAny) waitUntilMicro(self *Task, lock Locker, deadline MicroClock, stop StopToken, pred func() bool) bool {
	for !pred() {
		if stop.StopRequested() || !microBefore(NowMicro(), deadline) {
			return pred()
		}
		c.waitDeadlineMicro(self, lock, deadline, stop)
	}
	return true
}

func (c *CondVarAny) waitDeadlineMilli(self *Task, lock Locker, deadline MilliClock, stop StopToken) {
	seq0 := c.sequence.Load()
	lock.Unlock(self)
	PollUntilMilli(self, deadline, func() bool {
		return c.sequence.Load() != seq0 || stop.StopRequested()
	})
	lock.Lock(self)
}

func (c *CondVarAny) waitDeadlineMicro(self *Task, lock Locker, deadline MicroClock, stop StopToken) {
	seq0 := c.sequence.Load()
	lock.Unlock(self)
	pollUntilMicro(self, deadline, func() bool {
		return c.sequence.Load() != seq0 || stop.StopRequested()
	})
	lock.Lock(self)
}
