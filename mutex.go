package fiber

import (
	"sync"
	"sync/atomic"
	"time"
)

// A Locker is anything that can be locked and unlocked on behalf of an
// explicit caller Task. CondVarAny is built against this interface so it
// can wrap any of the mutex types below, matching condition_variable_any's
// "works with any external lock" contract.
type Locker interface {
	Lock(self *Task)
	Unlock(self *Task)
}

// Mutex is a non-recursive mutual-exclusion lock: a single atomic bool,
// compare-exchanged false->true to acquire. Lock spins on TryLock via
// Poll, so acquisition is a busy-wait that never touches the run queue;
// Unlock is a single release-store, so it is interrupt-safe.
//
// Grounded on the atomic-based mutex.hpp variant in original_source, per
// this module's resolution of the spec's own open question in favor of the
// atomic encoding over the older Waitable-polling one (see DESIGN.md).
type Mutex struct {
	locked atomic.Bool
}

// TryLock attempts to acquire m without blocking.
func (m *Mutex) TryLock() bool {
	return m.locked.CompareAndSwap(false, true)
}

// Lock blocks self, yielding between attempts, until m is acquired.
func (m *Mutex) Lock(self *Task) {
	Poll(self, m.TryLock)
}

// Unlock releases m. Unlocking an already-unlocked Mutex is a no-op, not a
// bug — matching the spec's explicit "not UB in this design".
func (m *Mutex) Unlock(self *Task) {
	m.locked.Store(false)
}

// TimedMutex extends Mutex with bounded-wait acquisition.
type TimedMutex struct {
	Mutex
}

// TryLockFor attempts to acquire m, yielding self between attempts, until
// it succeeds or d elapses.
func (m *TimedMutex) TryLockFor(self *Task, d time.Duration) bool {
	return PollFor(self, d, m.TryLock)
}

// TryLockUntilMilli is like TryLockFor but with an absolute millisecond
// deadline.
func (m *TimedMutex) TryLockUntilMilli(self *Task, deadline MilliClock) bool {
	return PollUntilMilli(self, deadline, m.TryLock)
}

// RecursiveMutex lets the same Task lock it repeatedly, tracking an owner
// id and a reentrancy depth guarded by a critical section. On real
// bare-metal targets that critical section is a process-wide interrupt
// disable (atomic::Lock); hosted here, a plain sync.Mutex gives the same
// read-modify-write atomicity for the (owner, depth) pair without needing
// a real IRQ mask.
//
// Unowned state is tracked by depth == 0, not by a sentinel owner value:
// a real Task id is an address and never collides with anything, but a
// nil self (the spec's "fiber id of 0" degenerate case) presents id 0,
// which would otherwise be indistinguishable from an "unowned" sentinel
// of 0 and silently break reentrancy for every nil-self caller.
type RecursiveMutex struct {
	cs    sync.Mutex
	owner uintptr
	depth uint32
}

// TryLock succeeds if self is already the owner (incrementing depth, up to
// a uint32 maximum) or if the mutex is unowned (claiming it at depth 1).
func (m *RecursiveMutex) TryLock(self *Task) bool {
	id := GetID(self)
	m.cs.Lock()
	defer m.cs.Unlock()
	switch {
	case m.depth == 0:
		m.owner = id
		m.depth = 1
		return true
	case m.owner == id:
		if m.depth == ^uint32(0) {
			return false
		}
		m.depth++
		return true
	default:
		return false
	}
}

// Lock blocks self, yielding between attempts, until m is acquired.
func (m *RecursiveMutex) Lock(self *Task) {
	Poll(self, func() bool { return m.TryLock(self) })
}

// Unlock decrements the reentrancy depth, releasing ownership once it
// reaches zero. Unlocking a mutex self doesn't own is a no-op.
func (m *RecursiveMutex) Unlock(self *Task) {
	id := GetID(self)
	m.cs.Lock()
	defer m.cs.Unlock()
	if m.depth == 0 || m.owner != id {
		return
	}
	m.depth--
}

// RecursiveTimedMutex adds bounded-wait acquisition to RecursiveMutex.
type RecursiveTimedMutex struct {
	RecursiveMutex
}

// TryLockFor attempts to acquire m, yielding self between attempts, until
// it succeeds or d elapses.
func (m *RecursiveTimedMutex) TryLockFor(self *Task, d time.Duration) bool {
	return PollFor(self, d, func() bool { return m.TryLock(self) })
}

// TryLockUntilMilli is like TryLockFor but with an absolute millisecond
// deadline.
func (m *RecursiveTimedMutex) TryLockUntilMilli(self *Task, deadline MilliClock) bool {
	return PollUntilMilli(self, deadline, func() bool { return m.TryLock(self) })
}
