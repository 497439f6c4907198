package fiber

import (
	"sync/atomic"
	"time"
)

// Sentinel values for SharedMutex's single state field, matching the
// spec's fiber::id(-1)/fiber::id(-2) encoding: since a genuine Task id is
// an address and therefore never equal to either all-ones or
// all-ones-minus-one, both sentinels are safe to carve out of the id
// space.
const (
	sharedMutexNoOwner     uintptr = ^uintptr(0)
	sharedMutexSharedOwner uintptr = ^uintptr(0) - 1
)

// SharedMutex is a single atomic id field doing triple duty: unowned,
// exclusively owned by one Task, or shared among readers. This encoding
// (spec §4.8) can't distinguish one shared holder from many, which is a
// known fairness trade-off — see DESIGN.md.
type SharedMutex struct {
	state atomic.Uintptr
}

// NewSharedMutex returns an unlocked SharedMutex.
func NewSharedMutex() *SharedMutex {
	m := &SharedMutex{}
	m.state.Store(sharedMutexNoOwner)
	return m
}

// TryLock attempts to acquire m exclusively, compare-exchanging the
// unowned sentinel to self's id.
func (m *SharedMutex) TryLock(self *Task) bool {
	return m.state.CompareAndSwap(sharedMutexNoOwner, GetID(self))
}

// Lock blocks self, yielding between attempts, until m is acquired
// exclusively.
func (m *SharedMutex) Lock(self *Task) {
	Poll(self, func() bool { return m.TryLock(self) })
}

// Unlock releases an exclusive lock.
func (m *SharedMutex) Unlock(self *Task) {
	m.state.Store(sharedMutexNoOwner)
}

// TryLockFor attempts to acquire m exclusively, yielding self between
// attempts, until it succeeds or d elapses.
func (m *SharedMutex) TryLockFor(self *Task, d time.Duration) bool {
	return PollFor(self, d, func() bool { return m.TryLock(self) })
}

// TryLockUntilMilli is like TryLockFor but with an absolute millisecond
// deadline.
func (m *SharedMutex) TryLockUntilMilli(self *Task, deadline MilliClock) bool {
	return PollUntilMilli(self, deadline, func() bool { return m.TryLock(self) })
}

// TryLockShared attempts to join m as a shared (reader) holder: it
// succeeds only while m is unowned or already shared, retrying its own
// compare-exchange against concurrent readers racing the same transition.
func (m *SharedMutex) TryLockShared() bool {
	for {
		cur := m.state.Load()
		if cur != sharedMutexNoOwner && cur != sharedMutexSharedOwner {
			return false
		}
		if m.state.CompareAndSwap(cur, sharedMutexSharedOwner) {
			return true
		}
	}
}

// LockShared blocks self, yielding between attempts, until m is acquired
// in shared mode.
func (m *SharedMutex) LockShared(self *Task) {
	Poll(self, m.TryLockShared)
}

// UnlockShared releases a shared lock.
func (m *SharedMutex) UnlockShared(self *Task) {
	m.state.Store(sharedMutexNoOwner)
}

// TryLockSharedFor attempts to join m in shared mode, yielding self between
// attempts, until it succeeds or d elapses.
func (m *SharedMutex) TryLockSharedFor(self *Task, d time.Duration) bool {
	return PollFor(self, d, m.TryLockShared)
}

// TryLockSharedUntilMilli is like TryLockSharedFor but with an absolute
// millisecond deadline.
func (m *SharedMutex) TryLockSharedUntilMilli(self *Task, deadline MilliClock) bool {
	return PollUntilMilli(self, deadline, m.TryLockShared)
}

// SharedTimedMutex is an alias: every SharedMutex operation already has a
// timed form, exactly as the spec's shared_timed_mutex adds nothing beyond
// shared_mutex's own poll_for/poll_until variants.
type SharedTimedMutex = SharedMutex

// NewSharedTimedMutex returns an unlocked SharedTimedMutex.
func NewSharedTimedMutex() *SharedTimedMutex { return NewSharedMutex() }
