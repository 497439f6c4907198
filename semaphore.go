package fiber

import (
	"sync/atomic"
	"time"
)

// CountingSemaphore is an atomic counter with a max value fixed at
// construction. Only the initial count is checked against max; Release
// does not check it. The spec ties LeastMaxValue to an 8- or 16-bit counter
// chosen by the target; this port always uses a 32-bit counter and leaves
// max as a runtime field, since Go has no non-type generic parameter to
// carry LeastMaxValue as the C++ template does.
type CountingSemaphore struct {
	max uint32
	n   atomic.Uint32
}

// NewCountingSemaphore returns a semaphore with the given max and initial
// count. Panics if initial exceeds max, mirroring the C++ constructor's
// precondition.
func NewCountingSemaphore(max, initial uint32) *CountingSemaphore {
	if initial > max {
		panic("fiber: NewCountingSemaphore: initial exceeds max")
	}
	s := &CountingSemaphore{max: max}
	s.n.Store(initial)
	return s
}

// TryAcquire attempts to decrement the counter without blocking.
func (s *CountingSemaphore) TryAcquire() bool {
	for {
		cur := s.n.Load()
		if cur == 0 {
			return false
		}
		if s.n.CompareAndSwap(cur, cur-1) {
			return true
		}
	}
}

// Acquire blocks self, yielding between attempts, until a unit is
// available.
func (s *CountingSemaphore) Acquire(self *Task) {
	Poll(self, s.TryAcquire)
}

// AcquireFor attempts to acquire a unit, yielding self between attempts,
// until it succeeds or d elapses.
func (s *CountingSemaphore) AcquireFor(self *Task, d time.Duration) bool {
	return PollFor(self, d, s.TryAcquire)
}

// AcquireUntilMilli is like AcquireFor but with an absolute millisecond
// deadline.
func (s *CountingSemaphore) AcquireUntilMilli(self *Task, deadline MilliClock) bool {
	return PollUntilMilli(self, deadline, s.TryAcquire)
}

// Release increases the counter by exactly one. Interrupt-safe: it touches
// only its own atomic, never the run queue.
func (s *CountingSemaphore) Release() {
	s.n.Add(1)
}

// Max returns the semaphore's fixed upper bound.
func (s *CountingSemaphore) Max() uint32 { return s.max }

// NewBinarySemaphore returns a counting_semaphore<1>, the spec's definition
// of binary_semaphore.
func NewBinarySemaphore(initial bool) *CountingSemaphore {
	n := uint32(0)
	if initial {
		n = 1
	}
	return NewCountingSemaphore(1, n)
}
