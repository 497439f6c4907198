package fiber

import "sync/atomic"

// Latch is a single-use, saturating countdown counter. The spec specifies
// a 16-bit atomic counter; this port widens it to 32 bits since Go has no
// atomic 16-bit type and nothing in the spec depends on the narrower
// width wrapping.
type Latch struct {
	n atomic.Uint32
}

// NewLatch returns a Latch counting down from n.
func NewLatch(n uint32) *Latch {
	l := &Latch{}
	l.n.Store(n)
	return l
}

// CountDown decrements the counter by delta (1 if omitted), saturating at
// zero rather than underflowing. Interrupt-safe.
func (l *Latch) CountDown(delta ...uint32) {
	d := uint32(1)
	if len(delta) > 0 {
		d = delta[0]
	}
	for {
		cur := l.n.Load()
		next := uint32(0)
		if d < cur {
			next = cur - d
		}
		if l.n.CompareAndSwap(cur, next) {
			return
		}
	}
}

// TryWait reports whether the counter has reached zero.
func (l *Latch) TryWait() bool {
	return l.n.Load() == 0
}

// Wait blocks self, yielding between checks, until the counter reaches
// zero.
func (l *Latch) Wait(self *Task) {
	Poll(self, l.TryWait)
}

// ArriveAndWait decrements by delta (1 if omitted) and then waits.
func (l *Latch) ArriveAndWait(self *Task, delta ...uint32) {
	l.CountDown(delta...)
	l.Wait(self)
}
