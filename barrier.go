package fiber

import "sync"

// CompletionFunc is invoked once per epoch, by whichever arrival completes
// it.
type CompletionFunc func()

// Barrier synchronizes a fixed-size group of Tasks across repeating
// epochs. Unlike Latch, it is reusable: once the expected number of
// arrivals accumulates, the completion callback fires, the count resets,
// and the sequence advances to a new epoch.
//
// Not interrupt-safe — arrive reads and writes count, sequence, and
// (sometimes) expected together, which needs the ordinary critical section
// below rather than a single atomic.
type Barrier struct {
	mu         sync.Mutex
	expected   uint32
	count      uint32
	sequence   uint32
	completion CompletionFunc
}

// NewBarrier returns a Barrier for expected participants, invoking
// completion once per epoch. A nil completion is treated as a no-op.
func NewBarrier(expected uint32, completion CompletionFunc) *Barrier {
	if completion == nil {
		completion = func() {}
	}
	return &Barrier{expected: expected, count: expected, completion: completion}
}

// Arrive registers delta arrivals (1 if omitted) and returns a token
// identifying the epoch the caller arrived in. If delta completes the
// epoch, the completion callback fires before Arrive returns.
func (b *Barrier) Arrive(delta ...uint32) uint32 {
	d := uint32(1)
	if len(delta) > 0 {
		d = delta[0]
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	token := b.sequence
	if d < b.count {
		b.count -= d
	} else {
		b.count = b.expected
		b.sequence++
		b.completion()
	}
	return token
}

// Wait blocks self, yielding between checks, until token's epoch has
// completed (the sequence has moved past it).
func (b *Barrier) Wait(self *Task, token uint32) {
	Poll(self, func() bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		return token != b.sequence
	})
}

// ArriveAndWait arrives for one participant and waits for that epoch to
// complete.
func (b *Barrier) ArriveAndWait(self *Task) {
	b.Wait(self, b.Arrive())
}

// ArriveAndDrop arrives for one participant and permanently reduces the
// expected count for every later epoch, saturating at zero.
func (b *Barrier) ArriveAndDrop() uint32 {
	b.mu.Lock()
	if b.expected > 0 {
		b.expected--
	}
	b.mu.Unlock()
	return b.Arrive()
}
