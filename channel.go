package fiber

import (
	"sync"

	"github.com/gammazero/deque"
)

// ChannelState reports a Channel's occupancy, matching the spec's
// three-state description: empty (a receiver would block), ready (a value
// is sitting in the slot for immediate TryReceive), full (a value is
// sitting in the slot and at least one sender is already blocked waiting
// to deliver the next one).
type ChannelState int

const (
	ChannelEmpty ChannelState = iota
	ChannelReady
	ChannelFull
)

// Channel is an optional single-slot SPSC rendezvous with a blocking
// wait/wake protocol distinct from every other primitive in this package:
// instead of busy-yielding while remaining on the run queue, a blocked
// Send or Receive detaches the caller from its Scheduler entirely (via
// Scheduler.RemoveCurrent) and parks it on a per-channel waitlist; the
// counterpart operation wakes exactly one parked waiter by splicing it
// back in directly behind the running task, so that it runs next
// (Scheduler.RunNext), matching
// channel.hpp's wait()/wake() pair.
//
// The waitlists use github.com/gammazero/deque, a ring-buffer-backed
// double-ended queue: FIFO order for waiters with O(1) push/pop at both
// ends, without the deque ever needing to resize for single-waiter SPSC
// usage and without the fixed-capacity bookkeeping an intrusive list would
// need for the general case.
type Channel[T any] struct {
	mu          sync.Mutex
	occupied    bool
	value       T
	sendWaiters deque.Deque[*Task]
	recvWaiters deque.Deque[*Task]
}

// NewChannel returns an empty Channel.
func NewChannel[T any]() *Channel[T] {
	return &Channel[T]{}
}

// State reports ch's current occupancy.
func (ch *Channel[T]) State() ChannelState {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.stateLocked()
}

func (ch *Channel[T]) stateLocked() ChannelState {
	switch {
	case !ch.occupied:
		return ChannelEmpty
	case ch.sendWaiters.Len() > 0:
		return ChannelFull
	default:
		return ChannelReady
	}
}

// TrySend attempts to deposit v into ch's slot without blocking.
func (ch *Channel[T]) TrySend(v T) bool {
	ch.mu.Lock()
	if ch.occupied {
		ch.mu.Unlock()
		return false
	}
	ch.value = v
	ch.occupied = true
	waiter := ch.popLocked(&ch.recvWaiters)
	ch.mu.Unlock()
	wake(waiter)
	return true
}

// TryReceive attempts to take the value out of ch's slot without blocking.
func (ch *Channel[T]) TryReceive() (v T, ok bool) {
	ch.mu.Lock()
	if !ch.occupied {
		ch.mu.Unlock()
		return v, false
	}
	v, ok = ch.value, true
	var zero T
	ch.value = zero
	ch.occupied = false
	waiter := ch.popLocked(&ch.sendWaiters)
	ch.mu.Unlock()
	wake(waiter)
	return v, ok
}

func (ch *Channel[T]) popLocked(q *deque.Deque[*Task]) *Task {
	if q.Len() == 0 {
		return nil
	}
	return q.PopFront()
}

func wake(t *Task) {
	if t == nil {
		return
	}
	t.home.RunNext(t)
}

// Send blocks self until v has been deposited into ch.
func (ch *Channel[T]) Send(self *Task, v T) {
	for !ch.TrySend(v) {
		ch.park(self, &ch.sendWaiters)
	}
}

// Receive blocks self until a value is available, and returns it.
func (ch *Channel[T]) Receive(self *Task) T {
	for {
		if v, ok := ch.TryReceive(); ok {
			return v
		}
		ch.park(self, &ch.recvWaiters)
	}
}

// park detaches self from its Scheduler and enqueues it on q, to be woken
// by a future wake() call via Scheduler.RunNext. Outside any Scheduler (a
// nil self, or self.scheduler == nil), it degrades to an ordinary Yield
// spin, matching every other primitive's no-op-degradation behavior (spec
// §9) — a nil self never reaches a real Task, so it must be checked before
// dereferencing self.scheduler.
func (ch *Channel[T]) park(self *Task, q *deque.Deque[*Task]) {
	if self == nil {
		Yield(self)
		return
	}
	s := self.scheduler
	if s == nil {
		Yield(self)
		return
	}
	ch.mu.Lock()
	q.PushBack(self)
	ch.mu.Unlock()
	detached := s.RemoveCurrent()
	s.handoff(detached, schedEvent{kind: evYielded, task: detached})
}
