package fiber

import (
	"sync/atomic"
	"unsafe"
)

// StartPolicy selects whether a newly constructed Task is enqueued
// immediately or left detached until Task.Start is called.
type StartPolicy int

const (
	// Deferred leaves the Task detached after construction.
	Deferred StartPolicy = iota
	// Now enqueues the Task on its home Scheduler immediately.
	Now
)

// A Func is the plain callable flavor a Task can run.
type Func func(t *Task)

// A StopFunc is the stop_token-aware callable flavor a Task can run.
type StopFunc func(t *Task, stop StopToken)

// A Task is one fiber: an execution of code with its own Context and
// stop_state, cooperatively scheduled by a Scheduler.
//
// Grounded on the teacher's Task (task.go) and Coroutine (coroutine.go),
// both now removed: this Task keeps their address-based identity and
// recyclable-lifecycle flavor, but drops the CPS Result/controller state
// machine entirely (Block/Loop/Func/Then, parent/child Spawn, Watch/Event
// listeners) — the spec's Task is a single function that runs to
// completion on its own goroutine and cooperates purely via yield points,
// not a resumable state machine of actions, and the spec has no
// parent/child task hierarchy to propagate panics through.
//
// A Task's identity is the address of the Task value itself, so a Task
// must never be copied after construction.
type Task struct {
	next      *Task
	scheduler *Scheduler // non-nil while scheduled; see Scheduler's invariant 1
	home      *Scheduler
	ctx       *Context
	stop      stopState
	fn        func(*Task)
	ended     atomic.Bool // set true by Scheduler.unschedule/reportPanic, false by Start
}

func newTask(sched *Scheduler, stack *Stack, start StartPolicy, body func(*Task)) *Task {
	if sched == nil {
		panic("fiber: a Task requires a Scheduler")
	}
	if stack == nil {
		panic("fiber: a Task requires a Stack")
	}
	t := &Task{ctx: newContext(stack), home: sched, fn: body}
	if start == Now {
		sched.Add(t)
	}
	return t
}

// NewTask constructs a Task to run fn on stack, scheduled on sched either
// immediately (start == Now) or left detached (start == Deferred).
func NewTask(sched *Scheduler, stack *Stack, fn Func, start StartPolicy) *Task {
	if fn == nil {
		panic("fiber: NewTask: nil Func")
	}
	return newTask(sched, stack, start, func(t *Task) { fn(t) })
}

// NewStopTask is like NewTask but fn additionally receives the Task's own
// StopToken, for cooperative cancellation.
func NewStopTask(sched *Scheduler, stack *Stack, fn StopFunc, start StartPolicy) *Task {
	if fn == nil {
		panic("fiber: NewStopTask: nil StopFunc")
	}
	return newTask(sched, stack, start, func(t *Task) { fn(t, t.GetStopToken()) })
}

// ID returns t's stable, address-based identifier. Safe to call from an
// interrupt handler.
func (t *Task) ID() uintptr { return uintptr(unsafe.Pointer(t)) }

// ensureStarted spawns t's goroutine the first time t is resumed (or
// resumed again after Start re-armed it).
func (t *Task) ensureStarted(s *Scheduler) {
	if t.ctx.started {
		return
	}
	t.ctx.started = true
	go t.run(s)
}

// run is the trampoline: it waits to be permitted to begin, runs the
// callable to completion (catching any panic), and then hands back to the
// scheduler exactly once, either as an ordinary end or as a panic.
func (t *Task) run(s *Scheduler) {
	t.ctx.await()

	item, ok := runProtected(t, func() { t.fn(t) })
	if !ok {
		s.reportPanic(t, item)
		return
	}
	s.unschedule(t)
}

// Joinable reports whether t can be joined by self: t must not have ended,
// the caller must not be inside an interrupt, and self must not be t
// itself.
func (t *Task) Joinable(self *Task) bool {
	if t.ended.Load() {
		return false
	}
	if IsInsideInterrupt() {
		return false
	}
	if self != nil && self.ID() == t.ID() {
		return false
	}
	return true
}

// Join busy-yields, on self's behalf, until t has ended. A no-op if t is
// not Joinable by self.
func (t *Task) Join(self *Task) {
	if !t.Joinable(self) {
		return
	}
	Poll(self, func() bool { return t.ended.Load() })
}

// RequestStop requests cancellation of t, returning true only the first
// time it succeeds. Safe to call from an interrupt handler.
func (t *Task) RequestStop() bool { return t.stop.requestStop() }

// GetStopSource returns a StopSource handle to t's stop_state.
func (t *Task) GetStopSource() StopSource { return StopSource{state: &t.stop} }

// GetStopToken returns a StopToken handle to t's stop_state.
func (t *Task) GetStopToken() StopToken { return StopToken{state: &t.stop} }

// Start resets t's Context and enqueues it on its home Scheduler, returning
// false if t is already scheduled.
func (t *Task) Start() bool {
	if t.scheduler != nil {
		return false
	}
	t.ctx.reset()
	t.ended.Store(false)
	t.stop = stopState{}
	t.home.Add(t)
	return true
}

// WatermarkStack (re-)arms t's stack-usage measurement.
func (t *Task) WatermarkStack() { t.ctx.watermark() }

// StackUsage returns the high-water mark of t's Stack, in bytes.
func (t *Task) StackUsage() uintptr { return t.ctx.stackUsage() }

// StackOverflow reports whether t's Stack's guard word has been disturbed,
// calling Assert if so — mirroring the original runtime's
// modm_assert(!stack_overflow, "fbr.stkof", "Fiber stack overflow", id).
func (t *Task) StackOverflow() bool {
	overflowed := t.ctx.stackOverflow()
	Assert(!overflowed, "fbr.stkof", "fiber stack overflow", uint64(t.ID()))
	return overflowed
}

// Close requests t to stop and then joins it, on self's behalf. Equivalent
// to the original runtime's ~Task() destructor (task_impl.hpp): request_stop() then
// join(), unconditionally — a Task that never polls its StopToken can
// therefore deadlock its own Close; that is specified behavior (spec §5),
// not a bug.
func (t *Task) Close(self *Task) {
	t.RequestStop()
	t.Join(self)
}
