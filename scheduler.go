package fiber

import "sync"

// HardwareConcurrency reports the number of processing units the scheduler
// model assumes. It is 1 for the bare-metal target this library targets;
// hosted embedders may override it.
var HardwareConcurrency = func() int { return 1 }

// IsInsideInterrupt reports whether the caller is currently executing inside
// an interrupt handler. The default, hosted implementation always reports
// false; bare-metal embedders override it with a target-specific check.
var IsInsideInterrupt = func() bool { return false }

type eventKind int

const (
	evYielded eventKind = iota
	evEnded
	evPanicked
)

type schedEvent struct {
	kind eventKind
	task *Task
	item panicItem
}

// A Scheduler is a circular singly-linked run queue of Tasks, plus the hub
// goroutine that relays control between whichever Task is currently
// running and whichever runs next.
//
// Grounded on the teacher's Executor (executor.go, now removed): Executor
// kept a priority queue sorted by path and an autorun hook. This Scheduler
// instead keeps the spec's strict-FIFO intrusive circular list (the
// teacher's path-ordering doesn't apply — the spec defines FIFO rotation,
// not priority), and has no autorun hook: Run is always called explicitly,
// matching §4.4's "single thread-local instance" model where one goroutine
// owns the scheduling loop for its lifetime.
//
// A Scheduler must not be used from more than one goroutine as "the
// scheduling thread" at a time; its list manipulation is not interrupt-safe,
// exactly as §4.4 specifies. Primitives that must be interrupt-signalable
// touch only their own atomics, never the Scheduler.
type Scheduler struct {
	mu      sync.Mutex
	last    *Task // tail of the circular list, nil if empty
	current *Task // the task whose goroutine is currently permitted to run
	events  chan schedEvent
	panics  []panicItem
}

// NewScheduler creates an empty Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{events: make(chan schedEvent)}
}

// Add enqueues t at the tail of the run queue. t must be detached.
func (s *Scheduler) Add(t *Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(t)
}

func (s *Scheduler) addLocked(t *Task) {
	if t.scheduler != nil {
		panic("fiber: Scheduler.Add: task already scheduled")
	}
	t.scheduler = s
	if s.last == nil {
		t.next = t
	} else {
		t.next = s.last.next
		s.last.next = t
	}
	s.last = t
}

// RemoveCurrent removes the head of the queue — the task currently
// executing — from the list, detaches it, and returns it. Must be called
// from within that task's own goroutine.
func (s *Scheduler) RemoveCurrent() *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeCurrentLocked()
}

func (s *Scheduler) removeCurrentLocked() *Task {
	t := s.current
	if t == nil {
		panic("fiber: Scheduler.RemoveCurrent: no current task")
	}
	if t.next == t {
		s.last, s.current = nil, nil
	} else {
		s.last.next = t.next
		s.current = t.next
	}
	t.next = nil
	t.scheduler = nil
	return t
}

// RunNext splices waiter into the queue directly behind the running task,
// so that the next yield lands in it. waiter must be detached. Used by
// wake-style primitives (Channel) to grant priority to a specific waiter.
// When the running task is the tail (the sole task), waiter becomes the new
// tail, so the running task stays at the head of the queue. Outside Run
// (no current task), waiter is spliced after last, at the head.
func (s *Scheduler) RunNext(waiter *Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if waiter.scheduler != nil {
		panic("fiber: Scheduler.RunNext: task already scheduled")
	}
	waiter.scheduler = s
	switch {
	case s.last == nil:
		waiter.next = waiter
		s.last = waiter
	case s.current == nil:
		waiter.next = s.last.next
		s.last.next = waiter
	default:
		waiter.next = s.current.next
		s.current.next = waiter
		if s.last == s.current {
			s.last = waiter
		}
	}
}

// Yield, if the queue has two or more tasks, rotates the queue by one step
// and transfers control to the new head, returning only once the calling
// task (which must be current) is resumed. On a queue of zero or one, it
// returns immediately: a no-op aside from the memory fence a real jump
// would also provide.
func (s *Scheduler) Yield(t *Task) {
	s.mu.Lock()
	if s.last == nil || s.last.next == s.last {
		s.mu.Unlock()
		return
	}
	s.last = s.last.next
	s.current = s.last.next
	s.mu.Unlock()

	s.handoff(t, schedEvent{kind: evYielded, task: t})
}

// handoff reports that t has stopped running and blocks t's goroutine until
// the scheduler permits it to run again.
func (s *Scheduler) handoff(t *Task, ev schedEvent) {
	trace(TraceYielded, t)
	s.events <- ev
	t.ctx.await()
}

// unschedule is called by a Task's trampoline when its callable returns: it
// detaches t (which must be current), marks it ended so Task.Join's poll
// can observe it from any other fiber, and reports that t has ended. Never
// returns to the caller in the sense that the calling goroutine exits right
// after.
func (s *Scheduler) unschedule(t *Task) {
	s.mu.Lock()
	s.removeCurrentLocked()
	s.mu.Unlock()
	t.ended.Store(true)
	trace(TraceEnded, t)
	s.events <- schedEvent{kind: evEnded, task: t}
}

// reportPanic detaches t (which must be current) after its callable panicked,
// marks it ended, and records the panic to be re-raised once Run returns.
func (s *Scheduler) reportPanic(t *Task, item panicItem) {
	s.mu.Lock()
	s.removeCurrentLocked()
	s.mu.Unlock()
	t.ended.Store(true)
	trace(TraceEnded, t)
	s.events <- schedEvent{kind: evPanicked, task: t, item: item}
}

// Run executes the circular list: it picks the head as current and
// transfers control to it, relaying control to whichever task becomes
// current next every time the running task yields, ends, or panics. Run
// returns once the queue becomes empty. Run must not be called twice at
// the same time on the same Scheduler.
//
// If any Task's callable panicked without recovering, Run panics with a
// *PanicError once the queue empties, combining every such panic — mirroring
// the teacher's root-coroutine-propagates-to-Executor.Run behavior.
func (s *Scheduler) Run() {
	s.mu.Lock()
	if s.last == nil {
		s.mu.Unlock()
		return
	}
	s.current = s.last.next
	cur := s.current
	s.mu.Unlock()

	s.resume(cur)

	for ev := range s.events {
		if ev.kind == evPanicked {
			s.panics = append(s.panics, ev.item)
		}

		s.mu.Lock()
		next := s.current
		s.mu.Unlock()

		if next == nil {
			break
		}
		s.resume(next)
	}

	if len(s.panics) != 0 {
		panics := s.panics
		s.panics = nil
		panic(&PanicError{items: panics})
	}
}

func (s *Scheduler) resume(t *Task) {
	if !t.ctx.started {
		trace(TraceSpawned, t)
	}
	t.ensureStarted(s)
	trace(TraceResumed, t)
	t.ctx.permit()
}

// CurrentID returns the address-based id of the task currently executing on
// s, or 0 if none.
func (s *Scheduler) CurrentID() uintptr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return 0
	}
	return s.current.ID()
}

func (s *Scheduler) currentTask() *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
