// Package fiber is a cooperative, stackful fiber runtime: a single-threaded
// scheduler of user-space [Task]s that voluntarily yield between
// suspension points, plus a family of synchronization primitives built on
// top of that yield discipline.
//
// # Why Goroutines, Not Real Stacks
//
// The runtime this package is modeled on saves and restores a raw stack
// pointer to switch between fibers; Go gives user code no such hook. Each
// [Task] here instead runs on its own goroutine, and a "context switch" is
// a synchronous handshake over an unbuffered channel between the goroutine
// giving up its turn and the one receiving it. Exactly one goroutine ever
// runs application code at a time per [Scheduler], which preserves the
// single-threaded semantics every primitive in this package depends on:
// two fibers are never actually racing each other, only interleaving at
// the points where one of them calls yield.
//
// # Scheduling
//
// A [Scheduler] holds a circular run queue in strict FIFO order. Calling
// [Yield] rotates the queue by one step and hands control to the new
// head; calling [Scheduler.Run] drives that rotation until the queue is
// empty — there is no implicit background goroutine pumping a
// [Scheduler], the caller of Run owns the scheduling loop for as long as
// it runs.
//
// # Explicit Self, Not Thread-Locals
//
// The runtime this package is modeled on tracks "the current fiber" as a
// thread-local, letting this_fiber::yield, mutex::lock, and friends omit
// it. Go has no equivalent of a per-goroutine implicit variable, so every
// function in this package that needs to know which [Task] is calling —
// [Yield], [Poll], every lock/acquire/wait method — takes that Task
// explicitly as a parameter, conventionally named self. Passing a nil
// self is valid everywhere: it degrades every primitive to single-owner,
// no-scheduler semantics, exactly as running outside of any
// [Scheduler.Run] loop would.
//
// # Busy-Wait vs. Deep Block
//
// Most primitives in this package — [Mutex], [SharedMutex],
// [CountingSemaphore], [Latch], [Barrier], [CondVarAny], [Task.Join] — stay
// on the run queue while blocked and simply [Yield] in a loop until their
// condition holds ([Poll]). This keeps every other ready Task making
// progress on a single core without any wake-list bookkeeping, at the cost
// of touching every blocked Task once per scheduling round.
//
// [Channel] is the exception: a blocked send or receive detaches its Task
// from the run queue entirely and parks it on a waitlist, to be spliced
// back in — with priority, via [Scheduler.RunNext] — the moment its
// counterpart is ready. This trades the simplicity of busy-waiting for an
// at-most-one-hop handoff, which message-passing workloads tend to need
// and lock/counter primitives don't.
package fiber
