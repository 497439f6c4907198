package fiber

// A Context is the opaque per-fiber state the scheduler switches between.
//
// On the bare-metal target this library was ported from, a Context holds a
// saved stack pointer and the six context_init/jump/reset/watermark/
// stack_usage/stack_overflow operations are hand-written assembly that swaps
// the CPU's stack pointer register. Go offers no such hook, so this port
// realizes a "jump" as a synchronous, unbuffered channel handshake between
// exactly two goroutines: the one relinquishing control (the Scheduler's
// run loop, or another fiber) and the one about to run. This preserves
// every property §4.2 actually cares about — a jump is a full memory
// fence, exactly one side runs at a time, and resuming a Context restarts
// it exactly where it last yielded — while giving each fiber a genuine,
// independent call stack (its goroutine's stack) rather than a slice of a
// shared buffer.
type Context struct {
	stack    *Stack
	resumeCh chan struct{}
	started  bool
}

func newContext(stack *Stack) *Context {
	return &Context{stack: stack, resumeCh: make(chan struct{})}
}

// reset restores ctx to its initial state, so that the next jump begins
// execution from the entry point again.
func (c *Context) reset() {
	c.started = false
	c.resumeCh = make(chan struct{})
}

// permit hands control to the fiber owning ctx by unblocking its pending
// await. It does not start the fiber's goroutine (Task.ensureStarted does
// that before the first permit); it blocks until that goroutine receives.
func (c *Context) permit() {
	c.resumeCh <- struct{}{}
}

// await blocks the calling goroutine — which must be the fiber that owns
// ctx — until the scheduler permits it to run again.
func (c *Context) await() {
	<-c.resumeCh
}

// watermark fills the unused portion of the stack with the sentinel
// pattern, (re-)arming later usage measurement.
func (c *Context) watermark() {
	if c.stack != nil {
		c.stack.fillSentinel()
	}
}

// stackUsage returns the number of bytes used from the bottom of the stack.
func (c *Context) stackUsage() uintptr {
	if c.stack == nil {
		return 0
	}
	return c.stack.usage()
}

// stackOverflow reports whether the stack's sentinel guard word has been
// overwritten.
func (c *Context) stackOverflow() bool {
	if c.stack == nil {
		return false
	}
	return c.stack.overflowed()
}
