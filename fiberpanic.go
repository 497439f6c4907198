package fiber

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// A PanicError wraps every panic raised by a Task's callable that was never
// recovered. Scheduler.Run collects one of these per panicking fiber and
// re-raises them, combined, once the run queue empties — mirroring the
// teacher's catch-and-rethrow idiom (panicstack/paniccatcher), but scoped to
// a Scheduler instead of a Coroutine tree, since this spec's Task has no
// parent/child relationship to propagate through.
type PanicError struct {
	items []panicItem
}

type panicItem struct {
	task  *Task
	value any
	stack []byte
}

func (e *PanicError) Error() string {
	var b strings.Builder
	b.WriteString("fiber: unrecovered panic in ")
	if len(e.items) != 1 {
		fmt.Fprintf(&b, "%d tasks:", len(e.items))
	} else {
		b.WriteString("a task:")
	}
	for i, p := range e.items {
		fmt.Fprintf(&b, "\n(%d/%d) task %#x: panic: %v\n\n", i+1, len(e.items), p.task.ID(), p.value)
		b.Write(p.stack)
	}
	return b.String()
}

// Unwrap exposes every recovered panic value that implements error, so
// errors.Is/errors.As can see through a PanicError.
func (e *PanicError) Unwrap() []error {
	var errs []error
	for _, p := range e.items {
		if err, ok := p.value.(error); ok {
			errs = append(errs, err)
		}
	}
	return errs
}

// runProtected runs f, recovering any panic into a panicItem rather than
// letting it unwind across the fiber's goroutine boundary. It reports
// ok == false when f panicked.
func runProtected(t *Task, f func()) (item panicItem, ok bool) {
	defer func() {
		if v := recover(); v != nil {
			item = panicItem{task: t, value: v, stack: debug.Stack()}
			ok = false
		}
	}()
	f()
	return panicItem{}, true
}
