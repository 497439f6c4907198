package fiber

// TraceEvent identifies a scheduling transition TraceFunc can observe.
type TraceEvent int

const (
	// TraceSpawned fires the first time a Task's goroutine is started.
	TraceSpawned TraceEvent = iota
	// TraceResumed fires every time a Task is permitted to run, including
	// the spawning resume.
	TraceResumed
	// TraceYielded fires when a running Task gives up its turn, whether by
	// an ordinary Yield or by parking on a Channel's waitlist.
	TraceYielded
	// TraceEnded fires once a Task's callable returns or panics.
	TraceEnded
)

// TraceFunc, if non-nil, is invoked synchronously on every scheduling
// transition a Scheduler makes. In the style of the teacher's
// Executor.Autorun hook, this is an injectable observability callback, not
// an owned dependency: nothing in this package calls out to a logging
// library, so embedded targets pay nothing unless they set this. TraceFunc
// must not block or call back into the Scheduler that invoked it.
var TraceFunc func(event TraceEvent, task *Task)

func trace(event TraceEvent, t *Task) {
	if TraceFunc != nil {
		TraceFunc(event, t)
	}
}
