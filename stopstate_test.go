package fiber_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/salkinium/modm-fiber"
)

func TestStopSourceZeroValueIsDegenerate(t *testing.T) {
	var src fiber.StopSource
	require.False(t, src.StopPossible())
	require.False(t, src.StopRequested())
	require.False(t, src.RequestStop())

	tok := src.Token()
	require.False(t, tok.StopPossible())
	require.False(t, tok.StopRequested())
}

func TestStopSourceRequestStopIsIdempotent(t *testing.T) {
	sched := fiber.NewScheduler()
	stack := fiber.NewStack(512)
	task := fiber.NewTask(sched, stack, func(*fiber.Task) {}, fiber.Deferred)

	src := task.GetStopSource()
	require.True(t, src.StopPossible())
	require.False(t, src.StopRequested())

	require.True(t, src.RequestStop())
	require.True(t, src.StopRequested())
	require.False(t, src.RequestStop()) // second request is not "first to succeed"
}

func TestStopTokenObservesSourceRequest(t *testing.T) {
	sched := fiber.NewScheduler()
	stack := fiber.NewStack(512)
	task := fiber.NewTask(sched, stack, func(*fiber.Task) {}, fiber.Deferred)

	tok := task.GetStopToken()
	require.False(t, tok.StopRequested())

	task.RequestStop()
	require.True(t, tok.StopRequested())
}

func TestStopTokenEqualityIsByUnderlyingState(t *testing.T) {
	sched := fiber.NewScheduler()
	stackA := fiber.NewStack(512)
	stackB := fiber.NewStack(512)
	a := fiber.NewTask(sched, stackA, func(*fiber.Task) {}, fiber.Deferred)
	b := fiber.NewTask(sched, stackB, func(*fiber.Task) {}, fiber.Deferred)

	require.True(t, a.GetStopToken().Equal(a.GetStopToken()))
	require.False(t, a.GetStopToken().Equal(b.GetStopToken()))

	var zero1, zero2 fiber.StopToken
	require.True(t, zero1.Equal(zero2)) // two degenerate tokens are equal
}

// TestStopTaskReceivesOwnToken is scenario S7: a StopFunc task observes its
// own stop request through the token it was handed at start, not just
// through a separately fetched GetStopToken() call.
func TestStopTaskReceivesOwnToken(t *testing.T) {
	sched := fiber.NewScheduler()
	stack := fiber.NewStack(512)
	var observed bool

	task := fiber.NewStopTask(sched, stack, func(self *fiber.Task, stop fiber.StopToken) {
		fiber.Poll(self, stop.StopRequested)
		observed = stop.StopRequested()
	}, fiber.Now)

	spawn(sched, func(self *fiber.Task) {
		fiber.Yield(self)
		task.RequestStop()
	})

	sched.Run()

	require.True(t, observed)
}

func TestTaskCloseIsIdempotentAfterNaturalEnd(t *testing.T) {
	sched := fiber.NewScheduler()
	stack := fiber.NewStack(512)
	var ran bool

	task := fiber.NewTask(sched, stack, func(*fiber.Task) { ran = true }, fiber.Now)

	spawn(sched, func(self *fiber.Task) {
		task.Close(self)
	})

	sched.Run()

	require.True(t, ran)
	require.False(t, task.Joinable(nil))
}
