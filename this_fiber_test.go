package fiber_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/salkinium/modm-fiber"
)

func TestPollYieldsUntilTrue(t *testing.T) {
	sched := fiber.NewScheduler()
	var n int
	spawn(sched, func(self *fiber.Task) {
		fiber.Poll(self, func() bool {
			n++
			return n == 3
		})
	})
	sched.Run()
	require.Equal(t, 3, n)
}

// TestPollTrueOnEntryNeverYields checks the spec's explicit promise: a
// predicate that is already true never causes a yield, so a task that polls
// a true condition runs to completion before a task queued after it gets a
// turn at all.
func TestPollTrueOnEntryNeverYields(t *testing.T) {
	sched := fiber.NewScheduler()
	var order []string

	spawn(sched, func(self *fiber.Task) {
		fiber.Poll(self, func() bool { return true })
		order = append(order, "first")
	})
	spawn(sched, func(self *fiber.Task) {
		order = append(order, "second")
	})

	sched.Run()

	require.Equal(t, []string{"first", "second"}, order)
}

// tickerTask advances a fake clock by one unit every round for rounds
// iterations, giving tests a deterministic, cooperatively-scheduled way to
// drive time-based polling without depending on wall-clock sleeps.
func tickerTask(tick *fiber.MilliClock, rounds int) fiber.Func {
	return func(self *fiber.Task) {
		for i := 0; i < rounds; i++ {
			*tick = *tick + 1
			fiber.Yield(self)
		}
	}
}

func TestSleepForUsesMilliClockForWholeMilliseconds(t *testing.T) {
	restore := fiber.NowMilli
	defer func() { fiber.NowMilli = restore }()

	tick := fiber.MilliClock(1000)
	fiber.NowMilli = func() fiber.MilliClock { return tick }

	sched := fiber.NewScheduler()
	var done bool
	var wokeAt fiber.MilliClock

	spawn(sched, tickerTask(&tick, 20))
	spawn(sched, func(self *fiber.Task) {
		// The ticker has already advanced the clock to 1001, so the
		// millisecond deadline is 1006.
		fiber.SleepFor(self, 5*time.Millisecond)
		wokeAt = tick
		done = true
	})

	sched.Run()

	require.True(t, done)
	require.Equal(t, fiber.MilliClock(1006), wokeAt)
}

func TestPollForTimesOut(t *testing.T) {
	restore := fiber.NowMilli
	defer func() { fiber.NowMilli = restore }()

	tick := fiber.MilliClock(0)
	fiber.NowMilli = func() fiber.MilliClock { return tick }

	sched := fiber.NewScheduler()
	var result bool
	var finished bool

	spawn(sched, tickerTask(&tick, 20))
	spawn(sched, func(self *fiber.Task) {
		result = fiber.PollFor(self, 3*time.Millisecond, func() bool { return false })
		finished = true
	})

	sched.Run()

	require.True(t, finished)
	require.False(t, result)
}

// TestSleepForWakesOnCrossingAdvance is scenario S2: task A sleeps 50ms
// starting from a given clock value; task B advances the clock by 10, 20,
// then 30 ms (yielding between each), which only crosses A's deadline on
// the third advance. Run twice: once from an ordinary start value, once
// from a start value 30 ticks before the clock wraps, to verify the
// wraparound-correct comparison gives the same tag order either way.
func TestSleepForWakesOnCrossingAdvance(t *testing.T) {
	for _, start := range []fiber.MilliClock{16203, fiber.MilliClock(0xFFFFFFFF - 30)} {
		restore := fiber.NowMilli
		tick := start
		fiber.NowMilli = func() fiber.MilliClock { return tick }

		sched := fiber.NewScheduler()
		var order []string

		spawn(sched, func(self *fiber.Task) {
			order = append(order, "A_start")
			fiber.SleepFor(self, 50*time.Millisecond)
			order = append(order, "A_end")
		})
		spawn(sched, func(self *fiber.Task) {
			order = append(order, "B_start")
			tick += 10
			order = append(order, "B+10")
			fiber.Yield(self)
			tick += 20
			order = append(order, "B+20")
			fiber.Yield(self)
			tick += 30
			order = append(order, "B+30")
			fiber.Yield(self)
			order = append(order, "B_end")
		})

		sched.Run()
		fiber.NowMilli = restore

		require.Equal(t, []string{
			"A_start", "B_start", "B+10", "B+20", "B+30", "A_end", "B_end",
		}, order)
	}
}

func TestPollForTrueBeforeDeadline(t *testing.T) {
	restore := fiber.NowMilli
	defer func() { fiber.NowMilli = restore }()

	tick := fiber.MilliClock(0)
	fiber.NowMilli = func() fiber.MilliClock { return tick }

	sched := fiber.NewScheduler()
	var flips int
	var result bool

	spawn(sched, tickerTask(&tick, 20))
	spawn(sched, func(self *fiber.Task) {
		result = fiber.PollFor(self, 50*time.Millisecond, func() bool {
			flips++
			return flips == 3
		})
	})

	sched.Run()

	require.True(t, result)
}
