package fiber_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/salkinium/modm-fiber"
)

// TestTraceFuncObservesSpawnResumeYieldEnd drives two tasks through one
// real yield (a single-task queue makes Yield a documented no-op that never
// reaches TraceFunc) and checks every scheduling transition is reported in
// order: A spawns, runs, yields; B spawns, runs to completion; A resumes
// and runs to completion.
func TestTraceFuncObservesSpawnResumeYieldEnd(t *testing.T) {
	restore := fiber.TraceFunc
	defer func() { fiber.TraceFunc = restore }()

	var events []fiber.TraceEvent
	fiber.TraceFunc = func(event fiber.TraceEvent, task *fiber.Task) {
		events = append(events, event)
	}

	sched := fiber.NewScheduler()
	spawn(sched, func(self *fiber.Task) {
		fiber.Yield(self)
	})
	spawn(sched, func(self *fiber.Task) {})

	sched.Run()

	require.Equal(t, []fiber.TraceEvent{
		fiber.TraceSpawned, fiber.TraceResumed, fiber.TraceYielded,
		fiber.TraceSpawned, fiber.TraceResumed, fiber.TraceEnded,
		fiber.TraceResumed, fiber.TraceEnded,
	}, events)
}

func TestTraceFuncNilIsSilent(t *testing.T) {
	restore := fiber.TraceFunc
	fiber.TraceFunc = nil
	defer func() { fiber.TraceFunc = restore }()

	sched := fiber.NewScheduler()
	var ran bool
	spawn(sched, func(self *fiber.Task) { ran = true })

	require.NotPanics(t, sched.Run)
	require.True(t, ran)
}
