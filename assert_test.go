package fiber_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/salkinium/modm-fiber"
)

func TestAssertDefaultPanicsOnFalseCondition(t *testing.T) {
	require.NotPanics(t, func() { fiber.Assert(true, "tag", "message", 0) })
	require.Panics(t, func() { fiber.Assert(false, "tag", "message", 42) })
}

func TestAssertIsOverridable(t *testing.T) {
	restore := fiber.Assert
	defer func() { fiber.Assert = restore }()

	var gotTag, gotMessage string
	var gotDetail uint64
	fiber.Assert = func(cond bool, tag, message string, detail uint64) {
		if !cond {
			gotTag, gotMessage, gotDetail = tag, message, detail
		}
	}

	fiber.Assert(false, "fbr.stkof", "fiber stack overflow", 0xDEAD)

	require.Equal(t, "fbr.stkof", gotTag)
	require.Equal(t, "fiber stack overflow", gotMessage)
	require.Equal(t, uint64(0xDEAD), gotDetail)
}

func TestTaskStackOverflowInvokesAssert(t *testing.T) {
	restore := fiber.Assert
	defer func() { fiber.Assert = restore }()

	var asserted bool
	fiber.Assert = func(cond bool, tag, message string, detail uint64) {
		if !cond {
			asserted = true
		}
	}

	sched := fiber.NewScheduler()
	stack := fiber.NewStack(fiber.SizeMinimum)
	task := fiber.NewTask(sched, stack, func(*fiber.Task) {}, fiber.Deferred)

	require.False(t, task.StackOverflow())
	require.False(t, asserted)

	stack.Memory()[0] = 0
	require.True(t, task.StackOverflow())
	require.True(t, asserted)
}
