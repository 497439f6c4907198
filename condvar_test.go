package fiber_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/salkinium/modm-fiber"
)

// countingLock instruments fiber.Mutex to count lock/unlock calls, so tests
// can observe CondVarAny's unlock-before-wait / relock-after-wake protocol.
type countingLock struct {
	fiber.Mutex
	lockCount   int
	unlockCount int
}

func (l *countingLock) Lock(self *fiber.Task) {
	l.Mutex.Lock(self)
	l.lockCount++
}

func (l *countingLock) Unlock(self *fiber.Task) {
	l.unlockCount++
	l.Mutex.Unlock(self)
}

// TestCondVarWaitUnlocksAndRelocks is scenario S4: Task A calls cv.Wait(L);
// Task B, after 3 yields, calls cv.NotifyOne(). A must resume with L
// relocked exactly once (lock_count == unlock_count == 1).
func TestCondVarWaitUnlocksAndRelocks(t *testing.T) {
	sched := fiber.NewScheduler()
	var cv fiber.CondVarAny
	l := &countingLock{}
	var resumed bool

	spawn(sched, func(self *fiber.Task) {
		l.Mutex.Lock(self) // hold the lock before waiting, uncounted
		cv.Wait(self, l)
		resumed = true
		l.Mutex.Unlock(self)
	})
	spawn(sched, func(self *fiber.Task) {
		for i := 0; i < 3; i++ {
			fiber.Yield(self)
		}
		cv.NotifyOne()
	})

	sched.Run()

	require.True(t, resumed)
	require.Equal(t, 1, l.lockCount)
	require.Equal(t, 1, l.unlockCount)
}

func TestCondVarWaitPredSkipsWaitIfAlreadyTrue(t *testing.T) {
	sched := fiber.NewScheduler()
	var cv fiber.CondVarAny
	l := &countingLock{}
	ready := true
	var unlockCountDuringWait int

	spawn(sched, func(self *fiber.Task) {
		l.Lock(self)
		cv.WaitPred(self, l, func() bool { return ready })
		unlockCountDuringWait = l.unlockCount
		l.Unlock(self)
	})

	sched.Run()

	require.Equal(t, 0, unlockCountDuringWait)
}

func TestCondVarWaitForTimesOutWithoutNotify(t *testing.T) {
	restore := fiber.NowMilli
	defer func() { fiber.NowMilli = restore }()

	tick := fiber.MilliClock(0)
	fiber.NowMilli = func() fiber.MilliClock { return tick }

	sched := fiber.NewScheduler()
	var cv fiber.CondVarAny
	l := &countingLock{}
	var result bool
	var finished bool

	spawn(sched, tickerTask(&tick, 20))
	spawn(sched, func(self *fiber.Task) {
		l.Lock(self)
		result = cv.WaitFor(self, l, 5*time.Millisecond, func() bool { return false })
		finished = true
		l.Unlock(self)
	})

	sched.Run()

	require.True(t, finished)
	require.False(t, result)
}
