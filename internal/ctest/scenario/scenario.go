// Package scenario implements the handful of concurrent test bodies used
// as the CLI's built-in exploration targets.
package scenario

import (
	"fmt"
	"sync"

	"github.com/ctestgo/ctest"
)

// TwoOpJoin: main creates operation A, a worker starts and completes it,
// and main's join on A returns successfully.
func TwoOpJoin(sched *ctest.Scheduler[string]) error {
	if err := sched.CreateOperation("A"); err != nil {
		return fmt.Errorf("create_operation(A): %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	workerErr := make(chan error, 1)
	go func() {
		defer wg.Done()
		if err := sched.StartOperation("A"); err != nil {
			workerErr <- err
			return
		}
		workerErr <- sched.CompleteOperation("A")
	}()

	if err := sched.JoinOperation("A"); err != nil {
		return fmt.Errorf("join_operation(A): %w", err)
	}
	wg.Wait()
	return <-workerErr
}

// Deadlock: main waits on a resource nobody ever signals. The only
// non-completed operation (main itself) leaves the enabled set, so the
// scheduler's internal handoff reports DeadlockDetected. Callers should
// expect this error, not treat it as a failure.
func Deadlock(sched *ctest.Scheduler[string]) error {
	if err := sched.CreateResource("R"); err != nil {
		return fmt.Errorf("create_resource(R): %w", err)
	}
	return sched.WaitResource("R")
}

// BoundedSemaphore: n workers contend for a resource emulating a
// counting semaphore with the given number of
// permits. It returns an error if, at any point, more workers hold the
// permit than the bound allows — the invariant the scheduler's
// at-most-one-scheduled guarantee is meant to uphold across every
// explored interleaving.
func BoundedSemaphore(sched *ctest.Scheduler[string], permits int, workerCount int) (maxHeld int, err error) {
	if createErr := sched.CreateResource("permit"); createErr != nil {
		return 0, fmt.Errorf("create_resource(permit): %w", createErr)
	}

	ids := make([]string, workerCount)
	for i := range ids {
		ids[i] = fmt.Sprintf("w%d", i)
		if createErr := sched.CreateOperation(ids[i]); createErr != nil {
			return 0, fmt.Errorf("create_operation(%s): %w", ids[i], createErr)
		}
	}

	held := 0
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if startErr := sched.StartOperation(id); startErr != nil {
				return
			}
			for held >= permits {
				if waitErr := sched.WaitResource("permit"); waitErr != nil {
					return
				}
			}
			held++
			if held > maxHeld {
				maxHeld = held
			}

			_ = sched.ScheduleNext()

			held--
			_ = sched.SignalResource("permit")
			_ = sched.CompleteOperation(id)
		}(id)
	}

	if joinErr := sched.JoinOperations(ids, true); joinErr != nil {
		return maxHeld, fmt.Errorf("join_operations: %w", joinErr)
	}
	wg.Wait()

	if maxHeld > permits {
		return maxHeld, fmt.Errorf("observed %d concurrent holders, want <= %d", maxHeld, permits)
	}
	return maxHeld, nil
}
