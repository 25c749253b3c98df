package scenario

import (
	"testing"

	"github.com/ctestgo/ctest"
)

func newTestScheduler(seed uint64) *ctest.Scheduler[string] {
	return ctest.New[string](ctest.Settings[string]{
		MainOperationID:          "main",
		RandomSeed:               seed,
		ExplorationStrategy:      ctest.StrategyPCT,
		ExplorationStrategyBound: 3,
	})
}

func TestTwoOpJoin(t *testing.T) {
	sched := newTestScheduler(1)
	if err := sched.Attach(); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	defer sched.Detach()

	if err := TwoOpJoin(sched); err != nil {
		t.Fatalf("TwoOpJoin() error = %v", err)
	}
}

func TestDeadlock(t *testing.T) {
	sched := newTestScheduler(2)
	if err := sched.Attach(); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	defer sched.Detach()

	if err := Deadlock(sched); err == nil {
		t.Fatal("Deadlock() error = nil, want a deadlock error")
	}
}

func TestBoundedSemaphore(t *testing.T) {
	const permits = 2
	const workerCount = 3
	const iterations = 50

	for iter := 0; iter < iterations; iter++ {
		sched := newTestScheduler(uint64(iter + 1))
		if err := sched.Attach(); err != nil {
			t.Fatalf("iteration %d: Attach() error = %v", iter, err)
		}

		maxHeld, err := BoundedSemaphore(sched, permits, workerCount)
		if err != nil {
			t.Fatalf("iteration %d: BoundedSemaphore() error = %v", iter, err)
		}
		if maxHeld > permits {
			t.Fatalf("iteration %d: observed %d concurrent holders, want <= %d", iter, maxHeld, permits)
		}

		sched.Detach()
	}
}
