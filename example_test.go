package ctest_test

import (
	"fmt"

	"github.com/ctestgo/ctest"
)

// Example demonstrates a minimal controlled run: main creates a worker
// operation, the worker starts and completes, and main joins it.
func Example() {
	sched := ctest.New[string](ctest.Settings[string]{
		MainOperationID:     "main",
		RandomSeed:          1,
		ExplorationStrategy: ctest.StrategyRandom,
	})

	if err := sched.Attach(); err != nil {
		fmt.Println("attach error:", err)
		return
	}
	defer sched.Detach()

	sched.CreateOperation("worker")

	done := make(chan struct{})
	go func() {
		defer close(done)
		sched.StartOperation("worker")
		sched.CompleteOperation("worker")
	}()

	sched.JoinOperation("worker")
	<-done

	fmt.Println("worker joined")

	// Output:
	// worker joined
}
