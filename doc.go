// Package ctest provides a controlled concurrency testing scheduler: a
// cooperative kernel that serializes the goroutines of a concurrent test
// program so that, from seed alone, an interleaving can be reproduced,
// and an exploration strategy — PCT, Random, or ProbabilisticRandom —
// chooses which interleavings to try.
//
// # Quick Start
//
// Wrap the concurrent code under test with Attach/Detach, register each
// worker goroutine with CreateOperation/StartOperation, and replace
// synchronization primitives (or the controlled-nondeterminism choices
// they depend on) with calls into the returned Scheduler:
//
//	sched := ctest.New[string](ctest.Settings[string]{
//		ExplorationStrategy:      ctest.StrategyPCT,
//		ExplorationStrategyBound: 3,
//		RandomSeed:               42,
//	})
//
//	if err := sched.Attach(); err != nil {
//		log.Fatal(err)
//	}
//	defer sched.Detach()
//
//	sched.CreateOperation("worker-1")
//	go func() {
//		sched.StartOperation("worker-1")
//		defer sched.CompleteOperation("worker-1")
//		// ... body under test ...
//	}()
//	sched.JoinOperation("worker-1")
//
// # How It Works
//
// Exactly one operation ever holds the execution token; every other
// registered operation's goroutine is parked until the scheduler grants
// it the token. A test harness runs the same program body across many
// iterations, each with PrepareNextIteration cycling the strategy's
// internal state, trying to land the program in a state-space corner a
// single real run would hit only by chance.
//
// # API Overview
//
//   - Lifecycle: [Scheduler.Attach], [Scheduler.Detach]
//   - Operations: [Scheduler.CreateOperation], [Scheduler.StartOperation],
//     [Scheduler.JoinOperation], [Scheduler.JoinOperations],
//     [Scheduler.CompleteOperation]
//   - Resources: [Scheduler.CreateResource], [Scheduler.WaitResource],
//     [Scheduler.WaitResources], [Scheduler.SignalResource],
//     [Scheduler.SignalResourceTo], [Scheduler.DeleteResource]
//   - Controlled nondeterminism: [Scheduler.NextBoolean],
//     [Scheduler.NextInteger], [Scheduler.RandomSeed]
//   - Introspection: [Scheduler.ScheduledOperationID], [Scheduler.LastError]
//
// # Compatibility
//
// Operation and resource identifiers are any comparable type — integers,
// strings, or a caller-defined key type — selected with the type
// parameter on [New].
package ctest
