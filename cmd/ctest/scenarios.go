package main

import (
	"github.com/ctestgo/ctest"
	"github.com/ctestgo/ctest/internal/ctest/scenario"
)

// scenarios maps a CLI-facing name to a runnable body over an attached
// Scheduler. bounded-semaphore fixes its worker count and permit count
// for the CLI demo; callers wanting other values should use the
// scenario package directly.
var scenarios = map[string]func(sched *ctest.Scheduler[string]) error{
	"two-op-join": scenario.TwoOpJoin,
	"deadlock":    scenario.Deadlock,
	"bounded-semaphore": func(sched *ctest.Scheduler[string]) error {
		_, err := scenario.BoundedSemaphore(sched, 2, 3)
		return err
	},
}

// statsScenarios holds the subset of scenarios that report a numeric
// observation per iteration, for --stats to aggregate across a sweep.
var statsScenarios = map[string]func(sched *ctest.Scheduler[string]) (int, error){
	"bounded-semaphore": func(sched *ctest.Scheduler[string]) (int, error) {
		return scenario.BoundedSemaphore(sched, 2, 3)
	},
}
