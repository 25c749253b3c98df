package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ctestgo/ctest"
)

var runCmd = &cobra.Command{
	Use:   "run <scenario>",
	Short: "Run a single attach/run/detach cycle and report the outcome",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func runRun(_ *cobra.Command, args []string) error {
	body, ok := scenarios[args[0]]
	if !ok {
		return unknownScenarioError(args[0])
	}

	log := newLogger()
	sched := ctest.New[string](ctest.Settings[string]{
		MainOperationID:          "main",
		RandomSeed:               uint64(seed),
		ExplorationStrategy:      strategyByLabel(strategy),
		ExplorationStrategyBound: bound,
		Logger:                   log,
	})

	if err := sched.Attach(); err != nil {
		return fmt.Errorf("attach: %w", err)
	}
	defer sched.Detach()

	runErr := body(sched)

	if args[0] == "deadlock" {
		if runErr == nil {
			return fmt.Errorf("expected deadlock scenario to report a deadlock, got nil")
		}
		fmt.Printf("deadlock scenario reported: %v\n", runErr)
		return nil
	}

	if runErr != nil {
		return fmt.Errorf("scenario %q failed: %w", args[0], runErr)
	}
	fmt.Printf("scenario %q completed (seed=%d, strategy=%s)\n", args[0], seed, strategy)
	return nil
}
