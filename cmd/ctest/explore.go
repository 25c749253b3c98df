package main

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/ctestgo/ctest"
)

var exploreCmd = &cobra.Command{
	Use:   "explore <scenario>",
	Short: "Run a scenario across many seeded iterations, looking for a failure",
	Args:  cobra.ExactArgs(1),
	RunE:  runExplore,
}

var (
	maxParallel int
	reportStats bool
)

func init() {
	exploreCmd.Flags().IntVar(&iterations, "iterations", 100, "number of independent iterations to run")
	exploreCmd.Flags().IntVar(&maxParallel, "parallel", 8, "maximum concurrently running iterations")
	exploreCmd.Flags().BoolVar(&reportStats, "stats", false, "report the sample mean and standard deviation of the scenario's per-iteration observation")
}

// divergence describes an iteration whose outcome did not match the
// scenario's expectation, for a spew.Dump when it is reported.
type divergence struct {
	Seed     int64
	Scenario string
	Reason   string
}

// runExplore fans out `iterations` independent attach/run/detach cycles,
// each with its own seed and its own Kernel, capped at maxParallel
// concurrent iterations. Every iteration whose outcome diverges from the
// scenario's expectation is dumped in full; the other iterations still run,
// and the first divergence reported is returned as the error. With
// --stats and a scenario that reports a numeric observation, every
// iteration's value is collected and summarized at the end instead of
// being discarded.
func runExplore(_ *cobra.Command, args []string) error {
	name := args[0]
	body, ok := scenarios[name]
	if !ok {
		return unknownScenarioError(name)
	}
	wantDeadlock := name == "deadlock"

	statsBody, hasStats := statsScenarios[name]
	if reportStats && !hasStats {
		return fmt.Errorf("scenario %q has no numeric observation to report with --stats", name)
	}

	group := new(errgroup.Group)
	group.SetLimit(maxParallel)

	var deadlockCount atomic.Int64
	var observationsMu sync.Mutex
	var observations []float64

	for i := 0; i < iterations; i++ {
		iterSeed := seed + int64(i)
		group.Go(func() error {
			sched := ctest.New[string](ctest.Settings[string]{
				MainOperationID:          "main",
				RandomSeed:               uint64(iterSeed),
				ExplorationStrategy:      strategyByLabel(strategy),
				ExplorationStrategyBound: bound,
			})

			if err := sched.Attach(); err != nil {
				return fmt.Errorf("iteration seed=%d: attach: %w", iterSeed, err)
			}
			defer sched.Detach()

			var runErr error
			if reportStats && hasStats {
				var observed int
				observed, runErr = statsBody(sched)
				if runErr == nil {
					observationsMu.Lock()
					observations = append(observations, float64(observed))
					observationsMu.Unlock()
				}
			} else {
				runErr = body(sched)
			}

			if wantDeadlock {
				if runErr == nil {
					return reportDivergence(name, iterSeed, "expected deadlock, got success")
				}
				deadlockCount.Add(1)
				return nil
			}
			if runErr != nil {
				return reportDivergence(name, iterSeed, runErr.Error())
			}
			return nil
		})
	}

	err := group.Wait()

	if wantDeadlock {
		fmt.Printf("%d/%d iterations deadlocked as expected\n", deadlockCount.Load(), iterations)
	} else if err == nil {
		fmt.Printf("%d iterations completed with no divergence\n", iterations)
	}

	if err == nil && reportStats && hasStats && len(observations) > 0 {
		fmt.Printf("observation: mean=%.3f stddev=%.3f (n=%d)\n",
			stat.Mean(observations, nil), stat.StdDev(observations, nil), len(observations))
	}

	return err
}

func reportDivergence(scenarioName string, iterSeed int64, reason string) error {
	d := divergence{Seed: iterSeed, Scenario: scenarioName, Reason: reason}
	spew.Dump(d)
	return fmt.Errorf("iteration seed=%d: %s", iterSeed, reason)
}
