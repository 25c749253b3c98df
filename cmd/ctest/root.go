package main

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ctestgo/ctest"
	"github.com/ctestgo/ctest/internal/ctest/config"
)

var (
	seed       int64
	strategy   string
	bound      int
	iterations int
	logLevel   string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:               "ctest",
	Short:             "Controlled concurrency test scheduler",
	PersistentPreRunE: func(*cobra.Command, []string) error { return applyConfigFile() },
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 1, "seed for the first iteration's RNG")
	rootCmd.PersistentFlags().StringVar(&strategy, "strategy", "pct", "exploration strategy: random, pct, probabilistic")
	rootCmd.PersistentFlags().IntVar(&bound, "bound", 3, "PCT's K (max priority-change points) or ProbabilisticRandom's stay percentage")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "logrus level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML settings file; overrides --seed, --strategy, and --bound")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(exploreCmd)
}

// applyConfigFile loads configPath, if set, and overlays its values onto
// the seed/strategy/bound flags so every command sees a consistent
// configuration regardless of where it came from.
func applyConfigFile() error {
	if configPath == "" {
		return nil
	}

	settings, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", configPath, err)
	}

	seed = int64(settings.RandomSeed)
	strategy = string(settings.ExplorationStrategy)
	bound = settings.ExplorationStrategyBound
	return nil
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

func scenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	return names
}

func unknownScenarioError(name string) error {
	return fmt.Errorf("unknown scenario %q, want one of %v", name, scenarioNames())
}

// strategyByLabel maps the --strategy flag's short names (or a config
// file's capitalized exploration_strategy value) to the facade's
// ExplorationStrategy constants, defaulting to PCT for anything
// unrecognized.
func strategyByLabel(label string) ctest.ExplorationStrategy {
	switch strings.ToLower(label) {
	case "none":
		return ctest.StrategyNone
	case "random":
		return ctest.StrategyRandom
	case "probabilistic", "probabilisticrandom":
		return ctest.StrategyProbabilisticRandom
	default:
		return ctest.StrategyPCT
	}
}
