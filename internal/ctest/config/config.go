// Package config loads the YAML-encoded settings that choose an
// exploration strategy and seed a test run.
package config

import (
	"bytes"
	"fmt"
	"os"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// ExplorationStrategy names one of the pluggable strategies a Settings
// selects.
type ExplorationStrategy string

const (
	// StrategyNone disables the scheduler entirely; every kernel call
	// short-circuits with SchedulerDisabled.
	StrategyNone ExplorationStrategy = "None"
	// StrategyRandom picks uniformly among enabled operations.
	StrategyRandom ExplorationStrategy = "Random"
	// StrategyPCT runs Priority-based Controlled concurrency Testing.
	StrategyPCT ExplorationStrategy = "PCT"
	// StrategyProbabilisticRandom biases toward re-scheduling the
	// current operation, per a configured stay probability.
	StrategyProbabilisticRandom ExplorationStrategy = "ProbabilisticRandom"
)

var validStrategies = map[ExplorationStrategy]bool{
	StrategyNone:                true,
	StrategyRandom:              true,
	StrategyPCT:                 true,
	StrategyProbabilisticRandom: true,
}

// Settings is the top-level YAML document loaded by Load.
type Settings struct {
	// RandomSeed seeds the RNG for iteration 1. A seed of 0 is
	// reinterpreted by internal/ctest/rng as a fixed non-zero constant.
	RandomSeed uint64 `yaml:"random_seed"`

	// ExplorationStrategy selects which strategy.Strategy implementation
	// the kernel consults.
	ExplorationStrategy ExplorationStrategy `yaml:"exploration_strategy"`

	// ExplorationStrategyBound is PCT's K (maximum priority-change
	// points per iteration) or ProbabilisticRandom's stay percentage.
	// Unused by None and Random.
	ExplorationStrategyBound int `yaml:"exploration_strategy_bound,omitempty"`

	// SchedulerVersion, if set, must be a valid semver string that test
	// harnesses can check for compatibility against the running ctest
	// release before trusting a recorded schedule's reproducibility
	// across versions. Optional: the empty string means "unpinned".
	SchedulerVersion string `yaml:"scheduler_version,omitempty"`
}

// Load reads and validates a Settings document from path.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ctest config: %w", err)
	}

	var s Settings
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing ctest config: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that every field holds a value the kernel and
// strategies can act on.
func (s *Settings) Validate() error {
	if s.ExplorationStrategy == "" {
		s.ExplorationStrategy = StrategyRandom
	}
	if !validStrategies[s.ExplorationStrategy] {
		return fmt.Errorf("unknown exploration_strategy %q", s.ExplorationStrategy)
	}
	if s.ExplorationStrategy == StrategyPCT && s.ExplorationStrategyBound <= 0 {
		return fmt.Errorf("exploration_strategy_bound must be positive for PCT, got %d", s.ExplorationStrategyBound)
	}
	if s.SchedulerVersion != "" && !semver.IsValid(s.SchedulerVersion) {
		return fmt.Errorf("scheduler_version %q is not a valid semantic version", s.SchedulerVersion)
	}
	return nil
}

// CompatibleWith reports whether s.SchedulerVersion is unpinned, or pinned
// at a version less than or equal to running (the ctest release actually
// in use). Both must be valid semver; running is assumed valid.
func (s *Settings) CompatibleWith(running string) bool {
	if s.SchedulerVersion == "" {
		return true
	}
	return semver.Compare(s.SchedulerVersion, running) <= 0
}
