package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ctest.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadValidDocument(t *testing.T) {
	path := writeConfig(t, `
random_seed: 42
exploration_strategy: PCT
exploration_strategy_bound: 3
scheduler_version: v0.1.0
`)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.RandomSeed != 42 {
		t.Errorf("RandomSeed = %d, want 42", s.RandomSeed)
	}
	if s.ExplorationStrategy != StrategyPCT {
		t.Errorf("ExplorationStrategy = %q, want %q", s.ExplorationStrategy, StrategyPCT)
	}
	if s.ExplorationStrategyBound != 3 {
		t.Errorf("ExplorationStrategyBound = %d, want 3", s.ExplorationStrategyBound)
	}
	if s.SchedulerVersion != "v0.1.0" {
		t.Errorf("SchedulerVersion = %q, want v0.1.0", s.SchedulerVersion)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, `
random_seed: 1
exploration_strategy: Random
not_a_real_field: true
`)

	if _, err := Load(path); err == nil {
		t.Fatal("Load() error = nil, want an error for an unknown field")
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Load() error = nil, want an error for a missing file")
	}
}

func TestValidateDefaultsEmptyStrategyToRandom(t *testing.T) {
	s := &Settings{}
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if s.ExplorationStrategy != StrategyRandom {
		t.Errorf("ExplorationStrategy = %q, want %q", s.ExplorationStrategy, StrategyRandom)
	}
}

func TestValidateRejectsUnknownStrategy(t *testing.T) {
	s := &Settings{ExplorationStrategy: "Quantum"}
	if err := s.Validate(); err == nil {
		t.Fatal("Validate() error = nil, want an error for an unknown strategy")
	}
}

func TestValidateRequiresPositiveBoundForPCT(t *testing.T) {
	s := &Settings{ExplorationStrategy: StrategyPCT, ExplorationStrategyBound: 0}
	if err := s.Validate(); err == nil {
		t.Fatal("Validate() error = nil, want an error for PCT with a non-positive bound")
	}
}

func TestValidateRejectsMalformedSchedulerVersion(t *testing.T) {
	s := &Settings{ExplorationStrategy: StrategyRandom, SchedulerVersion: "not-a-version"}
	if err := s.Validate(); err == nil {
		t.Fatal("Validate() error = nil, want an error for a non-semver scheduler_version")
	}
}

func TestCompatibleWith(t *testing.T) {
	tests := []struct {
		name    string
		pinned  string
		running string
		want    bool
	}{
		{"unpinned always compatible", "", "v1.0.0", true},
		{"equal versions compatible", "v1.0.0", "v1.0.0", true},
		{"older pin compatible with newer running", "v0.9.0", "v1.0.0", true},
		{"newer pin incompatible with older running", "v1.1.0", "v1.0.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Settings{SchedulerVersion: tt.pinned}
			if got := s.CompatibleWith(tt.running); got != tt.want {
				t.Errorf("CompatibleWith(%q) = %v, want %v", tt.running, got, tt.want)
			}
		})
	}
}
