package strategy

import (
	cerr "github.com/ctestgo/ctest/internal/ctest/errors"
	"github.com/ctestgo/ctest/internal/ctest/rng"
)

// ProbabilisticRandom is Random biased toward repeating the previously
// scheduled operation: at each step it keeps running current with
// probability stayProbability (when current is still enabled), and only
// otherwise falls back to a uniform pick among the whole enabled set, which
// may pick current again.
// This thins out the interleavings a pure uniform pick would spend on
// trivial context switches, trading exploration breadth for a higher hit
// rate on bugs that need a handful of operations to run mostly
// uninterrupted.
type ProbabilisticRandom[ID comparable] struct {
	rng             *rng.RNG
	iterationSeed   uint64
	stayProbability int // out of 100
}

// NewProbabilisticRandom returns a ProbabilisticRandom strategy seeded with
// seed. stayPercent is clamped to [0, 100] and is the percent chance of
// re-scheduling the currently running operation on each step it remains
// enabled.
func NewProbabilisticRandom[ID comparable](seed uint64, stayPercent int) *ProbabilisticRandom[ID] {
	if stayPercent < 0 {
		stayPercent = 0
	}
	if stayPercent > 100 {
		stayPercent = 100
	}
	return &ProbabilisticRandom[ID]{
		rng:             rng.New(seed),
		iterationSeed:   seed,
		stayProbability: stayPercent,
	}
}

func (s *ProbabilisticRandom[ID]) NextOperation(enabled []ID, current ID) (ID, error) {
	if len(enabled) == 0 {
		var zero ID
		return zero, cerr.New(cerr.InternalError)
	}

	currentStillEnabled := false
	for _, id := range enabled {
		if id == current {
			currentStillEnabled = true
			break
		}
	}

	if currentStillEnabled && s.rng.NextIntN(100) < s.stayProbability {
		return current, nil
	}

	return enabled[s.rng.NextIntN(len(enabled))], nil
}

func (s *ProbabilisticRandom[ID]) NextBoolean() bool {
	return s.rng.Next()&1 == 1
}

func (s *ProbabilisticRandom[ID]) NextInteger(max int) int {
	return s.rng.NextIntN(max)
}

func (s *ProbabilisticRandom[ID]) RandomSeed() uint64 {
	return s.iterationSeed
}

// PrepareNextIteration is a no-op, for the same reason as Random's.
func (s *ProbabilisticRandom[ID]) PrepareNextIteration(int) {}
