package strategy

import (
	cerr "github.com/ctestgo/ctest/internal/ctest/errors"
	"github.com/ctestgo/ctest/internal/ctest/rng"
)

// Random picks uniformly among the enabled operations at every step. It
// carries no memory of priorities across steps, unlike PCT.
type Random[ID comparable] struct {
	rng           *rng.RNG
	iterationSeed uint64
}

// NewRandom returns a Random strategy seeded with seed.
func NewRandom[ID comparable](seed uint64) *Random[ID] {
	return &Random[ID]{rng: rng.New(seed), iterationSeed: seed}
}

func (s *Random[ID]) NextOperation(enabled []ID, _ ID) (ID, error) {
	if len(enabled) == 0 {
		var zero ID
		return zero, cerr.New(cerr.InternalError)
	}
	return enabled[s.rng.NextIntN(len(enabled))], nil
}

func (s *Random[ID]) NextBoolean() bool {
	return s.rng.Next()&1 == 1
}

func (s *Random[ID]) NextInteger(max int) int {
	return s.rng.NextIntN(max)
}

func (s *Random[ID]) RandomSeed() uint64 {
	return s.iterationSeed
}

// PrepareNextIteration is a no-op: the Random strategy carries no
// schedule-shaped state between iterations, only its RNG, which continues
// to advance from run to run by design (each iteration explores a fresh
// slice of the same deterministic sequence).
func (s *Random[ID]) PrepareNextIteration(int) {}
