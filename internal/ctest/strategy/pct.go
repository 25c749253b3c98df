package strategy

import (
	cerr "github.com/ctestgo/ctest/internal/ctest/errors"
	"github.com/ctestgo/ctest/internal/ctest/rng"
)

// PCT implements Priority-based Controlled concurrency Testing (Burckhardt
// et al., 2010): it assigns each operation a random priority, always runs
// the highest-priority enabled operation, and injects at most K
// priority-change points per iteration, each demoting the current
// highest-priority operation to the back of the line. This provably bounds
// the probability of finding a bug of depth <= K on a schedule of length
// <= N by >= 1 / (N * n^(K-1)) for n operations.
type PCT[ID comparable] struct {
	rng                 *rng.RNG
	iterationSeed       uint64
	maxPrioritySwitches int

	prioritized  []ID // position 0 is highest priority
	known        map[ID]struct{}
	changePoints map[int]struct{}

	scheduledSteps int
	scheduleLength int
}

// NewPCT returns a PCT strategy seeded with seed and bounded to at most
// maxPrioritySwitches priority-change points per iteration.
func NewPCT[ID comparable](seed uint64, maxPrioritySwitches int) *PCT[ID] {
	return &PCT[ID]{
		rng:                 rng.New(seed),
		iterationSeed:       seed,
		maxPrioritySwitches: maxPrioritySwitches,
		known:               make(map[ID]struct{}),
		changePoints:        make(map[int]struct{}),
	}
}

// NextOperation assigns priorities to any newcomers, deprioritizes the
// current head if this step is a change point, advances the step
// counter, then selects the highest-priority enabled id.
func (s *PCT[ID]) NextOperation(enabled []ID, current ID) (ID, error) {
	s.assignNewPriorities(enabled, current)

	if len(enabled) > 1 {
		if _, due := s.changePoints[s.scheduledSteps]; due {
			s.deprioritizeHighest(enabled)
		}
	}

	s.scheduledSteps++

	return s.highestPriorityEnabled(enabled)
}

func (s *PCT[ID]) NextBoolean() bool {
	return s.rng.Next()&1 == 1
}

func (s *PCT[ID]) NextInteger(max int) int {
	return s.rng.NextIntN(max)
}

func (s *PCT[ID]) RandomSeed() uint64 {
	return s.iterationSeed
}

// PrepareNextIteration resets per-iteration state ahead of the next run.
// The first iteration explores an unperturbed schedule; from the second
// iteration onward it records the observed schedule length, resets
// per-iteration state, and regenerates the set of priority-change points.
func (s *PCT[ID]) PrepareNextIteration(iteration int) {
	if iteration <= 1 {
		return
	}

	if s.scheduleLength < s.scheduledSteps {
		s.scheduleLength = s.scheduledSteps
	}

	s.scheduledSteps = 0
	s.prioritized = s.prioritized[:0]
	s.known = make(map[ID]struct{})
	s.changePoints = make(map[int]struct{})

	s.shufflePriorityChangePoints()
}

// assignNewPriorities seeds prioritized with current on the very first
// call, then gives every enabled id not yet known a random insertion index
// in [1, len(prioritized)] — never position 0, so a newcomer never
// preempts the running operation's priority on the step it is created.
func (s *PCT[ID]) assignNewPriorities(enabled []ID, current ID) {
	if len(s.prioritized) == 0 {
		s.prioritized = append(s.prioritized, current)
		s.known[current] = struct{}{}
	}

	for _, id := range enabled {
		if _, ok := s.known[id]; ok {
			continue
		}
		index := s.rng.NextIntN(len(s.prioritized)) + 1
		s.prioritized = insertAt(s.prioritized, index, id)
		s.known[id] = struct{}{}
	}
}

// deprioritizeHighest moves the highest-priority enabled operation to the
// tail of prioritized, demoting it immediately so the change takes effect
// before this step's selection.
func (s *PCT[ID]) deprioritizeHighest(enabled []ID) {
	id, err := s.highestPriorityEnabled(enabled)
	if err != nil {
		return
	}
	s.prioritized = removeValue(s.prioritized, id)
	s.prioritized = append(s.prioritized, id)
}

// highestPriorityEnabled walks prioritized in order and returns the first
// id also present in enabled. A miss means the strategy and kernel
// disagree about which operations are enabled, an internal invariant
// violation.
func (s *PCT[ID]) highestPriorityEnabled(enabled []ID) (ID, error) {
	enabledSet := make(map[ID]struct{}, len(enabled))
	for _, id := range enabled {
		enabledSet[id] = struct{}{}
	}
	for _, id := range s.prioritized {
		if _, ok := enabledSet[id]; ok {
			return id, nil
		}
	}
	var zero ID
	return zero, cerr.New(cerr.InternalError)
}

// shufflePriorityChangePoints regenerates changePoints via Fisher-Yates:
// build the integer range [1, scheduleLength), shuffle it with the
// strategy's RNG (no reseed — priority assignment and shuffling share one
// generator within an iteration), and take the first
// min(K, len(range)) entries.
func (s *PCT[ID]) shufflePriorityChangePoints() {
	if s.scheduleLength <= 1 {
		return
	}

	rangeVals := make([]int, s.scheduleLength-1)
	for i := range rangeVals {
		rangeVals[i] = i + 1
	}

	for i := len(rangeVals) - 1; i >= 1; i-- {
		j := s.rng.NextIntN(i + 1)
		rangeVals[i], rangeVals[j] = rangeVals[j], rangeVals[i]
	}

	count := s.maxPrioritySwitches
	for _, v := range rangeVals {
		if count <= 0 {
			break
		}
		s.changePoints[v] = struct{}{}
		count--
	}
}

// ChangePoints returns a snapshot of the current iteration's priority-change
// step indices, for tests asserting that the count never exceeds the
// configured bound.
func (s *PCT[ID]) ChangePoints() map[int]struct{} {
	out := make(map[int]struct{}, len(s.changePoints))
	for k := range s.changePoints {
		out[k] = struct{}{}
	}
	return out
}

// Prioritized returns a snapshot of the current priority order, highest
// first, for tests asserting that a newcomer is never inserted at the head.
func (s *PCT[ID]) Prioritized() []ID {
	out := make([]ID, len(s.prioritized))
	copy(out, s.prioritized)
	return out
}

func insertAt[T any](s []T, index int, v T) []T {
	s = append(s, v)
	copy(s[index+1:], s[index:])
	s[index] = v
	return s
}

func removeValue[ID comparable](s []ID, v ID) []ID {
	for i, id := range s {
		if id == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
