package strategy

import (
	"testing"

	"gonum.org/v1/gonum/stat"
)

func TestPCTNextOperationOnlyPicksEnabled(t *testing.T) {
	s := NewPCT[string](42, 2)

	enabled := []string{"a", "b", "c"}
	current := "a"

	for i := 0; i < 20; i++ {
		id, err := s.NextOperation(enabled, current)
		if err != nil {
			t.Fatalf("NextOperation() error = %v", err)
		}
		found := false
		for _, e := range enabled {
			if e == id {
				found = true
			}
		}
		if !found {
			t.Fatalf("NextOperation() = %v, not in enabled set %v", id, enabled)
		}
		current = id
	}
}

func TestPCTAssignsNewcomerBelowHead(t *testing.T) {
	s := NewPCT[string](7, 1)

	// First call seeds prioritized with "a" at the head.
	if _, err := s.NextOperation([]string{"a"}, "a"); err != nil {
		t.Fatalf("NextOperation() error = %v", err)
	}

	// "b" arrives; it must never be inserted at index 0.
	if _, err := s.NextOperation([]string{"a", "b"}, "a"); err != nil {
		t.Fatalf("NextOperation() error = %v", err)
	}

	prioritized := s.Prioritized()
	if len(prioritized) != 2 {
		t.Fatalf("Prioritized() = %v, want length 2", prioritized)
	}
	if prioritized[0] != "a" {
		t.Errorf("Prioritized()[0] = %v, want %q (newcomer must not preempt head)", prioritized[0], "a")
	}
}

func TestPCTPrepareNextIterationRegeneratesChangePoints(t *testing.T) {
	s := NewPCT[string](99, 3)

	enabled := []string{"a", "b", "c", "d"}
	current := "a"
	for i := 0; i < 10; i++ {
		id, err := s.NextOperation(enabled, current)
		if err != nil {
			t.Fatalf("NextOperation() error = %v", err)
		}
		current = id
	}

	s.PrepareNextIteration(2)

	if len(s.prioritized) != 0 {
		t.Errorf("prioritized not reset, got %v", s.prioritized)
	}
	if s.scheduleLength != 10 {
		t.Errorf("scheduleLength = %d, want 10", s.scheduleLength)
	}

	cps := s.ChangePoints()
	if len(cps) > s.maxPrioritySwitches {
		t.Errorf("len(ChangePoints()) = %d, want <= %d", len(cps), s.maxPrioritySwitches)
	}
	for cp := range cps {
		if cp < 1 || cp >= s.scheduleLength {
			t.Errorf("change point %d out of range [1, %d)", cp, s.scheduleLength)
		}
	}
}

func TestPCTPrepareFirstIterationIsNoop(t *testing.T) {
	s := NewPCT[string](1, 2)
	s.scheduledSteps = 5
	s.PrepareNextIteration(1)

	if s.scheduledSteps != 5 {
		t.Errorf("PrepareNextIteration(1) mutated state, scheduledSteps = %d", s.scheduledSteps)
	}
}

func TestPCTChangePointCountBoundedAcrossManyIterations(t *testing.T) {
	// No iteration ever injects more than maxPrioritySwitches change
	// points, regardless of schedule length or seed.
	const bound = 2
	s := NewPCT[int](1234, bound)

	scheduleLen := 3
	for iter := 1; iter <= 30; iter++ {
		s.PrepareNextIteration(iter)
		enabled := make([]int, scheduleLen)
		for i := range enabled {
			enabled[i] = i
		}
		current := 0
		for step := 0; step < scheduleLen; step++ {
			id, err := s.NextOperation(enabled, current)
			if err != nil {
				t.Fatalf("NextOperation() error = %v", err)
			}
			current = id
		}
		if len(s.ChangePoints()) > bound {
			t.Fatalf("iteration %d: len(ChangePoints()) = %d, want <= %d", iter, len(s.ChangePoints()), bound)
		}
		scheduleLen++
	}
}

// TestPCTChangePointsCoverEveryIndexAcrossManyIterations: Fisher-Yates
// draws its K change points uniformly from [1, scheduleLength), so across
// enough iterations every index in that range should be chosen at least
// once, not just some biased subset near either end.
func TestPCTChangePointsCoverEveryIndexAcrossManyIterations(t *testing.T) {
	const bound = 3
	const scheduleLen = 10
	const iterations = 500

	s := NewPCT[int](2024, bound)
	enabled := make([]int, scheduleLen)
	for i := range enabled {
		enabled[i] = i
	}

	hits := make([]float64, scheduleLen-1) // hits[i] counts index i+1

	for iter := 1; iter <= iterations; iter++ {
		s.PrepareNextIteration(iter)
		current := 0
		for step := 0; step < scheduleLen; step++ {
			id, err := s.NextOperation(enabled, current)
			if err != nil {
				t.Fatalf("NextOperation() error = %v", err)
			}
			current = id
		}
		for cp := range s.ChangePoints() {
			hits[cp-1]++
		}
	}

	if mean := stat.Mean(hits, nil); mean <= 0 {
		t.Fatalf("mean hits per change-point index across %d iterations = %v, want > 0", iterations, mean)
	}
	for i, count := range hits {
		if count == 0 {
			t.Errorf("change-point index %d was never chosen across %d iterations", i+1, iterations)
		}
	}
}

func TestPCTDeterministicGivenSameSeed(t *testing.T) {
	run := func(seed uint64) []int {
		s := NewPCT[int](seed, 2)
		enabled := []int{0, 1, 2, 3}
		current := 0
		var picks []int
		for iter := 1; iter <= 3; iter++ {
			s.PrepareNextIteration(iter)
			for step := 0; step < 6; step++ {
				id, err := s.NextOperation(enabled, current)
				if err != nil {
					t.Fatalf("NextOperation() error = %v", err)
				}
				picks = append(picks, id)
				current = id
			}
		}
		return picks
	}

	a := run(55)
	b := run(55)

	if len(a) != len(b) {
		t.Fatalf("len(a)=%d len(b)=%d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("schedules diverge at step %d: %d != %d", i, a[i], b[i])
		}
	}
}
