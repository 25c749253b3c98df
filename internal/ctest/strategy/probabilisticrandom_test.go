package strategy

import "testing"

func TestProbabilisticRandomClampsStayPercent(t *testing.T) {
	s := NewProbabilisticRandom[int](1, 150)
	if s.stayProbability != 100 {
		t.Errorf("stayProbability = %d, want clamped to 100", s.stayProbability)
	}

	s = NewProbabilisticRandom[int](1, -20)
	if s.stayProbability != 0 {
		t.Errorf("stayProbability = %d, want clamped to 0", s.stayProbability)
	}
}

func TestProbabilisticRandomAlwaysStaysAt100Percent(t *testing.T) {
	s := NewProbabilisticRandom[string](9, 100)
	enabled := []string{"a", "b", "c"}

	current := "b"
	for i := 0; i < 20; i++ {
		id, err := s.NextOperation(enabled, current)
		if err != nil {
			t.Fatalf("NextOperation() error = %v", err)
		}
		if id != current {
			t.Fatalf("NextOperation() = %v, want %v at 100%% stay probability", id, current)
		}
	}
}

func TestProbabilisticRandomFallsBackWhenCurrentDisabled(t *testing.T) {
	s := NewProbabilisticRandom[string](9, 100)
	enabled := []string{"a", "c"}

	id, err := s.NextOperation(enabled, "b")
	if err != nil {
		t.Fatalf("NextOperation() error = %v", err)
	}
	if id != "a" && id != "c" {
		t.Fatalf("NextOperation() = %v, want one of %v", id, enabled)
	}
}

func TestProbabilisticRandomNeverPicksOutsideEnabledSet(t *testing.T) {
	s := NewProbabilisticRandom[int](42, 30)
	enabled := []int{1, 2, 3, 4}
	current := 1

	for i := 0; i < 50; i++ {
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
			t.Fatalf("NextOperation() = %v, not in %v", id, enabled)
		}
		current = id
	}
}
