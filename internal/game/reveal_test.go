package game

import (
	"testing"

	"github.com/mmynk/moneymates/internal/models"
)

func TestSpinRevealSchedule(t *testing.T) {
	options := []string{"A", "B", "C"}
	for n := 0; n < 8; n++ {
		r := SpinReveal(options, "B", func(m int) int { return n % m })
		total := 20 + n
		if len(r.Frames) != total-1 || len(r.DelaysMS) != total-1 {
			t.Fatalf("n=%d: %d frames, %d delays, want %d", n, len(r.Frames), len(r.DelaysMS), total-1)
		}
		if r.Final != "B" {
			t.Errorf("final = %s, want B", r.Final)
		}
		for i := 1; i < len(r.DelaysMS); i++ {
			if r.DelaysMS[i] < r.DelaysMS[i-1] {
				t.Fatalf("delays must not speed up: %v", r.DelaysMS)
			}
		}
		if r.DelaysMS[0] < 50 || r.DelaysMS[len(r.DelaysMS)-1] > 300 {
			t.Errorf("delays out of range: %v", r.DelaysMS)
		}
	}
}

func TestRollRevealFramesInRange(t *testing.T) {
	calls := 0
	r := RollReveal(3, 9, 7, func(m int) int {
		calls++
		return calls % m
	})
	if r.Final != "7" {
		t.Errorf("final = %s, want 7", r.Final)
	}
	if n := len(r.Frames); n < 14 || n > 21 {
		t.Errorf("frames = %d, want 14..21", n)
	}
	for _, f := range r.Frames {
		if f < "3" || f > "9" {
			t.Errorf("frame %s outside [3, 9]", f)
		}
	}
}

func TestTrackerTriggersOnChange(t *testing.T) {
	env := fixedEnv(1)
	tracker := NewTracker(env.IntN)

	s := activeSession(t, TypeRoulette)
	s.Roulette.Options = []string{"x", "y"}
	if r := tracker.Observe(s); r != nil {
		t.Fatalf("first observation should only prime, got %+v", r)
	}

	mustApply(t, s, models.Pea, &Spin{}, env)
	r := tracker.Observe(s)
	if r == nil || r.Kind != RevealSpin || r.Final != "y" {
		t.Fatalf("reveal = %+v, want spin ending on y", r)
	}
	if r := tracker.Observe(s); r != nil {
		t.Errorf("unchanged snapshot triggered %+v", r)
	}
}

func TestTrackerHands(t *testing.T) {
	env := fixedEnv(0)
	tracker := NewTracker(env.IntN)
	s := activeSession(t, TypeHands)
	tracker.Observe(s)

	mustApply(t, s, models.Pea, &PickHand{Hand: Paper}, env)
	if r := tracker.Observe(s); r != nil {
		t.Fatalf("one pick triggered %+v", r)
	}
	mustApply(t, s, models.Cam, &PickHand{Hand: Rock}, env)
	r := tracker.Observe(s)
	if r == nil || r.Kind != RevealHands || r.Final != string(OutcomeA) {
		t.Fatalf("reveal = %+v, want hands outcome a", r)
	}

	tracker.Observe(nil)
	if r := tracker.Observe(s); r != nil {
		t.Errorf("observation after reset should prime, got %+v", r)
	}
}
