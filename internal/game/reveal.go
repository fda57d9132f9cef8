package game

import (
	"strconv"
	"time"
)

// Reveal kinds.
const (
	RevealHands = "hands"
	RevealSpin  = "spin"
	RevealRoll  = "roll"
)

// HandsRevealDelay is how long clients show the reveal animation before
// the round result.
const HandsRevealDelay = time.Second

// Reveal is a client-local animation that ends on the authoritative result.
// Frames are shown in order, each followed by the matching delay; Final is
// shown last. Two clients animate independently, so their frames differ
// while the final value is the same.
type Reveal struct {
	Kind     string   `json:"kind"`
	Frames   []string `json:"frames,omitempty"`
	DelaysMS []int    `json:"delaysMs,omitempty"`
	Final    string   `json:"final"`
}

// SpinReveal builds a 20-28 tick roulette animation with a slowing delay.
func SpinReveal(options []string, result string, intN func(int) int) Reveal {
	total := 20 + intN(8)
	r := Reveal{Kind: RevealSpin, Final: result}
	for count := 1; count < total; count++ {
		r.Frames = append(r.Frames, options[intN(len(options))])
		r.DelaysMS = append(r.DelaysMS, 50+count*250/total)
	}
	return r
}

// RollReveal builds a 15-22 tick number animation with a slowing delay.
func RollReveal(lo, hi, result int, intN func(int) int) Reveal {
	total := 15 + intN(8)
	r := Reveal{Kind: RevealRoll, Final: strconv.Itoa(result)}
	for count := 1; count < total; count++ {
		r.Frames = append(r.Frames, strconv.Itoa(lo+intN(hi-lo+1)))
		r.DelaysMS = append(r.DelaysMS, 40+count*200/total)
	}
	return r
}

// Tracker watches a stream of session snapshots for one client and reports
// when a reveal should start. The spin and roll timestamps and the moment
// both hands are in are the change signals.
type Tracker struct {
	intN       func(int) int
	primed     bool
	spinAt     int64
	rollAt     int64
	bothPicked bool
}

// NewTracker returns a tracker that draws animation frames with intN.
func NewTracker(intN func(int) int) *Tracker {
	return &Tracker{intN: intN}
}

// Observe feeds the next snapshot and returns the reveal it triggers, if
// any. The first snapshot only primes the tracker, so joining mid-game does
// not replay an old spin.
func (t *Tracker) Observe(s *Session) *Reveal {
	if s == nil {
		*t = Tracker{intN: t.intN}
		return nil
	}
	prev := *t
	t.primed = true
	t.spinAt = s.Roulette.SpinAt
	t.rollAt = s.Draw.RollAt
	t.bothPicked = s.Hands.BothPicked()
	if !prev.primed {
		return nil
	}

	switch s.Type {
	case TypeRoulette:
		if s.Roulette.SpinAt != 0 && s.Roulette.SpinAt != prev.spinAt && s.Roulette.Result != nil && len(s.Roulette.Options) > 0 {
			r := SpinReveal(s.Roulette.Options, *s.Roulette.Result, t.intN)
			return &r
		}
	case TypeDraw:
		if s.Draw.RollAt != 0 && s.Draw.RollAt != prev.rollAt && s.Draw.Result != nil && s.Draw.Min <= s.Draw.Max {
			r := RollReveal(s.Draw.Min, s.Draw.Max, *s.Draw.Result, t.intN)
			return &r
		}
	case TypeHands:
		if t.bothPicked && !prev.bothPicked {
			return &Reveal{
				Kind:     RevealHands,
				DelaysMS: []int{int(HandsRevealDelay / time.Millisecond)},
				Final:    string(Winner(*s.Hands.Pea, *s.Hands.Cam)),
			}
		}
	}
	return nil
}
