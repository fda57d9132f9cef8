package game

import "errors"

// Hand is a rock/paper/scissors choice.
type Hand string

const (
	Rock     Hand = "rock"
	Paper    Hand = "paper"
	Scissors Hand = "scissors"
)

// Hands lists the choices in display order.
var Hands = []Hand{Rock, Paper, Scissors}

// beats maps each hand to the one it defeats.
var beats = map[Hand]Hand{
	Rock:     Scissors,
	Paper:    Rock,
	Scissors: Paper,
}

var ErrInvalidHand = errors.New("hand must be rock, paper or scissors")

// Valid reports whether h is one of the three hands.
func (h Hand) Valid() bool {
	_, ok := beats[h]
	return ok
}

// Outcome is the result of one round.
type Outcome string

const (
	OutcomeA    Outcome = "a"
	OutcomeB    Outcome = "b"
	OutcomeDraw Outcome = "draw"
)

// Winner resolves a round between hands a and b.
func Winner(a, b Hand) Outcome {
	switch {
	case a == b:
		return OutcomeDraw
	case beats[a] == b:
		return OutcomeA
	default:
		return OutcomeB
	}
}
