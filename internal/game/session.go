// Package game implements the shared two-player mini-game session.
//
// A single Session document exists at a time. It is created pending by one
// profile, becomes active when the other profile joins, and is deleted when
// either profile ends it; no finished state is ever stored. All game moves
// are tagged Commands applied by Apply, so every client observing the same
// document derives the same view.
package game

import (
	"errors"
	"time"

	"github.com/mmynk/moneymates/internal/models"
)

// SessionID is the fixed id of the singleton session document.
const SessionID = "active"

// Type identifies one of the four mini-games.
type Type string

const (
	TypeHands    Type = "rps"
	TypeRoulette Type = "roulette"
	TypeDraw     Type = "rng"
	TypeDecide   Type = "decide"
)

// Types lists the available games in display order.
var Types = []Type{TypeHands, TypeRoulette, TypeDraw, TypeDecide}

// Valid reports whether t is a known game type.
func (t Type) Valid() bool {
	switch t {
	case TypeHands, TypeRoulette, TypeDraw, TypeDecide:
		return true
	}
	return false
}

// Status is the lifecycle state of a session.
type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
)

var (
	ErrUnknownGame    = errors.New("unknown game type")
	ErrUnknownProfile = errors.New("unknown profile")
	ErrNotAllowed     = errors.New("action not allowed for this profile")
	ErrWrongStatus    = errors.New("action not allowed in the current session state")
	ErrWrongGame      = errors.New("action does not belong to this game")
)

// Session is the shared game document.
type Session struct {
	ID        string    `json:"id"`
	Type      Type      `json:"gameType"`
	Status    Status    `json:"status"`
	Initiator string    `json:"initiator"`
	CreatedAt time.Time `json:"createdAt"`

	Hands    HandsState    `json:"hands"`
	Roulette RouletteState `json:"roulette"`
	Draw     DrawState     `json:"draw"`
	Decide   DecideState   `json:"decide"`
}

// HandsState is the rock/paper/scissors payload.
type HandsState struct {
	// Choices holds each profile's pick for the current round; nil until
	// that profile picks.
	Pea *Hand `json:"peaChoice"`
	Cam *Hand `json:"camChoice"`

	Round    int `json:"round"`
	ScorePea int `json:"scorePea"`
	ScoreCam int `json:"scoreCam"`
}

// Choice returns the pick of the given profile.
func (h *HandsState) Choice(profileID string) *Hand {
	if profileID == models.Pea {
		return h.Pea
	}
	return h.Cam
}

func (h *HandsState) setChoice(profileID string, hand *Hand) {
	if profileID == models.Pea {
		h.Pea = hand
	} else {
		h.Cam = hand
	}
}

// BothPicked reports whether the round can be revealed.
func (h *HandsState) BothPicked() bool {
	return h.Pea != nil && h.Cam != nil
}

// RouletteState is the weighted-choice roulette payload.
type RouletteState struct {
	Options []string `json:"options"`
	Result  *string  `json:"result"`

	// SpinAt is the unix millisecond time of the last spin. Clients use a
	// change in this value to start their reveal animation.
	SpinAt int64 `json:"spinAt,omitempty"`
}

// DrawState is the numeric range draw payload.
type DrawState struct {
	Min    int   `json:"min"`
	Max    int   `json:"max"`
	Result *int  `json:"result"`
	RollAt int64 `json:"rollAt,omitempty"`
}

// DecideMode selects how the AI-assisted decision runs.
type DecideMode string

const (
	ModeThink  DecideMode = "think"
	ModeRandom DecideMode = "random"
)

// Turn roles in a decision transcript.
const (
	RoleAI   = "ai"
	RoleUser = "user"
)

// Turn is one message of the decision transcript.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// DecideState is the AI-assisted decision payload.
type DecideState struct {
	Question   string     `json:"question"`
	Options    []string   `json:"options"`
	Mode       DecideMode `json:"mode"`
	Transcript []Turn     `json:"transcript"`
	Loading    bool       `json:"loading"`
	Result     *string    `json:"result"`
}

// AITurns counts the AI messages in the transcript.
func (d *DecideState) AITurns() int {
	n := 0
	for _, t := range d.Transcript {
		if t.Role == RoleAI {
			n++
		}
	}
	return n
}

// Started reports whether the decision has left the setup phase.
func (d *DecideState) Started() bool {
	return d.Question != ""
}

// Done reports whether a final decision has been made.
func (d *DecideState) Done() bool {
	return d.Result != nil
}

// New creates a pending session of the given type with default payloads.
func New(t Type, initiator string, now time.Time) (*Session, error) {
	if !t.Valid() {
		return nil, ErrUnknownGame
	}
	if !models.IsProfileID(initiator) {
		return nil, ErrUnknownProfile
	}
	return &Session{
		ID:        SessionID,
		Type:      t,
		Status:    StatusPending,
		Initiator: initiator,
		CreatedAt: now,
		Hands:     HandsState{Round: 1},
		Roulette:  RouletteState{Options: []string{}},
		Draw:      DrawState{Min: 1, Max: 100},
		Decide:    DecideState{Options: []string{}, Mode: ModeThink, Transcript: []Turn{}},
	}, nil
}

// Join moves a pending session to active. Only the non-initiator may join.
func Join(s *Session, profileID string) error {
	if !models.IsProfileID(profileID) {
		return ErrUnknownProfile
	}
	if s.Status != StatusPending {
		return ErrWrongStatus
	}
	if profileID == s.Initiator {
		return ErrNotAllowed
	}
	s.Status = StatusActive
	return nil
}

// IsInviteFor reports whether s is a pending invitation addressed to
// profileID.
func (s *Session) IsInviteFor(profileID string) bool {
	return s != nil && s.Status == StatusPending && s.Initiator != profileID
}
