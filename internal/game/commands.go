package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/mmynk/moneymates/internal/models"
)

var (
	ErrAlreadyPicked      = errors.New("hand already picked this round")
	ErrEmptyOption        = errors.New("option can't be empty")
	ErrOptionIndex        = errors.New("option index out of range")
	ErrNotEnoughOptions   = errors.New("at least two options are required")
	ErrInvalidRange       = errors.New("min must be less than max")
	ErrRangeTooWide       = errors.New("range is too wide to draw from")
	ErrEmptyQuestion      = errors.New("question can't be empty")
	ErrInvalidMode        = errors.New("mode must be think or random")
	ErrDecisionStarted    = errors.New("decision already started")
	ErrNotAwaitingAnswer  = errors.New("decision is not waiting for an answer")
	ErrNotAwaitingReply   = errors.New("decision is not waiting for a reply")
	ErrEmptyAnswer        = errors.New("answer can't be empty")
	ErrUnknownCommand     = errors.New("unknown command")
	ErrMalformedArguments = errors.New("malformed command arguments")
)

// Env supplies the clock and randomness commands depend on.
type Env struct {
	Now  func() time.Time
	IntN func(n int) int
}

// DefaultEnv uses the wall clock and math/rand/v2.
func DefaultEnv() Env {
	return Env{Now: time.Now, IntN: rand.IntN}
}

// Command is a single game move. Commands validate fully before touching
// the session, so a rejected command leaves it unchanged.
type Command interface {
	Name() string
	Game() Type
	apply(s *Session, actor string, env Env) error
}

// setupCommand marks commands the initiator may issue while the session is
// still pending.
type setupCommand interface {
	setup()
}

// Apply runs cmd against s on behalf of actor.
//
// While a session is pending only its initiator may act, and only with
// setup commands. Once active either profile may issue any command of the
// session's game.
func Apply(s *Session, actor string, cmd Command, env Env) error {
	if !models.IsProfileID(actor) {
		return ErrUnknownProfile
	}
	if cmd.Game() != s.Type {
		return ErrWrongGame
	}
	if s.Status == StatusPending {
		if _, ok := cmd.(setupCommand); !ok {
			return ErrWrongStatus
		}
		if actor != s.Initiator {
			return ErrNotAllowed
		}
	}
	return cmd.apply(s, actor, env)
}

// ─── Hands ─────────────────────────────────────────────────────────────────

// PickHand records the actor's choice for the current round.
type PickHand struct {
	Hand Hand `json:"hand"`
}

func (PickHand) Name() string { return "pick_hand" }
func (PickHand) Game() Type   { return TypeHands }

func (c PickHand) apply(s *Session, actor string, _ Env) error {
	if !c.Hand.Valid() {
		return ErrInvalidHand
	}
	if s.Hands.Choice(actor) != nil {
		return ErrAlreadyPicked
	}
	hand := c.Hand
	s.Hands.setChoice(actor, &hand)
	return nil
}

// PlayAgain scores the revealed round and starts the next one. When the
// round was already advanced by the partner it does nothing, so two
// concurrent requests advance the round exactly once.
type PlayAgain struct{}

func (PlayAgain) Name() string { return "play_again" }
func (PlayAgain) Game() Type   { return TypeHands }

func (PlayAgain) apply(s *Session, _ string, _ Env) error {
	h := &s.Hands
	if !h.BothPicked() {
		return nil
	}
	switch Winner(*h.Pea, *h.Cam) {
	case OutcomeA:
		h.ScorePea++
	case OutcomeB:
		h.ScoreCam++
	}
	h.Pea, h.Cam = nil, nil
	h.Round++
	return nil
}

// ResetScore clears choices and scores back to round one.
type ResetScore struct{}

func (ResetScore) Name() string { return "reset_score" }
func (ResetScore) Game() Type   { return TypeHands }

func (ResetScore) apply(s *Session, _ string, _ Env) error {
	s.Hands = HandsState{Round: 1}
	return nil
}

// ─── Roulette ──────────────────────────────────────────────────────────────

// AddOption appends an option and clears any stale result.
type AddOption struct {
	Text string `json:"text"`
}

func (AddOption) Name() string { return "add_option" }
func (AddOption) Game() Type   { return TypeRoulette }
func (AddOption) setup()       {}

func (c AddOption) apply(s *Session, _ string, _ Env) error {
	text := strings.TrimSpace(c.Text)
	if text == "" {
		return ErrEmptyOption
	}
	s.Roulette.Options = append(s.Roulette.Options, text)
	s.Roulette.Result = nil
	return nil
}

// RemoveOption drops the option at Index and clears any stale result.
type RemoveOption struct {
	Index int `json:"index"`
}

func (RemoveOption) Name() string { return "remove_option" }
func (RemoveOption) Game() Type   { return TypeRoulette }
func (RemoveOption) setup()       {}

func (c RemoveOption) apply(s *Session, _ string, _ Env) error {
	if c.Index < 0 || c.Index >= len(s.Roulette.Options) {
		return ErrOptionIndex
	}
	s.Roulette.Options = slices.Delete(slices.Clone(s.Roulette.Options), c.Index, c.Index+1)
	s.Roulette.Result = nil
	return nil
}

// Spin picks the authoritative result uniformly from the options.
type Spin struct{}

func (Spin) Name() string { return "spin" }
func (Spin) Game() Type   { return TypeRoulette }

func (Spin) apply(s *Session, _ string, env Env) error {
	opts := s.Roulette.Options
	if len(opts) < 2 {
		return ErrNotEnoughOptions
	}
	result := opts[env.IntN(len(opts))]
	s.Roulette.Result = &result
	s.Roulette.SpinAt = env.Now().UnixMilli()
	return nil
}

// ─── Draw ──────────────────────────────────────────────────────────────────

// SetRange updates either bound; a nil bound is left as is.
type SetRange struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

func (SetRange) Name() string { return "set_range" }
func (SetRange) Game() Type   { return TypeDraw }
func (SetRange) setup()       {}

func (c SetRange) apply(s *Session, _ string, _ Env) error {
	if c.Min != nil {
		s.Draw.Min = *c.Min
	}
	if c.Max != nil {
		s.Draw.Max = *c.Max
	}
	return nil
}

// Roll draws the authoritative integer uniformly from [Min, Max].
type Roll struct{}

func (Roll) Name() string { return "roll" }
func (Roll) Game() Type   { return TypeDraw }

func (Roll) apply(s *Session, _ string, env Env) error {
	lo, hi := s.Draw.Min, s.Draw.Max
	if lo >= hi {
		return ErrInvalidRange
	}
	span := hi - lo + 1
	if span <= 0 {
		// hi - lo overflowed int.
		return ErrRangeTooWide
	}
	result := lo + env.IntN(span)
	s.Draw.Result = &result
	s.Draw.RollAt = env.Now().UnixMilli()
	return nil
}

// ─── Decide ────────────────────────────────────────────────────────────────

// StartDecision leaves the setup phase and marks the session as waiting for
// the first AI reply.
type StartDecision struct {
	Question string     `json:"question"`
	Options  []string   `json:"options"`
	Mode     DecideMode `json:"mode"`
}

func (StartDecision) Name() string { return "start_decision" }
func (StartDecision) Game() Type   { return TypeDecide }

func (c StartDecision) apply(s *Session, _ string, _ Env) error {
	d := &s.Decide
	if d.Started() {
		return ErrDecisionStarted
	}
	question := strings.TrimSpace(c.Question)
	if question == "" {
		return ErrEmptyQuestion
	}
	mode := c.Mode
	if mode == "" {
		mode = ModeThink
	}
	if mode != ModeThink && mode != ModeRandom {
		return ErrInvalidMode
	}
	options := make([]string, 0, len(c.Options))
	for _, o := range c.Options {
		o = strings.TrimSpace(o)
		if o != "" && !slices.Contains(options, o) {
			options = append(options, o)
		}
	}
	if len(options) < 2 {
		return ErrNotEnoughOptions
	}

	*d = DecideState{
		Question:   question,
		Options:    options,
		Mode:       mode,
		Transcript: []Turn{},
		Loading:    true,
	}
	return nil
}

// AnswerDecision appends the user's answer to the last AI question.
type AnswerDecision struct {
	Text string `json:"text"`
}

func (AnswerDecision) Name() string { return "answer_decision" }
func (AnswerDecision) Game() Type   { return TypeDecide }

func (c AnswerDecision) apply(s *Session, _ string, _ Env) error {
	d := &s.Decide
	if !d.AwaitingAnswer() {
		return ErrNotAwaitingAnswer
	}
	text := strings.TrimSpace(c.Text)
	if text == "" {
		return ErrEmptyAnswer
	}
	d.Transcript = append(slices.Clone(d.Transcript), Turn{Role: RoleUser, Text: text})
	d.Loading = true
	return nil
}

// DecisionReply records an AI reply. The reply is final in random mode and
// after MaxQuestions narrowing questions in think mode.
type DecisionReply struct {
	Text string `json:"text"`
}

func (DecisionReply) Name() string { return "decision_reply" }
func (DecisionReply) Game() Type   { return TypeDecide }

func (c DecisionReply) apply(s *Session, _ string, _ Env) error {
	d := &s.Decide
	if !d.Loading {
		return ErrNotAwaitingReply
	}
	text := strings.TrimSpace(c.Text)
	if text == "" {
		text = FallbackDecision
	}
	final := d.NextPrompt() != PromptQuestion
	d.Transcript = append(slices.Clone(d.Transcript), Turn{Role: RoleAI, Text: text})
	d.Loading = false
	if final {
		d.Result = &text
	}
	return nil
}

// DecisionFailed clears the loading flag after a failed AI call.
type DecisionFailed struct{}

func (DecisionFailed) Name() string { return "decision_failed" }
func (DecisionFailed) Game() Type   { return TypeDecide }

func (DecisionFailed) apply(s *Session, _ string, _ Env) error {
	s.Decide.Loading = false
	return nil
}

// ResetDecision returns the decision game to its setup phase.
type ResetDecision struct{}

func (ResetDecision) Name() string { return "reset_decision" }
func (ResetDecision) Game() Type   { return TypeDecide }

func (ResetDecision) apply(s *Session, _ string, _ Env) error {
	s.Decide = DecideState{Options: []string{}, Mode: ModeThink, Transcript: []Turn{}}
	return nil
}

// ─── Decoding ──────────────────────────────────────────────────────────────

// clientCommands are the commands clients may send directly. Decision
// start, answers and AI replies go through the service, which talks to the
// text-completion backend.
var clientCommands = map[string]func() Command{
	PickHand{}.Name():      func() Command { return &PickHand{} },
	PlayAgain{}.Name():     func() Command { return &PlayAgain{} },
	ResetScore{}.Name():    func() Command { return &ResetScore{} },
	AddOption{}.Name():     func() Command { return &AddOption{} },
	RemoveOption{}.Name():  func() Command { return &RemoveOption{} },
	Spin{}.Name():          func() Command { return &Spin{} },
	SetRange{}.Name():      func() Command { return &SetRange{} },
	Roll{}.Name():          func() Command { return &Roll{} },
	ResetDecision{}.Name(): func() Command { return &ResetDecision{} },
}

// DecodeCommand builds a client command from its name and JSON arguments.
func DecodeCommand(name string, args json.RawMessage) (Command, error) {
	factory, ok := clientCommands[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	cmd := factory()
	if len(args) > 0 && string(args) != "null" {
		if err := json.Unmarshal(args, cmd); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedArguments, err)
		}
	}
	return cmd, nil
}
