package game

import "github.com/mmynk/moneymates/internal/models"

// View is the state one profile derives from the shared session. Both
// clients compute it independently from the same document.
type View struct {
	Session *Session `json:"session"`
	Viewer  string   `json:"viewer"`

	// PendingInvite is set when the partner started a session and is
	// waiting for the viewer to join.
	PendingInvite bool `json:"pendingInvite"`

	// Hands: the partner's pick stays hidden until both have picked.
	MyChoice      *Hand   `json:"myChoice,omitempty"`
	PartnerChoice *Hand   `json:"partnerChoice,omitempty"`
	PartnerPicked bool    `json:"partnerPicked"`
	Outcome       Outcome `json:"outcome,omitempty"`
	ViewerWon     bool    `json:"viewerWon"`

	CanSpin bool `json:"canSpin"`
	CanRoll bool `json:"canRoll"`

	AwaitingAnswer bool `json:"awaitingAnswer"`
	QuestionsAsked int  `json:"questionsAsked"`
}

// Derive computes the viewer's view of s. A nil session yields an empty
// view.
func Derive(s *Session, viewer string) View {
	v := View{Session: Redacted(s, viewer), Viewer: viewer}
	if s == nil {
		return v
	}
	v.PendingInvite = s.IsInviteFor(viewer)

	switch s.Type {
	case TypeHands:
		partner := models.Partner(viewer)
		v.MyChoice = s.Hands.Choice(viewer)
		v.PartnerPicked = s.Hands.Choice(partner) != nil
		if s.Hands.BothPicked() {
			v.PartnerChoice = s.Hands.Choice(partner)
			v.Outcome = Winner(*s.Hands.Pea, *s.Hands.Cam)
			v.ViewerWon = (v.Outcome == OutcomeA && viewer == models.Pea) ||
				(v.Outcome == OutcomeB && viewer == models.Cam)
		}
	case TypeRoulette:
		v.CanSpin = s.Status == StatusActive && len(s.Roulette.Options) >= 2
	case TypeDraw:
		v.CanRoll = s.Status == StatusActive && s.Draw.Min < s.Draw.Max
	case TypeDecide:
		v.AwaitingAnswer = s.Decide.AwaitingAnswer()
		v.QuestionsAsked = s.Decide.AITurns()
	}
	return v
}

// Redacted returns a copy of s safe to send to viewer: the partner's hand
// is removed until both hands are in.
func Redacted(s *Session, viewer string) *Session {
	if s == nil {
		return nil
	}
	c := *s
	if c.Type == TypeHands && !c.Hands.BothPicked() {
		if viewer == models.Pea {
			c.Hands.Cam = nil
		} else {
			c.Hands.Pea = nil
		}
	}
	return &c
}
