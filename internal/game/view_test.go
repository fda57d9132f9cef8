package game

import (
	"testing"

	"github.com/mmynk/moneymates/internal/models"
)

func TestDeriveHidesPartnerHand(t *testing.T) {
	env := fixedEnv(0)
	s := activeSession(t, TypeHands)
	mustApply(t, s, models.Pea, &PickHand{Hand: Scissors}, env)

	camView := Derive(s, models.Cam)
	if !camView.PartnerPicked {
		t.Error("cam should see that pea picked")
	}
	if camView.PartnerChoice != nil || camView.Session.Hands.Pea != nil {
		t.Error("pea's hand leaked to cam before both picked")
	}
	if s.Hands.Pea == nil {
		t.Error("redaction must not modify the stored session")
	}

	mustApply(t, s, models.Cam, &PickHand{Hand: Rock}, env)
	peaView := Derive(s, models.Pea)
	camView = Derive(s, models.Cam)
	if peaView.Outcome != OutcomeB || camView.Outcome != OutcomeB {
		t.Errorf("outcomes = %s/%s, want b for both", peaView.Outcome, camView.Outcome)
	}
	if peaView.ViewerWon || !camView.ViewerWon {
		t.Errorf("viewerWon pea=%v cam=%v, want false/true", peaView.ViewerWon, camView.ViewerWon)
	}
	if *peaView.PartnerChoice != Rock {
		t.Errorf("pea sees partner choice %s, want rock", *peaView.PartnerChoice)
	}
}

func TestDeriveFlags(t *testing.T) {
	pending, _ := New(TypeRoulette, models.Pea, testNow)
	pending.Roulette.Options = []string{"a", "b"}
	if v := Derive(pending, models.Cam); !v.PendingInvite || v.CanSpin {
		t.Errorf("cam view of pending = %+v, want invite without spin", v)
	}

	s := activeSession(t, TypeDraw)
	if v := Derive(s, models.Pea); !v.CanRoll {
		t.Error("default range should be rollable")
	}
	s.Draw.Min, s.Draw.Max = 5, 5
	if v := Derive(s, models.Pea); v.CanRoll {
		t.Error("equal bounds should not be rollable")
	}

	if v := Derive(nil, models.Pea); v.Session != nil || v.PendingInvite {
		t.Errorf("nil session view = %+v, want empty", v)
	}
}
