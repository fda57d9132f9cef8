package game

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/mmynk/moneymates/internal/models"
)

func startedDecision(t *testing.T, mode DecideMode) *Session {
	t.Helper()
	s := activeSession(t, TypeDecide)
	mustApply(t, s, models.Pea, &StartDecision{
		Question: " Where should we eat? ",
		Options:  []string{"Ramen", " Tacos", "Ramen", ""},
		Mode:     mode,
	}, fixedEnv(0))
	return s
}

func TestStartDecision(t *testing.T) {
	s := startedDecision(t, ModeThink)
	d := s.Decide
	if d.Question != "Where should we eat?" {
		t.Errorf("question = %q, want trimmed question", d.Question)
	}
	if want := []string{"Ramen", "Tacos"}; !slices.Equal(d.Options, want) {
		t.Errorf("options = %v, want %v", d.Options, want)
	}
	if !d.Loading {
		t.Error("expected loading after start")
	}
	if err := Apply(s, models.Cam, &StartDecision{Question: "Again?", Options: []string{"a", "b"}}, fixedEnv(0)); !errors.Is(err, ErrDecisionStarted) {
		t.Errorf("restart error = %v, want ErrDecisionStarted", err)
	}
}

func TestStartDecisionValidation(t *testing.T) {
	tests := []struct {
		name    string
		cmd     StartDecision
		wantErr error
	}{
		{name: "empty question", cmd: StartDecision{Question: " ", Options: []string{"a", "b"}}, wantErr: ErrEmptyQuestion},
		{name: "one distinct option", cmd: StartDecision{Question: "q", Options: []string{"a", "a"}}, wantErr: ErrNotEnoughOptions},
		{name: "bad mode", cmd: StartDecision{Question: "q", Options: []string{"a", "b"}, Mode: "vibes"}, wantErr: ErrInvalidMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := activeSession(t, TypeDecide)
			cmd := tt.cmd
			if err := Apply(s, models.Pea, &cmd, fixedEnv(0)); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if s.Decide.Started() {
				t.Error("rejected start should leave the setup phase intact")
			}
		})
	}
}

func TestThinkModeConcludesAfterThreeQuestions(t *testing.T) {
	env := fixedEnv(0)
	s := startedDecision(t, ModeThink)

	for i := 0; i < MaxQuestions; i++ {
		if kind := s.Decide.NextPrompt(); kind != PromptQuestion {
			t.Fatalf("turn %d prompt = %s, want think_question", i, kind)
		}
		mustApply(t, s, models.Pea, &DecisionReply{Text: "Hungry?"}, env)
		if s.Decide.Done() {
			t.Fatalf("decision finished after %d questions", i+1)
		}
		if !s.Decide.AwaitingAnswer() {
			t.Fatalf("turn %d should await an answer", i)
		}
		mustApply(t, s, models.Cam, &AnswerDecision{Text: "Very"}, env)
	}

	if kind := s.Decide.NextPrompt(); kind != PromptConclude {
		t.Fatalf("prompt = %s, want think_conclude", kind)
	}
	mustApply(t, s, models.Pea, &DecisionReply{Text: "Ramen, obviously."}, env)
	if !s.Decide.Done() || *s.Decide.Result != "Ramen, obviously." {
		t.Errorf("result = %v, want the fourth AI turn", s.Decide.Result)
	}
	if got := s.Decide.AITurns(); got != MaxQuestions+1 {
		t.Errorf("AI turns = %d, want %d", got, MaxQuestions+1)
	}
	if s.Decide.AwaitingAnswer() {
		t.Error("a finished decision should not await an answer")
	}
}

func TestRandomModeFirstReplyIsFinal(t *testing.T) {
	s := startedDecision(t, ModeRandom)
	if kind := s.Decide.NextPrompt(); kind != PromptRandom {
		t.Fatalf("prompt = %s, want random", kind)
	}
	mustApply(t, s, models.Cam, &DecisionReply{Text: ""}, fixedEnv(0))
	if !s.Decide.Done() || *s.Decide.Result != FallbackDecision {
		t.Errorf("result = %v, want fallback", s.Decide.Result)
	}
}

func TestDecisionTurnOrder(t *testing.T) {
	env := fixedEnv(0)
	s := startedDecision(t, ModeThink)

	if err := Apply(s, models.Pea, &AnswerDecision{Text: "early"}, env); !errors.Is(err, ErrNotAwaitingAnswer) {
		t.Errorf("answer while loading error = %v, want ErrNotAwaitingAnswer", err)
	}
	mustApply(t, s, models.Pea, &DecisionReply{Text: "Budget?"}, env)
	if err := Apply(s, models.Pea, &DecisionReply{Text: "dup"}, env); !errors.Is(err, ErrNotAwaitingReply) {
		t.Errorf("duplicate reply error = %v, want ErrNotAwaitingReply", err)
	}
	if err := Apply(s, models.Pea, &AnswerDecision{Text: "  "}, env); !errors.Is(err, ErrEmptyAnswer) {
		t.Errorf("blank answer error = %v, want ErrEmptyAnswer", err)
	}
}

func TestDecisionFailedAndReset(t *testing.T) {
	env := fixedEnv(0)
	s := startedDecision(t, ModeThink)
	mustApply(t, s, models.Pea, &DecisionFailed{}, env)
	if s.Decide.Loading {
		t.Error("failure should clear loading")
	}
	mustApply(t, s, models.Cam, &ResetDecision{}, env)
	if s.Decide.Started() || s.Decide.Mode != ModeThink {
		t.Errorf("decide = %+v, want setup phase", s.Decide)
	}
}

func TestBuildPrompt(t *testing.T) {
	d := &DecideState{
		Question: "Movie tonight?",
		Options:  []string{"Yes", "No"},
		Mode:     ModeThink,
		Transcript: []Turn{
			{Role: RoleAI, Text: "Tired?"},
			{Role: RoleUser, Text: "A bit"},
		},
	}

	prompt, system := BuildPrompt(PromptQuestion, d)
	if !strings.Contains(prompt, "Choices: Yes, No") || !strings.Contains(prompt, "You: Tired?\nUser: A bit") {
		t.Errorf("question prompt missing context:\n%s", prompt)
	}
	if system != thinkSystemPrompt {
		t.Errorf("system = %q, want think prompt", system)
	}

	prompt, _ = BuildPrompt(PromptConclude, d)
	if !strings.Contains(prompt, "final answer") || !strings.Contains(prompt, "User: A bit") {
		t.Errorf("conclude prompt missing transcript:\n%s", prompt)
	}

	prompt, system = BuildPrompt(PromptRandom, d)
	if strings.Contains(prompt, "Tired?") || system != randomSystemPrompt {
		t.Errorf("random prompt should not include the transcript:\n%s", prompt)
	}
}
