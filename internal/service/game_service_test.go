package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/mmynk/moneymates/internal/coach"
	"github.com/mmynk/moneymates/internal/game"
	"github.com/mmynk/moneymates/internal/models"
	"github.com/mmynk/moneymates/internal/storage"
)

// startGame creates a session of type t by pea and joins it as cam.
func startGame(t *testing.T, env *testEnv, typ game.Type) {
	t.Helper()
	ctx := context.Background()
	if _, err := env.Games.Create(ctx, models.Pea, typ); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := env.Games.Join(ctx, models.Cam); err != nil {
		t.Fatalf("Join failed: %v", err)
	}
}

func TestGameService_Lifecycle(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()

	view, err := env.Games.Current(ctx, models.Cam)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if view.Session != nil {
		t.Fatalf("Current on empty store = %+v, want no session", view.Session)
	}

	if _, err := env.Games.Create(ctx, models.Pea, "chess"); !errors.Is(err, game.ErrUnknownGame) {
		t.Errorf("Create unknown game error = %v, want ErrUnknownGame", err)
	}
	if _, err := env.Games.Create(ctx, models.Pea, game.TypeRoulette); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := env.Games.Create(ctx, models.Cam, game.TypeHands); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Errorf("second Create error = %v, want ErrAlreadyExists", err)
	}

	view, err = env.Games.Current(ctx, models.Cam)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if !view.PendingInvite {
		t.Error("cam should see a pending invite")
	}

	if _, err := env.Games.Join(ctx, models.Pea); !errors.Is(err, game.ErrNotAllowed) {
		t.Errorf("Join by initiator error = %v, want ErrNotAllowed", err)
	}
	if _, err := env.Games.Command(ctx, models.Pea, "add_option", json.RawMessage(`{"text":"pizza"}`)); err != nil {
		t.Fatalf("setup command while pending failed: %v", err)
	}
	if _, err := env.Games.Command(ctx, models.Pea, "spin", nil); !errors.Is(err, game.ErrWrongStatus) {
		t.Errorf("spin while pending error = %v, want ErrWrongStatus", err)
	}

	view, err = env.Games.Join(ctx, models.Cam)
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if view.Session.Status != game.StatusActive {
		t.Errorf("status = %s, want active", view.Session.Status)
	}

	if err := env.Games.End(ctx, models.Cam); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if err := env.Games.End(ctx, models.Cam); err != nil {
		t.Errorf("End without session failed: %v", err)
	}
	if _, err := env.Games.Create(ctx, models.Cam, game.TypeDraw); err != nil {
		t.Errorf("Create after End failed: %v", err)
	}
}

func TestGameService_Commands(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()
	startGame(t, env, game.TypeRoulette)

	for _, text := range []string{"pizza", "ramen", "tacos"} {
		args, _ := json.Marshal(game.AddOption{Text: text})
		if _, err := env.Games.Command(ctx, models.Cam, "add_option", args); err != nil {
			t.Fatalf("add_option failed: %v", err)
		}
	}

	view, err := env.Games.Command(ctx, models.Pea, "spin", nil)
	if err != nil {
		t.Fatalf("spin failed: %v", err)
	}
	if got := view.Session.Roulette.Result; got == nil || *got != "pizza" {
		t.Errorf("spin result = %v, want pizza", got)
	}
	if view.Session.Roulette.SpinAt != testNow.UnixMilli() {
		t.Errorf("spinAt = %d, want %d", view.Session.Roulette.SpinAt, testNow.UnixMilli())
	}

	if _, err := env.Games.Command(ctx, models.Pea, "roll", nil); !errors.Is(err, game.ErrWrongGame) {
		t.Errorf("roll in roulette error = %v, want ErrWrongGame", err)
	}
	if _, err := env.Games.Command(ctx, models.Pea, "decision_reply", json.RawMessage(`{"text":"x"}`)); !errors.Is(err, game.ErrUnknownCommand) {
		t.Errorf("decision_reply from client error = %v, want ErrUnknownCommand", err)
	}
	if _, err := env.Games.Command(ctx, models.Pea, "remove_option", json.RawMessage(`{"index":"x"}`)); !errors.Is(err, game.ErrMalformedArguments) {
		t.Errorf("malformed args error = %v, want ErrMalformedArguments", err)
	}
}

func TestGameService_HandsRoundAdvancesOnce(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()
	startGame(t, env, game.TypeHands)

	if _, err := env.Games.Command(ctx, models.Pea, "pick_hand", json.RawMessage(`{"hand":"rock"}`)); err != nil {
		t.Fatalf("pick_hand failed: %v", err)
	}
	view, err := env.Games.Current(ctx, models.Cam)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if !view.PartnerPicked || view.Session.Hands.Pea != nil {
		t.Errorf("cam view before reveal = %+v, want partner picked and hand hidden", view)
	}
	if _, err := env.Games.Command(ctx, models.Cam, "pick_hand", json.RawMessage(`{"hand":"scissors"}`)); err != nil {
		t.Fatalf("pick_hand failed: %v", err)
	}

	var wg sync.WaitGroup
	for _, p := range models.ProfileIDs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := env.Games.Command(ctx, p, "play_again", nil); err != nil {
				t.Errorf("play_again failed: %v", err)
			}
		}()
	}
	wg.Wait()

	view, err = env.Games.Current(ctx, models.Pea)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	h := view.Session.Hands
	if h.Round != 2 || h.ScorePea != 1 || h.ScoreCam != 0 {
		t.Errorf("after concurrent play_again round=%d score=%d-%d, want round 2 score 1-0", h.Round, h.ScorePea, h.ScoreCam)
	}
}

func TestGameService_DecisionThinkMode(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()
	startGame(t, env, game.TypeDecide)

	env.completer.reply = func(req coach.Request) (string, error) {
		if strings.Contains(req.Prompt, "Ask ONE short question") {
			return "Hungry or just bored?", nil
		}
		return "Ramen, obviously.", nil
	}

	view, err := env.Games.StartDecision(ctx, models.Pea, game.StartDecision{
		Question: "What's for dinner?",
		Options:  []string{"ramen", "pizza"},
	})
	if err != nil {
		t.Fatalf("StartDecision failed: %v", err)
	}
	if !view.AwaitingAnswer || view.Session.Decide.Loading {
		t.Fatalf("after start view = %+v, want awaiting an answer", view)
	}

	for i := range game.MaxQuestions {
		view, err = env.Games.Answer(ctx, models.Cam, "hungry")
		if err != nil {
			t.Fatalf("Answer %d failed: %v", i+1, err)
		}
	}

	d := view.Session.Decide
	if d.Result == nil || *d.Result != "Ramen, obviously." {
		t.Fatalf("result = %v, want the concluding reply", d.Result)
	}
	if got := d.AITurns(); got != game.MaxQuestions+1 {
		t.Errorf("AI turns = %d, want %d", got, game.MaxQuestions+1)
	}
	if !strings.Contains(env.completer.last().Prompt, "User: hungry") {
		t.Errorf("concluding prompt misses the transcript: %q", env.completer.last().Prompt)
	}
	if _, err := env.Games.Answer(ctx, models.Cam, "more"); !errors.Is(err, game.ErrNotAwaitingAnswer) {
		t.Errorf("Answer after result error = %v, want ErrNotAwaitingAnswer", err)
	}
}

func TestGameService_DecisionRandomMode(t *testing.T) {
	tests := []struct {
		name  string
		reply func(coach.Request) (string, error)
	}{
		{name: "blank reply", reply: func(coach.Request) (string, error) { return "   ", nil }},
		{name: "empty completion", reply: func(coach.Request) (string, error) { return "", coach.ErrEmptyCompletion }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestServices(t)
			ctx := context.Background()
			startGame(t, env, game.TypeDecide)
			env.completer.reply = tt.reply

			view, err := env.Games.StartDecision(ctx, models.Cam, game.StartDecision{
				Question: "Movie tonight?",
				Options:  []string{"yes", "no"},
				Mode:     game.ModeRandom,
			})
			if err != nil {
				t.Fatalf("StartDecision failed: %v", err)
			}
			if r := view.Session.Decide.Result; r == nil || *r != game.FallbackDecision {
				t.Errorf("result = %v, want the fallback decision", r)
			}
		})
	}
}

func TestGameService_DecisionCompletionFails(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()
	startGame(t, env, game.TypeDecide)

	env.completer.reply = func(coach.Request) (string, error) { return "", coach.ErrMissingAPIKey }

	_, err := env.Games.StartDecision(ctx, models.Pea, game.StartDecision{
		Question: "Gym or nap?",
		Options:  []string{"gym", "nap"},
	})
	if !errors.Is(err, coach.ErrMissingAPIKey) {
		t.Fatalf("StartDecision error = %v, want ErrMissingAPIKey", err)
	}

	view, err := env.Games.Current(ctx, models.Pea)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	d := view.Session.Decide
	if d.Loading || !d.Started() || len(d.Transcript) != 0 {
		t.Errorf("after failure decide = %+v, want started, not loading, no transcript", d)
	}

	if _, err := env.Games.Command(ctx, models.Pea, "reset_decision", nil); err != nil {
		t.Fatalf("reset_decision failed: %v", err)
	}
	env.completer.reply = nil
	if _, err := env.Games.StartDecision(ctx, models.Pea, game.StartDecision{
		Question: "Gym or nap?",
		Options:  []string{"gym", "nap"},
	}); err != nil {
		t.Errorf("StartDecision after reset failed: %v", err)
	}
}
