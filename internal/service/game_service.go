package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/moneymates/internal/coach"
	"github.com/mmynk/moneymates/internal/game"
	"github.com/mmynk/moneymates/internal/metrics"
	"github.com/mmynk/moneymates/internal/realtime"
	"github.com/mmynk/moneymates/internal/storage"
)

// GameService runs the shared game session. Every move is a game.Command
// applied inside a store transaction, so concurrent moves from both
// profiles serialize instead of overwriting each other.
type GameService struct {
	*core
	completer coach.Completer
}

// Current returns viewer's view of the session. With no session the view
// is empty.
func (s *GameService) Current(ctx context.Context, viewer string) (game.View, error) {
	sess, err := s.session(ctx)
	if err != nil {
		return game.View{}, err
	}
	return game.Derive(sess, viewer), nil
}

func (s *GameService) session(ctx context.Context) (*game.Session, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	sess, err := s.store.GetGameSession(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		slog.Error("GetGameSession failed", "error", err)
		return nil, fmt.Errorf("failed to load game session: %w", err)
	}
	return sess, nil
}

// Create starts a pending session of type t. Only one session can exist;
// a second create fails with storage.ErrAlreadyExists.
func (s *GameService) Create(ctx context.Context, actor string, t game.Type) (game.View, error) {
	slog.Info("CreateGame request received", "profile_id", actor, "game", t)

	sess, err := game.New(t, actor, s.now())
	if err != nil {
		return game.View{}, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.store.CreateGameSession(ctx, sess); err != nil {
		slog.Warn("CreateGame failed", "profile_id", actor, "error", err)
		return game.View{}, err
	}

	metrics.GameCommands.WithLabelValues(string(t), "create").Inc()
	s.feed.publish(ctx, realtime.TopicGame)
	return game.Derive(sess, actor), nil
}

// Join accepts the partner's invitation.
func (s *GameService) Join(ctx context.Context, actor string) (game.View, error) {
	slog.Info("JoinGame request received", "profile_id", actor)

	sess, err := s.update(ctx, "join", func(sess *game.Session) error {
		return game.Join(sess, actor)
	})
	if err != nil {
		return game.View{}, err
	}
	return game.Derive(sess, actor), nil
}

// Command decodes and applies a client command by name.
func (s *GameService) Command(ctx context.Context, actor, name string, args json.RawMessage) (game.View, error) {
	cmd, err := game.DecodeCommand(name, args)
	if err != nil {
		return game.View{}, err
	}
	sess, err := s.apply(ctx, actor, cmd)
	if err != nil {
		return game.View{}, err
	}
	return game.Derive(sess, actor), nil
}

// End deletes the session for both profiles.
func (s *GameService) End(ctx context.Context, actor string) error {
	slog.Info("EndGame request received", "profile_id", actor)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.store.DeleteGameSession(ctx); err != nil {
		slog.Error("EndGame failed", "error", err)
		return fmt.Errorf("failed to end game: %w", err)
	}
	s.feed.publish(ctx, realtime.TopicGame)
	return nil
}

// StartDecision begins a decision and waits for the first AI reply. When
// the completion fails the decision stays started with no reply and the
// error is returned.
func (s *GameService) StartDecision(ctx context.Context, actor string, start game.StartDecision) (game.View, error) {
	slog.Info("StartDecision request received", "profile_id", actor, "mode", start.Mode)

	sess, err := s.apply(ctx, actor, start)
	if err != nil {
		return game.View{}, err
	}
	return s.reply(ctx, actor, sess)
}

// Answer records the answer to the last AI question and waits for the next
// AI turn, which concludes the decision after game.MaxQuestions questions.
func (s *GameService) Answer(ctx context.Context, actor, text string) (game.View, error) {
	slog.Info("AnswerDecision request received", "profile_id", actor)

	sess, err := s.apply(ctx, actor, game.AnswerDecision{Text: text})
	if err != nil {
		return game.View{}, err
	}
	return s.reply(ctx, actor, sess)
}

// reply asks the completer for the next decision turn of sess and records
// the outcome. The session is written even if ctx is cancelled meanwhile,
// so it never stays loading.
func (s *GameService) reply(ctx context.Context, actor string, sess *game.Session) (game.View, error) {
	kind := sess.Decide.NextPrompt()
	prompt, system := game.BuildPrompt(kind, &sess.Decide)

	text, err := s.completer.Complete(ctx, coach.Request{Prompt: prompt, System: system})
	if errors.Is(err, coach.ErrEmptyCompletion) {
		// DecisionReply substitutes the fallback answer.
		text, err = "", nil
	}
	bg := context.WithoutCancel(ctx)
	if err != nil {
		slog.Warn("Decision completion failed", "prompt", kind, "error", err)
		if _, ferr := s.apply(bg, actor, game.DecisionFailed{}); ferr != nil {
			slog.Error("Clearing decision loading state failed", "error", ferr)
		}
		return game.View{}, err
	}

	sess, err = s.apply(bg, actor, game.DecisionReply{Text: text})
	if err != nil {
		return game.View{}, err
	}
	return game.Derive(sess, actor), nil
}

func (s *GameService) apply(ctx context.Context, actor string, cmd game.Command) (*game.Session, error) {
	return s.update(ctx, cmd.Name(), func(sess *game.Session) error {
		return game.Apply(sess, actor, cmd, *s.opts.GameEnv)
	})
}

func (s *GameService) update(ctx context.Context, name string, fn func(*game.Session) error) (*game.Session, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	sess, err := s.store.UpdateGameSession(ctx, fn)
	if err != nil {
		slog.Warn("Game command rejected", "command", name, "error", err)
		return nil, err
	}

	metrics.GameCommands.WithLabelValues(string(sess.Type), name).Inc()
	s.feed.publish(ctx, realtime.TopicGame)
	return sess, nil
}
