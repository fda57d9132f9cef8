package api

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/mmynk/moneymates/internal/game"
	"github.com/mmynk/moneymates/internal/middleware"
	"github.com/mmynk/moneymates/internal/realtime"
)

// parseTopics reads a comma-separated topic list. Empty means every topic.
func parseTopics(raw string) ([]realtime.Topic, error) {
	if raw == "" {
		return realtime.Topics, nil
	}
	var topics []realtime.Topic
	for _, name := range strings.Split(raw, ",") {
		t := realtime.Topic(strings.TrimSpace(name))
		if !slices.Contains(realtime.Topics, t) {
			return nil, fmt.Errorf("%w: unknown topic %q", errBadRequest, t)
		}
		topics = append(topics, t)
	}
	return topics, nil
}

// gameStream turns raw sessions into the viewer's game events.
type gameStream struct {
	viewer  string
	tracker *game.Tracker
}

func (g *gameStream) send(sse *realtime.SSEWriter, data any) error {
	sess, _ := data.(*game.Session)
	if err := sse.Send(string(realtime.TopicGame), game.Derive(sess, g.viewer)); err != nil {
		return err
	}
	if reveal := g.tracker.Observe(sess); reveal != nil {
		return sse.Send("reveal", reveal)
	}
	return nil
}

// handleStream serves the change stream via Server-Sent Events.
// GET /api/stream?topics=transactions,stats
//
// Each requested topic first gets its full current state, then the full
// new state after every change. Game sessions are sent as the viewer's
// derived view, followed by a reveal event when a spin, roll or hand
// reveal starts.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	topics, err := parseTopics(r.URL.Query().Get("topics"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	viewer := middleware.GetProfileID(r.Context())

	// Subscribe before loading the snapshot so no change falls in between.
	events, unsubscribe := s.hub.Subscribe(topics...)
	defer unsubscribe()

	sse, err := realtime.NewSSEWriter(w)
	if err != nil {
		writeError(w, r, err)
		return
	}
	games := &gameStream{viewer: viewer, tracker: game.NewTracker(rand.IntN)}

	send := func(topic realtime.Topic, data any) error {
		if topic == realtime.TopicGame {
			return games.send(sse, data)
		}
		return sse.Send(string(topic), data)
	}

	for _, topic := range topics {
		data, err := s.svc.Feed.Load(r.Context(), topic)
		if err != nil {
			slog.Warn("Stream snapshot failed", "topic", topic, "profile_id", viewer, "error", err)
			continue
		}
		if err := send(topic, data); err != nil {
			return
		}
	}

	ping := time.NewTicker(s.opts.PingInterval)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := send(ev.Topic, ev.Data); err != nil {
				return
			}
		case <-ping.C:
			if err := sse.Ping(); err != nil {
				return
			}
		}
	}
}
