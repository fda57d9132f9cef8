package api

import (
	"encoding/json"
	"net/http"

	"github.com/mmynk/moneymates/internal/game"
	"github.com/mmynk/moneymates/internal/middleware"
)

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Games.Current(r.Context(), middleware.GetProfileID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameType game.Type `json:"gameType"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	view, err := s.svc.Games.Create(r.Context(), middleware.GetProfileID(r.Context()), req.GameType)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Games.Join(r.Context(), middleware.GetProfileID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleEndGame(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Games.End(r.Context(), middleware.GetProfileID(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type commandRequest struct {
	Command string          `json:"command"`
	Args    json.RawMessage `json:"args"`
}

func (s *Server) handleGameCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	view, err := s.svc.Games.Command(r.Context(), middleware.GetProfileID(r.Context()), req.Command, req.Args)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleStartDecision(w http.ResponseWriter, r *http.Request) {
	var req game.StartDecision
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	view, err := s.svc.Games.StartDecision(r.Context(), middleware.GetProfileID(r.Context()), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAnswerDecision(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	view, err := s.svc.Games.Answer(r.Context(), middleware.GetProfileID(r.Context()), req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
