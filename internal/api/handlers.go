package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/moneymates/internal/coach"
	"github.com/mmynk/moneymates/internal/middleware"
	"github.com/mmynk/moneymates/internal/models"
	"github.com/mmynk/moneymates/internal/service"
)

// profileResponse exposes whether a PIN is set without the hash.
type profileResponse struct {
	models.Profile
	HasPIN bool `json:"hasPin"`
}

func toProfileResponse(p *models.Profile) profileResponse {
	return profileResponse{Profile: *p, HasPIN: p.HasPIN()}
}

// ─── Profiles ──────────────────────────────────────────────────────────────

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.svc.Profiles.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := make([]profileResponse, 0, len(profiles))
	for i := range profiles {
		resp = append(resp, toProfileResponse(&profiles[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

type loginRequest struct {
	ProfileID string `json:"profileId"`
	PIN       string `json:"pin"`
}

type loginResponse struct {
	Profile   profileResponse `json:"profile"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.svc.Profiles.Login(r.Context(), req.ProfileID, req.PIN)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		Profile:   toProfileResponse(res.Profile),
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Profiles.Get(r.Context(), middleware.GetProfileID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(p))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var upd service.ProfileUpdate
	if err := decode(r, &upd); err != nil {
		writeError(w, r, err)
		return
	}
	actor := middleware.GetProfileID(r.Context())
	p, err := s.svc.Profiles.Update(r.Context(), actor, chi.URLParam(r, "id"), upd)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(p))
}

func (s *Server) handleSetPIN(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PIN string `json:"pin"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.svc.Profiles.SetPIN(r.Context(), middleware.GetProfileID(r.Context()), req.PIN)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(p))
}

// ─── Ledger ────────────────────────────────────────────────────────────────

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.svc.Ledger.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(txs))
}

type addTransactionResponse struct {
	Transaction *models.Transaction `json:"transaction"`
	GoalError   string              `json:"goalError,omitempty"`
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var in models.NewTransaction
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.svc.Ledger.Add(r.Context(), middleware.GetProfileID(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := addTransactionResponse{Transaction: res.Transaction}
	if res.GoalErr != nil {
		resp.GoalError = res.GoalErr.Error()
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetProfileID(r.Context())
	if err := s.svc.Ledger.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.Ledger.Summary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	months, err := s.svc.Ledger.Monthly(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(months))
}

// ─── Goals ─────────────────────────────────────────────────────────────────

type amountRequest struct {
	Amount string `json:"amount"`
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.svc.Goals.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(goals))
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var in models.NewGoal
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	g, err := s.svc.Goals.Create(r.Context(), middleware.GetProfileID(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleSetGoalAmount(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	g, err := s.svc.Goals.SetAmount(r.Context(), chi.URLParam(r, "id"), req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleContributeGoal(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	g, err := s.svc.Goals.Contribute(r.Context(), chi.URLParam(r, "id"), req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Goals.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Target and periods ────────────────────────────────────────────────────

func (s *Server) handleGetTarget(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Targets.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleSetTarget(w http.ResponseWriter, r *http.Request) {
	var in service.TargetInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := s.svc.Targets.Set(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleSetTargetActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsActive bool `json:"isActive"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := s.svc.Targets.SetActive(r.Context(), req.IsActive)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Targets.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleListPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := s.svc.Targets.Periods(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(periods))
}

func (s *Server) handleTotalOwed(w http.ResponseWriter, r *http.Request) {
	owed, err := s.svc.Targets.TotalOwed(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, owed)
}

func (s *Server) handleClosePeriod(w http.ResponseWriter, r *http.Request) {
	period, err := s.svc.Targets.ClosePeriod(r.Context(), middleware.GetProfileID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, period)
}

func (s *Server) handleRepay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProfileID string `json:"profileId"`
		Amount    string `json:"amount"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.ProfileID == "" {
		req.ProfileID = middleware.GetProfileID(r.Context())
	}
	period, err := s.svc.Targets.Repay(r.Context(), chi.URLParam(r, "id"), req.ProfileID, req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, period)
}

// ─── Coach ─────────────────────────────────────────────────────────────────

type chatRequest struct {
	History []coach.Message `json:"history"`
	Message string          `json:"message"`
}

func (s *Server) handleCoachChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	reply, err := s.svc.Coach.Chat(r.Context(), middleware.GetProfileID(r.Context()), req.History, req.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

// nonNil renders empty collections as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
