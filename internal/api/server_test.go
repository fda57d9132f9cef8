package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mmynk/moneymates/internal/auth"
	"github.com/mmynk/moneymates/internal/coach"
	"github.com/mmynk/moneymates/internal/game"
	"github.com/mmynk/moneymates/internal/models"
	"github.com/mmynk/moneymates/internal/realtime"
	"github.com/mmynk/moneymates/internal/service"
	"github.com/mmynk/moneymates/internal/storage"
	"github.com/mmynk/moneymates/internal/storage/sqldb"
)

// setupTestServer starts the API over a temp SQLite database. The coach
// has no API key.
func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqldb.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	hub := realtime.NewHub()
	jwtManager := auth.NewJWTManager("test-secret", 0)
	svc := service.New(store, auth.NewPinAuthenticator(store), jwtManager, coach.Unavailable{}, service.Options{Hub: hub})

	ts := httptest.NewServer(NewServer(svc, jwtManager, hub, Options{Metrics: true}).Handler())
	t.Cleanup(ts.Close)
	return ts
}

// call sends a JSON request and decodes the JSON response into out when
// out is non-nil. It returns the status code.
func call(t *testing.T, ts *httptest.Server, method, path, token string, body, out any) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: failed to decode response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func login(t *testing.T, ts *httptest.Server, profileID string) string {
	t.Helper()
	var resp loginResponse
	if status := call(t, ts, http.MethodPost, "/api/login", "", loginRequest{ProfileID: profileID}, &resp); status != http.StatusOK {
		t.Fatalf("login as %s status = %d", profileID, status)
	}
	return resp.Token
}

func TestProfilesAndLogin(t *testing.T) {
	ts := setupTestServer(t)

	var profiles []profileResponse
	if status := call(t, ts, http.MethodGet, "/api/profiles", "", nil, &profiles); status != http.StatusOK {
		t.Fatalf("list profiles status = %d", status)
	}
	if len(profiles) != 2 || profiles[0].HasPIN {
		t.Fatalf("profiles = %+v, want two without PIN", profiles)
	}

	if status := call(t, ts, http.MethodGet, "/api/me", "", nil, nil); status != http.StatusUnauthorized {
		t.Errorf("unauthenticated /api/me status = %d, want 401", status)
	}

	token := login(t, ts, models.Pea)
	var me profileResponse
	if status := call(t, ts, http.MethodGet, "/api/me", token, nil, &me); status != http.StatusOK {
		t.Fatalf("/api/me status = %d", status)
	}
	if me.ID != models.Pea {
		t.Errorf("me = %q, want pea", me.ID)
	}

	if status := call(t, ts, http.MethodPut, "/api/me/pin", token, map[string]string{"pin": "4321"}, nil); status != http.StatusOK {
		t.Fatalf("set PIN status = %d", status)
	}
	if status := call(t, ts, http.MethodPost, "/api/login", "", loginRequest{ProfileID: models.Pea, PIN: "1111"}, nil); status != http.StatusUnauthorized {
		t.Errorf("login with wrong PIN status = %d, want 401", status)
	}
	if status := call(t, ts, http.MethodPost, "/api/login", "", loginRequest{ProfileID: "bob"}, nil); status != http.StatusNotFound {
		t.Errorf("login as unknown profile status = %d, want 404", status)
	}

	name := "Cam"
	if status := call(t, ts, http.MethodPatch, "/api/profiles/cam", token, service.ProfileUpdate{Name: &name}, nil); status != http.StatusForbidden {
		t.Errorf("editing partner profile status = %d, want 403", status)
	}
}

func TestLedgerEndpoints(t *testing.T) {
	ts := setupTestServer(t)
	pea := login(t, ts, models.Pea)
	cam := login(t, ts, models.Cam)

	var errResp map[string]string
	if status := call(t, ts, http.MethodPost, "/api/transactions", pea, models.NewTransaction{Amount: "-1"}, &errResp); status != http.StatusBadRequest {
		t.Errorf("negative amount status = %d, want 400", status)
	}
	if errResp["error"] == "" {
		t.Error("error response has no message")
	}

	var added addTransactionResponse
	if status := call(t, ts, http.MethodPost, "/api/transactions", pea, models.NewTransaction{Amount: "500", Date: "2026-02-03"}, &added); status != http.StatusCreated {
		t.Fatalf("add transaction status = %d", status)
	}
	if added.Transaction.Period != "Feb 1-15, 2026" {
		t.Errorf("period = %q", added.Transaction.Period)
	}

	if status := call(t, ts, http.MethodPost, "/api/transactions", cam, models.NewTransaction{Amount: "20", GoalID: "missing"}, &added); status != http.StatusCreated {
		t.Fatalf("add transaction with missing goal status = %d", status)
	}
	if added.GoalError == "" {
		t.Error("missing goal should be reported in goalError")
	}

	var txs []models.Transaction
	if status := call(t, ts, http.MethodGet, "/api/transactions", cam, nil, &txs); status != http.StatusOK {
		t.Fatalf("list transactions status = %d", status)
	}
	if len(txs) != 2 {
		t.Errorf("got %d transactions, want 2", len(txs))
	}

	for _, tx := range txs {
		if tx.ProfileID != models.Pea {
			continue
		}
		if status := call(t, ts, http.MethodDelete, "/api/transactions/"+tx.ID, cam, nil, nil); status != http.StatusForbidden {
			t.Errorf("deleting partner transaction status = %d, want 403", status)
		}
	}

	var summary service.Summary
	if status := call(t, ts, http.MethodGet, "/api/summary", pea, nil, &summary); status != http.StatusOK {
		t.Fatalf("summary status = %d", status)
	}
	if summary.Combined.String() != "520" {
		t.Errorf("combined = %s, want 520", summary.Combined)
	}
}

func TestTargetEndpoints(t *testing.T) {
	ts := setupTestServer(t)
	token := login(t, ts, models.Cam)

	if status := call(t, ts, http.MethodPost, "/api/periods/close", token, nil, nil); status != http.StatusConflict {
		t.Errorf("close without target status = %d, want 409", status)
	}

	bad := [2]int{31, 0}
	if status := call(t, ts, http.MethodPut, "/api/target", token, service.TargetInput{TargetAmount: "1000", CutoffDays: &bad}, nil); status != http.StatusBadRequest {
		t.Errorf("invalid cutoffs status = %d, want 400", status)
	}

	var target models.SavingsTarget
	if status := call(t, ts, http.MethodPut, "/api/target", token, service.TargetInput{TargetAmount: "1000"}, &target); status != http.StatusOK {
		t.Fatalf("set target status = %d", status)
	}
	if !target.IsActive {
		t.Error("new target should be active")
	}

	var period models.CutoffPeriod
	if status := call(t, ts, http.MethodPost, "/api/periods/close", token, nil, &period); status != http.StatusOK {
		t.Fatalf("close period status = %d", status)
	}
	if period.OwedAmounts.Cam.String() != "1000" {
		t.Errorf("cam owes %s, want 1000", period.OwedAmounts.Cam)
	}

	if status := call(t, ts, http.MethodPost, "/api/periods/"+period.ID+"/repay", token, map[string]string{"amount": "400"}, &period); status != http.StatusOK {
		t.Fatalf("repay status = %d", status)
	}
	if period.OwedAmounts.Cam.String() != "600" {
		t.Errorf("cam owes %s after repaying 400, want 600", period.OwedAmounts.Cam)
	}

	var owed models.PerProfile
	if status := call(t, ts, http.MethodGet, "/api/periods/owed", token, nil, &owed); status != http.StatusOK {
		t.Fatalf("owed status = %d", status)
	}
	if owed.Total().String() != "1600" {
		t.Errorf("total owed = %s, want 1600", owed.Total())
	}
}

func TestGameEndpoints(t *testing.T) {
	ts := setupTestServer(t)
	pea := login(t, ts, models.Pea)
	cam := login(t, ts, models.Cam)

	create := map[string]string{"gameType": string(game.TypeDecide)}
	if status := call(t, ts, http.MethodPost, "/api/game", pea, create, nil); status != http.StatusCreated {
		t.Fatalf("create game status = %d", status)
	}
	if status := call(t, ts, http.MethodPost, "/api/game", cam, create, nil); status != http.StatusConflict {
		t.Errorf("second create status = %d, want 409", status)
	}

	var view game.View
	if status := call(t, ts, http.MethodGet, "/api/game", cam, nil, &view); status != http.StatusOK {
		t.Fatalf("get game status = %d", status)
	}
	if !view.PendingInvite {
		t.Error("cam should see the invite")
	}
	if status := call(t, ts, http.MethodPost, "/api/game/join", cam, nil, nil); status != http.StatusOK {
		t.Fatalf("join status = %d", status)
	}

	start := game.StartDecision{Question: "Beach or city?", Options: []string{"beach", "city"}}
	var errResp map[string]string
	if status := call(t, ts, http.MethodPost, "/api/game/decision", pea, start, &errResp); status != http.StatusServiceUnavailable {
		t.Errorf("decision without API key status = %d, want 503", status)
	}
	if errResp["error"] != coach.ErrMissingAPIKey.Error() {
		t.Errorf("error = %q, want the missing key message", errResp["error"])
	}

	cmd := commandRequest{Command: "spin"}
	if status := call(t, ts, http.MethodPost, "/api/game/commands", pea, cmd, nil); status != http.StatusBadRequest {
		t.Errorf("spin in decide game status = %d, want 400", status)
	}

	if status := call(t, ts, http.MethodDelete, "/api/game", cam, nil, nil); status != http.StatusNoContent {
		t.Fatalf("end game status = %d", status)
	}
	if status := call(t, ts, http.MethodPost, "/api/game/join", cam, nil, nil); status != http.StatusNotFound {
		t.Errorf("join without session status = %d, want 404", status)
	}
}

func TestStream(t *testing.T) {
	ts := setupTestServer(t)
	token := login(t, ts, models.Pea)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/stream?topics=transactions&token="+token, nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("stream request failed: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	lines := bufio.NewScanner(resp.Body)
	next := func() (string, string) {
		t.Helper()
		var event, data string
		for lines.Scan() {
			line := lines.Text()
			switch {
			case strings.HasPrefix(line, "event: "):
				event = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			case line == "" && event != "":
				return event, data
			}
		}
		t.Fatalf("stream ended: %v", lines.Err())
		return "", ""
	}

	if event, data := next(); event != "transactions" || (data != "null" && data != "[]") {
		t.Errorf("snapshot = %s %s, want empty transactions", event, data)
	}

	if status := call(t, ts, http.MethodPost, "/api/transactions", token, models.NewTransaction{Amount: "75"}, nil); status != http.StatusCreated {
		t.Fatalf("add transaction status = %d", status)
	}

	event, data := next()
	if event != "transactions" {
		t.Fatalf("event = %q, want transactions", event)
	}
	var txs []models.Transaction
	if err := json.Unmarshal([]byte(data), &txs); err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}
	if len(txs) != 1 || txs[0].Amount.String() != "75" {
		t.Errorf("streamed ledger = %+v", txs)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("goal x: %w", storage.ErrNotFound), http.StatusNotFound},
		{game.ErrAlreadyPicked, http.StatusConflict},
		{game.ErrRangeTooWide, http.StatusBadRequest},
		{coach.ErrMissingAPIKey, http.StatusServiceUnavailable},
		{coach.ErrEmptyCompletion, http.StatusBadGateway},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrNotOwner, http.StatusForbidden},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
