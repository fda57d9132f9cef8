package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mmynk/moneymates/internal/auth"
	"github.com/mmynk/moneymates/internal/calculator"
	"github.com/mmynk/moneymates/internal/coach"
	"github.com/mmynk/moneymates/internal/game"
	"github.com/mmynk/moneymates/internal/service"
	"github.com/mmynk/moneymates/internal/storage"
)

var errBadRequest = errors.New("malformed request body")

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response with the status err maps to.
// Internal errors are logged and hidden from the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "path", r.URL.Path, "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

// decode reads a JSON request body into v.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

var statusErrors = []struct {
	status int
	errs   []error
}{
	{http.StatusBadRequest, []error{
		errBadRequest,
		service.ErrInvalidAmount, service.ErrInvalidTheme,
		service.ErrEmptyName, service.ErrEmptyTitle, service.ErrEmptyMessage,
		calculator.ErrInvalidCutoffs, calculator.ErrInvalidDate,
		calculator.ErrInvalidRepay, calculator.ErrUnknownProfile,
		auth.ErrInvalidPIN,
		game.ErrUnknownGame, game.ErrWrongGame, game.ErrInvalidHand,
		game.ErrEmptyOption, game.ErrOptionIndex, game.ErrNotEnoughOptions,
		game.ErrInvalidRange, game.ErrRangeTooWide, game.ErrEmptyQuestion, game.ErrInvalidMode,
		game.ErrEmptyAnswer, game.ErrUnknownCommand, game.ErrMalformedArguments,
	}},
	{http.StatusUnauthorized, []error{
		auth.ErrInvalidCredentials, auth.ErrInvalidToken, auth.ErrMissingToken,
	}},
	{http.StatusForbidden, []error{
		service.ErrNotOwner, game.ErrNotAllowed,
	}},
	{http.StatusNotFound, []error{
		storage.ErrNotFound, auth.ErrUnknownProfile,
	}},
	{http.StatusConflict, []error{
		storage.ErrAlreadyExists, calculator.ErrNoActivePeriod,
		game.ErrWrongStatus, game.ErrAlreadyPicked, game.ErrDecisionStarted,
		game.ErrNotAwaitingAnswer, game.ErrNotAwaitingReply,
	}},
	{http.StatusBadGateway, []error{
		coach.ErrEmptyCompletion,
	}},
	{http.StatusServiceUnavailable, []error{
		coach.ErrMissingAPIKey,
	}},
	{http.StatusGatewayTimeout, []error{
		context.DeadlineExceeded,
	}},
}

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	for _, group := range statusErrors {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return group.status
			}
		}
	}
	return http.StatusInternalServerError
}
