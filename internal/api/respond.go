package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fastprodman/golfwager/internal/services/accounts"
	"github.com/fastprodman/golfwager/internal/services/ledger"
	"github.com/fastprodman/golfwager/internal/services/matches"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads a single JSON object, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}

		return errors.New("invalid JSON")
	}

	return nil
}

type statusRule struct {
	target error
	status int
}

var errorStatuses = []statusRule{
	{matches.ErrInvalidAmount, http.StatusBadRequest},
	{matches.ErrInvalidCourse, http.StatusBadRequest},
	{matches.ErrInvalidFormat, http.StatusBadRequest},
	{matches.ErrInvalidGameType, http.StatusBadRequest},
	{matches.ErrInvalidStrokes, http.StatusBadRequest},
	{matches.ErrInvalidHole, http.StatusBadRequest},
	{accounts.ErrInvalidUser, http.StatusBadRequest},

	{matches.ErrNotParticipant, http.StatusForbidden},

	{matches.ErrUserNotFound, http.StatusNotFound},
	{matches.ErrMatchNotFound, http.StatusNotFound},

	{matches.ErrInsufficientFunds, http.StatusConflict},
	{matches.ErrMatchFull, http.StatusConflict},
	{matches.ErrAlreadyJoined, http.StatusConflict},
	{matches.ErrNotJoinable, http.StatusConflict},
	{matches.ErrMatchNotInProgress, http.StatusConflict},
	{matches.ErrScoreConfirmed, http.StatusConflict},
	{matches.ErrScoreMissing, http.StatusConflict},
	{matches.ErrHoleCompleted, http.StatusConflict},
	{accounts.ErrUserExists, http.StatusConflict},
	{ledger.ErrDuplicateTransaction, http.StatusConflict},
}

// writeServiceError maps a service failure to a status. Anything unclassified
// is logged and answered with a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for _, rule := range errorStatuses {
		if errors.Is(err, rule.target) {
			writeError(w, rule.status, err.Error())
			return
		}
	}

	slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func parseHoleFromPath(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "hole")

	hole, err := strconv.Atoi(raw)
	if err != nil || hole < 1 {
		return 0, fmt.Errorf("invalid hole %q", raw)
	}

	return hole, nil
}

// parseLimit reads ?limit=; 0 lets the service pick its default.
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid limit %q", raw)
	}

	return n, nil
}
