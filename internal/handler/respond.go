package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spheretrack/sphere/internal/repository"
	"github.com/spheretrack/sphere/internal/service"
	"github.com/spheretrack/sphere/internal/validation"
)

const (
	maxBodyBytes       = 1 << 20
	maxImportBodyBytes = 16 << 20
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps sentinel service and repository errors onto
// HTTP statuses. Anything unmapped is a 500 with a generic body; the
// cause goes to the log, not the client.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrGoalNotFound),
		errors.Is(err, repository.ErrGoalEntryNotFound),
		errors.Is(err, repository.ErrSavingsGoalNotFound),
		errors.Is(err, repository.ErrSavingsEntryNotFound),
		errors.Is(err, repository.ErrRewardNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrFreezeExists),
		errors.Is(err, repository.ErrDuplicateEmail),
		errors.Is(err, repository.ErrAchievementExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrFreezeQuotaExceeded),
		errors.Is(err, service.ErrInsufficientCoins),
		errors.Is(err, service.ErrRewardInactive),
		errors.Is(err, service.ErrUnsupportedVersion):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// writeValidationOrServiceError additionally maps validation errors to
// 400s; used on write paths that validate input.
func writeValidationOrServiceError(w http.ResponseWriter, err error) {
	var verr validation.Error
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Error())
		return
	}
	writeServiceError(w, err)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}

	return true
}

// parseDate accepts either a date-only or an RFC 3339 value.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
