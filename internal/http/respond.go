package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/brusiqueira9/expense-guru/internal/core"
	"github.com/brusiqueira9/expense-guru/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeDomainError maps service errors to HTTP statuses. Validation errors
// from core become 400s, unknown rows 404s, duplicates 409s, anything else
// a 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, storage.ErrDuplicateCategory):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrUnknownCategory),
		errors.Is(err, core.ErrInvalidRecurrence),
		errors.Is(err, core.ErrInvalidStatus),
		errors.Is(err, core.ErrDueDateOnIncome),
		errors.Is(err, core.ErrStatusOnIncome),
		errors.Is(err, core.ErrNestedRecurrence),
		errors.Is(err, core.ErrRecurrenceEndOrder):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
