package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"jobcal-engine/internal/domain"
	"jobcal-engine/internal/store"
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// writeStoreError maps store and validation failures onto the error envelope.
func writeStoreError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, err error) {
	var verr domain.ValidationErrors
	var ferr domain.ValidationError
	switch {
	case errors.As(err, &verr), errors.As(err, &ferr):
		WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, store.ErrNotFound):
		WriteError(w, r, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, store.ErrUnknownTeamLeader), errors.Is(err, store.ErrUnknownEmployee):
		WriteError(w, r, http.StatusUnprocessableEntity, "unknown_reference", err.Error())
	case errors.Is(err, store.ErrNoDrag):
		WriteError(w, r, http.StatusConflict, "no_drag", err.Error())
	default:
		log.Error().Err(err).Str("request_id", RequestIDFrom(r.Context())).Msg("request failed")
		WriteError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
