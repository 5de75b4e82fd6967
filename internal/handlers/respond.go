package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/pantryhub/pantry/internal/repository"
	"github.com/pantryhub/pantry/internal/services"
	"github.com/pantryhub/pantry/internal/shopping"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeError maps an error from the service or repository layer onto a
// status code. Server-side failures are logged and reported generically.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case shopping.IsValidation(err):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUnauthorized), errors.Is(err, services.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, errorMessage(err))
	case errors.Is(err, services.ErrForbidden):
		writeMessage(w, http.StatusForbidden, services.ErrForbidden.Error())
	case shopping.IsNotFound(err), errors.Is(err, sql.ErrNoRows):
		writeNotFound(w, err)
	case errors.Is(err, services.ErrUsernameTaken), errors.Is(err, services.ErrEmailTaken):
		writeMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, repository.ErrDuplicate):
		writeMessage(w, http.StatusConflict, "already exists")
	case errors.Is(err, repository.ErrReferenced):
		writeMessage(w, http.StatusConflict, "still in use")
	case shopping.IsBackendUnavailable(err):
		slog.Error("store unavailable", "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusServiceUnavailable, "service unavailable")
	default:
		slog.Error("handling request", "method", r.Method, "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

func errorMessage(err error) string {
	if errors.Is(err, services.ErrInvalidCredentials) {
		return services.ErrInvalidCredentials.Error()
	}
	return services.ErrUnauthorized.Error()
}

// writeNotFound names the missing entity and id in the body when known, so
// clients need not guess which part of a nested route was absent.
func writeNotFound(w http.ResponseWriter, err error) {
	var notFound *shopping.NotFoundError
	if !errors.As(err, &notFound) {
		writeMessage(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error":  notFound.Error(),
		"entity": notFound.Entity,
		"id":     notFound.ID,
	})
}

// decodeJSON reads the request body into dst. An empty body is accepted
// when optional is set.
func decodeJSON(r *http.Request, dst any, optional bool) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(dst)
	if errors.Is(err, io.EOF) && optional {
		return nil
	}
	if err != nil {
		return &shopping.ValidationError{Field: "body", Reason: err.Error()}
	}
	return nil
}
