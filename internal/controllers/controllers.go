package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// Messages returned to API clients. Server-side detail only goes to the log.
var (
	ErrMethodNotAllowed   = errors.New("Method not allowed")
	ErrMissingQuery       = errors.New("Missing query parameters")
	ErrMissingValues      = errors.New("Missing required values")
	ErrInvalidData        = errors.New("Invalid data")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrInvalidDate        = errors.New("invalid date")
	ErrParsingJSON        = errors.New("failed to parse request body")
	ErrRegister           = errors.New("Unable to register user.")
	ErrLogin              = errors.New("Unable to sign in")
	ErrAddBacklog         = errors.New("Unable to add to backlog")
	ErrGetBacklog         = errors.New("Unable to get backlog")
	ErrRemoveBacklog      = errors.New("Unable to remove from backlog")
	ErrAddLibrary         = errors.New("Unable to add to library")
	ErrGetLibrary         = errors.New("Unable to get library")
	ErrRemoveLibrary      = errors.New("Unable to remove from library")
	ErrUpdateReview       = errors.New("Unable to update review.")
	ErrGetGameDetails     = errors.New("Unable to get game details")
	ErrEncoding           = errors.New("failed to encode")
	ErrForbidden          = errors.New("Forbidden")
)

const (
	msgRemovedFromBacklog = "Game removed from backlog"
	msgRemovedFromLibrary = "Game removed from library"
	statusSuccess         = "Success"
	statusRegistered      = "success"
)

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, op string, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error(ErrEncoding.Error(), slog.String("operation", op), slog.String("error", err.Error()))
	}
}

func writeMessage(w http.ResponseWriter, log *slog.Logger, op string, status int, msg string) {
	writeJSON(w, log, op, status, messageResponse{Message: msg})
}

func writeError(w http.ResponseWriter, log *slog.Logger, op string, status int, err error) {
	writeJSON(w, log, op, status, errorResponse{Error: err.Error()})
}

// allowMethod answers 405 and reports false when r does not use method.
func allowMethod(w http.ResponseWriter, r *http.Request, log *slog.Logger, op, method string) bool {
	if r.Method == method {
		return true
	}
	writeMessage(w, log, op, http.StatusMethodNotAllowed, ErrMethodNotAllowed.Error())
	return false
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

var dateLayouts = []string{time.RFC3339Nano, time.DateOnly}

// parseDate accepts RFC 3339 timestamps and bare YYYY-MM-DD dates. Empty or
// nil input yields a nil time.
func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, *s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, ErrInvalidDate
}
