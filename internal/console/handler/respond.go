package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/xela07ax/intellibridge-console/internal/console/service"
	"github.com/xela07ax/intellibridge-console/internal/infra/auth"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// statusFor разделяет ошибки сервиса по кодам ответа
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidTheme):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnknownItem), errors.Is(err, service.ErrUnknownSnippet):
		return http.StatusNotFound
	case errors.Is(err, service.ErrActionInProgress):
		return http.StatusConflict
	case errors.Is(err, service.ErrNothingSelected):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func decode(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "session is required")
	}
	return id, ok
}

// osHint достает сигнал ОС из client hint. Значение приходит в кавычках: "dark".
func osHint(r *http.Request) string {
	return strings.Trim(r.Header.Get("Sec-CH-Prefers-Color-Scheme"), `" `)
}
