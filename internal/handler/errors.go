package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rmachado/fleet-manager/internal/domain"
)

// writeJSON marshals v and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("handler: encode response", "error", err)
	}
}

// errorBody is the flat error shape the web client reads for validation and
// conflict failures: {"error": "..."}.
type errorBody struct {
	Error string `json:"error"`
}

// detailBody is the error shape for authentication and permission failures:
// {"detail": "..."}. The client falls back from "error" to "detail" when
// rendering, so both shapes surface to the user.
type detailBody struct {
	Detail string `json:"detail"`
}

// writeError maps a service error onto the wire contract. Unknown errors are
// logged and answered with a generic 500 so internal details never leak.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: userMessage(err)})
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody{Error: conflictMessage(err)})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "registro não encontrado"})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, detailBody{Detail: "credenciais inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, detailBody{Detail: "você não tem permissão para executar esta ação"})
	default:
		slog.Error("handler: internal error", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "erro interno do servidor"})
	}
}

// userMessage strips the internal wrapping prefixes ("service.Trip.Create:
// validation error: ...") so only the human-readable tail reaches the client.
func userMessage(err error) string {
	msg := err.Error()
	marker := domain.ErrValidation.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}

// conflictMessage extracts the user-facing tail of a conflict error. Conflicts
// surfaced from the database layer (duplicate plate, duplicate CPF) carry no
// such tail and get a generic message instead of internal wrapping.
func conflictMessage(err error) string {
	msg := err.Error()
	marker := domain.ErrConflict.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 && i+len(marker) < len(msg) {
		return msg[i+len(marker):]
	}
	return "registro em conflito com dados existentes"
}

// badRequest answers malformed JSON bodies and unparseable path parameters.
func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}
