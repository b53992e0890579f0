package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/todo.space/internal/services/todo/platform/errors"
)

// MaxBodyBytes bounds JSON request bodies.
const MaxBodyBytes = 1 << 20

// ValidationFailedMessage is the error text of a 400 with field detail.
const ValidationFailedMessage = "Validation failed"

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// WriteJSON encodes payload with status. Responses are never cached.
func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return errors.New("httpx: nil response writer")
	}
	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(payload)
}

// WriteJSONError writes {"error": message}.
func WriteJSONError(w http.ResponseWriter, status int, message string) error {
	return WriteJSON(w, status, errorBody{Error: message})
}

// WriteValidationError writes a 400 carrying per-field messages. The fields
// object is always present.
func WriteValidationError(w http.ResponseWriter, fields map[string]string) error {
	if fields == nil {
		fields = map[string]string{}
	}
	return WriteJSON(w, http.StatusBadRequest, struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}{ValidationFailedMessage, fields})
}

// WriteError maps err to its web status and public message. Causes of
// untyped errors never reach the body.
func WriteError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	_ = WriteJSONError(w, apperrors.HTTPStatus(err), apperrors.PublicMessage(err))
}

// MethodNotAllowed answers 405 listing allow in the Allow header.
func MethodNotAllowed(allow ...string) http.HandlerFunc {
	header := strings.Join(allow, ", ")
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Allow", header)
		_ = WriteJSONError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	}
}

// NotFound answers 404 with message, or the status text when blank.
func NotFound(message string) http.HandlerFunc {
	if strings.TrimSpace(message) == "" {
		message = http.StatusText(http.StatusNotFound)
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		_ = WriteJSONError(w, http.StatusNotFound, message)
	}
}

// ReadBody reads at most MaxBodyBytes of the request body.
func ReadBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r == nil || r.Body == nil {
		return nil, nil
	}
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer body.Close()
	return io.ReadAll(body)
}

// RequestContext is r.Context(), or context.Background() for a nil request.
func RequestContext(r *http.Request) context.Context {
	if r == nil {
		return context.Background()
	}
	return r.Context()
}
