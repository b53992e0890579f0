// Package errors classifies failures into the HTTP statuses and public
// messages the JSON API answers with.
package errors

import (
	stderrors "errors"
	"net/http"
	"strings"

	domainerrors "github.com/louisbranch/todo.space/internal/platform/errors"
)

// Kind is the web-facing class of a failure.
type Kind string

const (
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
)

var kindStatus = map[Kind]int{
	KindUnauthorized: http.StatusUnauthorized,
	KindNotFound:     http.StatusNotFound,
	KindConflict:     http.StatusConflict,
}

// Status returns the HTTP status for k. Unknown kinds are 500.
func (k Kind) Status() int {
	if status, ok := kindStatus[k]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Error is a failure whose Message is safe to show to the client.
type Error struct {
	Kind    Kind
	Message string
}

func (e Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Kind)
}

// E returns an Error of kind with message.
func E(kind Kind, message string) error {
	return Error{Kind: kind, Message: message}
}

// HTTPStatus maps err to a status: a web Error by kind, a coded domain error
// by code, anything else to 500.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if webErr, ok := asWebError(err); ok {
		return webErr.Kind.Status()
	}
	return domainerrors.CodeOf(err).HTTPStatus()
}

// PublicMessage returns the text to put in the error body. A 5xx always
// reads "Internal Server Error".
func PublicMessage(err error) string {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		return http.StatusText(http.StatusInternalServerError)
	}
	if webErr, ok := asWebError(err); ok && strings.TrimSpace(webErr.Message) != "" {
		return webErr.Message
	}
	return http.StatusText(status)
}

func asWebError(err error) (Error, bool) {
	var webErr Error
	ok := stderrors.As(err, &webErr)
	return webErr, ok
}
