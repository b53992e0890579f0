package errors

import (
	stderrors "errors"
	"sort"
	"strings"
)

// Error is a domain failure tagged with a Code. Message is for logs; the
// client sees a message chosen by the web layer.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	switch {
	case e.Cause == nil:
		return e.Message
	case e.Message == "":
		return e.Cause.Error()
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error with the same Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// New returns an Error with no cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap returns an Error around cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf returns the code of the first domain error in err's chain, or
// CodeUnknown.
func CodeOf(err error) Code {
	var domainErr *Error
	if stderrors.As(err, &domainErr) && domainErr != nil {
		return domainErr.Code
	}
	return CodeUnknown
}

// FieldErrors maps input field names to message keys for invalid input.
//
// A nil or empty FieldErrors means the input is valid.
type FieldErrors map[string]string

// Add records key for field unless the field already has an error.
func (f FieldErrors) Add(field string, key string) {
	if f == nil {
		return
	}
	if _, exists := f[field]; exists {
		return
	}
	f[field] = key
}

// Fields returns the invalid field names in sorted order.
func (f FieldErrors) Fields() []string {
	out := make([]string, 0, len(f))
	for field := range f {
		out = append(out, field)
	}
	sort.Strings(out)
	return out
}

// Error implements the error interface.
func (f FieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for _, field := range f.Fields() {
		parts = append(parts, field+": "+f[field])
	}
	return "invalid input: " + strings.Join(parts, ", ")
}
