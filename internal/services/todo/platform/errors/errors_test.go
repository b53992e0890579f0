package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	domainerrors "github.com/louisbranch/todo.space/internal/platform/errors"
)

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "unauthorized", err: E(KindUnauthorized, "no"), want: http.StatusUnauthorized},
		{name: "not found", err: E(KindNotFound, "gone"), want: http.StatusNotFound},
		{name: "conflict", err: E(KindConflict, "taken"), want: http.StatusConflict},
		{name: "unknown kind", err: E(Kind("teapot"), "?"), want: http.StatusInternalServerError},
		{name: "wrapped kind", err: fmt.Errorf("ctx: %w", E(KindNotFound, "gone")), want: http.StatusNotFound},
		{name: "domain not found", err: domainerrors.New(domainerrors.CodeNotFound, "missing"), want: http.StatusNotFound},
		{name: "domain unauthenticated", err: domainerrors.New(domainerrors.CodeUnauthenticated, "no session"), want: http.StatusUnauthorized},
		{name: "domain email taken", err: domainerrors.New(domainerrors.CodeEmailTaken, "taken"), want: http.StatusConflict},
		{name: "plain", err: errors.New("disk full"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Fatalf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPublicMessageHidesServerFaults(t *testing.T) {
	t.Parallel()

	if got := PublicMessage(errors.New("sqlite: disk I/O error")); got != "Internal Server Error" {
		t.Fatalf("PublicMessage() = %q", got)
	}
	if got := PublicMessage(E(KindNotFound, "Todo not found")); got != "Todo not found" {
		t.Fatalf("PublicMessage() = %q", got)
	}
	if got := PublicMessage(domainerrors.New(domainerrors.CodeNotFound, "record not found")); got != "Not Found" {
		t.Fatalf("PublicMessage() = %q", got)
	}
}
