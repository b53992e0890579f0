package account

import (
	"strings"
	"testing"
)

func TestParseSignUp(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantFields map[string]string
	}{
		{name: "valid", body: `{"name":"Alice","email":" Alice@Example.COM ","password":"password1"}`},
		{name: "valid with confirm", body: `{"name":"Alice","email":"a@example.com","password":"password1","confirmPassword":"password1"}`},
		{name: "missing everything", body: `{}`, wantFields: map[string]string{"name": MsgNameRequired, "email": MsgEmailInvalid, "password": MsgPasswordMin}},
		{name: "short password", body: `{"name":"A","email":"a@example.com","password":"short"}`, wantFields: map[string]string{"password": MsgPasswordMin}},
		{name: "long password", body: `{"name":"A","email":"a@example.com","password":"` + strings.Repeat("x", 73) + `"}`, wantFields: map[string]string{"password": MsgPasswordMax}},
		{name: "bad email", body: `{"name":"A","email":"not-an-email","password":"password1"}`, wantFields: map[string]string{"email": MsgEmailInvalid}},
		{name: "display name email", body: `{"name":"A","email":"Alice <a@example.com>","password":"password1"}`, wantFields: map[string]string{"email": MsgEmailInvalid}},
		{name: "mismatch", body: `{"name":"A","email":"a@example.com","password":"password1","confirmPassword":"password2"}`, wantFields: map[string]string{"confirmPassword": MsgPasswordMismatch}},
		{name: "malformed", body: `{"name":`, wantFields: map[string]string{"body": MsgBodyInvalid}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, fields := ParseSignUp([]byte(tt.body))
			if tt.wantFields == nil {
				if len(fields) != 0 {
					t.Fatalf("unexpected field errors: %v", fields)
				}
				if input.Email != strings.ToLower(strings.TrimSpace(input.Email)) {
					t.Fatalf("email not normalized: %q", input.Email)
				}
				return
			}
			if len(fields) != len(tt.wantFields) {
				t.Fatalf("fields = %v, want %v", fields, tt.wantFields)
			}
			for field, key := range tt.wantFields {
				if fields[field] != key {
					t.Fatalf("fields[%q] = %q, want %q", field, fields[field], key)
				}
			}
		})
	}
}

func TestParseSignUpNormalizesEmail(t *testing.T) {
	input, fields := ParseSignUp([]byte(`{"name":" Alice ","email":" Alice@Example.COM ","password":"password1"}`))
	if len(fields) != 0 {
		t.Fatalf("unexpected field errors: %v", fields)
	}
	if input.Email != "alice@example.com" || input.Name != "Alice" {
		t.Fatalf("unexpected input: %+v", input)
	}
}

func TestParseSignIn(t *testing.T) {
	input, fields := ParseSignIn([]byte(`{"email":"a@example.com","password":"password1"}`))
	if len(fields) != 0 {
		t.Fatalf("unexpected field errors: %v", fields)
	}
	if input.Email != "a@example.com" || input.Password != "password1" {
		t.Fatalf("unexpected input: %+v", input)
	}

	_, fields = ParseSignIn([]byte(`{"email":"bad","password":"x"}`))
	if fields["email"] != MsgEmailInvalid || fields["password"] != MsgPasswordMin {
		t.Fatalf("unexpected fields: %v", fields)
	}

	_, fields = ParseSignIn([]byte(`[]`))
	if fields["body"] != MsgBodyInvalid {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestValidEmail(t *testing.T) {
	for _, value := range []string{"a@b.co", "first.last@example.com", "x+tag@sub.example.org"} {
		if !ValidEmail(value) {
			t.Fatalf("expected %q to be valid", value)
		}
	}
	for _, value := range []string{"", "a", "@b.co", "a@", "a b@c.d", "<a@b.co>"} {
		if ValidEmail(value) {
			t.Fatalf("expected %q to be invalid", value)
		}
	}
}
