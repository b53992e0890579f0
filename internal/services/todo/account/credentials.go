package account

import (
	"bytes"
	"encoding/json"
	"net/mail"
	"strings"

	apperrors "github.com/louisbranch/todo.space/internal/platform/errors"
)

// Password length bounds. bcrypt ignores input past 72 bytes.
const (
	MinPasswordLength = 8
	MaxPasswordBytes  = 72
)

// Field error message keys.
const (
	MsgBodyInvalid      = "validation.body_invalid"
	MsgNameRequired     = "validation.name_required"
	MsgEmailInvalid     = "validation.email_invalid"
	MsgPasswordMin      = "validation.password_min"
	MsgPasswordMax      = "validation.password_max"
	MsgPasswordMismatch = "validation.password_mismatch"
)

// SignUpInput is validated registration input.
type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

// SignInInput is validated login input.
type SignInInput struct {
	Email    string
	Password string
}

type signUpRequest struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Password        *string `json:"password"`
	ConfirmPassword *string `json:"confirmPassword"`
}

type signInRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// ParseSignUp validates a registration body.
//
// confirmPassword is optional; when present it must equal password.
func ParseSignUp(raw []byte) (SignUpInput, apperrors.FieldErrors) {
	var req signUpRequest
	if !decode(raw, &req) {
		return SignUpInput{}, apperrors.FieldErrors{"body": MsgBodyInvalid}
	}

	errs := apperrors.FieldErrors{}
	input := SignUpInput{
		Name:     strings.TrimSpace(deref(req.Name)),
		Email:    NormalizeEmail(deref(req.Email)),
		Password: deref(req.Password),
	}
	if input.Name == "" {
		errs.Add("name", MsgNameRequired)
	}
	if !ValidEmail(input.Email) {
		errs.Add("email", MsgEmailInvalid)
	}
	checkPassword(errs, input.Password)
	if req.ConfirmPassword != nil && *req.ConfirmPassword != input.Password {
		errs.Add("confirmPassword", MsgPasswordMismatch)
	}
	if len(errs) > 0 {
		return SignUpInput{}, errs
	}
	return input, nil
}

// ParseSignIn validates a login body.
func ParseSignIn(raw []byte) (SignInInput, apperrors.FieldErrors) {
	var req signInRequest
	if !decode(raw, &req) {
		return SignInInput{}, apperrors.FieldErrors{"body": MsgBodyInvalid}
	}

	errs := apperrors.FieldErrors{}
	input := SignInInput{
		Email:    NormalizeEmail(deref(req.Email)),
		Password: deref(req.Password),
	}
	if !ValidEmail(input.Email) {
		errs.Add("email", MsgEmailInvalid)
	}
	checkPassword(errs, input.Password)
	if len(errs) > 0 {
		return SignInInput{}, errs
	}
	return input, nil
}

// NormalizeEmail trims and lowercases an address for storage and lookup.
func NormalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// ValidEmail reports whether value is a bare addr-spec such as a@b.example.
func ValidEmail(value string) bool {
	if value == "" || strings.ContainsAny(value, " <>") {
		return false
	}
	parsed, err := mail.ParseAddress(value)
	if err != nil || parsed.Address != value {
		return false
	}
	at := strings.LastIndex(value, "@")
	return at > 0 && at < len(value)-1
}

func checkPassword(errs apperrors.FieldErrors, password string) {
	switch {
	case len([]rune(password)) < MinPasswordLength:
		errs.Add("password", MsgPasswordMin)
	case len(password) > MaxPasswordBytes:
		errs.Add("password", MsgPasswordMax)
	}
}

func decode(raw []byte, target any) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	return json.Unmarshal(trimmed, target) == nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
