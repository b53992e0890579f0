package auth

import (
	"errors"
	"log"
	"net/http"

	apperrors "github.com/louisbranch/todo.space/internal/platform/errors"
	"github.com/louisbranch/todo.space/internal/services/todo/account"
	module "github.com/louisbranch/todo.space/internal/services/todo/module"
	weberrors "github.com/louisbranch/todo.space/internal/services/todo/platform/errors"
	"github.com/louisbranch/todo.space/internal/services/todo/platform/httpx"
	"github.com/louisbranch/todo.space/internal/services/todo/platform/i18n"
	"github.com/louisbranch/todo.space/internal/services/todo/platform/requestmeta"
	"github.com/louisbranch/todo.space/internal/services/todo/platform/sessioncookie"
	"github.com/louisbranch/todo.space/internal/services/todo/session"
	"github.com/louisbranch/todo.space/internal/services/todo/storage"
)

// EmailTakenMessage is the 409 body for a sign-up with a registered email.
const EmailTakenMessage = "User already exists"

type handlers struct {
	accounts module.Accounts
	logger   *log.Logger
	policy   requestmeta.SchemePolicy
}

func newHandlers(deps module.Dependencies) handlers {
	return handlers{
		accounts: deps.Accounts,
		logger:   deps.LoggerOrDefault(),
		policy:   deps.SchemePolicy,
	}
}

func (h handlers) handleSignUp(w http.ResponseWriter, r *http.Request) {
	raw, ok := readBody(w, r)
	if !ok {
		return
	}
	input, fieldErrs := account.ParseSignUp(raw)
	if fieldErrs != nil {
		writeFieldErrors(w, r, fieldErrs)
		return
	}
	result, err := h.accounts.SignUp(r.Context(), input, h.clientInfo(r))
	if err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			httpx.WriteError(w, weberrors.E(weberrors.KindConflict, EmailTakenMessage))
			return
		}
		h.writeFault(w, r, "sign up", err)
		return
	}
	h.writeToken(w, r, result)
}

func (h handlers) handleSignIn(w http.ResponseWriter, r *http.Request) {
	raw, ok := readBody(w, r)
	if !ok {
		return
	}
	input, fieldErrs := account.ParseSignIn(raw)
	if fieldErrs != nil {
		writeFieldErrors(w, r, fieldErrs)
		return
	}
	result, err := h.accounts.SignIn(r.Context(), input, h.clientInfo(r))
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			httpx.WriteError(w, weberrors.E(weberrors.KindUnauthorized, session.ErrInvalidCredentials.Message))
			return
		}
		h.writeFault(w, r, "sign in", err)
		return
	}
	h.writeToken(w, r, result)
}

func (h handlers) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if token, ok := session.TokenFromHeader(r.Header); ok {
		if err := h.accounts.SignOut(r.Context(), token); err != nil {
			h.writeFault(w, r, "sign out", err)
			return
		}
	}
	sessioncookie.Clear(w, r, h.policy)
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h handlers) handleGetSession(w http.ResponseWriter, r *http.Request) {
	token, ok := session.TokenFromHeader(r.Header)
	if !ok {
		_ = httpx.WriteJSON(w, http.StatusOK, nil)
		return
	}
	result, ok, err := h.accounts.Lookup(r.Context(), token)
	if err != nil {
		h.writeFault(w, r, "get session", err)
		return
	}
	if !ok {
		if _, fromCookie := sessioncookie.Read(r); fromCookie {
			sessioncookie.Clear(w, r, h.policy)
		}
		_ = httpx.WriteJSON(w, http.StatusOK, nil)
		return
	}
	if result.Refreshed {
		if _, fromCookie := sessioncookie.Read(r); fromCookie {
			sessioncookie.Write(w, r, result.Token, h.accounts.TTL(), h.policy)
		}
	}
	_ = httpx.WriteJSON(w, http.StatusOK, sessionResponse{
		Session: newSessionView(result.Session),
		User:    newUserView(result.User),
	})
}

func (h handlers) writeToken(w http.ResponseWriter, r *http.Request, result session.Result) {
	sessioncookie.Write(w, r, result.Token, h.accounts.TTL(), h.policy)
	_ = httpx.WriteJSON(w, http.StatusOK, tokenResponse{Token: result.Token, User: newUserView(result.User)})
}

func (h handlers) clientInfo(r *http.Request) account.ClientInfo {
	return account.ClientInfo{
		UserAgent: r.UserAgent(),
		IPAddress: requestmeta.ClientIP(r, h.policy),
	}
}

func (h handlers) writeFault(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.Printf("auth %s failed request_id=%s err=%v", op, httpx.RequestIDOf(r), err)
	httpx.WriteError(w, err)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	raw, err := httpx.ReadBody(w, r)
	if err != nil {
		writeFieldErrors(w, r, apperrors.FieldErrors{"body": account.MsgBodyInvalid})
		return nil, false
	}
	return raw, true
}

func writeFieldErrors(w http.ResponseWriter, r *http.Request, fields apperrors.FieldErrors) {
	printer, _ := i18n.ResolveLocalizer(r)
	_ = httpx.WriteValidationError(w, i18n.LocalizeFields(printer, fields))
}
