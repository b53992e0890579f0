package todos

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/louisbranch/todo.space/internal/platform/errors"
	"github.com/louisbranch/todo.space/internal/services/todo/account"
	"github.com/louisbranch/todo.space/internal/services/todo/item"
	module "github.com/louisbranch/todo.space/internal/services/todo/module"
	weberrors "github.com/louisbranch/todo.space/internal/services/todo/platform/errors"
	"github.com/louisbranch/todo.space/internal/services/todo/platform/httpx"
	"github.com/louisbranch/todo.space/internal/services/todo/platform/i18n"
	"github.com/louisbranch/todo.space/internal/services/todo/storage"
)

// NotFoundMessage is the 404 body for items that are missing or not owned.
const NotFoundMessage = "Todo not found"

type handlers struct {
	items  storage.ItemStore
	logger *log.Logger
	now    func() time.Time
	newID  func() (string, error)
}

func newHandlers(deps module.Dependencies) handlers {
	return handlers{
		items:  deps.Items,
		logger: deps.LoggerOrDefault(),
		now:    deps.NowOrDefault(),
		newID:  deps.NewID,
	}
}

func (h handlers) handleList(w http.ResponseWriter, r *http.Request, identity account.Identity) {
	items, err := h.items.ListItems(r.Context(), identity.ID)
	if err != nil {
		h.writeFault(w, r, "list", identity, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"todos": newTodoViews(items)})
}

func (h handlers) handleCreate(w http.ResponseWriter, r *http.Request, identity account.Identity) {
	raw, ok := h.readBody(w, r)
	if !ok {
		return
	}
	input, fieldErrs := item.ParseCreate(raw)
	if fieldErrs != nil {
		writeFieldErrors(w, r, fieldErrs)
		return
	}
	it, err := item.New(identity.ID, input, h.now, h.newID)
	if err != nil {
		h.writeFault(w, r, "create", identity, err)
		return
	}
	stored, err := h.items.CreateItem(r.Context(), it)
	if err != nil {
		h.writeFault(w, r, "create", identity, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, map[string]any{"todo": newTodoView(stored)})
}

func (h handlers) handleUpdate(w http.ResponseWriter, r *http.Request, identity account.Identity) {
	itemID := strings.TrimSpace(r.PathValue("id"))
	raw, ok := h.readBody(w, r)
	if !ok {
		return
	}
	patch, fieldErrs := item.ParseUpdate(raw)
	if fieldErrs != nil {
		writeFieldErrors(w, r, fieldErrs)
		return
	}
	if itemID == "" {
		writeNotFound(w)
		return
	}
	stored, err := h.items.UpdateItem(r.Context(), identity.ID, itemID, patch, h.now())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeNotFound(w)
			return
		}
		h.writeFault(w, r, "update", identity, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"todo": newTodoView(stored)})
}

func (h handlers) handleDelete(w http.ResponseWriter, r *http.Request, identity account.Identity) {
	itemID := strings.TrimSpace(r.PathValue("id"))
	if itemID == "" {
		writeNotFound(w)
		return
	}
	if err := h.items.DeleteItem(r.Context(), identity.ID, itemID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeNotFound(w)
			return
		}
		h.writeFault(w, r, "delete", identity, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// readBody reports false after writing a 400 for an unreadable body.
func (h handlers) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	raw, err := httpx.ReadBody(w, r)
	if err != nil {
		writeFieldErrors(w, r, apperrors.FieldErrors{item.FieldBody: item.MsgBodyInvalid})
		return nil, false
	}
	return raw, true
}

func (h handlers) writeFault(w http.ResponseWriter, r *http.Request, op string, identity account.Identity, err error) {
	h.logger.Printf("todo %s failed user_id=%s request_id=%s err=%v", op, identity.ID, httpx.RequestIDOf(r), err)
	httpx.WriteError(w, err)
}

func writeNotFound(w http.ResponseWriter) {
	httpx.WriteError(w, weberrors.E(weberrors.KindNotFound, NotFoundMessage))
}

func writeFieldErrors(w http.ResponseWriter, r *http.Request, fields apperrors.FieldErrors) {
	printer, _ := i18n.ResolveLocalizer(r)
	_ = httpx.WriteValidationError(w, i18n.LocalizeFields(printer, fields))
}
