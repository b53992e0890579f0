package todos

import (
	"testing"
	"time"

	"github.com/louisbranch/todo.space/internal/services/todo/item"
	module "github.com/louisbranch/todo.space/internal/services/todo/module"
)

func TestRegisterRoutesHandlesNilMux(t *testing.T) {
	t.Parallel()

	registerRoutes(nil, newHandlers(module.Dependencies{}), module.Dependencies{})
}

func TestFormatTimestampUsesUTCMillis(t *testing.T) {
	t.Parallel()

	it := newTodoView(sampleItem())
	if it.CreatedAt != "2026-03-04T05:06:07.123Z" {
		t.Fatalf("createdAt = %q", it.CreatedAt)
	}
}

func sampleItem() item.Item {
	at := time.Date(2026, 3, 4, 14, 6, 7, 123_000_000, time.FixedZone("JST", 9*3600))
	return item.Item{ID: "a", Title: "t", UserID: "u", CreatedAt: at, UpdatedAt: at}
}
