package todos

import (
	"time"

	"github.com/louisbranch/todo.space/internal/services/todo/item"
)

// timestampLayout renders UTC timestamps with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type todoView struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
	UserID      string  `json:"userId"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func newTodoView(it item.Item) todoView {
	return todoView{
		ID:          it.ID,
		Title:       it.Title,
		Description: it.Description,
		Completed:   it.Completed,
		UserID:      it.UserID,
		CreatedAt:   formatTimestamp(it.CreatedAt),
		UpdatedAt:   formatTimestamp(it.UpdatedAt),
	}
}

func newTodoViews(items []item.Item) []todoView {
	views := make([]todoView, 0, len(items))
	for _, it := range items {
		views = append(views, newTodoView(it))
	}
	return views
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
