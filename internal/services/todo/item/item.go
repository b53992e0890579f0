package item

import (
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/todo.space/internal/platform/id"
)

// Item is one to-do entry owned by a single user.
type Item struct {
	ID          string
	Title       string
	Description *string
	Completed   bool
	UserID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateInput is validated input for a new item.
type CreateInput struct {
	Title       string
	Description *string
}

// OptionalText distinguishes an absent field from an explicit null.
type OptionalText struct {
	Set   bool
	Value *string
}

// Patch is validated input for a partial update. Nil fields are left as is.
type Patch struct {
	Title       *string
	Description OptionalText
	Completed   *bool
}

// New builds a fresh, incomplete item for userID.
func New(userID string, input CreateInput, now func() time.Time, idGenerator func() (string, error)) (Item, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Item{}, fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		return Item{}, fmt.Errorf("title is required")
	}

	itemID, err := idGenerator()
	if err != nil {
		return Item{}, fmt.Errorf("generate item id: %w", err)
	}

	createdAt := now().UTC().Truncate(time.Millisecond)
	var description *string
	if input.Description != nil && *input.Description != "" {
		value := *input.Description
		description = &value
	}
	return Item{
		ID:          itemID,
		Title:       input.Title,
		Description: description,
		Completed:   false,
		UserID:      userID,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}, nil
}

// Apply merges p into the item and refreshes UpdatedAt.
//
// UpdatedAt never moves backwards, so a clock step keeps
// UpdatedAt >= CreatedAt.
func (i Item) Apply(p Patch, now time.Time) Item {
	out := i
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description.Set {
		if p.Description.Value == nil {
			out.Description = nil
		} else {
			value := *p.Description.Value
			out.Description = &value
		}
	}
	if p.Completed != nil {
		out.Completed = *p.Completed
	}

	updatedAt := now.UTC().Truncate(time.Millisecond)
	if updatedAt.Before(i.UpdatedAt) {
		updatedAt = i.UpdatedAt
	}
	if updatedAt.Before(i.CreatedAt) {
		updatedAt = i.CreatedAt
	}
	out.UpdatedAt = updatedAt
	return out
}
