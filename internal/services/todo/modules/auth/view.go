package auth

import (
	"time"

	"github.com/louisbranch/todo.space/internal/services/todo/account"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type userView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type sessionView struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	UserAgent string `json:"userAgent,omitempty"`
	IPAddress string `json:"ipAddress,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	ExpiresAt string `json:"expiresAt"`
}

type tokenResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

type sessionResponse struct {
	Session sessionView `json:"session"`
	User    userView    `json:"user"`
}

func newUserView(u account.User) userView {
	return userView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: formatTimestamp(u.CreatedAt),
		UpdatedAt: formatTimestamp(u.UpdatedAt),
	}
}

func newSessionView(s account.Session) sessionView {
	return sessionView{
		ID:        s.ID,
		UserID:    s.UserID,
		UserAgent: s.UserAgent,
		IPAddress: s.IPAddress,
		CreatedAt: formatTimestamp(s.CreatedAt),
		UpdatedAt: formatTimestamp(s.UpdatedAt),
		ExpiresAt: formatTimestamp(s.ExpiresAt),
	}
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
