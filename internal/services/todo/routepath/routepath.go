// Package routepath centralizes todo service route paths.
package routepath

import "net/url"

const (
	Root     = "/"
	Login    = "/login"
	Register = "/register"
	Todos    = "/todos"
	Health   = "/healthz"

	StaticPrefix = "/static/"
	APIPrefix    = "/api/"

	TodosAPI       = "/api/todos"
	TodosAPIPrefix = "/api/todos/"

	AuthPrefix  = "/api/auth/"
	SignUpEmail = "/api/auth/sign-up/email"
	SignInEmail = "/api/auth/sign-in/email"
	SignOut     = "/api/auth/sign-out"
	GetSession  = "/api/auth/get-session"
)

// TodoItem returns the API path of one to-do item.
func TodoItem(itemID string) string {
	return TodosAPIPrefix + url.PathEscape(itemID)
}
