// Package http provides HTTP middleware and handlers for principal
// authentication and authorization.
package http

import (
	"context"

	authDomain "github.com/allisson/keyrelay/internal/auth/domain"
)

// userKey is a context key type for storing authenticated users.
type userKey struct{}

// appKey is a context key type for storing authenticated apps.
type appKey struct{}

// WithUser stores an authenticated user in the context.
// Called by the user authentication middlewares after a successful check.
func WithUser(ctx context.Context, user *authDomain.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// GetUser retrieves the authenticated user from the context.
// Returns (user, true) if present, or (nil, false) if no user was set.
func GetUser(ctx context.Context) (*authDomain.User, bool) {
	user, ok := ctx.Value(userKey{}).(*authDomain.User)
	return user, ok
}

// WithApp stores an authenticated app in the context.
// Called by the app authentication middleware after a successful check.
func WithApp(ctx context.Context, app *authDomain.App) context.Context {
	return context.WithValue(ctx, appKey{}, app)
}

// GetApp retrieves the authenticated app from the context.
// Returns (app, true) if present, or (nil, false) if no app was set.
func GetApp(ctx context.Context) (*authDomain.App, bool) {
	app, ok := ctx.Value(appKey{}).(*authDomain.App)
	return app, ok
}
