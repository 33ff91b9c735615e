// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys,
// HTTP response writing, and client-address extraction.
package utils

import (
	"context"

	"github.com/foliocms/folio/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// AdminCtxKey is the key used to store the authenticated admin in the
// request context. Set by the session middleware after a successful
// cookie resolution.
var AdminCtxKey = contextKey("admin")

// GetAdminFromContext retrieves the authenticated admin from the context.
//
// Returns the admin and an ok flag:
//   - ok == true:  value is found and has the correct type
//   - ok == false: value is missing or has an unexpected type
func GetAdminFromContext(ctx context.Context) (models.Admin, bool) {
	admin, ok := ctx.Value(AdminCtxKey).(models.Admin)
	return admin, ok
}

// WithAdmin returns a child context carrying the authenticated admin.
func WithAdmin(ctx context.Context, admin models.Admin) context.Context {
	return context.WithValue(ctx, AdminCtxKey, admin)
}
