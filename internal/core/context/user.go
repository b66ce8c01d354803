// Package context provides request-scoped values extraction.
//
// Identity and authorization are external collaborators: the surrounding API
// layer authenticates the caller and hands this core an opaque user id. The
// workflow services stamp that id on documents and movements, nothing more.
package context

import (
	"context"
)

// UserContext carries the opaque caller identity.
type UserContext struct {
	UserID     string
	PropertyID string
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// GetPropertyID returns the caller's property scope or empty string.
// Property scoping is applied by the caller; this core only records it.
func GetPropertyID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.PropertyID
	}
	return ""
}
