// Package domain provides core business types and context helpers for Presswork.
package domain

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// userIDContextKey stores the caller's user id, set by the identity middleware.
	userIDContextKey contextKey = iota
)

// NewContextWithUserID returns a new context carrying the caller's user id.
func NewContextWithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDContextKey, id)
}

// UserIDFromContext returns the caller's user id and whether one was present.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDContextKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
