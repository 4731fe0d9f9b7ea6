// Package utils provides general-purpose helpers shared across the
// application: type-safe context keys, HTTP response writing, the outbound
// HTTP client, JWT generation and validation, and id generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys. A dedicated type prevents
// collisions with other packages that store string-keyed values in the
// context.
type contextKey string

// String implements fmt.Stringer.
func (c contextKey) String() string {
	return string(c)
}

// UserIDCtxKey is the key under which the authenticated user's id is stored
// in the request context. Paired with GetUserIDFromContext for type-safe
// retrieval.
var UserIDCtxKey = contextKey("userID")

// GetUserIDFromContext retrieves the user id from the context. The flag is
// false when the value is missing or not an int64.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(int64)
	return userID, ok
}
