package middleware

import "context"

// UserIDKey is the context key for the authenticated user ID.
const UserIDKey contextKey = "user_id"

// WithUserID stores the authenticated user ID in ctx.
func WithUserID(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, UserIDKey, id)
}

// UserID returns the authenticated user ID, if any.
func UserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(UserIDKey).(int)
	return id, ok && id > 0
}
