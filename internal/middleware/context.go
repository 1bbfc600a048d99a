package middleware

import "context"

type ctxKey int

const (
	moderatorKey ctxKey = iota
	requestIDKey
)

// Moderator identifies the caller of an admin route.
type Moderator struct {
	ID       string
	Username string
}

func InjectModerator(ctx context.Context, m Moderator) context.Context {
	return context.WithValue(ctx, moderatorKey, m)
}

func ModeratorFromContext(ctx context.Context) (Moderator, bool) {
	m, ok := ctx.Value(moderatorKey).(Moderator)
	return m, ok
}

func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}
