package context

import (
	"context"
	"time"
)

// SessionContext identifies the wizard session a request acts on.
type SessionContext struct {
	SessionID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type sessionContextKey struct{}

// WithSession adds SessionContext to context.
func WithSession(ctx context.Context, session *SessionContext) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

// GetSession returns SessionContext from context.
func GetSession(ctx context.Context) *SessionContext {
	if v, ok := ctx.Value(sessionContextKey{}).(*SessionContext); ok {
		return v
	}
	return nil
}

// ForSession returns ctx bound to sessionID unless it already carries a session.
// Work started outside a request, such as idle eviction, uses it so its logs
// name the session like request-scoped logs do.
func ForSession(ctx context.Context, sessionID string) context.Context {
	if sessionID == "" || GetSession(ctx) != nil {
		return ctx
	}
	return WithSession(ctx, &SessionContext{SessionID: sessionID})
}

// GetSessionID returns session ID from context or empty string.
func GetSessionID(ctx context.Context) string {
	if s := GetSession(ctx); s != nil {
		return s.SessionID
	}
	return ""
}
