package shared

import (
	"context"
	"regexp"

	"github.com/google/uuid"
	"github.com/yoman-app/yoman-api/internal/domain"
)

// ContextKey is the type of request-scoped values set by the middleware.
type ContextKey string

const (
	// UserIDContextKey holds the authenticated user's uuid.UUID.
	UserIDContextKey ContextKey = "userID"

	// RoleContextKey holds the authenticated user's domain.Role.
	RoleContextKey ContextKey = "role"

	// TraceIDKey holds the request trace ID.
	TraceIDKey ContextKey = "traceID"

	// TraceIDHeader carries a caller-supplied trace ID in and the effective one out.
	TraceIDHeader = "X-Request-ID"
)

var traceIDPattern = regexp.MustCompile(`^[A-Za-z0-9\-_]{8,64}$`)

// SetTraceID stores traceID in ctx. An empty or malformed value is replaced
// with a fresh random ID.
func SetTraceID(ctx context.Context, traceID string) context.Context {
	if !traceIDPattern.MatchString(traceID) {
		traceID = uuid.NewString()
	}
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID returns the trace ID in ctx, or "" when none was set.
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

// WithIdentity stores the authenticated user and role in ctx.
func WithIdentity(ctx context.Context, userID uuid.UUID, role domain.Role) context.Context {
	ctx = context.WithValue(ctx, UserIDContextKey, userID)
	return context.WithValue(ctx, RoleContextKey, role)
}

// UserID returns the authenticated user ID, if any.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(UserIDContextKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// Role returns the authenticated role, defaulting to domain.RoleUser.
func Role(ctx context.Context) domain.Role {
	role, ok := ctx.Value(RoleContextKey).(domain.Role)
	if !ok {
		return domain.RoleUser
	}
	return role
}
