package middleware

import (
	"context"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// callerKey stores the authenticated domain.Caller in the request context.
const callerKey = contextKey("caller")

// WithCaller returns a copy of ctx carrying caller.
func WithCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// GetCallerFromContext retrieves the authenticated caller set by AuthMiddleware.
// It returns the caller and a boolean indicating if it was found.
func GetCallerFromContext(c *gin.Context) (domain.Caller, bool) {
	caller, ok := c.Request.Context().Value(callerKey).(domain.Caller)
	if !ok || caller.UserID == "" {
		return domain.Caller{}, false
	}
	return caller, true
}

// GetUserIDFromContext retrieves the authenticated user ID from the request context.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	caller, ok := GetCallerFromContext(c)
	return caller.UserID, ok
}
