package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/SscSPs/coop_ledger/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	now func() time.Time
}

// Now returns the service clock, UTC wall time unless overridden in tests.
func (s *BaseService) Now() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now().UTC()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// AuthorizeElevated requires an admin, staff or treasurer caller.
func (s *BaseService) AuthorizeElevated(ctx context.Context, caller domain.Caller) error {
	if caller.IsElevated() {
		return nil
	}
	s.LogWarn(ctx, "Caller lacks an elevated role", slog.String("user_id", caller.UserID))
	return fmt.Errorf("%w: admin, staff or treasurer role required", apperrors.ErrForbidden)
}

// AuthorizeOwnerOrElevated lets the owner of a resource or an elevated caller through.
func (s *BaseService) AuthorizeOwnerOrElevated(ctx context.Context, caller domain.Caller, ownerID string) error {
	if caller.UserID != "" && caller.UserID == ownerID {
		return nil
	}
	return s.AuthorizeElevated(ctx, caller)
}
