package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// statusFor maps an error chain onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, apperrors.ErrSequenceUnavailable):
		return http.StatusServiceUnavailable
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code >= 400 {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// respondError writes the mapped status. Server-side failures are logged in
// full and answered with msg only.
func respondError(c *gin.Context, logger *slog.Logger, err error, msg string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(msg, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": msg})
		return
	}
	logger.Warn(msg, slog.Int("status", status), slog.String("error", err.Error()))
	c.JSON(status, gin.H{"error": err.Error()})
}
