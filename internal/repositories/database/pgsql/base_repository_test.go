package pgsql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgCode(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: codeUniqueViolation})
	assert.Equal(t, codeUniqueViolation, pgCode(err))
	assert.Equal(t, "", pgCode(errors.New("plain")))
	assert.Equal(t, "", pgCode(nil))
}

func TestNotFoundOr(t *testing.T) {
	assert.ErrorIs(t, notFoundOr(pgx.ErrNoRows, "payment p1"), apperrors.ErrNotFound)

	err := notFoundOr(errors.New("conn reset"), "payment p1")
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	var appErr *apperrors.AppError
	if assert.ErrorAs(t, err, &appErr) {
		assert.Equal(t, 500, appErr.Code)
	}
}
