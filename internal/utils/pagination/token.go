// Package pagination encodes opaque keyset cursors for list endpoints.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
)

const timeFormat = time.RFC3339Nano

// EncodeEntryCursor turns an entry cursor into a URL-safe token. A nil cursor encodes to "".
func EncodeEntryCursor(c *domain.EntryCursor) string {
	if c == nil {
		return ""
	}
	raw := c.Date.UTC().Format(timeFormat) + "|" + c.RefNumber
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeEntryCursor parses a token produced by EncodeEntryCursor. An empty token yields nil.
func DecodeEntryCursor(token string) (*domain.EntryCursor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid page token", apperrors.ErrValidation)
	}
	date, ref, ok := strings.Cut(string(raw), "|")
	if !ok || ref == "" {
		return nil, fmt.Errorf("%w: invalid page token", apperrors.ErrValidation)
	}
	t, err := time.Parse(timeFormat, date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid page token date", apperrors.ErrValidation)
	}
	return &domain.EntryCursor{Date: t, RefNumber: ref}, nil
}
