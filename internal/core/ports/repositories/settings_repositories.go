package repositories

import (
	"context"
	"encoding/json"
)

// SettingsRepository stores JSON settings documents by key.
type SettingsRepository interface {
	// LoadSettings returns the raw document or ErrNotFound.
	LoadSettings(ctx context.Context, key string) (json.RawMessage, error)
	SaveSettings(ctx context.Context, key string, value json.RawMessage) error
}
