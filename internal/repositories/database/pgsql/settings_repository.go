package pgsql

import (
	"context"
	"encoding/json"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/coop_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSettingsRepository struct {
	BaseRepository
}

func newPgxSettingsRepository(pool *pgxpool.Pool) *PgxSettingsRepository {
	return &PgxSettingsRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SettingsRepository = (*PgxSettingsRepository)(nil)

func (r *PgxSettingsRepository) LoadSettings(ctx context.Context, key string) (json.RawMessage, error) {
	var raw []byte
	if err := r.db(ctx).QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&raw); err != nil {
		return nil, notFoundOr(err, "settings "+key)
	}
	return json.RawMessage(raw), nil
}

func (r *PgxSettingsRepository) SaveSettings(ctx context.Context, key string, value json.RawMessage) error {
	_, err := r.db(ctx).Exec(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, []byte(value))
	if err != nil {
		return apperrors.NewAppError(500, "failed to save settings "+key, err)
	}
	return nil
}
