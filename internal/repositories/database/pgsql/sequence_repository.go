package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/coop_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// maxSequenceAttempts bounds retries of a serialization or insert race.
const maxSequenceAttempts = 10

type PgxSequenceRepository struct {
	BaseRepository
}

func newPgxSequenceRepository(pool *pgxpool.Pool) *PgxSequenceRepository {
	return &PgxSequenceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SequenceRepository = (*PgxSequenceRepository)(nil)

// NextValue reads the counter under FOR UPDATE in a serializable transaction and
// advances it. A missing row starts at 1.
func (r *PgxSequenceRepository) NextValue(ctx context.Context, name string) (int64, error) {
	var lastErr error
	for attempt := 0; attempt < maxSequenceAttempts; attempt++ {
		var value int64
		err := r.withTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(ctx context.Context) error {
			var current int64
			err := r.db(ctx).QueryRow(ctx, `SELECT value FROM sequences WHERE name = $1 FOR UPDATE`, name).Scan(&current)
			switch {
			case errors.Is(err, pgx.ErrNoRows):
				current = 1
			case err != nil:
				return err
			case current < 1:
				current = 1
			}
			if _, err := r.db(ctx).Exec(ctx, `
				INSERT INTO sequences (name, value) VALUES ($1, $2)
				ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value`, name, current+1); err != nil {
				return err
			}
			value = current
			return nil
		})
		if err == nil {
			return value, nil
		}
		switch pgCode(err) {
		case codeSerializationFailure, codeDeadlockDetected, codeUniqueViolation:
			lastErr = err
			continue
		}
		return 0, apperrors.NewAppError(500, "failed to advance sequence "+name, err)
	}
	return 0, fmt.Errorf("%w: %s after %d attempts: %v", apperrors.ErrSequenceUnavailable, name, maxSequenceAttempts, lastErr)
}
