package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/coop_ledger/internal/models"
	"github.com/SscSPs/coop_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	cacheColumns    = `report_id, report_type, period_start, period_end, payload, created_at`
	snapshotColumns = `snapshot_id, report_type, as_of, payload, created_at, created_by`
)

// reportingRepository implements the ReportingRepositoryFacade interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) *reportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingRepositoryFacade = (*reportingRepository)(nil)

// SaveReportCache overwrites the cache row with the same report id.
func (r *reportingRepository) SaveReportCache(ctx context.Context, report domain.ReportCache) error {
	m := mapping.ToModelReportCache(report)
	_, err := r.db(ctx).Exec(ctx, `
		INSERT INTO report_caches (`+cacheColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (report_id) DO UPDATE SET
			report_type  = EXCLUDED.report_type,
			period_start = EXCLUDED.period_start,
			period_end   = EXCLUDED.period_end,
			payload      = EXCLUDED.payload,
			created_at   = EXCLUDED.created_at`,
		m.ReportID, m.ReportType, m.PeriodStart, m.PeriodEnd, m.Payload, m.CreatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save report cache "+m.ReportID, err)
	}
	return nil
}

func (r *reportingRepository) FindReportCache(ctx context.Context, reportID string) (*domain.ReportCache, error) {
	rows, err := r.db(ctx).Query(ctx, `SELECT `+cacheColumns+` FROM report_caches WHERE report_id = $1`, reportID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query report "+reportID, err)
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.ReportCache])
	if err != nil {
		return nil, notFoundOr(err, "report "+reportID)
	}
	report := mapping.ToDomainReportCache(m)
	return &report, nil
}

func (r *reportingRepository) SaveSnapshot(ctx context.Context, snapshot domain.ReportSnapshot) error {
	m := mapping.ToModelReportSnapshot(snapshot)
	_, err := r.db(ctx).Exec(ctx, `
		INSERT INTO report_snapshots (`+snapshotColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.SnapshotID, m.ReportType, m.AsOf, m.Payload, m.CreatedAt, m.CreatedBy)
	if err != nil {
		if pgCode(err) == codeUniqueViolation {
			return fmt.Errorf("%w: snapshot %s", apperrors.ErrDuplicate, m.SnapshotID)
		}
		return apperrors.NewAppError(500, "failed to save snapshot "+m.SnapshotID, err)
	}
	return nil
}

func (r *reportingRepository) FindLatestSnapshotBefore(ctx context.Context, reportType domain.ReportType, before time.Time) (*domain.ReportSnapshot, error) {
	rows, err := r.db(ctx).Query(ctx, `
		SELECT `+snapshotColumns+`
		FROM report_snapshots
		WHERE report_type = $1 AND as_of < $2
		ORDER BY as_of DESC, created_at DESC
		LIMIT 1`, string(reportType), before)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query snapshots", err)
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.ReportSnapshot])
	if err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("%s snapshot before %s", reportType, before.Format(time.RFC3339)))
	}
	snap := mapping.ToDomainReportSnapshot(m)
	return &snap, nil
}

func (r *reportingRepository) ListSnapshots(ctx context.Context, reportType domain.ReportType, limit int) ([]domain.ReportSnapshot, error) {
	rows, err := r.db(ctx).Query(ctx, `
		SELECT `+snapshotColumns+`
		FROM report_snapshots
		WHERE ($1 = '' OR report_type = $1)
		ORDER BY as_of DESC, created_at DESC
		LIMIT $2`, string(reportType), limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query snapshots", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ReportSnapshot])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan snapshots", err)
	}
	out := make([]domain.ReportSnapshot, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainReportSnapshot(m)
	}
	return out, nil
}
