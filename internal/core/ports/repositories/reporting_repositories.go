package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
)

// ReportCacheRepository stores the overwritten auto_* report caches.
type ReportCacheRepository interface {
	SaveReportCache(ctx context.Context, report domain.ReportCache) error
	FindReportCache(ctx context.Context, reportID string) (*domain.ReportCache, error)
}

// ReportSnapshotRepository stores immutable, manually saved statements.
type ReportSnapshotRepository interface {
	SaveSnapshot(ctx context.Context, snapshot domain.ReportSnapshot) error

	// FindLatestSnapshotBefore returns the newest snapshot of reportType with AsOf < before,
	// or ErrNotFound.
	FindLatestSnapshotBefore(ctx context.Context, reportType domain.ReportType, before time.Time) (*domain.ReportSnapshot, error)

	ListSnapshots(ctx context.Context, reportType domain.ReportType, limit int) ([]domain.ReportSnapshot, error)
}

// ReportingRepositoryFacade combines cache and snapshot storage
type ReportingRepositoryFacade interface {
	ReportCacheRepository
	ReportSnapshotRepository
}
