package services

import (
	"context"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
)

// ReportingService defines operations for generating financial reports
type ReportingService interface {
	// Rebuild recomputes TB, IS, BS and CF and overwrites the four auto caches.
	Rebuild(ctx context.Context) (*domain.RebuildResult, error)

	// GetReport returns a cached report by id.
	GetReport(ctx context.Context, reportID string) (*domain.ReportCache, error)

	// SaveBalanceSheetSnapshot freezes the current balance sheet as an immutable snapshot.
	SaveBalanceSheetSnapshot(ctx context.Context, userID string) (*domain.ReportSnapshot, error)

	ListSnapshots(ctx context.Context, reportType domain.ReportType, limit int) ([]domain.ReportSnapshot, error)
}
