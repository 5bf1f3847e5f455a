package dto

import (
	"encoding/json"
	"time"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
)

// RebuildResponse is returned by the on-demand rebuild.
type RebuildResponse struct {
	OK bool `json:"ok"`
}

// ReportResponse wraps a cached or snapshot report payload.
type ReportResponse struct {
	ReportID    string            `json:"reportID"`
	ReportType  domain.ReportType `json:"type"`
	PeriodStart *time.Time        `json:"periodStart,omitempty"`
	PeriodEnd   time.Time         `json:"periodEnd"`
	CreatedAt   time.Time         `json:"createdAt"`
	Payload     json.RawMessage   `json:"payload"`
}

// ToReportResponse converts a cache row to its response.
func ToReportResponse(r *domain.ReportCache) ReportResponse {
	return ReportResponse{
		ReportID:    r.ReportID,
		ReportType:  r.ReportType,
		PeriodStart: r.PeriodStart,
		PeriodEnd:   r.PeriodEnd,
		CreatedAt:   r.CreatedAt,
		Payload:     r.Payload,
	}
}

// ListSnapshotsParams defines query parameters for listing snapshots.
type ListSnapshotsParams struct {
	Type  string `form:"type,default=BS"`
	Limit int    `form:"limit,default=20" binding:"min=1,max=100"`
}
