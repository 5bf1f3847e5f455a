package mapping

import (
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/SscSPs/coop_ledger/internal/models"
)

// ToModelReportCache converts a domain ReportCache to a model ReportCache
func ToModelReportCache(d domain.ReportCache) models.ReportCache {
	return models.ReportCache{
		ReportID:    d.ReportID,
		ReportType:  string(d.ReportType),
		PeriodStart: d.PeriodStart,
		PeriodEnd:   d.PeriodEnd,
		Payload:     d.Payload,
		CreatedAt:   d.CreatedAt,
	}
}

// ToDomainReportCache converts a model ReportCache to a domain ReportCache
func ToDomainReportCache(m models.ReportCache) domain.ReportCache {
	return domain.ReportCache{
		ReportID:    m.ReportID,
		ReportType:  domain.ReportType(m.ReportType),
		PeriodStart: m.PeriodStart,
		PeriodEnd:   m.PeriodEnd,
		Payload:     m.Payload,
		CreatedAt:   m.CreatedAt,
	}
}

// ToModelReportSnapshot converts a domain ReportSnapshot to a model ReportSnapshot
func ToModelReportSnapshot(d domain.ReportSnapshot) models.ReportSnapshot {
	return models.ReportSnapshot{
		SnapshotID: d.SnapshotID,
		ReportType: string(d.ReportType),
		AsOf:       d.AsOf,
		Payload:    d.Payload,
		CreatedAt:  d.CreatedAt,
		CreatedBy:  d.CreatedBy,
	}
}

// ToDomainReportSnapshot converts a model ReportSnapshot to a domain ReportSnapshot
func ToDomainReportSnapshot(m models.ReportSnapshot) domain.ReportSnapshot {
	return domain.ReportSnapshot{
		SnapshotID: m.SnapshotID,
		ReportType: domain.ReportType(m.ReportType),
		AsOf:       m.AsOf,
		Payload:    m.Payload,
		CreatedAt:  m.CreatedAt,
		CreatedBy:  m.CreatedBy,
	}
}
