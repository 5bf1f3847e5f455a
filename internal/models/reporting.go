package models

import "time"

// ReportCache is a row of report_caches.
type ReportCache struct {
	ReportID    string     `db:"report_id"`
	ReportType  string     `db:"report_type"`
	PeriodStart *time.Time `db:"period_start"`
	PeriodEnd   time.Time  `db:"period_end"`
	Payload     []byte     `db:"payload"`
	CreatedAt   time.Time  `db:"created_at"`
}

// ReportSnapshot is a row of report_snapshots.
type ReportSnapshot struct {
	SnapshotID string    `db:"snapshot_id"`
	ReportType string    `db:"report_type"`
	AsOf       time.Time `db:"as_of"`
	Payload    []byte    `db:"payload"`
	CreatedAt  time.Time `db:"created_at"`
	CreatedBy  string    `db:"created_by"`
}
