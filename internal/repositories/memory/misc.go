package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
)

func (s *Store) NextValue(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.sequences[name]
	if v < 1 {
		v = 1
	}
	s.sequences[name] = v + 1
	return v, nil
}

func (s *Store) SaveReportCache(_ context.Context, report domain.ReportCache) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	report.Payload = append(json.RawMessage(nil), report.Payload...)
	s.caches[report.ReportID] = report
	return nil
}

func (s *Store) FindReportCache(_ context.Context, reportID string) (*domain.ReportCache, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.caches[reportID]
	if !ok {
		return nil, fmt.Errorf("%w: report %s", apperrors.ErrNotFound, reportID)
	}
	return &r, nil
}

func (s *Store) SaveSnapshot(_ context.Context, snapshot domain.ReportSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.snapshots {
		if existing.SnapshotID == snapshot.SnapshotID {
			return fmt.Errorf("%w: snapshot %s", apperrors.ErrDuplicate, snapshot.SnapshotID)
		}
	}
	snapshot.Payload = append(json.RawMessage(nil), snapshot.Payload...)
	s.snapshots = append(s.snapshots, snapshot)
	return nil
}

// snapshotsOf returns snapshots of t, newest AsOf first. Caller holds mu.
func (s *Store) snapshotsOf(t domain.ReportType) []domain.ReportSnapshot {
	var out []domain.ReportSnapshot
	for _, snap := range s.snapshots {
		if snap.ReportType == t {
			out = append(out, snap)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].AsOf.Equal(out[j].AsOf) {
			return out[i].AsOf.After(out[j].AsOf)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *Store) FindLatestSnapshotBefore(_ context.Context, reportType domain.ReportType, before time.Time) (*domain.ReportSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, snap := range s.snapshotsOf(reportType) {
		if snap.AsOf.Before(before) {
			return &snap, nil
		}
	}
	return nil, fmt.Errorf("%w: no %s snapshot before %s", apperrors.ErrNotFound, reportType, before.Format(time.RFC3339))
}

func (s *Store) ListSnapshots(_ context.Context, reportType domain.ReportType, limit int) ([]domain.ReportSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.snapshotsOf(reportType)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) LoadSettings(_ context.Context, key string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.settings[key]
	if !ok {
		return nil, fmt.Errorf("%w: settings %s", apperrors.ErrNotFound, key)
	}
	return append(json.RawMessage(nil), v...), nil
}

func (s *Store) SaveSettings(_ context.Context, key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings[key] = append([]byte(nil), value...)
	return nil
}
