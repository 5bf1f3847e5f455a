package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
)

func cloneEntry(e domain.JournalEntry) domain.JournalEntry {
	e.Lines = append([]domain.JournalLine(nil), e.Lines...)
	return e
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

func (s *Store) FindEntryByID(_ context.Context, journalID string) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[journalID]
	if !ok {
		return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, journalID)
	}
	e = cloneEntry(e)
	return &e, nil
}

func (s *Store) FindEntryByPaymentID(_ context.Context, paymentID string) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byPayment[paymentID]
	if !ok {
		return nil, fmt.Errorf("%w: no journal entry for payment %s", apperrors.ErrNotFound, paymentID)
	}
	e := cloneEntry(s.entries[id])
	return &e, nil
}

func entryBefore(aDate time.Time, aRef string, bDate time.Time, bRef string) bool {
	if !aDate.Equal(bDate) {
		return aDate.Before(bDate)
	}
	return aRef < bRef
}

func (s *Store) ListEntries(_ context.Context, q domain.EntryQuery) ([]domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.JournalEntry
	for _, e := range s.entries {
		if !inRange(e.Date, q.From, q.To) {
			continue
		}
		if q.After != nil && !entryBefore(q.After.Date, q.After.RefNumber, e.Date, e.RefNumber) {
			continue
		}
		out = append(out, cloneEntry(e))
	}
	sort.Slice(out, func(i, j int) bool {
		return entryBefore(out[i].Date, out[i].RefNumber, out[j].Date, out[j].RefNumber)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *Store) LinesInRange(_ context.Context, accountID *string, from, to *time.Time) ([]domain.MirroredLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.MirroredLine
	for _, l := range s.lines {
		if accountID != nil && l.AccountID != *accountID {
			continue
		}
		if inRange(l.Date, from, to) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].LineID < out[j].LineID
	})
	return out, nil
}

func (s *Store) AppendEntry(_ context.Context, entry domain.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[entry.JournalID]; exists {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, entry.JournalID)
	}
	if entry.LinkedPaymentID != nil {
		if _, exists := s.byPayment[*entry.LinkedPaymentID]; exists {
			return fmt.Errorf("%w: payment %s is already posted", apperrors.ErrDuplicate, *entry.LinkedPaymentID)
		}
		s.byPayment[*entry.LinkedPaymentID] = entry.JournalID
	}
	s.entries[entry.JournalID] = cloneEntry(entry)
	s.mirror(entry)
	return nil
}

func (s *Store) MirrorEntry(_ context.Context, entry domain.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mirror(entry)
	return nil
}

// mirror must be called with mu held.
func (s *Store) mirror(entry domain.JournalEntry) {
	for _, l := range entry.MirroredLines() {
		s.lines[l.LineID] = l
	}
}
