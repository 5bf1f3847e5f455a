package mapping

import (
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/SscSPs/coop_ledger/internal/models"
)

// ToModelJournalEntry converts a domain entry into its header row and line rows.
func ToModelJournalEntry(d domain.JournalEntry) (models.JournalEntry, []models.JournalLine) {
	entry := models.JournalEntry{
		JournalID:       d.JournalID,
		RefNumber:       d.RefNumber,
		EntryDate:       d.Date,
		Description:     d.Description,
		LinkedPaymentID: d.LinkedPaymentID,
		CreatedAt:       d.CreatedAt,
		CreatedBy:       d.CreatedBy,
	}
	lines := make([]models.JournalLine, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = models.JournalLine{
			JournalID: d.JournalID,
			LineIndex: i,
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
		}
	}
	return entry, lines
}

// ToDomainJournalEntry rebuilds a domain entry. lines must be ordered by LineIndex.
func ToDomainJournalEntry(m models.JournalEntry, lines []models.JournalLine) domain.JournalEntry {
	d := domain.JournalEntry{
		JournalID:       m.JournalID,
		RefNumber:       m.RefNumber,
		Date:            m.EntryDate,
		Description:     m.Description,
		LinkedPaymentID: m.LinkedPaymentID,
		CreatedAt:       m.CreatedAt,
		CreatedBy:       m.CreatedBy,
		Lines:           make([]domain.JournalLine, len(lines)),
	}
	for i, l := range lines {
		d.Lines[i] = domain.JournalLine{
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
		}
	}
	return d
}

// ToModelMirroredLine converts a domain mirrored line to its row.
func ToModelMirroredLine(d domain.MirroredLine) models.MirroredLine {
	return models.MirroredLine{
		LineID:    d.LineID,
		JournalID: d.JournalID,
		LineIndex: d.LineIndex,
		AccountID: d.AccountID,
		EntryDate: d.Date,
		Debit:     d.Debit,
		Credit:    d.Credit,
	}
}

// ToDomainMirroredLine converts a mirror row to a domain line.
func ToDomainMirroredLine(m models.MirroredLine) domain.MirroredLine {
	return domain.MirroredLine{
		LineID:    m.LineID,
		JournalID: m.JournalID,
		LineIndex: m.LineIndex,
		AccountID: m.AccountID,
		Date:      m.EntryDate,
		Debit:     m.Debit,
		Credit:    m.Credit,
	}
}
