package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindEntryByID retrieves a journal entry with its lines.
	FindEntryByID(ctx context.Context, journalID string) (*domain.JournalEntry, error)

	// FindEntryByPaymentID returns the entry linked to a payment, or ErrNotFound.
	FindEntryByPaymentID(ctx context.Context, paymentID string) (*domain.JournalEntry, error)

	// ListEntries returns entries matching q ordered by date then reference.
	ListEntries(ctx context.Context, q domain.EntryQuery) ([]domain.JournalEntry, error)

	// LinesInRange returns mirrored lines, optionally filtered by account, dates inclusive.
	LinesInRange(ctx context.Context, accountID *string, from, to *time.Time) ([]domain.MirroredLine, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// AppendEntry stores the entry, its lines and their mirror atomically.
	// A second entry for the same LinkedPaymentID yields ErrDuplicate.
	AppendEntry(ctx context.Context, entry domain.JournalEntry) error

	// MirrorEntry upserts the mirrored lines of entry keyed by line id.
	MirrorEntry(ctx context.Context, entry domain.JournalEntry) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
