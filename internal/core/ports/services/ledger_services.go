package services

import (
	"context"
	"time"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/SscSPs/coop_ledger/internal/dto"
)

// LedgerReaderSvc defines read operations on the journal
type LedgerReaderSvc interface {
	GetEntry(ctx context.Context, journalID string) (*domain.JournalEntry, error)
	FindEntryByPaymentID(ctx context.Context, paymentID string) (*domain.JournalEntry, error)
	// ListEntries returns one page and the cursor of the next, nil on the last page.
	ListEntries(ctx context.Context, q domain.EntryQuery) ([]domain.JournalEntry, *domain.EntryCursor, error)
	LinesInRange(ctx context.Context, accountID *string, from, to *time.Time) ([]domain.MirroredLine, error)
}

// LedgerWriterSvc defines write operations on the journal
type LedgerWriterSvc interface {
	// AppendEntry stores an entry and mirrors its lines. Balance is not enforced here.
	AppendEntry(ctx context.Context, entry domain.JournalEntry) error

	// RemirrorEntry rewrites the mirror of an existing entry; repeated calls converge.
	RemirrorEntry(ctx context.Context, journalID string) error

	// CreateManualEntry validates and numbers an operator-entered entry.
	CreateManualEntry(ctx context.Context, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error)
}

// LedgerSvcFacade combines ledger reads and writes
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
