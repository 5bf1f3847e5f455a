package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_ledger/internal/core/ports/services"
	"github.com/SscSPs/coop_ledger/internal/dto"
	"github.com/google/uuid"
)

// Page sizes for ListEntries.
const (
	DefaultEntryPageSize = 50
	MaxEntryPageSize     = 200
)

// ledgerService provides core ledger operations.
type ledgerService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountReader
	sequences   portssvc.SequenceSvc
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(
	journalRepo portsrepo.JournalRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	sequences portssvc.SequenceSvc,
) portssvc.LedgerSvcFacade {
	return &ledgerService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		sequences:   sequences,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) AppendEntry(ctx context.Context, entry domain.JournalEntry) error {
	if entry.JournalID == "" {
		return fmt.Errorf("%w: journal id is required", apperrors.ErrValidation)
	}
	if err := s.journalRepo.AppendEntry(ctx, entry); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to append journal entry", slog.String("journal_id", entry.JournalID))
		}
		return err
	}
	return nil
}

func (s *ledgerService) RemirrorEntry(ctx context.Context, journalID string) error {
	entry, err := s.GetEntry(ctx, journalID)
	if err != nil {
		return err
	}
	if err := s.journalRepo.MirrorEntry(ctx, *entry); err != nil {
		s.LogError(ctx, err, "Failed to mirror journal entry", slog.String("journal_id", journalID))
		return fmt.Errorf("failed to mirror journal %s: %w", journalID, err)
	}
	return nil
}

func (s *ledgerService) GetEntry(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get journal %s: %w", journalID, err)
	}
	return entry, nil
}

func (s *ledgerService) FindEntryByPaymentID(ctx context.Context, paymentID string) (*domain.JournalEntry, error) {
	return s.journalRepo.FindEntryByPaymentID(ctx, paymentID)
}

func (s *ledgerService) ListEntries(ctx context.Context, q domain.EntryQuery) ([]domain.JournalEntry, *domain.EntryCursor, error) {
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return nil, nil, fmt.Errorf("%w: from is after to", apperrors.ErrValidation)
	}
	if q.Limit <= 0 || q.Limit > MaxEntryPageSize {
		q.Limit = DefaultEntryPageSize
	}
	pageSize := q.Limit
	// One extra row tells us whether another page exists.
	q.Limit++
	entries, err := s.journalRepo.ListEntries(ctx, q)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries")
		return nil, nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	if len(entries) <= pageSize {
		return entries, nil, nil
	}
	entries = entries[:pageSize]
	last := entries[pageSize-1]
	return entries, &domain.EntryCursor{Date: last.Date, RefNumber: last.RefNumber}, nil
}

func (s *ledgerService) LinesInRange(ctx context.Context, accountID *string, from, to *time.Time) ([]domain.MirroredLine, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, fmt.Errorf("%w: from is after to", apperrors.ErrValidation)
	}
	lines, err := s.journalRepo.LinesInRange(ctx, accountID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to query journal lines")
		return nil, fmt.Errorf("failed to query journal lines: %w", err)
	}
	return lines, nil
}

func (s *ledgerService) CreateManualEntry(ctx context.Context, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	entry := domain.JournalEntry{
		JournalID:   uuid.NewString(),
		Date:        req.Date,
		Description: domain.CollapseSpaces(req.Description),
		CreatedAt:   s.Now(),
		CreatedBy:   userID,
	}
	for _, l := range req.Lines {
		entry.Lines = append(entry.Lines, domain.JournalLine{
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
		})
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	for _, l := range entry.Lines {
		account, err := s.accountRepo.FindAccountByID(ctx, l.AccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: account %s does not exist", apperrors.ErrValidation, l.AccountID)
			}
			return nil, err
		}
		if account.Archived {
			return nil, fmt.Errorf("%w: account %s is archived", apperrors.ErrValidation, account.DisplayName())
		}
	}

	ref, err := s.sequences.NextDocumentNumber(ctx, domain.SequenceJournals)
	if err != nil {
		return nil, err
	}
	entry.RefNumber = ref

	if err := s.AppendEntry(ctx, entry); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Manual journal entry recorded", slog.String("journal_id", entry.JournalID), slog.String("ref", ref))
	return &entry, nil
}
