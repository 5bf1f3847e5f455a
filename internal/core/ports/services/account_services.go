package services

import (
	"context"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/SscSPs/coop_ledger/internal/dto"
)

// AccountReaderSvc defines read operations for the chart of accounts
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ResolveMainAccountByName prefers the canonical row of main, then any row
	// with that main. Missing mains yield ErrAccountNotFound.
	ResolveMainAccountByName(ctx context.Context, main string) (*domain.Account, error)

	// ListAccounts returns the chart ordered by code.
	ListAccounts(ctx context.Context, includeArchived bool) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for the chart of accounts
type AccountWriterSvc interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// ArchiveAccount marks an account as archived.
	ArchiveAccount(ctx context.Context, accountID string, userID string) error

	// GetOrCreateMemberSubaccount finds or creates the member's sub-account of main.
	// Concurrent callers for the same member converge on one row.
	GetOrCreateMemberSubaccount(ctx context.Context, main, memberRef, memberName string) (*domain.Account, error)

	// EnsureCanonicalAccounts seeds DefaultChart rows that are missing and
	// returns how many were created.
	EnsureCanonicalAccounts(ctx context.Context) (int, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
