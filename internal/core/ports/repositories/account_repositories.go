package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
)

// AccountReader defines read operations for the chart of accounts
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByMain returns every row whose main matches (trimmed, case-insensitive),
	// canonical rows first.
	FindAccountsByMain(ctx context.Context, main string) ([]domain.Account, error)

	// FindAccountByOwner returns the sub-account of main owned by ownerRef.
	FindAccountByOwner(ctx context.Context, main, ownerRef string) (*domain.Account, error)

	// FindAccountByName returns the (main, individual) row, both compared case-insensitively.
	FindAccountByName(ctx context.Context, main, individual string) (*domain.Account, error)

	// ListAccounts returns the chart ordered by code then name.
	ListAccounts(ctx context.Context, includeArchived bool) ([]domain.Account, error)

	// ListSiblingCodes returns up to limit codes of rows sharing main, highest first.
	ListSiblingCodes(ctx context.Context, main string, limit int) ([]int, error)
}

// AccountWriter defines write operations for the chart of accounts
type AccountWriter interface {
	// SaveAccount persists a new account. A clash on (main, owner) yields ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error

	// ArchiveAccount hides an account from new postings.
	ArchiveAccount(ctx context.Context, accountID string, userID string, now time.Time) error
}

// AccountLocker serialises sub-account creation for one member.
type AccountLocker interface {
	// WithMemberLock runs fn while holding an exclusive lock on (main, ownerRef).
	// Reads and writes issued through the ctx passed to fn share one transaction.
	WithMemberLock(ctx context.Context, main, ownerRef string, fn func(ctx context.Context) error) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountLocker
}
