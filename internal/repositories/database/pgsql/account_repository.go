package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/coop_ledger/internal/models"
	"github.com/SscSPs/coop_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `account_id, code, main, individual, account_type, role, owner_ref, archived,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func (r *PgxAccountRepository) queryAccounts(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts", err)
	}
	modelAccs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan accounts", err)
	}
	return mapping.ToDomainAccountSlice(modelAccs), nil
}

func (r *PgxAccountRepository) queryAccount(ctx context.Context, what string, query string, args ...any) (*domain.Account, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query account", err)
	}
	modelAcc, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", what, domain.ErrAccountNotFound)
		}
		return nil, apperrors.NewAppError(500, "failed to scan account", err)
	}
	acc := mapping.ToDomainAccount(modelAcc)
	return &acc, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1`
	return r.queryAccount(ctx, accountID, query, accountID)
}

// FindAccountsByMain returns canonical rows first, then sub-accounts oldest first.
func (r *PgxAccountRepository) FindAccountsByMain(ctx context.Context, main string) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE lower(btrim(main)) = lower(btrim($1))
		ORDER BY (btrim(individual) = '') DESC, created_at ASC`
	return r.queryAccounts(ctx, query, main)
}

func (r *PgxAccountRepository) FindAccountByOwner(ctx context.Context, main, ownerRef string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE lower(btrim(main)) = lower(btrim($1)) AND owner_ref = $2`
	return r.queryAccount(ctx, main+"/"+ownerRef, query, main, ownerRef)
}

func (r *PgxAccountRepository) FindAccountByName(ctx context.Context, main, individual string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE lower(btrim(main)) = lower(btrim($1)) AND lower(btrim(individual)) = lower(btrim($2))
		ORDER BY created_at
		LIMIT 1`
	return r.queryAccount(ctx, main+" - "+individual, query, main, individual)
}

// ListAccounts returns the chart ordered by code (uncoded rows last) then name.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, includeArchived bool) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE $1 OR NOT archived
		ORDER BY code ASC NULLS LAST, main, individual`
	return r.queryAccounts(ctx, query, includeArchived)
}

func (r *PgxAccountRepository) ListSiblingCodes(ctx context.Context, main string, limit int) ([]int, error) {
	query := `
		SELECT code
		FROM accounts
		WHERE lower(btrim(main)) = lower(btrim($1)) AND code IS NOT NULL
		ORDER BY code DESC
		LIMIT $2`
	rows, err := r.db(ctx).Query(ctx, query, main, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query sibling codes", err)
	}
	codes, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan sibling codes", err)
	}
	return codes, nil
}

// SaveAccount inserts a new account. Unique indexes on the canonical row and
// on (main, owner_ref) surface as ErrDuplicate.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	modelAcc := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	// A savepoint keeps a unique violation from aborting a surrounding WithMemberLock transaction.
	return r.withTx(ctx, pgx.TxOptions{}, func(ctx context.Context) error {
		_, err := r.db(ctx).Exec(ctx, query,
			modelAcc.AccountID,
			modelAcc.Code,
			modelAcc.Main,
			modelAcc.Individual,
			modelAcc.AccountType,
			modelAcc.Role,
			modelAcc.OwnerRef,
			modelAcc.Archived,
			modelAcc.CreatedAt,
			modelAcc.CreatedBy,
			modelAcc.LastUpdatedAt,
			modelAcc.LastUpdatedBy,
		)
		if err != nil {
			if pgCode(err) == codeUniqueViolation {
				return fmt.Errorf("%w: account %s (%s)", apperrors.ErrDuplicate, modelAcc.AccountID, account.DisplayName())
			}
			return apperrors.NewAppError(500, "failed to save account "+modelAcc.AccountID, err)
		}
		return nil
	})
}

func (r *PgxAccountRepository) ArchiveAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET archived = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1`
	tag, err := r.db(ctx).Exec(ctx, query, accountID, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to archive account "+accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", accountID, domain.ErrAccountNotFound)
	}
	return nil
}

// WithMemberLock takes a transaction-scoped advisory lock keyed on the
// normalised main and owner, then runs fn inside that transaction.
func (r *PgxAccountRepository) WithMemberLock(ctx context.Context, main, ownerRef string, fn func(ctx context.Context) error) error {
	return r.withTx(ctx, pgx.TxOptions{}, func(ctx context.Context) error {
		if _, err := r.db(ctx).Exec(ctx,
			`SELECT pg_advisory_xact_lock(hashtext(lower(btrim($1)) || chr(31) || $2))`,
			main, ownerRef,
		); err != nil {
			return apperrors.NewAppError(500, "failed to take member lock", err)
		}
		return fn(ctx)
	})
}
