package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_ledger/internal/core/ports/services"
	"github.com/SscSPs/coop_ledger/internal/dto"
	"github.com/google/uuid"
)

// siblingCodeWindow is how many recent sibling codes are scanned for the next free code.
const siblingCodeWindow = 25

// accountServiceImpl implements the AccountSvcFacade interface
type accountServiceImpl struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountServiceImpl)

// WithAccountClock overrides the clock used for audit fields.
func WithAccountClock(now func() time.Time) AccountServiceOption {
	return func(s *accountServiceImpl) {
		s.now = now
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountServiceImpl{
		accountRepo: repo,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure accountServiceImpl implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountServiceImpl)(nil)

func (s *accountServiceImpl) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	accountType := req.AccountType.Normalize()
	if !accountType.Valid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}
	main := domain.CollapseSpaces(req.Main)
	if main == "" {
		return nil, fmt.Errorf("%w: main name is required", apperrors.ErrValidation)
	}
	if req.Code != nil {
		r, _ := domain.CodeRangeFor(accountType)
		if !r.Contains(*req.Code) {
			return nil, fmt.Errorf("%w: code %d outside %d-%d for %s", apperrors.ErrValidation, *req.Code, r.From, r.To, accountType)
		}
	}

	now := s.Now()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		Code:        req.Code,
		Main:        main,
		Individual:  domain.CollapseSpaces(req.Individual),
		AccountType: accountType,
		Role:        req.Role,
		OwnerRef:    strings.TrimSpace(req.OwnerRef),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("main", main))
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("name", account.DisplayName()))
	return &account, nil
}

func (s *accountServiceImpl) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("account %s: %w", accountID, domain.ErrAccountNotFound)
		}
		s.LogError(ctx, err, "Failed to get account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

func (s *accountServiceImpl) ListAccounts(ctx context.Context, includeArchived bool) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, includeArchived)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (s *accountServiceImpl) ArchiveAccount(ctx context.Context, accountID string, userID string) error {
	if _, err := s.GetAccountByID(ctx, accountID); err != nil {
		return err
	}
	if err := s.accountRepo.ArchiveAccount(ctx, accountID, userID, s.Now()); err != nil {
		s.LogError(ctx, err, "Failed to archive account", slog.String("account_id", accountID))
		return fmt.Errorf("failed to archive account: %w", err)
	}
	return nil
}

func (s *accountServiceImpl) ResolveMainAccountByName(ctx context.Context, main string) (*domain.Account, error) {
	if strings.TrimSpace(main) == "" {
		return nil, fmt.Errorf("%w: main account name is empty", apperrors.ErrValidation)
	}
	rows, err := s.accountRepo.FindAccountsByMain(ctx, main)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account %q: %w", main, err)
	}
	for i := range rows {
		if rows[i].IsCanonical() {
			return &rows[i], nil
		}
	}
	if len(rows) > 0 {
		return &rows[0], nil
	}
	return nil, fmt.Errorf("%q: %w", main, domain.ErrAccountNotFound)
}

func (s *accountServiceImpl) GetOrCreateMemberSubaccount(ctx context.Context, main, memberRef, memberName string) (*domain.Account, error) {
	memberRef = strings.TrimSpace(memberRef)
	if memberRef == "" {
		return nil, fmt.Errorf("%w: member reference is required", apperrors.ErrValidation)
	}
	individual := domain.CollapseSpaces(memberName)
	if individual == "" {
		individual = memberRef
	}

	canonical, err := s.ResolveMainAccountByName(ctx, main)
	if err != nil {
		return nil, err
	}

	var result *domain.Account
	err = s.accountRepo.WithMemberLock(ctx, canonical.Main, memberRef, func(ctx context.Context) error {
		existing, err := s.findMemberSubaccount(ctx, canonical.Main, memberRef, individual)
		if err != nil || existing != nil {
			result = existing
			return err
		}

		codes, err := s.accountRepo.ListSiblingCodes(ctx, canonical.Main, siblingCodeWindow)
		if err != nil {
			return fmt.Errorf("failed to list sibling codes: %w", err)
		}

		now := s.Now()
		account := domain.Account{
			AccountID:   uuid.NewString(),
			Code:        nextCode(codes),
			Main:        canonical.Main,
			Individual:  individual,
			AccountType: canonical.AccountType,
			Role:        canonical.Role,
			OwnerRef:    memberRef,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     domain.SystemUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: domain.SystemUserID,
			},
		}
		if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
			return err
		}
		s.LogInfo(ctx, "Member sub-account created",
			slog.String("account_id", account.AccountID),
			slog.String("name", account.DisplayName()),
			slog.String("member_ref", memberRef))
		result = &account
		return nil
	})
	if errors.Is(err, apperrors.ErrDuplicate) {
		// Another writer won outside the lock; its row is authoritative.
		return s.accountRepo.FindAccountByOwner(ctx, canonical.Main, memberRef)
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to get or create member sub-account",
			slog.String("main", canonical.Main), slog.String("member_ref", memberRef))
		return nil, fmt.Errorf("failed to resolve member sub-account: %w", err)
	}
	return result, nil
}

// findMemberSubaccount looks up by owner, then by display name. (nil, nil) means absent.
func (s *accountServiceImpl) findMemberSubaccount(ctx context.Context, main, memberRef, individual string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByOwner(ctx, main, memberRef)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	account, err = s.accountRepo.FindAccountByName(ctx, main, individual)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	return nil, nil
}

// nextCode is one past the highest sibling code, or nil when no sibling carries one.
func nextCode(codes []int) *int {
	if len(codes) == 0 {
		return nil
	}
	highest := codes[0]
	for _, c := range codes[1:] {
		if c > highest {
			highest = c
		}
	}
	next := highest + 1
	return &next
}

func (s *accountServiceImpl) EnsureCanonicalAccounts(ctx context.Context) (int, error) {
	created := 0
	for _, c := range domain.DefaultChart {
		rows, err := s.accountRepo.FindAccountsByMain(ctx, c.Main)
		if err != nil {
			return created, fmt.Errorf("failed to check account %q: %w", c.Main, err)
		}
		if hasCanonical(rows) {
			continue
		}
		code := c.Code
		now := s.Now()
		account := domain.Account{
			AccountID:   uuid.NewString(),
			Code:        &code,
			Main:        c.Main,
			AccountType: c.AccountType,
			Role:        c.Role,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     domain.SystemUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: domain.SystemUserID,
			},
		}
		if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				continue
			}
			return created, fmt.Errorf("failed to seed account %q: %w", c.Main, err)
		}
		created++
	}
	if created > 0 {
		s.LogInfo(ctx, "Seeded default chart of accounts", slog.Int("created", created))
	}
	return created, nil
}

func hasCanonical(rows []domain.Account) bool {
	for _, r := range rows {
		if r.IsCanonical() {
			return true
		}
	}
	return false
}
