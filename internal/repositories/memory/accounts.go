package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
)

func mainKey(main string) string {
	return strings.ToLower(strings.TrimSpace(main))
}

func (s *Store) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", accountID, domain.ErrAccountNotFound)
	}
	return &a, nil
}

func (s *Store) FindAccountsByMain(_ context.Context, main string) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Account
	for _, a := range s.accounts {
		if domain.SameMain(a.Main, main) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := out[i].IsCanonical(), out[j].IsCanonical()
		if ci != cj {
			return ci
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) FindAccountByOwner(_ context.Context, main, ownerRef string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if a.OwnerRef != "" && a.OwnerRef == ownerRef && domain.SameMain(a.Main, main) {
			return &a, nil
		}
	}
	return nil, fmt.Errorf("%s/%s: %w", main, ownerRef, domain.ErrAccountNotFound)
}

func (s *Store) FindAccountByName(_ context.Context, main, individual string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if domain.SameMain(a.Main, main) && strings.EqualFold(strings.TrimSpace(a.Individual), strings.TrimSpace(individual)) {
			return &a, nil
		}
	}
	return nil, fmt.Errorf("%s - %s: %w", main, individual, domain.ErrAccountNotFound)
}

func (s *Store) ListAccounts(_ context.Context, includeArchived bool) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		if a.Archived && !includeArchived {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		ci, cj := out[i].Code, out[j].Code
		switch {
		case ci != nil && cj != nil && *ci != *cj:
			return *ci < *cj
		case ci != nil && cj == nil:
			return true
		case ci == nil && cj != nil:
			return false
		}
		return out[i].DisplayName() < out[j].DisplayName()
	})
	return out, nil
}

func (s *Store) ListSiblingCodes(_ context.Context, main string, limit int) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var codes []int
	for _, a := range s.accounts {
		if a.Code != nil && domain.SameMain(a.Main, main) {
			codes = append(codes, *a.Code)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(codes)))
	if limit > 0 && len(codes) > limit {
		codes = codes[:limit]
	}
	return codes, nil
}

// SaveAccount enforces the same uniqueness as the SQL schema: one canonical row
// per main and one sub-account per (main, owner).
func (s *Store) SaveAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.AccountID]; exists {
		return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
	}
	for _, a := range s.accounts {
		if !domain.SameMain(a.Main, account.Main) {
			continue
		}
		if account.IsCanonical() && a.IsCanonical() {
			return fmt.Errorf("%w: canonical account %q", apperrors.ErrDuplicate, account.Main)
		}
		if account.OwnerRef != "" && a.OwnerRef == account.OwnerRef {
			return fmt.Errorf("%w: %q already has a sub-account for %s", apperrors.ErrDuplicate, account.Main, account.OwnerRef)
		}
	}
	s.accounts[account.AccountID] = account
	return nil
}

func (s *Store) ArchiveAccount(_ context.Context, accountID string, userID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[accountID]
	if !ok {
		return fmt.Errorf("%s: %w", accountID, domain.ErrAccountNotFound)
	}
	a.Archived = true
	a.LastUpdatedAt = now
	a.LastUpdatedBy = userID
	s.accounts[accountID] = a
	return nil
}

func (s *Store) WithMemberLock(ctx context.Context, main, ownerRef string, fn func(ctx context.Context) error) error {
	key := mainKey(main) + "\x00" + ownerRef

	s.lockMu.Lock()
	l, ok := s.memberLocks[key]
	if !ok {
		l = &sync.Mutex{}
		s.memberLocks[key] = l
	}
	s.lockMu.Unlock()

	l.Lock()
	defer l.Unlock()
	return fn(ctx)
}
