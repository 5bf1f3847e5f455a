package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

func notFoundPayment(key string) error {
	return fmt.Errorf("%w: payment %s", apperrors.ErrNotFound, key)
}

func (s *Store) FindPaymentByID(_ context.Context, paymentID string) (*domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payments[paymentID]
	if !ok {
		return nil, notFoundPayment(paymentID)
	}
	return &p, nil
}

func (s *Store) FindPaymentByReference(_ context.Context, referenceNo string) (*domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ref := strings.TrimSpace(referenceNo)
	for _, p := range s.payments {
		if ref != "" && strings.EqualFold(p.ReferenceNo, ref) {
			return &p, nil
		}
	}
	return nil, notFoundPayment(referenceNo)
}

func (s *Store) ListPaidPayments(_ context.Context, maxAttempts, limit int) ([]domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Payment
	for _, p := range s.payments {
		if p.Status == domain.PaymentPaid {
			out = append(out, p)
		}
	}
	pending := func(p domain.Payment) bool {
		return p.Posting.Status != domain.PostingPosted && p.Posting.Attempts < maxAttempts
	}
	sort.Slice(out, func(i, j int) bool {
		if pi, pj := pending(out[i]), pending(out[j]); pi != pj {
			return pi
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].PaymentID < out[j].PaymentID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) SavePayment(_ context.Context, payment domain.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.payments[payment.PaymentID]; exists {
		return fmt.Errorf("%w: payment %s", apperrors.ErrDuplicate, payment.PaymentID)
	}
	s.payments[payment.PaymentID] = payment
	return nil
}

// update applies fn to the stored payment under the write lock.
func (s *Store) update(paymentID string, fn func(p *domain.Payment) bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[paymentID]
	if !ok {
		return false, notFoundPayment(paymentID)
	}
	if !fn(&p) {
		return false, nil
	}
	s.payments[paymentID] = p
	return true, nil
}

func (s *Store) TransitionStatus(_ context.Context, paymentID string, from, to domain.PaymentStatus, now time.Time) (bool, error) {
	return s.update(paymentID, func(p *domain.Payment) bool {
		if p.Status != from {
			return false
		}
		p.Status = to
		p.UpdatedAt = now
		return true
	})
}

func (s *Store) UpdateLoanSplit(_ context.Context, paymentID string, principal, interest decimal.Decimal, now time.Time) error {
	_, err := s.update(paymentID, func(p *domain.Payment) bool {
		p.Principal, p.Interest = &principal, &interest
		p.UpdatedAt = now
		return true
	})
	return err
}

func (s *Store) UpdateCheckout(_ context.Context, paymentID, checkoutURL, providerID string, now time.Time) error {
	_, err := s.update(paymentID, func(p *domain.Payment) bool {
		p.CheckoutURL, p.ProviderID = &checkoutURL, &providerID
		p.UpdatedAt = now
		return true
	})
	return err
}

func (s *Store) ClaimPosting(_ context.Context, paymentID string, now, staleBefore time.Time) (bool, error) {
	return s.update(paymentID, func(p *domain.Payment) bool {
		if p.Status != domain.PaymentPaid {
			return false
		}
		switch p.Posting.Status {
		case domain.PostingNone, domain.PostingFailed:
		case domain.PostingInProgress:
			if p.Posting.LastStartedAt != nil && !p.Posting.LastStartedAt.Before(staleBefore) {
				return false
			}
		default:
			return false
		}
		started := now
		p.Posting.Status = domain.PostingInProgress
		p.Posting.LastStartedAt = &started
		p.UpdatedAt = now
		return true
	})
}

func (s *Store) CompletePosting(_ context.Context, paymentID string, receiptNo string, now time.Time) error {
	_, err := s.update(paymentID, func(p *domain.Payment) bool {
		finished := now
		p.Posting.Status = domain.PostingPosted
		p.Posting.Attempts++
		p.Posting.LastFinishedAt = &finished
		p.Posting.Error = ""
		if receiptNo != "" {
			r := receiptNo
			p.ReceiptNo = &r
		}
		p.UpdatedAt = now
		return true
	})
	return err
}

func (s *Store) FailPosting(_ context.Context, paymentID string, errMsg string, now time.Time) error {
	_, err := s.update(paymentID, func(p *domain.Payment) bool {
		finished := now
		p.Posting.Status = domain.PostingFailed
		p.Posting.Attempts++
		p.Posting.LastFinishedAt = &finished
		p.Posting.Error = errMsg
		p.UpdatedAt = now
		return true
	})
	return err
}
