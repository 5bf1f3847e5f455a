package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_ledger/internal/core/ports/services"
	"github.com/SscSPs/coop_ledger/internal/dto"
	"github.com/google/uuid"
)

// paymentService owns the payment lifecycle and hands paid payments to the poster.
type paymentService struct {
	BaseService
	payments portsrepo.PaymentRepositoryFacade
	posting  portssvc.PostingSvc
	settings portssvc.SettingsSvc
}

// NewPaymentService creates the payment lifecycle service.
func NewPaymentService(payments portsrepo.PaymentRepositoryFacade, posting portssvc.PostingSvc, settings portssvc.SettingsSvc) portssvc.PaymentSvcFacade {
	return &paymentService{
		payments: payments,
		posting:  posting,
		settings: settings,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

func (s *paymentService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, caller domain.Caller) (*domain.Payment, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = caller.UserID
	}
	if err := s.AuthorizeOwnerOrElevated(ctx, caller, userID); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: member user id is required", apperrors.ErrValidation)
	}
	if !req.PaymentType.Valid() {
		return nil, fmt.Errorf("%w: unknown payment type %q", apperrors.ErrValidation, req.PaymentType)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation)
	}

	paymentSettings, err := s.settings.PaymentSettings(ctx)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	paymentID := uuid.NewString()
	payment := domain.Payment{
		PaymentID:   paymentID,
		UserID:      userID,
		PaymentType: req.PaymentType,
		Amount:      req.Amount,
		Method:      strings.TrimSpace(req.Method),
		Status:      domain.PaymentPending,
		ReferenceNo: paymentSettings.ReferencePrefix + paymentID,
		MemberName: domain.ComposeDisplayName(domain.MemberName{
			FirstName:   req.FirstName,
			MiddleName:  req.MiddleName,
			LastName:    req.LastName,
			DisplayName: req.DisplayName,
		}),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.PaymentType == domain.LoanRepayment {
		payment.Principal, payment.Interest = req.Principal, req.Interest
		if req.Principal != nil || req.Interest != nil {
			if _, _, err := LoanSplit(&payment); err != nil {
				return nil, err
			}
		}
	}

	if err := s.payments.SavePayment(ctx, payment); err != nil {
		s.LogError(ctx, err, "Failed to save payment", slog.String("payment_id", paymentID))
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	s.LogInfo(ctx, "Payment created",
		slog.String("payment_id", paymentID),
		slog.String("type", string(payment.PaymentType)),
		slog.String("amount", payment.Amount.StringFixed(2)))
	return &payment, nil
}

func (s *paymentService) GetPayment(ctx context.Context, paymentID string, caller domain.Caller) (*domain.Payment, error) {
	payment, err := s.payments.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("payment %s: %w", paymentID, err)
	}
	if err := s.AuthorizeOwnerOrElevated(ctx, caller, payment.UserID); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *paymentService) ApprovePayment(ctx context.Context, paymentID string, req dto.ApprovePaymentRequest, caller domain.Caller) (*domain.PostingResult, error) {
	if err := s.AuthorizeElevated(ctx, caller); err != nil {
		return nil, err
	}
	before, err := s.payments.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("payment %s: %w", paymentID, err)
	}
	if before.Status == domain.PaymentPaid {
		return &domain.PostingResult{PaymentID: paymentID, Skipped: true}, nil
	}
	if !before.Status.CanTransitionTo(domain.PaymentPaid) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, before.Status, domain.PaymentPaid)
	}

	if before.PaymentType == domain.LoanRepayment && (req.Principal != nil || req.Interest != nil) {
		split := *before
		split.Principal, split.Interest = req.Principal, req.Interest
		principal, interest, err := LoanSplit(&split)
		if err != nil {
			return nil, err
		}
		if err := s.payments.UpdateLoanSplit(ctx, paymentID, principal, interest, s.Now()); err != nil {
			return nil, fmt.Errorf("failed to record loan split: %w", err)
		}
	}

	after, changed, err := s.markPaid(ctx, before)
	if err != nil {
		return nil, err
	}
	if !changed {
		return &domain.PostingResult{PaymentID: paymentID, Skipped: true}, nil
	}
	s.LogInfo(ctx, "Payment approved", slog.String("payment_id", paymentID), slog.String("approved_by", caller.UserID))

	result, err := s.posting.OnPaymentStatusChanged(ctx, before, after)
	if err != nil {
		return nil, fmt.Errorf("payment approved but posting failed: %w", err)
	}
	return result, nil
}

// markPaid performs the guarded pending -> paid write. changed is false when
// another writer already marked it paid.
func (s *paymentService) markPaid(ctx context.Context, before *domain.Payment) (*domain.Payment, bool, error) {
	ok, err := s.payments.TransitionStatus(ctx, before.PaymentID, before.Status, domain.PaymentPaid, s.Now())
	if err != nil {
		return nil, false, fmt.Errorf("failed to mark payment paid: %w", err)
	}
	after, err := s.payments.FindPaymentByID(ctx, before.PaymentID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to reload payment: %w", err)
	}
	if !ok {
		if after.Status == domain.PaymentPaid {
			return after, false, nil
		}
		return nil, false, fmt.Errorf("%w: payment is now %s", apperrors.ErrConflict, after.Status)
	}
	return after, true, nil
}

func (s *paymentService) MarkPaidFromGateway(ctx context.Context, paymentID string) (*domain.Payment, bool, error) {
	before, err := s.payments.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, false, fmt.Errorf("payment %s: %w", paymentID, err)
	}
	if before.Status == domain.PaymentPaid {
		return before, false, nil
	}
	if !before.Status.CanTransitionTo(domain.PaymentPaid) {
		return nil, false, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, before.Status, domain.PaymentPaid)
	}
	after, changed, err := s.markPaid(ctx, before)
	if err != nil || !changed {
		return after, false, err
	}
	s.LogInfo(ctx, "Payment marked paid by gateway", slog.String("payment_id", paymentID))

	// The sweeper picks up failed postings, so the confirmation itself still succeeds.
	if _, err := s.posting.OnPaymentStatusChanged(ctx, before, after); err != nil {
		s.LogError(ctx, err, "Posting after gateway confirmation failed", slog.String("payment_id", paymentID))
	}
	return after, true, nil
}

func (s *paymentService) RejectPayment(ctx context.Context, paymentID string, caller domain.Caller) (*domain.Payment, error) {
	if err := s.AuthorizeElevated(ctx, caller); err != nil {
		return nil, err
	}
	return s.transition(ctx, paymentID, domain.PaymentRejected)
}

func (s *paymentService) VoidPayment(ctx context.Context, paymentID string, caller domain.Caller) (*domain.Payment, error) {
	payment, err := s.payments.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("payment %s: %w", paymentID, err)
	}
	if err := s.AuthorizeOwnerOrElevated(ctx, caller, payment.UserID); err != nil {
		return nil, err
	}
	return s.transition(ctx, paymentID, domain.PaymentVoided)
}

func (s *paymentService) RefundPayment(ctx context.Context, paymentID string, caller domain.Caller) (*domain.Payment, error) {
	if err := s.AuthorizeElevated(ctx, caller); err != nil {
		return nil, err
	}
	return s.transition(ctx, paymentID, domain.PaymentRefunded)
}

func (s *paymentService) transition(ctx context.Context, paymentID string, to domain.PaymentStatus) (*domain.Payment, error) {
	payment, err := s.payments.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("payment %s: %w", paymentID, err)
	}
	if !payment.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, payment.Status, to)
	}
	ok, err := s.payments.TransitionStatus(ctx, paymentID, payment.Status, to, s.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: payment status changed concurrently", apperrors.ErrConflict)
	}
	s.LogInfo(ctx, "Payment status changed",
		slog.String("payment_id", paymentID),
		slog.String("from", string(payment.Status)),
		slog.String("to", string(to)))
	return s.payments.FindPaymentByID(ctx, paymentID)
}

func (s *paymentService) RepostPayment(ctx context.Context, paymentID string, caller domain.Caller) (*domain.PostingResult, error) {
	if err := s.AuthorizeElevated(ctx, caller); err != nil {
		return nil, err
	}
	return s.posting.PostPayment(ctx, paymentID)
}
