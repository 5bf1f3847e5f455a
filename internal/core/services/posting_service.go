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
	"github.com/SscSPs/coop_ledger/internal/platform/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultStaleAfter is how old an in-progress claim must be before another worker may take it.
const DefaultStaleAfter = 5 * time.Minute

var paymentTypeLabels = map[domain.PaymentType]string{
	domain.MembershipFee: "Membership fee",
	domain.ShareCapital:  "Share capital",
	domain.Purchase:      "Purchase",
	domain.LoanRepayment: "Loan repayment",
	domain.OtherPayment:  "Payment",
}

// postingService turns paid payments into journal entries.
type postingService struct {
	BaseService
	payments   portsrepo.PaymentRepositoryFacade
	ledger     portssvc.LedgerSvcFacade
	accounts   portssvc.AccountSvcFacade
	sequences  portssvc.SequenceSvc
	settings   portssvc.SettingsSvc
	metrics    *metrics.Metrics
	staleAfter time.Duration
}

// PostingServiceOption is a functional option for configuring the poster
type PostingServiceOption func(*postingService)

// WithPostingStaleAfter sets the age after which an in-progress claim is considered abandoned.
func WithPostingStaleAfter(d time.Duration) PostingServiceOption {
	return func(s *postingService) {
		if d > 0 {
			s.staleAfter = d
		}
	}
}

// WithPostingMetrics records posting outcomes.
func WithPostingMetrics(m *metrics.Metrics) PostingServiceOption {
	return func(s *postingService) {
		s.metrics = m
	}
}

// WithPostingClock overrides the clock, mainly for tests.
func WithPostingClock(now func() time.Time) PostingServiceOption {
	return func(s *postingService) {
		s.now = now
	}
}

// NewPostingService creates the payment poster.
func NewPostingService(
	payments portsrepo.PaymentRepositoryFacade,
	ledger portssvc.LedgerSvcFacade,
	accounts portssvc.AccountSvcFacade,
	sequences portssvc.SequenceSvc,
	settings portssvc.SettingsSvc,
	options ...PostingServiceOption,
) portssvc.PostingSvc {
	svc := &postingService{
		payments:   payments,
		ledger:     ledger,
		accounts:   accounts,
		sequences:  sequences,
		settings:   settings,
		staleAfter: DefaultStaleAfter,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.PostingSvc = (*postingService)(nil)

func (s *postingService) OnPaymentStatusChanged(ctx context.Context, before, after *domain.Payment) (*domain.PostingResult, error) {
	if after == nil {
		return nil, nil
	}
	if after.Status != domain.PaymentPaid || (before != nil && before.Status == domain.PaymentPaid) {
		return &domain.PostingResult{PaymentID: after.PaymentID, Skipped: true}, nil
	}
	return s.PostPayment(ctx, after.PaymentID)
}

func (s *postingService) PostPayment(ctx context.Context, paymentID string) (*domain.PostingResult, error) {
	logger := s.GetLogger(ctx).With(slog.String("payment_id", paymentID))

	payment, err := s.payments.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment %s: %w", paymentID, err)
	}

	if payment.Posting.Status == domain.PostingPosted {
		s.metrics.PostingOutcome(metrics.OutcomeAlreadyPosted)
		return alreadyPosted(payment, nil), nil
	}
	if payment.Status != domain.PaymentPaid {
		return nil, fmt.Errorf("%w: payment is %s, only paid payments are posted", apperrors.ErrValidation, payment.Status)
	}

	existing, err := s.ledger.FindEntryByPaymentID(ctx, paymentID)
	switch {
	case err == nil:
		// Entry exists but the payment was never marked; finish the bookkeeping only.
		// A fresh claim means the owning worker will mark it itself.
		now := s.Now()
		won, err := s.payments.ClaimPosting(ctx, paymentID, now, now.Add(-s.staleAfter))
		if err != nil {
			return nil, fmt.Errorf("failed to claim posting: %w", err)
		}
		if !won {
			s.metrics.PostingOutcome(metrics.OutcomeAlreadyPosted)
			return alreadyPosted(payment, existing), nil
		}
		receipt := ""
		if payment.ReceiptNo != nil {
			receipt = *payment.ReceiptNo
		}
		if err := s.payments.CompletePosting(ctx, paymentID, receipt, s.Now()); err != nil {
			return nil, fmt.Errorf("failed to mark payment posted: %w", err)
		}
		s.metrics.PostingOutcome(metrics.OutcomeAlreadyPosted)
		return alreadyPosted(payment, existing), nil
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, fmt.Errorf("failed to check existing journal: %w", err)
	}

	now := s.Now()
	won, err := s.payments.ClaimPosting(ctx, paymentID, now, now.Add(-s.staleAfter))
	if err != nil {
		return nil, fmt.Errorf("failed to claim posting: %w", err)
	}
	if !won {
		s.metrics.PostingOutcome(metrics.OutcomeInProgress)
		logger.Info("Posting claim lost to another worker")
		return nil, domain.ErrPostingInProgress
	}

	result, err := s.post(ctx, payment)
	if err != nil {
		s.metrics.PostingOutcome(metrics.OutcomeFailed)
		logger.Error("Payment posting failed", slog.String("error", err.Error()))
		if ferr := s.payments.FailPosting(ctx, paymentID, err.Error(), s.Now()); ferr != nil {
			logger.Error("Failed to record posting failure", slog.String("error", ferr.Error()))
		}
		return nil, err
	}

	s.metrics.PostingOutcome(metrics.OutcomePosted)
	logger.Info("Payment posted",
		slog.String("journal_id", result.JournalID),
		slog.String("ref", result.RefNumber),
		slog.String("receipt_no", result.ReceiptNo))
	return result, nil
}

func alreadyPosted(p *domain.Payment, entry *domain.JournalEntry) *domain.PostingResult {
	r := &domain.PostingResult{PaymentID: p.PaymentID, AlreadyPosted: true}
	if p.ReceiptNo != nil {
		r.ReceiptNo = *p.ReceiptNo
	}
	if p.LinkedID != nil {
		r.JournalID = *p.LinkedID
	}
	if entry != nil {
		r.JournalID = entry.JournalID
		r.RefNumber = entry.RefNumber
	}
	return r
}

// post runs after a successful claim. Any error it returns is recorded as a failed attempt.
func (s *postingService) post(ctx context.Context, p *domain.Payment) (*domain.PostingResult, error) {
	if !p.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be greater than zero", apperrors.ErrValidation)
	}
	settings, err := s.settings.AccountingSettings(ctx)
	if err != nil {
		return nil, err
	}
	lines, err := s.buildLines(ctx, p, settings)
	if err != nil {
		return nil, err
	}

	ref, err := s.sequences.NextDocumentNumber(ctx, domain.SequenceJournals)
	if err != nil {
		return nil, err
	}
	receiptNo := ""
	if p.ReceiptNo != nil {
		receiptNo = *p.ReceiptNo
	}
	if receiptNo == "" {
		if receiptNo, err = s.sequences.NextDocumentNumber(ctx, domain.SequenceReceipts); err != nil {
			return nil, err
		}
	}

	now := s.Now()
	paymentID := p.PaymentID
	entry := domain.JournalEntry{
		JournalID:       uuid.NewString(),
		RefNumber:       ref,
		Date:            now,
		Description:     describe(p),
		Lines:           lines,
		LinkedPaymentID: &paymentID,
		CreatedAt:       now,
		CreatedBy:       domain.SystemUserID,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := s.ledger.AppendEntry(ctx, entry); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("failed to append journal entry: %w", err)
		}
		// A concurrent poster got there first; adopt its entry.
		winner, ferr := s.ledger.FindEntryByPaymentID(ctx, paymentID)
		if ferr != nil {
			return nil, fmt.Errorf("failed to load existing journal entry: %w", ferr)
		}
		entry = *winner
	}

	if err := s.payments.CompletePosting(ctx, paymentID, receiptNo, s.Now()); err != nil {
		return nil, fmt.Errorf("failed to mark payment posted: %w", err)
	}

	return &domain.PostingResult{
		PaymentID: paymentID,
		JournalID: entry.JournalID,
		RefNumber: entry.RefNumber,
		ReceiptNo: receiptNo,
	}, nil
}

func describe(p *domain.Payment) string {
	label := paymentTypeLabels[p.PaymentType]
	if label == "" {
		label = "Payment"
	}
	desc := label + " " + p.ReferenceNo
	if p.MemberName != "" {
		desc += " - " + p.MemberName
	}
	return domain.CollapseSpaces(desc)
}

func debit(accountID string, amount decimal.Decimal, memo string) domain.JournalLine {
	return domain.JournalLine{AccountID: accountID, Debit: amount, Credit: decimal.Zero, Memo: memo}
}

func credit(accountID string, amount decimal.Decimal, memo string) domain.JournalLine {
	return domain.JournalLine{AccountID: accountID, Debit: decimal.Zero, Credit: amount, Memo: memo}
}

// buildLines applies the posting rule of the payment type. Cash is always debited.
func (s *postingService) buildLines(ctx context.Context, p *domain.Payment, settings domain.AccountingSettings) ([]domain.JournalLine, error) {
	cash, err := s.accounts.ResolveMainAccountByName(ctx, settings.CashAccount)
	if err != nil {
		return nil, fmt.Errorf("cash account: %w", err)
	}
	lines := []domain.JournalLine{debit(cash.AccountID, p.Amount, p.Method)}

	creditMain := func(main string) ([]domain.JournalLine, error) {
		account, err := s.accounts.ResolveMainAccountByName(ctx, main)
		if err != nil {
			return nil, err
		}
		return append(lines, credit(account.AccountID, p.Amount, "")), nil
	}

	switch p.PaymentType {
	case domain.MembershipFee:
		return creditMain(settings.MembershipFeeIncomeAccount)
	case domain.Purchase:
		return creditMain(settings.SalesRevenueAccount)
	case domain.OtherPayment:
		return creditMain(settings.OtherIncomeAccount)
	case domain.ShareCapital:
		sub, err := s.accounts.GetOrCreateMemberSubaccount(ctx, settings.ShareCapitalAccount, p.UserID, p.MemberName)
		if err != nil {
			return nil, err
		}
		return append(lines, credit(sub.AccountID, p.Amount, "")), nil
	case domain.LoanRepayment:
		principal, interest, err := LoanSplit(p)
		if err != nil {
			return nil, err
		}
		if principal.IsPositive() {
			sub, err := s.accounts.GetOrCreateMemberSubaccount(ctx, settings.LoanReceivableAccount, p.UserID, p.MemberName)
			if err != nil {
				return nil, err
			}
			lines = append(lines, credit(sub.AccountID, principal, "principal"))
		}
		if interest.IsPositive() {
			income, err := s.accounts.ResolveMainAccountByName(ctx, settings.InterestIncomeAccount)
			if err != nil {
				return nil, err
			}
			lines = append(lines, credit(income.AccountID, interest, "interest"))
		}
		return lines, nil
	}
	return nil, fmt.Errorf("%w: unsupported payment type %q", apperrors.ErrValidation, p.PaymentType)
}

// LoanSplit returns the principal and interest of a loan repayment. A missing half
// is derived from the amount; the two must add up to the amount.
func LoanSplit(p *domain.Payment) (decimal.Decimal, decimal.Decimal, error) {
	var principal, interest decimal.Decimal
	switch {
	case p.Principal == nil && p.Interest == nil:
		principal, interest = p.Amount, decimal.Zero
	case p.Principal == nil:
		interest = *p.Interest
		principal = p.Amount.Sub(interest)
	case p.Interest == nil:
		principal = *p.Principal
		interest = p.Amount.Sub(principal)
	default:
		principal, interest = *p.Principal, *p.Interest
	}
	if principal.IsNegative() || interest.IsNegative() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: principal and interest must not be negative", apperrors.ErrValidation)
	}
	if !domain.WithinTolerance(principal.Add(interest), p.Amount) {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: %s + %s != %s", domain.ErrLoanSplitMismatch,
			principal.StringFixed(2), interest.StringFixed(2), p.Amount.StringFixed(2))
	}
	return principal, interest, nil
}
