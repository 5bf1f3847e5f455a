package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PaymentReader defines read operations for payments
type PaymentReader interface {
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)
	FindPaymentByReference(ctx context.Context, referenceNo string) (*domain.Payment, error)

	// ListPaidPayments returns up to limit paid payments. Rows still needing a
	// posting with fewer than maxAttempts attempts come first, then the rest;
	// each group is oldest first.
	ListPaidPayments(ctx context.Context, maxAttempts, limit int) ([]domain.Payment, error)
}

// PaymentWriter defines write operations for payments
type PaymentWriter interface {
	SavePayment(ctx context.Context, payment domain.Payment) error

	// TransitionStatus moves the payment from -> to. It reports false when the
	// stored status was not from.
	TransitionStatus(ctx context.Context, paymentID string, from, to domain.PaymentStatus, now time.Time) (bool, error)

	// UpdateLoanSplit records the principal/interest split of a loan repayment.
	UpdateLoanSplit(ctx context.Context, paymentID string, principal, interest decimal.Decimal, now time.Time) error

	// UpdateCheckout stores the hosted checkout URL and provider id.
	UpdateCheckout(ctx context.Context, paymentID, checkoutURL, providerID string, now time.Time) error
}

// PostingStateWriter holds the conditional writes of the posting state machine.
type PostingStateWriter interface {
	// ClaimPosting flips posting to in-progress when the payment is paid and the
	// posting status is "", failed, or an in-progress claim started before staleBefore.
	// It reports whether this caller won the claim.
	ClaimPosting(ctx context.Context, paymentID string, now, staleBefore time.Time) (bool, error)

	// CompletePosting marks posted, bumps attempts and stores the receipt number.
	CompletePosting(ctx context.Context, paymentID string, receiptNo string, now time.Time) error

	// FailPosting marks failed, bumps attempts and stores the error text.
	FailPosting(ctx context.Context, paymentID string, errMsg string, now time.Time) error
}

// PaymentRepositoryFacade combines all payment-related repository interfaces
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
	PostingStateWriter
}
