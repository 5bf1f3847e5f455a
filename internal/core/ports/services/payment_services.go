package services

import (
	"context"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/SscSPs/coop_ledger/internal/dto"
)

// PostingSvc converts paid payments into journal entries exactly once.
type PostingSvc interface {
	PostPayment(ctx context.Context, paymentID string) (*domain.PostingResult, error)

	// OnPaymentStatusChanged posts only when the status moved into paid.
	OnPaymentStatusChanged(ctx context.Context, before, after *domain.Payment) (*domain.PostingResult, error)
}

// SweeperSvc retries failed or stuck postings.
type SweeperSvc interface {
	Sweep(ctx context.Context) (domain.SweepResult, error)
}

// PaymentReaderSvc defines read operations for payments
type PaymentReaderSvc interface {
	GetPayment(ctx context.Context, paymentID string, caller domain.Caller) (*domain.Payment, error)
}

// PaymentWriterSvc defines the payment lifecycle operations
type PaymentWriterSvc interface {
	CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, caller domain.Caller) (*domain.Payment, error)

	// ApprovePayment moves pending -> paid and triggers posting.
	ApprovePayment(ctx context.Context, paymentID string, req dto.ApprovePaymentRequest, caller domain.Caller) (*domain.PostingResult, error)

	RejectPayment(ctx context.Context, paymentID string, caller domain.Caller) (*domain.Payment, error)
	VoidPayment(ctx context.Context, paymentID string, caller domain.Caller) (*domain.Payment, error)
	RefundPayment(ctx context.Context, paymentID string, caller domain.Caller) (*domain.Payment, error)

	// RepostPayment re-runs posting on demand.
	RepostPayment(ctx context.Context, paymentID string, caller domain.Caller) (*domain.PostingResult, error)

	// MarkPaidFromGateway records a provider confirmation. It is a no-op for
	// payments already paid and reports whether the status changed.
	MarkPaidFromGateway(ctx context.Context, paymentID string) (*domain.Payment, bool, error)
}

// PaymentSvcFacade combines all payment-related service interfaces
type PaymentSvcFacade interface {
	PaymentReaderSvc
	PaymentWriterSvc
}

// GatewaySvc handles the external payment provider.
type GatewaySvc interface {
	// HandleWebhook verifies and applies a provider event.
	HandleWebhook(ctx context.Context, signatureHeader string, rawBody []byte) error

	// CreateCheckoutSession opens a hosted checkout for a pending payment.
	CreateCheckoutSession(ctx context.Context, paymentID string, req dto.CheckoutRequest, caller domain.Caller) (*domain.CheckoutSession, error)
}
