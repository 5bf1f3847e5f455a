package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

var (
	// ErrPostingInProgress means another worker holds a fresh posting claim.
	ErrPostingInProgress = fmt.Errorf("%w: posting already in progress", apperrors.ErrConflict)
	// ErrLoanSplitMismatch means principal + interest differs from the paid amount.
	ErrLoanSplitMismatch = fmt.Errorf("%w: principal plus interest must equal the amount", apperrors.ErrValidation)
	// ErrInvalidTransition is returned for lifecycle moves the state machine forbids.
	ErrInvalidTransition = fmt.Errorf("%w: payment status transition not allowed", apperrors.ErrValidation)
)

// PaymentType selects the posting rule applied to a payment.
type PaymentType string

const (
	MembershipFee PaymentType = "membership_fee"
	ShareCapital  PaymentType = "share_capital"
	Purchase      PaymentType = "purchase"
	LoanRepayment PaymentType = "loan_repayment"
	OtherPayment  PaymentType = "other"
)

// Valid reports whether t is a known payment type.
func (t PaymentType) Valid() bool {
	switch t {
	case MembershipFee, ShareCapital, Purchase, LoanRepayment, OtherPayment:
		return true
	}
	return false
}

// PaymentStatus is the business lifecycle of a payment.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRejected PaymentStatus = "rejected"
	PaymentVoided   PaymentStatus = "voided"
	PaymentRefunded PaymentStatus = "refunded"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending: {PaymentPaid, PaymentRejected, PaymentVoided},
	PaymentPaid:    {PaymentRefunded},
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PostingStatus tracks conversion of a paid payment into a journal entry.
type PostingStatus string

const (
	PostingNone       PostingStatus = ""
	PostingInProgress PostingStatus = "posting"
	PostingPosted     PostingStatus = "posted"
	PostingFailed     PostingStatus = "failed"
)

// PostingState is the poster's bookkeeping on a payment.
type PostingState struct {
	Status         PostingStatus `json:"status"`
	Attempts       int           `json:"attempts"`
	LastStartedAt  *time.Time    `json:"lastStartedAt,omitempty"`
	LastFinishedAt *time.Time    `json:"lastFinishedAt,omitempty"`
	Error          string        `json:"error,omitempty"`
}

// Payment is a member payment the core turns into a journal entry once paid.
// Principal and Interest are only meaningful for loan repayments.
type Payment struct {
	PaymentID   string           `json:"paymentID"`
	UserID      string           `json:"userID"`
	MemberName  string           `json:"memberName"`
	PaymentType PaymentType      `json:"type"`
	Amount      decimal.Decimal  `json:"amount"`
	Principal   *decimal.Decimal `json:"principal,omitempty"`
	Interest    *decimal.Decimal `json:"interest,omitempty"`
	Method      string           `json:"method"`
	Status      PaymentStatus    `json:"status"`
	Posting     PostingState     `json:"posting"`
	ReceiptNo   *string          `json:"receiptNo,omitempty"`
	ReferenceNo string           `json:"referenceNo"`
	LinkedID    *string          `json:"linkedID,omitempty"`
	CheckoutURL *string          `json:"checkoutURL,omitempty"`
	ProviderID  *string          `json:"providerID,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// PostingResult describes what a posting invocation did.
type PostingResult struct {
	PaymentID     string `json:"paymentID"`
	JournalID     string `json:"journalID,omitempty"`
	RefNumber     string `json:"refNumber,omitempty"`
	ReceiptNo     string `json:"receiptNo,omitempty"`
	AlreadyPosted bool   `json:"alreadyPosted"`
	Skipped       bool   `json:"skipped"`
}

// SweepResult summarises one sweeper run.
type SweepResult struct {
	Scanned int `json:"scanned"`
	Retried int `json:"retried"`
	Failed  int `json:"failed"`
}

// CheckoutSession is what the gateway returned for an outbound checkout call.
type CheckoutSession struct {
	OK         bool   `json:"ok"`
	URL        string `json:"url"`
	ProviderID string `json:"providerId"`
}
