package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a row of the payments table. Posting columns are flattened.
type Payment struct {
	PaymentID       string           `db:"payment_id"`
	UserID          string           `db:"user_id"`
	MemberName      string           `db:"member_name"`
	PaymentType     string           `db:"payment_type"`
	Amount          decimal.Decimal  `db:"amount"`
	Principal       *decimal.Decimal `db:"principal"`
	Interest        *decimal.Decimal `db:"interest"`
	Method          string           `db:"method"`
	Status          string           `db:"status"`
	PostingStatus   string           `db:"posting_status"`
	PostingAttempts int              `db:"posting_attempts"`
	PostingStarted  *time.Time       `db:"posting_started_at"`
	PostingFinished *time.Time       `db:"posting_finished_at"`
	PostingError    *string          `db:"posting_error"`
	ReceiptNo       *string          `db:"receipt_no"`
	ReferenceNo     string           `db:"reference_no"`
	LinkedID        *string          `db:"linked_id"`
	CheckoutURL     *string          `db:"checkout_url"`
	ProviderID      *string          `db:"provider_id"`
	CreatedAt       time.Time        `db:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at"`
}
