package dto

import (
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest defines the data needed to record a member payment.
type CreatePaymentRequest struct {
	UserID      string             `json:"userID"` // Defaults to the caller
	PaymentType domain.PaymentType `json:"type" binding:"required,oneof=membership_fee share_capital purchase loan_repayment other"`
	Amount      decimal.Decimal    `json:"amount" binding:"decimal_gt0"`
	Method      string             `json:"method" binding:"required"`
	Principal   *decimal.Decimal   `json:"principal"`
	Interest    *decimal.Decimal   `json:"interest"`
	FirstName   string             `json:"firstName"`
	MiddleName  string             `json:"middleName"`
	LastName    string             `json:"lastName"`
	DisplayName string             `json:"displayName"`
}

// ApprovePaymentRequest optionally carries the loan split decided at approval.
type ApprovePaymentRequest struct {
	Principal *decimal.Decimal `json:"principal"`
	Interest  *decimal.Decimal `json:"interest"`
}

// CheckoutRequest asks the gateway for a hosted checkout.
type CheckoutRequest struct {
	ReturnURL string `json:"returnUrl"`
	Method    string `json:"method"`
}

// CheckoutResponse is returned by the checkout endpoint.
type CheckoutResponse struct {
	OK         bool   `json:"ok"`
	URL        string `json:"url"`
	ProviderID string `json:"providerId"`
}

// PostingResponse is returned by approve and repost.
type PostingResponse struct {
	OK bool `json:"ok"`
	domain.PostingResult
}

// ToPostingResponse wraps a posting result.
func ToPostingResponse(r *domain.PostingResult) PostingResponse {
	return PostingResponse{OK: true, PostingResult: *r}
}
