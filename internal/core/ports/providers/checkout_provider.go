package providers

import (
	"context"

	"github.com/shopspring/decimal"
)

// CheckoutParams is everything a provider needs to open a hosted checkout.
type CheckoutParams struct {
	BaseURL     string
	SecretKey   string
	PaymentID   string
	ReferenceNo string
	Description string
	Amount      decimal.Decimal
	Currency    string
	Method      string
	SuccessURL  string
	CancelURL   string
}

// CheckoutResult is the provider's answer.
type CheckoutResult struct {
	ProviderID  string
	CheckoutURL string
}

// CheckoutProvider opens checkout sessions with an external payment provider.
type CheckoutProvider interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutResult, error)
}
