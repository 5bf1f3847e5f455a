package gateway

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
)

// Event types that confirm a payment.
const (
	EventPaymentPaid         = "payment.paid"
	EventCheckoutSessionPaid = "checkout_session.payment.paid"
)

// Event is the part of a provider webhook the ledger acts on.
type Event struct {
	ID              string
	Type            string
	ReferenceNumber string
	PaymentID       string // from metadata, when the provider echoes it
	Description     string
}

// IsPaid reports whether the event confirms a payment.
func (e Event) IsPaid() bool {
	return e.Type == EventPaymentPaid || e.Type == EventCheckoutSessionPaid
}

type webhookBody struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			Type string `json:"type"`
			Data struct {
				ID         string `json:"id"`
				Attributes struct {
					ReferenceNumber string            `json:"reference_number"`
					Description     string            `json:"description"`
					Metadata        map[string]string `json:"metadata"`
					PaymentIntent   *struct {
						Attributes struct {
							Metadata map[string]string `json:"metadata"`
						} `json:"attributes"`
					} `json:"payment_intent"`
				} `json:"attributes"`
			} `json:"data"`
		} `json:"attributes"`
	} `json:"data"`
}

// ParseEvent decodes the provider envelope.
func ParseEvent(body []byte) (*Event, error) {
	var wb webhookBody
	if err := json.Unmarshal(body, &wb); err != nil {
		return nil, fmt.Errorf("%w: webhook body is not valid JSON: %v", apperrors.ErrValidation, err)
	}
	inner := wb.Data.Attributes.Data.Attributes
	ev := &Event{
		ID:              wb.Data.ID,
		Type:            strings.TrimSpace(wb.Data.Attributes.Type),
		ReferenceNumber: strings.TrimSpace(inner.ReferenceNumber),
		Description:     strings.TrimSpace(inner.Description),
	}
	if id := inner.Metadata["payment_id"]; id != "" {
		ev.PaymentID = id
	} else if inner.PaymentIntent != nil {
		ev.PaymentID = inner.PaymentIntent.Attributes.Metadata["payment_id"]
	}
	if ev.ReferenceNumber == "" {
		ev.ReferenceNumber = inner.Metadata["reference_number"]
	}
	return ev, nil
}

// Reference returns the best available reference: reference_number, else description.
func (e Event) Reference() string {
	if e.ReferenceNumber != "" {
		return e.ReferenceNumber
	}
	return e.Description
}

// StripPrefix removes the configured reference prefix, case-insensitively.
func StripPrefix(ref, prefix string) string {
	ref = strings.TrimSpace(ref)
	if prefix != "" && len(ref) >= len(prefix) && strings.EqualFold(ref[:len(prefix)], prefix) {
		return ref[len(prefix):]
	}
	return ref
}
