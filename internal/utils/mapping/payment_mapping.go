package mapping

import (
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/SscSPs/coop_ledger/internal/models"
)

// ToModelPayment converts a domain Payment to a model Payment
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:       d.PaymentID,
		UserID:          d.UserID,
		MemberName:      d.MemberName,
		PaymentType:     string(d.PaymentType),
		Amount:          d.Amount,
		Principal:       d.Principal,
		Interest:        d.Interest,
		Method:          d.Method,
		Status:          string(d.Status),
		PostingStatus:   string(d.Posting.Status),
		PostingAttempts: d.Posting.Attempts,
		PostingStarted:  d.Posting.LastStartedAt,
		PostingFinished: d.Posting.LastFinishedAt,
		PostingError:    nullable(d.Posting.Error),
		ReceiptNo:       d.ReceiptNo,
		ReferenceNo:     d.ReferenceNo,
		LinkedID:        d.LinkedID,
		CheckoutURL:     d.CheckoutURL,
		ProviderID:      d.ProviderID,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// ToDomainPayment converts a model Payment to a domain Payment
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:   m.PaymentID,
		UserID:      m.UserID,
		MemberName:  m.MemberName,
		PaymentType: domain.PaymentType(m.PaymentType),
		Amount:      m.Amount,
		Principal:   m.Principal,
		Interest:    m.Interest,
		Method:      m.Method,
		Status:      domain.PaymentStatus(m.Status),
		Posting: domain.PostingState{
			Status:         domain.PostingStatus(m.PostingStatus),
			Attempts:       m.PostingAttempts,
			LastStartedAt:  m.PostingStarted,
			LastFinishedAt: m.PostingFinished,
			Error:          deref(m.PostingError),
		},
		ReceiptNo:   m.ReceiptNo,
		ReferenceNo: m.ReferenceNo,
		LinkedID:    m.LinkedID,
		CheckoutURL: m.CheckoutURL,
		ProviderID:  m.ProviderID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
