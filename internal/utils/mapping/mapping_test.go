package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAccountOwnerRefNullability(t *testing.T) {
	canonical := ToModelAccount(domain.Account{AccountID: "a1", Main: "Share Capital", AccountType: "equity"})
	assert.Nil(t, canonical.OwnerRef)
	assert.Equal(t, "EQUITY", canonical.AccountType)

	sub := ToModelAccount(domain.Account{AccountID: "a2", Main: "Share Capital", Individual: "Ana", OwnerRef: "u1"})
	if assert.NotNil(t, sub.OwnerRef) {
		assert.Equal(t, "u1", *sub.OwnerRef)
	}
	assert.Equal(t, "u1", ToDomainAccount(sub).OwnerRef)
	assert.Equal(t, "", ToDomainAccount(canonical).OwnerRef)
}

func TestJournalEntryLinesKeepOrder(t *testing.T) {
	entry := domain.JournalEntry{
		JournalID: "j1",
		RefNumber: "000001",
		Date:      time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Lines: []domain.JournalLine{
			{AccountID: "cash", Debit: decimal.NewFromInt(300)},
			{AccountID: "fee", Credit: decimal.NewFromInt(300)},
		},
	}
	header, lines := ToModelJournalEntry(entry)
	assert.Equal(t, 0, lines[0].LineIndex)
	assert.Equal(t, 1, lines[1].LineIndex)
	assert.Equal(t, "j1", lines[1].JournalID)

	back := ToDomainJournalEntry(header, lines)
	assert.Equal(t, entry.Lines, back.Lines)
	assert.Equal(t, entry.Date, back.Date)
}

func TestPaymentPostingErrorIsNullable(t *testing.T) {
	m := ToModelPayment(domain.Payment{PaymentID: "p1"})
	assert.Nil(t, m.PostingError)

	m = ToModelPayment(domain.Payment{PaymentID: "p1", Posting: domain.PostingState{Status: domain.PostingFailed, Error: "boom"}})
	d := ToDomainPayment(m)
	assert.Equal(t, "boom", d.Posting.Error)
	assert.Equal(t, domain.PostingFailed, d.Posting.Status)
}
