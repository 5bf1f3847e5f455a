package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/SscSPs/coop_ledger/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostPayment_MembershipFee(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	f.savePaid(t, domain.Payment{
		PaymentID:   "p1",
		MemberName:  "Juan Dela Cruz",
		PaymentType: domain.MembershipFee,
		Amount:      dec("300"),
		Method:      "cash",
	})

	result, err := f.svc.Posting.PostPayment(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, result.AlreadyPosted)
	assert.NotEmpty(t, result.JournalID)
	assert.Equal(t, "000001", result.RefNumber)
	assert.Equal(t, "000001", result.ReceiptNo)

	entry, err := f.store.FindEntryByPaymentID(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, entry.Lines, 2)
	assert.Equal(t, f.account(t, "Cash on Hand").AccountID, entry.Lines[0].AccountID)
	assert.True(t, entry.Lines[0].Debit.Equal(dec("300")))
	assert.Equal(t, f.account(t, "Membership Fee Income").AccountID, entry.Lines[1].AccountID)
	assert.True(t, entry.Lines[1].Credit.Equal(dec("300")))
	assert.True(t, entry.IsBalanced())

	payment, err := f.store.FindPaymentByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.PostingPosted, payment.Posting.Status)
	assert.Equal(t, 1, payment.Posting.Attempts)
	assert.NotNil(t, payment.Posting.LastFinishedAt)
	require.NotNil(t, payment.ReceiptNo)
	assert.Equal(t, "000001", *payment.ReceiptNo)
}

func TestPostPayment_IsIdempotent(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	f.savePaid(t, domain.Payment{PaymentID: "p1", PaymentType: domain.Purchase, Amount: dec("150"), Method: "gcash"})

	first, err := f.svc.Posting.PostPayment(ctx, "p1")
	require.NoError(t, err)
	second, err := f.svc.Posting.PostPayment(ctx, "p1")
	require.NoError(t, err)

	assert.True(t, second.AlreadyPosted)
	assert.Equal(t, first.JournalID, second.JournalID)

	entries, err := f.store.ListEntries(ctx, domain.EntryQuery{})
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	payment, err := f.store.FindPaymentByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, payment.Posting.Attempts, "a no-op repost performs no writes")
}

func TestPostPayment_ShareCapitalCreatesMemberSubaccountOnce(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	f.savePaid(t, domain.Payment{PaymentID: "p1", MemberName: "Maria Santos", PaymentType: domain.ShareCapital, Amount: dec("500")})
	f.savePaid(t, domain.Payment{PaymentID: "p2", MemberName: "Maria Santos", PaymentType: domain.ShareCapital, Amount: dec("250")})

	_, err := f.svc.Posting.PostPayment(ctx, "p1")
	require.NoError(t, err)
	_, err = f.svc.Posting.PostPayment(ctx, "p2")
	require.NoError(t, err)

	rows, err := f.store.FindAccountsByMain(ctx, "Share Capital")
	require.NoError(t, err)
	require.Len(t, rows, 2, "canonical row plus one member sub-account")
	sub := rows[1]
	assert.Equal(t, "Share Capital - Maria Santos", sub.DisplayName())
	assert.Equal(t, member.UserID, sub.OwnerRef)
	require.NotNil(t, sub.Code)
	assert.Equal(t, 3001, *sub.Code)
	assert.Equal(t, domain.Equity, sub.AccountType)

	lines, err := f.store.LinesInRange(ctx, &sub.AccountID, nil, nil)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestPostPayment_LoanRepaymentSplit(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	f.savePaid(t, domain.Payment{
		PaymentID:   "p1",
		MemberName:  "Juan Dela Cruz",
		PaymentType: domain.LoanRepayment,
		Amount:      dec("1200"),
		Principal:   decPtr("1000"),
		Interest:    decPtr("200"),
	})

	_, err := f.svc.Posting.PostPayment(ctx, "p1")
	require.NoError(t, err)

	entry, err := f.store.FindEntryByPaymentID(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, entry.Lines, 3)

	loanSub, err := f.store.FindAccountByOwner(ctx, "Loan Receivable", member.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Loan Receivable - Juan Dela Cruz", loanSub.DisplayName())

	assert.Equal(t, f.account(t, "Cash on Hand").AccountID, entry.Lines[0].AccountID)
	assert.True(t, entry.Lines[0].Debit.Equal(dec("1200")))
	assert.Equal(t, loanSub.AccountID, entry.Lines[1].AccountID)
	assert.True(t, entry.Lines[1].Credit.Equal(dec("1000")))
	assert.Equal(t, f.account(t, "Interest Income").AccountID, entry.Lines[2].AccountID)
	assert.True(t, entry.Lines[2].Credit.Equal(dec("200")))
}

func TestPostPayment_LoanSplitMismatchFailsPosting(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	f.savePaid(t, domain.Payment{
		PaymentID:   "p1",
		PaymentType: domain.LoanRepayment,
		Amount:      dec("1200"),
		Principal:   decPtr("1000"),
		Interest:    decPtr("100"),
	})

	result, err := f.svc.Posting.PostPayment(ctx, "p1")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrLoanSplitMismatch)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	payment, err := f.store.FindPaymentByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, payment.Status, "a failed posting never reverts the payment")
	assert.Equal(t, domain.PostingFailed, payment.Posting.Status)
	assert.Equal(t, 1, payment.Posting.Attempts)
	assert.NotEmpty(t, payment.Posting.Error)

	_, err = f.store.FindEntryByPaymentID(ctx, "p1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPostPayment_ExistingEntryIsAdopted(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	f.savePaid(t, domain.Payment{PaymentID: "p1", PaymentType: domain.OtherPayment, Amount: dec("10")})
	pid := "p1"
	require.NoError(t, f.store.AppendEntry(ctx, domain.JournalEntry{JournalID: "j-existing", RefNumber: "000042", LinkedPaymentID: &pid}))

	result, err := f.svc.Posting.PostPayment(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, result.AlreadyPosted)
	assert.Equal(t, "j-existing", result.JournalID)

	payment, err := f.store.FindPaymentByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.PostingPosted, payment.Posting.Status)
}

func TestPostPayment_ExistingEntryLeavesFreshClaimAlone(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	started := time.Now().UTC()
	f.savePaid(t, domain.Payment{
		PaymentID:   "p1",
		PaymentType: domain.OtherPayment,
		Amount:      dec("10"),
		Posting:     domain.PostingState{Status: domain.PostingInProgress, LastStartedAt: &started, Attempts: 1},
	})
	pid := "p1"
	require.NoError(t, f.store.AppendEntry(ctx, domain.JournalEntry{JournalID: "j-existing", RefNumber: "000042", LinkedPaymentID: &pid}))

	result, err := f.svc.Posting.PostPayment(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, result.AlreadyPosted)

	payment, err := f.store.FindPaymentByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.PostingInProgress, payment.Posting.Status, "the claim owner marks the payment")
	assert.Equal(t, 1, payment.Posting.Attempts)
}

func TestPostPayment_FreshClaimHeldElsewhere(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	started := time.Now().UTC()
	f.savePaid(t, domain.Payment{
		PaymentID:   "p1",
		PaymentType: domain.MembershipFee,
		Amount:      dec("300"),
		Posting:     domain.PostingState{Status: domain.PostingInProgress, LastStartedAt: &started},
	})

	_, err := f.svc.Posting.PostPayment(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrPostingInProgress)

	payment, err := f.store.FindPaymentByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.PostingInProgress, payment.Posting.Status, "a lost claim is not recorded as a failure")
	assert.Equal(t, 0, payment.Posting.Attempts)
}

func TestPostPayment_RequiresPaidStatus(t *testing.T) {
	f := newLedgerFixture(t)
	f.savePaid(t, domain.Payment{PaymentID: "p1", Status: domain.PaymentPending, PaymentType: domain.MembershipFee, Amount: dec("300")})

	_, err := f.svc.Posting.PostPayment(context.Background(), "p1")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestPostPayment_MissingAccountMapping(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	settings := domain.DefaultAccountingSettings()
	settings.OtherIncomeAccount = "Donations"
	require.NoError(t, f.svc.Settings.SaveAccountingSettings(ctx, settings))
	f.savePaid(t, domain.Payment{PaymentID: "p1", PaymentType: domain.OtherPayment, Amount: dec("50")})

	_, err := f.svc.Posting.PostPayment(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	payment, err := f.store.FindPaymentByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.PostingFailed, payment.Posting.Status)
	assert.Contains(t, payment.Posting.Error, "Donations")
}

func TestOnPaymentStatusChanged_OnlyOnTransitionIntoPaid(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	f.savePaid(t, domain.Payment{PaymentID: "p1", PaymentType: domain.MembershipFee, Amount: dec("300")})
	paid, err := f.store.FindPaymentByID(ctx, "p1")
	require.NoError(t, err)

	result, err := f.svc.Posting.OnPaymentStatusChanged(ctx, paid, paid)
	require.NoError(t, err)
	assert.True(t, result.Skipped, "paid -> paid is not a transition")

	pending := *paid
	pending.Status = domain.PaymentPending
	result, err = f.svc.Posting.OnPaymentStatusChanged(ctx, &pending, paid)
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.NotEmpty(t, result.JournalID)
}

func TestLoanSplit(t *testing.T) {
	tests := []struct {
		name      string
		principal *string
		interest  *string
		wantP     string
		wantI     string
		wantErr   error
	}{
		{name: "no split is all principal", wantP: "1200", wantI: "0"},
		{name: "interest only derives principal", interest: strPtr("200"), wantP: "1000", wantI: "200"},
		{name: "principal only derives interest", principal: strPtr("1100"), wantP: "1100", wantI: "100"},
		{name: "exact split", principal: strPtr("1000"), interest: strPtr("200"), wantP: "1000", wantI: "200"},
		{name: "mismatch", principal: strPtr("1000"), interest: strPtr("100"), wantErr: domain.ErrLoanSplitMismatch},
		{name: "negative interest", principal: strPtr("1300"), wantErr: apperrors.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &domain.Payment{Amount: dec("1200")}
			if tt.principal != nil {
				p.Principal = decPtr(*tt.principal)
			}
			if tt.interest != nil {
				p.Interest = decPtr(*tt.interest)
			}
			principal, interest, err := services.LoanSplit(p)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, principal.Equal(dec(tt.wantP)), "principal %s", principal)
			assert.True(t, interest.Equal(dec(tt.wantI)), "interest %s", interest)
		})
	}
}

func strPtr(s string) *string { return &s }
