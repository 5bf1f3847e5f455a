package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/coop_ledger/internal/adapters/gateway"
	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/SscSPs/coop_ledger/internal/core/ports/providers"
	"github.com/SscSPs/coop_ledger/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func webhookBody(eventType, reference string) []byte {
	return []byte(fmt.Sprintf(`{"data":{"id":"evt_1","attributes":{"type":%q,"data":{"id":"cs_1","attributes":{"reference_number":%q}}}}}`,
		eventType, reference))
}

func (f *ledgerFixture) createPending(t *testing.T) *domain.Payment {
	t.Helper()
	p, err := f.svc.Payment.CreatePayment(context.Background(), dto.CreatePaymentRequest{
		PaymentType: domain.MembershipFee,
		Amount:      dec("300"),
		Method:      "gcash",
		DisplayName: "Juan Dela Cruz",
	}, member)
	require.NoError(t, err)
	return p
}

func TestHandleWebhook_PaidEventPostsOnce(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	payment := f.createPending(t)
	body := webhookBody(gateway.EventCheckoutSessionPaid, payment.ReferenceNo)
	header := gateway.Sign(body, testWebhookSecret, time.Now())

	require.NoError(t, f.svc.Gateway.HandleWebhook(ctx, header, body))
	require.NoError(t, f.svc.Gateway.HandleWebhook(ctx, header, body), "redelivery is acknowledged")

	stored, err := f.store.FindPaymentByID(ctx, payment.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, stored.Status)
	assert.Equal(t, domain.PostingPosted, stored.Posting.Status)

	entries, err := f.store.ListEntries(ctx, domain.EntryQuery{})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestHandleWebhook_BadSignature(t *testing.T) {
	f := newLedgerFixture(t)
	payment := f.createPending(t)
	body := webhookBody(gateway.EventPaymentPaid, payment.ReferenceNo)

	err := f.svc.Gateway.HandleWebhook(context.Background(), gateway.Sign(body, "wrong", time.Now()), body)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	err = f.svc.Gateway.HandleWebhook(context.Background(), "garbage", body)
	assert.ErrorIs(t, err, gateway.ErrInvalidSignatureHeader)

	stored, err := f.store.FindPaymentByID(context.Background(), payment.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, stored.Status)
}

func TestHandleWebhook_IgnoresOtherEventsAndUnknownPayments(t *testing.T) {
	f := newLedgerFixture(t)
	payment := f.createPending(t)

	other := webhookBody("payment.failed", payment.ReferenceNo)
	assert.NoError(t, f.svc.Gateway.HandleWebhook(context.Background(), gateway.Sign(other, testWebhookSecret, time.Now()), other))

	unknown := webhookBody(gateway.EventPaymentPaid, "COOP-does-not-exist")
	assert.NoError(t, f.svc.Gateway.HandleWebhook(context.Background(), gateway.Sign(unknown, testWebhookSecret, time.Now()), unknown))

	stored, err := f.store.FindPaymentByID(context.Background(), payment.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, stored.Status)
}

func TestHandleWebhook_PaidEventForVoidedPaymentIsAcknowledged(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	payment := f.createPending(t)
	_, err := f.svc.Payment.VoidPayment(ctx, payment.PaymentID, member)
	require.NoError(t, err)

	body := webhookBody(gateway.EventCheckoutSessionPaid, payment.ReferenceNo)
	require.NoError(t, f.svc.Gateway.HandleWebhook(ctx, gateway.Sign(body, testWebhookSecret, time.Now()), body))

	stored, err := f.store.FindPaymentByID(ctx, payment.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentVoided, stored.Status)
	entries, err := f.store.ListEntries(ctx, domain.EntryQuery{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHandleWebhook_ReferenceWithoutPrefixMatchesByID(t *testing.T) {
	f := newLedgerFixture(t)
	payment := f.createPending(t)
	body := webhookBody(gateway.EventPaymentPaid, payment.PaymentID)

	require.NoError(t, f.svc.Gateway.HandleWebhook(context.Background(), gateway.Sign(body, testWebhookSecret, time.Now()), body))

	stored, err := f.store.FindPaymentByID(context.Background(), payment.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, stored.Status)
}

func TestCreateCheckoutSession(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	payment := f.createPending(t)

	f.provider.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(p providers.CheckoutParams) bool {
		return p.PaymentID == payment.PaymentID &&
			p.ReferenceNo == payment.ReferenceNo &&
			p.Amount.Equal(dec("300")) &&
			p.Method == "gcash" &&
			p.SuccessURL == "https://coop.test/return" &&
			p.SecretKey == "sk_test"
	})).Return(&providers.CheckoutResult{ProviderID: "cs_9", CheckoutURL: "https://pay.test/cs_9"}, nil).Once()

	_, err := f.svc.Gateway.CreateCheckoutSession(ctx, payment.PaymentID, dto.CheckoutRequest{}, domain.Caller{UserID: "stranger"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	session, err := f.svc.Gateway.CreateCheckoutSession(ctx, payment.PaymentID, dto.CheckoutRequest{ReturnURL: "https://coop.test/return"}, member)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutSession{OK: true, URL: "https://pay.test/cs_9", ProviderID: "cs_9"}, *session)

	stored, err := f.store.FindPaymentByID(ctx, payment.PaymentID)
	require.NoError(t, err)
	require.NotNil(t, stored.CheckoutURL)
	assert.Equal(t, "https://pay.test/cs_9", *stored.CheckoutURL)
	f.provider.AssertExpectations(t)
}

func TestCreateCheckoutSession_RequiresPending(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	payment := f.createPending(t)
	_, err := f.svc.Payment.VoidPayment(ctx, payment.PaymentID, member)
	require.NoError(t, err)

	_, err = f.svc.Gateway.CreateCheckoutSession(ctx, payment.PaymentID, dto.CheckoutRequest{}, member)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	f.provider.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}
