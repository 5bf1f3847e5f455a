package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/coop_ledger/internal/core/ports/services"
	"github.com/SscSPs/coop_ledger/internal/core/services"
	"github.com/SscSPs/coop_ledger/internal/platform/config"
	"github.com/SscSPs/coop_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "whsec_test"

var (
	member    = domain.Caller{UserID: "u1"}
	treasurer = domain.Caller{UserID: "t1", Roles: []string{domain.RoleNameTreasurer}}
)

// ledgerFixture wires the real services over the in-memory store.
type ledgerFixture struct {
	store    *memory.Store
	svc      *portssvc.ServiceContainer
	provider *MockCheckoutProvider
}

func testConfig() *config.Config {
	return &config.Config{
		StorageDriver:      config.StorageMemory,
		RebuildTimezone:    time.UTC,
		SweepPageSize:      50,
		PostingMaxAttempts: 5,
		PostingStaleAfter:  5 * time.Minute,
		PostingBackoffMax:  time.Hour,
		Accounting:         domain.DefaultAccountingSettings(),
		Payment: domain.PaymentSettings{
			ReferencePrefix:    "COOP-",
			ProviderBaseURL:    "https://provider.test",
			SecretKey:          "sk_test",
			WebhookSecret:      testWebhookSecret,
			SignatureTolerance: 5 * time.Minute,
			Currency:           "PHP",
			SuccessURL:         "https://coop.test/ok",
			CancelURL:          "https://coop.test/cancel",
		},
	}
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	store := memory.New()
	provider := new(MockCheckoutProvider)
	svc := services.NewServiceContainer(testConfig(), store.Repositories(), provider, nil)

	created, err := svc.Account.EnsureCanonicalAccounts(context.Background())
	require.NoError(t, err)
	require.Equal(t, len(domain.DefaultChart), created)

	return &ledgerFixture{store: store, svc: svc, provider: provider}
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

// savePaid stores a payment already in the paid state, as an approval or webhook would leave it.
func (f *ledgerFixture) savePaid(t *testing.T, p domain.Payment) {
	t.Helper()
	if p.Status == "" {
		p.Status = domain.PaymentPaid
	}
	if p.UserID == "" {
		p.UserID = member.UserID
	}
	if p.ReferenceNo == "" {
		p.ReferenceNo = "COOP-" + p.PaymentID
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	require.NoError(t, f.store.SavePayment(context.Background(), p))
}

func (f *ledgerFixture) account(t *testing.T, main string) domain.Account {
	t.Helper()
	a, err := f.svc.Account.ResolveMainAccountByName(context.Background(), main)
	require.NoError(t, err)
	return *a
}
