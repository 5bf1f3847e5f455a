package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/SscSPs/coop_ledger/internal/core/ports/providers"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByMain(ctx context.Context, main string) ([]domain.Account, error) {
	args := m.Called(ctx, main)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByOwner(ctx context.Context, main, ownerRef string) (*domain.Account, error) {
	args := m.Called(ctx, main, ownerRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByName(ctx context.Context, main, individual string) (*domain.Account, error) {
	args := m.Called(ctx, main, individual)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, includeArchived bool) ([]domain.Account, error) {
	args := m.Called(ctx, includeArchived)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListSiblingCodes(ctx context.Context, main string, limit int) ([]int, error) {
	args := m.Called(ctx, main, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) ArchiveAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

// WithMemberLock records the call and runs fn inline.
func (m *MockAccountRepository) WithMemberLock(ctx context.Context, main, ownerRef string, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, main, ownerRef)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

// MockPaymentReader is a mock type for the PaymentReader interface
type MockPaymentReader struct {
	mock.Mock
}

func (m *MockPaymentReader) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentReader) FindPaymentByReference(ctx context.Context, referenceNo string) (*domain.Payment, error) {
	args := m.Called(ctx, referenceNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentReader) ListPaidPayments(ctx context.Context, maxAttempts, limit int) ([]domain.Payment, error) {
	args := m.Called(ctx, maxAttempts, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

// MockPostingSvc is a mock type for the PostingSvc interface
type MockPostingSvc struct {
	mock.Mock
}

func (m *MockPostingSvc) PostPayment(ctx context.Context, paymentID string) (*domain.PostingResult, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingResult), args.Error(1)
}

func (m *MockPostingSvc) OnPaymentStatusChanged(ctx context.Context, before, after *domain.Payment) (*domain.PostingResult, error) {
	args := m.Called(ctx, before, after)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingResult), args.Error(1)
}

// MockCheckoutProvider is a mock type for the CheckoutProvider interface
type MockCheckoutProvider struct {
	mock.Mock
}

func (m *MockCheckoutProvider) CreateCheckoutSession(ctx context.Context, params providers.CheckoutParams) (*providers.CheckoutResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.CheckoutResult), args.Error(1)
}
