package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/SscSPs/coop_ledger/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSweep_RetriesOnlyEligible(t *testing.T) {
	ctx := context.Background()
	reader := new(MockPaymentReader)
	poster := new(MockPostingSvc)
	reader.On("ListPaidPayments", ctx, 5, 50).Return([]domain.Payment{
		{PaymentID: "failed", Status: domain.PaymentPaid, Posting: domain.PostingState{Status: domain.PostingFailed, Attempts: 2}},
		{PaymentID: "posted", Status: domain.PaymentPaid, Posting: domain.PostingState{Status: domain.PostingPosted, Attempts: 1}},
	}, nil).Once()
	poster.On("PostPayment", ctx, "failed").Return(&domain.PostingResult{PaymentID: "failed"}, nil).Once()

	sweeper := services.NewSweeperService(reader, poster, services.DefaultSweeperConfig())
	result, err := sweeper.Sweep(ctx)

	require.NoError(t, err)
	assert.Equal(t, domain.SweepResult{Scanned: 2, Retried: 1}, result)
	poster.AssertExpectations(t)
	poster.AssertNotCalled(t, "PostPayment", ctx, "posted")
}

func TestSweep_EligibilityRules(t *testing.T) {
	now := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	at := func(ago time.Duration) *time.Time {
		v := now.Add(-ago)
		return &v
	}

	tests := []struct {
		name    string
		posting domain.PostingState
		cfg     services.SweeperConfig
		want    bool
	}{
		{name: "never attempted", posting: domain.PostingState{}, want: true},
		{name: "failed under the cap", posting: domain.PostingState{Status: domain.PostingFailed, Attempts: 4}, want: true},
		{name: "attempt cap reached", posting: domain.PostingState{Status: domain.PostingFailed, Attempts: 5}, want: false},
		{name: "fresh in-progress claim", posting: domain.PostingState{Status: domain.PostingInProgress, LastStartedAt: at(time.Minute)}, want: false},
		{name: "stale in-progress claim", posting: domain.PostingState{Status: domain.PostingInProgress, LastStartedAt: at(6 * time.Minute)}, want: true},
		{
			name:    "failed inside backoff window",
			posting: domain.PostingState{Status: domain.PostingFailed, Attempts: 2, LastFinishedAt: at(time.Minute)},
			cfg:     services.SweeperConfig{BackoffBase: time.Minute},
			want:    false,
		},
		{
			name:    "failed after backoff window",
			posting: domain.PostingState{Status: domain.PostingFailed, Attempts: 2, LastFinishedAt: at(3 * time.Minute)},
			cfg:     services.SweeperConfig{BackoffBase: time.Minute},
			want:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			reader := new(MockPaymentReader)
			poster := new(MockPostingSvc)
			reader.On("ListPaidPayments", ctx, mock.Anything, mock.Anything).Return([]domain.Payment{
				{PaymentID: "p", Status: domain.PaymentPaid, Posting: tt.posting},
			}, nil)
			poster.On("PostPayment", ctx, "p").Return(&domain.PostingResult{PaymentID: "p"}, nil).Maybe()

			sweeper := services.NewSweeperService(reader, poster, tt.cfg, services.WithSweeperClock(func() time.Time { return now }))
			result, err := sweeper.Sweep(ctx)
			require.NoError(t, err)

			if tt.want {
				assert.Equal(t, 1, result.Retried)
			} else {
				assert.Equal(t, 0, result.Retried)
				poster.AssertNotCalled(t, "PostPayment", ctx, "p")
			}
		})
	}
}

func TestSweep_SwallowsItemFailures(t *testing.T) {
	ctx := context.Background()
	reader := new(MockPaymentReader)
	poster := new(MockPostingSvc)
	reader.On("ListPaidPayments", ctx, 5, 50).Return([]domain.Payment{
		{PaymentID: "bad", Status: domain.PaymentPaid},
		{PaymentID: "good", Status: domain.PaymentPaid},
	}, nil).Once()
	poster.On("PostPayment", ctx, "bad").Return(nil, errors.New("cash account missing")).Once()
	poster.On("PostPayment", ctx, "good").Return(&domain.PostingResult{PaymentID: "good"}, nil).Once()

	result, err := services.NewSweeperService(reader, poster, services.SweeperConfig{}).Sweep(ctx)

	require.NoError(t, err)
	assert.Equal(t, domain.SweepResult{Scanned: 2, Retried: 1, Failed: 1}, result)
	poster.AssertExpectations(t)
}

func TestSweep_ListFailureIsReturned(t *testing.T) {
	ctx := context.Background()
	reader := new(MockPaymentReader)
	reader.On("ListPaidPayments", ctx, 5, 50).Return(nil, errors.New("db down")).Once()

	_, err := services.NewSweeperService(reader, new(MockPostingSvc), services.SweeperConfig{}).Sweep(ctx)
	assert.Error(t, err)
}

func TestSweep_AgainstStore_FailedAndPosted(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	f.savePaid(t, domain.Payment{
		PaymentID:   "failed",
		PaymentType: domain.MembershipFee,
		Amount:      dec("300"),
		Posting:     domain.PostingState{Status: domain.PostingFailed, Attempts: 2, Error: "cash account missing"},
		CreatedAt:   base,
	})
	f.savePaid(t, domain.Payment{
		PaymentID:   "posted",
		PaymentType: domain.MembershipFee,
		Amount:      dec("300"),
		Posting:     domain.PostingState{Status: domain.PostingPosted, Attempts: 1},
		CreatedAt:   base.Add(time.Minute),
	})

	result, err := f.svc.Sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.SweepResult{Scanned: 2, Retried: 1}, result)

	p, err := f.store.FindPaymentByID(ctx, "failed")
	require.NoError(t, err)
	assert.Equal(t, domain.PostingPosted, p.Posting.Status)
	assert.Equal(t, 3, p.Posting.Attempts)
}

func TestSweep_ExhaustedPaymentsDoNotStarveRetries(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	for i := 0; i < 50; i++ {
		f.savePaid(t, domain.Payment{
			PaymentID:   fmt.Sprintf("exhausted-%02d", i),
			PaymentType: domain.MembershipFee,
			Amount:      dec("100"),
			Posting:     domain.PostingState{Status: domain.PostingFailed, Attempts: 5},
			CreatedAt:   base.Add(time.Duration(i) * time.Second),
		})
	}
	f.savePaid(t, domain.Payment{
		PaymentID:   "retryable",
		PaymentType: domain.MembershipFee,
		Amount:      dec("100"),
		Posting:     domain.PostingState{Status: domain.PostingFailed, Attempts: 1},
		CreatedAt:   base.Add(time.Hour),
	})

	result, err := f.svc.Sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, result.Scanned)
	assert.Equal(t, 1, result.Retried)

	p, err := f.store.FindPaymentByID(ctx, "retryable")
	require.NoError(t, err)
	assert.Equal(t, domain.PostingPosted, p.Posting.Status)
}
