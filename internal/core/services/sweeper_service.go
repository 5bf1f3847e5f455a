package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_ledger/internal/core/ports/services"
	"github.com/SscSPs/coop_ledger/internal/platform/metrics"
)

// SweeperConfig bounds the posting sweeper.
type SweeperConfig struct {
	PageSize    int
	MaxAttempts int
	StaleAfter  time.Duration
	// BackoffBase spaces retries of failed postings: BackoffBase * 2^(attempts-1)
	// after the last finish, capped at BackoffMax. Zero retries on every run.
	BackoffBase time.Duration
	BackoffMax  time.Duration
}

// DefaultSweeperConfig returns the standard bounds.
func DefaultSweeperConfig() SweeperConfig {
	return SweeperConfig{
		PageSize:    50,
		MaxAttempts: 5,
		StaleAfter:  DefaultStaleAfter,
		BackoffMax:  time.Hour,
	}
}

type sweeperService struct {
	BaseService
	payments portsrepo.PaymentReader
	posting  portssvc.PostingSvc
	cfg      SweeperConfig
	metrics  *metrics.Metrics
}

// SweeperServiceOption is a functional option for configuring the sweeper
type SweeperServiceOption func(*sweeperService)

// WithSweeperMetrics records sweep counts.
func WithSweeperMetrics(m *metrics.Metrics) SweeperServiceOption {
	return func(s *sweeperService) {
		s.metrics = m
	}
}

// WithSweeperClock overrides the clock, mainly for tests.
func WithSweeperClock(now func() time.Time) SweeperServiceOption {
	return func(s *sweeperService) {
		s.now = now
	}
}

// NewSweeperService creates the posting sweeper. Zero fields of cfg take defaults.
func NewSweeperService(payments portsrepo.PaymentReader, posting portssvc.PostingSvc, cfg SweeperConfig, options ...SweeperServiceOption) portssvc.SweeperSvc {
	def := DefaultSweeperConfig()
	if cfg.PageSize <= 0 {
		cfg.PageSize = def.PageSize
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = def.StaleAfter
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = def.BackoffMax
	}
	svc := &sweeperService{payments: payments, posting: posting, cfg: cfg}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.SweeperSvc = (*sweeperService)(nil)

func (s *sweeperService) Sweep(ctx context.Context) (domain.SweepResult, error) {
	var result domain.SweepResult
	payments, err := s.payments.ListPaidPayments(ctx, s.cfg.MaxAttempts, s.cfg.PageSize)
	if err != nil {
		s.LogError(ctx, err, "Sweeper failed to list paid payments")
		return result, fmt.Errorf("failed to list paid payments: %w", err)
	}
	result.Scanned = len(payments)

	now := s.Now()
	for i := range payments {
		p := &payments[i]
		if !s.eligible(p, now) {
			continue
		}
		if _, err := s.posting.PostPayment(ctx, p.PaymentID); err != nil {
			result.Failed++
			s.LogWarn(ctx, "Sweeper retry failed",
				slog.String("payment_id", p.PaymentID),
				slog.Int("attempts", p.Posting.Attempts),
				slog.String("error", err.Error()))
			continue
		}
		result.Retried++
	}

	s.metrics.SweepCompleted(result.Scanned, result.Retried, result.Failed)
	s.LogInfo(ctx, "Posting sweep finished",
		slog.Int("scanned", result.Scanned),
		slog.Int("retried", result.Retried),
		slog.Int("failed", result.Failed))
	return result, nil
}

func (s *sweeperService) eligible(p *domain.Payment, now time.Time) bool {
	if p.Posting.Attempts >= s.cfg.MaxAttempts {
		return false
	}
	switch p.Posting.Status {
	case domain.PostingNone:
		return true
	case domain.PostingFailed:
		if s.cfg.BackoffBase <= 0 || p.Posting.LastFinishedAt == nil {
			return true
		}
		return !now.Before(p.Posting.LastFinishedAt.Add(s.backoff(p.Posting.Attempts)))
	case domain.PostingInProgress:
		return p.Posting.LastStartedAt == nil || now.Sub(*p.Posting.LastStartedAt) > s.cfg.StaleAfter
	}
	return false
}

func (s *sweeperService) backoff(attempts int) time.Duration {
	wait := s.cfg.BackoffBase
	for i := 1; i < attempts; i++ {
		wait *= 2
		if wait >= s.cfg.BackoffMax {
			return s.cfg.BackoffMax
		}
	}
	if wait > s.cfg.BackoffMax {
		return s.cfg.BackoffMax
	}
	return wait
}
