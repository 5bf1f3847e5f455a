package services

import (
	"github.com/SscSPs/coop_ledger/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/coop_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_ledger/internal/core/ports/services"
	"github.com/SscSPs/coop_ledger/internal/platform/config"
	"github.com/SscSPs/coop_ledger/internal/platform/metrics"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	checkout providers.CheckoutProvider,
	m *metrics.Metrics,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Leaf services first; the poster depends on all of them
	container.Settings = NewSettingsService(repos.SettingsRepo, cfg.Accounting, cfg.Payment)
	container.Sequence = NewSequenceService(repos.SequenceRepo)
	container.Account = NewAccountService(repos.AccountRepo)
	container.Ledger = NewLedgerService(repos.JournalRepo, repos.AccountRepo, container.Sequence)

	container.Reporting = NewReportingService(
		repos.ReportingRepo,
		repos.AccountRepo,
		repos.JournalRepo,
		container.Settings,
		WithReportingLocation(cfg.RebuildTimezone),
		WithReportingMetrics(m),
	)

	container.Posting = NewPostingService(
		repos.PaymentRepo,
		container.Ledger,
		container.Account,
		container.Sequence,
		container.Settings,
		WithPostingStaleAfter(cfg.PostingStaleAfter),
		WithPostingMetrics(m),
	)

	container.Sweeper = NewSweeperService(repos.PaymentRepo, container.Posting, SweeperConfig{
		PageSize:    cfg.SweepPageSize,
		MaxAttempts: cfg.PostingMaxAttempts,
		StaleAfter:  cfg.PostingStaleAfter,
		BackoffBase: cfg.PostingBackoffBase,
		BackoffMax:  cfg.PostingBackoffMax,
	}, WithSweeperMetrics(m))

	container.Payment = NewPaymentService(repos.PaymentRepo, container.Posting, container.Settings)
	container.Gateway = NewGatewayService(
		container.Settings,
		container.Payment,
		repos.PaymentRepo,
		checkout,
		WithGatewayMetrics(m),
	)

	return container
}
