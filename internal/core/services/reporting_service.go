package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_ledger/internal/core/ports/services"
	"github.com/SscSPs/coop_ledger/internal/platform/metrics"
	"github.com/SscSPs/coop_ledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepositoryFacade
	accountRepo   portsrepo.AccountReader
	journalRepo   portsrepo.JournalReader
	settings      portssvc.SettingsSvc
	location      *time.Location
	metrics       *metrics.Metrics
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportingLocation sets the timezone that defines "today" for rebuilds.
func WithReportingLocation(loc *time.Location) ReportingServiceOption {
	return func(s *reportingService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithReportingClock overrides the clock, mainly for tests.
func WithReportingClock(now func() time.Time) ReportingServiceOption {
	return func(s *reportingService) {
		s.now = now
	}
}

// WithReportingMetrics records rebuild durations.
func WithReportingMetrics(m *metrics.Metrics) ReportingServiceOption {
	return func(s *reportingService) {
		s.metrics = m
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(
	repo portsrepo.ReportingRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	journalRepo portsrepo.JournalReader,
	settings portssvc.SettingsSvc,
	options ...ReportingServiceOption,
) portssvc.ReportingService {
	svc := &reportingService{
		reportingRepo: repo,
		accountRepo:   accountRepo,
		journalRepo:   journalRepo,
		settings:      settings,
		location:      time.UTC,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// compute folds the whole ledger into the four statements as of today.
func (s *reportingService) compute(ctx context.Context) (*domain.RebuildResult, error) {
	now := s.Now().In(s.location)
	settings, err := s.settings.AccountingSettings(ctx)
	if err != nil {
		return nil, err
	}

	asOf := accounting.EndOfDay(now)
	fyStart := accounting.FiscalYearStart(now, settings.FiscalYearStartMonth)

	accounts, err := s.accountRepo.ListAccounts(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	lines, err := s.journalRepo.LinesInRange(ctx, nil, nil, &asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal lines: %w", err)
	}

	prevBS, prevID, err := s.previousBalanceSheet(ctx, accounting.PreviousSnapshotCutoff(now))
	if err != nil {
		return nil, err
	}
	prevRetained := decimal.Zero
	if prevBS != nil {
		prevRetained = prevBS.RetainedIncomeEnding
	}

	result := &domain.RebuildResult{}
	result.TrialBalance = accounting.BuildTrialBalance(accounts, lines, fyStart, asOf)
	result.IncomeStatement = accounting.BuildIncomeStatement(accounts, lines, fyStart, asOf)
	result.BalanceSheet = accounting.BuildBalanceSheet(accounts, lines, asOf, prevRetained, result.IncomeStatement.NetIncome, prevID)
	result.CashFlow = accounting.BuildCashFlow(result.BalanceSheet, prevBS, result.IncomeStatement.NetIncome)

	if !result.TrialBalance.Balanced {
		s.LogWarn(ctx, "Trial balance does not balance",
			slog.String("debit", result.TrialBalance.TotalDebit.StringFixed(2)),
			slog.String("credit", result.TrialBalance.TotalCredit.StringFixed(2)))
	}
	return result, nil
}

// previousBalanceSheet decodes the newest BS snapshot saved before cutoff. No snapshot is not an error.
func (s *reportingService) previousBalanceSheet(ctx context.Context, cutoff time.Time) (*domain.BalanceSheet, *string, error) {
	snap, err := s.reportingRepo.FindLatestSnapshotBefore(ctx, domain.BalanceSheetReport, cutoff)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to load previous balance sheet: %w", err)
	}
	var bs domain.BalanceSheet
	if err := json.Unmarshal(snap.Payload, &bs); err != nil {
		s.LogWarn(ctx, "Ignoring unreadable balance sheet snapshot", slog.String("snapshot_id", snap.SnapshotID), slog.String("error", err.Error()))
		return nil, nil, nil
	}
	if bs.AsOf.IsZero() {
		bs.AsOf = snap.AsOf
	}
	id := snap.SnapshotID
	return &bs, &id, nil
}

func (s *reportingService) Rebuild(ctx context.Context) (*domain.RebuildResult, error) {
	start := time.Now()
	result, err := s.compute(ctx)
	if err != nil {
		s.metrics.ObserveRebuild(time.Since(start), err)
		s.LogError(ctx, err, "Report rebuild failed")
		return nil, err
	}

	createdAt := s.Now()
	tb, is, bs, cf := result.TrialBalance, result.IncomeStatement, result.BalanceSheet, result.CashFlow
	caches := []struct {
		reportType  domain.ReportType
		periodStart *time.Time
		periodEnd   time.Time
		payload     any
	}{
		{domain.TrialBalanceReport, &tb.PeriodStart, tb.PeriodEnd, tb},
		{domain.IncomeStatementReport, &is.PeriodStart, is.PeriodEnd, is},
		{domain.BalanceSheetReport, nil, bs.AsOf, bs},
		{domain.CashFlowReport, cf.BeginAsOf, cf.EndAsOf, cf},
	}

	// Every cache is attempted even if an earlier one fails.
	var errs []error
	for _, c := range caches {
		raw, err := json.Marshal(c.payload)
		if err != nil {
			errs = append(errs, fmt.Errorf("encode %s: %w", c.reportType, err))
			continue
		}
		cache := domain.ReportCache{
			ReportID:    domain.AutoReportID(c.reportType),
			ReportType:  c.reportType,
			PeriodStart: c.periodStart,
			PeriodEnd:   c.periodEnd,
			Payload:     raw,
			CreatedAt:   createdAt,
		}
		if err := s.reportingRepo.SaveReportCache(ctx, cache); err != nil {
			errs = append(errs, fmt.Errorf("save %s: %w", cache.ReportID, err))
		}
	}
	err = errors.Join(errs...)
	s.metrics.ObserveRebuild(time.Since(start), err)
	if err != nil {
		s.LogError(ctx, err, "Failed to write report caches")
		return result, err
	}

	s.LogInfo(ctx, "Reports rebuilt",
		slog.String("net_income", is.NetIncome.StringFixed(2)),
		slog.Bool("tb_balanced", tb.Balanced),
		slog.Duration("took", time.Since(start)))
	return result, nil
}

func (s *reportingService) GetReport(ctx context.Context, reportID string) (*domain.ReportCache, error) {
	report, err := s.reportingRepo.FindReportCache(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", reportID, err)
	}
	return report, nil
}

func (s *reportingService) SaveBalanceSheetSnapshot(ctx context.Context, userID string) (*domain.ReportSnapshot, error) {
	result, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(result.BalanceSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to encode balance sheet: %w", err)
	}
	snapshot := domain.ReportSnapshot{
		SnapshotID: uuid.NewString(),
		ReportType: domain.BalanceSheetReport,
		AsOf:       result.BalanceSheet.AsOf,
		Payload:    raw,
		CreatedAt:  s.Now(),
		CreatedBy:  userID,
	}
	if err := s.reportingRepo.SaveSnapshot(ctx, snapshot); err != nil {
		s.LogError(ctx, err, "Failed to save balance sheet snapshot")
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}
	s.LogInfo(ctx, "Balance sheet snapshot saved", slog.String("snapshot_id", snapshot.SnapshotID))
	return &snapshot, nil
}

func (s *reportingService) ListSnapshots(ctx context.Context, reportType domain.ReportType, limit int) ([]domain.ReportSnapshot, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.reportingRepo.ListSnapshots(ctx, reportType, limit)
}
