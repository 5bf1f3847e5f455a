package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_ledger/internal/core/ports/services"
)

type settingsService struct {
	BaseService
	repo              portsrepo.SettingsRepository
	accountingDefault domain.AccountingSettings
	paymentDefault    domain.PaymentSettings
}

// NewSettingsService creates a settings provider that fills stored documents
// with the given defaults.
func NewSettingsService(repo portsrepo.SettingsRepository, accounting domain.AccountingSettings, payment domain.PaymentSettings) portssvc.SettingsSvc {
	return &settingsService{
		repo:              repo,
		accountingDefault: accounting.WithDefaults(domain.DefaultAccountingSettings()),
		paymentDefault:    payment,
	}
}

var _ portssvc.SettingsSvc = (*settingsService)(nil)

// load decodes the stored document into out. A missing document leaves out untouched.
func (s *settingsService) load(ctx context.Context, key string, out any) error {
	raw, err := s.repo.LoadSettings(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		s.LogError(ctx, err, "Failed to load settings", slog.String("key", key))
		return fmt.Errorf("failed to load %s settings: %w", key, err)
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.LogWarn(ctx, "Stored settings are not valid JSON, using defaults", slog.String("key", key), slog.String("error", err.Error()))
		return nil
	}
	return nil
}

func (s *settingsService) AccountingSettings(ctx context.Context) (domain.AccountingSettings, error) {
	var stored domain.AccountingSettings
	if err := s.load(ctx, domain.AccountingSettingsKey, &stored); err != nil {
		return domain.AccountingSettings{}, err
	}
	return stored.WithDefaults(s.accountingDefault), nil
}

func (s *settingsService) PaymentSettings(ctx context.Context) (domain.PaymentSettings, error) {
	var stored domain.PaymentSettings
	if err := s.load(ctx, domain.PaymentSettingsKey, &stored); err != nil {
		return domain.PaymentSettings{}, err
	}
	return stored.WithDefaults(s.paymentDefault), nil
}

func (s *settingsService) SaveAccountingSettings(ctx context.Context, settings domain.AccountingSettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode accounting settings: %w", err)
	}
	return s.repo.SaveSettings(ctx, domain.AccountingSettingsKey, raw)
}
