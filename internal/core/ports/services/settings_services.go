package services

import (
	"context"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
)

// SettingsSvc loads settings documents filled with configured defaults.
type SettingsSvc interface {
	AccountingSettings(ctx context.Context) (domain.AccountingSettings, error)
	PaymentSettings(ctx context.Context) (domain.PaymentSettings, error)
	SaveAccountingSettings(ctx context.Context, s domain.AccountingSettings) error
}
