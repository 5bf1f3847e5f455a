package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, "0 2 * * *", cfg.RebuildCron)
	assert.Equal(t, "Asia/Manila", cfg.RebuildTimezone.String())
	assert.Equal(t, 5*time.Minute, cfg.SweepInterval)
	assert.Equal(t, 50, cfg.SweepPageSize)
	assert.Equal(t, 5, cfg.PostingMaxAttempts)
	assert.Equal(t, time.January, cfg.Accounting.FiscalYearStartMonth)
	assert.Equal(t, "Cash on Hand", cfg.Accounting.CashAccount)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", " Postgres ")
	t.Setenv("REBUILD_TIMEZONE", "UTC")
	t.Setenv("SWEEP_INTERVAL", "90s")
	t.Setenv("FISCAL_YEAR_START_MONTH", "7")
	t.Setenv("CASH_ACCOUNT", "Cash in Bank")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("PAYMENT_WEBHOOK_SECRET", "whsec")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, time.UTC, cfg.RebuildTimezone)
	assert.Equal(t, 90*time.Second, cfg.SweepInterval)
	assert.Equal(t, time.July, cfg.Accounting.FiscalYearStartMonth)
	assert.Equal(t, "Cash in Bank", cfg.Accounting.CashAccount)
	assert.Equal(t, "Membership Fee Income", cfg.Accounting.MembershipFeeIncomeAccount)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "whsec", cfg.Payment.WebhookSecret)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")
	t.Setenv("REBUILD_TIMEZONE", "Mars/Olympus")
	t.Setenv("SWEEP_INTERVAL", "soon")
	t.Setenv("FISCAL_YEAR_START_MONTH", "13")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, time.UTC, cfg.RebuildTimezone)
	assert.Equal(t, 5*time.Minute, cfg.SweepInterval)
	assert.Equal(t, time.January, cfg.Accounting.FiscalYearStartMonth)
}
