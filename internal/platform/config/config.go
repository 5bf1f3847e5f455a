package config

import (
	"log"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	StorageDriver  string
	MigrationsPath string
	JWTSecret      string
	JWTIssuer      string

	// Scheduled jobs
	RebuildCron     string
	RebuildTimezone *time.Location
	SweepInterval   time.Duration

	// Posting and sweeping
	SweepPageSize      int
	PostingMaxAttempts int
	PostingStaleAfter  time.Duration
	PostingBackoffBase time.Duration
	PostingBackoffMax  time.Duration

	// HTTP surface
	WebhookRateLimit   string
	CORSAllowedOrigins []string

	// Defaults for the settings store
	Accounting domain.AccountingSettings
	Payment    domain.PaymentSettings
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	accountingDefaults := domain.DefaultAccountingSettings()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("STORAGE_DRIVER", StoragePostgres)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "coop-ledger")
	viper.SetDefault("REBUILD_CRON", "0 2 * * *")
	viper.SetDefault("REBUILD_TIMEZONE", "Asia/Manila")
	viper.SetDefault("SWEEP_INTERVAL", "5m")
	viper.SetDefault("SWEEP_PAGE_SIZE", 50)
	viper.SetDefault("POSTING_MAX_ATTEMPTS", 5)
	viper.SetDefault("POSTING_STALE_AFTER", "5m")
	viper.SetDefault("POSTING_BACKOFF_BASE", "0s")
	viper.SetDefault("POSTING_BACKOFF_MAX", "1h")
	viper.SetDefault("WEBHOOK_RATE_LIMIT", "120-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("FISCAL_YEAR_START_MONTH", 1)
	viper.SetDefault("CASH_ACCOUNT", accountingDefaults.CashAccount)
	viper.SetDefault("MEMBERSHIP_FEE_INCOME_ACCOUNT", accountingDefaults.MembershipFeeIncomeAccount)
	viper.SetDefault("SHARE_CAPITAL_ACCOUNT", accountingDefaults.ShareCapitalAccount)
	viper.SetDefault("LOAN_RECEIVABLE_ACCOUNT", accountingDefaults.LoanReceivableAccount)
	viper.SetDefault("INTEREST_INCOME_ACCOUNT", accountingDefaults.InterestIncomeAccount)
	viper.SetDefault("SALES_REVENUE_ACCOUNT", accountingDefaults.SalesRevenueAccount)
	viper.SetDefault("OTHER_INCOME_ACCOUNT", accountingDefaults.OtherIncomeAccount)
	viper.SetDefault("PAYMENT_PROVIDER_BASE_URL", "https://api.paymongo.com")
	viper.SetDefault("PAYMENT_SECRET_KEY", "")
	viper.SetDefault("PAYMENT_WEBHOOK_SECRET", "")
	viper.SetDefault("PAYMENT_REFERENCE_PREFIX", "COOP-")
	viper.SetDefault("PAYMENT_SIGNATURE_TOLERANCE", "5m")
	viper.SetDefault("PAYMENT_CURRENCY", "PHP")
	viper.SetDefault("PAYMENT_SUCCESS_URL", "http://localhost:3000/payments/success")
	viper.SetDefault("PAYMENT_CANCEL_URL", "http://localhost:3000/payments/cancel")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(viper.GetString("STORAGE_DRIVER")))
	switch cfg.StorageDriver {
	case StoragePostgres, StorageMemory:
	default:
		log.Printf("Warning: Unknown STORAGE_DRIVER ('%s'). Defaulting to %s.\n", cfg.StorageDriver, StoragePostgres)
		cfg.StorageDriver = StoragePostgres
	}
	if cfg.StorageDriver == StoragePostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.RebuildCron = viper.GetString("REBUILD_CRON")
	tzName := viper.GetString("REBUILD_TIMEZONE")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Printf("Warning: Invalid REBUILD_TIMEZONE ('%s'). Defaulting to UTC.\n", tzName)
		loc = time.UTC
	}
	cfg.RebuildTimezone = loc

	cfg.SweepInterval = durationOr("SWEEP_INTERVAL", 5*time.Minute)
	cfg.SweepPageSize = intOr("SWEEP_PAGE_SIZE", 50)
	cfg.PostingMaxAttempts = intOr("POSTING_MAX_ATTEMPTS", 5)
	cfg.PostingStaleAfter = durationOr("POSTING_STALE_AFTER", 5*time.Minute)
	cfg.PostingBackoffBase = durationOr("POSTING_BACKOFF_BASE", 0)
	cfg.PostingBackoffMax = durationOr("POSTING_BACKOFF_MAX", time.Hour)

	cfg.WebhookRateLimit = viper.GetString("WEBHOOK_RATE_LIMIT")
	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	month := viper.GetInt("FISCAL_YEAR_START_MONTH")
	if month < 1 || month > 12 {
		log.Printf("Warning: Invalid FISCAL_YEAR_START_MONTH (%d). Defaulting to January.\n", month)
		month = 1
	}
	cfg.Accounting = domain.AccountingSettings{
		CashAccount:                viper.GetString("CASH_ACCOUNT"),
		MembershipFeeIncomeAccount: viper.GetString("MEMBERSHIP_FEE_INCOME_ACCOUNT"),
		ShareCapitalAccount:        viper.GetString("SHARE_CAPITAL_ACCOUNT"),
		LoanReceivableAccount:      viper.GetString("LOAN_RECEIVABLE_ACCOUNT"),
		InterestIncomeAccount:      viper.GetString("INTEREST_INCOME_ACCOUNT"),
		SalesRevenueAccount:        viper.GetString("SALES_REVENUE_ACCOUNT"),
		OtherIncomeAccount:         viper.GetString("OTHER_INCOME_ACCOUNT"),
		FiscalYearStartMonth:       time.Month(month),
	}.WithDefaults(accountingDefaults)

	cfg.Payment = domain.PaymentSettings{
		ReferencePrefix:    viper.GetString("PAYMENT_REFERENCE_PREFIX"),
		ProviderBaseURL:    viper.GetString("PAYMENT_PROVIDER_BASE_URL"),
		SecretKey:          viper.GetString("PAYMENT_SECRET_KEY"),
		WebhookSecret:      viper.GetString("PAYMENT_WEBHOOK_SECRET"),
		SignatureTolerance: durationOr("PAYMENT_SIGNATURE_TOLERANCE", 5*time.Minute),
		Currency:           viper.GetString("PAYMENT_CURRENCY"),
		SuccessURL:         viper.GetString("PAYMENT_SUCCESS_URL"),
		CancelURL:          viper.GetString("PAYMENT_CANCEL_URL"),
	}
	if cfg.Payment.WebhookSecret == "" {
		log.Println("Warning: PAYMENT_WEBHOOK_SECRET not set. Payment webhooks will be rejected.")
	}
	if cfg.Payment.SecretKey == "" {
		log.Println("Warning: PAYMENT_SECRET_KEY not set. Checkout sessions will not function.")
	}

	return cfg, nil
}

func durationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}

func intOr(key string, fallback int) int {
	v := viper.GetInt(key)
	if v <= 0 {
		log.Printf("Warning: Invalid value for %s (%d). Defaulting to %d.\n", key, v, fallback)
		return fallback
	}
	return v
}
