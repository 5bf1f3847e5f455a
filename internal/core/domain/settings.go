package domain

import (
	"strings"
	"time"
)

// Settings keys in the settings store.
const (
	AccountingSettingsKey = "accounting"
	PaymentSettingsKey    = "payment"
)

// AccountingSettings maps posting roles to main account names.
type AccountingSettings struct {
	CashAccount                string     `json:"cashAccount"`
	MembershipFeeIncomeAccount string     `json:"membershipFeeIncomeAccount"`
	ShareCapitalAccount        string     `json:"shareCapitalAccount"`
	LoanReceivableAccount      string     `json:"loanReceivableAccount"`
	InterestIncomeAccount      string     `json:"interestIncomeAccount"`
	SalesRevenueAccount        string     `json:"salesRevenueAccount"`
	OtherIncomeAccount         string     `json:"otherIncomeAccount"`
	FiscalYearStartMonth       time.Month `json:"fiscalYearStartMonth"`
}

// WithDefaults fills every empty field from d.
func (s AccountingSettings) WithDefaults(d AccountingSettings) AccountingSettings {
	s.CashAccount = firstNonBlank(s.CashAccount, d.CashAccount)
	s.MembershipFeeIncomeAccount = firstNonBlank(s.MembershipFeeIncomeAccount, d.MembershipFeeIncomeAccount)
	s.ShareCapitalAccount = firstNonBlank(s.ShareCapitalAccount, d.ShareCapitalAccount)
	s.LoanReceivableAccount = firstNonBlank(s.LoanReceivableAccount, d.LoanReceivableAccount)
	s.InterestIncomeAccount = firstNonBlank(s.InterestIncomeAccount, d.InterestIncomeAccount)
	s.SalesRevenueAccount = firstNonBlank(s.SalesRevenueAccount, d.SalesRevenueAccount)
	s.OtherIncomeAccount = firstNonBlank(s.OtherIncomeAccount, d.OtherIncomeAccount)
	if s.FiscalYearStartMonth < time.January || s.FiscalYearStartMonth > time.December {
		s.FiscalYearStartMonth = d.FiscalYearStartMonth
	}
	if s.FiscalYearStartMonth < time.January || s.FiscalYearStartMonth > time.December {
		s.FiscalYearStartMonth = time.January
	}
	return s
}

// DefaultAccountingSettings matches the names in DefaultChart.
func DefaultAccountingSettings() AccountingSettings {
	return AccountingSettings{
		CashAccount:                "Cash on Hand",
		MembershipFeeIncomeAccount: "Membership Fee Income",
		ShareCapitalAccount:        "Share Capital",
		LoanReceivableAccount:      "Loan Receivable",
		InterestIncomeAccount:      "Interest Income",
		SalesRevenueAccount:        "Sales",
		OtherIncomeAccount:         "Other Income",
		FiscalYearStartMonth:       time.January,
	}
}

// PaymentSettings configures the external gateway.
type PaymentSettings struct {
	ReferencePrefix    string        `json:"referencePrefix"`
	ProviderBaseURL    string        `json:"providerBaseURL"`
	SecretKey          string        `json:"secretKey"`
	WebhookSecret      string        `json:"webhookSecret"`
	SignatureTolerance time.Duration `json:"signatureTolerance"`
	Currency           string        `json:"currency"`
	SuccessURL         string        `json:"successURL"`
	CancelURL          string        `json:"cancelURL"`
}

// WithDefaults fills every empty field from d.
func (s PaymentSettings) WithDefaults(d PaymentSettings) PaymentSettings {
	s.ReferencePrefix = firstNonBlank(s.ReferencePrefix, d.ReferencePrefix)
	s.ProviderBaseURL = firstNonBlank(s.ProviderBaseURL, d.ProviderBaseURL)
	s.SecretKey = firstNonBlank(s.SecretKey, d.SecretKey)
	s.WebhookSecret = firstNonBlank(s.WebhookSecret, d.WebhookSecret)
	s.Currency = firstNonBlank(s.Currency, d.Currency)
	s.SuccessURL = firstNonBlank(s.SuccessURL, d.SuccessURL)
	s.CancelURL = firstNonBlank(s.CancelURL, d.CancelURL)
	if s.SignatureTolerance <= 0 {
		s.SignatureTolerance = d.SignatureTolerance
	}
	return s
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
