package accounting

import (
	"strings"
	"time"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// IsRevenue reports whether t is a revenue-side type. REVENUE and INCOME are interchangeable.
func IsRevenue(t domain.AccountType) bool {
	switch t.Normalize() {
	case domain.Revenue, domain.Income:
		return true
	}
	return false
}

// IsExpense reports whether t is an expense type.
func IsExpense(t domain.AccountType) bool {
	return t.Normalize() == domain.Expense
}

// IsCOGS reports whether an expense account is cost of goods sold rather than operating expense.
// Only an expense account whose main name is exactly "COGS" (any case, trimmed) qualifies.
func IsCOGS(a domain.Account) bool {
	return IsExpense(a.AccountType) && strings.EqualFold(strings.TrimSpace(a.Main), "COGS")
}

// NaturalBalance applies the normal-balance sign of t to period totals.
// DEBIT-normal: ASSET, EXPENSE. CREDIT-normal: LIABILITY, EQUITY, REVENUE, INCOME.
func NaturalBalance(t domain.AccountType, debit, credit decimal.Decimal) decimal.Decimal {
	switch t.Normalize() {
	case domain.Asset, domain.Expense:
		return debit.Sub(credit)
	default:
		return credit.Sub(debit)
	}
}

// FiscalYearStart returns midnight of the first day of the fiscal year containing asOf.
func FiscalYearStart(asOf time.Time, startMonth time.Month) time.Time {
	if startMonth < time.January || startMonth > time.December {
		startMonth = time.January
	}
	year := asOf.Year()
	if asOf.Month() < startMonth {
		year--
	}
	return time.Date(year, startMonth, 1, 0, 0, 0, 0, asOf.Location())
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last nanosecond of t's day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
