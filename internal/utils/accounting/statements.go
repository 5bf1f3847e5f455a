package accounting

import (
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

type totals struct {
	debit  decimal.Decimal
	credit decimal.Decimal
}

// sumLines folds lines dated within [from, to] into per-account totals. A nil from is open.
func sumLines(lines []domain.MirroredLine, from *time.Time, to time.Time) map[string]totals {
	out := make(map[string]totals)
	for _, l := range lines {
		if from != nil && l.Date.Before(*from) {
			continue
		}
		if l.Date.After(to) {
			continue
		}
		t := out[l.AccountID]
		t.debit = t.debit.Add(l.Debit)
		t.credit = t.credit.Add(l.Credit)
		out[l.AccountID] = t
	}
	return out
}

// sortAccounts orders by code (uncoded last) then display name.
func sortAccounts(accounts []domain.Account) []domain.Account {
	sorted := make([]domain.Account, len(accounts))
	copy(sorted, accounts)
	sort.SliceStable(sorted, func(i, j int) bool {
		ci, cj := sorted[i].Code, sorted[j].Code
		switch {
		case ci != nil && cj != nil && *ci != *cj:
			return *ci < *cj
		case ci != nil && cj == nil:
			return true
		case ci == nil && cj != nil:
			return false
		}
		return strings.ToLower(sorted[i].DisplayName()) < strings.ToLower(sorted[j].DisplayName())
	})
	return sorted
}

// include drops archived accounts that carry no activity.
func include(a domain.Account, t totals) bool {
	return !a.Archived || !t.debit.IsZero() || !t.credit.IsZero()
}

// BuildTrialBalance lists debit and credit totals per account over [from, to].
func BuildTrialBalance(accounts []domain.Account, lines []domain.MirroredLine, from, to time.Time) domain.TrialBalance {
	byAccount := sumLines(lines, &from, to)
	tb := domain.TrialBalance{
		PeriodStart: from,
		PeriodEnd:   to,
		Rows:        []domain.TrialBalanceRow{},
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, a := range sortAccounts(accounts) {
		t := byAccount[a.AccountID]
		if !include(a, t) {
			continue
		}
		tb.Rows = append(tb.Rows, domain.TrialBalanceRow{
			AccountID:   a.AccountID,
			Code:        a.Code,
			Name:        a.DisplayName(),
			AccountType: a.AccountType.Normalize(),
			Debit:       t.debit,
			Credit:      t.credit,
		})
		tb.TotalDebit = tb.TotalDebit.Add(t.debit)
		tb.TotalCredit = tb.TotalCredit.Add(t.credit)
	}
	tb.Balanced = domain.WithinTolerance(tb.TotalDebit, tb.TotalCredit)
	return tb
}

func amountRow(a domain.Account, net decimal.Decimal) domain.AccountAmount {
	return domain.AccountAmount{
		AccountID: a.AccountID,
		Code:      a.Code,
		Name:      a.DisplayName(),
		Role:      a.Role,
		NetAmount: net,
	}
}

// BuildIncomeStatement computes revenue, COGS and operating expenses over [from, to].
func BuildIncomeStatement(accounts []domain.Account, lines []domain.MirroredLine, from, to time.Time) domain.IncomeStatement {
	byAccount := sumLines(lines, &from, to)
	is := domain.IncomeStatement{
		PeriodStart:  from,
		PeriodEnd:    to,
		Revenue:      []domain.AccountAmount{},
		COGS:         []domain.AccountAmount{},
		Expenses:     []domain.AccountAmount{},
		TotalRevenue: decimal.Zero,
		TotalCOGS:    decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, a := range sortAccounts(accounts) {
		t := byAccount[a.AccountID]
		if !include(a, t) {
			continue
		}
		net := NaturalBalance(a.AccountType, t.debit, t.credit)
		switch {
		case IsRevenue(a.AccountType):
			is.Revenue = append(is.Revenue, amountRow(a, net))
			is.TotalRevenue = is.TotalRevenue.Add(net)
		case IsCOGS(a):
			is.COGS = append(is.COGS, amountRow(a, net))
			is.TotalCOGS = is.TotalCOGS.Add(net)
		case IsExpense(a.AccountType):
			is.Expenses = append(is.Expenses, amountRow(a, net))
			is.TotalExpense = is.TotalExpense.Add(net)
		}
	}
	is.GrossProfit = is.TotalRevenue.Sub(is.TotalCOGS)
	is.NetIncome = is.GrossProfit.Sub(is.TotalExpense)
	return is
}

// BuildBalanceSheet computes cumulative positions up to asOf and rolls retained
// income forward: ending = prevRetained + netIncome.
func BuildBalanceSheet(accounts []domain.Account, lines []domain.MirroredLine, asOf time.Time, prevRetained, netIncome decimal.Decimal, prevSnapshotID *string) domain.BalanceSheet {
	byAccount := sumLines(lines, nil, asOf)
	bs := domain.BalanceSheet{
		AsOf:               asOf,
		Assets:             []domain.AccountAmount{},
		Liabilities:        []domain.AccountAmount{},
		Equity:             []domain.AccountAmount{},
		TotalAssets:        decimal.Zero,
		TotalLiabilities:   decimal.Zero,
		EquityExRetained:   decimal.Zero,
		PrevRetained:       prevRetained,
		NetIncome:          netIncome,
		PreviousSnapshotID: prevSnapshotID,
	}
	for _, a := range sortAccounts(accounts) {
		t := byAccount[a.AccountID]
		if !include(a, t) {
			continue
		}
		net := NaturalBalance(a.AccountType, t.debit, t.credit)
		switch a.AccountType.Normalize() {
		case domain.Asset:
			bs.Assets = append(bs.Assets, amountRow(a, net))
			bs.TotalAssets = bs.TotalAssets.Add(net)
		case domain.Liability:
			bs.Liabilities = append(bs.Liabilities, amountRow(a, net))
			bs.TotalLiabilities = bs.TotalLiabilities.Add(net)
		case domain.Equity:
			bs.Equity = append(bs.Equity, amountRow(a, net))
			bs.EquityExRetained = bs.EquityExRetained.Add(net)
		}
	}
	bs.RetainedIncomeEnding = prevRetained.Add(netIncome)
	bs.Equity = append(bs.Equity, domain.AccountAmount{
		Name:      domain.RetainedIncomeRowName,
		NetAmount: bs.RetainedIncomeEnding,
	})
	bs.TotalEquity = bs.EquityExRetained.Add(bs.RetainedIncomeEnding)
	bs.LiabPlusEquity = bs.TotalLiabilities.Add(bs.TotalEquity)
	return bs
}
