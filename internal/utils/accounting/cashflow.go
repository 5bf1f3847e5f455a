package accounting

import (
	"strings"
	"time"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

type cashFlowLine int

const (
	lineNone cashFlowLine = iota
	lineCash
	lineLoanReceivable
	lineInventory
	lineShareCapital
)

// classifyAsset prefers the explicit role and falls back to the account name.
func classifyAsset(row domain.AccountAmount) cashFlowLine {
	switch row.Role {
	case domain.RoleCash:
		return lineCash
	case domain.RoleLoanReceivable:
		return lineLoanReceivable
	case domain.RoleInventory:
		return lineInventory
	case domain.RoleShareCapital:
		return lineNone
	}
	name := strings.ToLower(row.Name)
	switch {
	case strings.Contains(name, "loan receivable"):
		return lineLoanReceivable
	case strings.Contains(name, "inventory"):
		return lineInventory
	case strings.Contains(name, "cash"):
		return lineCash
	}
	return lineNone
}

func classifyEquity(row domain.AccountAmount) cashFlowLine {
	if row.Role == domain.RoleShareCapital {
		return lineShareCapital
	}
	if row.Role == domain.RoleNone && strings.Contains(strings.ToLower(row.Name), "share capital") {
		return lineShareCapital
	}
	return lineNone
}

// CashFlowBalancesFrom extracts the four tracked lines from a balance sheet.
// Member sub-accounts add into their main's line.
func CashFlowBalancesFrom(bs domain.BalanceSheet) domain.CashFlowBalances {
	out := domain.CashFlowBalances{
		Cash:           decimal.Zero,
		LoanReceivable: decimal.Zero,
		Inventory:      decimal.Zero,
		ShareCapital:   decimal.Zero,
	}
	for _, row := range bs.Assets {
		switch classifyAsset(row) {
		case lineCash:
			out.Cash = out.Cash.Add(row.NetAmount)
		case lineLoanReceivable:
			out.LoanReceivable = out.LoanReceivable.Add(row.NetAmount)
		case lineInventory:
			out.Inventory = out.Inventory.Add(row.NetAmount)
		}
	}
	for _, row := range bs.Equity {
		if classifyEquity(row) == lineShareCapital {
			out.ShareCapital = out.ShareCapital.Add(row.NetAmount)
		}
	}
	return out
}

// BuildCashFlow derives the indirect-method statement from the current balance
// sheet and the previous snapshot. A nil begin means all-zero starting balances.
func BuildCashFlow(end domain.BalanceSheet, begin *domain.BalanceSheet, netIncome decimal.Decimal) domain.CashFlow {
	cf := domain.CashFlow{
		EndAsOf:   end.AsOf,
		End:       CashFlowBalancesFrom(end),
		NetIncome: netIncome,
		CFI:       decimal.Zero,
	}
	if begin != nil {
		asOf := begin.AsOf
		cf.BeginAsOf = &asOf
		cf.Begin = CashFlowBalancesFrom(*begin)
	} else {
		cf.Begin = CashFlowBalancesFrom(domain.BalanceSheet{})
	}

	cf.DeltaLoanReceivable = cf.End.LoanReceivable.Sub(cf.Begin.LoanReceivable)
	cf.DeltaInventory = cf.End.Inventory.Sub(cf.Begin.Inventory)
	cf.DeltaWorkingCapital = cf.DeltaLoanReceivable.Add(cf.DeltaInventory)
	cf.DeltaShareCapital = cf.End.ShareCapital.Sub(cf.Begin.ShareCapital)

	cf.CFO = netIncome.Sub(cf.DeltaWorkingCapital)
	cf.CFF = cf.DeltaShareCapital
	cf.NetChangeCash = cf.End.Cash.Sub(cf.Begin.Cash)
	return cf
}

// PreviousSnapshotCutoff is the instant before which a saved snapshot counts as "previous".
func PreviousSnapshotCutoff(now time.Time) time.Time {
	return StartOfDay(now)
}
