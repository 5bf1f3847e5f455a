package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ReportType identifies one of the four financial statements.
type ReportType string

const (
	TrialBalanceReport    ReportType = "TB"
	IncomeStatementReport ReportType = "IS"
	BalanceSheetReport    ReportType = "BS"
	CashFlowReport        ReportType = "CF"
)

// AutoReportID is the fixed cache id a rebuild overwrites for t ("auto_TB", ...).
func AutoReportID(t ReportType) string {
	return "auto_" + string(t)
}

// AutoReportTypes lists the caches in rebuild order.
var AutoReportTypes = []ReportType{TrialBalanceReport, IncomeStatementReport, BalanceSheetReport, CashFlowReport}

// RetainedIncomeRowName is the synthetic equity row appended to balance sheets.
const RetainedIncomeRowName = "Retained Income / Loss"

// TrialBalanceRow holds per-account debit and credit totals for the period.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	Code        *int            `json:"code,omitempty"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalance is per-account totals over [PeriodStart, PeriodEnd].
type TrialBalance struct {
	PeriodStart time.Time         `json:"periodStart"`
	PeriodEnd   time.Time         `json:"periodEnd"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	Balanced    bool              `json:"balanced"`
}

// AccountAmount represents an account with its natural-sign balance.
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Code      *int            `json:"code,omitempty"`
	Name      string          `json:"name"`
	Role      AccountRole     `json:"role,omitempty"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// IncomeStatement splits expenses into cost of goods sold and operating expenses.
type IncomeStatement struct {
	PeriodStart  time.Time       `json:"periodStart"`
	PeriodEnd    time.Time       `json:"periodEnd"`
	Revenue      []AccountAmount `json:"revenue"`
	COGS         []AccountAmount `json:"cogs"`
	Expenses     []AccountAmount `json:"expenses"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalCOGS    decimal.Decimal `json:"totalCOGS"`
	GrossProfit  decimal.Decimal `json:"grossProfit"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	NetIncome    decimal.Decimal `json:"netIncome"`
}

// BalanceSheet is the position as of AsOf, with retained income rolled
// forward from the previous saved snapshot.
type BalanceSheet struct {
	AsOf                 time.Time       `json:"asOf"`
	Assets               []AccountAmount `json:"assets"`
	Liabilities          []AccountAmount `json:"liabilities"`
	Equity               []AccountAmount `json:"equity"`
	TotalAssets          decimal.Decimal `json:"totalAssets"`
	TotalLiabilities     decimal.Decimal `json:"totalLiabilities"`
	EquityExRetained     decimal.Decimal `json:"equityExRetained"`
	PrevRetained         decimal.Decimal `json:"prevRetained"`
	NetIncome            decimal.Decimal `json:"netIncome"`
	RetainedIncomeEnding decimal.Decimal `json:"retainedIncomeEnding"`
	TotalEquity          decimal.Decimal `json:"totalEquity"`
	LiabPlusEquity       decimal.Decimal `json:"liabPlusEquity"`
	PreviousSnapshotID   *string         `json:"previousSnapshotID,omitempty"`
}

// CashFlowBalances are the four balance-sheet lines the cash flow is derived from.
type CashFlowBalances struct {
	Cash           decimal.Decimal `json:"cash"`
	LoanReceivable decimal.Decimal `json:"loanReceivable"`
	Inventory      decimal.Decimal `json:"inventory"`
	ShareCapital   decimal.Decimal `json:"shareCapital"`
}

// CashFlow is a simplified indirect-method statement: three working-capital
// lines and one financing line; investing activity is not modelled.
type CashFlow struct {
	BeginAsOf           *time.Time       `json:"beginAsOf,omitempty"`
	EndAsOf             time.Time        `json:"endAsOf"`
	Begin               CashFlowBalances `json:"begin"`
	End                 CashFlowBalances `json:"end"`
	NetIncome           decimal.Decimal  `json:"netIncome"`
	DeltaLoanReceivable decimal.Decimal  `json:"dLoan"`
	DeltaInventory      decimal.Decimal  `json:"dInv"`
	DeltaWorkingCapital decimal.Decimal  `json:"dWC"`
	DeltaShareCapital   decimal.Decimal  `json:"dShareCap"`
	CFO                 decimal.Decimal  `json:"cfo"`
	CFI                 decimal.Decimal  `json:"cfi"`
	CFF                 decimal.Decimal  `json:"cff"`
	NetChangeCash       decimal.Decimal  `json:"netChangeCash"`
}

// ReportCache is a derived, always-overwritten statement stored under a fixed id.
type ReportCache struct {
	ReportID    string          `json:"reportID"`
	ReportType  ReportType      `json:"type"`
	PeriodStart *time.Time      `json:"periodStart,omitempty"`
	PeriodEnd   time.Time       `json:"periodEnd"`
	Payload     json.RawMessage `json:"payload"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ReportSnapshot is an immutable, manually saved statement. Balance-sheet
// snapshots feed the retained-income roll-forward of later rebuilds.
type ReportSnapshot struct {
	SnapshotID string          `json:"snapshotID"`
	ReportType ReportType      `json:"type"`
	AsOf       time.Time       `json:"asOf"`
	Payload    json.RawMessage `json:"payload"`
	CreatedAt  time.Time       `json:"createdAt"`
	CreatedBy  string          `json:"createdBy"`
}

// RebuildResult reports the statements produced by one rebuild.
type RebuildResult struct {
	TrialBalance    TrialBalance    `json:"trialBalance"`
	IncomeStatement IncomeStatement `json:"incomeStatement"`
	BalanceSheet    BalanceSheet    `json:"balanceSheet"`
	CashFlow        CashFlow        `json:"cashFlow"`
}
