package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
)

// ErrAccountNotFound is returned when no row carries the requested main name.
var ErrAccountNotFound = fmt.Errorf("%w: account not found", apperrors.ErrNotFound)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Income    AccountType = "INCOME" // Treated the same as Revenue everywhere.
	Expense   AccountType = "EXPENSE"
)

// Valid reports whether t is one of the known account types (case-insensitive).
func (t AccountType) Valid() bool {
	switch AccountType(strings.ToUpper(strings.TrimSpace(string(t)))) {
	case Asset, Liability, Equity, Revenue, Income, Expense:
		return true
	}
	return false
}

// Normalize returns the upper-case canonical spelling of the type.
func (t AccountType) Normalize() AccountType {
	return AccountType(strings.ToUpper(strings.TrimSpace(string(t))))
}

// AccountRole tags accounts whose meaning the reporting engine must recognise.
// Accounts created before roles existed keep RoleNone and are matched by name.
type AccountRole string

const (
	RoleNone           AccountRole = ""
	RoleCash           AccountRole = "CASH"
	RoleLoanReceivable AccountRole = "LOAN_RECEIVABLE"
	RoleInventory      AccountRole = "INVENTORY"
	RoleShareCapital   AccountRole = "SHARE_CAPITAL"
)

// CodeRange is the inclusive numeric block reserved for an account type.
type CodeRange struct {
	From int
	To   int
}

var codeRanges = map[AccountType]CodeRange{
	Asset:     {From: 1000, To: 1999},
	Liability: {From: 2000, To: 2999},
	Equity:    {From: 3000, To: 3999},
	Revenue:   {From: 4000, To: 4999},
	Income:    {From: 4000, To: 4999},
	Expense:   {From: 5000, To: 5999},
}

// CodeRangeFor returns the code block of an account type.
func CodeRangeFor(t AccountType) (CodeRange, bool) {
	r, ok := codeRanges[t.Normalize()]
	return r, ok
}

// Contains reports whether code falls inside the range.
func (r CodeRange) Contains(code int) bool {
	return code >= r.From && code <= r.To
}

// Account is one row of the chart of accounts. Main is the category
// ("Share Capital"); Individual names the sub-ledger holder and is empty on
// the canonical row that acts as the template for its main.
type Account struct {
	AccountID   string      `json:"accountID"`
	Code        *int        `json:"code,omitempty"`
	Main        string      `json:"main"`
	Individual  string      `json:"individual"`
	AccountType AccountType `json:"accountType"`
	Role        AccountRole `json:"role,omitempty"`
	Archived    bool        `json:"archived"`
	OwnerRef    string      `json:"ownerRef,omitempty"` // member the sub-account belongs to
	AuditFields
}

// IsCanonical reports whether this is the template row of its main.
func (a Account) IsCanonical() bool {
	return strings.TrimSpace(a.Individual) == ""
}

// DisplayName is "Main" for canonical rows and "Main - Individual" otherwise.
func (a Account) DisplayName() string {
	main := strings.TrimSpace(a.Main)
	individual := strings.TrimSpace(a.Individual)
	if individual == "" {
		return main
	}
	return main + " - " + individual
}

// SameMain compares main names the way lookups do: trimmed and case-insensitive.
func SameMain(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// CanonicalAccount describes a template row seeded into an empty chart.
type CanonicalAccount struct {
	Code        int
	Main        string
	AccountType AccountType
	Role        AccountRole
}

// DefaultChart is the minimal chart of accounts the posting rules rely on.
var DefaultChart = []CanonicalAccount{
	{Code: 1000, Main: "Cash on Hand", AccountType: Asset, Role: RoleCash},
	{Code: 1100, Main: "Loan Receivable", AccountType: Asset, Role: RoleLoanReceivable},
	{Code: 1200, Main: "Rice Inventory", AccountType: Asset, Role: RoleInventory},
	{Code: 2000, Main: "Accounts Payable", AccountType: Liability},
	{Code: 3000, Main: "Share Capital", AccountType: Equity, Role: RoleShareCapital},
	{Code: 4000, Main: "Membership Fee Income", AccountType: Income},
	{Code: 4100, Main: "Interest Income", AccountType: Income},
	{Code: 4200, Main: "Sales", AccountType: Revenue},
	{Code: 4300, Main: "Other Income", AccountType: Income},
	{Code: 5000, Main: "COGS", AccountType: Expense},
	{Code: 5100, Main: "Operating Expenses", AccountType: Expense},
}
