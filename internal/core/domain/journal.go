package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

var (
	ErrJournalUnbalanced = fmt.Errorf("%w: journal debits and credits do not balance", apperrors.ErrValidation)
	ErrJournalMinLines   = fmt.Errorf("%w: journal must have at least two lines", apperrors.ErrValidation)
	ErrNegativeLine      = fmt.Errorf("%w: journal line amounts must not be negative", apperrors.ErrValidation)
)

// BalanceTolerance is the largest debit/credit difference still considered balanced.
var BalanceTolerance = decimal.RequireFromString("0.005")

// JournalLine is one (account, debit, credit) row of an entry. By convention
// only one of Debit and Credit is non-zero.
type JournalLine struct {
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo,omitempty"`
}

// EntryCursor marks the last entry of a page in (date, reference) order.
type EntryCursor struct {
	Date      time.Time
	RefNumber string
}

// EntryQuery selects entries dated within [From, To] that sort after After.
// Nil bounds are open; Limit <= 0 returns everything.
type EntryQuery struct {
	From  *time.Time
	To    *time.Time
	After *EntryCursor
	Limit int
}

// JournalEntry is a dated set of lines. RefNumber is the zero-padded journal
// number issued by the "journals" counter.
type JournalEntry struct {
	JournalID       string        `json:"journalID"`
	RefNumber       string        `json:"refNumber"`
	Date            time.Time     `json:"date"`
	Description     string        `json:"description"`
	Lines           []JournalLine `json:"lines"`
	LinkedPaymentID *string       `json:"linkedPaymentID,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	CreatedBy       string        `json:"createdBy"`
}

// Totals returns the summed debits and credits of the entry.
func (e JournalEntry) Totals() (decimal.Decimal, decimal.Decimal) {
	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// IsBalanced reports whether debits equal credits to two decimal places.
func (e JournalEntry) IsBalanced() bool {
	debit, credit := e.Totals()
	return WithinTolerance(debit, credit)
}

// WithinTolerance reports |a-b| < BalanceTolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(BalanceTolerance)
}

// Validate checks the shape of an entry: enough lines, no negative amounts, balanced.
func (e JournalEntry) Validate() error {
	if len(e.Lines) < 2 {
		return ErrJournalMinLines
	}
	var errs []error
	for i, l := range e.Lines {
		if l.AccountID == "" {
			errs = append(errs, fmt.Errorf("%w: line %d has no account", apperrors.ErrValidation, i))
		}
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			errs = append(errs, fmt.Errorf("%w (line %d)", ErrNegativeLine, i))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if !e.IsBalanced() {
		debit, credit := e.Totals()
		return fmt.Errorf("%w: debits %s, credits %s", ErrJournalUnbalanced, debit.StringFixed(2), credit.StringFixed(2))
	}
	return nil
}

// MirroredLine is the flattened copy of a journal line kept for reporting queries.
type MirroredLine struct {
	LineID    string          `json:"lineID"` // "{journalID}_{lineIndex}"
	JournalID string          `json:"journalID"`
	LineIndex int             `json:"lineIndex"`
	AccountID string          `json:"accountID"`
	Date      time.Time       `json:"date"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// MirrorLineID builds the deterministic key of a mirrored line.
func MirrorLineID(journalID string, lineIndex int) string {
	return fmt.Sprintf("%s_%d", journalID, lineIndex)
}

// MirroredLines flattens the entry. Re-mirroring yields the same keys.
func (e JournalEntry) MirroredLines() []MirroredLine {
	out := make([]MirroredLine, len(e.Lines))
	for i, l := range e.Lines {
		out[i] = MirroredLine{
			LineID:    MirrorLineID(e.JournalID, i),
			JournalID: e.JournalID,
			LineIndex: i,
			AccountID: l.AccountID,
			Date:      e.Date,
			Debit:     l.Debit,
			Credit:    l.Credit,
		}
	}
	return out
}
