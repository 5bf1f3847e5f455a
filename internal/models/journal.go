package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a row of journal_entries.
type JournalEntry struct {
	JournalID       string    `db:"journal_id"`
	RefNumber       string    `db:"ref_number"`
	EntryDate       time.Time `db:"entry_date"`
	Description     string    `db:"description"`
	LinkedPaymentID *string   `db:"linked_payment_id"`
	CreatedAt       time.Time `db:"created_at"`
	CreatedBy       string    `db:"created_by"`
}

// JournalLine is a row of journal_lines, ordered by LineIndex within an entry.
type JournalLine struct {
	JournalID string          `db:"journal_id"`
	LineIndex int             `db:"line_index"`
	AccountID string          `db:"account_id"`
	Debit     decimal.Decimal `db:"debit"`
	Credit    decimal.Decimal `db:"credit"`
	Memo      string          `db:"memo"`
}

// MirroredLine is a row of journal_line_mirror.
type MirroredLine struct {
	LineID    string          `db:"line_id"`
	JournalID string          `db:"journal_id"`
	LineIndex int             `db:"line_index"`
	AccountID string          `db:"account_id"`
	EntryDate time.Time       `db:"entry_date"`
	Debit     decimal.Decimal `db:"debit"`
	Credit    decimal.Decimal `db:"credit"`
}
