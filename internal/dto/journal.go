package dto

import (
	"time"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one line of a manual journal entry.
type JournalLineRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo"`
}

// CreateJournalEntryRequest defines a manual, operator-entered journal entry.
type CreateJournalEntryRequest struct {
	Date        time.Time            `json:"date" binding:"required"`
	Description string               `json:"description" binding:"required"`
	Lines       []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// JournalLineResponse is one line of a journal entry response.
type JournalLineResponse struct {
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo,omitempty"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	JournalID       string                `json:"journalID"`
	RefNumber       string                `json:"refNumber"`
	Date            time.Time             `json:"date"`
	Description     string                `json:"description"`
	LinkedPaymentID *string               `json:"linkedPaymentID,omitempty"`
	Lines           []JournalLineResponse `json:"lines"`
	CreatedAt       time.Time             `json:"createdAt"`
	CreatedBy       string                `json:"createdBy"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its response DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{AccountID: l.AccountID, Debit: l.Debit, Credit: l.Credit, Memo: l.Memo}
	}
	return JournalEntryResponse{
		JournalID:       e.JournalID,
		RefNumber:       e.RefNumber,
		Date:            e.Date,
		Description:     e.Description,
		LinkedPaymentID: e.LinkedPaymentID,
		Lines:           lines,
		CreatedAt:       e.CreatedAt,
		CreatedBy:       e.CreatedBy,
	}
}

// ListLinesParams defines query parameters for the ledger lines listing.
type ListLinesParams struct {
	AccountID *string    `form:"accountID"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
}

// ListEntriesParams defines query parameters for paging journal entries.
type ListEntriesParams struct {
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
	Limit     int        `form:"limit" binding:"omitempty,min=1,max=200"`
	NextToken string     `form:"nextToken"`
}

// ListEntriesResponse is one page of entries. NextToken is empty on the last page.
type ListEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken string                 `json:"nextToken,omitempty"`
}

// ListLinesResponse wraps mirrored lines with their debit/credit totals.
type ListLinesResponse struct {
	Lines       []domain.MirroredLine `json:"lines"`
	TotalDebit  decimal.Decimal       `json:"totalDebit"`
	TotalCredit decimal.Decimal       `json:"totalCredit"`
}

// ToListLinesResponse totals the lines.
func ToListLinesResponse(lines []domain.MirroredLine) ListLinesResponse {
	res := ListLinesResponse{Lines: lines, TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	if res.Lines == nil {
		res.Lines = []domain.MirroredLine{}
	}
	for _, l := range lines {
		res.TotalDebit = res.TotalDebit.Add(l.Debit)
		res.TotalCredit = res.TotalCredit.Add(l.Credit)
	}
	return res
}
