package domain

import "fmt"

// Sequence is a named monotonically increasing counter.
type Sequence struct {
	Name string `json:"name"`
	Next int64  `json:"next"`
}

const (
	SequenceReceipts = "receipts"
	SequenceJournals = "journals"

	// DocumentNumberWidth is the zero-padding applied to receipt and journal numbers.
	DocumentNumberWidth = 6
)

// MemberSequenceName is the year-scoped counter used for member IDs.
func MemberSequenceName(year int) string {
	return fmt.Sprintf("members-%d", year)
}

// FormatRef zero-pads a counter value into a document number.
func FormatRef(value int64, width int) string {
	return fmt.Sprintf("%0*d", width, value)
}
