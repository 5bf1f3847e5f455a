package services

import "context"

// SequenceSvc hands out counter values and formatted document numbers.
type SequenceSvc interface {
	NextValue(ctx context.Context, name string) (int64, error)

	// NextDocumentNumber returns the next value of name zero-padded to six digits.
	NextDocumentNumber(ctx context.Context, name string) (string, error)

	// NextMemberID returns "{year}-{00000n}" from the year-scoped member counter.
	NextMemberID(ctx context.Context, year int) (string, error)
}
