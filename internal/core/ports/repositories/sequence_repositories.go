package repositories

import "context"

// SequenceRepository hands out values of named counters.
type SequenceRepository interface {
	// NextValue atomically returns the current value of name (1 when absent)
	// and advances it. No two callers observe the same value.
	NextValue(ctx context.Context, name string) (int64, error)
}
