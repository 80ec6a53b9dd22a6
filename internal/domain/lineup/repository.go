package lineup

import (
	"context"
	"errors"
)

// ErrSlateNotOpen reports that the slate stopped accepting submissions
// between validation and the write.
var ErrSlateNotOpen = errors.New("slate is not open for submissions")

// Repository exposes lineup persistence operations.
type Repository interface {
	GetByEntryAndSlate(ctx context.Context, entryID, slateID string) (Lineup, bool, error)
	ListBySlate(ctx context.Context, slateID string) ([]Lineup, error)
	// Replace upserts the lineup row keyed by (entry, slate) and swaps
	// its pick set wholesale. The write re-verifies, inside the same
	// transaction, that the slate is still OPEN and before lock; it
	// returns ErrSlateNotOpen when it is not.
	Replace(ctx context.Context, l Lineup) (Lineup, error)
}
