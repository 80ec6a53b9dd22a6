package points

import "context"

// Repository exposes derived-points persistence operations.
type Repository interface {
	GetLineupPoints(ctx context.Context, lineupID string) (LineupPoints, bool, error)
	ListLineupPointsBySlate(ctx context.Context, slateID string) ([]LineupPoints, error)
	ListLineupPointsByEntry(ctx context.Context, entryID string) ([]LineupPoints, error)
	UpsertLineupPoints(ctx context.Context, lp LineupPoints) error

	GetEntryTotal(ctx context.Context, entryID string) (EntryTotal, bool, error)
	ListEntryTotals(ctx context.Context) ([]EntryTotal, error)
	UpsertEntryTotal(ctx context.Context, et EntryTotal) error
}
