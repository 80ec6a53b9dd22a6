package entry

import "context"

// Repository exposes entry persistence operations.
type Repository interface {
	GetByID(ctx context.Context, entryID string) (Entry, bool, error)
	GetByUser(ctx context.Context, userID string) (Entry, bool, error)
	// List returns entries in creation order. Leaderboard tie handling
	// relies on that order being stable.
	List(ctx context.Context) ([]Entry, error)
	Create(ctx context.Context, e Entry) error
}
