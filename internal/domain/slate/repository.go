package slate

import "context"

// Repository exposes slate persistence operations.
type Repository interface {
	GetByID(ctx context.Context, slateID string) (Slate, bool, error)
	ListByStatus(ctx context.Context, status string) ([]Slate, error)
	List(ctx context.Context) ([]Slate, error)
	// UpdateStatus persists the transition only when the stored status
	// equals expected, so two settlement runs cannot interleave.
	UpdateStatus(ctx context.Context, slateID, expected, next string) (bool, error)
}
