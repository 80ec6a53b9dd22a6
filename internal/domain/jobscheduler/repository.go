package jobscheduler

import "context"

// Repository records scheduled-job lifecycle events keyed by dispatch
// id, so a settlement or feed-sync run can be audited end to end.
type Repository interface {
	UpsertEvent(ctx context.Context, event DispatchEvent) error
}
