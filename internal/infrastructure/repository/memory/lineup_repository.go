package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/fantasy-slates/internal/domain/lineup"
)

type LineupRepository struct {
	mu        sync.RWMutex
	items     map[string]lineup.Lineup
	order     []string
	openGuard func(ctx context.Context, slateID string) error
}

func NewLineupRepository() *LineupRepository {
	return &LineupRepository{items: make(map[string]lineup.Lineup)}
}

// GuardReplace installs the pre-write slate check Replace runs, so the
// contract of rejecting writes against a no-longer-open slate holds in
// memory as well.
func (r *LineupRepository) GuardReplace(guard func(ctx context.Context, slateID string) error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.openGuard = guard
}

func (r *LineupRepository) GetByEntryAndSlate(_ context.Context, entryID, slateID string) (lineup.Lineup, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[lineupKey(entryID, slateID)]
	if !ok {
		return lineup.Lineup{}, false, nil
	}

	return cloneLineup(item), true, nil
}

func (r *LineupRepository) ListBySlate(_ context.Context, slateID string) ([]lineup.Lineup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]lineup.Lineup, 0)
	for _, key := range r.order {
		if item := r.items[key]; item.SlateID == slateID {
			out = append(out, cloneLineup(item))
		}
	}

	return out, nil
}

func (r *LineupRepository) Replace(ctx context.Context, item lineup.Lineup) (lineup.Lineup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.openGuard != nil {
		if err := r.openGuard(ctx, item.SlateID); err != nil {
			return lineup.Lineup{}, err
		}
	}

	key := lineupKey(item.EntryID, item.SlateID)
	existing, ok := r.items[key]
	if ok {
		item.ID = existing.ID
	} else {
		if item.ID == "" {
			return lineup.Lineup{}, fmt.Errorf("lineup public id is required")
		}
		r.order = append(r.order, key)
	}
	r.items[key] = cloneLineup(item)

	return cloneLineup(item), nil
}

func lineupKey(entryID, slateID string) string {
	return entryID + "::" + slateID
}

func cloneLineup(item lineup.Lineup) lineup.Lineup {
	copied := item
	copied.Picks = append([]lineup.Pick(nil), item.Picks...)
	return copied
}
