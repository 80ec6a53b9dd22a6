package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-slates/internal/domain/slate"
)

type SlateRepository struct {
	mu    sync.RWMutex
	items map[string]slate.Slate
	order []string
}

func NewSlateRepository(slates []slate.Slate) *SlateRepository {
	r := &SlateRepository{items: make(map[string]slate.Slate, len(slates))}
	for _, item := range slates {
		r.items[item.ID] = cloneSlate(item)
		r.order = append(r.order, item.ID)
	}
	return r
}

func (r *SlateRepository) GetByID(_ context.Context, slateID string) (slate.Slate, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[slateID]
	if !ok {
		return slate.Slate{}, false, nil
	}

	return cloneSlate(item), true, nil
}

func (r *SlateRepository) List(_ context.Context) ([]slate.Slate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]slate.Slate, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneSlate(r.items[id]))
	}

	return out, nil
}

func (r *SlateRepository) ListByStatus(_ context.Context, status string) ([]slate.Slate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]slate.Slate, 0)
	for _, id := range r.order {
		if item := r.items[id]; item.Status == status {
			out = append(out, cloneSlate(item))
		}
	}

	return out, nil
}

func (r *SlateRepository) UpdateStatus(_ context.Context, slateID, expected, next string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[slateID]
	if !ok || item.Status != expected {
		return false, nil
	}

	item.Status = next
	r.items[slateID] = item
	return true, nil
}

func cloneSlate(item slate.Slate) slate.Slate {
	copied := item
	copied.FixtureIDs = append([]string(nil), item.FixtureIDs...)
	return copied
}
