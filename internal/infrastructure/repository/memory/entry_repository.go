package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/fantasy-slates/internal/domain/entry"
)

type EntryRepository struct {
	mu    sync.RWMutex
	items []entry.Entry
}

func NewEntryRepository() *EntryRepository {
	return &EntryRepository{}
}

func (r *EntryRepository) GetByID(_ context.Context, entryID string) (entry.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.ID == entryID {
			return item, true, nil
		}
	}

	return entry.Entry{}, false, nil
}

func (r *EntryRepository) GetByUser(_ context.Context, userID string) (entry.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.UserID == userID {
			return item, true, nil
		}
	}

	return entry.Entry{}, false, nil
}

func (r *EntryRepository) List(_ context.Context) ([]entry.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entry.Entry, 0, len(r.items))
	out = append(out, r.items...)

	return out, nil
}

func (r *EntryRepository) Create(_ context.Context, e entry.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range r.items {
		if item.UserID == e.UserID {
			return fmt.Errorf("entry already exists for user %s", e.UserID)
		}
	}
	r.items = append(r.items, e)

	return nil
}
