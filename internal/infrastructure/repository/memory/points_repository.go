package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-slates/internal/domain/points"
)

type PointsRepository struct {
	mu           sync.RWMutex
	lineupPoints map[string]points.LineupPoints
	lineupOrder  []string
	entryTotals  map[string]points.EntryTotal
	entryOrder   []string
}

func NewPointsRepository() *PointsRepository {
	return &PointsRepository{
		lineupPoints: make(map[string]points.LineupPoints),
		entryTotals:  make(map[string]points.EntryTotal),
	}
}

func (r *PointsRepository) GetLineupPoints(_ context.Context, lineupID string) (points.LineupPoints, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.lineupPoints[lineupID]
	if !ok {
		return points.LineupPoints{}, false, nil
	}

	return cloneLineupPoints(item), true, nil
}

func (r *PointsRepository) ListLineupPointsBySlate(_ context.Context, slateID string) ([]points.LineupPoints, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]points.LineupPoints, 0)
	for _, id := range r.lineupOrder {
		if item := r.lineupPoints[id]; item.SlateID == slateID {
			out = append(out, cloneLineupPoints(item))
		}
	}

	return out, nil
}

func (r *PointsRepository) ListLineupPointsByEntry(_ context.Context, entryID string) ([]points.LineupPoints, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]points.LineupPoints, 0)
	for _, id := range r.lineupOrder {
		if item := r.lineupPoints[id]; item.EntryID == entryID {
			out = append(out, cloneLineupPoints(item))
		}
	}

	return out, nil
}

func (r *PointsRepository) UpsertLineupPoints(_ context.Context, lp points.LineupPoints) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.lineupPoints[lp.LineupID]; !ok {
		r.lineupOrder = append(r.lineupOrder, lp.LineupID)
	}
	r.lineupPoints[lp.LineupID] = cloneLineupPoints(lp)

	return nil
}

func (r *PointsRepository) GetEntryTotal(_ context.Context, entryID string) (points.EntryTotal, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.entryTotals[entryID]
	if !ok {
		return points.EntryTotal{}, false, nil
	}

	return item, true, nil
}

func (r *PointsRepository) ListEntryTotals(_ context.Context) ([]points.EntryTotal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]points.EntryTotal, 0, len(r.entryOrder))
	for _, id := range r.entryOrder {
		out = append(out, r.entryTotals[id])
	}

	return out, nil
}

func (r *PointsRepository) UpsertEntryTotal(_ context.Context, et points.EntryTotal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entryTotals[et.EntryID]; !ok {
		r.entryOrder = append(r.entryOrder, et.EntryID)
	}
	r.entryTotals[et.EntryID] = et

	return nil
}

func cloneLineupPoints(item points.LineupPoints) points.LineupPoints {
	copied := item
	copied.Breakdown = make(map[string]int, len(item.Breakdown))
	for k, v := range item.Breakdown {
		copied.Breakdown[k] = v
	}
	return copied
}
