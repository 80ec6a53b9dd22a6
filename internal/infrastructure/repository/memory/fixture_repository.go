package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-slates/internal/domain/fixture"
)

type FixtureRepository struct {
	mu    sync.RWMutex
	items map[string]fixture.Fixture
	order []string
}

func NewFixtureRepository(fixtures []fixture.Fixture) *FixtureRepository {
	r := &FixtureRepository{items: make(map[string]fixture.Fixture, len(fixtures))}
	for _, item := range fixtures {
		r.items[item.ID] = item
		r.order = append(r.order, item.ID)
	}
	return r
}

func (r *FixtureRepository) List(_ context.Context) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fixture.Fixture, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *FixtureRepository) GetByIDs(_ context.Context, fixtureIDs []string) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fixture.Fixture, 0, len(fixtureIDs))
	for _, id := range fixtureIDs {
		if item, ok := r.items[id]; ok {
			out = append(out, item)
		}
	}

	return out, nil
}

func (r *FixtureRepository) UpsertResult(_ context.Context, fixtureID, status string, homeScore, awayScore *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[fixtureID]
	if !ok {
		item = fixture.Fixture{ID: fixtureID}
		r.order = append(r.order, fixtureID)
	}
	item.Status = fixture.NormalizeStatus(status)
	if homeScore != nil {
		score := *homeScore
		item.HomeScore = &score
	}
	if awayScore != nil {
		score := *awayScore
		item.AwayScore = &score
	}
	r.items[fixtureID] = item

	return nil
}
