package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-slates/internal/domain/playerstats"
)

type PlayerStatsRepository struct {
	mu      sync.RWMutex
	byMatch map[string][]playerstats.FixtureStat
}

func NewPlayerStatsRepository() *PlayerStatsRepository {
	return &PlayerStatsRepository{byMatch: make(map[string][]playerstats.FixtureStat)}
}

func (r *PlayerStatsRepository) ListByFixtures(_ context.Context, fixtureIDs []string) ([]playerstats.FixtureStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]playerstats.FixtureStat, 0)
	for _, fixtureID := range fixtureIDs {
		out = append(out, r.byMatch[fixtureID]...)
	}

	return out, nil
}

func (r *PlayerStatsRepository) UpsertFixtureStats(_ context.Context, fixtureID string, stats []playerstats.FixtureStat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.byMatch[fixtureID]
	for _, stat := range stats {
		stat.FixtureID = fixtureID
		updated := false
		for idx := range rows {
			if rows[idx].PlayerID == stat.PlayerID {
				rows[idx] = stat
				updated = true
				break
			}
		}
		if !updated {
			rows = append(rows, stat)
		}
	}
	r.byMatch[fixtureID] = rows

	return nil
}
