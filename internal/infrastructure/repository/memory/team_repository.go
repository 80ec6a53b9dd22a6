package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-slates/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	items []team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	return &TeamRepository{items: append([]team.Team(nil), teams...)}
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.items))
	out = append(out, r.items...)

	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.ID == teamID {
			return item, true, nil
		}
	}

	return team.Team{}, false, nil
}

func (r *TeamRepository) UpsertTeams(_ context.Context, items []team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		if item.ID == "" {
			continue
		}
		updated := false
		for idx := range r.items {
			if r.items[idx].ID == item.ID {
				r.items[idx] = item
				updated = true
				break
			}
		}
		if !updated {
			r.items = append(r.items, item)
		}
	}

	return nil
}
