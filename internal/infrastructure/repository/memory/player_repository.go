package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-slates/internal/domain/player"
)

type PlayerRepository struct {
	mu    sync.RWMutex
	items []player.Player
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	return &PlayerRepository{items: append([]player.Player(nil), players...)}
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.items))
	out = append(out, r.items...)

	return out, nil
}

func (r *PlayerRepository) GetByIDs(_ context.Context, playerIDs []string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]struct{}, len(playerIDs))
	for _, id := range playerIDs {
		wanted[id] = struct{}{}
	}

	out := make([]player.Player, 0, len(wanted))
	for _, item := range r.items {
		if _, ok := wanted[item.ID]; ok {
			out = append(out, item)
		}
	}

	return out, nil
}

func (r *PlayerRepository) UpsertPlayers(_ context.Context, items []player.Player) error {
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
