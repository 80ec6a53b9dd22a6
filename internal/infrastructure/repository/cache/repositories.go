package cache

import (
	"context"
	"sort"
	"strings"

	"github.com/riskibarqy/fantasy-slates/internal/domain/fixture"
	"github.com/riskibarqy/fantasy-slates/internal/domain/lineup"
	"github.com/riskibarqy/fantasy-slates/internal/domain/player"
	"github.com/riskibarqy/fantasy-slates/internal/domain/slate"
	"github.com/riskibarqy/fantasy-slates/internal/domain/team"
	basecache "github.com/riskibarqy/fantasy-slates/internal/platform/cache"
)

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	v, err := r.cache.GetOrLoad(ctx, "team:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	key := "team:id:" + teamID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return cachedTeamByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeamByID)
	return cached.value, cached.exists, nil
}

type cachedTeamByID struct {
	value  team.Team
	exists bool
}

type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	v, err := r.cache.GetOrLoad(ctx, "player:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	ids := append([]string(nil), playerIDs...)
	sort.Strings(ids)
	key := "player:ids:" + strings.Join(ids, ",")
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.GetByIDs(ctx, playerIDs)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

type FixtureRepository struct {
	next  fixture.Repository
	cache *basecache.Store
}

func NewFixtureRepository(next fixture.Repository, cache *basecache.Store) *FixtureRepository {
	return &FixtureRepository{next: next, cache: cache}
}

func (r *FixtureRepository) List(ctx context.Context) ([]fixture.Fixture, error) {
	v, err := r.cache.GetOrLoad(ctx, "fixture:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]fixture.Fixture(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]fixture.Fixture)
	return append([]fixture.Fixture(nil), items...), nil
}

func (r *FixtureRepository) GetByIDs(ctx context.Context, fixtureIDs []string) ([]fixture.Fixture, error) {
	ids := append([]string(nil), fixtureIDs...)
	sort.Strings(ids)
	key := "fixture:ids:" + strings.Join(ids, ",")
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.GetByIDs(ctx, fixtureIDs)
		if err != nil {
			return nil, err
		}
		return append([]fixture.Fixture(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]fixture.Fixture)
	return append([]fixture.Fixture(nil), items...), nil
}

func (r *FixtureRepository) UpsertResult(ctx context.Context, fixtureID, status string, homeScore, awayScore *int) error {
	if err := r.next.UpsertResult(ctx, fixtureID, status, homeScore, awayScore); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "fixture:")
	return nil
}

type SlateRepository struct {
	next  slate.Repository
	cache *basecache.Store
}

func NewSlateRepository(next slate.Repository, cache *basecache.Store) *SlateRepository {
	return &SlateRepository{next: next, cache: cache}
}

func (r *SlateRepository) GetByID(ctx context.Context, slateID string) (slate.Slate, bool, error) {
	key := "slate:id:" + slateID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, slateID)
		if err != nil {
			return nil, err
		}
		return cachedSlateByID{value: cloneSlate(item), exists: exists}, nil
	})
	if err != nil {
		return slate.Slate{}, false, err
	}

	cached, _ := v.(cachedSlateByID)
	return cloneSlate(cached.value), cached.exists, nil
}

func (r *SlateRepository) List(ctx context.Context) ([]slate.Slate, error) {
	return r.cachedList(ctx, "slate:list", func(ctx context.Context) ([]slate.Slate, error) {
		return r.next.List(ctx)
	})
}

func (r *SlateRepository) ListByStatus(ctx context.Context, status string) ([]slate.Slate, error) {
	return r.cachedList(ctx, "slate:list:status:"+status, func(ctx context.Context) ([]slate.Slate, error) {
		return r.next.ListByStatus(ctx, status)
	})
}

func (r *SlateRepository) cachedList(ctx context.Context, key string, load func(context.Context) ([]slate.Slate, error)) ([]slate.Slate, error) {
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]slate.Slate, 0, len(items))
		for _, item := range items {
			out = append(out, cloneSlate(item))
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]slate.Slate)
	out := make([]slate.Slate, 0, len(items))
	for _, item := range items {
		out = append(out, cloneSlate(item))
	}
	return out, nil
}

func (r *SlateRepository) UpdateStatus(ctx context.Context, slateID, expected, next string) (bool, error) {
	updated, err := r.next.UpdateStatus(ctx, slateID, expected, next)
	if err != nil {
		return false, err
	}
	if updated {
		r.cache.DeletePrefix(ctx, "slate:")
	}
	return updated, nil
}

type cachedSlateByID struct {
	value  slate.Slate
	exists bool
}

func cloneSlate(item slate.Slate) slate.Slate {
	out := item
	out.FixtureIDs = append([]string(nil), item.FixtureIDs...)
	return out
}

type LineupRepository struct {
	next  lineup.Repository
	cache *basecache.Store
}

func NewLineupRepository(next lineup.Repository, cache *basecache.Store) *LineupRepository {
	return &LineupRepository{next: next, cache: cache}
}

func (r *LineupRepository) GetByEntryAndSlate(ctx context.Context, entryID, slateID string) (lineup.Lineup, bool, error) {
	key := lineupKey(entryID, slateID)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByEntryAndSlate(ctx, entryID, slateID)
		if err != nil {
			return nil, err
		}
		return cachedLineupByEntrySlate{
			value:  cloneLineup(item),
			exists: exists,
		}, nil
	})
	if err != nil {
		return lineup.Lineup{}, false, err
	}

	cached, _ := v.(cachedLineupByEntrySlate)
	return cloneLineup(cached.value), cached.exists, nil
}

func (r *LineupRepository) ListBySlate(ctx context.Context, slateID string) ([]lineup.Lineup, error) {
	key := "lineup:list:slate:" + slateID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListBySlate(ctx, slateID)
		if err != nil {
			return nil, err
		}
		out := make([]lineup.Lineup, 0, len(items))
		for _, item := range items {
			out = append(out, cloneLineup(item))
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]lineup.Lineup)
	out := make([]lineup.Lineup, 0, len(items))
	for _, item := range items {
		out = append(out, cloneLineup(item))
	}
	return out, nil
}

func (r *LineupRepository) Replace(ctx context.Context, l lineup.Lineup) (lineup.Lineup, error) {
	saved, err := r.next.Replace(ctx, l)
	if err != nil {
		return lineup.Lineup{}, err
	}
	r.cache.Delete(ctx, lineupKey(saved.EntryID, saved.SlateID))
	r.cache.Delete(ctx, "lineup:list:slate:"+saved.SlateID)
	return saved, nil
}

type cachedLineupByEntrySlate struct {
	value  lineup.Lineup
	exists bool
}

func cloneLineup(item lineup.Lineup) lineup.Lineup {
	out := item
	out.Picks = append([]lineup.Pick(nil), item.Picks...)
	return out
}

func lineupKey(entryID, slateID string) string {
	return "lineup:entry:" + entryID + ":slate:" + slateID
}
