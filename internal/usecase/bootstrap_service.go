package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-slates/internal/domain/fixture"
	"github.com/riskibarqy/fantasy-slates/internal/domain/player"
	"github.com/riskibarqy/fantasy-slates/internal/domain/slate"
	"github.com/riskibarqy/fantasy-slates/internal/domain/team"
	"github.com/riskibarqy/fantasy-slates/internal/platform/cache"
)

const bootstrapCacheKey = "bootstrap:v1"

// BootstrapData is the reference payload clients load on startup.
type BootstrapData struct {
	Teams        []team.Team       `json:"teams"`
	Players      []player.Player   `json:"players"`
	CurrentSlate *SlateWithFixtures `json:"current_slate,omitempty"`
}

type SlateWithFixtures struct {
	Slate    slate.Slate       `json:"slate"`
	Fixtures []fixture.Fixture `json:"fixtures"`
}

// BootstrapService serves reference data through an explicit TTL cache
// with an invalidation hook, instead of ambient package state.
type BootstrapService struct {
	teamRepo    team.Repository
	playerRepo  player.Repository
	fixtureRepo fixture.Repository
	slateRepo   slate.Repository
	store       *cache.Store
	now         func() time.Time
}

func NewBootstrapService(
	teamRepo team.Repository,
	playerRepo player.Repository,
	fixtureRepo fixture.Repository,
	slateRepo slate.Repository,
	store *cache.Store,
) *BootstrapService {
	return &BootstrapService{
		teamRepo:    teamRepo,
		playerRepo:  playerRepo,
		fixtureRepo: fixtureRepo,
		slateRepo:   slateRepo,
		store:       store,
		now:         time.Now,
	}
}

func (s *BootstrapService) Get(ctx context.Context) (BootstrapData, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BootstrapService.Get")
	defer span.End()

	if s.store == nil {
		return s.load(ctx)
	}

	value, err := s.store.GetOrLoad(ctx, bootstrapCacheKey, func(ctx context.Context) (any, error) {
		return s.load(ctx)
	})
	if err != nil {
		return BootstrapData{}, err
	}

	data, ok := value.(BootstrapData)
	if !ok {
		return BootstrapData{}, fmt.Errorf("unexpected bootstrap cache payload type %T", value)
	}
	return data, nil
}

// Invalidate drops the cached payload, to be called after reference
// data changes.
func (s *BootstrapService) Invalidate(ctx context.Context) {
	if s.store != nil {
		s.store.Delete(ctx, bootstrapCacheKey)
	}
}

func (s *BootstrapService) load(ctx context.Context) (BootstrapData, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return BootstrapData{}, fmt.Errorf("list teams: %w", err)
	}
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return BootstrapData{}, fmt.Errorf("list players: %w", err)
	}

	data := BootstrapData{Teams: teams, Players: players}

	current, exists, err := s.currentSlate(ctx)
	if err != nil {
		return BootstrapData{}, err
	}
	if exists {
		fixtures, err := s.fixtureRepo.GetByIDs(ctx, current.FixtureIDs)
		if err != nil {
			return BootstrapData{}, fmt.Errorf("get slate fixtures: %w", err)
		}
		data.CurrentSlate = &SlateWithFixtures{Slate: current, Fixtures: fixtures}
	}

	return data, nil
}

// currentSlate picks the OPEN slate with the nearest upcoming lock
// time, falling back to the most recently locked one.
func (s *BootstrapService) currentSlate(ctx context.Context) (slate.Slate, bool, error) {
	open, err := s.slateRepo.ListByStatus(ctx, slate.StatusOpen)
	if err != nil {
		return slate.Slate{}, false, fmt.Errorf("list open slates: %w", err)
	}
	if len(open) > 0 {
		sort.SliceStable(open, func(i, j int) bool {
			return open[i].LockAt.Before(open[j].LockAt)
		})
		return open[0], true, nil
	}

	locked, err := s.slateRepo.ListByStatus(ctx, slate.StatusLocked)
	if err != nil {
		return slate.Slate{}, false, fmt.Errorf("list locked slates: %w", err)
	}
	if len(locked) == 0 {
		return slate.Slate{}, false, nil
	}
	sort.SliceStable(locked, func(i, j int) bool {
		return locked[i].LockAt.After(locked[j].LockAt)
	})
	return locked[0], true, nil
}

// SlateService exposes slate read operations to the HTTP layer.
type SlateService struct {
	slateRepo   slate.Repository
	fixtureRepo fixture.Repository
}

func NewSlateService(slateRepo slate.Repository, fixtureRepo fixture.Repository) *SlateService {
	return &SlateService{slateRepo: slateRepo, fixtureRepo: fixtureRepo}
}

func (s *SlateService) List(ctx context.Context) ([]slate.Slate, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SlateService.List")
	defer span.End()

	slates, err := s.slateRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list slates: %w", err)
	}

	sort.SliceStable(slates, func(i, j int) bool {
		return slates[i].LockAt.After(slates[j].LockAt)
	})
	return slates, nil
}

func (s *SlateService) GetWithFixtures(ctx context.Context, slateID string) (SlateWithFixtures, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SlateService.GetWithFixtures")
	defer span.End()

	slateID = strings.TrimSpace(slateID)
	if slateID == "" {
		return SlateWithFixtures{}, fmt.Errorf("%w: slate_id is required", ErrInvalidInput)
	}

	sl, exists, err := s.slateRepo.GetByID(ctx, slateID)
	if err != nil {
		return SlateWithFixtures{}, fmt.Errorf("get slate by id: %w", err)
	}
	if !exists {
		return SlateWithFixtures{}, fmt.Errorf("%w: slate=%s", ErrNotFound, slateID)
	}

	fixtures, err := s.fixtureRepo.GetByIDs(ctx, sl.FixtureIDs)
	if err != nil {
		return SlateWithFixtures{}, fmt.Errorf("get slate fixtures: %w", err)
	}

	return SlateWithFixtures{Slate: sl, Fixtures: fixtures}, nil
}
