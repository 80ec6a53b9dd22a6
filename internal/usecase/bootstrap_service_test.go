package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-slates/internal/domain/slate"
	"github.com/riskibarqy/fantasy-slates/internal/domain/team"
	"github.com/riskibarqy/fantasy-slates/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-slates/internal/platform/cache"
)

func TestBootstrapReturnsSeedData(t *testing.T) {
	seed := memory.DefaultSeed(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	svc := NewBootstrapService(
		memory.NewTeamRepository(seed.Teams),
		memory.NewPlayerRepository(seed.Players),
		memory.NewFixtureRepository(seed.Fixtures),
		memory.NewSlateRepository(seed.Slates),
		cache.NewStore(time.Minute),
	)

	data, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if len(data.Teams) != len(seed.Teams) || len(data.Players) != len(seed.Players) {
		t.Fatalf("reference data incomplete: %d teams, %d players", len(data.Teams), len(data.Players))
	}
	if data.CurrentSlate == nil {
		t.Fatal("expected a current slate")
	}
	if data.CurrentSlate.Slate.Status != slate.StatusOpen {
		t.Fatalf("expected the open slate, got %s", data.CurrentSlate.Slate.Status)
	}
	if len(data.CurrentSlate.Fixtures) != len(seed.Fixtures) {
		t.Fatalf("expected %d fixtures, got %d", len(seed.Fixtures), len(data.CurrentSlate.Fixtures))
	}
}

func TestBootstrapServesFromCacheUntilInvalidated(t *testing.T) {
	seed := memory.DefaultSeed(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	teamRepo := memory.NewTeamRepository(seed.Teams)
	svc := NewBootstrapService(
		teamRepo,
		memory.NewPlayerRepository(seed.Players),
		memory.NewFixtureRepository(seed.Fixtures),
		memory.NewSlateRepository(seed.Slates),
		cache.NewStore(time.Minute),
	)
	ctx := context.Background()

	before, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("first get: %v", err)
	}

	// mutate reference data behind the cache
	extra := seed.Teams[0]
	extra.ID = "team-new"
	extra.Name = "Newcastle"
	if err := teamRepo.UpsertTeams(ctx, []team.Team{extra}); err != nil {
		t.Fatalf("upsert team: %v", err)
	}

	cached, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("cached get: %v", err)
	}
	if len(cached.Teams) != len(before.Teams) {
		t.Fatalf("cached payload changed: %d vs %d", len(cached.Teams), len(before.Teams))
	}

	svc.Invalidate(ctx)
	after, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("get after invalidate: %v", err)
	}
	if len(after.Teams) != len(before.Teams)+1 {
		t.Fatalf("expected fresh payload after invalidate, got %d teams", len(after.Teams))
	}
}
