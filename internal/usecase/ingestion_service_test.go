package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-slates/internal/domain/fixture"
	"github.com/riskibarqy/fantasy-slates/internal/domain/playerstats"
	"github.com/riskibarqy/fantasy-slates/internal/domain/slate"
	"github.com/riskibarqy/fantasy-slates/internal/infrastructure/repository/memory"
)

type fakeFeed struct {
	updates map[string]FeedFixtureUpdate
	errs    map[string]error
	calls   []string
}

func (f *fakeFeed) FetchFixture(_ context.Context, fixtureID string) (FeedFixtureUpdate, error) {
	f.calls = append(f.calls, fixtureID)
	if err, ok := f.errs[fixtureID]; ok {
		return FeedFixtureUpdate{}, err
	}
	update, ok := f.updates[fixtureID]
	if !ok {
		return FeedFixtureUpdate{}, fmt.Errorf("fixture %s not in feed", fixtureID)
	}
	return update, nil
}

func intPtr(v int) *int { return &v }

func TestIngestionUpsertFixtureResult_Validation(t *testing.T) {
	t.Parallel()

	fixtureRepo := memory.NewFixtureRepository(nil)
	svc := NewIngestionService(fixtureRepo, memory.NewPlayerStatsRepository(), memory.NewSlateRepository(nil), nil, nil)

	if err := svc.UpsertFixtureResult(context.Background(), "", fixture.StatusFinal, nil, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty fixture id, got %v", err)
	}
	if err := svc.UpsertFixtureResult(context.Background(), "fx-1", "postponed", nil, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
	if err := svc.UpsertFixtureResult(context.Background(), "fx-1", fixture.StatusFinal, intPtr(-1), nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative score, got %v", err)
	}
}

func TestIngestionUpsertFixtureResult_WritesResult(t *testing.T) {
	t.Parallel()

	fixtureRepo := memory.NewFixtureRepository([]fixture.Fixture{
		{ID: "fx-1", Status: fixture.StatusLive},
	})
	svc := NewIngestionService(fixtureRepo, memory.NewPlayerStatsRepository(), memory.NewSlateRepository(nil), nil, nil)

	if err := svc.UpsertFixtureResult(context.Background(), "fx-1", "FINAL", intPtr(3), intPtr(0)); err != nil {
		t.Fatalf("upsert fixture result: %v", err)
	}

	got, err := fixtureRepo.GetByIDs(context.Background(), []string{"fx-1"})
	if err != nil {
		t.Fatalf("get fixture: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one fixture, got %d", len(got))
	}
	if got[0].Status != fixture.StatusFinal {
		t.Fatalf("status not normalized: %s", got[0].Status)
	}
	if got[0].HomeScore == nil || *got[0].HomeScore != 3 {
		t.Fatalf("unexpected home score: %v", got[0].HomeScore)
	}
	if got[0].AwayScore == nil || *got[0].AwayScore != 0 {
		t.Fatalf("unexpected away score: %v", got[0].AwayScore)
	}
}

func TestIngestionUpsertPlayerFixtureStats_StampsFixtureID(t *testing.T) {
	t.Parallel()

	statsRepo := memory.NewPlayerStatsRepository()
	svc := NewIngestionService(memory.NewFixtureRepository(nil), statsRepo, memory.NewSlateRepository(nil), nil, nil)

	stats := []playerstats.FixtureStat{
		{FixtureID: "stale", PlayerID: " pl-1 ", Goals: 1},
		{PlayerID: "pl-2", Saves: 3},
	}
	if err := svc.UpsertPlayerFixtureStats(context.Background(), "fx-7", stats); err != nil {
		t.Fatalf("upsert stats: %v", err)
	}

	stored, err := statsRepo.ListByFixtures(context.Background(), []string{"fx-7"})
	if err != nil {
		t.Fatalf("list stats: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 stat lines, got %d", len(stored))
	}
	for _, line := range stored {
		if line.FixtureID != "fx-7" {
			t.Fatalf("fixture id not stamped: %s", line.FixtureID)
		}
		if strings.TrimSpace(line.PlayerID) != line.PlayerID {
			t.Fatalf("player id not trimmed: %q", line.PlayerID)
		}
	}
}

func TestIngestionUpsertPlayerFixtureStats_RejectsNegativeCounters(t *testing.T) {
	t.Parallel()

	svc := NewIngestionService(memory.NewFixtureRepository(nil), memory.NewPlayerStatsRepository(), memory.NewSlateRepository(nil), nil, nil)

	err := svc.UpsertPlayerFixtureStats(context.Background(), "fx-7", []playerstats.FixtureStat{
		{PlayerID: "pl-1", Goals: -1},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestIngestionSyncFromFeed_FeedNotConfigured(t *testing.T) {
	t.Parallel()

	svc := NewIngestionService(memory.NewFixtureRepository(nil), memory.NewPlayerStatsRepository(), memory.NewSlateRepository(nil), nil, nil)

	_, err := svc.SyncFromFeed(context.Background())
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestIngestionSyncFromFeed_RefreshesPendingFixtures(t *testing.T) {
	t.Parallel()

	lockAt := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
	fixtureRepo := memory.NewFixtureRepository([]fixture.Fixture{
		{ID: "fx-live", Status: fixture.StatusLive},
		{ID: "fx-done", Status: fixture.StatusFinal},
		{ID: "fx-scored-slate", Status: fixture.StatusLive},
	})
	slateRepo := memory.NewSlateRepository([]slate.Slate{
		{ID: "sl-locked", Status: slate.StatusLocked, LockAt: lockAt, FixtureIDs: []string{"fx-live", "fx-done"}},
		{ID: "sl-scored", Status: slate.StatusScored, LockAt: lockAt, FixtureIDs: []string{"fx-scored-slate"}},
	})
	statsRepo := memory.NewPlayerStatsRepository()

	feed := &fakeFeed{updates: map[string]FeedFixtureUpdate{
		"fx-live": {
			FixtureID: "fx-live",
			Status:    fixture.StatusFinal,
			HomeScore: intPtr(2),
			AwayScore: intPtr(2),
			PlayerStats: []playerstats.FixtureStat{
				{PlayerID: "pl-1", Minutes: 90, Goals: 1},
				{PlayerID: "pl-2", Minutes: 45, Assists: 1},
			},
		},
	}}

	svc := NewIngestionService(fixtureRepo, statsRepo, slateRepo, feed, nil)

	result, err := svc.SyncFromFeed(context.Background())
	if err != nil {
		t.Fatalf("sync from feed: %v", err)
	}

	if result.FixturesChecked != 1 {
		t.Fatalf("expected 1 fixture checked, got %d", result.FixturesChecked)
	}
	if result.FixturesUpdated != 1 {
		t.Fatalf("expected 1 fixture updated, got %d", result.FixturesUpdated)
	}
	if result.StatLinesUpsert != 2 {
		t.Fatalf("expected 2 stat lines upserted, got %d", result.StatLinesUpsert)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(feed.calls) != 1 || feed.calls[0] != "fx-live" {
		t.Fatalf("unexpected feed calls: %v", feed.calls)
	}

	fixtures, err := fixtureRepo.GetByIDs(context.Background(), []string{"fx-live"})
	if err != nil {
		t.Fatalf("get fixture: %v", err)
	}
	if fixtures[0].Status != fixture.StatusFinal {
		t.Fatalf("fixture not finalized: %s", fixtures[0].Status)
	}
}

func TestIngestionSyncFromFeed_RecordsPerFixtureErrors(t *testing.T) {
	t.Parallel()

	lockAt := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
	fixtureRepo := memory.NewFixtureRepository([]fixture.Fixture{
		{ID: "fx-ok", Status: fixture.StatusLive},
		{ID: "fx-bad", Status: fixture.StatusLive},
	})
	slateRepo := memory.NewSlateRepository([]slate.Slate{
		{ID: "sl-1", Status: slate.StatusLocked, LockAt: lockAt, FixtureIDs: []string{"fx-ok", "fx-bad"}},
	})

	feed := &fakeFeed{
		updates: map[string]FeedFixtureUpdate{
			"fx-ok": {FixtureID: "fx-ok", Status: fixture.StatusFinal, HomeScore: intPtr(1), AwayScore: intPtr(0)},
		},
		errs: map[string]error{
			"fx-bad": errors.New("feed timeout"),
		},
	}

	svc := NewIngestionService(fixtureRepo, memory.NewPlayerStatsRepository(), slateRepo, feed, nil)

	result, err := svc.SyncFromFeed(context.Background())
	if err != nil {
		t.Fatalf("sync from feed: %v", err)
	}

	if result.FixturesChecked != 2 {
		t.Fatalf("expected 2 fixtures checked, got %d", result.FixturesChecked)
	}
	if result.FixturesUpdated != 1 {
		t.Fatalf("expected 1 fixture updated, got %d", result.FixturesUpdated)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected one recorded error, got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0], "fx-bad") {
		t.Fatalf("error does not name failing fixture: %s", result.Errors[0])
	}
}
