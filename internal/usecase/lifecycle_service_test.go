package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-slates/internal/domain/fixture"
	"github.com/riskibarqy/fantasy-slates/internal/domain/slate"
	"github.com/riskibarqy/fantasy-slates/internal/infrastructure/repository/memory"
)

var lifecycleNow = time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

func newLifecycleService(fixtures []fixture.Fixture, slates []slate.Slate) (*LifecycleService, *memory.SlateRepository) {
	slateRepo := memory.NewSlateRepository(slates)
	svc := NewLifecycleService(slateRepo, memory.NewFixtureRepository(fixtures))
	svc.now = func() time.Time { return lifecycleNow }
	return svc, slateRepo
}

func TestLifecycleLockDueSlates(t *testing.T) {
	t.Parallel()

	svc, slateRepo := newLifecycleService(nil, []slate.Slate{
		{ID: "slate-due", Name: "Saturday Early", LockAt: lifecycleNow.Add(-time.Minute), Status: slate.StatusOpen},
		{ID: "slate-future", Name: "Saturday Late", LockAt: lifecycleNow.Add(2 * time.Hour), Status: slate.StatusOpen},
		{ID: "slate-locked", Name: "Friday", LockAt: lifecycleNow.Add(-24 * time.Hour), Status: slate.StatusLocked},
	})

	locked, errs := svc.LockDueSlates(context.Background())
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if locked != 1 {
		t.Fatalf("expected 1 slate locked, got %d", locked)
	}

	due, _, err := slateRepo.GetByID(context.Background(), "slate-due")
	if err != nil {
		t.Fatalf("get slate: %v", err)
	}
	if due.Status != slate.StatusLocked {
		t.Fatalf("due slate status = %s, want LOCKED", due.Status)
	}

	future, _, err := slateRepo.GetByID(context.Background(), "slate-future")
	if err != nil {
		t.Fatalf("get slate: %v", err)
	}
	if future.Status != slate.StatusOpen {
		t.Fatalf("future slate status = %s, want OPEN", future.Status)
	}
}

func TestLifecycleLockDueSlates_Idempotent(t *testing.T) {
	t.Parallel()

	svc, _ := newLifecycleService(nil, []slate.Slate{
		{ID: "slate-due", Name: "Saturday", LockAt: lifecycleNow.Add(-time.Minute), Status: slate.StatusOpen},
	})

	locked, errs := svc.LockDueSlates(context.Background())
	if len(errs) != 0 || locked != 1 {
		t.Fatalf("first pass: locked=%d errs=%v", locked, errs)
	}

	locked, errs = svc.LockDueSlates(context.Background())
	if len(errs) != 0 || locked != 0 {
		t.Fatalf("second pass must be a no-op: locked=%d errs=%v", locked, errs)
	}
}

func TestLifecycleFixturesFinal(t *testing.T) {
	t.Parallel()

	fixtures := []fixture.Fixture{
		{ID: "fix-1", Status: fixture.StatusFinal},
		{ID: "fix-2", Status: fixture.StatusLive},
	}
	svc, _ := newLifecycleService(fixtures, nil)

	sl := slate.Slate{ID: "slate-1", FixtureIDs: []string{"fix-1", "fix-2"}}
	final, err := svc.FixturesFinal(context.Background(), sl)
	if err != nil {
		t.Fatalf("fixtures final: %v", err)
	}
	if final {
		t.Fatal("slate with a live fixture must not report final")
	}
}

func TestLifecycleFixturesFinal_MissingFixture(t *testing.T) {
	t.Parallel()

	svc, _ := newLifecycleService([]fixture.Fixture{{ID: "fix-1", Status: fixture.StatusFinal}}, nil)

	sl := slate.Slate{ID: "slate-1", FixtureIDs: []string{"fix-1", "fix-missing"}}
	if _, err := svc.FixturesFinal(context.Background(), sl); err == nil {
		t.Fatal("expected error for slate referencing a missing fixture")
	}
}

func TestLifecycleMarkScored(t *testing.T) {
	t.Parallel()

	svc, slateRepo := newLifecycleService(nil, []slate.Slate{
		{ID: "slate-1", Name: "Saturday", LockAt: lifecycleNow.Add(-4 * time.Hour), Status: slate.StatusLocked},
	})

	ok, err := svc.MarkScored(context.Background(), "slate-1")
	if err != nil {
		t.Fatalf("mark scored: %v", err)
	}
	if !ok {
		t.Fatal("expected LOCKED slate to transition to SCORED")
	}

	got, _, err := slateRepo.GetByID(context.Background(), "slate-1")
	if err != nil {
		t.Fatalf("get slate: %v", err)
	}
	if got.Status != slate.StatusScored {
		t.Fatalf("slate status = %s, want SCORED", got.Status)
	}

	ok, err = svc.MarkScored(context.Background(), "slate-1")
	if err != nil {
		t.Fatalf("second mark scored: %v", err)
	}
	if ok {
		t.Fatal("SCORED slate must not transition again")
	}
}
