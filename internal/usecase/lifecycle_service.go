package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-slates/internal/domain/fixture"
	"github.com/riskibarqy/fantasy-slates/internal/domain/slate"
)

// LifecycleService advances slates through OPEN -> LOCKED -> SCORED.
// Lock and readiness checks are idempotent; re-running a pass after a
// transition has no further effect.
type LifecycleService struct {
	slateRepo   slate.Repository
	fixtureRepo fixture.Repository
	now         func() time.Time
}

func NewLifecycleService(slateRepo slate.Repository, fixtureRepo fixture.Repository) *LifecycleService {
	return &LifecycleService{
		slateRepo:   slateRepo,
		fixtureRepo: fixtureRepo,
		now:         time.Now,
	}
}

// LockDueSlates transitions every OPEN slate whose lock time has
// passed. A failure locking one slate does not stop the others.
func (s *LifecycleService) LockDueSlates(ctx context.Context) (int, []error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LifecycleService.LockDueSlates")
	defer span.End()

	open, err := s.slateRepo.ListByStatus(ctx, slate.StatusOpen)
	if err != nil {
		return 0, []error{fmt.Errorf("list open slates: %w", err)}
	}

	locked := 0
	var errs []error
	now := s.now()
	for _, sl := range open {
		if now.Before(sl.LockAt) {
			continue
		}
		ok, err := s.slateRepo.UpdateStatus(ctx, sl.ID, slate.StatusOpen, slate.StatusLocked)
		if err != nil {
			errs = append(errs, fmt.Errorf("lock slate %s: %w", sl.ID, err))
			continue
		}
		if ok {
			locked++
		}
	}

	return locked, errs
}

// FixturesFinal reports whether every fixture of the slate has
// finished. A slate with unfinished fixtures stays LOCKED and is
// re-checked on the next run.
func (s *LifecycleService) FixturesFinal(ctx context.Context, sl slate.Slate) (bool, error) {
	fixtures, err := s.fixtureRepo.GetByIDs(ctx, sl.FixtureIDs)
	if err != nil {
		return false, fmt.Errorf("get fixtures for slate %s: %w", sl.ID, err)
	}
	if len(fixtures) != len(sl.FixtureIDs) {
		return false, fmt.Errorf("slate %s references missing fixtures", sl.ID)
	}

	for _, f := range fixtures {
		if !fixture.IsFinal(f.Status) {
			return false, nil
		}
	}
	return true, nil
}

// MarkScored finalizes a LOCKED slate. The compare-and-set inside the
// repository keeps concurrent runs from double-transitioning.
func (s *LifecycleService) MarkScored(ctx context.Context, slateID string) (bool, error) {
	return s.slateRepo.UpdateStatus(ctx, slateID, slate.StatusLocked, slate.StatusScored)
}
