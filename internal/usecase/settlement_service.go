package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/fantasy-slates/internal/domain/entry"
	"github.com/riskibarqy/fantasy-slates/internal/domain/lineup"
	"github.com/riskibarqy/fantasy-slates/internal/domain/player"
	"github.com/riskibarqy/fantasy-slates/internal/domain/playerstats"
	"github.com/riskibarqy/fantasy-slates/internal/domain/points"
	"github.com/riskibarqy/fantasy-slates/internal/domain/slate"
	"github.com/riskibarqy/fantasy-slates/internal/platform/logging"
	"github.com/riskibarqy/fantasy-slates/internal/scoring"
)

const (
	defaultSlateWorkers  = 2
	defaultLineupWorkers = 4
)

// SettlementResult summarizes one settlement pass.
type SettlementResult struct {
	SlatesLocked  int      `json:"slatesLocked"`
	SlatesScored  int      `json:"slatesScored"`
	SlatesPending int      `json:"slatesPending"`
	Errors        []string `json:"errors,omitempty"`
}

// SettlementService runs the periodic settlement pass: lock due
// slates, score every locked slate whose fixtures are all final, then
// recompute entry totals from scratch.
type SettlementService struct {
	lifecycle  *LifecycleService
	slateRepo  slate.Repository
	lineupRepo lineup.Repository
	playerRepo player.Repository
	entryRepo  entry.Repository
	statsRepo  playerstats.Repository
	pointsRepo points.Repository
	logger     *logging.Logger

	slateWorkers  int
	lineupWorkers int
	now           func() time.Time
}

func NewSettlementService(
	lifecycle *LifecycleService,
	slateRepo slate.Repository,
	lineupRepo lineup.Repository,
	playerRepo player.Repository,
	entryRepo entry.Repository,
	statsRepo playerstats.Repository,
	pointsRepo points.Repository,
	logger *logging.Logger,
) *SettlementService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SettlementService{
		lifecycle:     lifecycle,
		slateRepo:     slateRepo,
		lineupRepo:    lineupRepo,
		playerRepo:    playerRepo,
		entryRepo:     entryRepo,
		statsRepo:     statsRepo,
		pointsRepo:    pointsRepo,
		logger:        logger,
		slateWorkers:  defaultSlateWorkers,
		lineupWorkers: defaultLineupWorkers,
		now:           time.Now,
	}
}

// Run executes one full settlement pass. A failure in one slate or
// lineup is recorded and never aborts the rest of the batch.
func (s *SettlementService) Run(ctx context.Context) (SettlementResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.Run")
	defer span.End()

	result := SettlementResult{}

	locked, lockErrs := s.lifecycle.LockDueSlates(ctx)
	result.SlatesLocked = locked
	for _, err := range lockErrs {
		result.Errors = append(result.Errors, err.Error())
	}

	lockedSlates, err := s.slateRepo.ListByStatus(ctx, slate.StatusLocked)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("list locked slates: %v", err))
		return result, nil
	}

	var mu sync.Mutex
	slatePool := pool.New().WithMaxGoroutines(s.slateWorkers)
	for _, sl := range lockedSlates {
		sl := sl
		slatePool.Go(func() {
			scored, err := s.settleSlate(ctx, sl)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				result.Errors = append(result.Errors, fmt.Sprintf("slate %s: %v", sl.ID, err))
			case scored:
				result.SlatesScored++
			default:
				result.SlatesPending++
			}
		})
	}
	slatePool.Wait()

	if errs := s.recomputeEntryTotals(ctx); len(errs) > 0 {
		for _, err := range errs {
			result.Errors = append(result.Errors, err.Error())
		}
	}

	s.logger.Info("settlement pass finished",
		"slates_locked", result.SlatesLocked,
		"slates_scored", result.SlatesScored,
		"slates_pending", result.SlatesPending,
		"error_count", len(result.Errors),
	)

	return result, nil
}

// settleSlate scores one LOCKED slate. Returns false without error
// when the slate's fixtures are not yet all final.
func (s *SettlementService) settleSlate(ctx context.Context, sl slate.Slate) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.settleSlate")
	defer span.End()

	ready, err := s.lifecycle.FixturesFinal(ctx, sl)
	if err != nil {
		return false, err
	}
	if !ready {
		return false, nil
	}

	lineups, err := s.lineupRepo.ListBySlate(ctx, sl.ID)
	if err != nil {
		return false, fmt.Errorf("list lineups: %w", err)
	}

	// A slate nobody entered still finishes its lifecycle.
	if len(lineups) == 0 {
		if _, err := s.lifecycle.MarkScored(ctx, sl.ID); err != nil {
			return false, fmt.Errorf("mark scored: %w", err)
		}
		return true, nil
	}

	statsByPlayer, err := s.aggregateStats(ctx, sl.FixtureIDs)
	if err != nil {
		return false, err
	}

	positions, err := s.positionsForLineups(ctx, lineups)
	if err != nil {
		return false, err
	}

	lineupErrs := s.scoreLineups(ctx, sl, lineups, statsByPlayer, positions)
	if len(lineupErrs) > 0 {
		// Leave the slate LOCKED so the next run retries the failed
		// lineups; successful upserts are idempotent to redo.
		return false, fmt.Errorf("%d of %d lineups failed: %v", len(lineupErrs), len(lineups), lineupErrs[0])
	}

	if _, err := s.lifecycle.MarkScored(ctx, sl.ID); err != nil {
		return false, fmt.Errorf("mark scored: %w", err)
	}
	return true, nil
}

func (s *SettlementService) aggregateStats(ctx context.Context, fixtureIDs []string) (map[string]playerstats.FixtureStat, error) {
	lines, err := s.statsRepo.ListByFixtures(ctx, fixtureIDs)
	if err != nil {
		return nil, fmt.Errorf("list fixture stats: %w", err)
	}

	byPlayer := make(map[string][]playerstats.FixtureStat)
	for _, line := range lines {
		byPlayer[line.PlayerID] = append(byPlayer[line.PlayerID], line)
	}

	out := make(map[string]playerstats.FixtureStat, len(byPlayer))
	for playerID, playerLines := range byPlayer {
		out[playerID] = playerstats.Aggregate(playerLines)
	}
	return out, nil
}

func (s *SettlementService) positionsForLineups(ctx context.Context, lineups []lineup.Lineup) (map[string]player.Position, error) {
	idSet := make(map[string]struct{})
	ids := make([]string, 0)
	for _, l := range lineups {
		for _, p := range l.Picks {
			if _, seen := idSet[p.PlayerID]; seen {
				continue
			}
			idSet[p.PlayerID] = struct{}{}
			ids = append(ids, p.PlayerID)
		}
	}

	players, err := s.playerRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get picked players: %w", err)
	}

	out := make(map[string]player.Position, len(players))
	for _, p := range players {
		out[p.ID] = p.Position
	}
	return out, nil
}

func (s *SettlementService) scoreLineups(
	ctx context.Context,
	sl slate.Slate,
	lineups []lineup.Lineup,
	statsByPlayer map[string]playerstats.FixtureStat,
	positions map[string]player.Position,
) []error {
	workers := s.lineupWorkers
	if workers > len(lineups) {
		workers = len(lineups)
	}
	if workers < 1 {
		workers = 1
	}

	antsPool, err := ants.NewPool(workers)
	if err != nil {
		return []error{fmt.Errorf("create worker pool: %w", err)}
	}
	defer antsPool.Release()

	var mu sync.Mutex
	var errs []error
	var wg sync.WaitGroup
	for _, l := range lineups {
		l := l
		wg.Add(1)
		if err := antsPool.Submit(func() {
			defer wg.Done()
			if err := s.scoreLineup(ctx, sl, l, statsByPlayer, positions); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("lineup %s: %w", l.ID, err))
				mu.Unlock()
			}
		}); err != nil {
			wg.Done()
			mu.Lock()
			errs = append(errs, fmt.Errorf("submit lineup %s: %w", l.ID, err))
			mu.Unlock()
		}
	}
	wg.Wait()

	return errs
}

// scoreLineup computes and persists one lineup's points. The captain's
// raw score is boosted 1.5x (rounded half up) and the boosted value is
// what lands in both the breakdown and the total.
func (s *SettlementService) scoreLineup(
	ctx context.Context,
	sl slate.Slate,
	l lineup.Lineup,
	statsByPlayer map[string]playerstats.FixtureStat,
	positions map[string]player.Position,
) error {
	picks := make([]scoring.Pick, 0, len(l.Picks))
	for _, p := range l.Picks {
		picks = append(picks, scoring.Pick{
			PlayerID:  p.PlayerID,
			Position:  positions[p.PlayerID],
			IsCaptain: p.IsCaptain,
		})
	}

	raw := scoring.LineupPoints(picks, statsByPlayer)

	total := raw.Total
	breakdown := make(map[string]int, len(raw.Breakdown))
	for playerID, pts := range raw.Breakdown {
		breakdown[playerID] = pts
	}
	if captainID := l.CaptainID(); captainID != "" {
		boosted := scoring.CaptainBoost(raw.Breakdown[captainID])
		total += boosted - raw.Breakdown[captainID]
		breakdown[captainID] = boosted
	}

	lp := points.LineupPoints{
		LineupID:  l.ID,
		SlateID:   sl.ID,
		EntryID:   l.EntryID,
		Total:     total,
		Breakdown: breakdown,
		ScoredAt:  s.now().UTC(),
	}
	if err := s.pointsRepo.UpsertLineupPoints(ctx, lp); err != nil {
		return fmt.Errorf("upsert lineup points: %w", err)
	}
	return nil
}

// recomputeEntryTotals rebuilds every entry's running total from its
// lineup points. Full recompute rather than incremental deltas so a
// repeated or out-of-order pass converges to the same state.
func (s *SettlementService) recomputeEntryTotals(ctx context.Context) []error {
	entries, err := s.entryRepo.List(ctx)
	if err != nil {
		return []error{fmt.Errorf("list entries: %w", err)}
	}

	var errs []error
	for _, ent := range entries {
		lineupPoints, err := s.pointsRepo.ListLineupPointsByEntry(ctx, ent.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("list lineup points entry=%s: %w", ent.ID, err))
			continue
		}

		sort.SliceStable(lineupPoints, func(i, j int) bool {
			return lineupPoints[i].SlateID < lineupPoints[j].SlateID
		})

		total := 0
		for _, lp := range lineupPoints {
			total += lp.Total
		}

		et := points.EntryTotal{
			EntryID:      ent.ID,
			Total:        total,
			SlatesPlayed: len(lineupPoints),
			UpdatedAt:    s.now().UTC(),
		}
		if err := s.pointsRepo.UpsertEntryTotal(ctx, et); err != nil {
			errs = append(errs, fmt.Errorf("upsert entry total entry=%s: %w", ent.ID, err))
		}
	}
	return errs
}
