package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/fantasy-slates/internal/domain/fixture"
	"github.com/riskibarqy/fantasy-slates/internal/domain/playerstats"
	"github.com/riskibarqy/fantasy-slates/internal/domain/slate"
	"github.com/riskibarqy/fantasy-slates/internal/platform/logging"
)

// FeedFixtureUpdate is one fixture snapshot pulled from the external
// stats provider.
type FeedFixtureUpdate struct {
	FixtureID   string
	Status      string
	HomeScore   *int
	AwayScore   *int
	PlayerStats []playerstats.FixtureStat
}

// StatsFeed pulls live fixture results and player stat lines from the
// external provider.
type StatsFeed interface {
	FetchFixture(ctx context.Context, fixtureID string) (FeedFixtureUpdate, error)
}

// FeedSyncResult summarizes one feed sync pass.
type FeedSyncResult struct {
	FixturesChecked int      `json:"fixturesChecked"`
	FixturesUpdated int      `json:"fixturesUpdated"`
	StatLinesUpsert int      `json:"statLinesUpserted"`
	Errors          []string `json:"errors,omitempty"`
}

// IngestionService writes fixture results and player stat lines, either
// pushed by an operator or pulled from the stats feed.
type IngestionService struct {
	fixtureRepo fixture.Repository
	statsRepo   playerstats.Repository
	slateRepo   slate.Repository
	feed        StatsFeed
	logger      *logging.Logger
}

func NewIngestionService(
	fixtureRepo fixture.Repository,
	statsRepo playerstats.Repository,
	slateRepo slate.Repository,
	feed StatsFeed,
	logger *logging.Logger,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &IngestionService{
		fixtureRepo: fixtureRepo,
		statsRepo:   statsRepo,
		slateRepo:   slateRepo,
		feed:        feed,
		logger:      logger,
	}
}

func (s *IngestionService) UpsertFixtureResult(ctx context.Context, fixtureID, status string, homeScore, awayScore *int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.UpsertFixtureResult")
	defer span.End()

	fixtureID = strings.TrimSpace(fixtureID)
	if fixtureID == "" {
		return fmt.Errorf("%w: fixture_id is required", ErrInvalidInput)
	}
	status = fixture.NormalizeStatus(status)
	switch status {
	case fixture.StatusNotStarted, fixture.StatusLive, fixture.StatusFinal:
	default:
		return fmt.Errorf("%w: unknown fixture status %q", ErrInvalidInput, status)
	}
	if homeScore != nil && *homeScore < 0 {
		return fmt.Errorf("%w: home score cannot be negative", ErrInvalidInput)
	}
	if awayScore != nil && *awayScore < 0 {
		return fmt.Errorf("%w: away score cannot be negative", ErrInvalidInput)
	}

	if err := s.fixtureRepo.UpsertResult(ctx, fixtureID, status, homeScore, awayScore); err != nil {
		return fmt.Errorf("upsert fixture result: %w", err)
	}
	return nil
}

func (s *IngestionService) UpsertPlayerFixtureStats(ctx context.Context, fixtureID string, stats []playerstats.FixtureStat) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.UpsertPlayerFixtureStats")
	defer span.End()

	fixtureID = strings.TrimSpace(fixtureID)
	if fixtureID == "" {
		return fmt.Errorf("%w: fixture_id is required", ErrInvalidInput)
	}

	cleaned := make([]playerstats.FixtureStat, 0, len(stats))
	for _, item := range stats {
		item.FixtureID = fixtureID
		item.PlayerID = strings.TrimSpace(item.PlayerID)
		if item.PlayerID == "" {
			return fmt.Errorf("%w: player_id is required", ErrInvalidInput)
		}
		if item.Minutes < 0 || item.Goals < 0 || item.Assists < 0 || item.Saves < 0 ||
			item.GoalsConceded < 0 || item.PensSaved < 0 || item.PensMissed < 0 ||
			item.YellowCards < 0 || item.RedCards < 0 || item.OwnGoals < 0 {
			return fmt.Errorf("%w: stat counters cannot be negative for player %s", ErrInvalidInput, item.PlayerID)
		}
		cleaned = append(cleaned, item)
	}

	if err := s.statsRepo.UpsertFixtureStats(ctx, fixtureID, cleaned); err != nil {
		return fmt.Errorf("upsert player fixture stats: %w", err)
	}
	return nil
}

// SyncFromFeed refreshes every unfinished fixture referenced by an
// unscored slate. A failing fixture is recorded and skipped so the
// rest of the pass still lands.
func (s *IngestionService) SyncFromFeed(ctx context.Context) (FeedSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.SyncFromFeed")
	defer span.End()

	if s.feed == nil {
		return FeedSyncResult{}, fmt.Errorf("%w: stats feed is not configured", ErrDependencyUnavailable)
	}

	fixtureIDs, err := s.pendingFixtureIDs(ctx)
	if err != nil {
		return FeedSyncResult{}, err
	}

	result := FeedSyncResult{FixturesChecked: len(fixtureIDs)}
	for _, fixtureID := range fixtureIDs {
		update, err := s.feed.FetchFixture(ctx, fixtureID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("fixture %s: %v", fixtureID, err))
			continue
		}

		if err := s.UpsertFixtureResult(ctx, fixtureID, update.Status, update.HomeScore, update.AwayScore); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("fixture %s: %v", fixtureID, err))
			continue
		}
		if len(update.PlayerStats) > 0 {
			if err := s.UpsertPlayerFixtureStats(ctx, fixtureID, update.PlayerStats); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("fixture %s: %v", fixtureID, err))
				continue
			}
			result.StatLinesUpsert += len(update.PlayerStats)
		}
		result.FixturesUpdated++
	}

	s.logger.InfoContext(ctx, "feed sync finished",
		"fixtures_checked", result.FixturesChecked,
		"fixtures_updated", result.FixturesUpdated,
		"stat_lines", result.StatLinesUpsert,
		"errors", len(result.Errors),
	)
	return result, nil
}

func (s *IngestionService) pendingFixtureIDs(ctx context.Context) ([]string, error) {
	slates, err := s.slateRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list slates: %w", err)
	}

	seen := make(map[string]struct{})
	ids := make([]string, 0, 16)
	for _, sl := range slates {
		if sl.Status == slate.StatusScored {
			continue
		}
		fixtures, err := s.fixtureRepo.GetByIDs(ctx, sl.FixtureIDs)
		if err != nil {
			return nil, fmt.Errorf("get slate fixtures: %w", err)
		}
		for _, f := range fixtures {
			if fixture.IsFinal(f.Status) {
				continue
			}
			if _, ok := seen[f.ID]; ok {
				continue
			}
			seen[f.ID] = struct{}{}
			ids = append(ids, f.ID)
		}
	}
	return ids, nil
}
