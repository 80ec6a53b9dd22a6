package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/fantasy-slates/internal/domain/entry"
	"github.com/riskibarqy/fantasy-slates/internal/domain/points"
	"github.com/riskibarqy/fantasy-slates/internal/domain/slate"
)

type OverallLeaderboardRow struct {
	Rank         int    `json:"rank"`
	EntryID      string `json:"entry_id"`
	DisplayName  string `json:"display_name"`
	TotalPoints  int    `json:"total_points"`
	SlatesPlayed int    `json:"slates_played"`
}

type SlateLeaderboardRow struct {
	Rank        int    `json:"rank"`
	EntryID     string `json:"entry_id"`
	DisplayName string `json:"display_name"`
	LineupID    string `json:"lineup_id"`
	Points      int    `json:"points"`
}

// LeaderboardService derives ranked views from persisted point totals.
// Ranks are strictly positional 1..N; tied scores still get
// consecutive ranks.
type LeaderboardService struct {
	entryRepo  entry.Repository
	slateRepo  slate.Repository
	pointsRepo points.Repository
}

func NewLeaderboardService(entryRepo entry.Repository, slateRepo slate.Repository, pointsRepo points.Repository) *LeaderboardService {
	return &LeaderboardService{
		entryRepo:  entryRepo,
		slateRepo:  slateRepo,
		pointsRepo: pointsRepo,
	}
}

// Overall ranks every entry by its recomputed total, descending. Ties
// keep entry creation order.
func (s *LeaderboardService) Overall(ctx context.Context) ([]OverallLeaderboardRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Overall")
	defer span.End()

	entries, err := s.entryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	totals, err := s.pointsRepo.ListEntryTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entry totals: %w", err)
	}
	totalsByEntry := make(map[string]points.EntryTotal, len(totals))
	for _, et := range totals {
		totalsByEntry[et.EntryID] = et
	}

	rows := make([]OverallLeaderboardRow, 0, len(entries))
	for _, ent := range entries {
		et := totalsByEntry[ent.ID]
		rows = append(rows, OverallLeaderboardRow{
			EntryID:      ent.ID,
			DisplayName:  ent.DisplayName,
			TotalPoints:  et.Total,
			SlatesPlayed: et.SlatesPlayed,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalPoints > rows[j].TotalPoints
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}

	return rows, nil
}

// Slate ranks the scored lineups of one slate by points, descending.
// Lineups without persisted points are excluded.
func (s *LeaderboardService) Slate(ctx context.Context, slateID string) ([]SlateLeaderboardRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Slate")
	defer span.End()

	slateID = strings.TrimSpace(slateID)
	if slateID == "" {
		return nil, fmt.Errorf("%w: slate_id is required", ErrInvalidInput)
	}

	if _, exists, err := s.slateRepo.GetByID(ctx, slateID); err != nil {
		return nil, fmt.Errorf("get slate by id: %w", err)
	} else if !exists {
		return nil, fmt.Errorf("%w: slate=%s", ErrNotFound, slateID)
	}

	lineupPoints, err := s.pointsRepo.ListLineupPointsBySlate(ctx, slateID)
	if err != nil {
		return nil, fmt.Errorf("list lineup points by slate: %w", err)
	}

	entries, err := s.entryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	namesByEntry := make(map[string]string, len(entries))
	for _, ent := range entries {
		namesByEntry[ent.ID] = ent.DisplayName
	}

	sort.SliceStable(lineupPoints, func(i, j int) bool {
		return lineupPoints[i].Total > lineupPoints[j].Total
	})

	rows := make([]SlateLeaderboardRow, 0, len(lineupPoints))
	for i, lp := range lineupPoints {
		rows = append(rows, SlateLeaderboardRow{
			Rank:        i + 1,
			EntryID:     lp.EntryID,
			DisplayName: namesByEntry[lp.EntryID],
			LineupID:    lp.LineupID,
			Points:      lp.Total,
		})
	}

	return rows, nil
}

// EntryBreakdown returns the caller's per-player points for one slate.
// Only the entry owner may read it.
func (s *LeaderboardService) EntryBreakdown(ctx context.Context, userID, entryID, slateID string) (points.LineupPoints, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.EntryBreakdown")
	defer span.End()

	entryID = strings.TrimSpace(entryID)
	slateID = strings.TrimSpace(slateID)
	if entryID == "" || slateID == "" {
		return points.LineupPoints{}, fmt.Errorf("%w: entry_id and slate_id are required", ErrInvalidInput)
	}

	ent, exists, err := s.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return points.LineupPoints{}, fmt.Errorf("get entry by id: %w", err)
	}
	if !exists {
		return points.LineupPoints{}, fmt.Errorf("%w: entry=%s", ErrNotFound, entryID)
	}
	if ent.UserID != strings.TrimSpace(userID) {
		return points.LineupPoints{}, fmt.Errorf("%w: entry belongs to another user", ErrForbidden)
	}

	lineupPoints, err := s.pointsRepo.ListLineupPointsByEntry(ctx, entryID)
	if err != nil {
		return points.LineupPoints{}, fmt.Errorf("list lineup points by entry: %w", err)
	}
	for _, lp := range lineupPoints {
		if lp.SlateID == slateID {
			return lp, nil
		}
	}

	return points.LineupPoints{}, fmt.Errorf("%w: no points for entry=%s slate=%s", ErrNotFound, entryID, slateID)
}
