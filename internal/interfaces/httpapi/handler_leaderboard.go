package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/fantasy-slates/internal/domain/points"
	"github.com/riskibarqy/fantasy-slates/internal/usecase"
)

type overallLeaderboardRowDTO struct {
	Rank         int    `json:"rank"`
	EntryID      string `json:"entryId"`
	DisplayName  string `json:"displayName"`
	TotalPoints  int    `json:"totalPoints"`
	SlatesPlayed int    `json:"slatesPlayed"`
}

type slateLeaderboardRowDTO struct {
	Rank        int    `json:"rank"`
	EntryID     string `json:"entryId"`
	DisplayName string `json:"displayName"`
	LineupID    string `json:"lineupId"`
	Points      int    `json:"points"`
}

type lineupBreakdownDTO struct {
	LineupID  string         `json:"lineupId"`
	SlateID   string         `json:"slateId"`
	EntryID   string         `json:"entryId"`
	Total     int            `json:"total"`
	Breakdown map[string]int `json:"breakdown"`
	ScoredAt  string         `json:"scoredAt"`
}

func (h *Handler) GetOverallLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetOverallLeaderboard")
	defer span.End()

	rows, err := h.leaderboardService.Overall(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "overall leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]overallLeaderboardRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, overallLeaderboardRowDTO{
			Rank:         row.Rank,
			EntryID:      row.EntryID,
			DisplayName:  row.DisplayName,
			TotalPoints:  row.TotalPoints,
			SlatesPlayed: row.SlatesPlayed,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetSlateLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSlateLeaderboard")
	defer span.End()

	slateID := r.PathValue("slateID")
	rows, err := h.leaderboardService.Slate(ctx, slateID)
	if err != nil {
		h.logger.WarnContext(ctx, "slate leaderboard failed", "slate_id", slateID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]slateLeaderboardRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, slateLeaderboardRowDTO{
			Rank:        row.Rank,
			EntryID:     row.EntryID,
			DisplayName: row.DisplayName,
			LineupID:    row.LineupID,
			Points:      row.Points,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMyEntryBreakdown(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyEntryBreakdown")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	entryID := r.PathValue("entryID")
	slateID := r.URL.Query().Get("slate_id")
	breakdown, err := h.leaderboardService.EntryBreakdown(ctx, principal.UserID, entryID, slateID)
	if err != nil {
		h.logger.WarnContext(ctx, "entry breakdown failed", "entry_id", entryID, "slate_id", slateID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lineupBreakdownToDTO(ctx, breakdown))
}

func lineupBreakdownToDTO(ctx context.Context, v points.LineupPoints) lineupBreakdownDTO {
	ctx, span := startSpan(ctx, "httpapi.lineupBreakdownToDTO")
	defer span.End()

	breakdown := make(map[string]int, len(v.Breakdown))
	for playerID, pts := range v.Breakdown {
		breakdown[playerID] = pts
	}

	return lineupBreakdownDTO{
		LineupID:  v.LineupID,
		SlateID:   v.SlateID,
		EntryID:   v.EntryID,
		Total:     v.Total,
		Breakdown: breakdown,
		ScoredAt:  v.ScoredAt.UTC().Format(time.RFC3339),
	}
}
