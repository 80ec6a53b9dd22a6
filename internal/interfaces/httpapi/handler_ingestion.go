package httpapi

import (
	"net/http"

	"github.com/riskibarqy/fantasy-slates/internal/domain/playerstats"
	"github.com/riskibarqy/fantasy-slates/internal/usecase"
)

type fixtureResultRequest struct {
	FixtureID string `json:"fixtureId" validate:"required"`
	Status    string `json:"status" validate:"required"`
	HomeScore *int   `json:"homeScore"`
	AwayScore *int   `json:"awayScore"`
}

type playerStatLineRequest struct {
	PlayerID      string `json:"playerId" validate:"required"`
	Minutes       int    `json:"minutes"`
	Goals         int    `json:"goals"`
	Assists       int    `json:"assists"`
	CleanSheet    bool   `json:"cleanSheet"`
	GoalsConceded int    `json:"goalsConceded"`
	Saves         int    `json:"saves"`
	PensSaved     int    `json:"pensSaved"`
	PensMissed    int    `json:"pensMissed"`
	YellowCards   int    `json:"yellowCards"`
	RedCards      int    `json:"redCards"`
	OwnGoals      int    `json:"ownGoals"`
}

type ingestPlayerStatsRequest struct {
	FixtureID string                  `json:"fixtureId" validate:"required"`
	Stats     []playerStatLineRequest `json:"stats" validate:"required,min=1,dive"`
}

func (h *Handler) IngestFixtureResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestFixtureResults")
	defer span.End()

	var req struct {
		Fixtures []fixtureResultRequest `json:"fixtures" validate:"required,min=1,dive"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	for _, item := range req.Fixtures {
		if err := h.ingestionService.UpsertFixtureResult(ctx, item.FixtureID, item.Status, item.HomeScore, item.AwayScore); err != nil {
			h.logger.WarnContext(ctx, "ingest fixture result failed", "fixture_id", item.FixtureID, "error", err)
			writeError(ctx, w, err)
			return
		}
	}
	h.bootstrapService.Invalidate(ctx)

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"fixtures": len(req.Fixtures)})
}

func (h *Handler) IngestPlayerFixtureStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestPlayerFixtureStats")
	defer span.End()

	var req ingestPlayerStatsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	stats := make([]playerstats.FixtureStat, 0, len(req.Stats))
	for _, line := range req.Stats {
		stats = append(stats, playerstats.FixtureStat{
			FixtureID:     req.FixtureID,
			PlayerID:      line.PlayerID,
			Minutes:       line.Minutes,
			Goals:         line.Goals,
			Assists:       line.Assists,
			CleanSheet:    line.CleanSheet,
			GoalsConceded: line.GoalsConceded,
			Saves:         line.Saves,
			PensSaved:     line.PensSaved,
			PensMissed:    line.PensMissed,
			YellowCards:   line.YellowCards,
			RedCards:      line.RedCards,
			OwnGoals:      line.OwnGoals,
		})
	}

	if err := h.ingestionService.UpsertPlayerFixtureStats(ctx, req.FixtureID, stats); err != nil {
		h.logger.WarnContext(ctx, "ingest player stats failed", "fixture_id", req.FixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"stat_lines": len(stats)})
}

func (h *Handler) RunFeedSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunFeedSyncJob")
	defer span.End()

	if h.ingestionService == nil {
		writeError(ctx, w, usecase.ErrDependencyUnavailable)
		return
	}

	req, err := decodeInternalJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.ingestionService.SyncFromFeed(ctx)
	if err != nil {
		h.recordInternalJobDispatch(ctx, req, failedDispatchEvent("feed-sync", "/v1/internal/jobs/feed-sync", req, err))
		h.logger.WarnContext(ctx, "run feed sync job failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	h.recordInternalJobDispatch(ctx, req, completedDispatchEvent("feed-sync", "/v1/internal/jobs/feed-sync", req))
	h.bootstrapService.Invalidate(ctx)

	writeSuccess(ctx, w, http.StatusOK, result)
}
