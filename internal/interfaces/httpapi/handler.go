package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/fantasy-slates/internal/domain/fixture"
	"github.com/riskibarqy/fantasy-slates/internal/domain/lineup"
	"github.com/riskibarqy/fantasy-slates/internal/domain/player"
	"github.com/riskibarqy/fantasy-slates/internal/domain/slate"
	"github.com/riskibarqy/fantasy-slates/internal/domain/team"
	"github.com/riskibarqy/fantasy-slates/internal/usecase"
)

type Handler struct {
	bootstrapService   *usecase.BootstrapService
	slateService       *usecase.SlateService
	lineupService      *usecase.LineupService
	leaderboardService *usecase.LeaderboardService
	settlementService  *usecase.SettlementService
	ingestionService   *usecase.IngestionService
	jobDispatchRepo    JobDispatchRecorder
	logger             *slog.Logger
	validator          *validator.Validate
}

func NewHandler(
	bootstrapService *usecase.BootstrapService,
	slateService *usecase.SlateService,
	lineupService *usecase.LineupService,
	leaderboardService *usecase.LeaderboardService,
	settlementService *usecase.SettlementService,
	ingestionService *usecase.IngestionService,
	jobDispatchRepo JobDispatchRecorder,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		bootstrapService:   bootstrapService,
		slateService:       slateService,
		lineupService:      lineupService,
		leaderboardService: leaderboardService,
		settlementService:  settlementService,
		ingestionService:   ingestionService,
		jobDispatchRepo:    jobDispatchRepo,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetBootstrap(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBootstrap")
	defer span.End()

	data, err := h.bootstrapService.Get(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get bootstrap failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, bootstrapToDTO(ctx, data))
}

func (h *Handler) ListSlates(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSlates")
	defer span.End()

	slates, err := h.slateService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list slates failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]slateDTO, 0, len(slates))
	for _, sl := range slates {
		items = append(items, slateToDTO(ctx, sl))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetSlate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSlate")
	defer span.End()

	slateID := r.PathValue("slateID")
	detail, err := h.slateService.GetWithFixtures(ctx, slateID)
	if err != nil {
		h.logger.WarnContext(ctx, "get slate failed", "slate_id", slateID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, slateDetailToDTO(ctx, detail))
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

type teamDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Short string `json:"short"`
}

type playerDTO struct {
	ID       string `json:"id"`
	TeamID   string `json:"teamId"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Active   bool   `json:"active"`
}

type fixtureDTO struct {
	ID         string `json:"id"`
	HomeTeamID string `json:"homeTeamId"`
	AwayTeamID string `json:"awayTeamId"`
	KickoffAt  string `json:"kickoffAt"`
	Status     string `json:"status"`
	HomeScore  *int   `json:"homeScore,omitempty"`
	AwayScore  *int   `json:"awayScore,omitempty"`
}

type slateDTO struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Date       string   `json:"date"`
	LockAt     string   `json:"lockAt"`
	Status     string   `json:"status"`
	FixtureIDs []string `json:"fixtureIds"`
}

type slateDetailDTO struct {
	Slate    slateDTO     `json:"slate"`
	Fixtures []fixtureDTO `json:"fixtures"`
}

type bootstrapDTO struct {
	Teams        []teamDTO       `json:"teams"`
	Players      []playerDTO     `json:"players"`
	CurrentSlate *slateDetailDTO `json:"currentSlate,omitempty"`
}

type lineupDTO struct {
	ID        string   `json:"id"`
	EntryID   string   `json:"entryId"`
	SlateID   string   `json:"slateId"`
	PlayerIDs []string `json:"playerIds"`
	CaptainID string   `json:"captainId"`
	UpdatedAt string   `json:"updatedAt"`
}

func teamToDTO(ctx context.Context, v team.Team) teamDTO {
	ctx, span := startSpan(ctx, "httpapi.teamToDTO")
	defer span.End()

	return teamDTO{
		ID:    v.ID,
		Name:  v.Name,
		Short: v.Short,
	}
}

func playerToDTO(ctx context.Context, v player.Player) playerDTO {
	ctx, span := startSpan(ctx, "httpapi.playerToDTO")
	defer span.End()

	return playerDTO{
		ID:       v.ID,
		TeamID:   v.TeamID,
		Name:     v.Name,
		Position: string(v.Position),
		Active:   v.Active,
	}
}

func fixtureToDTO(ctx context.Context, v fixture.Fixture) fixtureDTO {
	ctx, span := startSpan(ctx, "httpapi.fixtureToDTO")
	defer span.End()

	return fixtureDTO{
		ID:         v.ID,
		HomeTeamID: v.HomeTeamID,
		AwayTeamID: v.AwayTeamID,
		KickoffAt:  v.KickoffAt.UTC().Format(time.RFC3339),
		Status:     string(v.Status),
		HomeScore:  v.HomeScore,
		AwayScore:  v.AwayScore,
	}
}

func slateToDTO(ctx context.Context, v slate.Slate) slateDTO {
	ctx, span := startSpan(ctx, "httpapi.slateToDTO")
	defer span.End()

	return slateDTO{
		ID:         v.ID,
		Name:       v.Name,
		Date:       v.Date,
		LockAt:     v.LockAt.UTC().Format(time.RFC3339),
		Status:     string(v.Status),
		FixtureIDs: append([]string(nil), v.FixtureIDs...),
	}
}

func slateDetailToDTO(ctx context.Context, v usecase.SlateWithFixtures) slateDetailDTO {
	ctx, span := startSpan(ctx, "httpapi.slateDetailToDTO")
	defer span.End()

	fixtures := make([]fixtureDTO, 0, len(v.Fixtures))
	for _, f := range v.Fixtures {
		fixtures = append(fixtures, fixtureToDTO(ctx, f))
	}

	return slateDetailDTO{
		Slate:    slateToDTO(ctx, v.Slate),
		Fixtures: fixtures,
	}
}

func bootstrapToDTO(ctx context.Context, v usecase.BootstrapData) bootstrapDTO {
	ctx, span := startSpan(ctx, "httpapi.bootstrapToDTO")
	defer span.End()

	teams := make([]teamDTO, 0, len(v.Teams))
	for _, t := range v.Teams {
		teams = append(teams, teamToDTO(ctx, t))
	}
	players := make([]playerDTO, 0, len(v.Players))
	for _, p := range v.Players {
		players = append(players, playerToDTO(ctx, p))
	}

	dto := bootstrapDTO{Teams: teams, Players: players}
	if v.CurrentSlate != nil {
		detail := slateDetailToDTO(ctx, *v.CurrentSlate)
		dto.CurrentSlate = &detail
	}
	return dto
}

func lineupToDTO(ctx context.Context, item lineup.Lineup) lineupDTO {
	ctx, span := startSpan(ctx, "httpapi.lineupToDTO")
	defer span.End()

	return lineupDTO{
		ID:        item.ID,
		EntryID:   item.EntryID,
		SlateID:   item.SlateID,
		PlayerIDs: item.PlayerIDs(),
		CaptainID: item.CaptainID(),
		UpdatedAt: item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
