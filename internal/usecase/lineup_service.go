package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-slates/internal/domain/entry"
	"github.com/riskibarqy/fantasy-slates/internal/domain/fixture"
	"github.com/riskibarqy/fantasy-slates/internal/domain/lineup"
	"github.com/riskibarqy/fantasy-slates/internal/domain/player"
	"github.com/riskibarqy/fantasy-slates/internal/domain/slate"
	"github.com/riskibarqy/fantasy-slates/internal/platform/id"
)

const (
	lineupSize        = 11
	maxPlayersPerTeam = 3
)

type SubmitLineupInput struct {
	UserID    string
	UserEmail string
	SlateID   string
	PlayerIDs []string
	CaptainID string
}

// LineupService validates and persists lineup submissions.
type LineupService struct {
	slateRepo   slate.Repository
	fixtureRepo fixture.Repository
	playerRepo  player.Repository
	entryRepo   entry.Repository
	lineupRepo  lineup.Repository
	entryIDGen  id.Generator
	lineupIDGen id.Generator
	now         func() time.Time
}

func NewLineupService(
	slateRepo slate.Repository,
	fixtureRepo fixture.Repository,
	playerRepo player.Repository,
	entryRepo entry.Repository,
	lineupRepo lineup.Repository,
	entryIDGen id.Generator,
	lineupIDGen id.Generator,
) *LineupService {
	return &LineupService{
		slateRepo:   slateRepo,
		fixtureRepo: fixtureRepo,
		playerRepo:  playerRepo,
		entryRepo:   entryRepo,
		lineupRepo:  lineupRepo,
		entryIDGen:  entryIDGen,
		lineupIDGen: lineupIDGen,
		now:         time.Now,
	}
}

func (s *LineupService) GetBySlateForUser(ctx context.Context, userID, slateID string) (lineup.Lineup, bool, error) {
	userID = strings.TrimSpace(userID)
	slateID = strings.TrimSpace(slateID)
	if userID == "" || slateID == "" {
		return lineup.Lineup{}, false, fmt.Errorf("%w: user_id and slate_id are required", ErrInvalidInput)
	}

	ent, exists, err := s.entryRepo.GetByUser(ctx, userID)
	if err != nil {
		return lineup.Lineup{}, false, fmt.Errorf("get entry by user: %w", err)
	}
	if !exists {
		return lineup.Lineup{}, false, nil
	}

	item, exists, err := s.lineupRepo.GetByEntryAndSlate(ctx, ent.ID, slateID)
	if err != nil {
		return lineup.Lineup{}, false, fmt.Errorf("get lineup by entry and slate: %w", err)
	}

	return item, exists, nil
}

// Submit runs the full validation chain in order and, on success,
// lazily creates the user's entry and replaces the lineup's pick set
// wholesale. The first failing rule wins.
func (s *LineupService) Submit(ctx context.Context, input SubmitLineupInput) (lineup.Lineup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.Submit")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.SlateID = strings.TrimSpace(input.SlateID)
	input.CaptainID = strings.TrimSpace(input.CaptainID)

	if input.UserID == "" {
		return lineup.Lineup{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if input.SlateID == "" {
		return lineup.Lineup{}, fmt.Errorf("%w: slate_id is required", ErrInvalidInput)
	}

	target, exists, err := s.slateRepo.GetByID(ctx, input.SlateID)
	if err != nil {
		return lineup.Lineup{}, fmt.Errorf("get slate by id: %w", err)
	}
	if !exists {
		return lineup.Lineup{}, fmt.Errorf("%w: slate=%s", ErrNotFound, input.SlateID)
	}
	if target.Status != slate.StatusOpen || !s.now().Before(target.LockAt) {
		return lineup.Lineup{}, fmt.Errorf("%w: slate=%s", ErrSlateLocked, input.SlateID)
	}

	playerIDs, err := normalizeIDs(input.PlayerIDs)
	if err != nil {
		return lineup.Lineup{}, err
	}
	if len(playerIDs) != lineupSize {
		return lineup.Lineup{}, fmt.Errorf("%w: lineup must contain exactly %d players, got %d", ErrInvalidInput, lineupSize, len(playerIDs))
	}

	playerSet := make(map[string]struct{}, len(playerIDs))
	for _, playerID := range playerIDs {
		if _, dup := playerSet[playerID]; dup {
			return lineup.Lineup{}, fmt.Errorf("%w: duplicate player id %s", ErrInvalidInput, playerID)
		}
		playerSet[playerID] = struct{}{}
	}

	if input.CaptainID == "" {
		return lineup.Lineup{}, fmt.Errorf("%w: captain_id is required", ErrInvalidInput)
	}
	if _, ok := playerSet[input.CaptainID]; !ok {
		return lineup.Lineup{}, fmt.Errorf("%w: captain must be one of the selected players", ErrInvalidInput)
	}

	players, err := s.playerRepo.GetByIDs(ctx, playerIDs)
	if err != nil {
		return lineup.Lineup{}, fmt.Errorf("get players by ids: %w", err)
	}
	playersByID := make(map[string]player.Player, len(players))
	for _, p := range players {
		playersByID[p.ID] = p
	}
	for _, playerID := range playerIDs {
		p, ok := playersByID[playerID]
		if !ok || !p.Active {
			return lineup.Lineup{}, fmt.Errorf("%w: player %s is not eligible", ErrInvalidInput, playerID)
		}
	}

	eligibleTeams, err := s.slateTeams(ctx, target)
	if err != nil {
		return lineup.Lineup{}, err
	}
	teamCounter := make(map[string]int)
	for _, playerID := range playerIDs {
		p := playersByID[playerID]
		if _, ok := eligibleTeams[p.TeamID]; !ok {
			return lineup.Lineup{}, fmt.Errorf("%w: player %s is not playing in this slate", ErrInvalidInput, playerID)
		}
		teamCounter[p.TeamID]++
		if teamCounter[p.TeamID] > maxPlayersPerTeam {
			return lineup.Lineup{}, fmt.Errorf("%w: too many players from team %s (max %d)", ErrInvalidInput, p.TeamID, maxPlayersPerTeam)
		}
	}

	ent, err := s.ensureEntry(ctx, input.UserID, input.UserEmail)
	if err != nil {
		return lineup.Lineup{}, err
	}

	lineupID, err := s.resolveLineupID(ctx, ent.ID, target.ID)
	if err != nil {
		return lineup.Lineup{}, err
	}

	picks := make([]lineup.Pick, 0, len(playerIDs))
	for _, playerID := range playerIDs {
		picks = append(picks, lineup.Pick{
			PlayerID:  playerID,
			IsCaptain: playerID == input.CaptainID,
		})
	}

	item := lineup.Lineup{
		ID:        lineupID,
		EntryID:   ent.ID,
		SlateID:   target.ID,
		Picks:     picks,
		UpdatedAt: s.now().UTC(),
	}

	saved, err := s.lineupRepo.Replace(ctx, item)
	if err != nil {
		if errors.Is(err, lineup.ErrSlateNotOpen) {
			return lineup.Lineup{}, fmt.Errorf("%w: slate=%s", ErrSlateLocked, input.SlateID)
		}
		return lineup.Lineup{}, fmt.Errorf("replace lineup: %w", err)
	}

	return saved, nil
}

// resolveLineupID keeps the stored public id on resubmission and mints
// a fresh one for the first submission of an (entry, slate) pair.
func (s *LineupService) resolveLineupID(ctx context.Context, entryID, slateID string) (string, error) {
	existing, exists, err := s.lineupRepo.GetByEntryAndSlate(ctx, entryID, slateID)
	if err != nil {
		return "", fmt.Errorf("get lineup by entry and slate: %w", err)
	}
	if exists {
		return existing.ID, nil
	}

	lineupID, err := s.lineupIDGen.NewID()
	if err != nil {
		return "", fmt.Errorf("generate lineup id: %w", err)
	}
	return lineupID, nil
}

func (s *LineupService) slateTeams(ctx context.Context, target slate.Slate) (map[string]struct{}, error) {
	fixtures, err := s.fixtureRepo.GetByIDs(ctx, target.FixtureIDs)
	if err != nil {
		return nil, fmt.Errorf("get slate fixtures: %w", err)
	}

	teams := make(map[string]struct{}, len(fixtures)*2)
	for _, f := range fixtures {
		teams[f.HomeTeamID] = struct{}{}
		teams[f.AwayTeamID] = struct{}{}
	}
	return teams, nil
}

func (s *LineupService) ensureEntry(ctx context.Context, userID, email string) (entry.Entry, error) {
	existing, exists, err := s.entryRepo.GetByUser(ctx, userID)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("get entry by user: %w", err)
	}
	if exists {
		return existing, nil
	}

	entryID, err := s.entryIDGen.NewID()
	if err != nil {
		return entry.Entry{}, fmt.Errorf("generate entry id: %w", err)
	}

	created := entry.Entry{
		ID:          entryID,
		UserID:      userID,
		DisplayName: defaultDisplayName(email),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.entryRepo.Create(ctx, created); err != nil {
		return entry.Entry{}, fmt.Errorf("create entry: %w", err)
	}

	return created, nil
}

func defaultDisplayName(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "My team"
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at] + "'s team"
	}
	return email + "'s team"
}

func normalizeIDs(ids []string) ([]string, error) {
	cleaned := make([]string, 0, len(ids))
	for _, v := range ids {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, fmt.Errorf("%w: player id cannot be empty", ErrInvalidInput)
		}
		cleaned = append(cleaned, v)
	}
	return cleaned, nil
}
