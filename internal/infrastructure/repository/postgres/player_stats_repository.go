package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-slates/internal/domain/playerstats"
	qb "github.com/riskibarqy/fantasy-slates/internal/platform/querybuilder"
)

type PlayerStatsRepository struct {
	db *sqlx.DB
}

func NewPlayerStatsRepository(db *sqlx.DB) *PlayerStatsRepository {
	return &PlayerStatsRepository{db: db}
}

func (r *PlayerStatsRepository) ListByFixtures(ctx context.Context, fixtureIDs []string) ([]playerstats.FixtureStat, error) {
	if len(fixtureIDs) == 0 {
		return []playerstats.FixtureStat{}, nil
	}

	query, args, err := qb.Select("*").From("player_fixture_stats").
		Where(
			qb.In("fixture_public_id", stringSliceToAny(fixtureIDs)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("fixture_public_id", "player_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player fixture stats query: %w", err)
	}

	var rows []playerFixtureStatRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player fixture stats: %w", err)
	}

	out := make([]playerstats.FixtureStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerstats.FixtureStat{
			FixtureID:     row.FixtureID,
			PlayerID:      row.PlayerID,
			Minutes:       row.Minutes,
			Goals:         row.Goals,
			Assists:       row.Assists,
			CleanSheet:    row.CleanSheet,
			GoalsConceded: row.GoalsConceded,
			Saves:         row.Saves,
			PensSaved:     row.PensSaved,
			PensMissed:    row.PensMissed,
			YellowCards:   row.YellowCards,
			RedCards:      row.RedCards,
			OwnGoals:      row.OwnGoals,
		})
	}
	return out, nil
}

func (r *PlayerStatsRepository) UpsertFixtureStats(ctx context.Context, fixtureID string, stats []playerstats.FixtureStat) error {
	if len(stats) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for fixture stats upsert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, stat := range stats {
		insertModel := playerFixtureStatInsertModel{
			FixtureID:     fixtureID,
			PlayerID:      stat.PlayerID,
			Minutes:       stat.Minutes,
			Goals:         stat.Goals,
			Assists:       stat.Assists,
			CleanSheet:    stat.CleanSheet,
			GoalsConceded: stat.GoalsConceded,
			Saves:         stat.Saves,
			PensSaved:     stat.PensSaved,
			PensMissed:    stat.PensMissed,
			YellowCards:   stat.YellowCards,
			RedCards:      stat.RedCards,
			OwnGoals:      stat.OwnGoals,
		}

		query, args, err := qb.InsertModel("player_fixture_stats", insertModel, `ON CONFLICT (fixture_public_id, player_public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    minutes_played = EXCLUDED.minutes_played,
    goals = EXCLUDED.goals,
    assists = EXCLUDED.assists,
    clean_sheet = EXCLUDED.clean_sheet,
    goals_conceded = EXCLUDED.goals_conceded,
    saves = EXCLUDED.saves,
    penalties_saved = EXCLUDED.penalties_saved,
    penalties_missed = EXCLUDED.penalties_missed,
    yellow_cards = EXCLUDED.yellow_cards,
    red_cards = EXCLUDED.red_cards,
    own_goals = EXCLUDED.own_goals,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert fixture stat player=%s query: %w", stat.PlayerID, err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert fixture stat fixture=%s player=%s: %w", fixtureID, stat.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit fixture stats upsert tx: %w", err)
	}
	return nil
}
