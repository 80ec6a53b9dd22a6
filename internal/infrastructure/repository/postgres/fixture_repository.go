package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-slates/internal/domain/fixture"
	qb "github.com/riskibarqy/fantasy-slates/internal/platform/querybuilder"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) List(ctx context.Context) ([]fixture.Fixture, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(qb.IsNull("deleted_at")).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fixtures query: %w", err)
	}

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select fixtures: %w", err)
	}

	return fixturesFromRows(rows), nil
}

func (r *FixtureRepository) GetByIDs(ctx context.Context, fixtureIDs []string) ([]fixture.Fixture, error) {
	if len(fixtureIDs) == 0 {
		return []fixture.Fixture{}, nil
	}

	query, args, err := qb.Select("*").From("fixtures").
		Where(
			qb.In("public_id", stringSliceToAny(fixtureIDs)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fixtures by ids query: %w", err)
	}

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select fixtures by ids: %w", err)
	}

	return fixturesFromRows(rows), nil
}

func (r *FixtureRepository) UpsertResult(ctx context.Context, fixtureID, status string, homeScore, awayScore *int) error {
	normalized := fixture.NormalizeStatus(status)

	query, args, err := qb.Update("fixtures").
		Set("status", normalized).
		Set("home_score", homeScore).
		Set("away_score", awayScore).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", fixtureID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update fixture result query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update fixture result fixture=%s: %w", fixtureID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("count updated fixture rows fixture=%s: %w", fixtureID, err)
	}
	if affected > 0 {
		return nil
	}

	insertQuery, insertArgs, err := qb.InsertInto("fixtures").
		Columns("public_id", "home_team_public_id", "away_team_public_id", "kickoff_at", "status", "home_score", "away_score").
		Values(fixtureID, "", "", nowUTC(), normalized, homeScore, awayScore).
		Suffix(`ON CONFLICT (public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    status = EXCLUDED.status,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    updated_at = NOW()`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert fixture result query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("insert fixture result fixture=%s: %w", fixtureID, err)
	}

	return nil
}

func fixturesFromRows(rows []fixtureTableModel) []fixture.Fixture {
	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, fixture.Fixture{
			ID:         row.PublicID,
			HomeTeamID: row.HomeTeamID,
			AwayTeamID: row.AwayTeamID,
			KickoffAt:  row.KickoffAt,
			Status:     fixture.NormalizeStatus(row.Status),
			HomeScore:  row.HomeScore,
			AwayScore:  row.AwayScore,
		})
	}
	return out
}
