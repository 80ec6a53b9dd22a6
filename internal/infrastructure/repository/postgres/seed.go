package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-slates/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the development dataset into an empty database
// so a fresh environment has slates to play with.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM teams WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count teams for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	seed := memory.DefaultSeed(time.Now().UTC())

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, t := range seed.Teams {
		if err := seedExec(ctx, tx, `
INSERT INTO teams (public_id, name, short)
VALUES (:public_id, :name, :short)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id": t.ID,
			"name":      t.Name,
			"short":     t.Short,
		}); err != nil {
			return fmt.Errorf("seed team %s: %w", t.ID, err)
		}
	}

	for _, p := range seed.Players {
		if err := seedExec(ctx, tx, `
INSERT INTO players (public_id, team_public_id, name, position, is_active)
VALUES (:public_id, :team_public_id, :name, :position, :is_active)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":      p.ID,
			"team_public_id": p.TeamID,
			"name":           p.Name,
			"position":       string(p.Position),
			"is_active":      p.Active,
		}); err != nil {
			return fmt.Errorf("seed player %s: %w", p.ID, err)
		}
	}

	for _, f := range seed.Fixtures {
		if err := seedExec(ctx, tx, `
INSERT INTO fixtures (public_id, home_team_public_id, away_team_public_id, kickoff_at, status)
VALUES (:public_id, :home_team_public_id, :away_team_public_id, :kickoff_at, :status)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":           f.ID,
			"home_team_public_id": f.HomeTeamID,
			"away_team_public_id": f.AwayTeamID,
			"kickoff_at":          f.KickoffAt,
			"status":              f.Status,
		}); err != nil {
			return fmt.Errorf("seed fixture %s: %w", f.ID, err)
		}
	}

	for _, s := range seed.Slates {
		if err := seedExec(ctx, tx, `
INSERT INTO slates (public_id, name, slate_date, lock_at, status)
VALUES (:public_id, :name, :slate_date, :lock_at, :status)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":  s.ID,
			"name":       s.Name,
			"slate_date": s.Date,
			"lock_at":    s.LockAt,
			"status":     s.Status,
		}); err != nil {
			return fmt.Errorf("seed slate %s: %w", s.ID, err)
		}

		for _, fixtureID := range s.FixtureIDs {
			if err := seedExec(ctx, tx, `
INSERT INTO slate_fixtures (slate_public_id, fixture_public_id)
VALUES (:slate_public_id, :fixture_public_id)
ON CONFLICT (slate_public_id, fixture_public_id) DO NOTHING`, map[string]any{
				"slate_public_id":   s.ID,
				"fixture_public_id": fixtureID,
			}); err != nil {
				return fmt.Errorf("seed slate fixture %s/%s: %w", s.ID, fixtureID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}

func seedExec(ctx context.Context, tx *sqlx.Tx, query string, args map[string]any) error {
	sqlQuery, sqlArgs, err := sqlx.Named(query, args)
	if err != nil {
		return fmt.Errorf("bind seed query: %w", err)
	}
	sqlQuery = tx.Rebind(sqlQuery)
	if _, err := tx.ExecContext(ctx, sqlQuery, sqlArgs...); err != nil {
		return err
	}
	return nil
}
