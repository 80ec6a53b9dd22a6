package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-slates/internal/domain/points"
	qb "github.com/riskibarqy/fantasy-slates/internal/platform/querybuilder"
)

type PointsRepository struct {
	db *sqlx.DB
}

func NewPointsRepository(db *sqlx.DB) *PointsRepository {
	return &PointsRepository{db: db}
}

func (r *PointsRepository) GetLineupPoints(ctx context.Context, lineupID string) (points.LineupPoints, bool, error) {
	query, args, err := qb.Select("*").From("lineup_points").
		Where(
			qb.Eq("lineup_public_id", lineupID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return points.LineupPoints{}, false, fmt.Errorf("build select lineup points query: %w", err)
	}

	var row lineupPointsRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return points.LineupPoints{}, false, nil
		}
		return points.LineupPoints{}, false, fmt.Errorf("select lineup points: %w", err)
	}

	lp, err := lineupPointsFromRow(row)
	if err != nil {
		return points.LineupPoints{}, false, err
	}
	return lp, true, nil
}

func (r *PointsRepository) ListLineupPointsBySlate(ctx context.Context, slateID string) ([]points.LineupPoints, error) {
	return r.listLineupPoints(ctx, qb.Eq("slate_public_id", slateID))
}

func (r *PointsRepository) ListLineupPointsByEntry(ctx context.Context, entryID string) ([]points.LineupPoints, error) {
	return r.listLineupPoints(ctx, qb.Eq("entry_public_id", entryID))
}

func (r *PointsRepository) listLineupPoints(ctx context.Context, match qb.Condition) ([]points.LineupPoints, error) {
	query, args, err := qb.Select("*").From("lineup_points").
		Where(match, qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list lineup points query: %w", err)
	}

	var rows []lineupPointsRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list lineup points: %w", err)
	}

	out := make([]points.LineupPoints, 0, len(rows))
	for _, row := range rows {
		lp, err := lineupPointsFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, lp)
	}
	return out, nil
}

func (r *PointsRepository) UpsertLineupPoints(ctx context.Context, lp points.LineupPoints) error {
	breakdown, err := marshalBreakdown(lp.Breakdown)
	if err != nil {
		return fmt.Errorf("marshal lineup points breakdown lineup=%s: %w", lp.LineupID, err)
	}

	scoredAt := lp.ScoredAt.UTC()
	if scoredAt.IsZero() {
		scoredAt = nowUTC()
	}

	insertModel := lineupPointsInsertModel{
		LineupID:  lp.LineupID,
		SlateID:   lp.SlateID,
		EntryID:   lp.EntryID,
		Total:     lp.Total,
		Breakdown: breakdown,
		ScoredAt:  scoredAt,
	}

	query, args, err := qb.InsertModel("lineup_points", insertModel, `ON CONFLICT (lineup_public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    slate_public_id = EXCLUDED.slate_public_id,
    entry_public_id = EXCLUDED.entry_public_id,
    total_points = EXCLUDED.total_points,
    breakdown = EXCLUDED.breakdown,
    scored_at = EXCLUDED.scored_at,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert lineup points query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert lineup points lineup=%s: %w", lp.LineupID, err)
	}
	return nil
}

func (r *PointsRepository) GetEntryTotal(ctx context.Context, entryID string) (points.EntryTotal, bool, error) {
	query, args, err := qb.Select("*").From("entry_total_points").
		Where(
			qb.Eq("entry_public_id", entryID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return points.EntryTotal{}, false, fmt.Errorf("build select entry total query: %w", err)
	}

	var row entryTotalRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return points.EntryTotal{}, false, nil
		}
		return points.EntryTotal{}, false, fmt.Errorf("select entry total: %w", err)
	}

	return entryTotalFromRow(row), true, nil
}

func (r *PointsRepository) ListEntryTotals(ctx context.Context) ([]points.EntryTotal, error) {
	query, args, err := qb.Select("*").From("entry_total_points").
		Where(qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list entry totals query: %w", err)
	}

	var rows []entryTotalRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list entry totals: %w", err)
	}

	out := make([]points.EntryTotal, 0, len(rows))
	for _, row := range rows {
		out = append(out, entryTotalFromRow(row))
	}
	return out, nil
}

func (r *PointsRepository) UpsertEntryTotal(ctx context.Context, et points.EntryTotal) error {
	query, args, err := qb.InsertInto("entry_total_points").
		Columns("entry_public_id", "total_points", "slates_played").
		Values(et.EntryID, et.Total, et.SlatesPlayed).
		Suffix(`ON CONFLICT (entry_public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    total_points = EXCLUDED.total_points,
    slates_played = EXCLUDED.slates_played,
    updated_at = NOW(),
    deleted_at = NULL`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert entry total query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert entry total entry=%s: %w", et.EntryID, err)
	}
	return nil
}

func lineupPointsFromRow(row lineupPointsRow) (points.LineupPoints, error) {
	breakdown := map[string]int{}
	if row.Breakdown != "" {
		if err := sonic.UnmarshalString(row.Breakdown, &breakdown); err != nil {
			return points.LineupPoints{}, fmt.Errorf("unmarshal lineup points breakdown lineup=%s: %w", row.LineupID, err)
		}
	}
	return points.LineupPoints{
		LineupID:  row.LineupID,
		SlateID:   row.SlateID,
		EntryID:   row.EntryID,
		Total:     row.Total,
		Breakdown: breakdown,
		ScoredAt:  row.ScoredAt,
	}, nil
}

func entryTotalFromRow(row entryTotalRow) points.EntryTotal {
	return points.EntryTotal{
		EntryID:      row.EntryID,
		Total:        row.Total,
		SlatesPlayed: row.SlatesPlayed,
		UpdatedAt:    row.UpdatedAt,
	}
}

func marshalBreakdown(breakdown map[string]int) (string, error) {
	if len(breakdown) == 0 {
		return "{}", nil
	}
	return sonic.MarshalString(breakdown)
}
