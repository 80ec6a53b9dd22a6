package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-slates/internal/domain/slate"
	qb "github.com/riskibarqy/fantasy-slates/internal/platform/querybuilder"
)

type SlateRepository struct {
	db *sqlx.DB
}

func NewSlateRepository(db *sqlx.DB) *SlateRepository {
	return &SlateRepository{db: db}
}

func (r *SlateRepository) GetByID(ctx context.Context, slateID string) (slate.Slate, bool, error) {
	query, args, err := qb.Select("*").From("slates").
		Where(
			qb.Eq("public_id", slateID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return slate.Slate{}, false, fmt.Errorf("build select slate by id query: %w", err)
	}

	var row slateTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return slate.Slate{}, false, nil
		}
		return slate.Slate{}, false, fmt.Errorf("select slate by id: %w", err)
	}

	fixtureIDs, err := r.fixtureIDsBySlates(ctx, []string{row.PublicID})
	if err != nil {
		return slate.Slate{}, false, err
	}

	return slateFromRow(row, fixtureIDs[row.PublicID]), true, nil
}

func (r *SlateRepository) List(ctx context.Context) ([]slate.Slate, error) {
	return r.list(ctx, nil)
}

func (r *SlateRepository) ListByStatus(ctx context.Context, status string) ([]slate.Slate, error) {
	return r.list(ctx, []qb.Condition{qb.Eq("status", status)})
}

func (r *SlateRepository) list(ctx context.Context, extra []qb.Condition) ([]slate.Slate, error) {
	conditions := append([]qb.Condition{qb.IsNull("deleted_at")}, extra...)
	query, args, err := qb.Select("*").From("slates").
		Where(conditions...).
		OrderBy("lock_at DESC", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select slates query: %w", err)
	}

	var rows []slateTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select slates: %w", err)
	}
	if len(rows) == 0 {
		return []slate.Slate{}, nil
	}

	slateIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		slateIDs = append(slateIDs, row.PublicID)
	}
	fixtureIDs, err := r.fixtureIDsBySlates(ctx, slateIDs)
	if err != nil {
		return nil, err
	}

	out := make([]slate.Slate, 0, len(rows))
	for _, row := range rows {
		out = append(out, slateFromRow(row, fixtureIDs[row.PublicID]))
	}
	return out, nil
}

// UpdateStatus transitions the slate only when its stored status still
// matches expected. Returns false when another writer got there first.
func (r *SlateRepository) UpdateStatus(ctx context.Context, slateID, expected, next string) (bool, error) {
	query, args, err := qb.Update("slates").
		Set("status", next).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", slateID),
			qb.Eq("status", expected),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update slate status query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update slate status slate=%s %s->%s: %w", slateID, expected, next, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("count updated slate rows slate=%s: %w", slateID, err)
	}

	return affected > 0, nil
}

func (r *SlateRepository) fixtureIDsBySlates(ctx context.Context, slateIDs []string) (map[string][]string, error) {
	query, args, err := qb.Select("slate_public_id", "fixture_public_id").From("slate_fixtures").
		Where(
			qb.In("slate_public_id", stringSliceToAny(slateIDs)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select slate fixtures query: %w", err)
	}

	var rows []slateFixtureRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select slate fixtures: %w", err)
	}

	out := make(map[string][]string, len(slateIDs))
	for _, row := range rows {
		out[row.SlateID] = append(out[row.SlateID], row.FixtureID)
	}
	return out, nil
}

func slateFromRow(row slateTableModel, fixtureIDs []string) slate.Slate {
	if fixtureIDs == nil {
		fixtureIDs = []string{}
	}
	return slate.Slate{
		ID:         row.PublicID,
		Name:       row.Name,
		Date:       row.SlateDate,
		LockAt:     row.LockAt,
		Status:     row.Status,
		FixtureIDs: fixtureIDs,
	}
}
