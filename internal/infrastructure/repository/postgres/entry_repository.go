package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-slates/internal/domain/entry"
	qb "github.com/riskibarqy/fantasy-slates/internal/platform/querybuilder"
)

type EntryRepository struct {
	db *sqlx.DB
}

func NewEntryRepository(db *sqlx.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

func (r *EntryRepository) GetByID(ctx context.Context, entryID string) (entry.Entry, bool, error) {
	return r.getOne(ctx, qb.Eq("public_id", entryID))
}

func (r *EntryRepository) GetByUser(ctx context.Context, userID string) (entry.Entry, bool, error) {
	return r.getOne(ctx, qb.Eq("user_id", userID))
}

func (r *EntryRepository) getOne(ctx context.Context, match qb.Condition) (entry.Entry, bool, error) {
	query, args, err := qb.Select("*").From("entries").
		Where(match, qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return entry.Entry{}, false, fmt.Errorf("build select entry query: %w", err)
	}

	var row entryTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return entry.Entry{}, false, nil
		}
		return entry.Entry{}, false, fmt.Errorf("select entry: %w", err)
	}

	return entryFromRow(row), true, nil
}

func (r *EntryRepository) List(ctx context.Context) ([]entry.Entry, error) {
	query, args, err := qb.Select("*").From("entries").
		Where(qb.IsNull("deleted_at")).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select entries query: %w", err)
	}

	var rows []entryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select entries: %w", err)
	}

	out := make([]entry.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, entryFromRow(row))
	}
	return out, nil
}

func (r *EntryRepository) Create(ctx context.Context, e entry.Entry) error {
	createdAt := e.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = nowUTC()
	}

	query, args, err := qb.InsertInto("entries").
		Columns("public_id", "user_id", "display_name", "created_at").
		Values(e.ID, e.UserID, e.DisplayName, createdAt).
		Suffix(`ON CONFLICT (user_id) WHERE deleted_at IS NULL DO NOTHING`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert entry query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert entry user=%s: %w", e.UserID, err)
	}

	return nil
}

func entryFromRow(row entryTableModel) entry.Entry {
	return entry.Entry{
		ID:          row.PublicID,
		UserID:      row.UserID,
		DisplayName: row.DisplayName,
		CreatedAt:   row.CreatedAt,
	}
}
