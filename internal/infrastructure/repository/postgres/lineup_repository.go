package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/fantasy-slates/internal/domain/lineup"
	qb "github.com/riskibarqy/fantasy-slates/internal/platform/querybuilder"
)

type LineupRepository struct {
	db *sqlx.DB
}

func NewLineupRepository(db *sqlx.DB) *LineupRepository {
	return &LineupRepository{db: db}
}

func (r *LineupRepository) GetByEntryAndSlate(ctx context.Context, entryID, slateID string) (lineup.Lineup, bool, error) {
	query, args, err := lineupBaseSelectBuilder().
		Where(
			qb.Eq("entry_public_id", entryID),
			qb.Eq("slate_public_id", slateID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return lineup.Lineup{}, false, fmt.Errorf("build get lineup query: %w", err)
	}

	var row lineupTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isBindParameterMismatch(err) || isUnnamedPreparedStatementMissing(err) {
			return r.getByEntryAndSlateSingleParam(ctx, entryID, slateID)
		}
		if isNotFound(err) {
			return lineup.Lineup{}, false, nil
		}
		return lineup.Lineup{}, false, fmt.Errorf("get lineup: %w", err)
	}

	return lineupFromRow(row), true, nil
}

// getByEntryAndSlateSingleParam collapses both keys into one array
// parameter so poolers that cache prepared statements by shape still
// match.
func (r *LineupRepository) getByEntryAndSlateSingleParam(ctx context.Context, entryID, slateID string) (lineup.Lineup, bool, error) {
	query, _, err := lineupBaseSelectBuilder().
		Where(
			qb.Expr("entry_public_id = ($1::text[])[1]"),
			qb.Expr("slate_public_id = ($1::text[])[2]"),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return lineup.Lineup{}, false, fmt.Errorf("build get lineup single param fallback query: %w", err)
	}

	var row lineupTableModel
	if err := r.db.GetContext(ctx, &row, query, pq.Array([]string{entryID, slateID})); err != nil {
		if isUnnamedPreparedStatementMissing(err) {
			return r.getByEntryAndSlateLiteral(ctx, entryID, slateID)
		}
		if isNotFound(err) {
			return lineup.Lineup{}, false, nil
		}
		return lineup.Lineup{}, false, fmt.Errorf("get lineup fallback: %w", err)
	}

	return lineupFromRow(row), true, nil
}

func (r *LineupRepository) getByEntryAndSlateLiteral(ctx context.Context, entryID, slateID string) (lineup.Lineup, bool, error) {
	query, args, err := lineupBaseSelectBuilder().
		Where(
			qb.EqLiteral("entry_public_id", entryID),
			qb.EqLiteral("slate_public_id", slateID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return lineup.Lineup{}, false, fmt.Errorf("build get lineup literal fallback query: %w", err)
	}

	var row lineupTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return lineup.Lineup{}, false, nil
		}
		return lineup.Lineup{}, false, fmt.Errorf("get lineup literal fallback: %w", err)
	}

	return lineupFromRow(row), true, nil
}

func (r *LineupRepository) ListBySlate(ctx context.Context, slateID string) ([]lineup.Lineup, error) {
	query, args, err := lineupBaseSelectBuilder().
		Where(
			qb.Eq("slate_public_id", slateID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list lineups by slate query: %w", err)
	}

	var rows []lineupTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list lineups by slate: %w", err)
	}

	out := make([]lineup.Lineup, 0, len(rows))
	for _, row := range rows {
		out = append(out, lineupFromRow(row))
	}
	return out, nil
}

// slateOpenForSubmitQuery takes a share lock on the slate row so a
// concurrent status transition cannot commit between the check and
// the lineup write.
const slateOpenForSubmitQuery = `SELECT 1 FROM slates WHERE public_id = $1 AND status = 'OPEN' AND lock_at > NOW() AND deleted_at IS NULL FOR SHARE`

func (r *LineupRepository) Replace(ctx context.Context, l lineup.Lineup) (lineup.Lineup, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return lineup.Lineup{}, fmt.Errorf("begin tx replace lineup: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var one int
	if err := tx.GetContext(ctx, &one, slateOpenForSubmitQuery, l.SlateID); err != nil {
		if isNotFound(err) {
			return lineup.Lineup{}, fmt.Errorf("replace lineup: %w", lineup.ErrSlateNotOpen)
		}
		return lineup.Lineup{}, fmt.Errorf("check slate open for submit: %w", err)
	}

	insertModel := lineupInsertModel{
		PublicID:  l.ID,
		EntryID:   l.EntryID,
		SlateID:   l.SlateID,
		PlayerIDs: pq.StringArray(l.PlayerIDs()),
		CaptainID: l.CaptainID(),
	}

	query, args, err := qb.InsertModel("lineups", insertModel, `ON CONFLICT (entry_public_id, slate_public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    player_ids = EXCLUDED.player_ids,
    captain_player_public_id = EXCLUDED.captain_player_public_id,
    updated_at = NOW(),
    deleted_at = NULL
RETURNING public_id, updated_at`)
	if err != nil {
		return lineup.Lineup{}, fmt.Errorf("build lineup upsert query: %w", err)
	}

	var (
		publicID  string
		updatedAt time.Time
	)
	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&publicID, &updatedAt); err != nil {
		return lineup.Lineup{}, fmt.Errorf("upsert lineup: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return lineup.Lineup{}, fmt.Errorf("commit replace lineup: %w", err)
	}

	l.ID = publicID
	l.UpdatedAt = updatedAt
	return l, nil
}

func lineupFromRow(row lineupTableModel) lineup.Lineup {
	picks := make([]lineup.Pick, 0, len(row.PlayerIDs))
	for _, playerID := range row.PlayerIDs {
		picks = append(picks, lineup.Pick{
			PlayerID:  playerID,
			IsCaptain: playerID == row.CaptainID,
		})
	}
	return lineup.Lineup{
		ID:        row.PublicID,
		EntryID:   row.EntryID,
		SlateID:   row.SlateID,
		Picks:     picks,
		UpdatedAt: row.UpdatedAt,
	}
}

func lineupBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("*").From("lineups")
}
