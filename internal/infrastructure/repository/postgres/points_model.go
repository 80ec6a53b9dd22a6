package postgres

import "time"

type lineupPointsRow struct {
	ID        int64      `db:"id"`
	LineupID  string     `db:"lineup_public_id"`
	SlateID   string     `db:"slate_public_id"`
	EntryID   string     `db:"entry_public_id"`
	Total     int        `db:"total_points"`
	Breakdown string     `db:"breakdown"`
	ScoredAt  time.Time  `db:"scored_at"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type lineupPointsInsertModel struct {
	LineupID  string    `db:"lineup_public_id"`
	SlateID   string    `db:"slate_public_id"`
	EntryID   string    `db:"entry_public_id"`
	Total     int       `db:"total_points"`
	Breakdown string    `db:"breakdown"`
	ScoredAt  time.Time `db:"scored_at"`
}

type entryTotalRow struct {
	ID           int64      `db:"id"`
	EntryID      string     `db:"entry_public_id"`
	Total        int        `db:"total_points"`
	SlatesPlayed int        `db:"slates_played"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}
