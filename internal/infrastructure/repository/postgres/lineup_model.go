package postgres

import (
	"time"

	"github.com/lib/pq"
)

type lineupTableModel struct {
	ID        int64          `db:"id"`
	PublicID  string         `db:"public_id"`
	EntryID   string         `db:"entry_public_id"`
	SlateID   string         `db:"slate_public_id"`
	PlayerIDs pq.StringArray `db:"player_ids"`
	CaptainID string         `db:"captain_player_public_id"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
	DeletedAt *time.Time     `db:"deleted_at"`
}

type lineupInsertModel struct {
	PublicID  string         `db:"public_id"`
	EntryID   string         `db:"entry_public_id"`
	SlateID   string         `db:"slate_public_id"`
	PlayerIDs pq.StringArray `db:"player_ids"`
	CaptainID string         `db:"captain_player_public_id"`
}
