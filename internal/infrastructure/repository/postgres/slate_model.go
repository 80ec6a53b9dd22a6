package postgres

import "time"

type slateTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	Name      string     `db:"name"`
	SlateDate string     `db:"slate_date"`
	LockAt    time.Time  `db:"lock_at"`
	Status    string     `db:"status"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type slateFixtureRow struct {
	SlateID   string `db:"slate_public_id"`
	FixtureID string `db:"fixture_public_id"`
}
