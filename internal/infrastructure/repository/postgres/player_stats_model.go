package postgres

import "time"

type playerFixtureStatRow struct {
	ID            int64      `db:"id"`
	FixtureID     string     `db:"fixture_public_id"`
	PlayerID      string     `db:"player_public_id"`
	Minutes       int        `db:"minutes_played"`
	Goals         int        `db:"goals"`
	Assists       int        `db:"assists"`
	CleanSheet    bool       `db:"clean_sheet"`
	GoalsConceded int        `db:"goals_conceded"`
	Saves         int        `db:"saves"`
	PensSaved     int        `db:"penalties_saved"`
	PensMissed    int        `db:"penalties_missed"`
	YellowCards   int        `db:"yellow_cards"`
	RedCards      int        `db:"red_cards"`
	OwnGoals      int        `db:"own_goals"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at"`
}

type playerFixtureStatInsertModel struct {
	FixtureID     string `db:"fixture_public_id"`
	PlayerID      string `db:"player_public_id"`
	Minutes       int    `db:"minutes_played"`
	Goals         int    `db:"goals"`
	Assists       int    `db:"assists"`
	CleanSheet    bool   `db:"clean_sheet"`
	GoalsConceded int    `db:"goals_conceded"`
	Saves         int    `db:"saves"`
	PensSaved     int    `db:"penalties_saved"`
	PensMissed    int    `db:"penalties_missed"`
	YellowCards   int    `db:"yellow_cards"`
	RedCards      int    `db:"red_cards"`
	OwnGoals      int    `db:"own_goals"`
}
