package points

import "time"

// LineupPoints is the settled score for one lineup, written once per
// settlement pass and safe to recompute.
type LineupPoints struct {
	LineupID  string
	SlateID   string
	EntryID   string
	Total     int
	Breakdown map[string]int
	ScoredAt  time.Time
}

// EntryTotal is the running sum of an entry's lineup points across all
// scored slates. Fully recomputed on every settlement pass.
type EntryTotal struct {
	EntryID      string
	Total        int
	SlatesPlayed int
	UpdatedAt    time.Time
}
