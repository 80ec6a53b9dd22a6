package lineup

import "time"

// Pick references one selected player inside a lineup.
type Pick struct {
	PlayerID  string
	IsCaptain bool
}

// Lineup stores one entry's picks for a slate. At most one lineup per
// (entry, slate) pair; exactly one pick carries the captain flag once
// the lineup is complete.
type Lineup struct {
	ID        string
	EntryID   string
	SlateID   string
	Picks     []Pick
	UpdatedAt time.Time
}

// CaptainID returns the captain pick's player id, or "" when no pick
// carries the flag.
func (l Lineup) CaptainID() string {
	for _, p := range l.Picks {
		if p.IsCaptain {
			return p.PlayerID
		}
	}
	return ""
}

// PlayerIDs returns the picked player ids in pick order.
func (l Lineup) PlayerIDs() []string {
	ids := make([]string, 0, len(l.Picks))
	for _, p := range l.Picks {
		ids = append(ids, p.PlayerID)
	}
	return ids
}
