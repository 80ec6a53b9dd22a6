package playerstats

// FixtureStat holds raw per (fixture, player) match statistics written
// by the external stats feed. Read-only to the settlement core.
type FixtureStat struct {
	FixtureID     string
	PlayerID      string
	Minutes       int
	Goals         int
	Assists       int
	CleanSheet    bool
	GoalsConceded int
	Saves         int
	PensSaved     int
	PensMissed    int
	YellowCards   int
	RedCards      int
	OwnGoals      int
}

// Aggregate sums stat lines for one player across fixtures. The clean
// sheet flag survives only when every contributing line has it set.
func Aggregate(lines []FixtureStat) FixtureStat {
	if len(lines) == 0 {
		return FixtureStat{}
	}

	out := FixtureStat{
		PlayerID:   lines[0].PlayerID,
		CleanSheet: true,
	}
	for _, l := range lines {
		out.Minutes += l.Minutes
		out.Goals += l.Goals
		out.Assists += l.Assists
		out.GoalsConceded += l.GoalsConceded
		out.Saves += l.Saves
		out.PensSaved += l.PensSaved
		out.PensMissed += l.PensMissed
		out.YellowCards += l.YellowCards
		out.RedCards += l.RedCards
		out.OwnGoals += l.OwnGoals
		out.CleanSheet = out.CleanSheet && l.CleanSheet
	}
	return out
}
