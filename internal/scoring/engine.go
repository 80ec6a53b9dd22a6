package scoring

import (
	"github.com/riskibarqy/fantasy-slates/internal/domain/player"
	"github.com/riskibarqy/fantasy-slates/internal/domain/playerstats"
)

// goalValues maps position to the per-goal point award.
var goalValues = map[player.Position]int{
	player.PositionGoalkeeper: 10,
	player.PositionDefender:   6,
	player.PositionMidfielder: 5,
	player.PositionForward:    4,
}

// PlayerPoints converts one player's aggregated match statistics into
// fantasy points. Pure and deterministic; the zero floor is applied
// once at the end, never per rule.
func PlayerPoints(position player.Position, stat playerstats.FixtureStat) int {
	points := 0

	switch {
	case stat.Minutes <= 0:
	case stat.Minutes < 60:
		points++
	default:
		points += 2
	}

	points += stat.Goals * goalValues[position]
	points += stat.Assists * 3

	if stat.CleanSheet && stat.Minutes >= 60 {
		switch position {
		case player.PositionGoalkeeper, player.PositionDefender:
			points += 4
		case player.PositionMidfielder:
			points++
		}
	}

	if position == player.PositionGoalkeeper {
		points += stat.Saves / 3
	}

	points += stat.PensSaved * 5

	if position == player.PositionGoalkeeper || position == player.PositionDefender {
		points -= stat.GoalsConceded / 2
	}

	points -= stat.YellowCards
	points -= stat.RedCards * 3
	points -= stat.PensMissed * 2
	points -= stat.OwnGoals * 2

	if points < 0 {
		points = 0
	}
	return points
}

// Pick is the scoring view of a lineup selection.
type Pick struct {
	PlayerID  string
	Position  player.Position
	IsCaptain bool
}

// LineupResult is the unboosted score of a full lineup.
type LineupResult struct {
	Total     int
	Breakdown map[string]int
}

// LineupPoints scores every pick against its aggregated statistics.
// A pick with no stat line contributes zero, it is not an error.
// Captain boosting happens during settlement, not here: the breakdown
// holds raw per-position scores.
func LineupPoints(picks []Pick, statsByPlayer map[string]playerstats.FixtureStat) LineupResult {
	result := LineupResult{Breakdown: make(map[string]int, len(picks))}
	for _, pick := range picks {
		pts := PlayerPoints(pick.Position, statsByPlayer[pick.PlayerID])
		result.Breakdown[pick.PlayerID] = pts
		result.Total += pts
	}
	return result
}

// CaptainBoost applies the 1.5x captain multiplier to a raw score,
// rounding half up.
func CaptainBoost(raw int) int {
	return (raw*3 + 1) / 2
}
