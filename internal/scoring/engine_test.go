package scoring

import (
	"testing"

	"github.com/riskibarqy/fantasy-slates/internal/domain/player"
	"github.com/riskibarqy/fantasy-slates/internal/domain/playerstats"
)

func TestPlayerPointsZeroStats(t *testing.T) {
	t.Parallel()

	for pos := range player.AllPositions {
		if got := PlayerPoints(pos, playerstats.FixtureStat{}); got != 0 {
			t.Fatalf("position %s: expected 0 points for zero stats, got %d", pos, got)
		}
	}
}

func TestPlayerPointsPlayingTimeThresholds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		minutes int
		want    int
	}{
		{0, 0},
		{1, 1},
		{59, 1},
		{60, 2},
		{90, 2},
	}
	for _, tc := range cases {
		got := PlayerPoints(player.PositionMidfielder, playerstats.FixtureStat{Minutes: tc.minutes})
		if got != tc.want {
			t.Fatalf("minutes=%d: expected %d points, got %d", tc.minutes, tc.want, got)
		}
	}
}

func TestPlayerPointsGoalValuesByPosition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		pos  player.Position
		want int
	}{
		{player.PositionGoalkeeper, 12},
		{player.PositionDefender, 8},
		{player.PositionMidfielder, 7},
		{player.PositionForward, 6},
	}
	for _, tc := range cases {
		got := PlayerPoints(tc.pos, playerstats.FixtureStat{Minutes: 90, Goals: 1})
		if got != tc.want {
			t.Fatalf("position %s: expected %d points, got %d", tc.pos, tc.want, got)
		}
	}
}

func TestPlayerPointsCleanSheetRequiresMinutes(t *testing.T) {
	t.Parallel()

	stat := playerstats.FixtureStat{Minutes: 45, CleanSheet: true}
	if got := PlayerPoints(player.PositionGoalkeeper, stat); got != 1 {
		t.Fatalf("expected 1 point for 45-minute clean sheet, got %d", got)
	}

	stat.Minutes = 60
	if got := PlayerPoints(player.PositionGoalkeeper, stat); got != 6 {
		t.Fatalf("expected 6 points for 60-minute clean sheet, got %d", got)
	}
	if got := PlayerPoints(player.PositionMidfielder, stat); got != 3 {
		t.Fatalf("expected 3 points for midfielder clean sheet, got %d", got)
	}
	if got := PlayerPoints(player.PositionForward, stat); got != 2 {
		t.Fatalf("expected no clean sheet bonus for forward, got %d", got)
	}
}

func TestPlayerPointsNeverNegative(t *testing.T) {
	t.Parallel()

	stat := playerstats.FixtureStat{Minutes: 30, YellowCards: 1, RedCards: 1}
	if got := PlayerPoints(player.PositionMidfielder, stat); got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}
}

func TestPlayerPointsSavesAndConceded(t *testing.T) {
	t.Parallel()

	stat := playerstats.FixtureStat{Minutes: 90, Saves: 7, GoalsConceded: 3}
	// 2 time + 2 saves - 1 conceded
	if got := PlayerPoints(player.PositionGoalkeeper, stat); got != 3 {
		t.Fatalf("expected 3 points, got %d", got)
	}
	// midfielders neither save nor concede
	if got := PlayerPoints(player.PositionMidfielder, stat); got != 2 {
		t.Fatalf("expected 2 points, got %d", got)
	}
}

func TestPlayerPointsScenarios(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		pos  player.Position
		stat playerstats.FixtureStat
		want int
	}{
		{
			name: "forward brace with assist",
			pos:  player.PositionForward,
			stat: playerstats.FixtureStat{Minutes: 90, Goals: 2, Assists: 1},
			want: 13,
		},
		{
			name: "keeper clean sheet with saves",
			pos:  player.PositionGoalkeeper,
			stat: playerstats.FixtureStat{Minutes: 90, CleanSheet: true, Saves: 3},
			want: 7,
		},
		{
			name: "midfielder all-action",
			pos:  player.PositionMidfielder,
			stat: playerstats.FixtureStat{Minutes: 90, Goals: 1, Assists: 1, GoalsConceded: 2, PensSaved: 1},
			want: 14,
		},
	}
	for _, tc := range cases {
		if got := PlayerPoints(tc.pos, tc.stat); got != tc.want {
			t.Fatalf("%s: expected %d points, got %d", tc.name, tc.want, got)
		}
	}
}

func TestLineupPointsBreakdownSumsToTotal(t *testing.T) {
	t.Parallel()

	picks := []Pick{
		{PlayerID: "p1", Position: player.PositionForward, IsCaptain: true},
		{PlayerID: "p2", Position: player.PositionGoalkeeper},
		{PlayerID: "p3", Position: player.PositionDefender},
	}
	stats := map[string]playerstats.FixtureStat{
		"p1": {Minutes: 90, Goals: 2, Assists: 1},
		"p2": {Minutes: 90, CleanSheet: true, Saves: 3},
	}

	result := LineupPoints(picks, stats)

	sum := 0
	for _, pts := range result.Breakdown {
		sum += pts
	}
	if sum != result.Total {
		t.Fatalf("breakdown sums to %d, total is %d", sum, result.Total)
	}
	if result.Breakdown["p1"] != 13 || result.Breakdown["p2"] != 7 {
		t.Fatalf("unexpected breakdown: %v", result.Breakdown)
	}
	if result.Breakdown["p3"] != 0 {
		t.Fatalf("pick without stats should score 0, got %d", result.Breakdown["p3"])
	}
	if result.Total != 20 {
		t.Fatalf("expected total 20, got %d", result.Total)
	}
}

func TestCaptainBoostRoundsHalfUp(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  int
		want int
	}{
		{0, 0},
		{1, 2},
		{2, 3},
		{7, 11},
		{13, 20},
	}
	for _, tc := range cases {
		if got := CaptainBoost(tc.raw); got != tc.want {
			t.Fatalf("raw=%d: expected %d, got %d", tc.raw, tc.want, got)
		}
	}
}
