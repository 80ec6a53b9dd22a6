package memory

import (
	"time"

	"github.com/riskibarqy/fantasy-slates/internal/domain/fixture"
	"github.com/riskibarqy/fantasy-slates/internal/domain/player"
	"github.com/riskibarqy/fantasy-slates/internal/domain/slate"
	"github.com/riskibarqy/fantasy-slates/internal/domain/team"
)

// Seed holds a small self-consistent dataset for local development
// without a database.
type Seed struct {
	Teams    []team.Team
	Players  []player.Player
	Fixtures []fixture.Fixture
	Slates   []slate.Slate
}

func DefaultSeed(now time.Time) Seed {
	kickoff := now.Add(2 * time.Hour).Truncate(time.Minute)

	teams := []team.Team{
		{ID: "team-ars", Name: "Arsenal", Short: "ARS"},
		{ID: "team-liv", Name: "Liverpool", Short: "LIV"},
		{ID: "team-mci", Name: "Manchester City", Short: "MCI"},
		{ID: "team-che", Name: "Chelsea", Short: "CHE"},
	}

	players := make([]player.Player, 0, 24)
	positions := []player.Position{
		player.PositionGoalkeeper,
		player.PositionDefender,
		player.PositionDefender,
		player.PositionMidfielder,
		player.PositionMidfielder,
		player.PositionForward,
	}
	for _, t := range teams {
		for idx, pos := range positions {
			players = append(players, player.Player{
				ID:       t.ID + "-p" + string(rune('1'+idx)),
				TeamID:   t.ID,
				Name:     t.Short + " Player " + string(rune('1'+idx)),
				Position: pos,
				Active:   true,
			})
		}
	}

	fixtures := []fixture.Fixture{
		{
			ID:         "fix-1",
			HomeTeamID: "team-ars",
			AwayTeamID: "team-liv",
			KickoffAt:  kickoff,
			Status:     fixture.StatusNotStarted,
		},
		{
			ID:         "fix-2",
			HomeTeamID: "team-mci",
			AwayTeamID: "team-che",
			KickoffAt:  kickoff.Add(30 * time.Minute),
			Status:     fixture.StatusNotStarted,
		},
	}

	slates := []slate.Slate{
		{
			ID:         "slate-1",
			Name:       "Today's slate",
			Date:       kickoff.Format("2006-01-02"),
			LockAt:     kickoff,
			Status:     slate.StatusOpen,
			FixtureIDs: []string{"fix-1", "fix-2"},
		},
	}

	return Seed{
		Teams:    teams,
		Players:  players,
		Fixtures: fixtures,
		Slates:   slates,
	}
}
