package fixture

import (
	"strings"
	"time"
)

const (
	StatusNotStarted = "not-started"
	StatusLive       = "live"
	StatusFinal      = "final"
)

// Fixture represents one scheduled match. Status is mutated by the
// external match feed; the settlement core only reads it.
type Fixture struct {
	ID         string
	HomeTeamID string
	AwayTeamID string
	KickoffAt  time.Time
	Status     string
	HomeScore  *int
	AwayScore  *int
}

func NormalizeStatus(value string) string {
	status := strings.ToLower(strings.TrimSpace(value))
	if status == "" {
		return StatusNotStarted
	}
	return status
}

func IsFinal(status string) bool {
	return NormalizeStatus(status) == StatusFinal
}

// Teams returns both club identifiers of the fixture.
func (f Fixture) Teams() []string {
	return []string{f.HomeTeamID, f.AwayTeamID}
}
