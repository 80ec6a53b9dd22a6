package playerstats

import "context"

type Repository interface {
	ListByFixtures(ctx context.Context, fixtureIDs []string) ([]FixtureStat, error)
	UpsertFixtureStats(ctx context.Context, fixtureID string, stats []FixtureStat) error
}
