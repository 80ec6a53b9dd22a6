package fixture

import "context"

// Repository exposes fixture read operations.
type Repository interface {
	GetByIDs(ctx context.Context, fixtureIDs []string) ([]Fixture, error)
	List(ctx context.Context) ([]Fixture, error)
	UpsertResult(ctx context.Context, fixtureID, status string, homeScore, awayScore *int) error
}
