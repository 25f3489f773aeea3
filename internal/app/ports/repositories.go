package ports

import (
	"context"

	"hivemind/internal/domain/colony"
)

// ColonyRepository persists colony records keyed by colony name. Save uses the
// record version for optimistic concurrency: expectedVersion 0 creates.
type ColonyRepository interface {
	Get(ctx context.Context, name string) (*colony.Colony, error)
	List(ctx context.Context) ([]*colony.Colony, error)
	SaveWithVersion(ctx context.Context, c *colony.Colony, expectedVersion int64) error
}

type AgentRepository interface {
	Get(ctx context.Context, name string) (*colony.Agent, error)
	ListByColony(ctx context.Context, colonyName string) ([]*colony.Agent, error)
	SaveWithVersion(ctx context.Context, a *colony.Agent, expectedVersion int64) error
	Delete(ctx context.Context, name string) error
}

type MarkerRepository interface {
	Get(ctx context.Context, name string) (colony.MarkerMemory, error)
	List(ctx context.Context) ([]colony.MarkerMemory, error)
	Save(ctx context.Context, m colony.MarkerMemory) error
	Delete(ctx context.Context, name string) error
}
