package ports

import (
	"context"
	"errors"

	"hivemind/internal/domain/colony"
	"hivemind/internal/domain/jobs"
	"hivemind/internal/domain/world"
)

var ErrNotInRange = errors.New("target not in range")

type MoveOptions struct {
	Range           int
	ReusePath       int
	HeuristicWeight float64
}

type WorkStatus int

const (
	WorkOngoing WorkStatus = iota
	WorkDone
	WorkInvalid
)

type CombatAction string

const (
	CombatAttack       CombatAction = "attack"
	CombatRangedAttack CombatAction = "rangedAttack"
	CombatHeal         CombatAction = "heal"
)

// Actuator executes the per-tick primitives of an agent. Path finding and the
// low-level effect of work belong to the implementation.
type Actuator interface {
	MoveToward(ctx context.Context, agent string, target world.Position, opts MoveOptions) error
	PerformWork(ctx context.Context, agent string, job jobs.Job) (WorkStatus, error)
	Engage(ctx context.Context, agent string, targetID string, action CombatAction) error
}

type SpawnRequest struct {
	Colony string
	Name   string
	Role   colony.Role
	Tier   colony.Tier
	Memory colony.Agent
}

type Spawner interface {
	Spawn(ctx context.Context, req SpawnRequest) error
}

// MarkerRemover removes markers the controller has finished with.
type MarkerRemover interface {
	RemoveMarker(ctx context.Context, name string) error
}
