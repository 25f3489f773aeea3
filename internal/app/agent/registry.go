package agent

import (
	"context"

	"hivemind/internal/domain/colony"
	"hivemind/internal/domain/world"
)

type Phase int

const (
	PhaseSpawning Phase = iota
	PhaseIdle
	PhaseTraveling
	PhaseWorking
)

func (p Phase) String() string {
	switch p {
	case PhaseSpawning:
		return "spawning"
	case PhaseIdle:
		return "idle"
	case PhaseTraveling:
		return "traveling"
	case PhaseWorking:
		return "working"
	}
	return "unknown"
}

// TickContext carries one agent through one tick.
type TickContext struct {
	Colony *colony.Colony
	Agent  *colony.Agent
	Creep  world.Creep
	Tick   uint64
	// Squad holds the records of the agent's squad mates, itself included.
	Squad   []*colony.Agent
	Outcome Outcome
}

type Handler interface {
	// Acquire finds work for an agent without any. It reports false when the
	// agent should stay idle this tick.
	Acquire(ctx context.Context, uc UseCase, tc *TickContext) (bool, error)
	Act(ctx context.Context, uc UseCase, tc *TickContext) error
}

type RoleSpec struct {
	Role    colony.Role
	Handler Handler
}

// BaseHandler runs the job loop: assign, travel, work, complete.
type BaseHandler struct{}

func (BaseHandler) Acquire(ctx context.Context, uc UseCase, tc *TickContext) (bool, error) {
	return uc.acquireJob(ctx, tc)
}

func (BaseHandler) Act(ctx context.Context, uc UseCase, tc *TickContext) error {
	return uc.workJob(ctx, tc, jobComplete)
}

// minerHandler keeps its seat for life: a full miner drops energy into the
// container and goes on harvesting.
type minerHandler struct{ BaseHandler }

func (minerHandler) Act(ctx context.Context, uc UseCase, tc *TickContext) error {
	return uc.workJob(ctx, tc, seatComplete)
}

func defaultRegistry() map[colony.Role]RoleSpec {
	specs := []RoleSpec{
		{Role: colony.RoleMiner, Handler: minerHandler{}},
		{Role: colony.RoleRemoteMiner, Handler: minerHandler{}},
		{Role: colony.RoleHarvester, Handler: BaseHandler{}},
		{Role: colony.RoleWorker, Handler: BaseHandler{}},
		{Role: colony.RolePowerUpgrader, Handler: BaseHandler{}},
		{Role: colony.RoleLorry, Handler: BaseHandler{}},
		{Role: colony.RoleRemoteHarvester, Handler: BaseHandler{}},
		{Role: colony.RoleRemoteColonizer, Handler: BaseHandler{}},
		{Role: colony.RoleClaimer, Handler: BaseHandler{}},
		{Role: colony.RoleRemoteReserver, Handler: BaseHandler{}},
		{Role: colony.RoleZealot, Handler: militaryHandler{action: attackMelee}},
		{Role: colony.RoleStalker, Handler: militaryHandler{action: attackRanged}},
		{Role: colony.RoleMedic, Handler: militaryHandler{action: healFriends}},
		{Role: colony.RoleDomesticDefender, Handler: militaryHandler{action: attackMelee}},
		{Role: colony.RoleRemoteDefender, Handler: militaryHandler{action: attackRanged}},
	}
	out := make(map[colony.Role]RoleSpec, len(specs))
	for _, s := range specs {
		out[s.Role] = s
	}
	return out
}
