package assign

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"hivemind/internal/app/fault"
	"hivemind/internal/app/jobqueue"
	"hivemind/internal/app/ports"
	"hivemind/internal/domain/colony"
	"hivemind/internal/domain/jobs"
)

var ErrAgentBusy = errors.New("agent already holds a job")

type Config struct {
	// ReserverMinTTL is the reservation TTL at or below which a remote room
	// wants a reserver.
	ReserverMinTTL int
	// SpawningTTL stands in for the remaining lifetime of agents that are not
	// in the world yet.
	SpawningTTL   int
	MilitaryTiers map[int][]colony.Role
}

func DefaultConfig() Config {
	return Config{
		ReserverMinTTL: 1000,
		SpawningTTL:    1600,
		MilitaryTiers:  colony.DefaultMilitaryTiers(),
	}
}

type UseCase struct {
	Jobs  jobqueue.UseCase
	World ports.WorldSnapshot
	cfg   Config
	plans map[colony.Role]rolePlan
}

func NewUseCase(queue jobqueue.UseCase, world ports.WorldSnapshot, cfg Config) UseCase {
	def := DefaultConfig()
	if cfg.ReserverMinTTL <= 0 {
		cfg.ReserverMinTTL = def.ReserverMinTTL
	}
	if cfg.SpawningTTL <= 0 {
		cfg.SpawningTTL = def.SpawningTTL
	}
	if len(cfg.MilitaryTiers) == 0 {
		cfg.MilitaryTiers = def.MilitaryTiers
	}
	return UseCase{Jobs: queue, World: world, cfg: cfg, plans: rolePlans()}
}

// Assign gives a job-less agent the first untaken job its role and options
// allow. It returns false when nothing matches; the agent stays idle. Roles
// without a job plan (defenders) never receive jobs.
func (u UseCase) Assign(ctx context.Context, c *colony.Colony, a *colony.Agent, now uint64) (*jobs.Job, bool, error) {
	if a.Job != nil {
		return nil, false, fmt.Errorf("%w: %s", ErrAgentBusy, a.Name)
	}
	if !a.Role.Valid() {
		return nil, false, fault.Configuration(a.Name, fmt.Errorf("%w: %q", colony.ErrUnknownRole, a.Role))
	}
	plan, ok := u.plans[a.Role]
	if !ok {
		return nil, false, nil
	}
	creep, ok := u.World.Agent(a.Name)
	if !ok || creep.Spawning {
		return nil, false, nil
	}

	for _, category := range plan.categories(creep) {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		candidates, err := u.Jobs.Untaken(c, category, now)
		if err != nil {
			return nil, false, fault.Configuration(a.Name, err)
		}
		var busy map[string]bool
		if plan.ExclusiveSource && category == jobs.CategorySource {
			busy = occupiedSources(c)
		}
		for _, j := range candidates {
			if !plan.roomMatches(a, j) || !Allowed(a.Options, j) {
				continue
			}
			if h, ok := j.Detail.(jobs.HarvestDetail); ok && busy[h.SourceID] {
				continue
			}
			j.Taken = true
			ref := j.Ref()
			a.Job = &ref
			a.Working = false
			if a.Role.IsRemote() && a.TargetRoom == "" && j.Room != a.Home {
				a.TargetRoom = j.Room
			}
			return j, true, nil
		}
	}
	return nil, false, nil
}

// occupiedSources lists sources with at least one taken seat.
func occupiedSources(c *colony.Colony) map[string]bool {
	out := map[string]bool{}
	q, ok := c.Jobs[jobs.CategorySource]
	if !ok {
		return out
	}
	for _, j := range q.Jobs {
		if !j.Taken {
			continue
		}
		if h, ok := j.Detail.(jobs.HarvestDetail); ok {
			out[h.SourceID] = true
		}
	}
	return out
}

// SortByPriority orders agents by role priority, then by name, so that higher
// ranked roles pick jobs first.
func SortByPriority(agents []*colony.Agent) {
	slices.SortStableFunc(agents, func(x, y *colony.Agent) int {
		if d := colony.Priority(x.Role) - colony.Priority(y.Role); d != 0 {
			return d
		}
		return strings.Compare(x.Name, y.Name)
	})
}

// AssignAll runs Assign for every job-less agent in priority order and returns
// the number of assignments made.
func (u UseCase) AssignAll(ctx context.Context, c *colony.Colony, agents []*colony.Agent, now uint64) (int, error) {
	ordered := slices.Clone(agents)
	SortByPriority(ordered)
	n := 0
	for _, a := range ordered {
		if a.Job != nil {
			continue
		}
		_, ok, err := u.Assign(ctx, c, a, now)
		if err != nil {
			return n, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

func creepTTL(w ports.WorldSnapshot, name string, spawning int) int {
	creep, ok := w.Agent(name)
	if !ok || creep.Spawning || creep.TicksToLive <= 0 {
		return spawning
	}
	return creep.TicksToLive
}
