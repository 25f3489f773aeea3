package spawn

import (
	"context"
	"fmt"
	"strconv"

	"hivemind/internal/app/assign"
	"hivemind/internal/app/ports"
	"hivemind/internal/domain/colony"
)

type Source string

const (
	SourceDomestic Source = "domestic"
	SourceRemote   Source = "remote"
	SourceMilitary Source = "military"
)

// Limits caps live agents per role in each operating state. Miner limits are
// per source.
type Limits map[colony.OperatingState]map[colony.Role]int

func DefaultLimits() Limits {
	steady := map[colony.Role]int{colony.RoleMiner: 1, colony.RoleHarvester: 2, colony.RoleWorker: 2}
	upgrading := map[colony.Role]int{colony.RoleMiner: 1, colony.RoleHarvester: 1, colony.RoleWorker: 1, colony.RolePowerUpgrader: 1, colony.RoleLorry: 1}
	return Limits{
		colony.StateIntro:        {colony.RoleHarvester: 3, colony.RoleWorker: 1},
		colony.StateBeginner:     {colony.RoleMiner: 1, colony.RoleHarvester: 2, colony.RoleWorker: 3},
		colony.StateIntermediate: steady,
		colony.StateAdvanced:     {colony.RoleMiner: 1, colony.RoleHarvester: 2, colony.RoleWorker: 2, colony.RoleLorry: 1},
		colony.StateUpgrader:     upgrading,
		colony.StateStimulate:    {colony.RoleMiner: 1, colony.RoleHarvester: 1, colony.RoleWorker: 1, colony.RolePowerUpgrader: 3, colony.RoleLorry: 1},
		colony.StateSiege:        {colony.RoleMiner: 1, colony.RoleHarvester: 2, colony.RoleWorker: 3},
		colony.StateNukeInbound:  steady,
	}
}

type Config struct {
	Limits Limits
	// DefenderDefcon is the colony defcon at which a domestic defender is queued.
	DefenderDefcon int
	DefenderLimit  int
}

func DefaultConfig() Config {
	return Config{Limits: DefaultLimits(), DefenderDefcon: 2, DefenderLimit: 1}
}

type Request struct {
	ports.SpawnRequest
	Source Source
	// Marker is the attack marker a squad member is spawned for.
	Marker string
}

type UseCase struct {
	Assign assign.UseCase
	World  ports.WorldSnapshot
	cfg    Config
}

func NewUseCase(assigner assign.UseCase, world ports.WorldSnapshot, cfg Config) UseCase {
	def := DefaultConfig()
	if len(cfg.Limits) == 0 {
		cfg.Limits = def.Limits
	}
	if cfg.DefenderDefcon <= 0 {
		cfg.DefenderDefcon = def.DefenderDefcon
	}
	if cfg.DefenderLimit <= 0 {
		cfg.DefenderLimit = def.DefenderLimit
	}
	return UseCase{Assign: assigner, World: world, cfg: cfg}
}

// Next decides the one agent the colony should spawn this tick. Domestic roles
// come first in priority order, then dependent room roles, then the military
// queue. Under siege the military queue goes first.
func (u UseCase) Next(ctx context.Context, c *colony.Colony, agents []*colony.Agent, tick uint64) (Request, bool) {
	tier := colony.Tier1
	if info, ok := u.World.Room(c.Name); ok {
		tier = colony.TierFor(info.EnergyCapacity)
	}
	u.queueDefenders(c, agents)

	steps := []func() (Request, bool){
		func() (Request, bool) { return u.nextDomestic(c, agents, tier) },
		func() (Request, bool) { return u.nextRemote(ctx, c, agents, tier) },
		func() (Request, bool) { return u.nextMilitary(c, tier) },
	}
	if c.State == colony.StateSiege {
		steps = []func() (Request, bool){steps[2], steps[0]}
	}
	for _, step := range steps {
		if req, ok := step(); ok {
			req.Name = uniqueName(req.Role, tier, c.Name, tick, agents)
			req.Memory.Name = req.Name
			req.Memory.SpawnedTick = tick
			return req, true
		}
	}
	return Request{}, false
}

func (u UseCase) nextDomestic(c *colony.Colony, agents []*colony.Agent, tier colony.Tier) (Request, bool) {
	limits := u.cfg.Limits[c.State]
	sources := len(u.World.Sources(c.Name))
	for _, role := range colony.DomesticPriority {
		limit := limits[role]
		if role == colony.RoleMiner {
			limit *= sources
		}
		if countRole(agents, role) < limit {
			return u.request(c, role, tier, "", SourceDomestic), true
		}
	}
	return Request{}, false
}

func (u UseCase) nextRemote(ctx context.Context, c *colony.Colony, agents []*colony.Agent, tier colony.Tier) (Request, bool) {
	if c.State == colony.StateIntro || c.State.IsEmergency() {
		return Request{}, false
	}
	roles := append(append([]colony.Role{}, colony.RemotePriority...), colony.RoleClaimer)
	for _, role := range roles {
		room, ok := u.Assign.AssignDependentRoom(ctx, c, role, colony.BodySize(role, tier), agents)
		if !ok {
			continue
		}
		return u.request(c, role, tier, room, SourceRemote), true
	}
	return Request{}, false
}

func (u UseCase) nextMilitary(c *colony.Colony, tier colony.Tier) (Request, bool) {
	for t := 1; t <= tier.MilitaryTier(); t++ {
		role, ok := u.Assign.SpawnMiliQueue(c, t)
		if !ok {
			continue
		}
		req := u.request(c, role, tier, "", SourceMilitary)
		var marker *colony.AttackMarker
		if role != colony.RoleDomesticDefender {
			if room, m, ok := c.ActiveAttackMarker(); ok {
				marker = m
				req.Memory.TargetRoom = room.RoomName
				req.Marker = m.FlagName
			}
		}
		req.Memory.Squad = colony.MilitaryOptions(role, marker)
		return req, true
	}
	return Request{}, false
}

func (u UseCase) request(c *colony.Colony, role colony.Role, tier colony.Tier, target string, src Source) Request {
	opts, _ := colony.CapabilitiesFor(role, c.State)
	return Request{
		SpawnRequest: ports.SpawnRequest{
			Colony: c.Name,
			Role:   role,
			Tier:   tier,
			Memory: colony.Agent{Role: role, Home: c.Name, TargetRoom: target, Options: opts, Tier: tier},
		},
		Source: src,
	}
}

// queueDefenders keeps a domestic defender queued while the colony is under
// threat.
func (u UseCase) queueDefenders(c *colony.Colony, agents []*colony.Agent) {
	if c.Defcon < u.cfg.DefenderDefcon {
		return
	}
	have := countRole(agents, colony.RoleDomesticDefender)
	for _, r := range c.MilitaryQueue {
		if r == colony.RoleDomesticDefender {
			have++
		}
	}
	for ; have < u.cfg.DefenderLimit; have++ {
		assign.QueueMilitary(c, colony.RoleDomesticDefender)
	}
}

// Commit records an accepted spawn on the colony and returns the new agent.
func (u UseCase) Commit(c *colony.Colony, req Request) *colony.Agent {
	if req.Source == SourceMilitary {
		assign.PopMilitary(c, req.Role)
		if _, m, ok := c.ActiveAttackMarker(); ok && m.FlagName == req.Marker {
			m.Spawned++
		}
	}
	a := req.Memory
	return &a
}

func countRole(agents []*colony.Agent, role colony.Role) int {
	n := 0
	for _, a := range agents {
		if a.Role == role {
			n++
		}
	}
	return n
}

// uniqueName builds role_tier_room_NNNN from the last four digits of the tick
// and appends a counter when the name is taken.
func uniqueName(role colony.Role, tier colony.Tier, room string, tick uint64, agents []*colony.Agent) string {
	digits := strconv.FormatUint(tick, 10)
	if len(digits) > 4 {
		digits = digits[len(digits)-4:]
	}
	base := fmt.Sprintf("%s_%d_%s_%s", role, tier, room, digits)
	taken := make(map[string]bool, len(agents))
	for _, a := range agents {
		taken[a.Name] = true
	}
	name := base
	for i := 1; taken[name]; i++ {
		name = fmt.Sprintf("%s_%d", base, i)
	}
	return name
}
