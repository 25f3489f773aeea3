package classify

import (
	"slices"

	"hivemind/internal/app/ports"
	"hivemind/internal/domain/colony"
	"hivemind/internal/domain/world"
)

type Config struct {
	IntroMaxAgents    int
	SiegeDefcon       int
	SiegeSustainTicks int
	DefconHeavyParts  int
	Allies            []string
}

func DefaultConfig() Config {
	return Config{
		IntroMaxAgents:    3,
		SiegeDefcon:       3,
		SiegeSustainTicks: 10,
		DefconHeavyParts:  10,
	}
}

type UseCase struct {
	World ports.WorldSnapshot
	cfg   Config
}

func NewUseCase(world ports.WorldSnapshot, cfg Config) UseCase {
	def := DefaultConfig()
	if cfg.IntroMaxAgents <= 0 {
		cfg.IntroMaxAgents = def.IntroMaxAgents
	}
	if cfg.SiegeDefcon <= 0 {
		cfg.SiegeDefcon = def.SiegeDefcon
	}
	if cfg.SiegeSustainTicks <= 0 {
		cfg.SiegeSustainTicks = def.SiegeSustainTicks
	}
	if cfg.DefconHeavyParts <= 0 {
		cfg.DefconHeavyParts = def.DefconHeavyParts
	}
	return UseCase{World: world, cfg: cfg}
}

// Infrastructure is what the classifier observed about a colony room.
type Infrastructure struct {
	ContainerMining bool
	Storage         bool
	Links           int
	Nukes           int
	Hostiles        int
}

// Classify recomputes the colony's defcon and operating state and writes both
// into the record. agentCount is the number of live agents homed at the colony.
func (u UseCase) Classify(c *colony.Colony, agentCount int) colony.OperatingState {
	infra := u.Observe(c.Name)
	hostiles := u.Hostiles(c.Name)
	c.Defcon = Defcon(hostiles, u.cfg.DefconHeavyParts)
	if len(hostiles) > 0 {
		c.HostileTicks++
	} else {
		c.HostileTicks = 0
	}
	c.State = u.decide(c, infra, agentCount)
	return c.State
}

func (u UseCase) decide(c *colony.Colony, infra Infrastructure, agentCount int) colony.OperatingState {
	switch {
	case infra.Nukes > 0:
		return colony.StateNukeInbound
	case c.Defcon >= u.cfg.SiegeDefcon && c.HostileTicks >= u.cfg.SiegeSustainTicks:
		return colony.StateSiege
	case agentCount <= u.cfg.IntroMaxAgents:
		return colony.StateIntro
	case c.Stimulate && infra.ContainerMining && infra.Storage:
		return colony.StateStimulate
	case infra.ContainerMining && infra.Storage && infra.Links >= 2:
		return colony.StateUpgrader
	case infra.ContainerMining && infra.Storage:
		return colony.StateAdvanced
	case infra.ContainerMining:
		return colony.StateIntermediate
	default:
		return colony.StateBeginner
	}
}

func (u UseCase) Observe(room string) Infrastructure {
	var infra Infrastructure
	if info, ok := u.World.Room(room); ok {
		infra.Nukes = len(info.Nukes)
	}
	structures := u.World.Structures(room, nil)
	var containers []world.Structure
	for _, s := range structures {
		switch s.Type {
		case world.StructureContainer:
			containers = append(containers, s)
		case world.StructureStorage:
			infra.Storage = true
		case world.StructureLink:
			infra.Links++
		}
	}
	infra.ContainerMining = ContainerMining(u.World.Sources(room), containers)
	infra.Hostiles = len(u.Hostiles(room))
	return infra
}

// Hostiles returns hostile agents in the room that are not on the ally list.
func (u UseCase) Hostiles(room string) []world.Creep {
	all := u.World.HostileAgents(room)
	out := make([]world.Creep, 0, len(all))
	for _, h := range all {
		if slices.Contains(u.cfg.Allies, h.Owner) {
			continue
		}
		out = append(out, h)
	}
	return out
}

// RoomDefcon grades the non-allied hostiles of any room, owned or not.
func (u UseCase) RoomDefcon(room string) int {
	return Defcon(u.Hostiles(room), u.cfg.DefconHeavyParts)
}

// ContainerMining is true when every source has a container next to it.
func ContainerMining(sources []world.Source, containers []world.Structure) bool {
	if len(sources) == 0 {
		return false
	}
	for _, s := range sources {
		if _, ok := ContainerNear(s.Pos, containers); !ok {
			return false
		}
	}
	return true
}

func ContainerNear(p world.Position, containers []world.Structure) (world.Structure, bool) {
	for _, c := range containers {
		if c.Type == world.StructureContainer && c.Pos.InRange(p, 1) {
			return c, true
		}
	}
	return world.Structure{}, false
}

// Defcon grades a hostile presence: 0 none, 1 unarmed, 2 armed, 3 heavy.
func Defcon(hostiles []world.Creep, heavyParts int) int {
	if len(hostiles) == 0 {
		return 0
	}
	combat := 0
	for _, h := range hostiles {
		combat += h.CombatParts()
	}
	switch {
	case combat == 0:
		return 1
	case combat >= heavyParts:
		return 3
	default:
		return 2
	}
}
