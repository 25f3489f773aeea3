package colony

import "hivemind/internal/domain/world"

// Capabilities gates which jobs an agent may take. Everything defaults to false.
type Capabilities struct {
	HarvestSources   bool `json:"harvest_sources,omitempty"`
	Build            bool `json:"build,omitempty"`
	Upgrade          bool `json:"upgrade,omitempty"`
	Repair           bool `json:"repair,omitempty"`
	WallRepair       bool `json:"wall_repair,omitempty"`
	FillSpawn        bool `json:"fill_spawn,omitempty"`
	FillTower        bool `json:"fill_tower,omitempty"`
	FillStorage      bool `json:"fill_storage,omitempty"`
	FillContainer    bool `json:"fill_container,omitempty"`
	FillLink         bool `json:"fill_link,omitempty"`
	FillTerminal     bool `json:"fill_terminal,omitempty"`
	FillLab          bool `json:"fill_lab,omitempty"`
	GetFromStorage   bool `json:"get_from_storage,omitempty"`
	GetFromContainer bool `json:"get_from_container,omitempty"`
	GetDroppedEnergy bool `json:"get_dropped_energy,omitempty"`
	GetFromTerminal  bool `json:"get_from_terminal,omitempty"`
	GetFromLink      bool `json:"get_from_link,omitempty"`
	Claim            bool `json:"claim,omitempty"`

	Attacker bool `json:"attacker,omitempty"`
	Healer   bool `json:"healer,omitempty"`
	Defender bool `json:"defender,omitempty"`
	Flee     bool `json:"flee,omitempty"`
}

// Squad carries the coordination state of a military agent.
type Squad struct {
	Size      int             `json:"size"`
	UUID      string          `json:"uuid,omitempty"`
	Rally     *world.Position `json:"rally,omitempty"`
	RallyDone bool            `json:"rally_done"`
}

type capabilityRow func(OperatingState) Capabilities

var capabilityTable = map[Role]capabilityRow{
	RoleMiner:            minerCapabilities,
	RoleHarvester:        harvesterCapabilities,
	RoleWorker:           workerCapabilities,
	RolePowerUpgrader:    powerUpgraderCapabilities,
	RoleLorry:            lorryCapabilities,
	RoleRemoteMiner:      constant(Capabilities{HarvestSources: true, Build: true, Repair: true, FillContainer: true}),
	RoleRemoteHarvester:  constant(Capabilities{Build: true, Repair: true, WallRepair: true, FillTower: true, FillStorage: true, FillTerminal: true, FillLink: true, GetFromContainer: true, GetDroppedEnergy: true}),
	RoleRemoteReserver:   constant(Capabilities{Claim: true}),
	RoleClaimer:          constant(Capabilities{Claim: true}),
	RoleRemoteColonizer:  constant(Capabilities{HarvestSources: true, Build: true, Upgrade: true, Repair: true, WallRepair: true, GetFromContainer: true, GetDroppedEnergy: true}),
	RoleRemoteDefender:   constant(Capabilities{Healer: true, Defender: true}),
	RoleZealot:           constant(Capabilities{Attacker: true}),
	RoleStalker:          constant(Capabilities{Attacker: true}),
	RoleMedic:            constant(Capabilities{Healer: true, Flee: true}),
	RoleDomesticDefender: constant(Capabilities{Defender: true}),
}

// CapabilitiesFor is the declarative (role, state) table. ok is false for roles
// without a row.
func CapabilitiesFor(role Role, state OperatingState) (Capabilities, bool) {
	row, ok := capabilityTable[role]
	if !ok {
		return Capabilities{}, false
	}
	return row(state), true
}

func constant(c Capabilities) capabilityRow {
	return func(OperatingState) Capabilities { return c }
}

func minerCapabilities(OperatingState) Capabilities {
	return Capabilities{HarvestSources: true, FillContainer: true}
}

func harvesterCapabilities(s OperatingState) Capabilities {
	switch s {
	case StateIntro:
		return Capabilities{HarvestSources: true, FillSpawn: true, GetDroppedEnergy: true}
	case StateBeginner:
		return Capabilities{HarvestSources: true, Build: true, Upgrade: true, FillSpawn: true, GetDroppedEnergy: true}
	case StateIntermediate:
		return Capabilities{Build: true, Upgrade: true, Repair: true, FillSpawn: true, GetFromContainer: true, GetDroppedEnergy: true}
	case StateAdvanced:
		return Capabilities{FillStorage: true, FillSpawn: true, GetFromStorage: true, GetFromContainer: true, GetDroppedEnergy: true, GetFromTerminal: true}
	default:
		return Capabilities{Repair: true, FillStorage: true, FillSpawn: true, GetFromStorage: true, GetDroppedEnergy: true, GetFromTerminal: true}
	}
}

func workerCapabilities(s OperatingState) Capabilities {
	base := Capabilities{Build: true, Upgrade: true, Repair: true, WallRepair: true, FillTower: true, GetDroppedEnergy: true}
	switch s {
	case StateIntro, StateBeginner:
		base.HarvestSources = true
	case StateIntermediate:
		base.GetFromContainer = true
	case StateAdvanced:
		base.GetFromStorage = true
		base.GetFromTerminal = true
	default:
		base.GetFromStorage = true
		base.GetFromTerminal = true
		base.FillStorage = true
		base.FillLink = true
	}
	return base
}

func powerUpgraderCapabilities(s OperatingState) Capabilities {
	switch s {
	case StateUpgrader, StateStimulate, StateNukeInbound, StateSiege:
		return Capabilities{Upgrade: true, GetFromLink: true}
	}
	return Capabilities{}
}

func lorryCapabilities(OperatingState) Capabilities {
	return Capabilities{
		FillTower: true, FillStorage: true, FillContainer: true, FillLink: true, FillTerminal: true, FillLab: true,
		GetFromStorage: true, GetFromContainer: true, GetDroppedEnergy: true, GetFromTerminal: true,
	}
}
