package assign

import (
	"hivemind/internal/domain/colony"
	"hivemind/internal/domain/jobs"
	"hivemind/internal/domain/world"
)

// rolePlan lists the job categories a role looks at, in preference order. Energy
// categories are used while the agent is empty, Work categories once it carries
// energy. Roles with only one list always use it.
type rolePlan struct {
	Energy []jobs.Category
	Work   []jobs.Category
	// DeliverHome sends fill and store work to the home room.
	DeliverHome bool
	// ExclusiveSource keeps a second agent of the role off an occupied source.
	ExclusiveSource bool
}

var (
	gatherOrder = []jobs.Category{jobs.CategoryPickup, jobs.CategoryLink, jobs.CategoryContainer, jobs.CategoryBackup, jobs.CategorySource}
	haulOrder   = []jobs.Category{jobs.CategoryContainer, jobs.CategoryPickup, jobs.CategoryBackup}
)

func rolePlans() map[colony.Role]rolePlan {
	return map[colony.Role]rolePlan{
		colony.RoleMiner:           {Energy: []jobs.Category{jobs.CategorySource}, ExclusiveSource: true},
		colony.RoleRemoteMiner:     {Energy: []jobs.Category{jobs.CategorySource}, ExclusiveSource: true},
		colony.RoleHarvester:       {Energy: gatherOrder, Work: []jobs.Category{jobs.CategoryFill, jobs.CategoryStore, jobs.CategoryBuild, jobs.CategoryUpgrade, jobs.CategoryRepair}},
		colony.RoleWorker:          {Energy: gatherOrder, Work: []jobs.Category{jobs.CategoryFill, jobs.CategoryBuild, jobs.CategoryRepair, jobs.CategoryWallRepair, jobs.CategoryUpgrade, jobs.CategoryStore}},
		colony.RolePowerUpgrader:   {Energy: []jobs.Category{jobs.CategoryLink, jobs.CategoryBackup}, Work: []jobs.Category{jobs.CategoryUpgrade}},
		colony.RoleLorry:           {Energy: haulOrder, Work: []jobs.Category{jobs.CategoryFill, jobs.CategoryStore}},
		colony.RoleRemoteHarvester: {Energy: []jobs.Category{jobs.CategoryContainer, jobs.CategoryPickup}, Work: []jobs.Category{jobs.CategoryStore, jobs.CategoryFill, jobs.CategoryBuild, jobs.CategoryRepair}, DeliverHome: true},
		colony.RoleRemoteColonizer: {Energy: gatherOrder, Work: []jobs.Category{jobs.CategoryBuild, jobs.CategoryUpgrade, jobs.CategoryRepair, jobs.CategoryWallRepair}},
		colony.RoleClaimer:         {Work: []jobs.Category{jobs.CategoryClaim, jobs.CategorySign}},
		colony.RoleRemoteReserver:  {Work: []jobs.Category{jobs.CategoryReserve, jobs.CategorySign}},
		colony.RoleZealot:          {Work: []jobs.Category{jobs.CategoryAttack}},
		colony.RoleStalker:         {Work: []jobs.Category{jobs.CategoryAttack}},
		colony.RoleMedic:           {Work: []jobs.Category{jobs.CategoryAttack}},
	}
}

func (p rolePlan) categories(creep world.Creep) []jobs.Category {
	switch {
	case len(p.Work) == 0:
		return p.Energy
	case len(p.Energy) == 0:
		return p.Work
	case creep.IsEmpty():
		return p.Energy
	default:
		return p.Work
	}
}

func (p rolePlan) roomMatches(a *colony.Agent, j *jobs.Job) bool {
	switch j.Category {
	case jobs.CategoryFill, jobs.CategoryStore:
		if p.DeliverHome {
			return j.Room == a.Home
		}
	case jobs.CategoryClaim, jobs.CategoryReserve, jobs.CategorySign:
		return a.TargetRoom == "" || j.Room == a.TargetRoom
	case jobs.CategoryAttack:
		// attack jobs belong to the squad of their marker, wherever it is
		d, ok := j.Detail.(jobs.AttackDetail)
		return ok && a.Squad != nil && a.Squad.UUID != "" && d.SquadUUID == a.Squad.UUID
	}
	return j.Room == a.WorkRoom()
}

// Allowed reports whether the capabilities permit the job. Every job detail
// variant is listed.
func Allowed(opts colony.Capabilities, j *jobs.Job) bool {
	switch d := j.Detail.(type) {
	case jobs.HarvestDetail:
		return opts.HarvestSources
	case jobs.WithdrawDetail:
		switch d.StructureType {
		case world.StructureContainer:
			return opts.GetFromContainer
		case world.StructureLink:
			return opts.GetFromLink
		case world.StructureStorage:
			return opts.GetFromStorage
		case world.StructureTerminal:
			return opts.GetFromTerminal
		}
		return false
	case jobs.PickupDetail:
		return opts.GetDroppedEnergy
	case jobs.BuildDetail:
		return opts.Build
	case jobs.RepairDetail:
		if j.Category == jobs.CategoryWallRepair {
			return opts.WallRepair
		}
		return opts.Repair
	case jobs.UpgradeDetail:
		return opts.Upgrade
	case jobs.FillDetail:
		switch d.StructureType {
		case world.StructureSpawn, world.StructureExtension:
			return opts.FillSpawn
		case world.StructureTower:
			return opts.FillTower
		case world.StructureLab:
			return opts.FillLab
		case world.StructureStorage:
			return opts.FillStorage
		case world.StructureTerminal:
			return opts.FillTerminal
		case world.StructureLink:
			return opts.FillLink
		case world.StructureContainer:
			return opts.FillContainer
		}
		return false
	case jobs.ControllerDetail:
		return opts.Claim
	case jobs.AttackDetail:
		return opts.Attacker || opts.Healer
	}
	return false
}
