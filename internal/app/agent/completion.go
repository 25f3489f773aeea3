package agent

import (
	"hivemind/internal/app/ports"
	"hivemind/internal/domain/jobs"
	"hivemind/internal/domain/world"
)

// targetExists reports whether the entity a job points at is still observed.
// Room level jobs target a room and always exist.
func targetExists(w ports.WorldSnapshot, j *jobs.Job) bool {
	switch j.Detail.(type) {
	case jobs.HarvestDetail:
		for _, s := range w.Sources(j.Room) {
			if s.ID == j.TargetID {
				return true
			}
		}
		return false
	case jobs.PickupDetail:
		for _, d := range w.DroppedResources(j.Room) {
			if d.ID == j.TargetID {
				return true
			}
		}
		return false
	case jobs.BuildDetail:
		for _, s := range w.ConstructionSites(j.Room) {
			if s.ID == j.TargetID {
				return true
			}
		}
		return false
	case jobs.WithdrawDetail, jobs.RepairDetail, jobs.FillDetail:
		_, ok := structureByID(w, j.Room, j.TargetID)
		return ok
	case jobs.UpgradeDetail:
		info, ok := w.Room(j.Room)
		return ok && info.Controller != nil && info.Controller.ID == j.TargetID
	case jobs.ControllerDetail, jobs.AttackDetail:
		return true
	}
	return false
}

func structureByID(w ports.WorldSnapshot, room, id string) (world.Structure, bool) {
	found := w.Structures(room, func(s world.Structure) bool { return s.ID == id })
	if len(found) == 0 {
		return world.Structure{}, false
	}
	return found[0], true
}

// jobComplete is the completion rule of the job loop.
func jobComplete(w ports.WorldSnapshot, cfg Config, j *jobs.Job, creep world.Creep) bool {
	switch j.Category {
	case jobs.CategorySource, jobs.CategoryContainer, jobs.CategoryLink, jobs.CategoryBackup, jobs.CategoryPickup:
		return creep.IsFull()
	case jobs.CategoryFill, jobs.CategoryStore:
		if creep.IsEmpty() {
			return true
		}
		s, ok := structureByID(w, j.Room, j.TargetID)
		return ok && s.EnergyCapacity > 0 && s.FreeCapacity() <= 0
	case jobs.CategoryBuild, jobs.CategoryUpgrade:
		return creep.IsEmpty()
	case jobs.CategoryRepair, jobs.CategoryWallRepair:
		if creep.IsEmpty() {
			return true
		}
		s, ok := structureByID(w, j.Room, j.TargetID)
		if !ok {
			return false
		}
		if d, isRepair := j.Detail.(jobs.RepairDetail); isRepair && d.HitsGoal > 0 {
			return s.Hits >= d.HitsGoal
		}
		return s.Hits >= s.HitsMax
	case jobs.CategoryClaim:
		info, ok := w.Room(j.Room)
		return ok && info.Controller != nil && info.Controller.My
	case jobs.CategorySign:
		info, ok := w.Room(j.Room)
		return ok && info.Controller != nil && cfg.Username != "" && info.Controller.SignedBy == cfg.Username
	}
	return false
}

// seatComplete never ends a source seat; it only ends when the source vanishes.
func seatComplete(w ports.WorldSnapshot, cfg Config, j *jobs.Job, creep world.Creep) bool {
	if j.Category != jobs.CategorySource {
		return jobComplete(w, cfg, j, creep)
	}
	return false
}

func cacheKindOf(c jobs.Category) (ports.CacheKind, bool) {
	switch c {
	case jobs.CategoryBuild:
		return ports.CacheConstruction, true
	case jobs.CategoryPickup:
		return ports.CacheDropped, true
	case jobs.CategoryAttack:
		return ports.CacheHostile, true
	case jobs.CategoryContainer, jobs.CategoryLink, jobs.CategoryBackup,
		jobs.CategoryRepair, jobs.CategoryWallRepair, jobs.CategoryFill, jobs.CategoryStore:
		return ports.CacheStructures, true
	}
	return "", false
}
