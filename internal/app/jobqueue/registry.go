package jobqueue

import (
	"fmt"
	"sort"
	"strings"

	"hivemind/internal/app/ports"
	"hivemind/internal/domain/colony"
	"hivemind/internal/domain/jobs"
	"hivemind/internal/domain/world"
)

type scanContext struct {
	world  ports.WorldSnapshot
	cfg    Config
	colony *colony.Colony
}

type categorySpec struct {
	Rooms     func(c *colony.Colony) []string
	Scan      func(sc scanContext, room string) []jobs.Job
	Signature func(sc scanContext, rooms []string) string
}

func categoryRegistry() map[jobs.Category]categorySpec {
	return map[jobs.Category]categorySpec{
		jobs.CategorySource:     {Rooms: homeAndRemote, Scan: scanSources, Signature: sourceSignature},
		jobs.CategoryContainer:  {Rooms: homeAndRemote, Scan: scanWithdraw(world.StructureContainer)},
		jobs.CategoryLink:       {Rooms: homeOnly, Scan: scanWithdraw(world.StructureLink)},
		jobs.CategoryBackup:     {Rooms: homeOnly, Scan: scanWithdraw(world.StructureStorage, world.StructureTerminal)},
		jobs.CategoryPickup:     {Rooms: homeAndRemote, Scan: scanPickup},
		jobs.CategoryClaim:      {Rooms: claimRooms, Scan: scanController(jobs.ControllerClaim)},
		jobs.CategoryReserve:    {Rooms: remoteRooms, Scan: scanController(jobs.ControllerReserve)},
		jobs.CategorySign:       {Rooms: claimAndRemote, Scan: scanController(jobs.ControllerSign)},
		jobs.CategoryAttack:     {Rooms: attackRooms, Scan: scanAttack},
		jobs.CategoryRepair:     {Rooms: homeAndRemote, Scan: scanRepair},
		jobs.CategoryWallRepair: {Rooms: homeOnly, Scan: scanWallRepair},
		jobs.CategoryBuild:      {Rooms: homeAndRemote, Scan: scanBuild},
		jobs.CategoryUpgrade:    {Rooms: homeAndClaim, Scan: scanUpgrade, Signature: controllerSignature},
		jobs.CategoryFill:       {Rooms: homeOnly, Scan: scanFill},
		jobs.CategoryStore:      {Rooms: homeOnly, Scan: scanStore},
	}
}

func homeOnly(c *colony.Colony) []string { return []string{c.Name} }

func homeAndRemote(c *colony.Colony) []string {
	out := []string{c.Name}
	for _, r := range c.RemoteRooms {
		out = append(out, r.RoomName)
	}
	return out
}

func homeAndClaim(c *colony.Colony) []string {
	out := []string{c.Name}
	return append(out, claimRooms(c)...)
}

func claimRooms(c *colony.Colony) []string {
	out := make([]string, 0, len(c.ClaimRooms))
	for _, r := range c.ClaimRooms {
		out = append(out, r.RoomName)
	}
	return out
}

func remoteRooms(c *colony.Colony) []string {
	out := make([]string, 0, len(c.RemoteRooms))
	for _, r := range c.RemoteRooms {
		out = append(out, r.RoomName)
	}
	return out
}

func claimAndRemote(c *colony.Colony) []string {
	return append(claimRooms(c), remoteRooms(c)...)
}

func attackRooms(c *colony.Colony) []string {
	out := make([]string, 0, len(c.AttackRooms))
	for _, r := range c.AttackRooms {
		out = append(out, r.RoomName)
	}
	return out
}

func ofType(types ...world.StructureType) func(world.Structure) bool {
	return func(s world.Structure) bool {
		for _, t := range types {
			if s.Type == t {
				return true
			}
		}
		return false
	}
}

func seatID(category jobs.Category, target string, seat int) string {
	if seat == 0 {
		return jobs.MakeID(category, target)
	}
	return fmt.Sprintf("%s#%d", jobs.MakeID(category, target), seat)
}

// scanSources yields one seat per source with a container next to it (the miner
// stands on the container) and one seat per access tile otherwise.
func scanSources(sc scanContext, room string) []jobs.Job {
	containers := sc.world.Structures(room, ofType(world.StructureContainer))
	var out []jobs.Job
	for _, src := range sc.world.Sources(room) {
		if cont, ok := containerNear(src.Pos, containers); ok {
			out = append(out, jobs.Job{
				ID: seatID(jobs.CategorySource, src.ID, 0), Room: room, TargetID: src.ID,
				Detail: jobs.HarvestDetail{SourceID: src.ID, Pos: cont.Pos, Container: cont.ID},
			})
			continue
		}
		seats := max(1, src.AccessTiles)
		for i := 0; i < seats; i++ {
			out = append(out, jobs.Job{
				ID: seatID(jobs.CategorySource, src.ID, i), Room: room, TargetID: src.ID,
				Detail: jobs.HarvestDetail{SourceID: src.ID, Pos: src.Pos, Seat: i},
			})
		}
	}
	return out
}

// sourceSignature changes whenever a container appears or disappears next to a
// source, which invalidates the permanent source queue.
func sourceSignature(sc scanContext, rooms []string) string {
	var parts []string
	for _, room := range rooms {
		containers := sc.world.Structures(room, ofType(world.StructureContainer))
		for _, src := range sc.world.Sources(room) {
			cont, ok := containerNear(src.Pos, containers)
			if ok {
				parts = append(parts, src.ID+"="+cont.ID)
			} else {
				parts = append(parts, src.ID+"=")
			}
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func containerNear(p world.Position, containers []world.Structure) (world.Structure, bool) {
	for _, c := range containers {
		if c.Pos.InRange(p, 1) {
			return c, true
		}
	}
	return world.Structure{}, false
}

func scanWithdraw(types ...world.StructureType) func(scanContext, string) []jobs.Job {
	category := withdrawCategory(types[0])
	return func(sc scanContext, room string) []jobs.Job {
		var out []jobs.Job
		for _, s := range sc.world.Structures(room, ofType(types...)) {
			if s.Energy <= 0 {
				continue
			}
			out = append(out, jobs.Job{
				ID: jobs.MakeID(category, s.ID), Room: room, TargetID: s.ID,
				Detail: jobs.WithdrawDetail{StructureType: s.Type, Pos: s.Pos, Amount: s.Energy},
			})
		}
		return out
	}
}

func withdrawCategory(t world.StructureType) jobs.Category {
	switch t {
	case world.StructureContainer:
		return jobs.CategoryContainer
	case world.StructureLink:
		return jobs.CategoryLink
	default:
		return jobs.CategoryBackup
	}
}

func scanPickup(sc scanContext, room string) []jobs.Job {
	var out []jobs.Job
	for _, d := range sc.world.DroppedResources(room) {
		if d.ResourceType != world.ResourceEnergy || d.Amount <= 0 {
			continue
		}
		out = append(out, jobs.Job{
			ID: jobs.MakeID(jobs.CategoryPickup, d.ID), Room: room, TargetID: d.ID,
			Detail: jobs.PickupDetail{ResourceType: d.ResourceType, Pos: d.Pos, Amount: d.Amount},
		})
	}
	return out
}

func scanBuild(sc scanContext, room string) []jobs.Job {
	var out []jobs.Job
	for _, site := range sc.world.ConstructionSites(room) {
		out = append(out, jobs.Job{
			ID: jobs.MakeID(jobs.CategoryBuild, site.ID), Room: room, TargetID: site.ID,
			Detail: jobs.BuildDetail{StructureType: site.Type, Pos: site.Pos, Remaining: site.ProgressTotal - site.Progress},
		})
	}
	return out
}

// scanRepair lists damaged non-defense structures, most damaged first.
func scanRepair(sc scanContext, room string) []jobs.Job {
	damaged := sc.world.Structures(room, func(s world.Structure) bool {
		if s.IsDefense() || s.HitsMax <= 0 {
			return false
		}
		if !s.My && s.Type != world.StructureRoad && s.Type != world.StructureContainer {
			return false
		}
		return float64(s.Hits) < float64(s.HitsMax)*sc.cfg.RepairBelow
	})
	sort.SliceStable(damaged, func(i, j int) bool {
		return float64(damaged[i].Hits)/float64(damaged[i].HitsMax) < float64(damaged[j].Hits)/float64(damaged[j].HitsMax)
	})
	out := make([]jobs.Job, 0, len(damaged))
	for _, s := range damaged {
		out = append(out, jobs.Job{
			ID: jobs.MakeID(jobs.CategoryRepair, s.ID), Room: room, TargetID: s.ID,
			Detail: jobs.RepairDetail{StructureType: s.Type, Pos: s.Pos, Hits: s.Hits, HitsGoal: s.HitsMax},
		})
	}
	return out
}

// scanWallRepair lists walls and ramparts under the wall limit, weakest first.
func scanWallRepair(sc scanContext, room string) []jobs.Job {
	level := 0
	if info, ok := sc.world.Room(room); ok {
		level = info.ControllerLevel()
	}
	limit := colony.WallLimit(level)
	weak := sc.world.Structures(room, func(s world.Structure) bool {
		return s.IsDefense() && s.Hits < limit
	})
	sort.SliceStable(weak, func(i, j int) bool { return weak[i].Hits < weak[j].Hits })
	out := make([]jobs.Job, 0, len(weak))
	for _, s := range weak {
		out = append(out, jobs.Job{
			ID: jobs.MakeID(jobs.CategoryWallRepair, s.ID), Room: room, TargetID: s.ID,
			Detail: jobs.RepairDetail{StructureType: s.Type, Pos: s.Pos, Hits: s.Hits, HitsGoal: limit},
		})
	}
	return out
}

func scanUpgrade(sc scanContext, room string) []jobs.Job {
	info, ok := sc.world.Room(room)
	if !ok || info.Controller == nil || !info.Controller.My {
		return nil
	}
	ctrl := info.Controller
	out := make([]jobs.Job, 0, sc.cfg.UpgradeSeats)
	for i := 0; i < sc.cfg.UpgradeSeats; i++ {
		out = append(out, jobs.Job{
			ID: seatID(jobs.CategoryUpgrade, ctrl.ID, i), Room: room, TargetID: ctrl.ID,
			Detail: jobs.UpgradeDetail{Pos: ctrl.Pos, Level: ctrl.Level},
		})
	}
	return out
}

// controllerSignature changes when a controller appears or changes hands, which
// invalidates the permanent upgrade queue once a claimed room becomes ours.
func controllerSignature(sc scanContext, rooms []string) string {
	parts := make([]string, 0, len(rooms))
	for _, room := range rooms {
		info, ok := sc.world.Room(room)
		switch {
		case !ok || info.Controller == nil:
			parts = append(parts, room+"=")
		case info.Controller.My:
			parts = append(parts, room+"="+info.Controller.ID+"+")
		default:
			parts = append(parts, room+"="+info.Controller.ID)
		}
	}
	return strings.Join(parts, ",")
}

func scanFill(sc scanContext, room string) []jobs.Job {
	targets := sc.world.Structures(room, func(s world.Structure) bool {
		switch s.Type {
		case world.StructureSpawn, world.StructureExtension, world.StructureTower, world.StructureLab:
			return s.My && s.FreeCapacity() > 0
		}
		return false
	})
	out := make([]jobs.Job, 0, len(targets))
	for _, s := range targets {
		out = append(out, jobs.Job{
			ID: jobs.MakeID(jobs.CategoryFill, s.ID), Room: room, TargetID: s.ID,
			Detail: jobs.FillDetail{StructureType: s.Type, Pos: s.Pos, Missing: s.FreeCapacity()},
		})
	}
	return out
}

// scanStore lists long term energy sinks. Containers next to sources are fed
// by miners and never become store targets.
func scanStore(sc scanContext, room string) []jobs.Job {
	sources := sc.world.Sources(room)
	targets := sc.world.Structures(room, func(s world.Structure) bool {
		switch s.Type {
		case world.StructureStorage, world.StructureTerminal, world.StructureLink:
			return s.FreeCapacity() > 0
		case world.StructureContainer:
			for _, src := range sources {
				if s.Pos.InRange(src.Pos, 1) {
					return false
				}
			}
			return s.FreeCapacity() > 0
		}
		return false
	})
	out := make([]jobs.Job, 0, len(targets))
	for _, s := range targets {
		out = append(out, jobs.Job{
			ID: jobs.MakeID(jobs.CategoryStore, s.ID), Room: room, TargetID: s.ID,
			Detail: jobs.FillDetail{StructureType: s.Type, Pos: s.Pos, Missing: s.FreeCapacity()},
		})
	}
	return out
}

// scanController derives claim, reserve and sign jobs. Rooms without vision
// still get a job aimed at the room centre so an agent travels there.
func scanController(action jobs.ControllerAction) func(scanContext, string) []jobs.Job {
	category := map[jobs.ControllerAction]jobs.Category{
		jobs.ControllerClaim:   jobs.CategoryClaim,
		jobs.ControllerReserve: jobs.CategoryReserve,
		jobs.ControllerSign:    jobs.CategorySign,
	}[action]
	return func(sc scanContext, room string) []jobs.Job {
		pos := world.Position{Room: room, X: 25, Y: 25}
		info, visible := sc.world.Room(room)
		if visible && info.Controller != nil {
			ctrl := info.Controller
			pos = ctrl.Pos
			switch action {
			case jobs.ControllerClaim:
				if ctrl.My {
					return nil
				}
			case jobs.ControllerReserve:
				if ctrl.My || (ctrl.Owner != "" && ctrl.Owner != sc.cfg.Username) {
					return nil
				}
			case jobs.ControllerSign:
				if sc.cfg.Username != "" && ctrl.SignedBy == sc.cfg.Username {
					return nil
				}
			}
		}
		return []jobs.Job{{
			ID: jobs.MakeID(category, room), Room: room, TargetID: room,
			Detail: jobs.ControllerDetail{Action: action, Pos: pos},
		}}
	}
}

func scanAttack(sc scanContext, room string) []jobs.Job {
	for _, r := range sc.colony.AttackRooms {
		if r.RoomName != room {
			continue
		}
		for _, m := range r.Markers {
			if !m.Active {
				continue
			}
			return []jobs.Job{{
				ID: jobs.MakeID(jobs.CategoryAttack, m.FlagName), Room: room, TargetID: m.FlagName,
				Detail: jobs.AttackDetail{FlagName: m.FlagName, SquadUUID: m.SquadUUID},
			}}
		}
	}
	return nil
}
