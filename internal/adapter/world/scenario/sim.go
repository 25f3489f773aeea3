package scenario

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"hivemind/internal/app/ports"
	"hivemind/internal/domain/colony"
	"hivemind/internal/domain/jobs"
	"hivemind/internal/domain/world"
)

var (
	ErrSpawnBusy       = errors.New("no idle spawn")
	ErrNotEnoughEnergy = errors.New("not enough energy")
	ErrNameExists      = errors.New("creep name exists")
	ErrNoCreep         = errors.New("creep not found")
)

const (
	sourceRegenTicks = 300
	maxReservation   = 5000
	ticksPerPart     = 3
)

var (
	_ ports.Actuator      = (*World)(nil)
	_ ports.Spawner       = (*World)(nil)
	_ ports.MarkerRemover = (*World)(nil)
)

// Step advances the world to tick: scripted events fire, spawns finish,
// creeps age and sources regenerate.
func (w *World) Step(tick uint64) {
	w.tick = tick
	for len(w.events) > 0 && w.events[0].Tick <= tick {
		w.apply(w.events[0])
		w.events = w.events[1:]
	}
	for name, c := range w.creeps {
		if c.Spawning {
			continue
		}
		c.TicksToLive--
		if c.TicksToLive <= 0 || c.Hits <= 0 {
			delete(w.creeps, name)
		}
	}
	for name, ready := range w.spawning {
		if ready > tick {
			continue
		}
		if c, ok := w.creeps[name]; ok {
			c.Spawning = false
			c.TicksToLive = 1500
		}
		delete(w.spawning, name)
		for spawn, creep := range w.busy {
			if creep == name {
				delete(w.busy, spawn)
			}
		}
	}
	for _, r := range w.rooms {
		if tick%sourceRegenTicks == 0 {
			for i := range r.sources {
				r.sources[i].Energy = r.sources[i].EnergyCapacity
			}
		}
		if ctrl := r.info.Controller; ctrl != nil && ctrl.ReservationTicks > 0 {
			ctrl.ReservationTicks--
			if ctrl.ReservationTicks == 0 {
				ctrl.ReservedBy = ""
			}
		}
		for i := range r.info.Nukes {
			r.info.Nukes[i].TimeToLand--
		}
		r.info.Nukes = slices.DeleteFunc(r.info.Nukes, func(n world.Nuke) bool { return n.TimeToLand <= 0 })
		w.recountEnergy(r)
	}
}

func (w *World) apply(ev Event) {
	for _, c := range ev.AddCreeps {
		w.ensureRoom(c.Pos.Room)
		w.addCreep(c)
	}
	w.markers = append(w.markers, ev.AddMarkers...)
	for _, s := range ev.AddSites {
		r := w.ensureRoom(s.Pos.Room)
		r.sites = append(r.sites, s)
	}
	for _, id := range ev.Remove {
		w.remove(id)
	}
}

// remove deletes any object with the given id or creep name.
func (w *World) remove(id string) {
	delete(w.creeps, id)
	for _, r := range w.rooms {
		r.structures = slices.DeleteFunc(r.structures, func(s world.Structure) bool { return s.ID == id })
		r.sites = slices.DeleteFunc(r.sites, func(s world.ConstructionSite) bool { return s.ID == id })
		r.dropped = slices.DeleteFunc(r.dropped, func(d world.DroppedResource) bool { return d.ID == id })
	}
	w.markers = slices.DeleteFunc(w.markers, func(m world.Marker) bool { return m.Name == id })
}

func (w *World) RemoveMarker(_ context.Context, name string) error {
	n := len(w.markers)
	w.markers = slices.DeleteFunc(w.markers, func(m world.Marker) bool { return m.Name == name })
	if len(w.markers) == n {
		return ports.ErrNotFound
	}
	return nil
}

func (w *World) creep(name string) (*world.Creep, error) {
	c, ok := w.creeps[name]
	if !ok || !c.My {
		return nil, fmt.Errorf("%w: %s", ErrNoCreep, name)
	}
	return c, nil
}

// MoveToward moves one tile per tick. Other rooms are entered at their centre.
func (w *World) MoveToward(_ context.Context, agent string, target world.Position, opts ports.MoveOptions) error {
	c, err := w.creep(agent)
	if err != nil {
		return err
	}
	if c.Spawning {
		return nil
	}
	if c.Pos.Room != target.Room {
		w.ensureRoom(target.Room)
		c.Pos = world.Position{Room: target.Room, X: 25, Y: 25}
		return nil
	}
	if c.Pos.InRange(target, opts.Range) {
		return nil
	}
	c.Pos.X += sign(target.X - c.Pos.X)
	c.Pos.Y += sign(target.Y - c.Pos.Y)
	return nil
}

func (w *World) PerformWork(_ context.Context, agent string, job jobs.Job) (ports.WorkStatus, error) {
	c, err := w.creep(agent)
	if err != nil {
		return ports.WorkInvalid, err
	}
	work := max(1, c.ActiveParts(world.PartWork))
	switch d := job.Detail.(type) {
	case jobs.HarvestDetail:
		r, i := w.findSource(d.SourceID)
		if r == nil {
			return ports.WorkInvalid, nil
		}
		src := &r.sources[i]
		if !c.Pos.InRange(src.Pos, 1) {
			return ports.WorkOngoing, ports.ErrNotInRange
		}
		mined := min(2*work, src.Energy)
		src.Energy -= mined
		if c.CarryCapacity > 0 && !c.IsFull() {
			take := min(mined, c.CarryCapacity-c.Carry)
			c.Carry += take
			mined -= take
		}
		if mined > 0 {
			w.deposit(r, d.Container, c.Pos, mined)
		}
		return ports.WorkOngoing, nil

	case jobs.WithdrawDetail:
		r, i := w.findStructure(job.TargetID)
		if r == nil {
			return ports.WorkInvalid, nil
		}
		s := &r.structures[i]
		if !c.Pos.InRange(s.Pos, 1) {
			return ports.WorkOngoing, ports.ErrNotInRange
		}
		take := min(s.Energy, c.CarryCapacity-c.Carry)
		s.Energy -= take
		c.Carry += take
		w.recountEnergy(r)
		return ports.WorkDone, nil

	case jobs.PickupDetail:
		for _, r := range w.rooms {
			for i := range r.dropped {
				dr := &r.dropped[i]
				if dr.ID != job.TargetID {
					continue
				}
				if !c.Pos.InRange(dr.Pos, 1) {
					return ports.WorkOngoing, ports.ErrNotInRange
				}
				take := min(dr.Amount, c.CarryCapacity-c.Carry)
				dr.Amount -= take
				c.Carry += take
				if dr.Amount <= 0 {
					r.dropped = slices.Delete(r.dropped, i, i+1)
				}
				return ports.WorkDone, nil
			}
		}
		return ports.WorkInvalid, nil

	case jobs.BuildDetail:
		for _, r := range w.rooms {
			for i := range r.sites {
				site := &r.sites[i]
				if site.ID != job.TargetID {
					continue
				}
				if !c.Pos.InRange(site.Pos, 3) {
					return ports.WorkOngoing, ports.ErrNotInRange
				}
				spend := min(c.Carry, 5*work)
				c.Carry -= spend
				site.Progress += spend
				if site.Progress < site.ProgressTotal {
					return ports.WorkOngoing, nil
				}
				r.structures = append(r.structures, world.Structure{
					ID: "built-" + site.ID, Type: site.Type, Pos: site.Pos, Hits: 1000, HitsMax: 1000, My: true,
				})
				r.sites = slices.Delete(r.sites, i, i+1)
				return ports.WorkDone, nil
			}
		}
		return ports.WorkInvalid, nil

	case jobs.RepairDetail:
		r, i := w.findStructure(job.TargetID)
		if r == nil {
			return ports.WorkInvalid, nil
		}
		s := &r.structures[i]
		if !c.Pos.InRange(s.Pos, 3) {
			return ports.WorkOngoing, ports.ErrNotInRange
		}
		spend := min(c.Carry, work)
		c.Carry -= spend
		s.Hits = min(s.HitsMax, s.Hits+100*spend)
		goal := d.HitsGoal
		if goal == 0 {
			goal = s.HitsMax
		}
		if s.Hits >= goal {
			return ports.WorkDone, nil
		}
		return ports.WorkOngoing, nil

	case jobs.UpgradeDetail:
		ctrl := w.controller(d.Pos.Room)
		if ctrl == nil {
			return ports.WorkInvalid, nil
		}
		if !c.Pos.InRange(ctrl.Pos, 3) {
			return ports.WorkOngoing, ports.ErrNotInRange
		}
		c.Carry -= min(c.Carry, work)
		return ports.WorkOngoing, nil

	case jobs.FillDetail:
		r, i := w.findStructure(job.TargetID)
		if r == nil {
			return ports.WorkInvalid, nil
		}
		s := &r.structures[i]
		if !c.Pos.InRange(s.Pos, 1) {
			return ports.WorkOngoing, ports.ErrNotInRange
		}
		give := min(c.Carry, s.FreeCapacity())
		s.Energy += give
		c.Carry -= give
		w.recountEnergy(r)
		return ports.WorkDone, nil

	case jobs.ControllerDetail:
		ctrl := w.controller(d.Pos.Room)
		if ctrl == nil {
			return ports.WorkInvalid, nil
		}
		if !c.Pos.InRange(ctrl.Pos, 1) {
			return ports.WorkOngoing, ports.ErrNotInRange
		}
		switch d.Action {
		case jobs.ControllerClaim:
			ctrl.My, ctrl.Owner, ctrl.ReservedBy = true, w.username, ""
			ctrl.Level = max(ctrl.Level, 1)
			if !slices.Contains(w.owned, d.Pos.Room) {
				w.owned = append(w.owned, d.Pos.Room)
			}
			return ports.WorkDone, nil
		case jobs.ControllerReserve:
			ctrl.ReservedBy = w.username
			ctrl.ReservationTicks = min(maxReservation, ctrl.ReservationTicks+max(1, c.ActiveParts(world.PartClaim)))
			return ports.WorkOngoing, nil
		case jobs.ControllerSign:
			ctrl.SignedBy = w.username
			return ports.WorkDone, nil
		}
	}
	return ports.WorkOngoing, nil
}

// deposit puts harvested energy into the seat container, or drops it.
func (w *World) deposit(r *room, container string, at world.Position, amount int) {
	for i := range r.structures {
		s := &r.structures[i]
		if s.ID == container {
			put := min(amount, s.FreeCapacity())
			s.Energy += put
			amount -= put
			break
		}
	}
	if amount <= 0 {
		return
	}
	for i := range r.dropped {
		if r.dropped[i].Pos == at {
			r.dropped[i].Amount += amount
			return
		}
	}
	w.nextID++
	r.dropped = append(r.dropped, world.DroppedResource{
		ID: fmt.Sprintf("drop-%d", w.nextID), Pos: at, ResourceType: world.ResourceEnergy, Amount: amount,
	})
}

func (w *World) controller(roomName string) *world.Controller {
	if r, ok := w.rooms[roomName]; ok {
		return r.info.Controller
	}
	return nil
}

func (w *World) Engage(_ context.Context, agent string, targetID string, action ports.CombatAction) error {
	c, err := w.creep(agent)
	if err != nil {
		return err
	}
	var target *world.Creep
	for _, t := range w.creeps {
		if t.ID == targetID {
			target = t
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: %s", ErrNoCreep, targetID)
	}
	reach := 1
	if action == ports.CombatRangedAttack {
		reach = 3
	}
	if !c.Pos.InRange(target.Pos, reach) {
		return ports.ErrNotInRange
	}
	switch action {
	case ports.CombatAttack:
		target.Hits -= 30 * c.ActiveParts(world.PartAttack)
	case ports.CombatRangedAttack:
		target.Hits -= 10 * c.ActiveParts(world.PartRangedAttack)
	case ports.CombatHeal:
		target.Hits = min(target.HitsMax, target.Hits+12*c.ActiveParts(world.PartHeal))
	}
	return nil
}

// Spawn starts a creep at the first idle spawn of the colony room.
func (w *World) Spawn(_ context.Context, req ports.SpawnRequest) error {
	r, ok := w.rooms[req.Colony]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSpawnBusy, req.Colony)
	}
	if _, taken := w.creeps[req.Name]; taken {
		return fmt.Errorf("%w: %s", ErrNameExists, req.Name)
	}
	spawnIdx := -1
	for i, s := range r.structures {
		if _, busy := w.busy[s.ID]; s.Type == world.StructureSpawn && s.My && !busy {
			spawnIdx = i
			break
		}
	}
	if spawnIdx < 0 {
		return ErrSpawnBusy
	}
	cost := min(int(req.Tier), r.info.EnergyCapacity)
	if r.info.EnergyAvailable < cost {
		return ErrNotEnoughEnergy
	}
	w.drain(r, cost)

	body := bodyFor(req.Role, colony.BodySize(req.Role, req.Tier))
	spawn := r.structures[spawnIdx]
	w.addCreep(world.Creep{
		ID: "creep-" + req.Name, Name: req.Name, Owner: w.username, My: true,
		Pos: spawn.Pos, Body: body, Spawning: true,
	})
	w.spawning[req.Name] = w.tick + uint64(ticksPerPart*len(body))
	w.busy[spawn.ID] = req.Name
	return nil
}

func (w *World) drain(r *room, cost int) {
	for i := range r.structures {
		s := &r.structures[i]
		if s.Type != world.StructureSpawn && s.Type != world.StructureExtension {
			continue
		}
		take := min(cost, s.Energy)
		s.Energy -= take
		cost -= take
		if cost == 0 {
			break
		}
	}
	w.recountEnergy(r)
}

func bodyFor(role colony.Role, size int) []world.BodyPart {
	var pattern []world.BodyPart
	switch role {
	case colony.RoleZealot, colony.RoleDomesticDefender:
		pattern = []world.BodyPart{world.PartAttack, world.PartMove}
	case colony.RoleStalker, colony.RoleRemoteDefender:
		pattern = []world.BodyPart{world.PartRangedAttack, world.PartMove}
	case colony.RoleMedic:
		pattern = []world.BodyPart{world.PartHeal, world.PartMove}
	case colony.RoleClaimer, colony.RoleRemoteReserver:
		pattern = []world.BodyPart{world.PartClaim, world.PartMove}
	case colony.RoleMiner, colony.RoleRemoteMiner:
		pattern = []world.BodyPart{world.PartWork, world.PartWork, world.PartMove}
	case colony.RoleLorry:
		pattern = []world.BodyPart{world.PartCarry, world.PartCarry, world.PartMove}
	default:
		pattern = []world.BodyPart{world.PartWork, world.PartCarry, world.PartMove}
	}
	body := make([]world.BodyPart, 0, size)
	for i := 0; i < size; i++ {
		body = append(body, pattern[i%len(pattern)])
	}
	return body
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
