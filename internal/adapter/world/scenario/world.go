package scenario

import (
	"slices"
	"sort"

	"hivemind/internal/adapter/world/runtime"
	"hivemind/internal/domain/world"
)

type room struct {
	info       world.RoomInfo
	structures []world.Structure
	sources    []world.Source
	sites      []world.ConstructionSite
	dropped    []world.DroppedResource
}

// World is a small deterministic simulation driven by a scenario document.
// It is the raw feed behind the runtime snapshot and the actuator, spawner
// and marker remover of the controller. It is not safe for concurrent use.
type World struct {
	username string
	owned    []string
	rooms    map[string]*room
	creeps   map[string]*world.Creep
	markers  []world.Marker
	events   []Event
	spawning map[string]uint64
	busy     map[string]string // spawn id -> creep being spawned
	tick     uint64
	nextID   int
}

var _ runtime.Feed = (*World)(nil)

func NewWorld(doc Document) *World {
	w := &World{
		username: doc.Username,
		owned:    slices.Clone(doc.Owned),
		rooms:    map[string]*room{},
		creeps:   map[string]*world.Creep{},
		markers:  slices.Clone(doc.Markers),
		events:   slices.Clone(doc.Events),
		spawning: map[string]uint64{},
		busy:     map[string]string{},
	}
	sort.SliceStable(w.events, func(i, j int) bool { return w.events[i].Tick < w.events[j].Tick })
	for _, rd := range doc.Rooms {
		r := &room{
			info: world.RoomInfo{
				Name:           rd.Name,
				Controller:     rd.Controller,
				EnergyCapacity: rd.EnergyCapacity,
				Nukes:          rd.Nukes,
			},
			structures: slices.Clone(rd.Structures),
			sources:    slices.Clone(rd.Sources),
			sites:      slices.Clone(rd.Sites),
			dropped:    slices.Clone(rd.Dropped),
		}
		w.rooms[rd.Name] = r
		for _, c := range rd.Creeps {
			w.addCreep(c)
		}
	}
	for _, r := range w.rooms {
		w.recountEnergy(r)
	}
	return w
}

func (w *World) Username() string { return w.username }

func (w *World) Tick() uint64 { return w.tick }

func (w *World) addCreep(c world.Creep) {
	if c.Owner == "" && c.My {
		c.Owner = w.username
	}
	if c.Owner == w.username {
		c.My = true
	}
	if c.ID == "" {
		c.ID = "creep-" + c.Name
	}
	if c.HitsMax == 0 {
		c.HitsMax = 100 * max(1, len(c.Body))
		c.Hits = c.HitsMax
	}
	if c.TicksToLive == 0 && !c.Spawning {
		c.TicksToLive = 1500
	}
	if c.CarryCapacity == 0 {
		c.CarryCapacity = 50 * c.ActiveParts(world.PartCarry)
	}
	cp := c
	w.creeps[c.Name] = &cp
}

func (w *World) ensureRoom(name string) *room {
	r, ok := w.rooms[name]
	if !ok {
		r = &room{info: world.RoomInfo{Name: name}}
		w.rooms[name] = r
	}
	return r
}

// recountEnergy keeps the room energy totals in line with spawns and extensions.
func (w *World) recountEnergy(r *room) {
	avail, capacity := 0, 0
	for _, s := range r.structures {
		if s.Type == world.StructureSpawn || s.Type == world.StructureExtension {
			avail += s.Energy
			capacity += s.EnergyCapacity
		}
	}
	r.info.EnergyAvailable = avail
	if capacity > 0 {
		r.info.EnergyCapacity = capacity
	}
}

func (w *World) Room(name string) (world.RoomInfo, bool) {
	r, ok := w.rooms[name]
	if !ok {
		return world.RoomInfo{}, false
	}
	info := r.info
	if info.Controller != nil {
		c := *info.Controller
		info.Controller = &c
	}
	return info, true
}

func (w *World) OwnedRooms() []string {
	return slices.Clone(w.owned)
}

func (w *World) Markers() []world.Marker {
	return slices.Clone(w.markers)
}

func (w *World) ScanStructures(name string) []world.Structure {
	if r, ok := w.rooms[name]; ok {
		return slices.Clone(r.structures)
	}
	return nil
}

func (w *World) ScanSources(name string) []world.Source {
	if r, ok := w.rooms[name]; ok {
		return slices.Clone(r.sources)
	}
	return nil
}

func (w *World) ScanCreeps(name string) []world.Creep {
	var out []world.Creep
	for _, c := range w.creeps {
		if c.Pos.Room == name {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (w *World) ScanConstructionSites(name string) []world.ConstructionSite {
	if r, ok := w.rooms[name]; ok {
		return slices.Clone(r.sites)
	}
	return nil
}

func (w *World) ScanDropped(name string) []world.DroppedResource {
	if r, ok := w.rooms[name]; ok {
		return slices.Clone(r.dropped)
	}
	return nil
}

func (w *World) Structure(id string) (world.Structure, bool) {
	if r, i := w.findStructure(id); r != nil {
		return r.structures[i], true
	}
	return world.Structure{}, false
}

func (w *World) Source(id string) (world.Source, bool) {
	if r, i := w.findSource(id); r != nil {
		return r.sources[i], true
	}
	return world.Source{}, false
}

func (w *World) Creep(name string) (world.Creep, bool) {
	c, ok := w.creeps[name]
	if !ok {
		return world.Creep{}, false
	}
	return *c, true
}

func (w *World) ConstructionSite(id string) (world.ConstructionSite, bool) {
	for _, r := range w.rooms {
		for _, s := range r.sites {
			if s.ID == id {
				return s, true
			}
		}
	}
	return world.ConstructionSite{}, false
}

func (w *World) Dropped(id string) (world.DroppedResource, bool) {
	for _, r := range w.rooms {
		for _, d := range r.dropped {
			if d.ID == id {
				return d, true
			}
		}
	}
	return world.DroppedResource{}, false
}

func (w *World) findStructure(id string) (*room, int) {
	for _, r := range w.rooms {
		for i := range r.structures {
			if r.structures[i].ID == id {
				return r, i
			}
		}
	}
	return nil, -1
}

func (w *World) findSource(id string) (*room, int) {
	for _, r := range w.rooms {
		for i := range r.sources {
			if r.sources[i].ID == id {
				return r, i
			}
		}
	}
	return nil, -1
}
