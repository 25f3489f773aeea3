package mock

import (
	"slices"

	"hivemind/internal/app/ports"
	"hivemind/internal/domain/world"
)

// Room is the static content of one room.
type Room struct {
	Info       world.RoomInfo
	Structures []world.Structure
	Sources    []world.Source
	Creeps     []world.Creep
	Sites      []world.ConstructionSite
	Dropped    []world.DroppedResource
}

// Provider is an uncached, in-memory WorldSnapshot for tests. Every query sees
// the current content immediately.
type Provider struct {
	Rooms      map[string]*Room
	MarkerList []world.Marker
	Owned      []string
	Tick       uint64
}

var _ ports.WorldSnapshot = (*Provider)(nil)

func NewProvider() *Provider {
	return &Provider{Rooms: map[string]*Room{}}
}

func (p *Provider) EnsureRoom(name string) *Room {
	r, ok := p.Rooms[name]
	if !ok {
		r = &Room{Info: world.RoomInfo{Name: name}}
		p.Rooms[name] = r
	}
	return r
}

func (p *Provider) AddCreep(c world.Creep) {
	r := p.EnsureRoom(c.Pos.Room)
	r.Creeps = append(r.Creeps, c)
}

func (p *Provider) RemoveCreep(name string) {
	for _, r := range p.Rooms {
		r.Creeps = slices.DeleteFunc(r.Creeps, func(c world.Creep) bool { return c.Name == name })
	}
}

// UpdateCreep applies fn to the named creep wherever it is.
func (p *Provider) UpdateCreep(name string, fn func(*world.Creep)) bool {
	for _, r := range p.Rooms {
		for i := range r.Creeps {
			if r.Creeps[i].Name == name {
				fn(&r.Creeps[i])
				return true
			}
		}
	}
	return false
}

func (p *Provider) RemoveStructure(id string) {
	for _, r := range p.Rooms {
		r.Structures = slices.DeleteFunc(r.Structures, func(s world.Structure) bool { return s.ID == id })
	}
}

func (p *Provider) RemoveSite(id string) {
	for _, r := range p.Rooms {
		r.Sites = slices.DeleteFunc(r.Sites, func(s world.ConstructionSite) bool { return s.ID == id })
	}
}

func (p *Provider) Refresh(tick uint64) {
	p.Tick = tick
}

func (p *Provider) Room(name string) (world.RoomInfo, bool) {
	r, ok := p.Rooms[name]
	if !ok {
		return world.RoomInfo{}, false
	}
	return r.Info, true
}

func (p *Provider) Structures(room string, keep func(world.Structure) bool) []world.Structure {
	r, ok := p.Rooms[room]
	if !ok {
		return nil
	}
	out := make([]world.Structure, 0, len(r.Structures))
	for _, s := range r.Structures {
		if keep == nil || keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func (p *Provider) Sources(room string) []world.Source {
	if r, ok := p.Rooms[room]; ok {
		return slices.Clone(r.Sources)
	}
	return nil
}

func (p *Provider) HostileAgents(room string) []world.Creep {
	r, ok := p.Rooms[room]
	if !ok {
		return nil
	}
	var out []world.Creep
	for _, c := range r.Creeps {
		if !c.My {
			out = append(out, c)
		}
	}
	return out
}

func (p *Provider) FriendlyAgents(room string, keep func(world.Creep) bool) []world.Creep {
	r, ok := p.Rooms[room]
	if !ok {
		return nil
	}
	var out []world.Creep
	for _, c := range r.Creeps {
		if c.My && (keep == nil || keep(c)) {
			out = append(out, c)
		}
	}
	return out
}

func (p *Provider) ConstructionSites(room string) []world.ConstructionSite {
	if r, ok := p.Rooms[room]; ok {
		return slices.Clone(r.Sites)
	}
	return nil
}

func (p *Provider) DroppedResources(room string) []world.DroppedResource {
	if r, ok := p.Rooms[room]; ok {
		return slices.Clone(r.Dropped)
	}
	return nil
}

func (p *Provider) Agent(name string) (world.Creep, bool) {
	for _, r := range p.Rooms {
		for _, c := range r.Creeps {
			if c.My && c.Name == name {
				return c, true
			}
		}
	}
	return world.Creep{}, false
}

func (p *Provider) Markers() []world.Marker {
	return slices.Clone(p.MarkerList)
}

func (p *Provider) OwnedRooms() []string {
	return slices.Clone(p.Owned)
}
