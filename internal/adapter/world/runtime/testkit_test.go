package runtime

import "hivemind/internal/domain/world"

// fakeFeed holds one room worth of objects and counts scans per collection.
type fakeFeed struct {
	info       world.RoomInfo
	structures []world.Structure
	sources    []world.Source
	creeps     []world.Creep
	sites      []world.ConstructionSite
	dropped    []world.DroppedResource
	scans      map[string]int
}

func newFakeFeed(room string) *fakeFeed {
	return &fakeFeed{info: world.RoomInfo{Name: room}, scans: map[string]int{}}
}

func (f *fakeFeed) Room(name string) (world.RoomInfo, bool) {
	return f.info, name == f.info.Name
}

func (f *fakeFeed) OwnedRooms() []string  { return []string{f.info.Name} }
func (f *fakeFeed) Markers() []world.Marker { return nil }

func (f *fakeFeed) ScanStructures(string) []world.Structure {
	f.scans["structures"]++
	return append([]world.Structure(nil), f.structures...)
}

func (f *fakeFeed) ScanSources(string) []world.Source {
	f.scans["sources"]++
	return append([]world.Source(nil), f.sources...)
}

func (f *fakeFeed) ScanCreeps(string) []world.Creep {
	f.scans["creeps"]++
	return append([]world.Creep(nil), f.creeps...)
}

func (f *fakeFeed) ScanConstructionSites(string) []world.ConstructionSite {
	f.scans["sites"]++
	return append([]world.ConstructionSite(nil), f.sites...)
}

func (f *fakeFeed) ScanDropped(string) []world.DroppedResource {
	f.scans["dropped"]++
	return append([]world.DroppedResource(nil), f.dropped...)
}

func (f *fakeFeed) Structure(id string) (world.Structure, bool) { return find(f.structures, id, structureID) }
func (f *fakeFeed) Source(id string) (world.Source, bool)       { return find(f.sources, id, sourceID) }
func (f *fakeFeed) Creep(name string) (world.Creep, bool)       { return find(f.creeps, name, creepName) }
func (f *fakeFeed) ConstructionSite(id string) (world.ConstructionSite, bool) {
	return find(f.sites, id, func(s world.ConstructionSite) string { return s.ID })
}
func (f *fakeFeed) Dropped(id string) (world.DroppedResource, bool) {
	return find(f.dropped, id, func(d world.DroppedResource) string { return d.ID })
}

func structureID(s world.Structure) string { return s.ID }
func sourceID(s world.Source) string       { return s.ID }
func creepName(c world.Creep) string       { return c.Name }

func find[T any](items []T, id string, key func(T) string) (T, bool) {
	for _, it := range items {
		if key(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}
