package ports

import "hivemind/internal/domain/world"

// WorldSnapshot is the read side of the simulation as seen by the controller.
// Collections are cached by the provider with their own refresh intervals and
// are read-only for the rest of the tick.
type WorldSnapshot interface {
	Refresh(tick uint64)
	Room(name string) (world.RoomInfo, bool)
	Structures(room string, keep func(world.Structure) bool) []world.Structure
	Sources(room string) []world.Source
	HostileAgents(room string) []world.Creep
	FriendlyAgents(room string, keep func(world.Creep) bool) []world.Creep
	ConstructionSites(room string) []world.ConstructionSite
	DroppedResources(room string) []world.DroppedResource
	Agent(name string) (world.Creep, bool)
	Markers() []world.Marker
	OwnedRooms() []string
}

type CacheKind string

const (
	CacheStructures   CacheKind = "structures"
	CacheSources      CacheKind = "sources"
	CacheConstruction CacheKind = "construction"
	CacheDropped      CacheKind = "dropped"
	CacheFriendly     CacheKind = "friendly"
	CacheHostile      CacheKind = "hostile"
)

// Invalidator lets use cases drop a cached collection before its interval ends.
type Invalidator interface {
	Invalidate(room string, kind CacheKind)
}
