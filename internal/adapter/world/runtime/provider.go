package runtime

import (
	"slices"

	"hivemind/internal/app/ports"
	"hivemind/internal/domain/world"
)

// Feed is the raw, uncached view of the simulation. Scans are the expensive
// calls; lookups by id are cheap and always current.
type Feed interface {
	Room(name string) (world.RoomInfo, bool)
	OwnedRooms() []string
	Markers() []world.Marker

	ScanStructures(room string) []world.Structure
	ScanSources(room string) []world.Source
	ScanCreeps(room string) []world.Creep
	ScanConstructionSites(room string) []world.ConstructionSite
	ScanDropped(room string) []world.DroppedResource

	Structure(id string) (world.Structure, bool)
	Source(id string) (world.Source, bool)
	Creep(name string) (world.Creep, bool)
	ConstructionSite(id string) (world.ConstructionSite, bool)
	Dropped(id string) (world.DroppedResource, bool)
}

// Never marks a collection that is scanned once and kept for good.
const Never = -1

type Config struct {
	// TTL in ticks per collection. Never keeps the first scan.
	TTL map[ports.CacheKind]int
}

func DefaultConfig() Config {
	return Config{TTL: map[ports.CacheKind]int{
		ports.CacheStructures:   50,
		ports.CacheSources:      Never,
		ports.CacheConstruction: 50,
		ports.CacheDropped:      50,
		ports.CacheFriendly:     20,
		ports.CacheHostile:      1,
	}}
}

type cacheKey struct {
	room string
	kind ports.CacheKind
}

type entry struct {
	ids    []string
	filled uint64
}

// Provider is a WorldSnapshot that remembers which objects each room holds
// for a per-collection number of ticks and resolves them through the feed on
// every read. Objects that vanished in between are skipped. It is used by
// one tick loop at a time.
type Provider struct {
	feed  Feed
	cfg   Config
	tick  uint64
	cache map[cacheKey]entry
	scans int
}

var (
	_ ports.WorldSnapshot = (*Provider)(nil)
	_ ports.Invalidator   = (*Provider)(nil)
)

func NewProvider(feed Feed, cfg Config) *Provider {
	def := DefaultConfig()
	ttl := make(map[ports.CacheKind]int, len(def.TTL))
	for k, v := range def.TTL {
		ttl[k] = v
	}
	for k, v := range cfg.TTL {
		if v != 0 {
			ttl[k] = v
		}
	}
	cfg.TTL = ttl
	return &Provider{feed: feed, cfg: cfg, cache: map[cacheKey]entry{}}
}

func (p *Provider) Refresh(tick uint64) {
	p.tick = tick
}

func (p *Provider) Invalidate(room string, kind ports.CacheKind) {
	delete(p.cache, cacheKey{room: room, kind: kind})
}

// Scans reports how many feed scans the provider has made.
func (p *Provider) Scans() int {
	return p.scans
}

func (p *Provider) ids(room string, kind ports.CacheKind, scan func() []string) []string {
	k := cacheKey{room: room, kind: kind}
	if e, ok := p.cache[k]; ok && !p.expired(e, kind) {
		return e.ids
	}
	p.scans++
	ids := scan()
	p.cache[k] = entry{ids: ids, filled: p.tick}
	return ids
}

func (p *Provider) expired(e entry, kind ports.CacheKind) bool {
	ttl := p.cfg.TTL[kind]
	if ttl == Never {
		return false
	}
	return p.tick >= e.filled+uint64(max(ttl, 1))
}

func (p *Provider) Room(name string) (world.RoomInfo, bool) {
	return p.feed.Room(name)
}

func (p *Provider) Structures(room string, keep func(world.Structure) bool) []world.Structure {
	ids := p.ids(room, ports.CacheStructures, func() []string {
		return collect(p.feed.ScanStructures(room), func(s world.Structure) string { return s.ID })
	})
	return resolve(ids, p.feed.Structure, keep)
}

func (p *Provider) Sources(room string) []world.Source {
	ids := p.ids(room, ports.CacheSources, func() []string {
		return collect(p.feed.ScanSources(room), func(s world.Source) string { return s.ID })
	})
	return resolve(ids, p.feed.Source, nil)
}

func (p *Provider) HostileAgents(room string) []world.Creep {
	ids := p.ids(room, ports.CacheHostile, func() []string {
		return creepNames(p.feed.ScanCreeps(room), false)
	})
	return resolve(ids, p.feed.Creep, func(c world.Creep) bool { return c.Pos.Room == room })
}

func (p *Provider) FriendlyAgents(room string, keep func(world.Creep) bool) []world.Creep {
	ids := p.ids(room, ports.CacheFriendly, func() []string {
		return creepNames(p.feed.ScanCreeps(room), true)
	})
	return resolve(ids, p.feed.Creep, func(c world.Creep) bool {
		return c.Pos.Room == room && (keep == nil || keep(c))
	})
}

func (p *Provider) ConstructionSites(room string) []world.ConstructionSite {
	ids := p.ids(room, ports.CacheConstruction, func() []string {
		return collect(p.feed.ScanConstructionSites(room), func(s world.ConstructionSite) string { return s.ID })
	})
	return resolve(ids, p.feed.ConstructionSite, nil)
}

func (p *Provider) DroppedResources(room string) []world.DroppedResource {
	ids := p.ids(room, ports.CacheDropped, func() []string {
		return collect(p.feed.ScanDropped(room), func(d world.DroppedResource) string { return d.ID })
	})
	return resolve(ids, p.feed.Dropped, nil)
}

// Agent is always read through the feed.
func (p *Provider) Agent(name string) (world.Creep, bool) {
	c, ok := p.feed.Creep(name)
	if !ok || !c.My {
		return world.Creep{}, false
	}
	return c, true
}

func (p *Provider) Markers() []world.Marker {
	return p.feed.Markers()
}

func (p *Provider) OwnedRooms() []string {
	rooms := slices.Clone(p.feed.OwnedRooms())
	slices.Sort(rooms)
	return rooms
}

func collect[T any](items []T, id func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, id(it))
	}
	return out
}

func creepNames(creeps []world.Creep, my bool) []string {
	var out []string
	for _, c := range creeps {
		if c.My == my {
			out = append(out, c.Name)
		}
	}
	return out
}

func resolve[T any](ids []string, lookup func(string) (T, bool), keep func(T) bool) []T {
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		v, ok := lookup(id)
		if !ok {
			continue
		}
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out
}
