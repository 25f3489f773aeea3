package colony

import (
	"errors"
	"slices"

	"hivemind/internal/domain/jobs"
	"hivemind/internal/domain/world"
)

var (
	ErrInvalidColony     = errors.New("invalid colony")
	ErrInvalidAgent      = errors.New("invalid agent")
	ErrDuplicateRoom     = errors.New("dependent room already tracked")
	ErrDependentNotFound = errors.New("dependent room not found")
)

type Colony struct {
	Name          string         `json:"name"`
	State         OperatingState `json:"state"`
	Defcon        int            `json:"defcon"`
	HostileTicks  int            `json:"hostile_ticks"`
	Stimulate     bool           `json:"stimulate"`
	StimulateFlag string         `json:"stimulate_flag,omitempty"`
	ClaimRooms    []*ClaimRoom   `json:"claim_rooms,omitempty"`
	RemoteRooms   []*RemoteRoom  `json:"remote_rooms,omitempty"`
	AttackRooms   []*AttackRoom  `json:"attack_rooms,omitempty"`
	Jobs          jobs.Board     `json:"jobs"`
	MilitaryQueue []Role         `json:"military_queue,omitempty"`
	UpdatedTick   uint64         `json:"updated_tick"`
	Version       int64          `json:"version"`
}

func NewColony(name string) *Colony {
	return &Colony{Name: name, Jobs: jobs.Board{}}
}

func (c *Colony) Validate() error {
	if c == nil || c.Name == "" {
		return ErrInvalidColony
	}
	return nil
}

// EnsureBoard initializes the job board after decoding a record without one.
func (c *Colony) EnsureBoard() {
	if c.Jobs == nil {
		c.Jobs = jobs.Board{}
	}
}

type DependentKind string

const (
	DependentClaim  DependentKind = "claim"
	DependentRemote DependentKind = "remote"
	DependentAttack DependentKind = "attack"
)

// DependentBase is shared by all dependent room records.
type DependentBase struct {
	RoomName    string   `json:"room_name"`
	Colony      string   `json:"colony"`
	MarkerNames []string `json:"marker_names,omitempty"`
}

func (b *DependentBase) Base() *DependentBase { return b }

func (b *DependentBase) HasMarker(name string) bool {
	return slices.Contains(b.MarkerNames, name)
}

func (b *DependentBase) AddMarker(name string) {
	if !b.HasMarker(name) {
		b.MarkerNames = append(b.MarkerNames, name)
	}
}

// PruneMarkers drops marker names for which live returns false and reports how
// many were removed.
func (b *DependentBase) PruneMarkers(live func(string) bool) int {
	before := len(b.MarkerNames)
	b.MarkerNames = slices.DeleteFunc(b.MarkerNames, func(n string) bool { return !live(n) })
	return before - len(b.MarkerNames)
}

type DependentRoom interface {
	Base() *DependentBase
	Kind() DependentKind
}

type ClaimRoom struct {
	DependentBase
}

type RemoteRoom struct {
	DependentBase
	Sources    int `json:"sources"`
	ReserveTTL int `json:"reserve_ttl"`
	Defcon     int `json:"defcon"`
}

type AttackRoom struct {
	DependentBase
	Markers []AttackMarker `json:"markers,omitempty"`
}

func (*ClaimRoom) Kind() DependentKind  { return DependentClaim }
func (*RemoteRoom) Kind() DependentKind { return DependentRemote }
func (*AttackRoom) Kind() DependentKind { return DependentAttack }

type AttackKind int

const (
	AttackZealotSolo AttackKind = iota + 1
	AttackStalkerSolo
	AttackStandardSquad
)

func (k AttackKind) String() string {
	switch k {
	case AttackZealotSolo:
		return "zealotSolo"
	case AttackStalkerSolo:
		return "stalkerSolo"
	case AttackStandardSquad:
		return "standardSquad"
	}
	return "unknown"
}

func ParseAttackKind(s string) (AttackKind, bool) {
	for _, k := range []AttackKind{AttackZealotSolo, AttackStalkerSolo, AttackStandardSquad} {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

type AttackMarker struct {
	FlagName   string          `json:"flag_name"`
	Kind       AttackKind      `json:"kind"`
	SquadSize  int             `json:"squad_size"`
	SquadUUID  string          `json:"squad_uuid"`
	Rally      *world.Position `json:"rally,omitempty"`
	Active     bool            `json:"active"`
	Spawned    int             `json:"spawned"`
	PlacedTick uint64          `json:"placed_tick"`
}

// Dependents lists every dependent record of the colony in claim, remote, attack order.
func (c *Colony) Dependents() []DependentRoom {
	out := make([]DependentRoom, 0, len(c.ClaimRooms)+len(c.RemoteRooms)+len(c.AttackRooms))
	for _, r := range c.ClaimRooms {
		out = append(out, r)
	}
	for _, r := range c.RemoteRooms {
		out = append(out, r)
	}
	for _, r := range c.AttackRooms {
		out = append(out, r)
	}
	return out
}

func (c *Colony) FindDependent(kind DependentKind, room string) (DependentRoom, bool) {
	for _, d := range c.Dependents() {
		if d.Kind() == kind && d.Base().RoomName == room {
			return d, true
		}
	}
	return nil, false
}

// AddDependent inserts a new record, refusing a second record of the same
// kind for the same room.
func (c *Colony) AddDependent(d DependentRoom) error {
	if _, exists := c.FindDependent(d.Kind(), d.Base().RoomName); exists {
		return ErrDuplicateRoom
	}
	d.Base().Colony = c.Name
	switch r := d.(type) {
	case *ClaimRoom:
		c.ClaimRooms = append(c.ClaimRooms, r)
	case *RemoteRoom:
		c.RemoteRooms = append(c.RemoteRooms, r)
	case *AttackRoom:
		c.AttackRooms = append(c.AttackRooms, r)
	}
	return nil
}

// RemoveDependentsWhere deletes every record for which drop returns true and
// returns the removed records.
func (c *Colony) RemoveDependentsWhere(drop func(DependentRoom) bool) []DependentRoom {
	var removed []DependentRoom
	c.ClaimRooms = slices.DeleteFunc(c.ClaimRooms, func(r *ClaimRoom) bool {
		if drop(r) {
			removed = append(removed, r)
			return true
		}
		return false
	})
	c.RemoteRooms = slices.DeleteFunc(c.RemoteRooms, func(r *RemoteRoom) bool {
		if drop(r) {
			removed = append(removed, r)
			return true
		}
		return false
	})
	c.AttackRooms = slices.DeleteFunc(c.AttackRooms, func(r *AttackRoom) bool {
		if drop(r) {
			removed = append(removed, r)
			return true
		}
		return false
	})
	return removed
}

// ActiveAttackMarker returns the active marker and its room, if any.
func (c *Colony) ActiveAttackMarker() (*AttackRoom, *AttackMarker, bool) {
	for _, r := range c.AttackRooms {
		for i := range r.Markers {
			if r.Markers[i].Active {
				return r, &r.Markers[i], true
			}
		}
	}
	return nil, nil, false
}

type Agent struct {
	Name        string       `json:"name"`
	Role        Role         `json:"role"`
	Home        string       `json:"home"`
	TargetRoom  string       `json:"target_room,omitempty"`
	Job         *jobs.Ref    `json:"job,omitempty"`
	Working     bool         `json:"working"`
	Options     Capabilities `json:"options"`
	Squad       *Squad       `json:"squad,omitempty"`
	Tier        Tier         `json:"tier"`
	SpawnedTick uint64       `json:"spawned_tick"`
	Version     int64        `json:"version"`
}

func (a *Agent) Validate() error {
	if a == nil || a.Name == "" || a.Home == "" || !a.Role.Valid() {
		return ErrInvalidAgent
	}
	return nil
}

// WorkRoom is the room the agent works in: its target room when it has one.
func (a *Agent) WorkRoom() string {
	if a.TargetRoom != "" {
		return a.TargetRoom
	}
	return a.Home
}

// ClearJob resets the task phase.
func (a *Agent) ClearJob() {
	a.Job = nil
	a.Working = false
}

type MarkerKind string

const (
	MarkerRemote    MarkerKind = "remote"
	MarkerClaim     MarkerKind = "claim"
	MarkerAttack    MarkerKind = "attack"
	MarkerOverride  MarkerKind = "override"
	MarkerStimulate MarkerKind = "stimulate"
	MarkerUnhandled MarkerKind = "unhandled"
)

// MarkerMemory is the ingestion state of one world marker.
type MarkerMemory struct {
	Name       string     `json:"name"`
	Room       string     `json:"room"`
	Kind       MarkerKind `json:"kind,omitempty"`
	Colony     string     `json:"colony,omitempty"`
	Processed  bool       `json:"processed"`
	Complete   bool       `json:"complete"`
	PlacedTick uint64     `json:"placed_tick"`
}
