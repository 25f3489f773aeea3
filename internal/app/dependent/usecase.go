package dependent

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"hivemind/internal/app/assign"
	"hivemind/internal/app/classify"
	"hivemind/internal/app/fault"
	"hivemind/internal/app/ports"
	"hivemind/internal/domain/colony"
	"hivemind/internal/domain/world"
)

var (
	ErrUnhandledMarker = errors.New("unhandled marker")
	ErrNoColony        = errors.New("no colony can own the marker")
)

// OverrideSeparator splits an override marker name from the colony it names,
// as in "keep@W1N1".
const OverrideSeparator = "@"

type Config struct {
	Username string
	// OneTimeUse marks attack kinds whose marker is completed once its squad
	// has died. Kinds not listed are one-time-use.
	OneTimeUse map[colony.AttackKind]bool
}

func (c Config) oneTimeUse(k colony.AttackKind) bool {
	once, ok := c.OneTimeUse[k]
	return !ok || once
}

type UseCase struct {
	World    ports.WorldSnapshot
	Markers  ports.MarkerRepository
	Classify classify.UseCase
	NewUUID  func() string
	cfg      Config
}

func NewUseCase(world ports.WorldSnapshot, markers ports.MarkerRepository, classifier classify.UseCase, cfg Config) UseCase {
	return UseCase{World: world, Markers: markers, Classify: classifier, NewUUID: uuid.NewString, cfg: cfg}
}

// Kind maps marker colours onto the kind of record they create.
func Kind(m world.Marker) (colony.MarkerKind, colony.AttackKind) {
	switch m.Color {
	case world.ColorYellow:
		return colony.MarkerRemote, 0
	case world.ColorRed:
		switch m.SecondaryColor {
		case world.ColorRed:
			return colony.MarkerAttack, colony.AttackZealotSolo
		case world.ColorBlue:
			return colony.MarkerAttack, colony.AttackStalkerSolo
		default:
			return colony.MarkerAttack, colony.AttackStandardSquad
		}
	case world.ColorWhite:
		return colony.MarkerClaim, 0
	case world.ColorGreen:
		switch m.SecondaryColor {
		case world.ColorWhite:
			return colony.MarkerOverride, 0
		case world.ColorYellow:
			return colony.MarkerStimulate, 0
		}
	}
	return colony.MarkerUnhandled, 0
}

// IngestMarkers turns markers without a processed memory into dependent room
// records of the owning colony. Memories of markers that no longer exist are
// forgotten. Each marker that cannot be used yields an unhandled input fault
// and is marked complete so it is not read again.
func (u UseCase) IngestMarkers(ctx context.Context, colonies []*colony.Colony, markers []world.Marker, tick uint64) ([]*fault.Fault, error) {
	live := make(map[string]bool, len(markers))
	for _, m := range markers {
		live[m.Name] = true
	}
	known, err := u.Markers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list markers: %w", err)
	}
	processed := map[string]bool{}
	overrides := map[string]string{}
	for _, mem := range known {
		if !live[mem.Name] {
			if err := u.Markers.Delete(ctx, mem.Name); err != nil && !errors.Is(err, ports.ErrNotFound) {
				return nil, fmt.Errorf("forget marker %s: %w", mem.Name, err)
			}
			continue
		}
		processed[mem.Name] = mem.Processed
		if mem.Kind == colony.MarkerOverride && !mem.Complete {
			overrides[mem.Room] = mem.Colony
		}
	}

	var pending []world.Marker
	for _, m := range markers {
		if !processed[m.Name] {
			pending = append(pending, m)
		}
	}
	// Overrides first so that markers placed in the same tick follow them.
	slices.SortStableFunc(pending, func(a, b world.Marker) int {
		ka, _ := Kind(a)
		kb, _ := Kind(b)
		switch {
		case ka == colony.MarkerOverride && kb != colony.MarkerOverride:
			return -1
		case kb == colony.MarkerOverride && ka != colony.MarkerOverride:
			return 1
		}
		return 0
	})

	var faults []*fault.Fault
	for _, m := range pending {
		mem, f := u.ingest(colonies, overrides, m, tick)
		if f != nil {
			faults = append(faults, f)
		}
		if err := u.Markers.Save(ctx, mem); err != nil {
			return faults, fmt.Errorf("save marker %s: %w", m.Name, err)
		}
	}
	return faults, nil
}

func (u UseCase) ingest(colonies []*colony.Colony, overrides map[string]string, m world.Marker, tick uint64) (colony.MarkerMemory, *fault.Fault) {
	kind, attack := Kind(m)
	room := m.Pos.Room
	mem := colony.MarkerMemory{Name: m.Name, Room: room, Kind: kind, Processed: true, PlacedTick: tick}
	unhandled := func(err error) (colony.MarkerMemory, *fault.Fault) {
		mem.Kind = colony.MarkerUnhandled
		mem.Complete = true
		return mem, fault.UnhandledInput(m.Name, err)
	}

	switch kind {
	case colony.MarkerOverride:
		_, name, ok := strings.Cut(m.Name, OverrideSeparator)
		target := findColony(colonies, name)
		if !ok || target == nil {
			return unhandled(fmt.Errorf("%w: override names no colony", ErrUnhandledMarker))
		}
		adopt(colonies, target, room)
		overrides[room] = target.Name
		mem.Colony = target.Name
		return mem, nil

	case colony.MarkerStimulate:
		c := findColony(colonies, room)
		if c == nil {
			return unhandled(fmt.Errorf("%w: stimulate outside an owned room", ErrUnhandledMarker))
		}
		c.Stimulate = true
		c.StimulateFlag = m.Name
		mem.Colony = c.Name
		return mem, nil

	case colony.MarkerRemote, colony.MarkerClaim, colony.MarkerAttack:
		owner := findColony(colonies, overrides[room])
		if owner == nil {
			owner = closest(colonies, room)
		}
		if owner == nil {
			return unhandled(fmt.Errorf("%w: %s", ErrNoColony, room))
		}
		mem.Colony = owner.Name
		if err := u.attach(owner, kind, attack, m, tick); err != nil {
			mem.Complete = true
			return mem, fault.Configuration(m.Name, err)
		}
		return mem, nil
	}
	return unhandled(fmt.Errorf("%w: colors %d/%d", ErrUnhandledMarker, m.Color, m.SecondaryColor))
}

func (u UseCase) attach(c *colony.Colony, kind colony.MarkerKind, attack colony.AttackKind, m world.Marker, tick uint64) error {
	room := m.Pos.Room
	var rec colony.DependentRoom
	var err error
	switch kind {
	case colony.MarkerRemote:
		rec, err = ensureDependent(c, colony.DependentRemote, room, func() colony.DependentRoom {
			return &colony.RemoteRoom{DependentBase: colony.DependentBase{RoomName: room}, Sources: max(1, len(u.World.Sources(room)))}
		})
	case colony.MarkerClaim:
		rec, err = ensureDependent(c, colony.DependentClaim, room, func() colony.DependentRoom {
			return &colony.ClaimRoom{DependentBase: colony.DependentBase{RoomName: room}}
		})
	case colony.MarkerAttack:
		rec, err = ensureDependent(c, colony.DependentAttack, room, func() colony.DependentRoom {
			return &colony.AttackRoom{DependentBase: colony.DependentBase{RoomName: room}}
		})
		if err == nil {
			ar := rec.(*colony.AttackRoom)
			ar.Markers = append(ar.Markers, colony.AttackMarker{
				FlagName:   m.Name,
				Kind:       attack,
				SquadSize:  len(colony.SquadRoles(attack)),
				PlacedTick: tick,
			})
		}
	default:
		return fmt.Errorf("%w: %s is not a dependent room marker", ErrUnhandledMarker, m.Name)
	}
	if err != nil {
		return err
	}
	rec.Base().AddMarker(m.Name)
	return nil
}

// ensureDependent returns the colony's record of kind for room, creating it
// when missing.
func ensureDependent(c *colony.Colony, kind colony.DependentKind, room string, create func() colony.DependentRoom) (colony.DependentRoom, error) {
	if existing, ok := c.FindDependent(kind, room); ok {
		return existing, nil
	}
	rec := create()
	if err := c.AddDependent(rec); err != nil {
		return nil, fmt.Errorf("attach %s room %s to %s: %w", kind, room, c.Name, err)
	}
	return rec, nil
}

func findColony(colonies []*colony.Colony, name string) *colony.Colony {
	if name == "" {
		return nil
	}
	for _, c := range colonies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// closest picks the colony nearest to room by room distance. Ties keep the
// first colony in the list.
func closest(colonies []*colony.Colony, room string) *colony.Colony {
	var best *colony.Colony
	bestDist := 0
	for _, c := range colonies {
		d, err := world.RoomDistance(c.Name, room)
		if err != nil {
			continue
		}
		if best == nil || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// adopt moves every dependent record of room into target.
func adopt(colonies []*colony.Colony, target *colony.Colony, room string) {
	for _, c := range colonies {
		if c == target {
			continue
		}
		moved := c.RemoveDependentsWhere(func(d colony.DependentRoom) bool { return d.Base().RoomName == room })
		for _, d := range moved {
			if err := target.AddDependent(d); errors.Is(err, colony.ErrDuplicateRoom) {
				existing, _ := target.FindDependent(d.Kind(), room)
				for _, name := range d.Base().MarkerNames {
					existing.Base().AddMarker(name)
				}
				if src, ok := d.(*colony.AttackRoom); ok {
					dst := existing.(*colony.AttackRoom)
					dst.Markers = append(dst.Markers, src.Markers...)
				}
			}
		}
	}
}

// ActivateAttackFlags activates the first inactive attack marker of the colony
// when none is active, and queues its squad. It returns the activated marker.
func (u UseCase) ActivateAttackFlags(c *colony.Colony) (string, bool) {
	if _, _, active := c.ActiveAttackMarker(); active {
		return "", false
	}
	for _, r := range c.AttackRooms {
		for i := range r.Markers {
			m := &r.Markers[i]
			if m.Active {
				continue
			}
			m.Active = true
			if m.SquadUUID == "" {
				m.SquadUUID = u.NewUUID()
			}
			assign.QueueMilitary(c, colony.SquadRoles(m.Kind)...)
			return m.FlagName, true
		}
	}
	return "", false
}
