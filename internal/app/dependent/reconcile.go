package dependent

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"hivemind/internal/app/ports"
	"hivemind/internal/domain/colony"
	"hivemind/internal/domain/world"
)

type Reconciliation struct {
	Pruned  int
	Removed []string
	// Completed lists attack markers whose squad has spawned and died; the
	// caller removes them from the world.
	Completed []string
	// Rearmed lists reusable attack markers reset after their squad died.
	Rearmed   []string
	Activated string
}

// ReconcileDependentRooms drops references to vanished markers, removes
// records left without markers, refreshes remote room intel and makes sure one
// attack marker is active.
func (u UseCase) ReconcileDependentRooms(ctx context.Context, c *colony.Colony, markers []world.Marker, agents []*colony.Agent, tick uint64) (Reconciliation, error) {
	var out Reconciliation
	live := make(map[string]bool, len(markers))
	for _, m := range markers {
		live[m.Name] = true
	}

	for _, r := range c.AttackRooms {
		var keep []colony.AttackMarker
		for _, m := range r.Markers {
			switch {
			case !live[m.FlagName]:
				continue
			case squadFinished(m, agents) && !u.cfg.oneTimeUse(m.Kind):
				// reusable marker: stand down and raise a fresh squad on activation
				m.Active, m.Spawned, m.SquadUUID = false, 0, ""
				out.Rearmed = append(out.Rearmed, m.FlagName)
			case squadFinished(m, agents):
				out.Completed = append(out.Completed, m.FlagName)
				if err := u.complete(ctx, m.FlagName); err != nil {
					return out, err
				}
				continue
			}
			keep = append(keep, m)
		}
		r.Markers = keep
		r.PruneMarkers(func(name string) bool {
			return slices.ContainsFunc(keep, func(m colony.AttackMarker) bool { return m.FlagName == name })
		})
	}
	for _, d := range c.Dependents() {
		out.Pruned += d.Base().PruneMarkers(func(name string) bool { return live[name] })
	}
	for _, d := range c.RemoveDependentsWhere(func(d colony.DependentRoom) bool { return len(d.Base().MarkerNames) == 0 }) {
		out.Removed = append(out.Removed, fmt.Sprintf("%s:%s", d.Kind(), d.Base().RoomName))
	}

	if c.StimulateFlag != "" && !live[c.StimulateFlag] {
		c.Stimulate = false
		c.StimulateFlag = ""
	}
	u.refreshRemoteIntel(c)
	if name, ok := u.ActivateAttackFlags(c); ok {
		out.Activated = name
	}
	c.UpdatedTick = tick
	return out, nil
}

// squadFinished is true for an active marker whose whole squad has been
// spawned and no member is alive any more.
func squadFinished(m colony.AttackMarker, agents []*colony.Agent) bool {
	if !m.Active || m.SquadSize == 0 || m.Spawned < m.SquadSize {
		return false
	}
	return !slices.ContainsFunc(agents, func(a *colony.Agent) bool {
		return a.Squad != nil && a.Squad.UUID == m.SquadUUID
	})
}

func (u UseCase) complete(ctx context.Context, name string) error {
	mem, err := u.Markers.Get(ctx, name)
	if errors.Is(err, ports.ErrNotFound) {
		mem = colony.MarkerMemory{Name: name, Kind: colony.MarkerAttack, Processed: true}
	} else if err != nil {
		return fmt.Errorf("load marker %s: %w", name, err)
	}
	mem.Complete = true
	if err := u.Markers.Save(ctx, mem); err != nil {
		return fmt.Errorf("complete marker %s: %w", name, err)
	}
	return nil
}

func (u UseCase) refreshRemoteIntel(c *colony.Colony) {
	for _, r := range c.RemoteRooms {
		info, ok := u.World.Room(r.RoomName)
		if !ok {
			continue
		}
		if n := len(u.World.Sources(r.RoomName)); n > 0 {
			r.Sources = n
		}
		r.ReserveTTL = 0
		if ctrl := info.Controller; ctrl != nil && ctrl.ReservedBy != "" && ctrl.ReservedBy == u.cfg.Username {
			r.ReserveTTL = ctrl.ReservationTicks
		}
		r.Defcon = u.Classify.RoomDefcon(r.RoomName)
	}
}
