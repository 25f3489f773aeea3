package assign

import (
	"context"

	"hivemind/internal/domain/colony"
)

type roomTarget struct {
	room  string
	limit int
}

// targets lists the dependent rooms a role can be sent to, with the number of
// agents of that role each room takes.
func (u UseCase) targets(c *colony.Colony, role colony.Role) []roomTarget {
	var out []roomTarget
	switch role {
	case colony.RoleClaimer, colony.RoleRemoteColonizer:
		for _, r := range c.ClaimRooms {
			out = append(out, roomTarget{room: r.RoomName, limit: 1})
		}
	case colony.RoleRemoteHarvester:
		for _, r := range c.RemoteRooms {
			out = append(out, roomTarget{room: r.RoomName, limit: 2 * r.Sources})
		}
	case colony.RoleRemoteMiner:
		for _, r := range c.RemoteRooms {
			out = append(out, roomTarget{room: r.RoomName, limit: r.Sources})
		}
	case colony.RoleRemoteReserver:
		for _, r := range c.RemoteRooms {
			if r.ReserveTTL <= u.cfg.ReserverMinTTL {
				out = append(out, roomTarget{room: r.RoomName, limit: 1})
			}
		}
	case colony.RoleRemoteDefender:
		for _, r := range c.RemoteRooms {
			if r.Defcon > 0 {
				out = append(out, roomTarget{room: r.RoomName, limit: 1})
			}
		}
	}
	return out
}

// AssignDependentRoom picks the dependent room a new agent of the role should
// work. Agents whose remaining lifetime is at most bodySize*3 ticks do not
// count, so a successor is sent before the incumbent expires. Among rooms
// below their limit the one with the fewest agents wins; ties keep the first
// room in record order.
func (u UseCase) AssignDependentRoom(ctx context.Context, c *colony.Colony, role colony.Role, bodySize int, agents []*colony.Agent) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}
	tickLimit := bodySize * 3
	best, bestCount := "", 0
	for _, t := range u.targets(c, role) {
		count := 0
		for _, a := range agents {
			if a.Role != role || a.TargetRoom != t.room {
				continue
			}
			if creepTTL(u.World, a.Name, u.cfg.SpawningTTL) > tickLimit {
				count++
			}
		}
		if count >= t.limit {
			continue
		}
		if best == "" || count < bestCount {
			best, bestCount = t.room, count
		}
	}
	return best, best != ""
}
