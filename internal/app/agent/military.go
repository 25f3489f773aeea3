package agent

import (
	"context"
	"slices"

	"hivemind/internal/app/ports"
	"hivemind/internal/domain/colony"
	"hivemind/internal/domain/world"
)

type combatStyle int

const (
	attackMelee combatStyle = iota
	attackRanged
	healFriends
)

// roomCentre is where agents head when they only know the room.
const roomCentre = 25

type militaryHandler struct {
	action combatStyle
}

// Acquire lets one squad member hold the attack job of its marker, so the job
// is taken while the squad is in the field. Targets are still picked every
// tick and the agent never idles for lack of a job.
func (militaryHandler) Acquire(ctx context.Context, uc UseCase, tc *TickContext) (bool, error) {
	if sq := tc.Agent.Squad; sq == nil || sq.UUID == "" {
		return true, nil
	}
	if _, err := uc.acquireJob(ctx, tc); err != nil {
		return false, err
	}
	return true, nil
}

func (h militaryHandler) Act(ctx context.Context, uc UseCase, tc *TickContext) error {
	handled, err := uc.basics(ctx, tc)
	if handled || err != nil {
		return err
	}
	if h.action == healFriends {
		return uc.heal(ctx, tc)
	}
	return uc.attack(ctx, tc, h.action)
}

// SquadOf returns the agents sharing a squad UUID with a, a included.
func SquadOf(a *colony.Agent, agents []*colony.Agent) []*colony.Agent {
	if a.Squad == nil || a.Squad.UUID == "" {
		return []*colony.Agent{a}
	}
	var out []*colony.Agent
	for _, other := range agents {
		if other.Squad != nil && other.Squad.UUID == a.Squad.UUID {
			out = append(out, other)
		}
	}
	if !slices.Contains(out, a) {
		out = append(out, a)
	}
	return out
}

// basics handles retreat, rallying and travel. It reports true when it used
// the agent's tick.
func (u UseCase) basics(ctx context.Context, tc *TickContext) (bool, error) {
	a, creep := tc.Agent, tc.Creep
	if creep.HitsMax > 0 && float64(creep.Hits)/float64(creep.HitsMax) < u.cfg.FleeHitsRatio && creep.Pos.Room != a.Home {
		tc.Outcome.Phase = PhaseTraveling
		tc.Outcome.Action = "flee"
		return true, u.moveToRoom(ctx, a.Name, a.Home)
	}

	if sq := a.Squad; sq != nil && sq.Rally != nil && !sq.RallyDone {
		if u.rallied(tc) {
			for _, m := range tc.Squad {
				if m.Squad != nil {
					m.Squad.RallyDone = true
				}
			}
		} else {
			tc.Outcome.Phase = PhaseTraveling
			tc.Outcome.Action = "rally"
			return true, u.Actuator.MoveToward(ctx, a.Name, *sq.Rally, ports.MoveOptions{
				Range: u.cfg.RallyRange, ReusePath: u.cfg.ReusePath, HeuristicWeight: u.cfg.HeuristicWeight,
			})
		}
	}

	room := militaryRoom(tc.Colony, a)
	if creep.Pos.Room != room {
		tc.Outcome.Phase = PhaseTraveling
		tc.Outcome.Action = "travel"
		return true, u.moveToRoom(ctx, a.Name, room)
	}
	return false, nil
}

// rallied reports whether the whole squad stands near the rally point.
func (u UseCase) rallied(tc *TickContext) bool {
	sq := tc.Agent.Squad
	present := 0
	for _, m := range tc.Squad {
		creep, ok := u.World.Agent(m.Name)
		if ok && !creep.Spawning && creep.Pos.InRange(*sq.Rally, u.cfg.RallyRange) {
			present++
		}
	}
	return present >= max(1, sq.Size)
}

// militaryRoom is the room a military agent fights in. Squad members without a
// target room follow their attack marker.
func militaryRoom(c *colony.Colony, a *colony.Agent) string {
	if a.TargetRoom != "" {
		return a.TargetRoom
	}
	if a.Squad != nil && a.Squad.UUID != "" {
		for _, r := range c.AttackRooms {
			for _, m := range r.Markers {
				if m.SquadUUID == a.Squad.UUID {
					return r.RoomName
				}
			}
		}
	}
	return a.Home
}

func (u UseCase) moveToRoom(ctx context.Context, agent, room string) error {
	return u.Actuator.MoveToward(ctx, agent, world.Position{Room: room, X: roomCentre, Y: roomCentre}, ports.MoveOptions{
		Range: 20, ReusePath: u.cfg.ReusePath, HeuristicWeight: u.cfg.HeuristicWeight,
	})
}

func (u UseCase) hostiles(room string) []world.Creep {
	all := u.World.HostileAgents(room)
	out := all[:0:0]
	for _, h := range all {
		if !slices.Contains(u.cfg.Allies, h.Owner) {
			out = append(out, h)
		}
	}
	return out
}

// attack engages the nearest hostile within the role's engagement range. With
// nothing in range the agent holds its position.
func (u UseCase) attack(ctx context.Context, tc *TickContext, style combatStyle) error {
	creep := tc.Creep
	reach := u.cfg.EngagementRange[tc.Agent.Role]
	var target *world.Creep
	best := 0
	hostiles := u.hostiles(creep.Pos.Room)
	for i, h := range hostiles {
		d := creep.Pos.RangeTo(h.Pos)
		if d > reach {
			continue
		}
		if target == nil || d < best {
			target, best = &hostiles[i], d
		}
	}
	if target == nil {
		tc.Outcome.Phase = PhaseIdle
		tc.Outcome.Action = "idle"
		return nil
	}

	action, strike := ports.CombatAttack, 1
	if style == attackRanged {
		action, strike = ports.CombatRangedAttack, 3
	}
	if best > strike {
		tc.Outcome.Phase = PhaseTraveling
		tc.Outcome.Action = "move"
		return u.Actuator.MoveToward(ctx, tc.Agent.Name, target.Pos, ports.MoveOptions{
			Range: strike, ReusePath: 1, HeuristicWeight: u.cfg.HeuristicWeight,
		})
	}
	tc.Outcome.Phase = PhaseWorking
	tc.Outcome.Action = string(action)
	return u.Actuator.Engage(ctx, tc.Agent.Name, target.ID, action)
}

// heal tends the most damaged friendly within range.
func (u UseCase) heal(ctx context.Context, tc *TickContext) error {
	creep := tc.Creep
	reach := u.cfg.EngagementRange[tc.Agent.Role]
	hurt := u.World.FriendlyAgents(creep.Pos.Room, func(c world.Creep) bool {
		return c.IsDamaged() && creep.Pos.InRange(c.Pos, reach)
	})
	if len(hurt) == 0 {
		tc.Outcome.Phase = PhaseIdle
		tc.Outcome.Action = "idle"
		return nil
	}
	slices.SortStableFunc(hurt, func(x, y world.Creep) int {
		return (y.HitsMax - y.Hits) - (x.HitsMax - x.Hits)
	})
	target := hurt[0]
	if creep.Pos.RangeTo(target.Pos) > 1 {
		tc.Outcome.Phase = PhaseTraveling
		tc.Outcome.Action = "move"
		return u.Actuator.MoveToward(ctx, tc.Agent.Name, target.Pos, ports.MoveOptions{
			Range: 1, ReusePath: 1, HeuristicWeight: u.cfg.HeuristicWeight,
		})
	}
	tc.Outcome.Phase = PhaseWorking
	tc.Outcome.Action = string(ports.CombatHeal)
	return u.Actuator.Engage(ctx, tc.Agent.Name, target.ID, ports.CombatHeal)
}
