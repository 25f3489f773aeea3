package tick

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"hivemind/internal/app/agent"
	"hivemind/internal/app/assign"
	"hivemind/internal/app/classify"
	"hivemind/internal/app/dependent"
	"hivemind/internal/app/fault"
	"hivemind/internal/app/ports"
	"hivemind/internal/app/spawn"
	"hivemind/internal/domain/colony"
	"hivemind/internal/domain/jobs"
	"hivemind/internal/domain/world"
)

type Report struct {
	Tick        uint64              `json:"tick"`
	Colonies    []ports.ColonyEntry `json:"colonies"`
	Outcomes    []agent.Outcome     `json:"-"`
	Faults      []*fault.Fault      `json:"-"`
	Removed     []string            `json:"removed,omitempty"`
	Assignments int                 `json:"assignments"`
	Idle        int                 `json:"idle"`
	Working     int                 `json:"working"`
}

type UseCase struct {
	TxManager ports.TxManager
	Colonies  ports.ColonyRepository
	Agents    ports.AgentRepository
	World     ports.WorldSnapshot
	Classify  classify.UseCase
	Dependent dependent.UseCase
	Runner    agent.UseCase
	Spawn     spawn.UseCase
	Spawner   ports.Spawner
	Remover   ports.MarkerRemover
	Metrics   ports.TickMetrics
	Journal   ports.TickJournal
	Log       logrus.FieldLogger
}

// Run executes one controller tick: refresh the world, ingest markers, then
// classify, reconcile, run agents and plan a spawn for every colony. All
// record writes happen in one transaction. A fault in one agent never stops
// the tick.
func (u UseCase) Run(ctx context.Context, tick uint64) (Report, error) {
	rep := Report{Tick: tick}
	log := u.logger().WithField("tick", tick)

	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		u.World.Refresh(tick)
		colonies, err := u.loadColonies(txCtx)
		if err != nil {
			return err
		}
		markers := u.World.Markers()
		faults, err := u.Dependent.IngestMarkers(txCtx, colonies, markers, tick)
		if err != nil {
			return fmt.Errorf("ingest markers: %w", err)
		}
		for _, f := range faults {
			u.report(&rep, log, f)
			// Unusable markers are complete and leave the world.
			u.removeMarker(txCtx, log, f.Entity)
		}

		for _, c := range colonies {
			entry, err := u.runColony(txCtx, c, markers, tick, &rep, log.WithField("colony", c.Name))
			if err != nil {
				return fmt.Errorf("colony %s: %w", c.Name, err)
			}
			rep.Colonies = append(rep.Colonies, entry)
		}
		return nil
	})
	if err != nil {
		return rep, err
	}

	agents := 0
	for _, c := range rep.Colonies {
		agents += c.Agents
	}
	u.metrics().RecordTick(len(rep.Colonies), agents)
	if u.Journal != nil {
		if err := u.Journal.Append(ctx, rep.Record()); err != nil {
			log.WithError(err).Warn("journal append failed")
		}
	}
	return rep, nil
}

// loadColonies returns every stored colony plus new records for owned rooms
// seen for the first time, ordered by name.
func (u UseCase) loadColonies(ctx context.Context) ([]*colony.Colony, error) {
	stored, err := u.Colonies.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list colonies: %w", err)
	}
	for _, room := range u.World.OwnedRooms() {
		if !slices.ContainsFunc(stored, func(c *colony.Colony) bool { return c.Name == room }) {
			stored = append(stored, colony.NewColony(room))
		}
	}
	slices.SortFunc(stored, func(a, b *colony.Colony) int { return strings.Compare(a.Name, b.Name) })
	for _, c := range stored {
		c.EnsureBoard()
	}
	return stored, nil
}

func (u UseCase) runColony(ctx context.Context, c *colony.Colony, markers []world.Marker, tick uint64, rep *Report, log logrus.FieldLogger) (ports.ColonyEntry, error) {
	stored, err := u.Agents.ListByColony(ctx, c.Name)
	if err != nil {
		return ports.ColonyEntry{}, fmt.Errorf("list agents: %w", err)
	}
	live, err := u.buryDead(ctx, c, stored, tick, rep, log)
	if err != nil {
		return ports.ColonyEntry{}, err
	}

	u.Classify.Classify(c, len(live))
	rec, err := u.Dependent.ReconcileDependentRooms(ctx, c, markers, live, tick)
	if err != nil {
		return ports.ColonyEntry{}, fmt.Errorf("reconcile: %w", err)
	}
	for _, name := range rec.Completed {
		u.removeMarker(ctx, log, name)
	}
	if len(rec.Removed) > 0 {
		log.WithField("records", rec.Removed).Info("dependent rooms dropped")
	}
	if len(rec.Rearmed) > 0 {
		log.WithField("markers", rec.Rearmed).Info("attack markers rearmed")
	}

	assign.SortByPriority(live)
	for _, a := range live {
		out, f := u.runAgent(ctx, c, a, live, tick)
		rep.Outcomes = append(rep.Outcomes, out)
		if f != nil {
			u.report(rep, log.WithField("agent", a.Name), f)
		}
		u.count(rep, a, out)
		expected := a.Version
		a.Version++
		if err := u.Agents.SaveWithVersion(ctx, a, expected); err != nil {
			return ports.ColonyEntry{}, fmt.Errorf("save agent %s: %w", a.Name, err)
		}
	}

	entry := ports.ColonyEntry{
		Name:     c.Name,
		State:    c.State.String(),
		Defcon:   c.Defcon,
		Agents:   len(live),
		Activate: rec.Activated,
	}
	if spawned, err := u.spawnNext(ctx, c, live, tick, log); err != nil {
		return entry, err
	} else if spawned != nil {
		entry.Spawned = spawned.Name
	}
	entry.Taken = c.Jobs.TakenCount()

	c.UpdatedTick = tick
	expected := c.Version
	c.Version++
	if err := u.Colonies.SaveWithVersion(ctx, c, expected); err != nil {
		return entry, fmt.Errorf("save colony: %w", err)
	}
	return entry, nil
}

// buryDead deletes the records of agents that left the world and releases
// their jobs. Agents spawned this tick are kept.
func (u UseCase) buryDead(ctx context.Context, c *colony.Colony, agents []*colony.Agent, tick uint64, rep *Report, log logrus.FieldLogger) ([]*colony.Agent, error) {
	live := make([]*colony.Agent, 0, len(agents))
	for _, a := range agents {
		if _, ok := u.World.Agent(a.Name); ok || a.SpawnedTick >= tick {
			live = append(live, a)
			continue
		}
		if a.Job != nil {
			c.Jobs.Release(*a.Job)
		}
		if err := u.Agents.Delete(ctx, a.Name); err != nil && !errors.Is(err, ports.ErrNotFound) {
			return nil, fmt.Errorf("delete agent %s: %w", a.Name, err)
		}
		rep.Removed = append(rep.Removed, a.Name)
		log.WithFields(logrus.Fields{"agent": a.Name, "role": a.Role}).Info("agent gone")
	}
	return live, nil
}

// runAgent isolates one agent: errors and panics become faults.
func (u UseCase) runAgent(ctx context.Context, c *colony.Colony, a *colony.Agent, live []*colony.Agent, tick uint64) (out agent.Outcome, f *fault.Fault) {
	defer func() {
		if r := recover(); r != nil {
			out = agent.Outcome{Agent: a.Name, Phase: agent.PhaseIdle}
			f = fault.Configuration(a.Name, fmt.Errorf("panic: %v", r))
		}
	}()
	out, err := u.Runner.RunTick(ctx, c, a, agent.SquadOf(a, live), tick)
	return out, fault.From(a.Name, err)
}

func (u UseCase) spawnNext(ctx context.Context, c *colony.Colony, live []*colony.Agent, tick uint64, log logrus.FieldLogger) (*colony.Agent, error) {
	if u.Spawner == nil {
		return nil, nil
	}
	req, ok := u.Spawn.Next(ctx, c, live, tick)
	if !ok {
		return nil, nil
	}
	if err := u.Spawner.Spawn(ctx, req.SpawnRequest); err != nil {
		log.WithError(err).WithField("role", req.Role).Debug("spawn deferred")
		return nil, nil
	}
	a := u.Spawn.Commit(c, req)
	a.Version = 1
	if err := u.Agents.SaveWithVersion(ctx, a, 0); err != nil {
		return nil, fmt.Errorf("save spawned agent %s: %w", a.Name, err)
	}
	u.metrics().RecordSpawn(a.Role)
	log.WithFields(logrus.Fields{"agent": a.Name, "role": a.Role, "target": a.TargetRoom}).Info("agent spawned")
	return a, nil
}

func (u UseCase) removeMarker(ctx context.Context, log logrus.FieldLogger, name string) {
	if u.Remover == nil {
		return
	}
	if err := u.Remover.RemoveMarker(ctx, name); err != nil && !errors.Is(err, ports.ErrNotFound) {
		log.WithError(err).WithField("marker", name).Warn("marker removal failed")
	}
}

func (u UseCase) report(rep *Report, log logrus.FieldLogger, f *fault.Fault) {
	fault.Log(log, f)
	rep.Faults = append(rep.Faults, f)
	u.metrics().RecordFault(f.KindName(), f.Severity.String())
}

func (u UseCase) count(rep *Report, a *colony.Agent, out agent.Outcome) {
	switch {
	case out.Assigned:
		rep.Assignments++
		u.metrics().RecordAssignment(a.Role, out.Category)
	case out.Phase == agent.PhaseIdle && !out.Completed:
		rep.Idle++
		u.metrics().RecordIdle(a.Role)
	}
	if out.Phase == agent.PhaseWorking {
		rep.Working++
	}
}

func (u UseCase) logger() logrus.FieldLogger {
	if u.Log == nil {
		return logrus.StandardLogger()
	}
	return u.Log
}

func (u UseCase) metrics() ports.TickMetrics {
	if u.Metrics == nil {
		return noopMetrics{}
	}
	return u.Metrics
}

type noopMetrics struct{}

func (noopMetrics) RecordTick(int, int)                         {}
func (noopMetrics) RecordAssignment(colony.Role, jobs.Category) {}
func (noopMetrics) RecordIdle(colony.Role)                      {}
func (noopMetrics) RecordFault(string, string)                  {}
func (noopMetrics) RecordSpawn(colony.Role)                     {}

// Record is the journal form of the report.
func (r Report) Record() ports.TickRecord {
	rec := ports.TickRecord{
		Tick:        r.Tick,
		Colonies:    r.Colonies,
		Assignments: r.Assignments,
		Idle:        r.Idle,
		Working:     r.Working,
		Removed:     r.Removed,
	}
	for _, f := range r.Faults {
		rec.Faults = append(rec.Faults, ports.FaultEntry{
			Kind:     f.KindName(),
			Severity: f.Severity.String(),
			Entity:   f.Entity,
			Message:  f.Error(),
		})
	}
	return rec
}
