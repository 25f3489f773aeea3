package tick

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	sqliterepo "hivemind/internal/adapter/repo/sqlite"
	"hivemind/internal/app/agent"
	"hivemind/internal/app/fault"
	"hivemind/internal/app/ports"
	"hivemind/internal/domain/colony"
	"hivemind/internal/domain/world"
)

func TestRun_FaultInOneAgentDoesNotStopTheTick(t *testing.T) {
	h := newHarness(newWorld())
	harvester := h.addAgent(colony.RoleHarvester, 1)
	worker := h.addAgent(colony.RoleWorker, 2)
	h.uc.Runner.Register(agent.RoleSpec{Role: colony.RoleWorker, Handler: panicHandler{}})

	rep, err := h.uc.Run(context.Background(), 100)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(rep.Faults) != 1 || rep.Faults[0].Entity != worker.Name || !errors.Is(rep.Faults[0], fault.ErrConfiguration) {
		t.Fatalf("expected one configuration fault for %s, got %+v", worker.Name, rep.Faults)
	}
	if h.metrics.faults["configuration"] != 1 {
		t.Fatalf("expected fault metric, got %+v", h.metrics.faults)
	}
	saved, err := h.agents.Get(context.Background(), harvester.Name)
	if err != nil {
		t.Fatalf("get harvester: %v", err)
	}
	if saved.Version != 2 || saved.Job == nil {
		t.Fatalf("expected harvester assigned and saved, got %+v", saved)
	}
	if w, _ := h.agents.Get(context.Background(), worker.Name); w.Version != 2 {
		t.Fatalf("expected faulted worker still saved, got version %d", w.Version)
	}
}

func TestRun_DeadAgentReleasesJob(t *testing.T) {
	h := newHarness(newWorld())
	ctx := context.Background()
	h.addAgent(colony.RoleHarvester, 1)
	if _, err := h.uc.Run(ctx, 100); err != nil {
		t.Fatalf("first tick: %v", err)
	}
	name := "harvester_300_W1N1_0001"
	a, _ := h.agents.Get(ctx, name)
	if a.Job == nil {
		t.Fatalf("expected a job after first tick")
	}
	ref := *a.Job

	h.world.RemoveCreep(name)
	rep, err := h.uc.Run(ctx, 101)
	if err != nil {
		t.Fatalf("second tick: %v", err)
	}
	if !slices.Contains(rep.Removed, name) {
		t.Fatalf("expected %s removed, got %v", name, rep.Removed)
	}
	if _, err := h.agents.Get(ctx, name); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected record deleted, got %v", err)
	}
	c, _ := h.cols.Get(ctx, home)
	if j, ok := c.Jobs.Find(ref); ok && j.Taken {
		t.Fatalf("expected job %s released", ref.ID)
	}
}

func TestRun_SpawnIsPersisted(t *testing.T) {
	h := newHarness(newWorld())
	ctx := context.Background()

	rep, err := h.uc.Run(ctx, 10042)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(h.spawner.requests) != 1 || rep.Colonies[0].Spawned != "harvester_300_W1N1_0042" {
		t.Fatalf("expected one spawn, got %+v", h.spawner.requests)
	}
	a, err := h.agents.Get(ctx, rep.Colonies[0].Spawned)
	if err != nil {
		t.Fatalf("expected spawned agent stored: %v", err)
	}
	if a.Role != colony.RoleHarvester || a.SpawnedTick != 10042 {
		t.Fatalf("unexpected spawned agent %+v", a)
	}
	if h.metrics.spawns != 1 {
		t.Fatalf("expected spawn metric, got %d", h.metrics.spawns)
	}

	// Not in the world yet on the tick it was spawned, but not buried either.
	rep, _ = h.uc.Run(ctx, 10042)
	if len(rep.Removed) != 0 {
		t.Fatalf("expected freshly spawned agent kept, got %v", rep.Removed)
	}
}

func TestRun_SpawnedAgentKeepsRunningOnSQLite(t *testing.T) {
	db, err := sqliterepo.OpenSQLite(filepath.Join(t.TempDir(), "hive.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()
	h := newHarness(newWorld())
	agents := sqliterepo.NewAgentRepo(db)
	h.uc.TxManager = sqliterepo.NewTxManager(db)
	h.uc.Colonies = sqliterepo.NewColonyRepo(db)
	h.uc.Agents = agents
	ctx := context.Background()

	rep, err := h.uc.Run(ctx, 100)
	if err != nil {
		t.Fatalf("tick 100: %v", err)
	}
	name := rep.Colonies[0].Spawned
	if name == "" {
		t.Fatalf("expected a spawn on tick 100")
	}
	h.world.AddCreep(world.Creep{
		ID: "id-" + name, Name: name, My: true, Pos: at(20, 21), Hits: 300, HitsMax: 300,
		TicksToLive: 1500, CarryCapacity: 50,
	})

	for _, n := range []uint64{101, 102} {
		if _, err := h.uc.Run(ctx, n); err != nil {
			t.Fatalf("tick %d: %v", n, err)
		}
	}
	a, err := agents.Get(ctx, name)
	if err != nil {
		t.Fatalf("get %s: %v", name, err)
	}
	if a.Version != 3 {
		t.Fatalf("expected version 3 after spawn and two saves, got %d", a.Version)
	}
}

func TestRun_RefusedSpawnIsDeferred(t *testing.T) {
	h := newHarness(newWorld())
	h.spawner.err = errSpawnBusy
	rep, err := h.uc.Run(context.Background(), 5)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.Colonies[0].Spawned != "" {
		t.Fatalf("expected no spawn, got %q", rep.Colonies[0].Spawned)
	}
}

func TestRun_WritesJournalAndColony(t *testing.T) {
	h := newHarness(newWorld())
	ctx := context.Background()
	h.addAgent(colony.RoleHarvester, 1)

	if _, err := h.uc.Run(ctx, 7); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(h.journal.records) != 1 {
		t.Fatalf("expected one journal record, got %d", len(h.journal.records))
	}
	rec := h.journal.records[0]
	if rec.Tick != 7 || len(rec.Colonies) != 1 || rec.Colonies[0].Name != home || rec.Colonies[0].State != "intro" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.Assignments != 1 {
		t.Fatalf("expected one assignment, got %d", rec.Assignments)
	}
	c, err := h.cols.Get(ctx, home)
	if err != nil || c.Version != 1 || c.UpdatedTick != 7 {
		t.Fatalf("expected colony saved at tick 7, got %+v err=%v", c, err)
	}
	if c.Jobs.TakenCount() != 1 {
		t.Fatalf("expected one taken job, got %d", c.Jobs.TakenCount())
	}
	if h.metrics.ticks != 1 {
		t.Fatalf("expected tick metric")
	}
}

func TestRun_JournalFailureDoesNotFailTick(t *testing.T) {
	h := newHarness(newWorld())
	h.journal.err = errors.New("disk full")
	if _, err := h.uc.Run(context.Background(), 1); err != nil {
		t.Fatalf("expected tick to succeed, got %v", err)
	}
}

func TestRun_UnhandledMarkerIsReportedAndRemoved(t *testing.T) {
	w := newWorld()
	w.MarkerList = []world.Marker{{Name: "odd", Pos: world.Position{Room: "W5N5", X: 1, Y: 1}, Color: world.ColorPurple, SecondaryColor: world.ColorPurple}}
	h := newHarness(w)

	rep, err := h.uc.Run(context.Background(), 3)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(rep.Faults) != 1 || !errors.Is(rep.Faults[0], fault.ErrUnhandledInput) {
		t.Fatalf("expected unhandled input fault, got %+v", rep.Faults)
	}
	if !slices.Contains(h.remover.removed, "odd") {
		t.Fatalf("expected marker removed, got %v", h.remover.removed)
	}
	if rec := rep.Record(); len(rec.Faults) != 1 || rec.Faults[0].Kind != "unhandled_input" {
		t.Fatalf("expected fault in journal record, got %+v", rec.Faults)
	}
}

func TestRun_RemoteMarkerCreatesDependentRoom(t *testing.T) {
	w := newWorld()
	w.MarkerList = []world.Marker{{Name: "rm", Pos: world.Position{Room: "W2N1", X: 25, Y: 25}, Color: world.ColorYellow, SecondaryColor: world.ColorYellow}}
	h := newHarness(w)
	ctx := context.Background()
	if _, err := h.uc.Run(ctx, 3); err != nil {
		t.Fatalf("run: %v", err)
	}
	c, _ := h.cols.Get(ctx, home)
	if _, ok := c.FindDependent(colony.DependentRemote, "W2N1"); !ok {
		t.Fatalf("expected remote room record for W2N1")
	}
}
