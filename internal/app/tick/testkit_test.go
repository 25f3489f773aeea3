package tick

import (
	"context"
	"errors"
	"fmt"

	logtest "github.com/sirupsen/logrus/hooks/test"

	"hivemind/internal/adapter/repo/memory"
	worldmock "hivemind/internal/adapter/world/mock"
	"hivemind/internal/app/agent"
	"hivemind/internal/app/assign"
	"hivemind/internal/app/classify"
	"hivemind/internal/app/dependent"
	"hivemind/internal/app/jobqueue"
	"hivemind/internal/app/ports"
	"hivemind/internal/app/spawn"
	"hivemind/internal/domain/colony"
	"hivemind/internal/domain/jobs"
	"hivemind/internal/domain/world"
)

const home = "W1N1"

func at(x, y int) world.Position {
	return world.Position{Room: home, X: x, Y: y}
}

type nopActuator struct{}

func (nopActuator) MoveToward(context.Context, string, world.Position, ports.MoveOptions) error {
	return nil
}

func (nopActuator) PerformWork(context.Context, string, jobs.Job) (ports.WorkStatus, error) {
	return ports.WorkOngoing, nil
}

func (nopActuator) Engage(context.Context, string, string, ports.CombatAction) error { return nil }

type fakeSpawner struct {
	requests []ports.SpawnRequest
	err      error
}

func (f *fakeSpawner) Spawn(_ context.Context, req ports.SpawnRequest) error {
	if f.err != nil {
		return f.err
	}
	f.requests = append(f.requests, req)
	return nil
}

type fakeRemover struct {
	removed []string
}

func (f *fakeRemover) RemoveMarker(_ context.Context, name string) error {
	f.removed = append(f.removed, name)
	return nil
}

type fakeJournal struct {
	records []ports.TickRecord
	err     error
}

func (f *fakeJournal) Append(_ context.Context, rec ports.TickRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, rec)
	return nil
}

type countingMetrics struct {
	ticks, spawns int
	faults        map[string]int
}

func (m *countingMetrics) RecordTick(int, int)                         { m.ticks++ }
func (m *countingMetrics) RecordAssignment(colony.Role, jobs.Category) {}
func (m *countingMetrics) RecordIdle(colony.Role)                      {}
func (m *countingMetrics) RecordFault(kind, _ string)                  { m.faults[kind]++ }
func (m *countingMetrics) RecordSpawn(colony.Role)                     { m.spawns++ }

type panicHandler struct{}

func (panicHandler) Acquire(context.Context, agent.UseCase, *agent.TickContext) (bool, error) {
	panic("boom")
}

func (panicHandler) Act(context.Context, agent.UseCase, *agent.TickContext) error { return nil }

type harness struct {
	world   *worldmock.Provider
	store   *memory.Store
	agents  memory.AgentRepo
	cols    memory.ColonyRepo
	spawner *fakeSpawner
	remover *fakeRemover
	journal *fakeJournal
	metrics *countingMetrics
	uc      UseCase
}

func newWorld() *worldmock.Provider {
	w := worldmock.NewProvider()
	w.Owned = []string{home}
	r := w.EnsureRoom(home)
	r.Info.EnergyCapacity = 300
	r.Info.Controller = &world.Controller{ID: "ctrl", Pos: at(25, 25), Level: 2, My: true}
	r.Sources = []world.Source{{ID: "src1", Pos: at(10, 10), Energy: 3000, EnergyCapacity: 3000, AccessTiles: 2}}
	r.Structures = []world.Structure{
		{ID: "spawn1", Type: world.StructureSpawn, Pos: at(20, 20), Hits: 5000, HitsMax: 5000, Energy: 300, EnergyCapacity: 300, My: true},
	}
	return w
}

func newHarness(w *worldmock.Provider) *harness {
	store := memory.NewStore()
	log, _ := logtest.NewNullLogger()
	queue := jobqueue.NewUseCase(w, jobqueue.Config{})
	assigner := assign.NewUseCase(queue, w, assign.Config{})
	classifier := classify.NewUseCase(w, classify.Config{})
	h := &harness{
		world:   w,
		store:   store,
		agents:  memory.NewAgentRepo(store),
		cols:    memory.NewColonyRepo(store),
		spawner: &fakeSpawner{},
		remover: &fakeRemover{},
		journal: &fakeJournal{},
		metrics: &countingMetrics{faults: map[string]int{}},
	}
	h.uc = UseCase{
		TxManager: memory.NewTxManager(store),
		Colonies:  h.cols,
		Agents:    h.agents,
		World:     w,
		Classify:  classifier,
		Dependent: dependent.NewUseCase(w, memory.NewMarkerRepo(store), classifier, dependent.Config{Username: "me"}),
		Runner:    agent.NewUseCase(assigner, w, nopActuator{}, log, agent.Config{Username: "me"}),
		Spawn:     spawn.NewUseCase(assigner, w, spawn.Config{}),
		Spawner:   h.spawner,
		Remover:   h.remover,
		Metrics:   h.metrics,
		Journal:   h.journal,
		Log:       log,
	}
	return h
}

// addAgent puts a live creep in the world and its record in the store.
func (h *harness) addAgent(role colony.Role, n int) *colony.Agent {
	name := fmt.Sprintf("%s_300_%s_%04d", role, home, n)
	h.world.AddCreep(world.Creep{
		ID: "id-" + name, Name: name, My: true, Pos: at(20, 21), Hits: 300, HitsMax: 300,
		TicksToLive: 1500, CarryCapacity: 50,
	})
	opts, _ := colony.CapabilitiesFor(role, colony.StateIntro)
	a := &colony.Agent{Name: name, Role: role, Home: home, Options: opts, Tier: colony.Tier1, Version: 1}
	if err := h.store.SeedAgent(a); err != nil {
		panic(err)
	}
	return a
}

var errSpawnBusy = errors.New("spawn busy")
