package agent

import (
	"context"
	"fmt"

	logtest "github.com/sirupsen/logrus/hooks/test"

	worldmock "hivemind/internal/adapter/world/mock"
	"hivemind/internal/app/assign"
	"hivemind/internal/app/jobqueue"
	"hivemind/internal/app/ports"
	"hivemind/internal/domain/colony"
	"hivemind/internal/domain/jobs"
	"hivemind/internal/domain/world"
)

const home = "W1N1"

func at(x, y int) world.Position {
	return world.Position{Room: home, X: x, Y: y}
}

type moveCall struct {
	Agent  string
	Target world.Position
	Opts   ports.MoveOptions
}

type engageCall struct {
	Agent  string
	Target string
	Action ports.CombatAction
}

type fakeActuator struct {
	moves   []moveCall
	works   []jobs.Job
	engages []engageCall
	status  ports.WorkStatus
	workErr error
}

func (f *fakeActuator) MoveToward(_ context.Context, agent string, target world.Position, opts ports.MoveOptions) error {
	f.moves = append(f.moves, moveCall{Agent: agent, Target: target, Opts: opts})
	return nil
}

func (f *fakeActuator) PerformWork(_ context.Context, _ string, job jobs.Job) (ports.WorkStatus, error) {
	f.works = append(f.works, job)
	return f.status, f.workErr
}

func (f *fakeActuator) Engage(_ context.Context, agent string, targetID string, action ports.CombatAction) error {
	f.engages = append(f.engages, engageCall{Agent: agent, Target: targetID, Action: action})
	return nil
}

func newWorld() *worldmock.Provider {
	w := worldmock.NewProvider()
	r := w.EnsureRoom(home)
	r.Info.Controller = &world.Controller{ID: "ctrl", Pos: at(25, 25), Level: 2, My: true}
	r.Sources = []world.Source{{ID: "src1", Pos: at(10, 10), Energy: 3000, EnergyCapacity: 3000, AccessTiles: 1}}
	r.Structures = []world.Structure{
		{ID: "spawn1", Type: world.StructureSpawn, Pos: at(20, 20), Hits: 5000, HitsMax: 5000, Energy: 100, EnergyCapacity: 300, My: true},
	}
	return w
}

type harness struct {
	world *worldmock.Provider
	act   *fakeActuator
	uc    UseCase
}

func newHarness(w *worldmock.Provider, cfg Config) harness {
	act := &fakeActuator{}
	queue := jobqueue.NewUseCase(w, jobqueue.Config{})
	assigner := assign.NewUseCase(queue, w, assign.Config{})
	log, _ := logtest.NewNullLogger()
	return harness{world: w, act: act, uc: NewUseCase(assigner, w, act, log, cfg)}
}

func spawnAgent(w *worldmock.Provider, role colony.Role, pos world.Position, state colony.OperatingState) *colony.Agent {
	name := fmt.Sprintf("%s_300_%s_0001", role, pos.Room)
	opts, _ := colony.CapabilitiesFor(role, state)
	w.AddCreep(world.Creep{
		ID: "id-" + name, Name: name, My: true, Pos: pos, Hits: 300, HitsMax: 300,
		TicksToLive: 1500, CarryCapacity: 50,
	})
	return &colony.Agent{Name: name, Role: role, Home: home, Options: opts, Tier: colony.Tier1}
}
