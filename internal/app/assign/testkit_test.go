package assign

import (
	"fmt"

	worldmock "hivemind/internal/adapter/world/mock"
	"hivemind/internal/app/jobqueue"
	"hivemind/internal/domain/colony"
	"hivemind/internal/domain/world"
)

const home = "W1N1"

func at(x, y int) world.Position {
	return world.Position{Room: home, X: x, Y: y}
}

func newWorld(accessTiles int) *worldmock.Provider {
	w := worldmock.NewProvider()
	r := w.EnsureRoom(home)
	r.Info.Controller = &world.Controller{ID: "ctrl", Pos: at(25, 25), Level: 2, My: true}
	r.Sources = []world.Source{{ID: "src1", Pos: at(10, 10), Energy: 3000, EnergyCapacity: 3000, AccessTiles: accessTiles}}
	r.Structures = []world.Structure{
		{ID: "spawn1", Type: world.StructureSpawn, Pos: at(20, 20), Hits: 5000, HitsMax: 5000, Energy: 100, EnergyCapacity: 300, My: true},
	}
	return w
}

func newUseCase(w *worldmock.Provider) UseCase {
	return NewUseCase(jobqueue.NewUseCase(w, jobqueue.Config{}), w, Config{})
}

// spawnAgent creates the record and an empty creep in the home room.
func spawnAgent(w *worldmock.Provider, role colony.Role, n int, state colony.OperatingState) *colony.Agent {
	name := fmt.Sprintf("%s_300_%s_%04d", role, home, n)
	opts, _ := colony.CapabilitiesFor(role, state)
	w.AddCreep(world.Creep{
		ID: "id-" + name, Name: name, My: true, Pos: at(20, 21), Hits: 300, HitsMax: 300,
		TicksToLive: 1500, CarryCapacity: 50,
	})
	return &colony.Agent{Name: name, Role: role, Home: home, Options: opts, Tier: colony.Tier1}
}
