package jobqueue

import (
	"errors"
	"testing"

	worldmock "hivemind/internal/adapter/world/mock"
	"hivemind/internal/domain/colony"
	"hivemind/internal/domain/jobs"
	"hivemind/internal/domain/world"
)

const home = "W1N1"

func at(x, y int) world.Position {
	return world.Position{Room: home, X: x, Y: y}
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

func TestBuildJobs_EveryTickCategoryRecomputes(t *testing.T) {
	w := newWorld()
	uc := NewUseCase(w, Config{TTL: map[jobs.Category]int{jobs.CategoryFill: jobs.TTLEveryTick}})
	c := colony.NewColony(home)

	if _, err := uc.BuildJobs(c, jobs.CategoryFill, 10); err != nil {
		t.Fatalf("build: %v", err)
	}
	q := c.Jobs[jobs.CategoryFill]
	if q.RefreshedTick != 10 {
		t.Fatalf("expected refresh at tick 10, got %d", q.RefreshedTick)
	}
	if _, err := uc.BuildJobs(c, jobs.CategoryFill, 11); err != nil {
		t.Fatalf("build: %v", err)
	}
	if q.RefreshedTick != 11 {
		t.Fatalf("expected recompute at tick 11 without world change, got %d", q.RefreshedTick)
	}
}

func TestBuildJobs_ForeverCategoryNeverRecomputes(t *testing.T) {
	w := newWorld()
	uc := NewUseCase(w, Config{UpgradeSeats: 1})
	c := colony.NewColony(home)

	got, err := uc.BuildJobs(c, jobs.CategoryUpgrade, 1)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(got) != 1 || got[0].Detail.(jobs.UpgradeDetail).Level != 2 {
		t.Fatalf("expected one level 2 upgrade job")
	}
	w.EnsureRoom(home).Info.Controller.Level = 3
	got, _ = uc.BuildJobs(c, jobs.CategoryUpgrade, 5000)
	if got[0].Detail.(jobs.UpgradeDetail).Level != 2 || c.Jobs[jobs.CategoryUpgrade].RefreshedTick != 1 {
		t.Fatalf("expected permanent queue untouched, refreshed at %d", c.Jobs[jobs.CategoryUpgrade].RefreshedTick)
	}
	uc.Invalidate(c, jobs.CategoryUpgrade)
	got, _ = uc.BuildJobs(c, jobs.CategoryUpgrade, 5001)
	if got[0].Detail.(jobs.UpgradeDetail).Level != 3 {
		t.Fatalf("expected recompute after invalidation")
	}
}

func TestBuildJobs_ContainerChangeInvalidatesSources(t *testing.T) {
	w := newWorld()
	w.EnsureRoom(home).Sources[0].AccessTiles = 3
	uc := NewUseCase(w, Config{})
	c := colony.NewColony(home)

	got, _ := uc.BuildJobs(c, jobs.CategorySource, 1)
	if len(got) != 3 {
		t.Fatalf("expected one seat per access tile, got %d", len(got))
	}
	r := w.EnsureRoom(home)
	r.Structures = append(r.Structures, world.Structure{ID: "cont1", Type: world.StructureContainer, Pos: at(11, 11)})
	got, _ = uc.BuildJobs(c, jobs.CategorySource, 2)
	if len(got) != 1 {
		t.Fatalf("expected a single container seat, got %d", len(got))
	}
	d, ok := got[0].Detail.(jobs.HarvestDetail)
	if !ok || d.Container != "cont1" || d.Pos != at(11, 11) {
		t.Fatalf("expected seat on container, got %+v", got[0].Detail)
	}
}

func TestBuildJobs_KeepsTakenAndDropsVanished(t *testing.T) {
	w := newWorld()
	r := w.EnsureRoom(home)
	r.Sites = []world.ConstructionSite{
		{ID: "site1", Type: world.StructureExtension, Pos: at(5, 5), ProgressTotal: 3000},
		{ID: "site2", Type: world.StructureRoad, Pos: at(6, 5), ProgressTotal: 300},
	}
	uc := NewUseCase(w, Config{})
	c := colony.NewColony(home)

	got, _ := uc.BuildJobs(c, jobs.CategoryBuild, 1)
	if len(got) != 2 {
		t.Fatalf("expected 2 build jobs, got %d", len(got))
	}
	got[0].Taken = true
	w.RemoveSite("site2")

	got, _ = uc.BuildJobs(c, jobs.CategoryBuild, 11)
	if len(got) != 1 {
		t.Fatalf("expected vanished site dropped, got %d jobs", len(got))
	}
	if got[0].ID != "build:site1" || !got[0].Taken {
		t.Fatalf("expected site1 still taken, got %+v", got[0])
	}
	if _, err := uc.Lookup(c, jobs.Ref{ID: "build:site2", Category: jobs.CategoryBuild}, 11); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound for vanished target, got %v", err)
	}
}

func TestUntaken_FiltersTaken(t *testing.T) {
	w := newWorld()
	uc := NewUseCase(w, Config{UpgradeSeats: 2})
	c := colony.NewColony(home)
	all, _ := uc.BuildJobs(c, jobs.CategoryUpgrade, 1)
	all[0].Taken = true
	free, err := uc.Untaken(c, jobs.CategoryUpgrade, 1)
	if err != nil {
		t.Fatalf("untaken: %v", err)
	}
	if len(free) != 1 || free[0].ID != "upgrade:ctrl#1" {
		t.Fatalf("expected only the second upgrade seat, got %d", len(free))
	}
}

func TestBuildJobs_UnknownCategory(t *testing.T) {
	uc := NewUseCase(newWorld(), Config{})
	_, err := uc.BuildJobs(colony.NewColony(home), jobs.Category("teleport"), 1)
	if !errors.Is(err, jobs.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestBuildJobs_RepairOrdersMostDamagedFirstAndSkipsWalls(t *testing.T) {
	w := newWorld()
	r := w.EnsureRoom(home)
	r.Structures = append(r.Structures,
		world.Structure{ID: "road1", Type: world.StructureRoad, Pos: at(1, 1), Hits: 2000, HitsMax: 5000},
		world.Structure{ID: "road2", Type: world.StructureRoad, Pos: at(2, 1), Hits: 500, HitsMax: 5000},
		world.Structure{ID: "wall1", Type: world.StructureWall, Pos: at(3, 1), Hits: 10, HitsMax: 300000000},
		world.Structure{ID: "road3", Type: world.StructureRoad, Pos: at(4, 1), Hits: 4900, HitsMax: 5000},
	)
	uc := NewUseCase(w, Config{})
	c := colony.NewColony(home)
	got, _ := uc.BuildJobs(c, jobs.CategoryRepair, 1)
	if len(got) != 2 || got[0].TargetID != "road2" || got[1].TargetID != "road1" {
		t.Fatalf("unexpected repair queue: %d jobs", len(got))
	}
	walls, _ := uc.BuildJobs(c, jobs.CategoryWallRepair, 1)
	if len(walls) != 1 || walls[0].Detail.(jobs.RepairDetail).HitsGoal != colony.WallLimit(2) {
		t.Fatalf("expected wall job with level 2 limit")
	}
}

func TestBuildJobs_ClaimPartJobsFollowDependentRooms(t *testing.T) {
	w := newWorld()
	uc := NewUseCase(w, Config{Username: "me"})
	c := colony.NewColony(home)
	_ = c.AddDependent(&colony.ClaimRoom{DependentBase: colony.DependentBase{RoomName: "W2N1"}})
	_ = c.AddDependent(&colony.RemoteRoom{DependentBase: colony.DependentBase{RoomName: "W1N2"}})
	remote := w.EnsureRoom("W1N2")
	remote.Info.Controller = &world.Controller{ID: "rc", Pos: world.Position{Room: "W1N2", X: 12, Y: 30}, SignedBy: "me"}

	claims, _ := uc.BuildJobs(c, jobs.CategoryClaim, 1)
	if len(claims) != 1 || claims[0].Room != "W2N1" {
		t.Fatalf("expected claim job for unseen claim room")
	}
	if claims[0].Target() != (world.Position{Room: "W2N1", X: 25, Y: 25}) {
		t.Fatalf("expected room centre target without vision, got %+v", claims[0].Target())
	}
	reserves, _ := uc.BuildJobs(c, jobs.CategoryReserve, 1)
	if len(reserves) != 1 || reserves[0].Target().X != 12 {
		t.Fatalf("expected reserve job at controller")
	}
	signs, _ := uc.BuildJobs(c, jobs.CategorySign, 1)
	if len(signs) != 1 || signs[0].Room != "W2N1" {
		t.Fatalf("expected only the unsigned room to get a sign job, got %d", len(signs))
	}
}

func TestBuildJobs_UpgradeFollowsClaimedRooms(t *testing.T) {
	w := newWorld()
	uc := NewUseCase(w, Config{UpgradeSeats: 1})
	c := colony.NewColony(home)

	if got, _ := uc.BuildJobs(c, jobs.CategoryUpgrade, 1); len(got) != 1 {
		t.Fatalf("expected one home upgrade seat, got %d", len(got))
	}
	_ = c.AddDependent(&colony.ClaimRoom{DependentBase: colony.DependentBase{RoomName: "W2N1"}})
	claim := w.EnsureRoom("W2N1")
	claim.Info.Controller = &world.Controller{ID: "ctrl2", Pos: world.Position{Room: "W2N1", X: 30, Y: 30}, Level: 0}

	got, _ := uc.BuildJobs(c, jobs.CategoryUpgrade, 2)
	if c.Jobs[jobs.CategoryUpgrade].RefreshedTick != 2 {
		t.Fatalf("expected recompute once the claim room was added")
	}
	if len(got) != 1 {
		t.Fatalf("expected no seat in the unowned claim room, got %d jobs", len(got))
	}

	claim.Info.Controller.My = true
	claim.Info.Controller.Level = 1
	got, _ = uc.BuildJobs(c, jobs.CategoryUpgrade, 500)
	if len(got) != 2 || got[1].Room != "W2N1" {
		t.Fatalf("expected an upgrade seat in the claimed room, got %d jobs", len(got))
	}
}

func TestBuildJobs_NewRemoteRoomRescansSources(t *testing.T) {
	w := newWorld()
	uc := NewUseCase(w, Config{})
	c := colony.NewColony(home)
	if got, _ := uc.BuildJobs(c, jobs.CategorySource, 1); len(got) != 1 {
		t.Fatalf("expected one home source seat, got %d", len(got))
	}

	remote := w.EnsureRoom("W1N2")
	remote.Sources = []world.Source{{ID: "src9", Pos: world.Position{Room: "W1N2", X: 5, Y: 5}, Energy: 3000, EnergyCapacity: 3000, AccessTiles: 1}}
	_ = c.AddDependent(&colony.RemoteRoom{DependentBase: colony.DependentBase{RoomName: "W1N2"}})

	got, _ := uc.BuildJobs(c, jobs.CategorySource, 2)
	if len(got) != 2 || got[1].TargetID != "src9" {
		t.Fatalf("expected the remote source in the permanent queue, got %d jobs", len(got))
	}
}
