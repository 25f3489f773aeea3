package assign

import (
	"context"
	"errors"
	"testing"

	"hivemind/internal/app/fault"
	"hivemind/internal/domain/colony"
	"hivemind/internal/domain/jobs"
	"hivemind/internal/domain/world"
)

func TestAssign_SecondMinerGetsNothingFromTakenSource(t *testing.T) {
	w := newWorld(1)
	uc := newUseCase(w)
	c := colony.NewColony(home)
	first := spawnAgent(w, colony.RoleMiner, 1, colony.StateBeginner)
	second := spawnAgent(w, colony.RoleMiner, 2, colony.StateBeginner)

	j, ok, err := uc.Assign(context.Background(), c, first, 5)
	if err != nil || !ok {
		t.Fatalf("expected first miner assigned, ok=%v err=%v", ok, err)
	}
	if !j.Taken || first.Job == nil || first.Job.ID != j.ID {
		t.Fatalf("expected taken job referenced by the miner, got %+v / %+v", j, first.Job)
	}
	if first.Working {
		t.Fatalf("expected working to stay false until the miner arrives")
	}
	_, ok, err = uc.Assign(context.Background(), c, second, 5)
	if err != nil || ok || second.Job != nil {
		t.Fatalf("expected second miner to stay idle, ok=%v err=%v job=%+v", ok, err, second.Job)
	}
}

func TestAssign_MinerSkipsSourceWithOtherSeatTaken(t *testing.T) {
	w := newWorld(3)
	uc := newUseCase(w)
	c := colony.NewColony(home)
	miner := spawnAgent(w, colony.RoleMiner, 1, colony.StateIntro)
	other := spawnAgent(w, colony.RoleMiner, 2, colony.StateIntro)
	harvester := spawnAgent(w, colony.RoleHarvester, 3, colony.StateIntro)

	if _, ok, _ := uc.Assign(context.Background(), c, miner, 1); !ok {
		t.Fatalf("expected miner assigned")
	}
	if _, ok, _ := uc.Assign(context.Background(), c, other, 1); ok {
		t.Fatalf("expected second miner refused while the source is mined")
	}
	j, ok, _ := uc.Assign(context.Background(), c, harvester, 1)
	if !ok || j.Category != jobs.CategorySource || j.ID == miner.Job.ID {
		t.Fatalf("expected harvester on a free seat, got %+v", j)
	}
}

func TestAssignAll_NoJobReferencedTwice(t *testing.T) {
	w := newWorld(2)
	r := w.EnsureRoom(home)
	r.Dropped = []world.DroppedResource{{ID: "drop1", Pos: at(12, 12), ResourceType: world.ResourceEnergy, Amount: 200}}
	uc := newUseCase(w)
	c := colony.NewColony(home)

	var agents []*colony.Agent
	for i := 0; i < 6; i++ {
		agents = append(agents, spawnAgent(w, colony.RoleHarvester, i, colony.StateIntro))
	}
	n, err := uc.AssignAll(context.Background(), c, agents, 3)
	if err != nil {
		t.Fatalf("assign all: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 assignments for 2 seats and 1 drop, got %d", n)
	}
	seen := map[string]string{}
	for _, a := range agents {
		if a.Job == nil {
			continue
		}
		if prev, dup := seen[a.Job.ID]; dup {
			t.Fatalf("job %s referenced by %s and %s", a.Job.ID, prev, a.Name)
		}
		seen[a.Job.ID] = a.Name
		j, ok := c.Jobs.Find(*a.Job)
		if !ok || !j.Taken {
			t.Fatalf("expected %s to be taken on the board", a.Job.ID)
		}
	}
	if taken := c.Jobs.TakenCount(); taken != len(seen) {
		t.Fatalf("expected %d taken jobs, got %d", len(seen), taken)
	}
}

func TestAssignAll_HigherPriorityRoleFirst(t *testing.T) {
	w := newWorld(1)
	uc := newUseCase(w)
	c := colony.NewColony(home)
	harvester := spawnAgent(w, colony.RoleHarvester, 1, colony.StateIntro)
	miner := spawnAgent(w, colony.RoleMiner, 2, colony.StateIntro)

	if _, err := uc.AssignAll(context.Background(), c, []*colony.Agent{harvester, miner}, 1); err != nil {
		t.Fatalf("assign all: %v", err)
	}
	if miner.Job == nil || miner.Job.Category != jobs.CategorySource {
		t.Fatalf("expected miner to win the single seat, got %+v", miner.Job)
	}
	if harvester.Job != nil {
		t.Fatalf("expected harvester idle, got %+v", harvester.Job)
	}
}

func TestAssign_LoadedHarvesterDelivers(t *testing.T) {
	w := newWorld(1)
	uc := newUseCase(w)
	c := colony.NewColony(home)
	a := spawnAgent(w, colony.RoleHarvester, 1, colony.StateIntro)
	w.UpdateCreep(a.Name, func(cr *world.Creep) { cr.Carry = 50 })

	j, ok, err := uc.Assign(context.Background(), c, a, 1)
	if err != nil || !ok {
		t.Fatalf("expected delivery job, ok=%v err=%v", ok, err)
	}
	if j.Category != jobs.CategoryFill || j.TargetID != "spawn1" {
		t.Fatalf("expected fill job on spawn1, got %s %s", j.Category, j.TargetID)
	}
}

func TestAssign_CapabilitiesGateJobs(t *testing.T) {
	w := newWorld(1)
	uc := newUseCase(w)
	c := colony.NewColony(home)
	a := spawnAgent(w, colony.RolePowerUpgrader, 1, colony.StateAdvanced)
	w.UpdateCreep(a.Name, func(cr *world.Creep) { cr.Carry = 50 })

	if _, ok, _ := uc.Assign(context.Background(), c, a, 1); ok {
		t.Fatalf("expected power upgrader without capabilities to stay idle")
	}
	a.Options, _ = colony.CapabilitiesFor(colony.RolePowerUpgrader, colony.StateUpgrader)
	j, ok, _ := uc.Assign(context.Background(), c, a, 1)
	if !ok || j.Category != jobs.CategoryUpgrade {
		t.Fatalf("expected upgrade job, got %+v", j)
	}
}

func TestAssign_RefusesBusyAgentAndUnknownRole(t *testing.T) {
	w := newWorld(1)
	uc := newUseCase(w)
	c := colony.NewColony(home)
	a := spawnAgent(w, colony.RoleMiner, 1, colony.StateIntro)
	a.Job = &jobs.Ref{ID: "source:src1", Category: jobs.CategorySource}
	if _, _, err := uc.Assign(context.Background(), c, a, 1); !errors.Is(err, ErrAgentBusy) {
		t.Fatalf("expected ErrAgentBusy, got %v", err)
	}
	a.Job = nil
	a.Role = colony.Role("scout")
	_, _, err := uc.Assign(context.Background(), c, a, 1)
	if !errors.Is(err, fault.ErrConfiguration) || !errors.Is(err, colony.ErrUnknownRole) {
		t.Fatalf("expected configuration fault for unknown role, got %v", err)
	}
}

func TestAssign_AttackJobGoesToItsSquad(t *testing.T) {
	w := newWorld(1)
	uc := newUseCase(w)
	c := colony.NewColony(home)
	_ = c.AddDependent(&colony.AttackRoom{
		DependentBase: colony.DependentBase{RoomName: "W9N9", MarkerNames: []string{"atk"}},
		Markers:       []colony.AttackMarker{{FlagName: "atk", Kind: colony.AttackZealotSolo, SquadSize: 1, SquadUUID: "sq-1", Active: true}},
	})
	a := spawnAgent(w, colony.RoleZealot, 1, colony.StateIntro)
	if _, ok, err := uc.Assign(context.Background(), c, a, 1); ok || err != nil {
		t.Fatalf("expected no job for zealot without a squad, ok=%v err=%v", ok, err)
	}
	a.Squad = &colony.Squad{Size: 1, UUID: "sq-other"}
	if _, ok, _ := uc.Assign(context.Background(), c, a, 1); ok {
		t.Fatalf("expected another squad's attack job to be skipped")
	}
	a.Squad.UUID = "sq-1"
	j, ok, err := uc.Assign(context.Background(), c, a, 1)
	if err != nil || !ok || j.Category != jobs.CategoryAttack || !j.Taken {
		t.Fatalf("expected taken attack job, got %+v ok=%v err=%v", j, ok, err)
	}
}
