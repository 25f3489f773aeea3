package memory

import (
	"context"
	"errors"
	"testing"

	"hivemind/internal/app/ports"
	"hivemind/internal/domain/colony"
	"hivemind/internal/domain/jobs"
)

func TestColonyRepo_OptimisticVersion(t *testing.T) {
	store := NewStore()
	repo := NewColonyRepo(store)
	ctx := context.Background()

	c := colony.NewColony("W1N1")
	c.Version = 1
	if err := repo.SaveWithVersion(ctx, c, 0); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.SaveWithVersion(ctx, c, 0); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected conflict on stale version, got %v", err)
	}
	got, err := repo.Get(ctx, "W1N1")
	if err != nil || got.Version != 1 {
		t.Fatalf("expected version 1, got %+v err=%v", got, err)
	}
	got.Version = 2
	got.State = colony.StateAdvanced
	if err := repo.SaveWithVersion(ctx, got, 1); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := repo.Get(ctx, "W9N9"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestColonyRepo_ReturnsCopies(t *testing.T) {
	store := NewStore()
	repo := NewColonyRepo(store)
	ctx := context.Background()
	c := colony.NewColony("W1N1")
	c.Jobs.Queue(jobs.CategoryUpgrade).Jobs = []jobs.Job{{ID: "upgrade:ctrl", Category: jobs.CategoryUpgrade, Detail: jobs.UpgradeDetail{Level: 2}}}
	_ = repo.SaveWithVersion(ctx, c, 0)

	first, _ := repo.Get(ctx, "W1N1")
	first.Jobs[jobs.CategoryUpgrade].Jobs[0].Taken = true
	second, _ := repo.Get(ctx, "W1N1")
	if second.Jobs[jobs.CategoryUpgrade].Jobs[0].Taken {
		t.Fatalf("expected stored record untouched by caller mutation")
	}
}

func TestAgentRepo_ListByColonyAndDelete(t *testing.T) {
	store := NewStore()
	repo := NewAgentRepo(store)
	ctx := context.Background()
	for _, a := range []*colony.Agent{
		{Name: "b", Role: colony.RoleMiner, Home: "W1N1"},
		{Name: "a", Role: colony.RoleWorker, Home: "W1N1"},
		{Name: "c", Role: colony.RoleWorker, Home: "W2N2"},
	} {
		if err := repo.SaveWithVersion(ctx, a, 0); err != nil {
			t.Fatalf("save %s: %v", a.Name, err)
		}
	}
	got, _ := repo.ListByColony(ctx, "W1N1")
	if len(got) != 2 || got[0].Name != "a" {
		t.Fatalf("expected a, b for W1N1, got %d", len(got))
	}
	if err := repo.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, "a"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if err := repo.SaveWithVersion(ctx, &colony.Agent{Name: "x", Role: colony.Role("scout"), Home: "W1N1"}, 0); !errors.Is(err, colony.ErrInvalidAgent) {
		t.Fatalf("expected invalid agent rejected, got %v", err)
	}
}

func TestAgentRepo_CreateOnlyOnce(t *testing.T) {
	repo := NewAgentRepo(NewStore())
	ctx := context.Background()
	a := &colony.Agent{Name: "harvester_300_W1N1_100", Role: colony.RoleHarvester, Home: "W1N1"}
	if err := repo.SaveWithVersion(ctx, a, 0); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.SaveWithVersion(ctx, a, 0); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected conflict on a second create, got %v", err)
	}
}

func TestTxManager_NestedCallJoins(t *testing.T) {
	tx := NewTxManager(NewStore())
	ran := false
	err := tx.RunInTx(context.Background(), func(ctx context.Context) error {
		return tx.RunInTx(ctx, func(context.Context) error {
			ran = true
			return nil
		})
	})
	if err != nil || !ran {
		t.Fatalf("expected nested call to run inside the outer one, ran=%v err=%v", ran, err)
	}
}
