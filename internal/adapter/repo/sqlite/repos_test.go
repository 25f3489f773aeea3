package sqliterepo

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"hivemind/internal/app/ports"
	"hivemind/internal/domain/colony"
	"hivemind/internal/domain/jobs"
	"hivemind/internal/domain/world"
)

func open(t *testing.T) (ColonyRepo, AgentRepo, MarkerRepo, TxManager) {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewColonyRepo(db), NewAgentRepo(db), NewMarkerRepo(db), NewTxManager(db)
}

func TestColonyRepo_VersionsAndPayload(t *testing.T) {
	colonies, _, _, _ := open(t)
	ctx := context.Background()

	c := colony.NewColony("W1N1")
	c.Version = 1
	c.Jobs.Queue(jobs.CategoryRepair).Jobs = []jobs.Job{{
		ID: "repair:road1", Category: jobs.CategoryRepair, TargetID: "road1",
		Detail: jobs.RepairDetail{Pos: world.Position{Room: "W1N1", X: 5, Y: 5}, HitsGoal: 4000},
	}}
	require.NoError(t, colonies.SaveWithVersion(ctx, c, 0))
	require.ErrorIs(t, colonies.SaveWithVersion(ctx, c, 0), ports.ErrConflict)

	got, err := colonies.Get(ctx, "W1N1")
	require.NoError(t, err)
	j, ok := got.Jobs.Find(jobs.Ref{ID: "repair:road1", Category: jobs.CategoryRepair})
	require.True(t, ok)
	require.Equal(t, 4000, j.Detail.(jobs.RepairDetail).HitsGoal)

	got.Version = 2
	require.NoError(t, colonies.SaveWithVersion(ctx, got, 1))
	require.ErrorIs(t, colonies.SaveWithVersion(ctx, got, 1), ports.ErrConflict)

	_, err = colonies.Get(ctx, "W9N9")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestAgentRepo_ListDelete(t *testing.T) {
	_, agents, _, _ := open(t)
	ctx := context.Background()
	for _, a := range []*colony.Agent{
		{Name: "w2", Role: colony.RoleWorker, Home: "W1N1"},
		{Name: "w1", Role: colony.RoleWorker, Home: "W1N1"},
		{Name: "x", Role: colony.RoleMiner, Home: "W5N5"},
	} {
		require.NoError(t, agents.SaveWithVersion(ctx, a, 0))
	}
	list, err := agents.ListByColony(ctx, "W1N1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "w1", list[0].Name)

	require.NoError(t, agents.Delete(ctx, "w1"))
	require.ErrorIs(t, agents.Delete(ctx, "w1"), ports.ErrNotFound)
}

func TestMarkerRepo_Upsert(t *testing.T) {
	_, _, markers, _ := open(t)
	ctx := context.Background()
	m := colony.MarkerMemory{Name: "f1", Room: "W2N1", Kind: colony.MarkerClaim}
	require.NoError(t, markers.Save(ctx, m))
	m.Complete = true
	require.NoError(t, markers.Save(ctx, m))

	all, err := markers.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.True(t, all[0].Complete)
}

func TestTxManager_Rollback(t *testing.T) {
	colonies, _, _, tx := open(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := tx.RunInTx(ctx, func(txCtx context.Context) error {
		require.NoError(t, colonies.SaveWithVersion(txCtx, colony.NewColony("W3N3"), 0))
		return boom
	})
	require.ErrorIs(t, err, boom)
	_, err = colonies.Get(ctx, "W3N3")
	require.ErrorIs(t, err, ports.ErrNotFound)
}
