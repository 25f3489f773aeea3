package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	metricsinmem "hivemind/internal/adapter/metrics/inmemory"
	"hivemind/internal/adapter/repo/memory"
	"hivemind/internal/app/ports"
	"hivemind/internal/app/replay"
	"hivemind/internal/app/status"
	"hivemind/internal/domain/colony"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route/param"
)

func newStatusUseCase(t *testing.T) status.UseCase {
	t.Helper()
	store := memory.NewStore()
	if err := store.SeedColony(colony.NewColony("W1N1")); err != nil {
		t.Fatalf("seed colony: %v", err)
	}
	if err := store.SeedAgent(&colony.Agent{Name: "miner_300_W1N1_1", Role: colony.RoleMiner, Home: "W1N1"}); err != nil {
		t.Fatalf("seed agent: %v", err)
	}
	return status.UseCase{
		TxManager: memory.NewTxManager(store),
		Colonies:  memory.NewColonyRepo(store),
		Agents:    memory.NewAgentRepo(store),
	}
}

type fakeJournal struct {
	records []ports.TickRecord
	err     error
}

func (f fakeJournal) Read(_ context.Context, _, _ uint64, _ int) ([]ports.TickRecord, error) {
	return f.records, f.err
}

func decodeBody(t *testing.T, ctx *app.RequestContext) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return body
}

func errorCode(t *testing.T, ctx *app.RequestContext) string {
	t.Helper()
	errObj, _ := decodeBody(t, ctx)["error"].(map[string]any)
	code, _ := errObj["code"].(string)
	return code
}

func TestListColonies_OK(t *testing.T) {
	h := Handler{StatusUC: newStatusUseCase(t)}
	ctx := &app.RequestContext{}

	h.listColonies(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	cols, _ := decodeBody(t, ctx)["colonies"].([]any)
	if len(cols) != 1 {
		t.Fatalf("expected one colony, got %v", cols)
	}
	first, _ := cols[0].(map[string]any)
	if first["name"] != "W1N1" || first["agents"] != float64(1) {
		t.Fatalf("unexpected colony summary: %v", first)
	}
}

func TestColony_NotFound(t *testing.T) {
	h := Handler{StatusUC: newStatusUseCase(t)}
	ctx := &app.RequestContext{}
	ctx.Params = param.Params{{Key: "name", Value: "W9N9"}}

	h.colony(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got, want := errorCode(t, ctx), "not_found"; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
}

func TestColony_OK(t *testing.T) {
	h := Handler{StatusUC: newStatusUseCase(t)}
	ctx := &app.RequestContext{}
	ctx.Params = param.Params{{Key: "name", Value: "W1N1"}}

	h.colony(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	body := decodeBody(t, ctx)
	for _, key := range []string{"colony", "queues", "dependents", "agents"} {
		if _, ok := body[key]; !ok {
			t.Fatalf("expected %q in response, got %v", key, body)
		}
	}
}

func TestAgent_OK(t *testing.T) {
	h := Handler{StatusUC: newStatusUseCase(t)}
	ctx := &app.RequestContext{}
	ctx.Params = param.Params{{Key: "name", Value: "miner_300_W1N1_1"}}

	h.agent(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got := decodeBody(t, ctx)["role"]; got != "miner" {
		t.Fatalf("expected role miner, got %v", got)
	}
}

func TestReplay_RejectsBadTick(t *testing.T) {
	h := Handler{ReplayUC: replay.UseCase{Journal: fakeJournal{}}}
	ctx := &app.RequestContext{}
	ctx.Request.SetRequestURI("/api/replay?from=abc")

	h.replay(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got, want := errorCode(t, ctx), "bad_request"; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
}

func TestReplay_OK(t *testing.T) {
	h := Handler{ReplayUC: replay.UseCase{Journal: fakeJournal{records: []ports.TickRecord{
		{Tick: 5, Assignments: 2, Colonies: []ports.ColonyEntry{{Name: "W1N1", State: "intro"}}},
	}}}}
	ctx := &app.RequestContext{}
	ctx.Request.SetRequestURI("/api/replay?from=1&to=10&limit=5")

	h.replay(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	body := decodeBody(t, ctx)
	records, _ := body["records"].([]any)
	summary, _ := body["summary"].(map[string]any)
	if len(records) != 1 || summary["assignments"] != float64(2) {
		t.Fatalf("unexpected replay body: %v", body)
	}
}

func TestReplay_JournalErrorIsInternal(t *testing.T) {
	h := Handler{ReplayUC: replay.UseCase{Journal: fakeJournal{err: errors.New("disk gone")}}}
	ctx := &app.RequestContext{}
	ctx.Request.SetRequestURI("/api/replay")

	h.replay(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusInternalServerError; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got, want := errorCode(t, ctx), "internal_error"; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
}

func TestKPI_NotConfigured(t *testing.T) {
	ctx := &app.RequestContext{}
	Handler{}.kpi(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestKPI_ReturnsSnapshot(t *testing.T) {
	rec := metricsinmem.NewRecorder()
	rec.RecordTick(1, 3)
	rec.RecordSpawn(colony.RoleMiner)
	ctx := &app.RequestContext{}

	Handler{KPI: rec}.kpi(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	body := decodeBody(t, ctx)
	if body["ticks"] != float64(1) || body["spawns"] != float64(1) {
		t.Fatalf("unexpected kpi body: %v", body)
	}
}
