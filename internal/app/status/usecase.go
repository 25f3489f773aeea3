package status

import (
	"context"
	"errors"
	"slices"
	"strings"

	"hivemind/internal/app/ports"
	"hivemind/internal/domain/colony"
	"hivemind/internal/domain/jobs"
)

var ErrInvalidRequest = errors.New("invalid status request")

// UseCase serves read models of the persisted colony and agent records. Reads
// go through the tx manager so they never observe a half-written tick.
type UseCase struct {
	TxManager ports.TxManager
	Colonies  ports.ColonyRepository
	Agents    ports.AgentRepository
}

func (u UseCase) ListColonies(ctx context.Context) (ListResponse, error) {
	resp := ListResponse{Colonies: []ColonySummary{}}
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		cols, err := u.Colonies.List(txCtx)
		if err != nil {
			return err
		}
		for _, c := range cols {
			agents, err := u.Agents.ListByColony(txCtx, c.Name)
			if err != nil {
				return err
			}
			resp.Colonies = append(resp.Colonies, summarize(c, len(agents)))
		}
		return nil
	})
	if err != nil {
		return ListResponse{}, err
	}
	return resp, nil
}

func (u UseCase) Colony(ctx context.Context, req ColonyRequest) (ColonyResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return ColonyResponse{}, ErrInvalidRequest
	}
	var resp ColonyResponse
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		c, err := u.Colonies.Get(txCtx, name)
		if err != nil {
			return err
		}
		agents, err := u.Agents.ListByColony(txCtx, c.Name)
		if err != nil {
			return err
		}
		resp = ColonyResponse{
			Colony:        summarize(c, len(agents)),
			Queues:        queues(c.Jobs),
			Dependents:    dependents(c),
			Agents:        make([]AgentView, 0, len(agents)),
			MilitaryQueue: slices.Clone(c.MilitaryQueue),
		}
		for _, a := range agents {
			resp.Agents = append(resp.Agents, agentView(a))
		}
		return nil
	})
	if err != nil {
		return ColonyResponse{}, err
	}
	return resp, nil
}

func (u UseCase) Agent(ctx context.Context, req AgentRequest) (AgentView, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return AgentView{}, ErrInvalidRequest
	}
	var view AgentView
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		a, err := u.Agents.Get(txCtx, name)
		if err != nil {
			return err
		}
		view = agentView(a)
		return nil
	})
	return view, err
}

func summarize(c *colony.Colony, agents int) ColonySummary {
	return ColonySummary{
		Name:        c.Name,
		State:       c.State.String(),
		Defcon:      c.Defcon,
		Agents:      agents,
		TakenJobs:   c.Jobs.TakenCount(),
		Dependents:  len(c.Dependents()),
		UpdatedTick: c.UpdatedTick,
	}
}

func queues(b jobs.Board) []QueueView {
	out := make([]QueueView, 0, len(b))
	for _, cat := range jobs.AllCategories() {
		q, ok := b[cat]
		if !ok || q == nil {
			continue
		}
		v := QueueView{Category: cat, Jobs: len(q.Jobs), Valid: q.Valid, RefreshedTick: q.RefreshedTick}
		for _, j := range q.Jobs {
			if j.Taken {
				v.Taken++
			}
		}
		out = append(out, v)
	}
	return out
}

func dependents(c *colony.Colony) []DependentView {
	out := []DependentView{}
	for _, d := range c.Dependents() {
		v := DependentView{Kind: d.Kind(), Room: d.Base().RoomName, Markers: slices.Clone(d.Base().MarkerNames)}
		if ar, ok := d.(*colony.AttackRoom); ok {
			v.Active = slices.ContainsFunc(ar.Markers, func(m colony.AttackMarker) bool { return m.Active })
		}
		out = append(out, v)
	}
	return out
}

func agentView(a *colony.Agent) AgentView {
	return AgentView{
		Name:        a.Name,
		Role:        a.Role,
		Home:        a.Home,
		TargetRoom:  a.TargetRoom,
		Job:         a.Job,
		Working:     a.Working,
		Tier:        a.Tier,
		SpawnedTick: a.SpawnedTick,
		Squad:       a.Squad,
		Version:     a.Version,
	}
}
