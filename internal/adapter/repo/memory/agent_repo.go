package memory

import (
	"context"
	"encoding/json"
	"sort"

	"hivemind/internal/app/ports"
	"hivemind/internal/domain/colony"
)

type AgentRepo struct {
	store *Store
}

func NewAgentRepo(store *Store) AgentRepo {
	return AgentRepo{store: store}
}

func (r AgentRepo) Get(_ context.Context, name string) (*colony.Agent, error) {
	raw, ok := r.store.agents[name]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return decodeAgent(raw)
}

func (r AgentRepo) ListByColony(_ context.Context, colonyName string) ([]*colony.Agent, error) {
	var out []*colony.Agent
	for _, raw := range r.store.agents {
		a, err := decodeAgent(raw)
		if err != nil {
			return nil, err
		}
		if a.Home == colonyName {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r AgentRepo) SaveWithVersion(_ context.Context, a *colony.Agent, expectedVersion int64) error {
	if err := a.Validate(); err != nil {
		return err
	}
	raw, ok := r.store.agents[a.Name]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
	} else {
		if expectedVersion == 0 {
			return ports.ErrConflict
		}
		current, err := decodeAgent(raw)
		if err != nil {
			return err
		}
		if current.Version != expectedVersion {
			return ports.ErrConflict
		}
	}
	next, err := json.Marshal(a)
	if err != nil {
		return err
	}
	r.store.agents[a.Name] = next
	return nil
}

func (r AgentRepo) Delete(_ context.Context, name string) error {
	if _, ok := r.store.agents[name]; !ok {
		return ports.ErrNotFound
	}
	delete(r.store.agents, name)
	return nil
}
