package memory

import (
	"context"
	"sort"

	"hivemind/internal/app/ports"
	"hivemind/internal/domain/colony"
)

type MarkerRepo struct {
	store *Store
}

func NewMarkerRepo(store *Store) MarkerRepo {
	return MarkerRepo{store: store}
}

func (r MarkerRepo) Get(_ context.Context, name string) (colony.MarkerMemory, error) {
	m, ok := r.store.markers[name]
	if !ok {
		return colony.MarkerMemory{}, ports.ErrNotFound
	}
	return m, nil
}

func (r MarkerRepo) List(_ context.Context) ([]colony.MarkerMemory, error) {
	out := make([]colony.MarkerMemory, 0, len(r.store.markers))
	for _, m := range r.store.markers {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r MarkerRepo) Save(_ context.Context, m colony.MarkerMemory) error {
	r.store.markers[m.Name] = m
	return nil
}

func (r MarkerRepo) Delete(_ context.Context, name string) error {
	if _, ok := r.store.markers[name]; !ok {
		return ports.ErrNotFound
	}
	delete(r.store.markers, name)
	return nil
}
