package dependent

import (
	"context"
	"fmt"
	"sort"

	worldmock "hivemind/internal/adapter/world/mock"
	"hivemind/internal/app/classify"
	"hivemind/internal/app/ports"
	"hivemind/internal/domain/colony"
	"hivemind/internal/domain/world"
)

type stubMarkerRepo struct {
	byName map[string]colony.MarkerMemory
}

func newStubMarkerRepo() *stubMarkerRepo {
	return &stubMarkerRepo{byName: map[string]colony.MarkerMemory{}}
}

func (r *stubMarkerRepo) Get(_ context.Context, name string) (colony.MarkerMemory, error) {
	m, ok := r.byName[name]
	if !ok {
		return colony.MarkerMemory{}, ports.ErrNotFound
	}
	return m, nil
}

func (r *stubMarkerRepo) List(context.Context) ([]colony.MarkerMemory, error) {
	out := make([]colony.MarkerMemory, 0, len(r.byName))
	for _, m := range r.byName {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubMarkerRepo) Save(_ context.Context, m colony.MarkerMemory) error {
	r.byName[m.Name] = m
	return nil
}

func (r *stubMarkerRepo) Delete(_ context.Context, name string) error {
	if _, ok := r.byName[name]; !ok {
		return ports.ErrNotFound
	}
	delete(r.byName, name)
	return nil
}

func marker(name, room string, primary, secondary world.Color) world.Marker {
	return world.Marker{Name: name, Pos: world.Position{Room: room, X: 25, Y: 25}, Color: primary, SecondaryColor: secondary}
}

func newUseCase(w *worldmock.Provider, repo *stubMarkerRepo) UseCase {
	uc := NewUseCase(w, repo, classify.NewUseCase(w, classify.Config{}), Config{Username: "me"})
	n := 0
	uc.NewUUID = func() string {
		n++
		return fmt.Sprintf("squad-%d", n)
	}
	return uc
}
