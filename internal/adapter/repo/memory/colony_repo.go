package memory

import (
	"context"
	"encoding/json"
	"sort"

	"hivemind/internal/app/ports"
	"hivemind/internal/domain/colony"
)

type ColonyRepo struct {
	store *Store
}

func NewColonyRepo(store *Store) ColonyRepo {
	return ColonyRepo{store: store}
}

func (r ColonyRepo) Get(_ context.Context, name string) (*colony.Colony, error) {
	raw, ok := r.store.colonies[name]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return decodeColony(raw)
}

func (r ColonyRepo) List(_ context.Context) ([]*colony.Colony, error) {
	names := make([]string, 0, len(r.store.colonies))
	for name := range r.store.colonies {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*colony.Colony, 0, len(names))
	for _, name := range names {
		c, err := decodeColony(r.store.colonies[name])
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r ColonyRepo) SaveWithVersion(_ context.Context, c *colony.Colony, expectedVersion int64) error {
	if err := c.Validate(); err != nil {
		return err
	}
	raw, ok := r.store.colonies[c.Name]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
	} else {
		if expectedVersion == 0 {
			return ports.ErrConflict
		}
		current, err := decodeColony(raw)
		if err != nil {
			return err
		}
		if current.Version != expectedVersion {
			return ports.ErrConflict
		}
	}
	next, err := json.Marshal(c)
	if err != nil {
		return err
	}
	r.store.colonies[c.Name] = next
	return nil
}
