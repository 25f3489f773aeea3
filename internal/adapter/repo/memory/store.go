package memory

import (
	"encoding/json"
	"sync"

	"hivemind/internal/domain/colony"
)

// Store keeps the records as encoded JSON so that callers never share memory
// with the stored copy.
type Store struct {
	mu       sync.RWMutex
	colonies map[string][]byte
	agents   map[string][]byte
	markers  map[string]colony.MarkerMemory
}

func NewStore() *Store {
	return &Store{
		colonies: make(map[string][]byte),
		agents:   make(map[string][]byte),
		markers:  make(map[string]colony.MarkerMemory),
	}
}

func (s *Store) SeedColony(c *colony.Colony) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	s.colonies[c.Name] = raw
	return nil
}

func (s *Store) SeedAgent(a *colony.Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := json.Marshal(a)
	if err != nil {
		return err
	}
	s.agents[a.Name] = raw
	return nil
}

func decodeColony(raw []byte) (*colony.Colony, error) {
	var c colony.Colony
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	c.EnsureBoard()
	return &c, nil
}

func decodeAgent(raw []byte) (*colony.Agent, error) {
	var a colony.Agent
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
