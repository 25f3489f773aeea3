package ports

import "context"

type FaultEntry struct {
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Entity   string `json:"entity"`
	Message  string `json:"message"`
}

type ColonyEntry struct {
	Name     string `json:"name"`
	State    string `json:"state"`
	Defcon   int    `json:"defcon"`
	Agents   int    `json:"agents"`
	Taken    int    `json:"taken"`
	Spawned  string `json:"spawned,omitempty"`
	Activate string `json:"activated,omitempty"`
}

// TickRecord is the journal line written for every completed tick.
type TickRecord struct {
	Tick        uint64        `json:"tick"`
	Colonies    []ColonyEntry `json:"colonies"`
	Assignments int           `json:"assignments"`
	Idle        int           `json:"idle"`
	Working     int           `json:"working"`
	Removed     []string      `json:"removed,omitempty"`
	Faults      []FaultEntry  `json:"faults,omitempty"`
}

type TickJournal interface {
	Append(ctx context.Context, rec TickRecord) error
}

type TickJournalReader interface {
	Read(ctx context.Context, fromTick, toTick uint64, limit int) ([]TickRecord, error)
}
