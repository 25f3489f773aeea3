package replay

import "hivemind/internal/app/ports"

type Request struct {
	FromTick uint64
	ToTick   uint64
	Colony   string
	Limit    int
}

type Summary struct {
	Ticks        int            `json:"ticks"`
	Assignments  int            `json:"assignments"`
	Removed      int            `json:"removed"`
	Faults       int            `json:"faults"`
	FaultsByKind map[string]int `json:"faults_by_kind"`
	StateChanges []StateChange  `json:"state_changes"`
}

// StateChange marks the first recorded tick a colony was seen in a new state.
type StateChange struct {
	Tick   uint64 `json:"tick"`
	Colony string `json:"colony"`
	From   string `json:"from,omitempty"`
	To     string `json:"to"`
}

type Response struct {
	Records []ports.TickRecord `json:"records"`
	Summary Summary            `json:"summary"`
}
