package status

import (
	"hivemind/internal/domain/colony"
	"hivemind/internal/domain/jobs"
)

type ColonyRequest struct {
	Name string
}

type AgentRequest struct {
	Name string
}

type ColonySummary struct {
	Name        string `json:"name"`
	State       string `json:"state"`
	Defcon      int    `json:"defcon"`
	Agents      int    `json:"agents"`
	TakenJobs   int    `json:"taken_jobs"`
	Dependents  int    `json:"dependents"`
	UpdatedTick uint64 `json:"updated_tick"`
}

type ListResponse struct {
	Colonies []ColonySummary `json:"colonies"`
}

type QueueView struct {
	Category      jobs.Category `json:"category"`
	Jobs          int           `json:"jobs"`
	Taken         int           `json:"taken"`
	Valid         bool          `json:"valid"`
	RefreshedTick uint64        `json:"refreshed_tick"`
}

type DependentView struct {
	Kind    colony.DependentKind `json:"kind"`
	Room    string               `json:"room"`
	Markers []string             `json:"markers"`
	Active  bool                 `json:"active,omitempty"`
}

type AgentView struct {
	Name        string        `json:"name"`
	Role        colony.Role   `json:"role"`
	Home        string        `json:"home"`
	TargetRoom  string        `json:"target_room,omitempty"`
	Job         *jobs.Ref     `json:"job,omitempty"`
	Working     bool          `json:"working"`
	Tier        colony.Tier   `json:"tier"`
	SpawnedTick uint64        `json:"spawned_tick"`
	Squad       *colony.Squad `json:"squad,omitempty"`
	Version     int64         `json:"version"`
}

type ColonyResponse struct {
	Colony        ColonySummary   `json:"colony"`
	Queues        []QueueView     `json:"queues"`
	Dependents    []DependentView `json:"dependents"`
	Agents        []AgentView     `json:"agents"`
	MilitaryQueue []colony.Role   `json:"military_queue,omitempty"`
}
