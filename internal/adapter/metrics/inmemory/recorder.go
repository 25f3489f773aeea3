package inmemory

import (
	"sync"

	"hivemind/internal/app/ports"
	"hivemind/internal/domain/colony"
	"hivemind/internal/domain/jobs"
)

type Snapshot struct {
	Ticks            uint64            `json:"ticks"`
	LastColonies     int               `json:"last_colonies"`
	LastAgents       int               `json:"last_agents"`
	Assignments      uint64            `json:"assignments"`
	Idle             uint64            `json:"idle"`
	Spawns           uint64            `json:"spawns"`
	FaultTotal       uint64            `json:"fault_total"`
	ByCategory       map[string]uint64 `json:"by_category"`
	IdleByRole       map[string]uint64 `json:"idle_by_role"`
	SpawnsByRole     map[string]uint64 `json:"spawns_by_role"`
	FaultsByKind     map[string]uint64 `json:"faults_by_kind"`
	FaultsBySeverity map[string]uint64 `json:"faults_by_severity"`
}

type Recorder struct {
	mu         sync.Mutex
	ticks      uint64
	colonies   int
	agents     int
	byCategory map[string]uint64
	idle       map[string]uint64
	spawns     map[string]uint64
	faults     map[string]uint64
	severity   map[string]uint64
}

var _ ports.TickMetrics = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{
		byCategory: map[string]uint64{},
		idle:       map[string]uint64{},
		spawns:     map[string]uint64{},
		faults:     map[string]uint64{},
		severity:   map[string]uint64{},
	}
}

func (r *Recorder) RecordTick(colonies, agents int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks++
	r.colonies = colonies
	r.agents = agents
}

func (r *Recorder) RecordAssignment(_ colony.Role, category jobs.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byCategory[string(category)]++
}

func (r *Recorder) RecordIdle(role colony.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.idle[string(role)]++
}

func (r *Recorder) RecordFault(kind string, severity string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.faults[kind]++
	r.severity[severity]++
}

func (r *Recorder) RecordSpawn(role colony.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spawns[string(role)]++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		Ticks:            r.ticks,
		LastColonies:     r.colonies,
		LastAgents:       r.agents,
		ByCategory:       copyCounts(r.byCategory),
		IdleByRole:       copyCounts(r.idle),
		SpawnsByRole:     copyCounts(r.spawns),
		FaultsByKind:     copyCounts(r.faults),
		FaultsBySeverity: copyCounts(r.severity),
	}
	out.Assignments = sum(r.byCategory)
	out.Idle = sum(r.idle)
	out.Spawns = sum(r.spawns)
	out.FaultTotal = sum(r.faults)
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}

func copyCounts(in map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func sum(in map[string]uint64) uint64 {
	var n uint64
	for _, v := range in {
		n += v
	}
	return n
}
