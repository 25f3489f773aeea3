package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"hivemind/internal/app/assign"
	"hivemind/internal/app/fault"
	"hivemind/internal/app/jobqueue"
	"hivemind/internal/app/ports"
	"hivemind/internal/domain/colony"
	"hivemind/internal/domain/jobs"
	"hivemind/internal/domain/world"
)

var ErrTargetGone = errors.New("job target no longer exists")

type Config struct {
	Username        string
	Allies          []string
	ReusePath       int
	HeuristicWeight float64
	// FleeHitsRatio is the hits ratio under which military agents retreat home.
	FleeHitsRatio float64
	RallyRange    int
	// EngagementRange is how far a military role looks for targets.
	EngagementRange map[colony.Role]int
}

func DefaultConfig() Config {
	return Config{
		ReusePath:       10,
		HeuristicWeight: 1.5,
		FleeHitsRatio:   0.3,
		RallyRange:      3,
		EngagementRange: map[colony.Role]int{
			colony.RoleZealot:           10,
			colony.RoleStalker:          10,
			colony.RoleMedic:            5,
			colony.RoleDomesticDefender: world.FarRange,
			colony.RoleRemoteDefender:   world.FarRange,
		},
	}
}

type Outcome struct {
	Agent     string
	Phase     Phase
	Job       *jobs.Ref
	Category  jobs.Category
	Assigned  bool
	Completed bool
	Action    string
}

type UseCase struct {
	Assign   assign.UseCase
	World    ports.WorldSnapshot
	Actuator ports.Actuator
	Log      logrus.FieldLogger
	cfg      Config
	registry map[colony.Role]RoleSpec
}

func NewUseCase(assigner assign.UseCase, world ports.WorldSnapshot, actuator ports.Actuator, log logrus.FieldLogger, cfg Config) UseCase {
	def := DefaultConfig()
	if cfg.ReusePath <= 0 {
		cfg.ReusePath = def.ReusePath
	}
	if cfg.HeuristicWeight <= 0 {
		cfg.HeuristicWeight = def.HeuristicWeight
	}
	if cfg.FleeHitsRatio <= 0 {
		cfg.FleeHitsRatio = def.FleeHitsRatio
	}
	if cfg.RallyRange <= 0 {
		cfg.RallyRange = def.RallyRange
	}
	ranges := def.EngagementRange
	for r, v := range cfg.EngagementRange {
		ranges[r] = v
	}
	cfg.EngagementRange = ranges
	if log == nil {
		log = logrus.StandardLogger()
	}
	return UseCase{
		Assign:   assigner,
		World:    world,
		Actuator: actuator,
		Log:      log,
		cfg:      cfg,
		registry: defaultRegistry(),
	}
}

// Register replaces the handler of a role.
func (u UseCase) Register(spec RoleSpec) {
	u.registry[spec.Role] = spec
}

func (u UseCase) jobs() jobqueue.UseCase { return u.Assign.Jobs }

// RunTick advances one agent by one tick. A returned *fault.Fault is local to
// the agent; the agent record is left consistent either way.
func (u UseCase) RunTick(ctx context.Context, c *colony.Colony, a *colony.Agent, squad []*colony.Agent, tick uint64) (Outcome, error) {
	out := Outcome{Agent: a.Name, Phase: PhaseIdle}
	spec, ok := u.registry[a.Role]
	if !ok {
		return out, fault.Configuration(a.Name, fmt.Errorf("%w: %q", colony.ErrUnknownRole, a.Role))
	}
	creep, ok := u.World.Agent(a.Name)
	if !ok || creep.Spawning {
		out.Phase = PhaseSpawning
		return out, nil
	}
	tc := &TickContext{Colony: c, Agent: a, Creep: creep, Tick: tick, Squad: squad, Outcome: out}

	if a.Job != nil {
		if err := u.resolve(tc); err != nil {
			return tc.Outcome, err
		}
	}
	if a.Job == nil {
		ok, err := spec.Handler.Acquire(ctx, u, tc)
		if err != nil {
			return tc.Outcome, fault.From(a.Name, err)
		}
		if !ok {
			tc.Outcome.Action = "idle"
			return tc.Outcome, nil
		}
	}
	if err := spec.Handler.Act(ctx, u, tc); err != nil {
		return tc.Outcome, fault.From(a.Name, err)
	}
	tc.Outcome.Job = a.Job
	return tc.Outcome, nil
}

// resolve checks the agent's job against the live queue and the world. A
// missing job or target clears the reference and yields a stale reference fault.
func (u UseCase) resolve(tc *TickContext) error {
	a := tc.Agent
	ref := *a.Job
	j, err := u.jobs().Lookup(tc.Colony, ref, tc.Tick)
	if err == nil && !targetExists(u.World, j) {
		err = fmt.Errorf("%w: %s", ErrTargetGone, j.TargetID)
		u.forget(tc.Colony, j)
	}
	if err == nil {
		return nil
	}
	if !errors.Is(err, jobqueue.ErrJobNotFound) && !errors.Is(err, ErrTargetGone) {
		a.ClearJob()
		return fault.Configuration(a.Name, err)
	}
	if ref.Category == jobs.CategoryAttack && errors.Is(err, jobqueue.ErrJobNotFound) {
		// the marker was deactivated or completed
		a.ClearJob()
		return nil
	}
	u.jobs().Release(tc.Colony, ref)
	a.ClearJob()
	tc.Outcome.Phase = PhaseIdle
	tc.Outcome.Action = "reset"
	return fault.StaleReference(a.Name, err)
}

func (u UseCase) acquireJob(ctx context.Context, tc *TickContext) (bool, error) {
	j, ok, err := u.Assign.Assign(ctx, tc.Colony, tc.Agent, tc.Tick)
	if err != nil || !ok {
		return false, err
	}
	tc.Outcome.Assigned = true
	tc.Outcome.Category = j.Category
	u.Log.WithFields(logrus.Fields{
		"colony":   tc.Colony.Name,
		"agent":    tc.Agent.Name,
		"category": j.Category,
		"tick":     tc.Tick,
	}).Debug("job assigned")
	return true, nil
}

type completion func(w ports.WorldSnapshot, cfg Config, j *jobs.Job, creep world.Creep) bool

// workJob moves the agent toward its job until in range, then performs one
// unit of work per tick until the job completes.
func (u UseCase) workJob(ctx context.Context, tc *TickContext, done completion) error {
	a := tc.Agent
	if a.Job == nil {
		return nil
	}
	j, err := u.jobs().Lookup(tc.Colony, *a.Job, tc.Tick)
	if err != nil {
		return err
	}
	tc.Outcome.Category = j.Category
	if done(u.World, u.cfg, j, tc.Creep) {
		u.finish(tc, j)
		return nil
	}
	if !a.Working && j.Reached(tc.Creep.Pos) {
		a.Working = true
	}
	if !a.Working {
		return u.travel(ctx, tc, j)
	}

	status, err := u.Actuator.PerformWork(ctx, a.Name, *j)
	if errors.Is(err, ports.ErrNotInRange) {
		a.Working = false
		return u.travel(ctx, tc, j)
	}
	if err != nil {
		return err
	}
	tc.Outcome.Phase = PhaseWorking
	tc.Outcome.Action = "work"
	switch status {
	case ports.WorkDone:
		u.finish(tc, j)
	case ports.WorkInvalid:
		ref := j.Ref()
		u.forget(tc.Colony, j)
		u.jobs().Release(tc.Colony, ref)
		a.ClearJob()
		tc.Outcome.Phase = PhaseIdle
		return fault.StaleReference(a.Name, fmt.Errorf("%w: %s", ErrTargetGone, ref.ID))
	}
	return nil
}

func (u UseCase) travel(ctx context.Context, tc *TickContext, j *jobs.Job) error {
	opts := ports.MoveOptions{Range: j.Category.Range(), ReusePath: u.cfg.ReusePath, HeuristicWeight: u.cfg.HeuristicWeight}
	if h, ok := j.Detail.(jobs.HarvestDetail); ok && h.Container != "" {
		opts.Range = 0
	}
	tc.Outcome.Phase = PhaseTraveling
	tc.Outcome.Action = "move"
	return u.Actuator.MoveToward(ctx, tc.Agent.Name, j.Target(), opts)
}

// forget drops the category queue and, when the snapshot caches the
// collection the job came from, that collection too.
func (u UseCase) forget(c *colony.Colony, j *jobs.Job) {
	u.jobs().Invalidate(c, j.Category)
	inv, ok := u.World.(ports.Invalidator)
	if !ok {
		return
	}
	if kind, ok := cacheKindOf(j.Category); ok {
		inv.Invalidate(j.Target().Room, kind)
	}
}

func (u UseCase) finish(tc *TickContext, j *jobs.Job) {
	u.jobs().Release(tc.Colony, j.Ref())
	tc.Agent.ClearJob()
	tc.Outcome.Phase = PhaseIdle
	tc.Outcome.Completed = true
	tc.Outcome.Action = "complete"
}
