package jobqueue

import (
	"errors"
	"fmt"
	"strings"

	"hivemind/internal/app/ports"
	"hivemind/internal/domain/colony"
	"hivemind/internal/domain/jobs"
)

var ErrJobNotFound = errors.New("job not found")

type Config struct {
	TTL          map[jobs.Category]int
	Username     string
	UpgradeSeats int
	// RepairBelow is the hits ratio under which a structure gets a repair job.
	RepairBelow float64
}

func DefaultConfig() Config {
	return Config{
		TTL:          jobs.DefaultTTLs(),
		UpgradeSeats: 4,
		RepairBelow:  0.75,
	}
}

type UseCase struct {
	World    ports.WorldSnapshot
	cfg      Config
	registry map[jobs.Category]categorySpec
}

func NewUseCase(world ports.WorldSnapshot, cfg Config) UseCase {
	def := DefaultConfig()
	ttl := def.TTL
	for k, v := range cfg.TTL {
		ttl[k] = v
	}
	cfg.TTL = ttl
	if cfg.UpgradeSeats <= 0 {
		cfg.UpgradeSeats = def.UpgradeSeats
	}
	if cfg.RepairBelow <= 0 || cfg.RepairBelow > 1 {
		cfg.RepairBelow = def.RepairBelow
	}
	return UseCase{World: world, cfg: cfg, registry: categoryRegistry()}
}

func (u UseCase) TTL(c jobs.Category) int {
	return u.cfg.TTL[c]
}

// BuildJobs returns the live queue of a category, recomputing it first when its
// TTL expired or it was invalidated. The returned pointers alias the colony board.
func (u UseCase) BuildJobs(c *colony.Colony, category jobs.Category, now uint64) ([]*jobs.Job, error) {
	q, err := u.refresh(c, category, now)
	if err != nil {
		return nil, err
	}
	out := make([]*jobs.Job, 0, len(q.Jobs))
	for i := range q.Jobs {
		out = append(out, &q.Jobs[i])
	}
	return out, nil
}

func (u UseCase) Untaken(c *colony.Colony, category jobs.Category, now uint64) ([]*jobs.Job, error) {
	all, err := u.BuildJobs(c, category, now)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, j := range all {
		if !j.Taken {
			out = append(out, j)
		}
	}
	return out, nil
}

// Lookup resolves an agent's job reference against the live queue.
func (u UseCase) Lookup(c *colony.Colony, ref jobs.Ref, now uint64) (*jobs.Job, error) {
	q, err := u.refresh(c, ref.Category, now)
	if err != nil {
		return nil, err
	}
	j, ok := q.Find(ref.ID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, ref.ID)
	}
	return j, nil
}

func (u UseCase) Release(c *colony.Colony, ref jobs.Ref) bool {
	c.EnsureBoard()
	return c.Jobs.Release(ref)
}

func (u UseCase) Invalidate(c *colony.Colony, category jobs.Category) {
	c.EnsureBoard()
	c.Jobs.Invalidate(category)
}

func (u UseCase) refresh(c *colony.Colony, category jobs.Category, now uint64) (*jobs.Queue, error) {
	spec, ok := u.registry[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", jobs.ErrUnknownCategory, category)
	}
	c.EnsureBoard()
	q := c.Jobs.Queue(category)
	rooms := spec.Rooms(c)
	sc := scanContext{world: u.World, cfg: u.cfg, colony: c}

	// A changed room list or world signature invalidates the queue whatever
	// its TTL, so permanent queues pick up new dependent rooms.
	sig := strings.Join(rooms, ",")
	if spec.Signature != nil {
		sig += "|" + spec.Signature(sc, rooms)
	}
	if q.Valid && sig != q.Signature {
		q.Valid = false
	}
	if !q.Stale(u.cfg.TTL[category], now) {
		return q, nil
	}

	taken := make(map[string]bool, len(q.Jobs))
	for _, j := range q.Jobs {
		if j.Taken {
			taken[j.ID] = true
		}
	}
	seen := map[string]bool{}
	fresh := make([]jobs.Job, 0, len(q.Jobs))
	for _, room := range rooms {
		for _, j := range spec.Scan(sc, room) {
			if seen[j.ID] {
				continue
			}
			seen[j.ID] = true
			j.Category = category
			j.Taken = taken[j.ID]
			fresh = append(fresh, j)
		}
	}
	q.Jobs = fresh
	q.RefreshedTick = now
	q.Valid = true
	q.Signature = sig
	return q, nil
}
