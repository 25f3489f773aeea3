package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"hivemind/internal/adapter/journal"
	worldruntime "hivemind/internal/adapter/world/runtime"
	"hivemind/internal/app/agent"
	"hivemind/internal/app/assign"
	"hivemind/internal/app/classify"
	"hivemind/internal/app/dependent"
	"hivemind/internal/app/jobqueue"
	"hivemind/internal/app/ports"
	"hivemind/internal/app/spawn"
	"hivemind/internal/domain/colony"
	"hivemind/internal/domain/jobs"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is the controller tuning file.
type Config struct {
	Username   string           `yaml:"username"`
	Allies     []string         `yaml:"allies"`
	CacheTTL   map[string]int   `yaml:"cache_ttl"`
	JobTTL     map[string]int   `yaml:"job_ttl"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Jobs       JobsConfig       `yaml:"jobs"`
	Remote     RemoteConfig     `yaml:"remote"`
	Military   MilitaryConfig   `yaml:"military"`
	Move       MoveConfig       `yaml:"move"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Journal    JournalConfig    `yaml:"journal"`
}

type ClassifierConfig struct {
	IntroMaxAgents    int `yaml:"intro_max_agents"`
	SiegeDefcon       int `yaml:"siege_defcon"`
	SiegeSustainTicks int `yaml:"siege_sustain_ticks"`
	DefconHeavyParts  int `yaml:"defcon_heavy_parts"`
}

type JobsConfig struct {
	UpgradeSeats int     `yaml:"upgrade_seats"`
	RepairBelow  float64 `yaml:"repair_below"`
}

type RemoteConfig struct {
	ReserverMinTTL int `yaml:"reserver_min_ttl"`
	SpawningTTL    int `yaml:"spawning_ttl"`
}

type MilitaryConfig struct {
	Tiers           map[int][]string `yaml:"tiers"`
	EngagementRange map[string]int   `yaml:"engagement_range"`
	FleeHitsRatio   float64          `yaml:"flee_hits_ratio"`
	RallyRange      int              `yaml:"rally_range"`
	DefenderDefcon  int              `yaml:"defender_defcon"`
	DefenderLimit   int              `yaml:"defender_limit"`
	// OneTimeUse is keyed by attack kind; unlisted kinds are one-time-use.
	OneTimeUse map[string]bool `yaml:"one_time_use"`
}

type MoveConfig struct {
	ReusePath       int     `yaml:"reuse_path"`
	HeuristicWeight float64 `yaml:"heuristic_weight"`
}

type SpawnConfig struct {
	// Limits maps operating state names to per-role caps.
	Limits map[string]map[string]int `yaml:"limits"`
}

type JournalConfig struct {
	Dir          string `yaml:"dir"`
	SegmentTicks uint64 `yaml:"segment_ticks"`
}

// Default returns the built-in tuning.
func Default() Config {
	var c Config
	c.applyDefaults()
	return c
}

// Load reads a yaml tuning file. Keys left out keep their defaults.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(raw)
}

func Parse(raw []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Config{}, fmt.Errorf("tuning.yaml: %w", err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.CacheTTL == nil {
		c.CacheTTL = map[string]int{}
	}
	for kind, ttl := range worldruntime.DefaultConfig().TTL {
		if _, ok := c.CacheTTL[string(kind)]; !ok {
			c.CacheTTL[string(kind)] = ttl
		}
	}
	if c.JobTTL == nil {
		c.JobTTL = map[string]int{}
	}
	for cat, ttl := range jobs.DefaultTTLs() {
		if _, ok := c.JobTTL[string(cat)]; !ok {
			c.JobTTL[string(cat)] = ttl
		}
	}

	cd := classify.DefaultConfig()
	c.Classifier.IntroMaxAgents = orInt(c.Classifier.IntroMaxAgents, cd.IntroMaxAgents)
	c.Classifier.SiegeDefcon = orInt(c.Classifier.SiegeDefcon, cd.SiegeDefcon)
	c.Classifier.SiegeSustainTicks = orInt(c.Classifier.SiegeSustainTicks, cd.SiegeSustainTicks)
	c.Classifier.DefconHeavyParts = orInt(c.Classifier.DefconHeavyParts, cd.DefconHeavyParts)

	jd := jobqueue.DefaultConfig()
	c.Jobs.UpgradeSeats = orInt(c.Jobs.UpgradeSeats, jd.UpgradeSeats)
	if c.Jobs.RepairBelow <= 0 {
		c.Jobs.RepairBelow = jd.RepairBelow
	}

	ad := assign.DefaultConfig()
	c.Remote.ReserverMinTTL = orInt(c.Remote.ReserverMinTTL, ad.ReserverMinTTL)
	c.Remote.SpawningTTL = orInt(c.Remote.SpawningTTL, ad.SpawningTTL)
	if len(c.Military.Tiers) == 0 {
		c.Military.Tiers = map[int][]string{}
		for tier, roles := range ad.MilitaryTiers {
			c.Military.Tiers[tier] = roleNames(roles)
		}
	}

	gd := agent.DefaultConfig()
	if c.Military.EngagementRange == nil {
		c.Military.EngagementRange = map[string]int{}
	}
	for role, r := range gd.EngagementRange {
		if _, ok := c.Military.EngagementRange[string(role)]; !ok {
			c.Military.EngagementRange[string(role)] = r
		}
	}
	if c.Military.FleeHitsRatio <= 0 {
		c.Military.FleeHitsRatio = gd.FleeHitsRatio
	}
	c.Military.RallyRange = orInt(c.Military.RallyRange, gd.RallyRange)
	if c.Military.OneTimeUse == nil {
		c.Military.OneTimeUse = map[string]bool{}
	}
	for _, k := range []colony.AttackKind{colony.AttackZealotSolo, colony.AttackStalkerSolo, colony.AttackStandardSquad} {
		if _, ok := c.Military.OneTimeUse[k.String()]; !ok {
			c.Military.OneTimeUse[k.String()] = true
		}
	}
	c.Move.ReusePath = orInt(c.Move.ReusePath, gd.ReusePath)
	if c.Move.HeuristicWeight <= 0 {
		c.Move.HeuristicWeight = gd.HeuristicWeight
	}

	sd := spawn.DefaultConfig()
	c.Military.DefenderDefcon = orInt(c.Military.DefenderDefcon, sd.DefenderDefcon)
	c.Military.DefenderLimit = orInt(c.Military.DefenderLimit, sd.DefenderLimit)
	if len(c.Spawn.Limits) == 0 {
		c.Spawn.Limits = map[string]map[string]int{}
		for state, caps := range sd.Limits {
			row := map[string]int{}
			for role, n := range caps {
				row[string(role)] = n
			}
			c.Spawn.Limits[state.String()] = row
		}
	}

	if c.Journal.Dir == "" {
		c.Journal.Dir = "./data/journal"
	}
	if c.Journal.SegmentTicks == 0 {
		c.Journal.SegmentTicks = journal.DefaultSegmentTicks
	}
}

// Validate rejects unknown role, state and category names.
func (c Config) Validate() error {
	for kind := range c.CacheTTL {
		if !knownCacheKind(ports.CacheKind(kind)) {
			return fmt.Errorf("%w: unknown cache kind %q", ErrInvalidConfig, kind)
		}
	}
	for cat := range c.JobTTL {
		if !knownCategory(jobs.Category(cat)) {
			return fmt.Errorf("%w: unknown job category %q", ErrInvalidConfig, cat)
		}
	}
	for tier, roles := range c.Military.Tiers {
		for _, r := range roles {
			if !colony.Role(r).IsMilitary() {
				return fmt.Errorf("%w: tier %d lists non-military role %q", ErrInvalidConfig, tier, r)
			}
		}
	}
	for r := range c.Military.EngagementRange {
		if !colony.Role(r).Valid() {
			return fmt.Errorf("%w: unknown role %q", ErrInvalidConfig, r)
		}
	}
	for kind := range c.Military.OneTimeUse {
		if _, ok := colony.ParseAttackKind(kind); !ok {
			return fmt.Errorf("%w: unknown attack kind %q", ErrInvalidConfig, kind)
		}
	}
	for state, caps := range c.Spawn.Limits {
		if _, ok := colony.ParseOperatingState(state); !ok {
			return fmt.Errorf("%w: unknown operating state %q", ErrInvalidConfig, state)
		}
		for r := range caps {
			if !colony.Role(r).Valid() {
				return fmt.Errorf("%w: unknown role %q", ErrInvalidConfig, r)
			}
		}
	}
	if c.Military.FleeHitsRatio > 1 || c.Jobs.RepairBelow > 1 {
		return fmt.Errorf("%w: ratios must be within (0, 1]", ErrInvalidConfig)
	}
	return nil
}

func (c Config) Runtime() worldruntime.Config {
	out := worldruntime.Config{TTL: map[ports.CacheKind]int{}}
	for kind, ttl := range c.CacheTTL {
		out.TTL[ports.CacheKind(kind)] = ttl
	}
	return out
}

func (c Config) Classify() classify.Config {
	return classify.Config{
		IntroMaxAgents:    c.Classifier.IntroMaxAgents,
		SiegeDefcon:       c.Classifier.SiegeDefcon,
		SiegeSustainTicks: c.Classifier.SiegeSustainTicks,
		DefconHeavyParts:  c.Classifier.DefconHeavyParts,
		Allies:            c.Allies,
	}
}

func (c Config) JobQueue() jobqueue.Config {
	ttl := map[jobs.Category]int{}
	for cat, n := range c.JobTTL {
		ttl[jobs.Category(cat)] = n
	}
	return jobqueue.Config{
		TTL:          ttl,
		Username:     c.Username,
		UpgradeSeats: c.Jobs.UpgradeSeats,
		RepairBelow:  c.Jobs.RepairBelow,
	}
}

func (c Config) Dependent() dependent.Config {
	once := map[colony.AttackKind]bool{}
	for name, v := range c.Military.OneTimeUse {
		if k, ok := colony.ParseAttackKind(name); ok {
			once[k] = v
		}
	}
	return dependent.Config{Username: c.Username, OneTimeUse: once}
}

func (c Config) Assign() assign.Config {
	tiers := map[int][]colony.Role{}
	for tier, roles := range c.Military.Tiers {
		for _, r := range roles {
			tiers[tier] = append(tiers[tier], colony.Role(r))
		}
	}
	return assign.Config{
		ReserverMinTTL: c.Remote.ReserverMinTTL,
		SpawningTTL:    c.Remote.SpawningTTL,
		MilitaryTiers:  tiers,
	}
}

func (c Config) Agent() agent.Config {
	ranges := map[colony.Role]int{}
	for r, n := range c.Military.EngagementRange {
		ranges[colony.Role(r)] = n
	}
	return agent.Config{
		Username:        c.Username,
		Allies:          c.Allies,
		ReusePath:       c.Move.ReusePath,
		HeuristicWeight: c.Move.HeuristicWeight,
		FleeHitsRatio:   c.Military.FleeHitsRatio,
		RallyRange:      c.Military.RallyRange,
		EngagementRange: ranges,
	}
}

func (c Config) SpawnSettings() spawn.Config {
	limits := spawn.Limits{}
	for name, caps := range c.Spawn.Limits {
		state, ok := colony.ParseOperatingState(name)
		if !ok {
			continue
		}
		row := map[colony.Role]int{}
		for r, n := range caps {
			row[colony.Role(r)] = n
		}
		limits[state] = row
	}
	return spawn.Config{
		Limits:         limits,
		DefenderDefcon: c.Military.DefenderDefcon,
		DefenderLimit:  c.Military.DefenderLimit,
	}
}

func orInt(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}

func roleNames(roles []colony.Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}

func knownCacheKind(k ports.CacheKind) bool {
	_, ok := worldruntime.DefaultConfig().TTL[k]
	return ok
}

func knownCategory(c jobs.Category) bool {
	for _, known := range jobs.AllCategories() {
		if known == c {
			return true
		}
	}
	return false
}
