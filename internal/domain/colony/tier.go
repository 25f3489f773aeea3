package colony

type Tier int

const (
	Tier1 Tier = 300
	Tier2 Tier = 550
	Tier3 Tier = 800
	Tier4 Tier = 1300
	Tier5 Tier = 1800
	Tier6 Tier = 2300
	Tier7 Tier = 5300
	Tier8 Tier = 12300
)

var tiers = []Tier{Tier1, Tier2, Tier3, Tier4, Tier5, Tier6, Tier7, Tier8}

// TierFor returns the highest tier the energy capacity can afford, never below Tier1.
func TierFor(energyCapacity int) Tier {
	out := Tier1
	for _, t := range tiers {
		if int(t) <= energyCapacity {
			out = t
		}
	}
	return out
}

// Level is the 1-based position of the tier in the tier ladder.
func (t Tier) Level() int {
	for i, v := range tiers {
		if v == t {
			return i + 1
		}
	}
	return 0
}

// MilitaryTier buckets tiers into the three military spawn brackets.
func (t Tier) MilitaryTier() int {
	switch {
	case t >= Tier6:
		return 3
	case t >= Tier4:
		return 2
	default:
		return 1
	}
}

// bodySizes approximates the part count spawned per role and tier. Composition
// belongs to the spawn executor; the controller only needs the size to reason
// about ticks to live.
var bodySizes = map[Role][]int{
	RoleMiner:            {4, 6, 7, 7, 7, 7, 7, 7},
	RoleHarvester:        {5, 9, 12, 18, 24, 30, 30, 30},
	RoleWorker:           {5, 9, 12, 18, 24, 30, 30, 30},
	RolePowerUpgrader:    {6, 9, 12, 18, 24, 30, 36, 36},
	RoleLorry:            {6, 9, 12, 18, 24, 30, 30, 30},
	RoleRemoteMiner:      {4, 7, 8, 8, 8, 8, 8, 8},
	RoleRemoteHarvester:  {6, 9, 12, 18, 24, 30, 30, 30},
	RoleRemoteReserver:   {2, 2, 2, 4, 4, 6, 10, 10},
	RoleRemoteDefender:   {6, 8, 10, 16, 20, 26, 30, 30},
	RoleClaimer:          {2, 2, 2, 2, 2, 2, 2, 2},
	RoleRemoteColonizer:  {6, 9, 12, 18, 24, 30, 30, 30},
	RoleZealot:           {4, 8, 10, 16, 20, 26, 36, 50},
	RoleStalker:          {4, 6, 8, 12, 16, 20, 30, 40},
	RoleMedic:            {2, 4, 6, 8, 10, 14, 24, 30},
	RoleDomesticDefender: {4, 8, 10, 16, 20, 26, 36, 50},
}

func BodySize(role Role, tier Tier) int {
	sizes, ok := bodySizes[role]
	lvl := tier.Level()
	if !ok || lvl == 0 {
		return 0
	}
	return sizes[lvl-1]
}
