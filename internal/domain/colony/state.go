package colony

type OperatingState int

const (
	StateIntro OperatingState = iota
	StateBeginner
	StateIntermediate
	StateAdvanced
	StateUpgrader
	StateSiege
	StateStimulate
	StateNukeInbound
)

var stateNames = map[OperatingState]string{
	StateIntro:        "intro",
	StateBeginner:     "beginner",
	StateIntermediate: "intermediate",
	StateAdvanced:     "advanced",
	StateUpgrader:     "upgrader",
	StateSiege:        "siege",
	StateStimulate:    "stimulate",
	StateNukeInbound:  "nukeInbound",
}

func (s OperatingState) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// ParseOperatingState is the inverse of String.
func ParseOperatingState(name string) (OperatingState, bool) {
	for s, n := range stateNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}

// IsEmergency is true for states that override the infrastructure ladder.
func (s OperatingState) IsEmergency() bool {
	return s == StateSiege || s == StateNukeInbound
}

// WallLimit is the hit cap walls and ramparts are repaired to, by controller level.
func WallLimit(controllerLevel int) int {
	limits := [...]int{0, 25000, 50000, 100000, 250000, 500000, 1000000, 1500000, 5000000}
	if controllerLevel < 0 {
		return 0
	}
	if controllerLevel >= len(limits) {
		return limits[len(limits)-1]
	}
	return limits[controllerLevel]
}
