package jobs

type Category string

const (
	CategorySource     Category = "source"
	CategoryContainer  Category = "container"
	CategoryLink       Category = "link"
	CategoryBackup     Category = "backup"
	CategoryPickup     Category = "pickup"
	CategoryClaim      Category = "claim"
	CategoryReserve    Category = "reserve"
	CategorySign       Category = "sign"
	CategoryAttack     Category = "attack"
	CategoryRepair     Category = "repair"
	CategoryWallRepair Category = "wallRepair"
	CategoryBuild      Category = "build"
	CategoryUpgrade    Category = "upgrade"
	CategoryFill       Category = "fill"
	CategoryStore      Category = "store"
)

// TTL values: -1 keeps a queue until it is invalidated, 0 and 1 recompute every
// tick, N recomputes every N ticks.
const (
	TTLForever   = -1
	TTLEveryTick = 1
)

func AllCategories() []Category {
	return []Category{
		CategorySource, CategoryContainer, CategoryLink, CategoryBackup, CategoryPickup,
		CategoryClaim, CategoryReserve, CategorySign, CategoryAttack,
		CategoryRepair, CategoryWallRepair, CategoryBuild, CategoryUpgrade,
		CategoryFill, CategoryStore,
	}
}

func DefaultTTLs() map[Category]int {
	return map[Category]int{
		CategorySource:     TTLForever,
		CategoryContainer:  5,
		CategoryLink:       50,
		CategoryBackup:     5,
		CategoryPickup:     50,
		CategoryClaim:      TTLEveryTick,
		CategoryReserve:    TTLEveryTick,
		CategorySign:       50,
		CategoryAttack:     TTLEveryTick,
		CategoryRepair:     10,
		CategoryWallRepair: 10,
		CategoryBuild:      10,
		CategoryUpgrade:    TTLForever,
		CategoryFill:       10,
		CategoryStore:      50,
	}
}

// IsEnergySource reports whether jobs of this category give energy to the agent.
func (c Category) IsEnergySource() bool {
	switch c {
	case CategorySource, CategoryContainer, CategoryLink, CategoryBackup, CategoryPickup:
		return true
	}
	return false
}

// Range is how close an agent must be to the job target to work on it.
func (c Category) Range() int {
	switch c {
	case CategoryBuild, CategoryRepair, CategoryWallRepair, CategoryUpgrade:
		return 3
	case CategoryAttack:
		return 0
	default:
		return 1
	}
}
