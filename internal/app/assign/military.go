package assign

import (
	"slices"

	"hivemind/internal/domain/colony"
)

// SpawnMiliQueue returns the first queued role that the tier's list accepts.
// Queue order decides between candidates.
func (u UseCase) SpawnMiliQueue(c *colony.Colony, tier int) (colony.Role, bool) {
	allowed := u.cfg.MilitaryTiers[tier]
	for _, r := range c.MilitaryQueue {
		if slices.Contains(allowed, r) {
			return r, true
		}
	}
	return "", false
}

// PopMilitary removes the first queued entry of the role.
func PopMilitary(c *colony.Colony, role colony.Role) bool {
	i := slices.Index(c.MilitaryQueue, role)
	if i < 0 {
		return false
	}
	c.MilitaryQueue = slices.Delete(c.MilitaryQueue, i, i+1)
	return true
}

// QueueMilitary appends the roles of an attack marker's squad.
func QueueMilitary(c *colony.Colony, roles ...colony.Role) {
	c.MilitaryQueue = append(c.MilitaryQueue, roles...)
}
