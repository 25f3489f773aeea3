package colony

import "errors"

type Role string

const (
	RoleMiner            Role = "miner"
	RoleHarvester        Role = "harvester"
	RoleWorker           Role = "worker"
	RolePowerUpgrader    Role = "powerUpgrader"
	RoleLorry            Role = "lorry"
	RoleRemoteMiner      Role = "remoteMiner"
	RoleRemoteHarvester  Role = "remoteHarvester"
	RoleRemoteReserver   Role = "remoteReserver"
	RoleRemoteDefender   Role = "remoteDefender"
	RoleClaimer          Role = "claimer"
	RoleRemoteColonizer  Role = "remoteColonizer"
	RoleZealot           Role = "zealot"
	RoleStalker          Role = "stalker"
	RoleMedic            Role = "medic"
	RoleDomesticDefender Role = "domesticDefender"
)

var ErrUnknownRole = errors.New("unknown role")

// DomesticPriority is the spawn and assignment order of home-room roles.
var DomesticPriority = []Role{RoleMiner, RoleHarvester, RoleWorker, RolePowerUpgrader, RoleLorry}

// RemotePriority is the order for roles working dependent rooms.
var RemotePriority = []Role{RoleRemoteReserver, RoleRemoteMiner, RoleRemoteHarvester, RoleRemoteDefender, RoleRemoteColonizer}

var MilitaryRoles = []Role{RoleZealot, RoleStalker, RoleMedic, RoleDomesticDefender}

func AllRoles() []Role {
	out := make([]Role, 0, len(DomesticPriority)+len(RemotePriority)+len(MilitaryRoles)+1)
	out = append(out, DomesticPriority...)
	out = append(out, RemotePriority...)
	out = append(out, RoleClaimer)
	out = append(out, MilitaryRoles...)
	return out
}

// Priority ranks roles: domestic first, then remote, then claimers and military.
// Lower ranks go first. Unknown roles rank last.
func Priority(r Role) int {
	for i, role := range AllRoles() {
		if role == r {
			return i
		}
	}
	return len(AllRoles())
}

func (r Role) Valid() bool {
	for _, role := range AllRoles() {
		if role == r {
			return true
		}
	}
	return false
}

func (r Role) IsMilitary() bool {
	switch r {
	case RoleZealot, RoleStalker, RoleMedic, RoleDomesticDefender, RoleRemoteDefender:
		return true
	}
	return false
}

// IsRemote reports roles whose target room is a dependent room.
func (r Role) IsRemote() bool {
	switch r {
	case RoleRemoteMiner, RoleRemoteHarvester, RoleRemoteReserver, RoleRemoteDefender, RoleClaimer, RoleRemoteColonizer:
		return true
	}
	return false
}

// IsClaimRole reports roles sent to claim rooms.
func (r Role) IsClaimRole() bool {
	return r == RoleClaimer || r == RoleRemoteColonizer
}
