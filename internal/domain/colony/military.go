package colony

// SquadRoles is the composition spawned for each attack marker kind.
func SquadRoles(kind AttackKind) []Role {
	switch kind {
	case AttackZealotSolo:
		return []Role{RoleZealot}
	case AttackStalkerSolo:
		return []Role{RoleStalker}
	case AttackStandardSquad:
		return []Role{RoleZealot, RoleStalker, RoleMedic}
	}
	return nil
}

// DefaultMilitaryTiers are the per-tier role lists consulted when picking the
// next military spawn from a colony queue.
func DefaultMilitaryTiers() map[int][]Role {
	return map[int][]Role{
		1: {RoleZealot, RoleDomesticDefender},
		2: {RoleZealot, RoleStalker, RoleMedic, RoleDomesticDefender},
		3: {RoleMedic, RoleStalker, RoleZealot, RoleDomesticDefender, RoleRemoteDefender},
	}
}

// MilitaryOptions builds the squad options of a freshly spawned military agent.
func MilitaryOptions(role Role, marker *AttackMarker) *Squad {
	switch role {
	case RoleRemoteDefender:
		return &Squad{Size: 1}
	case RoleDomesticDefender:
		return &Squad{Size: 0}
	case RoleZealot, RoleStalker, RoleMedic:
		if marker == nil {
			return &Squad{Size: 1}
		}
		sq := &Squad{Size: marker.SquadSize, UUID: marker.SquadUUID}
		if marker.Rally != nil {
			r := *marker.Rally
			sq.Rally = &r
		}
		return sq
	}
	return nil
}
