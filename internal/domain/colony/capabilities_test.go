package colony

import "testing"

func TestCapabilitiesFor_HarvesterFollowsState(t *testing.T) {
	intro, ok := CapabilitiesFor(RoleHarvester, StateIntro)
	if !ok {
		t.Fatalf("expected harvester row")
	}
	if !intro.FillSpawn || !intro.HarvestSources || intro.Build {
		t.Fatalf("unexpected intro harvester capabilities: %+v", intro)
	}
	adv, _ := CapabilitiesFor(RoleHarvester, StateAdvanced)
	if !adv.FillStorage || !adv.GetFromStorage || adv.HarvestSources {
		t.Fatalf("unexpected advanced harvester capabilities: %+v", adv)
	}
}

func TestCapabilitiesFor_PowerUpgraderOnlyWithLinks(t *testing.T) {
	c, _ := CapabilitiesFor(RolePowerUpgrader, StateAdvanced)
	if c != (Capabilities{}) {
		t.Fatalf("expected no capabilities before upgrader state, got %+v", c)
	}
	c, _ = CapabilitiesFor(RolePowerUpgrader, StateUpgrader)
	if !c.Upgrade || !c.GetFromLink {
		t.Fatalf("expected upgrade + link capabilities, got %+v", c)
	}
}

func TestCapabilitiesFor_ClaimRolesCanClaim(t *testing.T) {
	for _, r := range []Role{RoleClaimer, RoleRemoteReserver} {
		c, ok := CapabilitiesFor(r, StateBeginner)
		if !ok || !c.Claim {
			t.Fatalf("expected %s to claim, got %+v", r, c)
		}
	}
}

func TestCapabilitiesFor_EveryRoleHasRow(t *testing.T) {
	for _, r := range AllRoles() {
		if _, ok := CapabilitiesFor(r, StateIntro); !ok {
			t.Fatalf("missing capability row for %s", r)
		}
	}
	if _, ok := CapabilitiesFor(Role("scout"), StateIntro); ok {
		t.Fatalf("expected no row for unknown role")
	}
}

func TestPriority_DomesticBeforeRemoteBeforeMilitary(t *testing.T) {
	if !(Priority(RoleMiner) < Priority(RoleHarvester) && Priority(RoleHarvester) < Priority(RoleWorker)) {
		t.Fatalf("expected miner < harvester < worker")
	}
	if !(Priority(RoleLorry) < Priority(RoleRemoteReserver)) {
		t.Fatalf("expected domestic roles before remote roles")
	}
	if !(Priority(RoleRemoteColonizer) < Priority(RoleZealot)) {
		t.Fatalf("expected remote roles before military roles")
	}
}

func TestTierFor(t *testing.T) {
	cases := map[int]Tier{0: Tier1, 300: Tier1, 549: Tier1, 550: Tier2, 1299: Tier3, 12300: Tier8, 99999: Tier8}
	for capacity, want := range cases {
		if got := TierFor(capacity); got != want {
			t.Fatalf("TierFor(%d) expected %d, got %d", capacity, want, got)
		}
	}
	if BodySize(RoleMiner, Tier2) != 6 {
		t.Fatalf("expected miner tier 2 body size 6, got %d", BodySize(RoleMiner, Tier2))
	}
}

func TestWallLimit(t *testing.T) {
	if WallLimit(0) != 0 || WallLimit(3) != 100000 || WallLimit(8) != 5000000 || WallLimit(12) != 5000000 {
		t.Fatalf("unexpected wall limits")
	}
}
