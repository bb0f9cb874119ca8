package gameimport

import "github.com/league-stats/internal/domain"

// Vendor lookup tables. Switches keep them immutable.

func towerKind(towerType string) (domain.EventKind, bool) {
	switch towerType {
	case "OUTER_TURRET":
		return domain.EventOuterTurret, true
	case "INNER_TURRET":
		return domain.EventInnerTurret, true
	case "BASE_TURRET":
		return domain.EventBaseTurret, true
	case "NEXUS_TURRET":
		return domain.EventNexusTurret, true
	}
	return "", false
}

func dragonKind(monsterSubType string) (domain.EventKind, bool) {
	switch monsterSubType {
	case "AIR_DRAGON":
		return domain.EventCloudDrake, true
	case "FIRE_DRAGON":
		return domain.EventInfernalDrake, true
	case "EARTH_DRAGON":
		return domain.EventMountainDrake, true
	case "WATER_DRAGON":
		return domain.EventOceanDrake, true
	case "HEXTECH_DRAGON":
		return domain.EventHextechDrake, true
	case "CHEMTECH_DRAGON":
		return domain.EventChemtechDrake, true
	case "ELDER_DRAGON":
		return domain.EventElderDragon, true
	}
	return "", false
}

func monsterKind(monsterType, monsterSubType string) (domain.EventKind, bool) {
	switch monsterType {
	case "BARON_NASHOR":
		return domain.EventBaron, true
	case "RIFTHERALD":
		return domain.EventHerald, true
	case "ATAKHAN":
		return domain.EventAtakhan, true
	case "HORDE":
		return domain.EventVoidgrub, true
	case "DRAGON":
		return dragonKind(monsterSubType)
	}
	return "", false
}

func laneFor(laneType string) (domain.Lane, bool) {
	switch laneType {
	case "TOP_LANE":
		return domain.LaneTop, true
	case "MID_LANE":
		return domain.LaneMiddle, true
	case "BOT_LANE":
		return domain.LaneBottom, true
	}
	return "", false
}

func skillSlotFor(slot int) (domain.SkillSlot, bool) {
	switch slot {
	case 1:
		return domain.SkillQ, true
	case 2:
		return domain.SkillW, true
	case 3:
		return domain.SkillE, true
	case 4:
		return domain.SkillR, true
	}
	return "", false
}

func levelUpKindFor(levelUpType string) (domain.LevelUpKind, bool) {
	switch levelUpType {
	case "NORMAL":
		return domain.LevelUpNormal, true
	case "EVOLVE":
		return domain.LevelUpEvolve, true
	}
	return "", false
}
