package domain

import "fmt"

// Side is one of the two teams in a game, using the vendor's team ids
type Side int

const (
	SideBlue Side = 100
	SideRed  Side = 200
)

// NumSides is the number of sides in a game
const NumSides = 2

// Sides lists both sides in storage order
var Sides = [NumSides]Side{SideBlue, SideRed}

// ParseSide validates a vendor team id
func ParseSide(teamID int) (Side, bool) {
	switch Side(teamID) {
	case SideBlue, SideRed:
		return Side(teamID), true
	}
	return 0, false
}

// Index returns 0 for blue and 1 for red
func (s Side) Index() int {
	if s == SideRed {
		return 1
	}
	return 0
}

// Opponent returns the other side
func (s Side) Opponent() Side {
	if s == SideRed {
		return SideBlue
	}
	return SideRed
}

// Role is a positional assignment within a side
type Role int

const (
	RoleTop Role = iota
	RoleJungle
	RoleMiddle
	RoleBottom
	RoleSupport
)

// NumRoles is the number of roles per side
const NumRoles = 5

// Roles lists every role in storage order
var Roles = [NumRoles]Role{RoleTop, RoleJungle, RoleMiddle, RoleBottom, RoleSupport}

func (r Role) String() string {
	switch r {
	case RoleTop:
		return "Top"
	case RoleJungle:
		return "Jungle"
	case RoleMiddle:
		return "Middle"
	case RoleBottom:
		return "Bottom"
	case RoleSupport:
		return "Support"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// MarshalText encodes the role by name
func (r Role) MarshalText() ([]byte, error) {
	if r < RoleTop || r > RoleSupport {
		return nil, fmt.Errorf("invalid role %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a role name
func (r *Role) UnmarshalText(text []byte) error {
	for _, role := range Roles {
		if role.String() == string(text) {
			*r = role
			return nil
		}
	}
	return fmt.Errorf("invalid role %q", string(text))
}

// RoleFromTeamPosition maps the vendor teamPosition field to a role.
// Only the five vendor values are accepted.
func RoleFromTeamPosition(teamPosition string) (Role, bool) {
	switch teamPosition {
	case "TOP":
		return RoleTop, true
	case "JUNGLE":
		return RoleJungle, true
	case "MIDDLE":
		return RoleMiddle, true
	case "BOTTOM":
		return RoleBottom, true
	case "UTILITY":
		return RoleSupport, true
	}
	return 0, false
}

// Checkpoint is a fixed in-game minute at which stats are snapshotted
type Checkpoint int

const (
	Checkpoint10 Checkpoint = iota
	Checkpoint15
	Checkpoint20
)

// NumCheckpoints is the number of snapshot minutes
const NumCheckpoints = 3

// Checkpoints lists every checkpoint in time order
var Checkpoints = [NumCheckpoints]Checkpoint{Checkpoint10, Checkpoint15, Checkpoint20}

// Minute returns the in-game minute of the checkpoint
func (c Checkpoint) Minute() int {
	switch c {
	case Checkpoint10:
		return 10
	case Checkpoint15:
		return 15
	case Checkpoint20:
		return 20
	}
	return -1
}

// CheckpointAt returns the checkpoint captured at a frame minute
func CheckpointAt(minute int) (Checkpoint, bool) {
	switch minute {
	case 10:
		return Checkpoint10, true
	case 15:
		return Checkpoint15, true
	case 20:
		return Checkpoint20, true
	}
	return 0, false
}

// Lane identifies a map lane for structure events
type Lane string

const (
	LaneTop    Lane = "Top"
	LaneMiddle Lane = "Middle"
	LaneBottom Lane = "Bottom"
)

// EventKind classifies a GameEvent
type EventKind string

const (
	EventChampionKill  EventKind = "Champion Kill"
	EventOuterTurret   EventKind = "Outer Turret"
	EventInnerTurret   EventKind = "Inner Turret"
	EventBaseTurret    EventKind = "Base Turret"
	EventNexusTurret   EventKind = "Nexus Turret"
	EventInhibitor     EventKind = "Inhibitor"
	EventTurretPlate   EventKind = "Turret Plate"
	EventBaron         EventKind = "Baron"
	EventHerald        EventKind = "Herald"
	EventAtakhan       EventKind = "Atakhan"
	EventVoidgrub      EventKind = "Voidgrub"
	EventCloudDrake    EventKind = "Cloud Drake"
	EventInfernalDrake EventKind = "Infernal Drake"
	EventMountainDrake EventKind = "Mountain Drake"
	EventOceanDrake    EventKind = "Ocean Drake"
	EventHextechDrake  EventKind = "Hextech Drake"
	EventChemtechDrake EventKind = "Chemtech Drake"
	EventElderDragon   EventKind = "Elder Dragon"
)

// IsDragon reports whether the kind is any dragon kill
func (k EventKind) IsDragon() bool {
	switch k {
	case EventCloudDrake, EventInfernalDrake, EventMountainDrake, EventOceanDrake,
		EventHextechDrake, EventChemtechDrake, EventElderDragon:
		return true
	}
	return false
}

// IsTurret reports whether the kind is a destroyed turret of any tier
func (k EventKind) IsTurret() bool {
	switch k {
	case EventOuterTurret, EventInnerTurret, EventBaseTurret, EventNexusTurret:
		return true
	}
	return false
}

// StoreActionKind distinguishes purchases from sales
type StoreActionKind string

const (
	StorePurchase StoreActionKind = "Purchase"
	StoreSell     StoreActionKind = "Sell"
)

// SkillSlot is the ability key that was leveled
type SkillSlot string

const (
	SkillQ SkillSlot = "Q"
	SkillW SkillSlot = "W"
	SkillE SkillSlot = "E"
	SkillR SkillSlot = "R"
)

// LevelUpKind distinguishes regular level-ups from evolutions
type LevelUpKind string

const (
	LevelUpNormal LevelUpKind = "Normal"
	LevelUpEvolve LevelUpKind = "Evolve"
)
