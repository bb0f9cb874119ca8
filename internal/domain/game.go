package domain

import "time"

// Game is the side-agnostic identity of one imported vendor match.
// Every other derived row references it by ID.
type Game struct {
	ID              int64     `json:"id"`
	VendorMatchID   string    `json:"vendor_match_id"`
	PlatformID      string    `json:"platform_id"`
	GameVersion     string    `json:"game_version"`
	QueueID         int       `json:"queue_id"`
	DurationSeconds int       `json:"duration_seconds"`
	StartedAt       time.Time `json:"started_at"`
	WinningSide     Side      `json:"winning_side"`
	ExternalMatchID *int64    `json:"external_match_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// DurationMinutes returns the game length in fractional minutes
func (g Game) DurationMinutes() float64 {
	return float64(g.DurationSeconds) / 60
}

// GameEvent is one classified timeline event
type GameEvent struct {
	GameID              int64     `json:"game_id"`
	Kind                EventKind `json:"kind"`
	TimestampMs         int64     `json:"timestamp_ms"`
	TeamSide            *Side     `json:"team_id,omitempty"`
	KillerParticipantID *int      `json:"killer_participant_id,omitempty"`
	KillerAccountID     *string   `json:"killer_account_id,omitempty"`
	VictimParticipantID *int      `json:"victim_participant_id,omitempty"`
	VictimAccountID     *string   `json:"victim_account_id,omitempty"`
	AssistCount         int       `json:"assist_count"`
	Lane                *Lane     `json:"lane,omitempty"`
	PositionX           *int      `json:"position_x,omitempty"`
	PositionY           *int      `json:"position_y,omitempty"`
	PowerPlay           *int      `json:"power_play,omitempty"`
}

// BannedChampion is one entry of a side's ban list
type BannedChampion struct {
	GameID     int64 `json:"game_id"`
	Side       Side  `json:"team_id"`
	ChampionID int   `json:"champion_id"`
	Order      int   `json:"order"`
}

// StoreAction is one item purchase or sale
type StoreAction struct {
	GameID        int64           `json:"game_id"`
	Side          Side            `json:"team_id"`
	ParticipantID int             `json:"participant_id"`
	AccountID     string          `json:"account_id"`
	ChampionID    int             `json:"champion_id"`
	ItemID        int             `json:"item_id"`
	Kind          StoreActionKind `json:"kind"`
	TimestampMs   int64           `json:"timestamp_ms"`
}

// SkillLevelUp is one ability rank gained
type SkillLevelUp struct {
	GameID        int64       `json:"game_id"`
	Side          Side        `json:"team_id"`
	ParticipantID int         `json:"participant_id"`
	AccountID     string      `json:"account_id"`
	ChampionID    int         `json:"champion_id"`
	Slot          SkillSlot   `json:"slot"`
	Kind          LevelUpKind `json:"kind"`
	TimestampMs   int64       `json:"timestamp_ms"`
}

// TeamGoldSample is a side's total gold at a minute frame
type TeamGoldSample struct {
	GameID int64 `json:"game_id"`
	Side   Side  `json:"team_id"`
	Minute int   `json:"minute"`
	Gold   int   `json:"gold"`
}
