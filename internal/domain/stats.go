package domain

// SnapshotStats holds point-in-time values. Nil means the game ended before the checkpoint.
type SnapshotStats struct {
	Kills             *int `json:"kills"`
	Deaths            *int `json:"deaths"`
	Assists           *int `json:"assists"`
	CreepScore        *int `json:"creep_score"`
	Gold              *int `json:"gold"`
	XP                *int `json:"xp"`
	DamageToChampions *int `json:"damage_to_champions"`
	WardsPlaced       *int `json:"wards_placed"`
}

// DiffStats holds self minus opponent values at a checkpoint
type DiffStats struct {
	Kills             int `json:"kills"`
	Deaths            int `json:"deaths"`
	Assists           int `json:"assists"`
	CreepScore        int `json:"creep_score"`
	Gold              int `json:"gold"`
	XP                int `json:"xp"`
	DamageToChampions int `json:"damage_to_champions"`
	WardsPlaced       int `json:"wards_placed"`
}

// CheckpointStats pairs a snapshot with its differential
type CheckpointStats struct {
	Minute int           `json:"minute"`
	Stats  SnapshotStats `json:"stats"`
	Diff   DiffStats     `json:"diff"`
}

// SummonerSpell is one of the two summoner spells and how often it was cast
type SummonerSpell struct {
	ID    int `json:"id"`
	Casts int `json:"casts"`
}

// Pings counts the smart pings a player used
type Pings struct {
	AllIn         int `json:"all_in"`
	AssistMe      int `json:"assist_me"`
	Command       int `json:"command"`
	EnemyMissing  int `json:"enemy_missing"`
	EnemyVision   int `json:"enemy_vision"`
	GetBack       int `json:"get_back"`
	Hold          int `json:"hold"`
	NeedVision    int `json:"need_vision"`
	OnMyWay       int `json:"on_my_way"`
	Push          int `json:"push"`
	VisionCleared int `json:"vision_cleared"`
}

// PlayerStat is one participant's row for a game
type PlayerStat struct {
	GameID        int64  `json:"game_id"`
	AccountID     string `json:"account_id"`
	ParticipantID int    `json:"participant_id"`
	Side          Side   `json:"team_id"`
	Role          Role   `json:"player_role"`
	ChampionID    int    `json:"champion_id"`
	ChampionName  string `json:"champion_name"`
	ChampionLevel int    `json:"champion_level"`
	Win           bool   `json:"win"`

	Kills                int `json:"kills"`
	Deaths               int `json:"deaths"`
	Assists              int `json:"assists"`
	CreepScore           int `json:"creep_score"`
	Gold                 int `json:"gold"`
	GoldSpent            int `json:"gold_spent"`
	XP                   int `json:"xp"`
	DamageToChampions    int `json:"damage_to_champions"`
	PhysicalDamage       int `json:"physical_damage_to_champions"`
	MagicDamage          int `json:"magic_damage_to_champions"`
	TrueDamage           int `json:"true_damage_to_champions"`
	DamageTaken          int `json:"damage_taken"`
	DamageMitigated      int `json:"damage_self_mitigated"`
	DamageToBuildings    int `json:"damage_to_buildings"`
	DamageToObjectives   int `json:"damage_to_objectives"`
	TotalHealing         int `json:"total_healing"`
	HealingOnTeammates   int `json:"healing_on_teammates"`
	ShieldingOnTeammates int `json:"shielding_on_teammates"`
	TimeCCingOthers      int `json:"time_ccing_others"`
	TotalCCDealt         int `json:"total_cc_dealt"`
	VisionScore          int `json:"vision_score"`
	WardsPlaced          int `json:"wards_placed"`
	WardsKilled          int `json:"wards_killed"`
	ControlWardsBought   int `json:"control_wards_bought"`
	TurretPlates         int `json:"turret_plates"`

	SoloKills             *int `json:"solo_kills"`
	WardTakedownsBefore20 *int `json:"ward_takedowns_before_20"`
	ControlWardsPlaced    *int `json:"control_wards_placed"`

	DoubleKills         int `json:"double_kills"`
	TripleKills         int `json:"triple_kills"`
	QuadraKills         int `json:"quadra_kills"`
	PentaKills          int `json:"penta_kills"`
	LargestKillingSpree int `json:"largest_killing_spree"`
	LargestMultiKill    int `json:"largest_multi_kill"`

	FirstBloodKill   bool `json:"first_blood_kill"`
	FirstBloodAssist bool `json:"first_blood_assist"`
	FirstBloodVictim bool `json:"first_blood_victim"`

	Items          [7]int           `json:"items"`
	SummonerSpells [2]SummonerSpell `json:"summoner_spells"`
	Pings          Pings            `json:"pings"`

	KDA                  float64 `json:"kda"`
	KillParticipation    float64 `json:"kill_participation"`
	DamageShare          float64 `json:"damage_share"`
	GoldShare            float64 `json:"gold_share"`
	CSPerMinute          float64 `json:"cs_per_minute"`
	GoldPerMinute        float64 `json:"gold_per_minute"`
	DamagePerMinute      float64 `json:"damage_per_minute"`
	VisionScorePerMinute float64 `json:"vision_score_per_minute"`

	Checkpoints [NumCheckpoints]CheckpointStats `json:"checkpoints"`
}

// TeamStat is one side's row for a game. Totals are sums over the side's
// players and are nil when any player lacks the value.
type TeamStat struct {
	GameID int64 `json:"game_id"`
	Side   Side  `json:"team_id"`
	Win    bool  `json:"win"`

	Towers       int `json:"towers"`
	Inhibitors   int `json:"inhibitors"`
	Dragons      int `json:"dragons"`
	Voidgrubs    int `json:"voidgrubs"`
	Heralds      int `json:"heralds"`
	Atakhans     int `json:"atakhans"`
	Barons       int `json:"barons"`
	ElderDragons int `json:"elder_dragons"`
	TurretPlates int `json:"turret_plates"`

	FirstBlood     bool `json:"first_blood"`
	FirstTower     bool `json:"first_tower"`
	FirstInhibitor bool `json:"first_inhibitor"`
	FirstDragon    bool `json:"first_dragon"`
	FirstVoidgrub  bool `json:"first_voidgrub"`
	FirstHerald    bool `json:"first_herald"`
	FirstAtakhan   bool `json:"first_atakhan"`
	FirstBaron     bool `json:"first_baron"`

	TotalKills              *int `json:"total_kills"`
	TotalDeaths             *int `json:"total_deaths"`
	TotalAssists            *int `json:"total_assists"`
	TotalCreepScore         *int `json:"total_creep_score"`
	TotalGold               *int `json:"total_gold"`
	TotalXP                 *int `json:"total_xp"`
	TotalDamageToChampions  *int `json:"total_damage_to_champions"`
	TotalVisionScore        *int `json:"total_vision_score"`
	TotalWardsPlaced        *int `json:"total_wards_placed"`
	TotalWardsKilled        *int `json:"total_wards_killed"`
	TotalControlWardsBought *int `json:"total_control_wards_bought"`
	TotalSoloKills          *int `json:"total_solo_kills"`
	TotalWardTakedowns20    *int `json:"total_ward_takedowns_before_20"`

	GoldPerMinute   float64 `json:"gold_per_minute"`
	CSPerMinute     float64 `json:"cs_per_minute"`
	DamagePerMinute float64 `json:"damage_per_minute"`

	Checkpoints [NumCheckpoints]CheckpointStats `json:"checkpoints"`
}
