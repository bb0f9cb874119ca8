package riot

import "strconv"

// MatchResponse represents the response from /lol/match/v5/matches/{matchId}
type MatchResponse struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     MatchInfo     `json:"info"`
}

type MatchMetadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"` // PUUIDs
}

type MatchInfo struct {
	GameCreation       int64              `json:"gameCreation"`
	GameDuration       int                `json:"gameDuration"` // seconds
	GameStartTimestamp int64              `json:"gameStartTimestamp"`
	GameEndTimestamp   int64              `json:"gameEndTimestamp"`
	GameVersion        string             `json:"gameVersion"`
	QueueID            int                `json:"queueId"`
	PlatformID         string             `json:"platformId"`
	Participants       []MatchParticipant `json:"participants"`
	Teams              []MatchTeam        `json:"teams"`
}

type MatchTeam struct {
	TeamID     int            `json:"teamId"` // 100 or 200
	Win        bool           `json:"win"`
	Bans       []Ban          `json:"bans"`
	Objectives TeamObjectives `json:"objectives"`
}

type Ban struct {
	ChampionID int `json:"championId"` // -1 when no ban was made
	PickTurn   int `json:"pickTurn"`
}

type TeamObjectives struct {
	Atakhan    Objective `json:"atakhan"`
	Baron      Objective `json:"baron"`
	Champion   Objective `json:"champion"`
	Dragon     Objective `json:"dragon"`
	Horde      Objective `json:"horde"` // voidgrubs
	Inhibitor  Objective `json:"inhibitor"`
	RiftHerald Objective `json:"riftHerald"`
	Tower      Objective `json:"tower"`
}

type Objective struct {
	First bool `json:"first"`
	Kills int  `json:"kills"`
}

type MatchParticipant struct {
	ParticipantID      int    `json:"participantId"`
	PUUID              string `json:"puuid"`
	RiotIdGameName     string `json:"riotIdGameName"`
	RiotIdTagline      string `json:"riotIdTagline"`
	SummonerName       string `json:"summonerName"`
	TeamID             int    `json:"teamId"`
	TeamPosition       string `json:"teamPosition"` // TOP, JUNGLE, MIDDLE, BOTTOM, UTILITY
	Role               string `json:"role"`
	Lane               string `json:"lane"`
	IndividualPosition string `json:"individualPosition"`
	ChampionID         int    `json:"championId"`
	ChampionName       string `json:"championName"`
	ChampLevel         int    `json:"champLevel"`
	Win                bool   `json:"win"`

	Kills                int `json:"kills"`
	Deaths               int `json:"deaths"`
	Assists              int `json:"assists"`
	TotalMinionsKilled   int `json:"totalMinionsKilled"`
	NeutralMinionsKilled int `json:"neutralMinionsKilled"`
	GoldEarned           int `json:"goldEarned"`
	GoldSpent            int `json:"goldSpent"`
	ChampExperience      int `json:"champExperience"`

	TotalDamageDealtToChampions    int `json:"totalDamageDealtToChampions"`
	PhysicalDamageDealtToChampions int `json:"physicalDamageDealtToChampions"`
	MagicDamageDealtToChampions    int `json:"magicDamageDealtToChampions"`
	TrueDamageDealtToChampions     int `json:"trueDamageDealtToChampions"`
	TotalDamageTaken               int `json:"totalDamageTaken"`
	DamageSelfMitigated            int `json:"damageSelfMitigated"`
	DamageDealtToBuildings         int `json:"damageDealtToBuildings"`
	DamageDealtToObjectives        int `json:"damageDealtToObjectives"`
	TotalHeal                      int `json:"totalHeal"`
	TotalHealsOnTeammates          int `json:"totalHealsOnTeammates"`
	TotalDamageShieldedOnTeammates int `json:"totalDamageShieldedOnTeammates"`
	TimeCCingOthers                int `json:"timeCCingOthers"`
	TotalTimeCCDealt               int `json:"totalTimeCCDealt"`

	VisionScore             int `json:"visionScore"`
	WardsPlaced             int `json:"wardsPlaced"`
	WardsKilled             int `json:"wardsKilled"`
	VisionWardsBoughtInGame int `json:"visionWardsBoughtInGame"`

	FirstBloodKill      bool `json:"firstBloodKill"`
	FirstBloodAssist    bool `json:"firstBloodAssist"`
	DoubleKills         int  `json:"doubleKills"`
	TripleKills         int  `json:"tripleKills"`
	QuadraKills         int  `json:"quadraKills"`
	PentaKills          int  `json:"pentaKills"`
	LargestKillingSpree int  `json:"largestKillingSpree"`
	LargestMultiKill    int  `json:"largestMultiKill"`

	Item0 int `json:"item0"`
	Item1 int `json:"item1"`
	Item2 int `json:"item2"`
	Item3 int `json:"item3"`
	Item4 int `json:"item4"`
	Item5 int `json:"item5"`
	Item6 int `json:"item6"` // Trinket

	Summoner1ID    int `json:"summoner1Id"`
	Summoner2ID    int `json:"summoner2Id"`
	Summoner1Casts int `json:"summoner1Casts"`
	Summoner2Casts int `json:"summoner2Casts"`

	AllInPings         int `json:"allInPings"`
	AssistMePings      int `json:"assistMePings"`
	CommandPings       int `json:"commandPings"`
	EnemyMissingPings  int `json:"enemyMissingPings"`
	EnemyVisionPings   int `json:"enemyVisionPings"`
	GetBackPings       int `json:"getBackPings"`
	HoldPings          int `json:"holdPings"`
	NeedVisionPings    int `json:"needVisionPings"`
	OnMyWayPings       int `json:"onMyWayPings"`
	PushPings          int `json:"pushPings"`
	VisionClearedPings int `json:"visionClearedPings"`

	// Challenges is absent for some queues and older matches
	Challenges *Challenges `json:"challenges,omitempty"`
}

type Challenges struct {
	SoloKills              *int `json:"soloKills,omitempty"`
	WardTakedownsBefore20M *int `json:"wardTakedownsBefore20M,omitempty"`
	ControlWardsPlaced     *int `json:"controlWardsPlaced,omitempty"`
	TurretPlatesTaken      *int `json:"turretPlatesTaken,omitempty"`
}

// DisplayName returns the Riot ID (gameName#tagLine), falling back to the summoner name
func (p MatchParticipant) DisplayName() string {
	if p.RiotIdGameName == "" {
		return p.SummonerName
	}
	if p.RiotIdTagline == "" {
		return p.RiotIdGameName
	}
	return p.RiotIdGameName + "#" + p.RiotIdTagline
}

// Items returns the seven final item slots
func (p MatchParticipant) Items() [7]int {
	return [7]int{p.Item0, p.Item1, p.Item2, p.Item3, p.Item4, p.Item5, p.Item6}
}

// TimelineResponse represents the response from /lol/match/v5/matches/{matchId}/timeline
type TimelineResponse struct {
	Metadata TimelineMetadata `json:"metadata"`
	Info     TimelineInfo     `json:"info"`
}

type TimelineMetadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"` // PUUIDs
}

type TimelineInfo struct {
	FrameInterval int                   `json:"frameInterval"`
	Frames        []TimelineFrame       `json:"frames"`
	Participants  []TimelineParticipant `json:"participants"`
}

type TimelineParticipant struct {
	ParticipantID int    `json:"participantId"`
	PUUID         string `json:"puuid"`
}

// TimelineFrame is one minute of the timeline. Its index in Frames is the minute.
type TimelineFrame struct {
	Timestamp         int64                       `json:"timestamp"`
	ParticipantFrames map[string]ParticipantFrame `json:"participantFrames"`
	Events            []TimelineEvent             `json:"events"`
}

// ParticipantFrame returns the frame entry for a participant id (1..10)
func (f TimelineFrame) ParticipantFrame(participantID int) (ParticipantFrame, bool) {
	pf, ok := f.ParticipantFrames[strconv.Itoa(participantID)]
	return pf, ok
}

type ParticipantFrame struct {
	ParticipantID       int         `json:"participantId"`
	TotalGold           int         `json:"totalGold"`
	CurrentGold         int         `json:"currentGold"`
	Level               int         `json:"level"`
	XP                  int         `json:"xp"`
	MinionsKilled       int         `json:"minionsKilled"`
	JungleMinionsKilled int         `json:"jungleMinionsKilled"`
	DamageStats         DamageStats `json:"damageStats"`
	Position            *Position   `json:"position,omitempty"`
}

type DamageStats struct {
	TotalDamageDoneToChampions int `json:"totalDamageDoneToChampions"`
	TotalDamageTaken           int `json:"totalDamageTaken"`
}

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Timeline event types
const (
	EventChampionKill         = "CHAMPION_KILL"
	EventBuildingKill         = "BUILDING_KILL"
	EventEliteMonsterKill     = "ELITE_MONSTER_KILL"
	EventItemPurchased        = "ITEM_PURCHASED"
	EventItemSold             = "ITEM_SOLD"
	EventSkillLevelUp         = "SKILL_LEVEL_UP"
	EventTurretPlateDestroyed = "TURRET_PLATE_DESTROYED"
	EventWardPlaced           = "WARD_PLACED"
	EventWardKill             = "WARD_KILL"
)

type TimelineEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // milliseconds

	ParticipantID int `json:"participantId,omitempty"`
	ItemID        int `json:"itemId,omitempty"`

	KillerID                int       `json:"killerId,omitempty"`
	VictimID                int       `json:"victimId,omitempty"`
	AssistingParticipantIDs []int     `json:"assistingParticipantIds,omitempty"`
	Position                *Position `json:"position,omitempty"`
	Bounty                  int       `json:"bounty,omitempty"`

	TeamID       int    `json:"teamId,omitempty"` // for buildings and plates: the team that lost the structure
	BuildingType string `json:"buildingType,omitempty"`
	TowerType    string `json:"towerType,omitempty"`
	LaneType     string `json:"laneType,omitempty"`

	MonsterType    string `json:"monsterType,omitempty"`
	MonsterSubType string `json:"monsterSubType,omitempty"`
	KillerTeamID   int    `json:"killerTeamId,omitempty"`

	SkillSlot   int    `json:"skillSlot,omitempty"`
	LevelUpType string `json:"levelUpType,omitempty"`

	CreatorID int    `json:"creatorId,omitempty"`
	WardType  string `json:"wardType,omitempty"`
}
