package domain

// ImportRequest asks for one vendor match to be imported
type ImportRequest struct {
	RequestID       string `json:"request_id,omitempty"`
	MatchID         string `json:"match_id"`
	ExternalMatchID *int64 `json:"external_match_id,omitempty"`
}

// ImportResult is everything derived from one vendor match
type ImportResult struct {
	Game          Game               `json:"game"`
	Teams         [NumSides]TeamStat `json:"teams"`
	Players       []PlayerStat       `json:"players"`
	Bans          []BannedChampion   `json:"bans"`
	Events        []GameEvent        `json:"events"`
	StoreActions  []StoreAction      `json:"store_actions"`
	SkillLevelUps []SkillLevelUp     `json:"skill_level_ups"`
	GoldSamples   []TeamGoldSample   `json:"gold_samples"`
	NewAccounts   []Account          `json:"new_accounts"`
}

// AttachGameID stamps the generated game id onto every dependent row
func (r *ImportResult) AttachGameID(id int64) {
	r.Game.ID = id
	for i := range r.Teams {
		r.Teams[i].GameID = id
	}
	for i := range r.Players {
		r.Players[i].GameID = id
	}
	for i := range r.Bans {
		r.Bans[i].GameID = id
	}
	for i := range r.Events {
		r.Events[i].GameID = id
	}
	for i := range r.StoreActions {
		r.StoreActions[i].GameID = id
	}
	for i := range r.SkillLevelUps {
		r.SkillLevelUps[i].GameID = id
	}
	for i := range r.GoldSamples {
		r.GoldSamples[i].GameID = id
	}
}

// Team returns the stat row for a side
func (r *ImportResult) Team(side Side) *TeamStat {
	return &r.Teams[side.Index()]
}
