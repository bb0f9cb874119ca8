package gameimport

import (
	"sort"

	"github.com/league-stats/internal/domain"
	"github.com/league-stats/internal/riot"
)

// buildPlayers returns one row per participant, ordered by side then role
func buildPlayers(summary *riot.MatchResponse, roster *Roster, tl *timelineResult) []domain.PlayerStat {
	duration := summary.Info.GameDuration

	byID := make(map[int]*riot.MatchParticipant, len(summary.Info.Participants))
	for i := range summary.Info.Participants {
		p := &summary.Info.Participants[i]
		byID[p.ParticipantID] = p
	}

	players := make([]domain.PlayerStat, 0, participantsPerGame)
	for _, id := range roster.Identities() {
		p := byID[id.ParticipantID]
		players = append(players, playerRow(p, id, tl, duration))
	}

	// shares need the side totals
	var kills, damage, gold [domain.NumSides]int
	for _, ps := range players {
		kills[ps.Side.Index()] += ps.Kills
		damage[ps.Side.Index()] += ps.DamageToChampions
		gold[ps.Side.Index()] += ps.Gold
	}
	for i := range players {
		ps := &players[i]
		side := ps.Side.Index()
		ps.KillParticipation = share(ps.Kills+ps.Assists, kills[side])
		ps.DamageShare = share(ps.DamageToChampions, damage[side])
		ps.GoldShare = share(ps.Gold, gold[side])
	}

	return players
}

func playerRow(p *riot.MatchParticipant, id Identity, tl *timelineResult, duration int) domain.PlayerStat {
	ps := domain.PlayerStat{
		AccountID:     id.AccountID,
		ParticipantID: id.ParticipantID,
		Side:          id.Side,
		Role:          id.Role,
		ChampionID:    p.ChampionID,
		ChampionName:  p.ChampionName,
		ChampionLevel: p.ChampLevel,
		Win:           p.Win,

		Kills:                p.Kills,
		Deaths:               p.Deaths,
		Assists:              p.Assists,
		CreepScore:           p.TotalMinionsKilled + p.NeutralMinionsKilled,
		Gold:                 p.GoldEarned,
		GoldSpent:            p.GoldSpent,
		XP:                   p.ChampExperience,
		DamageToChampions:    p.TotalDamageDealtToChampions,
		PhysicalDamage:       p.PhysicalDamageDealtToChampions,
		MagicDamage:          p.MagicDamageDealtToChampions,
		TrueDamage:           p.TrueDamageDealtToChampions,
		DamageTaken:          p.TotalDamageTaken,
		DamageMitigated:      p.DamageSelfMitigated,
		DamageToBuildings:    p.DamageDealtToBuildings,
		DamageToObjectives:   p.DamageDealtToObjectives,
		TotalHealing:         p.TotalHeal,
		HealingOnTeammates:   p.TotalHealsOnTeammates,
		ShieldingOnTeammates: p.TotalDamageShieldedOnTeammates,
		TimeCCingOthers:      p.TimeCCingOthers,
		TotalCCDealt:         p.TotalTimeCCDealt,
		VisionScore:          p.VisionScore,
		WardsPlaced:          p.WardsPlaced,
		WardsKilled:          p.WardsKilled,
		ControlWardsBought:   p.VisionWardsBoughtInGame,
		TurretPlates:         tl.platesByParticipant[id.ParticipantID],

		DoubleKills:         p.DoubleKills,
		TripleKills:         p.TripleKills,
		QuadraKills:         p.QuadraKills,
		PentaKills:          p.PentaKills,
		LargestKillingSpree: p.LargestKillingSpree,
		LargestMultiKill:    p.LargestMultiKill,

		FirstBloodKill:   p.FirstBloodKill,
		FirstBloodAssist: p.FirstBloodAssist,
		FirstBloodVictim: tl.firstBloodVictim == id.ParticipantID,

		Items: p.Items(),
		SummonerSpells: [2]domain.SummonerSpell{
			{ID: p.Summoner1ID, Casts: p.Summoner1Casts},
			{ID: p.Summoner2ID, Casts: p.Summoner2Casts},
		},
		Pings: domain.Pings{
			AllIn:         p.AllInPings,
			AssistMe:      p.AssistMePings,
			Command:       p.CommandPings,
			EnemyMissing:  p.EnemyMissingPings,
			EnemyVision:   p.EnemyVisionPings,
			GetBack:       p.GetBackPings,
			Hold:          p.HoldPings,
			NeedVision:    p.NeedVisionPings,
			OnMyWay:       p.OnMyWayPings,
			Push:          p.PushPings,
			VisionCleared: p.VisionClearedPings,
		},

		Checkpoints: tl.checkpoints.player(id.Side, id.Role),
	}

	if ch := p.Challenges; ch != nil {
		ps.SoloKills = ch.SoloKills
		ps.WardTakedownsBefore20 = ch.WardTakedownsBefore20M
		ps.ControlWardsPlaced = ch.ControlWardsPlaced
	}

	deaths := ps.Deaths
	if deaths == 0 {
		deaths = 1
	}
	ps.KDA = round2(float64(ps.Kills+ps.Assists) / float64(deaths))
	ps.CSPerMinute = perMinute(ps.CreepScore, duration)
	ps.GoldPerMinute = perMinute(ps.Gold, duration)
	ps.DamagePerMinute = perMinute(ps.DamageToChampions, duration)
	ps.VisionScorePerMinute = perMinute(ps.VisionScore, duration)

	return ps
}

// buildTeams aggregates the side rows. Objective counts and first flags come
// from the summary; elder dragons and plates from the timeline.
func buildTeams(teams map[domain.Side]riot.MatchTeam, players []domain.PlayerStat, tl *timelineResult, duration int) [domain.NumSides]domain.TeamStat {
	var out [domain.NumSides]domain.TeamStat
	for _, side := range domain.Sides {
		vt := teams[side]
		obj := vt.Objectives

		var members []domain.PlayerStat
		for _, ps := range players {
			if ps.Side == side {
				members = append(members, ps)
			}
		}
		total := func(field func(domain.PlayerStat) *int) *int {
			values := make([]*int, len(members))
			for i, ps := range members {
				values[i] = field(ps)
			}
			return sumOrNull(values...)
		}

		ts := domain.TeamStat{
			Side: side,
			Win:  vt.Win,

			Towers:       obj.Tower.Kills,
			Inhibitors:   obj.Inhibitor.Kills,
			Dragons:      obj.Dragon.Kills,
			Voidgrubs:    obj.Horde.Kills,
			Heralds:      obj.RiftHerald.Kills,
			Atakhans:     obj.Atakhan.Kills,
			Barons:       obj.Baron.Kills,
			ElderDragons: tl.eldersBySide[side.Index()],
			TurretPlates: tl.platesBySide[side.Index()],

			FirstBlood:     obj.Champion.First,
			FirstTower:     obj.Tower.First,
			FirstInhibitor: obj.Inhibitor.First,
			FirstDragon:    obj.Dragon.First,
			FirstVoidgrub:  obj.Horde.First,
			FirstHerald:    obj.RiftHerald.First,
			FirstAtakhan:   obj.Atakhan.First,
			FirstBaron:     obj.Baron.First,

			TotalKills:              total(func(p domain.PlayerStat) *int { return intPtr(p.Kills) }),
			TotalDeaths:             total(func(p domain.PlayerStat) *int { return intPtr(p.Deaths) }),
			TotalAssists:            total(func(p domain.PlayerStat) *int { return intPtr(p.Assists) }),
			TotalCreepScore:         total(func(p domain.PlayerStat) *int { return intPtr(p.CreepScore) }),
			TotalGold:               total(func(p domain.PlayerStat) *int { return intPtr(p.Gold) }),
			TotalXP:                 total(func(p domain.PlayerStat) *int { return intPtr(p.XP) }),
			TotalDamageToChampions:  total(func(p domain.PlayerStat) *int { return intPtr(p.DamageToChampions) }),
			TotalVisionScore:        total(func(p domain.PlayerStat) *int { return intPtr(p.VisionScore) }),
			TotalWardsPlaced:        total(func(p domain.PlayerStat) *int { return intPtr(p.WardsPlaced) }),
			TotalWardsKilled:        total(func(p domain.PlayerStat) *int { return intPtr(p.WardsKilled) }),
			TotalControlWardsBought: total(func(p domain.PlayerStat) *int { return intPtr(p.ControlWardsBought) }),
			TotalSoloKills:          total(func(p domain.PlayerStat) *int { return p.SoloKills }),
			TotalWardTakedowns20:    total(func(p domain.PlayerStat) *int { return p.WardTakedownsBefore20 }),

			Checkpoints: tl.checkpoints.team(side),
		}
		ts.GoldPerMinute = perMinute(valueOrZero(ts.TotalGold), duration)
		ts.CSPerMinute = perMinute(valueOrZero(ts.TotalCreepScore), duration)
		ts.DamagePerMinute = perMinute(valueOrZero(ts.TotalDamageToChampions), duration)

		out[side.Index()] = ts
	}
	return out
}

// buildBans keeps every ban, including empty ones (champion -1), in pick order
func buildBans(teams map[domain.Side]riot.MatchTeam) []domain.BannedChampion {
	var bans []domain.BannedChampion
	for _, side := range domain.Sides {
		sideBans := make([]domain.BannedChampion, 0, len(teams[side].Bans))
		for _, b := range teams[side].Bans {
			sideBans = append(sideBans, domain.BannedChampion{Side: side, ChampionID: b.ChampionID, Order: b.PickTurn})
		}
		sort.SliceStable(sideBans, func(i, j int) bool { return sideBans[i].Order < sideBans[j].Order })
		bans = append(bans, sideBans...)
	}
	return bans
}
