package gameimport

import (
	"errors"
	"testing"
	"time"

	"github.com/league-stats/internal/domain"
	"github.com/league-stats/internal/riot"
)

func mustDerive(t *testing.T, f *matchFixture) *domain.ImportResult {
	t.Helper()
	result, err := f.derive()
	if err != nil {
		t.Fatalf("Derive() error = %v", err)
	}
	return result
}

func TestDeriveGame(t *testing.T) {
	result := mustDerive(t, newMatchFixture("EUW1_20", 1900))

	g := result.Game
	if g.VendorMatchID != "EUW1_20" || g.PlatformID != "EUW1" || g.QueueID != 420 || g.GameVersion != "14.20.1" {
		t.Errorf("unexpected game %+v", g)
	}
	if g.WinningSide != domain.SideBlue {
		t.Errorf("winning side = %d", g.WinningSide)
	}
	if !g.StartedAt.Equal(time.UnixMilli(1700000060000)) {
		t.Errorf("started at = %v", g.StartedAt)
	}
	if g.ID != 0 {
		t.Errorf("derived game already has id %d", g.ID)
	}
	if len(result.Players) != 10 {
		t.Errorf("got %d players", len(result.Players))
	}
	if len(result.GoldSamples) != 66 {
		t.Errorf("got %d gold samples, want 66", len(result.GoldSamples))
	}
}

func TestDeriveUtilityIsSupport(t *testing.T) {
	result := mustDerive(t, newMatchFixture("EUW1_21", 1900))
	for _, pid := range []int{5, 10} {
		if ps := playerByID(t, result, pid); ps.Role != domain.RoleSupport {
			t.Errorf("participant %d role = %s, want Support", pid, ps.Role)
		}
	}
}

func TestDerivePlayerMetrics(t *testing.T) {
	f := newMatchFixture("EUW1_22", 1900)
	f.addEvent(2, riot.TimelineEvent{Type: riot.EventChampionKill, Timestamp: 100000, KillerID: 7, VictimID: 1})
	f.addEvent(8, riot.TimelineEvent{Type: riot.EventTurretPlateDestroyed, Timestamp: 450000, TeamID: 200, KillerID: 1, LaneType: "TOP_LANE"})
	result := mustDerive(t, f)

	p1 := playerByID(t, result, 1)
	if p1.KDA != 2 {
		t.Errorf("KDA = %v, want 2", p1.KDA)
	}
	if p1.KillParticipation != 0.27 {
		t.Errorf("kill participation = %v, want 0.27", p1.KillParticipation)
	}
	if p1.DamageShare != 0.18 {
		t.Errorf("damage share = %v, want 0.18", p1.DamageShare)
	}
	if p1.CreepScore != 111 || p1.CSPerMinute != 3.51 {
		t.Errorf("creep score = %d (%v/min)", p1.CreepScore, p1.CSPerMinute)
	}
	if !p1.FirstBloodVictim {
		t.Error("participant 1 should be the first blood victim")
	}
	if p1.TurretPlates != 1 {
		t.Errorf("turret plates = %d, want 1", p1.TurretPlates)
	}
	if p1.SoloKills == nil || *p1.SoloKills != 1 {
		t.Errorf("solo kills = %v", intOrNil(p1.SoloKills))
	}
	if p1.Items != f.participant(1).Items() {
		t.Errorf("items = %v", p1.Items)
	}
	if playerByID(t, result, 7).FirstBloodVictim {
		t.Error("killer flagged as first blood victim")
	}
}

func TestDeriveTeamTotals(t *testing.T) {
	f := newMatchFixture("EUW1_23", 1900)
	f.participant(8).Challenges = nil
	f.addEvent(29, riot.TimelineEvent{Type: riot.EventEliteMonsterKill, Timestamp: 1700000, KillerID: 8, MonsterType: "DRAGON", MonsterSubType: "ELDER_DRAGON"})
	result := mustDerive(t, f)

	for _, side := range domain.Sides {
		team := result.Team(side)
		sum := 0
		for _, ps := range result.Players {
			if ps.Side == side {
				sum += ps.Kills
			}
		}
		if team.TotalKills == nil || *team.TotalKills != sum {
			t.Errorf("side %d total kills = %v, want %d", side, intOrNil(team.TotalKills), sum)
		}
	}

	blue, red := result.Team(domain.SideBlue), result.Team(domain.SideRed)
	if *blue.TotalKills != 15 || *red.TotalKills != 40 {
		t.Errorf("total kills = %d/%d", *blue.TotalKills, *red.TotalKills)
	}
	if blue.TotalSoloKills == nil || *blue.TotalSoloKills != 5 {
		t.Errorf("blue solo kills = %v, want 5", intOrNil(blue.TotalSoloKills))
	}
	if red.TotalSoloKills != nil {
		t.Errorf("red solo kills = %d, want nil when a player lacks it", *red.TotalSoloKills)
	}
	if !blue.Win || red.Win {
		t.Error("win flags wrong")
	}
	if blue.Towers != 9 || blue.Dragons != 3 || blue.Barons != 1 || !blue.FirstBlood || !blue.FirstTower {
		t.Errorf("blue objectives = %+v", blue)
	}
	if red.Voidgrubs != 6 || red.Heralds != 1 || !red.FirstVoidgrub || red.FirstTower {
		t.Errorf("red objectives = %+v", red)
	}
	if red.ElderDragons != 1 || blue.ElderDragons != 0 {
		t.Errorf("elder dragons = %d/%d", blue.ElderDragons, red.ElderDragons)
	}
}

func TestDeriveCheckpointsShortGame(t *testing.T) {
	result := mustDerive(t, newMatchFixture("EUW1_24", 1100))

	for _, ps := range result.Players {
		for _, cp := range []domain.Checkpoint{domain.Checkpoint10, domain.Checkpoint15} {
			if ps.Checkpoints[cp].Stats.Gold == nil {
				t.Errorf("participant %d missing gold at %d", ps.ParticipantID, cp.Minute())
			}
		}
		at20 := ps.Checkpoints[domain.Checkpoint20]
		if at20.Minute != 20 {
			t.Errorf("checkpoint minute = %d", at20.Minute)
		}
		if at20.Stats != (domain.SnapshotStats{}) {
			t.Errorf("participant %d has stats at 20 in an 18 minute game: %+v", ps.ParticipantID, at20.Stats)
		}
		if at20.Diff != (domain.DiffStats{}) {
			t.Errorf("participant %d diff at 20 = %+v, want zero", ps.ParticipantID, at20.Diff)
		}
	}

	blue := result.Team(domain.SideBlue)
	if blue.Checkpoints[domain.Checkpoint20].Stats.Kills != nil {
		t.Error("team stats present at 20")
	}
	if blue.TotalKills == nil {
		t.Error("final totals must not depend on checkpoints")
	}
}

func TestDeriveDifferentials(t *testing.T) {
	f := newMatchFixture("EUW1_25", 1900)
	f.addEvent(5, riot.TimelineEvent{Type: riot.EventChampionKill, Timestamp: 290000, KillerID: 1, VictimID: 6, AssistingParticipantIDs: []int{2}})
	result := mustDerive(t, f)

	for _, role := range domain.Roles {
		var blue, red domain.PlayerStat
		for _, ps := range result.Players {
			if ps.Role != role {
				continue
			}
			if ps.Side == domain.SideBlue {
				blue = ps
			} else {
				red = ps
			}
		}
		for _, cp := range domain.Checkpoints {
			b, r := blue.Checkpoints[cp], red.Checkpoints[cp]
			if b.Diff.Gold+r.Diff.Gold != 0 || b.Diff.Kills+r.Diff.Kills != 0 || b.Diff.CreepScore+r.Diff.CreepScore != 0 {
				t.Errorf("%s at %d: diffs do not cancel (%+v vs %+v)", role, cp.Minute(), b.Diff, r.Diff)
			}
			if got := b.Diff.Gold; got != *b.Stats.Gold-*r.Stats.Gold {
				t.Errorf("%s at %d: gold diff = %d", role, cp.Minute(), got)
			}
		}
	}

	top := playerByID(t, result, 1).Checkpoints[domain.Checkpoint10]
	if top.Diff.Kills != 1 || top.Diff.Deaths != -1 || top.Diff.Gold != -500 || top.Diff.DamageToChampions != 1500-9000 {
		t.Errorf("blue top diff at 10 = %+v", top.Diff)
	}

	blueTeam := result.Team(domain.SideBlue).Checkpoints[domain.Checkpoint10]
	redTeam := result.Team(domain.SideRed).Checkpoints[domain.Checkpoint10]
	if *blueTeam.Stats.Gold != 19000 || *redTeam.Stats.Gold != 21500 {
		t.Errorf("team gold at 10 = %d/%d", *blueTeam.Stats.Gold, *redTeam.Stats.Gold)
	}
	if blueTeam.Diff.Gold != -2500 || redTeam.Diff.Gold != 2500 {
		t.Errorf("team gold diff at 10 = %d/%d", blueTeam.Diff.Gold, redTeam.Diff.Gold)
	}
}

func TestDeriveBans(t *testing.T) {
	f := newMatchFixture("EUW1_26", 1900)
	// vendor order is not guaranteed to be pick order
	bans := f.summary.Info.Teams[0].Bans
	bans[0], bans[4] = bans[4], bans[0]
	result := mustDerive(t, f)

	if len(result.Bans) != 10 {
		t.Fatalf("got %d bans, want 10", len(result.Bans))
	}
	wantOrder := []int{1, 3, 5, 7, 9, 2, 4, 6, 8, 10}
	for i, b := range result.Bans {
		if b.Order != wantOrder[i] {
			t.Errorf("ban %d order = %d, want %d", i, b.Order, wantOrder[i])
		}
		wantChampion := 200 + b.Order
		if b.Order == 8 {
			wantChampion = -1
		}
		if b.ChampionID != wantChampion {
			t.Errorf("ban %d champion = %d, want %d", i, b.ChampionID, wantChampion)
		}
		wantSide := domain.SideBlue
		if i >= 5 {
			wantSide = domain.SideRed
		}
		if b.Side != wantSide {
			t.Errorf("ban %d side = %d", i, b.Side)
		}
	}
}

func TestDeriveInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*matchFixture)
		stage  string
	}{
		{"empty team position", func(f *matchFixture) { f.participant(3).TeamPosition = "" }, domain.StageResolve},
		{"zero duration", func(f *matchFixture) { f.summary.Info.GameDuration = 0 }, domain.StageResolve},
		{"missing red team", func(f *matchFixture) { f.summary.Info.Teams = f.summary.Info.Teams[:1] }, domain.StageResolve},
		{"two winners", func(f *matchFixture) { f.summary.Info.Teams[1].Win = true }, domain.StageResolve},
		{"no winner", func(f *matchFixture) { f.summary.Info.Teams[0].Win = false }, domain.StageResolve},
		{"timeline for other accounts", func(f *matchFixture) { f.timeline.Info.Participants[0].PUUID = "someone-else" }, domain.StageResolve},
		{"no frames", func(f *matchFixture) { f.timeline.Info.Frames = nil }, domain.StageClassify},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newMatchFixture("EUW1_27", 1900)
			tt.mutate(f)

			result, err := f.derive()
			if result != nil {
				t.Error("result returned alongside error")
			}
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("error = %v, want ErrInvalidInput", err)
			}
			var importErr *domain.ImportError
			if !errors.As(err, &importErr) || importErr.Stage != tt.stage || importErr.MatchID != "EUW1_27" {
				t.Errorf("error = %#v, want stage %s", err, tt.stage)
			}
		})
	}
}
