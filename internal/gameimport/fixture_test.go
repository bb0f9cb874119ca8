package gameimport

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"testing"

	"github.com/league-stats/internal/domain"
	"github.com/league-stats/internal/riot"
)

var testPositions = [5]string{"TOP", "JUNGLE", "MIDDLE", "BOTTOM", "UTILITY"}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// matchFixture is a complete, valid 5v5 match. Participants 1-5 are blue
// (Top..Support), 6-10 red. Blue wins.
type matchFixture struct {
	summary  *riot.MatchResponse
	timeline *riot.TimelineResponse
}

func newMatchFixture(matchID string, durationSeconds int) *matchFixture {
	participants := make([]riot.MatchParticipant, 0, 10)
	for pid := 1; pid <= 10; pid++ {
		teamID := 100
		if pid > 5 {
			teamID = 200
		}
		soloKills, takedowns := 1, 2
		participants = append(participants, riot.MatchParticipant{
			ParticipantID:               pid,
			PUUID:                       fmt.Sprintf("puuid-%d", pid),
			RiotIdGameName:              fmt.Sprintf("player%d", pid),
			RiotIdTagline:               "EUW",
			TeamID:                      teamID,
			TeamPosition:                testPositions[(pid-1)%5],
			ChampionID:                  100 + pid,
			ChampionName:                fmt.Sprintf("Champion%d", pid),
			ChampLevel:                  15,
			Win:                         teamID == 100,
			Kills:                       pid,
			Deaths:                      2,
			Assists:                     3,
			TotalMinionsKilled:          100 + pid,
			NeutralMinionsKilled:        10,
			GoldEarned:                  10000 + pid*100,
			GoldSpent:                   9000,
			ChampExperience:             12000,
			TotalDamageDealtToChampions: 15000 + pid*1000,
			VisionScore:                 20 + pid,
			WardsPlaced:                 10,
			WardsKilled:                 3,
			VisionWardsBoughtInGame:     2,
			Challenges: &riot.Challenges{
				SoloKills:              &soloKills,
				WardTakedownsBefore20M: &takedowns,
			},
		})
	}

	teams := []riot.MatchTeam{
		{TeamID: 100, Win: true},
		{TeamID: 200, Win: false},
	}
	for turn := 1; turn <= 10; turn++ {
		champion := 200 + turn
		if turn == 8 {
			champion = -1
		}
		team := &teams[(turn+1)%2]
		team.Bans = append(team.Bans, riot.Ban{ChampionID: champion, PickTurn: turn})
	}
	teams[0].Objectives = riot.TeamObjectives{
		Tower:    riot.Objective{First: true, Kills: 9},
		Dragon:   riot.Objective{First: true, Kills: 3},
		Baron:    riot.Objective{First: true, Kills: 1},
		Champion: riot.Objective{First: true, Kills: 15},
	}
	teams[1].Objectives = riot.TeamObjectives{
		Tower:      riot.Objective{Kills: 2},
		Horde:      riot.Objective{First: true, Kills: 6},
		RiftHerald: riot.Objective{First: true, Kills: 1},
	}

	minutes := durationSeconds / 60
	frames := make([]riot.TimelineFrame, 0, minutes+2)
	for m := 0; m <= minutes; m++ {
		frames = append(frames, testFrame(m, int64(m)*60000))
	}
	frames = append(frames, testFrame(minutes+1, int64(durationSeconds)*1000))

	timelineParticipants := make([]riot.TimelineParticipant, 0, 10)
	for pid := 1; pid <= 10; pid++ {
		timelineParticipants = append(timelineParticipants, riot.TimelineParticipant{
			ParticipantID: pid,
			PUUID:         fmt.Sprintf("puuid-%d", pid),
		})
	}

	return &matchFixture{
		summary: &riot.MatchResponse{
			Metadata: riot.MatchMetadata{MatchID: matchID},
			Info: riot.MatchInfo{
				GameCreation:       1700000000000,
				GameStartTimestamp: 1700000060000,
				GameDuration:       durationSeconds,
				GameVersion:        "14.20.1",
				QueueID:            420,
				PlatformID:         "EUW1",
				Participants:       participants,
				Teams:              teams,
			},
		},
		timeline: &riot.TimelineResponse{
			Metadata: riot.TimelineMetadata{MatchID: matchID},
			Info: riot.TimelineInfo{
				FrameInterval: 60000,
				Frames:        frames,
				Participants:  timelineParticipants,
			},
		},
	}
}

func testFrame(m int, timestamp int64) riot.TimelineFrame {
	pfs := make(map[string]riot.ParticipantFrame, 10)
	for pid := 1; pid <= 10; pid++ {
		jungle := 0
		if pid == 2 || pid == 7 {
			jungle = m * 4
		}
		pfs[strconv.Itoa(pid)] = riot.ParticipantFrame{
			ParticipantID:       pid,
			TotalGold:           500 + m*(300+10*pid),
			XP:                  m*400 + pid,
			MinionsKilled:       m * 6,
			JungleMinionsKilled: jungle,
			DamageStats:         riot.DamageStats{TotalDamageDoneToChampions: m * 150 * pid},
		}
	}
	return riot.TimelineFrame{Timestamp: timestamp, ParticipantFrames: pfs}
}

func (f *matchFixture) participant(pid int) *riot.MatchParticipant {
	return &f.summary.Info.Participants[pid-1]
}

// addEvent appends an event to a frame
func (f *matchFixture) addEvent(frame int, ev riot.TimelineEvent) {
	fr := &f.timeline.Info.Frames[frame]
	fr.Events = append(fr.Events, ev)
}

// setSideGold gives every participant of a side the same total gold in a frame
func (f *matchFixture) setSideGold(frame, teamID, perPlayer int) {
	first := 1
	if teamID == 200 {
		first = 6
	}
	for pid := first; pid < first+5; pid++ {
		key := strconv.Itoa(pid)
		pf := f.timeline.Info.Frames[frame].ParticipantFrames[key]
		pf.TotalGold = perPlayer
		f.timeline.Info.Frames[frame].ParticipantFrames[key] = pf
	}
}

func (f *matchFixture) roster() *Roster {
	r, err := ResolveIdentities(f.summary.Metadata.MatchID, f.summary.Info.Participants)
	if err != nil {
		panic(err)
	}
	return r
}

func (f *matchFixture) derive() (*domain.ImportResult, error) {
	result, _, err := Derive(f.summary.Metadata.MatchID, f.summary, f.timeline, testLogger())
	return result, err
}

func playerByID(t *testing.T, result *domain.ImportResult, pid int) domain.PlayerStat {
	t.Helper()
	for _, ps := range result.Players {
		if ps.ParticipantID == pid {
			return ps
		}
	}
	t.Fatalf("no player row for participant %d", pid)
	return domain.PlayerStat{}
}
