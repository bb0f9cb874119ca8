package gameimport

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/league-stats/internal/domain"
	"github.com/league-stats/internal/riot"
)

// Derive runs the pure stages of an import: identity resolution, timeline
// classification, snapshots and aggregation. Nothing is persisted and no
// row carries a game id yet.
func Derive(matchID string, summary *riot.MatchResponse, timeline *riot.TimelineResponse, logger *slog.Logger) (*domain.ImportResult, *Roster, error) {
	fail := func(stage string, err error) (*domain.ImportResult, *Roster, error) {
		return nil, nil, &domain.ImportError{MatchID: matchID, Stage: stage, Err: err}
	}

	info := summary.Info
	if info.GameDuration <= 0 {
		return fail(domain.StageResolve, &domain.InvalidInputError{
			MatchID: matchID,
			Reason:  fmt.Sprintf("invalid game duration %d", info.GameDuration),
		})
	}

	teams, winner, err := indexTeams(matchID, info.Teams)
	if err != nil {
		return fail(domain.StageResolve, err)
	}

	roster, err := ResolveIdentities(matchID, info.Participants)
	if err != nil {
		return fail(domain.StageResolve, err)
	}
	if err := checkTimelineParticipants(matchID, roster, timeline); err != nil {
		return fail(domain.StageResolve, err)
	}

	tl, err := classifyTimeline(matchID, roster, timeline, info.GameDuration, logger)
	if err != nil {
		return fail(domain.StageClassify, err)
	}

	players := buildPlayers(summary, roster, tl)

	startedAt := info.GameStartTimestamp
	if startedAt == 0 {
		startedAt = info.GameCreation
	}

	result := &domain.ImportResult{
		Game: domain.Game{
			VendorMatchID:   matchID,
			PlatformID:      info.PlatformID,
			GameVersion:     info.GameVersion,
			QueueID:         info.QueueID,
			DurationSeconds: info.GameDuration,
			StartedAt:       time.UnixMilli(startedAt).UTC(),
			WinningSide:     winner,
		},
		Teams:         buildTeams(teams, players, tl, info.GameDuration),
		Players:       players,
		Bans:          buildBans(teams),
		Events:        tl.events,
		StoreActions:  tl.storeActions,
		SkillLevelUps: tl.skillLevelUps,
		GoldSamples:   tl.goldSamples,
	}
	return result, roster, nil
}

// indexTeams requires exactly one entry per side and exactly one winner
func indexTeams(matchID string, vendorTeams []riot.MatchTeam) (map[domain.Side]riot.MatchTeam, domain.Side, error) {
	teams := make(map[domain.Side]riot.MatchTeam, domain.NumSides)
	var winner domain.Side
	for _, t := range vendorTeams {
		side, ok := domain.ParseSide(t.TeamID)
		if !ok {
			return nil, 0, &domain.InvalidInputError{MatchID: matchID, Reason: fmt.Sprintf("invalid team id %d", t.TeamID)}
		}
		if _, dup := teams[side]; dup {
			return nil, 0, &domain.InvalidInputError{MatchID: matchID, Reason: fmt.Sprintf("duplicate team %d", side)}
		}
		teams[side] = t
		if t.Win {
			if winner != 0 {
				return nil, 0, &domain.InvalidInputError{MatchID: matchID, Reason: "both teams marked as winner"}
			}
			winner = side
		}
	}
	if len(teams) != domain.NumSides {
		return nil, 0, &domain.InvalidInputError{MatchID: matchID, Reason: "summary must contain teams 100 and 200"}
	}
	if winner == 0 {
		return nil, 0, &domain.InvalidInputError{MatchID: matchID, Reason: "no winning team"}
	}
	return teams, winner, nil
}

// checkTimelineParticipants rejects a timeline whose slots belong to other accounts
func checkTimelineParticipants(matchID string, roster *Roster, timeline *riot.TimelineResponse) error {
	for _, tp := range timeline.Info.Participants {
		id, ok := roster.Identity(tp.ParticipantID)
		if !ok || (tp.PUUID != "" && tp.PUUID != id.AccountID) {
			return &domain.InvalidInputError{
				MatchID:       matchID,
				ParticipantID: tp.ParticipantID,
				AccountID:     tp.PUUID,
				Reason:        "timeline participant does not match summary",
			}
		}
	}
	return nil
}
