package gameimport

import (
	"fmt"
	"log/slog"

	"github.com/league-stats/internal/domain"
	"github.com/league-stats/internal/riot"
)

// timelineResult is everything derived from walking the timeline frames
type timelineResult struct {
	events        []domain.GameEvent
	storeActions  []domain.StoreAction
	skillLevelUps []domain.SkillLevelUp
	goldSamples   []domain.TeamGoldSample
	checkpoints   checkpointTable

	platesByParticipant [participantsPerGame + 1]int
	platesBySide        [domain.NumSides]int
	eldersBySide        [domain.NumSides]int
	firstBloodVictim    int
}

type classifier struct {
	matchID  string
	roster   *Roster
	logger   *slog.Logger
	counters [participantsPerGame + 1]statLine
	barons   []int
	result   *timelineResult
}

// classifyTimeline walks the frames in order. Within a frame, events are
// handled before the frame's participant totals are applied, and checkpoints
// are captured after both.
func classifyTimeline(matchID string, roster *Roster, timeline *riot.TimelineResponse, durationSeconds int, logger *slog.Logger) (*timelineResult, error) {
	frames := timeline.Info.Frames
	if len(frames) == 0 {
		return nil, &domain.InvalidInputError{MatchID: matchID, Reason: "timeline has no frames"}
	}

	c := &classifier{
		matchID: matchID,
		roster:  roster,
		logger:  logger,
		result:  &timelineResult{},
	}

	for minute, frame := range frames {
		for _, ev := range frame.Events {
			if err := c.handle(ev); err != nil {
				return nil, err
			}
		}

		for pid := 1; pid <= participantsPerGame; pid++ {
			pf, ok := frame.ParticipantFrame(pid)
			if !ok {
				continue
			}
			line := &c.counters[pid]
			line[metricCreepScore] = pf.MinionsKilled + pf.JungleMinionsKilled
			line[metricGold] = pf.TotalGold
			line[metricXP] = pf.XP
			line[metricDamageToChampions] = pf.DamageStats.TotalDamageDoneToChampions
		}

		if cp, ok := domain.CheckpointAt(minute); ok && durationSeconds >= minute*60 {
			c.result.checkpoints.capture(cp, roster, &c.counters)
		}
	}

	gold := newGoldSeries(frames, roster)
	for _, idx := range c.barons {
		ev := &c.result.events[idx]
		ev.PowerPlay = gold.baronPowerPlay(ev.TimestampMs, *ev.TeamSide, durationSeconds)
	}
	c.result.goldSamples = gold.samples()

	return c.result, nil
}

func (c *classifier) handle(ev riot.TimelineEvent) error {
	switch ev.Type {
	case riot.EventChampionKill:
		return c.championKill(ev)
	case riot.EventBuildingKill:
		return c.buildingKill(ev)
	case riot.EventTurretPlateDestroyed:
		return c.turretPlate(ev)
	case riot.EventEliteMonsterKill:
		return c.eliteMonster(ev)
	case riot.EventItemPurchased:
		return c.storeAction(ev, domain.StorePurchase)
	case riot.EventItemSold:
		return c.storeAction(ev, domain.StoreSell)
	case riot.EventSkillLevelUp:
		return c.skillLevelUp(ev)
	case riot.EventWardPlaced:
		return c.wardPlaced(ev)
	}
	return nil
}

func (c *classifier) invalid(ev riot.TimelineEvent, participantID int, reason string) error {
	return &domain.InvalidInputError{
		MatchID:       c.matchID,
		ParticipantID: participantID,
		Reason:        fmt.Sprintf("%s event at %dms: %s", ev.Type, ev.Timestamp, reason),
	}
}

// lookup resolves an optional participant reference. 0 means no participant.
func (c *classifier) lookup(ev riot.TimelineEvent, participantID int) (*Identity, error) {
	if participantID == 0 {
		return nil, nil
	}
	id, ok := c.roster.Identity(participantID)
	if !ok {
		return nil, c.invalid(ev, participantID, "unknown participant")
	}
	return &id, nil
}

func (c *classifier) require(ev riot.TimelineEvent, participantID int) (Identity, error) {
	id, err := c.lookup(ev, participantID)
	if err != nil {
		return Identity{}, err
	}
	if id == nil {
		return Identity{}, c.invalid(ev, 0, "missing participant")
	}
	return *id, nil
}

func newEvent(kind domain.EventKind, ev riot.TimelineEvent) domain.GameEvent {
	e := domain.GameEvent{
		Kind:        kind,
		TimestampMs: ev.Timestamp,
		AssistCount: len(ev.AssistingParticipantIDs),
	}
	if ev.Position != nil {
		x, y := ev.Position.X, ev.Position.Y
		e.PositionX, e.PositionY = &x, &y
	}
	return e
}

func setKiller(e *domain.GameEvent, id *Identity) {
	if id == nil {
		return
	}
	pid, account := id.ParticipantID, id.AccountID
	e.KillerParticipantID, e.KillerAccountID = &pid, &account
}

func setVictim(e *domain.GameEvent, id *Identity) {
	if id == nil {
		return
	}
	pid, account := id.ParticipantID, id.AccountID
	e.VictimParticipantID, e.VictimAccountID = &pid, &account
}

func setSide(e *domain.GameEvent, side domain.Side) {
	e.TeamSide = &side
}

func setLane(e *domain.GameEvent, laneType string) {
	if lane, ok := laneFor(laneType); ok {
		e.Lane = &lane
	}
}

func (c *classifier) championKill(ev riot.TimelineEvent) error {
	killer, err := c.lookup(ev, ev.KillerID)
	if err != nil {
		return err
	}
	victim, err := c.lookup(ev, ev.VictimID)
	if err != nil {
		return err
	}

	e := newEvent(domain.EventChampionKill, ev)
	setKiller(&e, killer)
	setVictim(&e, victim)

	switch {
	case killer != nil:
		setSide(&e, killer.Side)
		c.counters[killer.ParticipantID][metricKills]++
	case victim != nil:
		setSide(&e, victim.Side.Opponent())
	}

	if victim != nil {
		c.counters[victim.ParticipantID][metricDeaths]++
		if c.result.firstBloodVictim == 0 {
			c.result.firstBloodVictim = victim.ParticipantID
		}
	}

	for _, assistID := range ev.AssistingParticipantIDs {
		assist, err := c.require(ev, assistID)
		if err != nil {
			return err
		}
		c.counters[assist.ParticipantID][metricAssists]++
	}

	c.result.events = append(c.result.events, e)
	return nil
}

// structureLoser parses the team that lost a building or plate. The
// opposing side is credited.
func (c *classifier) structureLoser(ev riot.TimelineEvent) (domain.Side, error) {
	loser, ok := domain.ParseSide(ev.TeamID)
	if !ok {
		return 0, c.invalid(ev, 0, fmt.Sprintf("invalid team id %d", ev.TeamID))
	}
	return loser, nil
}

func (c *classifier) buildingKill(ev riot.TimelineEvent) error {
	loser, err := c.structureLoser(ev)
	if err != nil {
		return err
	}

	kind := domain.EventInhibitor
	if ev.BuildingType == "TOWER_BUILDING" {
		var ok bool
		if kind, ok = towerKind(ev.TowerType); !ok {
			return c.invalid(ev, 0, fmt.Sprintf("unknown tower type %q", ev.TowerType))
		}
	}

	killer, err := c.lookup(ev, ev.KillerID)
	if err != nil {
		return err
	}

	e := newEvent(kind, ev)
	setSide(&e, loser.Opponent())
	setKiller(&e, killer)
	setLane(&e, ev.LaneType)
	c.result.events = append(c.result.events, e)
	return nil
}

func (c *classifier) turretPlate(ev riot.TimelineEvent) error {
	loser, err := c.structureLoser(ev)
	if err != nil {
		return err
	}
	killer, err := c.lookup(ev, ev.KillerID)
	if err != nil {
		return err
	}

	credited := loser.Opponent()
	c.result.platesBySide[credited.Index()]++
	if killer != nil {
		c.result.platesByParticipant[killer.ParticipantID]++
	}

	e := newEvent(domain.EventTurretPlate, ev)
	setSide(&e, credited)
	setKiller(&e, killer)
	setLane(&e, ev.LaneType)
	c.result.events = append(c.result.events, e)
	return nil
}

func (c *classifier) eliteMonster(ev riot.TimelineEvent) error {
	if ev.KillerID == 0 {
		c.logger.Warn("Skipping elite monster kill without killer",
			"match_id", c.matchID,
			"monster_type", ev.MonsterType,
			"timestamp_ms", ev.Timestamp,
		)
		return nil
	}

	kind, ok := monsterKind(ev.MonsterType, ev.MonsterSubType)
	if !ok {
		c.logger.Warn("Skipping unknown elite monster",
			"match_id", c.matchID,
			"monster_type", ev.MonsterType,
			"monster_sub_type", ev.MonsterSubType,
		)
		return nil
	}

	killer, err := c.require(ev, ev.KillerID)
	if err != nil {
		return err
	}

	e := newEvent(kind, ev)
	setSide(&e, killer.Side)
	setKiller(&e, &killer)

	switch kind {
	case domain.EventElderDragon:
		c.result.eldersBySide[killer.Side.Index()]++
	case domain.EventBaron:
		c.barons = append(c.barons, len(c.result.events))
	}

	c.result.events = append(c.result.events, e)
	return nil
}

func (c *classifier) storeAction(ev riot.TimelineEvent, kind domain.StoreActionKind) error {
	id, err := c.require(ev, ev.ParticipantID)
	if err != nil {
		return err
	}
	c.result.storeActions = append(c.result.storeActions, domain.StoreAction{
		Side:          id.Side,
		ParticipantID: id.ParticipantID,
		AccountID:     id.AccountID,
		ChampionID:    id.ChampionID,
		ItemID:        ev.ItemID,
		Kind:          kind,
		TimestampMs:   ev.Timestamp,
	})
	return nil
}

func (c *classifier) skillLevelUp(ev riot.TimelineEvent) error {
	id, err := c.require(ev, ev.ParticipantID)
	if err != nil {
		return err
	}
	slot, ok := skillSlotFor(ev.SkillSlot)
	if !ok {
		return c.invalid(ev, ev.ParticipantID, fmt.Sprintf("unknown skill slot %d", ev.SkillSlot))
	}
	kind, ok := levelUpKindFor(ev.LevelUpType)
	if !ok {
		return c.invalid(ev, ev.ParticipantID, fmt.Sprintf("unknown level up type %q", ev.LevelUpType))
	}
	c.result.skillLevelUps = append(c.result.skillLevelUps, domain.SkillLevelUp{
		Side:          id.Side,
		ParticipantID: id.ParticipantID,
		AccountID:     id.AccountID,
		ChampionID:    id.ChampionID,
		Slot:          slot,
		Kind:          kind,
		TimestampMs:   ev.Timestamp,
	})
	return nil
}

// wardPlaced only feeds the snapshot counter. Final ward totals come from the summary.
func (c *classifier) wardPlaced(ev riot.TimelineEvent) error {
	creator, err := c.lookup(ev, ev.CreatorID)
	if err != nil || creator == nil {
		return err
	}
	c.counters[creator.ParticipantID][metricWardsPlaced]++
	return nil
}
