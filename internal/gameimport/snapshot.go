package gameimport

import "github.com/league-stats/internal/domain"

// metric indexes the running per-participant counters that get snapshotted
type metric int

const (
	metricKills metric = iota
	metricDeaths
	metricAssists
	metricCreepScore
	metricGold
	metricXP
	metricDamageToChampions
	metricWardsPlaced
	numMetrics
)

type statLine [numMetrics]int

func (l *statLine) get(m metric) *int {
	if l == nil {
		return nil
	}
	return intPtr(l[m])
}

func (l *statLine) add(other *statLine) {
	for m := range l {
		l[m] += other[m]
	}
}

func snapshotOf(l *statLine) domain.SnapshotStats {
	return domain.SnapshotStats{
		Kills:             l.get(metricKills),
		Deaths:            l.get(metricDeaths),
		Assists:           l.get(metricAssists),
		CreepScore:        l.get(metricCreepScore),
		Gold:              l.get(metricGold),
		XP:                l.get(metricXP),
		DamageToChampions: l.get(metricDamageToChampions),
		WardsPlaced:       l.get(metricWardsPlaced),
	}
}

func diffOf(self, opp *statLine) domain.DiffStats {
	d := func(m metric) int { return diffOrZero(self.get(m), opp.get(m)) }
	return domain.DiffStats{
		Kills:             d(metricKills),
		Deaths:            d(metricDeaths),
		Assists:           d(metricAssists),
		CreepScore:        d(metricCreepScore),
		Gold:              d(metricGold),
		XP:                d(metricXP),
		DamageToChampions: d(metricDamageToChampions),
		WardsPlaced:       d(metricWardsPlaced),
	}
}

// checkpointTable holds the counters captured at each checkpoint, per side and role.
// A checkpoint the game never reached stays absent.
type checkpointTable struct {
	present [domain.NumCheckpoints]bool
	lines   [domain.NumCheckpoints][domain.NumSides][domain.NumRoles]statLine
}

func (t *checkpointTable) capture(cp domain.Checkpoint, roster *Roster, counters *[participantsPerGame + 1]statLine) {
	for _, side := range domain.Sides {
		for _, role := range domain.Roles {
			t.lines[cp][side.Index()][role] = counters[roster.ParticipantAt(side, role)]
		}
	}
	t.present[cp] = true
}

func (t *checkpointTable) line(cp domain.Checkpoint, side domain.Side, role domain.Role) *statLine {
	if !t.present[cp] {
		return nil
	}
	return &t.lines[cp][side.Index()][role]
}

func (t *checkpointTable) teamLine(cp domain.Checkpoint, side domain.Side) *statLine {
	if !t.present[cp] {
		return nil
	}
	var sum statLine
	for _, role := range domain.Roles {
		sum.add(&t.lines[cp][side.Index()][role])
	}
	return &sum
}

// player returns the checkpoints of one seat, diffed against the opposing seat of the same role
func (t *checkpointTable) player(side domain.Side, role domain.Role) [domain.NumCheckpoints]domain.CheckpointStats {
	var out [domain.NumCheckpoints]domain.CheckpointStats
	for _, cp := range domain.Checkpoints {
		self, opp := t.line(cp, side, role), t.line(cp, side.Opponent(), role)
		out[cp] = domain.CheckpointStats{Minute: cp.Minute(), Stats: snapshotOf(self), Diff: diffOf(self, opp)}
	}
	return out
}

func (t *checkpointTable) team(side domain.Side) [domain.NumCheckpoints]domain.CheckpointStats {
	var out [domain.NumCheckpoints]domain.CheckpointStats
	for _, cp := range domain.Checkpoints {
		self, opp := t.teamLine(cp, side), t.teamLine(cp, side.Opponent())
		out[cp] = domain.CheckpointStats{Minute: cp.Minute(), Stats: snapshotOf(self), Diff: diffOf(self, opp)}
	}
	return out
}
