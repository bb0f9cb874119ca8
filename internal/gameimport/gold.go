package gameimport

import (
	"math"

	"github.com/league-stats/internal/domain"
	"github.com/league-stats/internal/riot"
)

// powerPlayWindowSeconds is how long after a Baron kill the gold swing is measured
const powerPlayWindowSeconds = 180

// goldSeries is per-side team gold for every timeline frame, indexed by minute.
// A side is absent for a frame when any of its participants has no frame entry.
type goldSeries struct {
	gold    [][domain.NumSides]int
	present [][domain.NumSides]bool
}

func newGoldSeries(frames []riot.TimelineFrame, roster *Roster) *goldSeries {
	g := &goldSeries{
		gold:    make([][domain.NumSides]int, len(frames)),
		present: make([][domain.NumSides]bool, len(frames)),
	}
	for minute, frame := range frames {
		for _, side := range domain.Sides {
			total, complete := 0, true
			for _, role := range domain.Roles {
				pf, ok := frame.ParticipantFrame(roster.ParticipantAt(side, role))
				if !ok {
					complete = false
					break
				}
				total += pf.TotalGold
			}
			g.gold[minute][side.Index()] = total
			g.present[minute][side.Index()] = complete
		}
	}
	return g
}

// atMinute returns the side's gold in frame m, nil when the frame is absent
func (g *goldSeries) atMinute(m int, side domain.Side) *int {
	if m < 0 || m >= len(g.gold) || !g.present[m][side.Index()] {
		return nil
	}
	return intPtr(g.gold[m][side.Index()])
}

// atTimestamp linearly interpolates between the surrounding minute frames.
// On an exact minute, or when the next frame is absent, it is atMinute.
func (g *goldSeries) atTimestamp(seconds float64, side domain.Side) *int {
	if seconds < 0 {
		return nil
	}
	m := int(math.Floor(seconds / 60))
	r := seconds - float64(m)*60
	next := g.atMinute(m+1, side)
	if r == 0 || next == nil {
		return g.atMinute(m, side)
	}
	prev := g.atMinute(m, side)
	if prev == nil {
		return nil
	}
	v := float64(*prev) + float64(*next-*prev)*r/60
	return intPtr(int(math.Round(v)))
}

// baronPowerPlay is the gold swing of the side that took Baron over the
// following three minutes, relative to the opponent. Nil when the window
// runs past the end of the game or any sample is missing.
func (g *goldSeries) baronPowerPlay(killMs int64, side domain.Side, durationSeconds int) *int {
	t := float64(killMs) / 1000
	end := t + powerPlayWindowSeconds
	if end > float64(durationSeconds) {
		return nil
	}
	opp := side.Opponent()
	selfStart, selfEnd := g.atTimestamp(t, side), g.atTimestamp(end, side)
	oppStart, oppEnd := g.atTimestamp(t, opp), g.atTimestamp(end, opp)
	if selfStart == nil || selfEnd == nil || oppStart == nil || oppEnd == nil {
		return nil
	}
	return intPtr((*selfEnd - *selfStart) - (*oppEnd - *oppStart))
}

// samples returns two rows per frame, one per side, skipping absent sides
func (g *goldSeries) samples() []domain.TeamGoldSample {
	out := make([]domain.TeamGoldSample, 0, len(g.gold)*domain.NumSides)
	for minute := range g.gold {
		for _, side := range domain.Sides {
			if gold := g.atMinute(minute, side); gold != nil {
				out = append(out, domain.TeamGoldSample{Side: side, Minute: minute, Gold: *gold})
			}
		}
	}
	return out
}
