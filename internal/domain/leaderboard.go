package domain

// StatMetric names a per-account running total kept on a stat board
type StatMetric string

const (
	MetricGames      StatMetric = "games"
	MetricWins       StatMetric = "wins"
	MetricKills      StatMetric = "kills"
	MetricDeaths     StatMetric = "deaths"
	MetricAssists    StatMetric = "assists"
	MetricCreepScore StatMetric = "creep_score"
	MetricGold       StatMetric = "gold"
	MetricDamage     StatMetric = "damage"
)

// StatMetrics lists every board metric
var StatMetrics = []StatMetric{
	MetricGames, MetricWins, MetricKills, MetricDeaths,
	MetricAssists, MetricCreepScore, MetricGold, MetricDamage,
}

// ParseStatMetric validates a metric name
func ParseStatMetric(s string) (StatMetric, bool) {
	for _, m := range StatMetrics {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// BoardEntry is a single ranked row on a stat board
type BoardEntry struct {
	Rank        int64  `json:"rank"`
	AccountID   string `json:"account_id"`
	Value       int64  `json:"value"`
	DisplayName string `json:"display_name,omitempty"`
}

// Contributions returns what one player row adds to each board
func (p PlayerStat) Contributions() map[StatMetric]int64 {
	wins := int64(0)
	if p.Win {
		wins = 1
	}
	return map[StatMetric]int64{
		MetricGames:      1,
		MetricWins:       wins,
		MetricKills:      int64(p.Kills),
		MetricDeaths:     int64(p.Deaths),
		MetricAssists:    int64(p.Assists),
		MetricCreepScore: int64(p.CreepScore),
		MetricGold:       int64(p.Gold),
		MetricDamage:     int64(p.DamageToChampions),
	}
}

// AccountTotals is an account's lifetime value for every board metric
type AccountTotals struct {
	AccountID string
	Values    map[StatMetric]int64
}
