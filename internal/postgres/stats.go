package postgres

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"

	"github.com/league-stats/internal/domain"
)

// sendBatch runs every queued statement and fails on the first error
func (r *Repository) sendBatch(ctx context.Context, batch *pgx.Batch, what string) error {
	if batch.Len() == 0 {
		return nil
	}

	br := r.pool.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("inserting %s: %w", what, err)
		}
	}
	return br.Close()
}

func sideOrNil(s *domain.Side) *int {
	if s == nil {
		return nil
	}
	v := int(*s)
	return &v
}

func laneOrNil(l *domain.Lane) *string {
	if l == nil {
		return nil
	}
	v := string(*l)
	return &v
}

// CreateTeamStats inserts both side rows of a game
func (r *Repository) CreateTeamStats(ctx context.Context, stats []domain.TeamStat) error {
	query := `
		INSERT INTO team_stats (game_id, team_id, win, towers, inhibitors, dragons, voidgrubs, heralds,
			atakhans, barons, elder_dragons, turret_plates, first_blood, first_tower, first_dragon,
			first_baron, total_kills, total_deaths, total_assists, total_gold, gold_per_minute,
			details, checkpoints)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23)
	`
	batch := &pgx.Batch{}
	for _, ts := range stats {
		details, err := json.Marshal(ts)
		if err != nil {
			return fmt.Errorf("marshaling team stat: %w", err)
		}
		checkpoints, err := json.Marshal(ts.Checkpoints)
		if err != nil {
			return fmt.Errorf("marshaling team checkpoints: %w", err)
		}
		batch.Queue(query,
			ts.GameID, int(ts.Side), ts.Win,
			ts.Towers, ts.Inhibitors, ts.Dragons, ts.Voidgrubs, ts.Heralds,
			ts.Atakhans, ts.Barons, ts.ElderDragons, ts.TurretPlates,
			ts.FirstBlood, ts.FirstTower, ts.FirstDragon, ts.FirstBaron,
			ts.TotalKills, ts.TotalDeaths, ts.TotalAssists, ts.TotalGold, ts.GoldPerMinute,
			details, checkpoints,
		)
	}
	return r.sendBatch(ctx, batch, "team stats")
}

// CreatePlayerStats inserts the participant rows of a game
func (r *Repository) CreatePlayerStats(ctx context.Context, stats []domain.PlayerStat) error {
	query := `
		INSERT INTO player_stats (game_id, account_id, participant_id, team_id, player_role,
			champion_id, win, kills, deaths, assists, creep_score, gold, damage_to_champions,
			vision_score, kda, details, checkpoints)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	batch := &pgx.Batch{}
	for _, ps := range stats {
		details, err := json.Marshal(ps)
		if err != nil {
			return fmt.Errorf("marshaling player stat: %w", err)
		}
		checkpoints, err := json.Marshal(ps.Checkpoints)
		if err != nil {
			return fmt.Errorf("marshaling player checkpoints: %w", err)
		}
		batch.Queue(query,
			ps.GameID, ps.AccountID, ps.ParticipantID, int(ps.Side), ps.Role.String(),
			ps.ChampionID, ps.Win, ps.Kills, ps.Deaths, ps.Assists, ps.CreepScore,
			ps.Gold, ps.DamageToChampions, ps.VisionScore, ps.KDA,
			details, checkpoints,
		)
	}
	return r.sendBatch(ctx, batch, "player stats")
}

// CreateBannedChampions inserts both sides' ban lists
func (r *Repository) CreateBannedChampions(ctx context.Context, bans []domain.BannedChampion) error {
	query := `INSERT INTO banned_champions (game_id, team_id, champion_id, pick_order) VALUES ($1, $2, $3, $4)`
	batch := &pgx.Batch{}
	for _, b := range bans {
		batch.Queue(query, b.GameID, int(b.Side), b.ChampionID, b.Order)
	}
	return r.sendBatch(ctx, batch, "banned champions")
}

// CreateGameEvents inserts classified timeline events in timeline order
func (r *Repository) CreateGameEvents(ctx context.Context, events []domain.GameEvent) error {
	query := `
		INSERT INTO game_events (game_id, kind, timestamp_ms, team_id, killer_participant_id,
			killer_account_id, victim_participant_id, victim_account_id, assist_count, lane,
			position_x, position_y, power_play)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	batch := &pgx.Batch{}
	for _, e := range events {
		batch.Queue(query,
			e.GameID, string(e.Kind), e.TimestampMs, sideOrNil(e.TeamSide),
			e.KillerParticipantID, e.KillerAccountID, e.VictimParticipantID, e.VictimAccountID,
			e.AssistCount, laneOrNil(e.Lane), e.PositionX, e.PositionY, e.PowerPlay,
		)
	}
	return r.sendBatch(ctx, batch, "game events")
}

// CreateStoreActions inserts item purchases and sales
func (r *Repository) CreateStoreActions(ctx context.Context, actions []domain.StoreAction) error {
	query := `
		INSERT INTO store_actions (game_id, team_id, participant_id, account_id, champion_id, item_id, kind, timestamp_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	batch := &pgx.Batch{}
	for _, a := range actions {
		batch.Queue(query, a.GameID, int(a.Side), a.ParticipantID, a.AccountID, a.ChampionID, a.ItemID, string(a.Kind), a.TimestampMs)
	}
	return r.sendBatch(ctx, batch, "store actions")
}

// CreateSkillLevelUps inserts ability rank-ups
func (r *Repository) CreateSkillLevelUps(ctx context.Context, levelUps []domain.SkillLevelUp) error {
	query := `
		INSERT INTO skill_level_ups (game_id, team_id, participant_id, account_id, champion_id, slot, kind, timestamp_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	batch := &pgx.Batch{}
	for _, s := range levelUps {
		batch.Queue(query, s.GameID, int(s.Side), s.ParticipantID, s.AccountID, s.ChampionID, string(s.Slot), string(s.Kind), s.TimestampMs)
	}
	return r.sendBatch(ctx, batch, "skill level ups")
}

// CreateTeamGoldSamples inserts the per-minute team gold series
func (r *Repository) CreateTeamGoldSamples(ctx context.Context, samples []domain.TeamGoldSample) error {
	query := `INSERT INTO team_gold_samples (game_id, team_id, minute, gold) VALUES ($1, $2, $3, $4)`
	batch := &pgx.Batch{}
	for _, s := range samples {
		batch.Queue(query, s.GameID, int(s.Side), s.Minute, s.Gold)
	}
	return r.sendBatch(ctx, batch, "team gold samples")
}

// GetAccountTotals sums every board metric per account across all imported games
func (r *Repository) GetAccountTotals(ctx context.Context) ([]domain.AccountTotals, error) {
	query := `
		SELECT account_id,
			COUNT(*),
			COUNT(*) FILTER (WHERE win),
			COALESCE(SUM(kills), 0),
			COALESCE(SUM(deaths), 0),
			COALESCE(SUM(assists), 0),
			COALESCE(SUM(creep_score), 0),
			COALESCE(SUM(gold), 0),
			COALESCE(SUM(damage_to_champions), 0)
		FROM player_stats
		GROUP BY account_id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("getting account totals: %w", err)
	}
	defer rows.Close()

	var totals []domain.AccountTotals
	for rows.Next() {
		var accountID string
		var games, wins, kills, deaths, assists, cs, gold, damage int64
		if err := rows.Scan(&accountID, &games, &wins, &kills, &deaths, &assists, &cs, &gold, &damage); err != nil {
			return nil, fmt.Errorf("scanning account totals: %w", err)
		}
		totals = append(totals, domain.AccountTotals{
			AccountID: accountID,
			Values: map[domain.StatMetric]int64{
				domain.MetricGames:      games,
				domain.MetricWins:       wins,
				domain.MetricKills:      kills,
				domain.MetricDeaths:     deaths,
				domain.MetricAssists:    assists,
				domain.MetricCreepScore: cs,
				domain.MetricGold:       gold,
				domain.MetricDamage:     damage,
			},
		})
	}
	return totals, rows.Err()
}
