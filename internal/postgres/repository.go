package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/league-stats/internal/config"
	"github.com/league-stats/internal/domain"
)

// Repository provides PostgreSQL-based data access
type Repository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(cfg *config.PostgresConfig, logger *slog.Logger) (*Repository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return &Repository{
		pool:   pool,
		logger: logger,
	}, nil
}

// Close closes the database connection pool
func (r *Repository) Close() {
	r.pool.Close()
}

// Ping checks the database connection
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// RunMigrations executes database migrations. Every game-owned table
// cascades on game deletion so a failed import can be removed in one statement.
func (r *Repository) RunMigrations(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id VARCHAR(100) PRIMARY KEY,
			game_name VARCHAR(64),
			tag_line VARCHAR(16),
			display_name VARCHAR(100) NOT NULL,
			is_primary BOOLEAN NOT NULL DEFAULT FALSE,
			player_id BIGINT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS games (
			id BIGSERIAL PRIMARY KEY,
			vendor_match_id VARCHAR(32) NOT NULL UNIQUE,
			platform_id VARCHAR(8),
			game_version VARCHAR(32),
			queue_id INT,
			duration_seconds INT NOT NULL,
			started_at TIMESTAMP NOT NULL,
			winning_side SMALLINT NOT NULL,
			external_match_id BIGINT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS team_stats (
			game_id BIGINT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
			team_id SMALLINT NOT NULL,
			win BOOLEAN NOT NULL,
			towers INT NOT NULL,
			inhibitors INT NOT NULL,
			dragons INT NOT NULL,
			voidgrubs INT NOT NULL,
			heralds INT NOT NULL,
			atakhans INT NOT NULL,
			barons INT NOT NULL,
			elder_dragons INT NOT NULL,
			turret_plates INT NOT NULL,
			first_blood BOOLEAN NOT NULL,
			first_tower BOOLEAN NOT NULL,
			first_dragon BOOLEAN NOT NULL,
			first_baron BOOLEAN NOT NULL,
			total_kills INT,
			total_deaths INT,
			total_assists INT,
			total_gold INT,
			gold_per_minute DOUBLE PRECISION,
			details JSONB NOT NULL,
			checkpoints JSONB NOT NULL,
			PRIMARY KEY (game_id, team_id)
		)`,
		`CREATE TABLE IF NOT EXISTS player_stats (
			game_id BIGINT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
			account_id VARCHAR(100) NOT NULL REFERENCES accounts(id),
			participant_id SMALLINT NOT NULL,
			team_id SMALLINT NOT NULL,
			player_role VARCHAR(10) NOT NULL,
			champion_id INT NOT NULL,
			win BOOLEAN NOT NULL,
			kills INT NOT NULL,
			deaths INT NOT NULL,
			assists INT NOT NULL,
			creep_score INT NOT NULL,
			gold INT NOT NULL,
			damage_to_champions INT NOT NULL,
			vision_score INT NOT NULL,
			kda DOUBLE PRECISION NOT NULL,
			details JSONB NOT NULL,
			checkpoints JSONB NOT NULL,
			PRIMARY KEY (game_id, participant_id),
			UNIQUE (game_id, team_id, player_role)
		)`,
		`CREATE TABLE IF NOT EXISTS banned_champions (
			game_id BIGINT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
			team_id SMALLINT NOT NULL,
			champion_id INT NOT NULL,
			pick_order SMALLINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS game_events (
			id BIGSERIAL PRIMARY KEY,
			game_id BIGINT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
			kind VARCHAR(32) NOT NULL,
			timestamp_ms BIGINT NOT NULL,
			team_id SMALLINT,
			killer_participant_id SMALLINT,
			killer_account_id VARCHAR(100),
			victim_participant_id SMALLINT,
			victim_account_id VARCHAR(100),
			assist_count SMALLINT NOT NULL DEFAULT 0,
			lane VARCHAR(10),
			position_x INT,
			position_y INT,
			power_play INT
		)`,
		`CREATE TABLE IF NOT EXISTS store_actions (
			game_id BIGINT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
			team_id SMALLINT NOT NULL,
			participant_id SMALLINT NOT NULL,
			account_id VARCHAR(100) NOT NULL,
			champion_id INT NOT NULL,
			item_id INT NOT NULL,
			kind VARCHAR(10) NOT NULL,
			timestamp_ms BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS skill_level_ups (
			game_id BIGINT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
			team_id SMALLINT NOT NULL,
			participant_id SMALLINT NOT NULL,
			account_id VARCHAR(100) NOT NULL,
			champion_id INT NOT NULL,
			slot CHAR(1) NOT NULL,
			kind VARCHAR(10) NOT NULL,
			timestamp_ms BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS team_gold_samples (
			game_id BIGINT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
			team_id SMALLINT NOT NULL,
			minute SMALLINT NOT NULL,
			gold INT NOT NULL,
			PRIMARY KEY (game_id, team_id, minute)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_player_stats_account ON player_stats(account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_game_events_game ON game_events(game_id, timestamp_ms)`,
		`CREATE INDEX IF NOT EXISTS idx_games_external_match ON games(external_match_id)`,
	}

	for _, migration := range migrations {
		_, err := r.pool.Exec(ctx, migration)
		if err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}

	r.logger.Info("database migrations completed")
	return nil
}

// AccountExists checks if an account has been seen before
func (r *Repository) AccountExists(ctx context.Context, accountID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, accountID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking account existence: %w", err)
	}
	return exists, nil
}

// CreateAccount inserts an account. An existing account is left untouched.
func (r *Repository) CreateAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (id, game_name, tag_line, display_name, is_primary, player_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query,
		account.ID,
		account.GameName,
		account.TagLine,
		account.DisplayName,
		account.IsPrimary,
		account.PlayerID,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("creating account: %w", err)
	}
	return nil
}

// GetDisplayNames resolves display names for a set of accounts. Unknown ids are omitted.
func (r *Repository) GetDisplayNames(ctx context.Context, accountIDs []string) (map[string]string, error) {
	query := `SELECT id, display_name FROM accounts WHERE id = ANY($1)`
	rows, err := r.pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("getting display names: %w", err)
	}
	defer rows.Close()

	names := make(map[string]string, len(accountIDs))
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scanning display name: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}

// GameExists checks if a vendor match has already been imported
func (r *Repository) GameExists(ctx context.Context, vendorMatchID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM games WHERE vendor_match_id = $1)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, vendorMatchID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking game existence: %w", err)
	}
	return exists, nil
}

// CreateGame inserts the game row and returns its id. The vendor match id
// is unique, so a second import of the same match gets ErrGameAlreadyImported.
func (r *Repository) CreateGame(ctx context.Context, game domain.Game) (int64, error) {
	query := `
		INSERT INTO games (vendor_match_id, platform_id, game_version, queue_id, duration_seconds,
			started_at, winning_side, external_match_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (vendor_match_id) DO NOTHING
		RETURNING id
	`
	var id int64
	err := r.pool.QueryRow(ctx, query,
		game.VendorMatchID,
		game.PlatformID,
		game.GameVersion,
		game.QueueID,
		game.DurationSeconds,
		game.StartedAt,
		int(game.WinningSide),
		game.ExternalMatchID,
		time.Now(),
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrGameAlreadyImported
		}
		return 0, fmt.Errorf("creating game: %w", err)
	}
	return id, nil
}

// GetGame retrieves a game by id
func (r *Repository) GetGame(ctx context.Context, gameID int64) (*domain.Game, error) {
	query := `
		SELECT id, vendor_match_id, platform_id, game_version, queue_id, duration_seconds,
			started_at, winning_side, external_match_id, created_at
		FROM games
		WHERE id = $1
	`
	var game domain.Game
	var winningSide int
	err := r.pool.QueryRow(ctx, query, gameID).Scan(
		&game.ID,
		&game.VendorMatchID,
		&game.PlatformID,
		&game.GameVersion,
		&game.QueueID,
		&game.DurationSeconds,
		&game.StartedAt,
		&winningSide,
		&game.ExternalMatchID,
		&game.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGameNotFound
		}
		return nil, fmt.Errorf("getting game: %w", err)
	}
	game.WinningSide = domain.Side(winningSide)
	return &game, nil
}

// LinkGame binds an imported game to a league match
func (r *Repository) LinkGame(ctx context.Context, gameID, externalMatchID int64) error {
	query := `UPDATE games SET external_match_id = $2 WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, gameID, externalMatchID)
	if err != nil {
		return fmt.Errorf("linking game: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrGameNotFound
	}
	return nil
}

// DeleteGame removes a game and, by cascade, every row derived from it
func (r *Repository) DeleteGame(ctx context.Context, gameID int64) error {
	query := `DELETE FROM games WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, gameID)
	if err != nil {
		return fmt.Errorf("deleting game: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrGameNotFound
	}
	return nil
}
