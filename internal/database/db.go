package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/lib/pq"
)

type Database struct {
	db               *sql.DB
	PreparedPingStmt *sql.Stmt
	PreparedStmts    *PreparedStatements
	// Cache for ping results
	lastPingTime   time.Time
	lastPingError  error
	pingCacheMutex sync.RWMutex
}

type PostgresConfig struct {
	Host     string `json:"host" yaml:"host" env:"HOST"`
	Port     int    `json:"port" yaml:"port" env:"PORT"`
	User     string `json:"user" yaml:"user" env:"USER"`
	Password string `json:"password" yaml:"password" env:"PASSWORD"`
	Database string `json:"database" yaml:"database" env:"DATABASE"`
	SSLMode  string `json:"sslmode" yaml:"sslmode" env:"SSLMODE"`
}

const schema = `
-- Guild settings table (one row per guild, every moderation knob)
CREATE TABLE IF NOT EXISTS guild_settings (
    guild_id TEXT PRIMARY KEY,
    log_channel_id TEXT DEFAULT '',
    mod_log_enabled INTEGER DEFAULT 1,

    welcome_channel_id TEXT DEFAULT '',
    welcome_message TEXT DEFAULT '',
    auto_roles TEXT DEFAULT '',

    verify_channel_id TEXT DEFAULT '',
    verify_role_id TEXT DEFAULT '',
    verify_mode TEXT DEFAULT 'reaction',

    automod_enabled INTEGER DEFAULT 1,
    banned_words TEXT DEFAULT '',
    spam_threshold INTEGER DEFAULT 5,
    caps_threshold INTEGER DEFAULT 70,
    link_filter_enabled INTEGER DEFAULT 0,
    link_filter_mode TEXT DEFAULT 'deny',
    link_domains TEXT DEFAULT '',
    max_mentions INTEGER DEFAULT 5,
    max_emojis INTEGER DEFAULT 10,
    automod_punishment TEXT DEFAULT 'warn',
    automod_mute_ms BIGINT DEFAULT 600000,

    antiraid_enabled INTEGER DEFAULT 0,
    join_threshold INTEGER DEFAULT 5,
    join_window_seconds INTEGER DEFAULT 10,
    antiraid_action TEXT DEFAULT 'verify',
    min_account_age_ms BIGINT DEFAULT 604800000,
    antiraid_log INTEGER DEFAULT 1,

    warn_enabled INTEGER DEFAULT 1,
    warn_auto_decay INTEGER DEFAULT 1,
    warn_decay_days INTEGER DEFAULT 30,

    mute_enabled INTEGER DEFAULT 1,
    mute_use_timeout INTEGER DEFAULT 1,
    mute_role_id TEXT DEFAULT '',
    mute_default_ms BIGINT DEFAULT 3600000,

    tickets_enabled INTEGER DEFAULT 0,
    ticket_category_id TEXT DEFAULT '',
    ticket_support_role_id TEXT DEFAULT '',
    ticket_counter INTEGER DEFAULT 0,
    max_open_tickets INTEGER DEFAULT 1,

    raid_mode INTEGER DEFAULT 0,
    raid_mode_activated_at BIGINT DEFAULT 0,
    raid_mode_activated_by TEXT DEFAULT '',
    raid_mode_prev_verification INTEGER DEFAULT 0
);

-- Warn escalation ladder (one rung per row)
CREATE TABLE IF NOT EXISTS warn_actions (
    id SERIAL PRIMARY KEY,
    guild_id TEXT NOT NULL,
    warnings INTEGER NOT NULL,
    action TEXT NOT NULL,
    duration_ms BIGINT DEFAULT 0,
    UNIQUE(guild_id, warnings)
);

-- Warnings ledger
CREATE TABLE IF NOT EXISTS warnings (
    id SERIAL PRIMARY KEY,
    guild_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    moderator_id TEXT NOT NULL,
    reason TEXT,
    timestamp BIGINT NOT NULL
);

-- Timed sanctions (mutes and tempbans). Rows are never deleted, the
-- active flag is flipped when the sanction is lifted.
CREATE TABLE IF NOT EXISTS mutes (
    id SERIAL PRIMARY KEY,
    guild_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    moderator_id TEXT NOT NULL,
    reason TEXT,
    kind TEXT NOT NULL DEFAULT 'mute',
    duration_ms BIGINT NOT NULL,
    end_time BIGINT NOT NULL,
    active INTEGER DEFAULT 1
);

-- Support tickets
CREATE TABLE IF NOT EXISTS tickets (
    id SERIAL PRIMARY KEY,
    guild_id TEXT NOT NULL,
    channel_id TEXT UNIQUE NOT NULL,
    user_id TEXT NOT NULL,
    ticket_number INTEGER NOT NULL,
    status TEXT DEFAULT 'open',
    claimed_by TEXT DEFAULT '',
    created_at BIGINT NOT NULL,
    closed_at BIGINT DEFAULT 0,
    closed_by TEXT DEFAULT ''
);

-- Moderation action history (feeds modstats)
CREATE TABLE IF NOT EXISTS mod_actions (
    id SERIAL PRIMARY KEY,
    guild_id TEXT NOT NULL,
    moderator_id TEXT NOT NULL,
    target_id TEXT NOT NULL,
    action TEXT NOT NULL,
    reason TEXT,
    timestamp BIGINT NOT NULL
);

-- Create indexes for better performance
CREATE INDEX IF NOT EXISTS idx_warn_actions_guild ON warn_actions(guild_id);
CREATE INDEX IF NOT EXISTS idx_warnings_guild_user ON warnings(guild_id, user_id);
CREATE INDEX IF NOT EXISTS idx_warnings_timestamp ON warnings(timestamp);
CREATE INDEX IF NOT EXISTS idx_mutes_active_end ON mutes(active, end_time);
CREATE INDEX IF NOT EXISTS idx_mutes_guild_user ON mutes(guild_id, user_id);
CREATE INDEX IF NOT EXISTS idx_tickets_guild_user ON tickets(guild_id, user_id);
CREATE INDEX IF NOT EXISTS idx_tickets_channel ON tickets(channel_id);
CREATE INDEX IF NOT EXISTS idx_mod_actions_guild ON mod_actions(guild_id);
CREATE INDEX IF NOT EXISTS idx_mod_actions_guild_moderator ON mod_actions(guild_id, moderator_id);
CREATE INDEX IF NOT EXISTS idx_mod_actions_timestamp ON mod_actions(timestamp);
`

func NewDatabase(cfg PostgresConfig) (*Database, error) {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s tcp_user_timeout=1000",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, sslMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	// Pool sized for event-handler bursts: every gateway event may
	// touch the settings row.
	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(50)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(1 * time.Hour)

	// Execute schema
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	// Migrations
	_, _ = db.Exec("ALTER TABLE guild_settings ADD COLUMN IF NOT EXISTS ticket_support_role_id TEXT DEFAULT ''")

	// Prepare the ping statement for cheap health checks
	pingStmt, err := db.Prepare("SELECT 1")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare ping statement: %w", err)
	}

	d := &Database{
		db:               db,
		PreparedPingStmt: pingStmt,
	}

	// Pre-warm connections by executing the prepared statement
	for i := 0; i < 20; i++ {
		var result int
		pingStmt.QueryRow().Scan(&result)
	}

	// Initialize prepared statements for hot-path queries
	if err := d.InitPreparedStatements(); err != nil {
		return nil, fmt.Errorf("failed to init prepared statements: %w", err)
	}

	// Start automatic re-preparation on DB reconnect
	d.StartPreparedStatementRefresher(context.Background())

	return d, nil
}

func (d *Database) Close() error {
	if d.PreparedPingStmt != nil {
		d.PreparedPingStmt.Close()
	}
	d.ClosePreparedStatements()
	return d.db.Close()
}

func (d *Database) Ping() error {
	var err error
	if d.PreparedPingStmt != nil {
		var result int
		err = d.PreparedPingStmt.QueryRow().Scan(&result)
	} else {
		err = d.db.Ping()
	}
	return err
}

// CachedPing reuses a recent ping result so status commands do not
// hammer the pool.
func (d *Database) CachedPing() error {
	d.pingCacheMutex.RLock()
	if time.Since(d.lastPingTime) < 5*time.Second {
		err := d.lastPingError
		d.pingCacheMutex.RUnlock()
		return err
	}
	d.pingCacheMutex.RUnlock()

	err := d.Ping()

	d.pingCacheMutex.Lock()
	d.lastPingTime = time.Now()
	d.lastPingError = err
	d.pingCacheMutex.Unlock()
	return err
}
