package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"discord-moderation-bot/internal/models"
)

// PreparedStatements holds the statements on the event hot path: every
// gateway message and join resolves guild settings, and warnings hit
// the ledger in bursts.
type PreparedStatements struct {
	mu sync.RWMutex
	db *sql.DB

	// Guild settings
	getGuildConfig *sql.Stmt
	getWarnActions *sql.Stmt

	// Warning ledger
	insertWarning *sql.Stmt
	countWarnings *sql.Stmt

	// Timed sanctions
	insertMute        *sql.Stmt
	findActiveExpired *sql.Stmt

	// Action history
	recordModAction *sql.Stmt
}

// InitPreparedStatements pre-compiles all frequently used SQL statements
func (d *Database) InitPreparedStatements() error {
	d.PreparedStmts = &PreparedStatements{db: d.db}

	var err error

	d.PreparedStmts.getGuildConfig, err = d.db.Prepare(
		"SELECT " + guildConfigColumns + " FROM guild_settings WHERE guild_id = $1")
	if err != nil {
		return fmt.Errorf("failed to prepare getGuildConfig: %w", err)
	}

	d.PreparedStmts.getWarnActions, err = d.db.Prepare(`
		SELECT warnings, action, duration_ms FROM warn_actions
		WHERE guild_id = $1 ORDER BY warnings ASC
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare getWarnActions: %w", err)
	}

	d.PreparedStmts.insertWarning, err = d.db.Prepare(`
		INSERT INTO warnings (guild_id, user_id, moderator_id, reason, timestamp)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insertWarning: %w", err)
	}

	d.PreparedStmts.countWarnings, err = d.db.Prepare(`
		SELECT COUNT(*) FROM warnings WHERE guild_id = $1 AND user_id = $2
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare countWarnings: %w", err)
	}

	d.PreparedStmts.insertMute, err = d.db.Prepare(`
		INSERT INTO mutes (guild_id, user_id, moderator_id, reason, kind, duration_ms, end_time, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
		RETURNING id
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insertMute: %w", err)
	}

	d.PreparedStmts.findActiveExpired, err = d.db.Prepare(`
		SELECT id, guild_id, user_id, moderator_id, reason, kind, duration_ms, end_time, active
		FROM mutes WHERE active = 1 AND end_time <= $1
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare findActiveExpired: %w", err)
	}

	d.PreparedStmts.recordModAction, err = d.db.Prepare(`
		INSERT INTO mod_actions (guild_id, moderator_id, target_id, action, reason, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare recordModAction: %w", err)
	}

	return nil
}

// StartPreparedStatementRefresher automatically re-prepares statements on DB reconnect
func (d *Database) StartPreparedStatementRefresher(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := d.db.Ping(); err != nil {
					// DB probably restarted → reprepare
					d.ClosePreparedStatements()
					_ = d.InitPreparedStatements()
				}
			}
		}
	}()
}

// ClosePreparedStatements closes all prepared statements
func (d *Database) ClosePreparedStatements() {
	if d.PreparedStmts == nil {
		return
	}

	d.PreparedStmts.mu.Lock()
	defer d.PreparedStmts.mu.Unlock()

	stmts := []*sql.Stmt{
		d.PreparedStmts.getGuildConfig,
		d.PreparedStmts.getWarnActions,
		d.PreparedStmts.insertWarning,
		d.PreparedStmts.countWarnings,
		d.PreparedStmts.insertMute,
		d.PreparedStmts.findActiveExpired,
		d.PreparedStmts.recordModAction,
	}

	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
}

// isBadPreparedStatement checks if error indicates invalid prepared statement
func isBadPreparedStatement(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "cached plan") ||
		strings.Contains(errStr, "closed the connection") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "bad connection")
}

// Fast prepared statement versions of the hot-path queries

func (d *Database) GetGuildConfigFast(ctx context.Context, guildID string) (*models.GuildConfig, error) {
	ps := d.PreparedStmts
	if ps == nil {
		return d.GetGuildConfig(guildID)
	}

	ps.mu.RLock()
	cfgStmt := ps.getGuildConfig
	actionsStmt := ps.getWarnActions
	ps.mu.RUnlock()

	if cfgStmt == nil || actionsStmt == nil {
		return d.GetGuildConfig(guildID)
	}

	cfg, err := scanGuildConfig(cfgStmt.QueryRowContext(ctx, guildID))
	if err == sql.ErrNoRows {
		cfg = models.DefaultGuildConfig(guildID)
		if err := d.UpsertGuildConfig(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if isBadPreparedStatement(err) {
		// Auto recover
		_ = d.InitPreparedStatements()
		return d.GetGuildConfigFast(ctx, guildID)
	}
	if err != nil {
		return nil, err
	}

	rows, err := actionsStmt.QueryContext(ctx, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var a models.WarnAction
		var durationMs int64
		if err := rows.Scan(&a.Warnings, &a.Action, &durationMs); err != nil {
			return nil, err
		}
		a.Duration = time.Duration(durationMs) * time.Millisecond
		cfg.WarnSystem.Actions = append(cfg.WarnSystem.Actions, a)
	}
	return cfg, rows.Err()
}

func (d *Database) InsertWarningFast(ctx context.Context, w *models.Warning) (int64, error) {
	ps := d.PreparedStmts
	if ps == nil {
		return d.InsertWarning(w)
	}

	ps.mu.RLock()
	stmt := ps.insertWarning
	ps.mu.RUnlock()

	if stmt == nil {
		return d.InsertWarning(w)
	}

	var id int64
	err := stmt.QueryRowContext(ctx, w.GuildID, w.UserID, w.ModeratorID, w.Reason, w.Timestamp).Scan(&id)

	if isBadPreparedStatement(err) {
		_ = d.InitPreparedStatements()
		return d.InsertWarningFast(ctx, w)
	}

	return id, err
}

func (d *Database) CountWarningsFast(ctx context.Context, guildID, userID string) (int, error) {
	ps := d.PreparedStmts
	if ps == nil {
		return d.CountWarnings(guildID, userID)
	}

	ps.mu.RLock()
	stmt := ps.countWarnings
	ps.mu.RUnlock()

	if stmt == nil {
		return d.CountWarnings(guildID, userID)
	}

	var count int
	err := stmt.QueryRowContext(ctx, guildID, userID).Scan(&count)

	if isBadPreparedStatement(err) {
		_ = d.InitPreparedStatements()
		return d.CountWarningsFast(ctx, guildID, userID)
	}

	return count, err
}

func (d *Database) FindActiveExpiredFast(ctx context.Context, now int64) ([]*models.Mute, error) {
	ps := d.PreparedStmts
	if ps == nil {
		return d.FindActiveExpired(now)
	}

	ps.mu.RLock()
	stmt := ps.findActiveExpired
	ps.mu.RUnlock()

	if stmt == nil {
		return d.FindActiveExpired(now)
	}

	rows, err := stmt.QueryContext(ctx, now)
	if isBadPreparedStatement(err) {
		_ = d.InitPreparedStatements()
		return d.FindActiveExpiredFast(ctx, now)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMutes(rows)
}

func (d *Database) RecordModActionFast(ctx context.Context, guildID, moderatorID, targetID, action, reason string, timestamp int64) error {
	ps := d.PreparedStmts
	if ps == nil {
		return d.RecordModAction(guildID, moderatorID, targetID, action, reason, timestamp)
	}

	ps.mu.RLock()
	stmt := ps.recordModAction
	ps.mu.RUnlock()

	if stmt == nil {
		return d.RecordModAction(guildID, moderatorID, targetID, action, reason, timestamp)
	}

	_, err := stmt.ExecContext(ctx, guildID, moderatorID, targetID, action, reason, timestamp)

	if isBadPreparedStatement(err) {
		_ = d.InitPreparedStatements()
		return d.RecordModActionFast(ctx, guildID, moderatorID, targetID, action, reason, timestamp)
	}

	return err
}
