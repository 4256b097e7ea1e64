package database

import (
	"database/sql"
	"strings"
	"time"

	"discord-moderation-bot/internal/models"
)

const guildConfigColumns = `
	guild_id, log_channel_id, mod_log_enabled,
	welcome_channel_id, welcome_message, auto_roles,
	verify_channel_id, verify_role_id, verify_mode,
	automod_enabled, banned_words, spam_threshold, caps_threshold,
	link_filter_enabled, link_filter_mode, link_domains,
	max_mentions, max_emojis, automod_punishment, automod_mute_ms,
	antiraid_enabled, join_threshold, join_window_seconds,
	antiraid_action, min_account_age_ms, antiraid_log,
	warn_enabled, warn_auto_decay, warn_decay_days,
	mute_enabled, mute_use_timeout, mute_role_id, mute_default_ms,
	tickets_enabled, ticket_category_id, ticket_support_role_id,
	ticket_counter, max_open_tickets,
	raid_mode, raid_mode_activated_at, raid_mode_activated_by,
	raid_mode_prev_verification`

// GetGuildConfig loads a guild's settings row, creating it with
// defaults on first contact.
func (d *Database) GetGuildConfig(guildID string) (*models.GuildConfig, error) {
	cfg, err := d.selectGuildConfig(guildID)
	if err == sql.ErrNoRows {
		cfg = models.DefaultGuildConfig(guildID)
		if err := d.UpsertGuildConfig(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	actions, err := d.GetWarnActions(guildID)
	if err != nil {
		return nil, err
	}
	cfg.WarnSystem.Actions = actions
	return cfg, nil
}

func (d *Database) selectGuildConfig(guildID string) (*models.GuildConfig, error) {
	row := d.db.QueryRow("SELECT "+guildConfigColumns+" FROM guild_settings WHERE guild_id = $1", guildID)
	return scanGuildConfig(row)
}

func scanGuildConfig(row *sql.Row) (*models.GuildConfig, error) {
	var cfg models.GuildConfig
	var (
		modLog, amEnabled, lfEnabled, arEnabled, arLog   int
		warnEnabled, warnDecay, muteEnabled, muteTimeout int
		ticketsEnabled, raidMode                         int
		autoRoles, bannedWords, linkDomains              string
		automodMuteMs, minAccountAgeMs, muteDefaultMs    int64
	)

	err := row.Scan(
		&cfg.GuildID, &cfg.LogChannelID, &modLog,
		&cfg.WelcomeChannelID, &cfg.WelcomeMessage, &autoRoles,
		&cfg.VerifyChannelID, &cfg.VerifyRoleID, &cfg.VerifyMode,
		&amEnabled, &bannedWords, &cfg.Automod.SpamThreshold, &cfg.Automod.CapsThreshold,
		&lfEnabled, &cfg.Automod.LinkFilter.Mode, &linkDomains,
		&cfg.Automod.MaxMentions, &cfg.Automod.MaxEmojis, &cfg.Automod.PunishmentType, &automodMuteMs,
		&arEnabled, &cfg.Antiraid.JoinThreshold, &cfg.Antiraid.TimeWindow,
		&cfg.Antiraid.Action, &minAccountAgeMs, &arLog,
		&warnEnabled, &warnDecay, &cfg.WarnSystem.DecayDays,
		&muteEnabled, &muteTimeout, &cfg.MuteSystem.TimeoutRoleID, &muteDefaultMs,
		&ticketsEnabled, &cfg.Tickets.CategoryID, &cfg.Tickets.SupportRoleID,
		&cfg.Tickets.Counter, &cfg.Tickets.MaxTickets,
		&raidMode, &cfg.RaidMode.ActivatedAt, &cfg.RaidMode.ActivatedBy,
		&cfg.RaidMode.OriginalVerification,
	)
	if err != nil {
		return nil, err
	}

	cfg.ModLogEnabled = models.IntToBool(modLog)
	cfg.AutoRoles = splitList(autoRoles)
	cfg.Automod.Enabled = models.IntToBool(amEnabled)
	cfg.Automod.BannedWords = splitList(bannedWords)
	cfg.Automod.LinkFilter.Enabled = models.IntToBool(lfEnabled)
	cfg.Automod.LinkFilter.Domains = splitList(linkDomains)
	cfg.Automod.MuteDuration = time.Duration(automodMuteMs) * time.Millisecond
	cfg.Antiraid.Enabled = models.IntToBool(arEnabled)
	cfg.Antiraid.MinAccountAge = time.Duration(minAccountAgeMs) * time.Millisecond
	cfg.Antiraid.LogEnabled = models.IntToBool(arLog)
	cfg.WarnSystem.Enabled = models.IntToBool(warnEnabled)
	cfg.WarnSystem.AutoDecay = models.IntToBool(warnDecay)
	cfg.MuteSystem.Enabled = models.IntToBool(muteEnabled)
	cfg.MuteSystem.UseTimeout = models.IntToBool(muteTimeout)
	cfg.MuteSystem.DefaultDuration = time.Duration(muteDefaultMs) * time.Millisecond
	cfg.Tickets.Enabled = models.IntToBool(ticketsEnabled)
	cfg.RaidMode.Enabled = models.IntToBool(raidMode)

	return &cfg, nil
}

// UpsertGuildConfig writes the full settings row and replaces the
// guild's escalation ladder.
func (d *Database) UpsertGuildConfig(cfg *models.GuildConfig) error {
	query := `
		INSERT INTO guild_settings (` + strings.TrimSpace(guildConfigColumns) + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30,
			$31, $32, $33, $34, $35, $36, $37, $38, $39, $40,
			$41, $42)
		ON CONFLICT (guild_id) DO UPDATE SET
			log_channel_id = $2, mod_log_enabled = $3,
			welcome_channel_id = $4, welcome_message = $5, auto_roles = $6,
			verify_channel_id = $7, verify_role_id = $8, verify_mode = $9,
			automod_enabled = $10, banned_words = $11, spam_threshold = $12,
			caps_threshold = $13, link_filter_enabled = $14, link_filter_mode = $15,
			link_domains = $16, max_mentions = $17, max_emojis = $18,
			automod_punishment = $19, automod_mute_ms = $20,
			antiraid_enabled = $21, join_threshold = $22, join_window_seconds = $23,
			antiraid_action = $24, min_account_age_ms = $25, antiraid_log = $26,
			warn_enabled = $27, warn_auto_decay = $28, warn_decay_days = $29,
			mute_enabled = $30, mute_use_timeout = $31, mute_role_id = $32,
			mute_default_ms = $33, tickets_enabled = $34, ticket_category_id = $35,
			ticket_support_role_id = $36, ticket_counter = $37, max_open_tickets = $38,
			raid_mode = $39, raid_mode_activated_at = $40, raid_mode_activated_by = $41,
			raid_mode_prev_verification = $42
	`
	_, err := d.db.Exec(query,
		cfg.GuildID, cfg.LogChannelID, models.BoolToInt(cfg.ModLogEnabled),
		cfg.WelcomeChannelID, cfg.WelcomeMessage, joinList(cfg.AutoRoles),
		cfg.VerifyChannelID, cfg.VerifyRoleID, cfg.VerifyMode,
		models.BoolToInt(cfg.Automod.Enabled), joinList(cfg.Automod.BannedWords),
		cfg.Automod.SpamThreshold, cfg.Automod.CapsThreshold,
		models.BoolToInt(cfg.Automod.LinkFilter.Enabled), cfg.Automod.LinkFilter.Mode,
		joinList(cfg.Automod.LinkFilter.Domains),
		cfg.Automod.MaxMentions, cfg.Automod.MaxEmojis,
		cfg.Automod.PunishmentType, cfg.Automod.MuteDuration.Milliseconds(),
		models.BoolToInt(cfg.Antiraid.Enabled), cfg.Antiraid.JoinThreshold, cfg.Antiraid.TimeWindow,
		cfg.Antiraid.Action, cfg.Antiraid.MinAccountAge.Milliseconds(), models.BoolToInt(cfg.Antiraid.LogEnabled),
		models.BoolToInt(cfg.WarnSystem.Enabled), models.BoolToInt(cfg.WarnSystem.AutoDecay), cfg.WarnSystem.DecayDays,
		models.BoolToInt(cfg.MuteSystem.Enabled), models.BoolToInt(cfg.MuteSystem.UseTimeout),
		cfg.MuteSystem.TimeoutRoleID, cfg.MuteSystem.DefaultDuration.Milliseconds(),
		models.BoolToInt(cfg.Tickets.Enabled), cfg.Tickets.CategoryID, cfg.Tickets.SupportRoleID,
		cfg.Tickets.Counter, cfg.Tickets.MaxTickets,
		models.BoolToInt(cfg.RaidMode.Enabled), cfg.RaidMode.ActivatedAt, cfg.RaidMode.ActivatedBy,
		cfg.RaidMode.OriginalVerification,
	)
	if err != nil {
		return err
	}
	return d.ReplaceWarnActions(cfg.GuildID, cfg.WarnSystem.Actions)
}

// Warn ladder operations

func (d *Database) GetWarnActions(guildID string) ([]models.WarnAction, error) {
	rows, err := d.db.Query(
		"SELECT warnings, action, duration_ms FROM warn_actions WHERE guild_id = $1 ORDER BY warnings ASC", guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []models.WarnAction
	for rows.Next() {
		var a models.WarnAction
		var durationMs int64
		if err := rows.Scan(&a.Warnings, &a.Action, &durationMs); err != nil {
			return nil, err
		}
		a.Duration = time.Duration(durationMs) * time.Millisecond
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

func (d *Database) ReplaceWarnActions(guildID string, actions []models.WarnAction) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM warn_actions WHERE guild_id = $1", guildID); err != nil {
		return err
	}
	for _, a := range actions {
		_, err := tx.Exec(
			"INSERT INTO warn_actions (guild_id, warnings, action, duration_ms) VALUES ($1, $2, $3, $4)",
			guildID, a.Warnings, a.Action, a.Duration.Milliseconds())
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// NextTicketNumber bumps the guild's ticket counter and returns the new
// value. Atomic so two simultaneous tickets never share a number.
func (d *Database) NextTicketNumber(guildID string) (int, error) {
	var n int
	err := d.db.QueryRow(`
		UPDATE guild_settings SET ticket_counter = ticket_counter + 1
		WHERE guild_id = $1 RETURNING ticket_counter`, guildID).Scan(&n)
	if err == sql.ErrNoRows {
		if err := d.UpsertGuildConfig(models.DefaultGuildConfig(guildID)); err != nil {
			return 0, err
		}
		return d.NextTicketNumber(guildID)
	}
	return n, err
}

// Helpers

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func joinList(items []string) string {
	return strings.Join(items, ",")
}
