// Package punish applies sanctions against guild members and records the
// audit trail. It is the single choke point shared by the automod scanner,
// the raid detector, the warning escalator and the manual mod commands.
package punish

import (
	"fmt"
	"time"

	"discord-moderation-bot/internal/metrics"
	"discord-moderation-bot/internal/models"
	"discord-moderation-bot/internal/moderation"

	"go.uber.org/zap"
)

// Audit colors per action family.
const (
	colorWarn    = 0xFFA500
	colorPunish  = 0xFF0000
	colorReverse = 0x00FF00
)

// Executor applies and reverses punishments. Platform failures are logged
// and also returned so interactive commands can surface them; background
// detectors discard the return value and always proceed.
type Executor struct {
	platform moderation.Platform
	configs  moderation.ConfigSource
	mutes    moderation.MuteStore
	audit    moderation.AuditLogger
	log      *zap.Logger
}

func NewExecutor(platform moderation.Platform, configs moderation.ConfigSource, mutes moderation.MuteStore, audit moderation.AuditLogger, log *zap.Logger) *Executor {
	return &Executor{
		platform: platform,
		configs:  configs,
		mutes:    mutes,
		audit:    audit,
		log:      log,
	}
}

// Apply executes one punishment against a member. Exactly one audit entry
// is written whether the platform call succeeds or fails. Timed sanctions
// (mutes, tempbans) additionally insert a Mute record; duplicate calls
// create duplicate records, deduplication is the caller's job.
func (e *Executor) Apply(guildID, userID, moderatorID, reason string, p models.Punishment) error {
	var err error
	entry := moderation.AuditEntry{
		ModeratorID: moderatorID,
		TargetID:    userID,
		Reason:      reason,
		Duration:    p.Duration,
		Color:       colorPunish,
	}

	switch p.Kind {
	case models.PunishWarnLog:
		entry.Action = "Warning"
		entry.Color = colorWarn

	case models.PunishMute:
		entry.Action = "Mute"
		err = e.applyMute(guildID, userID, moderatorID, reason, p.Duration)

	case models.PunishKick:
		entry.Action = "Kick"
		err = e.platform.KickMember(guildID, userID, reason)

	case models.PunishBan:
		entry.Action = "Ban"
		err = e.platform.BanMember(guildID, userID, reason, 0)
		if err == nil && p.Duration > 0 {
			entry.Action = "Tempban"
			e.recordSanction(guildID, userID, moderatorID, reason, models.SanctionBan, p.Duration)
		}

	case models.PunishRoleRemove:
		entry.Action = "Verification Revoked"
		err = e.removeVerifyRole(guildID, userID)

	default:
		err = fmt.Errorf("unknown punishment kind %d", p.Kind)
	}

	if err != nil {
		e.log.Warn("punishment failed",
			zap.String("guild", guildID),
			zap.String("user", userID),
			zap.String("kind", p.Kind.String()),
			zap.Error(err))
	} else {
		metrics.PunishmentsExecuted.WithLabelValues(p.Kind.String()).Inc()
	}

	e.audit.LogAction(guildID, entry)
	return err
}

// applyMute restricts communication using the guild's preferred mechanism:
// native timeout or a configured mute role. A Mute record is written either
// way so the expiry scheduler can reverse it.
func (e *Executor) applyMute(guildID, userID, moderatorID, reason string, d time.Duration) error {
	useTimeout, roleID := true, ""
	if cfg, err := e.configs.GuildConfig(guildID); err == nil {
		useTimeout = cfg.MuteSystem.UseTimeout
		roleID = cfg.MuteSystem.TimeoutRoleID
		if d == 0 {
			d = cfg.MuteSystem.DefaultDuration
		}
	}
	if d == 0 {
		d = time.Hour
	}

	var err error
	if useTimeout {
		until := time.Now().Add(d)
		err = e.platform.TimeoutMember(guildID, userID, &until)
	} else if roleID != "" {
		err = e.platform.AddRole(guildID, userID, roleID)
	} else {
		err = fmt.Errorf("mute system not configured for guild %s", guildID)
	}

	if err == nil {
		e.recordSanction(guildID, userID, moderatorID, reason, models.SanctionMute, d)
	}
	return err
}

func (e *Executor) recordSanction(guildID, userID, moderatorID, reason, kind string, d time.Duration) {
	now := models.Now()
	_, err := e.mutes.InsertMute(&models.Mute{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Reason:      reason,
		Kind:        kind,
		Duration:    d.Milliseconds(),
		EndTime:     now + d.Milliseconds(),
		Active:      true,
	})
	if err != nil {
		e.log.Error("failed to record timed sanction",
			zap.String("guild", guildID),
			zap.String("user", userID),
			zap.Error(err))
	}
}

// Revoke reverses a timed sanction: clears the timeout or removes the mute
// role for mutes, unbans for tempbans. It does not touch the Mute record;
// the caller owns the active flag.
func (e *Executor) Revoke(guildID, userID, kind string) error {
	switch kind {
	case models.SanctionMute:
		useTimeout, roleID := true, ""
		if cfg, err := e.configs.GuildConfig(guildID); err == nil {
			useTimeout = cfg.MuteSystem.UseTimeout
			roleID = cfg.MuteSystem.TimeoutRoleID
		}
		if useTimeout {
			return e.platform.TimeoutMember(guildID, userID, nil)
		}
		if roleID != "" {
			return e.platform.RemoveRole(guildID, userID, roleID)
		}
		return fmt.Errorf("mute system not configured for guild %s", guildID)

	case models.SanctionBan:
		return e.platform.UnbanMember(guildID, userID)

	default:
		return fmt.Errorf("unknown sanction kind %q", kind)
	}
}

// removeVerifyRole strips the guild's verification role if one is set.
// No role configured is a no-op, not an error.
func (e *Executor) removeVerifyRole(guildID, userID string) error {
	cfg, err := e.configs.GuildConfig(guildID)
	if err != nil || cfg.VerifyRoleID == "" {
		return nil
	}
	return e.platform.RemoveRole(guildID, userID, cfg.VerifyRoleID)
}
