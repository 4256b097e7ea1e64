package bot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"discord-moderation-bot/internal/models"
	"discord-moderation-bot/internal/moderation"
	"discord-moderation-bot/internal/moderation/warn"
	"discord-moderation-bot/internal/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func (b *Bot) handleWarn(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i)
	target := opts["user"].UserValue(s)
	reason := opts["reason"].StringValue()

	res, err := b.Warns.Warn(i.GuildID, target.ID, moderatorID(i), reason)
	if err != nil {
		if errors.Is(err, warn.ErrDisabled) {
			utils.SendError(s, i, "The warning system is disabled on this server.")
			return
		}
		utils.SendError(s, i, "Failed to record the warning.")
		return
	}

	// Best effort. The leaderboard is a cache, the ledger is the truth.
	if err := b.Redis.IncrementWarnBoard(i.GuildID, target.ID); err != nil {
		b.Logger.Debug("warn board increment failed", zap.Error(err))
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Total Warnings", Value: fmt.Sprintf("%d", res.WarnCount), Inline: true},
	}
	if res.Escalation != nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Escalation",
			Value:  res.Escalation.Action,
			Inline: true,
		})
	}
	utils.SendEmbed(s, i, utils.ModActionEmbed(
		utils.EmojiWarn+" Member Warned", target, i.Member.User, reason, fields...))
}

func (b *Bot) handleWarnings(s *discordgo.Session, i *discordgo.InteractionCreate) {
	target := optionMap(i)["user"].UserValue(s)

	list, err := b.Warns.Warnings(i.GuildID, target.ID)
	if err != nil {
		utils.SendError(s, i, "Failed to load warnings.")
		return
	}
	utils.SendEmbed(s, i, utils.WarningListEmbed(target, list))
}

func (b *Bot) handleClearWarns(s *discordgo.Session, i *discordgo.InteractionCreate) {
	target := optionMap(i)["user"].UserValue(s)

	n, err := b.Warns.Clear(i.GuildID, target.ID, moderatorID(i))
	if err != nil {
		utils.SendError(s, i, "Failed to clear warnings.")
		return
	}
	if err := b.Redis.ResetWarnBoardEntry(i.GuildID, target.ID); err != nil {
		b.Logger.Debug("warn board reset failed", zap.Error(err))
	}
	utils.SendSuccess(s, i, fmt.Sprintf("Cleared %d warnings for %s.", n, target.Mention()))
}

func (b *Bot) handleMute(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i)
	target := opts["user"].UserValue(s)

	reason := "No reason provided"
	if o, ok := opts["reason"]; ok {
		reason = o.StringValue()
	}

	var dur time.Duration
	if o, ok := opts["duration"]; ok {
		d, err := utils.ParseDuration(o.StringValue())
		if err != nil {
			utils.SendError(s, i, err.Error())
			return
		}
		dur = d
	}

	cfg, err := b.Configs.GuildConfig(i.GuildID)
	if err == nil && !cfg.MuteSystem.Enabled {
		utils.SendError(s, i, "The mute system is disabled on this server.")
		return
	}

	if err := b.Executor.Apply(i.GuildID, target.ID, moderatorID(i), reason,
		models.Punishment{Kind: models.PunishMute, Duration: dur}); err != nil {
		utils.SendError(s, i, "Failed to mute the member. Check the bot's permissions and the mute configuration.")
		return
	}

	if dur == 0 && cfg != nil {
		dur = cfg.MuteSystem.DefaultDuration
	}
	utils.SendEmbed(s, i, utils.ModActionEmbed(
		utils.EmojiMuted+" Member Muted", target, i.Member.User, reason,
		&discordgo.MessageEmbedField{Name: "Duration", Value: utils.FormatDuration(dur), Inline: true}))
}

func (b *Bot) handleUnmute(s *discordgo.Session, i *discordgo.InteractionCreate) {
	target := optionMap(i)["user"].UserValue(s)

	active, err := b.DB.FindActiveByUser(i.GuildID, target.ID, models.SanctionMute)
	if err != nil {
		utils.SendError(s, i, "Failed to look up active mutes.")
		return
	}
	if len(active) == 0 {
		utils.SendError(s, i, "That member is not muted.")
		return
	}

	if err := b.Executor.Revoke(i.GuildID, target.ID, models.SanctionMute); err != nil {
		utils.SendError(s, i, "Failed to lift the mute.")
		return
	}

	lifted := false
	for _, m := range active {
		flipped, err := b.DB.Deactivate(m.ID)
		if err != nil {
			b.Logger.Warn("mute deactivation failed", zap.Int64("id", m.ID), zap.Error(err))
			continue
		}
		lifted = lifted || flipped
	}
	if lifted {
		b.ModLog.LogAction(i.GuildID, moderation.AuditEntry{
			Action:      "Unmute",
			ModeratorID: moderatorID(i),
			TargetID:    target.ID,
			Reason:      "manual unmute",
			Color:       utils.ColorGreen,
		})
	}
	utils.SendSuccess(s, i, fmt.Sprintf("Unmuted %s.", target.Mention()))
}

func (b *Bot) handleKick(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i)
	target := opts["user"].UserValue(s)
	reason := "No reason provided"
	if o, ok := opts["reason"]; ok {
		reason = o.StringValue()
	}

	if err := b.Executor.Apply(i.GuildID, target.ID, moderatorID(i), reason,
		models.Punishment{Kind: models.PunishKick}); err != nil {
		utils.SendError(s, i, "Failed to kick the member.")
		return
	}
	utils.SendEmbed(s, i, utils.ModActionEmbed("👢 Member Kicked", target, i.Member.User, reason))
}

func (b *Bot) handleBan(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i)
	target := opts["user"].UserValue(s)
	reason := "No reason provided"
	if o, ok := opts["reason"]; ok {
		reason = o.StringValue()
	}
	deleteDays := 0
	if o, ok := opts["delete_days"]; ok {
		deleteDays = int(o.IntValue())
		if deleteDays < 0 || deleteDays > 7 {
			utils.SendError(s, i, "delete_days must be between 0 and 7.")
			return
		}
	}

	// The executor always bans with no deletion window; a moderator-chosen
	// window goes straight to the platform, then the audit entry follows.
	if deleteDays > 0 {
		if err := s.GuildBanCreateWithReason(i.GuildID, target.ID, reason, deleteDays); err != nil {
			utils.SendError(s, i, "Failed to ban the member.")
			return
		}
		b.ModLog.LogAction(i.GuildID, moderation.AuditEntry{
			Action:      "Ban",
			ModeratorID: moderatorID(i),
			TargetID:    target.ID,
			Reason:      reason,
			Color:       utils.ColorRed,
		})
	} else if err := b.Executor.Apply(i.GuildID, target.ID, moderatorID(i), reason,
		models.Punishment{Kind: models.PunishBan}); err != nil {
		utils.SendError(s, i, "Failed to ban the member.")
		return
	}
	utils.SendEmbed(s, i, utils.ModActionEmbed("🔨 Member Banned", target, i.Member.User, reason))
}

func (b *Bot) handleTempBan(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i)
	target := opts["user"].UserValue(s)
	dur, err := utils.ParseDuration(opts["duration"].StringValue())
	if err != nil {
		utils.SendError(s, i, err.Error())
		return
	}
	reason := "No reason provided"
	if o, ok := opts["reason"]; ok {
		reason = o.StringValue()
	}

	if err := b.Executor.Apply(i.GuildID, target.ID, moderatorID(i), reason,
		models.Punishment{Kind: models.PunishBan, Duration: dur}); err != nil {
		utils.SendError(s, i, "Failed to ban the member.")
		return
	}
	utils.SendEmbed(s, i, utils.ModActionEmbed(
		"🔨 Member Tempbanned", target, i.Member.User, reason,
		&discordgo.MessageEmbedField{Name: "Duration", Value: utils.FormatDuration(dur), Inline: true}))
}

func (b *Bot) handleSoftBan(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i)
	target := opts["user"].UserValue(s)
	reason := "No reason provided"
	if o, ok := opts["reason"]; ok {
		reason = o.StringValue()
	}

	// Ban with a 1-day deletion window, then immediately unban. The member
	// can rejoin; their recent messages are gone.
	if err := s.GuildBanCreateWithReason(i.GuildID, target.ID, reason, 1); err != nil {
		utils.SendError(s, i, "Failed to softban the member.")
		return
	}
	if err := s.GuildBanDelete(i.GuildID, target.ID); err != nil {
		utils.SendError(s, i, "Ban applied but the unban failed. Lift it manually.")
		return
	}
	b.ModLog.LogAction(i.GuildID, moderation.AuditEntry{
		Action:      "Softban",
		ModeratorID: moderatorID(i),
		TargetID:    target.ID,
		Reason:      reason,
		Color:       utils.ColorRed,
	})
	utils.SendEmbed(s, i, utils.ModActionEmbed("🧹 Member Softbanned", target, i.Member.User, reason))
}

func (b *Bot) handleUnban(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := optionMap(i)["user_id"].StringValue()

	if err := s.GuildBanDelete(i.GuildID, userID); err != nil {
		utils.SendError(s, i, "Failed to unban. Is that user actually banned?")
		return
	}

	// Deactivate any pending tempban so the scheduler does not unban twice.
	if active, err := b.DB.FindActiveByUser(i.GuildID, userID, models.SanctionBan); err == nil {
		for _, m := range active {
			if _, err := b.DB.Deactivate(m.ID); err != nil {
				b.Logger.Warn("tempban deactivation failed", zap.Int64("id", m.ID), zap.Error(err))
			}
		}
	}

	b.ModLog.LogAction(i.GuildID, moderation.AuditEntry{
		Action:      "Unban",
		ModeratorID: moderatorID(i),
		TargetID:    userID,
		Reason:      "manual unban",
		Color:       utils.ColorGreen,
	})
	utils.SendSuccess(s, i, fmt.Sprintf("Unbanned <@%s>.", userID))
}

func (b *Bot) handleMassBan(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i)
	reason := "Mass ban"
	if o, ok := opts["reason"]; ok {
		reason = o.StringValue()
	}

	raw := strings.FieldsFunc(opts["user_ids"].StringValue(), func(r rune) bool {
		return r == ' ' || r == ','
	})
	if len(raw) == 0 || len(raw) > 50 {
		utils.SendError(s, i, "Provide between 1 and 50 user IDs.")
		return
	}

	// Ban sweeps outlive the 3 second interaction window.
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})

	banned := 0
	for _, id := range raw {
		if err := b.Executor.Apply(i.GuildID, id, moderatorID(i), reason,
			models.Punishment{Kind: models.PunishBan}); err == nil {
			banned++
		}
	}

	content := fmt.Sprintf("Banned %d of %d users.", banned, len(raw))
	s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content})
}

func (b *Bot) handleClear(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i)
	amount := int(opts["amount"].IntValue())
	if amount < 1 || amount > 100 {
		utils.SendError(s, i, "Amount must be between 1 and 100.")
		return
	}

	var onlyUser string
	if o, ok := opts["user"]; ok {
		onlyUser = o.UserValue(s).ID
	}

	msgs, err := s.ChannelMessages(i.ChannelID, amount, "", "", "")
	if err != nil {
		utils.SendError(s, i, "Failed to fetch messages.")
		return
	}

	ids := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if onlyUser != "" && (m.Author == nil || m.Author.ID != onlyUser) {
			continue
		}
		ids = append(ids, m.ID)
	}
	if len(ids) == 0 {
		utils.SendError(s, i, "Nothing to delete.")
		return
	}

	if err := s.ChannelMessagesBulkDelete(i.ChannelID, ids); err != nil {
		utils.SendError(s, i, "Bulk delete failed. Messages older than 14 days cannot be bulk deleted.")
		return
	}

	b.ModLog.LogAction(i.GuildID, moderation.AuditEntry{
		Action:      "Messages Cleared",
		ModeratorID: moderatorID(i),
		TargetID:    onlyUser,
		Reason:      fmt.Sprintf("%d messages in <#%s>", len(ids), i.ChannelID),
		Color:       utils.ColorOrange,
	})
	utils.SendSuccess(s, i, fmt.Sprintf("Deleted %d messages.", len(ids)))
}

func (b *Bot) handleLockdown(s *discordgo.Session, i *discordgo.InteractionCreate) {
	state := optionMap(i)["state"].StringValue()

	var deny int64
	if state == "on" {
		deny = discordgo.PermissionSendMessages
	}

	// The @everyone role shares the guild's ID.
	err := s.ChannelPermissionSet(i.ChannelID, i.GuildID,
		discordgo.PermissionOverwriteTypeRole, 0, deny)
	if err != nil {
		utils.SendError(s, i, "Failed to update channel permissions.")
		return
	}

	action, emoji := "Channel Unlocked", utils.EmojiUnlock
	if state == "on" {
		action, emoji = "Channel Locked", utils.EmojiLock
	}
	b.ModLog.LogAction(i.GuildID, moderation.AuditEntry{
		Action:      action,
		ModeratorID: moderatorID(i),
		Reason:      fmt.Sprintf("<#%s>", i.ChannelID),
		Color:       utils.ColorOrange,
	})
	utils.SendSuccess(s, i, fmt.Sprintf("%s %s.", emoji, action))
}
