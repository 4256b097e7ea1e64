package bot

import (
	"fmt"
	"log"

	"discord-moderation-bot/internal/commands"
	"discord-moderation-bot/internal/metrics"
	"discord-moderation-bot/internal/moderation/automod"
	"discord-moderation-bot/internal/moderation/raid"
	"discord-moderation-bot/internal/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func (b *Bot) Ready(s *discordgo.Session, r *discordgo.Ready) {
	log.Printf("Bot is ready! Serving %d guilds", len(r.Guilds))

	// Per-guild registration propagates instantly, unlike the global set.
	for _, g := range r.Guilds {
		if _, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, g.ID, commands.Commands); err != nil {
			b.Logger.Warn("guild command registration failed",
				zap.String("guild_id", g.ID), zap.Error(err))
		}
	}

	s.UpdateWatchStatus(0, "for rule violations")
}

func (b *Bot) GuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if _, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, g.ID, commands.Commands); err != nil {
		b.Logger.Warn("guild command registration failed",
			zap.String("guild_id", g.ID), zap.Error(err))
	}
}

func (b *Bot) MessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	b.Scanner.ScanMessage(automod.Message{
		GuildID:      m.GuildID,
		ChannelID:    m.ChannelID,
		MessageID:    m.ID,
		AuthorID:     m.Author.ID,
		Content:      m.Content,
		MentionCount: len(m.Mentions) + len(m.MentionRoles),
		Attachments:  len(m.Attachments),
	})
}

func (b *Bot) GuildMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.User == nil || m.User.Bot {
		return
	}

	created, _ := discordgo.SnowflakeTimestamp(m.User.ID)
	actioned := b.Raid.RegisterJoin(raid.Join{
		GuildID:        m.GuildID,
		UserID:         m.User.ID,
		AccountCreated: created,
	})
	if actioned {
		return
	}

	cfg, err := b.Configs.GuildConfig(m.GuildID)
	if err != nil {
		b.Logger.Warn("config load failed on join",
			zap.String("guild_id", m.GuildID), zap.Error(err))
		return
	}

	// Raid mode holds all onboarding until a moderator lifts it.
	if cfg.RaidMode.Enabled {
		return
	}

	for _, roleID := range cfg.AutoRoles {
		if err := s.GuildMemberRoleAdd(m.GuildID, m.User.ID, roleID); err != nil {
			b.Logger.Warn("auto role failed",
				zap.String("guild_id", m.GuildID),
				zap.String("role_id", roleID), zap.Error(err))
		}
	}

	if cfg.WelcomeChannelID != "" {
		var serverName string
		if g, err := s.Guild(m.GuildID); err == nil {
			serverName = g.Name
		}
		embed := utils.WelcomeEmbed(cfg.WelcomeMessage, serverName, m.User)
		if _, err := s.ChannelMessageSendEmbed(cfg.WelcomeChannelID, embed); err != nil {
			b.Logger.Warn("welcome message failed",
				zap.String("guild_id", m.GuildID), zap.Error(err))
		}
	}
}

func (b *Bot) MessageReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.GuildID == "" || r.UserID == s.State.User.ID {
		return
	}

	cfg, err := b.Configs.GuildConfig(r.GuildID)
	if err != nil {
		return
	}
	if cfg.VerifyMode != "reaction" || cfg.VerifyChannelID == "" || r.ChannelID != cfg.VerifyChannelID {
		return
	}
	if r.Emoji.Name != "✅" {
		return
	}

	if err := b.Verify.GrantRole(cfg, r.UserID); err != nil {
		b.Logger.Warn("reaction verify failed",
			zap.String("guild_id", r.GuildID),
			zap.String("user_id", r.UserID), zap.Error(err))
	}
}

func (b *Bot) InteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.dispatchCommand(s, i)
	case discordgo.InteractionMessageComponent:
		b.dispatchComponent(s, i)
	case discordgo.InteractionModalSubmit:
		b.dispatchModal(s, i)
	}
}

func (b *Bot) dispatchCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	name := i.ApplicationCommandData().Name
	metrics.CommandsHandled.WithLabelValues(name).Inc()

	if wait, ok := b.cooldowns.allow(i.GuildID, moderatorID(i), name); !ok {
		utils.SendError(s, i, fmt.Sprintf("Slow down. Try again in %.1fs.", wait.Seconds()))
		return
	}

	switch name {
	case "warn":
		b.handleWarn(s, i)
	case "warnings":
		b.handleWarnings(s, i)
	case "clearwarns":
		b.handleClearWarns(s, i)
	case "mute":
		b.handleMute(s, i)
	case "unmute":
		b.handleUnmute(s, i)
	case "kick":
		b.handleKick(s, i)
	case "ban":
		b.handleBan(s, i)
	case "tempban":
		b.handleTempBan(s, i)
	case "softban":
		b.handleSoftBan(s, i)
	case "unban":
		b.handleUnban(s, i)
	case "massban":
		b.handleMassBan(s, i)
	case "clear":
		b.handleClear(s, i)
	case "lockdown":
		b.handleLockdown(s, i)
	case "automod":
		b.handleAutomod(s, i)
	case "antiraid":
		b.handleAntiRaid(s, i)
	case "warnsystem":
		b.handleWarnSystem(s, i)
	case "mutesetup":
		b.handleMuteSetup(s, i)
	case "setlogchannel":
		b.handleSetLogChannel(s, i)
	case "welcome":
		b.handleWelcome(s, i)
	case "autorole":
		b.handleAutoRole(s, i)
	case "verifysetup":
		b.handleVerifySetup(s, i)
	case "ticketsetup":
		b.handleTicketSetup(s, i)
	case "raidmode":
		b.handleRaidMode(s, i)
	case "backup":
		b.handleBackup(s, i)
	case "ticket":
		b.handleTicket(s, i)
	case "modstats":
		b.handleModStats(s, i)
	case "topwarns":
		b.handleTopWarns(s, i)
	case "help":
		b.handleHelp(s, i)
	case "ping":
		b.handlePing(s, i)
	case "stats":
		b.handleStats(s, i)
	}
}

func (b *Bot) dispatchComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.MessageComponentData().CustomID {
	case "verify_begin":
		b.handleVerifyBegin(s, i)
	case "verify_enter":
		b.handleVerifyEnter(s, i)
	case "ticket_open":
		b.handleTicketOpenButton(s, i)
	}
}

func (b *Bot) dispatchModal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.ModalSubmitData().CustomID == "verify_modal" {
		b.handleVerifyModal(s, i)
	}
}
