package bot

import (
	"fmt"
	"strings"

	"discord-moderation-bot/internal/models"
	"discord-moderation-bot/internal/moderation"
	"discord-moderation-bot/internal/utils"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) handleAutomod(s *discordgo.Session, i *discordgo.InteractionCreate) {
	cfg, err := b.Configs.GuildConfig(i.GuildID)
	if err != nil {
		utils.SendError(s, i, "Failed to load settings.")
		return
	}

	// The cached config is shared with the scanner goroutines.
	cfg = cfg.Clone()

	sub, opts := subCommand(i)
	switch sub {
	case "enable":
		cfg.Automod.Enabled = true
	case "disable":
		cfg.Automod.Enabled = false
	case "status":
		utils.SendEmbed(s, i, automodStatusEmbed(&cfg.Automod))
		return
	case "addword":
		word := strings.ToLower(strings.TrimSpace(opts["word"].StringValue()))
		for _, w := range cfg.Automod.BannedWords {
			if w == word {
				utils.SendError(s, i, "That word is already banned.")
				return
			}
		}
		cfg.Automod.BannedWords = append(cfg.Automod.BannedWords, word)
	case "removeword":
		word := strings.ToLower(strings.TrimSpace(opts["word"].StringValue()))
		kept := cfg.Automod.BannedWords[:0]
		for _, w := range cfg.Automod.BannedWords {
			if w != word {
				kept = append(kept, w)
			}
		}
		cfg.Automod.BannedWords = kept
	case "spam":
		cfg.Automod.SpamThreshold = int(opts["threshold"].IntValue())
	case "caps":
		p := int(opts["percent"].IntValue())
		if p < 0 || p > 100 {
			utils.SendError(s, i, "Percent must be between 0 and 100.")
			return
		}
		cfg.Automod.CapsThreshold = p
	case "links":
		mode := opts["mode"].StringValue()
		cfg.Automod.LinkFilter.Enabled = mode != "off"
		if mode != "off" {
			cfg.Automod.LinkFilter.Mode = mode
		}
		if o, ok := opts["domains"]; ok {
			var domains []string
			for _, d := range strings.Split(o.StringValue(), ",") {
				if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
					domains = append(domains, d)
				}
			}
			cfg.Automod.LinkFilter.Domains = domains
		}
	case "mentions":
		cfg.Automod.MaxMentions = int(opts["max"].IntValue())
	case "emojis":
		cfg.Automod.MaxEmojis = int(opts["max"].IntValue())
	case "punishment":
		cfg.Automod.PunishmentType = opts["type"].StringValue()
		if o, ok := opts["mute_duration"]; ok {
			d, err := utils.ParseDuration(o.StringValue())
			if err != nil {
				utils.SendError(s, i, err.Error())
				return
			}
			cfg.Automod.MuteDuration = d
		}
	default:
		return
	}

	if err := b.Configs.Update(cfg); err != nil {
		utils.SendError(s, i, "Failed to save settings.")
		return
	}
	utils.SendSuccess(s, i, "Automod settings updated.")
}

func automodStatusEmbed(am *models.AutomodConfig) *discordgo.MessageEmbed {
	onOff := func(b bool) string {
		if b {
			return "enabled"
		}
		return "disabled"
	}
	linkMode := "off"
	if am.LinkFilter.Enabled {
		linkMode = am.LinkFilter.Mode
	}
	return &discordgo.MessageEmbed{
		Title: utils.EmojiShield + " Automod",
		Color: utils.ColorDark,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "State", Value: onOff(am.Enabled), Inline: true},
			{Name: "Punishment", Value: am.PunishmentType, Inline: true},
			{Name: "Banned Words", Value: fmt.Sprintf("%d", len(am.BannedWords)), Inline: true},
			{Name: "Spam Threshold", Value: fmt.Sprintf("%d / 5s", am.SpamThreshold), Inline: true},
			{Name: "Caps Threshold", Value: fmt.Sprintf("%d%%", am.CapsThreshold), Inline: true},
			{Name: "Link Filter", Value: linkMode, Inline: true},
			{Name: "Max Mentions", Value: fmt.Sprintf("%d", am.MaxMentions), Inline: true},
			{Name: "Max Emojis", Value: fmt.Sprintf("%d", am.MaxEmojis), Inline: true},
		},
	}
}

func (b *Bot) handleAntiRaid(s *discordgo.Session, i *discordgo.InteractionCreate) {
	cfg, err := b.Configs.GuildConfig(i.GuildID)
	if err != nil {
		utils.SendError(s, i, "Failed to load settings.")
		return
	}

	// The cached config is shared with the scanner goroutines.
	cfg = cfg.Clone()

	sub, opts := subCommand(i)
	switch sub {
	case "enable":
		cfg.Antiraid.Enabled = true
	case "disable":
		cfg.Antiraid.Enabled = false
	case "status":
		ar := cfg.Antiraid
		state := "disabled"
		if ar.Enabled {
			state = "enabled"
		}
		utils.SendEmbed(s, i, &discordgo.MessageEmbed{
			Title: utils.EmojiSiren + " Anti-Raid",
			Color: utils.ColorDark,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "State", Value: state, Inline: true},
				{Name: "Threshold", Value: fmt.Sprintf("%d joins / %ds", ar.JoinThreshold, ar.TimeWindow), Inline: true},
				{Name: "Action", Value: ar.Action, Inline: true},
				{Name: "Min Account Age", Value: utils.FormatDuration(ar.MinAccountAge), Inline: true},
			},
		})
		return
	case "threshold":
		joins := int(opts["joins"].IntValue())
		secs := int(opts["seconds"].IntValue())
		if joins < 2 || secs < 1 {
			utils.SendError(s, i, "Threshold needs at least 2 joins and a 1 second window.")
			return
		}
		cfg.Antiraid.JoinThreshold = joins
		cfg.Antiraid.TimeWindow = secs
	case "action":
		cfg.Antiraid.Action = opts["action"].StringValue()
	case "minage":
		d, err := utils.ParseDuration(opts["age"].StringValue())
		if err != nil {
			utils.SendError(s, i, err.Error())
			return
		}
		cfg.Antiraid.MinAccountAge = d
	default:
		return
	}

	if err := b.Configs.Update(cfg); err != nil {
		utils.SendError(s, i, "Failed to save settings.")
		return
	}
	utils.SendSuccess(s, i, "Anti-raid settings updated.")
}

func (b *Bot) handleWarnSystem(s *discordgo.Session, i *discordgo.InteractionCreate) {
	cfg, err := b.Configs.GuildConfig(i.GuildID)
	if err != nil {
		utils.SendError(s, i, "Failed to load settings.")
		return
	}

	// The cached config is shared with the scanner goroutines.
	cfg = cfg.Clone()

	sub, opts := subCommand(i)
	switch sub {
	case "enable":
		cfg.WarnSystem.Enabled = true
	case "disable":
		cfg.WarnSystem.Enabled = false
	case "ladder":
		var sb strings.Builder
		if len(cfg.WarnSystem.Actions) == 0 {
			sb.WriteString("No escalation rungs configured.")
		}
		for _, a := range cfg.WarnSystem.Actions {
			if a.Duration > 0 {
				sb.WriteString(fmt.Sprintf("%d warnings → %s (%s)\n", a.Warnings, a.Action, utils.FormatDuration(a.Duration)))
			} else {
				sb.WriteString(fmt.Sprintf("%d warnings → %s\n", a.Warnings, a.Action))
			}
		}
		decay := "off"
		if cfg.WarnSystem.AutoDecay {
			decay = fmt.Sprintf("%d days", cfg.WarnSystem.DecayDays)
		}
		utils.SendEmbed(s, i, &discordgo.MessageEmbed{
			Title:       utils.EmojiWarn + " Escalation Ladder",
			Description: sb.String(),
			Color:       utils.ColorDark,
			Footer:      &discordgo.MessageEmbedFooter{Text: "Decay: " + decay},
		})
		return
	case "setaction":
		count := int(opts["warnings"].IntValue())
		if count < 1 {
			utils.SendError(s, i, "The warning count must be at least 1.")
			return
		}
		action := models.WarnAction{
			Warnings: count,
			Action:   opts["action"].StringValue(),
		}
		if o, ok := opts["duration"]; ok {
			d, err := utils.ParseDuration(o.StringValue())
			if err != nil {
				utils.SendError(s, i, err.Error())
				return
			}
			action.Duration = d
		}
		replaced := false
		for idx, a := range cfg.WarnSystem.Actions {
			if a.Warnings == count {
				cfg.WarnSystem.Actions[idx] = action
				replaced = true
				break
			}
		}
		if !replaced {
			cfg.WarnSystem.Actions = append(cfg.WarnSystem.Actions, action)
		}
	case "removeaction":
		count := int(opts["warnings"].IntValue())
		kept := cfg.WarnSystem.Actions[:0]
		for _, a := range cfg.WarnSystem.Actions {
			if a.Warnings != count {
				kept = append(kept, a)
			}
		}
		cfg.WarnSystem.Actions = kept
	case "decay":
		days := int(opts["days"].IntValue())
		cfg.WarnSystem.AutoDecay = days > 0
		cfg.WarnSystem.DecayDays = days
	default:
		return
	}

	if err := b.Configs.Update(cfg); err != nil {
		utils.SendError(s, i, "Failed to save settings.")
		return
	}
	utils.SendSuccess(s, i, "Warning system updated.")
}

func (b *Bot) handleMuteSetup(s *discordgo.Session, i *discordgo.InteractionCreate) {
	cfg, err := b.Configs.GuildConfig(i.GuildID)
	if err != nil {
		utils.SendError(s, i, "Failed to load settings.")
		return
	}

	// The cached config is shared with the scanner goroutines.
	cfg = cfg.Clone()

	opts := optionMap(i)
	method := opts["method"].StringValue()
	cfg.MuteSystem.Enabled = true
	cfg.MuteSystem.UseTimeout = method == "timeout"
	if method == "role" {
		o, ok := opts["role"]
		if !ok {
			utils.SendError(s, i, "The role method needs a mute role.")
			return
		}
		cfg.MuteSystem.TimeoutRoleID = o.RoleValue(s, i.GuildID).ID
	}
	if o, ok := opts["default_duration"]; ok {
		d, err := utils.ParseDuration(o.StringValue())
		if err != nil {
			utils.SendError(s, i, err.Error())
			return
		}
		cfg.MuteSystem.DefaultDuration = d
	}

	if err := b.Configs.Update(cfg); err != nil {
		utils.SendError(s, i, "Failed to save settings.")
		return
	}
	utils.SendSuccess(s, i, "Mute system updated.")
}

func (b *Bot) handleSetLogChannel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	cfg, err := b.Configs.GuildConfig(i.GuildID)
	if err != nil {
		utils.SendError(s, i, "Failed to load settings.")
		return
	}

	// The cached config is shared with the scanner goroutines.
	cfg = cfg.Clone()

	ch := optionMap(i)["channel"].ChannelValue(s)
	cfg.LogChannelID = ch.ID
	cfg.ModLogEnabled = true

	if err := b.Configs.Update(cfg); err != nil {
		utils.SendError(s, i, "Failed to save settings.")
		return
	}
	utils.SendSuccess(s, i, fmt.Sprintf("Moderation log channel set to <#%s>.", ch.ID))
}

func (b *Bot) handleWelcome(s *discordgo.Session, i *discordgo.InteractionCreate) {
	cfg, err := b.Configs.GuildConfig(i.GuildID)
	if err != nil {
		utils.SendError(s, i, "Failed to load settings.")
		return
	}

	// The cached config is shared with the scanner goroutines.
	cfg = cfg.Clone()

	opts := optionMap(i)
	cfg.WelcomeChannelID = opts["channel"].ChannelValue(s).ID
	if o, ok := opts["message"]; ok {
		cfg.WelcomeMessage = o.StringValue()
	}

	if err := b.Configs.Update(cfg); err != nil {
		utils.SendError(s, i, "Failed to save settings.")
		return
	}
	utils.SendSuccess(s, i, "Welcome messages configured.")
}

func (b *Bot) handleAutoRole(s *discordgo.Session, i *discordgo.InteractionCreate) {
	cfg, err := b.Configs.GuildConfig(i.GuildID)
	if err != nil {
		utils.SendError(s, i, "Failed to load settings.")
		return
	}

	// The cached config is shared with the scanner goroutines.
	cfg = cfg.Clone()

	sub, opts := subCommand(i)
	switch sub {
	case "add":
		roleID := opts["role"].RoleValue(s, i.GuildID).ID
		for _, r := range cfg.AutoRoles {
			if r == roleID {
				utils.SendError(s, i, "That role is already granted on join.")
				return
			}
		}
		cfg.AutoRoles = append(cfg.AutoRoles, roleID)
	case "remove":
		roleID := opts["role"].RoleValue(s, i.GuildID).ID
		kept := cfg.AutoRoles[:0]
		for _, r := range cfg.AutoRoles {
			if r != roleID {
				kept = append(kept, r)
			}
		}
		cfg.AutoRoles = kept
	case "list":
		if len(cfg.AutoRoles) == 0 {
			utils.SendSuccess(s, i, "No join roles configured.")
			return
		}
		mentions := make([]string, len(cfg.AutoRoles))
		for idx, r := range cfg.AutoRoles {
			mentions[idx] = "<@&" + r + ">"
		}
		utils.SendSuccess(s, i, "Join roles: "+strings.Join(mentions, ", "))
		return
	default:
		return
	}

	if err := b.Configs.Update(cfg); err != nil {
		utils.SendError(s, i, "Failed to save settings.")
		return
	}
	utils.SendSuccess(s, i, "Join roles updated.")
}

func (b *Bot) handleVerifySetup(s *discordgo.Session, i *discordgo.InteractionCreate) {
	cfg, err := b.Configs.GuildConfig(i.GuildID)
	if err != nil {
		utils.SendError(s, i, "Failed to load settings.")
		return
	}

	// The cached config is shared with the scanner goroutines.
	cfg = cfg.Clone()

	opts := optionMap(i)
	cfg.VerifyChannelID = opts["channel"].ChannelValue(s).ID
	cfg.VerifyRoleID = opts["role"].RoleValue(s, i.GuildID).ID
	cfg.VerifyMode = opts["mode"].StringValue()

	if err := b.Configs.Update(cfg); err != nil {
		utils.SendError(s, i, "Failed to save settings.")
		return
	}

	// Post the verification prompt in the configured channel.
	if cfg.VerifyMode == "captcha" {
		_, err = s.ChannelMessageSendComplex(cfg.VerifyChannelID, &discordgo.MessageSend{
			Embeds: []*discordgo.MessageEmbed{{
				Title:       utils.EmojiVerify + " Verification",
				Description: "Click the button below and solve the captcha to unlock the server.",
				Color:       utils.ColorDark,
			}},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Verify",
						Style:    discordgo.PrimaryButton,
						CustomID: "verify_begin",
					},
				}},
			},
		})
	} else {
		var msg *discordgo.Message
		msg, err = s.ChannelMessageSendEmbed(cfg.VerifyChannelID, &discordgo.MessageEmbed{
			Title:       utils.EmojiVerify + " Verification",
			Description: "React with ✅ to unlock the server.",
			Color:       utils.ColorDark,
		})
		if err == nil {
			err = s.MessageReactionAdd(cfg.VerifyChannelID, msg.ID, "✅")
		}
	}
	if err != nil {
		utils.SendError(s, i, "Settings saved but posting the prompt failed.")
		return
	}
	utils.SendSuccess(s, i, "Verification configured.")
}

func (b *Bot) handleTicketSetup(s *discordgo.Session, i *discordgo.InteractionCreate) {
	cfg, err := b.Configs.GuildConfig(i.GuildID)
	if err != nil {
		utils.SendError(s, i, "Failed to load settings.")
		return
	}

	// The cached config is shared with the scanner goroutines.
	cfg = cfg.Clone()

	opts := optionMap(i)
	cfg.Tickets.Enabled = true
	cfg.Tickets.CategoryID = opts["category"].ChannelValue(s).ID
	if o, ok := opts["support_role"]; ok {
		cfg.Tickets.SupportRoleID = o.RoleValue(s, i.GuildID).ID
	}
	if o, ok := opts["max_open"]; ok {
		cfg.Tickets.MaxTickets = int(o.IntValue())
	}

	if err := b.Configs.Update(cfg); err != nil {
		utils.SendError(s, i, "Failed to save settings.")
		return
	}
	utils.SendSuccess(s, i, "Ticket system configured. Members can use /ticket open or the panel button.")
}

func (b *Bot) handleRaidMode(s *discordgo.Session, i *discordgo.InteractionCreate) {
	cfg, err := b.Configs.GuildConfig(i.GuildID)
	if err != nil {
		utils.SendError(s, i, "Failed to load settings.")
		return
	}

	// The cached config is shared with the scanner goroutines.
	cfg = cfg.Clone()

	state := optionMap(i)["state"].StringValue()
	if state == "on" {
		if cfg.RaidMode.Enabled {
			utils.SendError(s, i, "Raid mode is already on.")
			return
		}
		g, err := s.Guild(i.GuildID)
		if err != nil {
			utils.SendError(s, i, "Failed to read the guild's verification level.")
			return
		}
		cfg.RaidMode.Enabled = true
		cfg.RaidMode.ActivatedAt = models.Now()
		cfg.RaidMode.ActivatedBy = moderatorID(i)
		cfg.RaidMode.OriginalVerification = int(g.VerificationLevel)

		lvl := discordgo.VerificationLevelHigh
		if _, err := s.GuildEdit(i.GuildID, &discordgo.GuildParams{VerificationLevel: &lvl}); err != nil {
			utils.SendError(s, i, "Failed to raise the verification level.")
			return
		}
	} else {
		if !cfg.RaidMode.Enabled {
			utils.SendError(s, i, "Raid mode is not on.")
			return
		}
		lvl := discordgo.VerificationLevel(cfg.RaidMode.OriginalVerification)
		if _, err := s.GuildEdit(i.GuildID, &discordgo.GuildParams{VerificationLevel: &lvl}); err != nil {
			utils.SendError(s, i, "Failed to restore the verification level.")
			return
		}
		cfg.RaidMode = models.RaidModeState{}
	}

	if err := b.Configs.Update(cfg); err != nil {
		utils.SendError(s, i, "Failed to save settings.")
		return
	}

	action := "Raid Mode Disabled"
	color := utils.ColorGreen
	if state == "on" {
		action = "Raid Mode Enabled"
		color = utils.ColorRed
	}
	b.ModLog.LogAction(i.GuildID, moderation.AuditEntry{
		Action:      action,
		ModeratorID: moderatorID(i),
		Color:       color,
	})
	utils.SendSuccess(s, i, action+".")
}

func (b *Bot) handleBackup(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, opts := subCommand(i)
	switch sub {
	case "create":
		name, err := b.Backups.Create(i.GuildID)
		if err != nil {
			utils.SendError(s, i, "Backup failed.")
			return
		}
		utils.SendSuccess(s, i, fmt.Sprintf("Backup `%s` created.", name))
	case "list":
		names, err := b.Backups.List(i.GuildID)
		if err != nil {
			utils.SendError(s, i, "Failed to list backups.")
			return
		}
		if len(names) == 0 {
			utils.SendSuccess(s, i, "No backups for this server.")
			return
		}
		utils.SendSuccess(s, i, "Backups:\n`"+strings.Join(names, "`\n`")+"`")
	case "restore":
		name := opts["name"].StringValue()
		if err := b.Backups.Restore(i.GuildID, name); err != nil {
			utils.SendError(s, i, "Restore failed: "+err.Error())
			return
		}
		utils.SendSuccess(s, i, fmt.Sprintf("Backup `%s` restored.", name))
	case "delete":
		name := opts["name"].StringValue()
		if err := b.Backups.Delete(i.GuildID, name); err != nil {
			utils.SendError(s, i, "Delete failed: "+err.Error())
			return
		}
		utils.SendSuccess(s, i, fmt.Sprintf("Backup `%s` deleted.", name))
	}
}
