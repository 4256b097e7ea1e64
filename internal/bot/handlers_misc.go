package bot

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"discord-moderation-bot/internal/models"
	"discord-moderation-bot/internal/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func (b *Bot) handleTicket(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, _ := subCommand(i)
	switch sub {
	case "open":
		b.openTicket(s, i)
	case "claim":
		t, err := b.Tickets.Claim(i.ChannelID, moderatorID(i))
		if err != nil {
			utils.SendError(s, i, err.Error())
			return
		}
		utils.SendSuccess(s, i, fmt.Sprintf("Ticket #%04d claimed by <@%s>.", t.TicketNumber, t.ClaimedBy))
	case "close":
		// Respond before the channel disappears.
		utils.SendSuccess(s, i, "Closing this ticket...")
		if _, err := b.Tickets.Close(i.ChannelID, moderatorID(i)); err != nil {
			b.Logger.Warn("ticket close failed",
				zap.String("channel_id", i.ChannelID), zap.Error(err))
		}
	}
}

func (b *Bot) handleTicketOpenButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.openTicket(s, i)
}

func (b *Bot) openTicket(s *discordgo.Session, i *discordgo.InteractionCreate) {
	cfg, err := b.Configs.GuildConfig(i.GuildID)
	if err != nil {
		utils.SendError(s, i, "Failed to load settings.")
		return
	}

	t, err := b.Tickets.Open(cfg, moderatorID(i))
	if err != nil {
		utils.SendError(s, i, err.Error())
		return
	}
	utils.SendSuccess(s, i, fmt.Sprintf("%s Ticket opened: <#%s>", utils.EmojiTicket, t.ChannelID))
}

func (b *Bot) handleVerifyBegin(s *discordgo.Session, i *discordgo.InteractionCreate) {
	cfg, err := b.Configs.GuildConfig(i.GuildID)
	if err != nil {
		utils.SendError(s, i, "Failed to load settings.")
		return
	}
	userID := moderatorID(i)

	if cfg.VerifyMode != "captcha" {
		if err := b.Verify.GrantRole(cfg, userID); err != nil {
			utils.SendError(s, i, "Verification failed.")
			return
		}
		utils.SendSuccess(s, i, utils.EmojiTick+" You are verified.")
		return
	}

	c, err := b.Verify.StartCaptcha(i.GuildID, userID)
	if err != nil {
		utils.SendError(s, i, "Failed to generate a captcha. Try again.")
		return
	}

	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Solve the captcha, then press **Enter Code**.",
			Files: []*discordgo.File{{
				Name:        "captcha.png",
				ContentType: "image/png",
				Reader:      bytes.NewReader(c.Image),
			}},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Enter Code",
						Style:    discordgo.SuccessButton,
						CustomID: "verify_enter",
					},
				}},
			},
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}

func (b *Bot) handleVerifyEnter(s *discordgo.Session, i *discordgo.InteractionCreate) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: "verify_modal",
			Title:    "Verification",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:  "code",
						Label:     "Captcha code",
						Style:     discordgo.TextInputShort,
						Required:  true,
						MaxLength: 10,
					},
				}},
			},
		},
	})
}

func (b *Bot) handleVerifyModal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	cfg, err := b.Configs.GuildConfig(i.GuildID)
	if err != nil {
		utils.SendError(s, i, "Failed to load settings.")
		return
	}

	data := i.ModalSubmitData()
	var code string
	for _, row := range data.Components {
		ar, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, c := range ar.Components {
			if in, ok := c.(*discordgo.TextInput); ok && in.CustomID == "code" {
				code = in.Value
			}
		}
	}

	if err := b.Verify.SolveCaptcha(cfg, moderatorID(i), code); err != nil {
		utils.SendError(s, i, "Wrong code. Press **Verify** to get a new captcha.")
		return
	}
	utils.SendSuccess(s, i, utils.EmojiTick+" You are verified. Welcome!")
}

func (b *Bot) handleModStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	days := 30
	if o, ok := optionMap(i)["days"]; ok {
		days = int(o.IntValue())
		if days < 1 {
			days = 1
		}
	}
	since := models.Now() - int64(days)*24*60*60*1000

	stats, err := b.DB.GetModeratorStats(i.GuildID, since)
	if err != nil {
		utils.SendError(s, i, "Failed to load moderator stats.")
		return
	}
	if len(stats) == 0 {
		utils.SendSuccess(s, i, fmt.Sprintf("No moderation actions in the last %d days.", days))
		return
	}

	var sb strings.Builder
	for idx, st := range stats {
		if idx >= 10 {
			break
		}
		actions := make([]string, 0, len(st.ByAction))
		for a, n := range st.ByAction {
			actions = append(actions, fmt.Sprintf("%s: %d", a, n))
		}
		sort.Strings(actions)
		sb.WriteString(fmt.Sprintf("%d. <@%s> - %d actions (%s)\n",
			idx+1, st.ModeratorID, st.Total, strings.Join(actions, ", ")))
	}
	utils.SendEmbed(s, i, &discordgo.MessageEmbed{
		Title:       utils.EmojiShield + " Moderator Stats",
		Description: sb.String(),
		Color:       utils.ColorDark,
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Last %d days", days)},
	})
}

func (b *Bot) handleTopWarns(s *discordgo.Session, i *discordgo.InteractionCreate) {
	users, counts, err := b.Redis.TopWarned(i.GuildID, 10)
	if err != nil {
		utils.SendError(s, i, "Failed to load the warning leaderboard.")
		return
	}
	if len(users) == 0 {
		utils.SendSuccess(s, i, "Nobody has been warned. A model community.")
		return
	}

	var sb strings.Builder
	for idx, u := range users {
		sb.WriteString(fmt.Sprintf("%d. <@%s> - %d warnings\n", idx+1, u, counts[idx]))
	}
	utils.SendEmbed(s, i, &discordgo.MessageEmbed{
		Title:       utils.EmojiWarn + " Most Warned Members",
		Description: sb.String(),
		Color:       utils.ColorDark,
	})
}

func (b *Bot) handleHelp(s *discordgo.Session, i *discordgo.InteractionCreate) {
	utils.SendEmbed(s, i, &discordgo.MessageEmbed{
		Title: utils.EmojiShield + " Commands",
		Color: utils.ColorDark,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "Moderation",
				Value: "`/warn` `/warnings` `/clearwarns` `/mute` `/unmute` `/kick` " +
					"`/ban` `/tempban` `/softban` `/unban` `/clear` `/lockdown`",
			},
			{
				Name: "Configuration",
				Value: "`/automod` `/antiraid` `/warnsystem` `/mutesetup` `/setlogchannel` " +
					"`/welcome` `/autorole` `/verifysetup` `/ticketsetup` `/raidmode` `/backup`",
			},
			{
				Name:  "Tickets & Info",
				Value: "`/ticket` `/modstats` `/topwarns` `/ping` `/stats`",
			},
		},
	})
}

func (b *Bot) handlePing(s *discordgo.Session, i *discordgo.InteractionCreate) {
	dbState := "ok"
	if err := b.DB.CachedPing(); err != nil {
		dbState = "down"
	}
	redisState := "ok"
	if err := b.Redis.Ping(); err != nil {
		redisState = "down"
	}

	utils.SendEmbed(s, i, &discordgo.MessageEmbed{
		Title: "🏓 Pong",
		Color: utils.ColorDark,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Gateway", Value: fmt.Sprintf("%dms", s.HeartbeatLatency().Milliseconds()), Inline: true},
			{Name: "Postgres", Value: dbState, Inline: true},
			{Name: "Redis", Value: redisState, Inline: true},
		},
	})
}

func (b *Bot) handleStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	uptime := time.Since(b.StartTime).Round(time.Second)
	m := b.Configs.GetMetrics()

	utils.SendEmbed(s, i, &discordgo.MessageEmbed{
		Title: "📊 Bot Stats",
		Color: utils.ColorDark,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Uptime", Value: uptime.String(), Inline: true},
			{Name: "Config Cache L1", Value: fmt.Sprintf("%.1f%% hit", m.L1HitRate*100), Inline: true},
			{Name: "Config Cache L2", Value: fmt.Sprintf("%.1f%% hit", m.L2HitRate*100), Inline: true},
		},
	})
}
