package utils

import (
	"fmt"
	"strings"
	"time"

	"discord-moderation-bot/internal/models"

	"github.com/bwmarrin/discordgo"
)

// ModActionEmbed is the standard embed for a manual moderation action reply.
func ModActionEmbed(title string, target *discordgo.User, moderator *discordgo.User, reason string, fields ...*discordgo.MessageEmbedField) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: title,
		Color: ColorOrange,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("%s (%s)", target.Username, target.ID), Inline: true},
			{Name: "Moderator", Value: fmt.Sprintf("<@%s>", moderator.ID), Inline: true},
			{Name: "Reason", Value: reason},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	embed.Fields = append(embed.Fields, fields...)
	return embed
}

// WarningListEmbed renders a user's warnings newest-first.
func WarningListEmbed(target *discordgo.User, warnings []*models.Warning) *discordgo.MessageEmbed {
	var sb strings.Builder
	if len(warnings) == 0 {
		sb.WriteString("No warnings on record.")
	}
	for i, w := range warnings {
		ts := w.Timestamp / 1000
		sb.WriteString(fmt.Sprintf("%d. %s\n└ By: <@%s> | At: <t:%d:f>\n\n", i+1, w.Reason, w.ModeratorID, ts))
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s Warnings for %s", EmojiWarn, target.Username),
		Description: sb.String(),
		Color:       ColorOrange,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d active warnings", len(warnings)),
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// WelcomeEmbed renders the configured welcome message with {user} and
// {server} placeholders substituted.
func WelcomeEmbed(template, serverName string, user *discordgo.User) *discordgo.MessageEmbed {
	msg := template
	if msg == "" {
		msg = "Welcome {user} to **{server}**!"
	}
	msg = strings.ReplaceAll(msg, "{user}", fmt.Sprintf("<@%s>", user.ID))
	msg = strings.ReplaceAll(msg, "{server}", serverName)

	return &discordgo.MessageEmbed{
		Description: msg,
		Color:       ColorGreen,
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: user.AvatarURL("128"),
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
