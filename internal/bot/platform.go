package bot

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// sessionPlatform adapts the discordgo REST surface to the narrow set of
// calls the enforcement core makes. It also carries embeds for the mod
// log, so one adapter serves both seams.
type sessionPlatform struct {
	s *discordgo.Session
}

func newSessionPlatform(s *discordgo.Session) *sessionPlatform {
	return &sessionPlatform{s: s}
}

func (p *sessionPlatform) DeleteMessage(channelID, messageID string) error {
	return p.s.ChannelMessageDelete(channelID, messageID)
}

func (p *sessionPlatform) TimeoutMember(guildID, userID string, until *time.Time) error {
	return p.s.GuildMemberTimeout(guildID, userID, until)
}

func (p *sessionPlatform) AddRole(guildID, userID, roleID string) error {
	return p.s.GuildMemberRoleAdd(guildID, userID, roleID)
}

func (p *sessionPlatform) RemoveRole(guildID, userID, roleID string) error {
	return p.s.GuildMemberRoleRemove(guildID, userID, roleID)
}

func (p *sessionPlatform) KickMember(guildID, userID, reason string) error {
	return p.s.GuildMemberDeleteWithReason(guildID, userID, reason)
}

func (p *sessionPlatform) BanMember(guildID, userID, reason string, deleteDays int) error {
	return p.s.GuildBanCreateWithReason(guildID, userID, reason, deleteDays)
}

func (p *sessionPlatform) UnbanMember(guildID, userID string) error {
	return p.s.GuildBanDelete(guildID, userID)
}

func (p *sessionPlatform) GuildExists(guildID string) bool {
	_, err := p.s.Guild(guildID)
	return err == nil
}

func (p *sessionPlatform) MemberExists(guildID, userID string) bool {
	_, err := p.s.GuildMember(guildID, userID)
	return err == nil
}

func (p *sessionPlatform) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	_, err := p.s.ChannelMessageSendEmbed(channelID, embed)
	return err
}
