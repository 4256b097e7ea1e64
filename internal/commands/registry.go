package commands

import (
	"github.com/bwmarrin/discordgo"
)

// Helper for permission pointers
func permPtr(v int64) *int64 {
	return &v
}

var Commands = []*discordgo.ApplicationCommand{
	// Moderation
	Warn,
	Warnings,
	ClearWarns,
	Mute,
	Unmute,
	Kick,
	Ban,
	TempBan,
	SoftBan,
	Unban,
	MassBan,
	Clear,
	Lockdown,
	// Configuration
	Automod,
	AntiRaid,
	WarnSystem,
	MuteSetup,
	SetLogChannel,
	Welcome,
	AutoRole,
	VerifySetup,
	TicketSetup,
	RaidMode,
	Backup,
	// Tickets
	Ticket,
	// Info
	ModStats,
	TopWarns,
	Help,
	Ping,
	Stats,
}
