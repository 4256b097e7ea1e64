package commands

import (
	"github.com/bwmarrin/discordgo"
)

var Ticket = &discordgo.ApplicationCommand{
	Name:        "ticket",
	Description: "Open, claim or close a support ticket",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "open",
			Description: "Open a support ticket",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "claim",
			Description: "Claim this ticket (staff)",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "close",
			Description: "Close this ticket",
		},
	},
}

var ModStats = &discordgo.ApplicationCommand{
	Name:                     "modstats",
	Description:              "Show per-moderator action counts",
	DefaultMemberPermissions: permPtr(discordgo.PermissionModerateMembers),
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "days",
			Description: "How many days back to count (default 30)",
			Required:    false,
		},
	},
}

var TopWarns = &discordgo.ApplicationCommand{
	Name:                     "topwarns",
	Description:              "Show the most-warned members",
	DefaultMemberPermissions: permPtr(discordgo.PermissionModerateMembers),
}

var Help = &discordgo.ApplicationCommand{
	Name:        "help",
	Description: "Show all commands",
}

var Ping = &discordgo.ApplicationCommand{
	Name:        "ping",
	Description: "Check bot latency",
}

var Stats = &discordgo.ApplicationCommand{
	Name:        "stats",
	Description: "Show bot statistics",
}
