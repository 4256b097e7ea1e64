package commands

import (
	"github.com/bwmarrin/discordgo"
)

var Automod = &discordgo.ApplicationCommand{
	Name:                     "automod",
	Description:              "Configure the automatic content filter",
	DefaultMemberPermissions: permPtr(discordgo.PermissionAdministrator),
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "enable",
			Description: "Enable automod",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "disable",
			Description: "Disable automod",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "status",
			Description: "Show the current automod settings",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "addword",
			Description: "Add a banned word",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "word",
					Description: "Word to ban",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "removeword",
			Description: "Remove a banned word",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "word",
					Description: "Word to unban",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "spam",
			Description: "Set the spam threshold (messages per 5s, 0 disables)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "threshold",
					Description: "Messages allowed in the window",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "caps",
			Description: "Set the caps percentage threshold (0 disables)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "percent",
					Description: "Maximum percent of uppercase letters",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "links",
			Description: "Configure the link filter",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "mode",
					Description: "Filter mode",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "off", Value: "off"},
						{Name: "allowlist", Value: "allow"},
						{Name: "denylist", Value: "deny"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "domains",
					Description: "Comma-separated domain list",
					Required:    false,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "mentions",
			Description: "Set the max mentions per message (0 disables)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "max",
					Description: "Maximum mentions",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "emojis",
			Description: "Set the max emojis per message (0 disables)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "max",
					Description: "Maximum emojis",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "punishment",
			Description: "Set the punishment for violations",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "type",
					Description: "What happens on a violation",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "warn", Value: "warn"},
						{Name: "mute", Value: "mute"},
						{Name: "kick", Value: "kick"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "mute_duration",
					Description: "Mute length (e.g. 10m) when type is mute",
					Required:    false,
				},
			},
		},
	},
}

var AntiRaid = &discordgo.ApplicationCommand{
	Name:                     "antiraid",
	Description:              "Configure the join-rate raid detector",
	DefaultMemberPermissions: permPtr(discordgo.PermissionAdministrator),
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "enable",
			Description: "Enable anti-raid",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "disable",
			Description: "Disable anti-raid",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "status",
			Description: "Show the current anti-raid settings",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "threshold",
			Description: "Set the join threshold and window",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "joins",
					Description: "Joins that trip the detector",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "seconds",
					Description: "Window length in seconds",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "action",
			Description: "Set what happens to raiders",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "action",
					Description: "Action applied to the joining cohort",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "kick", Value: "kick"},
						{Name: "ban", Value: "ban"},
						{Name: "verify", Value: "verify"},
					},
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "minage",
			Description: "Set the minimum account age (0d disables)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "age",
					Description: "Minimum age (e.g. 7d)",
					Required:    true,
				},
			},
		},
	},
}

var WarnSystem = &discordgo.ApplicationCommand{
	Name:                     "warnsystem",
	Description:              "Configure warning escalation and decay",
	DefaultMemberPermissions: permPtr(discordgo.PermissionAdministrator),
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "enable",
			Description: "Enable the warning system",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "disable",
			Description: "Disable the warning system",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "ladder",
			Description: "Show the escalation ladder",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "setaction",
			Description: "Set the action at a warning count",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "warnings",
					Description: "Warning count that triggers the action",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "action",
					Description: "Action to apply",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "mute", Value: "mute"},
						{Name: "kick", Value: "kick"},
						{Name: "ban", Value: "ban"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "duration",
					Description: "Mute length (e.g. 1h) when action is mute",
					Required:    false,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "removeaction",
			Description: "Remove the action at a warning count",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "warnings",
					Description: "Warning count to remove",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "decay",
			Description: "Configure automatic warning decay",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "days",
					Description: "Warnings older than this decay (0 disables)",
					Required:    true,
				},
			},
		},
	},
}

var MuteSetup = &discordgo.ApplicationCommand{
	Name:                     "mutesetup",
	Description:              "Configure how mutes are applied",
	DefaultMemberPermissions: permPtr(discordgo.PermissionAdministrator),
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "method",
			Description: "Native timeout or a mute role",
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "timeout", Value: "timeout"},
				{Name: "role", Value: "role"},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionRole,
			Name:        "role",
			Description: "Mute role (required for the role method)",
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "default_duration",
			Description: "Default mute length (e.g. 1h)",
			Required:    false,
		},
	},
}

var SetLogChannel = &discordgo.ApplicationCommand{
	Name:                     "setlogchannel",
	Description:              "Set the moderation log channel",
	DefaultMemberPermissions: permPtr(discordgo.PermissionAdministrator),
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionChannel,
			Name:        "channel",
			Description: "Channel for moderation log embeds",
			ChannelTypes: []discordgo.ChannelType{
				discordgo.ChannelTypeGuildText,
			},
			Required: true,
		},
	},
}

var Welcome = &discordgo.ApplicationCommand{
	Name:                     "welcome",
	Description:              "Configure welcome messages",
	DefaultMemberPermissions: permPtr(discordgo.PermissionAdministrator),
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionChannel,
			Name:        "channel",
			Description: "Channel for welcome messages",
			ChannelTypes: []discordgo.ChannelType{
				discordgo.ChannelTypeGuildText,
			},
			Required: true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "message",
			Description: "Welcome text ({user} mentions the member)",
			Required:    false,
		},
	},
}

var AutoRole = &discordgo.ApplicationCommand{
	Name:                     "autorole",
	Description:              "Configure roles granted on join",
	DefaultMemberPermissions: permPtr(discordgo.PermissionAdministrator),
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "add",
			Description: "Add a join role",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Role to grant on join",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "remove",
			Description: "Remove a join role",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Role to stop granting",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "list",
			Description: "List the join roles",
		},
	},
}

var VerifySetup = &discordgo.ApplicationCommand{
	Name:                     "verifysetup",
	Description:              "Configure member verification",
	DefaultMemberPermissions: permPtr(discordgo.PermissionAdministrator),
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionChannel,
			Name:        "channel",
			Description: "Channel holding the verification prompt",
			ChannelTypes: []discordgo.ChannelType{
				discordgo.ChannelTypeGuildText,
			},
			Required: true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionRole,
			Name:        "role",
			Description: "Role granted on verification",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "mode",
			Description: "How members verify",
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "reaction", Value: "reaction"},
				{Name: "captcha", Value: "captcha"},
			},
		},
	},
}

var TicketSetup = &discordgo.ApplicationCommand{
	Name:                     "ticketsetup",
	Description:              "Configure the ticket system",
	DefaultMemberPermissions: permPtr(discordgo.PermissionAdministrator),
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionChannel,
			Name:        "category",
			Description: "Category ticket channels are created under",
			ChannelTypes: []discordgo.ChannelType{
				discordgo.ChannelTypeGuildCategory,
			},
			Required: true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionRole,
			Name:        "support_role",
			Description: "Role that can see tickets",
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "max_open",
			Description: "Max open tickets per member (default 1)",
			Required:    false,
		},
	},
}

var RaidMode = &discordgo.ApplicationCommand{
	Name:                     "raidmode",
	Description:              "Toggle emergency raid mode",
	DefaultMemberPermissions: permPtr(discordgo.PermissionAdministrator),
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "state",
			Description: "Enable or disable",
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "on", Value: "on"},
				{Name: "off", Value: "off"},
			},
		},
	},
}

var Backup = &discordgo.ApplicationCommand{
	Name:                     "backup",
	Description:              "Manage server structure backups",
	DefaultMemberPermissions: permPtr(discordgo.PermissionAdministrator),
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "create",
			Description: "Snapshot roles and channels",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "list",
			Description: "List backups for this server",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "restore",
			Description: "Restore a backup",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "name",
					Description: "Backup file name",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "delete",
			Description: "Delete a backup",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "name",
					Description: "Backup file name",
					Required:    true,
				},
			},
		},
	},
}
