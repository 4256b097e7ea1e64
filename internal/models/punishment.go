package models

import "time"

// PunishmentKind is the closed set of sanctions the executor knows how to
// apply. Dispatch happens exactly once, in the executor.
type PunishmentKind int

const (
	PunishWarnLog PunishmentKind = iota // audit entry only, no platform action
	PunishMute
	PunishKick
	PunishBan
	PunishRoleRemove // anti-raid "verify": strip the verification role
)

// Punishment pairs a kind with its optional duration. Duration is only
// meaningful for PunishMute and timed bans.
type Punishment struct {
	Kind     PunishmentKind
	Duration time.Duration
}

func (k PunishmentKind) String() string {
	switch k {
	case PunishWarnLog:
		return "warn"
	case PunishMute:
		return "mute"
	case PunishKick:
		return "kick"
	case PunishBan:
		return "ban"
	case PunishRoleRemove:
		return "role-remove"
	default:
		return "unknown"
	}
}

// ParsePunishmentKind maps a config string to its kind. Unknown strings
// fall back to PunishWarnLog so a bad config row degrades to logging.
func ParsePunishmentKind(s string) PunishmentKind {
	switch s {
	case "mute", "timeout":
		return PunishMute
	case "kick":
		return PunishKick
	case "ban":
		return PunishBan
	case "verify", "role-remove":
		return PunishRoleRemove
	default:
		return PunishWarnLog
	}
}
