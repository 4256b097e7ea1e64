// Package moderation defines the seams between the trust & safety
// enforcement core (automod scanner, raid detector, warning ledger,
// punishment executor, expiry scheduler) and its collaborators: the
// Discord REST surface, the settings store and the audit log.
//
// The sub-packages hold the engines themselves; everything here is an
// interface so each engine can be tested against in-memory fakes.
package moderation

import (
	"time"

	"discord-moderation-bot/internal/models"
)

// SystemModerator is the moderator ID recorded on audit entries produced
// by the detectors rather than a human-invoked command.
const SystemModerator = "system"

// Platform is the subset of chat-platform primitives the enforcement core
// needs. All calls are single-attempt: failures are returned as plain
// errors and the caller logs and continues, never retries.
type Platform interface {
	DeleteMessage(channelID, messageID string) error

	// TimeoutMember applies a communication restriction until the given
	// time. A nil until clears an existing timeout.
	TimeoutMember(guildID, userID string, until *time.Time) error

	AddRole(guildID, userID, roleID string) error
	RemoveRole(guildID, userID, roleID string) error
	KickMember(guildID, userID, reason string) error

	// BanMember bans with a message-deletion window in days.
	BanMember(guildID, userID, reason string, deleteDays int) error
	UnbanMember(guildID, userID string) error

	// GuildExists / MemberExists let the expiry scheduler skip records
	// whose guild or member disappeared between detection and reversal.
	GuildExists(guildID string) bool
	MemberExists(guildID, userID string) bool
}

// ConfigSource yields the per-guild settings document. A read failure is
// reported as an error; callers treat the feature as disabled for that
// invocation instead of failing the event.
type ConfigSource interface {
	GuildConfig(guildID string) (*models.GuildConfig, error)
}

// AuditEntry is one mod-log record. Color follows the embed convention
// of the log channel.
type AuditEntry struct {
	Action      string
	ModeratorID string
	TargetID    string
	Reason      string
	Duration    time.Duration
	Color       int
}

// AuditLogger records one entry per enforcement action. Implementations
// must be non-blocking and must never surface errors to detectors.
type AuditLogger interface {
	LogAction(guildID string, entry AuditEntry)
}

// WarnStore is the warning ledger's persistence surface.
type WarnStore interface {
	InsertWarning(w *models.Warning) (int64, error)
	CountWarnings(guildID, userID string) (int, error)

	// DeleteWarningsBefore removes warnings older than the cutoff
	// (Unix milliseconds) and reports how many were decayed.
	DeleteWarningsBefore(guildID, userID string, cutoff int64) (int64, error)

	// ListWarnings returns warnings newest-first.
	ListWarnings(guildID, userID string) ([]*models.Warning, error)
}

// MuteStore is the timed-sanction persistence surface. Records are never
// deleted; Deactivate flips the active flag exactly once.
type MuteStore interface {
	InsertMute(m *models.Mute) (int64, error)
	FindActiveExpired(now int64) ([]*models.Mute, error)

	// Deactivate returns true only for the call that actually flipped
	// the flag, so overlapping scheduler ticks and manual unmutes
	// produce a single audit entry.
	Deactivate(id int64) (bool, error)

	FindActiveByUser(guildID, userID, kind string) ([]*models.Mute, error)
}
