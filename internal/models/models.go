package models

import "time"

// GuildConfig is the per-guild settings document. One row per guild,
// upserted with defaults on first access.
type GuildConfig struct {
	GuildID       string `json:"guild_id"`
	LogChannelID  string `json:"log_channel_id"`
	ModLogEnabled bool   `json:"mod_log_enabled"`

	WelcomeChannelID string   `json:"welcome_channel_id"`
	WelcomeMessage   string   `json:"welcome_message"`
	AutoRoles        []string `json:"auto_roles"`

	VerifyChannelID string `json:"verify_channel_id"`
	VerifyRoleID    string `json:"verify_role_id"`
	VerifyMode      string `json:"verify_mode"` // "reaction" or "captcha"

	Automod    AutomodConfig    `json:"automod"`
	Antiraid   AntiraidConfig   `json:"antiraid"`
	WarnSystem WarnSystemConfig `json:"warn_system"`
	MuteSystem MuteSystemConfig `json:"mute_system"`
	Tickets    TicketConfig     `json:"tickets"`
	RaidMode   RaidModeState    `json:"raid_mode"`
}

// AutomodConfig controls the passive content scanner.
type AutomodConfig struct {
	Enabled        bool          `json:"enabled"`
	BannedWords    []string      `json:"banned_words"`
	SpamThreshold  int           `json:"spam_threshold"`
	CapsThreshold  int           `json:"caps_threshold"` // percent of uppercase letters
	LinkFilter     LinkFilter    `json:"link_filter"`
	MaxMentions    int           `json:"max_mentions"`
	MaxEmojis      int           `json:"max_emojis"`
	PunishmentType string        `json:"punishment_type"` // "warn", "mute" or "kick"
	MuteDuration   time.Duration `json:"mute_duration"`
}

// Link filter modes.
const (
	LinkModeAllow = "allow" // only listed domains pass
	LinkModeDeny  = "deny"  // listed domains are blocked
)

type LinkFilter struct {
	Enabled bool     `json:"enabled"`
	Mode    string   `json:"mode"`
	Domains []string `json:"domains"`
}

// AntiraidConfig controls the join-rate detector.
type AntiraidConfig struct {
	Enabled       bool          `json:"enabled"`
	JoinThreshold int           `json:"join_threshold"`
	TimeWindow    int           `json:"time_window"` // seconds
	Action        string        `json:"action"`      // "kick", "ban" or "verify"
	MinAccountAge time.Duration `json:"min_account_age"`
	LogEnabled    bool          `json:"log_enabled"`
}

// WarnAction is one rung of the escalation ladder: at Warnings cumulative
// warnings, apply Action. Unique per (guild, warnings).
type WarnAction struct {
	Warnings int           `json:"warnings"`
	Action   string        `json:"action"` // "mute", "kick" or "ban"
	Duration time.Duration `json:"duration"`
}

type WarnSystemConfig struct {
	Enabled   bool         `json:"enabled"`
	Actions   []WarnAction `json:"actions"` // sorted ascending by Warnings
	AutoDecay bool         `json:"auto_decay"`
	DecayDays int          `json:"decay_days"`
}

type MuteSystemConfig struct {
	Enabled         bool          `json:"enabled"`
	UseTimeout      bool          `json:"use_timeout"` // native timeout vs mute role
	TimeoutRoleID   string        `json:"timeout_role_id"`
	DefaultDuration time.Duration `json:"default_duration"`
}

type TicketConfig struct {
	Enabled       bool   `json:"enabled"`
	CategoryID    string `json:"category_id"`
	SupportRoleID string `json:"support_role_id"`
	MaxTickets    int    `json:"max_tickets"`
	Counter       int    `json:"counter"`
}

// RaidModeState is the transient raid-mode snapshot. OriginalVerification
// holds the guild's verification level before raid mode was enabled so it
// can be restored on disable.
type RaidModeState struct {
	Enabled              bool   `json:"enabled"`
	ActivatedAt          int64  `json:"activated_at"`
	ActivatedBy          string `json:"activated_by"`
	OriginalVerification int    `json:"original_verification"`
}

// Warning is one recorded warning. Deleted only by decay or admin action.
type Warning struct {
	ID          int64  `json:"id"`
	GuildID     string `json:"guild_id"`
	UserID      string `json:"user_id"`
	ModeratorID string `json:"moderator_id"`
	Reason      string `json:"reason"`
	Timestamp   int64  `json:"timestamp"` // Unix milliseconds
}

// Sanction kinds stored in the mutes table.
const (
	SanctionMute = "mute"
	SanctionBan  = "ban" // tempban, reversed by the expiry scheduler
)

// Mute is a timed sanction record. Active flips to false exactly once,
// by explicit unmute or by the expiry scheduler. Rows are never deleted.
type Mute struct {
	ID          int64  `json:"id"`
	GuildID     string `json:"guild_id"`
	UserID      string `json:"user_id"`
	ModeratorID string `json:"moderator_id"`
	Reason      string `json:"reason"`
	Kind        string `json:"kind"`
	Duration    int64  `json:"duration"` // milliseconds
	EndTime     int64  `json:"end_time"` // Unix milliseconds
	Active      bool   `json:"active"`
}

// Ticket statuses.
const (
	TicketOpen   = "open"
	TicketClosed = "closed"
)

type Ticket struct {
	ID           int64  `json:"id"`
	GuildID      string `json:"guild_id"`
	ChannelID    string `json:"channel_id"`
	UserID       string `json:"user_id"`
	TicketNumber int    `json:"ticket_number"`
	Status       string `json:"status"`
	ClaimedBy    string `json:"claimed_by"`
	CreatedAt    int64  `json:"created_at"`
	ClosedAt     int64  `json:"closed_at"`
	ClosedBy     string `json:"closed_by"`
}

// DefaultGuildConfig returns the settings document a fresh guild starts with.
func DefaultGuildConfig(guildID string) *GuildConfig {
	return &GuildConfig{
		GuildID:       guildID,
		ModLogEnabled: true,
		VerifyMode:    "reaction",
		Automod: AutomodConfig{
			Enabled:        true,
			SpamThreshold:  5,
			CapsThreshold:  70,
			MaxMentions:    5,
			MaxEmojis:      10,
			PunishmentType: "warn",
			MuteDuration:   10 * time.Minute,
			LinkFilter:     LinkFilter{Mode: LinkModeDeny},
		},
		Antiraid: AntiraidConfig{
			JoinThreshold: 5,
			TimeWindow:    10,
			Action:        "verify",
			MinAccountAge: 7 * 24 * time.Hour,
			LogEnabled:    true,
		},
		WarnSystem: WarnSystemConfig{
			Enabled:   true,
			AutoDecay: true,
			DecayDays: 30,
		},
		MuteSystem: MuteSystemConfig{
			Enabled:         true,
			UseTimeout:      true,
			DefaultDuration: time.Hour,
		},
		Tickets: TicketConfig{MaxTickets: 1},
	}
}

// EscalationFor picks the ladder rung with the largest threshold <= count.
// Returns nil when no rung qualifies (the warning is merely recorded).
func (w *WarnSystemConfig) EscalationFor(count int) *WarnAction {
	var best *WarnAction
	for i := range w.Actions {
		a := &w.Actions[i]
		if a.Warnings <= count && (best == nil || a.Warnings > best.Warnings) {
			best = a
		}
	}
	return best
}

// AddAction inserts a ladder rung, keeping Actions sorted ascending and
// unique by Warnings. Returns false if the threshold already exists.
func (w *WarnSystemConfig) AddAction(a WarnAction) bool {
	for _, existing := range w.Actions {
		if existing.Warnings == a.Warnings {
			return false
		}
	}
	w.Actions = append(w.Actions, a)
	for i := len(w.Actions) - 1; i > 0; i-- {
		if w.Actions[i].Warnings < w.Actions[i-1].Warnings {
			w.Actions[i], w.Actions[i-1] = w.Actions[i-1], w.Actions[i]
		}
	}
	return true
}

// RemoveAction deletes the rung at the given threshold.
func (w *WarnSystemConfig) RemoveAction(warnings int) bool {
	for i, a := range w.Actions {
		if a.Warnings == warnings {
			w.Actions = append(w.Actions[:i], w.Actions[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy. Cached configs are shared across handler
// and scanner goroutines; mutate a clone, never the shared object.
func (g *GuildConfig) Clone() *GuildConfig {
	c := *g
	c.AutoRoles = append([]string(nil), g.AutoRoles...)
	c.Automod.BannedWords = append([]string(nil), g.Automod.BannedWords...)
	c.Automod.LinkFilter.Domains = append([]string(nil), g.Automod.LinkFilter.Domains...)
	c.WarnSystem.Actions = append([]WarnAction(nil), g.WarnSystem.Actions...)
	return &c
}

// Helper to convert bool to int for storage
func BoolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Helper to convert int to bool for storage
func IntToBool(i int) bool {
	return i != 0
}

// Helper to get current time in milliseconds
func Now() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}
