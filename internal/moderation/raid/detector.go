// Package raid watches guild join velocity and flags coordinated join
// bursts. Joins land in a sliding window per guild; when the burst
// reaches the configured threshold every member of the cohort is
// actioned, not just the one that tipped it over.
package raid

import (
	"fmt"
	"time"

	"discord-moderation-bot/internal/metrics"
	"discord-moderation-bot/internal/models"
	"discord-moderation-bot/internal/moderation"
	"discord-moderation-bot/internal/moderation/punish"
	"discord-moderation-bot/internal/moderation/window"

	"go.uber.org/zap"
)

// Join is one observed guild join.
type Join struct {
	GuildID        string
	UserID         string
	AccountCreated time.Time
}

// Detector evaluates each join against the guild's anti-raid settings.
type Detector struct {
	configs  moderation.ConfigSource
	executor *punish.Executor
	windows  *window.Tracker
	log      *zap.Logger

	// now is swappable for deterministic tests.
	now func() time.Time
}

func NewDetector(configs moderation.ConfigSource, executor *punish.Executor, windows *window.Tracker, log *zap.Logger) *Detector {
	return &Detector{
		configs:  configs,
		executor: executor,
		windows:  windows,
		log:      log,
		now:      time.Now,
	}
}

// RegisterJoin records a join and reacts when the guild's thresholds
// are crossed. Returns true when the join tripped raid handling so
// callers can skip welcome flows for actioned members.
func (d *Detector) RegisterJoin(j Join) bool {
	cfg, err := d.configs.GuildConfig(j.GuildID)
	if err != nil {
		d.log.Warn("antiraid config unavailable",
			zap.String("guild", j.GuildID), zap.Error(err))
		return false
	}
	ar := &cfg.Antiraid
	if !ar.Enabled {
		return false
	}

	if d.checkAccountAge(j, ar) {
		return true
	}

	if ar.JoinThreshold <= 0 || ar.TimeWindow <= 0 {
		return false
	}
	win := time.Duration(ar.TimeWindow) * time.Second
	cohort := d.windows.Observe(j.GuildID, j.UserID, win)
	if len(cohort) < ar.JoinThreshold {
		return false
	}

	// Raid. Action every member seen inside the window, then start a
	// fresh window so the same cohort is not re-actioned.
	d.windows.Reset(j.GuildID)
	metrics.RaidsDetected.Inc()
	d.log.Warn("join burst detected",
		zap.String("guild", j.GuildID),
		zap.Int("joins", len(cohort)),
		zap.Duration("window", win))

	reason := fmt.Sprintf("Anti-raid: %d joins within %s", len(cohort), win)
	p := models.Punishment{Kind: models.ParsePunishmentKind(ar.Action)}
	for _, member := range cohort {
		if err := d.executor.Apply(j.GuildID, member.ID, moderation.SystemModerator, reason, p); err != nil {
			d.log.Warn("raid action failed",
				zap.String("guild", j.GuildID),
				zap.String("user", member.ID),
				zap.Error(err))
		}
	}
	return true
}

// checkAccountAge actions a single member whose account is younger
// than the configured minimum, independently of join velocity.
func (d *Detector) checkAccountAge(j Join, ar *models.AntiraidConfig) bool {
	if ar.MinAccountAge <= 0 || j.AccountCreated.IsZero() {
		return false
	}
	age := d.now().Sub(j.AccountCreated)
	if age >= ar.MinAccountAge {
		return false
	}

	reason := fmt.Sprintf("Anti-raid: account age %s below minimum %s",
		age.Round(time.Minute), ar.MinAccountAge)
	p := models.Punishment{Kind: models.ParsePunishmentKind(ar.Action)}
	if err := d.executor.Apply(j.GuildID, j.UserID, moderation.SystemModerator, reason, p); err != nil {
		d.log.Warn("account-age action failed",
			zap.String("guild", j.GuildID),
			zap.String("user", j.UserID),
			zap.Error(err))
	}
	return true
}
