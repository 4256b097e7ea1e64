// Package expiry runs the background sweep that lifts timed sanctions
// (mutes and tempbans) and temporary roles once their end time passes.
package expiry

import (
	"sync"
	"time"

	"discord-moderation-bot/internal/metrics"
	"discord-moderation-bot/internal/models"
	"discord-moderation-bot/internal/moderation"
	"discord-moderation-bot/internal/moderation/punish"

	"go.uber.org/zap"
)

// DefaultInterval is the sweep cadence when none is configured.
const DefaultInterval = 30 * time.Second

type tempRole struct {
	guildID string
	userID  string
	roleID  string
	endAt   int64
}

// Scheduler polls the sanction store and reverses whatever has expired.
// Each record is handled in isolation: one bad record never blocks the
// rest of the sweep.
type Scheduler struct {
	store    moderation.MuteStore
	platform moderation.Platform
	executor *punish.Executor
	audit    moderation.AuditLogger
	log      *zap.Logger
	interval time.Duration

	mu        sync.Mutex
	tempRoles []tempRole

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func NewScheduler(store moderation.MuteStore, platform moderation.Platform, executor *punish.Executor, audit moderation.AuditLogger, log *zap.Logger, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		store:    store,
		platform: platform,
		executor: executor,
		audit:    audit,
		log:      log,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop. One sweep runs immediately so sanctions
// that expired while the process was down are lifted on boot.
func (s *Scheduler) Start() {
	go func() {
		defer close(s.done)
		s.Sweep()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop halts the loop and waits for an in-flight sweep to finish.
func (s *Scheduler) Stop() {
	s.once.Do(func() { close(s.stop) })
	<-s.done
}

// Sweep runs one pass over expired sanctions and temp roles.
func (s *Scheduler) Sweep() {
	metrics.ExpirySweeps.Inc()
	now := models.Now()

	expired, err := s.store.FindActiveExpired(now)
	if err != nil {
		s.log.Error("expired sanction lookup failed", zap.Error(err))
	} else {
		for _, m := range expired {
			s.lift(m)
		}
	}

	s.sweepTempRoles(now)
}

// lift reverses one sanction. Records whose guild or member is gone are
// left active and retried on the next sweep, matching how a rejoining
// member should still come back muted.
func (s *Scheduler) lift(m *models.Mute) {
	if !s.platform.GuildExists(m.GuildID) {
		s.log.Debug("skipping sanction in missing guild",
			zap.Int64("id", m.ID), zap.String("guild", m.GuildID))
		return
	}
	if m.Kind == models.SanctionMute && !s.platform.MemberExists(m.GuildID, m.UserID) {
		s.log.Debug("skipping sanction for missing member",
			zap.Int64("id", m.ID), zap.String("user", m.UserID))
		return
	}

	if err := s.executor.Revoke(m.GuildID, m.UserID, m.Kind); err != nil {
		s.log.Warn("sanction reversal failed",
			zap.Int64("id", m.ID),
			zap.String("guild", m.GuildID),
			zap.String("user", m.UserID),
			zap.String("kind", m.Kind),
			zap.Error(err))
		return
	}

	flipped, err := s.store.Deactivate(m.ID)
	if err != nil {
		s.log.Error("sanction deactivation failed",
			zap.Int64("id", m.ID), zap.Error(err))
		return
	}
	if !flipped {
		// Someone else (a manual unmute, an overlapping sweep) already
		// closed this record and owns the audit entry.
		return
	}

	metrics.SanctionsReversed.WithLabelValues(m.Kind).Inc()
	action := "Automatic Unmute"
	if m.Kind == models.SanctionBan {
		action = "Automatic Unban"
	}
	s.audit.LogAction(m.GuildID, moderation.AuditEntry{
		Action:      action,
		ModeratorID: moderation.SystemModerator,
		TargetID:    m.UserID,
		Reason:      "time expired",
		Color:       0x00FF00,
	})
}

// AddTempRole schedules a role for removal after the given duration.
// Temp roles are process-local: a restart drops pending removals.
func (s *Scheduler) AddTempRole(guildID, userID, roleID string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tempRoles = append(s.tempRoles, tempRole{
		guildID: guildID,
		userID:  userID,
		roleID:  roleID,
		endAt:   models.Now() + d.Milliseconds(),
	})
}

func (s *Scheduler) sweepTempRoles(now int64) {
	s.mu.Lock()
	var due []tempRole
	kept := s.tempRoles[:0]
	for _, tr := range s.tempRoles {
		if tr.endAt <= now {
			due = append(due, tr)
		} else {
			kept = append(kept, tr)
		}
	}
	s.tempRoles = kept
	s.mu.Unlock()

	for _, tr := range due {
		if !s.platform.GuildExists(tr.guildID) || !s.platform.MemberExists(tr.guildID, tr.userID) {
			continue
		}
		if err := s.platform.RemoveRole(tr.guildID, tr.userID, tr.roleID); err != nil {
			s.log.Warn("temp role removal failed",
				zap.String("guild", tr.guildID),
				zap.String("user", tr.userID),
				zap.String("role", tr.roleID),
				zap.Error(err))
		}
	}
}
