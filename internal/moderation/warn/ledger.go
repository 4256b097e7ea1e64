// Package warn keeps the per-member warning ledger and walks the guild's
// escalation ladder when thresholds are reached.
package warn

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"discord-moderation-bot/internal/metrics"
	"discord-moderation-bot/internal/models"
	"discord-moderation-bot/internal/moderation"
	"discord-moderation-bot/internal/moderation/punish"

	"go.uber.org/zap"
)

// ErrDisabled is returned when the guild has the warning system off.
var ErrDisabled = errors.New("warning system is disabled for this guild")

// Result reports the outcome of an issued warning.
type Result struct {
	WarningID int64
	// WarnCount is the member's cumulative count after this warning,
	// post-decay.
	WarnCount int
	// Escalation is the ladder rung this warning triggered, nil when
	// the count sits between rungs.
	Escalation *models.WarnAction
}

// Ledger issues warnings, applies decay and triggers escalations.
type Ledger struct {
	configs  moderation.ConfigSource
	store    moderation.WarnStore
	executor *punish.Executor
	audit    moderation.AuditLogger
	log      *zap.Logger

	// mu serializes issuance per (guild, user) so two concurrent
	// warnings cannot both observe the pre-escalation count.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLedger(configs moderation.ConfigSource, store moderation.WarnStore, executor *punish.Executor, audit moderation.AuditLogger, log *zap.Logger) *Ledger {
	return &Ledger{
		configs:  configs,
		store:    store,
		executor: executor,
		audit:    audit,
		log:      log,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (l *Ledger) userLock(guildID, userID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := guildID + ":" + userID
	lock, ok := l.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[key] = lock
	}
	return lock
}

// Warn records a warning against the member, decays stale warnings
// first, and fires the escalation ladder when the new count lands on a
// rung.
func (l *Ledger) Warn(guildID, userID, moderatorID, reason string) (*Result, error) {
	cfg, err := l.configs.GuildConfig(guildID)
	if err != nil {
		return nil, fmt.Errorf("load guild config: %w", err)
	}
	ws := &cfg.WarnSystem
	if !ws.Enabled {
		return nil, ErrDisabled
	}

	lock := l.userLock(guildID, userID)
	lock.Lock()
	defer lock.Unlock()

	l.decay(guildID, userID, ws)

	w := &models.Warning{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Reason:      reason,
		Timestamp:   models.Now(),
	}
	id, err := l.store.InsertWarning(w)
	if err != nil {
		return nil, fmt.Errorf("insert warning: %w", err)
	}
	metrics.WarningsIssued.Inc()

	count, err := l.store.CountWarnings(guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("count warnings: %w", err)
	}

	l.audit.LogAction(guildID, moderation.AuditEntry{
		Action:      "Warning",
		ModeratorID: moderatorID,
		TargetID:    userID,
		Reason:      reason,
		Color:       0xFFA500,
	})

	res := &Result{WarningID: id, WarnCount: count}
	if action := ws.EscalationFor(count); action != nil {
		res.Escalation = action
		l.escalate(guildID, userID, count, action)
	}
	return res, nil
}

// decay drops warnings past the guild's decay horizon. Runs only on
// issuance so a read never mutates the ledger. Failures are logged and
// the warning proceeds on the undecayed count.
func (l *Ledger) decay(guildID, userID string, ws *models.WarnSystemConfig) {
	if !ws.AutoDecay || ws.DecayDays <= 0 {
		return
	}
	cutoff := models.Now() - int64(ws.DecayDays)*24*time.Hour.Milliseconds()
	n, err := l.store.DeleteWarningsBefore(guildID, userID, cutoff)
	if err != nil {
		l.log.Warn("warning decay failed",
			zap.String("guild", guildID),
			zap.String("user", userID),
			zap.Error(err))
		return
	}
	if n > 0 {
		l.log.Debug("warnings decayed",
			zap.String("guild", guildID),
			zap.String("user", userID),
			zap.Int64("count", n))
	}
}

func (l *Ledger) escalate(guildID, userID string, count int, action *models.WarnAction) {
	reason := fmt.Sprintf("Automatic action after %d warnings", count)
	p := models.Punishment{
		Kind:     models.ParsePunishmentKind(action.Action),
		Duration: action.Duration,
	}
	if err := l.executor.Apply(guildID, userID, moderation.SystemModerator, reason, p); err != nil {
		l.log.Warn("warning escalation failed",
			zap.String("guild", guildID),
			zap.String("user", userID),
			zap.String("action", action.Action),
			zap.Error(err))
	}
}

// Warnings lists the member's warnings newest-first. No decay: reads
// reflect the ledger as-is.
func (l *Ledger) Warnings(guildID, userID string) ([]*models.Warning, error) {
	return l.store.ListWarnings(guildID, userID)
}

// Count returns the member's current warning total.
func (l *Ledger) Count(guildID, userID string) (int, error) {
	return l.store.CountWarnings(guildID, userID)
}

// Clear wipes the member's warnings and logs the reset.
func (l *Ledger) Clear(guildID, userID, moderatorID string) (int64, error) {
	lock := l.userLock(guildID, userID)
	lock.Lock()
	defer lock.Unlock()

	// A cutoff beyond any stored timestamp removes everything.
	n, err := l.store.DeleteWarningsBefore(guildID, userID, models.Now()+1)
	if err != nil {
		return 0, fmt.Errorf("clear warnings: %w", err)
	}
	if n > 0 {
		l.audit.LogAction(guildID, moderation.AuditEntry{
			Action:      "Warnings Cleared",
			ModeratorID: moderatorID,
			TargetID:    userID,
			Reason:      fmt.Sprintf("%d warnings removed", n),
			Color:       0x00FF00,
		})
	}
	return n, nil
}
