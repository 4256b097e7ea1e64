// Package modlog delivers moderation audit entries to each guild's
// configured log channel. Entries are queued and flushed in batches so
// a burst of enforcement actions costs one Discord message, not one
// per action.
package modlog

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"discord-moderation-bot/internal/moderation"
	"discord-moderation-bot/internal/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const (
	queueSize     = 5000
	batchSize     = 10
	batchInterval = 2 * time.Second
	embedMaxRows  = 25
)

// EmbedSender is the slice of the Discord session the logger needs.
type EmbedSender interface {
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) error
}

// ActionRecorder persists entries for later stats aggregation.
type ActionRecorder interface {
	RecordModAction(guildID, moderatorID, targetID, action, reason string, timestamp int64) error
}

type queued struct {
	guildID string
	entry   moderation.AuditEntry
	at      time.Time
}

// Logger implements moderation.AuditLogger. LogAction never blocks:
// when the queue is full the entry is dropped with a log line rather
// than stalling a detector.
type Logger struct {
	sender   EmbedSender
	configs  moderation.ConfigSource
	recorder ActionRecorder
	log      *zap.Logger

	queue chan queued
	stop  chan struct{}
	done  chan struct{}
	once  sync.Once
}

func New(sender EmbedSender, configs moderation.ConfigSource, log *zap.Logger) *Logger {
	return &Logger{
		sender:  sender,
		configs: configs,
		log:     log,
		queue:   make(chan queued, queueSize),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// SetRecorder enables action-history persistence. Recording happens on
// the consumer goroutine so detectors stay non-blocking.
func (l *Logger) SetRecorder(r ActionRecorder) {
	l.recorder = r
}

// LogAction queues one audit entry for delivery.
func (l *Logger) LogAction(guildID string, entry moderation.AuditEntry) {
	l.log.Info("mod action",
		zap.String("guild", guildID),
		zap.String("action", entry.Action),
		zap.String("moderator", entry.ModeratorID),
		zap.String("target", entry.TargetID),
		zap.String("reason", entry.Reason))

	select {
	case l.queue <- queued{guildID: guildID, entry: entry, at: time.Now()}:
	default:
		l.log.Warn("mod log queue full, dropping entry",
			zap.String("guild", guildID),
			zap.String("action", entry.Action))
	}
}

// Start launches the batching consumer.
func (l *Logger) Start() {
	go func() {
		defer close(l.done)
		batch := make([]queued, 0, batchSize)
		ticker := time.NewTicker(batchInterval)
		defer ticker.Stop()

		flush := func() {
			if len(batch) == 0 {
				return
			}
			l.deliver(batch)
			batch = batch[:0]
		}

		for {
			select {
			case q := <-l.queue:
				batch = append(batch, q)
				if len(batch) >= batchSize {
					flush()
				}
			case <-ticker.C:
				flush()
			case <-l.stop:
				// Drain whatever is already queued before exiting.
				for {
					select {
					case q := <-l.queue:
						batch = append(batch, q)
					default:
						flush()
						return
					}
				}
			}
		}
	}()
}

// Stop flushes pending entries and halts the consumer.
func (l *Logger) Stop() {
	l.once.Do(func() { close(l.stop) })
	<-l.done
}

// deliver groups a batch by guild and sends one embed per guild whose
// mod log is enabled and has a channel configured.
func (l *Logger) deliver(batch []queued) {
	if l.recorder != nil {
		for _, q := range batch {
			err := l.recorder.RecordModAction(q.guildID, q.entry.ModeratorID,
				q.entry.TargetID, q.entry.Action, q.entry.Reason, q.at.UnixMilli())
			if err != nil {
				l.log.Warn("mod action record failed",
					zap.String("guild", q.guildID), zap.Error(err))
			}
		}
	}

	byGuild := make(map[string][]queued)
	for _, q := range batch {
		byGuild[q.guildID] = append(byGuild[q.guildID], q)
	}

	for guildID, entries := range byGuild {
		cfg, err := l.configs.GuildConfig(guildID)
		if err != nil {
			l.log.Warn("mod log config unavailable",
				zap.String("guild", guildID), zap.Error(err))
			continue
		}
		if !cfg.ModLogEnabled || cfg.LogChannelID == "" {
			continue
		}
		if err := l.sender.SendEmbed(cfg.LogChannelID, buildEmbed(entries)); err != nil {
			l.log.Warn("mod log delivery failed",
				zap.String("guild", guildID),
				zap.String("channel", cfg.LogChannelID),
				zap.Error(err))
		}
	}
}

func buildEmbed(entries []queued) *discordgo.MessageEmbed {
	var description strings.Builder
	for i, q := range entries {
		if i >= embedMaxRows {
			fmt.Fprintf(&description, "\n*...and %d more entries*", len(entries)-embedMaxRows)
			break
		}
		e := q.entry
		fmt.Fprintf(&description, "**%s** | <@%s>", e.Action, e.TargetID)
		if e.ModeratorID != moderation.SystemModerator {
			fmt.Fprintf(&description, " by <@%s>", e.ModeratorID)
		}
		if e.Reason != "" {
			fmt.Fprintf(&description, " | %s", e.Reason)
		}
		if e.Duration > 0 {
			fmt.Fprintf(&description, " `[%s]`", utils.FormatDuration(e.Duration))
		}
		description.WriteString("\n")
	}

	return &discordgo.MessageEmbed{
		Title:       "Moderation Log",
		Description: description.String(),
		Color:       entries[0].entry.Color,
		Timestamp:   time.Now().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d actions", len(entries)),
		},
	}
}
