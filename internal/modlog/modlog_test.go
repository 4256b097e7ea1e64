package modlog

import (
	"strings"
	"sync"
	"testing"
	"time"

	"discord-moderation-bot/internal/models"
	"discord-moderation-bot/internal/moderation"
	"discord-moderation-bot/internal/moderation/modtest"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

type fakeSender struct {
	mu     sync.Mutex
	embeds []*discordgo.MessageEmbed
	chans  []string
}

func (f *fakeSender) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chans = append(f.chans, channelID)
	f.embeds = append(f.embeds, embed)
	return nil
}

func logConfig() *models.GuildConfig {
	cfg := models.DefaultGuildConfig("g1")
	cfg.ModLogEnabled = true
	cfg.LogChannelID = "log-chan"
	return cfg
}

func TestLogAction_DeliveredToConfiguredChannel(t *testing.T) {
	sender := &fakeSender{}
	logger := New(sender, modtest.NewFakeConfigSource(logConfig()), zap.NewNop())
	logger.Start()

	logger.LogAction("g1", moderation.AuditEntry{
		Action:      "Warning",
		ModeratorID: "mod1",
		TargetID:    "u1",
		Reason:      "spamming",
		Color:       0xFFA500,
	})
	logger.Stop()

	if len(sender.embeds) != 1 {
		t.Fatalf("expected one embed, got %d", len(sender.embeds))
	}
	if sender.chans[0] != "log-chan" {
		t.Errorf("sent to %s, want log-chan", sender.chans[0])
	}
	desc := sender.embeds[0].Description
	if !strings.Contains(desc, "Warning") || !strings.Contains(desc, "u1") || !strings.Contains(desc, "spamming") {
		t.Errorf("embed missing entry details: %q", desc)
	}
}

func TestLogAction_BatchesIntoOneEmbed(t *testing.T) {
	sender := &fakeSender{}
	logger := New(sender, modtest.NewFakeConfigSource(logConfig()), zap.NewNop())

	for i := 0; i < 5; i++ {
		logger.LogAction("g1", moderation.AuditEntry{Action: "Kick", TargetID: "u1"})
	}
	logger.Start()
	logger.Stop()

	if len(sender.embeds) != 1 {
		t.Fatalf("5 queued entries should flush as one embed, got %d", len(sender.embeds))
	}
	if !strings.Contains(sender.embeds[0].Footer.Text, "5") {
		t.Errorf("footer should count 5 actions, got %q", sender.embeds[0].Footer.Text)
	}
}

func TestLogAction_DisabledModLogDropsSilently(t *testing.T) {
	cfg := logConfig()
	cfg.ModLogEnabled = false
	sender := &fakeSender{}
	logger := New(sender, modtest.NewFakeConfigSource(cfg), zap.NewNop())
	logger.Start()

	logger.LogAction("g1", moderation.AuditEntry{Action: "Ban", TargetID: "u1"})
	logger.Stop()

	if len(sender.embeds) != 0 {
		t.Errorf("disabled mod log must not deliver, got %d embeds", len(sender.embeds))
	}
}

func TestLogAction_NoChannelConfigured(t *testing.T) {
	cfg := logConfig()
	cfg.LogChannelID = ""
	sender := &fakeSender{}
	logger := New(sender, modtest.NewFakeConfigSource(cfg), zap.NewNop())
	logger.Start()

	logger.LogAction("g1", moderation.AuditEntry{Action: "Ban", TargetID: "u1"})
	logger.Stop()

	if len(sender.embeds) != 0 {
		t.Errorf("no channel means no delivery, got %d embeds", len(sender.embeds))
	}
}

func TestLogAction_SystemModeratorOmittedFromLine(t *testing.T) {
	sender := &fakeSender{}
	logger := New(sender, modtest.NewFakeConfigSource(logConfig()), zap.NewNop())
	logger.Start()

	logger.LogAction("g1", moderation.AuditEntry{
		Action:      "Mute",
		ModeratorID: moderation.SystemModerator,
		TargetID:    "u1",
	})
	logger.Stop()

	if len(sender.embeds) != 1 {
		t.Fatalf("expected one embed, got %d", len(sender.embeds))
	}
	if strings.Contains(sender.embeds[0].Description, "by <@system>") {
		t.Error("automatic actions should not render a moderator mention")
	}
}

func TestLogAction_NeverBlocksWhenQueueFull(t *testing.T) {
	// No consumer running: fill the queue past capacity and make sure
	// LogAction keeps returning.
	sender := &fakeSender{}
	logger := New(sender, modtest.NewFakeConfigSource(logConfig()), zap.NewNop())

	doneCh := make(chan struct{})
	go func() {
		for i := 0; i < queueSize+100; i++ {
			logger.LogAction("g1", moderation.AuditEntry{Action: "Warn", TargetID: "u1"})
		}
		close(doneCh)
	}()

	select {
	case <-doneCh:
	case <-time.After(5 * time.Second):
		t.Fatal("LogAction blocked on a full queue")
	}
}
