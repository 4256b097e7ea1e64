package automod

import (
	"errors"
	"strings"
	"testing"
	"time"

	"discord-moderation-bot/internal/models"
	"discord-moderation-bot/internal/moderation/modtest"
	"discord-moderation-bot/internal/moderation/punish"
	"discord-moderation-bot/internal/moderation/window"

	"go.uber.org/zap"
)

type scanFixture struct {
	scanner  *Scanner
	platform *modtest.FakePlatform
	mutes    *modtest.FakeMuteStore
	audit    *modtest.FakeAudit
	cfg      *models.GuildConfig
}

func newFixture(cfg *models.GuildConfig) *scanFixture {
	platform := modtest.NewFakePlatform()
	mutes := &modtest.FakeMuteStore{}
	audit := &modtest.FakeAudit{}
	configs := modtest.NewFakeConfigSource(cfg)
	executor := punish.NewExecutor(platform, configs, mutes, audit, zap.NewNop())
	scanner := NewScanner(configs, platform, executor, window.NewTracker(), zap.NewNop())
	return &scanFixture{scanner: scanner, platform: platform, mutes: mutes, audit: audit, cfg: cfg}
}

func msg(content string) Message {
	return Message{
		GuildID:   "g1",
		ChannelID: "c1",
		MessageID: "m1",
		AuthorID:  "u1",
		Content:   content,
	}
}

func TestScan_CleanMessageNoViolationsNoDelete(t *testing.T) {
	cfg := models.DefaultGuildConfig("g1")
	cfg.Automod.BannedWords = []string{"badword"}
	f := newFixture(cfg)

	violations := f.scanner.ScanMessage(msg("a perfectly ordinary message"))
	if len(violations) != 0 {
		t.Fatalf("expected no violations, got %v", violations)
	}
	if len(f.platform.CallsTo("DeleteMessage")) != 0 {
		t.Error("clean message must not be deleted")
	}
	if f.audit.Len() != 0 {
		t.Error("clean message must not be punished")
	}
}

func TestScan_BannedWordCaseInsensitive(t *testing.T) {
	cfg := models.DefaultGuildConfig("g1")
	cfg.Automod.BannedWords = []string{"badword"}
	f := newFixture(cfg)

	violations := f.scanner.ScanMessage(msg("this is BADWORD here"))
	if len(violations) != 1 || !strings.Contains(violations[0], "badword") {
		t.Fatalf("expected banned-word violation naming the word, got %v", violations)
	}
	if len(f.platform.CallsTo("DeleteMessage")) != 1 {
		t.Error("violating message should be deleted")
	}
	if f.audit.Len() != 1 {
		t.Errorf("expected exactly one punishment, got %d audit entries", f.audit.Len())
	}
}

func TestScan_SpamFiresOnceAndResetsWindow(t *testing.T) {
	cfg := models.DefaultGuildConfig("g1")
	cfg.Automod.SpamThreshold = 5
	f := newFixture(cfg)

	spamHits := 0
	for i := 0; i < 6; i++ {
		for _, v := range f.scanner.ScanMessage(msg("hello")) {
			if v == "Spam detected" {
				spamHits++
			}
		}
	}
	if spamHits != 1 {
		t.Fatalf("six rapid messages should trip spam exactly once, got %d", spamHits)
	}

	// Window was cleared on trip: the next message sees a fresh count.
	for _, v := range f.scanner.ScanMessage(msg("hello")) {
		if v == "Spam detected" {
			t.Fatal("stale count re-triggered after reset")
		}
	}
}

func TestScan_CapsRatio(t *testing.T) {
	cfg := models.DefaultGuildConfig("g1")
	cfg.Automod.CapsThreshold = 70
	f := newFixture(cfg)

	cases := []struct {
		content string
		trip    bool
	}{
		{"SHOUTING AT EVERYONE", true},
		{"perfectly calm sentence here", false},
		{"SHORT CAPS", false}, // at or under the length gate
		{"Mixed Case With Some WORDS", false},
	}
	for _, tc := range cases {
		violations := f.scanner.ScanMessage(msg(tc.content))
		tripped := false
		for _, v := range violations {
			if v == "Excessive caps" {
				tripped = true
			}
		}
		if tripped != tc.trip {
			t.Errorf("%q: caps trip = %v, want %v", tc.content, tripped, tc.trip)
		}
	}
}

func TestScan_LinkFilterDenyMode(t *testing.T) {
	cfg := models.DefaultGuildConfig("g1")
	cfg.Automod.LinkFilter = models.LinkFilter{
		Enabled: true,
		Mode:    models.LinkModeDeny,
		Domains: []string{"evil.example"},
	}
	f := newFixture(cfg)

	violations := f.scanner.ScanMessage(msg("look at https://evil.example/free-stuff"))
	if !contains(violations, "Disallowed links") {
		t.Errorf("denied domain should trip, got %v", violations)
	}

	violations = f.scanner.ScanMessage(msg("see https://docs.example.org/intro"))
	if contains(violations, "Disallowed links") {
		t.Errorf("unlisted domain must pass in deny mode, got %v", violations)
	}

	// Subdomains of a denied domain are covered.
	violations = f.scanner.ScanMessage(msg("https://cdn.evil.example/x"))
	if !contains(violations, "Disallowed links") {
		t.Errorf("subdomain of denied domain should trip, got %v", violations)
	}
}

func TestScan_LinkFilterAllowMode(t *testing.T) {
	cfg := models.DefaultGuildConfig("g1")
	cfg.Automod.LinkFilter = models.LinkFilter{
		Enabled: true,
		Mode:    models.LinkModeAllow,
		Domains: []string{"github.com"},
	}
	f := newFixture(cfg)

	violations := f.scanner.ScanMessage(msg("pr at https://github.com/org/repo/pull/1"))
	if contains(violations, "Disallowed links") {
		t.Errorf("allowed domain must pass, got %v", violations)
	}

	violations = f.scanner.ScanMessage(msg("https://anywhere.else/thing"))
	if !contains(violations, "Disallowed links") {
		t.Errorf("host outside allow set should trip, got %v", violations)
	}
}

func TestScan_MentionSpam(t *testing.T) {
	cfg := models.DefaultGuildConfig("g1")
	cfg.Automod.MaxMentions = 3
	f := newFixture(cfg)

	m := msg("hey everyone")
	m.MentionCount = 4
	if !contains(f.scanner.ScanMessage(m), "Too many mentions") {
		t.Error("mention count over limit should trip")
	}

	m.MessageID = "m2"
	m.MentionCount = 3
	if contains(f.scanner.ScanMessage(m), "Too many mentions") {
		t.Error("mention count at limit must pass")
	}
}

func TestScan_EmojiSpamCountsCustomAndUnicode(t *testing.T) {
	cfg := models.DefaultGuildConfig("g1")
	cfg.Automod.MaxEmojis = 3
	f := newFixture(cfg)

	content := "<:pog:123> <:kek:456> 😀 😀"
	if !contains(f.scanner.ScanMessage(msg(content)), "Too many emojis") {
		t.Errorf("4 emojis over limit 3 should trip")
	}
}

func TestScan_MultipleViolationsSinglePunishment(t *testing.T) {
	cfg := models.DefaultGuildConfig("g1")
	cfg.Automod.BannedWords = []string{"badword"}
	cfg.Automod.MaxEmojis = 1
	f := newFixture(cfg)

	violations := f.scanner.ScanMessage(msg("badword 😀 😀"))
	if len(violations) != 2 {
		t.Fatalf("expected both rules reported, got %v", violations)
	}
	if f.audit.Len() != 1 {
		t.Errorf("punishment must fire once per message, got %d", f.audit.Len())
	}
}

func TestScan_MutePunishmentUsesConfiguredDuration(t *testing.T) {
	cfg := models.DefaultGuildConfig("g1")
	cfg.Automod.BannedWords = []string{"badword"}
	cfg.Automod.PunishmentType = "mute"
	cfg.Automod.MuteDuration = 10 * time.Minute
	f := newFixture(cfg)

	f.scanner.ScanMessage(msg("badword"))
	if len(f.mutes.Rows) != 1 {
		t.Fatalf("expected one mute record, got %d", len(f.mutes.Rows))
	}
	if got := f.mutes.Rows[0].Duration; got != (10 * time.Minute).Milliseconds() {
		t.Errorf("mute duration = %dms, want 10m", got)
	}
}

func TestScan_DisabledAutomodShortCircuits(t *testing.T) {
	cfg := models.DefaultGuildConfig("g1")
	cfg.Automod.Enabled = false
	cfg.Automod.BannedWords = []string{"badword"}
	f := newFixture(cfg)

	if v := f.scanner.ScanMessage(msg("badword")); v != nil {
		t.Errorf("disabled automod must not evaluate, got %v", v)
	}
}

func TestScan_ConfigReadFailureTreatedAsDisabled(t *testing.T) {
	f := newFixture(models.DefaultGuildConfig("g1"))
	configs := modtest.NewFakeConfigSource()
	configs.Err = errors.New("store down")
	f.scanner.configs = configs

	if v := f.scanner.ScanMessage(msg("anything")); v != nil {
		t.Errorf("config failure must no-op, got %v", v)
	}
}

func TestScan_DeleteFailureStillPunishes(t *testing.T) {
	cfg := models.DefaultGuildConfig("g1")
	cfg.Automod.BannedWords = []string{"badword"}
	f := newFixture(cfg)
	f.platform.FailAll = errors.New("already deleted")

	violations := f.scanner.ScanMessage(msg("badword"))
	if len(violations) != 1 {
		t.Fatalf("violation should still be reported, got %v", violations)
	}
	if f.audit.Len() != 1 {
		t.Errorf("punishment should still be attempted, got %d entries", f.audit.Len())
	}
}
func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
