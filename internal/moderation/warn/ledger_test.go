package warn

import (
	"errors"
	"sync"
	"testing"
	"time"

	"discord-moderation-bot/internal/models"
	"discord-moderation-bot/internal/moderation/modtest"
	"discord-moderation-bot/internal/moderation/punish"

	"go.uber.org/zap"
)

type warnFixture struct {
	ledger   *Ledger
	store    *modtest.FakeWarnStore
	mutes    *modtest.FakeMuteStore
	platform *modtest.FakePlatform
	audit    *modtest.FakeAudit
}

func newFixture(cfg *models.GuildConfig) *warnFixture {
	store := &modtest.FakeWarnStore{}
	mutes := &modtest.FakeMuteStore{}
	platform := modtest.NewFakePlatform()
	audit := &modtest.FakeAudit{}
	configs := modtest.NewFakeConfigSource(cfg)
	executor := punish.NewExecutor(platform, configs, mutes, audit, zap.NewNop())
	ledger := NewLedger(configs, store, executor, audit, zap.NewNop())
	return &warnFixture{ledger: ledger, store: store, mutes: mutes, platform: platform, audit: audit}
}

func ladderConfig() *models.GuildConfig {
	cfg := models.DefaultGuildConfig("g1")
	cfg.WarnSystem.AutoDecay = false
	cfg.WarnSystem.Actions = []models.WarnAction{
		{Warnings: 3, Action: "mute", Duration: 10 * time.Minute},
		{Warnings: 5, Action: "kick"},
		{Warnings: 7, Action: "ban"},
	}
	return cfg
}

func TestWarn_RecordsAndCounts(t *testing.T) {
	f := newFixture(ladderConfig())

	res, err := f.ledger.Warn("g1", "u1", "mod1", "spamming")
	if err != nil {
		t.Fatalf("warn: %v", err)
	}
	if res.WarnCount != 1 {
		t.Errorf("count = %d, want 1", res.WarnCount)
	}
	if res.Escalation != nil {
		t.Errorf("count 1 sits below the first rung, got escalation %v", res.Escalation)
	}
	if len(f.store.Rows) != 1 || f.store.Rows[0].Reason != "spamming" {
		t.Errorf("warning not persisted correctly: %v", f.store.Rows)
	}
	if f.audit.Len() != 1 {
		t.Errorf("expected one audit entry, got %d", f.audit.Len())
	}
}

func TestWarn_LadderTriggersAtExactThresholds(t *testing.T) {
	f := newFixture(ladderConfig())

	for i := 1; i <= 7; i++ {
		res, err := f.ledger.Warn("g1", "u1", "mod1", "repeat offense")
		if err != nil {
			t.Fatalf("warn %d: %v", i, err)
		}
		switch i {
		case 3:
			if res.Escalation == nil || res.Escalation.Action != "mute" {
				t.Errorf("warning 3 should escalate to mute, got %v", res.Escalation)
			}
		case 5:
			if res.Escalation == nil || res.Escalation.Action != "kick" {
				t.Errorf("warning 5 should escalate to kick, got %v", res.Escalation)
			}
		case 7:
			if res.Escalation == nil || res.Escalation.Action != "ban" {
				t.Errorf("warning 7 should escalate to ban, got %v", res.Escalation)
			}
		}
	}

	if got := len(f.platform.CallsTo("KickMember")); got != 1 {
		t.Errorf("expected 1 kick, got %d", got)
	}
	if got := len(f.platform.CallsTo("BanMember")); got != 1 {
		t.Errorf("expected 1 ban, got %d", got)
	}
	if got := len(f.platform.CallsTo("TimeoutMember")); got != 1 {
		t.Errorf("expected 1 timeout, got %d", got)
	}
}

func TestWarn_BetweenRungsReappliesLowerRung(t *testing.T) {
	// Counts between rungs still resolve to the highest rung at or
	// below the count, so warning 4 repeats the mute.
	f := newFixture(ladderConfig())

	var last *Result
	for i := 0; i < 4; i++ {
		var err error
		last, err = f.ledger.Warn("g1", "u1", "mod1", "again")
		if err != nil {
			t.Fatalf("warn: %v", err)
		}
	}
	if last.Escalation == nil || last.Escalation.Action != "mute" {
		t.Errorf("warning 4 should re-resolve to the 3-warning rung, got %v", last.Escalation)
	}
}

func TestWarn_EscalationMuteUsesLadderDuration(t *testing.T) {
	f := newFixture(ladderConfig())

	for i := 0; i < 3; i++ {
		if _, err := f.ledger.Warn("g1", "u1", "mod1", "x"); err != nil {
			t.Fatalf("warn: %v", err)
		}
	}
	if len(f.mutes.Rows) != 1 {
		t.Fatalf("expected one mute record, got %d", len(f.mutes.Rows))
	}
	if got := f.mutes.Rows[0].Duration; got != (10 * time.Minute).Milliseconds() {
		t.Errorf("mute duration = %dms, want ladder's 10m", got)
	}
}

func TestWarn_DisabledReturnsErrDisabled(t *testing.T) {
	cfg := ladderConfig()
	cfg.WarnSystem.Enabled = false
	f := newFixture(cfg)

	if _, err := f.ledger.Warn("g1", "u1", "mod1", "x"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("err = %v, want ErrDisabled", err)
	}
	if len(f.store.Rows) != 0 {
		t.Error("disabled system must not persist warnings")
	}
}

func TestWarn_DecayDropsStaleWarningsOnIssuance(t *testing.T) {
	cfg := ladderConfig()
	cfg.WarnSystem.AutoDecay = true
	cfg.WarnSystem.DecayDays = 30
	f := newFixture(cfg)

	stale := models.Now() - 31*24*time.Hour.Milliseconds()
	f.store.InsertWarning(&models.Warning{GuildID: "g1", UserID: "u1", ModeratorID: "mod1", Reason: "old", Timestamp: stale})
	f.store.InsertWarning(&models.Warning{GuildID: "g1", UserID: "u1", ModeratorID: "mod1", Reason: "old", Timestamp: stale})

	res, err := f.ledger.Warn("g1", "u1", "mod1", "fresh")
	if err != nil {
		t.Fatalf("warn: %v", err)
	}
	if res.WarnCount != 1 {
		t.Errorf("stale warnings should decay before counting, count = %d, want 1", res.WarnCount)
	}
}

func TestWarn_RecentWarningsSurviveDecay(t *testing.T) {
	cfg := ladderConfig()
	cfg.WarnSystem.AutoDecay = true
	cfg.WarnSystem.DecayDays = 30
	f := newFixture(cfg)

	recent := models.Now() - 24*time.Hour.Milliseconds()
	f.store.InsertWarning(&models.Warning{GuildID: "g1", UserID: "u1", Timestamp: recent})

	res, err := f.ledger.Warn("g1", "u1", "mod1", "fresh")
	if err != nil {
		t.Fatalf("warn: %v", err)
	}
	if res.WarnCount != 2 {
		t.Errorf("recent warning must survive decay, count = %d, want 2", res.WarnCount)
	}
}

func TestWarnings_ReadDoesNotDecay(t *testing.T) {
	cfg := ladderConfig()
	cfg.WarnSystem.AutoDecay = true
	cfg.WarnSystem.DecayDays = 30
	f := newFixture(cfg)

	stale := models.Now() - 60*24*time.Hour.Milliseconds()
	f.store.InsertWarning(&models.Warning{GuildID: "g1", UserID: "u1", Timestamp: stale})

	list, err := f.ledger.Warnings("g1", "u1")
	if err != nil {
		t.Fatalf("warnings: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("listing must not mutate the ledger, got %d rows", len(list))
	}
}

func TestWarnings_NewestFirst(t *testing.T) {
	f := newFixture(ladderConfig())

	f.store.InsertWarning(&models.Warning{GuildID: "g1", UserID: "u1", Reason: "first", Timestamp: 1000})
	f.store.InsertWarning(&models.Warning{GuildID: "g1", UserID: "u1", Reason: "second", Timestamp: 2000})

	list, err := f.ledger.Warnings("g1", "u1")
	if err != nil {
		t.Fatalf("warnings: %v", err)
	}
	if len(list) != 2 || list[0].Reason != "second" {
		t.Errorf("expected newest-first ordering, got %v", list)
	}
}

func TestClear_RemovesAllAndAudits(t *testing.T) {
	f := newFixture(ladderConfig())

	f.ledger.Warn("g1", "u1", "mod1", "one")
	f.ledger.Warn("g1", "u1", "mod1", "two")

	n, err := f.ledger.Clear("g1", "u1", "mod1")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if n != 2 {
		t.Errorf("cleared = %d, want 2", n)
	}
	count, _ := f.ledger.Count("g1", "u1")
	if count != 0 {
		t.Errorf("count after clear = %d, want 0", count)
	}
}

func TestWarn_ConcurrentIssuanceEscalatesOnce(t *testing.T) {
	f := newFixture(ladderConfig())

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.ledger.Warn("g1", "u1", "mod1", "burst")
		}()
	}
	wg.Wait()

	// Exactly one of the three observed count 3.
	if got := len(f.platform.CallsTo("TimeoutMember")); got != 1 {
		t.Errorf("expected exactly one escalation mute, got %d", got)
	}
	if len(f.store.Rows) != 3 {
		t.Errorf("all 3 warnings should persist, got %d", len(f.store.Rows))
	}
}

func TestWarn_UsersAreIndependent(t *testing.T) {
	f := newFixture(ladderConfig())

	f.ledger.Warn("g1", "u1", "mod1", "x")
	f.ledger.Warn("g1", "u1", "mod1", "x")
	res, err := f.ledger.Warn("g1", "u2", "mod1", "x")
	if err != nil {
		t.Fatalf("warn: %v", err)
	}
	if res.WarnCount != 1 {
		t.Errorf("counts must not mix across users, got %d", res.WarnCount)
	}
}
