package raid

import (
	"testing"
	"time"

	"discord-moderation-bot/internal/models"
	"discord-moderation-bot/internal/moderation/modtest"
	"discord-moderation-bot/internal/moderation/punish"
	"discord-moderation-bot/internal/moderation/window"

	"go.uber.org/zap"
)

type raidFixture struct {
	detector *Detector
	platform *modtest.FakePlatform
	audit    *modtest.FakeAudit
}

func newFixture(cfg *models.GuildConfig) *raidFixture {
	platform := modtest.NewFakePlatform()
	audit := &modtest.FakeAudit{}
	configs := modtest.NewFakeConfigSource(cfg)
	executor := punish.NewExecutor(platform, configs, &modtest.FakeMuteStore{}, audit, zap.NewNop())
	detector := NewDetector(configs, executor, window.NewTracker(), zap.NewNop())
	return &raidFixture{detector: detector, platform: platform, audit: audit}
}

func raidConfig() *models.GuildConfig {
	cfg := models.DefaultGuildConfig("g1")
	cfg.Antiraid.Enabled = true
	cfg.Antiraid.JoinThreshold = 3
	cfg.Antiraid.TimeWindow = 10
	cfg.Antiraid.Action = "kick"
	cfg.Antiraid.MinAccountAge = 0
	return cfg
}

func oldAccount() time.Time {
	return time.Now().Add(-365 * 24 * time.Hour)
}

func join(userID string) Join {
	return Join{GuildID: "g1", UserID: userID, AccountCreated: oldAccount()}
}

func TestRegisterJoin_BelowThresholdNoAction(t *testing.T) {
	f := newFixture(raidConfig())

	if f.detector.RegisterJoin(join("u1")) {
		t.Fatal("first join must not trip")
	}
	if f.detector.RegisterJoin(join("u2")) {
		t.Fatal("second join must not trip")
	}
	if len(f.platform.Calls) != 0 {
		t.Errorf("no platform action expected, got %v", f.platform.Calls)
	}
}

func TestRegisterJoin_ThresholdActionsWholeCohort(t *testing.T) {
	f := newFixture(raidConfig())

	f.detector.RegisterJoin(join("u1"))
	f.detector.RegisterJoin(join("u2"))
	if !f.detector.RegisterJoin(join("u3")) {
		t.Fatal("third join should trip the threshold")
	}

	kicks := f.platform.CallsTo("KickMember")
	if len(kicks) != 3 {
		t.Fatalf("all 3 cohort members should be kicked, got %d", len(kicks))
	}
	seen := map[string]bool{}
	for _, c := range kicks {
		seen[c.UserID] = true
	}
	for _, id := range []string{"u1", "u2", "u3"} {
		if !seen[id] {
			t.Errorf("cohort member %s was not actioned", id)
		}
	}
	if f.audit.Len() != 3 {
		t.Errorf("expected 3 audit entries, got %d", f.audit.Len())
	}
}

func TestRegisterJoin_WindowClearedAfterTrip(t *testing.T) {
	f := newFixture(raidConfig())

	f.detector.RegisterJoin(join("u1"))
	f.detector.RegisterJoin(join("u2"))
	f.detector.RegisterJoin(join("u3"))

	// The next join starts a fresh window instead of re-tripping.
	if f.detector.RegisterJoin(join("u4")) {
		t.Fatal("join after a trip should not re-trip on stale cohort")
	}
	if got := len(f.platform.CallsTo("KickMember")); got != 3 {
		t.Errorf("only the original cohort should be actioned, got %d kicks", got)
	}
}

func TestRegisterJoin_OldJoinsAgeOut(t *testing.T) {
	cfg := raidConfig()
	cfg.Antiraid.TimeWindow = 1
	f := newFixture(cfg)

	f.detector.RegisterJoin(join("u1"))
	f.detector.RegisterJoin(join("u2"))
	time.Sleep(1100 * time.Millisecond)
	if f.detector.RegisterJoin(join("u3")) {
		t.Fatal("joins outside the window must not count toward the burst")
	}
}

func TestRegisterJoin_DisabledShortCircuits(t *testing.T) {
	cfg := raidConfig()
	cfg.Antiraid.Enabled = false
	f := newFixture(cfg)

	for i := 0; i < 10; i++ {
		if f.detector.RegisterJoin(join("u1")) {
			t.Fatal("disabled antiraid must never trip")
		}
	}
	if len(f.platform.Calls) != 0 {
		t.Errorf("no action expected while disabled, got %v", f.platform.Calls)
	}
}

func TestRegisterJoin_BanAction(t *testing.T) {
	cfg := raidConfig()
	cfg.Antiraid.Action = "ban"
	f := newFixture(cfg)

	f.detector.RegisterJoin(join("u1"))
	f.detector.RegisterJoin(join("u2"))
	f.detector.RegisterJoin(join("u3"))

	if got := len(f.platform.CallsTo("BanMember")); got != 3 {
		t.Errorf("expected 3 bans, got %d", got)
	}
}

func TestRegisterJoin_VerifyActionStripsRole(t *testing.T) {
	cfg := raidConfig()
	cfg.Antiraid.Action = "verify"
	cfg.VerifyRoleID = "role-verified"
	f := newFixture(cfg)

	f.detector.RegisterJoin(join("u1"))
	f.detector.RegisterJoin(join("u2"))
	f.detector.RegisterJoin(join("u3"))

	if got := len(f.platform.CallsTo("RemoveRole")); got != 3 {
		t.Errorf("verify action should strip the verified role from each member, got %d", got)
	}
}

func TestRegisterJoin_YoungAccountActionedAlone(t *testing.T) {
	cfg := raidConfig()
	cfg.Antiraid.MinAccountAge = 7 * 24 * time.Hour
	f := newFixture(cfg)

	j := Join{GuildID: "g1", UserID: "fresh", AccountCreated: time.Now().Add(-time.Hour)}
	if !f.detector.RegisterJoin(j) {
		t.Fatal("account younger than the minimum should be actioned")
	}
	kicks := f.platform.CallsTo("KickMember")
	if len(kicks) != 1 || kicks[0].UserID != "fresh" {
		t.Fatalf("only the young account should be kicked, got %v", kicks)
	}

	// An established account passes the same check.
	if f.detector.RegisterJoin(join("veteran")) {
		t.Fatal("old account must not trip the age check")
	}
}

func TestRegisterJoin_MissingAccountAgePasses(t *testing.T) {
	cfg := raidConfig()
	cfg.Antiraid.MinAccountAge = 7 * 24 * time.Hour
	f := newFixture(cfg)

	j := Join{GuildID: "g1", UserID: "unknown"}
	if f.detector.RegisterJoin(j) {
		t.Fatal("unknown account creation time must not be treated as young")
	}
}

func TestRegisterJoin_GuildsAreIndependent(t *testing.T) {
	cfgA := raidConfig()
	cfgB := raidConfig()
	cfgB.GuildID = "g2"

	platform := modtest.NewFakePlatform()
	audit := &modtest.FakeAudit{}
	configs := modtest.NewFakeConfigSource(cfgA, cfgB)
	executor := punish.NewExecutor(platform, configs, &modtest.FakeMuteStore{}, audit, zap.NewNop())
	detector := NewDetector(configs, executor, window.NewTracker(), zap.NewNop())

	detector.RegisterJoin(Join{GuildID: "g1", UserID: "u1", AccountCreated: oldAccount()})
	detector.RegisterJoin(Join{GuildID: "g1", UserID: "u2", AccountCreated: oldAccount()})
	detector.RegisterJoin(Join{GuildID: "g2", UserID: "u3", AccountCreated: oldAccount()})

	if got := len(platform.CallsTo("KickMember")); got != 0 {
		t.Errorf("joins in different guilds must not combine, got %d kicks", got)
	}
}
