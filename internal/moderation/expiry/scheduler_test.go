package expiry

import (
	"testing"
	"time"

	"discord-moderation-bot/internal/models"
	"discord-moderation-bot/internal/moderation/modtest"
	"discord-moderation-bot/internal/moderation/punish"

	"go.uber.org/zap"
)

type expiryFixture struct {
	scheduler *Scheduler
	store     *modtest.FakeMuteStore
	platform  *modtest.FakePlatform
	audit     *modtest.FakeAudit
}

func newFixture(cfg *models.GuildConfig) *expiryFixture {
	store := &modtest.FakeMuteStore{}
	platform := modtest.NewFakePlatform()
	audit := &modtest.FakeAudit{}
	configs := modtest.NewFakeConfigSource(cfg)
	executor := punish.NewExecutor(platform, configs, store, audit, zap.NewNop())
	scheduler := NewScheduler(store, platform, executor, audit, zap.NewNop(), time.Hour)
	return &expiryFixture{scheduler: scheduler, store: store, platform: platform, audit: audit}
}

func expiredMute(guildID, userID string) *models.Mute {
	return &models.Mute{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: "mod1",
		Reason:      "test",
		Kind:        models.SanctionMute,
		Duration:    time.Minute.Milliseconds(),
		EndTime:     models.Now() - 1000,
		Active:      true,
	}
}

func TestSweep_LiftsExpiredMute(t *testing.T) {
	f := newFixture(models.DefaultGuildConfig("g1"))
	id, _ := f.store.InsertMute(expiredMute("g1", "u1"))

	f.scheduler.Sweep()

	clears := f.platform.CallsTo("TimeoutMember")
	if len(clears) != 1 || clears[0].Extra != "clear" {
		t.Fatalf("expected one timeout clear, got %v", clears)
	}
	active, _ := f.store.FindActiveByUser("g1", "u1", models.SanctionMute)
	if len(active) != 0 {
		t.Errorf("record %d should be inactive after the sweep", id)
	}
	if f.audit.Len() != 1 {
		t.Errorf("expected one audit entry, got %d", f.audit.Len())
	}
}

func TestSweep_LeavesUnexpiredAlone(t *testing.T) {
	f := newFixture(models.DefaultGuildConfig("g1"))
	m := expiredMute("g1", "u1")
	m.EndTime = models.Now() + time.Hour.Milliseconds()
	f.store.InsertMute(m)

	f.scheduler.Sweep()

	if len(f.platform.Calls) != 0 {
		t.Errorf("unexpired sanction must not be touched, got %v", f.platform.Calls)
	}
}

func TestSweep_SkipsMissingGuildAndRetriesLater(t *testing.T) {
	f := newFixture(models.DefaultGuildConfig("g1"))
	f.store.InsertMute(expiredMute("g1", "u1"))
	f.platform.GoneGuilds["g1"] = true

	f.scheduler.Sweep()

	active, _ := f.store.FindActiveByUser("g1", "u1", models.SanctionMute)
	if len(active) != 1 {
		t.Fatal("record must stay active while the guild is unreachable")
	}

	// Guild comes back; the next sweep lifts it.
	f.platform.GoneGuilds["g1"] = false
	f.scheduler.Sweep()
	active, _ = f.store.FindActiveByUser("g1", "u1", models.SanctionMute)
	if len(active) != 0 {
		t.Error("record should be lifted once the guild is reachable again")
	}
}

func TestSweep_SkipsMissingMember(t *testing.T) {
	f := newFixture(models.DefaultGuildConfig("g1"))
	f.store.InsertMute(expiredMute("g1", "u1"))
	f.platform.GoneMembers["g1:u1"] = true

	f.scheduler.Sweep()

	active, _ := f.store.FindActiveByUser("g1", "u1", models.SanctionMute)
	if len(active) != 1 {
		t.Error("record must stay active while the member is gone, so a rejoin comes back muted")
	}
	if f.audit.Len() != 0 {
		t.Error("no audit entry for a skipped record")
	}
}

func TestSweep_TempbanUnbansWithoutMemberCheck(t *testing.T) {
	f := newFixture(models.DefaultGuildConfig("g1"))
	m := expiredMute("g1", "u1")
	m.Kind = models.SanctionBan
	f.store.InsertMute(m)
	// A banned user is of course not a member.
	f.platform.GoneMembers["g1:u1"] = true

	f.scheduler.Sweep()

	if got := len(f.platform.CallsTo("UnbanMember")); got != 1 {
		t.Fatalf("expected one unban, got %d", got)
	}
	active, _ := f.store.FindActiveByUser("g1", "u1", models.SanctionBan)
	if len(active) != 0 {
		t.Error("tempban record should be closed")
	}
}

func TestSweep_ManualUnmuteOverlapAuditsOnce(t *testing.T) {
	f := newFixture(models.DefaultGuildConfig("g1"))
	id, _ := f.store.InsertMute(expiredMute("g1", "u1"))

	// A manual unmute already closed the record between lookup and lift.
	expired, _ := f.store.FindActiveExpired(models.Now())
	if len(expired) != 1 {
		t.Fatal("fixture: expected one expired record")
	}
	f.store.Deactivate(id)

	f.scheduler.lift(expired[0])

	if f.audit.Len() != 0 {
		t.Errorf("record closed elsewhere must not be audited again, got %d entries", f.audit.Len())
	}
}

func TestSweep_OneBadRecordDoesNotBlockTheRest(t *testing.T) {
	f := newFixture(models.DefaultGuildConfig("g1"))
	f.store.InsertMute(expiredMute("g1", "u1"))
	f.store.InsertMute(expiredMute("g1", "u2"))
	f.platform.GoneMembers["g1:u1"] = true

	f.scheduler.Sweep()

	active, _ := f.store.FindActiveByUser("g1", "u2", models.SanctionMute)
	if len(active) != 0 {
		t.Error("u2's mute should be lifted even though u1's was skipped")
	}
}

func TestSweep_RemovesDueTempRoles(t *testing.T) {
	f := newFixture(models.DefaultGuildConfig("g1"))
	f.scheduler.AddTempRole("g1", "u1", "r1", -time.Second)
	f.scheduler.AddTempRole("g1", "u2", "r2", time.Hour)

	f.scheduler.Sweep()

	removals := f.platform.CallsTo("RemoveRole")
	if len(removals) != 1 || removals[0].UserID != "u1" {
		t.Fatalf("only the due temp role should be removed, got %v", removals)
	}

	// The due entry is consumed; a second sweep does nothing more.
	f.scheduler.Sweep()
	if got := len(f.platform.CallsTo("RemoveRole")); got != 1 {
		t.Errorf("consumed temp role must not be removed twice, got %d removals", got)
	}
}

func TestSweep_TempRoleForGoneMemberIsDropped(t *testing.T) {
	f := newFixture(models.DefaultGuildConfig("g1"))
	f.scheduler.AddTempRole("g1", "u1", "r1", -time.Second)
	f.platform.GoneMembers["g1:u1"] = true

	f.scheduler.Sweep()

	if got := len(f.platform.CallsTo("RemoveRole")); got != 0 {
		t.Errorf("no removal for a member that left, got %d", got)
	}
}

func TestStartStop(t *testing.T) {
	f := newFixture(models.DefaultGuildConfig("g1"))
	f.store.InsertMute(expiredMute("g1", "u1"))

	f.scheduler.Start()
	f.scheduler.Stop()

	// Start runs one sweep before the first tick.
	active, _ := f.store.FindActiveByUser("g1", "u1", models.SanctionMute)
	if len(active) != 0 {
		t.Error("boot sweep should lift sanctions that expired while down")
	}
}
