package punish

import (
	"errors"
	"testing"
	"time"

	"discord-moderation-bot/internal/models"
	"discord-moderation-bot/internal/moderation"
	"discord-moderation-bot/internal/moderation/modtest"

	"go.uber.org/zap"
)

func newExecutor(cfg *models.GuildConfig) (*Executor, *modtest.FakePlatform, *modtest.FakeMuteStore, *modtest.FakeAudit) {
	platform := modtest.NewFakePlatform()
	mutes := &modtest.FakeMuteStore{}
	audit := &modtest.FakeAudit{}
	configs := modtest.NewFakeConfigSource(cfg)
	e := NewExecutor(platform, configs, mutes, audit, zap.NewNop())
	return e, platform, mutes, audit
}

func TestApply_WarnLogOnlyWritesAudit(t *testing.T) {
	e, platform, mutes, audit := newExecutor(models.DefaultGuildConfig("g1"))

	err := e.Apply("g1", "u1", moderation.SystemModerator, "banned words", models.Punishment{Kind: models.PunishWarnLog})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(platform.Calls) != 0 {
		t.Errorf("warn-log should not touch the platform, got %d calls", len(platform.Calls))
	}
	if len(mutes.Rows) != 0 {
		t.Errorf("warn-log should not record a sanction")
	}
	if audit.Len() != 1 {
		t.Errorf("expected 1 audit entry, got %d", audit.Len())
	}
}

func TestApply_MuteUsesTimeoutAndRecords(t *testing.T) {
	cfg := models.DefaultGuildConfig("g1")
	e, platform, mutes, _ := newExecutor(cfg)

	err := e.Apply("g1", "u1", "mod1", "spam", models.Punishment{Kind: models.PunishMute, Duration: 10 * time.Minute})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls := platform.CallsTo("TimeoutMember"); len(calls) != 1 || calls[0].Extra != "set" {
		t.Fatalf("expected one timeout set, got %v", calls)
	}
	if len(mutes.Rows) != 1 {
		t.Fatalf("expected 1 mute record, got %d", len(mutes.Rows))
	}
	m := mutes.Rows[0]
	if m.Kind != models.SanctionMute || !m.Active {
		t.Errorf("unexpected mute record: %+v", m)
	}
	if m.EndTime-models.Now() > (10 * time.Minute).Milliseconds() {
		t.Errorf("end time too far out: %d", m.EndTime)
	}
}

func TestApply_MuteWithRoleWhenTimeoutDisabled(t *testing.T) {
	cfg := models.DefaultGuildConfig("g1")
	cfg.MuteSystem.UseTimeout = false
	cfg.MuteSystem.TimeoutRoleID = "role9"
	e, platform, mutes, _ := newExecutor(cfg)

	if err := e.Apply("g1", "u1", "mod1", "spam", models.Punishment{Kind: models.PunishMute, Duration: time.Hour}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := platform.CallsTo("AddRole")
	if len(calls) != 1 || calls[0].Extra != "role9" {
		t.Fatalf("expected mute role add, got %v", calls)
	}
	if len(mutes.Rows) != 1 {
		t.Errorf("role mute should still be recorded for expiry")
	}
}

func TestApply_PlatformFailureDoesNotPanicAndStillAudits(t *testing.T) {
	e, platform, mutes, audit := newExecutor(models.DefaultGuildConfig("g1"))
	platform.FailAll = errors.New("missing permissions")

	err := e.Apply("g1", "u1", "mod1", "spam", models.Punishment{Kind: models.PunishKick})
	if err == nil {
		t.Fatal("expected surfaced error for interactive callers")
	}
	if audit.Len() != 1 {
		t.Errorf("audit entry must be written on failure too, got %d", audit.Len())
	}
	if len(mutes.Rows) != 0 {
		t.Errorf("no sanction record expected")
	}
}

func TestApply_TempbanRecordsReversibleSanction(t *testing.T) {
	e, platform, mutes, _ := newExecutor(models.DefaultGuildConfig("g1"))

	if err := e.Apply("g1", "u1", "mod1", "raid", models.Punishment{Kind: models.PunishBan, Duration: 24 * time.Hour}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(platform.CallsTo("BanMember")) != 1 {
		t.Fatal("expected ban call")
	}
	if len(mutes.Rows) != 1 || mutes.Rows[0].Kind != models.SanctionBan {
		t.Fatalf("expected tempban sanction record, got %+v", mutes.Rows)
	}
}

func TestApply_PermanentBanIsNotTracked(t *testing.T) {
	e, _, mutes, _ := newExecutor(models.DefaultGuildConfig("g1"))

	if err := e.Apply("g1", "u1", "mod1", "raid", models.Punishment{Kind: models.PunishBan}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mutes.Rows) != 0 {
		t.Errorf("permanent bans are not tracked for expiry")
	}
}

func TestApply_DuplicateCallsCreateDuplicateRecords(t *testing.T) {
	e, _, mutes, audit := newExecutor(models.DefaultGuildConfig("g1"))

	p := models.Punishment{Kind: models.PunishMute, Duration: time.Minute}
	e.Apply("g1", "u1", "mod1", "spam", p)
	e.Apply("g1", "u1", "mod1", "spam", p)

	// No internal dedup: two calls, two records, two audit entries.
	if len(mutes.Rows) != 2 {
		t.Errorf("expected 2 sanction records, got %d", len(mutes.Rows))
	}
	if audit.Len() != 2 {
		t.Errorf("expected 2 audit entries, got %d", audit.Len())
	}
}

func TestRevoke_MuteClearsTimeout(t *testing.T) {
	e, platform, _, _ := newExecutor(models.DefaultGuildConfig("g1"))

	if err := e.Revoke("g1", "u1", models.SanctionMute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	calls := platform.CallsTo("TimeoutMember")
	if len(calls) != 1 || calls[0].Extra != "clear" {
		t.Fatalf("expected timeout clear, got %v", calls)
	}
}

func TestRevoke_MuteRemovesRoleWhenConfigured(t *testing.T) {
	cfg := models.DefaultGuildConfig("g1")
	cfg.MuteSystem.UseTimeout = false
	cfg.MuteSystem.TimeoutRoleID = "role9"
	e, platform, _, _ := newExecutor(cfg)

	if err := e.Revoke("g1", "u1", models.SanctionMute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	calls := platform.CallsTo("RemoveRole")
	if len(calls) != 1 || calls[0].Extra != "role9" {
		t.Fatalf("expected mute role removal, got %v", calls)
	}
}

func TestRevoke_TempbanUnbans(t *testing.T) {
	e, platform, _, _ := newExecutor(models.DefaultGuildConfig("g1"))

	if err := e.Revoke("g1", "u1", models.SanctionBan); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(platform.CallsTo("UnbanMember")) != 1 {
		t.Fatal("expected unban call")
	}
}

func TestApply_RoleRemoveStripsVerifyRole(t *testing.T) {
	cfg := models.DefaultGuildConfig("g1")
	cfg.VerifyRoleID = "verified"
	e, platform, _, _ := newExecutor(cfg)

	if err := e.Apply("g1", "u1", moderation.SystemModerator, "join burst", models.Punishment{Kind: models.PunishRoleRemove}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	calls := platform.CallsTo("RemoveRole")
	if len(calls) != 1 || calls[0].Extra != "verified" {
		t.Fatalf("expected verify role removal, got %v", calls)
	}
}
