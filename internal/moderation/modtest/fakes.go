// Package modtest holds in-memory fakes of the enforcement core's
// collaborator interfaces, shared by the core packages' tests.
package modtest

import (
	"errors"
	"sort"
	"sync"
	"time"

	"discord-moderation-bot/internal/models"
	"discord-moderation-bot/internal/moderation"
)

// Call records one platform invocation for assertions.
type Call struct {
	Method  string
	GuildID string
	UserID  string
	Extra   string
}

// FakePlatform records calls and returns configured errors.
type FakePlatform struct {
	mu    sync.Mutex
	Calls []Call

	FailAll      error
	GoneGuilds   map[string]bool
	GoneMembers  map[string]bool
	TimeoutUntil map[string]*time.Time // guildID:userID -> last timeout argument
}

func NewFakePlatform() *FakePlatform {
	return &FakePlatform{
		GoneGuilds:   make(map[string]bool),
		GoneMembers:  make(map[string]bool),
		TimeoutUntil: make(map[string]*time.Time),
	}
}

func (f *FakePlatform) record(method, guildID, userID, extra string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, Call{Method: method, GuildID: guildID, UserID: userID, Extra: extra})
	return f.FailAll
}

func (f *FakePlatform) DeleteMessage(channelID, messageID string) error {
	return f.record("DeleteMessage", "", "", channelID+":"+messageID)
}

func (f *FakePlatform) TimeoutMember(guildID, userID string, until *time.Time) error {
	f.mu.Lock()
	f.TimeoutUntil[guildID+":"+userID] = until
	f.mu.Unlock()
	extra := "set"
	if until == nil {
		extra = "clear"
	}
	return f.record("TimeoutMember", guildID, userID, extra)
}

func (f *FakePlatform) AddRole(guildID, userID, roleID string) error {
	return f.record("AddRole", guildID, userID, roleID)
}

func (f *FakePlatform) RemoveRole(guildID, userID, roleID string) error {
	return f.record("RemoveRole", guildID, userID, roleID)
}

func (f *FakePlatform) KickMember(guildID, userID, reason string) error {
	return f.record("KickMember", guildID, userID, reason)
}

func (f *FakePlatform) BanMember(guildID, userID, reason string, deleteDays int) error {
	return f.record("BanMember", guildID, userID, reason)
}

func (f *FakePlatform) UnbanMember(guildID, userID string) error {
	return f.record("UnbanMember", guildID, userID, "")
}

func (f *FakePlatform) GuildExists(guildID string) bool {
	return !f.GoneGuilds[guildID]
}

func (f *FakePlatform) MemberExists(guildID, userID string) bool {
	return !f.GoneMembers[guildID+":"+userID]
}

// CallsTo returns the recorded calls for one method.
func (f *FakePlatform) CallsTo(method string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// FakeConfigSource serves a fixed config per guild.
type FakeConfigSource struct {
	Configs map[string]*models.GuildConfig
	Err     error
}

func NewFakeConfigSource(cfgs ...*models.GuildConfig) *FakeConfigSource {
	m := make(map[string]*models.GuildConfig)
	for _, c := range cfgs {
		m[c.GuildID] = c
	}
	return &FakeConfigSource{Configs: m}
}

func (f *FakeConfigSource) GuildConfig(guildID string) (*models.GuildConfig, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	cfg, ok := f.Configs[guildID]
	if !ok {
		return nil, errors.New("no config")
	}
	return cfg, nil
}

// FakeAudit collects audit entries.
type FakeAudit struct {
	mu      sync.Mutex
	Entries []moderation.AuditEntry
}

func (f *FakeAudit) LogAction(guildID string, entry moderation.AuditEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Entries = append(f.Entries, entry)
}

func (f *FakeAudit) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Entries)
}

// FakeWarnStore is an in-memory warning ledger.
type FakeWarnStore struct {
	mu     sync.Mutex
	nextID int64
	Rows   []*models.Warning
	Err    error
}

func (f *FakeWarnStore) InsertWarning(w *models.Warning) (int64, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	cp := *w
	cp.ID = f.nextID
	f.Rows = append(f.Rows, &cp)
	return cp.ID, nil
}

func (f *FakeWarnStore) CountWarnings(guildID, userID string) (int, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, w := range f.Rows {
		if w.GuildID == guildID && w.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *FakeWarnStore) DeleteWarningsBefore(guildID, userID string, cutoff int64) (int64, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.Rows[:0]
	var removed int64
	for _, w := range f.Rows {
		if w.GuildID == guildID && w.UserID == userID && w.Timestamp < cutoff {
			removed++
			continue
		}
		kept = append(kept, w)
	}
	f.Rows = kept
	return removed, nil
}

func (f *FakeWarnStore) ListWarnings(guildID, userID string) ([]*models.Warning, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Warning
	for _, w := range f.Rows {
		if w.GuildID == guildID && w.UserID == userID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out, nil
}

// FakeMuteStore is an in-memory timed-sanction store.
type FakeMuteStore struct {
	mu     sync.Mutex
	nextID int64
	Rows   []*models.Mute
	Err    error
}

func (f *FakeMuteStore) InsertMute(m *models.Mute) (int64, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	cp := *m
	cp.ID = f.nextID
	f.Rows = append(f.Rows, &cp)
	return cp.ID, nil
}

func (f *FakeMuteStore) FindActiveExpired(now int64) ([]*models.Mute, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Mute
	for _, m := range f.Rows {
		if m.Active && m.EndTime <= now {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *FakeMuteStore) Deactivate(id int64) (bool, error) {
	if f.Err != nil {
		return false, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.Rows {
		if m.ID == id && m.Active {
			m.Active = false
			return true, nil
		}
	}
	return false, nil
}

func (f *FakeMuteStore) FindActiveByUser(guildID, userID, kind string) ([]*models.Mute, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Mute
	for _, m := range f.Rows {
		if m.Active && m.GuildID == guildID && m.UserID == userID && (kind == "" || m.Kind == kind) {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}
