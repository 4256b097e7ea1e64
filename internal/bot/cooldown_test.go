package bot

import (
	"errors"
	"testing"
	"time"
)

type fakeCooldownStore struct {
	keys   map[string]time.Duration
	setErr error
}

func newFakeCooldownStore() *fakeCooldownStore {
	return &fakeCooldownStore{keys: make(map[string]time.Duration)}
}

func (f *fakeCooldownStore) SetCooldown(key string, d time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.keys[key] = d
	return nil
}

func (f *fakeCooldownStore) CheckCooldown(key string) (time.Duration, bool) {
	d, ok := f.keys[key]
	return d, ok
}

func TestCooldownGateBlocksRepeatInvocation(t *testing.T) {
	g := newCooldownGate(newFakeCooldownStore(), 2*time.Second)

	if _, ok := g.allow("g1", "u1", "warn"); !ok {
		t.Fatal("first invocation should pass")
	}
	wait, ok := g.allow("g1", "u1", "warn")
	if ok {
		t.Fatal("second invocation should be on cooldown")
	}
	if wait != 2*time.Second {
		t.Fatalf("remaining wait = %s, want 2s", wait)
	}
}

func TestCooldownGateIsPerUserAndPerCommand(t *testing.T) {
	g := newCooldownGate(newFakeCooldownStore(), time.Second)

	if _, ok := g.allow("g1", "u1", "warn"); !ok {
		t.Fatal("first invocation should pass")
	}
	if _, ok := g.allow("g1", "u2", "warn"); !ok {
		t.Fatal("another user must not share the cooldown")
	}
	if _, ok := g.allow("g1", "u1", "kick"); !ok {
		t.Fatal("another command must not share the cooldown")
	}
	if _, ok := g.allow("g2", "u1", "warn"); !ok {
		t.Fatal("another guild must not share the cooldown")
	}
}

func TestCooldownGateFailsOpenOnStoreError(t *testing.T) {
	store := newFakeCooldownStore()
	store.setErr = errors.New("redis down")
	g := newCooldownGate(store, time.Second)

	if _, ok := g.allow("g1", "u1", "warn"); !ok {
		t.Fatal("store failure must not block the command")
	}
	if _, ok := g.allow("g1", "u1", "warn"); !ok {
		t.Fatal("store failure must not block repeat commands either")
	}
}

func TestCooldownGateDefaultTTL(t *testing.T) {
	store := newFakeCooldownStore()
	g := newCooldownGate(store, 0)

	g.allow("g1", "u1", "warn")
	for _, d := range store.keys {
		if d != commandCooldown {
			t.Fatalf("stored ttl = %s, want %s", d, commandCooldown)
		}
	}
}
