package bot

import (
	"fmt"
	"time"
)

const commandCooldown = 2 * time.Second

// cooldownStore is the slice of the redis client the gate needs.
type cooldownStore interface {
	SetCooldown(key string, d time.Duration) error
	CheckCooldown(key string) (time.Duration, bool)
}

// cooldownGate throttles repeat command invocations per user.
type cooldownGate struct {
	store cooldownStore
	ttl   time.Duration
}

func newCooldownGate(store cooldownStore, ttl time.Duration) *cooldownGate {
	if ttl <= 0 {
		ttl = commandCooldown
	}
	return &cooldownGate{store: store, ttl: ttl}
}

// allow reports whether the user may run the command now. When it
// returns false, the duration is the remaining wait.
func (g *cooldownGate) allow(guildID, userID, command string) (time.Duration, bool) {
	key := fmt.Sprintf("cooldown:%s:%s:%s", guildID, userID, command)
	if remaining, held := g.store.CheckCooldown(key); held {
		return remaining, false
	}
	if err := g.store.SetCooldown(key, g.ttl); err != nil {
		// Redis trouble must not lock moderators out.
		return 0, true
	}
	return 0, true
}
