package models

import (
	"testing"
	"time"
)

func TestCloneIsDeep(t *testing.T) {
	orig := DefaultGuildConfig("g1")
	orig.AutoRoles = []string{"r1", "r2"}
	orig.Automod.BannedWords = []string{"alpha", "beta"}
	orig.Automod.LinkFilter.Domains = []string{"evil.example"}
	orig.WarnSystem.Actions = []WarnAction{{Warnings: 3, Action: "mute", Duration: time.Hour}}

	c := orig.Clone()
	c.AutoRoles = append(c.AutoRoles, "r3")
	c.Automod.BannedWords[0] = "changed"
	c.Automod.LinkFilter.Domains = append(c.Automod.LinkFilter.Domains, "other.example")
	c.WarnSystem.Actions[0].Action = "ban"
	c.Automod.Enabled = !orig.Automod.Enabled

	if len(orig.AutoRoles) != 2 {
		t.Fatalf("original AutoRoles grew to %d", len(orig.AutoRoles))
	}
	if orig.Automod.BannedWords[0] != "alpha" {
		t.Fatalf("original banned word mutated: %q", orig.Automod.BannedWords[0])
	}
	if len(orig.Automod.LinkFilter.Domains) != 1 {
		t.Fatalf("original link domains grew to %d", len(orig.Automod.LinkFilter.Domains))
	}
	if orig.WarnSystem.Actions[0].Action != "mute" {
		t.Fatalf("original ladder rung mutated: %q", orig.WarnSystem.Actions[0].Action)
	}
	if orig.Automod.Enabled == c.Automod.Enabled {
		t.Fatal("flag flip leaked into the original")
	}
}

func TestCloneFilterDoesNotTouchOriginalBacking(t *testing.T) {
	orig := DefaultGuildConfig("g1")
	orig.Automod.BannedWords = []string{"alpha", "beta", "gamma"}

	// Same in-place filter the settings handlers use on their clone.
	c := orig.Clone()
	kept := c.Automod.BannedWords[:0]
	for _, w := range c.Automod.BannedWords {
		if w != "beta" {
			kept = append(kept, w)
		}
	}
	c.Automod.BannedWords = kept

	want := []string{"alpha", "beta", "gamma"}
	for i, w := range want {
		if orig.Automod.BannedWords[i] != w {
			t.Fatalf("original word %d = %q, want %q", i, orig.Automod.BannedWords[i], w)
		}
	}
}

func TestTicketStatusConstantsMatchStoredValues(t *testing.T) {
	// The schema and the open-ticket count query store these literally.
	if TicketOpen != "open" || TicketClosed != "closed" {
		t.Fatalf("ticket status constants changed: %q, %q", TicketOpen, TicketClosed)
	}
}
