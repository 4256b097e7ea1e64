package utils

import (
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestWelcomeEmbedSubstitutesPlaceholders(t *testing.T) {
	user := &discordgo.User{ID: "42", Username: "newbie"}

	embed := WelcomeEmbed("Hey {user}, welcome to {server}!", "Test Guild", user)

	if !strings.Contains(embed.Description, "<@42>") {
		t.Fatalf("description missing user mention: %q", embed.Description)
	}
	if !strings.Contains(embed.Description, "Test Guild") {
		t.Fatalf("description missing server name: %q", embed.Description)
	}
	if strings.Contains(embed.Description, "{user}") || strings.Contains(embed.Description, "{server}") {
		t.Fatalf("placeholder left unsubstituted: %q", embed.Description)
	}
}

func TestWelcomeEmbedDefaultTemplate(t *testing.T) {
	user := &discordgo.User{ID: "42"}

	embed := WelcomeEmbed("", "Test Guild", user)

	if !strings.Contains(embed.Description, "<@42>") {
		t.Fatalf("default template missing user mention: %q", embed.Description)
	}
	if embed.Thumbnail == nil {
		t.Fatal("welcome embed should carry the member's avatar thumbnail")
	}
}
