// Package automod evaluates inbound messages against the guild's content
// rules: banned words, message flooding, caps abuse, link filtering,
// mention spam and emoji spam.
package automod

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"

	"discord-moderation-bot/internal/metrics"
	"discord-moderation-bot/internal/models"
	"discord-moderation-bot/internal/moderation"
	"discord-moderation-bot/internal/moderation/punish"
	"discord-moderation-bot/internal/moderation/window"

	"go.uber.org/zap"
)

// Message is one inbound message event, already stripped to what the
// scanner needs.
type Message struct {
	GuildID      string
	ChannelID    string
	MessageID    string
	AuthorID     string
	Content      string
	MentionCount int // user + role mentions
	Attachments  int
}

var (
	urlPattern = regexp.MustCompile(`https?://[^\s]+`)

	// Custom emojis (<:name:id> / <a:name:id>) plus the common unicode
	// emoji blocks.
	emojiPattern = regexp.MustCompile(`<a?:[^:]+:\d+>|[\x{1F300}-\x{1F5FF}\x{1F900}-\x{1F9FF}\x{1F600}-\x{1F64F}\x{1F680}-\x{1F6FF}\x{2600}-\x{26FF}\x{2700}-\x{27BF}\x{1F1E6}-\x{1F1FF}\x{2B50}\x{2B55}\x{2B05}-\x{2B07}\x{2B1B}-\x{2B1C}\x{3030}\x{303D}\x{3297}\x{3299}\x{00A9}\x{00AE}\x{2122}]`)
)

// Messages shorter than this skip the caps-ratio rule.
const capsMinLength = 10

// Scanner is the automod engine. One instance serves all guilds; the
// spam windows live in the injected Tracker.
type Scanner struct {
	configs  moderation.ConfigSource
	platform moderation.Platform
	executor *punish.Executor
	windows  *window.Tracker
	log      *zap.Logger

	// SpamWindow is the burst-detection horizon. Overridable in tests.
	SpamWindow time.Duration
}

func NewScanner(configs moderation.ConfigSource, platform moderation.Platform, executor *punish.Executor, windows *window.Tracker, log *zap.Logger) *Scanner {
	return &Scanner{
		configs:    configs,
		platform:   platform,
		executor:   executor,
		windows:    windows,
		log:        log,
		SpamWindow: 5 * time.Second,
	}
}

// ScanMessage evaluates every rule independently and returns the list of
// violations. If any rule tripped, the message is deleted (best effort)
// and the guild's configured punishment fires exactly once with the
// joined violation reasons.
func (s *Scanner) ScanMessage(msg Message) []string {
	cfg, err := s.configs.GuildConfig(msg.GuildID)
	if err != nil {
		// Store unavailable: treat automod as disabled for this message.
		s.log.Warn("config read failed, skipping scan",
			zap.String("guild", msg.GuildID), zap.Error(err))
		return nil
	}
	am := &cfg.Automod
	if !am.Enabled {
		return nil
	}

	metrics.MessagesScanned.Inc()
	violations := s.evaluate(msg, am)
	if len(violations) == 0 {
		return nil
	}

	// Best-effort delete; punishment proceeds regardless.
	if err := s.platform.DeleteMessage(msg.ChannelID, msg.MessageID); err != nil {
		s.log.Debug("automod message delete failed",
			zap.String("guild", msg.GuildID), zap.Error(err))
	}

	reason := "AutoMod: " + strings.Join(violations, ", ")
	p := models.Punishment{Kind: models.ParsePunishmentKind(am.PunishmentType)}
	if p.Kind == models.PunishMute {
		p.Duration = am.MuteDuration
	}
	s.executor.Apply(msg.GuildID, msg.AuthorID, moderation.SystemModerator, reason, p)

	return violations
}

func (s *Scanner) evaluate(msg Message, am *models.AutomodConfig) []string {
	var violations []string

	if v := s.checkBannedWords(msg.Content, am.BannedWords); v != "" {
		violations = append(violations, v)
		metrics.ViolationsDetected.WithLabelValues("banned_words").Inc()
	}
	if s.checkSpam(msg, am.SpamThreshold) {
		violations = append(violations, "Spam detected")
		metrics.ViolationsDetected.WithLabelValues("spam").Inc()
	}
	if s.checkCaps(msg.Content, am.CapsThreshold) {
		violations = append(violations, "Excessive caps")
		metrics.ViolationsDetected.WithLabelValues("caps").Inc()
	}
	if s.checkLinks(msg.Content, &am.LinkFilter) {
		violations = append(violations, "Disallowed links")
		metrics.ViolationsDetected.WithLabelValues("links").Inc()
	}
	if am.MaxMentions > 0 && msg.MentionCount > am.MaxMentions {
		violations = append(violations, "Too many mentions")
		metrics.ViolationsDetected.WithLabelValues("mentions").Inc()
	}
	if am.MaxEmojis > 0 && countEmojis(msg.Content) > am.MaxEmojis {
		violations = append(violations, "Too many emojis")
		metrics.ViolationsDetected.WithLabelValues("emojis").Inc()
	}

	return violations
}

// checkBannedWords does case-insensitive substring matching and names
// every matched word in the violation.
func (s *Scanner) checkBannedWords(content string, banned []string) string {
	if len(banned) == 0 {
		return ""
	}
	lower := strings.ToLower(content)
	var found []string
	for _, word := range banned {
		if word != "" && strings.Contains(lower, strings.ToLower(word)) {
			found = append(found, word)
		}
	}
	if len(found) == 0 {
		return ""
	}
	return fmt.Sprintf("Banned words: %s", strings.Join(found, ", "))
}

// checkSpam appends to the author's window and trips when the burst
// reaches the threshold. The window is cleared on trip so one burst
// fires one violation.
func (s *Scanner) checkSpam(msg Message, threshold int) bool {
	if threshold <= 0 {
		return false
	}
	key := msg.GuildID + ":" + msg.AuthorID
	entries := s.windows.Observe(key, msg.AuthorID, s.SpamWindow)
	if len(entries) >= threshold {
		s.windows.Reset(key)
		return true
	}
	return false
}

func (s *Scanner) checkCaps(content string, threshold int) bool {
	if threshold <= 0 {
		return false
	}
	runes := []rune(content)
	if len(runes) <= capsMinLength {
		return false
	}
	upper := 0
	for _, r := range runes {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	ratio := float64(upper) / float64(len(runes)) * 100
	return ratio > float64(threshold)
}

// checkLinks extracts URLs and applies the filter: in allow mode any
// host outside the set trips, in deny mode any host inside the set trips.
func (s *Scanner) checkLinks(content string, lf *models.LinkFilter) bool {
	if !lf.Enabled {
		return false
	}
	links := urlPattern.FindAllString(content, -1)
	if len(links) == 0 {
		return false
	}

	for _, link := range links {
		host := hostOf(link)
		if host == "" {
			continue
		}
		listed := domainListed(host, lf.Domains)
		if lf.Mode == models.LinkModeAllow && !listed {
			return true
		}
		if lf.Mode == models.LinkModeDeny && listed {
			return true
		}
	}
	return false
}

func hostOf(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// domainListed matches exact hosts and subdomains of listed domains.
func domainListed(host string, domains []string) bool {
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func countEmojis(content string) int {
	return len(emojiPattern.FindAllString(content, -1))
}
