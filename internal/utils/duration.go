package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses moderator-facing duration strings like "30m", "12h",
// "7d", "1w". Falls back to time.ParseDuration for compound forms ("1h30m").
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	unit := s[len(s)-1:]
	var mult time.Duration
	switch unit {
	case "s":
		mult = time.Second
	case "m":
		mult = time.Minute
	case "h":
		mult = time.Hour
	case "d":
		mult = 24 * time.Hour
	case "w":
		mult = 7 * 24 * time.Hour
	default:
		return 0, fmt.Errorf("invalid duration %q: use e.g. 30m, 12h, 7d", s)
	}

	value, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		// Compound form like "1h30m"
		if d, derr := time.ParseDuration(s); derr == nil && d > 0 {
			return d, nil
		}
		return 0, fmt.Errorf("invalid duration %q: use e.g. 30m, 12h, 7d", s)
	}
	if value <= 0 {
		return 0, fmt.Errorf("duration must be positive")
	}
	return time.Duration(value) * mult, nil
}

// FormatDuration renders a duration the way moderators write them.
func FormatDuration(d time.Duration) string {
	switch {
	case d >= 24*time.Hour && d%(24*time.Hour) == 0:
		return fmt.Sprintf("%dd", d/(24*time.Hour))
	case d >= time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d >= time.Minute && d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	default:
		return d.String()
	}
}
