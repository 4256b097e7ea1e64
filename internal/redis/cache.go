package redis

import (
	"fmt"
	"time"
)

// Guild config caching. The settings document is stored as JSON and
// invalidated on every write, so a stale entry lives at most one TTL.

const guildConfigTTL = 5 * time.Minute

func (c *Client) GetGuildConfig(guildID string) (string, bool) {
	val, err := c.Get(fmt.Sprintf("guildcfg:%s", guildID))
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *Client) SetGuildConfig(guildID, payload string) error {
	return c.Set(fmt.Sprintf("guildcfg:%s", guildID), payload, guildConfigTTL)
}

func (c *Client) InvalidateGuildConfig(guildID string) error {
	return c.Del(fmt.Sprintf("guildcfg:%s", guildID))
}

// Cooldowns

func (c *Client) SetCooldown(key string, duration time.Duration) error {
	return c.Set(key, 1, duration)
}

func (c *Client) CheckCooldown(key string) (time.Duration, bool) {
	ttl := c.client.TTL(ctx, key).Val()
	if ttl <= 0 {
		return 0, false
	}
	return ttl, true
}

// Verification captcha codes. The code lives only as long as the
// challenge is valid.

func (c *Client) SetCaptchaCode(guildID, userID, code string, ttl time.Duration) error {
	return c.Set(fmt.Sprintf("captcha:%s:%s", guildID, userID), code, ttl)
}

func (c *Client) GetCaptchaCode(guildID, userID string) (string, bool) {
	val, err := c.Get(fmt.Sprintf("captcha:%s:%s", guildID, userID))
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *Client) DeleteCaptchaCode(guildID, userID string) error {
	return c.Del(fmt.Sprintf("captcha:%s:%s", guildID, userID))
}

// Warning leaderboards (most-warned members per guild)

func (c *Client) IncrementWarnBoard(guildID, userID string) error {
	_, err := c.ZIncrBy(fmt.Sprintf("warnboard:%s", guildID), 1, userID)
	return err
}

func (c *Client) TopWarned(guildID string, limit int) ([]string, []int, error) {
	key := fmt.Sprintf("warnboard:%s", guildID)
	results, err := c.ZRevRangeWithScores(key, 0, int64(limit-1))
	if err != nil {
		return nil, nil, err
	}

	users := make([]string, len(results))
	counts := make([]int, len(results))
	for i, z := range results {
		users[i] = z.Member.(string)
		counts[i] = int(z.Score)
	}
	return users, counts, nil
}

func (c *Client) ResetWarnBoardEntry(guildID, userID string) error {
	return c.ZRem(fmt.Sprintf("warnboard:%s", guildID), userID)
}
