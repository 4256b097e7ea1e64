// Package configstore serves per-guild moderation settings through a
// multi-layer cache: L1 in-memory (ristretto), L2 Redis, L3 Postgres.
// Every gateway event resolves settings, so the read path has to stay
// off the database.
package configstore

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"discord-moderation-bot/internal/database"
	"discord-moderation-bot/internal/metrics"
	"discord-moderation-bot/internal/models"
	"discord-moderation-bot/internal/redis"

	"github.com/dgraph-io/ristretto"
	json "github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"
)

const defaultTTL = 5 * time.Minute

// Store implements the config source the enforcement engines read from.
type Store struct {
	l1           *ristretto.Cache
	l2           *redis.Client
	db           *database.Database
	singleflight singleflight.Group

	l1Hits   atomic.Uint64
	l1Misses atomic.Uint64
	l2Hits   atomic.Uint64
	l2Misses atomic.Uint64
}

// Config for store initialization
type Config struct {
	L1MaxCost     int64 // Max cost in bytes for L1 cache (default: 10MB)
	L1NumCounters int64 // Number of keys to track frequency (default: 100k)
}

func New(db *database.Database, rdb *redis.Client, cfg Config) (*Store, error) {
	if cfg.L1MaxCost == 0 {
		cfg.L1MaxCost = 10 << 20 // 10MB default
	}
	if cfg.L1NumCounters == 0 {
		cfg.L1NumCounters = 100000
	}

	l1, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.L1NumCounters,
		MaxCost:     cfg.L1MaxCost,
		BufferItems: 64,
		Metrics:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create L1 cache: %w", err)
	}

	return &Store{
		l1: l1,
		l2: rdb,
		db: db,
	}, nil
}

// GuildConfig resolves a guild's settings with L1->L2->L3 fallback.
func (s *Store) GuildConfig(guildID string) (*models.GuildConfig, error) {
	if val, found := s.l1.Get(guildID); found {
		s.l1Hits.Add(1)
		metrics.ConfigCacheHits.WithLabelValues("l1").Inc()
		return val.(*models.GuildConfig), nil
	}
	s.l1Misses.Add(1)

	if s.l2 != nil {
		if payload, ok := s.l2.GetGuildConfig(guildID); ok {
			var cfg models.GuildConfig
			if err := json.Unmarshal([]byte(payload), &cfg); err == nil {
				s.l2Hits.Add(1)
				metrics.ConfigCacheHits.WithLabelValues("l2").Inc()
				s.l1.SetWithTTL(guildID, &cfg, 1, defaultTTL)
				return &cfg, nil
			}
			// Corrupt payload: drop it and fall through to the database.
			s.l2.InvalidateGuildConfig(guildID)
		}
		s.l2Misses.Add(1)
	}

	// L3 fetch with singleflight to prevent stampede
	val, err, _ := s.singleflight.Do(guildID, func() (interface{}, error) {
		cfg, err := s.db.GetGuildConfigFast(context.Background(), guildID)
		if err != nil {
			return nil, err
		}
		s.fill(guildID, cfg)
		return cfg, nil
	})
	if err != nil {
		return nil, err
	}
	metrics.ConfigCacheHits.WithLabelValues("l3").Inc()
	return val.(*models.GuildConfig), nil
}

// Update writes the settings through to Postgres and refreshes both
// cache layers so the next event sees the new values.
func (s *Store) Update(cfg *models.GuildConfig) error {
	if err := s.db.UpsertGuildConfig(cfg); err != nil {
		return err
	}
	s.fill(cfg.GuildID, cfg)
	return nil
}

// Invalidate drops a guild from every layer. The next read repopulates
// from Postgres.
func (s *Store) Invalidate(guildID string) {
	s.l1.Del(guildID)
	if s.l2 != nil {
		s.l2.InvalidateGuildConfig(guildID)
	}
}

func (s *Store) fill(guildID string, cfg *models.GuildConfig) {
	s.l1.SetWithTTL(guildID, cfg, 1, defaultTTL)
	if s.l2 != nil {
		if payload, err := json.Marshal(cfg); err == nil {
			s.l2.SetGuildConfig(guildID, string(payload))
		}
	}
}

// Metrics holds cache performance data
type Metrics struct {
	L1Hits    uint64
	L1Misses  uint64
	L1HitRate float64
	L2Hits    uint64
	L2Misses  uint64
	L2HitRate float64
}

// GetMetrics returns cache performance counters
func (s *Store) GetMetrics() Metrics {
	l1Total := s.l1Hits.Load() + s.l1Misses.Load()
	l2Total := s.l2Hits.Load() + s.l2Misses.Load()

	var l1HitRate, l2HitRate float64
	if l1Total > 0 {
		l1HitRate = float64(s.l1Hits.Load()) / float64(l1Total)
	}
	if l2Total > 0 {
		l2HitRate = float64(s.l2Hits.Load()) / float64(l2Total)
	}

	return Metrics{
		L1Hits:    s.l1Hits.Load(),
		L1Misses:  s.l1Misses.Load(),
		L1HitRate: l1HitRate,
		L2Hits:    s.l2Hits.Load(),
		L2Misses:  s.l2Misses.Load(),
		L2HitRate: l2HitRate,
	}
}

// Close gracefully shuts down the in-memory layer
func (s *Store) Close() {
	s.l1.Close()
}
