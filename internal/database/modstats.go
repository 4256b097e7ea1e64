package database

import "sort"

// Moderation action history. Every audit entry lands here so modstats
// can aggregate without touching the Discord log channel.

// ModeratorStats aggregates one moderator's actions over a period.
type ModeratorStats struct {
	ModeratorID string
	Total       int
	ByAction    map[string]int
}

func (d *Database) RecordModAction(guildID, moderatorID, targetID, action, reason string, timestamp int64) error {
	_, err := d.db.Exec(`
		INSERT INTO mod_actions (guild_id, moderator_id, target_id, action, reason, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		guildID, moderatorID, targetID, action, reason, timestamp)
	return err
}

// GetModeratorStats returns per-moderator action counts since the given
// timestamp, busiest moderator first.
func (d *Database) GetModeratorStats(guildID string, since int64) ([]*ModeratorStats, error) {
	rows, err := d.db.Query(`
		SELECT moderator_id, action, COUNT(*)
		FROM mod_actions
		WHERE guild_id = $1 AND timestamp >= $2
		GROUP BY moderator_id, action`, guildID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byMod := make(map[string]*ModeratorStats)
	for rows.Next() {
		var modID, action string
		var count int
		if err := rows.Scan(&modID, &action, &count); err != nil {
			return nil, err
		}
		s, ok := byMod[modID]
		if !ok {
			s = &ModeratorStats{ModeratorID: modID, ByAction: make(map[string]int)}
			byMod[modID] = s
		}
		s.ByAction[action] += count
		s.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats := make([]*ModeratorStats, 0, len(byMod))
	for _, s := range byMod {
		stats = append(stats, s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Total > stats[j].Total })
	return stats, nil
}

// GetActionTotals returns guild-wide counts per action since the given
// timestamp.
func (d *Database) GetActionTotals(guildID string, since int64) (map[string]int, error) {
	rows, err := d.db.Query(`
		SELECT action, COUNT(*)
		FROM mod_actions
		WHERE guild_id = $1 AND timestamp >= $2
		GROUP BY action`, guildID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[string]int)
	for rows.Next() {
		var action string
		var count int
		if err := rows.Scan(&action, &count); err != nil {
			return nil, err
		}
		totals[action] = count
	}
	return totals, rows.Err()
}
