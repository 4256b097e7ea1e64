package database

import (
	"database/sql"

	"discord-moderation-bot/internal/models"
)

// Timed-sanction operations. Rows stay in the table as history; only
// the active flag changes.

func (d *Database) InsertMute(m *models.Mute) (int64, error) {
	var id int64
	err := d.db.QueryRow(`
		INSERT INTO mutes (guild_id, user_id, moderator_id, reason, kind, duration_ms, end_time, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
		RETURNING id`,
		m.GuildID, m.UserID, m.ModeratorID, m.Reason, m.Kind, m.Duration, m.EndTime,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (d *Database) FindActiveExpired(now int64) ([]*models.Mute, error) {
	rows, err := d.db.Query(`
		SELECT id, guild_id, user_id, moderator_id, reason, kind, duration_ms, end_time, active
		FROM mutes WHERE active = 1 AND end_time <= $1`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMutes(rows)
}

// Deactivate flips the active flag. The WHERE clause makes the flip
// first-writer-wins: only the caller that actually changed the row gets
// true, so concurrent reversals settle on a single owner.
func (d *Database) Deactivate(id int64) (bool, error) {
	res, err := d.db.Exec("UPDATE mutes SET active = 0 WHERE id = $1 AND active = 1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (d *Database) FindActiveByUser(guildID, userID, kind string) ([]*models.Mute, error) {
	query := `
		SELECT id, guild_id, user_id, moderator_id, reason, kind, duration_ms, end_time, active
		FROM mutes WHERE active = 1 AND guild_id = $1 AND user_id = $2`
	args := []interface{}{guildID, userID}
	if kind != "" {
		query += " AND kind = $3"
		args = append(args, kind)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMutes(rows)
}

func scanMutes(rows *sql.Rows) ([]*models.Mute, error) {
	var mutes []*models.Mute
	for rows.Next() {
		var m models.Mute
		var active int
		if err := rows.Scan(&m.ID, &m.GuildID, &m.UserID, &m.ModeratorID, &m.Reason, &m.Kind, &m.Duration, &m.EndTime, &active); err != nil {
			return nil, err
		}
		m.Active = models.IntToBool(active)
		mutes = append(mutes, &m)
	}
	return mutes, rows.Err()
}
