package database

import (
	"discord-moderation-bot/internal/models"
)

// Warning ledger operations. Implements the warning store the
// escalation ledger persists through.

func (d *Database) InsertWarning(w *models.Warning) (int64, error) {
	var id int64
	err := d.db.QueryRow(`
		INSERT INTO warnings (guild_id, user_id, moderator_id, reason, timestamp)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		w.GuildID, w.UserID, w.ModeratorID, w.Reason, w.Timestamp,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (d *Database) CountWarnings(guildID, userID string) (int, error) {
	var count int
	err := d.db.QueryRow(
		"SELECT COUNT(*) FROM warnings WHERE guild_id = $1 AND user_id = $2",
		guildID, userID).Scan(&count)
	return count, err
}

func (d *Database) DeleteWarningsBefore(guildID, userID string, cutoff int64) (int64, error) {
	res, err := d.db.Exec(
		"DELETE FROM warnings WHERE guild_id = $1 AND user_id = $2 AND timestamp < $3",
		guildID, userID, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (d *Database) ListWarnings(guildID, userID string) ([]*models.Warning, error) {
	rows, err := d.db.Query(`
		SELECT id, guild_id, user_id, moderator_id, reason, timestamp
		FROM warnings WHERE guild_id = $1 AND user_id = $2
		ORDER BY timestamp DESC`, guildID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var warnings []*models.Warning
	for rows.Next() {
		var w models.Warning
		if err := rows.Scan(&w.ID, &w.GuildID, &w.UserID, &w.ModeratorID, &w.Reason, &w.Timestamp); err != nil {
			return nil, err
		}
		warnings = append(warnings, &w)
	}
	return warnings, rows.Err()
}
