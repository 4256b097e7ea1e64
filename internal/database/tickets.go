package database

import (
	"database/sql"

	"discord-moderation-bot/internal/models"
)

// Ticket operations

func (d *Database) CreateTicket(t *models.Ticket) (int64, error) {
	var id int64
	err := d.db.QueryRow(`
		INSERT INTO tickets (guild_id, channel_id, user_id, ticket_number, status, claimed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, '', $6)
		RETURNING id`,
		t.GuildID, t.ChannelID, t.UserID, t.TicketNumber, models.TicketOpen, t.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (d *Database) GetTicketByChannel(channelID string) (*models.Ticket, error) {
	row := d.db.QueryRow(`
		SELECT id, guild_id, channel_id, user_id, ticket_number, status, claimed_by, created_at, closed_at, closed_by
		FROM tickets WHERE channel_id = $1`, channelID)

	var t models.Ticket
	err := row.Scan(&t.ID, &t.GuildID, &t.ChannelID, &t.UserID, &t.TicketNumber,
		&t.Status, &t.ClaimedBy, &t.CreatedAt, &t.ClosedAt, &t.ClosedBy)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (d *Database) CountOpenTickets(guildID, userID string) (int, error) {
	var count int
	err := d.db.QueryRow(
		"SELECT COUNT(*) FROM tickets WHERE guild_id = $1 AND user_id = $2 AND status = $3",
		guildID, userID, models.TicketOpen).Scan(&count)
	return count, err
}

func (d *Database) ClaimTicket(channelID, moderatorID string) error {
	_, err := d.db.Exec(
		"UPDATE tickets SET claimed_by = $1 WHERE channel_id = $2 AND status = $3",
		moderatorID, channelID, models.TicketOpen)
	return err
}

func (d *Database) CloseTicket(channelID, closedBy string, closedAt int64) error {
	_, err := d.db.Exec(`
		UPDATE tickets SET status = $1, closed_by = $2, closed_at = $3
		WHERE channel_id = $4 AND status = $5`,
		models.TicketClosed, closedBy, closedAt, channelID, models.TicketOpen)
	return err
}
