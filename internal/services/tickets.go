package services

import (
	"fmt"

	"discord-moderation-bot/internal/database"
	"discord-moderation-bot/internal/models"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// TicketService opens and manages per-user support channels.
type TicketService struct {
	Session *discordgo.Session
	DB      *database.Database
	Log     *zap.Logger
}

func NewTicketService(session *discordgo.Session, db *database.Database, log *zap.Logger) *TicketService {
	return &TicketService{Session: session, DB: db, Log: log}
}

// Open creates a ticket channel for the user. The per-user open-ticket
// cap from the guild settings is enforced here.
func (s *TicketService) Open(cfg *models.GuildConfig, userID string) (*models.Ticket, error) {
	if !cfg.Tickets.Enabled {
		return nil, fmt.Errorf("tickets are not enabled in this server")
	}

	open, err := s.DB.CountOpenTickets(cfg.GuildID, userID)
	if err != nil {
		return nil, fmt.Errorf("count open tickets: %w", err)
	}
	maxOpen := cfg.Tickets.MaxTickets
	if maxOpen <= 0 {
		maxOpen = 1
	}
	if open >= maxOpen {
		return nil, fmt.Errorf("you already have %d open ticket(s)", open)
	}

	number, err := s.DB.NextTicketNumber(cfg.GuildID)
	if err != nil {
		return nil, fmt.Errorf("allocate ticket number: %w", err)
	}

	overwrites := []*discordgo.PermissionOverwrite{
		{
			ID:   cfg.GuildID, // @everyone
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		{
			ID:    userID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages,
		},
	}
	if cfg.Tickets.SupportRoleID != "" {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    cfg.Tickets.SupportRoleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages,
		})
	}

	channel, err := s.Session.GuildChannelCreateComplex(cfg.GuildID, discordgo.GuildChannelCreateData{
		Name:                 fmt.Sprintf("ticket-%04d", number),
		Type:                 discordgo.ChannelTypeGuildText,
		ParentID:             cfg.Tickets.CategoryID,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		return nil, fmt.Errorf("create ticket channel: %w", err)
	}

	ticket := &models.Ticket{
		GuildID:      cfg.GuildID,
		ChannelID:    channel.ID,
		UserID:       userID,
		TicketNumber: number,
		Status:       models.TicketOpen,
		CreatedAt:    models.Now(),
	}
	id, err := s.DB.CreateTicket(ticket)
	if err != nil {
		// Channel exists but the row does not: remove the channel so
		// state stays consistent.
		s.Session.ChannelDelete(channel.ID)
		return nil, fmt.Errorf("persist ticket: %w", err)
	}
	ticket.ID = id

	s.Log.Info("ticket opened",
		zap.String("guild", cfg.GuildID),
		zap.String("user", userID),
		zap.Int("number", number))
	return ticket, nil
}

// Claim marks a ticket as handled by the given moderator.
func (s *TicketService) Claim(channelID, moderatorID string) (*models.Ticket, error) {
	ticket, err := s.DB.GetTicketByChannel(channelID)
	if err != nil {
		return nil, err
	}
	if ticket == nil || ticket.Status != models.TicketOpen {
		return nil, fmt.Errorf("this channel is not an open ticket")
	}
	if ticket.ClaimedBy != "" {
		return nil, fmt.Errorf("ticket already claimed by <@%s>", ticket.ClaimedBy)
	}
	if err := s.DB.ClaimTicket(channelID, moderatorID); err != nil {
		return nil, err
	}
	ticket.ClaimedBy = moderatorID
	return ticket, nil
}

// Close closes the ticket and deletes its channel.
func (s *TicketService) Close(channelID, closedBy string) (*models.Ticket, error) {
	ticket, err := s.DB.GetTicketByChannel(channelID)
	if err != nil {
		return nil, err
	}
	if ticket == nil || ticket.Status != models.TicketOpen {
		return nil, fmt.Errorf("this channel is not an open ticket")
	}

	if err := s.DB.CloseTicket(channelID, closedBy, models.Now()); err != nil {
		return nil, err
	}
	if _, err := s.Session.ChannelDelete(channelID); err != nil {
		s.Log.Warn("ticket channel delete failed",
			zap.String("channel", channelID), zap.Error(err))
	}

	s.Log.Info("ticket closed",
		zap.String("guild", ticket.GuildID),
		zap.Int("number", ticket.TicketNumber),
		zap.String("closed_by", closedBy))
	return ticket, nil
}
