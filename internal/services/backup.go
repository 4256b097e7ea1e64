package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"discord-moderation-bot/internal/models"

	"github.com/bwmarrin/discordgo"
	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const backupVersion = 1

// BackupService snapshots a guild's role and channel structure to disk
// so a nuked server can be rebuilt.
type BackupService struct {
	Session *discordgo.Session
	Dir     string
	Log     *zap.Logger
}

type GuildBackup struct {
	Version   int             `json:"version"`
	GuildID   string          `json:"guild_id"`
	GuildName string          `json:"guild_name"`
	CreatedAt int64           `json:"created_at"`
	Roles     []RoleBackup    `json:"roles"`
	Channels  []ChannelBackup `json:"channels"`
}

type RoleBackup struct {
	Name        string `json:"name"`
	Color       int    `json:"color"`
	Hoist       bool   `json:"hoist"`
	Position    int    `json:"position"`
	Permissions int64  `json:"permissions"`
	Mentionable bool   `json:"mentionable"`
}

type ChannelBackup struct {
	Name     string `json:"name"`
	Type     int    `json:"type"`
	Topic    string `json:"topic"`
	Position int    `json:"position"`
	Parent   string `json:"parent"`
	NSFW     bool   `json:"nsfw"`
}

func NewBackupService(session *discordgo.Session, dir string, log *zap.Logger) *BackupService {
	return &BackupService{Session: session, Dir: dir, Log: log}
}

// Create snapshots the guild and writes it to disk, returning the
// backup's file name.
func (s *BackupService) Create(guildID string) (string, error) {
	guild, err := s.Session.Guild(guildID)
	if err != nil {
		return "", fmt.Errorf("fetch guild: %w", err)
	}
	channels, err := s.Session.GuildChannels(guildID)
	if err != nil {
		return "", fmt.Errorf("fetch channels: %w", err)
	}

	backup := GuildBackup{
		Version:   backupVersion,
		GuildID:   guildID,
		GuildName: guild.Name,
		CreatedAt: models.Now(),
	}

	// Category names are stored instead of IDs: the restore recreates
	// categories first and rebinds children by name.
	categoryNames := make(map[string]string)
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildCategory {
			categoryNames[ch.ID] = ch.Name
		}
	}

	for _, role := range guild.Roles {
		if role.Managed || role.ID == guildID {
			continue
		}
		backup.Roles = append(backup.Roles, RoleBackup{
			Name:        role.Name,
			Color:       role.Color,
			Hoist:       role.Hoist,
			Position:    role.Position,
			Permissions: role.Permissions,
			Mentionable: role.Mentionable,
		})
	}
	for _, ch := range channels {
		backup.Channels = append(backup.Channels, ChannelBackup{
			Name:     ch.Name,
			Type:     int(ch.Type),
			Topic:    ch.Topic,
			Position: ch.Position,
			Parent:   categoryNames[ch.ParentID],
			NSFW:     ch.NSFW,
		})
	}

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s-%s.json", guildID, time.Now().Format("20060102-150405"))
	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0o644); err != nil {
		return "", err
	}

	s.Log.Info("guild backup created",
		zap.String("guild", guildID),
		zap.String("file", name),
		zap.Int("roles", len(backup.Roles)),
		zap.Int("channels", len(backup.Channels)))
	return name, nil
}

// List returns the guild's backup file names, newest first.
func (s *BackupService) List(guildID string) ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), guildID+"-") && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

// Delete removes one backup file. The name is validated against the
// guild prefix so a command cannot reach outside its own backups.
func (s *BackupService) Delete(guildID, name string) error {
	if !strings.HasPrefix(name, guildID+"-") || strings.Contains(name, "/") || strings.Contains(name, "..") {
		return fmt.Errorf("invalid backup name %q", name)
	}
	return os.Remove(filepath.Join(s.Dir, name))
}

// Restore rebuilds roles and channels from a backup file. Existing
// roles and channels are left in place; the snapshot is applied
// additively.
func (s *BackupService) Restore(guildID, name string) error {
	if !strings.HasPrefix(name, guildID+"-") || strings.Contains(name, "/") || strings.Contains(name, "..") {
		return fmt.Errorf("invalid backup name %q", name)
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	if err != nil {
		return err
	}

	// Cheap validation pass before committing to a full decode.
	if v := gjson.GetBytes(data, "version"); !v.Exists() || int(v.Int()) != backupVersion {
		return fmt.Errorf("unsupported backup version in %s", name)
	}
	if g := gjson.GetBytes(data, "guild_id"); g.String() != guildID {
		return fmt.Errorf("backup %s belongs to another guild", name)
	}

	var backup GuildBackup
	if err := json.Unmarshal(data, &backup); err != nil {
		return fmt.Errorf("decode backup: %w", err)
	}

	for _, r := range backup.Roles {
		role := r
		_, err := s.Session.GuildRoleCreate(guildID, &discordgo.RoleParams{
			Name:        role.Name,
			Color:       &role.Color,
			Hoist:       &role.Hoist,
			Permissions: &role.Permissions,
			Mentionable: &role.Mentionable,
		})
		if err != nil {
			s.Log.Warn("role restore failed",
				zap.String("guild", guildID),
				zap.String("role", role.Name),
				zap.Error(err))
		}
	}

	// Categories first so children can be parented by name.
	createdCategories := make(map[string]string)
	for _, ch := range backup.Channels {
		if ch.Type != int(discordgo.ChannelTypeGuildCategory) {
			continue
		}
		created, err := s.Session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
			Name:     ch.Name,
			Type:     discordgo.ChannelType(ch.Type),
			Position: ch.Position,
		})
		if err != nil {
			s.Log.Warn("category restore failed",
				zap.String("guild", guildID),
				zap.String("channel", ch.Name),
				zap.Error(err))
			continue
		}
		createdCategories[ch.Name] = created.ID
	}
	for _, ch := range backup.Channels {
		if ch.Type == int(discordgo.ChannelTypeGuildCategory) {
			continue
		}
		_, err := s.Session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
			Name:     ch.Name,
			Type:     discordgo.ChannelType(ch.Type),
			Topic:    ch.Topic,
			Position: ch.Position,
			ParentID: createdCategories[ch.Parent],
			NSFW:     ch.NSFW,
		})
		if err != nil {
			s.Log.Warn("channel restore failed",
				zap.String("guild", guildID),
				zap.String("channel", ch.Name),
				zap.Error(err))
		}
	}

	s.Log.Info("guild backup restored",
		zap.String("guild", guildID), zap.String("file", name))
	return nil
}
