package services

import (
	"fmt"
	"strings"
	"time"

	"discord-moderation-bot/internal/models"
	"discord-moderation-bot/internal/redis"
	"discord-moderation-bot/internal/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const captchaTTL = 5 * time.Minute

// VerifyService grants the configured verified role, either on a plain
// reaction or after a solved captcha depending on the guild's mode.
type VerifyService struct {
	Session *discordgo.Session
	Redis   *redis.Client
	Log     *zap.Logger
}

func NewVerifyService(session *discordgo.Session, rdb *redis.Client, log *zap.Logger) *VerifyService {
	return &VerifyService{Session: session, Redis: rdb, Log: log}
}

// GrantRole assigns the verified role directly. Used by reaction mode
// and after a successful captcha.
func (s *VerifyService) GrantRole(cfg *models.GuildConfig, userID string) error {
	if cfg.VerifyRoleID == "" {
		return fmt.Errorf("no verified role configured")
	}
	if err := s.Session.GuildMemberRoleAdd(cfg.GuildID, userID, cfg.VerifyRoleID); err != nil {
		return fmt.Errorf("grant verified role: %w", err)
	}
	s.Log.Info("member verified",
		zap.String("guild", cfg.GuildID), zap.String("user", userID))
	return nil
}

// StartCaptcha generates a challenge, stores its code and returns the
// image for the interaction response.
func (s *VerifyService) StartCaptcha(guildID, userID string) (*utils.Captcha, error) {
	captcha, err := utils.GenerateCaptcha()
	if err != nil {
		return nil, fmt.Errorf("render captcha: %w", err)
	}
	if err := s.Redis.SetCaptchaCode(guildID, userID, captcha.Code, captchaTTL); err != nil {
		return nil, fmt.Errorf("store captcha code: %w", err)
	}
	return captcha, nil
}

// SolveCaptcha checks the submitted code. A correct answer grants the
// role and consumes the challenge; a wrong one leaves it in place for
// another attempt until the TTL runs out.
func (s *VerifyService) SolveCaptcha(cfg *models.GuildConfig, userID, input string) error {
	code, ok := s.Redis.GetCaptchaCode(cfg.GuildID, userID)
	if !ok {
		return fmt.Errorf("your captcha expired, request a new one")
	}
	if !strings.EqualFold(code, strings.TrimSpace(input)) {
		return fmt.Errorf("wrong code, try again")
	}
	if err := s.GrantRole(cfg, userID); err != nil {
		return err
	}
	s.Redis.DeleteCaptchaCode(cfg.GuildID, userID)
	return nil
}
