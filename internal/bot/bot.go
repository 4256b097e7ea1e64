package bot

import (
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof" // Register pprof handlers
	"os"
	"os/signal"
	"syscall"
	"time"

	"discord-moderation-bot/internal/commands"
	"discord-moderation-bot/internal/configstore"
	"discord-moderation-bot/internal/database"
	"discord-moderation-bot/internal/moderation/automod"
	"discord-moderation-bot/internal/moderation/expiry"
	"discord-moderation-bot/internal/moderation/punish"
	"discord-moderation-bot/internal/moderation/raid"
	"discord-moderation-bot/internal/moderation/warn"
	"discord-moderation-bot/internal/moderation/window"
	"discord-moderation-bot/internal/modlog"
	"discord-moderation-bot/internal/redis"
	"discord-moderation-bot/internal/services"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

type Bot struct {
	Session *discordgo.Session
	DB      *database.Database
	Redis   *redis.Client
	Configs *configstore.Store

	Scanner   *automod.Scanner
	Raid      *raid.Detector
	Warns     *warn.Ledger
	Executor  *punish.Executor
	Scheduler *expiry.Scheduler
	ModLog    *modlog.Logger

	Tickets *services.TicketService
	Verify  *services.VerifyService
	Backups *services.BackupService

	StartTime time.Time
	Logger    *zap.Logger

	cooldowns *cooldownGate
}

// Options carries the tunables New cannot derive from its dependencies.
type Options struct {
	ExpiryInterval time.Duration
	BackupDir      string
}

func New(token string, db *database.Database, rdb *redis.Client, cfgs *configstore.Store, logger *zap.Logger, opts Options) (*Bot, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("session error: %w", err)
	}

	// HTTP/2 keep-alive pooled transport for the REST API. Punishment
	// execution latency is dominated by these round trips.
	tr := &http.Transport{
		MaxIdleConns:          500,
		MaxIdleConnsPerHost:   100,
		IdleConnTimeout:       120 * time.Second,
		ForceAttemptHTTP2:     true,
		DisableCompression:    true,
		DisableKeepAlives:     false,
		MaxConnsPerHost:       100,
		ResponseHeaderTimeout: 5 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		WriteBufferSize:       32 * 1024,
		ReadBufferSize:        32 * 1024,
	}

	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildBans |
		discordgo.IntentsMessageContent

	s.Identify.Compress = false

	s.Client = &http.Client{
		Transport: tr,
		Timeout:   15 * time.Second,
	}

	// Minimal state tracking. Everything the handlers need arrives on the
	// event itself or is fetched on demand.
	s.StateEnabled = false

	s.ShouldReconnectOnError = true
	s.ShouldRetryOnRateLimit = true
	s.MaxRestRetries = 3
	s.Compress = false

	platform := newSessionPlatform(s)

	audit := modlog.New(platform, cfgs, logger)
	audit.SetRecorder(db)

	executor := punish.NewExecutor(platform, cfgs, db, audit, logger)
	scanner := automod.NewScanner(cfgs, platform, executor, window.NewTracker(), logger)
	detector := raid.NewDetector(cfgs, executor, window.NewTracker(), logger)
	ledger := warn.NewLedger(cfgs, db, executor, audit, logger)
	scheduler := expiry.NewScheduler(db, platform, executor, audit, logger, opts.ExpiryInterval)

	b := &Bot{
		Session:   s,
		DB:        db,
		Redis:     rdb,
		Configs:   cfgs,
		Scanner:   scanner,
		Raid:      detector,
		Warns:     ledger,
		Executor:  executor,
		Scheduler: scheduler,
		ModLog:    audit,
		Tickets:   services.NewTicketService(s, db, logger),
		Verify:    services.NewVerifyService(s, rdb, logger),
		Backups:   services.NewBackupService(s, opts.BackupDir, logger),
		StartTime: time.Now(),
		Logger:    logger,
		cooldowns: newCooldownGate(rdb, commandCooldown),
	}

	s.AddHandler(b.Ready)
	s.AddHandler(b.GuildCreate)
	s.AddHandler(b.InteractionCreate)
	s.AddHandler(b.MessageCreate)
	s.AddHandler(b.GuildMemberAdd)
	s.AddHandler(b.MessageReactionAdd)

	return b, nil
}

func (b *Bot) Start() error {
	log.Println("Connecting to Discord Gateway...")

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("gateway connection failed: %w", err)
	}
	log.Println("✓ Connected to Discord Gateway")

	// Ensure we have the bot user (since state is disabled)
	if b.Session.State.User == nil {
		u, err := b.Session.User("@me")
		if err != nil {
			return fmt.Errorf("failed to get bot user: %w", err)
		}
		b.Session.State.User = u
	}
	log.Printf("✓ Logged in as: %s (ID: %s)",
		b.Session.State.User.Username,
		b.Session.State.User.ID)

	log.Println("Registering commands...")
	_, err := b.Session.ApplicationCommandBulkOverwrite(b.Session.State.User.ID, "", commands.Commands)
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	log.Printf("✓ Registered %d commands", len(commands.Commands))

	b.ModLog.Start()
	b.Scheduler.Start()

	go b.monitorHeartbeat()

	// pprof server
	go func() {
		log.Println("Starting pprof server on localhost:6060")
		log.Println(http.ListenAndServe("localhost:6060", nil))
	}()

	log.Println("🚀 Bot is running!")

	// Wait for interrupt
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	return b.Close()
}

func (b *Bot) Close() error {
	log.Println("Shutting down...")
	b.Scheduler.Stop()
	b.ModLog.Stop()
	if b.Logger != nil {
		b.Logger.Sync()
	}
	b.Configs.Close()
	b.DB.Close()
	b.Redis.Close()
	return b.Session.Close()
}

// monitorHeartbeat reports WebSocket heartbeat latency every 30 seconds.
func (b *Bot) monitorHeartbeat() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		latency := b.Session.HeartbeatLatency().Milliseconds()
		if latency > 100 {
			b.Logger.Warn("high websocket latency", zap.Int64("ms", latency))
		} else {
			b.Logger.Debug("websocket latency", zap.Int64("ms", latency))
		}
	}
}
