package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/zonk/internal/common/clock"
	"github.com/KirkDiggler/zonk/internal/common/logger"
	"github.com/KirkDiggler/zonk/internal/common/uuid"
	"github.com/KirkDiggler/zonk/internal/config"
	"github.com/KirkDiggler/zonk/internal/dice"
	"github.com/KirkDiggler/zonk/internal/handlers/discord"
	"github.com/KirkDiggler/zonk/internal/handlers/websocket"
	"github.com/KirkDiggler/zonk/internal/registry"
	"github.com/KirkDiggler/zonk/internal/repositories/player"
	"github.com/KirkDiggler/zonk/internal/repositories/results"
	gameService "github.com/KirkDiggler/zonk/internal/services/game"
	"github.com/KirkDiggler/zonk/internal/services/messaging"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New(&logger.Config{Format: logger.FormatConsole})
		boot.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.New(&logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	if err := run(cfg, &log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}

	log.Info().Msg("server has been shut down")
}

func run(cfg *config.Config, log *zerolog.Logger) error {
	gin.SetMode(gin.ReleaseMode)

	messenger, err := messaging.NewService(&messaging.ServiceConfig{})
	if err != nil {
		return err
	}

	rooms, err := registry.New(&registry.Config{
		Rules:       cfg.Rules,
		GracePeriod: cfg.GracePeriod,
		DiceRoller:  dice.New(&dice.Config{}),
		Clock:       &clock.DefaultClock{},
		IDGenerator: uuid.NewRoomCode(uuid.DefaultRoomCodeLength),
		Logger:      log,
	})
	if err != nil {
		return err
	}
	defer rooms.Close()

	hub := websocket.NewHub(&websocket.HubConfig{Logger: log})

	gameCfg := &gameService.Config{
		Registry:    rooms,
		Broadcaster: hub,
		Messenger:   messenger,
		Logger:      log,
	}

	// Initialize repositories
	if cfg.RedisEnabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()

		resultsRepo, err := results.NewRedis(&results.Config{RedisClient: redisClient})
		if err != nil {
			return err
		}

		playerRepo, err := player.NewRedis(&player.Config{RedisClient: redisClient})
		if err != nil {
			return err
		}

		gameCfg.ResultsRepo = resultsRepo
		gameCfg.PlayerRepo = playerRepo
		log.Info().Str("addr", cfg.RedisAddr).Msg("history and stats enabled")
	} else {
		log.Info().Msg("REDIS_ADDR not set, history and stats disabled")
	}

	var bot *discord.Bot
	if cfg.DiscordEnabled() {
		bot, err = discord.New(&discord.Config{
			Token:         cfg.DiscordToken,
			ChannelID:     cfg.DiscordChannelID,
			ApplicationID: cfg.DiscordAppID,
			GuildID:       cfg.DiscordGuildID,
			Messenger:     messenger,
			Logger:        log,
		})
		if err != nil {
			return err
		}
		gameCfg.Announcer = bot
	}

	svc, err := gameService.New(gameCfg)
	if err != nil {
		return err
	}

	if bot != nil {
		if err := bot.Start(); err != nil {
			return err
		}
		defer func() {
			if err := bot.Stop(); err != nil {
				log.Warn().Err(err).Msg("error stopping discord bot")
			}
		}()

		if err := bot.RegisterCommand(discord.NewZonkCommand(svc, messenger)); err != nil {
			log.Warn().Err(err).Msg("slash commands unavailable")
		}
	}

	handler, err := websocket.NewHandler(&websocket.Config{
		GameService:    svc,
		Hub:            hub,
		Messenger:      messenger,
		RateLimit:      cfg.RateLimit,
		RateBurst:      cfg.RateBurst,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         log,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("listening")
		serverErr <- server.ListenAndServe()
	}()

	// Wait for interrupt signal to gracefully shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
