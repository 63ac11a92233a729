package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/zonk/internal/models"
	"github.com/KirkDiggler/zonk/internal/services/messaging"
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_sender.go github.com/KirkDiggler/zonk/internal/handlers/discord Sender

// Sender posts embeds to a channel. *discordgo.Session satisfies it.
type Sender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Bot represents the Discord bot instance
type Bot struct {
	session    *discordgo.Session
	sender     Sender
	messenger  messaging.Service
	commands   map[string]CommandHandler
	commandIDs map[string]string // Maps command name to command ID
	config     *Config
	log        zerolog.Logger
}

// Config holds the configuration for the bot
type Config struct {
	// Discord bot token
	Token string

	// ChannelID receives win announcements
	ChannelID string

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// Messenger writes the announcement text
	Messenger messaging.Service

	// Sender overrides the session for channel posts
	Sender Sender

	Logger *zerolog.Logger
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}

	if cfg.ChannelID == "" {
		return nil, errors.New("channel ID cannot be empty")
	}

	if cfg.Messenger == nil {
		return nil, errors.New("messenger cannot be nil")
	}

	// Create a new Discord session
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = cfg.Logger.With().Str("component", "discord").Logger()
	}

	var sender Sender = session
	if cfg.Sender != nil {
		sender = cfg.Sender
	}

	bot := &Bot{
		session:    session,
		sender:     sender,
		messenger:  cfg.Messenger,
		commands:   make(map[string]CommandHandler),
		commandIDs: make(map[string]string),
		config:     cfg,
		log:        log,
	}

	// Register the interaction handler
	session.AddHandler(bot.handleInteraction)

	return bot, nil
}

// Start opens the Discord connection
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	b.log.Info().Str("channel_id", b.config.ChannelID).Msg("discord bot running")
	return nil
}

// Stop removes registered commands and closes the connection
func (b *Bot) Stop() error {
	appID := b.appID()

	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, b.config.GuildID, cmdID); err != nil {
			b.log.Warn().Err(err).Str("command", cmdName).Str("command_id", cmdID).Msg("failed to delete command")
		} else {
			b.log.Debug().Str("command", cmdName).Str("command_id", cmdID).Msg("deleted command")
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a slash command with Discord. Start must have
// been called first.
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	// If guild ID is provided, register command for that specific guild
	// Otherwise, register it globally
	createdCmd, err := b.session.ApplicationCommandCreate(b.appID(), b.config.GuildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID
	b.log.Info().Str("command", cmd.GetName()).Str("guild_id", b.config.GuildID).Msg("registered command")

	return nil
}

// AnnounceWin posts a finished game to the announcement channel
func (b *Bot) AnnounceWin(ctx context.Context, result *models.GameResult) error {
	if result == nil {
		return errors.New("result cannot be nil")
	}

	standings := make([]models.Standing, 0, len(result.Standings))
	winnerScore := 0
	for _, st := range result.Standings {
		if st == nil {
			continue
		}
		standings = append(standings, *st)
		if st.PlayerID == result.WinnerID {
			winnerScore = st.Score
		}
	}

	msg, err := b.messenger.GetWinMessage(ctx, &messaging.GetWinMessageInput{
		WinnerName:  result.WinnerName,
		WinnerScore: winnerScore,
		Standings:   standings,
	})
	if err != nil {
		return fmt.Errorf("failed to build win message: %w", err)
	}

	if _, err := b.sender.ChannelMessageSendEmbed(b.config.ChannelID, renderWinEmbed(result, msg)); err != nil {
		return fmt.Errorf("failed to post win to Discord: %w", err)
	}

	b.log.Debug().Str("room_id", result.RoomID).Str("result_id", result.ID).Msg("announced win")
	return nil
}

func (b *Bot) appID() string {
	if b.config.ApplicationID != "" {
		return b.config.ApplicationID
	}
	// Fall back to session user ID if application ID is not provided
	return b.session.State.User.ID
}

// handleInteraction routes slash commands to their handlers
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	h, ok := b.commands[name]
	if !ok {
		return
	}

	if err := h.Handle(s, i); err != nil {
		b.log.Warn().Err(err).Str("command", name).Msg("error handling command")
	}
}
