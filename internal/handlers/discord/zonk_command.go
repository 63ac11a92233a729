package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/zonk/internal/services/game"
	"github.com/KirkDiggler/zonk/internal/services/messaging"
	"github.com/bwmarrin/discordgo"
)

// Subcommands of /zonk
const (
	SubcommandLeaderboard = "leaderboard"
	SubcommandRoom        = "room"
	SubcommandStats       = "stats"
	SubcommandRecent      = "recent"
)

// ZonkCommand answers read-only questions about the game server
type ZonkCommand struct {
	BaseCommand
	gameService game.Service
	messenger   messaging.Service
}

// reply is a subcommand's answer: an embed, or ephemeral text when Embed is nil
type reply struct {
	Embed *discordgo.MessageEmbed
	Text  string
}

// NewZonkCommand creates the /zonk command
func NewZonkCommand(gameService game.Service, messenger messaging.Service) *ZonkCommand {
	return &ZonkCommand{
		BaseCommand: BaseCommand{
			Name:        "zonk",
			Description: "Zonk leaderboard, rooms and history",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        SubcommandLeaderboard,
					Description: "Show the all-time leaderboard",
					Options:     []*discordgo.ApplicationCommandOption{limitOption("How many players to show")},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        SubcommandRoom,
					Description: "Peek at a live room",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "code",
							Description: "The six character room code",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        SubcommandStats,
					Description: "Show a player's lifetime stats",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "The display name they play under",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        SubcommandRecent,
					Description: "List recently finished games",
					Options: []*discordgo.ApplicationCommandOption{
						limitOption("How many games to show"),
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "code",
							Description: "Only games from this room",
						},
					},
				},
			},
		},
		gameService: gameService,
		messenger:   messenger,
	}
}

func limitOption(description string) *discordgo.ApplicationCommandOption {
	minLimit := float64(1)
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "limit",
		Description: description,
		MinValue:    &minLimit,
		MaxValue:    25,
	}
}

// Handle processes the command
func (c *ZonkCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return RespondWithEphemeralMessage(s, i, "Try /zonk leaderboard, /zonk room <code>, /zonk stats <name> or /zonk recent.")
	}

	r := c.answer(context.Background(), options[0])
	if r.Embed != nil {
		return RespondWithEmbed(s, i, r.Embed)
	}
	return RespondWithEphemeralMessage(s, i, r.Text)
}

// answer resolves one subcommand
func (c *ZonkCommand) answer(ctx context.Context, sub *discordgo.ApplicationCommandInteractionDataOption) reply {
	limit := 0
	code := ""
	name := ""
	for _, opt := range sub.Options {
		switch opt.Name {
		case "limit":
			limit = int(opt.IntValue())
		case "code":
			code = opt.StringValue()
		case "name":
			name = opt.StringValue()
		}
	}

	switch sub.Name {
	case SubcommandLeaderboard:
		board, err := c.gameService.GetLeaderboard(ctx, &game.GetLeaderboardInput{Limit: limit})
		if err != nil {
			return c.failure(ctx, err)
		}
		return reply{Embed: renderLeaderboardEmbed(board)}

	case SubcommandRoom:
		g, err := c.gameService.GetRoom(ctx, &game.GetRoomInput{RoomID: code})
		if err != nil {
			return c.failure(ctx, err)
		}
		return reply{Embed: renderRoomEmbed(g)}

	case SubcommandStats:
		stats, err := c.gameService.GetPlayerStats(ctx, &game.GetPlayerStatsInput{PlayerName: name})
		if err != nil {
			return c.failure(ctx, err)
		}
		return reply{Embed: renderStatsEmbed(stats)}

	case SubcommandRecent:
		out, err := c.gameService.ListResults(ctx, &game.ListResultsInput{RoomID: code, Limit: limit})
		if err != nil {
			return c.failure(ctx, err)
		}
		return reply{Embed: renderResultsEmbed(out.Results)}

	default:
		return reply{Text: fmt.Sprintf("Unknown subcommand %q.", sub.Name)}
	}
}

func (c *ZonkCommand) failure(ctx context.Context, err error) reply {
	if errors.Is(err, game.ErrStatsDisabled) || errors.Is(err, game.ErrHistoryDisabled) {
		return reply{Text: "Stats are not being kept on this server."}
	}
	return reply{Text: c.errorText(ctx, err)}
}

func (c *ZonkCommand) errorText(ctx context.Context, err error) string {
	out, msgErr := c.messenger.GetErrorMessage(ctx, &messaging.GetErrorMessageInput{
		Code: game.ErrorCode(err),
	})
	if msgErr != nil {
		return "Something went wrong."
	}
	return out.Message
}
