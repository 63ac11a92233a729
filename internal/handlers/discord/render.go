package discord

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KirkDiggler/zonk/internal/models"
	"github.com/KirkDiggler/zonk/internal/services/messaging"
	"github.com/bwmarrin/discordgo"
)

// Embed colors
const (
	colorWin     = 0xffd700 // Gold
	colorInfo    = 0x3498db // Blue
	colorWaiting = 0x95a5a6 // Grey
	colorPlaying = 0x00ff00 // Green
)

// dieFaces renders die values; index 0 is an unrolled die
var dieFaces = [...]string{"▫️", "1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣"}

// renderWinEmbed renders the announcement for a finished game
func renderWinEmbed(result *models.GameResult, msg *messaging.GetWinMessageOutput) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       msg.Title,
		Description: msg.Message,
		Color:       colorWin,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Room",
				Value:  result.RoomID,
				Inline: true,
			},
			{
				Name:   "Target",
				Value:  fmt.Sprintf("%d", result.WinningScore),
				Inline: true,
			},
		},
	}

	if !result.FinishedAt.IsZero() {
		embed.Timestamp = result.FinishedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}

	if result.ID != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: "Result " + result.ID,
		}
	}

	return embed
}

// renderLeaderboardEmbed renders lifetime standings
func renderLeaderboardEmbed(board *models.Leaderboard) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🏆 Zonk Leaderboard",
		Color: colorInfo,
	}

	if board == nil || len(board.Entries) == 0 {
		embed.Description = "No games finished yet. Go roll some dice!"
		return embed
	}

	var b strings.Builder
	for i, entry := range board.Entries {
		medal := ""
		switch i {
		case 0:
			medal = "🥇 "
		case 1:
			medal = "🥈 "
		case 2:
			medal = "🥉 "
		}
		fmt.Fprintf(&b, "%s**%d. %s**: %d %s, best %d (%d played)\n",
			medal, i+1, entry.PlayerName, entry.Wins, plural(entry.Wins, "win", "wins"), entry.BestScore, entry.GamesPlayed)
	}
	embed.Description = b.String()

	return embed
}

// renderStatsEmbed renders one player's lifetime stats
func renderStatsEmbed(stats *models.PlayerStats) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🎲 %s", stats.PlayerName),
		Color: colorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Wins",
				Value:  fmt.Sprintf("%d", stats.Wins),
				Inline: true,
			},
			{
				Name:   "Played",
				Value:  fmt.Sprintf("%d", stats.GamesPlayed),
				Inline: true,
			},
			{
				Name:   "Best",
				Value:  fmt.Sprintf("%d", stats.BestScore),
				Inline: true,
			},
		},
	}

	if stats.GamesPlayed > 0 {
		embed.Description = fmt.Sprintf("Wins %d%% of games", stats.Wins*100/stats.GamesPlayed)
	}

	if !stats.LastPlayedAt.IsZero() {
		embed.Timestamp = stats.LastPlayedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}

	return embed
}

// renderResultsEmbed lists finished games, newest first
func renderResultsEmbed(results []*models.GameResult) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "📜 Recent Games",
		Color: colorInfo,
	}

	if len(results) == 0 {
		embed.Description = "No games finished yet. Go roll some dice!"
		return embed
	}

	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "**%s** won in %s with %d", r.WinnerName, r.RoomID, winnerScore(r))
		if !r.FinishedAt.IsZero() {
			fmt.Fprintf(&b, " <t:%d:R>", r.FinishedAt.Unix())
		}
		b.WriteString("\n")
	}
	embed.Description = b.String()

	return embed
}

func winnerScore(r *models.GameResult) int {
	for _, st := range r.Standings {
		if st.PlayerID == r.WinnerID {
			return st.Score
		}
	}
	return r.WinningScore
}

// renderRoomEmbed renders a live room's scoreboard
func renderRoomEmbed(game *models.Game) *discordgo.MessageEmbed {
	color := colorPlaying
	if game.Status.IsWaiting() {
		color = colorWaiting
	} else if game.Status.IsFinished() {
		color = colorWin
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Room %s", game.RoomID),
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Status",
				Value:  string(game.Status),
				Inline: true,
			},
			{
				Name:   "Players",
				Value:  fmt.Sprintf("%d", len(game.Players)),
				Inline: true,
			},
			{
				Name:   "Target",
				Value:  fmt.Sprintf("%d", game.WinningScore),
				Inline: true,
			},
		},
	}

	players := append([]*models.Player(nil), game.Players...)
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Score > players[j].Score
	})

	current := game.CurrentPlayer()

	var b strings.Builder
	for _, p := range players {
		marker := ""
		if game.Status.IsPlaying() && current != nil && current.ID == p.ID {
			marker = " 🎲"
		}
		fmt.Fprintf(&b, "**%s**: %d%s\n", p.Name, p.Score, marker)
	}
	if b.Len() > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Scores",
			Value: b.String(),
		})
	}

	if game.Status.IsPlaying() && current != nil && !current.FirstRoll {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%s is rolling (%d on the table)", current.Name, current.RoundScore),
			Value: renderDice(current),
		})
	}

	if game.Winner != nil {
		embed.Description = fmt.Sprintf("🏆 %s won with %d points", game.Winner.Name, game.Winner.Score)
	}

	return embed
}

// renderDice shows the pool with held dice in brackets
func renderDice(p *models.Player) string {
	parts := make([]string, len(p.Dice))
	for i, v := range p.Dice {
		face := dieFaces[0]
		if v >= 1 && v <= 6 {
			face = dieFaces[v]
		}
		if p.Held[i] {
			face = "[" + face + "]"
		}
		parts[i] = face
	}
	return strings.Join(parts, " ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
