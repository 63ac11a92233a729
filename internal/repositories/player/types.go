package player

import "time"

// RecordGameInput contains one player's outcome of a finished game
type RecordGameInput struct {
	PlayerName string
	Score      int
	Won        bool
	PlayedAt   time.Time
}

// GetPlayerStatsInput contains parameters for retrieving a player's stats
type GetPlayerStatsInput struct {
	PlayerName string
}

// GetLeaderboardInput contains parameters for retrieving the leaderboard
type GetLeaderboardInput struct {
	// Limit defaults to DefaultLimit when not positive
	Limit int
}
