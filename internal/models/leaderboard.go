package models

import (
	"time"
)

// PlayerStats are lifetime statistics for a display name
type PlayerStats struct {
	// PlayerName is the display name the stats are kept under
	PlayerName string `json:"playerName"`

	// GamesPlayed counts finished games the player was seated in
	GamesPlayed int `json:"gamesPlayed"`

	// Wins counts finished games the player won
	Wins int `json:"wins"`

	// BestScore is the highest final total
	BestScore int `json:"bestScore"`

	// LastPlayedAt is when the player last finished a game
	LastPlayedAt time.Time `json:"lastPlayedAt"`
}

// Leaderboard ranks players by wins
type Leaderboard struct {
	Entries []*PlayerStats `json:"entries"`
}
