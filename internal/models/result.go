package models

import (
	"time"
)

// Standing is one player's final total in a finished game
type Standing struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Score      int    `json:"score"`
}

// GameResult records a finished game
type GameResult struct {
	// ID is the unique identifier for the result
	ID string `json:"id"`

	// RoomID is the room the game was played in
	RoomID string `json:"roomId"`

	// WinnerID is the connection identity of the winner
	WinnerID string `json:"winnerId"`

	// WinnerName is the display name of the winner
	WinnerName string `json:"winnerName"`

	// WinningScore is the threshold the game was played to
	WinningScore int `json:"winningScore"`

	// Standings are the final banked totals in seat order
	Standings []*Standing `json:"standings"`

	// FinishedAt is when the winning bank happened
	FinishedAt time.Time `json:"finishedAt"`
}
