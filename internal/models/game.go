package models

import (
	"time"
)

// GameStatus represents the current state of a game
type GameStatus string

const (
	// GameStatusWaiting indicates a game is waiting for players to join
	GameStatusWaiting GameStatus = "waiting"

	// GameStatusPlaying indicates a game is in progress
	GameStatusPlaying GameStatus = "playing"

	// GameStatusFinished indicates a player reached the winning score
	GameStatusFinished GameStatus = "finished"
)

// IsWaiting reports whether the game is still gathering players
func (s GameStatus) IsWaiting() bool {
	return s == GameStatusWaiting
}

// IsPlaying reports whether turns are being taken
func (s GameStatus) IsPlaying() bool {
	return s == GameStatusPlaying
}

// IsFinished reports whether the game has a winner
func (s GameStatus) IsFinished() bool {
	return s == GameStatusFinished
}

// Winner identifies the player who won a finished game
type Winner struct {
	// ID is the connection-derived identity of the winner
	ID string `json:"id"`

	// Name is the winner's display name
	Name string `json:"name"`

	// Score is the winner's banked total
	Score int `json:"score"`
}

// Game is an immutable snapshot of a room's state
type Game struct {
	// RoomID is the unique identifier for the room
	RoomID string `json:"roomId"`

	// Players in turn order. Players[0] created the room.
	Players []*Player `json:"players"`

	// CurrentPlayerIndex points into Players
	CurrentPlayerIndex int `json:"currentPlayerIndex"`

	// Status is the current state of the game
	Status GameStatus `json:"status"`

	// Winner is set only when Status is finished
	Winner *Winner `json:"winner,omitempty"`

	// WinningScore is the banked total that ends the game
	WinningScore int `json:"winningScore"`

	// Version increases with every successful mutation
	Version uint64 `json:"version"`

	// CreatedAt is when the room was created
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the room last changed
	UpdatedAt time.Time `json:"updatedAt"`
}

// CurrentPlayer returns the player whose turn it is, or nil for an empty room
func (g *Game) CurrentPlayer() *Player {
	if g == nil || g.CurrentPlayerIndex < 0 || g.CurrentPlayerIndex >= len(g.Players) {
		return nil
	}
	return g.Players[g.CurrentPlayerIndex]
}

// PlayerByID returns the seated player with the given identity
func (g *Game) PlayerByID(id string) *Player {
	if g == nil {
		return nil
	}
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}
