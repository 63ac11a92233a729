package game

import (
	"github.com/KirkDiggler/zonk/internal/common/clock"
	"github.com/KirkDiggler/zonk/internal/models"
	"github.com/KirkDiggler/zonk/internal/registry"
	playerRepo "github.com/KirkDiggler/zonk/internal/repositories/player"
	resultsRepo "github.com/KirkDiggler/zonk/internal/repositories/results"
	"github.com/KirkDiggler/zonk/internal/services/messaging"
	"github.com/rs/zerolog"
)

const (
	// MaxNameLength is the longest display name kept, in runes
	MaxNameLength = 24

	// MaxChatLength is the longest chat line relayed, in runes
	MaxChatLength = 500
)

// Config holds configuration for the game service
type Config struct {
	// Registry owns the live rooms
	Registry *registry.Registry

	// Broadcaster delivers outbound messages
	Broadcaster Broadcaster

	// Messenger writes flavour text for events
	Messenger messaging.Service

	// Optional dependencies; nil disables the feature
	ResultsRepo resultsRepo.Repository
	PlayerRepo  playerRepo.Repository
	Announcer   Announcer

	Clock clock.Clock

	// Logger defaults to a disabled logger
	Logger *zerolog.Logger
}

// CreateRoomInput contains parameters for creating a new room
type CreateRoomInput struct {
	// ConnID is the identity of the connection creating the room
	ConnID string

	// PlayerName is the display name to seat the creator under
	PlayerName string
}

// CreateRoomOutput contains the result of creating a room
type CreateRoomOutput struct {
	RoomID string
	Game   *models.Game
}

// JoinRoomInput contains parameters for joining a room
type JoinRoomInput struct {
	ConnID     string
	RoomID     string
	PlayerName string
}

// JoinRoomOutput contains the result of joining a room
type JoinRoomOutput struct {
	Game *models.Game

	// AlreadyJoined is set when the connection was already seated
	AlreadyJoined bool
}

// StartGameInput contains parameters for starting a game
type StartGameInput struct {
	ConnID string
	RoomID string
}

// RollDiceInput contains parameters for rolling dice
type RollDiceInput struct {
	ConnID string
	RoomID string
}

// ToggleHoldInput contains parameters for holding or releasing a die
type ToggleHoldInput struct {
	ConnID string
	RoomID string

	// Index is the die position, 0 to 5
	Index int
}

// BankPointsInput contains parameters for banking
type BankPointsInput struct {
	ConnID string
	RoomID string
}

// LeaveRoomInput contains parameters for leaving a room
type LeaveRoomInput struct {
	ConnID string
	RoomID string
}

// ActionOutput is the result of a successful room mutation
type ActionOutput struct {
	Game   *models.Game
	Events []models.Event
}

// SendChatInput contains parameters for sending chat
type SendChatInput struct {
	ConnID string
	RoomID string
	Text   string
}

// SendChatOutput contains the chat line as relayed
type SendChatOutput struct {
	Message *models.ChatMessage
}

// DisconnectInput identifies a closed connection
type DisconnectInput struct {
	ConnID string
}

// GetRoomInput contains parameters for reading a room
type GetRoomInput struct {
	RoomID string
}

// GetLeaderboardInput contains parameters for reading the leaderboard
type GetLeaderboardInput struct {
	Limit int
}

// GetResultInput contains parameters for reading one finished game
type GetResultInput struct {
	ResultID string
}

// ListResultsInput contains parameters for listing finished games. An
// empty RoomID lists across every room.
type ListResultsInput struct {
	RoomID string
	Limit  int
}

// ListResultsOutput holds finished games, newest first
type ListResultsOutput struct {
	Results []*models.GameResult `json:"results"`
}

// GetPlayerStatsInput contains parameters for reading a player's stats
type GetPlayerStatsInput struct {
	PlayerName string
}
