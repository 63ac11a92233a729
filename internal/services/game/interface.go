package game

import (
	"context"

	"github.com/KirkDiggler/zonk/internal/models"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/zonk/internal/services/game Service,Broadcaster,Announcer

// Service translates player actions into room mutations and fans the
// results out to every connection in the room. Failures are returned to
// the caller and never broadcast.
type Service interface {
	// CreateRoom opens a new room seated with the caller
	CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error)

	// JoinRoom seats the caller in an existing room
	JoinRoom(ctx context.Context, input *JoinRoomInput) (*JoinRoomOutput, error)

	// StartGame moves a waiting room into play
	StartGame(ctx context.Context, input *StartGameInput) (*ActionOutput, error)

	// RollDice throws the caller's unheld dice
	RollDice(ctx context.Context, input *RollDiceInput) (*ActionOutput, error)

	// ToggleHold flips whether one of the caller's dice is held
	ToggleHold(ctx context.Context, input *ToggleHoldInput) (*ActionOutput, error)

	// BankPoints adds the caller's round score to their total
	BankPoints(ctx context.Context, input *BankPointsInput) (*ActionOutput, error)

	// LeaveRoom unseats the caller from one room
	LeaveRoom(ctx context.Context, input *LeaveRoomInput) (*ActionOutput, error)

	// SendChat relays a line of chat to the room
	SendChat(ctx context.Context, input *SendChatInput) (*SendChatOutput, error)

	// Disconnect unseats a connection from every room it joined
	Disconnect(ctx context.Context, input *DisconnectInput) error

	// GetRoom returns a room's current state
	GetRoom(ctx context.Context, input *GetRoomInput) (*models.Game, error)

	// GetLeaderboard returns lifetime standings
	GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*models.Leaderboard, error)

	// GetResult returns one finished game
	GetResult(ctx context.Context, input *GetResultInput) (*models.GameResult, error)

	// ListResults returns recently finished games, optionally for one room
	ListResults(ctx context.Context, input *ListResultsInput) (*ListResultsOutput, error)

	// GetPlayerStats returns one player's lifetime stats
	GetPlayerStats(ctx context.Context, input *GetPlayerStatsInput) (*models.PlayerStats, error)

	// RoomCount returns the number of live rooms
	RoomCount() int
}

// Broadcaster delivers outbound messages to connections. Implementations
// must not block on a slow connection.
type Broadcaster interface {
	// Join adds a connection to a room's audience
	Join(roomID, connID string)

	// Leave removes a connection from a room's audience
	Leave(roomID, connID string)

	// Broadcast sends msg to every connection in the room
	Broadcast(roomID string, msg *models.Message)

	// Send sends msg to a single connection
	Send(connID string, msg *models.Message)
}

// Announcer publishes finished games outside the room, e.g. to a chat channel
type Announcer interface {
	AnnounceWin(ctx context.Context, result *models.GameResult) error
}
