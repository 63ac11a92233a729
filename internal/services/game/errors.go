package game

import (
	"errors"

	"github.com/KirkDiggler/zonk/internal/registry"
	"github.com/KirkDiggler/zonk/internal/session"
)

// GameError is a custom error type for game-related errors
type GameError string

// Error implements the error interface
func (e GameError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrInvalidInput    GameError = "invalid input"
	ErrRateLimited     GameError = "rate limited"
	ErrStatsDisabled   GameError = "player stats are not enabled"
	ErrHistoryDisabled GameError = "game history is not enabled"
	ErrResultNotFound  GameError = "result not found"
	ErrPlayerNotFound  GameError = "player not found"
	ErrNilConfig       GameError = "config cannot be nil"
	ErrNilRegistry     GameError = "registry cannot be nil"
	ErrNilBroadcaster  GameError = "broadcaster cannot be nil"
)

// Wire error codes
const (
	CodeRoomNotFound     = "ROOM_NOT_FOUND"
	CodeRoomFull         = "ROOM_FULL"
	CodeNotEnoughPlayers = "NOT_ENOUGH_PLAYERS"
	CodeNotCreator       = "NOT_CREATOR"
	CodeNotYourTurn      = "NOT_YOUR_TURN"
	CodeInvalidAction    = "INVALID_ACTION"
	CodeCannotBank       = "CANNOT_BANK"
	CodeInvalidInput     = "INVALID_INPUT"
	CodePlayerNotInGame  = "PLAYER_NOT_IN_GAME"
	CodeResultNotFound   = "RESULT_NOT_FOUND"
	CodePlayerNotFound   = "PLAYER_NOT_FOUND"
	CodeUnavailable      = "UNAVAILABLE"
	CodeRateLimited      = "RATE_LIMITED"
	CodeInternal         = "INTERNAL"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{registry.ErrRoomNotFound, CodeRoomNotFound},
	{session.ErrRoomFull, CodeRoomFull},
	{session.ErrNotEnoughPlayers, CodeNotEnoughPlayers},
	{session.ErrNotCreator, CodeNotCreator},
	{session.ErrNotYourTurn, CodeNotYourTurn},
	{session.ErrInvalidAction, CodeInvalidAction},
	{session.ErrCannotBank, CodeCannotBank},
	{session.ErrPlayerNotInGame, CodePlayerNotInGame},
	{ErrInvalidInput, CodeInvalidInput},
	{ErrResultNotFound, CodeResultNotFound},
	{ErrPlayerNotFound, CodePlayerNotFound},
	{ErrStatsDisabled, CodeUnavailable},
	{ErrHistoryDisabled, CodeUnavailable},
	{ErrRateLimited, CodeRateLimited},
}

// ErrorCode maps an action failure to its wire code. Anything unrecognised
// is INTERNAL.
func ErrorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return CodeInternal
}

// IsClientError reports whether err was caused by the request rather than the server
func IsClientError(err error) bool {
	code := ErrorCode(err)
	return code != CodeInternal && code != CodeUnavailable
}
