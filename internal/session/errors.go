package session

// GameError is a custom error type for session errors
type GameError string

// Error implements the error interface
func (e GameError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrRoomFull         GameError = "room is full"
	ErrNotEnoughPlayers GameError = "not enough players to start"
	ErrNotCreator       GameError = "only the room creator can start the game"
	ErrNotYourTurn      GameError = "it is not your turn"
	ErrInvalidAction    GameError = "action not allowed right now"
	ErrCannotBank       GameError = "round score is too low to bank"
	ErrPlayerNotInGame  GameError = "player not in game"
	ErrNilConfig        GameError = "config cannot be nil"
	ErrNilRoller        GameError = "dice roller cannot be nil"
	ErrEmptyRoomID      GameError = "room ID cannot be empty"
)
