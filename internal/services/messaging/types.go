package messaging

import (
	"github.com/KirkDiggler/zonk/internal/models"
)

// MessageTone represents the tone of a message
type MessageTone string

const (
	// ToneNeutral is a neutral tone
	ToneNeutral MessageTone = "neutral"

	// ToneFunny is a humorous tone
	ToneFunny MessageTone = "funny"

	// ToneCelebration is a celebratory tone
	ToneCelebration MessageTone = "celebration"
)

// GetEventMessageInput contains parameters for getting an event message
type GetEventMessageInput struct {
	// Event is the game event to describe
	Event models.Event

	// PreferredTone is the preferred tone for the message (optional)
	PreferredTone MessageTone
}

// GetEventMessageOutput contains the result of getting an event message
type GetEventMessageOutput struct {
	// Message is the generated message
	Message string

	// Tone is the tone of the message
	Tone MessageTone
}

// GetErrorMessageInput contains parameters for getting an error message
type GetErrorMessageInput struct {
	// Code is the wire error code, e.g. NOT_YOUR_TURN
	Code string
}

// GetErrorMessageOutput contains the result of getting an error message
type GetErrorMessageOutput struct {
	Message string
}

// GetWinMessageInput is the input for GetWinMessage
type GetWinMessageInput struct {
	WinnerName  string
	WinnerScore int

	// Standings are every player's final banked score, any order
	Standings []models.Standing
}

// GetWinMessageOutput is the output for GetWinMessage
type GetWinMessageOutput struct {
	Title   string
	Message string
}

// ServiceConfig contains configuration for the messaging service
type ServiceConfig struct {
	// Seed fixes message selection for tests; zero seeds from the clock
	Seed int64
}
