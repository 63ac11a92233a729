package messaging

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/zonk/internal/services/messaging Service

// Service is the interface for the messaging service
type Service interface {
	// GetEventMessage returns a line of table talk for a game event
	GetEventMessage(ctx context.Context, input *GetEventMessageInput) (*GetEventMessageOutput, error)

	// GetErrorMessage returns a user-friendly message for an error code
	GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error)

	// GetWinMessage returns the title and body announcing a finished game
	GetWinMessage(ctx context.Context, input *GetWinMessageInput) (*GetWinMessageOutput, error)
}
