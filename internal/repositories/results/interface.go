package results

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/zonk/internal/repositories/results Repository

import (
	"context"

	"github.com/KirkDiggler/zonk/internal/models"
)

// Repository defines the interface for finished game persistence
type Repository interface {
	// SaveResult persists a finished game
	SaveResult(ctx context.Context, input *SaveResultInput) (*SaveResultOutput, error)

	// GetResult retrieves a finished game by ID
	GetResult(ctx context.Context, input *GetResultInput) (*models.GameResult, error)

	// GetRecentResults retrieves the most recently finished games, newest first
	GetRecentResults(ctx context.Context, input *GetRecentResultsInput) (*GetRecentResultsOutput, error)

	// GetRoomResults retrieves the games finished in one room, newest first
	GetRoomResults(ctx context.Context, input *GetRoomResultsInput) (*GetRecentResultsOutput, error)
}
