package player

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/zonk/internal/repositories/player Repository

import (
	"context"

	"github.com/KirkDiggler/zonk/internal/models"
)

// Repository defines the interface for lifetime player statistics.
// Players are keyed by display name, compared case-insensitively.
type Repository interface {
	// RecordGame folds one finished game into a player's stats
	RecordGame(ctx context.Context, input *RecordGameInput) (*models.PlayerStats, error)

	// GetPlayerStats retrieves a player's stats by display name
	GetPlayerStats(ctx context.Context, input *GetPlayerStatsInput) (*models.PlayerStats, error)

	// GetLeaderboard returns players ranked by wins
	GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*models.Leaderboard, error)
}
