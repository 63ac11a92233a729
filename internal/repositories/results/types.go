package results

import "github.com/KirkDiggler/zonk/internal/models"

type SaveResultInput struct {
	Result *models.GameResult
}

type SaveResultOutput struct {
	// ResultID is the stored ID, generated when the input had none
	ResultID string
}

type GetResultInput struct {
	ResultID string
}

type GetRecentResultsInput struct {
	// Limit defaults to DefaultLimit when not positive
	Limit int
}

type GetRoomResultsInput struct {
	RoomID string
	Limit  int
}

type GetRecentResultsOutput struct {
	Results []*models.GameResult
}
