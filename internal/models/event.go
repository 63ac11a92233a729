package models

// EventType names a discrete game notification
type EventType string

const (
	EventPlayerJoined EventType = "player_joined"
	EventPlayerLeft   EventType = "player_left"
	EventGameStarted  EventType = "game_started"
	EventZonk         EventType = "zonk"
	EventZonkPenalty  EventType = "zonk_penalty"
	EventHotDice      EventType = "hot_dice"
	EventBanked       EventType = "banked"
	EventWin          EventType = "win"
)

// Event is a discrete notification broadcast alongside a snapshot
type Event struct {
	// Type is what happened
	Type EventType `json:"type"`

	// PlayerID is who it happened to
	PlayerID string `json:"playerId,omitempty"`

	// PlayerName is the display name of PlayerID at the time
	PlayerName string `json:"playerName,omitempty"`

	// Points is the amount banked, lost or deducted
	Points int `json:"points,omitempty"`

	// Score is the player's banked total after the event
	Score int `json:"score,omitempty"`

	// Dice are the values that caused the event, e.g. a zonking roll
	Dice []int `json:"dice,omitempty"`

	// Message is human readable flavour text
	Message string `json:"message,omitempty"`
}
