package models

// Player is a seated player as seen in a snapshot
type Player struct {
	// ID is the connection-derived identity of the player
	ID string `json:"id"`

	// Name is the display name of the player
	Name string `json:"name"`

	// Score is the banked total
	Score int `json:"score"`

	// RoundScore is what the player would bank right now
	RoundScore int `json:"roundScore"`

	// Carry is the part of RoundScore locked in by earlier hot dice this turn
	Carry int `json:"carry"`

	// Dice are the six die values, position-stable across a turn
	Dice [6]int `json:"dice"`

	// Held marks dice set aside for scoring
	Held [6]bool `json:"held"`

	// DiceToRoll is how many dice the next roll throws
	DiceToRoll int `json:"diceToRoll"`

	// FirstRoll is true until the player rolls in the current turn
	FirstRoll bool `json:"firstRoll"`

	// HotDice is true when the next roll is a bonus roll of all six dice
	HotDice bool `json:"hotDice"`

	// ZonkStreak counts consecutive zonks since the last bank
	ZonkStreak int `json:"zonkStreak"`
}
