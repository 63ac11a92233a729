package session

import (
	"fmt"

	"github.com/KirkDiggler/zonk/internal/models"
	"github.com/KirkDiggler/zonk/internal/scoring"
)

// defaultPool is what a player's dice show before their first roll of a turn
var defaultPool = scoring.Pool{6, 6, 6, 6, 6, 6}

// turnState is one seated player's mutable round data
type turnState struct {
	id   string
	name string

	banked     int
	roundScore int

	// carry is the round score locked in by hot dice earlier this turn.
	// roundScore == carry + scoring.Score(dice, held) at all times.
	carry int

	dice       scoring.Pool
	held       scoring.Mask
	diceToRoll int
	firstRoll  bool
	hotDice    bool
	zonkStreak int
}

func newTurnState(id, name string) *turnState {
	t := &turnState{
		id:   id,
		name: name,
	}
	t.reset()
	return t
}

// reset prepares the player for the start of a turn
func (t *turnState) reset() {
	t.dice = defaultPool
	t.held = scoring.Mask{}
	t.diceToRoll = scoring.PoolSize
	t.firstRoll = true
	t.hotDice = false
	t.carry = 0
	t.roundScore = 0
}

// freshRoll reports whether the next roll throws all six dice
func (t *turnState) freshRoll() bool {
	return t.firstRoll || t.hotDice
}

func (t *turnState) recompute() {
	t.roundScore = t.carry + scoring.Score(t.dice, t.held)
}

func (t *turnState) snapshot() *models.Player {
	return &models.Player{
		ID:         t.id,
		Name:       t.name,
		Score:      t.banked,
		RoundScore: t.roundScore,
		Carry:      t.carry,
		Dice:       t.dice,
		Held:       t.held,
		DiceToRoll: t.diceToRoll,
		FirstRoll:  t.firstRoll,
		HotDice:    t.hotDice,
		ZonkStreak: t.zonkStreak,
	}
}

// defaultName names a player who joined without one after their seat
func defaultName(seat int) string {
	return fmt.Sprintf("Player %d", seat)
}
