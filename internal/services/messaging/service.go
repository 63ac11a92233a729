package messaging

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/KirkDiggler/zonk/internal/models"
)

// service implements the Service interface
type service struct {
	// Random number generator for selecting random messages
	mu   sync.Mutex
	rand *rand.Rand
}

// NewService creates a new messaging service
func NewService(config *ServiceConfig) (Service, error) {
	seed := time.Now().UnixNano()
	if config != nil && config.Seed != 0 {
		seed = config.Seed
	}

	return &service{
		rand: rand.New(rand.NewSource(seed)),
	}, nil
}

// pick returns a random entry of messages
func (s *service) pick(messages []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return messages[s.rand.Intn(len(messages))]
}

// GetEventMessage returns a line of table talk for a game event
func (s *service) GetEventMessage(ctx context.Context, input *GetEventMessageInput) (*GetEventMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	tone := input.PreferredTone
	if tone == "" {
		tone = ToneFunny
	}

	e := input.Event
	name := e.PlayerName

	var messages []string
	switch e.Type {
	case models.EventPlayerJoined:
		messages = []string{
			fmt.Sprintf("%s pulls up a chair.", name),
			fmt.Sprintf("%s has entered the room. Hide your dice.", name),
			fmt.Sprintf("Welcome, %s! The sixes are warm.", name),
		}

	case models.EventPlayerLeft:
		if e.Score > 0 {
			messages = []string{
				fmt.Sprintf("%s walks away with %d points and their dignity.", name, e.Score),
				fmt.Sprintf("%s cashes out at %d. Bold.", name, e.Score),
			}
		} else {
			messages = []string{
				fmt.Sprintf("%s has left the table.", name),
				fmt.Sprintf("%s slipped out the back. Nobody saw anything.", name),
			}
		}

	case models.EventGameStarted:
		messages = []string{
			fmt.Sprintf("Dice are hot! %s rolls first.", name),
			fmt.Sprintf("Game on. %s, you're up.", name),
			fmt.Sprintf("Let's roll. First up: %s.", name),
		}

	case models.EventZonk:
		if e.Points >= 500 {
			messages = []string{
				fmt.Sprintf("ZONK! %s just watched %d points evaporate.", name, e.Points),
				fmt.Sprintf("Oof. %s gambled %d points and the dice said no.", name, e.Points),
				fmt.Sprintf("%s pushed their luck and %d points pushed back. ZONK!", name, e.Points),
			}
		} else {
			messages = []string{
				fmt.Sprintf("ZONK! Nothing for %s.", name),
				fmt.Sprintf("%s rolls... and zonks. Next!", name),
				fmt.Sprintf("The dice have spoken, %s. They said ZONK.", name),
			}
		}

	case models.EventZonkPenalty:
		messages = []string{
			fmt.Sprintf("Zonk streak! %s pays %d points to the house.", name, e.Points),
			fmt.Sprintf("%s zonked one too many times and loses %d points.", name, e.Points),
		}

	case models.EventHotDice:
		messages = []string{
			fmt.Sprintf("HOT DICE! %s scores with all six and rolls again holding %d.", name, e.Points),
			fmt.Sprintf("Every die counts! %s gets a fresh six at %d.", name, e.Points),
			fmt.Sprintf("%s is on fire. Hot dice with %d on the table!", name, e.Points),
		}

	case models.EventBanked:
		if e.Points >= 1000 {
			messages = []string{
				fmt.Sprintf("%s banks a monster %d! Now at %d.", name, e.Points, e.Score),
				fmt.Sprintf("Cha-ching! %s stashes %d points.", name, e.Points),
			}
		} else {
			messages = []string{
				fmt.Sprintf("%s banks %d and plays it safe. Total: %d.", name, e.Points, e.Score),
				fmt.Sprintf("%d points into the vault for %s.", e.Points, name),
				fmt.Sprintf("%s takes the %d and runs.", name, e.Points),
			}
		}

	case models.EventWin:
		tone = ToneCelebration
		messages = []string{
			fmt.Sprintf("%s wins with %d points!", name, e.Score),
			fmt.Sprintf("Game over! %s takes it at %d.", name, e.Score),
			fmt.Sprintf("All hail %s, champion of the dice, with %d points!", name, e.Score),
		}

	default:
		return &GetEventMessageOutput{Tone: ToneNeutral}, nil
	}

	if tone == ToneNeutral {
		return &GetEventMessageOutput{
			Message: messages[0],
			Tone:    tone,
		}, nil
	}

	return &GetEventMessageOutput{
		Message: s.pick(messages),
		Tone:    tone,
	}, nil
}

// errorMessages are shown to the player whose action failed
var errorMessages = map[string]string{
	"ROOM_NOT_FOUND":     "That room doesn't exist. Double-check the code?",
	"ROOM_FULL":          "That table is full. Try another room.",
	"NOT_ENOUGH_PLAYERS": "You need at least two players to start.",
	"NOT_CREATOR":        "Only the player who created the room can start the game.",
	"NOT_YOUR_TURN":      "Hold your horses, it's not your turn.",
	"INVALID_ACTION":     "You can't do that right now.",
	"CANNOT_BANK":        "Not enough points to bank yet. Keep rolling or hold some scoring dice.",
	"INVALID_INPUT":      "That request didn't make sense.",
	"PLAYER_NOT_IN_GAME": "You're not seated at this table.",
	"RATE_LIMITED":       "Slow down! Too many actions at once.",
	"RESULT_NOT_FOUND":   "No finished game with that ID.",
	"PLAYER_NOT_FOUND":   "Nobody by that name has finished a game here yet.",
	"UNAVAILABLE":        "History and stats are not being kept on this server.",
}

// GetErrorMessage returns a user-friendly error message
func (s *service) GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	message, ok := errorMessages[input.Code]
	if !ok {
		message = "Something went wrong. Please try again."
	}

	return &GetErrorMessageOutput{
		Message: message,
	}, nil
}

// GetWinMessage returns the title and body announcing a finished game
func (s *service) GetWinMessage(ctx context.Context, input *GetWinMessageInput) (*GetWinMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	titles := []string{
		"We Have a Winner!",
		"Game Over!",
		"Dice Master Crowned!",
	}

	standings := append([]models.Standing(nil), input.Standings...)
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})

	var b strings.Builder
	fmt.Fprintf(&b, "%s wins with %d points!", input.WinnerName, input.WinnerScore)
	for i, st := range standings {
		if i == 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "\n%d. %s: %d", i+1, st.PlayerName, st.Score)
	}

	return &GetWinMessageOutput{
		Title:   s.pick(titles),
		Message: b.String(),
	}, nil
}
