// Package session holds the per-room Zonk state machine.
//
// A Session is not safe for concurrent use. Callers serialise access per
// room; see the registry package.
package session

import (
	"time"

	"github.com/KirkDiggler/zonk/internal/common/clock"
	"github.com/KirkDiggler/zonk/internal/dice"
	"github.com/KirkDiggler/zonk/internal/models"
	"github.com/KirkDiggler/zonk/internal/scoring"
)

// Rules are the tunable parts of a game
type Rules struct {
	// MaxPlayers is the seat count of a room
	MaxPlayers int

	// WinningScore is the banked total that ends the game
	WinningScore int

	// ZonkStreakLimit is the number of consecutive zonks that triggers ZonkPenalty
	ZonkStreakLimit int

	// ZonkPenalty is deducted from the banked score after a zonk streak. Zero disables it.
	ZonkPenalty int

	// OpeningScore is the round score needed to bank for the first time
	OpeningScore int
}

// DefaultRules returns four seats, a 1000 point target and no zonk penalty
func DefaultRules() Rules {
	return Rules{
		MaxPlayers:      4,
		WinningScore:    1000,
		ZonkStreakLimit: 3,
		ZonkPenalty:     0,
		OpeningScore:    scoring.OpeningMinimum,
	}
}

// Config holds configuration for a session
type Config struct {
	// RoomID is the unique, immutable room identifier
	RoomID string

	// Rules for this room; zero values fall back to DefaultRules
	Rules Rules

	// DiceRoller draws die values
	DiceRoller dice.Roller

	// Clock stamps snapshots; defaults to the system clock
	Clock clock.Clock
}

// Outcome is the result of a successful action
type Outcome struct {
	// Game is the state after the action
	Game *models.Game

	// Events are the discrete notifications the action produced, in order
	Events []models.Event
}

// Session is the room-level state machine
type Session struct {
	id     string
	rules  Rules
	roller dice.Roller
	clock  clock.Clock

	players []*turnState
	current int
	status  models.GameStatus
	winner  *models.Winner

	version   uint64
	createdAt time.Time
	updatedAt time.Time
}

// New creates a session in the waiting state with no players
func New(cfg *Config) (*Session, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.RoomID == "" {
		return nil, ErrEmptyRoomID
	}

	if cfg.DiceRoller == nil {
		return nil, ErrNilRoller
	}

	clk := cfg.Clock
	if clk == nil {
		clk = &clock.DefaultClock{}
	}

	rules := cfg.Rules
	defaults := DefaultRules()
	if rules.MaxPlayers <= 0 {
		rules.MaxPlayers = defaults.MaxPlayers
	}
	if rules.WinningScore <= 0 {
		rules.WinningScore = defaults.WinningScore
	}
	if rules.ZonkStreakLimit <= 0 {
		rules.ZonkStreakLimit = defaults.ZonkStreakLimit
	}
	if rules.ZonkPenalty < 0 {
		rules.ZonkPenalty = 0
	}
	if rules.OpeningScore <= 0 {
		rules.OpeningScore = defaults.OpeningScore
	}

	now := clk.Now()

	return &Session{
		id:        cfg.RoomID,
		rules:     rules,
		roller:    cfg.DiceRoller,
		clock:     clk,
		players:   make([]*turnState, 0, rules.MaxPlayers),
		status:    models.GameStatusWaiting,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ID returns the room identifier
func (s *Session) ID() string {
	return s.id
}

// Status returns the current game status
func (s *Session) Status() models.GameStatus {
	return s.status
}

// Rules returns the rules the session was created with
func (s *Session) Rules() Rules {
	return s.rules
}

// Len returns the number of seated players
func (s *Session) Len() int {
	return len(s.players)
}

// IsEmpty reports whether nobody is seated
func (s *Session) IsEmpty() bool {
	return len(s.players) == 0
}

// PlayerName returns the display name of a seated player
func (s *Session) PlayerName(playerID string) (string, bool) {
	if i := s.indexOf(playerID); i >= 0 {
		return s.players[i].name, true
	}
	return "", false
}

// Snapshot returns a deep copy of the current state
func (s *Session) Snapshot() *models.Game {
	players := make([]*models.Player, len(s.players))
	for i, p := range s.players {
		players[i] = p.snapshot()
	}

	var winner *models.Winner
	if s.winner != nil {
		w := *s.winner
		winner = &w
	}

	return &models.Game{
		RoomID:             s.id,
		Players:            players,
		CurrentPlayerIndex: s.current,
		Status:             s.status,
		Winner:             winner,
		WinningScore:       s.rules.WinningScore,
		Version:            s.version,
		CreatedAt:          s.createdAt,
		UpdatedAt:          s.updatedAt,
	}
}

// AddPlayer seats a player. Re-joining with a seated identity changes
// nothing and produces no events. A game in play that every player has
// left reopens as a fresh lobby with the joiner as its creator.
func (s *Session) AddPlayer(playerID, name string) (*Outcome, error) {
	if s.status.IsPlaying() && len(s.players) == 0 {
		s.reopen()
	}

	if !s.status.IsWaiting() {
		return nil, ErrInvalidAction
	}

	if s.indexOf(playerID) >= 0 {
		return s.outcome(), nil
	}

	if len(s.players) >= s.rules.MaxPlayers {
		return nil, ErrRoomFull
	}

	if name == "" {
		name = defaultName(len(s.players) + 1)
	}

	p := newTurnState(playerID, name)
	s.players = append(s.players, p)
	s.touch()

	return s.outcome(models.Event{
		Type:       models.EventPlayerJoined,
		PlayerID:   p.id,
		PlayerName: p.name,
	}), nil
}

// Start moves a waiting game into play. Only the creator may start it and
// at least two players must be seated.
func (s *Session) Start(requesterID string) (*Outcome, error) {
	if !s.status.IsWaiting() {
		return nil, ErrInvalidAction
	}

	if len(s.players) == 0 || s.players[0].id != requesterID {
		return nil, ErrNotCreator
	}

	if len(s.players) < 2 {
		return nil, ErrNotEnoughPlayers
	}

	s.status = models.GameStatusPlaying
	s.current = 0
	s.players[0].reset()
	s.touch()

	return s.outcome(models.Event{
		Type:       models.EventGameStarted,
		PlayerID:   s.players[0].id,
		PlayerName: s.players[0].name,
	}), nil
}

// Roll throws the unheld dice of the current player, or all six on the
// first roll of a turn and after hot dice. A roll that scores nothing is a
// zonk: the round score is lost and the turn passes.
func (s *Session) Roll(playerID string) (*Outcome, error) {
	p, err := s.requireTurn(playerID)
	if err != nil {
		return nil, err
	}

	fresh := p.freshRoll()
	if !fresh && p.held.All() {
		return nil, ErrInvalidAction
	}

	if fresh {
		p.held = scoring.Mask{}
	}

	rolled := make([]int, 0, scoring.PoolSize)
	for i := range p.dice {
		if p.held[i] {
			continue
		}
		p.dice[i] = s.roller.Roll(6)
		rolled = append(rolled, p.dice[i])
	}

	p.firstRoll = false
	p.hotDice = false
	p.diceToRoll = scoring.PoolSize - p.held.Count()
	p.recompute()

	if !scoring.IsZonk(rolled) {
		s.touch()
		return s.outcome(), nil
	}

	events := []models.Event{{
		Type:       models.EventZonk,
		PlayerID:   p.id,
		PlayerName: p.name,
		Points:     p.roundScore,
		Dice:       rolled,
	}}

	p.zonkStreak++
	if s.rules.ZonkPenalty > 0 && p.zonkStreak >= s.rules.ZonkStreakLimit {
		deducted := min(s.rules.ZonkPenalty, p.banked)
		p.banked -= deducted
		p.zonkStreak = 0
		events = append(events, models.Event{
			Type:       models.EventZonkPenalty,
			PlayerID:   p.id,
			PlayerName: p.name,
			Points:     deducted,
			Score:      p.banked,
		})
	}

	p.reset()
	s.nextPlayer()
	s.touch()

	return s.outcome(events...), nil
}

// ToggleHold flips whether die index is held. Holding is only legal after
// the turn's first roll and not while a hot-dice roll is pending. When every
// die is held and scores, the held points are carried and all six dice come
// back for a bonus roll.
func (s *Session) ToggleHold(playerID string, index int) (*Outcome, error) {
	if index < 0 || index >= scoring.PoolSize {
		return nil, ErrInvalidAction
	}

	p, err := s.requireTurn(playerID)
	if err != nil {
		return nil, err
	}

	if p.freshRoll() {
		return nil, ErrInvalidAction
	}

	p.held[index] = !p.held[index]
	p.recompute()
	p.diceToRoll = scoring.PoolSize - p.held.Count()

	if !scoring.IsHotDice(p.dice, p.held) {
		s.touch()
		return s.outcome(), nil
	}

	p.carry = p.roundScore
	p.held = scoring.Mask{}
	p.diceToRoll = scoring.PoolSize
	p.hotDice = true
	p.recompute()
	s.touch()

	return s.outcome(models.Event{
		Type:       models.EventHotDice,
		PlayerID:   p.id,
		PlayerName: p.name,
		Points:     p.roundScore,
	}), nil
}

// Bank adds the current player's round score to their total. Reaching the
// winning score finishes the game; otherwise the turn passes.
func (s *Session) Bank(playerID string) (*Outcome, error) {
	p, err := s.requireTurn(playerID)
	if err != nil {
		return nil, err
	}

	if !scoring.CanBank(p.banked, p.roundScore, s.rules.OpeningScore) {
		return nil, ErrCannotBank
	}

	points := p.roundScore
	p.banked += points
	p.zonkStreak = 0

	events := []models.Event{{
		Type:       models.EventBanked,
		PlayerID:   p.id,
		PlayerName: p.name,
		Points:     points,
		Score:      p.banked,
	}}

	if p.banked >= s.rules.WinningScore {
		s.status = models.GameStatusFinished
		s.winner = &models.Winner{
			ID:    p.id,
			Name:  p.name,
			Score: p.banked,
		}
		events = append(events, models.Event{
			Type:       models.EventWin,
			PlayerID:   p.id,
			PlayerName: p.name,
			Points:     points,
			Score:      p.banked,
		})
	} else {
		s.nextPlayer()
	}

	p.reset()
	s.touch()

	return s.outcome(events...), nil
}

// RemovePlayer unseats a player in any state. If it was their turn the
// turn passes first, so the next seated player inherits it.
func (s *Session) RemovePlayer(playerID string) (*Outcome, error) {
	idx := s.indexOf(playerID)
	if idx < 0 {
		return nil, ErrPlayerNotInGame
	}

	p := s.players[idx]

	if s.status.IsPlaying() && idx == s.current && len(s.players) > 1 {
		s.nextPlayer()
	}

	s.players = append(s.players[:idx], s.players[idx+1:]...)

	if idx < s.current {
		s.current--
	}
	if s.current >= len(s.players) {
		s.current = 0
	}

	s.touch()

	return s.outcome(models.Event{
		Type:       models.EventPlayerLeft,
		PlayerID:   p.id,
		PlayerName: p.name,
		Score:      p.banked,
	}), nil
}

// reopen abandons an emptied game and returns the room to waiting
func (s *Session) reopen() {
	s.status = models.GameStatusWaiting
	s.current = 0
	s.winner = nil
}

// requireTurn checks the game is in play and it is playerID's turn
func (s *Session) requireTurn(playerID string) (*turnState, error) {
	if !s.status.IsPlaying() || len(s.players) == 0 {
		return nil, ErrInvalidAction
	}

	p := s.players[s.current]
	if p.id != playerID {
		return nil, ErrNotYourTurn
	}

	return p, nil
}

// nextPlayer passes the turn and readies the new current player
func (s *Session) nextPlayer() {
	if len(s.players) == 0 {
		return
	}

	s.current = (s.current + 1) % len(s.players)
	s.players[s.current].reset()
}

func (s *Session) indexOf(playerID string) int {
	for i, p := range s.players {
		if p.id == playerID {
			return i
		}
	}
	return -1
}

func (s *Session) touch() {
	s.version++
	s.updatedAt = s.clock.Now()
}

func (s *Session) outcome(events ...models.Event) *Outcome {
	return &Outcome{
		Game:   s.Snapshot(),
		Events: events,
	}
}
