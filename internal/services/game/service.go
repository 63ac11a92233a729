package game

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/KirkDiggler/zonk/internal/common/clock"
	"github.com/KirkDiggler/zonk/internal/models"
	"github.com/KirkDiggler/zonk/internal/registry"
	playerRepo "github.com/KirkDiggler/zonk/internal/repositories/player"
	resultsRepo "github.com/KirkDiggler/zonk/internal/repositories/results"
	"github.com/KirkDiggler/zonk/internal/scoring"
	"github.com/KirkDiggler/zonk/internal/services/messaging"
	"github.com/KirkDiggler/zonk/internal/session"
	"github.com/rs/zerolog"
)

// service implements the Service interface
type service struct {
	registry    *registry.Registry
	broadcaster Broadcaster
	messenger   messaging.Service
	resultsRepo resultsRepo.Repository
	playerRepo  playerRepo.Repository
	announcer   Announcer
	clock       clock.Clock
	log         zerolog.Logger

	// members maps a connection to the rooms it is seated in
	mu      sync.Mutex
	members map[string]map[string]struct{}
}

// New creates a new game service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Registry == nil {
		return nil, ErrNilRegistry
	}

	if cfg.Broadcaster == nil {
		return nil, ErrNilBroadcaster
	}

	clk := cfg.Clock
	if clk == nil {
		clk = &clock.DefaultClock{}
	}

	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = cfg.Logger.With().Str("component", "game").Logger()
	}

	return &service{
		registry:    cfg.Registry,
		broadcaster: cfg.Broadcaster,
		messenger:   cfg.Messenger,
		resultsRepo: cfg.ResultsRepo,
		playerRepo:  cfg.PlayerRepo,
		announcer:   cfg.Announcer,
		clock:       clk,
		log:         log,
		members:     make(map[string]map[string]struct{}),
	}, nil
}

// CreateRoom opens a new room seated with the caller
func (s *service) CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error) {
	if input == nil || input.ConnID == "" {
		return nil, ErrInvalidInput
	}

	name := cleanName(input.PlayerName)

	var outcome *session.Outcome
	roomID, err := s.registry.Create(ctx, func(room *registry.Room) error {
		var err error
		outcome, err = room.Session().AddPlayer(input.ConnID, name)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.bind(input.ConnID, roomID)
	s.broadcaster.Send(input.ConnID, &models.Message{
		Type:    models.MessageRoomCreated,
		RoomID:  roomID,
		Payload: &models.RoomRef{RoomID: roomID, PlayerID: input.ConnID},
	})
	s.publish(ctx, roomID, outcome)

	s.log.Info().Str("room_id", roomID).Str("conn_id", input.ConnID).Msg("room created")

	return &CreateRoomOutput{
		RoomID: roomID,
		Game:   outcome.Game,
	}, nil
}

// JoinRoom seats the caller and cancels any pending removal of the room
func (s *service) JoinRoom(ctx context.Context, input *JoinRoomInput) (*JoinRoomOutput, error) {
	if input == nil || input.ConnID == "" {
		return nil, ErrInvalidInput
	}

	roomID, err := normalizeRoomID(input.RoomID)
	if err != nil {
		return nil, err
	}

	name := cleanName(input.PlayerName)

	var outcome *session.Outcome
	err = s.registry.WithRoom(ctx, roomID, func(room *registry.Room) error {
		out, err := room.Session().AddPlayer(input.ConnID, name)
		if err != nil {
			return err
		}
		room.CancelRemoval()
		outcome = out
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.bind(input.ConnID, roomID)
	s.broadcaster.Send(input.ConnID, &models.Message{
		Type:    models.MessageRoomJoined,
		RoomID:  roomID,
		Payload: &models.RoomRef{RoomID: roomID, PlayerID: input.ConnID},
	})

	// a repeat join only refreshes the joiner
	alreadyJoined := len(outcome.Events) == 0
	if alreadyJoined {
		s.broadcaster.Send(input.ConnID, stateMessage(roomID, outcome.Game))
	} else {
		s.publish(ctx, roomID, outcome)
	}

	s.log.Info().Str("room_id", roomID).Str("conn_id", input.ConnID).Bool("already_joined", alreadyJoined).Msg("player joined")

	return &JoinRoomOutput{
		Game:          outcome.Game,
		AlreadyJoined: alreadyJoined,
	}, nil
}

// StartGame moves a waiting room into play
func (s *service) StartGame(ctx context.Context, input *StartGameInput) (*ActionOutput, error) {
	if input == nil {
		return nil, ErrInvalidInput
	}

	return s.act(ctx, input.ConnID, input.RoomID, func(sess *session.Session) (*session.Outcome, error) {
		return sess.Start(input.ConnID)
	})
}

// RollDice throws the caller's unheld dice
func (s *service) RollDice(ctx context.Context, input *RollDiceInput) (*ActionOutput, error) {
	if input == nil {
		return nil, ErrInvalidInput
	}

	return s.act(ctx, input.ConnID, input.RoomID, func(sess *session.Session) (*session.Outcome, error) {
		return sess.Roll(input.ConnID)
	})
}

// ToggleHold flips whether one of the caller's dice is held
func (s *service) ToggleHold(ctx context.Context, input *ToggleHoldInput) (*ActionOutput, error) {
	if input == nil || input.Index < 0 || input.Index >= scoring.PoolSize {
		return nil, ErrInvalidInput
	}

	return s.act(ctx, input.ConnID, input.RoomID, func(sess *session.Session) (*session.Outcome, error) {
		return sess.ToggleHold(input.ConnID, input.Index)
	})
}

// BankPoints adds the caller's round score to their total
func (s *service) BankPoints(ctx context.Context, input *BankPointsInput) (*ActionOutput, error) {
	if input == nil {
		return nil, ErrInvalidInput
	}

	return s.act(ctx, input.ConnID, input.RoomID, func(sess *session.Session) (*session.Outcome, error) {
		return sess.Bank(input.ConnID)
	})
}

// LeaveRoom unseats the caller. The leaver stops receiving the room's
// broadcasts before the remaining players are told.
func (s *service) LeaveRoom(ctx context.Context, input *LeaveRoomInput) (*ActionOutput, error) {
	if input == nil || input.ConnID == "" {
		return nil, ErrInvalidInput
	}

	roomID, err := normalizeRoomID(input.RoomID)
	if err != nil {
		return nil, err
	}

	outcome, err := s.mutate(ctx, roomID, func(sess *session.Session) (*session.Outcome, error) {
		return sess.RemovePlayer(input.ConnID)
	})
	if err != nil {
		return nil, err
	}

	s.unbind(input.ConnID, roomID)
	s.log.Info().Str("room_id", roomID).Str("conn_id", input.ConnID).Msg("player left")

	return s.finish(ctx, roomID, outcome), nil
}

// SendChat relays a line of chat from a seated player
func (s *service) SendChat(ctx context.Context, input *SendChatInput) (*SendChatOutput, error) {
	if input == nil || input.ConnID == "" {
		return nil, ErrInvalidInput
	}

	roomID, err := normalizeRoomID(input.RoomID)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, ErrInvalidInput
	}
	text = truncate(text, MaxChatLength)

	var name string
	err = s.registry.WithRoom(ctx, roomID, func(room *registry.Room) error {
		n, ok := room.Session().PlayerName(input.ConnID)
		if !ok {
			return session.ErrPlayerNotInGame
		}
		name = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	chat := &models.ChatMessage{
		PlayerID:   input.ConnID,
		PlayerName: name,
		Text:       text,
		SentAt:     s.clock.Now(),
	}
	s.broadcaster.Broadcast(roomID, &models.Message{
		Type:    models.MessageChat,
		RoomID:  roomID,
		Payload: chat,
	})

	return &SendChatOutput{
		Message: chat,
	}, nil
}

// Disconnect unseats a closed connection from every room it joined. Rooms
// left empty are scheduled for removal after the grace period.
func (s *service) Disconnect(ctx context.Context, input *DisconnectInput) error {
	if input == nil || input.ConnID == "" {
		return ErrInvalidInput
	}

	for _, roomID := range s.unbindAll(input.ConnID) {
		outcome, err := s.mutate(ctx, roomID, func(sess *session.Session) (*session.Outcome, error) {
			return sess.RemovePlayer(input.ConnID)
		})
		if err != nil {
			if errors.Is(err, registry.ErrRoomNotFound) || errors.Is(err, session.ErrPlayerNotInGame) {
				s.log.Debug().Str("room_id", roomID).Str("conn_id", input.ConnID).Msg("nothing to remove on disconnect")
				continue
			}
			s.log.Warn().Err(err).Str("room_id", roomID).Str("conn_id", input.ConnID).Msg("failed to remove player on disconnect")
			continue
		}

		s.log.Info().Str("room_id", roomID).Str("conn_id", input.ConnID).Msg("player disconnected")
		s.finish(ctx, roomID, outcome)
	}

	return nil
}

// GetRoom returns a room's current state
func (s *service) GetRoom(ctx context.Context, input *GetRoomInput) (*models.Game, error) {
	if input == nil {
		return nil, ErrInvalidInput
	}

	roomID, err := normalizeRoomID(input.RoomID)
	if err != nil {
		return nil, err
	}

	return s.registry.Get(ctx, roomID)
}

// GetLeaderboard returns lifetime standings
func (s *service) GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*models.Leaderboard, error) {
	if s.playerRepo == nil {
		return nil, ErrStatsDisabled
	}

	limit := 0
	if input != nil {
		limit = input.Limit
	}

	return s.playerRepo.GetLeaderboard(ctx, &playerRepo.GetLeaderboardInput{
		Limit: limit,
	})
}

// GetResult returns one finished game
func (s *service) GetResult(ctx context.Context, input *GetResultInput) (*models.GameResult, error) {
	if s.resultsRepo == nil {
		return nil, ErrHistoryDisabled
	}

	if input == nil || strings.TrimSpace(input.ResultID) == "" {
		return nil, ErrInvalidInput
	}

	result, err := s.resultsRepo.GetResult(ctx, &resultsRepo.GetResultInput{
		ResultID: strings.TrimSpace(input.ResultID),
	})
	if err != nil {
		if errors.Is(err, resultsRepo.ErrResultNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}

	return result, nil
}

// ListResults returns recently finished games, newest first
func (s *service) ListResults(ctx context.Context, input *ListResultsInput) (*ListResultsOutput, error) {
	if s.resultsRepo == nil {
		return nil, ErrHistoryDisabled
	}

	if input == nil {
		input = &ListResultsInput{}
	}

	var (
		out *resultsRepo.GetRecentResultsOutput
		err error
	)
	if strings.TrimSpace(input.RoomID) == "" {
		out, err = s.resultsRepo.GetRecentResults(ctx, &resultsRepo.GetRecentResultsInput{
			Limit: input.Limit,
		})
	} else {
		roomID, idErr := normalizeRoomID(input.RoomID)
		if idErr != nil {
			return nil, idErr
		}
		out, err = s.resultsRepo.GetRoomResults(ctx, &resultsRepo.GetRoomResultsInput{
			RoomID: roomID,
			Limit:  input.Limit,
		})
	}
	if err != nil {
		return nil, err
	}

	return &ListResultsOutput{
		Results: out.Results,
	}, nil
}

// GetPlayerStats returns one player's lifetime stats
func (s *service) GetPlayerStats(ctx context.Context, input *GetPlayerStatsInput) (*models.PlayerStats, error) {
	if s.playerRepo == nil {
		return nil, ErrStatsDisabled
	}

	if input == nil || strings.TrimSpace(input.PlayerName) == "" {
		return nil, ErrInvalidInput
	}

	stats, err := s.playerRepo.GetPlayerStats(ctx, &playerRepo.GetPlayerStatsInput{
		PlayerName: input.PlayerName,
	})
	if err != nil {
		if errors.Is(err, playerRepo.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	return stats, nil
}

// RoomCount returns the number of live rooms
func (s *service) RoomCount() int {
	return s.registry.Len()
}

// act runs a session mutation for a seated player and publishes the outcome
func (s *service) act(ctx context.Context, connID, rawRoomID string, fn func(*session.Session) (*session.Outcome, error)) (*ActionOutput, error) {
	if connID == "" {
		return nil, ErrInvalidInput
	}

	roomID, err := normalizeRoomID(rawRoomID)
	if err != nil {
		return nil, err
	}

	outcome, err := s.mutate(ctx, roomID, fn)
	if err != nil {
		return nil, err
	}

	return s.finish(ctx, roomID, outcome), nil
}

// mutate applies fn under the room lock. A room left empty is scheduled
// for removal under the same lock.
func (s *service) mutate(ctx context.Context, roomID string, fn func(*session.Session) (*session.Outcome, error)) (*session.Outcome, error) {
	var outcome *session.Outcome
	err := s.registry.WithRoom(ctx, roomID, func(room *registry.Room) error {
		out, err := fn(room.Session())
		if err != nil {
			return err
		}
		if room.Session().IsEmpty() {
			room.ScheduleRemoval(s.registry.GracePeriod())
		}
		outcome = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// finish broadcasts an outcome and records a win. Runs without the room lock.
func (s *service) finish(ctx context.Context, roomID string, outcome *session.Outcome) *ActionOutput {
	s.publish(ctx, roomID, outcome)

	for _, e := range outcome.Events {
		if e.Type == models.EventWin {
			s.recordWin(ctx, outcome.Game)
			break
		}
	}

	return &ActionOutput{
		Game:   outcome.Game,
		Events: outcome.Events,
	}
}

// publish sends the snapshot then each event to the room
func (s *service) publish(ctx context.Context, roomID string, outcome *session.Outcome) {
	s.broadcaster.Broadcast(roomID, stateMessage(roomID, outcome.Game))

	for i := range outcome.Events {
		e := outcome.Events[i]
		e.Message = s.eventMessage(ctx, e)
		outcome.Events[i] = e

		s.broadcaster.Broadcast(roomID, &models.Message{
			Type:    models.MessageEvent,
			RoomID:  roomID,
			Payload: &e,
		})
	}
}

func (s *service) eventMessage(ctx context.Context, e models.Event) string {
	if s.messenger == nil {
		return ""
	}

	out, err := s.messenger.GetEventMessage(ctx, &messaging.GetEventMessageInput{Event: e})
	if err != nil {
		s.log.Debug().Err(err).Str("event", string(e.Type)).Msg("no message for event")
		return ""
	}
	return out.Message
}

// recordWin persists a finished game. Failures are logged; the game is
// already over for the players either way.
func (s *service) recordWin(ctx context.Context, game *models.Game) {
	result := resultFromGame(game)

	if s.resultsRepo != nil {
		out, err := s.resultsRepo.SaveResult(ctx, &resultsRepo.SaveResultInput{Result: result})
		if err != nil {
			s.log.Error().Err(err).Str("room_id", game.RoomID).Msg("failed to save game result")
		} else {
			result.ID = out.ResultID
		}
	}

	if s.playerRepo != nil {
		for _, st := range result.Standings {
			_, err := s.playerRepo.RecordGame(ctx, &playerRepo.RecordGameInput{
				PlayerName: st.PlayerName,
				Score:      st.Score,
				Won:        st.PlayerID == result.WinnerID,
				PlayedAt:   result.FinishedAt,
			})
			if err != nil {
				s.log.Error().Err(err).Str("player", st.PlayerName).Msg("failed to record player stats")
			}
		}
	}

	if s.announcer != nil {
		if err := s.announcer.AnnounceWin(ctx, result); err != nil {
			s.log.Warn().Err(err).Str("room_id", game.RoomID).Msg("failed to announce win")
		}
	}

	s.log.Info().
		Str("room_id", game.RoomID).
		Str("winner", result.WinnerName).
		Int("score", game.Winner.Score).
		Msg("game finished")
}

func resultFromGame(game *models.Game) *models.GameResult {
	standings := make([]*models.Standing, len(game.Players))
	for i, p := range game.Players {
		standings[i] = &models.Standing{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Score:      p.Score,
		}
	}

	result := &models.GameResult{
		RoomID:       game.RoomID,
		WinningScore: game.WinningScore,
		Standings:    standings,
		FinishedAt:   game.UpdatedAt,
	}
	if game.Winner != nil {
		result.WinnerID = game.Winner.ID
		result.WinnerName = game.Winner.Name
	}
	return result
}

func stateMessage(roomID string, game *models.Game) *models.Message {
	return &models.Message{
		Type:    models.MessageState,
		RoomID:  roomID,
		Payload: game,
	}
}

// normalizeRoomID accepts room codes in any case and with stray whitespace
func normalizeRoomID(raw string) (string, error) {
	id := strings.ToUpper(strings.TrimSpace(raw))
	if id == "" {
		return "", ErrInvalidInput
	}
	return id, nil
}

// cleanName trims a display name to MaxNameLength. Empty names are left
// for the session to fill with a seat-based default.
func cleanName(raw string) string {
	return truncate(strings.TrimSpace(raw), MaxNameLength)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
