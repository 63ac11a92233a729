// Package registry maps room ids to live game sessions and serialises every
// mutation of a room behind that room's own lock.
//
// Lock order is always entry before registry. The registry lock is never
// held while waiting on an entry.
package registry

import (
	"context"
	"sync"
	"time"

	"github.com/KirkDiggler/zonk/internal/common/clock"
	"github.com/KirkDiggler/zonk/internal/common/uuid"
	"github.com/KirkDiggler/zonk/internal/dice"
	"github.com/KirkDiggler/zonk/internal/models"
	"github.com/KirkDiggler/zonk/internal/session"
	"github.com/rs/zerolog"
)

// DefaultGracePeriod is how long an empty room survives before it is freed
const DefaultGracePeriod = 30 * time.Second

// maxIDAttempts bounds retries when a generated room id is already taken
const maxIDAttempts = 8

// Config holds configuration for the registry
type Config struct {
	// Rules applied to every new session
	Rules session.Rules

	// GracePeriod is the delay before an empty room is removed
	GracePeriod time.Duration

	DiceRoller  dice.Roller
	Clock       clock.Clock
	IDGenerator uuid.UUID

	// Logger defaults to a disabled logger
	Logger *zerolog.Logger
}

type entry struct {
	mu   sync.Mutex
	room *Room
}

// Registry is safe for concurrent use
type Registry struct {
	rules       session.Rules
	gracePeriod time.Duration
	roller      dice.Roller
	clock       clock.Clock
	ids         uuid.UUID
	log         zerolog.Logger

	mu     sync.RWMutex
	rooms  map[string]*entry
	closed bool
}

// New creates an empty registry
func New(cfg *Config) (*Registry, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.DiceRoller == nil {
		return nil, ErrNilDiceRoller
	}

	if cfg.IDGenerator == nil {
		return nil, ErrNilIDGen
	}

	clk := cfg.Clock
	if clk == nil {
		clk = &clock.DefaultClock{}
	}

	grace := cfg.GracePeriod
	if grace <= 0 {
		grace = DefaultGracePeriod
	}

	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = cfg.Logger.With().Str("component", "registry").Logger()
	}

	return &Registry{
		rules:       cfg.Rules,
		gracePeriod: grace,
		roller:      cfg.DiceRoller,
		clock:       clk,
		ids:         cfg.IDGenerator,
		log:         log,
		rooms:       make(map[string]*entry),
	}, nil
}

// GracePeriod returns the delay applied by ScheduleRemoval callers
func (r *Registry) GracePeriod() time.Duration {
	return r.gracePeriod
}

// Create allocates a new room and runs init on it before any other caller
// can act on the room. If init fails the room is discarded.
func (r *Registry) Create(ctx context.Context, init func(*Room) error) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := r.ids.NewUUID()

		sess, err := session.New(&session.Config{
			RoomID:     id,
			Rules:      r.rules,
			DiceRoller: r.roller,
			Clock:      r.clock,
		})
		if err != nil {
			return "", err
		}

		e := &entry{room: &Room{id: id, session: sess, registry: r}}
		e.mu.Lock()

		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			e.mu.Unlock()
			return "", ErrClosed
		}
		if _, taken := r.rooms[id]; taken {
			r.mu.Unlock()
			e.mu.Unlock()
			r.log.Debug().Str("room_id", id).Msg("room id collision, retrying")
			continue
		}
		r.rooms[id] = e
		r.mu.Unlock()

		err = r.initRoom(e.room, init)
		e.mu.Unlock()
		if err != nil {
			return "", err
		}

		r.log.Info().Str("room_id", id).Msg("room created")
		return id, nil
	}

	return "", ErrIDExhausted
}

// initRoom runs init with the entry lock held by the caller
func (r *Registry) initRoom(room *Room, init func(*Room) error) error {
	if init != nil {
		if err := init(room); err != nil {
			room.removed = true
			r.delete(room.id)
			return err
		}
	}

	if room.session.IsEmpty() {
		room.ScheduleRemoval(r.gracePeriod)
	}
	return nil
}

// Get returns a snapshot of the room's current state
func (r *Registry) Get(ctx context.Context, roomID string) (*models.Game, error) {
	var game *models.Game
	err := r.WithRoom(ctx, roomID, func(room *Room) error {
		game = room.Session().Snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return game, nil
}

// WithRoom runs fn with exclusive access to the room. Calls on the same
// room never interleave; calls on different rooms never wait on each other.
func (r *Registry) WithRoom(ctx context.Context, roomID string, fn func(*Room) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.RLock()
	e, ok := r.rooms[roomID]
	r.mu.RUnlock()
	if !ok {
		return ErrRoomNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// removed between lookup and lock
	if e.room.removed {
		return ErrRoomNotFound
	}

	return fn(e.room)
}

// ScheduleRemoval frees the room after the delay unless cancelled first
func (r *Registry) ScheduleRemoval(ctx context.Context, roomID string, after time.Duration) error {
	return r.WithRoom(ctx, roomID, func(room *Room) error {
		room.ScheduleRemoval(after)
		return nil
	})
}

// CancelRemoval stops a pending removal. It is a no-op if none is pending.
func (r *Registry) CancelRemoval(ctx context.Context, roomID string) error {
	return r.WithRoom(ctx, roomID, func(room *Room) error {
		room.CancelRemoval()
		return nil
	})
}

// Len returns the number of live rooms
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Close stops every pending removal and rejects new rooms
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	entries := make([]*entry, 0, len(r.rooms))
	for _, e := range r.rooms {
		entries = append(entries, e)
	}
	r.mu.Unlock()

	for _, e := range entries {
		e.mu.Lock()
		e.room.CancelRemoval()
		e.mu.Unlock()
	}
}

// expire is the removal timer callback
func (r *Registry) expire(roomID string, generation uint64) {
	r.mu.RLock()
	e, ok := r.rooms[roomID]
	r.mu.RUnlock()
	if !ok {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	room := e.room
	// a stale timer, or someone rejoined in the meantime
	if room.removed || room.generation != generation || room.timer == nil {
		return
	}
	room.timer = nil

	if !room.session.IsEmpty() {
		return
	}

	room.removed = true
	r.delete(roomID)
	r.log.Info().Str("room_id", roomID).Msg("empty room removed")
}

func (r *Registry) delete(roomID string) {
	r.mu.Lock()
	delete(r.rooms, roomID)
	r.mu.Unlock()
}
