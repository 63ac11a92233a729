package registry

import (
	"time"

	"github.com/KirkDiggler/zonk/internal/common/clock"
	"github.com/KirkDiggler/zonk/internal/session"
)

// Room is handed to WithRoom callbacks. It must not be retained after the
// callback returns.
type Room struct {
	id       string
	session  *session.Session
	registry *Registry

	timer      clock.Timer
	generation uint64
	removed    bool
}

// ID returns the room id
func (r *Room) ID() string {
	return r.id
}

// Session returns the room's state machine
func (r *Room) Session() *session.Session {
	return r.session
}

// ScheduleRemoval arms the removal timer, replacing any pending one. The
// room is only removed if it is still empty when the timer fires.
func (r *Room) ScheduleRemoval(after time.Duration) {
	r.CancelRemoval()

	r.generation++
	gen := r.generation
	reg := r.registry
	id := r.id
	r.timer = reg.clock.AfterFunc(after, func() {
		reg.expire(id, gen)
	})

	reg.log.Debug().Str("room_id", id).Dur("after", after).Msg("room removal scheduled")
}

// CancelRemoval disarms a pending removal timer
func (r *Room) CancelRemoval() {
	if r.timer == nil {
		return
	}

	r.timer.Stop()
	r.timer = nil
	// invalidate a callback that already fired and is waiting on the lock
	r.generation++

	r.registry.log.Debug().Str("room_id", r.id).Msg("room removal cancelled")
}
