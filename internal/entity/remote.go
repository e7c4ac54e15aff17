package entity

import (
	"time"

	"harvest-heist/client/internal/geom"
)

const remoteSlideSpeed = 120.0

// RemotePlayer is render-only: it slides toward the last polled position of
// the other participant and derives its facing from the travel direction.
// It never feeds back into authoritative local state.
type RemotePlayer struct {
	id     ID
	pos    geom.Vec2
	target geom.Vec2
	facing Facing
	moving bool
	seeded bool
}

func NewRemotePlayer() *RemotePlayer {
	return &RemotePlayer{id: NewID(), facing: DefaultFacing}
}

func (r *RemotePlayer) ID() ID { return r.id }
func (r *RemotePlayer) Position() geom.Vec2 { return r.pos }
func (r *RemotePlayer) Facing() Facing { return r.facing }
func (r *RemotePlayer) Moving() bool { return r.moving }

// SetTarget records the latest polled position. The first observation snaps
// instead of sliding across the whole map.
func (r *RemotePlayer) SetTarget(v geom.Vec2) {
	r.target = v
	if !r.seeded {
		r.pos = v
		r.seeded = true
	}
}

func (r *RemotePlayer) Advance(dt time.Duration) {
	if !r.seeded {
		return
	}
	delta := r.target.Sub(r.pos)
	dist := delta.Length()
	if dist < 0.5 {
		r.pos = r.target
		r.moving = false
		return
	}
	r.facing = DeriveFacing(delta, r.facing)
	step := remoteSlideSpeed * dt.Seconds()
	if step >= dist {
		r.pos = r.target
	} else {
		r.pos = r.pos.Add(delta.Normalize().Scale(step))
	}
	r.moving = true
}
