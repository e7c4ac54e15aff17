// Package entity holds the per-kind state machines: the player, the mole
// enemy, projectiles, pickups, and the render-only remote player. Every
// machine is a phase-duration table advanced by a single time-in-state
// accumulator per entity; no entity schedules its own timers.
package entity

import (
	"github.com/oklog/ulid/v2"

	"harvest-heist/client/internal/geom"
)

// ID is an ephemeral per-process handle. Never persisted; entities are
// recreated from scratch on restart.
type ID string

func NewID() ID {
	return ID(ulid.Make().String())
}

type Kind string

const (
	KindPlayer     Kind = "player"
	KindRemote     Kind = "remote_player"
	KindMole       Kind = "mole"
	KindProjectile Kind = "projectile"
	KindArrow      Kind = "arrow"
	KindCoin       Kind = "coin"
	KindCrop       Kind = "crop"
)

type Facing string

const (
	FacingUp    Facing = "up"
	FacingDown  Facing = "down"
	FacingLeft  Facing = "left"
	FacingRight Facing = "right"
)

// DefaultFacing applies until the first non-neutral movement input.
const DefaultFacing = FacingDown

// DeriveFacing picks the dominant axis of v, keeping current when v is
// neutral so a stopped entity holds its last heading.
func DeriveFacing(v geom.Vec2, current Facing) Facing {
	if v.IsZero() {
		return current
	}
	ax, ay := v.X, v.Y
	if ax < 0 {
		ax = -ax
	}
	if ay < 0 {
		ay = -ay
	}
	if ax >= ay {
		if v.X < 0 {
			return FacingLeft
		}
		return FacingRight
	}
	if v.Y < 0 {
		return FacingUp
	}
	return FacingDown
}

// FacingVec returns the unit vector for a facing direction.
func FacingVec(f Facing) geom.Vec2 {
	switch f {
	case FacingUp:
		return geom.Vec2{Y: -1}
	case FacingLeft:
		return geom.Vec2{X: -1}
	case FacingRight:
		return geom.Vec2{X: 1}
	default:
		return geom.Vec2{Y: 1}
	}
}
