package entity

import (
	"time"

	"harvest-heist/client/internal/geom"
)

const (
	enemyProjectileSpeed   = 200.0
	enemyProjectileEpsilon = 10.0
	arrowSpeed             = 300.0
	arrowEpsilon           = 20.0
	arrowReach             = 1000.0
	projectileMaxRange     = 1000.0

	ArrowDamage           = 1
	EnemyProjectileDamage = 10
)

// Projectile travels in a straight line toward a target point captured at
// spawn. No state machine: it despawns within epsilon of the target or past
// the maximum range from its origin.
type Projectile struct {
	id      ID
	kind    Kind
	origin  geom.Vec2
	pos     geom.Vec2
	target  geom.Vec2
	speed   float64
	epsilon float64
	damage  int
	done    bool
}

// NewEnemyProjectile aims a mole spit at the player position captured at
// fire time.
func NewEnemyProjectile(origin, target geom.Vec2) *Projectile {
	return &Projectile{
		id:      NewID(),
		kind:    KindProjectile,
		origin:  origin,
		pos:     origin,
		target:  target,
		speed:   enemyProjectileSpeed,
		epsilon: enemyProjectileEpsilon,
		damage:  EnemyProjectileDamage,
	}
}

// NewArrow fires from the bow along the facing direction; the target is a
// far point on that ray so the despawn rules stay uniform.
func NewArrow(origin, dir geom.Vec2) *Projectile {
	if dir.IsZero() {
		dir = FacingVec(DefaultFacing)
	}
	return &Projectile{
		id:      NewID(),
		kind:    KindArrow,
		origin:  origin,
		pos:     origin,
		target:  origin.Add(dir.Normalize().Scale(arrowReach)),
		speed:   arrowSpeed,
		epsilon: arrowEpsilon,
		damage:  ArrowDamage,
	}
}

func (p *Projectile) ID() ID { return p.id }
func (p *Projectile) Kind() Kind { return p.kind }
func (p *Projectile) Position() geom.Vec2 { return p.pos }
func (p *Projectile) Damage() int { return p.damage }
func (p *Projectile) Done() bool { return p.done }

// Destroy marks the projectile for removal, used when it connects.
func (p *Projectile) Destroy() {
	p.done = true
}

func (p *Projectile) Advance(dt time.Duration) {
	if p.done {
		return
	}
	dir := p.target.Sub(p.pos)
	dist := dir.Length()
	step := p.speed * dt.Seconds()
	if step >= dist {
		p.pos = p.target
	} else {
		p.pos = p.pos.Add(dir.Normalize().Scale(step))
	}
	if p.pos.Distance(p.target) < p.epsilon || p.pos.Distance(p.origin) > projectileMaxRange {
		p.done = true
	}
}
