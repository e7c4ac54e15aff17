package entity

import (
	"time"

	"harvest-heist/client/internal/event"
	"harvest-heist/client/internal/geom"
)

const (
	PlayerSpeed     = 100.0
	PlayerMaxHealth = 200
	PlayerHalfSize  = 8.0

	playerAttackFireDelay = 50 * time.Millisecond
	playerAttackDuration  = 150 * time.Millisecond
	playerDamagedDuration = 600 * time.Millisecond

	// HarvestReach offsets the sickle's attack point in front of the player.
	HarvestReach = 6.0
)

const (
	PlayerIdle         Phase = "idle"
	PlayerRunning      Phase = "running"
	PlayerBowAttack    Phase = "bow_attacking"
	PlayerSickleAttack Phase = "sickle_attacking"
	PlayerDamaged      Phase = "damaged"
	PlayerDead         Phase = "dead"
)

// Player is the locally authoritative actor. Movement input comes from the
// presentation boundary; position is clamped to map bounds by the resolver
// after advancement.
type Player struct {
	id          ID
	pos         geom.Vec2
	facing      Facing
	moveDir     geom.Vec2
	health      int
	maxHealth   int
	machine     *Machine
	attackFired bool
}

func NewPlayer(pos geom.Vec2) *Player {
	p := &Player{
		id:        NewID(),
		pos:       pos,
		facing:    DefaultFacing,
		health:    PlayerMaxHealth,
		maxHealth: PlayerMaxHealth,
	}
	p.machine = NewMachine(PlayerIdle, map[Phase]PhaseDef{
		PlayerIdle:         {},
		PlayerRunning:      {},
		PlayerBowAttack:    {Duration: playerAttackDuration, Next: PlayerIdle},
		PlayerSickleAttack: {Duration: playerAttackDuration, Next: PlayerIdle},
		PlayerDamaged:      {Duration: playerDamagedDuration, Next: PlayerIdle},
		PlayerDead:         {},
	})
	return p
}

func (p *Player) ID() ID { return p.id }
func (p *Player) Position() geom.Vec2 { return p.pos }
func (p *Player) SetPosition(v geom.Vec2) { p.pos = v }
func (p *Player) Facing() Facing { return p.facing }
func (p *Player) Health() int { return p.health }
func (p *Player) MaxHealth() int { return p.maxHealth }
func (p *Player) State() Phase { return p.machine.Current() }
func (p *Player) IsDead() bool { return p.machine.Current() == PlayerDead }

func (p *Player) attacking() bool {
	cur := p.machine.Current()
	return cur == PlayerBowAttack || cur == PlayerSickleAttack
}

// SetMoveInput records the current movement direction. A zero vector stops
// the player.
func (p *Player) SetMoveInput(dir geom.Vec2) {
	if p.IsDead() {
		return
	}
	p.moveDir = dir
}

// StartBowAttack begins a bow attack unless one is already running or the
// player is dead. Returns whether the attack started.
func (p *Player) StartBowAttack() bool {
	return p.startAttack(PlayerBowAttack)
}

// StartSickleAttack begins a sickle swing under the same guard.
func (p *Player) StartSickleAttack() bool {
	return p.startAttack(PlayerSickleAttack)
}

func (p *Player) startAttack(phase Phase) bool {
	if p.IsDead() || p.attacking() {
		return false
	}
	p.attackFired = false
	p.machine.Set(phase)
	return true
}

// TakeDamage clamps health at zero. A lethal hit forces Dead regardless of
// the active phase; a non-lethal hit enters the Damaged overlay.
func (p *Player) TakeDamage(amount int, q *event.Queue) {
	if p.IsDead() || amount <= 0 {
		return
	}
	p.health -= amount
	if p.health <= 0 {
		p.health = 0
		p.moveDir = geom.Vec2{}
		p.machine.Set(PlayerDead)
		q.Emit(event.EntityDied{ID: string(p.id), Kind: string(KindPlayer)})
		return
	}
	p.machine.Set(PlayerDamaged)
	q.Emit(event.PlayerDamaged{Amount: amount, Health: p.health})
}

// Advance steps the state machine and movement. Attacks fire their single
// downstream effect at the fire delay even when a long frame skips straight
// past the phase boundary.
func (p *Player) Advance(dt time.Duration, q *event.Queue) {
	if p.IsDead() {
		return
	}
	if p.attacking() && !p.attackFired && p.machine.TimeIn()+dt >= playerAttackFireDelay {
		p.fireAttack(q)
		p.attackFired = true
	}
	p.machine.Advance(dt)

	cur := p.machine.Current()
	if cur == PlayerBowAttack || cur == PlayerSickleAttack {
		return
	}
	if p.moveDir.IsZero() {
		if cur == PlayerRunning {
			p.machine.Set(PlayerIdle)
		}
		return
	}
	p.facing = DeriveFacing(p.moveDir, p.facing)
	p.pos = p.pos.Add(p.moveDir.Normalize().Scale(PlayerSpeed * dt.Seconds()))
	if cur == PlayerIdle {
		p.machine.Set(PlayerRunning)
	}
}

func (p *Player) fireAttack(q *event.Queue) {
	switch p.machine.Current() {
	case PlayerBowAttack:
		q.Emit(event.ArrowFired{Origin: p.pos, Dir: FacingVec(p.facing)})
	case PlayerSickleAttack:
		point := p.pos.Add(FacingVec(p.facing).Scale(HarvestReach))
		q.Emit(event.HarvestSwung{Point: point})
	}
}

// AttackPoint resolves where a sickle swing lands right now.
func (p *Player) AttackPoint() geom.Vec2 {
	return p.pos.Add(FacingVec(p.facing).Scale(HarvestReach))
}
