package entity

import (
	"math/rand"
	"time"

	"harvest-heist/client/internal/event"
	"harvest-heist/client/internal/geom"
)

const (
	MoleMaxHealth = 3

	moleEnteringDuration = 600 * time.Millisecond
	moleIdleMin          = 1000 * time.Millisecond
	moleIdleMax          = 2000 * time.Millisecond
	moleSpittingDuration = 750 * time.Millisecond
	moleSpitDelay        = 300 * time.Millisecond
	moleLeavingDuration  = 900 * time.Millisecond
	moleDamagedDuration  = 200 * time.Millisecond
	moleDeadLinger       = 500 * time.Millisecond
)

const (
	MoleEntering Phase = "entering"
	MoleIdle     Phase = "idle"
	MoleSpitting Phase = "spitting"
	MoleLeaving  Phase = "leaving"
	MoleDamaged  Phase = "damaged"
	MoleDead     Phase = "dead"
	MoleGone     Phase = "gone"
)

// Mole runs one strictly sequential pass: entering, idle, spitting (one
// projectile at the spit delay), leaving, gone. Damage is the only outside
// interruption; lethal damage overrides any phase including a scheduled
// leave.
type Mole struct {
	id      ID
	pos     geom.Vec2
	health  int
	machine *Machine

	spitFired     bool
	resumePhase   Phase
	resumeElapsed time.Duration
}

// NewMole spawns a mole at pos. rng randomizes the idle dwell; nil falls
// back to the shared source.
func NewMole(pos geom.Vec2, rng *rand.Rand) *Mole {
	intn := rand.Int63n
	if rng != nil {
		intn = rng.Int63n
	}
	m := &Mole{
		id:     NewID(),
		pos:    pos,
		health: MoleMaxHealth,
	}
	spread := int64(moleIdleMax - moleIdleMin)
	m.machine = NewMachine(MoleEntering, map[Phase]PhaseDef{
		MoleEntering: {Duration: moleEnteringDuration, Next: MoleIdle},
		MoleIdle: {
			DurationFn: func() time.Duration {
				return moleIdleMin + time.Duration(intn(spread+1))
			},
			Next: MoleSpitting,
		},
		MoleSpitting: {Duration: moleSpittingDuration, Next: MoleLeaving},
		MoleLeaving:  {Duration: moleLeavingDuration, Next: MoleGone},
		MoleDamaged:  {Duration: moleDamagedDuration, Next: MoleIdle},
		MoleDead:     {Duration: moleDeadLinger, Next: MoleGone},
		MoleGone:     {},
	})
	return m
}

func (m *Mole) ID() ID { return m.id }
func (m *Mole) Position() geom.Vec2 { return m.pos }
func (m *Mole) Health() int { return m.health }
func (m *Mole) State() Phase { return m.machine.Current() }

// IsDead reports a terminal mole. Dead moles are excluded from every
// interaction check.
func (m *Mole) IsDead() bool {
	cur := m.machine.Current()
	return cur == MoleDead || cur == MoleGone
}

// Expired reports that the mole finished its run or its death linger and
// should be removed from the scene.
func (m *Mole) Expired() bool {
	return m.machine.Current() == MoleGone
}

// TakeDamage decrements the health pool. Lethal damage transitions to Dead
// immediately, overriding the active phase; non-lethal damage enters a short
// overlay then resumes the interrupted phase where it left off.
func (m *Mole) TakeDamage(amount int, q *event.Queue) {
	if m.IsDead() || amount <= 0 {
		return
	}
	m.health -= amount
	if m.health <= 0 {
		m.health = 0
		m.machine.Set(MoleDead)
		q.Emit(event.EntityDied{ID: string(m.id), Kind: string(KindMole)})
		return
	}
	if m.machine.Current() != MoleDamaged {
		m.resumePhase = m.machine.Current()
		m.resumeElapsed = m.machine.TimeIn()
		m.machine.Set(MoleDamaged)
	}
}

// Advance steps the phase table. playerPos is captured as the projectile
// target at the moment the spit fires.
func (m *Mole) Advance(dt time.Duration, playerPos geom.Vec2, q *event.Queue) {
	if m.Expired() {
		return
	}
	cur := m.machine.Current()
	if cur == MoleSpitting && !m.spitFired && m.machine.TimeIn()+dt >= moleSpitDelay {
		q.Emit(event.ProjectileFired{Origin: m.pos, Target: playerPos})
		m.spitFired = true
	}
	if cur == MoleDamaged {
		remaining := moleDamagedDuration - m.machine.TimeIn()
		if dt < remaining {
			m.machine.Advance(dt)
			return
		}
		m.machine.Resume(m.resumePhase, m.resumeElapsed)
		dt -= remaining
		if m.machine.Current() == MoleSpitting && !m.spitFired && m.machine.TimeIn()+dt >= moleSpitDelay {
			q.Emit(event.ProjectileFired{Origin: m.pos, Target: playerPos})
			m.spitFired = true
		}
		m.machine.Advance(dt)
		return
	}
	m.machine.Advance(dt)
}
