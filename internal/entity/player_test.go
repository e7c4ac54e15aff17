package entity

import (
	"testing"
	"time"

	"harvest-heist/client/internal/event"
	"harvest-heist/client/internal/geom"
)

func TestPlayerLethalDamageIsIdempotent(t *testing.T) {
	p := NewPlayer(geom.Vec2{X: 100, Y: 100})
	q := event.NewQueue()

	p.TakeDamage(PlayerMaxHealth, q)
	if !p.IsDead() {
		t.Fatalf("expected dead after lethal damage, state=%q", p.State())
	}
	if p.Health() != 0 {
		t.Fatalf("expected health 0, got %d", p.Health())
	}

	p.TakeDamage(50, q)
	if p.Health() != 0 {
		t.Fatalf("health dropped below zero: %d", p.Health())
	}
	if p.State() != PlayerDead {
		t.Fatalf("state left Dead: %q", p.State())
	}

	died := 0
	for _, e := range q.Drain() {
		if _, ok := e.(event.EntityDied); ok {
			died++
		}
	}
	if died != 1 {
		t.Fatalf("expected exactly one death event, got %d", died)
	}
}

func TestPlayerDamagedOverlayRevertsToMotion(t *testing.T) {
	p := NewPlayer(geom.Vec2{X: 100, Y: 100})
	q := event.NewQueue()
	p.SetMoveInput(geom.Vec2{X: 1})

	p.TakeDamage(10, q)
	if p.State() != PlayerDamaged {
		t.Fatalf("expected damaged overlay, got %q", p.State())
	}
	if p.Health() != PlayerMaxHealth-10 {
		t.Fatalf("expected health %d, got %d", PlayerMaxHealth-10, p.Health())
	}

	before := p.Position()
	p.Advance(100*time.Millisecond, q)
	if p.Position().X <= before.X {
		t.Fatal("damaged overlay should not suppress movement")
	}

	p.Advance(600*time.Millisecond, q)
	if p.State() != PlayerRunning {
		t.Fatalf("expected running after overlay with held input, got %q", p.State())
	}
}

func TestPlayerAttackFiresExactlyOnce(t *testing.T) {
	tests := []struct {
		name  string
		start func(*Player) bool
		want  string
	}{
		{"bow", (*Player).StartBowAttack, event.ArrowFired{}.Name()},
		{"sickle", (*Player).StartSickleAttack, event.HarvestSwung{}.Name()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPlayer(geom.Vec2{X: 50, Y: 50})
			q := event.NewQueue()
			if !tc.start(p) {
				t.Fatal("attack refused from idle")
			}
			if tc.start(p) {
				t.Fatal("attack re-entered while attacking")
			}

			// Long frame skips past the fire delay and the whole attack.
			p.Advance(200*time.Millisecond, q)
			fired := 0
			for _, e := range q.Drain() {
				if e.Name() == tc.want {
					fired++
				}
			}
			if fired != 1 {
				t.Fatalf("expected exactly one %s effect, got %d", tc.want, fired)
			}
			if p.State() != PlayerIdle {
				t.Fatalf("expected idle after attack, got %q", p.State())
			}
		})
	}
}

func TestPlayerAttackSuppressesMovement(t *testing.T) {
	p := NewPlayer(geom.Vec2{X: 50, Y: 50})
	q := event.NewQueue()
	p.SetMoveInput(geom.Vec2{X: 1})
	p.Advance(16*time.Millisecond, q)

	if !p.StartBowAttack() {
		t.Fatal("attack refused")
	}
	before := p.Position()
	p.Advance(50*time.Millisecond, q)
	if p.Position() != before {
		t.Fatalf("position moved during attack: %v -> %v", before, p.Position())
	}
}

func TestPlayerFacingDefaultsDownAndTracksMovement(t *testing.T) {
	p := NewPlayer(geom.Vec2{})
	if p.Facing() != FacingDown {
		t.Fatalf("expected default facing down, got %q", p.Facing())
	}
	q := event.NewQueue()
	p.SetMoveInput(geom.Vec2{X: -1})
	p.Advance(16*time.Millisecond, q)
	if p.Facing() != FacingLeft {
		t.Fatalf("expected facing left, got %q", p.Facing())
	}
	p.SetMoveInput(geom.Vec2{})
	p.Advance(16*time.Millisecond, q)
	if p.Facing() != FacingLeft {
		t.Fatalf("stopping should keep the last facing, got %q", p.Facing())
	}
}

func TestPlayerDiagonalMovementIsNormalized(t *testing.T) {
	p := NewPlayer(geom.Vec2{})
	q := event.NewQueue()
	p.SetMoveInput(geom.Vec2{X: 1, Y: 1})
	p.Advance(time.Second, q)
	dist := p.Position().Distance(geom.Vec2{})
	if dist > PlayerSpeed+0.001 {
		t.Fatalf("diagonal speed exceeds %v: moved %v", float64(PlayerSpeed), dist)
	}
}

func TestPlayerDeadIgnoresInputAndAttacks(t *testing.T) {
	p := NewPlayer(geom.Vec2{X: 10, Y: 10})
	q := event.NewQueue()
	p.TakeDamage(PlayerMaxHealth, q)

	p.SetMoveInput(geom.Vec2{X: 1})
	p.Advance(time.Second, q)
	if p.Position() != (geom.Vec2{X: 10, Y: 10}) {
		t.Fatalf("dead player moved to %v", p.Position())
	}
	if p.StartBowAttack() {
		t.Fatal("dead player started an attack")
	}
}
