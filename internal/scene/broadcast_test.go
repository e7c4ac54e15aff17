package scene

import (
	"testing"
	"time"

	"harvest-heist/client/internal/geom"
)

func TestBroadcasterBoundedByInterval(t *testing.T) {
	calls := 0
	b := NewBroadcaster(func(x, y float64) { calls++ }, nil)

	// Move every frame for 2.5s; displacement always exceeds the deadband.
	pos := geom.Vec2{}
	frame := 16 * time.Millisecond
	for elapsed := time.Duration(0); elapsed < 2500*time.Millisecond; elapsed += frame {
		pos = pos.Add(geom.Vec2{X: 2})
		b.Advance(frame, pos)
	}
	if calls > 5 {
		t.Fatalf("expected at most 5 broadcasts in 2.5s at 500ms interval, got %d", calls)
	}
	if calls == 0 {
		t.Fatal("expected some broadcasts during continuous movement")
	}
}

func TestBroadcasterDeadbandSuppressesStationary(t *testing.T) {
	calls := 0
	b := NewBroadcaster(func(x, y float64) { calls++ }, nil)
	pos := geom.Vec2{X: 100, Y: 100}

	b.Advance(time.Second, pos)
	if calls != 1 {
		t.Fatalf("first eligible tick should broadcast, got %d", calls)
	}
	// Sub-deadband jitter never fires again.
	for i := 0; i < 10; i++ {
		b.Advance(time.Second, pos.Add(geom.Vec2{X: 0.5, Y: -0.5}))
	}
	if calls != 1 {
		t.Fatalf("deadband breached: %d calls", calls)
	}

	b.Advance(time.Second, pos.Add(geom.Vec2{X: 3}))
	if calls != 2 {
		t.Fatalf("real displacement should broadcast, got %d", calls)
	}
}

func TestBroadcasterWaitsOutInterval(t *testing.T) {
	calls := 0
	b := NewBroadcaster(func(x, y float64) { calls++ }, nil)

	b.Advance(100*time.Millisecond, geom.Vec2{X: 10})
	if calls != 0 {
		t.Fatal("broadcast before the interval elapsed")
	}
	b.Advance(400*time.Millisecond, geom.Vec2{X: 20})
	if calls != 1 {
		t.Fatalf("expected broadcast once interval elapsed, got %d", calls)
	}
}
