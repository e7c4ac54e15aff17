package scene

import (
	"testing"
	"time"

	"harvest-heist/client/internal/event"
)

func TestTimerWarnsOnceAndExpiresOnce(t *testing.T) {
	timer := NewTimer(20 * time.Second)
	q := event.NewQueue()

	timer.Advance(9*time.Second, q)
	if q.Len() != 0 {
		t.Fatalf("no events expected above the warning line, got %d", q.Len())
	}
	timer.Advance(2*time.Second, q)
	events := q.Drain()
	if len(events) != 1 {
		t.Fatalf("expected one warning, got %d events", len(events))
	}
	if _, ok := events[0].(event.TimerWarning); !ok {
		t.Fatalf("expected TimerWarning, got %T", events[0])
	}
	if !timer.Warning() {
		t.Fatal("warning flag not set")
	}

	timer.Advance(8*time.Second, q)
	if q.Len() != 0 {
		t.Fatal("warning emitted twice")
	}

	timer.Advance(5*time.Second, q)
	events = q.Drain()
	if len(events) != 1 {
		t.Fatalf("expected one expiry, got %d events", len(events))
	}
	if _, ok := events[0].(event.TimerExpired); !ok {
		t.Fatalf("expected TimerExpired, got %T", events[0])
	}
	if timer.Remaining() != 0 {
		t.Fatalf("remaining = %v after expiry", timer.Remaining())
	}

	timer.Advance(time.Second, q)
	if q.Len() != 0 {
		t.Fatal("expired timer kept emitting")
	}
}

func TestTimerResetRearms(t *testing.T) {
	timer := NewTimer(20 * time.Second)
	q := event.NewQueue()
	timer.Advance(25*time.Second, q)
	q.Drain()

	timer.Reset(30 * time.Second)
	if timer.Expired() || timer.Warning() {
		t.Fatal("reset did not clear flags")
	}
	timer.Advance(21*time.Second, q)
	events := q.Drain()
	if len(events) != 1 {
		t.Fatalf("expected a fresh warning after reset, got %d", len(events))
	}
}
