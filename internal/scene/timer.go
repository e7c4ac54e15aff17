package scene

import (
	"time"

	"harvest-heist/client/internal/event"
)

// warningThreshold is where the HUD switches to the urgent countdown style.
const warningThreshold = 10 * time.Second

// Timer is the session countdown. Crossing the warning line and reaching
// zero each emit exactly one event; the lethal consequence of expiry is the
// scene's to apply.
type Timer struct {
	limit     time.Duration
	remaining time.Duration
	warned    bool
	expired   bool
}

func NewTimer(limit time.Duration) *Timer {
	return &Timer{limit: limit, remaining: limit}
}

// Reset restarts the countdown with a possibly upgraded limit.
func (t *Timer) Reset(limit time.Duration) {
	t.limit = limit
	t.remaining = limit
	t.warned = false
	t.expired = false
}

func (t *Timer) Advance(dt time.Duration, q *event.Queue) {
	if t.expired {
		return
	}
	t.remaining -= dt
	if t.remaining < 0 {
		t.remaining = 0
	}
	if !t.warned && t.remaining <= warningThreshold {
		t.warned = true
		q.Emit(event.TimerWarning{Remaining: t.remaining.Seconds()})
	}
	if t.remaining == 0 {
		t.expired = true
		q.Emit(event.TimerExpired{})
	}
}

// Remaining reports seconds left for HUD rendering.
func (t *Timer) Remaining() float64 {
	return t.remaining.Seconds()
}

func (t *Timer) Warning() bool {
	return t.warned && !t.expired
}

func (t *Timer) Expired() bool {
	return t.expired
}
