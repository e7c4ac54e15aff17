package scene

import (
	"math"
	"time"

	"harvest-heist/client/internal/geom"
	"harvest-heist/client/internal/telemetry"
)

const (
	broadcastInterval = 500 * time.Millisecond
	broadcastDeadband = 1.0
)

// Broadcaster pushes the local position to the ledger at most once per
// interval, and only when displacement since the last send exceeds the
// deadband in either axis. Best-effort telemetry: the dispatch function is
// fire-and-forget and failures never reach here.
type Broadcaster struct {
	interval  time.Duration
	deadband  float64
	dispatch  func(x, y float64)
	metrics   telemetry.Metrics
	sinceLast time.Duration
	lastSent  geom.Vec2
	sent      bool
}

func NewBroadcaster(dispatch func(x, y float64), metrics telemetry.Metrics) *Broadcaster {
	if metrics == nil {
		metrics = telemetry.NopMetrics()
	}
	return &Broadcaster{
		interval: broadcastInterval,
		deadband: broadcastDeadband,
		dispatch: dispatch,
		metrics:  metrics,
	}
}

func (b *Broadcaster) Advance(dt time.Duration, pos geom.Vec2) {
	b.sinceLast += dt
	if b.sinceLast < b.interval {
		return
	}
	if b.sent {
		dx := math.Abs(pos.X - b.lastSent.X)
		dy := math.Abs(pos.Y - b.lastSent.Y)
		if dx <= b.deadband && dy <= b.deadband {
			return
		}
	}
	b.dispatch(pos.X, pos.Y)
	b.metrics.Add(telemetry.MetricBroadcastsSent, 1)
	b.lastSent = pos
	b.sent = true
	b.sinceLast = 0
}

// Reset forgets the last sent position, forcing the next eligible tick to
// broadcast.
func (b *Broadcaster) Reset() {
	b.sent = false
	b.sinceLast = 0
}
