package mirror

import (
	"context"
	"sync"
	"time"

	"harvest-heist/client/internal/telemetry"
)

// Poller runs a fetch on a fixed interval with an explicit start/stop
// lifecycle. It is deliberately not a pub/sub primitive: the fetch updates
// its owner's last-value cache, and a failed fetch changes nothing except a
// log line. The next poll fires on schedule regardless.
type Poller struct {
	name     string
	interval time.Duration
	fetch    func(context.Context) error
	logger   telemetry.Logger
	metrics  telemetry.Metrics

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller(name string, interval time.Duration, fetch func(context.Context) error, logger telemetry.Logger, metrics telemetry.Metrics) *Poller {
	if logger == nil {
		logger = telemetry.NopLogger()
	}
	if metrics == nil {
		metrics = telemetry.NopMetrics()
	}
	return &Poller{
		name:     name,
		interval: interval,
		fetch:    fetch,
		logger:   logger,
		metrics:  metrics,
	}
}

// Start begins polling immediately, then on every interval tick. Calling
// Start on a running poller is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.run(ctx, p.done)
}

func (p *Poller) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	p.poll(ctx)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	p.metrics.Add(telemetry.MetricMirrorPolls, 1)
	if err := p.fetch(ctx); err != nil {
		p.metrics.Add(telemetry.MetricMirrorPollFailures, 1)
		p.logger.Printf("poll %s failed: %v", p.name, err)
	}
}

// Stop cancels the poll loop and waits for it to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}
