package event

import (
	"context"
	"strings"

	"harvest-heist/client/internal/inventory"
	"harvest-heist/client/internal/ledger"
	"harvest-heist/client/internal/session"
	"harvest-heist/client/internal/telemetry"
	"harvest-heist/client/logging"
)

// Dispatcher is the one consumer of gameplay events: it performs the local
// mutation, enqueues the paired fire-and-forget ledger call, and publishes
// the structured record. The local effect always happens synchronously and
// is never rolled back if the ledger call later fails.
type Dispatcher struct {
	inventory *inventory.Inventory
	ledger    *ledger.Dispatcher
	session   *session.Session
	logger    telemetry.Logger
	metrics   telemetry.Metrics
	publisher logging.Publisher
}

func NewDispatcher(inv *inventory.Inventory, led *ledger.Dispatcher, sess *session.Session, logger telemetry.Logger, metrics telemetry.Metrics, publisher logging.Publisher) *Dispatcher {
	if logger == nil {
		logger = telemetry.NopLogger()
	}
	if metrics == nil {
		metrics = telemetry.NopMetrics()
	}
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	return &Dispatcher{
		inventory: inv,
		ledger:    led,
		session:   sess,
		logger:    logger,
		metrics:   metrics,
		publisher: publisher,
	}
}

// Handle applies one event. Called from the frame-loop context only.
func (d *Dispatcher) Handle(tick uint64, e Event) {
	switch ev := e.(type) {
	case ItemCollected:
		d.handleCollected(tick, ev)
	case ItemDropped:
		d.publish(tick, logging.Event{
			Type:    logging.EventItemDropped,
			Payload: map[string]any{"item": ev.Item, "qty": ev.Qty},
		})
	case ZoneEntered:
		d.ledger.EnterSafeArea(d.session.GameID())
		d.publish(tick, logging.Event{
			Type:    logging.EventZoneEntered,
			Payload: map[string]any{"x": ev.Pos.X, "y": ev.Pos.Y},
		})
	case EntityDied:
		d.handleDied(tick, ev)
	case PlayerDamaged:
		d.publish(tick, logging.Event{
			Type:     logging.EventPlayerDamaged,
			Severity: logging.SeverityWarn,
			Payload:  map[string]any{"amount": ev.Amount, "health": ev.Health},
		})
	case TimerWarning:
		d.publish(tick, logging.Event{
			Type:     logging.EventTimerWarning,
			Severity: logging.SeverityWarn,
			Payload:  map[string]any{"remaining": ev.Remaining},
		})
	case TimerExpired:
		d.publish(tick, logging.Event{
			Type:     logging.EventTimerExpired,
			Severity: logging.SeverityWarn,
		})
	case SceneRestarted:
		d.publish(tick, logging.Event{Type: logging.EventSceneRestarted})
	}
}

func (d *Dispatcher) handleCollected(tick uint64, ev ItemCollected) {
	qty := ev.Qty
	if qty <= 0 {
		qty = 1
	}
	if !d.inventory.AddItem(ev.Item, qty) {
		// Inventory full: the world entity is already gone and stays gone.
		// No ledger dispatch for items that were not actually kept.
		d.logger.Printf("inventory full, %s discarded", ev.Item)
		return
	}
	switch {
	case ev.Item == inventory.ItemCoin:
		d.session.AddCoins(qty)
		d.metrics.Add(telemetry.MetricItemsCollected, float64(qty))
	case strings.HasPrefix(ev.Item, "crop"):
		d.session.AddCrops(qty)
		d.metrics.Add(telemetry.MetricCropsHarvested, float64(qty))
	default:
		d.metrics.Add(telemetry.MetricItemsCollected, float64(qty))
	}
	d.ledger.CollectAsset(d.session.GameID(), ledger.AssetID(ev.Item))
	eventType := logging.EventItemCollected
	if strings.HasPrefix(ev.Item, "crop") {
		eventType = logging.EventCropHarvested
	}
	d.publish(tick, logging.Event{
		Type:    eventType,
		Payload: map[string]any{"item": ev.Item, "qty": qty},
	})
}

func (d *Dispatcher) handleDied(tick uint64, ev EntityDied) {
	ref := logging.EntityRef{ID: ev.ID, Kind: logging.EntityKind(ev.Kind)}
	switch ev.Kind {
	case "mole":
		d.session.AddMoleKill()
		d.metrics.Add(telemetry.MetricMolesKilled, 1)
		d.publish(tick, logging.Event{Type: logging.EventMoleDied, Actor: ref})
	case "player":
		d.publish(tick, logging.Event{
			Type:     logging.EventPlayerDied,
			Severity: logging.SeverityWarn,
			Actor:    ref,
		})
	}
}

func (d *Dispatcher) publish(tick uint64, e logging.Event) {
	e.Tick = tick
	if e.Severity == 0 {
		e.Severity = logging.SeverityInfo
	}
	d.publisher.Publish(context.Background(), e)
}
