// Package event defines the typed contract between the entity state
// machines, the interaction resolver, and the side-effect dispatcher.
// State machines emit events into a Queue; the scene drains the queue once
// per frame, handles spawn-type events itself, and hands the rest to the
// Dispatcher.
package event

import "harvest-heist/client/internal/geom"

type Event interface {
	Name() string
}

// EntityDied marks a terminal transition. Kind distinguishes player deaths
// (which freeze input) from mole deaths (which award progress).
type EntityDied struct {
	ID   string
	Kind string
}

func (EntityDied) Name() string { return "entity_died" }

// PlayerDamaged is emitted on every non-lethal hit against the player.
type PlayerDamaged struct {
	Amount int
	Health int
}

func (PlayerDamaged) Name() string { return "player_damaged" }

// ItemCollected requests an inventory add plus the matching ledger
// collect_asset dispatch. The local mutation always wins (fire-and-forget).
type ItemCollected struct {
	Item string
	Qty  int
}

func (ItemCollected) Name() string { return "item_collected" }

// ItemDropped removes from the inventory and spawns a world pickup.
type ItemDropped struct {
	Item string
	Qty  int
	Pos  geom.Vec2
}

func (ItemDropped) Name() string { return "item_dropped" }

// ZoneEntered fires when the debounced door trigger trips.
type ZoneEntered struct {
	Pos geom.Vec2
}

func (ZoneEntered) Name() string { return "zone_entered" }

// ArrowFired is emitted by the player's bow attack at its fire delay.
type ArrowFired struct {
	Origin geom.Vec2
	Dir    geom.Vec2
}

func (ArrowFired) Name() string { return "arrow_fired" }

// ProjectileFired is emitted by a spitting mole, aimed at the player's
// position captured at fire time.
type ProjectileFired struct {
	Origin geom.Vec2
	Target geom.Vec2
}

func (ProjectileFired) Name() string { return "projectile_fired" }

// HarvestSwung is emitted by the sickle attack at its resolve delay; the
// resolver collects any crops within the harvest radius of Point.
type HarvestSwung struct {
	Point geom.Vec2
}

func (HarvestSwung) Name() string { return "harvest_swung" }

// TimerWarning fires once when the session timer crosses the warning line.
type TimerWarning struct {
	Remaining float64
}

func (TimerWarning) Name() string { return "timer_warning" }

// TimerExpired fires once when the session timer reaches zero.
type TimerExpired struct{}

func (TimerExpired) Name() string { return "timer_expired" }

// SceneRestarted marks a full reset back to a fresh run.
type SceneRestarted struct{}

func (SceneRestarted) Name() string { return "scene_restarted" }

// Queue is a frame-scoped event collector. Entities append during
// advancement; the scene drains once per frame. Single-goroutine use only.
type Queue struct {
	events []Event
}

func NewQueue() *Queue {
	return &Queue{events: make([]Event, 0, 32)}
}

func (q *Queue) Emit(e Event) {
	if q == nil || e == nil {
		return
	}
	q.events = append(q.events, e)
}

// Drain returns the buffered events in emission order and resets the queue.
func (q *Queue) Drain() []Event {
	if q == nil || len(q.events) == 0 {
		return nil
	}
	drained := make([]Event, len(q.events))
	copy(drained, q.events)
	q.events = q.events[:0]
	return drained
}

func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.events)
}
