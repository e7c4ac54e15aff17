package logging

import (
	"context"
	"time"
)

type EventType string

// Gameplay event types emitted by the client core.
const (
	EventPlayerSpawned     EventType = "player_spawned"
	EventPlayerDamaged     EventType = "player_damaged"
	EventPlayerDied        EventType = "player_died"
	EventMoleSpawned       EventType = "mole_spawned"
	EventMoleDied          EventType = "mole_died"
	EventItemCollected     EventType = "item_collected"
	EventItemDropped       EventType = "item_dropped"
	EventCropHarvested     EventType = "crop_harvested"
	EventZoneEntered       EventType = "zone_entered"
	EventTimerWarning      EventType = "timer_warning"
	EventTimerExpired      EventType = "timer_expired"
	EventSceneRestarted    EventType = "scene_restarted"
	EventLedgerDispatched  EventType = "ledger_dispatched"
	EventLedgerRejected    EventType = "ledger_rejected"
	EventMirrorPollFailed  EventType = "mirror_poll_failed"
	EventPositionBroadcast EventType = "position_broadcast"
)

type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

type EntityKind string

const (
	EntityKindUnknown    EntityKind = "unknown"
	EntityKindPlayer     EntityKind = "player"
	EntityKindRemote     EntityKind = "remote_player"
	EntityKindMole       EntityKind = "mole"
	EntityKindProjectile EntityKind = "projectile"
	EntityKindArrow      EntityKind = "arrow"
	EntityKindCoin       EntityKind = "coin"
	EntityKindCrop       EntityKind = "crop"
	EntityKindScene      EntityKind = "scene"
)

// Event is a structured gameplay record routed to the configured sinks.
type Event struct {
	Type     EventType      `json:"type"`
	Tick     uint64         `json:"tick"`
	Time     time.Time      `json:"time"`
	Actor    EntityRef      `json:"actor"`
	Targets  []EntityRef    `json:"targets,omitempty"`
	Severity Severity       `json:"severity"`
	Payload  any            `json:"payload,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}

type EntityRef struct {
	ID   string     `json:"id"`
	Kind EntityKind `json:"kind"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type PublisherFunc func(ctx context.Context, event Event)

func (f PublisherFunc) Publish(ctx context.Context, event Event) {
	if f == nil {
		return
	}
	f(ctx, event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) {}

func NopPublisher() Publisher {
	return nopPublisher{}
}

type fieldPublisher struct {
	next   Publisher
	fields map[string]any
}

func (p *fieldPublisher) Publish(ctx context.Context, event Event) {
	if p.next == nil {
		return
	}
	if len(p.fields) > 0 {
		event = cloneEvent(event)
		if event.Extra == nil {
			event.Extra = make(map[string]any, len(p.fields))
		}
		for k, v := range p.fields {
			if _, exists := event.Extra[k]; !exists {
				event.Extra[k] = v
			}
		}
	}
	p.next.Publish(ctx, event)
}

// WithFields returns a publisher that stamps the given fields onto every
// event's Extra map before forwarding.
func WithFields(p Publisher, fields map[string]any) Publisher {
	if p == nil {
		return NopPublisher()
	}
	if len(fields) == 0 {
		return p
	}
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return &fieldPublisher{next: p, fields: copied}
}

func cloneEvent(event Event) Event {
	cloned := event
	if len(event.Targets) > 0 {
		cloned.Targets = append([]EntityRef(nil), event.Targets...)
	}
	if event.Extra != nil {
		copied := make(map[string]any, len(event.Extra))
		for k, v := range event.Extra {
			copied[k] = v
		}
		cloned.Extra = copied
	}
	return cloned
}
