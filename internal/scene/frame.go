package scene

import (
	"harvest-heist/client/internal/entity"
	"harvest-heist/client/internal/geom"
	"harvest-heist/client/internal/session"
)

// Frame is the per-tick presentation snapshot: discrete states, facings,
// and HUD numbers. The presentation layer maps these to animations; nothing
// flows back except input signals.
type Frame struct {
	Tick      uint64        `json:"tick"`
	Player    ActorView     `json:"player"`
	Remote    *ActorView    `json:"remote,omitempty"`
	Moles     []ActorView   `json:"moles,omitempty"`
	Shots     []ShotView    `json:"shots,omitempty"`
	Pickups   []PickupView  `json:"pickups,omitempty"`
	Timer     TimerView     `json:"timer"`
	Inventory []SlotView    `json:"inventory"`
	Active    int           `json:"activeSlot"`
	Stats     session.Stats `json:"stats"`
}

type ActorView struct {
	ID     string    `json:"id"`
	Pos    geom.Vec2 `json:"pos"`
	State  string    `json:"state"`
	Facing string    `json:"facing,omitempty"`
	Health int       `json:"health"`
	Max    int       `json:"maxHealth,omitempty"`
}

type ShotView struct {
	ID   string    `json:"id"`
	Kind string    `json:"kind"`
	Pos  geom.Vec2 `json:"pos"`
}

type PickupView struct {
	ID   string    `json:"id"`
	Kind string    `json:"kind"`
	Item string    `json:"item,omitempty"`
	Pos  geom.Vec2 `json:"pos"`
}

type TimerView struct {
	Remaining float64 `json:"remaining"`
	Warning   bool    `json:"warning"`
	Expired   bool    `json:"expired"`
}

type SlotView struct {
	Item string `json:"item,omitempty"`
	Qty  int    `json:"qty,omitempty"`
}

// ViewSink receives presentation frames. Implementations must not block;
// the websocket hub drops frames to slow consumers.
type ViewSink interface {
	PushFrame(Frame)
}

// NopViewSink discards frames, for headless runs and tests.
type NopViewSink struct{}

func (NopViewSink) PushFrame(Frame) {}

func (s *Scene) buildFrame(tick uint64) Frame {
	f := Frame{
		Tick: tick,
		Player: ActorView{
			ID:     string(s.player.ID()),
			Pos:    s.player.Position(),
			State:  string(s.player.State()),
			Facing: string(s.player.Facing()),
			Health: s.player.Health(),
			Max:    s.player.MaxHealth(),
		},
		Timer: TimerView{
			Remaining: s.timer.Remaining(),
			Warning:   s.timer.Warning(),
			Expired:   s.timer.Expired(),
		},
		Active: s.inventory.ActiveSlot(),
		Stats:  s.session.Stats(),
	}
	if s.remote != nil {
		state := "idle"
		if s.remote.Moving() {
			state = "running"
		}
		f.Remote = &ActorView{
			ID:     string(s.remote.ID()),
			Pos:    s.remote.Position(),
			State:  state,
			Facing: string(s.remote.Facing()),
		}
	}
	for _, m := range s.moles {
		f.Moles = append(f.Moles, ActorView{
			ID:     string(m.ID()),
			Pos:    m.Position(),
			State:  string(m.State()),
			Health: m.Health(),
			Max:    entity.MoleMaxHealth,
		})
	}
	for _, p := range s.projectiles {
		f.Shots = append(f.Shots, ShotView{ID: string(p.ID()), Kind: string(p.Kind()), Pos: p.Position()})
	}
	for _, a := range s.arrows {
		f.Shots = append(f.Shots, ShotView{ID: string(a.ID()), Kind: string(a.Kind()), Pos: a.Position()})
	}
	for _, c := range s.coins {
		f.Pickups = append(f.Pickups, PickupView{ID: string(c.ID()), Kind: string(entity.KindCoin), Pos: c.Position()})
	}
	for _, c := range s.crops {
		f.Pickups = append(f.Pickups, PickupView{ID: string(c.ID()), Kind: string(entity.KindCrop), Item: c.Item(), Pos: c.Position()})
	}
	slots := s.inventory.Slots()
	f.Inventory = make([]SlotView, len(slots))
	for i, slot := range slots {
		if !slot.Empty() {
			f.Inventory[i] = SlotView{Item: slot.Item, Qty: slot.Qty}
		}
	}
	return f
}
