// Package inventory implements the slot-based container: fixed 8-slot
// array with stacking, splitting, swapping, and a full-document persistence
// write on every mutation.
package inventory

import (
	"harvest-heist/client/internal/telemetry"
)

// NumSlots is the fixed inventory size.
const NumSlots = 8

// Slot is either empty (zero value) or an item kind with a positive
// quantity.
type Slot struct {
	Item string
	Qty  int
}

func (s Slot) Empty() bool {
	return s.Item == "" || s.Qty <= 0
}

// Inventory is owned by the player session and mutated only from the frame
// loop context, so it carries no locking.
type Inventory struct {
	slots  [NumSlots]Slot
	active int
	store  Store
	logger telemetry.Logger
}

// New loads the persisted document from store, discarding any slot whose
// quantity is non-positive, whose kind is unknown, or whose quantity
// exceeds the kind's stack limit. A load failure starts empty rather than
// blocking the session.
func New(store Store, logger telemetry.Logger) *Inventory {
	if logger == nil {
		logger = telemetry.NopLogger()
	}
	inv := &Inventory{store: store, logger: logger}
	if store == nil {
		return inv
	}
	state, ok, err := store.Load()
	if err != nil {
		logger.Printf("inventory load failed, starting empty: %v", err)
		return inv
	}
	if !ok {
		return inv
	}
	for i, rec := range state.Slots {
		if rec == nil || rec.Qty <= 0 {
			continue
		}
		limit, known := MaxStack(rec.Item)
		if !known || rec.Qty > limit {
			logger.Printf("inventory slot %d dropped: item=%q qty=%d", i, rec.Item, rec.Qty)
			continue
		}
		inv.slots[i] = Slot{Item: rec.Item, Qty: rec.Qty}
	}
	if state.ActiveSlot >= 0 && state.ActiveSlot < NumSlots {
		inv.active = state.ActiveSlot
	}
	return inv
}

func (inv *Inventory) Slots() [NumSlots]Slot {
	return inv.slots
}

func (inv *Inventory) Slot(index int) Slot {
	if index < 0 || index >= NumSlots {
		return Slot{}
	}
	return inv.slots[index]
}

func (inv *Inventory) ActiveSlot() int {
	return inv.active
}

func (inv *Inventory) SetActiveSlot(index int) {
	if index < 0 || index >= NumSlots || index == inv.active {
		return
	}
	inv.active = index
	inv.persist()
}

// Count sums the quantity of kind across all slots.
func (inv *Inventory) Count(kind string) int {
	total := 0
	for _, s := range inv.slots {
		if s.Item == kind {
			total += s.Qty
		}
	}
	return total
}

// AddItem places qty of kind, first topping up existing same-kind stacks
// left to right, then filling empty slots. Returns false when any part of
// qty could not be placed; whatever fit stays placed.
func (inv *Inventory) AddItem(kind string, qty int) bool {
	limit, known := MaxStack(kind)
	if !known || qty <= 0 {
		return false
	}
	remaining := qty
	for i := range inv.slots {
		if remaining == 0 {
			break
		}
		s := &inv.slots[i]
		if s.Item != kind || s.Qty >= limit {
			continue
		}
		take := min(remaining, limit-s.Qty)
		s.Qty += take
		remaining -= take
	}
	for i := range inv.slots {
		if remaining == 0 {
			break
		}
		if !inv.slots[i].Empty() {
			continue
		}
		take := min(remaining, limit)
		inv.slots[i] = Slot{Item: kind, Qty: take}
		remaining -= take
	}
	if remaining != qty {
		inv.persist()
	}
	return remaining == 0
}

// RemoveItem takes qty from a slot, clearing it when the result is not
// positive. Returns false for an empty slot or bad index.
func (inv *Inventory) RemoveItem(index, qty int) bool {
	if index < 0 || index >= NumSlots || qty <= 0 {
		return false
	}
	s := &inv.slots[index]
	if s.Empty() {
		return false
	}
	s.Qty -= qty
	if s.Qty <= 0 {
		*s = Slot{}
	}
	inv.persist()
	return true
}

// SetItem writes a slot directly, used by drag-and-drop. A non-positive
// quantity clears the slot.
func (inv *Inventory) SetItem(index int, kind string, qty int) bool {
	if index < 0 || index >= NumSlots {
		return false
	}
	if qty <= 0 || kind == "" {
		inv.slots[index] = Slot{}
		inv.persist()
		return true
	}
	limit, known := MaxStack(kind)
	if !known || qty > limit {
		return false
	}
	inv.slots[index] = Slot{Item: kind, Qty: qty}
	inv.persist()
	return true
}

func (inv *Inventory) SwapSlots(a, b int) bool {
	if a < 0 || a >= NumSlots || b < 0 || b >= NumSlots || a == b {
		return false
	}
	inv.slots[a], inv.slots[b] = inv.slots[b], inv.slots[a]
	inv.persist()
	return true
}

// SplitStack divides or merges between two slots. With an empty target the
// target receives qty - floor(qty/2) and the source keeps floor(qty/2).
// A same-kind target absorbs up to its stack headroom; a different-kind
// target swaps wholesale.
func (inv *Inventory) SplitStack(src, dst int) bool {
	if src < 0 || src >= NumSlots || dst < 0 || dst >= NumSlots || src == dst {
		return false
	}
	source := &inv.slots[src]
	target := &inv.slots[dst]
	if source.Empty() {
		return false
	}
	switch {
	case target.Empty():
		keep := source.Qty / 2
		moved := source.Qty - keep
		*target = Slot{Item: source.Item, Qty: moved}
		if keep == 0 {
			*source = Slot{}
		} else {
			source.Qty = keep
		}
	case target.Item == source.Item:
		limit, _ := MaxStack(source.Item)
		room := limit - target.Qty
		if room <= 0 {
			return false
		}
		moved := min(source.Qty, room)
		target.Qty += moved
		source.Qty -= moved
		if source.Qty == 0 {
			*source = Slot{}
		}
	default:
		*source, *target = *target, *source
	}
	inv.persist()
	return true
}

// Clear empties every slot, used on scene restart.
func (inv *Inventory) Clear() {
	inv.slots = [NumSlots]Slot{}
	inv.active = 0
	inv.persist()
}

func (inv *Inventory) persist() {
	if inv.store == nil {
		return
	}
	var state State
	for i, s := range inv.slots {
		if s.Empty() {
			continue
		}
		state.Slots[i] = &SlotRecord{Item: s.Item, Qty: s.Qty}
	}
	state.ActiveSlot = inv.active
	if err := inv.store.Save(state); err != nil {
		inv.logger.Printf("inventory persist failed: %v", err)
	}
}
