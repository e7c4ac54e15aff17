package inventory

import "testing"

func newTestInventory() (*Inventory, *MemoryStore) {
	store := NewMemoryStore()
	return New(store, nil), store
}

func TestAddItemStacksThenOverflows(t *testing.T) {
	inv, _ := newTestInventory()

	if !inv.AddItem(ItemWood, 70) {
		t.Fatal("expected 70 wood to fit in an empty inventory")
	}
	if got := inv.Slot(0); got.Item != ItemWood || got.Qty != 64 {
		t.Fatalf("slot 0 = %+v, want 64 wood", got)
	}
	if got := inv.Slot(1); got.Item != ItemWood || got.Qty != 6 {
		t.Fatalf("slot 1 = %+v, want 6 wood", got)
	}

	if !inv.AddItem(ItemWood, 10) {
		t.Fatal("expected top-up to fit")
	}
	if got := inv.Slot(1); got.Qty != 16 {
		t.Fatalf("slot 1 = %+v, want 16 wood after top-up", got)
	}
	if got := inv.Slot(2); !got.Empty() {
		t.Fatalf("slot 2 should stay empty, got %+v", got)
	}
}

func TestAddItemRejectsOverflowButKeepsPartial(t *testing.T) {
	inv, _ := newTestInventory()
	for i := 0; i < NumSlots; i++ {
		if !inv.SetItem(i, ItemOre, DefaultMaxStack) {
			t.Fatalf("seeding slot %d failed", i)
		}
	}
	inv.SetItem(NumSlots-1, ItemOre, DefaultMaxStack-4)

	if inv.AddItem(ItemOre, 10) {
		t.Fatal("expected partial placement to report false")
	}
	if got := inv.Count(ItemOre); got != NumSlots*DefaultMaxStack-4+4 {
		t.Fatalf("ore count = %d, want headroom filled", got)
	}
}

func TestAddItemUnknownKind(t *testing.T) {
	inv, store := newTestInventory()
	if inv.AddItem("mystery", 1) {
		t.Fatal("unknown kind placed")
	}
	if store.Saves() != 0 {
		t.Fatalf("rejected add persisted %d times", store.Saves())
	}
}

func TestSwordDoesNotStack(t *testing.T) {
	inv, _ := newTestInventory()
	if !inv.AddItem(ItemSword, 1) {
		t.Fatal("sword placement failed")
	}
	if !inv.AddItem(ItemSword, 1) {
		t.Fatal("second sword should take a new slot")
	}
	if got := inv.Slot(0).Qty; got != 1 {
		t.Fatalf("slot 0 sword qty = %d, want 1", got)
	}
	if got := inv.Slot(1); got.Item != ItemSword || got.Qty != 1 {
		t.Fatalf("slot 1 = %+v, want a second sword", got)
	}
}

func TestSplitStackEmptyTargetConvention(t *testing.T) {
	// Target receives qty - floor(qty/2); source keeps floor(qty/2).
	tests := []struct {
		qty        int
		wantSource int
		wantTarget int
	}{
		{7, 3, 4},
		{8, 4, 4},
		{1, 0, 1},
	}
	for _, tc := range tests {
		inv, _ := newTestInventory()
		inv.SetItem(0, ItemWood, tc.qty)
		if !inv.SplitStack(0, 3) {
			t.Fatalf("qty %d: split failed", tc.qty)
		}
		if got := inv.Slot(0).Qty; got != tc.wantSource {
			t.Fatalf("qty %d: source = %d, want %d", tc.qty, got, tc.wantSource)
		}
		if got := inv.Slot(3).Qty; got != tc.wantTarget {
			t.Fatalf("qty %d: target = %d, want %d", tc.qty, got, tc.wantTarget)
		}
		if total := inv.Count(ItemWood); total != tc.qty {
			t.Fatalf("qty %d: split lost items, total %d", tc.qty, total)
		}
	}
}

func TestSplitStackSameKindTransfersUpToHeadroom(t *testing.T) {
	inv, _ := newTestInventory()
	inv.SetItem(0, ItemWood, 30)
	inv.SetItem(1, ItemWood, 60)

	if !inv.SplitStack(0, 1) {
		t.Fatal("merge failed")
	}
	if got := inv.Slot(1).Qty; got != DefaultMaxStack {
		t.Fatalf("target = %d, want %d", got, DefaultMaxStack)
	}
	if got := inv.Slot(0).Qty; got != 26 {
		t.Fatalf("source = %d, want 26", got)
	}
}

func TestSplitStackDifferentKindSwaps(t *testing.T) {
	inv, _ := newTestInventory()
	inv.SetItem(0, ItemWood, 5)
	inv.SetItem(1, ItemApple, 9)

	if !inv.SplitStack(0, 1) {
		t.Fatal("swap failed")
	}
	if got := inv.Slot(0); got.Item != ItemApple || got.Qty != 9 {
		t.Fatalf("slot 0 = %+v, want 9 apple", got)
	}
	if got := inv.Slot(1); got.Item != ItemWood || got.Qty != 5 {
		t.Fatalf("slot 1 = %+v, want 5 wood", got)
	}
}

func TestRemoveItemClearsAtZero(t *testing.T) {
	inv, _ := newTestInventory()
	inv.SetItem(2, ItemCoin, 3)

	if !inv.RemoveItem(2, 5) {
		t.Fatal("remove failed")
	}
	if got := inv.Slot(2); !got.Empty() {
		t.Fatalf("slot 2 should be empty, got %+v", got)
	}
	if inv.RemoveItem(2, 1) {
		t.Fatal("remove from empty slot succeeded")
	}
}

func TestEveryMutationPersists(t *testing.T) {
	inv, store := newTestInventory()
	inv.AddItem(ItemWood, 5)
	inv.SetItem(4, ItemCoin, 2)
	inv.SwapSlots(0, 4)
	inv.SplitStack(4, 5)
	inv.RemoveItem(5, 1)
	inv.SetActiveSlot(3)
	inv.Clear()

	if got := store.Saves(); got != 7 {
		t.Fatalf("expected 7 persistence writes, got %d", got)
	}
}

func TestLoadDropsInvalidSlots(t *testing.T) {
	store := NewMemoryStore()
	var seeded State
	seeded.Slots[0] = &SlotRecord{Item: ItemWood, Qty: 10}
	seeded.Slots[1] = &SlotRecord{Item: "mystery", Qty: 5}
	seeded.Slots[2] = &SlotRecord{Item: ItemOre, Qty: 0}
	seeded.Slots[3] = &SlotRecord{Item: ItemApple, Qty: DefaultMaxStack + 1}
	seeded.ActiveSlot = 99
	store.Seed(seeded)

	inv := New(store, nil)
	if got := inv.Slot(0); got.Item != ItemWood || got.Qty != 10 {
		t.Fatalf("slot 0 = %+v, want 10 wood", got)
	}
	for _, i := range []int{1, 2, 3} {
		if got := inv.Slot(i); !got.Empty() {
			t.Fatalf("slot %d should be dropped, got %+v", i, got)
		}
	}
	if got := inv.ActiveSlot(); got != 0 {
		t.Fatalf("out-of-range active slot should reset to 0, got %d", got)
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := t.TempDir() + "/inventory.db"
	store, err := OpenSQLiteStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	if _, ok, err := store.Load(); err != nil || ok {
		t.Fatalf("fresh store: ok=%v err=%v, want empty", ok, err)
	}

	var state State
	state.Slots[0] = &SlotRecord{Item: ItemCoin, Qty: 12}
	state.ActiveSlot = 2
	if err := store.Save(state); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, ok, err := store.Load()
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if loaded.ActiveSlot != 2 || loaded.Slots[0] == nil || loaded.Slots[0].Qty != 12 {
		t.Fatalf("loaded = %+v, want saved state back", loaded)
	}
}
