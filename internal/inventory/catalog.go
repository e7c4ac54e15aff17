package inventory

import "fmt"

// DefaultMaxStack applies to every stackable item kind.
const DefaultMaxStack = 64

// Item kinds known to the session. Crops are generated below.
const (
	ItemWood  = "wood"
	ItemOre   = "ore"
	ItemApple = "apple"
	ItemSword = "sword"
	ItemCoin  = "coin"
)

// CropCount is the number of distinct harvestable crop kinds.
const CropCount = 18

var catalog = buildCatalog()

func buildCatalog() map[string]int {
	c := map[string]int{
		ItemWood:  DefaultMaxStack,
		ItemOre:   DefaultMaxStack,
		ItemApple: DefaultMaxStack,
		ItemCoin:  DefaultMaxStack,
		ItemSword: 1,
	}
	for i := 1; i <= CropCount; i++ {
		c[CropItem(i)] = DefaultMaxStack
	}
	return c
}

// CropItem names the inventory kind for a crop index (1-based).
func CropItem(index int) string {
	return fmt.Sprintf("crop%d", index)
}

// MaxStack returns the per-kind stack limit. Unknown kinds report false.
func MaxStack(kind string) (int, bool) {
	limit, ok := catalog[kind]
	return limit, ok
}

// KnownItem reports whether kind exists in the catalog.
func KnownItem(kind string) bool {
	_, ok := catalog[kind]
	return ok
}
