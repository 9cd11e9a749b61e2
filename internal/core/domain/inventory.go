package domain

// Inventory is the singleton machine record. Counters are unsigned so they
// can never go negative.
type Inventory struct {
	Owner     string `json:"owner"`
	Chocolate uint32 `json:"chocolate"`
	Water     uint32 `json:"water"`
	Chips     uint32 `json:"chips"`
}

// ItemsCount is the counter projection of an Inventory. It also carries
// refill deltas.
type ItemsCount struct {
	Chocolate uint32 `json:"chocolate"`
	Water     uint32 `json:"water"`
	Chips     uint32 `json:"chips"`
}

func (c ItemsCount) IsZero() bool {
	return c.Chocolate == 0 && c.Water == 0 && c.Chips == 0
}

// Count returns the counter for the given item. Unknown items report zero.
func (inv Inventory) Count(item ItemType) uint32 {
	switch item {
	case ItemChocolate:
		return inv.Chocolate
	case ItemWater:
		return inv.Water
	case ItemChips:
		return inv.Chips
	default:
		return 0
	}
}

// Query projects the current counters. It never fails and never mutates.
func Query(inv Inventory) ItemsCount {
	return ItemsCount{
		Chocolate: inv.Chocolate,
		Water:     inv.Water,
		Chips:     inv.Chips,
	}
}
