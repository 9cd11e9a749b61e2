package domain

import "math"

// Initialize builds the first record of a machine. It always succeeds;
// persisting the record and preventing a second call are left to the caller.
func Initialize(owner string, counts ItemsCount) Inventory {
	return Inventory{
		Owner:     owner,
		Chocolate: counts.Chocolate,
		Water:     counts.Water,
		Chips:     counts.Chips,
	}
}

// Dispense takes one unit of item out of inv. Anyone may dispense, so caller
// is not checked. On failure inv is returned unchanged.
func Dispense(inv Inventory, caller string, item ItemType) (Inventory, error) {
	if !item.Valid() {
		return inv, ErrUnknownItemType
	}
	if inv.Count(item) == 0 {
		return inv, &OutOfStockError{Item: item}
	}

	next := inv
	switch item {
	case ItemChocolate:
		next.Chocolate--
	case ItemWater:
		next.Water--
	case ItemChips:
		next.Chips--
	}
	return next, nil
}

// Refill adds delta to the counters of inv. The zero-amount check runs before
// the owner check, so a non-owner sending all zeros sees ErrInvalidRefillAmount.
// Additions that would exceed math.MaxUint32 are rejected with ErrOverflow
// rather than wrapped.
func Refill(inv Inventory, caller string, delta ItemsCount) (Inventory, error) {
	if delta.IsZero() {
		return inv, ErrInvalidRefillAmount
	}
	if caller != inv.Owner {
		return inv, ErrUnauthorized
	}

	chocolate, ok := addCount(inv.Chocolate, delta.Chocolate)
	if !ok {
		return inv, ErrOverflow
	}
	water, ok := addCount(inv.Water, delta.Water)
	if !ok {
		return inv, ErrOverflow
	}
	chips, ok := addCount(inv.Chips, delta.Chips)
	if !ok {
		return inv, ErrOverflow
	}

	next := inv
	next.Chocolate = chocolate
	next.Water = water
	next.Chips = chips
	return next, nil
}

func addCount(current, delta uint32) (uint32, bool) {
	if delta > math.MaxUint32-current {
		return current, false
	}
	return current + delta, true
}
